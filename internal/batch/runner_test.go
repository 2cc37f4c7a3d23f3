package batch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"bookconv/internal/batch"
	"bookconv/internal/services"
	"bookconv/internal/services/calibre"
)

// fakeConverter returns scripted results per input base name and writes the
// output file on success, the way the real tool would.
type fakeConverter struct {
	results map[string]calibre.Result
	calls   []string
	onCall  func(name string)
}

func (f *fakeConverter) Convert(_ context.Context, inputPath, outputPath string) calibre.Result {
	name := filepath.Base(inputPath)
	f.calls = append(f.calls, name)
	if f.onCall != nil {
		f.onCall(name)
	}
	result, ok := f.results[name]
	if !ok {
		result = calibre.Result{Outcome: calibre.Success}
	}
	if result.Outcome == calibre.Success {
		_ = os.WriteFile(outputPath, []byte("converted"), 0o644)
	}
	return result
}

type recordingObserver struct {
	t          *testing.T
	total      int
	processing []batch.Task
	logs       []string
	states     []batch.State
}

func (r *recordingObserver) Listing(total int) { r.total = total }

func (r *recordingObserver) Processing(_ int, task batch.Task, state batch.State) {
	r.processing = append(r.processing, task)
	if !state.Consistent() {
		r.t.Errorf("inconsistent state before task: %+v", state)
	}
}

func (r *recordingObserver) Progress(state batch.State) {
	r.states = append(r.states, state)
	if !state.Consistent() {
		r.t.Errorf("inconsistent state after task: %+v", state)
	}
}

func (r *recordingObserver) Log(message string) { r.logs = append(r.logs, message) }

type dirs struct {
	input  string
	output string
}

func setup(t *testing.T, inputs []string, outputs []string) dirs {
	t.Helper()
	base := t.TempDir()
	d := dirs{input: filepath.Join(base, "input"), output: filepath.Join(base, "output")}
	writeAll := func(dir string, names []string, content string) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
		for _, name := range names {
			if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
				t.Fatalf("write %s: %v", name, err)
			}
		}
	}
	writeAll(d.input, inputs, "epub")
	writeAll(d.output, outputs, "azw3")
	return d
}

func newRunner(d dirs, conv calibre.Converter) *batch.Runner {
	return batch.NewRunner(conv, batch.Options{
		InputDir:        d.input,
		OutputDir:       d.output,
		SourceExtension: "epub",
		TargetExtension: "azw3",
	})
}

func run(t *testing.T, r *batch.Runner, obs batch.Observer) batch.State {
	t.Helper()
	state, err := r.Run(context.Background(), obs)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return state
}

func expectState(t *testing.T, got, want batch.State) {
	t.Helper()
	if got != want {
		t.Fatalf("expected state %+v, got %+v", want, got)
	}
}

func expectCalls(t *testing.T, conv *fakeConverter, want ...string) {
	t.Helper()
	if !slices.Equal(conv.calls, want) {
		t.Fatalf("expected converter calls %v, got %v", want, conv.calls)
	}
}

func expectLogged(t *testing.T, obs *recordingObserver, want string) {
	t.Helper()
	if !slices.Contains(obs.logs, want) {
		t.Fatalf("expected log %q, got %v", want, obs.logs)
	}
}

func TestRunSkipsExistingOutputs(t *testing.T) {
	d := setup(t, []string{"a.epub", "b.epub"}, []string{"b.azw3"})
	conv := &fakeConverter{}
	obs := &recordingObserver{t: t}

	state := run(t, newRunner(d, conv), obs)

	expectState(t, state, batch.State{Total: 2, Processed: 2, Successful: 1, Skipped: 1})
	expectCalls(t, conv, "a.epub")
	if obs.total != 2 {
		t.Fatalf("expected listing of 2, got %d", obs.total)
	}
	want := []string{
		"Converting: a.epub",
		"✓ Success: a.azw3",
		"Skipped (already exists): b.azw3",
	}
	if !slices.Equal(obs.logs, want) {
		t.Fatalf("expected logs %v, got %v", want, obs.logs)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	d := setup(t, []string{"a.epub", "b.epub", "c.epub"}, nil)
	conv := &fakeConverter{}

	first := run(t, newRunner(d, conv), nil)
	if first.Successful != 3 {
		t.Fatalf("expected 3 conversions, got %+v", first)
	}

	conv.calls = nil
	second := run(t, newRunner(d, conv), nil)
	expectState(t, second, batch.State{Total: 3, Processed: 3, Skipped: 3})
	if len(conv.calls) != 0 {
		t.Fatalf("converter ran for already converted files: %v", conv.calls)
	}
}

func TestRunTimeoutDoesNotStopBatch(t *testing.T) {
	d := setup(t, []string{"a.epub", "b.epub"}, nil)
	conv := &fakeConverter{results: map[string]calibre.Result{
		"a.epub": {Outcome: calibre.Timeout, Duration: 300 * time.Second},
	}}
	obs := &recordingObserver{t: t}

	state := run(t, newRunner(d, conv), obs)

	if state.Failed != 1 || state.Successful != 1 {
		t.Fatalf("expected one failure and one success, got %+v", state)
	}
	expectCalls(t, conv, "a.epub", "b.epub")
	expectLogged(t, obs, "✗ Timeout: a.epub")
	expectLogged(t, obs, "✓ Success: b.azw3")
}

func TestRunFailureAndSpawnErrorMessages(t *testing.T) {
	d := setup(t, []string{"a.epub", "b.epub"}, nil)
	conv := &fakeConverter{results: map[string]calibre.Result{
		"a.epub": {Outcome: calibre.ToolFailure, Detail: "DRM protected", ExitCode: 1},
		"b.epub": {Outcome: calibre.SpawnError, Detail: "permission denied"},
	}}
	obs := &recordingObserver{t: t}

	state := run(t, newRunner(d, conv), obs)

	expectState(t, state, batch.State{Total: 2, Processed: 2, Failed: 2})
	expectLogged(t, obs, "✗ Failed: a.epub - DRM protected")
	expectLogged(t, obs, "✗ Error: b.epub - permission denied")
}

func TestRunEmptyInputReturnsNoMatchingFiles(t *testing.T) {
	d := setup(t, []string{"notes.txt"}, nil)
	conv := &fakeConverter{}
	obs := &recordingObserver{t: t}

	state, err := newRunner(d, conv).Run(context.Background(), obs)
	if !errors.Is(err, services.ErrNoMatchingFiles) {
		t.Fatalf("expected ErrNoMatchingFiles, got %v", err)
	}
	expectState(t, state, batch.State{})
	if obs.total != 0 {
		t.Fatalf("expected no listing, got %d", obs.total)
	}
	expectCalls(t, conv)
}

func TestRunMatchesExtensionCaseInsensitively(t *testing.T) {
	d := setup(t, []string{"Loud.EPUB", "quiet.epub", "readme.txt"}, nil)
	if err := os.Mkdir(filepath.Join(d.input, "nested.epub"), 0o755); err != nil {
		t.Fatal(err)
	}
	conv := &fakeConverter{}

	state := run(t, newRunner(d, conv), nil)

	if state.Total != 2 {
		t.Fatalf("expected 2 inputs, got %d", state.Total)
	}
	expectCalls(t, conv, "Loud.EPUB", "quiet.epub")
	if _, err := os.Stat(filepath.Join(d.output, "Loud.azw3")); err != nil {
		t.Fatalf("expected Loud.azw3: %v", err)
	}
}

func TestRunIgnoresLinksToDirectories(t *testing.T) {
	d := setup(t, []string{"a.epub"}, nil)
	folder := filepath.Join(filepath.Dir(d.input), "folder")
	if err := os.Mkdir(folder, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(folder, filepath.Join(d.input, "x.epub")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(d.input, "a.epub"), filepath.Join(d.input, "b.epub")); err != nil {
		t.Fatal(err)
	}
	conv := &fakeConverter{}

	state := run(t, newRunner(d, conv), nil)

	expectState(t, state, batch.State{Total: 2, Processed: 2, Successful: 2})
	expectCalls(t, conv, "a.epub", "b.epub")
}

func TestRunSkipsSecondInputWithSameOutputName(t *testing.T) {
	d := setup(t, []string{"x.EPUB", "x.epub"}, nil)
	conv := &fakeConverter{}
	obs := &recordingObserver{t: t}

	state := run(t, newRunner(d, conv), obs)

	expectState(t, state, batch.State{Total: 2, Processed: 2, Successful: 1, Skipped: 1})
	if len(conv.calls) != 1 {
		t.Fatalf("expected one conversion, got %v", conv.calls)
	}
}

func TestRunRecognisesDecomposedOutputName(t *testing.T) {
	d := setup(t, []string{"Caf\u00e9.epub"}, []string{"Cafe\u0301.azw3"})
	conv := &fakeConverter{}

	state := run(t, newRunner(d, conv), nil)
	if state.Skipped != 1 {
		t.Fatalf("expected decomposed output to count as existing, got %+v", state)
	}
	expectCalls(t, conv)
}

func TestRunStopsBetweenFilesOnCancel(t *testing.T) {
	d := setup(t, []string{"a.epub", "b.epub", "c.epub"}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	conv := &fakeConverter{onCall: func(name string) {
		if name == "b.epub" {
			cancel()
		}
	}}
	obs := &recordingObserver{t: t}

	state, err := newRunner(d, conv).Run(ctx, obs)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	expectState(t, state, batch.State{Total: 3, Processed: 1, Successful: 1})
	expectCalls(t, conv, "a.epub", "b.epub")
	if !state.Consistent() {
		t.Fatalf("inconsistent state %+v", state)
	}
}

func TestRunMissingInputDirectory(t *testing.T) {
	runner := batch.NewRunner(&fakeConverter{}, batch.Options{
		InputDir:        filepath.Join(t.TempDir(), "missing"),
		OutputDir:       t.TempDir(),
		SourceExtension: "epub",
		TargetExtension: "azw3",
	})
	_, err := runner.Run(context.Background(), nil)
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}

func TestPending(t *testing.T) {
	d := setup(t, []string{"a.epub", "b.epub", "c.epub"}, []string{"b.azw3", "unrelated.pdf"})

	report, err := batch.Pending(d.input, d.output, "epub", "azw3")
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if report.Eligible != 3 || report.Converted != 1 || report.Pending() != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	if got := report.String(); got != "2 pending of 3" {
		t.Fatalf("unexpected report string %q", got)
	}
}
