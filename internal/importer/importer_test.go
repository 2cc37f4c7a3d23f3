package importer_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"bookconv/internal/importer"
	"bookconv/internal/services"
)

type fixture struct {
	source string
	input  string
	out    *bytes.Buffer
}

func newFixture(t *testing.T, sources ...string) fixture {
	t.Helper()
	base := t.TempDir()
	f := fixture{
		source: filepath.Join(base, "downloads"),
		input:  filepath.Join(base, "input"),
		out:    &bytes.Buffer{},
	}
	for _, dir := range []string{f.source, f.input} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	for _, name := range sources {
		if err := os.WriteFile(filepath.Join(f.source, name), []byte("source "+name), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return f
}

func (f fixture) importer(in io.Reader) *importer.Importer {
	return importer.New(in, f.out, importer.Options{
		Title:           "EPUB to AZW3 Converter v1.0",
		InputDir:        f.input,
		OutputDir:       filepath.Join(filepath.Dir(f.input), "output"),
		SourceExtension: "epub",
		PreviewLimit:    5,
	})
}

func (f fixture) expectOutput(t *testing.T, wants ...string) {
	t.Helper()
	got := f.out.String()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, got)
		}
	}
}

func script(lines ...string) io.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func inputNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func expectNoInputs(t *testing.T, dir string) {
	t.Helper()
	if names := inputNames(t, dir); len(names) != 0 {
		t.Fatalf("expected empty input directory, got %v", names)
	}
}

func runImporter(t *testing.T, imp *importer.Importer) bool {
	t.Helper()
	ok, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return ok
}

func TestRunEmptyAnswerSkipsImport(t *testing.T) {
	f := newFixture(t, "a.epub")

	if !runImporter(t, f.importer(script(""))) {
		t.Fatal("expected an empty answer to continue to conversion")
	}
	expectNoInputs(t, f.input)
	f.expectOutput(t, "Skipping file copy", "Input Directory:  "+f.input)
}

func TestRunMissingDirectoryDeclineAborts(t *testing.T) {
	f := newFixture(t, "a.epub")
	missing := filepath.Join(f.source, "nope")

	if runImporter(t, f.importer(script(missing, "n"))) {
		t.Fatal("expected declining a retry to abort")
	}
	expectNoInputs(t, f.input)
	f.expectOutput(t, fmt.Sprintf("Error: Directory '%s' does not exist.", missing), "Try again? (y/n): ")
}

func TestRunFileInsteadOfDirectory(t *testing.T) {
	f := newFixture(t, "a.epub")
	file := filepath.Join(f.source, "a.epub")

	if runImporter(t, f.importer(script(file, "n"))) {
		t.Fatal("expected a file path to be rejected")
	}
	f.expectOutput(t, "is not a directory.")
}

func TestRunCopiesAndNeverOverwrites(t *testing.T) {
	f := newFixture(t, "a.epub", "B.EPUB", "notes.txt")
	existing := filepath.Join(f.input, "a.epub")
	if err := os.WriteFile(existing, []byte("keep me"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !runImporter(t, f.importer(script(f.source, "y", ""))) {
		t.Fatal("expected import to proceed")
	}

	data, err := os.ReadFile(existing)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "keep me" {
		t.Fatalf("existing file was overwritten: %q", data)
	}
	copied, err := os.ReadFile(filepath.Join(f.input, "B.EPUB"))
	if err != nil {
		t.Fatal(err)
	}
	if string(copied) != "source B.EPUB" {
		t.Fatalf("unexpected copied content %q", copied)
	}
	if slices.Contains(inputNames(t, f.input), "notes.txt") {
		t.Fatal("expected non-matching files to stay behind")
	}

	f.expectOutput(t,
		"Found 2 EPUB file(s):",
		"  Skipped (already exists): a.epub",
		"  Copied: B.EPUB",
		"Copy complete: 1 copied, 1 skipped, 0 failed",
		"Press Enter to start conversion...",
	)
}

func TestRunPreviewTruncatesAndDeclineAborts(t *testing.T) {
	var names []string
	for i := 1; i <= 7; i++ {
		names = append(names, fmt.Sprintf("book%d.epub", i))
	}
	f := newFixture(t, names...)

	if runImporter(t, f.importer(script(f.source, "n", "n"))) {
		t.Fatal("expected declining both prompts to abort")
	}
	expectNoInputs(t, f.input)
	f.expectOutput(t, "  - book5.epub", "  ... and 2 more", "Try a different directory? (y/n): ")
	if strings.Contains(f.out.String(), "  - book6.epub") {
		t.Fatal("expected preview to stop after five names")
	}
}

func TestRunNoMatchesThenRetry(t *testing.T) {
	f := newFixture(t, "a.epub")
	empty := filepath.Join(filepath.Dir(f.source), "empty")
	if err := os.MkdirAll(empty, 0o755); err != nil {
		t.Fatal(err)
	}

	if !runImporter(t, f.importer(script(empty, "y", f.source, "yes", ""))) {
		t.Fatal("expected retry to reach conversion")
	}
	f.expectOutput(t, fmt.Sprintf("No EPUB files found in '%s'", empty))
	if got := inputNames(t, f.input); !slices.Equal(got, []string{"a.epub"}) {
		t.Fatalf("expected a.epub to be copied, got %v", got)
	}
}

func TestRunEndOfInputAtPromptAborts(t *testing.T) {
	f := newFixture(t, "a.epub")

	if runImporter(t, f.importer(strings.NewReader(""))) {
		t.Fatal("expected end of input to abort")
	}
}

func TestRunEndOfInputAtConfirmationDeclines(t *testing.T) {
	f := newFixture(t, "a.epub")

	if runImporter(t, f.importer(strings.NewReader(f.source+"\n"))) {
		t.Fatal("expected end of input at confirmation to decline")
	}
	expectNoInputs(t, f.input)
}

func TestRunEndOfInputAtFinalPromptProceeds(t *testing.T) {
	f := newFixture(t, "a.epub")

	if !runImporter(t, f.importer(strings.NewReader(f.source+"\ny\n"))) {
		t.Fatal("expected end of input at the final prompt to proceed")
	}
	if got := inputNames(t, f.input); !slices.Equal(got, []string{"a.epub"}) {
		t.Fatalf("expected a.epub to be copied, got %v", got)
	}
}

func TestRunCancelledWhileWaiting(t *testing.T) {
	f := newFixture(t, "a.epub")
	reader, writer := io.Pipe()
	defer writer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	ok, err := f.importer(reader).Run(ctx)
	if ok {
		t.Fatal("expected cancelled run to report false")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestImportNonInteractive(t *testing.T) {
	f := newFixture(t, "a.epub", "b.epub")

	report, err := f.importer(strings.NewReader("")).Import(context.Background(), f.source, false)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Copied != 2 || len(report.Entries) != 2 {
		t.Fatalf("expected 2 copied entries, got %+v", report)
	}

	again, err := f.importer(strings.NewReader("")).Import(context.Background(), f.source, false)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if again.Skipped != 2 || again.Copied != 0 {
		t.Fatalf("expected second import to skip both, got %+v", again)
	}
}

func TestImportErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.importer(strings.NewReader("")).Import(context.Background(), filepath.Join(f.source, "missing"), false)
	if !errors.Is(err, services.ErrDirectoryInvalid) {
		t.Fatalf("expected ErrDirectoryInvalid, got %v", err)
	}

	_, err = f.importer(strings.NewReader("")).Import(context.Background(), f.source, false)
	if !errors.Is(err, services.ErrNoMatchingFiles) {
		t.Fatalf("expected ErrNoMatchingFiles, got %v", err)
	}
}

func TestImportWithConfirmation(t *testing.T) {
	f := newFixture(t, "a.epub")

	_, err := f.importer(script("n")).Import(context.Background(), f.source, true)
	if !errors.Is(err, importer.ErrDeclined) {
		t.Fatalf("expected ErrDeclined, got %v", err)
	}
	expectNoInputs(t, f.input)

	report, err := f.importer(script("y")).Import(context.Background(), f.source, true)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Copied != 1 {
		t.Fatalf("expected 1 copied, got %d", report.Copied)
	}
	f.expectOutput(t, "Copy these files to "+f.input+"? (y/n): ")
}

func TestCopyFilesRecordsFailures(t *testing.T) {
	f := newFixture(t, "a.epub")

	report, err := importer.CopyFiles(context.Background(), f.source, f.input, []string{"a.epub", "ghost.epub"}, nil)
	if err != nil {
		t.Fatalf("copy files: %v", err)
	}
	if report.Copied != 1 || report.Failed != 1 {
		t.Fatalf("expected 1 copied and 1 failed, got %+v", report)
	}
	if len(report.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(report.Entries))
	}
	if !errors.Is(report.Entries[1].Err, services.ErrCopyFailure) {
		t.Fatalf("expected ErrCopyFailure, got %v", report.Entries[1].Err)
	}
	if line := report.Entries[1].Line(); !strings.Contains(line, "Failed to copy ghost.epub") {
		t.Fatalf("unexpected failure line %q", line)
	}
}

func TestScanIsCaseInsensitiveAndShallow(t *testing.T) {
	f := newFixture(t, "z.epub", "A.EPUB", "m.Epub", "readme.md")
	if err := os.Mkdir(filepath.Join(f.source, "sub.epub"), 0o755); err != nil {
		t.Fatal(err)
	}

	names, err := importer.Scan(f.source, "epub")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if want := []string{"A.EPUB", "m.Epub", "z.epub"}; !slices.Equal(names, want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
}

func TestScanFollowsFileLinksOnly(t *testing.T) {
	f := newFixture(t, "real.epub")
	folder := filepath.Join(filepath.Dir(f.source), "folder")
	if err := os.Mkdir(folder, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(folder, filepath.Join(f.source, "x.epub")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(f.source, "real.epub"), filepath.Join(f.source, "linked.epub")); err != nil {
		t.Fatal(err)
	}

	names, err := importer.Scan(f.source, "epub")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if want := []string{"linked.epub", "real.epub"}; !slices.Equal(names, want) {
		t.Fatalf("expected %v, got %v", want, names)
	}

	// A directory link is never offered for copying.
	report, err := f.importer(strings.NewReader("")).Import(context.Background(), f.source, false)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Failed != 0 || report.Copied != 2 {
		t.Fatalf("expected 2 copied and none failed, got %+v", report)
	}
}
