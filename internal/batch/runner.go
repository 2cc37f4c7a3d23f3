package batch

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"bookconv/internal/logging"
	"bookconv/internal/services"
	"bookconv/internal/services/calibre"
)

// Observer receives batch progress. The progress reporters implement it.
type Observer interface {
	Listing(total int)
	Processing(index int, task Task, state State)
	Progress(state State)
	Log(message string)
}

type nopObserver struct{}

func (nopObserver) Listing(int)                 {}
func (nopObserver) Processing(int, Task, State) {}
func (nopObserver) Progress(State)              {}
func (nopObserver) Log(string)                  {}

// Options configures a Runner.
type Options struct {
	InputDir        string
	OutputDir       string
	SourceExtension string
	TargetExtension string
	Logger          *slog.Logger
}

// Runner converts the eligible files of one input directory.
type Runner struct {
	converter calibre.Converter
	opts      Options
	logger    *slog.Logger
}

// NewRunner constructs a runner that converts through converter.
func NewRunner(converter calibre.Converter, opts Options) *Runner {
	return &Runner{
		converter: converter,
		opts:      opts,
		logger:    logging.NewComponentLogger(opts.Logger, "batch"),
	}
}

// Run processes every source file once. An empty input directory returns
// services.ErrNoMatchingFiles without calling the observer.
// Cancellation is honoured between files and returns ctx.Err() with the
// state accumulated so far.
func (r *Runner) Run(ctx context.Context, obs Observer) (State, error) {
	if obs == nil {
		obs = nopObserver{}
	}
	if r.converter == nil {
		return State{}, errors.New("batch runner: converter required")
	}
	logger := logging.WithContext(ctx, r.logger)

	sources, err := ListSources(r.opts.InputDir, r.opts.SourceExtension)
	if err != nil {
		return State{}, err
	}
	if len(sources) == 0 {
		return State{}, services.Wrap(services.ErrNoMatchingFiles, "batch", "list inputs", r.opts.InputDir, nil)
	}
	outputs, err := ListOutputs(r.opts.OutputDir)
	if err != nil {
		return State{}, err
	}

	state := State{Total: len(sources)}
	obs.Listing(state.Total)
	logger.Info("batch started", logging.Int("total", state.Total))

	for i, name := range sources {
		if err := ctx.Err(); err != nil {
			logger.Info("batch cancelled",
				logging.Int("processed", state.Processed),
				logging.Int("remaining", state.Remaining()),
			)
			return state, err
		}
		task := NewTask(name, r.opts.TargetExtension)
		obs.Processing(i, task, state)

		if outputs.Has(task.OutputName) {
			c := SkippedClassification(task)
			state.apply(c.Status)
			obs.Log(c.Message)
			obs.Progress(state)
			logger.Debug("output exists",
				logging.String(logging.FieldFile, task.SourceName),
				logging.String(logging.FieldOutput, task.OutputName),
				logging.String(logging.FieldOutcome, c.Status.String()),
			)
			continue
		}

		obs.Log("Converting: " + task.SourceName)
		result := r.converter.Convert(ctx,
			filepath.Join(r.opts.InputDir, task.SourceName),
			filepath.Join(r.opts.OutputDir, task.OutputName),
		)
		if err := ctx.Err(); err != nil {
			logger.Info("batch cancelled during conversion",
				logging.String(logging.FieldFile, task.SourceName),
				logging.Int("remaining", state.Remaining()),
			)
			return state, err
		}

		c := Classify(task, result)
		state.apply(c.Status)
		if c.Status == StatusSucceeded {
			outputs.Add(task.OutputName)
		}
		obs.Log(c.Message)
		obs.Progress(state)
		r.logResult(logger, task, result, c)
	}

	logger.Info("batch complete",
		logging.Int("successful", state.Successful),
		logging.Int("skipped", state.Skipped),
		logging.Int("failed", state.Failed),
	)
	return state, nil
}

func (r *Runner) logResult(logger *slog.Logger, task Task, result calibre.Result, c Classification) {
	attrs := []logging.Attr{
		logging.String(logging.FieldFile, task.SourceName),
		logging.String(logging.FieldOutput, task.OutputName),
		logging.String(logging.FieldOutcome, result.Outcome.String()),
		logging.Duration("duration", result.Duration),
	}
	if c.Status == StatusSucceeded {
		logger.Info("file converted", logging.Args(attrs...)...)
		return
	}
	attrs = append(attrs, logging.Error(result.Err()))
	logging.WarnWithContext(logger, "file conversion failed", "conversion_"+result.Outcome.String(),
		append(attrs, logging.String(logging.FieldErrorHint, "run the converter manually on this file to see full output"))...)
}
