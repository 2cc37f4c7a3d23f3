package convertrun

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"bookconv/internal/batch"
	"bookconv/internal/config"
	"bookconv/internal/importer"
	"bookconv/internal/logging"
	"bookconv/internal/reporter"
	"bookconv/internal/services"
)

// RunOptions selects the parts of the flow to run.
type RunOptions struct {
	Options
	SkipImport bool
	Mode       reporter.Mode
	// NoWait skips the final key press.
	NoWait bool
	// Reporter overrides renderer selection (tests).
	Reporter reporter.Reporter
}

// Summary describes a finished run.
type Summary struct {
	RunID     string
	LogPath   string
	State     batch.State
	Aborted   bool
	Cancelled bool
	NoFiles   bool
}

// Run executes the full flow. Aborting the import or cancelling with
// SIGINT/SIGTERM returns a nil error; only configuration, workspace and
// converter-availability problems are errors.
func Run(ctx context.Context, cfg *config.Config, opts RunOptions) (Summary, error) {
	opts.Options = opts.Options.withDefaults()

	signalCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s, err := openSession(signalCtx, cfg, opts.Options, "convert")
	if err != nil {
		return Summary{}, err
	}
	defer s.close()
	summary := Summary{RunID: s.runID, LogPath: s.logPath}

	client, err := s.client()
	if err != nil {
		return summary, err
	}
	if err := s.probe(client); err != nil {
		return summary, err
	}

	if !opts.SkipImport {
		imp := importer.New(opts.In, opts.Out, s.importerOptions())
		proceed, err := imp.Run(services.WithPhase(s.ctx, "import"))
		if err != nil {
			if errors.Is(err, context.Canceled) {
				s.printf("\nConversion cancelled by user.\n")
				s.logger.Info("run cancelled during import")
				summary.Cancelled = true
				return summary, nil
			}
			return summary, err
		}
		if !proceed {
			s.printf("\nConversion cancelled.\n")
			s.logger.Info("run aborted at import")
			summary.Aborted = true
			return summary, nil
		}
	}

	rep := opts.Reporter
	if rep == nil {
		rep = s.newReporter(opts)
	}
	rep.Start(reporter.Header{
		Title:       s.title(),
		InputDir:    s.layout.InputDir,
		OutputDir:   s.layout.OutputDir,
		SourceLabel: cfg.SourceLabel(),
	})

	runner := batch.NewRunner(client, batch.Options{
		InputDir:        s.layout.InputDir,
		OutputDir:       s.layout.OutputDir,
		SourceExtension: cfg.Converter.SourceExtension,
		TargetExtension: cfg.Converter.TargetExtension,
		Logger:          s.logger,
	})
	state, err := runner.Run(s.ctx, rep)
	summary.State = state

	switch {
	case errors.Is(err, services.ErrNoMatchingFiles):
		summary.NoFiles = true
		rep.NoFiles(s.layout.InputDir)
		s.waitAndClose(rep, opts.NoWait)
		s.logger.Info("no input files", logging.String("input_dir", s.layout.InputDir))
		return summary, nil
	case errors.Is(err, context.Canceled):
		_ = rep.Close()
		summary.Cancelled = true
		s.printf("\nConversion cancelled by user.\n")
		s.logger.Info("run cancelled", logging.Int("processed", state.Processed))
		return summary, nil
	case err != nil:
		_ = rep.Close()
		s.logger.Error("batch failed", logging.Error(err))
		return summary, err
	}

	rep.Summary(state)
	s.waitAndClose(rep, opts.NoWait)
	s.logger.Info("run complete",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("successful", state.Successful),
		logging.Int("skipped", state.Skipped),
		logging.Int("failed", state.Failed),
	)
	return summary, nil
}

func (s *session) importerOptions() importer.Options {
	return importer.Options{
		Title:           s.title(),
		InputDir:        s.layout.InputDir,
		OutputDir:       s.layout.OutputDir,
		SourceExtension: s.cfg.Converter.SourceExtension,
		PreviewLimit:    s.cfg.Import.PreviewLimit,
		Logger:          s.logger,
	}
}

func (s *session) newReporter(opts RunOptions) reporter.Reporter {
	ropts := reporter.Options{
		BarWidth: s.cfg.Display.BarWidth,
		LogLines: s.cfg.Display.LogLines,
		Color:    reporter.ResolveColor(s.cfg.Display.Color, opts.Out),
		Now:      opts.Now,
	}
	out, outIsFile := opts.Out.(*os.File)
	in, inIsFile := opts.In.(*os.File)
	if outIsFile && inIsFile {
		return reporter.New(opts.Mode, out, in, ropts)
	}
	return reporter.NewPlain(opts.Out, ropts)
}

func (s *session) waitAndClose(rep reporter.Reporter, noWait bool) {
	if !noWait {
		if err := rep.WaitForKey(); err != nil {
			s.logger.Warn("wait for key failed", logging.Error(err))
		}
	}
	if err := rep.Close(); err != nil {
		s.logger.Warn("close reporter failed", logging.Error(err))
	}
}
