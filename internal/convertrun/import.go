package convertrun

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"bookconv/internal/config"
	"bookconv/internal/importer"
)

// ImportOptions configures a standalone import.
type ImportOptions struct {
	Options
	// Source skips the directory prompt when set.
	Source string
	// AssumeYes copies without asking for confirmation.
	AssumeYes bool
}

// Import copies source files into the input directory without converting.
// It returns the copy report; an aborted or cancelled import returns an
// empty report and nil.
func Import(ctx context.Context, cfg *config.Config, opts ImportOptions) (importer.Report, error) {
	opts.Options = opts.Options.withDefaults()

	signalCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s, err := openSession(signalCtx, cfg, opts.Options, "import")
	if err != nil {
		return importer.Report{}, err
	}
	defer s.close()

	importerOpts := s.importerOptions()
	importerOpts.SkipStartPrompt = true
	imp := importer.New(opts.In, opts.Out, importerOpts)
	if opts.Source == "" {
		if _, err := imp.Run(s.ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				s.printf("\nImport cancelled by user.\n")
				return importer.Report{}, nil
			}
			return importer.Report{}, err
		}
		return importer.Report{}, nil
	}

	report, err := imp.Import(s.ctx, opts.Source, !opts.AssumeYes)
	switch {
	case errors.Is(err, importer.ErrDeclined):
		s.printf("Import cancelled.\n")
		return importer.Report{}, nil
	case errors.Is(err, context.Canceled):
		s.printf("\nImport cancelled by user.\n")
		return report, nil
	}
	return report, err
}
