package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"bookconv/internal/config"
	"bookconv/internal/logging"
	"bookconv/internal/services"
)

const ruleWidth = 80

// Options configures an Importer.
type Options struct {
	// Title is printed in the banner above the first prompt.
	Title           string
	InputDir        string
	OutputDir       string
	SourceExtension string
	PreviewLimit    int
	// SkipStartPrompt omits the final "Press Enter" pause after copying.
	SkipStartPrompt bool
	Logger          *slog.Logger
}

// Importer copies source files into the input directory.
type Importer struct {
	prompts *promptReader
	out     io.Writer
	opts    Options
	logger  *slog.Logger
}

// New constructs an Importer reading answers from in and writing prompts
// to out.
func New(in io.Reader, out io.Writer, opts Options) *Importer {
	if opts.PreviewLimit <= 0 {
		opts.PreviewLimit = 5
	}
	return &Importer{
		prompts: newPromptReader(in),
		out:     out,
		opts:    opts,
		logger:  logging.NewComponentLogger(opts.Logger, "importer"),
	}
}

func (im *Importer) label() string {
	return strings.ToUpper(im.opts.SourceExtension)
}

func (im *Importer) printf(format string, args ...any) {
	fmt.Fprintf(im.out, format, args...)
}

// Run drives the interactive import. It returns true when conversion should
// proceed and false when the user aborted. End of input at a question counts
// as "no". A cancelled ctx returns its error.
func (im *Importer) Run(ctx context.Context) (bool, error) {
	logger := logging.WithContext(ctx, im.logger)
	im.printBanner()

	for {
		im.printf("Where are your %s files located?\n", im.label())
		im.printf("(Enter full path, or press Enter to skip and use files already in input directory)\n\n")
		im.printf("Source directory: ")
		answer, err := im.prompts.readLine(ctx)
		if errors.Is(err, io.EOF) {
			logger.Info("import aborted", logging.String("reason", "end of input"))
			return false, nil
		}
		if err != nil {
			return false, err
		}

		answer = strings.TrimSpace(answer)
		if answer == "" {
			im.printf("\nSkipping file copy. Using files already in input directory...\n")
			logger.Info("import skipped")
			return true, nil
		}

		dir, err := config.ExpandPath(answer)
		if err != nil {
			dir = answer
		}
		if problem := checkSource(dir); problem != "" {
			im.printf("\nError: %s\n", problem)
			logger.Info("source directory rejected", logging.String("path", dir), logging.String("reason", problem))
			if retry, err := im.ask(ctx, "Try again? (y/n): "); err != nil || !retry {
				return false, err
			}
			continue
		}

		names, err := Scan(dir, im.opts.SourceExtension)
		if err != nil {
			if errors.Is(err, services.ErrNoMatchingFiles) {
				im.printf("\nNo %s files found in '%s'\n", im.label(), dir)
			} else {
				im.printf("\nError: %v\n", err)
			}
			if retry, err := im.ask(ctx, "Try again with a different directory? (y/n): "); err != nil || !retry {
				return false, err
			}
			continue
		}

		im.printPreview(names)
		confirm, err := im.ask(ctx, fmt.Sprintf("Copy these files to %s? (y/n): ", im.opts.InputDir))
		if err != nil {
			return false, err
		}
		if !confirm {
			if retry, err := im.ask(ctx, "Try a different directory? (y/n): "); err != nil || !retry {
				return false, err
			}
			continue
		}

		im.printf("\nCopying files...\n")
		report, err := CopyFiles(ctx, dir, im.opts.InputDir, names, func(entry Entry) {
			im.printf("%s\n", entry.Line())
		})
		im.logReport(logger, dir, report)
		if err != nil {
			return false, err
		}
		im.printf("\n%s\n\n", report.Summary())

		if im.opts.SkipStartPrompt {
			return true, nil
		}
		im.printf("Press Enter to start conversion...")
		if _, err := im.prompts.readLine(ctx); err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		return true, nil
	}
}

// ErrDeclined is returned by Import when the user answers no to the copy
// confirmation.
var ErrDeclined = errors.New("import declined")

// Import validates dir, scans it and copies every match. With confirm set it
// prints the preview and asks before copying; otherwise it never prompts.
func (im *Importer) Import(ctx context.Context, dir string, confirm bool) (Report, error) {
	logger := logging.WithContext(ctx, im.logger)
	resolved, err := ResolveSource(dir)
	if err != nil {
		return Report{}, err
	}
	names, err := Scan(resolved, im.opts.SourceExtension)
	if err != nil {
		return Report{}, err
	}
	if confirm {
		im.printPreview(names)
		ok, err := im.ask(ctx, fmt.Sprintf("Copy these files to %s? (y/n): ", im.opts.InputDir))
		if err != nil {
			return Report{}, err
		}
		if !ok {
			logger.Info("import declined", logging.String("source", resolved))
			return Report{}, ErrDeclined
		}
	}
	report, err := CopyFiles(ctx, resolved, im.opts.InputDir, names, func(entry Entry) {
		im.printf("%s\n", entry.Line())
	})
	im.logReport(logger, resolved, report)
	if err != nil {
		return report, err
	}
	im.printf("%s\n", report.Summary())
	return report, nil
}

func (im *Importer) ask(ctx context.Context, question string) (bool, error) {
	im.printf("%s", question)
	answer, err := im.prompts.readLine(ctx)
	if errors.Is(err, io.EOF) {
		im.printf("\n")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (im *Importer) printBanner() {
	rule := strings.Repeat("=", ruleWidth)
	im.printf("\n%s\n", rule)
	if im.opts.Title != "" {
		im.printf("%s\n", im.opts.Title)
	}
	im.printf("%s\n\n", rule)
	im.printf("Input Directory:  %s\n", im.opts.InputDir)
	im.printf("Output Directory: %s\n\n", im.opts.OutputDir)
}

func (im *Importer) printPreview(names []string) {
	im.printf("\nFound %d %s file(s):\n", len(names), im.label())
	limit := min(im.opts.PreviewLimit, len(names))
	for _, name := range names[:limit] {
		im.printf("  - %s\n", name)
	}
	if rest := len(names) - limit; rest > 0 {
		im.printf("  ... and %d more\n", rest)
	}
	im.printf("\n")
}

func (im *Importer) logReport(logger *slog.Logger, dir string, report Report) {
	for _, entry := range report.Entries {
		if entry.Status == CopyFailed {
			logging.WarnWithContext(logger, "copy failed", "copy_failed",
				logging.String(logging.FieldFile, entry.Name),
				logging.Error(entry.Err),
				logging.String(logging.FieldErrorHint, "check source file permissions and free space"),
			)
		}
	}
	logger.Info("import complete",
		logging.String("source", dir),
		logging.Int("copied", report.Copied),
		logging.Int("skipped", report.Skipped),
		logging.Int("failed", report.Failed),
	)
}
