package convertrun

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"bookconv/internal/config"
	"bookconv/internal/logging"
	"bookconv/internal/services"
	"bookconv/internal/services/calibre"
	"bookconv/internal/workspace"
)

// Options configures a run.
type Options struct {
	LogLevel string
	Version  string
	// In and Out default to os.Stdin and os.Stdout.
	In  io.Reader
	Out io.Writer
	// Executor replaces process execution for the converter (tests).
	Executor calibre.Executor
	Now      func() time.Time
}

func (o Options) withDefaults() Options {
	if o.In == nil {
		o.In = os.Stdin
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Version == "" {
		o.Version = "dev"
	}
	return o
}

// session holds what every command needs once the workspace is ready.
type session struct {
	ctx     context.Context
	cfg     *config.Config
	opts    Options
	runID   string
	logPath string
	logger  *slog.Logger
	layout  workspace.Layout
	lock    *workspace.Lock
}

func openSession(ctx context.Context, cfg *config.Config, opts Options, phase string) (*session, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithPhase(ctx, phase)

	logPath := logging.RunLogPath(cfg.Paths.LogDir, opts.Now())
	logger, err := logging.NewFromConfig(cfg, logPath, opts.LogLevel)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "convertrun", "init logger", logPath, err)
	}
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "convertrun"))

	layout := workspace.LayoutFromConfig(cfg)
	if err := workspace.Prepare(layout); err != nil {
		logger.Error("prepare workspace failed", logging.Error(err))
		return nil, err
	}
	lock, err := workspace.Acquire(layout)
	if err != nil {
		logger.Error("acquire workspace lock failed", logging.Error(err))
		return nil, err
	}

	logger.Info("run started",
		logging.String(logging.FieldEventType, "run_started"),
		logging.String("version", opts.Version),
		logging.String("input_dir", layout.InputDir),
		logging.String("output_dir", layout.OutputDir),
		logging.String("converter", cfg.Converter.Binary),
		logging.Int("timeout_seconds", cfg.Converter.TimeoutSeconds),
	)
	return &session{
		ctx:     ctx,
		cfg:     cfg,
		opts:    opts,
		runID:   runID,
		logPath: logPath,
		logger:  logger,
		layout:  layout,
		lock:    lock,
	}, nil
}

func (s *session) close() {
	if err := s.lock.Release(); err != nil {
		s.logger.Warn("release workspace lock failed", logging.Error(err))
	}
}

func (s *session) printf(format string, args ...any) {
	fmt.Fprintf(s.opts.Out, format, args...)
}

func (s *session) client() (*calibre.Client, error) {
	var opts []calibre.Option
	if s.opts.Executor != nil {
		opts = append(opts, calibre.WithExecutor(s.opts.Executor))
	}
	return calibre.NewFromConfig(s.cfg, opts...)
}

// probe checks the converter and prints the install hint when it is missing.
func (s *session) probe(client *calibre.Client) error {
	version, err := client.Version(s.ctx)
	if err != nil {
		s.printf("\nERROR: %s not found!\n%s\n", client.Binary(), s.cfg.Converter.InstallHint)
		logging.ErrorWithContext(s.logger, "converter unavailable", "converter_unavailable",
			logging.String("binary", client.Binary()),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, s.cfg.Converter.InstallHint),
		)
		return err
	}
	s.logger.Info("converter available", logging.String("binary", client.Binary()), logging.String("version", version))
	return nil
}

func (s *session) title() string {
	return fmt.Sprintf("%s to %s Converter v%s", s.cfg.SourceLabel(), s.cfg.TargetLabel(), s.opts.Version)
}
