package calibre

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"bookconv/internal/config"
	"bookconv/internal/services"
	"bookconv/internal/textutil"
)

const defaultSnippetLength = 50

// Converter is the behaviour the batch runner needs.
type Converter interface {
	Convert(ctx context.Context, inputPath, outputPath string) Result
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithExtraArgs appends arguments after the input and output paths.
func WithExtraArgs(args ...string) Option {
	return func(c *Client) {
		c.extraArgs = append([]string(nil), args...)
	}
}

// WithSnippetLength sets how many characters of stderr a ToolFailure keeps.
func WithSnippetLength(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.snippetLength = n
		}
	}
}

// WithProbeTimeout bounds Probe and Version.
func WithProbeTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.probeTimeout = d
	}
}

// Client wraps conversion tool CLI interactions.
type Client struct {
	binary        string
	timeout       time.Duration
	probeTimeout  time.Duration
	extraArgs     []string
	snippetLength int
	exec          Executor
}

// New constructs a client for binary with a per-conversion timeout.
func New(binary string, timeout time.Duration, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("converter binary required")
	}
	client := &Client{
		binary:        binary,
		timeout:       timeout,
		snippetLength: defaultSnippetLength,
		exec:          commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// NewFromConfig builds a client from the converter section of cfg.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}
	base := []Option{
		WithExtraArgs(cfg.Converter.ExtraArgs...),
		WithSnippetLength(cfg.Converter.ErrorSnippetLength),
		WithProbeTimeout(cfg.ProbeTimeout()),
	}
	return New(cfg.Converter.Binary, cfg.ConvertTimeout(), append(base, opts...)...)
}

// Binary returns the configured tool command.
func (c *Client) Binary() string {
	return c.binary
}

// Convert runs `<binary> <input> <output> [extra args]` once. The returned
// Result never carries a Go error; callers inspect Outcome.
func (c *Client) Convert(ctx context.Context, inputPath, outputPath string) Result {
	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := append([]string{inputPath, outputPath}, c.extraArgs...)
	start := time.Now()
	out, err := c.exec.Run(runCtx, c.binary, args)
	result := Result{ExitCode: out.ExitCode, Duration: time.Since(start)}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.Outcome = Success
	case errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		result.Outcome = Timeout
	case errors.As(err, &exitErr) && ctx.Err() == nil:
		result.Outcome = ToolFailure
		result.ExitCode = exitErr.ExitCode()
		result.Detail = textutil.Snippet(string(out.Stderr), c.snippetLength)
	default:
		result.Outcome = SpawnError
		result.Detail = textutil.Snippet(err.Error(), c.snippetLength)
	}
	return result
}

// Version runs `<binary> --version` and returns the first non-empty line of
// its output.
func (c *Client) Version(ctx context.Context) (string, error) {
	probeCtx := ctx
	if c.probeTimeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, c.probeTimeout)
		defer cancel()
	}

	out, err := c.exec.Run(probeCtx, c.binary, []string{"--version"})
	if err != nil {
		return "", services.Wrap(services.ErrToolUnavailable, "calibre", "probe", fmt.Sprintf("%s --version", c.binary), err)
	}
	for _, line := range strings.Split(string(out.Stdout), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line, nil
		}
	}
	return "", nil
}

// Probe reports whether the tool can be executed. Any failure is marked
// services.ErrToolUnavailable.
func (c *Client) Probe(ctx context.Context) error {
	_, err := c.Version(ctx)
	return err
}
