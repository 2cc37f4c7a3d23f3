package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"bookconv/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Input, output and log directories are created. Options run afterwards.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := filepath.Join(t.TempDir(), "Book Conversion")
	cfgVal := config.Default()
	cfgVal.Paths.BaseDir = base
	cfgVal.Paths.InputDir = filepath.Join(base, "input")
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Converter.TimeoutSeconds = 10
	cfgVal.Converter.ProbeTimeoutSeconds = 5

	for _, dir := range []string{cfgVal.Paths.InputDir, cfgVal.Paths.OutputDir, cfgVal.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// Converter script bodies for WithConverterScript.
const (
	// ConverterCopies copies the input to the output and prints a version.
	ConverterCopies = `if [ "$1" = "--version" ]; then echo "ebook-convert (calibre 7.4.0)"; exit 0; fi
cp "$1" "$2"`
	// ConverterFails fails every conversion but passes the probe.
	ConverterFails = `if [ "$1" = "--version" ]; then echo "ebook-convert (calibre 7.4.0)"; exit 0; fi
echo "Conversion error: unsupported input" >&2
exit 1`
	// ConverterHangs passes the probe and never finishes a conversion.
	ConverterHangs = `if [ "$1" = "--version" ]; then echo "ebook-convert (calibre 7.4.0)"; exit 0; fi
exec sleep 30`
)

// WithConverterScript writes a shell script with the given body and points
// converter.binary at it.
func WithConverterScript(body string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Converter.Binary = writeStub(b.t, filepath.Join(filepath.Dir(b.baseDir), "bin"), "ebook-convert", body)
	}
}

// WithMissingConverter points converter.binary at a path that does not exist.
func WithMissingConverter() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Converter.Binary = filepath.Join(filepath.Dir(b.baseDir), "bin", "no-such-convert")
	}
}

// WithTimeoutSeconds overrides the per-file conversion timeout.
func WithTimeoutSeconds(seconds int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Converter.TimeoutSeconds = seconds
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ebook-convert is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ebook-convert"}
		}
		binDir := filepath.Join(filepath.Dir(b.baseDir), "path-bin")
		for _, name := range names {
			writeStub(b.t, binDir, name, "exit 0")
		}
		if tt, ok := b.t.(*testing.T); ok {
			tt.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
			return
		}
		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

func writeStub(t testing.TB, dir, name, body string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return cfg.Paths.BaseDir
}
