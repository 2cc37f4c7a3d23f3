package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bookconv/internal/config"
	"bookconv/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	homeDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	homeDir := filepath.Join(t.TempDir(), "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("NO_COLOR", "1")

	if len(opts) == 0 {
		opts = []testsupport.ConfigOption{testsupport.WithConverterScript(testsupport.ConverterCopies)}
	}
	cfg := testsupport.NewConfig(t, opts...)

	configPath := filepath.Join(homeDir, ".config", "bookconv", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, homeDir: homeDir}
}

func runCLI(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nbase_dir = %q\ninput_dir = %q\noutput_dir = %q\nlog_dir = %q\n\n[converter]\nbinary = %q\ntimeout_seconds = %d\nprobe_timeout_seconds = %d\n",
		cfg.Paths.BaseDir,
		cfg.Paths.InputDir,
		cfg.Paths.OutputDir,
		cfg.Paths.LogDir,
		cfg.Converter.Binary,
		cfg.Converter.TimeoutSeconds,
		cfg.Converter.ProbeTimeoutSeconds,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireFiles(t *testing.T, dir string, want ...string) {
	t.Helper()
	got := testsupport.ListNames(t, dir)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("files in %s = %v, want %v", dir, got, want)
	}
}
