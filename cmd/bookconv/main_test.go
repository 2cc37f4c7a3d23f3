package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"bookconv/internal/services"
	"bookconv/internal/testsupport"
)

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, []string{"version"}, "", "")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	requireContains(t, out, "bookconv "+version)
}

func TestStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteBooks(t, env.cfg.Paths.InputDir, "a.epub", "b.EPUB", "notes.txt")
	testsupport.WriteBooks(t, env.cfg.Paths.OutputDir, "a.azw3")

	out, _, err := runCLI(t, []string{"status"}, env.configPath, "")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "== System Status ==")
	requireContains(t, out, "calibre 7.4.0")
	requireContains(t, out, "Ready (command: ")
	requireContains(t, out, "EPUB in input")
	requireContains(t, out, "PENDING")
	if strings.Contains(out, "[ERROR]") {
		t.Fatalf("unexpected error line in %q", out)
	}
}

func TestStatusCommandMissingConverter(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithMissingConverter())

	out, _, err := runCLI(t, []string{"status"}, env.configPath, "")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "[ERROR]")
	requireContains(t, out, "not found!")
	requireContains(t, out, "Missing dependencies")
	requireContains(t, out, "No EPUB files")
}

func TestConvertCommandPlain(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteBooks(t, env.cfg.Paths.InputDir, "alpha.epub", "beta.epub")
	testsupport.WriteBooks(t, env.cfg.Paths.OutputDir, "beta.azw3")

	out, _, err := runCLI(t, []string{"convert", "--plain", "--no-wait"}, env.configPath, "")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "Found 2 EPUB file(s) to process")
	requireContains(t, out, "✓ Success: alpha.azw3")
	requireContains(t, out, "Skipped (already exists): beta.azw3")
	requireContains(t, out, "Conversion complete!")
	requireFiles(t, env.cfg.Paths.OutputDir, "alpha.azw3", "beta.azw3")
}

func TestConvertCommandFailuresExitZero(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithConverterScript(testsupport.ConverterFails))
	testsupport.WriteBooks(t, env.cfg.Paths.InputDir, "broken.epub")

	out, _, err := runCLI(t, []string{"convert", "--plain", "--no-wait"}, env.configPath, "")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "✗ Failed: broken.epub - Conversion error")
}

func TestConvertCommandTimeoutContinues(t *testing.T) {
	env := setupCLITestEnv(t,
		testsupport.WithConverterScript(testsupport.ConverterHangs),
		testsupport.WithTimeoutSeconds(1),
	)
	testsupport.WriteBooks(t, env.cfg.Paths.InputDir, "slow.epub")

	out, _, err := runCLI(t, []string{"convert", "--plain", "--no-wait"}, env.configPath, "")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "✗ Timeout: slow.epub")
	requireContains(t, out, "Conversion complete!")
	requireFiles(t, env.cfg.Paths.OutputDir)
}

func TestConvertCommandMissingConverter(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithMissingConverter())
	testsupport.WriteBooks(t, env.cfg.Paths.InputDir, "alpha.epub")

	out, _, err := runCLI(t, []string{"convert", "--plain", "--no-wait"}, env.configPath, "")
	if !errors.Is(err, services.ErrToolUnavailable) {
		t.Fatalf("expected tool unavailable, got %v", err)
	}
	if !silentError(err) {
		t.Fatal("tool errors are printed by the flow and should not be repeated")
	}
	requireContains(t, out, "ERROR: ")
	requireContains(t, out, "not found!")
	requireFiles(t, env.cfg.Paths.OutputDir)
}

func TestRootCommandImportsThenConverts(t *testing.T) {
	env := setupCLITestEnv(t)
	source := filepath.Join(t.TempDir(), "downloads")
	testsupport.WriteBooks(t, source, "novel.epub")

	stdin := source + "\ny\n\n"
	out, _, err := runCLI(t, []string{"--plain", "--no-wait"}, env.configPath, stdin)
	if err != nil {
		t.Fatalf("root flow: %v", err)
	}
	requireContains(t, out, "Copy complete: 1 copied, 0 skipped, 0 failed")
	requireContains(t, out, "✓ Success: novel.azw3")
	requireFiles(t, env.cfg.Paths.InputDir, "novel.epub")
	requireFiles(t, env.cfg.Paths.OutputDir, "novel.azw3")
}

func TestRootCommandAbortExitsZero(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"--plain", "--no-wait"}, env.configPath, "")
	if err != nil {
		t.Fatalf("aborted flow should not fail: %v", err)
	}
	requireContains(t, out, "Conversion cancelled.")
}

func TestImportCommandWithSource(t *testing.T) {
	env := setupCLITestEnv(t)
	source := filepath.Join(t.TempDir(), "downloads")
	testsupport.WriteBooks(t, source, "one.epub", "two.epub", "cover.jpg")

	out, _, err := runCLI(t, []string{"import", "--source", source, "--yes"}, env.configPath, "")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	requireContains(t, out, "Copy complete: 2 copied, 0 skipped, 0 failed")
	requireFiles(t, env.cfg.Paths.InputDir, "one.epub", "two.epub")
	requireFiles(t, env.cfg.Paths.OutputDir)
}

func TestImportCommandDeclined(t *testing.T) {
	env := setupCLITestEnv(t)
	source := filepath.Join(t.TempDir(), "downloads")
	testsupport.WriteBooks(t, source, "one.epub")

	out, _, err := runCLI(t, []string{"import", "--source", source}, env.configPath, "n\n")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	requireContains(t, out, "Import cancelled.")
	requireFiles(t, env.cfg.Paths.InputDir)
}

func TestSilentError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{context.Canceled, true},
		{fmt.Errorf("probe: %w", services.ErrToolUnavailable), true},
		{errors.New("parse config"), false},
	}
	for _, tc := range cases {
		if got := silentError(tc.err); got != tc.want {
			t.Fatalf("silentError(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
