// Package logging assembles structured slog loggers and formatting helpers used
// across bookconv.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so phase code can automatically
// tag log lines with the run identifier and phase name. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
//
// The interactive display owns the terminal while a batch runs, so run loggers
// normally write to a file under the configured log directory.
package logging
