// Package services defines shared utilities consumed by the import and
// conversion phases and the external converter integration.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and phase names for logging.
//   - Structured error markers plus the Wrap helper that let callers classify
//     failures (tool missing, invalid directory, per-file conversion errors)
//     with errors.Is instead of string matching.
//
// The converter client lives in the calibre subpackage.
package services
