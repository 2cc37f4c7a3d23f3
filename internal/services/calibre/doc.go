// Package calibre wraps the external e-book conversion tool (Calibre's
// ebook-convert by default).
//
// Convert runs one conversion bounded by a wall-clock timeout and reports
// the outcome as a Result value rather than an error, so callers can
// classify success, tool failure, timeout and spawn failure without
// inspecting error types. Probe and Version run `<tool> --version` to check
// availability before any work starts.
//
// Process execution goes through the Executor interface; tests inject stubs
// with WithExecutor.
package calibre
