// Package reporter renders batch progress.
//
// Terminal is the full-screen renderer for interactive sessions: it draws a
// fixed header once, then owns individual rows (current file, progress bar,
// counts, scrolling log) and redraws only the row that changed. Plain writes
// one timestamped line per event for pipes and log capture. Nop discards
// everything.
package reporter
