// Package importer copies source e-books into the conversion input directory.
//
// Run drives the interactive flow: ask for a source directory, validate and
// scan it, preview the matches, confirm, then copy. Import performs the same
// validation, scan and copy without prompting. Files whose names already
// exist in the input directory are skipped and never overwritten.
//
// Prompts read from an io.Reader through a single background goroutine so a
// cancelled context interrupts a pending prompt.
package importer
