package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"bookconv/internal/fileutil"
	"bookconv/internal/services"
)

// CopyStatus is the per-file result of the copy phase.
type CopyStatus string

const (
	CopyCopied  CopyStatus = "copied"
	CopySkipped CopyStatus = "skipped"
	CopyFailed  CopyStatus = "failed"
)

// Entry records what happened to one file.
type Entry struct {
	Name   string
	Status CopyStatus
	Err    error
}

// Report summarises a copy phase.
type Report struct {
	Entries []Entry
	Copied  int
	Skipped int
	Failed  int
}

func (r *Report) add(entry Entry) {
	r.Entries = append(r.Entries, entry)
	switch entry.Status {
	case CopyCopied:
		r.Copied++
	case CopySkipped:
		r.Skipped++
	default:
		r.Failed++
	}
}

// Summary returns the one-line copy totals.
func (r Report) Summary() string {
	return fmt.Sprintf("Copy complete: %d copied, %d skipped, %d failed", r.Copied, r.Skipped, r.Failed)
}

// Line renders the entry the way the interactive flow prints it.
func (e Entry) Line() string {
	switch e.Status {
	case CopyCopied:
		return "  Copied: " + e.Name
	case CopySkipped:
		return "  Skipped (already exists): " + e.Name
	default:
		return fmt.Sprintf("  Failed to copy %s: %v", e.Name, e.Err)
	}
}

// CopyFiles copies each named file from srcDir into destDir. Names already
// present in destDir are skipped. Per-file errors are recorded with
// services.ErrCopyFailure and do not stop the loop. onEntry, when set, is
// called after each file.
func CopyFiles(ctx context.Context, srcDir, destDir string, names []string, onEntry func(Entry)) (Report, error) {
	var report Report
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		entry := copyOne(srcDir, destDir, name)
		report.add(entry)
		if onEntry != nil {
			onEntry(entry)
		}
	}
	return report, nil
}

func copyOne(srcDir, destDir, name string) Entry {
	dest := filepath.Join(destDir, name)
	exists, err := fileutil.Exists(dest)
	if err != nil {
		return Entry{Name: name, Status: CopyFailed, Err: services.Wrap(services.ErrCopyFailure, "importer", "copy", name, err)}
	}
	if exists {
		return Entry{Name: name, Status: CopySkipped}
	}
	if err := fileutil.CopyPreserve(filepath.Join(srcDir, name), dest); err != nil {
		if errors.Is(err, os.ErrExist) {
			return Entry{Name: name, Status: CopySkipped}
		}
		return Entry{Name: name, Status: CopyFailed, Err: services.Wrap(services.ErrCopyFailure, "importer", "copy", name, err)}
	}
	return Entry{Name: name, Status: CopyCopied}
}
