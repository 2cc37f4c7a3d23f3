package batch

import (
	"fmt"
	"os"
	"sort"

	"bookconv/internal/fileutil"
	"bookconv/internal/services"
	"bookconv/internal/textutil"
)

// ListSources returns the names of regular files in dir carrying ext,
// sorted lexically. Subdirectories are not descended.
func ListSources(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "batch", "list inputs", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !textutil.HasExtension(entry.Name(), ext) {
			continue
		}
		if !fileutil.IsRegularEntry(dir, entry) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// OutputSet holds the NFC-normalized names present in the output directory.
type OutputSet map[string]struct{}

// ListOutputs reads the names already present in dir.
func ListOutputs(dir string) (OutputSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "batch", "list outputs", dir, err)
	}
	set := make(OutputSet, len(entries))
	for _, entry := range entries {
		set.Add(entry.Name())
	}
	return set, nil
}

// Has reports whether name is present.
func (s OutputSet) Has(name string) bool {
	_, ok := s[textutil.NormalizeName(name)]
	return ok
}

// Add records name as present.
func (s OutputSet) Add(name string) {
	s[textutil.NormalizeName(name)] = struct{}{}
}

// PendingReport counts work waiting in the input directory.
type PendingReport struct {
	Eligible  int
	Converted int
}

// Pending returns how many eligible inputs have not been converted yet.
func (p PendingReport) Pending() int {
	return p.Eligible - p.Converted
}

func (p PendingReport) String() string {
	return fmt.Sprintf("%d pending of %d", p.Pending(), p.Eligible)
}

// Pending inspects the input and output directories without converting.
func Pending(inputDir, outputDir, sourceExt, targetExt string) (PendingReport, error) {
	sources, err := ListSources(inputDir, sourceExt)
	if err != nil {
		return PendingReport{}, err
	}
	outputs, err := ListOutputs(outputDir)
	if err != nil {
		return PendingReport{}, err
	}
	report := PendingReport{Eligible: len(sources)}
	for _, name := range sources {
		if outputs.Has(DeriveOutputName(name, targetExt)) {
			report.Converted++
		}
	}
	return report, nil
}
