package importer

import (
	"fmt"
	"os"
	"sort"

	"bookconv/internal/config"
	"bookconv/internal/fileutil"
	"bookconv/internal/services"
	"bookconv/internal/textutil"
)

// ResolveSource expands ~ in path and checks that it names a directory.
// Failures are marked services.ErrDirectoryInvalid.
func ResolveSource(path string) (string, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return "", services.Wrap(services.ErrDirectoryInvalid, "importer", "resolve source", path, err)
	}
	if problem := checkSource(expanded); problem != "" {
		return expanded, services.Wrap(services.ErrDirectoryInvalid, "importer", "resolve source", problem, nil)
	}
	return expanded, nil
}

// checkSource returns a user-facing reason dir is unusable, or "".
func checkSource(dir string) string {
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		return fmt.Sprintf("Directory '%s' does not exist.", dir)
	case err != nil:
		return fmt.Sprintf("Cannot read '%s': %v", dir, err)
	case !info.IsDir():
		return fmt.Sprintf("'%s' is not a directory.", dir)
	}
	return ""
}

// Scan lists regular files in dir whose extension matches ext, ignoring
// case. Symlinks count when they resolve to a regular file. It does not
// descend into subdirectories. An empty result is marked
// services.ErrNoMatchingFiles.
func Scan(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrDirectoryInvalid, "importer", "scan", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if !textutil.HasExtension(entry.Name(), ext) || !fileutil.IsRegularEntry(dir, entry) {
			continue
		}
		names = append(names, entry.Name())
	}
	if len(names) == 0 {
		return nil, services.Wrap(services.ErrNoMatchingFiles, "importer", "scan", dir, nil)
	}
	sort.Strings(names)
	return names, nil
}
