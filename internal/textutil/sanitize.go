package textutil

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var extensionFolder = cases.Fold()

// NormalizeName returns the NFC form of a file name so names listed in
// decomposed form compare equal to their composed counterparts.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}

// HasExtension reports whether name ends in "."+ext, ignoring case.
// ext is given without the leading dot.
func HasExtension(name, ext string) bool {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext == "" {
		return false
	}
	got := filepath.Ext(name)
	if len(got) < 2 {
		return false
	}
	return extensionFolder.String(got[1:]) == extensionFolder.String(ext)
}

// ReplaceExtension swaps the final extension of name for ext. A name with
// no extension gets ext appended. Leading-dot names such as ".epub" keep
// the dot part as the stem.
func ReplaceExtension(name, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	stem := name
	if current := filepath.Ext(name); current != "" && current != name {
		stem = strings.TrimSuffix(name, current)
	}
	return stem + "." + ext
}

// Truncate returns at most limit runes of value. A non-positive limit
// returns value unchanged.
func Truncate(value string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(value) <= limit {
		return value
	}
	count := 0
	for i := range value {
		if count == limit {
			return value[:i]
		}
		count++
	}
	return value
}

// Snippet collapses whitespace runs in value and truncates the result.
func Snippet(value string, limit int) string {
	return Truncate(strings.Join(strings.Fields(value), " "), limit)
}
