package batch

import "bookconv/internal/textutil"

// Task pairs an input file name with the output name it converts to.
type Task struct {
	SourceName string
	OutputName string
}

// DeriveOutputName replaces the final extension of source with targetExt.
// "my.book.v2.epub" becomes "my.book.v2.azw3".
func DeriveOutputName(source, targetExt string) string {
	return textutil.ReplaceExtension(source, targetExt)
}

// NewTask builds the task for a discovered input file.
func NewTask(source, targetExt string) Task {
	return Task{SourceName: source, OutputName: DeriveOutputName(source, targetExt)}
}

// State counts batch progress. Processed always equals
// Successful + Skipped + Failed between tasks.
type State struct {
	Total      int
	Processed  int
	Successful int
	Skipped    int
	Failed     int
}

// Consistent reports whether the counters satisfy the batch invariant.
func (s State) Consistent() bool {
	return s.Processed == s.Successful+s.Skipped+s.Failed && s.Processed <= s.Total
}

// Remaining returns how many tasks have not been processed yet.
func (s State) Remaining() int {
	if s.Total < s.Processed {
		return 0
	}
	return s.Total - s.Processed
}
