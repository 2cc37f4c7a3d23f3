package reporter

import "time"

const logTimeFormat = "15:04:05"

// FormatLogEntry renders a log message with its wall-clock prefix.
func FormatLogEntry(at time.Time, message string) string {
	return at.Format(logTimeFormat) + " - " + message
}

// LogBuffer keeps the most recent entries in insertion order, evicting the
// oldest once full.
type LogBuffer struct {
	limit   int
	entries []string
	now     func() time.Time
}

// NewLogBuffer returns a buffer holding at most limit entries.
func NewLogBuffer(limit int, now func() time.Time) *LogBuffer {
	if limit <= 0 {
		limit = 1
	}
	if now == nil {
		now = time.Now
	}
	return &LogBuffer{limit: limit, entries: make([]string, 0, limit), now: now}
}

// Add timestamps message, stores it and returns the formatted entry.
func (b *LogBuffer) Add(message string) string {
	entry := FormatLogEntry(b.now(), message)
	if len(b.entries) == b.limit {
		copy(b.entries, b.entries[1:])
		b.entries = b.entries[:b.limit-1]
	}
	b.entries = append(b.entries, entry)
	return entry
}

// Lines returns a copy of the buffered entries, oldest first.
func (b *LogBuffer) Lines() []string {
	return append([]string(nil), b.entries...)
}
