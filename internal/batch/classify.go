package batch

import (
	"fmt"

	"bookconv/internal/services/calibre"
)

// Status is the per-file classification.
type Status int

const (
	StatusSucceeded Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Classification is the outcome of one task plus the log line describing it.
type Classification struct {
	Status  Status
	Message string
}

// Classify maps a converter result to a status and log message.
func Classify(task Task, result calibre.Result) Classification {
	switch result.Outcome {
	case calibre.Success:
		return Classification{Status: StatusSucceeded, Message: "✓ Success: " + task.OutputName}
	case calibre.ToolFailure:
		return Classification{Status: StatusFailed, Message: fmt.Sprintf("✗ Failed: %s - %s", task.SourceName, result.Detail)}
	case calibre.Timeout:
		return Classification{Status: StatusFailed, Message: "✗ Timeout: " + task.SourceName}
	default:
		return Classification{Status: StatusFailed, Message: fmt.Sprintf("✗ Error: %s - %s", task.SourceName, result.Detail)}
	}
}

// SkippedClassification describes a task whose output already exists.
func SkippedClassification(task Task) Classification {
	return Classification{Status: StatusSkipped, Message: "Skipped (already exists): " + task.OutputName}
}

func (s *State) apply(status Status) {
	switch status {
	case StatusSucceeded:
		s.Successful++
	case StatusSkipped:
		s.Skipped++
	default:
		s.Failed++
	}
	s.Processed++
}
