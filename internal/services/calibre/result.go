package calibre

import (
	"fmt"
	"time"

	"bookconv/internal/services"
)

// Outcome tags a conversion result.
type Outcome int

const (
	// Success means the tool exited 0.
	Success Outcome = iota
	// ToolFailure means the tool ran and exited non-zero.
	ToolFailure
	// Timeout means the tool was killed after exceeding the conversion bound.
	Timeout
	// SpawnError means the tool could not be started.
	SpawnError
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case ToolFailure:
		return "failed"
	case Timeout:
		return "timeout"
	case SpawnError:
		return "error"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result describes a single conversion attempt. Detail holds the truncated
// stderr for ToolFailure and the truncated error message for SpawnError.
type Result struct {
	Outcome  Outcome
	Detail   string
	ExitCode int
	Duration time.Duration
}

// Err maps failure outcomes to their service markers. Success returns nil.
func (r Result) Err() error {
	switch r.Outcome {
	case Success:
		return nil
	case ToolFailure:
		return services.Wrap(services.ErrConversionFailure, "calibre", "convert", fmt.Sprintf("exit status %d: %s", r.ExitCode, r.Detail), nil)
	case Timeout:
		return services.Wrap(services.ErrConversionTimeout, "calibre", "convert", fmt.Sprintf("killed after %s", r.Duration.Round(time.Second)), nil)
	default:
		return services.Wrap(services.ErrSpawn, "calibre", "convert", r.Detail, nil)
	}
}
