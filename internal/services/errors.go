package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrToolUnavailable   = errors.New("converter unavailable")
	ErrDirectoryInvalid  = errors.New("invalid directory")
	ErrNoMatchingFiles   = errors.New("no matching files")
	ErrCopyFailure       = errors.New("copy failure")
	ErrConversionFailure = errors.New("conversion failure")
	ErrConversionTimeout = errors.New("conversion timeout")
	ErrSpawn             = errors.New("spawn error")
	ErrIO                = errors.New("i/o error")
	ErrBusy              = errors.New("workspace busy")
	ErrConfiguration     = errors.New("configuration error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
