package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"bookconv/internal/services"
)

func main() {
	os.Exit(run())
}

func run() (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\nUnexpected error: %v\n%s", r, debug.Stack())
			code = 1
		}
	}()

	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !silentError(err) {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
	return 0
}

// silentError reports errors whose message the flow already printed.
func silentError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, services.ErrToolUnavailable)
}
