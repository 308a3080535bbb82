package config

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// ExitCode maps a process error to its exit status. Cancellation from a
// shutdown signal counts as a clean exit.
func ExitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return 0
	default:
		return 1
	}
}

// Exit reports err on stderr under prefix and exits with ExitCode(err). It
// returns when err is nil.
func Exit(prefix string, err error) {
	if err == nil {
		return
	}
	code := ExitCode(err)
	if code != 0 {
		fmt.Fprintf(os.Stderr, "%s: %v\n", prefix, err)
	}
	os.Exit(code)
}
