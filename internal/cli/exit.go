package cli

import (
	"context"
	goerrors "errors"

	"github.com/peoplesfeelings/mindmap/pkg/config"
	"github.com/peoplesfeelings/mindmap/pkg/errors"
)

// Process exit codes.
const (
	ExitOK        = 0
	ExitError     = 1
	ExitConfig    = 2
	ExitInterrupt = 130 // Shell convention for SIGINT
)

// ExitCode maps the error returned by the root command to a process exit
// code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case goerrors.Is(err, context.Canceled):
		return ExitInterrupt
	case errors.IsConfig(err):
		return ExitConfig
	}
	return ExitError
}

// PrintError reports a failed command. Interrupts print nothing.
func PrintError(err error) {
	if err == nil || goerrors.Is(err, context.Canceled) {
		return
	}
	printError("%s", errors.UserMessage(err))
	if errors.IsConfig(err) {
		printDetail("check %s or pass --config", config.DefaultPath())
	}
}
