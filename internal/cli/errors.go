package cli

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitOperational = 1
	ExitUsage       = 2
	ExitStageFailed = 3
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

// operational wraps err as an exit-code-1 failure.
func operational(err error) *ExitError {
	return &ExitError{Code: ExitOperational, Message: err.Error(), Err: err}
}

// usage wraps err as an exit-code-2 failure.
func usage(err error) *ExitError {
	return &ExitError{Code: ExitUsage, Message: err.Error(), Err: err}
}

func usagef(format string, args ...any) *ExitError {
	return usage(fmt.Errorf(format, args...))
}

// asExitError classifies any error returned by cobra. Errors produced by
// command handlers are already ExitErrors; everything else comes from argument
// parsing and is a usage error.
func asExitError(err error) *ExitError {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return usage(err)
}
