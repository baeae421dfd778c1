// Package output provides structured output and error handling for the issuelinks CLI.
package output

import "errors"

// Process exit codes.
const (
	ExitSuccess     = 0
	ExitUserError   = 1 // bad flag, tracker or config
	ExitSystemError = 2 // changelog missing or unreadable, write failed
	ExitConflict    = 3 // check found a changelog that needs updating
)

// ExitError carries the exit code a command failure maps to.
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string { return e.Message }

func (e *ExitError) Unwrap() error { return e.Cause }

// NewUserErrorWithCause reports invalid input. The cause is appended to the
// message since it usually names the offending value.
func NewUserErrorWithCause(message string, cause error) *ExitError {
	return &ExitError{Code: ExitUserError, Message: message + ": " + cause.Error(), Cause: cause}
}

// NewSystemErrorWithCause reports a failed file operation. The cause stays
// reachable through errors.Is but is not part of the message.
func NewSystemErrorWithCause(message string, cause error) *ExitError {
	return &ExitError{Code: ExitSystemError, Message: message, Cause: cause}
}

// NewConflictError reports a changelog that is not in its linked state.
func NewConflictError(message string) *ExitError {
	return &ExitError{Code: ExitConflict, Message: message}
}

// GetExitCode maps err to a process exit code. Errors that are not an
// ExitError count as user errors.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUserError
}
