package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Exit codes for the confpipe CLI.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a user-related error (invalid flags, unreadable schema, missing profile).
	ExitUser = 1

	// ExitSystem indicates a system-related error (I/O, permissions).
	ExitSystem = 2

	// ExitDiagnostics indicates the pipeline ran but reported diagnostics in strict mode.
	ExitDiagnostics = 3
)

// Sentinel errors for common failure conditions.
var (
	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = crdb.New("resource not found")

	// ErrInvalidConfig indicates configuration validation failed.
	ErrInvalidConfig = crdb.New("invalid configuration")

	// ErrUnknownKey indicates a key that is not part of the resolved schema.
	ErrUnknownKey = crdb.New("unknown key")
)

// Thin re-exports so callers only import this package.
var (
	New      = crdb.New
	Newf     = crdb.Newf
	Wrap     = crdb.Wrap
	Wrapf    = crdb.Wrapf
	Is       = crdb.Is
	As       = crdb.As
	Join     = crdb.Join
	WithHint = crdb.WithHint
	Mark     = crdb.Mark

	GetAllHints = crdb.GetAllHints
)

// ExitError wraps an error with an exit code and optional suggestion for CLI applications.
// It implements the error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
// If err is nil, the returned ExitError will have a nil Err field.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitSystem,
		Suggestion: suggestion,
	}
}

// NewConfigError creates an ExitError with ExitUser code and a standard suggestion.
func NewConfigError(err error) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: "Run: confpipe config list",
	}
}

// NewDiagnosticsError reports that n diagnostics were produced in strict mode.
func NewDiagnosticsError(n int) *ExitError {
	return &ExitError{
		Err:        Newf("%d diagnostic(s) reported", n),
		Code:       ExitDiagnostics,
		Suggestion: "Run: confpipe check",
	}
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode extracts the exit code carried by err.
// A nil error maps to ExitSuccess and errors without an ExitError to ExitUser.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUser
}
