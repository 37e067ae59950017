// Package errors provides error handling conventions for the confpipe CLI.
//
// It re-exports the constructors and predicates of
// [github.com/cockroachdb/errors] so the rest of the module has a single
// import for wrapping, and defines an ExitError type that carries the
// process exit code.
//
// # Faults and Diagnostics
//
// Only true faults travel as Go errors: a profile file that cannot be found
// or parsed, an unreadable schema, a bad flag. Per-key problems found while
// resolving configuration are diagnostics (see package diag) and never abort
// a run. In strict mode the CLI converts a non-empty diagnostic list into
// an ExitError with ExitDiagnostics.
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, configuration, etc.)
//   - ExitSystem (2): System-related error (I/O, permissions, etc.)
//   - ExitDiagnostics (3): Diagnostics reported under --strict
//
// # ExitError
//
//	err := cperrors.NewUserError(cperrors.ErrInvalidConfig, "Check your config file")
//	os.Exit(cperrors.ExitCode(err))
package errors
