// Package logging provides structured logging for the confpipe CLI using slog.
//
// The package supports both text and JSON output formats, configurable log
// levels, and helpers for testing. All loggers are based on the standard
// library's [log/slog] package.
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//		Level:  logging.LevelFromVerbosity(verbose),
//		Format: logging.FormatText,
//		Output: os.Stderr,
//	})
//	ctx = logging.NewContext(ctx, logger)
//
// Code that only receives a context retrieves the logger with [FromContext].
//
// # Log Files
//
// Setting [Config.File] tees every record, down to Debug, into a JSON log
// alongside the console output. Use [OpenFile] to open it.
//
// # Redaction
//
// The text [Handler] masks attribute values whose key looks sensitive, or
// whose value starts with a known token prefix, using the same rules as
// diagnostic messages.
//
// # Terminals
//
// [Handler] colors levels and keys only when [SupportsColor] holds for its
// writer. [IsInteractive] tells commands whether they may take over the
// terminal for a prompt. Records below Debug are labelled TRACE.
//
// # Testing
//
// For tests, use [ForTest] to capture log output via the testing framework:
//
//	func TestSomething(t *testing.T) {
//		logger := logging.ForTest(t)
//		// logs appear in test output on failure
//	}
//
// # Quiet Mode
//
// Use [NewDiscard] when log output should be suppressed entirely:
//
//	logger := logging.NewDiscard()
package logging
