// Package main is the entry point for the confpipe CLI.
package main

import (
	"fmt"
	"os"

	"github.com/thoreinstein/confpipe/cmd/confpipe/commands"
	"github.com/thoreinstein/confpipe/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		report(err)
		os.Exit(errors.ExitCode(err))
	}
}

// report prints err and any suggestion or hints to stderr.
func report(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) && exitErr.Suggestion != "" {
		fmt.Fprintf(os.Stderr, "  %s\n", exitErr.Suggestion)
	}
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(os.Stderr, "  hint: %s\n", hint)
	}
}
