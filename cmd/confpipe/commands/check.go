package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/confpipe/internal/diag"
	"github.com/thoreinstein/confpipe/internal/errors"
)

var checkJSON bool

func init() {
	addPipelineFlags(checkCmd.Flags())
	checkCmd.Flags().BoolVar(&checkJSON, "json", false,
		"output diagnostics as JSON")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report configuration diagnostics",
	Long: `Run the resolution pipeline and report every diagnostic.

Diagnostics are grouped by the stage that reported them:

  environment   an env value could not be coerced, or the type is unknown
  namespace     a key declares no namespace and was dropped
  validate      a required key has no value, or a value has the wrong type

Exit codes:
  0 - No diagnostics
  1 - The schema, profile or env file could not be read
  3 - Diagnostics reported`,
	Example: `  # Check the default schema with the prod profile
  confpipe check --profile prod

  # Machine-readable output
  confpipe check --json

See Also: confpipe resolve, confpipe explain`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

// checkReport is the JSON shape of the check output.
type checkReport struct {
	Schema      string         `json:"schema"`
	Profile     string         `json:"profile,omitempty"`
	Keys        int            `json:"keys"`
	Diagnostics diag.List      `json:"diagnostics"`
	Summary     map[string]int `json:"summary"`
}

func runCheck(cmd *cobra.Command, _ []string) error {
	run, err := runPipeline(cmd, false)
	if err != nil {
		return err
	}
	diags := run.result.Diagnostics
	out := cmd.OutOrStdout()

	if checkJSON {
		report := checkReport{
			Schema:      run.schemaPath,
			Profile:     run.profileName,
			Keys:        len(run.result.Values),
			Diagnostics: diags,
			Summary:     make(map[string]int),
		}
		if report.Diagnostics == nil {
			report.Diagnostics = diag.List{}
		}
		for kind, n := range diags.Summary() {
			report.Summary[kind.String()] = n
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return errors.NewSystemError(errors.Wrap(err, "encoding JSON"), "")
		}
	} else {
		printDiagnostics(out, diags)
		fmt.Fprintf(out, "Summary: %d keys resolved, %s\n", len(run.result.Values), diags.Summary())
	}

	if diags.Len() > 0 {
		return errors.NewDiagnosticsError(diags.Len())
	}
	return nil
}

func printDiagnostics(w io.Writer, diags diag.List) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s [%s] %s: %s\n", kindIcon(d.Kind), d.Stage, d.Key, d.Message)
	}
	if diags.Len() > 0 {
		fmt.Fprintln(w)
	}
}

var (
	warnIcon  = color.New(color.FgYellow).Sprint("⚠")
	errorIcon = color.New(color.FgRed, color.Bold).Sprint("✗")
)

// kindIcon marks required and type problems as errors. Dropped keys and
// failed coercions are warnings.
func kindIcon(k diag.Kind) string {
	switch k {
	case diag.MissingNamespace, diag.EnvCoercionFailure:
		return warnIcon
	default:
		return errorIcon
	}
}
