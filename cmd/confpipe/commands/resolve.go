package commands

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/confpipe/internal/errors"
	"github.com/thoreinstein/confpipe/internal/logging"
	"github.com/thoreinstein/confpipe/internal/render"
	"github.com/thoreinstein/confpipe/pkg/fileutil"
)

var (
	resolveFormat string
	resolveOutput string
	resolveStrict bool
)

func init() {
	addPipelineFlags(resolveCmd.Flags())
	resolveCmd.Flags().StringVar(&resolveFormat, "format", "",
		"output format: json, yaml, toml, env (default from config: json)")
	resolveCmd.Flags().StringVarP(&resolveOutput, "output", "o", "",
		"write to file instead of stdout (replaced atomically)")
	resolveCmd.Flags().BoolVar(&resolveStrict, "strict", false,
		"exit with code 3 when any diagnostic is reported")
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve configuration values",
	Long: `Resolve every key in the schema and print the flattened values.

Values are layered as schema default, then profile, then environment.
Keys outside the active namespaces are dropped. Diagnostics are logged
as warnings and do not stop resolution; with --strict they turn into
exit code 3 after the output has been written.

TOML and env output omit keys that resolved to no value.`,
	Example: `  # Print JSON to stdout
  confpipe resolve

  # Write an env file for the prod profile
  confpipe resolve --profile prod --format env -o .env.prod

  # Only keys tagged net or db, failing on any diagnostic
  confpipe resolve -n net -n db --strict

See Also: confpipe check, confpipe explain`,
	Args: cobra.NoArgs,
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, _ []string) error {
	name := resolveFormat
	if name == "" && cfg != nil {
		name = cfg.OutputFormat
	}
	if name == "" {
		name = string(render.FormatJSON)
	}
	format, err := render.ParseFormat(name)
	if err != nil {
		return errors.NewUserError(err, "Use --format json, yaml, toml or env")
	}

	run, err := runPipeline(cmd, true)
	if err != nil {
		return err
	}
	res := run.result

	data, err := render.Encode(res.Values, format)
	if err != nil {
		return errors.NewSystemError(err, "")
	}

	if resolveOutput != "" {
		path, err := expandPath(resolveOutput)
		if err != nil {
			return err
		}
		if err := fileutil.AtomicWriteFile(fsys, path, data, 0o600); err != nil {
			return errors.NewSystemError(err, "Check that the output directory exists and is writable")
		}
		logging.FromContext(cmd.Context()).Info("wrote values", "path", path, "format", format)
	} else if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return errors.NewSystemError(errors.Wrap(err, "writing output"), "")
	}

	strict := resolveStrict || (cfg != nil && cfg.Strict)
	if strict && res.Diagnostics.Len() > 0 {
		return errors.NewDiagnosticsError(res.Diagnostics.Len())
	}
	return nil
}
