// Package commands implements the CLI commands for confpipe.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/thoreinstein/confpipe/internal/config"
	"github.com/thoreinstein/confpipe/internal/errors"
	"github.com/thoreinstein/confpipe/internal/logging"
)

// debugEnv raises verbosity when no -v flag is given: "1"/"true" for debug,
// "2" for trace.
const debugEnv = "CONFPIPE_DEBUG"

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configFile holds the value of the --config flag.
var configFile string

// cfg is the loaded tool configuration; nil until initConfig runs.
var cfg *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

// logCloser closes the --log-file handle after the command finishes.
var logCloser io.Closer

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: ./config.yaml, then $XDG_CONFIG_HOME/confpipe/config.yaml)")

	// --profile_dir and --profile-dir are the same flag
	rootCmd.SetGlobalNormalizationFunc(normalizeFlagName)

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

// normalizeFlagName accepts underscores in flag names, matching the
// spelling of config keys.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func initConfig() {
	config.Init()
	// Capture load errors for later reporting
	cfg, configLoadErr = config.Load(configFile)
}

var rootCmd = &cobra.Command{
	Use:   "confpipe",
	Short: "Resolve configuration from a schema, profiles and the environment",
	Long: `confpipe resolves configuration values described by a schema file.

Each key in the schema declares its type, whether it is required, the
environment variable it is bound to and the namespaces it belongs to.
Values are layered in a fixed order:

  1. schema defaults
  2. the selected profile (<name>.yaml, .yml, .toml or .json)
  3. environment variables (a --env-file layer sits under the process env)

Keys outside the active namespaces are dropped, values are checked against
their declared types, and the result is printed as a flat key/value map.
Problems with individual keys are reported as diagnostics without stopping
the rest of the resolution.`,
	Example: `  # Resolve using ./confpipe.yaml and the PROFILE environment variable
  confpipe resolve

  # Resolve the "prod" profile for the net namespace as env lines
  confpipe resolve --profile prod -n net --format env

  # Report every diagnostic
  confpipe check

  # Trace how a single key got its value
  confpipe explain port

  See Also: confpipe check, confpipe explain, confpipe config`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Initialize logging first
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(
			errors.New("cannot use --quiet and --verbose together"),
			"Pass either -q or -v",
		)
	}

	format, err := logging.ParseFormat(logFormat)
	if err != nil {
		return errors.NewUserError(err, "Use --log-format text or --log-format json")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv(debugEnv); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	logCfg := logging.Config{
		Level:  level,
		Format: format,
		Output: cmd.ErrOrStderr(),
	}

	if logFile != "" {
		path, err := expandPath(logFile)
		if err != nil {
			return err
		}
		f, err := logging.OpenFile(path)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		logCfg.File = f
		logCloser = f
	}

	logger := logging.New(logCfg)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkConfig surfaces config load errors, except for commands that must
// work with a broken config.
func checkConfig(cmd *cobra.Command) error {
	// Skip validation for help and version commands
	if cmd.Name() == "help" || cmd.Name() == "version" {
		return nil
	}

	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}
	if cfg != nil {
		logging.FromContext(cmd.Context()).Debug("config loaded", "file", config.FileUsed())
	}
	return nil
}

// closeLogFile closes the --log-file handle, if one is open.
func closeLogFile() error {
	if logCloser == nil {
		return nil
	}
	err := logCloser.Close()
	logCloser = nil
	return errors.Wrap(err, "closing log file")
}

// executeRoot executes the root command and closes the log file whether or not
// the command failed.
func executeRoot() error {
	err := rootCmd.Execute()
	if cerr := closeLogFile(); err == nil {
		err = cerr
	}
	return err
}

// Execute runs the root command.
func Execute() error {
	return errors.Wrap(executeRoot(), "executing root command")
}
