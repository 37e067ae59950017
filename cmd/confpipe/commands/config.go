package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/confpipe/internal/config"
	"github.com/thoreinstein/confpipe/internal/errors"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show confpipe configuration",
	Long: `Show the settings confpipe itself runs with.

Settings come from ./config.yaml or $XDG_CONFIG_HOME/confpipe/config.yaml,
overridden by CONFPIPE_* environment variables. Flags on individual
commands override both.

Without a subcommand, lists all configuration values.`,
	Example: `  # List all configuration
  confpipe config

  # Get a specific value
  confpipe config get schema

See Also: confpipe resolve`,
	Args: cobra.NoArgs,
	RunE: runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a single configuration value by key.

Array values are printed one per line.`,
	Example: `  # Get the schema path
  confpipe config get schema

  # Get the default namespaces
  confpipe config get namespaces

See Also: confpipe config list`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration",
	Long:  `List all configuration values in YAML format.`,
	Example: `  # List all configuration
  confpipe config list

See Also: confpipe config get`,
	Args: cobra.NoArgs,
	RunE: runConfigList,
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	val, err := config.Get(args[0])
	if err != nil {
		return errors.NewUserError(err, "Run: confpipe config list")
	}

	w := cmd.OutOrStdout()
	switch v := val.(type) {
	case []any:
		// Array values - print one per line
		for _, item := range v {
			fmt.Fprintln(w, item)
		}
	case []string:
		for _, item := range v {
			fmt.Fprintln(w, item)
		}
	default:
		fmt.Fprintln(w, viper.GetString(args[0]))
	}
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	// yaml.Node keeps keys in display order
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range config.Keys() {
		var value yaml.Node
		if err := value.Encode(viper.Get(key)); err != nil {
			return errors.Wrapf(err, "encoding %s", key)
		}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			&value,
		)
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	w := cmd.OutOrStdout()
	if file := config.FileUsed(); file != "" {
		fmt.Fprintf(w, "# %s\n", file)
	}
	fmt.Fprint(w, string(data))
	return nil
}
