package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/confpipe/cmd"
)

func init() {
	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("confpipe version {{.Version}}\n")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version, commit, build date and Go version of confpipe.`,
	Args:  cobra.NoArgs,
	Run: func(c *cobra.Command, _ []string) {
		w := c.OutOrStdout()
		fmt.Fprintf(w, "confpipe version %s\n", cmd.Version)
		fmt.Fprintf(w, "  commit:    %s\n", cmd.Commit)
		fmt.Fprintf(w, "  built:     %s\n", cmd.Date)
		fmt.Fprintf(w, "  go:        %s\n", runtime.Version())
	},
}
