package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/confpipe/internal/cli/prompt"
	"github.com/thoreinstein/confpipe/internal/diag"
	"github.com/thoreinstein/confpipe/internal/errors"
	"github.com/thoreinstein/confpipe/internal/logging"
	"github.com/thoreinstein/confpipe/internal/resolve"
	"github.com/thoreinstein/confpipe/internal/schema"
)

// interactive reports whether the fuzzy finder can take over the terminal.
var interactive = func() bool {
	return logging.IsInteractive(os.Stdin, os.Stdout)
}

func init() {
	addPipelineFlags(explainCmd.Flags())
	rootCmd.AddCommand(explainCmd)
}

var explainCmd = &cobra.Command{
	Use:   "explain [key]",
	Short: "Show how a key got its value",
	Long: `Trace a single key through the resolution stages.

Shows the key's declaration, the value after each stage and where it
came from, whether the namespace filter kept it, and any diagnostics.
Secret values are masked.

Without a key, pick one interactively: a fuzzy finder on a terminal,
otherwise a numbered prompt.`,
	Example: `  # Explain the port key under the prod profile
  confpipe explain port --profile prod

  # Pick a key interactively
  confpipe explain

See Also: confpipe check, confpipe resolve`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExplain,
}

func runExplain(cmd *cobra.Command, args []string) error {
	snapshots := make(map[resolve.Stage]schema.Schema, len(resolve.Stages))
	run, err := runPipeline(cmd, false, resolve.WithObserver(func(stage resolve.Stage, s schema.Schema) {
		snapshots[stage] = s
	}))
	if err != nil {
		return err
	}

	var key string
	if len(args) == 1 {
		key = args[0]
	} else {
		key, err = pickKey(cmd, run.schema)
		if err != nil {
			if errors.Is(err, prompt.ErrSelectionCancelled) {
				return nil
			}
			return errors.NewUserError(err, "Pass the key as an argument")
		}
	}

	if !run.schema.Has(key) {
		return errors.NewUserError(
			errors.Wrapf(errors.ErrUnknownKey, "%q is not declared in the schema", key),
			"Run: confpipe explain (without a key) to pick one",
		)
	}

	printExplanation(cmd.OutOrStdout(), key, run, snapshots)
	return nil
}

func pickKey(cmd *cobra.Command, s schema.Schema) (string, error) {
	items := make([]prompt.Item, 0, s.Len())
	for key, f := range s.All() {
		items = append(items, prompt.Item{
			Key:     key,
			Detail:  f.DeclaredType(),
			Preview: declaration(key, f),
		})
	}

	if interactive() {
		return prompt.Find(items)
	}
	return prompt.NewSelectorWithIO(cmd.InOrStdin(), cmd.OutOrStdout()).Select("Keys", items)
}

// declaration renders a field's schema attributes.
func declaration(key string, f schema.Field) string {
	var b strings.Builder
	fmt.Fprintf(&b, "key:         %s\n", key)
	fmt.Fprintf(&b, "type:        %s\n", f.DeclaredType())
	fmt.Fprintf(&b, "required:    %t\n", f.Required)
	if !f.ShouldValidate() {
		fmt.Fprintf(&b, "validate:    false\n")
	}
	if name, ok := f.Env.VarName(key); ok {
		fmt.Fprintf(&b, "env:         %s\n", name)
	} else {
		fmt.Fprintf(&b, "env:         (unbound)\n")
	}
	if len(f.Namespace) > 0 {
		fmt.Fprintf(&b, "namespaces:  %s\n", strings.Join(f.Namespace, ", "))
	} else {
		fmt.Fprintf(&b, "namespaces:  (none)\n")
	}
	if f.Secret {
		fmt.Fprintf(&b, "secret:      true\n")
	}
	if f.Description != "" {
		fmt.Fprintf(&b, "description: %s\n", f.Description)
	}
	return b.String()
}

func printExplanation(w io.Writer, key string, run *pipelineRun, snapshots map[resolve.Stage]schema.Schema) {
	input, _ := run.schema.Get(key)
	fmt.Fprint(w, declaration(key, input))

	show := func(f schema.Field) string {
		if !f.HasValue {
			return diag.Undefined
		}
		return diag.Display(key, f.Value, input.Secret)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "stages:")
	fmt.Fprintf(w, "  %-12s %s\n", "default", show(input))

	if f, ok := snapshots[resolve.StageProfile].Get(key); ok {
		note := ""
		if f.Origin == schema.OriginProfile {
			note = fmt.Sprintf("  (profile %s)", run.profileName)
		}
		fmt.Fprintf(w, "  %-12s %s%s\n", resolve.StageProfile, show(f), note)
	}

	if f, ok := snapshots[resolve.StageEnvironment].Get(key); ok {
		note := ""
		if name, bound := f.Env.VarName(key); bound {
			if _, set := run.environment.Lookup(name); set {
				note = "  ($" + name + ")"
			} else {
				note = "  ($" + name + " unset)"
			}
		}
		fmt.Fprintf(w, "  %-12s %s%s\n", resolve.StageEnvironment, show(f), note)
	}

	kept := "dropped"
	if snapshots[resolve.StageNamespace].Has(key) {
		kept = "kept"
	}
	fmt.Fprintf(w, "  %-12s %s\n", resolve.StageNamespace, kept)

	diags := run.result.Diagnostics.ForKey(key)
	if diags.Len() == 0 {
		fmt.Fprintf(w, "  %-12s ok\n", resolve.StageValidate)
	} else {
		for _, d := range diags {
			fmt.Fprintf(w, "  %-12s %s %s\n", d.Stage, kindIcon(d.Kind), d.Message)
		}
	}

	fmt.Fprintln(w)
	if _, ok := run.result.Values[key]; ok {
		f, _ := snapshots[resolve.StageFlatten].Get(key)
		origin := ""
		if f.Origin != schema.OriginNone {
			origin = fmt.Sprintf(" (from %s)", f.Origin)
		}
		fmt.Fprintf(w, "value: %s%s\n", show(f), origin)
	} else {
		fmt.Fprintln(w, "value: (not in result)")
	}
}
