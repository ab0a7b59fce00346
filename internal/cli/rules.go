package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mvp-joe/fragment-lint/internal/registry"
	"github.com/mvp-joe/fragment-lint/internal/rules"
)

var rulesYAML bool

// rulesCmd represents the rules command
var rulesCmd = &cobra.Command{
	Use:   "rules [ID]",
	Short: "List the built-in rules or describe one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeRules(cmd.OutOrStdout(), rules.Builtin(), args, rulesYAML)
	},
}

func init() {
	rulesCmd.Flags().BoolVar(&rulesYAML, "yaml", false, "print rule metadata as YAML")
	rootCmd.AddCommand(rulesCmd)
}

func executeRules(out io.Writer, reg *registry.Registry, args []string, asYAML bool) error {
	defs := reg.All()
	if len(args) == 1 {
		def, ok := reg.Lookup(args[0])
		if !ok {
			return fmt.Errorf("%w: %s", registry.ErrUnknownRule, args[0])
		}
		defs = []registry.Definition{def}
	}

	if asYAML {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(defs)
	}

	if len(args) == 1 {
		describeRule(out, defs[0])
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSEVERITY\tCATEGORY\tTITLE")
	for _, def := range defs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", def.ID, def.Severity, def.Category, def.Title)
	}
	return w.Flush()
}

func describeRule(out io.Writer, def registry.Definition) {
	fmt.Fprintf(out, "%s: %s\n\n", def.ID, def.Title)
	fmt.Fprintf(out, "%s\n\n", def.Explanation)
	fmt.Fprintf(out, "Category: %s\n", def.Category)
	fmt.Fprintf(out, "Severity: %s\n", def.Severity)
	if def.MinAPI > 0 {
		fmt.Fprintf(out, "Min API:  %d\n", def.MinAPI)
	}
	if len(def.Applies.BaseTypes) > 0 {
		fmt.Fprintf(out, "Applies to subclasses of: %s\n", strings.Join(def.Applies.BaseTypes, ", "))
	}
	if len(def.Applies.Calls) > 0 {
		fmt.Fprintf(out, "Inspects calls to: %s\n", strings.Join(def.Applies.Calls, ", "))
	}
}
