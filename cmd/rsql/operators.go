package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var operatorsFlags struct {
	format string
	parserOptions
}

var operatorsCmd = &cobra.Command{
	Use:   "operators",
	Short: "List comparison operators",
	Long: `List the comparison operators a query may use: the built-in operators,
or those of the operator catalog given by --operators or operators.file.

Examples:
  # Built-in operators
  rsql operators

  # Validate and list a custom catalog
  rsql operators --operators operators.yaml --format json`,
	Args: cobra.NoArgs,
	RunE: listOperators,
}

func init() {
	rootCmd.AddCommand(operatorsCmd)

	operatorsCmd.Flags().StringVarP(&operatorsFlags.format, "format", "f", "text", "output format: text, json")
	operatorsCmd.Flags().StringVar(&operatorsFlags.operators, "operators", "", "operator catalog file (overrides operators.file)")
}

// OperatorEntry is one operator in the JSON listing.
type OperatorEntry struct {
	Symbol  string   `json:"symbol"`
	Aliases []string `json:"aliases,omitempty"`
	Arity   string   `json:"arity"`
	MinArgs int      `json:"min_args"`
	MaxArgs int      `json:"max_args"`
}

func listOperators(cmd *cobra.Command, args []string) error {
	if operatorsFlags.format != "text" && operatorsFlags.format != "json" {
		return fmt.Errorf("unknown output format %q (must be text or json)", operatorsFlags.format)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	registry, err := operatorsFlags.registry(cfg)
	if err != nil {
		return err
	}

	entries := make([]OperatorEntry, 0, registry.Len())
	for _, op := range registry.Operators() {
		arity := op.Arity()
		entries = append(entries, OperatorEntry{
			Symbol:  op.Symbol(),
			Aliases: op.Aliases(),
			Arity:   arity.String(),
			MinArgs: arity.Min,
			MaxArgs: arity.Max,
		})
	}

	out := cmd.OutOrStdout()
	if operatorsFlags.format == "json" {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tALIASES\tARGUMENTS")
	for _, e := range entries {
		aliases := strings.Join(e.Aliases, " ")
		if aliases == "" {
			aliases = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Symbol, aliases, e.Arity)
	}
	return tw.Flush()
}
