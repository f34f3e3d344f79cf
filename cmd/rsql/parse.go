package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/rsql/pkg/cli"
	"mercator-hq/rsql/pkg/rsql/ast"
)

var parseFlags struct {
	format string
	parserOptions
}

var parseCmd = &cobra.Command{
	Use:   "parse [QUERY|-]",
	Short: "Parse a query and print its AST",
	Long: `Parse a single RSQL/FIQL query and print it.

The query is read from the argument, or from stdin when the argument is "-"
or missing. On error the position of the problem is shown under the query
and the command exits with status 2.

Output formats:
  text      canonical query text (default)
  keywords  query text with AND / OR separators
  json      the AST as JSON
  tree      an indented outline of the AST
  csv       one row per comparison

Examples:
  # Canonical form
  rsql parse 'name=="John Smith";age>30'

  # AST as JSON
  rsql parse --format json 'tags=in=(a,b),status!=closed'

  # With a custom operator catalog
  rsql parse --operators operators.yaml 'name=like=Jo*'`,
	Args: cobra.MaximumNArgs(1),
	RunE: parseQuery,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseFlags.format, "format", "f", string(cli.FormatText), "output format: text, keywords, json, tree, csv")
	parseFlags.parserOptions.register(parseCmd)
}

func parseQuery(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(parseFlags.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, err := parseFlags.parser(cfg)
	if err != nil {
		return err
	}

	query, err := readQuery(cmd, args)
	if err != nil {
		return err
	}

	node, err := p.Parse(query)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return cli.NewExitError(cli.ExitInvalidQuery, err)
	}

	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "comparisons: %d, depth: %d, selectors: %s\n",
			len(ast.Comparisons(node)), ast.Depth(node), strings.Join(ast.Selectors(node), ","))
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), node)
}

// readQuery returns the query argument or, for "-" or no argument, stdin
// without its trailing newline.
func readQuery(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read query from stdin: %w", err)
	}
	query := strings.TrimRight(string(data), "\r\n")
	if query == "" {
		return "", errors.New("no query given")
	}
	return query, nil
}
