package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/rsql/pkg/catalog"
	"mercator-hq/rsql/pkg/cli"
	"mercator-hq/rsql/pkg/config"
	"mercator-hq/rsql/pkg/rsql/operators"
	"mercator-hq/rsql/pkg/rsql/parser"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "rsql",
	Short: "RSQL/FIQL query parser",
	Long: `rsql parses RSQL/FIQL query strings into an abstract syntax tree.

It can:
  - Parse a query and print it as canonical text, JSON or a tree
  - Check files of queries and report every error with its position
  - List the comparison operators of an operator catalog
  - Serve the parser over HTTP with metrics, tracing and health probes`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the code of its error.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}
	os.Exit(cli.ExitCode(err))
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads cfgFile with environment overrides. A missing default
// config file yields the defaults.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError(cfgFile, err.Error())
	}
	return cfg, nil
}

// parserOptions are the flags shared by the commands that parse queries.
type parserOptions struct {
	operators string
	keywords  string
}

func (o *parserOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.operators, "operators", "", "operator catalog file (overrides operators.file)")
	cmd.Flags().StringVar(&o.keywords, "keywords", "", "AND/OR keywords: upper, any, none (overrides parser.keywords)")
}

// registry loads the operator catalog named by the flag or the config, the
// built-in operators when neither names one.
func (o *parserOptions) registry(cfg *config.Config) (*operators.Registry, error) {
	path := o.operators
	if path == "" {
		path = cfg.Operators.File
	}
	if path == "" {
		return operators.Default(), nil
	}
	r, err := catalog.LoadFile(path)
	if err != nil {
		return nil, cli.NewConfigError("operators.file", err.Error())
	}
	return r, nil
}

// parser builds a parser from the config and the flags.
func (o *parserOptions) parser(cfg *config.Config) (*parser.Parser, error) {
	registry, err := o.registry(cfg)
	if err != nil {
		return nil, err
	}

	keywords := cfg.Parser.Keywords
	if o.keywords != "" {
		keywords = o.keywords
	}
	mode, err := parser.ParseKeywordMode(keywords)
	if err != nil {
		return nil, cli.NewConfigError("parser.keywords", err.Error())
	}

	return parser.NewParser().
		WithRegistry(registry).
		WithKeywords(mode).
		WithMaxLength(cfg.Parser.MaxLength).
		WithMaxDepth(cfg.Parser.MaxDepth), nil
}
