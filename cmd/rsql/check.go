package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/rsql/pkg/cli"
	rsqlErrors "mercator-hq/rsql/pkg/rsql/errors"
	"mercator-hq/rsql/pkg/rsql/parser"
	"mercator-hq/rsql/pkg/rsql/render"
)

var checkFlags struct {
	format   string
	progress bool
	parserOptions
}

var checkCmd = &cobra.Command{
	Use:   "check [FILE|-]",
	Short: "Check a file of queries",
	Long: `Parse every query of a file, one query per line, and report the errors.

Blank lines and lines starting with '#' are skipped. The file is read from
stdin when the argument is "-" or missing. The command exits with status 2
when at least one query is invalid.

Examples:
  # Check a file
  rsql check queries.txt

  # JSON report for CI/CD
  rsql check --format json queries.txt

  # From a pipe, with a progress bar on stderr
  cat queries.txt | rsql check --progress`,
	Args: cobra.MaximumNArgs(1),
	RunE: checkQueries,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkFlags.format, "format", "f", "text", "output format: text, json")
	checkCmd.Flags().BoolVar(&checkFlags.progress, "progress", false, "show a progress bar on stderr")
	checkFlags.parserOptions.register(checkCmd)
}

// CheckReport is the result of checking one input.
type CheckReport struct {
	File    string        `json:"file"`
	Total   int           `json:"total"`
	Invalid int           `json:"invalid"`
	Results []CheckResult `json:"results"`
}

// CheckResult is the result of one query.
type CheckResult struct {
	Line      int         `json:"line"`
	Query     string      `json:"query"`
	Valid     bool        `json:"valid"`
	Canonical string      `json:"canonical,omitempty"`
	Error     *CheckError `json:"error,omitempty"`
}

// CheckError describes why a query was rejected.
type CheckError struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Column     int    `json:"column,omitempty"`
	Offset     int    `json:"offset"`
	Suggestion string `json:"suggestion,omitempty"`
}

func checkQueries(cmd *cobra.Command, args []string) error {
	if checkFlags.format != "text" && checkFlags.format != "json" {
		return fmt.Errorf("unknown output format %q (must be text or json)", checkFlags.format)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, err := checkFlags.parser(cfg)
	if err != nil {
		return err
	}

	name, in, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer in.Close()

	var progress cli.ProgressReporter
	if checkFlags.progress {
		progress = cli.NewProgressReporter(cmd.ErrOrStderr())
	}

	report, err := check(p, name, in, progress)
	if err != nil {
		return cli.NewCommandError("check", err)
	}

	if checkFlags.format == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return err
		}
	} else {
		writeCheckText(cmd.OutOrStdout(), report)
	}

	if report.Invalid > 0 {
		return cli.NewExitError(cli.ExitInvalidQuery,
			fmt.Errorf("%d of %d queries invalid", report.Invalid, report.Total))
	}
	return nil
}

func openInput(cmd *cobra.Command, args []string) (string, io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return "<stdin>", io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return "", nil, fmt.Errorf("failed to open query file: %w", err)
	}
	return args[0], f, nil
}

// check parses every query line of in.
func check(p *parser.Parser, name string, in io.Reader, progress cli.ProgressReporter) (*CheckReport, error) {
	type line struct {
		number int
		query  string
	}

	var lines []line
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for n := 1; scanner.Scan(); n++ {
		text := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(text)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		lines = append(lines, line{number: n, query: text})
	}
	if err := scanner.Err(); err != nil {
		if progress != nil {
			progress.Error(err)
		}
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	report := &CheckReport{
		File:    name,
		Total:   len(lines),
		Results: make([]CheckResult, 0, len(lines)),
	}

	if progress != nil {
		progress.Start(int64(len(lines)))
	}
	for i, l := range lines {
		result := CheckResult{Line: l.number, Query: l.query, Valid: true}

		node, err := p.Parse(l.query)
		if err != nil {
			result.Valid = false
			result.Error = checkError(err)
			report.Invalid++
		} else {
			result.Canonical = render.Canonical(node)
		}
		report.Results = append(report.Results, result)

		if progress != nil {
			progress.Update(int64(i+1), int64(report.Invalid))
		}
	}
	if progress != nil {
		progress.Finish()
	}

	return report, nil
}

func checkError(err error) *CheckError {
	var perr *rsqlErrors.Error
	if !errors.As(err, &perr) {
		return &CheckError{Type: "internal", Message: err.Error()}
	}
	return &CheckError{
		Type:       string(perr.Type),
		Message:    perr.Message,
		Column:     perr.Position.Column,
		Offset:     perr.Position.Offset,
		Suggestion: perr.Suggestion,
	}
}

func writeCheckText(w io.Writer, report *CheckReport) {
	for _, r := range report.Results {
		if r.Valid {
			if verbose {
				fmt.Fprintf(w, "✓ %s:%d: %s\n", report.File, r.Line, r.Canonical)
			}
			continue
		}

		fmt.Fprintf(w, "✗ %s:%d", report.File, r.Line)
		if r.Error.Column > 0 {
			fmt.Fprintf(w, ":%d", r.Error.Column)
		}
		fmt.Fprintf(w, ": %s error: %s\n", r.Error.Type, r.Error.Message)
		if r.Error.Suggestion != "" {
			fmt.Fprintf(w, "  = suggestion: %s\n", r.Error.Suggestion)
		}
	}

	if report.Invalid == 0 {
		fmt.Fprintf(w, "✓ %d queries valid\n", report.Total)
		return
	}
	fmt.Fprintf(w, "\n%d of %d queries invalid\n", report.Invalid, report.Total)
}
