package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"mercator-hq/rsql/pkg/rsql/ast"
	"mercator-hq/rsql/pkg/rsql/render"
)

// OutputFormat represents the output format of a parsed query.
type OutputFormat string

const (
	// FormatText is the canonical query text (default).
	FormatText OutputFormat = "text"
	// FormatKeywords is the query text with AND / OR separators.
	FormatKeywords OutputFormat = "keywords"
	// FormatJSON is the AST as JSON.
	FormatJSON OutputFormat = "json"
	// FormatTree is an indented outline of the AST.
	FormatTree OutputFormat = "tree"
	// FormatCSV lists the comparisons, one per row.
	FormatCSV OutputFormat = "csv"
)

// OutputFormats lists every supported format.
var OutputFormats = []OutputFormat{FormatText, FormatKeywords, FormatJSON, FormatTree, FormatCSV}

// ParseOutputFormat validates a --format value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	for _, f := range OutputFormats {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	names := make([]string, len(OutputFormats))
	for i, f := range OutputFormats {
		names[i] = string(f)
	}
	return "", fmt.Errorf("unknown output format %q (must be one of %s)", s, strings.Join(names, ", "))
}

// Formatter writes a parsed query.
type Formatter interface {
	Format(node ast.Node) ([]byte, error)
	FormatTo(w io.Writer, node ast.Node) error
}

// TextFormatter writes the query as RSQL text.
type TextFormatter struct {
	Keywords bool
}

// Format renders node as text.
func (f *TextFormatter) Format(node ast.Node) ([]byte, error) {
	s, err := render.NewRenderer().WithKeywords(f.Keywords).Render(node)
	if err != nil {
		return nil, err
	}
	return []byte(s + "\n"), nil
}

// FormatTo writes node to w as text.
func (f *TextFormatter) FormatTo(w io.Writer, node ast.Node) error {
	return writeFormatted(w, f, node)
}

// JSONFormatter writes the AST as JSON.
type JSONFormatter struct {
	Indent bool
}

// Format converts node to JSON.
func (f *JSONFormatter) Format(node ast.Node) ([]byte, error) {
	tree, err := render.ToTree(node)
	if err != nil {
		return nil, err
	}
	if f.Indent {
		return json.MarshalIndent(tree, "", "  ")
	}
	return json.Marshal(tree)
}

// FormatTo writes node to w as JSON.
func (f *JSONFormatter) FormatTo(w io.Writer, node ast.Node) error {
	tree, err := render.ToTree(node)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(tree)
}

// TreeFormatter writes an indented outline of the AST.
type TreeFormatter struct{}

// Format returns the outline of node.
func (f *TreeFormatter) Format(node ast.Node) ([]byte, error) {
	return []byte(render.Indent(node)), nil
}

// FormatTo writes the outline of node to w.
func (f *TreeFormatter) FormatTo(w io.Writer, node ast.Node) error {
	return writeFormatted(w, f, node)
}

// CSVFormatter writes one row per comparison: selector, operator, then
// one field per argument.
type CSVFormatter struct {
	Headers []string
}

// Format converts node to CSV.
func (f *CSVFormatter) Format(node ast.Node) ([]byte, error) {
	var sb strings.Builder
	if err := f.FormatTo(&sb, node); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// FormatTo writes node to w as CSV.
func (f *CSVFormatter) FormatTo(w io.Writer, node ast.Node) error {
	csvWriter := csv.NewWriter(w)

	if len(f.Headers) > 0 {
		if err := csvWriter.Write(f.Headers); err != nil {
			return err
		}
	}

	for _, c := range ast.Comparisons(node) {
		record := append([]string{c.Selector(), c.Operator().Symbol()}, c.Arguments()...)
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// NewFormatter creates a new formatter for the specified format.
func NewFormatter(format OutputFormat) Formatter {
	switch format {
	case FormatKeywords:
		return &TextFormatter{Keywords: true}
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatTree:
		return &TreeFormatter{}
	case FormatCSV:
		return &CSVFormatter{Headers: []string{"selector", "operator", "arguments"}}
	default:
		return &TextFormatter{}
	}
}

func writeFormatted(w io.Writer, f Formatter, node ast.Node) error {
	data, err := f.Format(node)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
