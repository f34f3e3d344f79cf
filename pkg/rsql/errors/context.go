package errors

import (
	"strings"
	"unicode/utf8"
)

// DefaultContextWidth is the number of query runes shown around an error.
const DefaultContextWidth = 72

// ExtractContext returns the query line containing pos with a caret marker
// under the offending token. Lines longer than width runes are cut to a
// window around the position.
func ExtractContext(query string, pos Position, token string, width int) string {
	if !pos.IsValid() || pos.Offset > len(query) {
		return ""
	}
	if width <= 0 {
		width = DefaultContextWidth
	}

	start := strings.LastIndexByte(query[:pos.Offset], '\n') + 1
	end := len(query)
	if i := strings.IndexByte(query[pos.Offset:], '\n'); i >= 0 {
		end = pos.Offset + i
	}
	line := []rune(query[start:end])
	col := utf8.RuneCountInString(query[start:pos.Offset])

	marks := utf8.RuneCountInString(token)
	if marks < 1 {
		marks = 1
	}
	if col+marks > len(line) && col < len(line) {
		marks = len(line) - col
	}

	// Cut a window so the caret stays visible.
	from, to := 0, len(line)
	prefix, suffix := "", ""
	if len(line) > width {
		from = col - width/2
		if from < 0 {
			from = 0
		}
		to = from + width
		if to > len(line) {
			to = len(line)
			from = to - width
		}
		if from > 0 {
			prefix = "..."
		}
		if to < len(line) {
			suffix = "..."
		}
	}

	var sb strings.Builder
	sb.WriteString("  | ")
	sb.WriteString(prefix)
	sb.WriteString(replaceTabs(string(line[from:to])))
	sb.WriteString(suffix)
	sb.WriteString("\n  | ")
	sb.WriteString(strings.Repeat(" ", len(prefix)+col-from))
	sb.WriteString(strings.Repeat("^", marks))
	sb.WriteString("\n")
	return sb.String()
}

// WithQuery attaches the query and its caret context to err.
func WithQuery(err *Error, query string) *Error {
	err.Query = query
	err.Context = ExtractContext(query, err.Position, err.Token, DefaultContextWidth)
	return err
}

// replaceTabs keeps the caret aligned with tab characters in the query.
func replaceTabs(s string) string {
	return strings.ReplaceAll(s, "\t", " ")
}
