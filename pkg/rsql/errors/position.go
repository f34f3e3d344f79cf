package errors

import "fmt"

// Position identifies a character in the query string.
type Position struct {
	Offset int // Byte offset (0-based)
	Line   int // Line number (1-based)
	Column int // Column in runes (1-based)
}

// String returns the position as "line:column".
func (p Position) String() string {
	if !p.IsValid() {
		return "<unknown>"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid returns true if the position points into a query.
func (p Position) IsValid() bool {
	return p.Line > 0
}
