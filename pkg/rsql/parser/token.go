package parser

import (
	"fmt"
	"unicode/utf8"

	rsqlErrors "mercator-hq/rsql/pkg/rsql/errors"
)

// TokenKind identifies the lexical class of a token.
type TokenKind int

const (
	TokenEOF       TokenKind = iota // End of input
	TokenWord                       // Unquoted selector, literal or keyword
	TokenQuoted                     // Single- or double-quoted literal
	TokenOperator                   // Comparison operator symbol
	TokenLParen                     // (
	TokenRParen                     // )
	TokenSemicolon                  // ;
	TokenComma                      // ,
)

// String returns the name of the token kind.
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"
	case TokenWord:
		return "Word"
	case TokenQuoted:
		return "Quoted"
	case TokenOperator:
		return "Operator"
	case TokenLParen:
		return "LParen"
	case TokenRParen:
		return "RParen"
	case TokenSemicolon:
		return "Semicolon"
	case TokenComma:
		return "Comma"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// Token is a lexical unit of a query.
type Token struct {
	Kind  TokenKind
	Text  string              // Raw source text
	Value string              // Decoded value of Word and Quoted tokens
	Pos   rsqlErrors.Position // Start of the token
	End   int                 // Byte offset just past the token
}

// describe returns the token as it appears in "found ..." messages.
func (t Token) describe() string {
	switch t.Kind {
	case TokenEOF:
		return "end of input"
	case TokenWord:
		return fmt.Sprintf("%q", t.Text)
	case TokenQuoted:
		return "quoted literal " + t.Text
	case TokenOperator:
		return fmt.Sprintf("operator %q", t.Text)
	default:
		return "'" + t.Text + "'"
	}
}

// adjacent reports whether next starts exactly where t ends.
func (t Token) adjacent(next Token) bool {
	return next.Kind != TokenEOF && next.Pos.Offset == t.End
}

// advancePosition returns the position reached from p after reading s.
// Columns count runes.
func advancePosition(p rsqlErrors.Position, s string) rsqlErrors.Position {
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		p.Offset += size
		if r == '\n' {
			p.Line++
			p.Column = 1
		} else {
			p.Column++
		}
		s = s[size:]
	}
	return p
}

// positionAt converts a byte offset of query to a full position.
func positionAt(query string, offset int) rsqlErrors.Position {
	if offset > len(query) {
		offset = len(query)
	}
	return advancePosition(startPosition, query[:offset])
}

var startPosition = rsqlErrors.Position{Offset: 0, Line: 1, Column: 1}
