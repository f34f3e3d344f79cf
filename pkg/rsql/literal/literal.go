// Package literal decodes and encodes RSQL argument literals.
//
// A literal is double-quoted, single-quoted or bare. Quoted literals may
// contain any character; the enclosing quote and the backslash are escaped
// with a backslash. Other backslash sequences are kept verbatim, so "a\nb"
// decodes to the four characters a, \, n, b. Bare literals may not contain
// reserved characters unless each one is preceded by a backslash.
package literal

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	rsqlErrors "mercator-hq/rsql/pkg/rsql/errors"
)

const escape = '\\'

// IsReserved reports whether r has a structural meaning in the grammar and
// therefore cannot appear unescaped in a selector or bare literal.
func IsReserved(r rune) bool {
	switch r {
	case '"', '\'', '(', ')', ';', ',', '=', '!', '<', '>':
		return true
	}
	return unicode.IsSpace(r)
}

// IsIllegal reports whether r may not appear outside of a quoted literal.
func IsIllegal(r rune) bool {
	return unicode.IsControl(r) && !unicode.IsSpace(r)
}

// IsQuote reports whether r opens a quoted literal.
func IsQuote(r rune) bool {
	return r == '"' || r == '\''
}

// Decode returns the logical value of a raw literal as delimited by the
// grammar. Errors are lexical errors whose position offset is relative to
// the start of raw.
func Decode(raw string) (string, error) {
	if raw == "" {
		return "", rsqlErrors.NewLexical("empty literal", rsqlErrors.Position{}, raw)
	}
	if IsQuote(rune(raw[0])) {
		return DecodeQuoted(raw)
	}
	return DecodeBare(raw)
}

// DecodeQuoted decodes a single- or double-quoted literal including its
// quotes.
func DecodeQuoted(raw string) (string, error) {
	if raw == "" || !IsQuote(rune(raw[0])) {
		return "", lexicalAt("quoted literal must start with a quote", 0, raw)
	}
	quote := raw[0]

	var sb strings.Builder
	sb.Grow(len(raw))

	for i := 1; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == escape:
			if i+1 >= len(raw) {
				return "", lexicalAt("unterminated quoted literal", 0, raw)
			}
			next := raw[i+1]
			if next == quote || next == escape {
				sb.WriteByte(next)
			} else {
				// Unknown escapes are kept as written.
				sb.WriteByte(c)
				sb.WriteByte(next)
			}
			i++
		case c == quote:
			if i != len(raw)-1 {
				return "", lexicalAt("unexpected characters after closing quote", i+1, raw[i+1:])
			}
			return sb.String(), nil
		default:
			sb.WriteByte(c)
		}
	}

	return "", lexicalAt("unterminated quoted literal", 0, raw)
}

// DecodeBare decodes an unquoted literal. A backslash makes the following
// character literal; a trailing backslash is kept.
func DecodeBare(raw string) (string, error) {
	if err := ValidateBare(raw); err != nil {
		return "", err
	}
	if strings.IndexByte(raw, escape) < 0 {
		return raw, nil
	}

	var sb strings.Builder
	sb.Grow(len(raw))

	for i := 0; i < len(raw); i++ {
		if raw[i] == escape && i+1 < len(raw) {
			_, size := utf8.DecodeRuneInString(raw[i+1:])
			sb.WriteString(raw[i+1 : i+1+size])
			i += size
			continue
		}
		sb.WriteByte(raw[i])
	}
	return sb.String(), nil
}

// ValidateBare checks that raw contains no unescaped reserved or control
// characters. It is used for bare literals and selectors.
func ValidateBare(raw string) error {
	if raw == "" {
		return lexicalAt("empty literal", 0, raw)
	}
	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRuneInString(raw[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			return lexicalAt("invalid UTF-8 encoding", i, raw[i:i+1])
		case r == escape:
			if i+1 < len(raw) {
				_, next := utf8.DecodeRuneInString(raw[i+1:])
				size += next
			}
		case IsIllegal(r):
			return lexicalAt(fmt.Sprintf("illegal control character %U", r), i, string(r))
		case IsReserved(r):
			return lexicalAt(fmt.Sprintf("reserved character %q must be escaped or quoted", r), i, string(r))
		}
		i += size
	}
	return nil
}

// NeedsQuoting reports whether s cannot be written as a bare literal.
func NeedsQuoting(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if r == escape || r == utf8.RuneError || IsReserved(r) || IsIllegal(r) {
			return true
		}
	}
	return false
}

// Quote encodes s so that Decode returns s again. Values that need no
// escaping are returned unchanged.
func Quote(s string) string {
	if !NeedsQuoting(s) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == escape {
			sb.WriteByte(escape)
		}
		sb.WriteByte(s[i])
	}
	sb.WriteByte('"')
	return sb.String()
}

func lexicalAt(message string, offset int, token string) *rsqlErrors.Error {
	return rsqlErrors.NewLexical(message, rsqlErrors.Position{Offset: offset}, token)
}
