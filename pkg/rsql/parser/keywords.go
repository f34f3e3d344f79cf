package parser

import (
	"fmt"
	"strings"

	"mercator-hq/rsql/pkg/rsql/ast"
)

// KeywordMode controls whether the words AND and OR are accepted as
// separators in addition to ';' and ','.
type KeywordMode int

const (
	KeywordsUpper   KeywordMode = iota // Exactly "AND" and "OR"
	KeywordsAnyCase                    // "and", "And", "AND", ...
	KeywordsNone                       // Only ';' and ','
)

// ParseKeywordMode parses "upper", "any" or "none".
func ParseKeywordMode(s string) (KeywordMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "upper":
		return KeywordsUpper, nil
	case "any", "anycase", "any_case":
		return KeywordsAnyCase, nil
	case "none", "off":
		return KeywordsNone, nil
	default:
		return KeywordsUpper, fmt.Errorf("unknown keyword mode %q (must be upper, any or none)", s)
	}
}

// String returns the configuration name of the mode.
func (m KeywordMode) String() string {
	switch m {
	case KeywordsUpper:
		return "upper"
	case KeywordsAnyCase:
		return "any"
	case KeywordsNone:
		return "none"
	default:
		return fmt.Sprintf("KeywordMode(%d)", int(m))
	}
}

// match reports whether word is the keyword for op under this mode.
func (m KeywordMode) match(word string, op ast.LogicalOperator) bool {
	keyword := "AND"
	if op == ast.Or {
		keyword = "OR"
	}
	switch m {
	case KeywordsUpper:
		return word == keyword
	case KeywordsAnyCase:
		return strings.EqualFold(word, keyword)
	default:
		return false
	}
}
