package ast

import (
	"fmt"
	"regexp"
	"strings"

	rsqlErrors "mercator-hq/rsql/pkg/rsql/errors"
)

// Unbounded is the Arity.Max of operators without an argument limit.
const Unbounded = -1

// symbolPattern is the set of operator shapes the tokenizer can produce.
var symbolPattern = regexp.MustCompile(`^(?:=[a-zA-Z]*=|[><]=?|!=)$`)

// Arity is the number of arguments an operator accepts.
type Arity struct {
	Min int // Minimum argument count (at least 1)
	Max int // Maximum argument count, or Unbounded
}

var (
	// SingleValue accepts exactly one argument.
	SingleValue = Arity{Min: 1, Max: 1}

	// MultiValue accepts one or more arguments.
	MultiValue = Arity{Min: 1, Max: Unbounded}
)

// Allows reports whether n arguments satisfy the arity.
func (a Arity) Allows(n int) bool {
	if n < a.Min {
		return false
	}
	return a.Max == Unbounded || n <= a.Max
}

// IsMultiValue reports whether more than one argument may be given.
func (a Arity) IsMultiValue() bool {
	return a.Max == Unbounded || a.Max > 1
}

// String returns the arity in words, e.g. "exactly 1" or "at least 1".
func (a Arity) String() string {
	switch {
	case a.Max == Unbounded:
		return fmt.Sprintf("at least %d", a.Min)
	case a.Min == a.Max:
		return fmt.Sprintf("exactly %d", a.Min)
	default:
		return fmt.Sprintf("%d to %d", a.Min, a.Max)
	}
}

func (a Arity) validate() error {
	if a.Min < 1 {
		return fmt.Errorf("minimum argument count must be at least 1, got %d", a.Min)
	}
	if a.Max != Unbounded && a.Max < a.Min {
		return fmt.Errorf("maximum argument count %d is lower than minimum %d", a.Max, a.Min)
	}
	return nil
}

// ComparisonOperator identifies a comparison by its canonical symbol. It may
// have aliases, e.g. "=gt=" has the alias ">". Two operators are equal when
// their canonical symbols are equal.
type ComparisonOperator struct {
	symbols []string // canonical symbol first
	arity   Arity
}

// Define creates a custom operator. A multi-value operator accepts one or more
// arguments, any other exactly one.
//
// A malformed symbol, or a symbol repeated within the operator, is an
// invalid_symbol error. Define does not see any registry: a symbol already
// used by another operator is reported as a conflict error by
// Registry.Extend or Registry.Override.
func Define(symbol string, aliases []string, multiValue bool) (ComparisonOperator, error) {
	arity := SingleValue
	if multiValue {
		arity = MultiValue
	}
	return DefineWithArity(symbol, aliases, arity)
}

// DefineWithArity creates a custom operator with an explicit arity.
func DefineWithArity(symbol string, aliases []string, arity Arity) (ComparisonOperator, error) {
	symbols := make([]string, 0, len(aliases)+1)
	symbols = append(symbols, symbol)
	symbols = append(symbols, aliases...)

	seen := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		if err := ValidateSymbol(s); err != nil {
			return ComparisonOperator{}, err
		}
		if seen[s] {
			return ComparisonOperator{}, rsqlErrors.NewInvalidSymbol(s, fmt.Sprintf("used more than once by operator %q", symbol))
		}
		seen[s] = true
	}

	if err := arity.validate(); err != nil {
		return ComparisonOperator{}, rsqlErrors.NewInvalidSymbol(symbol, err.Error())
	}

	return ComparisonOperator{symbols: symbols, arity: arity}, nil
}

// MustDefine is like DefineWithArity but panics on error. It is intended for
// package-level operator variables.
func MustDefine(symbol string, aliases []string, arity Arity) ComparisonOperator {
	op, err := DefineWithArity(symbol, aliases, arity)
	if err != nil {
		panic(err)
	}
	return op
}

// ValidateSymbol checks that s is a symbol the tokenizer can produce and that
// it does not collide with grammar punctuation.
func ValidateSymbol(s string) error {
	if s == "" {
		return rsqlErrors.NewInvalidSymbol(s, "symbol must not be empty")
	}
	if strings.ContainsAny(s, "();,\"' \t\r\n") {
		return rsqlErrors.NewInvalidSymbol(s, "symbol collides with reserved grammar characters")
	}
	if !symbolPattern.MatchString(s) {
		return rsqlErrors.NewInvalidSymbol(s, "symbol must match =[a-zA-Z]*=, <, <=, >, >= or !=")
	}
	return nil
}

// Symbol returns the canonical symbol.
func (o ComparisonOperator) Symbol() string {
	if len(o.symbols) == 0 {
		return ""
	}
	return o.symbols[0]
}

// Aliases returns the alternative symbols.
func (o ComparisonOperator) Aliases() []string {
	if len(o.symbols) < 2 {
		return nil
	}
	return append([]string(nil), o.symbols[1:]...)
}

// Symbols returns all symbols, canonical first.
func (o ComparisonOperator) Symbols() []string {
	return append([]string(nil), o.symbols...)
}

// Arity returns the accepted argument count.
func (o ComparisonOperator) Arity() Arity {
	return o.arity
}

// IsMultiValue reports whether the operator accepts more than one argument.
func (o ComparisonOperator) IsMultiValue() bool {
	return o.arity.IsMultiValue()
}

// IsZero reports whether o is the zero value.
func (o ComparisonOperator) IsZero() bool {
	return len(o.symbols) == 0
}

// Equal reports whether both operators have the same canonical symbol.
func (o ComparisonOperator) Equal(other ComparisonOperator) bool {
	return o.Symbol() == other.Symbol()
}

// String returns the canonical symbol.
func (o ComparisonOperator) String() string {
	return o.Symbol()
}

// CheckArguments returns an argument_count error if count violates the arity.
func (o ComparisonOperator) CheckArguments(count int) error {
	if o.arity.Allows(count) {
		return nil
	}
	return rsqlErrors.NewArgumentCount(o.Symbol(), o.arity.Min, o.arity.Max, count)
}
