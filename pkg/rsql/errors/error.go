package errors

import (
	"fmt"
	"strings"
)

// ErrorType categorizes the error. It implements error so that a kind can be
// used as an errors.Is target.
type ErrorType string

const (
	ErrorTypeLexical         ErrorType = "lexical"          // Malformed token
	ErrorTypeSyntax          ErrorType = "syntax"           // Grammar violation
	ErrorTypeUnknownOperator ErrorType = "unknown_operator" // Operator not in registry
	ErrorTypeArgumentCount   ErrorType = "argument_count"   // Arity violated
	ErrorTypeConflict        ErrorType = "conflict"         // Registry symbol collision
	ErrorTypeInvalidSymbol   ErrorType = "invalid_symbol"   // Malformed operator definition
	ErrorTypeInvalidNode     ErrorType = "invalid_node"     // Invalid AST node fields
	ErrorTypeLimit           ErrorType = "limit"            // Length or depth limit exceeded
)

// Error implements the error interface.
func (t ErrorType) Error() string {
	return string(t)
}

// ArityDetail describes an argument count violation.
type ArityDetail struct {
	Operator string // Canonical operator symbol
	Min      int    // Minimum argument count
	Max      int    // Maximum argument count, -1 if unbounded
	Count    int    // Arguments actually given
}

// Required returns the arity requirement in words, e.g. "exactly 1".
func (d *ArityDetail) Required() string {
	switch {
	case d.Max < 0:
		return fmt.Sprintf("at least %d", d.Min)
	case d.Min == d.Max:
		return fmt.Sprintf("exactly %d", d.Min)
	default:
		return fmt.Sprintf("%d to %d", d.Min, d.Max)
	}
}

// Error is the single error type returned by the rsql packages.
type Error struct {
	Type       ErrorType    // Category of error
	Message    string       // Error message
	Position   Position     // Offending token or character
	Token      string       // Offending raw text, if any
	Expected   string       // What the grammar expected (syntax errors)
	Query      string       // Query being parsed
	Context    string       // Query excerpt with a caret under Position
	Suggestion string       // Suggested fix (optional)
	Arity      *ArityDetail // Argument count details (argument_count errors)
	Err        error        // Underlying cause
}

// Error returns a formatted error message with position and context.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s", e.Type, e.Message))

	if e.Position.IsValid() {
		sb.WriteString(fmt.Sprintf("\n  --> %s (offset %d)", e.Position, e.Position.Offset))
	}

	if e.Context != "" {
		sb.WriteString("\n  |\n")
		sb.WriteString(strings.TrimRight(e.Context, "\n"))
		sb.WriteString("\n  |")
	}

	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("\n  = suggestion: %s", e.Suggestion))
	}

	return sb.String()
}

// Is reports whether target is this error's ErrorType.
func (e *Error) Is(target error) bool {
	t, ok := target.(ErrorType)
	return ok && t == e.Type
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// At sets the position and offending token and returns e.
func (e *Error) At(pos Position, token string) *Error {
	e.Position = pos
	e.Token = token
	return e
}

// NewLexical creates a lexical error.
func NewLexical(message string, pos Position, token string) *Error {
	return &Error{Type: ErrorTypeLexical, Message: message, Position: pos, Token: token}
}

// NewSyntax creates a syntax error. found describes the offending token.
func NewSyntax(expected, found string, pos Position, token string) *Error {
	return &Error{
		Type:     ErrorTypeSyntax,
		Message:  fmt.Sprintf("expected %s, found %s", expected, found),
		Position: pos,
		Token:    token,
		Expected: expected,
	}
}

// NewUnknownOperator creates an unknown operator error.
func NewUnknownOperator(symbol string, pos Position) *Error {
	return &Error{
		Type:     ErrorTypeUnknownOperator,
		Message:  fmt.Sprintf("unknown comparison operator %q", symbol),
		Position: pos,
		Token:    symbol,
	}
}

// NewArgumentCount creates an arity error for the given operator.
func NewArgumentCount(operator string, min, max, count int) *Error {
	d := &ArityDetail{Operator: operator, Min: min, Max: max, Count: count}
	return &Error{
		Type:    ErrorTypeArgumentCount,
		Message: fmt.Sprintf("operator %q requires %s argument(s), got %d", operator, d.Required(), count),
		Arity:   d,
	}
}

// NewConflict creates a registry collision error.
func NewConflict(symbol, existing, incoming string) *Error {
	return &Error{
		Type:       ErrorTypeConflict,
		Message:    fmt.Sprintf("symbol %q of operator %q is already registered by operator %q", symbol, incoming, existing),
		Token:      symbol,
		Suggestion: "Use Override to replace an operator with the same canonical symbol",
	}
}

// NewInvalidSymbol creates an operator definition error.
func NewInvalidSymbol(symbol, reason string) *Error {
	return &Error{
		Type:    ErrorTypeInvalidSymbol,
		Message: fmt.Sprintf("invalid operator symbol %q: %s", symbol, reason),
		Token:   symbol,
	}
}

// NewInvalidNode creates an AST construction error.
func NewInvalidNode(message string) *Error {
	return &Error{Type: ErrorTypeInvalidNode, Message: message}
}

// NewLimit creates a limit error.
func NewLimit(message string, pos Position) *Error {
	return &Error{Type: ErrorTypeLimit, Message: message, Position: pos}
}

// ErrorList collects errors when several independent inputs are checked at
// once (operator catalogs, batches of queries). Parsing a single query never
// returns an ErrorList.
type ErrorList struct {
	Errors []*Error
}

// NewErrorList creates a new empty error list.
func NewErrorList() *ErrorList {
	return &ErrorList{
		Errors: make([]*Error, 0),
	}
}

// Add appends an error to the list.
func (el *ErrorList) Add(err *Error) {
	el.Errors = append(el.Errors, err)
}

// HasErrors returns true if the error list contains any errors.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Count returns the number of errors in the list.
func (el *ErrorList) Count() int {
	return len(el.Errors)
}

// Error returns all errors formatted as a single string.
func (el *ErrorList) Error() string {
	if !el.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("found %d error(s):\n\n", el.Count()))

	for i, err := range el.Errors {
		sb.WriteString(fmt.Sprintf("Error %d:\n", i+1))
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}

	return sb.String()
}

// ToError returns nil if the error list is empty, otherwise the list itself.
func (el *ErrorList) ToError() error {
	if !el.HasErrors() {
		return nil
	}
	return el
}

// Unwrap returns the collected errors, so errors.Is matches any of their
// types.
func (el *ErrorList) Unwrap() []error {
	errs := make([]error, len(el.Errors))
	for i, err := range el.Errors {
		errs[i] = err
	}
	return errs
}

// HasErrorType returns true if the list contains an error of the given type.
func (el *ErrorList) HasErrorType(errType ErrorType) bool {
	for _, err := range el.Errors {
		if err.Type == errType {
			return true
		}
	}
	return false
}
