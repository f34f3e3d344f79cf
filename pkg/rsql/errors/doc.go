// Package errors provides the error type shared by every stage of RSQL
// parsing: tokenizing, grammar matching, operator resolution, arity checks and
// operator registry construction.
//
// Every failure is a *Error carrying an ErrorType and, when it comes from a
// query string, the position of the offending token or character.
//
// # Error Types
//
// ErrorTypeLexical: malformed token (unterminated quote, illegal character)
//
// ErrorTypeSyntax: token stream does not match the grammar
//
// ErrorTypeUnknownOperator: operator not resolvable in the registry
//
// ErrorTypeArgumentCount: operator arity violated
//
// ErrorTypeConflict: operator symbol or alias registered twice
//
// ErrorTypeInvalidSymbol: malformed custom operator definition
//
// ErrorTypeInvalidNode: AST node constructed with invalid fields
//
// ErrorTypeLimit: query exceeds configured length or nesting limits
//
// # Basic Usage
//
// ErrorType implements error, so callers can match a kind with the standard
// library:
//
//	node, err := rsql.Parse(query)
//	if errors.Is(err, rsqlErrors.ErrorTypeUnknownOperator) {
//	    var e *rsqlErrors.Error
//	    errors.As(err, &e)
//	    fmt.Println(e.Token, e.Position.Offset)
//	}
//
// # Error Format
//
//	[unknown_operator] unknown comparison operator "=gte="
//	  --> 1:4 (offset 3)
//	  |
//	  | age=gte=18
//	  |    ^^^^^
//	  |
//	  = suggestion: Did you mean '=ge='?
package errors
