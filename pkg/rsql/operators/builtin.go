package operators

import (
	"sync"

	"mercator-hq/rsql/pkg/rsql/ast"
)

// Built-in comparison operators.
var (
	Equal              = ast.MustDefine("==", nil, ast.SingleValue)
	NotEqual           = ast.MustDefine("!=", nil, ast.SingleValue)
	GreaterThan        = ast.MustDefine("=gt=", []string{">"}, ast.SingleValue)
	GreaterThanOrEqual = ast.MustDefine("=ge=", []string{">="}, ast.SingleValue)
	LessThan           = ast.MustDefine("=lt=", []string{"<"}, ast.SingleValue)
	LessThanOrEqual    = ast.MustDefine("=le=", []string{"<="}, ast.SingleValue)
	In                 = ast.MustDefine("=in=", nil, ast.MultiValue)
	NotIn              = ast.MustDefine("=out=", nil, ast.MultiValue)
)

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Defaults returns the built-in operators.
func Defaults() []ast.ComparisonOperator {
	return []ast.ComparisonOperator{
		Equal, NotEqual,
		GreaterThan, GreaterThanOrEqual,
		LessThan, LessThanOrEqual,
		In, NotIn,
	}
}

// Default returns the shared registry of built-in operators.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := NewRegistry(Defaults()...)
		if err != nil {
			panic(err)
		}
		defaultRegistry = r
	})
	return defaultRegistry
}
