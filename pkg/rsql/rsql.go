package rsql

import (
	"mercator-hq/rsql/pkg/rsql/ast"
	"mercator-hq/rsql/pkg/rsql/operators"
	"mercator-hq/rsql/pkg/rsql/parser"
	"mercator-hq/rsql/pkg/rsql/render"
)

// Parse parses query with the built-in operators and default limits.
func Parse(query string) (ast.Node, error) {
	return parser.NewParser().Parse(query)
}

// ParseWithRegistry parses query with the operators of registry. A nil
// registry selects the built-ins.
func ParseWithRegistry(query string, registry *operators.Registry) (ast.Node, error) {
	return parser.NewParser().WithRegistry(registry).Parse(query)
}

// MustParse is like Parse but panics on error. It is intended for queries
// known at compile time.
func MustParse(query string) ast.Node {
	node, err := Parse(query)
	if err != nil {
		panic(err)
	}
	return node
}

// Normalize parses query and returns its canonical text.
func Normalize(query string) (string, error) {
	node, err := Parse(query)
	if err != nil {
		return "", err
	}
	return render.Canonical(node), nil
}
