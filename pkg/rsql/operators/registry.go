package operators

import (
	"sort"

	"mercator-hq/rsql/pkg/rsql/ast"
	rsqlErrors "mercator-hq/rsql/pkg/rsql/errors"
)

// Registry maps operator symbols and aliases to comparison operators.
// A Registry never changes after construction; Extend and Override return a
// new registry. It is safe for concurrent use. A nil Registry is empty.
type Registry struct {
	bySymbol  map[string]ast.ComparisonOperator // every symbol and alias
	operators []ast.ComparisonOperator          // sorted by canonical symbol
}

// NewRegistry creates a registry containing exactly ops. Use Default().Extend
// to add operators to the built-ins instead.
func NewRegistry(ops ...ast.ComparisonOperator) (*Registry, error) {
	r := &Registry{bySymbol: make(map[string]ast.ComparisonOperator)}
	if err := r.add(ops, false); err != nil {
		return nil, err
	}
	r.sort()
	return r, nil
}

// Extend returns a registry with the operators of r plus ops. A symbol or
// alias already in use is a conflict error.
func (r *Registry) Extend(ops ...ast.ComparisonOperator) (*Registry, error) {
	next := r.clone()
	if err := next.add(ops, false); err != nil {
		return nil, err
	}
	next.sort()
	return next, nil
}

// Override is like Extend, except that an operator whose canonical symbol is
// already registered replaces the existing one. Aliases must still not
// collide with other operators.
func (r *Registry) Override(ops ...ast.ComparisonOperator) (*Registry, error) {
	next := r.clone()
	if err := next.add(ops, true); err != nil {
		return nil, err
	}
	next.sort()
	return next, nil
}

// Resolve returns the operator for a canonical symbol or alias. An unknown
// symbol is reported with false; the caller decides how to report it.
func (r *Registry) Resolve(symbol string) (ast.ComparisonOperator, bool) {
	if r == nil {
		return ast.ComparisonOperator{}, false
	}
	op, ok := r.bySymbol[symbol]
	return op, ok
}

// Contains reports whether symbol resolves to an operator.
func (r *Registry) Contains(symbol string) bool {
	_, ok := r.Resolve(symbol)
	return ok
}

// Operators returns the registered operators sorted by canonical symbol.
func (r *Registry) Operators() []ast.ComparisonOperator {
	if r == nil {
		return nil
	}
	return append([]ast.ComparisonOperator(nil), r.operators...)
}

// Symbols returns every resolvable symbol, canonical symbols and aliases,
// in sorted order.
func (r *Registry) Symbols() []string {
	if r == nil {
		return nil
	}
	symbols := make([]string, 0, len(r.bySymbol))
	for s := range r.bySymbol {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// Len returns the number of operators.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.operators)
}

func (r *Registry) clone() *Registry {
	if r == nil {
		return &Registry{bySymbol: make(map[string]ast.ComparisonOperator)}
	}
	next := &Registry{
		bySymbol:  make(map[string]ast.ComparisonOperator, len(r.bySymbol)),
		operators: append([]ast.ComparisonOperator(nil), r.operators...),
	}
	for s, op := range r.bySymbol {
		next.bySymbol[s] = op
	}
	return next
}

// add registers ops in order. Conflicts are checked against everything
// registered before, including earlier entries of ops.
func (r *Registry) add(ops []ast.ComparisonOperator, override bool) error {
	for _, op := range ops {
		if op.IsZero() {
			return rsqlErrors.NewInvalidSymbol("", "operator is not defined")
		}

		if existing, ok := r.bySymbol[op.Symbol()]; ok {
			if !override || existing.Symbol() != op.Symbol() {
				return rsqlErrors.NewConflict(op.Symbol(), existing.Symbol(), op.Symbol())
			}
			r.remove(existing)
		}

		for _, alias := range op.Aliases() {
			if existing, ok := r.bySymbol[alias]; ok {
				return rsqlErrors.NewConflict(alias, existing.Symbol(), op.Symbol())
			}
		}

		for _, s := range op.Symbols() {
			r.bySymbol[s] = op
		}
		r.operators = append(r.operators, op)
	}
	return nil
}

func (r *Registry) remove(op ast.ComparisonOperator) {
	for _, s := range op.Symbols() {
		delete(r.bySymbol, s)
	}
	for i, o := range r.operators {
		if o.Equal(op) {
			r.operators = append(r.operators[:i], r.operators[i+1:]...)
			break
		}
	}
}

func (r *Registry) sort() {
	sort.Slice(r.operators, func(i, j int) bool {
		return r.operators[i].Symbol() < r.operators[j].Symbol()
	})
}
