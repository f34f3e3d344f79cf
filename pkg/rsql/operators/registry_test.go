package operators

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercator-hq/rsql/pkg/rsql/ast"
	rsqlErrors "mercator-hq/rsql/pkg/rsql/errors"
)

func TestDefault_Resolve(t *testing.T) {
	reg := Default()
	require.Equal(t, 8, reg.Len())

	tests := []struct {
		symbol string
		want   ast.ComparisonOperator
	}{
		{"==", Equal},
		{"!=", NotEqual},
		{"=gt=", GreaterThan},
		{">", GreaterThan},
		{"=ge=", GreaterThanOrEqual},
		{">=", GreaterThanOrEqual},
		{"=lt=", LessThan},
		{"<", LessThan},
		{"=le=", LessThanOrEqual},
		{"<=", LessThanOrEqual},
		{"=in=", In},
		{"=out=", NotIn},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			op, ok := reg.Resolve(tt.symbol)
			require.True(t, ok)
			assert.True(t, op.Equal(tt.want), "Resolve(%q) = %s, want %s", tt.symbol, op, tt.want)
		})
	}

	_, ok := reg.Resolve("=foo=")
	assert.False(t, ok)
	_, ok = reg.Resolve("")
	assert.False(t, ok)
}

func TestDefault_Arity(t *testing.T) {
	for _, op := range []ast.ComparisonOperator{Equal, NotEqual, GreaterThan, GreaterThanOrEqual, LessThan, LessThanOrEqual} {
		assert.False(t, op.IsMultiValue(), "%s should be single-value", op)
	}
	assert.True(t, In.IsMultiValue())
	assert.True(t, NotIn.IsMultiValue())
}

func TestDefault_Shared(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestRegistry_Extend(t *testing.T) {
	like, err := ast.Define("=like=", []string{"=lk="}, false)
	require.NoError(t, err)

	reg, err := Default().Extend(like)
	require.NoError(t, err)

	assert.Equal(t, 9, reg.Len())
	assert.Equal(t, 8, Default().Len(), "Extend must not modify the receiver")
	assert.True(t, reg.Contains("=lk="))
	assert.False(t, Default().Contains("=like="))
}

func TestRegistry_Conflict(t *testing.T) {
	dupCanonical := ast.MustDefine("==", nil, ast.MultiValue)
	_, err := Default().Extend(dupCanonical)
	require.ErrorIs(t, err, rsqlErrors.ErrorTypeConflict)

	dupAlias := ast.MustDefine("=greater=", []string{">"}, ast.SingleValue)
	_, err = Default().Extend(dupAlias)
	require.ErrorIs(t, err, rsqlErrors.ErrorTypeConflict)

	// An alias of an existing operator cannot become a canonical symbol.
	aliasAsSymbol := ast.MustDefine(">", nil, ast.SingleValue)
	_, err = Default().Override(aliasAsSymbol)
	require.ErrorIs(t, err, rsqlErrors.ErrorTypeConflict)

	a := ast.MustDefine("=a=", nil, ast.SingleValue)
	_, err = NewRegistry(a, a)
	require.ErrorIs(t, err, rsqlErrors.ErrorTypeConflict)
}

func TestRegistry_Override(t *testing.T) {
	multiEqual := ast.MustDefine("==", []string{"=eq="}, ast.MultiValue)

	reg, err := Default().Override(multiEqual)
	require.NoError(t, err)
	assert.Equal(t, 8, reg.Len())

	op, ok := reg.Resolve("==")
	require.True(t, ok)
	assert.True(t, op.IsMultiValue())

	op, ok = reg.Resolve("=eq=")
	require.True(t, ok)
	assert.Equal(t, "==", op.Symbol())

	op, ok = Default().Resolve("==")
	require.True(t, ok)
	assert.False(t, op.IsMultiValue(), "Override must not modify the receiver")
}

func TestRegistry_OverrideDropsOldAliases(t *testing.T) {
	gt := ast.MustDefine("=gt=", nil, ast.SingleValue)

	reg, err := Default().Override(gt)
	require.NoError(t, err)
	assert.False(t, reg.Contains(">"))
	assert.True(t, reg.Contains("=gt="))
}

func TestNewRegistry_ReplacesBuiltins(t *testing.T) {
	only := ast.MustDefine("=is=", nil, ast.SingleValue)
	reg, err := NewRegistry(only)
	require.NoError(t, err)

	assert.Equal(t, 1, reg.Len())
	assert.False(t, reg.Contains("=="))
	assert.Equal(t, []string{"=is="}, reg.Symbols())
}

func TestNewRegistry_ZeroOperator(t *testing.T) {
	_, err := NewRegistry(ast.ComparisonOperator{})
	require.ErrorIs(t, err, rsqlErrors.ErrorTypeInvalidSymbol)
}

func TestRegistry_Sorted(t *testing.T) {
	ops := Default().Operators()
	for i := 1; i < len(ops); i++ {
		assert.Less(t, ops[i-1].Symbol(), ops[i].Symbol())
	}
	assert.Len(t, Default().Symbols(), 12)
}

func TestRegistry_ConcurrentResolve(t *testing.T) {
	reg := Default()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, s := range reg.Symbols() {
				if _, ok := reg.Resolve(s); !ok {
					t.Errorf("Resolve(%q) = false", s)
				}
			}
		}()
	}
	wg.Wait()
}

func TestNilRegistry(t *testing.T) {
	var reg *Registry
	_, ok := reg.Resolve("==")
	assert.False(t, ok)
	assert.False(t, reg.Contains("=="))
	assert.Empty(t, reg.Operators())
	assert.Empty(t, reg.Symbols())
	assert.Equal(t, 0, reg.Len())

	extended, err := reg.Extend(Equal)
	require.NoError(t, err)
	assert.Equal(t, 1, extended.Len())
	assert.True(t, extended.Contains("=="))

	overridden, err := reg.Override(In)
	require.NoError(t, err)
	assert.Equal(t, []string{"=in="}, overridden.Symbols())
}
