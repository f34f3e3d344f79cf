package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercator-hq/rsql/pkg/rsql/ast"
	rsqlErrors "mercator-hq/rsql/pkg/rsql/errors"
	"mercator-hq/rsql/pkg/rsql/parser"
)

func TestLoadBytes(t *testing.T) {
	r, err := LoadBytes([]byte(`
operators:
  - symbol: "=like="
    aliases: ["=lk="]
  - symbol: "=between="
    min_args: 2
    max_args: 2
  - symbol: "=all="
    multi_value: true
`))
	require.NoError(t, err)
	assert.Equal(t, 11, r.Len())

	like, ok := r.Resolve("=lk=")
	require.True(t, ok)
	assert.Equal(t, "=like=", like.Symbol())
	assert.Equal(t, ast.SingleValue, like.Arity())

	between, ok := r.Resolve("=between=")
	require.True(t, ok)
	assert.Equal(t, ast.Arity{Min: 2, Max: 2}, between.Arity())

	all, ok := r.Resolve("=all=")
	require.True(t, ok)
	assert.True(t, all.IsMultiValue())

	_, ok = r.Resolve("=gt=")
	assert.True(t, ok, "built-ins are included by default")

	node, err := parser.NewParser().WithRegistry(r).Parse("age=between=(18,30);name=lk=Jo*")
	require.NoError(t, err)
	assert.Equal(t, "age=between=(18,30);name=like=Jo*", node.String())
}

func TestLoadBytes_WithoutDefaults(t *testing.T) {
	r, err := LoadBytes([]byte(`
include_defaults: false
operators:
  - symbol: "=="
  - symbol: "=in="
    multi_value: true
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"==", "=in="}, r.Symbols())
	assert.False(t, r.Contains("=gt="))
}

func TestLoadBytes_Override(t *testing.T) {
	r, err := LoadBytes([]byte(`
operators:
  - symbol: "=in="
    aliases: ["=any="]
    min_args: 1
    max_args: 10
    override: true
`))
	require.NoError(t, err)

	in, ok := r.Resolve("=any=")
	require.True(t, ok)
	assert.Equal(t, "=in=", in.Symbol())
	assert.Equal(t, 10, in.Arity().Max)
	assert.Equal(t, 8, r.Len())
}

func TestLoadBytes_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		errType error
	}{
		{"conflict with built-in", "operators:\n  - symbol: \"=gt=\"\n", rsqlErrors.ErrorTypeConflict},
		{"alias conflict", "operators:\n  - symbol: \"=like=\"\n    aliases: [\">\"]\n", rsqlErrors.ErrorTypeConflict},
		{"invalid symbol", "operators:\n  - symbol: \"like\"\n", rsqlErrors.ErrorTypeInvalidSymbol},
		{"bad arity", "operators:\n  - symbol: \"=x=\"\n    min_args: 3\n    max_args: 2\n", rsqlErrors.ErrorTypeInvalidSymbol},
		{"unknown key", "operators:\n  - symbol: \"=x=\"\n    multivalue: true\n", nil},
		{"malformed", "operators: [", nil},
		{"empty without defaults", "include_defaults: false\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBytes([]byte(tt.yaml))
			require.Error(t, err)
			if tt.errType != nil {
				assert.ErrorIs(t, err, tt.errType)
			}
		})
	}
}

func TestLoadBytes_ReportsEveryInvalidOperator(t *testing.T) {
	_, err := LoadBytes([]byte(`
operators:
  - symbol: "bad"
  - symbol: "=ok="
  - symbol: "=x"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `operators[0] "bad"`)
	assert.Contains(t, err.Error(), `operators[2] "=x"`)

	var list *rsqlErrors.ErrorList
	require.ErrorAs(t, err, &list)
	assert.Equal(t, 2, list.Count())
	assert.True(t, list.HasErrorType(rsqlErrors.ErrorTypeInvalidSymbol))
	assert.False(t, list.HasErrorType(rsqlErrors.ErrorTypeConflict))
	assert.ErrorIs(t, err, rsqlErrors.ErrorTypeInvalidSymbol)
}

func TestLoadBytes_Empty(t *testing.T) {
	r, err := LoadBytes(nil)
	require.NoError(t, err)
	assert.Equal(t, 8, r.Len())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "operators.yaml")
	require.NoError(t, os.WriteFile(path, []byte("operators:\n  - symbol: \"=like=\"\n"), 0644))

	r, err := LoadFile(path)
	require.NoError(t, err)
	assert.True(t, r.Contains("=like="))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
