package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"mercator-hq/rsql/pkg/rsql/ast"
	rsqlErrors "mercator-hq/rsql/pkg/rsql/errors"
	"mercator-hq/rsql/pkg/rsql/operators"
)

// File is the YAML schema of an operator catalog:
//
//	include_defaults: true
//	operators:
//	  - symbol: "=like="
//	  - symbol: "=between="
//	    min_args: 2
//	    max_args: 2
//	  - symbol: "=in="
//	    aliases: ["=any="]
//	    multi_value: true
//	    override: true
type File struct {
	// IncludeDefaults starts from the built-in operators. Default: true
	IncludeDefaults *bool `yaml:"include_defaults"`

	// Operators are added in order.
	Operators []OperatorSpec `yaml:"operators"`
}

// OperatorSpec defines one comparison operator.
type OperatorSpec struct {
	Symbol  string   `yaml:"symbol"`
	Aliases []string `yaml:"aliases"`

	// MultiValue accepts one or more arguments. Ignored when MinArgs or
	// MaxArgs is set.
	MultiValue bool `yaml:"multi_value"`

	// MinArgs and MaxArgs give an explicit arity. MaxArgs -1 is unbounded.
	MinArgs int `yaml:"min_args"`
	MaxArgs int `yaml:"max_args"`

	// Override replaces a registered operator with the same symbol instead
	// of failing with a conflict.
	Override bool `yaml:"override"`
}

// arity returns the accepted argument count of s.
func (s OperatorSpec) arity() ast.Arity {
	if s.MinArgs == 0 && s.MaxArgs == 0 {
		if s.MultiValue {
			return ast.MultiValue
		}
		return ast.SingleValue
	}
	a := ast.Arity{Min: s.MinArgs, Max: s.MaxArgs}
	if a.Min == 0 {
		a.Min = 1
	}
	if a.Max == 0 {
		a.Max = a.Min
	}
	return a
}

// LoadFile reads and builds the catalog at path.
func LoadFile(path string) (*operators.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read operator catalog %q: %w", path, err)
	}
	r, err := LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("operator catalog %q: %w", path, err)
	}
	return r, nil
}

// LoadBytes builds a registry from YAML. Unknown keys are rejected. Every
// invalid operator is reported, not only the first.
func LoadBytes(data []byte) (*operators.Registry, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse operator catalog: %w", err)
	}
	return f.Build()
}

// Build creates the registry described by f.
func (f *File) Build() (*operators.Registry, error) {
	var base *operators.Registry
	if f.IncludeDefaults == nil || *f.IncludeDefaults {
		base = operators.Default()
	} else {
		empty, err := operators.NewRegistry()
		if err != nil {
			return nil, err
		}
		base = empty
	}

	errs := rsqlErrors.NewErrorList()
	var added, overrides []ast.ComparisonOperator
	for i, spec := range f.Operators {
		op, err := ast.DefineWithArity(spec.Symbol, spec.Aliases, spec.arity())
		if err != nil {
			errs.Add(operatorError(i, spec.Symbol, err))
			continue
		}
		if spec.Override {
			overrides = append(overrides, op)
		} else {
			added = append(added, op)
		}
	}
	if err := errs.ToError(); err != nil {
		return nil, err
	}

	r, err := base.Override(overrides...)
	if err != nil {
		return nil, err
	}
	r, err = r.Extend(added...)
	if err != nil {
		return nil, err
	}
	if r.Len() == 0 {
		return nil, errors.New("operator catalog defines no operators")
	}
	return r, nil
}

// operatorError prefixes the error of the i-th operator definition with its
// place in the file.
func operatorError(i int, symbol string, err error) *rsqlErrors.Error {
	prefix := fmt.Sprintf("operators[%d] %q", i, symbol)
	var perr *rsqlErrors.Error
	if errors.As(err, &perr) {
		e := *perr
		e.Message = prefix + ": " + perr.Message
		return &e
	}
	return &rsqlErrors.Error{
		Type:    rsqlErrors.ErrorTypeInvalidSymbol,
		Message: prefix + ": " + err.Error(),
		Err:     err,
	}
}
