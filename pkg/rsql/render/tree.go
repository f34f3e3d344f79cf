package render

import (
	"fmt"
	"strings"

	"mercator-hq/rsql/pkg/rsql/ast"
	"mercator-hq/rsql/pkg/rsql/operators"
)

// Node types of a Tree.
const (
	TypeAnd        = "and"
	TypeOr         = "or"
	TypeComparison = "comparison"
)

// Tree is a JSON representation of an AST.
type Tree struct {
	Type      string   `json:"type"`
	Selector  string   `json:"selector,omitempty"`
	Operator  string   `json:"operator,omitempty"`
	Arguments []string `json:"arguments,omitempty"`
	Children  []*Tree  `json:"children,omitempty"`
}

// ToTree converts node to a Tree.
func ToTree(node ast.Node) (*Tree, error) {
	return ast.Accept[*Tree, struct{}](node, treeVisitor{}, struct{}{})
}

type treeVisitor struct{}

func (v treeVisitor) VisitLogical(n *ast.LogicalNode, _ struct{}) (*Tree, error) {
	t := &Tree{Type: n.Operator().String(), Children: make([]*Tree, 0, n.Len())}
	for _, c := range n.Children() {
		child, err := ast.Accept[*Tree, struct{}](c, v, struct{}{})
		if err != nil {
			return nil, err
		}
		t.Children = append(t.Children, child)
	}
	return t, nil
}

func (treeVisitor) VisitComparison(n *ast.ComparisonNode, _ struct{}) (*Tree, error) {
	return &Tree{
		Type:      TypeComparison,
		Selector:  n.Selector(),
		Operator:  n.Operator().Symbol(),
		Arguments: n.Arguments(),
	}, nil
}

// FromTree rebuilds an AST from t, resolving operators in registry (the
// built-ins when nil). Node validation applies as if the tree was parsed.
func FromTree(t *Tree, registry *operators.Registry) (ast.Node, error) {
	if t == nil {
		return nil, fmt.Errorf("render: nil tree")
	}
	if registry == nil {
		registry = operators.Default()
	}

	switch t.Type {
	case TypeComparison:
		op, ok := registry.Resolve(t.Operator)
		if !ok {
			return nil, fmt.Errorf("render: unknown operator %q", t.Operator)
		}
		return ast.NewComparison(t.Selector, op, t.Arguments...)

	case TypeAnd, TypeOr:
		children := make([]ast.Node, 0, len(t.Children))
		for _, c := range t.Children {
			child, err := FromTree(c, registry)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		op := ast.And
		if t.Type == TypeOr {
			op = ast.Or
		}
		return ast.NewLogical(op, children...)

	default:
		return nil, fmt.Errorf("render: unknown node type %q", t.Type)
	}
}

// Indent returns a multi-line outline of node, one node per line, children
// indented by two spaces.
func Indent(node ast.Node) string {
	var sb strings.Builder
	_, _ = ast.Accept[struct{}, int](node, indentVisitor{sb: &sb}, 0)
	return sb.String()
}

type indentVisitor struct {
	sb *strings.Builder
}

func (v indentVisitor) VisitLogical(n *ast.LogicalNode, depth int) (struct{}, error) {
	v.line(depth, strings.ToUpper(n.Operator().String()))
	for _, c := range n.Children() {
		if _, err := ast.Accept[struct{}, int](c, v, depth+1); err != nil {
			return struct{}{}, err
		}
	}
	return struct{}{}, nil
}

func (v indentVisitor) VisitComparison(n *ast.ComparisonNode, depth int) (struct{}, error) {
	v.line(depth, n.String())
	return struct{}{}, nil
}

func (v indentVisitor) line(depth int, text string) {
	v.sb.WriteString(strings.Repeat("  ", depth))
	v.sb.WriteString(text)
	v.sb.WriteByte('\n')
}
