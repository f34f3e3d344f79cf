// Package render converts ASTs back to RSQL text and to structures suited
// for JSON and terminal output. Every renderer is an ast.Visitor.
package render

import (
	"strings"

	"mercator-hq/rsql/pkg/rsql/ast"
	"mercator-hq/rsql/pkg/rsql/literal"
)

// Renderer writes a tree as RSQL text. The output parses back to an equal
// tree, except when arguments are masked.
type Renderer struct {
	keywords bool   // Write " AND " / " OR " instead of ";" / ","
	mask     string // Replacement for every argument, "" to keep them
}

// NewRenderer creates a renderer producing canonical text.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// WithKeywords selects the AND / OR keywords as separators. The result only
// parses back with a parser that accepts upper case keywords.
func (r *Renderer) WithKeywords(enabled bool) *Renderer {
	r.keywords = enabled
	return r
}

// WithMask replaces every argument with mask, e.g. "***" for logs.
func (r *Renderer) WithMask(mask string) *Renderer {
	r.mask = mask
	return r
}

// Render returns the text of node.
func (r *Renderer) Render(node ast.Node) (string, error) {
	var sb strings.Builder
	if _, err := ast.Accept[struct{}, *ast.LogicalNode](node, textVisitor{r: r, sb: &sb}, nil); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Canonical returns the canonical text of node: ';' and ',' separators,
// parentheses only where needed and arguments quoted only where needed.
func Canonical(node ast.Node) string {
	s, err := NewRenderer().Render(node)
	if err != nil {
		return ""
	}
	return s
}

// textVisitor writes into sb. The argument is the parent node, nil at the
// root.
type textVisitor struct {
	r  *Renderer
	sb *strings.Builder
}

func (v textVisitor) VisitLogical(n *ast.LogicalNode, parent *ast.LogicalNode) (struct{}, error) {
	grouped := parent != nil && ast.NeedsGroup(n, parent)
	if grouped {
		v.sb.WriteByte('(')
	}

	sep := n.Operator().Separator()
	if v.r.keywords {
		sep = " " + strings.ToUpper(n.Operator().String()) + " "
	}

	for i := 0; i < n.Len(); i++ {
		if i > 0 {
			v.sb.WriteString(sep)
		}
		if _, err := ast.Accept[struct{}, *ast.LogicalNode](n.Child(i), v, n); err != nil {
			return struct{}{}, err
		}
	}

	if grouped {
		v.sb.WriteByte(')')
	}
	return struct{}{}, nil
}

func (v textVisitor) VisitComparison(n *ast.ComparisonNode, _ *ast.LogicalNode) (struct{}, error) {
	v.sb.WriteString(n.Selector())
	v.sb.WriteString(n.Operator().Symbol())

	args := n.Arguments()
	if len(args) == 1 {
		v.sb.WriteString(v.argument(args[0]))
		return struct{}{}, nil
	}

	v.sb.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			v.sb.WriteByte(',')
		}
		v.sb.WriteString(v.argument(a))
	}
	v.sb.WriteByte(')')
	return struct{}{}, nil
}

func (v textVisitor) argument(a string) string {
	if v.r.mask != "" {
		return literal.Quote(v.r.mask)
	}
	return literal.Quote(a)
}
