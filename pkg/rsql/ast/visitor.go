package ast

import "fmt"

// Visitor interprets a tree. R is the result type and A an argument threaded
// through the traversal. Implementations decide whether and how to recurse
// into the children of a LogicalNode, usually by calling Accept on each.
type Visitor[R, A any] interface {
	VisitLogical(node *LogicalNode, arg A) (R, error)
	VisitComparison(node *ComparisonNode, arg A) (R, error)
}

// Accept dispatches node to the visitor method for its variant.
func Accept[R, A any](node Node, visitor Visitor[R, A], arg A) (R, error) {
	switch n := node.(type) {
	case *LogicalNode:
		return visitor.VisitLogical(n, arg)
	case *ComparisonNode:
		return visitor.VisitComparison(n, arg)
	default:
		var zero R
		return zero, fmt.Errorf("ast: cannot visit %T", node)
	}
}

// VisitorFuncs adapts two functions to the Visitor interface.
type VisitorFuncs[R, A any] struct {
	Logical    func(node *LogicalNode, arg A) (R, error)
	Comparison func(node *ComparisonNode, arg A) (R, error)
}

// VisitLogical calls f.Logical.
func (f VisitorFuncs[R, A]) VisitLogical(node *LogicalNode, arg A) (R, error) {
	return f.Logical(node, arg)
}

// VisitComparison calls f.Comparison.
func (f VisitorFuncs[R, A]) VisitComparison(node *ComparisonNode, arg A) (R, error) {
	return f.Comparison(node, arg)
}

// Walk traverses the tree in pre-order and calls fn for each node. Children
// of a node are skipped when fn returns false for it.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	if l, ok := node.(*LogicalNode); ok {
		for _, c := range l.children {
			Walk(c, fn)
		}
	}
}

// Comparisons returns the comparison leaves in source order.
func Comparisons(node Node) []*ComparisonNode {
	var out []*ComparisonNode
	Walk(node, func(n Node) bool {
		if c, ok := n.(*ComparisonNode); ok {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Selectors returns the distinct selectors in order of first appearance.
func Selectors(node Node) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range Comparisons(node) {
		if !seen[c.selector] {
			seen[c.selector] = true
			out = append(out, c.selector)
		}
	}
	return out
}

// Depth returns the height of the tree; a single comparison has depth 1.
func Depth(node Node) int {
	l, ok := node.(*LogicalNode)
	if !ok {
		return 1
	}
	deepest := 0
	for _, c := range l.children {
		if d := Depth(c); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}
