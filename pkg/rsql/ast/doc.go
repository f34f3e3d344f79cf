// Package ast defines the abstract syntax tree of an RSQL query.
//
// A parsed query is a single Node: a *ComparisonNode leaf such as
// name==John, or a *LogicalNode combining two or more nodes with AND (";")
// or OR (","). Nodes are immutable. Derived trees are built with the With*
// methods, which return new validated nodes.
//
// # Equality
//
// Equal is structural: operator, selector and arguments must match and
// children must appear in the same order. Hash is consistent with Equal, so
// nodes can key maps through their hash and be compared afterwards.
//
// # Traversal
//
// Consumers interpret a tree through a Visitor:
//
//	type sqlVisitor struct{}
//
//	func (sqlVisitor) VisitLogical(n *ast.LogicalNode, _ struct{}) (string, error) {
//	    parts := make([]string, 0, n.Len())
//	    for _, c := range n.Children() {
//	        s, err := ast.Accept[string, struct{}](c, sqlVisitor{}, struct{}{})
//	        if err != nil {
//	            return "", err
//	        }
//	        parts = append(parts, s)
//	    }
//	    return "(" + strings.Join(parts, " "+n.Operator().String()+" ") + ")", nil
//	}
//
//	func (sqlVisitor) VisitComparison(n *ast.ComparisonNode, _ struct{}) (string, error) {
//	    return n.Selector() + " " + n.Operator().Symbol() + " ?", nil
//	}
//
// Walk, Comparisons and Selectors cover the common read-only traversals.
//
// # Operators
//
// ComparisonOperator is a value: a canonical symbol, optional aliases and an
// Arity. Operators are grouped into registries by package operators.
package ast
