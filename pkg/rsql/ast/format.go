package ast

import (
	"strings"

	"mercator-hq/rsql/pkg/rsql/literal"
)

// writeNode writes the canonical text of n. Logical children are wrapped in
// parentheses unless the grammar would rebuild the same tree without them,
// which is only the case for an AND directly inside an OR.
func writeNode(sb *strings.Builder, n Node, parent *LogicalNode) {
	switch n := n.(type) {
	case *ComparisonNode:
		sb.WriteString(n.selector)
		sb.WriteString(n.operator.Symbol())
		if len(n.arguments) == 1 {
			sb.WriteString(literal.Quote(n.arguments[0]))
			return
		}
		sb.WriteByte('(')
		for i, a := range n.arguments {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(literal.Quote(a))
		}
		sb.WriteByte(')')

	case *LogicalNode:
		grouped := NeedsGroup(n, parent)
		if grouped {
			sb.WriteByte('(')
		}
		for i, c := range n.children {
			if i > 0 {
				sb.WriteString(n.operator.Separator())
			}
			writeNode(sb, c, n)
		}
		if grouped {
			sb.WriteByte(')')
		}
	}
}

// NeedsGroup reports whether child must be parenthesized when written inside
// parent for a re-parse to produce the same tree.
func NeedsGroup(child *LogicalNode, parent *LogicalNode) bool {
	if parent == nil {
		return false
	}
	return !(parent.operator == Or && child.operator == And)
}
