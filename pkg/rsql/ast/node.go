package ast

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"

	rsqlErrors "mercator-hq/rsql/pkg/rsql/errors"
	"mercator-hq/rsql/pkg/rsql/literal"
)

// Node is an immutable node of a parsed query: either a *LogicalNode or a
// *ComparisonNode. The set of variants is closed.
type Node interface {
	// Equal reports structural equality. Child order is significant.
	Equal(other Node) bool

	// Hash returns a hash consistent with Equal.
	Hash() uint64

	// String returns the canonical RSQL text of the node.
	String() string

	node()
}

// LogicalOperator combines child nodes.
type LogicalOperator int

const (
	And LogicalOperator = iota // All children must match
	Or                         // Any child must match
)

// String returns "and" or "or".
func (o LogicalOperator) String() string {
	switch o {
	case And:
		return "and"
	case Or:
		return "or"
	default:
		return fmt.Sprintf("LogicalOperator(%d)", int(o))
	}
}

// Separator returns the RSQL separator character, ";" or ",".
func (o LogicalOperator) Separator() string {
	if o == Or {
		return ","
	}
	return ";"
}

// LogicalNode is an AND or OR of two or more child nodes.
type LogicalNode struct {
	operator LogicalOperator
	children []Node
	hash     uint64
}

// NewLogical creates a logical node. At least two children are required.
func NewLogical(op LogicalOperator, children ...Node) (*LogicalNode, error) {
	if op != And && op != Or {
		return nil, rsqlErrors.NewInvalidNode(fmt.Sprintf("unknown logical operator %d", int(op)))
	}
	if len(children) < 2 {
		return nil, rsqlErrors.NewInvalidNode(fmt.Sprintf("%s node requires at least 2 children, got %d", op, len(children)))
	}
	for i, c := range children {
		if isNil(c) {
			return nil, rsqlErrors.NewInvalidNode(fmt.Sprintf("%s node child %d is nil", op, i))
		}
	}

	n := &LogicalNode{
		operator: op,
		children: append([]Node(nil), children...),
	}
	n.hash = hashLogical(n)
	return n, nil
}

// NewAnd creates an AND node.
func NewAnd(children ...Node) (*LogicalNode, error) {
	return NewLogical(And, children...)
}

// NewOr creates an OR node.
func NewOr(children ...Node) (*LogicalNode, error) {
	return NewLogical(Or, children...)
}

// Operator returns And or Or.
func (n *LogicalNode) Operator() LogicalOperator {
	return n.operator
}

// Children returns a copy of the child nodes in source order.
func (n *LogicalNode) Children() []Node {
	return append([]Node(nil), n.children...)
}

// Len returns the number of children.
func (n *LogicalNode) Len() int {
	return len(n.children)
}

// Child returns the i-th child.
func (n *LogicalNode) Child(i int) Node {
	return n.children[i]
}

// WithChildren returns a node with the same operator and new children.
func (n *LogicalNode) WithChildren(children ...Node) (*LogicalNode, error) {
	return NewLogical(n.operator, children...)
}

// Equal reports structural equality.
func (n *LogicalNode) Equal(other Node) bool {
	o, ok := other.(*LogicalNode)
	if !ok || o == nil {
		return false
	}
	if n == o {
		return true
	}
	if n.hash != o.hash || n.operator != o.operator || len(n.children) != len(o.children) {
		return false
	}
	for i := range n.children {
		if !n.children[i].Equal(o.children[i]) {
			return false
		}
	}
	return true
}

// Hash returns a hash consistent with Equal.
func (n *LogicalNode) Hash() uint64 {
	return n.hash
}

// String returns the canonical RSQL text of the node.
func (n *LogicalNode) String() string {
	var sb strings.Builder
	writeNode(&sb, n, nil)
	return sb.String()
}

func (*LogicalNode) node() {}

// ComparisonNode compares a selector with one or more arguments.
type ComparisonNode struct {
	selector  string
	operator  ComparisonOperator
	arguments []string
	hash      uint64
}

// NewComparison creates a comparison node. The selector must be non-empty and
// free of unescaped reserved characters, and the argument count must satisfy
// the operator's arity.
func NewComparison(selector string, op ComparisonOperator, args ...string) (*ComparisonNode, error) {
	if err := ValidateSelector(selector); err != nil {
		return nil, err
	}
	if op.IsZero() {
		return nil, rsqlErrors.NewInvalidNode("comparison operator must not be empty")
	}
	if err := op.CheckArguments(len(args)); err != nil {
		return nil, err
	}

	n := &ComparisonNode{
		selector:  selector,
		operator:  op,
		arguments: append([]string(nil), args...),
	}
	n.hash = hashComparison(n)
	return n, nil
}

// ValidateSelector checks the selector grammar.
func ValidateSelector(selector string) error {
	if selector == "" {
		return rsqlErrors.NewInvalidNode("selector must not be empty")
	}
	if err := literal.ValidateBare(selector); err != nil {
		e := rsqlErrors.NewInvalidNode(fmt.Sprintf("invalid selector %q", selector))
		e.Err = err
		return e
	}
	return nil
}

// Selector returns the compared field or path as written in the query.
// Unlike arguments, selectors are not unescaped: `a\;b==1` has the selector
// `a\;b`. literal.DecodeBare yields the unescaped name.
func (n *ComparisonNode) Selector() string {
	return n.selector
}

// Operator returns the comparison operator.
func (n *ComparisonNode) Operator() ComparisonOperator {
	return n.operator
}

// Arguments returns a copy of the decoded arguments.
func (n *ComparisonNode) Arguments() []string {
	return append([]string(nil), n.arguments...)
}

// Argument returns the first argument. Every comparison has at least one.
func (n *ComparisonNode) Argument() string {
	return n.arguments[0]
}

// WithSelector returns a copy of the node with a different selector.
func (n *ComparisonNode) WithSelector(selector string) (*ComparisonNode, error) {
	return NewComparison(selector, n.operator, n.arguments...)
}

// WithOperator returns a copy of the node with a different operator.
func (n *ComparisonNode) WithOperator(op ComparisonOperator) (*ComparisonNode, error) {
	return NewComparison(n.selector, op, n.arguments...)
}

// WithArguments returns a copy of the node with different arguments.
func (n *ComparisonNode) WithArguments(args ...string) (*ComparisonNode, error) {
	return NewComparison(n.selector, n.operator, args...)
}

// Equal reports structural equality.
func (n *ComparisonNode) Equal(other Node) bool {
	o, ok := other.(*ComparisonNode)
	if !ok || o == nil {
		return false
	}
	if n == o {
		return true
	}
	if n.hash != o.hash || n.selector != o.selector || !n.operator.Equal(o.operator) {
		return false
	}
	if len(n.arguments) != len(o.arguments) {
		return false
	}
	for i := range n.arguments {
		if n.arguments[i] != o.arguments[i] {
			return false
		}
	}
	return true
}

// Hash returns a hash consistent with Equal.
func (n *ComparisonNode) Hash() uint64 {
	return n.hash
}

// String returns the canonical RSQL text of the node.
func (n *ComparisonNode) String() string {
	var sb strings.Builder
	writeNode(&sb, n, nil)
	return sb.String()
}

func (*ComparisonNode) node() {}

// hashComparison hashes a length-prefixed encoding of the node fields.
func hashComparison(n *ComparisonNode) uint64 {
	d := xxhash.New()
	d.Write([]byte{'C'})
	writeString(d, n.selector)
	writeString(d, n.operator.Symbol())
	writeUint64(d, uint64(len(n.arguments)))
	for _, a := range n.arguments {
		writeString(d, a)
	}
	return d.Sum64()
}

func hashLogical(n *LogicalNode) uint64 {
	d := xxhash.New()
	d.Write([]byte{'L', byte(n.operator)})
	writeUint64(d, uint64(len(n.children)))
	for _, c := range n.children {
		writeUint64(d, c.Hash())
	}
	return d.Sum64()
}

func writeString(d *xxhash.Digest, s string) {
	writeUint64(d, uint64(len(s)))
	d.WriteString(s)
}

func writeUint64(d *xxhash.Digest, v uint64) {
	var b [8]byte
	for i := range b {
		b[i] = byte(v >> (8 * i))
	}
	d.Write(b[:])
}

func isNil(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *LogicalNode:
		return v == nil
	case *ComparisonNode:
		return v == nil
	}
	return false
}
