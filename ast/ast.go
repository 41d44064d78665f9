// Package ast defines the parse-tree shape the builder consumes (spec
// §4.3). Producing a *Tree from source text is the lexer/parser's job —
// out of the core's scope per spec §1 — but package lang ships one so the
// module is runnable end to end.
package ast

// NodeKind classifies a parse-tree node for lowering purposes.
type NodeKind uint8

const (
	KindNumber NodeKind = iota
	KindSymbolLiteral
	KindCharList
	KindUnit
	KindTrue
	KindFalse
	KindBinaryOp
	KindPair
	KindList
	KindRange
	KindConditional
	KindApply
	KindEmptyApply
	KindPartialApply
	KindExpressionDef
	KindSymbolRef
)

// BinaryOperator enumerates the binary arithmetic/comparison operators a
// KindBinaryOp node may carry.
type BinaryOperator uint8

const (
	OpAdd BinaryOperator = iota
	OpSub
	OpMul
	OpDiv
	OpEqual
)

// Node is one entry in the parse tree: a token (Text/Kind) plus
// parent/left/right indices into the owning Tree's Nodes slice. -1 means
// "absent".
type Node struct {
	Kind NodeKind
	Text string

	Parent int
	Left   int
	Right  int

	// Children holds ordered child indices for KindList elements, the
	// top-level items of a KindUnit program root, and KindConditional's
	// then/else branches.
	Children []int

	// BinaryOp is meaningful when Kind == KindBinaryOp.
	BinaryOp BinaryOperator

	// StartExclusive/EndExclusive are meaningful when Kind == KindRange.
	StartExclusive bool
	EndExclusive   bool

	// Name is meaningful for KindExpressionDef (the defined name) and
	// KindSymbolRef (the referenced symbol's text).
	Name string
}

// Tree is a full parse tree: a flat node slice plus a designated root.
type Tree struct {
	Nodes []Node
	Root  int
}

// Add appends a node and returns its index.
func (t *Tree) Add(n Node) int {
	idx := len(t.Nodes)
	t.Nodes = append(t.Nodes, n)
	return idx
}

const NoIndex = -1
