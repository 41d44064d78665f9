package builder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evlang/evlang/ast"
	"github.com/evlang/evlang/instr"
	"github.com/evlang/evlang/store"
)

// tree builds a single-node *ast.Tree whose root is n.
func tree(n ast.Node) *ast.Tree {
	t := &ast.Tree{}
	t.Root = t.Add(n)
	return t
}

func TestCompile_NumberLiteral(t *testing.T) {
	tr := tree(ast.Node{Kind: ast.KindNumber, Text: "5", Parent: ast.NoIndex, Left: ast.NoIndex, Right: ast.NoIndex})

	stream, _, err := Compile("main", tr)
	require.NoError(t, err)
	require.Len(t, stream.Instructions, 2)
	require.Equal(t, instr.Put, stream.Instructions[0].Op)
	require.Equal(t, instr.EndExpression, stream.Instructions[1].Op)

	start, ok := stream.Lookup("main")
	require.True(t, ok)
	require.Equal(t, 0, start)
}

func TestCompile_Addition(t *testing.T) {
	tr := &ast.Tree{}
	left := tr.Add(ast.Node{Kind: ast.KindNumber, Text: "5"})
	right := tr.Add(ast.Node{Kind: ast.KindNumber, Text: "5"})
	root := tr.Add(ast.Node{Kind: ast.KindBinaryOp, BinaryOp: ast.OpAdd, Left: left, Right: right})
	tr.Root = root

	stream, _, err := Compile("main", tr)
	require.NoError(t, err)
	require.Len(t, stream.Instructions, 4)
	require.Equal(t, instr.Put, stream.Instructions[0].Op)
	require.Equal(t, instr.Put, stream.Instructions[1].Op)
	require.Equal(t, instr.PerformAddition, stream.Instructions[2].Op)
	require.Equal(t, instr.EndExpression, stream.Instructions[3].Op)

	// Both Put instructions intern the same literal 5, so they share an
	// address (round-trip/interning property, spec §8).
	require.Equal(t, stream.Instructions[0].Arg, stream.Instructions[1].Arg)
}

func TestCompile_SymbolKeyedList(t *testing.T) {
	tr := &ast.Tree{}
	mkPair := func(name, text string) int {
		k := tr.Add(ast.Node{Kind: ast.KindSymbolLiteral, Text: name})
		v := tr.Add(ast.Node{Kind: ast.KindNumber, Text: text})
		return tr.Add(ast.Node{Kind: ast.KindPair, Left: k, Right: v})
	}
	a := mkPair("a", "1")
	b := mkPair("b", "2")
	c := mkPair("c", "3")
	list := tr.Add(ast.Node{Kind: ast.KindList, Children: []int{a, b, c}})
	tr.Root = list

	stream, _, err := Compile("main", tr)
	require.NoError(t, err)

	// three (Put, Put, MakePair) triples, MakeList 3, EndExpression
	require.Len(t, stream.Instructions, 3*3+2)
	last := stream.Instructions[len(stream.Instructions)-2]
	require.Equal(t, instr.MakeList, last.Op)
	require.Equal(t, 3, last.Arg)
}

func TestCompile_RangeExclusivity(t *testing.T) {
	cases := []struct {
		startExcl, endExcl bool
		want               instr.Opcode
	}{
		{false, false, instr.MakeRange},
		{true, false, instr.MakeStartExclusiveRange},
		{false, true, instr.MakeEndExclusiveRange},
		{true, true, instr.MakeExclusiveRange},
	}
	for _, c := range cases {
		tr := &ast.Tree{}
		lo := tr.Add(ast.Node{Kind: ast.KindNumber, Text: "1"})
		hi := tr.Add(ast.Node{Kind: ast.KindNumber, Text: "5"})
		r := tr.Add(ast.Node{Kind: ast.KindRange, Left: lo, Right: hi, StartExclusive: c.startExcl, EndExclusive: c.endExcl})
		tr.Root = r

		stream, _, err := Compile("main", tr)
		require.NoError(t, err)
		require.Equal(t, c.want, stream.Instructions[2].Op)
	}
}

func TestCompile_PartialApply(t *testing.T) {
	tr := &ast.Tree{}
	left := tr.Add(ast.Node{Kind: ast.KindNumber, Text: "5"})
	right := tr.Add(ast.Node{Kind: ast.KindNumber, Text: "6"})
	root := tr.Add(ast.Node{Kind: ast.KindPartialApply, Left: left, Right: right})
	tr.Root = root

	stream, st, err := Compile("main", tr)
	require.NoError(t, err)
	require.Len(t, stream.Instructions, 4)
	require.Equal(t, instr.Put, stream.Instructions[0].Op)
	require.Equal(t, instr.Put, stream.Instructions[1].Op)
	require.Equal(t, instr.MakePartial, stream.Instructions[2].Op)
	require.Equal(t, instr.EndExpression, stream.Instructions[3].Op)

	kind, err := st.GetDataType(store.Address(stream.Instructions[0].Arg))
	require.NoError(t, err)
	require.Equal(t, store.KindNumber, kind)
}

// TestCompile_ExpressionDefBindsResolvableValue confirms lowerExpressionDef
// both registers the name in the jump table (for Execute) and binds a
// KindExpression value to the name's symbol hash (for Resolve), so the
// definition is reachable as an ordinary value, not only as a VM entry
// point.
func TestCompile_ExpressionDefBindsResolvableValue(t *testing.T) {
	tr := &ast.Tree{}
	body := tr.Add(ast.Node{Kind: ast.KindNumber, Text: "9"})
	def := tr.Add(ast.Node{Kind: ast.KindExpressionDef, Name: "helper", Left: body})
	tr.Root = tr.Add(ast.Node{Kind: ast.KindUnit, Children: []int{def}})

	stream, st, err := Compile("main", tr)
	require.NoError(t, err)

	start, ok := stream.Lookup("helper")
	require.True(t, ok)

	exprAddr, ok := stream.LookupExpressionValue(store.HashSymbol("helper"))
	require.True(t, ok)

	kind, err := st.GetDataType(exprAddr)
	require.NoError(t, err)
	require.Equal(t, store.KindExpression, kind)

	entry, err := st.GetExpression(exprAddr)
	require.NoError(t, err)
	require.Equal(t, start, entry)
}

func TestCompile_DuplicateExpressionName(t *testing.T) {
	tr := &ast.Tree{}
	bodyA := tr.Add(ast.Node{Kind: ast.KindNumber, Text: "1"})
	defA := tr.Add(ast.Node{Kind: ast.KindExpressionDef, Name: "dup", Left: bodyA})
	bodyB := tr.Add(ast.Node{Kind: ast.KindNumber, Text: "2"})
	defB := tr.Add(ast.Node{Kind: ast.KindExpressionDef, Name: "dup", Left: bodyB})
	root := tr.Add(ast.Node{Kind: ast.KindUnit, Children: []int{defA, defB}})
	tr.Root = root

	_, _, err := Compile("main", tr)
	require.Error(t, err)
}
