// Package builder lowers a parse tree into an instruction stream, interning
// literal tokens into a Data Store along the way (spec §4.3, component C3).
package builder

import (
	"github.com/evlang/evlang/ast"
	"github.com/evlang/evlang/instr"
	"github.com/evlang/evlang/store"
)

type builder struct {
	tree   *ast.Tree
	stream *instr.Stream
	store  *store.Store
}

// Compile lowers tree into a fresh instruction stream and data store,
// registering tree's top-level anonymous body under name and any nested
// named-expression definitions under their own names (spec §4.3/§6). A
// KindUnit root with Children is a program container whose children are the
// top-level items; any other root is lowered as a single expression.
func Compile(name string, tree *ast.Tree) (*instr.Stream, *store.Store, error) {
	b := &builder{
		tree:   tree,
		stream: instr.NewStream(),
		store:  store.New(),
	}

	rootNode := tree.Nodes[tree.Root]
	topLevel := []int{tree.Root}
	if rootNode.Kind == ast.KindUnit && len(rootNode.Children) > 0 {
		topLevel = rootNode.Children
	}

	mainStart := -1
	for _, idx := range topLevel {
		node := tree.Nodes[idx]
		if node.Kind == ast.KindExpressionDef {
			if err := b.lowerExpressionDef(idx); err != nil {
				return nil, nil, err
			}
			continue
		}
		if mainStart == -1 {
			mainStart = b.stream.Len()
		}
		if err := b.lower(idx); err != nil {
			return nil, nil, err
		}
	}

	if mainStart != -1 {
		b.stream.Emit(instr.NewInstruction(instr.EndExpression))
		if err := b.stream.DefineExpression(name, mainStart); err != nil {
			return nil, nil, err
		}
	}

	b.store.SetEndOfConstant(b.store.Len())
	return b.stream, b.store, nil
}

// lowerExpressionDef implements "Named expression definition" (spec §4.3):
// record name -> start-instruction index, lower the body, close with
// EndExpression. It also inserts a KindExpression value for the definition
// and binds it to the name's symbol hash, so a program can resolve the name
// as an ordinary callable value (via Resolve) instead of only being able to
// invoke it as a host-chosen VM entry point.
func (b *builder) lowerExpressionDef(idx int) error {
	node := b.tree.Nodes[idx]
	start := b.stream.Len()
	if err := b.lower(node.Left); err != nil {
		return err
	}
	b.stream.Emit(instr.NewInstruction(instr.EndExpression))
	if err := b.stream.DefineExpression(node.Name, start); err != nil {
		return err
	}

	exprAddr, err := b.store.AddExpression(start)
	if err != nil {
		return err
	}
	b.stream.BindExpressionValue(store.HashSymbol(node.Name), exprAddr)
	return nil
}

// lower emits the instructions for a single expression-producing node,
// recursing into its children per spec §4.3's lowering rules.
func (b *builder) lower(idx int) error {
	node := b.tree.Nodes[idx]

	switch node.Kind {
	case ast.KindNumber:
		n, err := store.ParseNumber(node.Text)
		if err != nil {
			return err
		}
		addr, err := b.store.AddNumber(n)
		if err != nil {
			return err
		}
		b.emit(instr.NewInstructionArg(instr.Put, int(addr)), idx)

	case ast.KindSymbolLiteral:
		addr, err := b.store.AddSymbol(node.Text)
		if err != nil {
			return err
		}
		b.emit(instr.NewInstructionArg(instr.Put, int(addr)), idx)

	case ast.KindCharList:
		text, err := store.ParseCharList(node.Text)
		if err != nil {
			return err
		}
		addr, err := b.store.AddCharList(text)
		if err != nil {
			return err
		}
		b.emit(instr.NewInstructionArg(instr.Put, int(addr)), idx)

	case ast.KindUnit:
		b.emit(instr.NewInstructionArg(instr.Put, int(store.AddrUnit)), idx)

	case ast.KindTrue:
		b.emit(instr.NewInstructionArg(instr.Put, int(store.AddrTrue)), idx)

	case ast.KindFalse:
		b.emit(instr.NewInstructionArg(instr.Put, int(store.AddrFalse)), idx)

	case ast.KindBinaryOp:
		if err := b.lower(node.Left); err != nil {
			return err
		}
		if err := b.lower(node.Right); err != nil {
			return err
		}
		op, err := binaryOpcode(node.BinaryOp)
		if err != nil {
			return err
		}
		b.emit(instr.NewInstruction(op), idx)

	case ast.KindPair:
		if err := b.lower(node.Left); err != nil {
			return err
		}
		if err := b.lower(node.Right); err != nil {
			return err
		}
		b.emit(instr.NewInstruction(instr.MakePair), idx)

	case ast.KindList:
		for _, c := range node.Children {
			if err := b.lower(c); err != nil {
				return err
			}
		}
		b.emit(instr.NewInstructionArg(instr.MakeList, len(node.Children)), idx)

	case ast.KindRange:
		if err := b.lower(node.Left); err != nil {
			return err
		}
		if err := b.lower(node.Right); err != nil {
			return err
		}
		b.emit(instr.NewInstruction(rangeOpcode(node.StartExclusive, node.EndExclusive)), idx)

	case ast.KindConditional:
		if len(node.Children) != 2 {
			return store.NewErrorf(store.CategoryBuildError, "conditional node %d: expected then/else children, got %d", idx, len(node.Children))
		}
		if err := b.lower(node.Left); err != nil {
			return err
		}
		jumpIfFalse := b.emit(instr.NewInstructionArg(instr.JumpIfFalse, 0), idx)
		if err := b.lower(node.Children[0]); err != nil {
			return err
		}
		jumpTo := b.emit(instr.NewInstructionArg(instr.JumpTo, 0), idx)
		b.stream.Patch(jumpIfFalse, b.stream.Len())
		if err := b.lower(node.Children[1]); err != nil {
			return err
		}
		b.stream.Patch(jumpTo, b.stream.Len())

	case ast.KindApply:
		if err := b.lower(node.Left); err != nil {
			return err
		}
		if err := b.lower(node.Right); err != nil {
			return err
		}
		b.emit(instr.NewInstruction(instr.Apply), idx)

	case ast.KindEmptyApply:
		if err := b.lower(node.Left); err != nil {
			return err
		}
		b.emit(instr.NewInstruction(instr.EmptyApply), idx)

	case ast.KindPartialApply:
		if err := b.lower(node.Left); err != nil {
			return err
		}
		if err := b.lower(node.Right); err != nil {
			return err
		}
		b.emit(instr.NewInstruction(instr.MakePartial), idx)

	case ast.KindSymbolRef:
		addr, err := b.store.AddSymbol(node.Name)
		if err != nil {
			return err
		}
		b.emit(instr.NewInstructionArg(instr.Resolve, int(addr)), idx)

	case ast.KindExpressionDef:
		return b.lowerExpressionDef(idx)

	default:
		return store.NewErrorf(store.CategoryBuildError, "node %d: unhandled node kind %d", idx, node.Kind)
	}

	return nil
}

func (b *builder) emit(i instr.Instruction, nodeIdx int) int {
	return b.stream.EmitWithNode(i, nodeIdx)
}

func binaryOpcode(op ast.BinaryOperator) (instr.Opcode, error) {
	switch op {
	case ast.OpAdd:
		return instr.PerformAddition, nil
	case ast.OpSub:
		return instr.PerformSubtraction, nil
	case ast.OpMul:
		return instr.PerformMultiplication, nil
	case ast.OpDiv:
		return instr.PerformDivision, nil
	case ast.OpEqual:
		return instr.EqualityComparison, nil
	default:
		return 0, store.NewErrorf(store.CategoryBuildError, "unknown binary operator %d", op)
	}
}

func rangeOpcode(startExclusive, endExclusive bool) instr.Opcode {
	switch {
	case startExclusive && endExclusive:
		return instr.MakeExclusiveRange
	case startExclusive:
		return instr.MakeStartExclusiveRange
	case endExclusive:
		return instr.MakeEndExclusiveRange
	default:
		return instr.MakeRange
	}
}
