package instr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evlang/evlang/store"
)

func TestInstruction_String(t *testing.T) {
	require.Equal(t, "Nop", NewInstruction(Nop).String())
	require.Equal(t, "Put 7", NewInstructionArg(Put, 7).String())
}

func TestStream_EmitAndLen(t *testing.T) {
	s := NewStream()
	idx := s.Emit(NewInstruction(Nop))
	require.Equal(t, 0, idx)
	require.Equal(t, 1, s.Len())
}

func TestStream_EmitWithNode_RecordsParseNodeIndex(t *testing.T) {
	s := NewStream()
	idx := s.EmitWithNode(NewInstruction(Nop), 42)
	require.Equal(t, 42, s.ParseNodeIndex[idx])
}

func TestStream_Patch_BackfillsForwardJump(t *testing.T) {
	s := NewStream()
	jumpIdx := s.Emit(NewInstructionArg(JumpIfFalse, 0))
	s.Emit(NewInstruction(Nop))
	target := s.Len()
	s.Patch(jumpIdx, target)

	require.Equal(t, target, s.Instructions[jumpIdx].Arg)
	require.True(t, s.Instructions[jumpIdx].HasArg)
}

func TestStream_DefineExpression_DuplicateFails(t *testing.T) {
	s := NewStream()
	require.NoError(t, s.DefineExpression("main", 0))

	err := s.DefineExpression("main", 5)
	require.Error(t, err)
	require.True(t, store.Is(err, store.CategoryDuplicateExpression))
}

func TestStream_Lookup(t *testing.T) {
	s := NewStream()
	require.NoError(t, s.DefineExpression("foo", 3))

	idx, ok := s.Lookup("foo")
	require.True(t, ok)
	require.Equal(t, 3, idx)

	_, ok = s.Lookup("missing")
	require.False(t, ok)
}
