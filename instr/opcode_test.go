package instr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpcode_String_RoundTrip(t *testing.T) {
	for op, name := range opcodeNames {
		require.Equal(t, name, op.String())
		enum, ok := opcodeStrToEnum[name]
		require.True(t, ok)
		require.Equal(t, op, enum)
	}
}

func TestOpcode_String_Unknown(t *testing.T) {
	var op Opcode = 255
	require.Equal(t, "?unknown?", op.String())
}

func TestOpcode_HasArg(t *testing.T) {
	require.True(t, Put.HasArg())
	require.True(t, MakeList.HasArg())
	require.True(t, Reapply.HasArg())
	require.True(t, Resolve.HasArg())
	require.True(t, JumpTo.HasArg())
	require.True(t, JumpIfTrue.HasArg())
	require.True(t, JumpIfFalse.HasArg())

	require.False(t, Nop.HasArg())
	require.False(t, PerformAddition.HasArg())
	require.False(t, EndExpression.HasArg())
}
