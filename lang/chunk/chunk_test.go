package chunk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simpl/lang/chunk"
	"simpl/lang/value"
)

func TestWriteKeepsCodeAndLinesInSync(t *testing.T) {
	c := chunk.New()
	c.WriteOpCode(chunk.OP_NIL, 1)
	c.WriteOpCode(chunk.OP_PRINT, 1)
	c.WriteOpCode(chunk.OP_RETURN, 2)

	require.Equal(t, len(c.Code), len(c.Lines))
	assert.Equal(t, []byte{byte(chunk.OP_NIL), byte(chunk.OP_PRINT), byte(chunk.OP_RETURN)}, c.Code)
	assert.Equal(t, []int{1, 1, 2}, c.Lines)
}

func TestAddConstantRejectsOverflow(t *testing.T) {
	c := chunk.New()
	for i := 0; i < chunk.MaxConstants; i++ {
		_, err := c.AddConstant(value.Number(float64(i)))
		require.NoError(t, err)
	}
	_, err := c.AddConstant(value.Number(999))
	assert.Error(t, err)
}

func TestShortPatching(t *testing.T) {
	c := chunk.New()
	c.WriteOpCode(chunk.OP_JUMP_IF_FALSE, 1)
	offset := c.WriteShort(0xFFFF, 1)
	c.WriteOpCode(chunk.OP_POP, 1)

	assert.Equal(t, uint16(0xFFFF), c.ReadShort(offset))
	c.PatchShort(offset, 7)
	assert.Equal(t, uint16(7), c.ReadShort(offset))
	// patching must not disturb the line table
	assert.Equal(t, []int{1, 1, 1, 1}, c.Lines)
}

func TestOpCodeOperandWidth(t *testing.T) {
	assert.Equal(t, 1, chunk.OP_CONSTANT.OperandWidth())
	assert.Equal(t, 1, chunk.OP_GET_LOCAL.OperandWidth())
	assert.Equal(t, 2, chunk.OP_JUMP.OperandWidth())
	assert.Equal(t, 0, chunk.OP_RETURN.OperandWidth())
	assert.True(t, chunk.OP_LOOP.IsJump())
	assert.False(t, chunk.OP_CONSTANT.IsJump())
}
