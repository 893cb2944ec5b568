package memory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-mars/mars/redcode"
)

func TestWrapFoldsBothDirections(t *testing.T) {
	c := New(10)
	require.Equal(t, 0, c.Wrap(10))
	require.Equal(t, 9, c.Wrap(-1))
	require.Equal(t, 5, c.Wrap(5))
	require.Equal(t, 5, c.Wrap(25))
}

func TestGetSetWraps(t *testing.T) {
	c := New(10)
	instr := redcode.Instruction{Op: redcode.MOV, A: 1, B: 2}
	c.Set(12, instr)
	require.Equal(t, instr, c.Get(2))
}

func TestClearResetsToDefaultDAT(t *testing.T) {
	c := New(4)
	c.Set(0, redcode.Instruction{Op: redcode.MOV, A: 9})
	c.Clear()
	for i := 0; i < 4; i++ {
		require.Equal(t, resetInstruction, c.Get(i))
	}
}

func TestCopyFrom(t *testing.T) {
	c := New(5)
	instr := redcode.Instruction{Op: redcode.ADD, A: 3, B: 4}
	c.Set(0, instr)
	c.CopyFrom(0, 2)
	require.Equal(t, instr, c.Get(2))
}

func TestLoadInstructionsWrapsAroundEnd(t *testing.T) {
	c := New(3)
	seq := []redcode.Instruction{
		{Op: redcode.MOV, A: 1},
		{Op: redcode.ADD, A: 2},
		{Op: redcode.SUB, A: 3},
	}
	c.LoadInstructions(seq, 2)
	require.Equal(t, seq[0], c.Get(2))
	require.Equal(t, seq[1], c.Get(0))
	require.Equal(t, seq[2], c.Get(1))
}
