package redcode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInstructionString(t *testing.T) {
	ins := Instruction{Op: MOV, Modifier: ModI, AMode: Direct, BMode: Immediate, A: 4, B: -1}
	require.Equal(t, "MOV.I $4, #-1", ins.String())
}

func TestDumpCoreRendersAddressAndText(t *testing.T) {
	cells := map[int]Instruction{
		0: {Op: DAT, Modifier: ModF, AMode: Direct, BMode: Direct},
		1: {Op: MOV, Modifier: ModI, AMode: Direct, BMode: Direct, A: 0, B: 1},
	}
	out := DumpCore(func(addr int) Instruction { return cells[addr] }, 0, 2)
	require.Contains(t, out, "DAT.F $0, $0")
	require.Contains(t, out, "MOV.I $0, $1")
}
