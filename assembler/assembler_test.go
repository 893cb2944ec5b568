package assembler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-mars/mars/config"
	"github.com/go-mars/mars/redcode"
)

func testOpts() config.Options {
	o := config.Defaults()
	o.CoreSize = 8000
	o.MaxLength = 100
	o.MaxProcesses = 8000
	o.MinSeparation = 100
	return o
}

func TestAssembleImp(t *testing.T) {
	src := ";redcode\n;name Imp\n;author Mice\n;assert 1\nMOV 0, 1\n;end\n"
	res := Assemble(src, testOpts())
	require.True(t, res.Success)
	require.Len(t, res.Warrior.Instructions, 1)
	require.Equal(t, redcode.MOV, res.Warrior.Instructions[0].Op)
	require.Equal(t, "Imp", res.Warrior.Name)
	require.Equal(t, "Mice", res.Warrior.Author)
}

func TestAssembleDefaultModifiers(t *testing.T) {
	src := ";redcode\n;assert 1\nDAT 0, 0\nJMP 1\nADD #1, 2\n"
	res := Assemble(src, testOpts())
	require.True(t, res.Success, "%v", res.Messages)
	instrs := res.Warrior.Instructions
	require.Equal(t, redcode.ModF, instrs[0].Modifier) // DAT -> F
	require.Equal(t, redcode.ModB, instrs[1].Modifier) // JMP -> B
	require.Equal(t, redcode.ModAB, instrs[2].Modifier) // ADD with #immediate A -> AB
}

func TestAssembleLabelsAndRelativeAddressing(t *testing.T) {
	src := ";redcode\n;assert 1\nstart\tADD #4, 3\n\tMOV 2, @2\n\tJMP start\n\tDAT #0, #0\n"
	res := Assemble(src, testOpts())
	require.True(t, res.Success, "%v", res.Messages)
	jmp := res.Warrior.Instructions[2]
	require.Equal(t, 8000-2, jmp.A) // "start" is 2 instructions back, normalized into [0,coreSize)
}

func TestAssembleEQUSubstitution(t *testing.T) {
	src := ";redcode\n;assert 1\nstep EQU 4\nADD #step, 1\n"
	res := Assemble(src, testOpts())
	require.True(t, res.Success, "%v", res.Messages)
	require.Equal(t, 4, res.Warrior.Instructions[0].A)
}

func TestAssembleForRofExpansion(t *testing.T) {
	src := ";redcode\n;assert 1\ni FOR 3\nDAT #&i, #0\nROF\n"
	res := Assemble(src, testOpts())
	require.True(t, res.Success, "%v", res.Messages)
	require.Len(t, res.Warrior.Instructions, 3)
	require.Equal(t, 1, res.Warrior.Instructions[0].A)
	require.Equal(t, 2, res.Warrior.Instructions[1].A)
	require.Equal(t, 3, res.Warrior.Instructions[2].A)
}

func TestAssembleUnknownOpcodeErrors(t *testing.T) {
	src := ";redcode\n;assert 1\nFOO 1, 2\n"
	res := Assemble(src, testOpts())
	require.False(t, res.Success)
	require.Nil(t, res.Warrior)
}

func TestAssembleMissingAssertWarns(t *testing.T) {
	src := ";redcode\nDAT 0, 0\n"
	res := Assemble(src, testOpts())
	require.True(t, res.Success)
	found := false
	for _, m := range res.Messages {
		if m.Severity == Warning && m.Text == "Missing ASSERT" {
			found = true
		}
	}
	require.True(t, found)
}

func TestAssembleFailedAssertErrors(t *testing.T) {
	src := ";redcode\n;assert 0\nDAT 0, 0\n"
	res := Assemble(src, testOpts())
	require.False(t, res.Success)
}

func TestAssembleORGSetsStartOffset(t *testing.T) {
	src := ";redcode\n;assert 1\nDAT #0, #0\nMOV 0, 1\nORG 1\n"
	res := Assemble(src, testOpts())
	require.True(t, res.Success, "%v", res.Messages)
	require.Equal(t, 1, res.Warrior.StartOffset)
}

func TestAssemblePinDirective(t *testing.T) {
	src := ";redcode\n;assert 1\nPIN 7\nDAT 0, 0\n"
	res := Assemble(src, testOpts())
	require.True(t, res.Success, "%v", res.Messages)
	require.NotNil(t, res.Warrior.Pin)
	require.Equal(t, 7, *res.Warrior.Pin)
}

func TestAssembleProgramExceedingMaxLengthErrors(t *testing.T) {
	opts := testOpts()
	opts.MaxLength = 1
	src := ";redcode\n;assert 1\nDAT 0, 0\nDAT 0, 0\n"
	res := Assemble(src, opts)
	require.False(t, res.Success)
}
