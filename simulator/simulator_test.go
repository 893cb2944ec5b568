package simulator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-mars/mars/config"
	"github.com/go-mars/mars/redcode"
)

func testOptions(coreSize int) config.Options {
	o := config.Defaults()
	o.CoreSize = coreSize
	o.MaxCycles = 1000
	o.MaxLength = 1
	o.MinSeparation = 5
	o.Rounds = 1
	return o
}

func datImmediate(a, b int) redcode.Instruction {
	return redcode.Instruction{Op: redcode.DAT, Modifier: redcode.ModF, AMode: redcode.Immediate, BMode: redcode.Immediate, A: a, B: b}
}

func warriorOf(instrs ...redcode.Instruction) *redcode.WarriorData {
	return &redcode.WarriorData{Instructions: instrs, StartOffset: 0}
}

// Imp: MOV 0, 1 at every address loops forever, never dying, and copies
// itself one cell forward each cycle (the "imp").
func impWarrior() *redcode.WarriorData {
	return warriorOf(redcode.Instruction{
		Op: redcode.MOV, Modifier: redcode.ModI,
		AMode: redcode.Direct, BMode: redcode.Direct,
		A: 0, B: 1,
	})
}

func TestImpSurvivesRounds(t *testing.T) {
	opts := testOptions(100)
	sim := New(opts)
	require.NoError(t, sim.LoadWarriors([]*redcode.WarriorData{impWarrior(), impWarrior()}))

	sim.SetupRound()
	for i := 0; i < 50; i++ {
		require.Nil(t, sim.Step())
	}
	for _, w := range sim.GetWarriors() {
		require.True(t, w.Alive)
		require.Equal(t, 1, w.Tasks)
	}
}

// A lone DAT instruction kills its task immediately. Warrior 0 is the DAT
// and runs first, so it dies on cycle one; only the imp in slot 1 is left
// alive, and the round ends as a win for warrior 1.
func TestDatKillsImmediately(t *testing.T) {
	opts := testOptions(100)
	sim := New(opts)
	dat := warriorOf(redcode.Instruction{Op: redcode.DAT, Modifier: redcode.ModF, AMode: redcode.Direct, BMode: redcode.Direct})
	require.NoError(t, sim.LoadWarriors([]*redcode.WarriorData{dat, impWarrior()}))

	sim.SetupRound()
	var result *RoundResult
	for result == nil {
		result = sim.Step()
	}
	require.NotNil(t, result.WinnerID)
	require.Equal(t, 1, *result.WinnerID)
	require.Equal(t, OutcomeWin, result.Outcome)
}

// SPL queues pc+1 and, below MaxProcesses, its A target as a second task:
// after one cycle the warrior has two tasks and one queued PC per task.
func TestSPLSpawnsTask(t *testing.T) {
	opts := testOptions(100)
	sim := New(opts)
	w := warriorOf(
		redcode.Instruction{Op: redcode.SPL, Modifier: redcode.ModB, AMode: redcode.Direct, BMode: redcode.Direct, A: 1},
		redcode.Instruction{Op: redcode.DAT, Modifier: redcode.ModF, AMode: redcode.Direct, BMode: redcode.Direct},
	)
	require.NoError(t, sim.LoadWarriors([]*redcode.WarriorData{w, impWarrior()}))
	sim.SetupRound()

	require.Nil(t, sim.Step()) // SPL: spawns task at pc+1, own queue now [pc+1, pc+1]
	spl := sim.GetWarriors()[0]
	require.Equal(t, 2, spl.Tasks)
	require.Equal(t, spl.Tasks, spl.Queue.Size())
}

// JMZ should jump only when the tested field(s) are zero, and fall
// through to pc+1 otherwise.
func TestJMZBranches(t *testing.T) {
	opts := testOptions(100)
	sim := New(opts)
	w := warriorOf(
		redcode.Instruction{Op: redcode.JMZ, Modifier: redcode.ModB, AMode: redcode.Direct, BMode: redcode.Immediate, A: 2, B: 0},
		redcode.Instruction{Op: redcode.DAT, Modifier: redcode.ModF, AMode: redcode.Direct, BMode: redcode.Direct},
		redcode.Instruction{Op: redcode.JMZ, Modifier: redcode.ModB, AMode: redcode.Direct, BMode: redcode.Immediate, A: 1, B: 1},
	)
	require.NoError(t, sim.LoadWarriors([]*redcode.WarriorData{w, impWarrior()}))
	sim.SetupRound()

	require.Nil(t, sim.Step())
	jmz := sim.GetWarriors()[0]
	pc, ok := jmz.Queue.Peek()
	require.True(t, ok)
	require.Equal(t, 2, pc)
	require.Equal(t, 1, jmz.Tasks)
	require.Equal(t, jmz.Tasks, jmz.Queue.Size())
}

// DJN decrements the B-field of its target cell and jumps while the
// result is non-zero, then falls through once it reaches zero. With two
// warriors loaded, Step is round robin across both: the first Step runs
// warrior 0 (§4.8.3, currentWarriorIdx starts at 0), the second runs the
// imp in slot 1, and only the third gets back to warrior 0.
func TestDJNCountsDown(t *testing.T) {
	opts := testOptions(100)
	sim := New(opts)
	w := warriorOf(
		redcode.Instruction{Op: redcode.DJN, Modifier: redcode.ModB, AMode: redcode.Direct, BMode: redcode.Direct, A: 0, B: 1},
		redcode.Instruction{Op: redcode.DAT, Modifier: redcode.ModF, AMode: redcode.Direct, BMode: redcode.Immediate, A: 0, B: 2},
	)
	require.NoError(t, sim.LoadWarriors([]*redcode.WarriorData{w, impWarrior()}))
	sim.SetupRound()

	djn := sim.GetWarriors()[0]

	require.Nil(t, sim.Step()) // warrior 0: DJN decrements, B still 1, jumps back to pc 0
	cell := sim.GetCore().Get(djn.Position + 1)
	require.Equal(t, 1, cell.B)
	pc, _ := djn.Queue.Peek()
	require.Equal(t, djn.Position, pc)
	require.Equal(t, djn.Tasks, djn.Queue.Size())

	require.Nil(t, sim.Step()) // warrior 1 (imp) runs; warrior 0 untouched
	cell = sim.GetCore().Get(djn.Position + 1)
	require.Equal(t, 1, cell.B)
	require.Equal(t, djn.Tasks, djn.Queue.Size())

	require.Nil(t, sim.Step()) // warrior 0 again: DJN decrements to 0, falls through to pc+1
	cell = sim.GetCore().Get(djn.Position + 1)
	require.Equal(t, 0, cell.B)
	pc, _ = djn.Queue.Peek()
	require.Equal(t, djn.Position+1, pc)
	require.Equal(t, djn.Tasks, djn.Queue.Size())
}

// LDP/STP round-trip through a warrior's own P-space, and index 0 aliases
// the warrior's own LastResult rather than the shared cell array.
func TestLDPSTPLastResultAsymmetry(t *testing.T) {
	opts := testOptions(8000)
	sim := New(opts)
	w := warriorOf(redcode.Instruction{Op: redcode.DAT, Modifier: redcode.ModF, AMode: redcode.Direct, BMode: redcode.Direct})
	require.NoError(t, sim.LoadWarriors([]*redcode.WarriorData{w, impWarrior()}))

	sw := sim.GetWarriors()[0]
	sw.LastResult = 42
	require.Equal(t, 42, sim.pget(sw, 0))

	sim.pset(sw, 0, 7)
	require.Equal(t, 7, sw.LastResult)

	sim.pset(sw, 3, 99)
	require.Equal(t, 99, sim.pget(sw, 3))
}

// Pinned warriors share the same PSpace cell array, but each keeps its
// own LastResult.
func TestPinnedWarriorsShareCellsNotLastResult(t *testing.T) {
	opts := testOptions(8000)
	sim := New(opts)
	pin := 1
	a := warriorOf(redcode.Instruction{Op: redcode.DAT, Modifier: redcode.ModF})
	a.Pin = &pin
	b := warriorOf(redcode.Instruction{Op: redcode.DAT, Modifier: redcode.ModF})
	b.Pin = &pin
	require.NoError(t, sim.LoadWarriors([]*redcode.WarriorData{a, b}))

	wa, wb := sim.GetWarriors()[0], sim.GetWarriors()[1]
	require.Equal(t, wa.PSpaceIndex, wb.PSpaceIndex)

	sim.pset(wa, 5, 123)
	require.Equal(t, 123, sim.pget(wb, 5))

	wa.LastResult = 1
	wb.LastResult = 2
	require.Equal(t, 1, sim.pget(wa, 0))
	require.Equal(t, 2, sim.pget(wb, 0))
}

// endRound scores survivors and records a tie when two or more warriors
// both survive to MaxCycles.
func TestRoundEndsInTieOnExhaustion(t *testing.T) {
	opts := testOptions(100)
	opts.MaxCycles = 10
	sim := New(opts)
	require.NoError(t, sim.LoadWarriors([]*redcode.WarriorData{impWarrior(), impWarrior()}))
	sim.SetupRound()

	var result *RoundResult
	for result == nil {
		result = sim.Step()
	}
	require.Nil(t, result.WinnerID)
	require.Equal(t, OutcomeTie, result.Outcome)
	for _, w := range sim.GetWarriors() {
		require.Equal(t, 2, w.LastResult)
	}
}
