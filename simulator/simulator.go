/*
   simulator - the MARS engine: scheduling, dispatch and round lifecycle.

   Copyright (c) 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   RICHARD CORNWELL BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*/

// Package simulator runs MARS rounds: it owns the Core, a PSpace per
// warrior (shared instances aliased by pin), the alive ring, and the
// opcode x modifier dispatch table from the engine's invariant rules.
package simulator

import (
	"github.com/go-mars/mars/config"
	"github.com/go-mars/mars/event"
	"github.com/go-mars/mars/memory"
	"github.com/go-mars/mars/position"
	"github.com/go-mars/mars/pspace"
	"github.com/go-mars/mars/queue"
	"github.com/go-mars/mars/redcode"
	"github.com/go-mars/mars/rng"
)

// Outcome classifies how a round ended.
type Outcome int

const (
	OutcomeWin Outcome = iota
	OutcomeTie
)

func (o Outcome) String() string {
	if o == OutcomeWin {
		return "WIN"
	}
	return "TIE"
}

// RoundResult is returned by Step when a round finishes, and by Run for
// every round it plays.
type RoundResult struct {
	WinnerID *int
	Outcome  Outcome
}

// SimWarrior is one loaded warrior's live round state.
type SimWarrior struct {
	Data        *redcode.WarriorData
	Position    int
	Queue       *queue.Queue
	Tasks       int
	Alive       bool
	PSpaceIndex int
	// LastResult is this warrior's own last-round outcome. It is tracked
	// here, not inside the (possibly shared) PSpace, because a pinned
	// warrior shares its persistent cells with siblings but never its
	// identity: see pspace's package doc and DESIGN.md.
	LastResult int
}

// Simulator runs warriors against each other in a shared Core.
type Simulator struct {
	opts     config.Options
	core     *memory.Core
	warriors []*SimWarrior
	pspaces  []*pspace.PSpace
	listener *event.Listener

	seed         int64
	seedChosen   bool
	checksumSeed int64

	roundNum          int
	currentWarriorIdx int
	warriorsLeft      int
	cycle             int
	next              []int
	prev              []int
	score             []int

	pendingAccess []event.CoreAccessEvent
}

// New returns a Simulator configured by opts. Call LoadWarriors before
// SetupRound.
func New(opts config.Options) *Simulator {
	return &Simulator{opts: opts}
}

// SetEventListener installs (or clears, with nil) the observer callbacks.
func (s *Simulator) SetEventListener(l *event.Listener) {
	s.listener = l
}

// GetCore returns the shared core memory.
func (s *Simulator) GetCore() *memory.Core {
	return s.core
}

// GetWarriors returns the live per-warrior round state, in load order.
func (s *Simulator) GetWarriors() []*SimWarrior {
	return s.warriors
}

// Scores returns the accumulated placement scores across every round
// played so far. The array has 2N-1 slots: a warrior that dies while k
// warriors are still alive adds one to slot k+N-2, and each survivor at
// round end adds one to slot warriorsLeft-1.
func (s *Simulator) Scores() []int {
	return s.score
}

// LoadWarriors validates warriors and opts together (§4.8.1) and prepares
// per-warrior round state and PSpace assignment. It must be called before
// SetupRound, and again (with a fresh Simulator) to change the roster.
func (s *Simulator) LoadWarriors(warriors []*redcode.WarriorData) error {
	n := len(warriors)
	normalized, err := s.opts.Normalize(n)
	if err != nil {
		return err
	}
	s.opts = normalized
	s.core = memory.New(s.opts.CoreSize)

	s.warriors = make([]*SimWarrior, n)
	s.pspaces = nil
	pinIndex := make(map[int]int)

	for i, data := range warriors {
		psIdx := -1
		if data.Pin != nil {
			if existing, ok := pinIndex[*data.Pin]; ok {
				psIdx = existing
			}
		}
		if psIdx == -1 {
			s.pspaces = append(s.pspaces, pspace.New(s.opts.PSpaceSize))
			psIdx = len(s.pspaces) - 1
			if data.Pin != nil {
				pinIndex[*data.Pin] = psIdx
			}
		}
		s.warriors[i] = &SimWarrior{
			Data:        data,
			Queue:       queue.New(s.opts.MaxProcesses + 1),
			PSpaceIndex: psIdx,
			LastResult:  s.opts.CoreSize - 1,
		}
	}

	if n > 0 {
		s.score = make([]int, 2*n-1)
	}
	s.checksumSeed = checksum(warriors)
	s.seedChosen = false
	s.roundNum = 0
	return nil
}

func checksum(warriors []*redcode.WarriorData) int64 {
	var sum int32
	var shuffle int32
	for _, w := range warriors {
		for _, instr := range w.Instructions {
			for _, field := range []int{int(instr.Op), int(instr.Modifier), int(instr.AMode), int(instr.BMode), instr.A, instr.B} {
				sum += int32(field) ^ shuffle
				shuffle++
			}
		}
	}
	seed := rng.Normalize(int64(sum), rng.Modulus)
	if seed == 0 {
		seed = 1
	}
	return rng.Next(seed)
}

// SetupRound clears the core, advances the round number, positions every
// warrior deterministically and resets the alive ring (§4.8.2).
func (s *Simulator) SetupRound() {
	s.core.Clear()
	s.roundNum++

	if !s.seedChosen {
		if s.opts.Seed != nil {
			s.seed = *s.opts.Seed
		} else {
			s.seed = s.checksumSeed
		}
		s.seedChosen = true
	} else if s.opts.FixedSeries {
		s.seed = s.checksumSeed
	}

	n := len(s.warriors)
	var positions []int
	if s.opts.FixedPosition != nil && n == 2 {
		positions = []int{0, s.core.Wrap(*s.opts.FixedPosition)}
	} else {
		var placed []int
		placed, s.seed = position.Place(n, s.opts.CoreSize, s.opts.MinSeparation, s.seed)
		positions = placed
	}

	s.next = make([]int, n)
	s.prev = make([]int, n)
	for i := 0; i < n; i++ {
		w := s.warriors[i]
		w.Position = positions[i]
		w.Queue.Clear()
		pc := s.core.Wrap(positions[i] + w.Data.StartOffset)
		w.Queue.Push(pc)
		w.Tasks = 1
		w.Alive = true
		s.core.LoadInstructions(w.Data.Instructions, positions[i])

		s.next[i] = (i + 1) % n
		s.prev[i] = (i - 1 + n) % n
	}

	if n > 0 {
		s.currentWarriorIdx = (s.roundNum - 1) % n
	}
	s.warriorsLeft = n
	s.cycle = n * s.opts.MaxCycles
}

func (s *Simulator) unlink(idx int) {
	p, nx := s.prev[idx], s.next[idx]
	s.next[p] = nx
	s.prev[nx] = p
}

// Step executes one cycle and returns the round result only once the
// round has ended (§4.8.3).
func (s *Simulator) Step() *RoundResult {
	if s.cycle <= 0 || s.warriorsLeft < 2 {
		return s.endRound()
	}

	idx := s.currentWarriorIdx
	w := s.warriors[idx]
	died := s.runInstruction(idx, w)

	removed := false
	if died {
		w.Tasks--
		if w.Tasks <= 0 {
			w.Alive = false
			n := len(s.warriors)
			s.score[s.warriorsLeft+n-2]++
			s.cycle = s.cycle - 1 - (s.cycle-1)/s.warriorsLeft
			nextIdx := s.next[idx]
			s.unlink(idx)
			s.warriorsLeft--
			s.currentWarriorIdx = nextIdx
			removed = true
		}
	}
	if !removed {
		s.currentWarriorIdx = s.next[idx]
		s.cycle--
	}

	s.flushAccess()
	s.fireTaskCounts()

	if s.cycle <= 0 || s.warriorsLeft < 2 {
		return s.endRound()
	}
	return nil
}

// Run plays rounds sequentially (default 1, or opts.Rounds if rounds<=0
// is passed) and returns each result in order.
func (s *Simulator) Run(rounds int) []RoundResult {
	if rounds <= 0 {
		rounds = s.opts.Rounds
	}
	results := make([]RoundResult, 0, rounds)
	for r := 0; r < rounds; r++ {
		s.SetupRound()
		for {
			if res := s.Step(); res != nil {
				results = append(results, *res)
				break
			}
		}
	}
	return results
}

func (s *Simulator) endRound() *RoundResult {
	for _, w := range s.warriors {
		if w.Alive {
			s.score[s.warriorsLeft-1]++
			w.LastResult = s.warriorsLeft
		} else {
			w.LastResult = 0
		}
	}

	var winner *int
	outcome := OutcomeTie
	if s.warriorsLeft == 1 {
		for i, w := range s.warriors {
			if w.Alive {
				id := i
				winner = &id
				break
			}
		}
		outcome = OutcomeWin
	}

	s.listener.FireRoundEnd(event.RoundEndEvent{WinnerID: winner})
	return &RoundResult{WinnerID: winner, Outcome: outcome}
}

func (s *Simulator) recordAccess(warriorIdx, addr int, kind event.AccessType) {
	s.pendingAccess = append(s.pendingAccess, event.CoreAccessEvent{
		WarriorID:  warriorIdx,
		Address:    addr,
		AccessType: kind,
	})
}

func (s *Simulator) flushAccess() {
	for _, e := range s.pendingAccess {
		s.listener.FireCoreAccess(e)
	}
	s.pendingAccess = s.pendingAccess[:0]
}

func (s *Simulator) fireTaskCounts() {
	for i, w := range s.warriors {
		if w.Alive {
			s.listener.FireTaskCount(event.TaskCountEvent{WarriorID: i, TaskCount: w.Tasks})
		}
	}
}

// pget/pset implement the ICWS'94 P-space index-0-is-lastResult rule at
// the warrior level: see pspace's package doc.
func (s *Simulator) pget(w *SimWarrior, i int) int {
	ps := s.pspaces[w.PSpaceIndex]
	if ps.Size() == 0 {
		return w.LastResult
	}
	if mod(i, ps.Size()) == 0 {
		return w.LastResult
	}
	return ps.Get(i)
}

func (s *Simulator) pset(w *SimWarrior, i, v int) {
	ps := s.pspaces[w.PSpaceIndex]
	if ps.Size() == 0 || mod(i, ps.Size()) == 0 {
		w.LastResult = v
		return
	}
	ps.Set(i, v)
}

func mod(a, m int) int {
	if m == 0 {
		return 0
	}
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
