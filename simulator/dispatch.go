/*
   simulator/dispatch - operand resolution and opcode x modifier execution.

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

package simulator

import (
	"github.com/go-mars/mars/event"
	"github.com/go-mars/mars/redcode"
)

// stepInfo carries one instruction's fully resolved operand state through
// dispatch, mirroring the host's decode-then-execute step record.
type stepInfo struct {
	pc     int
	ir     redcode.Instruction // copy of the instruction at pc
	aPtr   int                 // resolved A-field pointer (post-indirection)
	bPtr   int                 // resolved B-field pointer, read address
	bPtrW  int                 // resolved B-field pointer, write address
	aInstr redcode.Instruction
	bInstr redcode.Instruction
}

func (s *Simulator) fold(addr, pc, limit int) int {
	coreSize := s.core.Size()
	if limit <= 0 || limit >= coreSize {
		return s.core.Wrap(addr)
	}
	r := mod(addr+coreSize-pc, coreSize)
	half := limit / 2
	if r > half {
		r += coreSize - limit
	}
	return s.core.Wrap(r + pc)
}

func (s *Simulator) foldr(addr, pc int) int {
	return s.fold(addr, pc, s.opts.ReadLimit)
}

func (s *Simulator) foldw(addr, pc int) int {
	return s.fold(addr, pc, s.opts.WriteLimit)
}

// runInstruction executes the task at the head of w's queue for one cycle
// and reports whether that task died.
func (s *Simulator) runInstruction(widx int, w *SimWarrior) bool {
	pc, ok := w.Queue.Pop()
	if !ok {
		return true
	}

	ir := s.core.Get(pc)
	s.recordAccess(widx, pc, event.Execute)

	si := &stepInfo{pc: pc, ir: ir}
	s.resolveA(widx, si)
	s.resolveB(widx, si)

	return s.dispatch(widx, w, si)
}

// resolveA computes the A-field pointer per the addressing-mode rules. A is
// always a read; one final address (foldr) is enough, unlike B which also
// needs a write address.
func (s *Simulator) resolveA(widx int, si *stepInfo) {
	switch si.ir.AMode {
	case redcode.Immediate:
		si.aPtr = si.pc
		si.aInstr = s.core.Get(si.pc)
		return
	case redcode.Direct:
		si.aPtr = s.foldr(si.pc+si.ir.A, si.pc)
	case redcode.BIndirect, redcode.BPredecr, redcode.BPostinc:
		base := s.indirectBase(si.pc, si.ir.A, si.ir.AMode)
		v := s.indirect(widx, base, si.ir.AMode, fieldB)
		si.aPtr = s.foldr(base+v, base)
	case redcode.AIndirect, redcode.APredecr, redcode.APostinc:
		base := s.indirectBase(si.pc, si.ir.A, si.ir.AMode)
		v := s.indirect(widx, base, si.ir.AMode, fieldA)
		si.aPtr = s.foldr(base+v, base)
	}
	si.aInstr = s.core.Get(si.aPtr)
	s.recordAccess(widx, si.aPtr, event.Read)
}

// resolveB computes both a read pointer (bPtr, foldr) and a write pointer
// (bPtrW, foldw) per §4.8.6: the two only diverge when readLimit and
// writeLimit are configured differently.
func (s *Simulator) resolveB(widx int, si *stepInfo) {
	switch si.ir.BMode {
	case redcode.Immediate:
		si.bPtr = si.pc
		si.bPtrW = si.pc
		si.bInstr = s.core.Get(si.pc)
		return
	case redcode.Direct:
		si.bPtr = s.foldr(si.pc+si.ir.B, si.pc)
		si.bPtrW = s.foldw(si.pc+si.ir.B, si.pc)
	case redcode.BIndirect, redcode.BPredecr, redcode.BPostinc:
		base := s.indirectBase(si.pc, si.ir.B, si.ir.BMode)
		v := s.indirect(widx, base, si.ir.BMode, fieldB)
		si.bPtr = s.foldr(base+v, base)
		si.bPtrW = s.foldw(base+v, base)
	case redcode.AIndirect, redcode.APredecr, redcode.APostinc:
		base := s.indirectBase(si.pc, si.ir.B, si.ir.BMode)
		v := s.indirect(widx, base, si.ir.BMode, fieldA)
		si.bPtr = s.foldr(base+v, base)
		si.bPtrW = s.foldw(base+v, base)
	}
	si.bInstr = s.core.Get(si.bPtr)
	s.recordAccess(widx, si.bPtr, event.Read)
}

type targetField int

const (
	fieldA targetField = iota
	fieldB
)

// indirectBase locates the pointer cell for one level of indirection.
// Predecrement/postincrement modes write that cell (the decrement/increment
// itself), so per §4.8.6 its address is write-folded; plain indirect modes
// only read it, so it is read-folded.
func (s *Simulator) indirectBase(pc, offset int, mode redcode.AddressMode) int {
	switch mode {
	case redcode.BPredecr, redcode.APredecr, redcode.BPostinc, redcode.APostinc:
		return s.foldw(pc+offset, pc)
	default: // BIndirect, AIndirect
		return s.foldr(pc+offset, pc)
	}
}

// indirect applies one level of indirection through the cell at base,
// honoring pre-decrement and post-increment on the chosen field of that
// cell, and returns the pointer value the caller should fold against base
// to get the final operand address(es). Both predecr and postinc mutate
// the cell at base itself; postinc returns the pre-increment value, since
// the increment takes effect only for the *next* reference through it.
func (s *Simulator) indirect(widx, base int, mode redcode.AddressMode, field targetField) int {
	cell := s.core.Get(base)

	get := func(c redcode.Instruction) int {
		if field == fieldA {
			return c.A
		}
		return c.B
	}
	set := func(c *redcode.Instruction, v int) {
		if field == fieldA {
			c.A = v
		} else {
			c.B = v
		}
	}

	switch mode {
	case redcode.BPredecr, redcode.APredecr:
		v := s.core.Wrap(get(cell) - 1)
		set(&cell, v)
		s.core.Set(base, cell)
		s.recordAccess(widx, base, event.Write)
		return v
	case redcode.BPostinc, redcode.APostinc:
		v := get(cell)
		nv := s.core.Wrap(v + 1)
		set(&cell, nv)
		s.core.Set(base, cell)
		s.recordAccess(widx, base, event.Write)
		return v
	default: // BIndirect, AIndirect
		s.recordAccess(widx, base, event.Read)
		return get(cell)
	}
}

func (s *Simulator) writeAt(widx, addr int, instr redcode.Instruction) {
	s.core.Set(addr, instr)
	s.recordAccess(widx, addr, event.Write)
}

// dispatch executes one decoded instruction and reports whether the
// executing task died. Each case is responsible for pushing the task's
// next PC exactly once: opcodes with a single successor (MOV, arithmetic,
// NOP) push pc+1 here; control-transfer opcodes (JMP and its kin, SPL,
// LDP, STP) push whatever PC(s) they compute themselves. DAT pushes
// nothing because the task is dead.
func (s *Simulator) dispatch(widx int, w *SimWarrior, si *stepInfo) bool {
	switch si.ir.Op {
	case redcode.DAT:
		return true
	case redcode.MOV:
		s.execMOV(widx, si)
		w.Queue.Push(s.core.Wrap(si.pc + 1))
	case redcode.ADD:
		return s.execArithAndAdvance(widx, w, si, func(a, b int) int { return a + b })
	case redcode.SUB:
		return s.execArithAndAdvance(widx, w, si, func(a, b int) int { return a - b })
	case redcode.MUL:
		return s.execArithAndAdvance(widx, w, si, func(a, b int) int { return a * b })
	case redcode.DIV:
		return s.execDivModAndAdvance(widx, w, si, func(a, b int) (int, bool) {
			if b == 0 {
				return 0, false
			}
			return a / b, true
		})
	case redcode.MOD:
		return s.execDivModAndAdvance(widx, w, si, func(a, b int) (int, bool) {
			if b == 0 {
				return 0, false
			}
			return a % b, true
		})
	case redcode.JMP:
		w.Queue.Push(si.aPtr)
		return false
	case redcode.JMZ:
		return s.execJmpCond(w, si, func(v int) bool { return v == 0 })
	case redcode.JMN:
		return s.execJmpCond(w, si, func(v int) bool { return v != 0 })
	case redcode.DJN:
		return s.execDJN(widx, w, si)
	case redcode.CMP:
		return s.execCompare(w, si, true)
	case redcode.SNE:
		return s.execCompare(w, si, false)
	case redcode.SLT:
		return s.execSLT(w, si)
	case redcode.SPL:
		return s.execSPL(w, si)
	case redcode.NOP:
		w.Queue.Push(s.core.Wrap(si.pc + 1))
		return false
	case redcode.LDP:
		s.execLDP(widx, w, si)
	case redcode.STP:
		s.execSTP(widx, w, si)
	}
	return false
}

// execArithAndAdvance runs execArith and pushes pc+1 unless the task died
// (execArith itself never kills a task; the wrapper exists so ADD/SUB/MUL
// share one push site with DIV/MOD instead of each opcode managing it).
func (s *Simulator) execArithAndAdvance(widx int, w *SimWarrior, si *stepInfo, op func(a, b int) int) bool {
	died := s.execArith(widx, si, op)
	if !died {
		w.Queue.Push(s.core.Wrap(si.pc + 1))
	}
	return died
}

func (s *Simulator) execDivModAndAdvance(widx int, w *SimWarrior, si *stepInfo, op func(a, b int) (int, bool)) bool {
	died := s.execDivMod(widx, si, op)
	if !died {
		w.Queue.Push(s.core.Wrap(si.pc + 1))
	}
	return died
}

func (s *Simulator) execMOV(widx int, si *stepInfo) {
	dst := s.core.Get(si.bPtrW)
	src := si.aInstr

	switch si.ir.Modifier {
	case redcode.ModA:
		dst.A = src.A
	case redcode.ModB:
		dst.B = src.B
	case redcode.ModAB:
		dst.B = src.A
	case redcode.ModBA:
		dst.A = src.B
	case redcode.ModF:
		dst.A, dst.B = src.A, src.B
	case redcode.ModX:
		dst.A, dst.B = src.B, src.A
	case redcode.ModI:
		dst = src
	}
	s.writeAt(widx, si.bPtrW, dst)
}

// execArith implements ADD/SUB/MUL field-by-field; op receives operands
// already reduced into [0, coreSize).
func (s *Simulator) execArith(widx int, si *stepInfo, op func(a, b int) int) bool {
	coreSize := s.core.Size()
	dst := s.core.Get(si.bPtrW)
	src := si.aInstr
	apply := func(a, b int) int { return mod(op(a, b), coreSize) }

	switch si.ir.Modifier {
	case redcode.ModA:
		dst.A = apply(src.A, dst.A)
	case redcode.ModB:
		dst.B = apply(src.B, dst.B)
	case redcode.ModAB:
		dst.B = apply(src.A, dst.B)
	case redcode.ModBA:
		dst.A = apply(src.B, dst.A)
	case redcode.ModF, redcode.ModI:
		dst.A = apply(src.A, dst.A)
		dst.B = apply(src.B, dst.B)
	case redcode.ModX:
		dst.B = apply(src.A, dst.B)
		dst.A = apply(src.B, dst.A)
	}
	s.writeAt(widx, si.bPtrW, dst)
	return false
}

// execDivMod implements DIV/MOD. A divide or modulo by zero kills the
// task; with the two-field modifiers (F, I, X) the field whose divisor is
// non-zero is still written, whether it comes before or after the zero one.
func (s *Simulator) execDivMod(widx int, si *stepInfo, op func(a, b int) (int, bool)) bool {
	dst := s.core.Get(si.bPtrW)
	src := si.aInstr
	ok := true

	tryField := func(num, den int) (int, bool) {
		r, good := op(num, den)
		if !good {
			ok = false
			return 0, false
		}
		return r, true
	}

	switch si.ir.Modifier {
	case redcode.ModA:
		if v, good := tryField(dst.A, src.A); good {
			dst.A = v
		}
	case redcode.ModB:
		if v, good := tryField(dst.B, src.B); good {
			dst.B = v
		}
	case redcode.ModAB:
		if v, good := tryField(dst.B, src.A); good {
			dst.B = v
		}
	case redcode.ModBA:
		if v, good := tryField(dst.A, src.B); good {
			dst.A = v
		}
	case redcode.ModF, redcode.ModI:
		if v, good := tryField(dst.A, src.A); good {
			dst.A = v
		}
		if v, good := tryField(dst.B, src.B); good {
			dst.B = v
		}
	case redcode.ModX:
		if v, good := tryField(dst.B, src.A); good {
			dst.B = v
		}
		if v, good := tryField(dst.A, src.B); good {
			dst.A = v
		}
	}
	s.writeAt(widx, si.bPtrW, dst)
	return !ok
}

func (s *Simulator) execJmpCond(w *SimWarrior, si *stepInfo, match func(int) bool) bool {
	test := si.bInstr
	var hit bool
	switch si.ir.Modifier {
	case redcode.ModA, redcode.ModBA:
		hit = match(test.A)
	case redcode.ModB, redcode.ModAB:
		hit = match(test.B)
	default: // F, X, I: both fields must satisfy match
		hit = match(test.A) && match(test.B)
	}
	if hit {
		w.Queue.Push(si.aPtr)
	} else {
		w.Queue.Push(s.core.Wrap(si.pc + 1))
	}
	return false
}

func (s *Simulator) execDJN(widx int, w *SimWarrior, si *stepInfo) bool {
	coreSize := s.core.Size()
	dst := s.core.Get(si.bPtrW)

	dec := func(v int) int { return mod(v-1, coreSize) }
	var nonZero bool
	switch si.ir.Modifier {
	case redcode.ModA, redcode.ModBA:
		dst.A = dec(dst.A)
		nonZero = dst.A != 0
	case redcode.ModB, redcode.ModAB:
		dst.B = dec(dst.B)
		nonZero = dst.B != 0
	default:
		dst.A = dec(dst.A)
		dst.B = dec(dst.B)
		nonZero = dst.A != 0 && dst.B != 0
	}
	s.writeAt(widx, si.bPtrW, dst)

	if nonZero {
		w.Queue.Push(si.aPtr)
	} else {
		w.Queue.Push(s.core.Wrap(si.pc + 1))
	}
	return false
}

func (s *Simulator) execCompare(w *SimWarrior, si *stepInfo, wantEqual bool) bool {
	a, b := si.aInstr, si.bInstr
	var equal bool
	switch si.ir.Modifier {
	case redcode.ModA:
		equal = a.A == b.A
	case redcode.ModB:
		equal = a.B == b.B
	case redcode.ModAB:
		equal = a.A == b.B
	case redcode.ModBA:
		equal = a.B == b.A
	case redcode.ModF:
		equal = a.A == b.A && a.B == b.B
	case redcode.ModX:
		equal = a.A == b.B && a.B == b.A
	case redcode.ModI:
		equal = a.Op == b.Op && a.Modifier == b.Modifier && a.AMode == b.AMode &&
			a.BMode == b.BMode && a.A == b.A && a.B == b.B
	}
	skip := equal == wantEqual
	next := si.pc + 1
	if skip {
		next++
	}
	w.Queue.Push(s.core.Wrap(next))
	return false
}

func (s *Simulator) execSLT(w *SimWarrior, si *stepInfo) bool {
	a, b := si.aInstr, si.bInstr
	var less bool
	switch si.ir.Modifier {
	case redcode.ModA:
		less = a.A < b.A
	case redcode.ModB:
		less = a.B < b.B
	case redcode.ModAB:
		less = a.A < b.B
	case redcode.ModBA:
		less = a.B < b.A
	case redcode.ModF, redcode.ModI:
		less = a.A < b.A && a.B < b.B
	case redcode.ModX:
		less = a.A < b.B && a.B < b.A
	}
	next := si.pc + 1
	if less {
		next++
	}
	w.Queue.Push(s.core.Wrap(next))
	return false
}

func (s *Simulator) execSPL(w *SimWarrior, si *stepInfo) bool {
	w.Queue.Push(s.core.Wrap(si.pc + 1))
	if w.Tasks < s.opts.MaxProcesses {
		w.Queue.Push(si.aPtr)
		w.Tasks++
	}
	return false
}

func (s *Simulator) execLDP(widx int, w *SimWarrior, si *stepInfo) {
	v := s.pget(w, si.aInstr.B)
	dst := s.core.Get(si.bPtrW)
	dst.B = mod(v, s.core.Size())
	s.writeAt(widx, si.bPtrW, dst)
	w.Queue.Push(s.core.Wrap(si.pc + 1))
}

func (s *Simulator) execSTP(widx int, w *SimWarrior, si *stepInfo) {
	s.pset(w, si.aInstr.B, si.bInstr.B)
	w.Queue.Push(s.core.Wrap(si.pc + 1))
}
