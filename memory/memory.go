/*
   memory - circular core memory.

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

// Package memory implements the MARS core: a wrap-indexed array of
// instructions shared by every warrior in a round.
package memory

import "github.com/go-mars/mars/redcode"

// resetInstruction is what every core cell holds at the start of a round.
var resetInstruction = redcode.Instruction{Op: redcode.DAT, Modifier: redcode.ModF, AMode: redcode.Direct, BMode: redcode.Direct, A: 0, B: 0}

// Core is the circular memory array every loaded warrior executes in.
type Core struct {
	cells []redcode.Instruction
}

// New returns a Core of the given size, reset to the default DAT cell.
func New(size int) *Core {
	c := &Core{cells: make([]redcode.Instruction, size)}
	c.Clear()
	return c
}

// Size returns the number of addressable cells.
func (c *Core) Size() int {
	return len(c.cells)
}

// Wrap folds any integer address into [0, size).
func (c *Core) Wrap(a int) int {
	m := len(c.cells)
	a %= m
	if a < 0 {
		a += m
	}
	return a
}

// Get returns the instruction at address a, wrapping as needed.
func (c *Core) Get(a int) redcode.Instruction {
	return c.cells[c.Wrap(a)]
}

// Set stores instr at address a, wrapping as needed.
func (c *Core) Set(a int, instr redcode.Instruction) {
	c.cells[c.Wrap(a)] = instr
}

// CopyFrom copies the instruction at src to dst, wrapping both.
func (c *Core) CopyFrom(src, dst int) {
	c.cells[c.Wrap(dst)] = c.cells[c.Wrap(src)]
}

// LoadInstructions writes seq into the core starting at startAddr,
// wrapping each successive address.
func (c *Core) LoadInstructions(seq []redcode.Instruction, startAddr int) {
	for i, instr := range seq {
		c.Set(startAddr+i, instr)
	}
}

// Clear resets every cell to the default DAT.F $0, $0 instruction.
func (c *Core) Clear() {
	for i := range c.cells {
		c.cells[i] = resetInstruction
	}
}
