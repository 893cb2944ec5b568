/*
   pspace - per-warrior persistent storage.

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

// Package pspace implements P-space: persistent integer cells that survive
// across rounds, optionally shared between warriors via a pin value.
//
// Index 0 (after reduction modulo size) is special at the ICWS'94 level,
// but that specialness belongs to the warrior, not the storage array: a
// warrior's "last result" must stay its own even when it shares the rest
// of its P-space with a pinned sibling. So PSpace itself is a plain
// indexed cell array; the index-0-aliases-lastResult rule is implemented
// one layer up, by the simulator's pget/pset against SimWarrior.LastResult.
package pspace

// PSpace is one warrior's (or one shared group's) persistent cell array.
type PSpace struct {
	size  int
	cells []int
}

// New returns a zeroed PSpace of the given size.
func New(size int) *PSpace {
	return &PSpace{
		size:  size,
		cells: make([]int, size),
	}
}

// Size returns the number of addressable cells.
func (p *PSpace) Size() int {
	return p.size
}

func (p *PSpace) index(i int) int {
	if p.size == 0 {
		return 0
	}
	idx := i % p.size
	if idx < 0 {
		idx += p.size
	}
	return idx
}

// Get reads index i, reduced modulo size.
func (p *PSpace) Get(i int) int {
	return p.cells[p.index(i)]
}

// Set writes v at index i, reduced modulo size.
func (p *PSpace) Set(i, v int) {
	p.cells[p.index(i)] = v
}

// Clear zeros every cell.
func (p *PSpace) Clear() {
	for i := range p.cells {
		p.cells[i] = 0
	}
}

// ComputeSize returns coreSize / d, where d is the largest divisor of
// coreSize in [1, 16] (ties prefer d=16).
func ComputeSize(coreSize int) int {
	for d := 16; d >= 1; d-- {
		if coreSize%d == 0 {
			return coreSize / d
		}
	}
	return coreSize
}
