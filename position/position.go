/*
   position - deterministic multi-warrior placement.

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

// Package position implements deterministic warrior placement: positions
// are drawn from the Lehmer RNG subject to a minimum circular separation
// between any two warriors.
package position

import "github.com/go-mars/mars/rng"

const (
	retries1 = 20 // Per-slot placement attempts before rolling back.
	retries2 = 4  // Rollback budget before falling back to npos.
)

// Place returns positions for n warriors in a core of the given size, with
// minimum circular separation, and the RNG seed advanced by however many
// steps placement consumed.
func Place(n, coreSize, separation int, seed int64) ([]int, int64) {
	switch {
	case n == 1:
		return []int{0}, seed
	case n == 2:
		rangeSize := int64(coreSize + 1 - 2*separation)
		seed = rng.Next(seed)
		pos := int(int64(separation) + (seed % rangeSize))
		return []int{0, pos}, seed
	default:
		if positions, newSeed, ok := posit(n, coreSize, separation, seed); ok {
			return positions, newSeed
		}
		return npos(n, coreSize, separation, seed)
	}
}

func circularDistance(a, b, coreSize int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if coreSize-d < d {
		d = coreSize - d
	}
	return d
}

// posit iteratively places warriors 1..n-1 uniformly in
// [separation, coreSize-separation], retrying on overlap and rolling back
// to the first overlapping earlier slot when a slot's retry budget is
// exhausted.
func posit(n, coreSize, separation int, seed int64) ([]int, int64, bool) {
	positions := make([]int, n)
	rangeSize := int64(coreSize - 2*separation + 1)
	if rangeSize <= 0 {
		return nil, seed, false
	}

	retryBudget := retries2
	attempts := make([]int, n)
	i := 1
	for i < n {
		if attempts[i] >= retries1 {
			// Roll back to the first overlapping earlier slot.
			j := 1
			for j < i {
				overlap := false
				for k := 1; k < i; k++ {
					if k != j && circularDistance(positions[j], positions[k], coreSize) < separation {
						overlap = true
						break
					}
				}
				if overlap {
					break
				}
				j++
			}
			if retryBudget <= 0 {
				return nil, seed, false
			}
			retryBudget--
			i = j
			attempts[i]++
			continue
		}

		seed = rng.Next(seed)
		candidate := int(int64(separation) + (seed % rangeSize))

		ok := true
		for k := 1; k < i; k++ {
			if circularDistance(candidate, positions[k], coreSize) < separation {
				ok = false
				break
			}
		}
		if circularDistance(candidate, 0, coreSize) < separation {
			ok = false
		}
		attempts[i]++
		if !ok {
			continue
		}
		positions[i] = candidate
		i++
	}

	return positions, seed, true
}

// npos draws n-1 random offsets, sorts and spaces them by separation, then
// Fisher-Yates shuffles the non-zero slots. Always succeeds.
func npos(n, coreSize, separation int, seed int64) ([]int, int64) {
	span := int64(coreSize - n*separation + 1)
	if span < 1 {
		span = 1
	}

	offsets := make([]int, n-1)
	for i := range offsets {
		seed = rng.Next(seed)
		offsets[i] = int(seed % span)
	}

	// Insertion sort into ascending order.
	for i := 1; i < len(offsets); i++ {
		v := offsets[i]
		j := i - 1
		for j >= 0 && offsets[j] > v {
			offsets[j+1] = offsets[j]
			j--
		}
		offsets[j+1] = v
	}

	positions := make([]int, n)
	for i, off := range offsets {
		positions[i+1] = off + (i+1)*separation
	}

	// Fisher-Yates shuffle of slots [1, n).
	for i := n - 1; i > 1; i-- {
		seed = rng.Next(seed)
		j := 1 + int(seed%int64(i))
		positions[i], positions[j] = positions[j], positions[i]
	}

	return positions, seed
}
