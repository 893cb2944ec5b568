/*
   rng - Park-Miller Lehmer generator and modular arithmetic helpers.

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

// Package rng implements the Park-Miller minimal-standard Lehmer generator
// used for warrior positioning and checksum-derived seeds, plus the
// modular arithmetic core memory addressing depends on.
package rng

const (
	// Modulus is 2^31-1, the Mersenne prime the generator cycles under.
	Modulus int64 = 2147483647
	a       int64 = 16807
	q       int64 = 127773 // Modulus / a
	r       int64 = 2836   // Modulus % a
)

// Next advances the Lehmer generator one step and returns the new state.
// The state (and the value returned) is always in [1, 2^31-2].
func Next(seed int64) int64 {
	hi := seed / q
	lo := seed % q
	next := a*lo - r*hi
	if next < 0 {
		next += Modulus
	}
	return next
}

// Normalize folds v into [0, m), collapsing negative zero to positive zero.
func Normalize(v, m int64) int64 {
	v %= m
	if v < 0 {
		v += m
	}
	return v
}

// AddMod returns (a+b) mod m, assuming a, b are already in [0, m).
func AddMod(a, b, m int64) int64 {
	s := a + b
	if s >= m {
		s -= m
	}
	return s
}

// SubMod returns (a-b) mod m, assuming a, b are already in [0, m).
func SubMod(a, b, m int64) int64 {
	s := a - b
	if s < 0 {
		s += m
	}
	return s
}

// MulMod returns (a*b) mod m, assuming a, b are already in [0, m). The
// product is computed directly in int64 and then folded; it cannot
// overflow for any m that fits in 32 bits.
func MulMod(a, b, m int64) int64 {
	if m == 0 {
		return 0
	}
	// a, b < m and m fits comfortably in 32 bits for any sane core size,
	// so the product fits in int64 without the double-wide fallback a
	// 32-bit host would need.
	return (a * b) % m
}
