/*
   config - shared MARS compile and simulation options.

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

// Package config holds the options shared by the assembler (which needs
// the predefined-identifier values) and the simulator (which needs the
// full set to run a round). One Options value configures both.
package config

import "fmt"

// Options configures one assembly/simulation session. Zero value is not
// valid; use Defaults to obtain sane settings and override fields.
type Options struct {
	CoreSize      int // Cells in core.
	MaxCycles     int // Cycles per warrior per round.
	MaxLength     int // Max warrior instruction count.
	MaxProcesses  int // Max concurrent tasks per warrior.
	MinSeparation int // Minimum circular distance between warriors.
	ReadLimit     int // 0 = unlimited; else folding radius.
	WriteLimit    int // 0 = unlimited; else folding radius.
	Rounds        int // Rounds per run().
	PSpaceSize    int // 0 = derive from CoreSize.
	Warriors      int // Number of loaded warriors (for predefined CORESIZE etc).

	Seed          *int64 // Explicit RNG seed; nil = derive from checksum.
	FixedSeries   bool   // Use checksum-derived seed every round.
	FixedPosition *int   // Force warrior-2 position; mutually exclusive with FixedSeries.
}

// Defaults returns the standard ICWS'94-derived option set.
func Defaults() Options {
	return Options{
		CoreSize:      8000,
		MaxCycles:     80000,
		MaxLength:     100,
		MaxProcesses:  8000,
		MinSeparation: 100,
		ReadLimit:     0,
		WriteLimit:    0,
		Rounds:        1,
		PSpaceSize:    0,
		Warriors:      2,
	}
}

// Validate checks the configuration-error conditions from the simulator's
// loadWarriors step that don't depend on the concrete warrior count N
// (those are checked by the caller, which knows N). It does not mutate o.
func (o Options) Validate() error {
	if o.FixedSeries && o.FixedPosition != nil {
		return fmt.Errorf("mars: fixedSeries and fixedPosition are mutually exclusive")
	}
	if o.FixedPosition != nil && *o.FixedPosition < o.MinSeparation {
		return fmt.Errorf("mars: fixedPosition %d is below minSeparation %d", *o.FixedPosition, o.MinSeparation)
	}
	return nil
}

// Normalize applies the N-dependent adjustments from loadWarriors:
// minSeparation is raised to at least maxLength, then lowered if the core
// cannot fit N warriors at that separation. Returns the adjusted copy.
func (o Options) Normalize(n int) (Options, error) {
	if n > 36 {
		return o, fmt.Errorf("mars: too many warriors (%d > 36)", n)
	}
	if err := o.Validate(); err != nil {
		return o, err
	}
	if o.MinSeparation < o.MaxLength {
		o.MinSeparation = o.MaxLength
	}
	if n > 0 && o.CoreSize < n*o.MinSeparation {
		o.MinSeparation = o.CoreSize / n
	}
	if o.PSpaceSize == 0 {
		o.PSpaceSize = computePSpaceSize(o.CoreSize)
	}
	return o, nil
}

// computePSpaceSize mirrors pspace.ComputeSize without importing the
// pspace package, avoiding a config -> pspace -> config cycle risk as the
// module grows.
func computePSpaceSize(coreSize int) int {
	for d := 16; d >= 1; d-- {
		if coreSize%d == 0 {
			return coreSize / d
		}
	}
	return coreSize
}

// PredefinedIdentifiers returns the case-insensitive predefined identifier
// table the assembler's evaluator resolves ORG/END/PIN/FOR expressions and
// operand expressions against. CURLINE is added per-instruction by the
// assembler itself, not here.
func (o Options) PredefinedIdentifiers() map[string]int32 {
	return map[string]int32{
		"CORESIZE":     int32(o.CoreSize),
		"MAXPROCESSES": int32(o.MaxProcesses),
		"MAXCYCLES":    int32(o.MaxCycles),
		"MAXLENGTH":    int32(o.MaxLength),
		"MINDISTANCE":  int32(o.MinSeparation),
		"VERSION":      96,
		"WARRIORS":     int32(o.Warriors),
		"ROUNDS":       int32(o.Rounds),
		"PSPACESIZE":   int32(o.PSpaceSize),
		"READLIMIT":    int32(o.ReadLimit),
		"WRITELIMIT":   int32(o.WriteLimit),
	}
}
