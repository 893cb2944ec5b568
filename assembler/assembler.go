/*
   assembler - two-pass Redcode assembler.

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

// Package assembler turns Redcode source into a redcode.WarriorData. It
// runs two passes: the first expands EQU/FOR macros and collects labels,
// the second assembles each instruction line and evaluates its operands.
package assembler

import (
	"fmt"

	"github.com/go-mars/mars/config"
	"github.com/go-mars/mars/redcode"
)

// Severity classifies an assembler Message.
type Severity int

const (
	Error Severity = iota
	Warning
	Info
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "ERROR"
	case Warning:
		return "WARNING"
	default:
		return "INFO"
	}
}

// Message is one diagnostic produced while assembling.
type Message struct {
	Severity Severity
	Line     int
	Text     string
}

// Result is the outcome of Assemble.
type Result struct {
	Success  bool
	Warrior  *redcode.WarriorData
	Messages []Message
}

// Assemble compiles source under opts. Success is false, and Warrior nil,
// if any ERROR-severity message was produced.
func Assemble(source string, opts config.Options) Result {
	b := newBuilder(opts)
	b.run(source)

	if b.instructionCount() == 0 {
		b.errorf(b.lastLine, "no instructions")
	} else if b.instructionCount() > opts.MaxLength {
		b.errorf(b.lastLine, "program exceeds maxLength (%d > %d)", b.instructionCount(), opts.MaxLength)
	}

	var instructions []redcode.Instruction
	if !b.hasError() {
		instructions = assemblePass2(b)
	}

	if !b.sawAssert {
		b.warnf(b.lastLine, "Missing ASSERT")
	}

	result := Result{Messages: b.messages}
	if !b.hasError() {
		result.Success = true
		result.Warrior = &redcode.WarriorData{
			Instructions: instructions,
			StartOffset:  b.startOffset,
			Name:         b.name,
			Author:       b.author,
			Strategy:     b.strategy,
			Pin:          b.pin,
			Warnings:     warningTexts(b.messages),
		}
	}
	return result
}

func warningTexts(msgs []Message) []string {
	var out []string
	for _, m := range msgs {
		if m.Severity == Warning {
			out = append(out, fmt.Sprintf("line %d: %s", m.Line, m.Text))
		}
	}
	return out
}
