/*
   redcode - instruction text formatting.

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

package redcode

import "strings"

// String renders an instruction back to canonical Redcode text, e.g.
// "MOV.I $4, #0". Used by DumpCore for the CLI's core dump.
func (ins Instruction) String() string {
	var b strings.Builder
	b.WriteString(ins.Op.String())
	b.WriteByte('.')
	b.WriteString(ins.Modifier.String())
	b.WriteByte(' ')
	b.WriteString(ins.AMode.String())
	writeInt(&b, ins.A)
	b.WriteString(", ")
	b.WriteString(ins.BMode.String())
	writeInt(&b, ins.B)
	return b.String()
}

func writeInt(b *strings.Builder, v int) {
	if v < 0 {
		b.WriteByte('-')
		v = -v
	}
	if v == 0 {
		b.WriteByte('0')
		return
	}
	var digits [20]byte
	n := len(digits)
	for v > 0 {
		n--
		digits[n] = byte('0' + v%10)
		v /= 10
	}
	b.Write(digits[n:])
}

// DumpCore renders a contiguous range of core cells, one instruction per
// line prefixed with its address, the way a debugger core listing would.
func DumpCore(get func(addr int) Instruction, start, count int) string {
	var b strings.Builder
	for i := 0; i < count; i++ {
		addr := start + i
		b.WriteString(padAddr(addr))
		b.WriteString("  ")
		b.WriteString(get(addr).String())
		b.WriteByte('\n')
	}
	return b.String()
}

func padAddr(addr int) string {
	s := ""
	v := addr
	if v == 0 {
		s = "0"
	}
	for v > 0 {
		s = string(rune('0'+v%10)) + s
		v /= 10
	}
	for len(s) < 5 {
		s = " " + s
	}
	return s
}
