/*
   assembler/pass2 - per-instruction assembly.

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

package assembler

import (
	"strings"

	"github.com/go-mars/mars/redcode"
)

type operand struct {
	mode     redcode.AddressMode
	exprText string
}

func assemblePass2(b *builder) []redcode.Instruction {
	out := make([]redcode.Instruction, len(b.instrLines))
	for i, il := range b.instrLines {
		out[i] = b.assembleLine(il, i)
	}
	return out
}

func (b *builder) assembleLine(il instrLine, index int) redcode.Instruction {
	text := strings.TrimSpace(il.text)
	word, _, wEnd, ok := nextWord(text, 0)
	if !ok {
		b.errorf(il.lineNo, "empty instruction")
		return redcode.Instruction{}
	}

	opName := word
	modifierGiven := false
	var modifier redcode.Modifier
	if dot := strings.IndexByte(word, '.'); dot >= 0 {
		opName = word[:dot]
		modStr := word[dot+1:]
		if m, ok := redcode.LookupModifier(strings.ToUpper(modStr)); ok {
			modifier = m
			modifierGiven = true
		} else {
			b.errorf(il.lineNo, "unknown modifier %q", modStr)
		}
	}

	op, ok := redcode.LookupOpcode(strings.ToUpper(opName))
	if !ok {
		b.errorf(il.lineNo, "unknown opcode %q", opName)
		return redcode.Instruction{}
	}

	operandText := strings.TrimSpace(text[wEnd:])
	var parts []string
	if operandText != "" {
		parts = splitTopLevelCommas(operandText)
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
	}

	var aOp, bOp operand
	switch len(parts) {
	case 2:
		aOp = b.parseOperand(parts[0], il.lineNo)
		bOp = b.parseOperand(parts[1], il.lineNo)
	case 1:
		switch op {
		case redcode.DAT:
			aOp = operand{mode: redcode.Immediate, exprText: "0"}
			bOp = b.parseOperand(parts[0], il.lineNo)
		case redcode.JMP, redcode.SPL, redcode.NOP:
			aOp = b.parseOperand(parts[0], il.lineNo)
			bOp = operand{mode: redcode.Direct, exprText: "0"}
		default:
			b.errorf(il.lineNo, "missing operand")
			aOp = operand{mode: redcode.Direct, exprText: "0"}
			bOp = operand{mode: redcode.Direct, exprText: "0"}
		}
	case 0:
		b.errorf(il.lineNo, "missing operand")
		aOp = operand{mode: redcode.Direct, exprText: "0"}
		bOp = operand{mode: redcode.Direct, exprText: "0"}
	default:
		b.errorf(il.lineNo, "too many operands")
		aOp = b.parseOperand(parts[0], il.lineNo)
		bOp = b.parseOperand(parts[1], il.lineNo)
	}

	if !modifierGiven {
		modifier = defaultModifier(op, aOp.mode == redcode.Immediate, bOp.mode == redcode.Immediate)
	}

	resolver := b.makeResolver(il.lineNo, false, index)
	aVal := b.evalOperand(aOp.exprText, resolver, il.lineNo)
	bVal := b.evalOperand(bOp.exprText, resolver, il.lineNo)

	return redcode.Instruction{
		Op:       op,
		Modifier: modifier,
		AMode:    aOp.mode,
		BMode:    bOp.mode,
		A:        normalize(aVal, b.opts.CoreSize),
		B:        normalize(bVal, b.opts.CoreSize),
	}
}

func (b *builder) evalOperand(text string, resolver func(string) (int32, bool), lineNo int) int32 {
	if text == "" {
		return 0
	}
	res, err := b.eval.Evaluate(text, resolver)
	if err != nil {
		b.errorf(lineNo, "bad expression %q: %v", text, err)
		return 0
	}
	return res.Value
}

// parseOperand applies bare-EQU text substitution (so a macro body's own
// addressing-mode prefix is honored), then reads a leading addressing-mode
// character, defaulting to $ (DIRECT).
func (b *builder) parseOperand(raw string, lineNo int) operand {
	text := b.substituteBareEqu(strings.TrimSpace(raw), lineNo, map[string]bool{})
	text = strings.TrimSpace(text)
	mode := redcode.Direct
	if len(text) > 0 {
		if m, ok := redcode.LookupAddressMode(text[0]); ok {
			mode = m
			text = strings.TrimSpace(text[1:])
		}
	}
	return operand{mode: mode, exprText: text}
}

func (b *builder) substituteBareEqu(text string, lineNo int, visiting map[string]bool) string {
	if !isBareIdentifier(text) {
		return text
	}
	upper := strings.ToUpper(text)
	sym, ok := b.symbols[upper]
	if !ok || sym.kind != symMacro {
		return text
	}
	if visiting[upper] {
		b.warnf(lineNo, "Recursive EQU cycle")
		return "0"
	}
	visiting[upper] = true
	body := ""
	if len(sym.lines) > 0 {
		body = sym.lines[0]
	}
	return b.substituteBareEqu(strings.TrimSpace(body), lineNo, visiting)
}

func isBareIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	c0 := s[0]
	return c0 == '_' || (c0 >= 'a' && c0 <= 'z') || (c0 >= 'A' && c0 <= 'Z')
}

// defaultModifier implements the (opcode, A-mode, B-mode) default-modifier
// table from the instruction-assembly rules.
func defaultModifier(op redcode.Opcode, aImmediate, bImmediate bool) redcode.Modifier {
	switch op {
	case redcode.DAT, redcode.NOP:
		return redcode.ModF
	case redcode.MOV, redcode.CMP, redcode.SNE:
		switch {
		case aImmediate:
			return redcode.ModAB
		case bImmediate:
			return redcode.ModB
		default:
			return redcode.ModI
		}
	case redcode.ADD, redcode.SUB, redcode.MUL, redcode.DIV, redcode.MOD:
		switch {
		case aImmediate:
			return redcode.ModAB
		case bImmediate:
			return redcode.ModB
		default:
			return redcode.ModF
		}
	case redcode.SLT, redcode.LDP, redcode.STP:
		switch {
		case aImmediate:
			return redcode.ModAB
		case bImmediate:
			return redcode.ModB
		default:
			return redcode.ModB
		}
	case redcode.JMP, redcode.JMZ, redcode.JMN, redcode.DJN, redcode.SPL:
		return redcode.ModB
	default:
		return redcode.ModI
	}
}

func normalize(v int32, coreSize int) int {
	if coreSize == 0 {
		return 0
	}
	m := int32(coreSize)
	r := v % m
	if r < 0 {
		r += m
	}
	return int(r)
}
