/*
   redcode - shared Redcode instruction and warrior types.

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

// Package redcode holds the data model shared by the assembler and the
// simulator: instructions, opcodes, modifiers, addressing modes and the
// immutable warrior image the assembler hands to the simulator.
package redcode

// Opcode is one of the 19 Redcode mnemonics.
type Opcode int

const (
	MOV Opcode = iota
	ADD
	SUB
	MUL
	DIV
	MOD
	JMP
	JMZ
	JMN
	DJN
	CMP // SEQ is an alias for CMP.
	SLT
	SPL
	DAT
	NOP
	SNE
	LDP
	STP
)

var opcodeNames = map[Opcode]string{
	MOV: "MOV", ADD: "ADD", SUB: "SUB", MUL: "MUL", DIV: "DIV", MOD: "MOD",
	JMP: "JMP", JMZ: "JMZ", JMN: "JMN", DJN: "DJN", CMP: "CMP", SLT: "SLT",
	SPL: "SPL", DAT: "DAT", NOP: "NOP", SNE: "SNE", LDP: "LDP", STP: "STP",
}

func (o Opcode) String() string {
	if s, ok := opcodeNames[o]; ok {
		return s
	}
	return "???"
}

// opcodeByName maps mnemonics (including the SEQ alias) to Opcode values.
var opcodeByName = map[string]Opcode{
	"MOV": MOV, "ADD": ADD, "SUB": SUB, "MUL": MUL, "DIV": DIV, "MOD": MOD,
	"JMP": JMP, "JMZ": JMZ, "JMN": JMN, "DJN": DJN, "CMP": CMP, "SEQ": CMP,
	"SLT": SLT, "SPL": SPL, "DAT": DAT, "NOP": NOP, "SNE": SNE, "LDP": LDP,
	"STP": STP,
}

// LookupOpcode resolves a case-normalized mnemonic to an Opcode.
func LookupOpcode(name string) (Opcode, bool) {
	op, ok := opcodeByName[name]
	return op, ok
}

// Modifier selects which instruction field(s) an opcode operates on.
type Modifier int

const (
	ModA Modifier = iota
	ModB
	ModAB
	ModBA
	ModF
	ModX
	ModI
)

var modifierNames = map[Modifier]string{
	ModA: "A", ModB: "B", ModAB: "AB", ModBA: "BA", ModF: "F", ModX: "X", ModI: "I",
}

func (m Modifier) String() string {
	if s, ok := modifierNames[m]; ok {
		return s
	}
	return "?"
}

var modifierByName = map[string]Modifier{
	"A": ModA, "B": ModB, "AB": ModAB, "BA": ModBA, "F": ModF, "X": ModX, "I": ModI,
}

// LookupModifier resolves a case-normalized modifier suffix to a Modifier.
func LookupModifier(name string) (Modifier, bool) {
	m, ok := modifierByName[name]
	return m, ok
}

// AddressMode is the addressing-mode prefix character on an operand.
type AddressMode int

const (
	Immediate AddressMode = iota // #
	Direct                       // $
	BIndirect                    // @
	BPredecr                     // <
	BPostinc                     // >
	AIndirect                    // *
	APredecr                     // {
	APostinc                     // }
)

var addressModeChars = map[byte]AddressMode{
	'#': Immediate,
	'$': Direct,
	'@': BIndirect,
	'<': BPredecr,
	'>': BPostinc,
	'*': AIndirect,
	'{': APredecr,
	'}': APostinc,
}

// LookupAddressMode resolves a prefix character to an AddressMode.
func LookupAddressMode(ch byte) (AddressMode, bool) {
	m, ok := addressModeChars[ch]
	return m, ok
}

func (m AddressMode) String() string {
	for ch, mode := range addressModeChars {
		if mode == m {
			return string(ch)
		}
	}
	return "?"
}

// Instruction is the five-field Redcode instruction record. Opcode and
// Modifier are packed together logically but kept as separate fields here;
// the simulator's dispatch table is keyed on the (Opcode, Modifier) pair
// directly rather than on a bit-packed integer, since Go switches on
// structs and small ints equally well and this keeps the field decode out
// of the hot path.
type Instruction struct {
	Op       Opcode
	Modifier Modifier
	AMode    AddressMode
	BMode    AddressMode
	A        int
	B        int
}

// WarriorData is the immutable output of assembling one warrior.
type WarriorData struct {
	Instructions []Instruction
	StartOffset  int
	Name         string
	Author       string
	Strategy     string
	Pin          *int
	Warnings     []string
}
