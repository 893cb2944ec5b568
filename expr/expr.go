/*
   expr - recursive descent integer expression evaluator.

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

// Package expr implements the Redcode expression grammar: unary +/-/!,
// */% , +-, relational, && and ||, plus register assignment (A=expr
// through Z=expr). Evaluation happens in signed 32-bit arithmetic; the
// 26 registers persist across calls until ResetRegisters is invoked.
package expr

import (
	"errors"
	"unicode"
)

// ErrBadExpr is returned for malformed expressions (unexpected token,
// unbalanced parens, unresolved identifier with no resolver).
var ErrBadExpr = errors.New("BAD_EXPR")

// ErrDivZero is returned when division or modulo by zero is attempted.
var ErrDivZero = errors.New("DIV_ZERO")

const maxDepth = 256

// Resolver resolves an identifier (predefined constants, labels passed
// through by a caller) to a value. It is tried before the evaluator's own
// A-Z register table, so a caller that has a label or EQU macro named "A"
// can shadow the register; ok=false falls through to register handling,
// letting genuinely undefined single-letter names still read as registers.
type Resolver func(name string) (int32, bool)

// Result is a successful evaluation: the value and whether a signed
// 32-bit overflow occurred and was silently wrapped.
type Result struct {
	Value    int32
	Overflow bool
}

// Evaluator holds the 26 persistent registers used by register assignment
// expressions ("A=5+3"). One Evaluator corresponds to one assembly unit.
type Evaluator struct {
	registers [26]int32
}

// New returns an Evaluator with all registers zeroed.
func New() *Evaluator {
	return &Evaluator{}
}

// ResetRegisters zeros all 26 registers.
func (e *Evaluator) ResetRegisters() {
	for i := range e.registers {
		e.registers[i] = 0
	}
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokLParen
	tokRParen
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
	tokNot
	tokLt
	tokGt
	tokLe
	tokGe
	tokEq
	tokNe
	tokAndAnd
	tokOrOr
	tokAssign
)

type token struct {
	kind tokenKind
	text string
	num  int64
}

type lexer struct {
	src []byte
	pos int
}

func newLexer(s string) *lexer {
	return &lexer{src: []byte(s)}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) && unicode.IsSpace(rune(l.src[l.pos])) {
		l.pos++
	}
}

func (l *lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) next() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return token{kind: tokEOF}, nil
	}

	ch := l.src[l.pos]

	if unicode.IsDigit(rune(ch)) {
		start := l.pos
		for l.pos < len(l.src) && unicode.IsDigit(rune(l.src[l.pos])) {
			l.pos++
		}
		text := string(l.src[start:l.pos])
		var v int64
		for _, d := range text {
			v = v*10 + int64(d-'0')
		}
		return token{kind: tokNumber, text: text, num: v}, nil
	}

	if unicode.IsLetter(rune(ch)) || ch == '_' {
		start := l.pos
		for l.pos < len(l.src) && (unicode.IsLetter(rune(l.src[l.pos])) || unicode.IsDigit(rune(l.src[l.pos])) || l.src[l.pos] == '_') {
			l.pos++
		}
		return token{kind: tokIdent, text: string(l.src[start:l.pos])}, nil
	}

	two := func(second byte, withSecond, without tokenKind) token {
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == second {
			l.pos += 2
			return token{kind: withSecond}
		}
		l.pos++
		return token{kind: without}
	}

	switch ch {
	case '(':
		l.pos++
		return token{kind: tokLParen}, nil
	case ')':
		l.pos++
		return token{kind: tokRParen}, nil
	case '+':
		l.pos++
		return token{kind: tokPlus}, nil
	case '-':
		l.pos++
		return token{kind: tokMinus}, nil
	case '*':
		l.pos++
		return token{kind: tokStar}, nil
	case '/':
		l.pos++
		return token{kind: tokSlash}, nil
	case '%':
		l.pos++
		return token{kind: tokPercent}, nil
	case '!':
		return two('=', tokNe, tokNot), nil
	case '<':
		return two('=', tokLe, tokLt), nil
	case '>':
		return two('=', tokGe, tokGt), nil
	case '=':
		return two('=', tokEq, tokAssign), nil
	case '&':
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == '&' {
			l.pos += 2
			return token{kind: tokAndAnd}, nil
		}
		return token{}, ErrBadExpr
	case '|':
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == '|' {
			l.pos += 2
			return token{kind: tokOrOr}, nil
		}
		return token{}, ErrBadExpr
	default:
		return token{}, ErrBadExpr
	}
}

type parser struct {
	eval     *Evaluator
	resolve  Resolver
	lex      *lexer
	cur      token
	depth    int
	overflow bool
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		return ErrBadExpr
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// Evaluate parses and evaluates s. resolve (may be nil) is tried first for
// every identifier; a single-letter name it does not resolve reads (or
// assigns) a register, and any other unresolved name is ErrBadExpr.
func (e *Evaluator) Evaluate(s string, resolve Resolver) (Result, error) {
	p := &parser{eval: e, resolve: resolve, lex: newLexer(s)}
	if err := p.advance(); err != nil {
		return Result{}, ErrBadExpr
	}
	v, err := p.parseOr()
	if err != nil {
		return Result{}, err
	}
	if p.cur.kind != tokEOF {
		return Result{}, ErrBadExpr
	}
	return Result{Value: v, Overflow: p.overflow}, nil
}

func (p *parser) parseOr() (int32, error) {
	if err := p.enter(); err != nil {
		return 0, err
	}
	defer p.leave()

	left, err := p.parseAnd()
	if err != nil {
		return 0, err
	}
	for p.cur.kind == tokOrOr {
		if err := p.advance(); err != nil {
			return 0, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return 0, err
		}
		left = boolToInt(left != 0 || right != 0)
	}
	return left, nil
}

func (p *parser) parseAnd() (int32, error) {
	if err := p.enter(); err != nil {
		return 0, err
	}
	defer p.leave()

	left, err := p.parseRel()
	if err != nil {
		return 0, err
	}
	for p.cur.kind == tokAndAnd {
		if err := p.advance(); err != nil {
			return 0, err
		}
		right, err := p.parseRel()
		if err != nil {
			return 0, err
		}
		left = boolToInt(left != 0 && right != 0)
	}
	return left, nil
}

func (p *parser) parseRel() (int32, error) {
	if err := p.enter(); err != nil {
		return 0, err
	}
	defer p.leave()

	left, err := p.parseAdd()
	if err != nil {
		return 0, err
	}
	for {
		var cmp func(a, b int32) bool
		switch p.cur.kind {
		case tokLt:
			cmp = func(a, b int32) bool { return a < b }
		case tokGt:
			cmp = func(a, b int32) bool { return a > b }
		case tokLe:
			cmp = func(a, b int32) bool { return a <= b }
		case tokGe:
			cmp = func(a, b int32) bool { return a >= b }
		case tokEq:
			cmp = func(a, b int32) bool { return a == b }
		case tokNe:
			cmp = func(a, b int32) bool { return a != b }
		default:
			return left, nil
		}
		if err := p.advance(); err != nil {
			return 0, err
		}
		right, err := p.parseAdd()
		if err != nil {
			return 0, err
		}
		left = boolToInt(cmp(left, right))
	}
}

func (p *parser) parseAdd() (int32, error) {
	if err := p.enter(); err != nil {
		return 0, err
	}
	defer p.leave()

	left, err := p.parseMul()
	if err != nil {
		return 0, err
	}
	for p.cur.kind == tokPlus || p.cur.kind == tokMinus {
		op := p.cur.kind
		if err := p.advance(); err != nil {
			return 0, err
		}
		right, err := p.parseMul()
		if err != nil {
			return 0, err
		}
		wide := int64(left)
		if op == tokPlus {
			wide += int64(right)
		} else {
			wide -= int64(right)
		}
		left = p.fold(wide)
	}
	return left, nil
}

func (p *parser) parseMul() (int32, error) {
	if err := p.enter(); err != nil {
		return 0, err
	}
	defer p.leave()

	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for p.cur.kind == tokStar || p.cur.kind == tokSlash || p.cur.kind == tokPercent {
		op := p.cur.kind
		if err := p.advance(); err != nil {
			return 0, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		switch op {
		case tokStar:
			left = p.fold(int64(left) * int64(right))
		case tokSlash:
			if right == 0 {
				return 0, ErrDivZero
			}
			left = int32(int64(left) / int64(right))
		case tokPercent:
			if right == 0 {
				return 0, ErrDivZero
			}
			left = int32(int64(left) % int64(right))
		}
	}
	return left, nil
}

func (p *parser) parseUnary() (int32, error) {
	if err := p.enter(); err != nil {
		return 0, err
	}
	defer p.leave()

	switch p.cur.kind {
	case tokPlus:
		if err := p.advance(); err != nil {
			return 0, err
		}
		return p.parseUnary()
	case tokMinus:
		if err := p.advance(); err != nil {
			return 0, err
		}
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return p.fold(-int64(v)), nil
	case tokNot:
		if err := p.advance(); err != nil {
			return 0, err
		}
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return boolToInt(v == 0), nil
	default:
		return p.parsePrimary()
	}
}

func (p *parser) parsePrimary() (int32, error) {
	if err := p.enter(); err != nil {
		return 0, err
	}
	defer p.leave()

	switch p.cur.kind {
	case tokNumber:
		v := p.cur.num
		if err := p.advance(); err != nil {
			return 0, err
		}
		return p.fold(v), nil
	case tokLParen:
		if err := p.advance(); err != nil {
			return 0, err
		}
		v, err := p.parseOr()
		if err != nil {
			return 0, err
		}
		if p.cur.kind != tokRParen {
			return 0, ErrBadExpr
		}
		if err := p.advance(); err != nil {
			return 0, err
		}
		return v, nil
	case tokIdent:
		name := p.cur.text
		if err := p.advance(); err != nil {
			return 0, err
		}
		if p.resolve != nil {
			if v, ok := p.resolve(name); ok {
				return v, nil
			}
		}
		if regIdx, ok := registerIndex(name); ok {
			if p.cur.kind == tokAssign {
				if err := p.advance(); err != nil {
					return 0, err
				}
				v, err := p.parseOr()
				if err != nil {
					return 0, err
				}
				p.eval.registers[regIdx] = v
				return v, nil
			}
			return p.eval.registers[regIdx], nil
		}
		return 0, ErrBadExpr
	default:
		return 0, ErrBadExpr
	}
}

// registerIndex reports whether name is a single-letter register name and
// its 0-based index into Evaluator.registers.
func registerIndex(name string) (int, bool) {
	if len(name) != 1 {
		return 0, false
	}
	c := name[0]
	switch {
	case c >= 'A' && c <= 'Z':
		return int(c - 'A'), true
	case c >= 'a' && c <= 'z':
		return int(c - 'a'), true
	default:
		return 0, false
	}
}

func (p *parser) fold(wide int64) int32 {
	v := int32(wide)
	if int64(v) != wide {
		p.overflow = true
	}
	return v
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
