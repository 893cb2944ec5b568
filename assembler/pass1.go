/*
   assembler/pass1 - macro expansion and symbol collection.

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
	"fmt"
	"strconv"
	"strings"

	"github.com/go-mars/mars/config"
	"github.com/go-mars/mars/expr"
)

type symbolKind int

const (
	symAddress symbolKind = iota
	symMacro
)

// symbol is either an address label (kind=symAddress, addr is the
// instruction index it names) or an EQU macro (kind=symMacro, lines holds
// its body; more than one line means it expands into a sequence of
// instruction lines when bare-referenced).
type symbol struct {
	kind  symbolKind
	addr  int
	lines []string
}

type instrLine struct {
	lineNo int
	text   string
}

type logicalLine struct {
	text   string
	lineNo int
}

type assertItem struct {
	text string
	line int
}

// builder holds all pass-1 state for one assembly unit.
type builder struct {
	opts config.Options
	eval *expr.Evaluator

	symbols      map[string]*symbol
	lastEquLabel string

	instrLines []instrLine

	name, author, strategy string
	sawAssert              bool
	asserts                []assertItem

	hasOrg      bool
	orgExprText string
	orgLine     int

	hasEnd      bool
	endExprText string
	endLine     int

	pinExprText string
	pinLine     int
	pin         *int

	startOffset int

	redcodeSeen int
	stopped     bool

	messages []Message
	lastLine int
}

func newBuilder(opts config.Options) *builder {
	return &builder{
		opts:    opts,
		eval:    expr.New(),
		symbols: make(map[string]*symbol),
	}
}

func (b *builder) errorf(line int, format string, args ...interface{}) {
	b.messages = append(b.messages, Message{Severity: Error, Line: line, Text: fmt.Sprintf(format, args...)})
}

func (b *builder) warnf(line int, format string, args ...interface{}) {
	b.messages = append(b.messages, Message{Severity: Warning, Line: line, Text: fmt.Sprintf(format, args...)})
}

func (b *builder) hasError() bool {
	for _, m := range b.messages {
		if m.Severity == Error {
			return true
		}
	}
	return false
}

func (b *builder) instructionCount() int {
	return len(b.instrLines)
}

// run executes pass 1 end to end: line reconstruction, macro expansion and
// symbol collection, bare multi-line EQU expansion, then evaluation of the
// deferred ORG/END/PIN/assert expressions (which need the final, fully
// remapped address-label table).
func (b *builder) run(source string) {
	lines := reconstructLines(source)
	b.processLines(lines)
	b.expandBareMultilineEQU()
	b.finalizeDirectives()
}

// reconstructLines splits source into logical lines, joining any line whose
// pre-comment portion ends (after trimming trailing whitespace) in a
// backslash onto the next physical line.
func reconstructLines(source string) []logicalLine {
	raw := strings.Split(source, "\n")
	var out []logicalLine
	i := 0
	for i < len(raw) {
		lineNo := i + 1
		text := strings.TrimRight(raw[i], "\r")
		for {
			nonComment := stripComment(text)
			trimmedRight := strings.TrimRight(nonComment, " \t")
			if strings.HasSuffix(trimmedRight, "\\") && i+1 < len(raw) {
				cut := len(trimmedRight) - 1
				i++
				text = text[:cut] + strings.TrimRight(raw[i], "\r")
				continue
			}
			break
		}
		out = append(out, logicalLine{text: text, lineNo: lineNo})
		i++
	}
	return out
}

func (b *builder) processLines(lines []logicalLine) {
	idx := 0
	for idx < len(lines) {
		ln := lines[idx]
		idx++
		if ln.lineNo > b.lastLine {
			b.lastLine = ln.lineNo
		}
		trimmed := strings.TrimSpace(ln.text)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ";") {
			b.handleComment(trimmed, ln.lineNo)
			if b.stopped {
				return
			}
			continue
		}

		labels, restStart := collectLabels(trimmed)
		restText := strings.TrimSpace(trimmed[restStart:])
		if restText == "" {
			continue
		}
		firstWord, _, fwEnd, _ := nextWord(restText, 0)
		upperFirst := strings.ToUpper(strings.TrimSuffix(firstWord, ":"))

		if upperFirst == "EQU" {
			body := strings.TrimSpace(restText[fwEnd:])
			b.handleEQU(labels, body, ln.lineNo)
			continue
		}

		b.lastEquLabel = ""
		switch upperFirst {
		case "FOR":
			countText := strings.TrimSpace(restText[fwEnd:])
			label := ""
			if len(labels) > 0 {
				label = labels[0]
			}
			body, newIdx, ok := captureForBody(lines, idx)
			idx = newIdx
			if !ok {
				b.warnf(ln.lineNo, "FOR unclosed at EOF")
				continue
			}
			count := b.evalForCount(countText, ln.lineNo)
			b.expandFor(body, label, count)
		case "ROF":
			b.warnf(ln.lineNo, "stray ROF")
		case "ORG":
			b.hasOrg = true
			b.orgExprText = strings.TrimSpace(restText[fwEnd:])
			b.orgLine = ln.lineNo
		case "END":
			body := strings.TrimSpace(restText[fwEnd:])
			if body != "" {
				b.hasEnd = true
				b.endExprText = body
				b.endLine = ln.lineNo
			}
			return
		case "PIN":
			b.pinExprText = strings.TrimSpace(restText[fwEnd:])
			b.pinLine = ln.lineNo
		default:
			for _, l := range labels {
				b.defineAddressLabel(l, len(b.instrLines))
			}
			b.instrLines = append(b.instrLines, instrLine{lineNo: ln.lineNo, text: restText})
		}
	}
}

func (b *builder) handleComment(trimmed string, lineNo int) {
	body := strings.TrimSpace(trimmed[1:])
	word, _, wEnd, ok := nextWord(body, 0)
	if !ok {
		return
	}
	rest := ""
	if wEnd < len(body) {
		rest = strings.TrimSpace(body[wEnd:])
	}
	switch strings.ToUpper(word) {
	case "REDCODE":
		b.redcodeSeen++
		if b.redcodeSeen == 1 {
			b.resetForRedcode()
		} else {
			b.stopped = true
		}
	case "NAME":
		b.name = rest
	case "AUTHOR":
		b.author = rest
	case "STRATEGY":
		if b.strategy == "" {
			b.strategy = rest
		} else {
			b.strategy += "\n" + rest
		}
	case "ASSERT":
		b.sawAssert = true
		b.asserts = append(b.asserts, assertItem{text: rest, line: lineNo})
	}
}

func (b *builder) resetForRedcode() {
	b.name = ""
	b.author = ""
	b.strategy = ""
	b.instrLines = nil
	b.sawAssert = false
	b.asserts = nil
}

func (b *builder) handleEQU(labels []string, body string, lineNo int) {
	if len(labels) > 0 {
		name := strings.ToUpper(labels[0])
		b.symbols[name] = &symbol{kind: symMacro, lines: []string{body}}
		b.lastEquLabel = name
		return
	}
	if b.lastEquLabel != "" {
		sym := b.symbols[b.lastEquLabel]
		sym.lines = append(sym.lines, body)
		return
	}
	b.errorf(lineNo, "EQU without label")
}

func (b *builder) defineAddressLabel(name string, index int) {
	b.symbols[strings.ToUpper(name)] = &symbol{kind: symAddress, addr: index}
}

// captureForBody scans lines[start:] for the ROF matching the FOR that was
// just consumed (nesting-aware), returning the body lines (exclusive of the
// terminal ROF) and the index just past it.
func captureForBody(lines []logicalLine, start int) (body []logicalLine, next int, ok bool) {
	nest := 1
	for i := start; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i].text)
		directive := ""
		if trimmed != "" && !strings.HasPrefix(trimmed, ";") {
			_, restStart := collectLabels(trimmed)
			rest := strings.TrimSpace(trimmed[restStart:])
			fw, _, _, hasWord := nextWord(rest, 0)
			if hasWord {
				directive = strings.ToUpper(strings.TrimSuffix(fw, ":"))
			}
		}
		switch directive {
		case "FOR":
			nest++
		case "ROF":
			nest--
			if nest == 0 {
				return body, i + 1, true
			}
		}
		body = append(body, lines[i])
	}
	return body, len(lines), false
}

// expandFor runs body through processLines count times, binding label (if
// any) to the 1-based iteration number and performing &label textual
// substitution before each pass.
func (b *builder) expandFor(body []logicalLine, label string, count int) {
	for k := 1; k <= count; k++ {
		iter := make([]logicalLine, len(body))
		for i, l := range body {
			iter[i] = logicalLine{lineNo: l.lineNo, text: substituteAmp(l.text, label, k)}
		}
		if label != "" {
			b.symbols[strings.ToUpper(label)] = &symbol{kind: symMacro, lines: []string{strconv.Itoa(k)}}
		}
		b.processLines(iter)
	}
}

// substituteAmp replaces every "&label" occurrence (case-insensitive,
// longest-identifier match) in text with k, zero-padded to 2 digits when
// 1 <= k <= 99.
func substituteAmp(text, label string, k int) string {
	if label == "" || !strings.ContainsRune(text, '&') {
		return text
	}
	value := strconv.Itoa(k)
	if k >= 1 && k <= 99 {
		value = fmt.Sprintf("%02d", k)
	}

	var out strings.Builder
	i := 0
	for i < len(text) {
		if text[i] != '&' {
			out.WriteByte(text[i])
			i++
			continue
		}
		j := i + 1
		for j < len(text) && isIdentByte(text[j]) {
			j++
		}
		ident := text[i+1 : j]
		if strings.EqualFold(ident, label) {
			out.WriteString(value)
		} else {
			out.WriteString(text[i:j])
		}
		i = j
	}
	return out.String()
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// expandBareMultilineEQU replaces every instruction line that is nothing
// but a bare reference to a multi-line EQU macro with that macro's body
// lines, then remaps every address-label symbol to the new indices.
func (b *builder) expandBareMultilineEQU() {
	newLines := make([]instrLine, 0, len(b.instrLines))
	origToNew := make([]int, len(b.instrLines))
	for i, il := range b.instrLines {
		origToNew[i] = len(newLines)
		trimmed := strings.TrimSpace(il.text)
		if sym := b.lookupBareMacro(trimmed); sym != nil && len(sym.lines) > 1 {
			for _, body := range sym.lines {
				newLines = append(newLines, instrLine{lineNo: il.lineNo, text: body})
			}
		} else {
			newLines = append(newLines, il)
		}
	}
	b.instrLines = newLines
	for _, sym := range b.symbols {
		if sym.kind == symAddress && sym.addr >= 0 && sym.addr < len(origToNew) {
			sym.addr = origToNew[sym.addr]
		}
	}
}

func (b *builder) lookupBareMacro(text string) *symbol {
	if text == "" || strings.ContainsAny(text, " \t") {
		return nil
	}
	sym, ok := b.symbols[strings.ToUpper(text)]
	if !ok || sym.kind != symMacro {
		return nil
	}
	return sym
}

// makeResolver builds an expr.Resolver for predefined constants, CURLINE,
// address labels (absolute or relative to curIndex) and recursively
// evaluated EQU macros with cycle detection. A single-letter name that
// isn't any of those is reported as not found (ok=false) so expr falls
// through to its own A-Z register read; a multi-character name that isn't
// found is a genuine undefined symbol and warns.
func (b *builder) makeResolver(lineNo int, absolute bool, curIndex int) expr.Resolver {
	visiting := map[string]bool{}
	var resolve expr.Resolver
	resolve = func(name string) (int32, bool) {
		upper := strings.ToUpper(name)
		if upper == "CURLINE" {
			return int32(curIndex), true
		}
		if v, ok := b.opts.PredefinedIdentifiers()[upper]; ok {
			return v, true
		}
		sym, ok := b.symbols[upper]
		if !ok {
			if len(upper) == 1 {
				return 0, false
			}
			b.warnf(lineNo, "Undefined symbol %q", name)
			return 0, true
		}
		if sym.kind == symAddress {
			if absolute {
				return int32(sym.addr), true
			}
			return int32(sym.addr - curIndex), true
		}
		if visiting[upper] {
			b.warnf(lineNo, "Recursive EQU cycle")
			return 0, true
		}
		visiting[upper] = true
		defer delete(visiting, upper)
		body := ""
		if len(sym.lines) > 0 {
			body = sym.lines[0]
		}
		res, err := b.eval.Evaluate(body, resolve)
		if err != nil {
			return 0, true
		}
		return res.Value, true
	}
	return resolve
}

func (b *builder) evalForCount(text string, lineNo int) int {
	res, err := b.eval.Evaluate(text, b.makeResolver(lineNo, true, 0))
	if err != nil {
		b.errorf(lineNo, "bad FOR expression")
		return 0
	}
	v := int64(res.Value) % 65536
	if v < 0 {
		v += 65536
	}
	return int(v)
}

func (b *builder) wrapStart(v int) int {
	n := len(b.instrLines)
	if n == 0 {
		return 0
	}
	w := v % n
	if w < 0 {
		w += n
	}
	if v < 0 || v >= n {
		b.warnf(b.lastLine, "ORG outside program range")
	}
	return w
}

func (b *builder) finalizeDirectives() {
	var orgVal, endVal int
	haveOrg, haveEnd := false, false

	if b.hasOrg {
		res, err := b.eval.Evaluate(b.orgExprText, b.makeResolver(b.orgLine, true, 0))
		if err != nil {
			b.errorf(b.orgLine, "bad ORG expression")
		} else {
			orgVal = int(res.Value)
			haveOrg = true
		}
	}
	if b.hasEnd {
		res, err := b.eval.Evaluate(b.endExprText, b.makeResolver(b.endLine, true, 0))
		if err != nil {
			b.errorf(b.endLine, "bad END expression")
		} else {
			endVal = int(res.Value)
			haveEnd = true
		}
	}

	switch {
	case haveOrg && haveEnd && endVal != 0:
		b.warnf(b.endLine, "END offset ignored, ORG is set")
		b.startOffset = b.wrapStart(orgVal)
	case haveOrg:
		b.startOffset = b.wrapStart(orgVal)
	case haveEnd:
		b.startOffset = b.wrapStart(endVal)
	default:
		b.startOffset = 0
	}

	if b.pinExprText != "" {
		res, err := b.eval.Evaluate(b.pinExprText, b.makeResolver(b.pinLine, true, 0))
		if err != nil {
			b.errorf(b.pinLine, "bad PIN expression")
		} else {
			v := int(res.Value)
			b.pin = &v
		}
	}

	for _, a := range b.asserts {
		res, err := b.eval.Evaluate(a.text, b.makeResolver(a.line, true, 0))
		if err != nil || res.Value == 0 {
			b.errorf(a.line, "Assertion failed")
		}
	}
}
