/*
   assembler/scan - raw-text word scanning helpers for pass 1.

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
	"unicode"

	"github.com/go-mars/mars/redcode"
)

// nextWord returns the next whitespace-delimited word in s starting at or
// after pos, plus its [start, end) byte range. ok is false if none remains.
func nextWord(s string, pos int) (word string, start, end int, ok bool) {
	i := pos
	for i < len(s) && unicode.IsSpace(rune(s[i])) {
		i++
	}
	if i >= len(s) {
		return "", 0, 0, false
	}
	j := i
	for j < len(s) && !unicode.IsSpace(rune(s[j])) {
		j++
	}
	return s[i:j], i, j, true
}

var stopWords = map[string]bool{
	"EQU": true, "FOR": true, "ROF": true, "ORG": true, "END": true, "PIN": true,
}

// looksLikeDirectiveOrOpcode reports whether bare (a word with any trailing
// ':' already stripped) starts a directive or instruction, i.e. cannot
// itself be a label.
func looksLikeDirectiveOrOpcode(bare string) bool {
	upper := strings.ToUpper(bare)
	if stopWords[upper] {
		return true
	}
	mnemonic := upper
	if dot := strings.IndexByte(upper, '.'); dot >= 0 {
		mnemonic = upper[:dot]
	}
	_, ok := redcode.LookupOpcode(mnemonic)
	return ok
}

// collectLabels consumes a prefix of up to 7 label words from line (bare
// identifiers or identifiers ending in ':'), stopping at the first word
// that looks like a directive/opcode keyword, at the last word on the
// line (a lone trailing word is left as the instruction/rest text, not
// treated as a label), or after 7 labels. It returns the labels found
// (case preserved; callers normalize case) and the byte offset in line
// where the remaining text starts.
func collectLabels(line string) (labels []string, restStart int) {
	pos := 0
	for len(labels) < 7 {
		word, start, end, ok := nextWord(line, pos)
		if !ok {
			return labels, len(line)
		}
		bare := strings.TrimSuffix(word, ":")
		if looksLikeDirectiveOrOpcode(bare) {
			return labels, start
		}
		if _, _, _, hasNext := nextWord(line, end); !hasNext {
			return labels, start
		}
		labels = append(labels, bare)
		pos = end
	}
	_, start, _, ok := nextWord(line, pos)
	if !ok {
		start = len(line)
	}
	return labels, start
}

// splitTopLevelCommas splits s on commas that are not nested inside
// parentheses.
func splitTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	parts = append(parts, s[last:])
	return parts
}

// stripComment removes everything from the first ';' onward.
func stripComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		return line[:i]
	}
	return line
}
