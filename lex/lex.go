// Copyright 2023-2025 Macrotools Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package lex tokenizes raw source text into a flat buffer of kinded,
// ranged tokens, the input to text-entry token-tree conversion.
//
// The lexer never fails: unrecognized input is consumed grapheme cluster by
// grapheme cluster into [syntax.Unrecognized] tokens, and every problem is
// recorded as an [Error] on the returned buffer. Callers that need clean
// input check [Lexed.Errors].
package lex

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/macrotools/tokenbridge/span"
	"github.com/macrotools/tokenbridge/syntax"
)

// Lexed is a tokenized buffer: per-index access to each token's kind, text,
// and absolute source range. Tokens tile the input exactly; token i ends
// where token i+1 begins.
type Lexed struct {
	text   string
	kinds  []syntax.Kind
	starts []uint32 // len(kinds)+1 entries; the last is len(text).
	errors []Error
}

// Error is a lexical problem found while tokenizing.
type Error struct {
	Msg   string
	Range span.Range
}

// New tokenizes text.
func New(text string) *Lexed {
	l := &lexer{
		Lexed: &Lexed{
			text:   text,
			starts: []uint32{0},
		},
	}
	l.lex()
	return l.Lexed
}

// Len returns the number of tokens.
func (l *Lexed) Len() int {
	return len(l.kinds)
}

// Kind returns the kind of token i.
func (l *Lexed) Kind(i int) syntax.Kind {
	return l.kinds[i]
}

// Text returns the text of token i, verbatim.
func (l *Lexed) Text(i int) string {
	return l.text[l.starts[i]:l.starts[i+1]]
}

// Range returns the absolute source range of token i.
func (l *Lexed) Range(i int) span.Range {
	return span.NewRange(l.starts[i], l.starts[i+1])
}

// Errors returns the lexical errors observed, in source order.
func (l *Lexed) Errors() []Error {
	return l.errors
}

type lexer struct {
	*Lexed
	cursor int
}

func (l *lexer) lex() {
	for !l.done() {
		start := l.cursor
		r := l.pop()

		switch {
		case unicode.In(r, unicode.Pattern_White_Space):
			l.takeWhile(func(r rune) bool {
				return unicode.In(r, unicode.Pattern_White_Space)
			})
			l.push(start, syntax.Whitespace)

		case r == '/' && l.peek() == '/':
			// Line comment, doc or not; the converter sorts that out from
			// the text. The newline is not part of the comment.
			if idx := strings.IndexByte(l.rest(), '\n'); idx != -1 {
				l.cursor += idx
			} else {
				l.cursor = len(l.text)
			}
			l.push(start, syntax.Comment)

		case r == '/' && l.peek() == '*':
			l.cursor++ // Skip the *.
			l.lexBlockComment(start)

		case r == '\'':
			l.lexQuote(start)

		case r == '"':
			l.lexString(start)

		case unicode.IsDigit(r):
			l.cursor -= utf8.RuneLen(r)
			l.lexNumber(start)

		case r == '_' || xidStart(r):
			l.takeWhile(xidContinue)
			text := l.text[start:l.cursor]
			switch {
			case text == "_":
				l.push(start, syntax.Underscore)
			default:
				if kw, ok := syntax.KindFromKeyword(text); ok {
					l.push(start, kw)
				} else {
					l.push(start, syntax.Ident)
				}
			}

		default:
			if kind, ok := syntax.KindFromChar(r); ok {
				l.push(start, kind)
				continue
			}

			// Back up behind the rune we just popped, then consume as many
			// unrecognizable grapheme clusters as possible.
			l.cursor = start
			l.takeGraphemesWhile(func(g string) bool {
				r, _ := utf8.DecodeRuneInString(g)
				_, punct := syntax.KindFromChar(r)
				return !punct && r != '\'' && r != '"' && r != '_' &&
					!xidStart(r) && !unicode.IsDigit(r) &&
					!unicode.In(r, unicode.Pattern_White_Space)
			})
			tok := l.push(start, syntax.Unrecognized)
			l.errorf(tok, "unrecognized character(s) in input")
		}
	}
}

// lexBlockComment lexes a block comment whose /* has been consumed. Unlike
// line comments, block comments nest.
func (l *lexer) lexBlockComment(start int) {
	depth := 1
	for depth > 0 && !l.done() {
		switch {
		case strings.HasPrefix(l.rest(), "/*"):
			depth++
			l.cursor += 2
		case strings.HasPrefix(l.rest(), "*/"):
			depth--
			l.cursor += 2
		default:
			l.pop()
		}
	}
	tok := l.push(start, syntax.Comment)
	if depth > 0 {
		l.errorf(tok, "unterminated block comment")
	}
}

// lexQuote lexes the token starting with a quote, which the surface syntax
// overloads: 'a' is a character literal while 'a is a lifetime.
func (l *lexer) lexQuote(start int) {
	if r := l.peek(); r == '_' || xidStart(r) {
		l.takeWhile(xidContinue)
		if l.peek() == '\'' {
			// 'ident' closed by a quote is a character literal.
			l.pop()
			l.push(start, syntax.Char)
			return
		}
		l.push(start, syntax.Lifetime)
		return
	}

	// A character literal with a non-identifier payload, e.g. '\n' or '1'.
	for !l.done() {
		r := l.pop()
		if r == '\\' && !l.done() {
			l.pop()
			continue
		}
		if r == '\'' {
			l.push(start, syntax.Char)
			return
		}
		if r == '\n' {
			// Don't eat the newline; it reads as whitespace.
			l.cursor -= utf8.RuneLen(r)
			break
		}
	}
	tok := l.push(start, syntax.Char)
	l.errorf(tok, "unterminated character literal")
}

// lexString lexes a string literal whose opening quote has been consumed.
func (l *lexer) lexString(start int) {
	for !l.done() {
		r := l.pop()
		if r == '\\' && !l.done() {
			l.pop()
			continue
		}
		if r == '"' {
			l.push(start, syntax.String)
			return
		}
	}
	tok := l.push(start, syntax.String)
	l.errorf(tok, "unterminated string literal")
}

// lexNumber lexes an integer or float literal starting at the cursor.
//
// A dot after the integer part is taken into the token only when it cannot
// start something else: "0.1" and "0." are floats, but in "0.foo" and
// "0..1" the dot is left for the next token. Floats glued this way are what
// the float-split machinery later takes back apart.
func (l *lexer) lexNumber(start int) {
	if strings.HasPrefix(l.rest(), "0x") || strings.HasPrefix(l.rest(), "0X") {
		l.cursor += 2
		l.takeWhile(func(r rune) bool {
			return unicode.IsDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F') || r == '_'
		})
		l.push(start, syntax.IntNumber)
		return
	}

	l.takeWhile(isDigitish)

	// An exponent can follow the integer part directly, as in 1e10.
	if l.lexExponent() {
		l.push(start, syntax.FloatNumber)
		return
	}

	if l.peek() != '.' {
		l.push(start, syntax.IntNumber)
		return
	}

	after := l.peekAt(1)
	switch {
	case unicode.IsDigit(after):
		l.pop() // The dot.
		l.takeWhile(isDigitish)
		l.lexExponent()
		l.push(start, syntax.FloatNumber)
	case after == '.' || after == '_' || xidStart(after):
		// A range operator, field access, or method call; the dot is not
		// ours.
		l.push(start, syntax.IntNumber)
	default:
		l.pop() // The dot: a float with an empty fraction, like "0.".
		l.push(start, syntax.FloatNumber)
	}
}

// lexExponent consumes an exponent suffix like e5 or E-10 and reports
// whether one was present. An e not followed by digits is left alone; it is
// the start of an identifier.
func (l *lexer) lexExponent() bool {
	if r := l.peek(); r != 'e' && r != 'E' {
		return false
	}
	after := l.peekAt(1)
	digitAt := 1
	if after == '+' || after == '-' {
		after = l.peekAt(2)
		digitAt = 2
	}
	if !unicode.IsDigit(after) {
		return false
	}
	for range digitAt + 1 {
		l.pop()
	}
	l.takeWhile(isDigitish)
	return true
}

func (l *lexer) push(start int, kind syntax.Kind) span.Range {
	l.kinds = append(l.kinds, kind)
	l.starts = append(l.starts, uint32(l.cursor))
	return span.NewRange(uint32(start), uint32(l.cursor))
}

func (l *lexer) errorf(r span.Range, msg string) {
	l.errors = append(l.errors, Error{Msg: msg, Range: r})
}

func (l *lexer) done() bool {
	return l.cursor >= len(l.text)
}

func (l *lexer) rest() string {
	return l.text[l.cursor:]
}

func (l *lexer) peek() rune {
	return decodeRune(l.rest())
}

// peekAt peeks the rune n runes past the cursor.
func (l *lexer) peekAt(n int) rune {
	rest := l.rest()
	for range n {
		r := decodeRune(rest)
		if r == -1 {
			return -1
		}
		rest = rest[utf8.RuneLen(r):]
	}
	return decodeRune(rest)
}

func (l *lexer) pop() rune {
	r := l.peek()
	if r != -1 {
		l.cursor += utf8.RuneLen(r)
	}
	return r
}

func (l *lexer) takeWhile(f func(rune) bool) string {
	start := l.cursor
	for !l.done() {
		r := l.peek()
		if r == -1 || !f(r) {
			break
		}
		_ = l.pop()
	}
	return l.text[start:l.cursor]
}

func (l *lexer) takeGraphemesWhile(f func(string) bool) string {
	start := l.cursor
	for gs := uniseg.NewGraphemes(l.rest()); gs.Next(); {
		g := gs.Str()
		if !f(g) {
			break
		}
		l.cursor += len(g)
	}
	return l.text[start:l.cursor]
}

func isDigitish(r rune) bool {
	// We consume _ because digit separators are an extension here.
	return unicode.IsDigit(r) || r == '_'
}

func xidStart(r rune) bool {
	return unicode.IsLetter(r)
}

func xidContinue(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// decodeRune is a wrapper around utf8.DecodeRuneInString that makes it
// easier to check for failure. Instead of returning RuneError (which is a
// valid rune!), it returns -1.
func decodeRune(s string) rune {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && n < 2 {
		return -1
	}
	return r
}
