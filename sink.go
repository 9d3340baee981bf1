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

package tokenbridge

import (
	"fmt"
	"strings"

	"github.com/macrotools/tokenbridge/span"
	"github.com/macrotools/tokenbridge/syntax"
	"github.com/macrotools/tokenbridge/tt"
)

// treeSink replays a parser's event stream against the token tree the
// parser input was flattened from, rebuilding source text and a syntax
// tree piece by piece. Every emitted piece records an entry in the output
// span map keyed by its range in the rebuilt text.
type treeSink[A comparable, C comparable] struct {
	cursor  *tt.Cursor[span.Span[A, C]]
	builder *syntax.Builder
	spans   *span.Map[A, C]
	buf     strings.Builder
}

func newTreeSink[A comparable, C comparable](root *tt.Subtree[span.Span[A, C]]) *treeSink[A, C] {
	return &treeSink[A, C]{
		cursor:  tt.NewCursor(root),
		builder: new(syntax.Builder),
		spans:   new(span.Map[A, C]),
	}
}

// emit stages one piece of token text and records its span. The staged
// text becomes a syntax token when the caller flushes it.
func (s *treeSink[A, C]) emit(text string, sp span.Span[A, C]) {
	pos := s.builder.Pos() + uint32(s.buf.Len())
	s.spans.Insert(span.RangeAt(pos, uint32(len(text))), sp)
	s.buf.WriteString(text)
}

// token materializes one output token of the given kind from n consecutive
// pieces of the token tree: leaves, opening brackets, and closing brackets
// all count as one piece; invisible delimiters are passed over silently.
// Lifetime tokens always span two pieces, the quote and the ident.
func (s *treeSink[A, C]) token(kind syntax.Kind, n int) {
	if kind == syntax.Lifetime {
		n = 2
	}

	// last tracks where the most recently consumed piece sits in the tree;
	// invisible boundaries passed over on the way to a piece don't count.
	last := s.cursor.Fork()
	for range n {
		if s.cursor.EOF() {
			break
		}

		consumed := false
		for !consumed && !s.cursor.EOF() {
			if end := s.cursor.End(); end != nil {
				if text := end.Delimiter.Kind.CloseText(); text != "" {
					last = s.cursor.Fork()
					s.emit(text, end.Delimiter.Close)
					consumed = true
				}
				s.cursor.Bump()
				continue
			}

			switch t := s.cursor.Tree().(type) {
			case tt.Ident[span.Span[A, C]]:
				last = s.cursor.Fork()
				s.emit(t.Text, t.Span)
				s.cursor.Bump()
				consumed = true
			case tt.Literal[span.Span[A, C]]:
				last = s.cursor.Fork()
				s.emit(t.Text, t.Span)
				s.cursor.Bump()
				consumed = true
			case tt.Punct[span.Span[A, C]]:
				last = s.cursor.Fork()
				s.emit(string(t.Char), t.Span)
				s.cursor.Bump()
				consumed = true
			case *tt.Subtree[span.Span[A, C]]:
				if text := t.Delimiter.Kind.OpenText(); text != "" {
					last = s.cursor.Fork()
					s.emit(text, t.Delimiter.Open)
					consumed = true
				}
				s.cursor.Descend()
			}
		}
	}

	s.builder.Token(kind, s.buf.String())
	s.buf.Reset()

	// Rebuilt text has no whitespace of its own, so two Alone-spaced puncts
	// in a row get one synthesized space to keep them from fusing into a
	// different operator when the text is re-lexed. A trailing semicolon
	// needs none, and a following quote is the start of a lifetime.
	curr, ok := last.Tree().(tt.Punct[span.Span[A, C]])
	if !ok || curr.Spacing != tt.Alone || curr.Char == ';' {
		return
	}
	after := last.Fork()
	after.Bump()
	if next, ok := after.Tree().(tt.Punct[span.Span[A, C]]); ok && next.Char != '\'' {
		s.builder.Token(syntax.Whitespace, " ")
	}
}

// floatSplit consumes one float literal that covers a field-access chain,
// splitting its text at the dot into up to two integer field names. The
// parser left two field nodes open for this event; floatSplit closes the
// inner one after the left half, and the outer one after the right half
// when there is one.
//
// Panics if the cursor is not on a literal; the parser and the flattened
// input it ran over are required to agree.
func (s *treeSink[A, C]) floatSplit(endsInDot bool) {
	lit, ok := s.cursor.Tree().(tt.Literal[span.Span[A, C]])
	if !ok {
		panic(fmt.Sprintf("tokenbridge: float split applied to %v, not a literal", s.cursor.Tree()))
	}
	left, right, found := strings.Cut(lit.Text, ".")
	if !found || left == "" {
		panic(fmt.Sprintf("tokenbridge: float split applied to malformed literal %q", lit.Text))
	}
	if endsInDot != (right == "") {
		panic(fmt.Sprintf("tokenbridge: float split of %q disagrees with the parser about its trailing dot", lit.Text))
	}

	slice := func(start, length uint32) span.Span[A, C] {
		sub := lit.Span
		sub.Range = span.RangeAt(sub.Range.Start+start, length)
		return sub
	}

	s.builder.StartNode(syntax.NameRef)
	s.emit(left, slice(0, uint32(len(left))))
	s.builder.Token(syntax.IntNumber, s.buf.String())
	s.buf.Reset()
	s.builder.FinishNode()

	// Closes the inner field node the parser left open.
	s.builder.FinishNode()

	s.emit(".", slice(uint32(len(left)), 1))
	s.builder.Token(syntax.Dot, s.buf.String())
	s.buf.Reset()

	if !endsInDot {
		s.builder.StartNode(syntax.NameRef)
		s.emit(right, slice(uint32(len(left))+1, uint32(len(right))))
		s.builder.Token(syntax.IntNumber, s.buf.String())
		s.buf.Reset()
		s.builder.FinishNode()

		// Closes the outer field node.
		s.builder.FinishNode()
	}

	s.cursor.Bump()
}

func (s *treeSink[A, C]) finish() (syntax.Parse, *span.Map[A, C]) {
	parse := s.builder.Finish()
	s.spans.Compact()
	return parse, s.spans
}
