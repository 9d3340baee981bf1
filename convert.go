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
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/macrotools/tokenbridge/lex"
	"github.com/macrotools/tokenbridge/span"
	"github.com/macrotools/tokenbridge/syntax"
	"github.com/macrotools/tokenbridge/tt"
)

// sourceToken is one token of forward-conversion input: a kind, its
// verbatim text, and its absolute source range. Punctuation tokens are
// always a single character; multi-character operator tokens are split
// before they get here.
type sourceToken struct {
	kind syntax.Kind
	text string
	rng  span.Range
}

// tokenStream walks a pre-flattened token sequence. Both conversion
// entries (syntax tree and raw text) reduce to one of these.
type tokenStream struct {
	toks []sourceToken
	pos  int
}

func (s *tokenStream) next() (sourceToken, bool) {
	if s.pos >= len(s.toks) {
		return sourceToken{}, false
	}
	tok := s.toks[s.pos]
	s.pos++
	return tok, true
}

// peekKind returns the kind of the very next token, trivia included.
// Spacing decisions depend on seeing the whitespace between operators.
func (s *tokenStream) peekKind() (syntax.Kind, bool) {
	if s.pos >= len(s.toks) {
		return 0, false
	}
	return s.toks[s.pos].kind, true
}

// syntaxTokens flattens the tokens under node into conversion input,
// skipping censored subtrees wholesale and splitting multi-character
// punctuation tokens into per-character steps.
func syntaxTokens(node *syntax.Node, censored []*syntax.Node) []sourceToken {
	var toks []sourceToken
	var walk func(n *syntax.Node)
	walk = func(n *syntax.Node) {
		if slices.Contains(censored, n) {
			return
		}
		if !n.IsToken() {
			for _, child := range n.Children() {
				walk(child)
			}
			return
		}
		if n.Kind().IsPunct() {
			off := n.Range().Start
			for _, r := range n.Text() {
				kind, ok := syntax.KindFromChar(r)
				if !ok {
					panic(fmt.Sprintf("tokenbridge: punctuation token %q contains non-punctuation %q", n.Text(), r))
				}
				size := uint32(utf8.RuneLen(r))
				toks = append(toks, sourceToken{
					kind: kind,
					text: string(r),
					rng:  span.RangeAt(off, size),
				})
				off += size
			}
			return
		}
		toks = append(toks, sourceToken{kind: n.Kind(), text: n.Text(), rng: n.Range()})
	}
	walk(node)
	return toks
}

// lexedTokens flattens a lexed buffer into conversion input.
func lexedTokens(lexed *lex.Lexed) []sourceToken {
	toks := make([]sourceToken, lexed.Len())
	for i := range lexed.Len() {
		toks[i] = sourceToken{kind: lexed.Kind(i), text: lexed.Text(i), rng: lexed.Range(i)}
	}
	return toks
}

// convertTokens is the forward conversion core. It consumes src token by
// token, nesting children under an explicit frame stack: an opening
// delimiter pushes a frame, and a closing delimiter matching the top frame
// pops it, stamping the close span.
//
// Conversion never fails. A closing delimiter that does not match the open
// frame becomes an ordinary punctuation leaf, and frames still open at end
// of input melt into their parent as an opening-punctuation leaf followed
// by the frame's children.
func convertTokens[S comparable](src *tokenStream, spanFor func(span.Range) S) *tt.Subtree[S] {
	type frame struct {
		delim    tt.Delimiter[S]
		children []tt.TokenTree[S]
	}
	stack := []*frame{{}}

	for {
		tok, ok := src.next()
		if !ok {
			break
		}
		top := stack[len(stack)-1]

		if tok.kind == syntax.Comment {
			// Doc comments desugar into doc attributes; plain comments drop.
			top.children = append(top.children, docCommentTrees(tok.text, spanFor(tok.rng))...)
			continue
		}

		if tok.kind.IsPunct() {
			var expected syntax.Kind
			switch top.delim.Kind {
			case tt.Paren:
				expected = syntax.RParen
			case tt.Brace:
				expected = syntax.RBrace
			case tt.Bracket:
				expected = syntax.RBrack
			}
			if tok.kind == expected {
				sub := &tt.Subtree[S]{Delimiter: top.delim, Children: top.children}
				sub.Delimiter.Close = spanFor(tok.rng)
				stack = stack[:len(stack)-1]
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, sub)
				continue
			}

			var kind tt.DelimiterKind
			switch tok.kind {
			case syntax.LParen:
				kind = tt.Paren
			case syntax.LBrace:
				kind = tt.Brace
			case syntax.LBrack:
				kind = tt.Bracket
			}
			if kind != tt.Invisible {
				open := spanFor(tok.rng)
				stack = append(stack, &frame{
					// Close is provisional; stamped on subtree close above.
					delim: tt.Delimiter[S]{Open: open, Close: open, Kind: kind},
				})
				continue
			}

			spacing := tt.Alone
			if next, ok := src.peekKind(); ok && isSingleTokenOp(next) {
				spacing = tt.Joint
			}
			char, size := utf8.DecodeRuneInString(tok.text)
			if size != len(tok.text) {
				panic(fmt.Sprintf("tokenbridge: punctuation token must be a single character, got %q", tok.text))
			}
			top.children = append(top.children, tt.Punct[S]{
				Char:    char,
				Spacing: spacing,
				Span:    spanFor(tok.rng),
			})
			continue
		}

		switch {
		case tok.kind == syntax.Ident, tok.kind == syntax.Underscore, tok.kind.IsKeyword():
			top.children = append(top.children, tt.Ident[S]{Text: tok.text, Span: spanFor(tok.rng)})

		case tok.kind == syntax.Lifetime:
			// 'ident splits into a Joint quote punct and an ident, each with
			// its slice of the token's range.
			top.children = append(top.children,
				tt.Punct[S]{
					Char:    '\'',
					Spacing: tt.Joint,
					Span:    spanFor(span.RangeAt(tok.rng.Start, 1)),
				},
				tt.Ident[S]{
					Text: tok.text[1:],
					Span: spanFor(span.NewRange(tok.rng.Start+1, tok.rng.End)),
				},
			)

		case tok.kind.IsLiteral():
			top.children = append(top.children, tt.Literal[S]{Text: tok.text, Span: spanFor(tok.rng)})

		default:
			// Trivia and unrecognized input contribute nothing.
		}
	}

	// Frames left open by unbalanced input merge into their parent, the
	// orphaned opening bracket demoted to a plain leaf.
	for len(stack) > 1 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		parent := stack[len(stack)-1]

		char := '$'
		switch top.delim.Kind {
		case tt.Paren:
			char = '('
		case tt.Brace:
			char = '{'
		case tt.Bracket:
			char = '['
		}
		parent.children = append(parent.children, tt.Punct[S]{
			Char:    char,
			Spacing: tt.Alone,
			Span:    top.delim.Open,
		})
		parent.children = append(parent.children, top.children...)
	}

	root := &tt.Subtree[S]{Delimiter: stack[0].delim, Children: stack[0].children}
	if len(root.Children) == 1 {
		if sub, ok := root.Children[0].(*tt.Subtree[S]); ok {
			return sub
		}
	}
	return root
}

// isSingleTokenOp reports whether kind always converts to exactly one
// punctuation leaf. A punct directly followed by one of these is marked
// Joint so the pair can be glued back into a composite operator. Lifetime
// counts because it splits into a leading quote punct.
func isSingleTokenOp(kind syntax.Kind) bool {
	switch kind {
	case syntax.Eq, syntax.LAngle, syntax.RAngle, syntax.Bang,
		syntax.Amp, syntax.Pipe, syntax.Tilde, syntax.At, syntax.Dot,
		syntax.Comma, syntax.Semi, syntax.Colon, syntax.Pound,
		syntax.Dollar, syntax.Question, syntax.Plus, syntax.Minus,
		syntax.Star, syntax.Slash, syntax.Percent, syntax.Caret,
		syntax.Lifetime:
		return true
	}
	return false
}

// docCommentTrees desugars a doc comment into a doc attribute: `/// x`
// becomes `#[doc = " x"]` and `//! x` becomes `#![doc = " x"]`. Returns nil
// for comments that are not doc comments. Every produced leaf carries the
// comment's span.
func docCommentTrees[S comparable](text string, sp S) []tt.TokenTree[S] {
	var body string
	var inner bool
	switch {
	case strings.HasPrefix(text, "////"):
		// Four or more slashes is a plain comment.
		return nil
	case strings.HasPrefix(text, "///"):
		body = text[3:]
	case strings.HasPrefix(text, "//!"):
		body, inner = text[3:], true
	case strings.HasPrefix(text, "/**") && strings.HasSuffix(text, "*/") && len(text) >= 5:
		body = text[3 : len(text)-2]
	case strings.HasPrefix(text, "/*!") && strings.HasSuffix(text, "*/") && len(text) >= 5:
		body, inner = text[3:len(text)-2], true
	default:
		return nil
	}

	meta := &tt.Subtree[S]{
		Delimiter: tt.Delimiter[S]{Open: sp, Close: sp, Kind: tt.Bracket},
		Children: []tt.TokenTree[S]{
			tt.Ident[S]{Text: "doc", Span: sp},
			tt.Punct[S]{Char: '=', Spacing: tt.Alone, Span: sp},
			tt.Literal[S]{Text: strconv.Quote(body), Span: sp},
		},
	}

	trees := make([]tt.TokenTree[S], 0, 3)
	trees = append(trees, tt.Punct[S]{Char: '#', Spacing: tt.Alone, Span: sp})
	if inner {
		trees = append(trees, tt.Punct[S]{Char: '!', Spacing: tt.Alone, Span: sp})
	}
	return append(trees, meta)
}
