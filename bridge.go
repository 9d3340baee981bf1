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

// Package tokenbridge converts between concrete syntax trees and the token
// trees a macro engine consumes and produces.
//
// The forward direction ([SyntaxToTokenTree], [ParseToTokenTree]) flattens
// a syntax tree, or raw text, into a delimiter-nested [tt.Subtree] whose
// leaves carry [span.Span] provenance. The reverse direction
// ([TokenTreeToSyntax]) re-parses a token tree into a syntax tree, emitting
// a [span.Map] from rebuilt-text ranges back to token spans.
// [SplitExprFragments] partitions a repetition's token stream into
// separator-delimited expression fragments.
//
// Conversions are pure: each call owns its state, so independent calls may
// run concurrently without synchronization.
package tokenbridge

import (
	"fmt"

	"github.com/macrotools/tokenbridge/lex"
	"github.com/macrotools/tokenbridge/parser"
	"github.com/macrotools/tokenbridge/span"
	"github.com/macrotools/tokenbridge/syntax"
	"github.com/macrotools/tokenbridge/tt"
)

// LexError reports that text handed to [ParseToTokenTree] did not tokenize
// cleanly.
type LexError struct {
	Errors []lex.Error
}

// Error implements error.
func (e *LexError) Error() string {
	first := e.Errors[0]
	if len(e.Errors) == 1 {
		return fmt.Sprintf("tokenbridge: %s at %v", first.Msg, first.Range)
	}
	return fmt.Sprintf("tokenbridge: %s at %v (and %d more)", first.Msg, first.Range, len(e.Errors)-1)
}

// SyntaxToTokenTree converts the tokens under node into a token tree.
//
// Every leaf and delimiter gets a span: looked up in m when m records the
// token's exact range, and otherwise synthesized from anchor with the
// token's range rebased against anchorOffset and no hygiene context. A nil
// m synthesizes every span. The result is always a single subtree, even for
// unbalanced input; see [ParseToTokenTree] for the recovery rules.
func SyntaxToTokenTree[A comparable, C comparable](
	node *syntax.Node,
	anchor A,
	anchorOffset uint32,
	m *span.Map[A, C],
) *tt.Subtree[span.Span[A, C]] {
	return SyntaxToTokenTreeCensored(node, anchor, anchorOffset, m, nil)
}

// SyntaxToTokenTreeCensored is [SyntaxToTokenTree] with a censor list:
// subtrees rooted at any node in censored are omitted from the result
// wholesale, as if their tokens were not in the tree.
func SyntaxToTokenTreeCensored[A comparable, C comparable](
	node *syntax.Node,
	anchor A,
	anchorOffset uint32,
	m *span.Map[A, C],
	censored []*syntax.Node,
) *tt.Subtree[span.Span[A, C]] {
	src := &tokenStream{toks: syntaxTokens(node, censored)}
	return convertTokens(src, spanResolver(anchor, anchorOffset, m))
}

// ParseToTokenTree tokenizes text and converts it into a token tree,
// returning alongside it a map from text ranges to the spans minted for
// them. Spans are anchored at anchor with ranges relative to the start of
// text and no hygiene context.
//
// Delimiters need not balance: an unmatched closer becomes a punctuation
// leaf, and an unmatched opener melts into its parent as a punctuation leaf
// followed by what it had collected. Lexically invalid text is refused with
// a [*LexError].
func ParseToTokenTree[A comparable, C comparable](
	text string,
	anchor A,
) (*tt.Subtree[span.Span[A, C]], *span.Map[A, C], error) {
	lexed := lex.New(text)
	if errs := lexed.Errors(); len(errs) > 0 {
		return nil, nil, &LexError{Errors: errs}
	}

	m := new(span.Map[A, C])
	for i := range lexed.Len() {
		m.Insert(lexed.Range(i), span.Dummy[A, C](anchor, lexed.Range(i)))
	}
	m.Compact()

	src := &tokenStream{toks: lexedTokens(lexed)}
	tree := convertTokens(src, spanResolver(anchor, 0, m))
	return tree, m, nil
}

// MapFromSyntax builds the span map for the tokens under node: one entry
// per token, trivia included, keyed by the token's absolute range and
// carrying a span with the range rebased against anchorOffset and no
// hygiene context. The returned map is compacted.
func MapFromSyntax[A comparable, C comparable](
	node *syntax.Node,
	anchor A,
	anchorOffset uint32,
) *span.Map[A, C] {
	m := new(span.Map[A, C])
	for tok := range node.Tokens() {
		m.Insert(tok.Range(), span.Dummy[A, C](anchor, tok.Range().Sub(anchorOffset)))
	}
	m.Compact()
	return m
}

// spanResolver returns the span lookup used during forward conversion: an
// exact-range hit in m wins, and anything else (sliced lifetime ranges,
// synthesized tokens, nil map) falls back to a freshly minted span.
func spanResolver[A comparable, C comparable](
	anchor A,
	anchorOffset uint32,
	m *span.Map[A, C],
) func(span.Range) span.Span[A, C] {
	return func(r span.Range) span.Span[A, C] {
		if m != nil {
			if sp, ok := m.SpanForRange(r); ok {
				return sp
			}
		}
		return span.Dummy[A, C](anchor, r.Sub(anchorOffset))
	}
}

// TokenTreeToSyntax re-parses a token tree into a syntax tree using the
// given parser entry point.
//
// The tree is flattened into parser input (an invisible root contributes
// nothing; a visible root contributes its brackets), the parser's event
// stream is replayed against the tree to rebuild text and structure, and a
// span map from rebuilt-text ranges to token spans is produced. Parser
// errors become diagnostics on the returned parse; conversion itself never
// fails.
func TokenTreeToSyntax[A comparable, C comparable](
	tree *tt.Subtree[span.Span[A, C]],
	entry parser.EntryPoint,
) (syntax.Parse, *span.Map[A, C]) {
	steps := parser.Parse(toParserInput(tree), entry)
	sink := newTreeSink(tree)
	for _, step := range steps {
		switch st := step.(type) {
		case parser.StepEnter:
			sink.builder.StartNode(st.Kind)
		case parser.StepExit:
			sink.builder.FinishNode()
		case parser.StepToken:
			sink.token(st.Kind, int(st.InputTokens))
		case parser.StepFloatSplit:
			sink.floatSplit(st.EndsInDot)
		case parser.StepError:
			sink.builder.Error(st.Msg)
		}
	}
	return sink.finish()
}
