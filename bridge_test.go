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

package tokenbridge_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/macrotools/tokenbridge"
	"github.com/macrotools/tokenbridge/internal/golden"
	"github.com/macrotools/tokenbridge/parser"
	"github.com/macrotools/tokenbridge/span"
	"github.com/macrotools/tokenbridge/syntax"
	"github.com/macrotools/tokenbridge/tt"
)

// fileID anchors test spans; ctx is a do-nothing hygiene context.
type fileID uint32
type ctx uint32

type testSpan = span.Span[fileID, ctx]

func textToTree(t *testing.T, text string) (*tt.Subtree[testSpan], *span.Map[fileID, ctx]) {
	t.Helper()
	tree, m, err := tokenbridge.ParseToTokenTree[fileID, ctx](text, 1)
	require.NoError(t, err)
	return tree, m
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	tree, _ := textToTree(t, "f(x, 1 + 2)")
	parse, spans := tokenbridge.TokenTreeToSyntax(tree, parser.EntrySourceFile)
	assert.Empty(t, parse.Errors)

	// The rebuilt text drops the original whitespace; only the spaces
	// required to keep punctuation apart are synthesized.
	golden.Require(t, "f(x,1+2)", parse.Root.Text())

	// The rebuilt "1" sits at offset 4 but originated at offset 5.
	sp, ok := spans.SpanAt(4)
	require.True(t, ok)
	assert.Equal(t, fileID(1), sp.Anchor)
	assert.Equal(t, span.NewRange(5, 6), sp.Range)

	// Converting the rebuilt tree forward again reproduces the token tree.
	again := tokenbridge.SyntaxToTokenTree(parse.Root, fileID(1), 0, (*span.Map[fileID, ctx])(nil))
	assert.Equal(t, tree.String(), again.String())
}

func TestReverseWhitespaceSynthesis(t *testing.T) {
	t.Parallel()

	t.Run("adjacent alone puncts", func(t *testing.T) {
		t.Parallel()

		tree, _ := textToTree(t, "a + -b")
		parse, _ := tokenbridge.TokenTreeToSyntax(tree, parser.EntrySourceFile)
		require.Empty(t, parse.Errors)
		golden.Require(t, "a+ -b", parse.Root.Text())
	})

	t.Run("no space after a semicolon", func(t *testing.T) {
		t.Parallel()

		tree, _ := textToTree(t, "a; -b")
		parse, _ := tokenbridge.TokenTreeToSyntax(tree, parser.EntrySourceFile)
		require.Empty(t, parse.Errors)
		golden.Require(t, "a;-b", parse.Root.Text())
	})

	t.Run("no space before a lifetime quote", func(t *testing.T) {
		t.Parallel()

		// The lifetime is not an expression, but the rebuilt text must not
		// separate it from the operator with a space either way.
		tree, _ := textToTree(t, "a + 'b")
		parse, _ := tokenbridge.TokenTreeToSyntax(tree, parser.EntrySourceFile)
		golden.Require(t, "a+'b", parse.Root.Text())
	})

	t.Run("punct after an invisible boundary", func(t *testing.T) {
		t.Parallel()

		// The + sits behind the closing boundary of an invisible grouping,
		// like the fragments the splitter wraps. It still counts as the
		// consumed piece for spacing purposes.
		tree := &tt.Subtree[testSpan]{
			Children: []tt.TokenTree[testSpan]{
				&tt.Subtree[testSpan]{Children: []tt.TokenTree[testSpan]{
					tt.Literal[testSpan]{Text: "1"},
				}},
				tt.Punct[testSpan]{Char: '+', Spacing: tt.Alone},
				tt.Punct[testSpan]{Char: '-', Spacing: tt.Alone},
				tt.Ident[testSpan]{Text: "b"},
			},
		}
		parse, _ := tokenbridge.TokenTreeToSyntax(tree, parser.EntrySourceFile)
		require.Empty(t, parse.Errors)
		golden.Require(t, "1+ -b", parse.Root.Text())
	})
}

func TestForwardSpacing(t *testing.T) {
	t.Parallel()

	tree, _ := textToTree(t, "a+-b")
	require.Len(t, tree.Children, 4)

	plus, ok := tree.Children[1].(tt.Punct[testSpan])
	require.True(t, ok)
	assert.Equal(t, tt.Joint, plus.Spacing, "+ abuts the following -")

	minus, ok := tree.Children[2].(tt.Punct[testSpan])
	require.True(t, ok)
	assert.Equal(t, tt.Alone, minus.Spacing, "- is followed by an ident")

	// An operator separated by whitespace stays Alone even though the next
	// token is an operator character.
	spaced, _ := textToTree(t, "a + -b")
	plus, ok = spaced.Children[1].(tt.Punct[testSpan])
	require.True(t, ok)
	assert.Equal(t, tt.Alone, plus.Spacing)
}

func TestForwardLifetimeSplit(t *testing.T) {
	t.Parallel()

	tree, m := textToTree(t, "&'a x")
	require.Len(t, tree.Children, 4)

	amp, ok := tree.Children[0].(tt.Punct[testSpan])
	require.True(t, ok)
	assert.Equal(t, tt.Joint, amp.Spacing, "& glues onto the lifetime quote")

	quote, ok := tree.Children[1].(tt.Punct[testSpan])
	require.True(t, ok)
	assert.Equal(t, '\'', quote.Char)
	assert.Equal(t, tt.Joint, quote.Spacing)
	assert.Equal(t, span.NewRange(1, 2), quote.Span.Range)

	ident, ok := tree.Children[2].(tt.Ident[testSpan])
	require.True(t, ok)
	assert.Equal(t, "a", ident.Text)
	assert.Equal(t, span.NewRange(2, 3), ident.Span.Range)

	// The lexed lifetime token occupies 1..3; its halves fall back to
	// sliced spans rather than the whole-token map entry.
	whole, ok := m.SpanForRange(span.NewRange(1, 3))
	require.True(t, ok)
	assert.Equal(t, span.NewRange(1, 3), whole.Range)
}

func TestReverseLifetime(t *testing.T) {
	t.Parallel()

	tree, _ := textToTree(t, "'a x")
	parse, _ := tokenbridge.TokenTreeToSyntax(tree, parser.EntrySourceFile)

	// Lifetimes are not expressions, so the parser reports them and wraps
	// the token in an error node, fusing quote and ident back together.
	assert.NotEmpty(t, parse.Errors)
	var lifetime *syntax.Node
	for tok := range parse.Root.Tokens() {
		if tok.Kind() == syntax.Lifetime {
			lifetime = tok
		}
	}
	require.NotNil(t, lifetime)
	assert.Equal(t, "'a", lifetime.Text())
}

func TestDocCommentDesugaring(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"outer line", "/// hi\nx", `# [doc = " hi"] x`},
		{"inner line", "//! hi\nx", `# ! [doc = " hi"] x`},
		{"outer block", "/** hi */x", `# [doc = " hi "] x`},
		{"inner block", "/*! hi */x", `# ! [doc = " hi "] x`},
		{"four slashes is plain", "//// hi\nx", "x"},
		{"plain comment dropped", "// hi\nx", "x"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tree, _ := textToTree(t, tc.text)
			golden.Require(t, tc.want, tree.String())
		})
	}
}

func TestForwardRecovery(t *testing.T) {
	t.Parallel()

	t.Run("unclosed frame melts", func(t *testing.T) {
		t.Parallel()

		tree, _ := textToTree(t, "(a")
		require.Len(t, tree.Children, 2)
		open, ok := tree.Children[0].(tt.Punct[testSpan])
		require.True(t, ok)
		assert.Equal(t, '(', open.Char)
		_, ok = tree.Children[1].(tt.Ident[testSpan])
		assert.True(t, ok)
	})

	t.Run("mismatched closer is a leaf", func(t *testing.T) {
		t.Parallel()

		tree, _ := textToTree(t, "(a]")
		require.Len(t, tree.Children, 3)
		closer, ok := tree.Children[2].(tt.Punct[testSpan])
		require.True(t, ok)
		assert.Equal(t, ']', closer.Char)
	})

	t.Run("balanced root collapses", func(t *testing.T) {
		t.Parallel()

		tree, _ := textToTree(t, "(a)")
		assert.Equal(t, tt.Paren, tree.Delimiter.Kind)
		assert.Len(t, tree.Children, 1)
	})
}

func TestFloatSplitRoundTrip(t *testing.T) {
	t.Parallel()

	tree, _ := textToTree(t, "a.0.1")
	parse, spans := tokenbridge.TokenTreeToSyntax(tree, parser.EntrySourceFile)
	require.Empty(t, parse.Errors)
	golden.Require(t, "a.0.1", parse.Root.Text())

	var names []string
	for n := range parse.Root.Preorder() {
		if n.Kind() == syntax.NameRef {
			names = append(names, n.Text())
		}
	}
	assert.Equal(t, []string{"a", "0", "1"}, names)

	// Both halves of the split literal land in the span map, each with its
	// slice of the literal's source range (the 0.1 literal spans 2..5).
	left, ok := spans.SpanForRange(span.NewRange(2, 3))
	require.True(t, ok)
	assert.Equal(t, span.NewRange(2, 3), left.Range)
	right, ok := spans.SpanForRange(span.NewRange(4, 5))
	require.True(t, ok)
	assert.Equal(t, span.NewRange(4, 5), right.Range)
}

func TestFloatSplitTrailingDot(t *testing.T) {
	t.Parallel()

	tree, _ := textToTree(t, "a.0.")
	parse, _ := tokenbridge.TokenTreeToSyntax(tree, parser.EntrySourceFile)
	require.Empty(t, parse.Errors)
	golden.Require(t, "a.0.", parse.Root.Text())

	var names []string
	for n := range parse.Root.Preorder() {
		if n.Kind() == syntax.NameRef {
			names = append(names, n.Text())
		}
	}
	assert.Equal(t, []string{"a", "0"}, names)
}

func TestCensoredSubtrees(t *testing.T) {
	t.Parallel()

	tree, _ := textToTree(t, "f(a, b)")
	parse, spans := tokenbridge.TokenTreeToSyntax(tree, parser.EntrySourceFile)
	require.Empty(t, parse.Errors)

	var argList *syntax.Node
	for n := range parse.Root.Preorder() {
		if n.Kind() == syntax.ArgList {
			argList = n
		}
	}
	require.NotNil(t, argList)

	censored := tokenbridge.SyntaxToTokenTreeCensored(
		parse.Root, fileID(1), 0, spans, []*syntax.Node{argList})
	golden.Require(t, "f", censored.String())
}

func TestParseToTokenTreeRefusesDirtyText(t *testing.T) {
	t.Parallel()

	_, _, err := tokenbridge.ParseToTokenTree[fileID, ctx](`"unterminated`, 1)
	var lexErr *tokenbridge.LexError
	require.ErrorAs(t, err, &lexErr)
	assert.NotEmpty(t, lexErr.Errors)
}

func TestMapFromSyntax(t *testing.T) {
	t.Parallel()

	tree, _ := textToTree(t, "a + b")
	parse, _ := tokenbridge.TokenTreeToSyntax(tree, parser.EntrySourceFile)
	require.Empty(t, parse.Errors)

	// The rebuilt text is "a+b": three tokens, one map entry each.
	m := tokenbridge.MapFromSyntax[fileID, ctx](parse.Root, 7, 0)
	assert.Equal(t, 3, m.Len())

	sp, ok := m.SpanForRange(span.NewRange(1, 2))
	require.True(t, ok)
	assert.Equal(t, fileID(7), sp.Anchor)
	assert.Equal(t, span.NewRange(1, 2), sp.Range)

	// A compacted map refuses further inserts.
	assert.Panics(t, func() {
		m.Insert(span.NewRange(10, 11), span.Dummy[fileID, ctx](7, span.NewRange(10, 11)))
	})
}

func TestConcurrentConversions(t *testing.T) {
	t.Parallel()

	g, _ := errgroup.WithContext(context.Background())
	for range 8 {
		g.Go(func() error {
			for range 50 {
				tree, _, err := tokenbridge.ParseToTokenTree[fileID, ctx]("f(x, 1 + 2)", 1)
				if err != nil {
					return err
				}
				parse, _ := tokenbridge.TokenTreeToSyntax(tree, parser.EntrySourceFile)
				if got := parse.Root.Text(); got != "f(x,1+2)" {
					return assert.AnError
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
