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

package tt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrotools/tokenbridge/tt"
)

// tree builds the token tree for f(x) + 1.
func tree() *tt.Subtree[int] {
	return &tt.Subtree[int]{
		Children: []tt.TokenTree[int]{
			tt.Ident[int]{Text: "f", Span: 1},
			&tt.Subtree[int]{
				Delimiter: tt.Delimiter[int]{Open: 2, Close: 4, Kind: tt.Paren},
				Children:  []tt.TokenTree[int]{tt.Ident[int]{Text: "x", Span: 3}},
			},
			tt.Punct[int]{Char: '+', Spacing: tt.Alone, Span: 5},
			tt.Literal[int]{Text: "1", Span: 6},
		},
	}
}

func TestCursorWalk(t *testing.T) {
	t.Parallel()

	c := tt.NewCursor(tree())

	assert.Equal(t, tt.Ident[int]{Text: "f", Span: 1}, c.Tree())
	c.Bump()

	sub, ok := c.Tree().(*tt.Subtree[int])
	require.True(t, ok)
	assert.Equal(t, tt.Paren, sub.Delimiter.Kind)
	c.Descend()

	assert.Equal(t, tt.Ident[int]{Text: "x", Span: 3}, c.Tree())
	c.Bump()

	// Children exhausted: the cursor sits on the closing boundary.
	assert.Nil(t, c.Tree())
	assert.False(t, c.EOF())
	require.NotNil(t, c.End())
	assert.Equal(t, 4, c.End().Delimiter.Close)
	c.Bump() // Ascend past the closing paren.

	assert.Equal(t, tt.Punct[int]{Char: '+', Spacing: tt.Alone, Span: 5}, c.Tree())
	c.Bump()
	assert.Equal(t, tt.Literal[int]{Text: "1", Span: 6}, c.Tree())
	c.Bump()

	assert.True(t, c.EOF())
	assert.Nil(t, c.Tree())
	assert.Nil(t, c.End())
	c.Bump() // No-op at EOF.
	assert.True(t, c.EOF())
}

func TestCursorSkipsUndescendedSubtree(t *testing.T) {
	t.Parallel()

	c := tt.NewCursor(tree())
	c.Bump() // f
	c.Bump() // Past the whole (x) without descending.
	assert.Equal(t, tt.Punct[int]{Char: '+', Spacing: tt.Alone, Span: 5}, c.Tree())
}

func TestCursorDelimitedRoot(t *testing.T) {
	t.Parallel()

	root := &tt.Subtree[int]{
		Delimiter: tt.Delimiter[int]{Open: 1, Close: 3, Kind: tt.Brace},
		Children:  []tt.TokenTree[int]{tt.Ident[int]{Text: "a", Span: 2}},
	}

	// A delimited root is visited as one element of an invisible grouping,
	// so its own braces show up as boundaries.
	c := tt.NewCursor(root)
	_, ok := c.Tree().(*tt.Subtree[int])
	require.True(t, ok)
	c.Descend()
	assert.Equal(t, tt.Ident[int]{Text: "a", Span: 2}, c.Tree())
	c.Bump()
	require.NotNil(t, c.End())
	assert.Equal(t, tt.Brace, c.End().Delimiter.Kind)
	c.Bump()
	assert.True(t, c.EOF())
}

func TestCursorFork(t *testing.T) {
	t.Parallel()

	c := tt.NewCursor(tree())
	fork := c.Fork()
	fork.Bump()
	fork.Bump()

	// The original is unaffected.
	assert.Equal(t, tt.Ident[int]{Text: "f", Span: 1}, c.Tree())
	assert.Equal(t, tt.Punct[int]{Char: '+', Spacing: tt.Alone, Span: 5}, fork.Tree())
}

func TestDescendPanics(t *testing.T) {
	t.Parallel()

	c := tt.NewCursor(tree())
	assert.Panics(t, func() { c.Descend() }) // On an ident, not a subtree.
}
