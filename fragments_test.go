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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrotools/tokenbridge"
	"github.com/macrotools/tokenbridge/tt"
)

func splitText(t *testing.T, text string, sep rune) []string {
	t.Helper()
	tree, _ := textToTree(t, text)
	var rendered []string
	for _, frag := range tokenbridge.SplitExprFragments(tree, sep) {
		rendered = append(rendered, frag.String())
	}
	return rendered
}

func TestSplitExprFragments(t *testing.T) {
	t.Parallel()

	t.Run("comma separated", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"1 + 1", "2", "3"}, splitText(t, "1 + 1, 2, 3", ','))
	})

	t.Run("trailing separator", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"1"}, splitText(t, "1,", ','))
	})

	t.Run("malformed tail becomes catch-all", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"1", ") ("}, splitText(t, "1, )(", ','))
	})

	t.Run("other separators", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"a", "b"}, splitText(t, "a; b", ';'))
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		tree := &tt.Subtree[testSpan]{}
		assert.Empty(t, tokenbridge.SplitExprFragments(tree, ','))
	})

	t.Run("whole subtrees stay together", func(t *testing.T) {
		t.Parallel()

		tree, _ := textToTree(t, "f(1, 2), g")
		frags := tokenbridge.SplitExprFragments(tree, ',')
		require.Len(t, frags, 2)

		// The call's argument list is split on its own commas by the parse
		// of f(1, 2), not by the separator scan.
		require.Len(t, frags[0].Children, 2)
		_, ok := frags[0].Children[1].(*tt.Subtree[testSpan])
		assert.True(t, ok)
		assert.Equal(t, "g", frags[1].String())
	})

	t.Run("single subtree fragment is not rewrapped", func(t *testing.T) {
		t.Parallel()

		tree, _ := textToTree(t, "(1 + 2), 3")
		frags := tokenbridge.SplitExprFragments(tree, ',')
		require.Len(t, frags, 2)
		assert.Equal(t, tt.Paren, frags[0].Delimiter.Kind)
	})
}
