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
	"slices"

	"github.com/macrotools/tokenbridge/parser"
	"github.com/macrotools/tokenbridge/syntax"
	"github.com/macrotools/tokenbridge/tt"
)

// SplitExprFragments partitions tree's children into expression fragments
// separated by the punctuation character sep, the shape of a macro
// repetition like `$($e:expr),*`.
//
// Each fragment is parsed speculatively with the expression entry point;
// separators are consumed on a fork that is committed only when present.
// Content that remains once no further fragment parses is not dropped: it
// is returned as one final catch-all subtree with an invisible delimiter.
func SplitExprFragments[S comparable](tree *tt.Subtree[S], sep rune) []*tt.Subtree[S] {
	if len(tree.Children) == 0 {
		return nil
	}

	it := tt.NewIter(tree)
	var fragments []*tt.Subtree[S]
	for it.Peek(0) != nil {
		frag, ok := expectFragment(it)
		if !ok {
			break
		}
		fragments = append(fragments, frag)

		fork := it.Fork()
		if fork.ExpectChar(sep) != nil {
			break
		}
		it.Commit(fork)
	}

	if rest := it.Rest(); len(rest) > 0 {
		fragments = append(fragments, &tt.Subtree[S]{Children: slices.Clone(rest)})
	}
	return fragments
}

// expectFragment parses one leading expression out of the iterator's
// remainder. On
// success the consumed trees are returned as a subtree and it is advanced
// past them; on failure it is left untouched.
//
// The parser works on flattened input, so its consumption is measured in
// input tokens and mapped back onto whole trees: a parse that stops partway
// into a subtree (or between a lifetime's quote and ident) claims nothing.
func expectFragment[S comparable](it *tt.Iter[S]) (*tt.Subtree[S], bool) {
	rest := &tt.Subtree[S]{Children: it.Rest()}
	steps := parser.Parse(toParserInput(rest), parser.EntryExpr)

	budget := 0
	for _, step := range steps {
		switch st := step.(type) {
		case parser.StepToken:
			n := int(st.InputTokens)
			if st.Kind == syntax.Lifetime {
				n = 2
			}
			budget += n
		case parser.StepFloatSplit:
			budget++
		}
	}
	if budget == 0 {
		return nil, false
	}

	fork := it.Fork()
	var consumed []tt.TokenTree[S]
	for budget > 0 {
		tree := fork.Peek(0)
		if tree == nil {
			return nil, false
		}
		cost := inputTokenCost[S](tree)
		if cost > budget {
			return nil, false
		}
		fork.Next()
		consumed = append(consumed, tree)
		budget -= cost
	}

	it.Commit(fork)
	return tt.Wrap(consumed...), true
}

// inputTokenCost counts the parser input tokens a tree flattens to: one per
// leaf, plus two brackets for each visible subtree.
func inputTokenCost[S comparable](tree tt.TokenTree[S]) int {
	sub, ok := tree.(*tt.Subtree[S])
	if !ok {
		return 1
	}
	n := 0
	if sub.Delimiter.Kind != tt.Invisible {
		n = 2
	}
	for _, child := range sub.Children {
		n += inputTokenCost[S](child)
	}
	return n
}
