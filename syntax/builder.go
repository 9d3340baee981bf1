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

package syntax

import (
	"github.com/macrotools/tokenbridge/span"
)

// Parse is the result of building a tree: the root node plus any errors
// recorded along the way.
type Parse struct {
	Root   *Node
	Errors []Error
}

// Error is a diagnostic attached to a tree at a text position.
type Error struct {
	Msg string
	Pos uint32
}

// Builder constructs a syntax tree from a stream of events: open a node,
// append a token, close a node. Token ranges are assigned from a running
// text offset, so the finished tree renders back to exactly the text that
// was fed in.
type Builder struct {
	pos    uint32
	stack  []*Node
	roots  []*Node
	errors []Error
}

// StartNode opens an interior node of the given kind. Subsequent tokens and
// nodes become its children until the matching [Builder.FinishNode].
func (b *Builder) StartNode(kind Kind) {
	b.stack = append(b.stack, &Node{
		kind: kind,
		rng:  span.RangeAt(b.pos, 0),
	})
}

// Token appends a token with the given kind and text to the node currently
// being built.
func (b *Builder) Token(kind Kind, text string) {
	tok := &Node{
		kind:    kind,
		rng:     span.RangeAt(b.pos, uint32(len(text))),
		text:    text,
		isToken: true,
	}
	b.pos += uint32(len(text))
	b.push(tok)
}

// FinishNode closes the node opened by the matching [Builder.StartNode].
//
// Panics if no node is open.
func (b *Builder) FinishNode() {
	if len(b.stack) == 0 {
		panic("tokenbridge/syntax: FinishNode called with no node open")
	}
	node := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	node.rng.End = b.pos
	b.push(node)
}

func (b *Builder) push(n *Node) {
	if len(b.stack) == 0 {
		b.roots = append(b.roots, n)
		return
	}
	top := b.stack[len(b.stack)-1]
	top.children = append(top.children, n)
}

// Error records a diagnostic at the current text position. It does not
// affect the tree being built.
func (b *Builder) Error(msg string) {
	b.errors = append(b.errors, Error{Msg: msg, Pos: b.pos})
}

// Pos returns the current text offset.
func (b *Builder) Pos() uint32 {
	return b.pos
}

// Finish returns the built tree. If construction produced anything other
// than exactly one interior root node, the roots are wrapped in a
// [SourceFile] node.
//
// Panics if a node is still open; the event stream driving the builder is
// required to be balanced.
func (b *Builder) Finish() Parse {
	if len(b.stack) != 0 {
		panic("tokenbridge/syntax: Finish called with unfinished nodes")
	}
	var root *Node
	if len(b.roots) == 1 && !b.roots[0].isToken {
		root = b.roots[0]
	} else {
		root = &Node{
			kind:     SourceFile,
			rng:      span.NewRange(0, b.pos),
			children: b.roots,
		}
	}
	return Parse{Root: root, Errors: b.errors}
}
