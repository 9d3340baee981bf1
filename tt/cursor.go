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

package tt

import "slices"

// Cursor is a read-only, forward-and-descend view over a [Subtree]'s
// children. It never mutates the underlying tree.
//
// Rather than parent pointers, a Cursor keeps an explicit stack of
// (subtree, child index) frames: descending pushes a frame, and bumping an
// exhausted frame ascends back to its parent. This is what lets the reverse
// converter observe both brackets of a subtree as separate "boundary"
// positions.
type Cursor[S comparable] struct {
	stack []cursorFrame[S]
}

type cursorFrame[S comparable] struct {
	node *Subtree[S]
	idx  int
}

// NewCursor returns a cursor positioned before the first child of root.
//
// A non-invisible root is treated as a single element of an invisible
// grouping, so that its own delimiters are visited like any other
// subtree's.
func NewCursor[S comparable](root *Subtree[S]) *Cursor[S] {
	if root.Delimiter.Kind != Invisible {
		root = &Subtree[S]{Children: []TokenTree[S]{root}}
	}
	return &Cursor[S]{stack: []cursorFrame[S]{{node: root}}}
}

func (c *Cursor[S]) top() *cursorFrame[S] {
	return &c.stack[len(c.stack)-1]
}

// Tree returns the element the cursor is on, or nil if the current frame is
// exhausted. A nil result with EOF false means the cursor sits on the
// closing boundary of the subtree returned by [Cursor.End].
func (c *Cursor[S]) Tree() TokenTree[S] {
	top := c.top()
	if top.idx >= len(top.node.Children) {
		return nil
	}
	return top.node.Children[top.idx]
}

// End returns the subtree whose children the cursor has exhausted, or nil
// if the cursor is on an element or at the true end of input.
func (c *Cursor[S]) End() *Subtree[S] {
	if c.Tree() != nil || c.EOF() {
		return nil
	}
	return c.top().node
}

// Descend moves the cursor inside the subtree it is on, positioning it
// before that subtree's first child.
//
// Panics if the cursor is not on a subtree; callers are expected to have
// inspected [Cursor.Tree] first.
func (c *Cursor[S]) Descend() *Subtree[S] {
	sub, ok := c.Tree().(*Subtree[S])
	if !ok {
		panic("tokenbridge/tt: Descend called on a cursor not at a subtree")
	}
	c.stack = append(c.stack, cursorFrame[S]{node: sub})
	return sub
}

// Bump advances the cursor one position. On an element, it moves past it
// (past the entire subtree, if the element is one the cursor never
// descended into). On an exhausted frame, it ascends past the parent's
// closing boundary. At EOF it is a no-op.
func (c *Cursor[S]) Bump() {
	top := c.top()
	if top.idx < len(top.node.Children) {
		top.idx++
		return
	}
	if len(c.stack) > 1 {
		c.stack = c.stack[:len(c.stack)-1]
		c.top().idx++
	}
}

// EOF returns whether the cursor has consumed all input, including every
// closing boundary.
func (c *Cursor[S]) EOF() bool {
	if len(c.stack) != 1 {
		return false
	}
	top := c.top()
	return top.idx >= len(top.node.Children)
}

// Fork returns an independent copy of this cursor. Advancing one never
// affects the other.
func (c *Cursor[S]) Fork() *Cursor[S] {
	return &Cursor[S]{stack: slices.Clone(c.stack)}
}
