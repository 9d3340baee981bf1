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

// Package syntax provides a minimal lossless concrete syntax tree: every
// token of the input, whitespace and comments included, appears verbatim in
// the tree, and rendering a tree reproduces its text exactly.
//
// Trees are immutable once built. Construction goes through [Builder],
// which is driven by a stream of start-node/token/finish-node events.
package syntax

import (
	"iter"
	"strings"

	"github.com/macrotools/tokenbridge/span"
)

// Node is one element of a syntax tree: either a token (a leaf carrying
// text) or an interior node (carrying children). Children are held in owned
// slices; there are no parent pointers.
type Node struct {
	kind    Kind
	rng     span.Range
	text    string  // Tokens only.
	children []*Node // Interior nodes only.
	isToken bool
}

// Kind returns what kind of element this is.
func (n *Node) Kind() Kind {
	return n.kind
}

// Range returns the absolute text range this element covers.
func (n *Node) Range() span.Range {
	return n.rng
}

// IsToken returns whether this is a token rather than an interior node.
func (n *Node) IsToken() bool {
	return n.isToken
}

// Children returns this node's children. The returned slice must not be
// mutated.
func (n *Node) Children() []*Node {
	return n.children
}

// Text renders this element back into source text, verbatim.
func (n *Node) Text() string {
	if n.isToken {
		return n.text
	}
	var sb strings.Builder
	n.writeText(&sb)
	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder) {
	if n.isToken {
		sb.WriteString(n.text)
		return
	}
	for _, child := range n.children {
		child.writeText(sb)
	}
}

// Tokens returns an iterator over this element's tokens, in source order.
func (n *Node) Tokens() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.visitTokens(yield)
	}
}

func (n *Node) visitTokens(yield func(*Node) bool) bool {
	if n.isToken {
		return yield(n)
	}
	for _, child := range n.children {
		if !child.visitTokens(yield) {
			return false
		}
	}
	return true
}

// Preorder returns an iterator over this element and all its descendants,
// tokens included, in preorder.
func (n *Node) Preorder() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.visitPreorder(yield)
	}
}

func (n *Node) visitPreorder(yield func(*Node) bool) bool {
	if !yield(n) {
		return false
	}
	for _, child := range n.children {
		if !child.visitPreorder(yield) {
			return false
		}
	}
	return true
}
