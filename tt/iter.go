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

import "fmt"

// Iter is a flat iterator over one subtree's immediate children. It does
// not descend.
//
// An Iter is cheap to fork: speculative consumers advance a fork and commit
// it back only if the speculation succeeds.
type Iter[S comparable] struct {
	children []TokenTree[S]
	idx      int
}

// NewIter returns an iterator over sub's children.
func NewIter[S comparable](sub *Subtree[S]) *Iter[S] {
	return &Iter[S]{children: sub.Children}
}

// Peek returns the element n positions ahead without consuming anything,
// or nil if fewer than n+1 elements remain.
func (it *Iter[S]) Peek(n int) TokenTree[S] {
	if it.idx+n >= len(it.children) {
		return nil
	}
	return it.children[it.idx+n]
}

// Next consumes and returns the next element, or nil if none remain.
func (it *Iter[S]) Next() TokenTree[S] {
	next := it.Peek(0)
	if next != nil {
		it.idx++
	}
	return next
}

// Rest returns the unconsumed remainder. The returned slice aliases the
// subtree's children and must not be mutated.
func (it *Iter[S]) Rest() []TokenTree[S] {
	return it.children[it.idx:]
}

// Fork returns an independent copy of this iterator.
func (it *Iter[S]) Fork() *Iter[S] {
	fork := *it
	return &fork
}

// Commit adopts the position of fork, which must have been created by
// calling [Iter.Fork] on this iterator.
func (it *Iter[S]) Commit(fork *Iter[S]) {
	*it = *fork
}

// ExpectChar consumes the next element if it is a [Punct] with the given
// character, and returns an error (consuming nothing) otherwise.
func (it *Iter[S]) ExpectChar(r rune) error {
	next := it.Peek(0)
	if p, ok := next.(Punct[S]); ok && p.Char == r {
		it.idx++
		return nil
	}
	return fmt.Errorf("tokenbridge/tt: expected %q, found %v", r, next)
}
