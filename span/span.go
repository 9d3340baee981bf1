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

// Package span provides the provenance model attached to every token that
// crosses the syntax-tree/token-tree boundary.
//
// A [Span] ties a text range to an anchor (a caller-chosen value naming the
// coordinate origin the range is relative to) and a syntax context (hygiene
// metadata distinguishing tokens introduced by different macro expansions).
// Both are type parameters so that downstream consumers can plug in their
// own representations; the only capability this package requires of a
// context type C is that its zero value means "no hygiene".
package span

import "fmt"

// Range is a half-open range [Start, End) of byte offsets into some text.
type Range struct {
	Start, End uint32
}

// NewRange returns the range [start, end).
//
// Panics if start > end.
func NewRange(start, end uint32) Range {
	if start > end {
		panic(fmt.Sprintf("tokenbridge/span: start (%d) > end (%d)", start, end))
	}
	return Range{Start: start, End: end}
}

// RangeAt returns the range of the given length starting at start.
func RangeAt(start, length uint32) Range {
	return Range{Start: start, End: start + length}
}

// Len returns the length of this range in bytes.
func (r Range) Len() uint32 {
	return r.End - r.Start
}

// Contains returns whether offset lies within this range.
func (r Range) Contains(offset uint32) bool {
	return offset >= r.Start && offset < r.End
}

// ContainsRange returns whether other lies entirely within this range.
func (r Range) ContainsRange(other Range) bool {
	return other.Start >= r.Start && other.End <= r.End
}

// Sub shifts this range down by offset, converting an absolute range into
// one relative to offset.
//
// Panics if offset > r.Start.
func (r Range) Sub(offset uint32) Range {
	if offset > r.Start {
		panic(fmt.Sprintf("tokenbridge/span: offset (%d) > range start (%d)", offset, r.Start))
	}
	return Range{Start: r.Start - offset, End: r.End - offset}
}

// String implements [fmt.Stringer].
func (r Range) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// Span records where a token came from: which anchor, which range relative
// to that anchor's offset, and under which syntax context it was produced.
//
// Range is always relative to the anchor's offset, never absolute.
//
// Spans are created once during a conversion and are immutable thereafter.
type Span[A comparable, C comparable] struct {
	Anchor A
	Range  Range

	// Ctx is the hygiene context. The zero value of C is the canonical
	// "no hygiene" context.
	Ctx C
}

// Dummy returns a span for the given anchor and range with no hygiene
// context attached.
func Dummy[A comparable, C comparable](anchor A, r Range) Span[A, C] {
	return Span[A, C]{Anchor: anchor, Range: r}
}

// String implements [fmt.Stringer].
func (s Span[A, C]) String() string {
	return fmt.Sprintf("%v@%v", s.Anchor, s.Range)
}
