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

package span

import (
	"iter"

	"github.com/macrotools/tokenbridge/internal/interval"
)

// Map maps ranges of some text (the source text for forward conversion, the
// rebuilt text for reverse conversion) to the [Span] of the token occupying
// that range.
//
// A Map is built incrementally by a conversion, one entry per emitted token
// or delimiter boundary, and compacted once the conversion finishes. After
// [Map.Compact] it is immutable and safe for concurrent reads.
//
// A zero value is ready to use.
type Map[A comparable, C comparable] struct {
	table     interval.Map[uint32, Span[A, C]]
	compacted bool
}

// Insert records that the text range r is occupied by a token with the
// given span. Insertion order is irrelevant; ranges must not overlap.
//
// Panics if the map has been compacted. Inserting into a finished map is a
// contract violation between the converter and its caller.
func (m *Map[A, C]) Insert(r Range, span Span[A, C]) {
	if m.compacted {
		panic("tokenbridge/span: Insert called on a compacted Map")
	}
	m.table.Insert(r.Start, r.End, span)
}

// SpanAt returns the span of the token whose range contains offset.
func (m *Map[A, C]) SpanAt(offset uint32) (Span[A, C], bool) {
	in := m.table.Get(offset)
	if in.Value == nil {
		var zero Span[A, C]
		return zero, false
	}
	return *in.Value, true
}

// SpanForRange returns the span recorded for exactly the range r.
func (m *Map[A, C]) SpanForRange(r Range) (Span[A, C], bool) {
	v, ok := m.table.GetExact(r.Start, r.End)
	if !ok {
		var zero Span[A, C]
		return zero, false
	}
	return *v, true
}

// Len returns the number of entries in this map.
func (m *Map[A, C]) Len() int {
	return m.table.Len()
}

// All returns an iterator over the entries of this map, in range order.
func (m *Map[A, C]) All() iter.Seq2[Range, Span[A, C]] {
	return func(yield func(Range, Span[A, C]) bool) {
		for in := range m.table.Intervals() {
			if !yield(Range{Start: in.Start, End: in.End}, *in.Value) {
				return
			}
		}
	}
}

// Compact freezes this map. Further inserts panic; lookups are unaffected.
// Compacting an already-compacted map is a no-op.
func (m *Map[A, C]) Compact() {
	m.compacted = true
}
