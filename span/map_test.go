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

package span_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrotools/tokenbridge/span"
)

// fileID is a stand-in anchor type for tests.
type fileID uint32

// hygiene is a stand-in syntax context; the zero value means "no hygiene".
type hygiene uint32

func TestMapLookup(t *testing.T) {
	t.Parallel()

	var m span.Map[fileID, hygiene]
	m.Insert(span.NewRange(0, 3), span.Dummy[fileID, hygiene](1, span.NewRange(10, 13)))
	m.Insert(span.NewRange(3, 4), span.Dummy[fileID, hygiene](1, span.NewRange(13, 14)))
	m.Insert(span.NewRange(8, 12), span.Span[fileID, hygiene]{Anchor: 2, Range: span.NewRange(0, 4), Ctx: 7})

	s, ok := m.SpanAt(0)
	require.True(t, ok)
	assert.Equal(t, fileID(1), s.Anchor)
	assert.Equal(t, span.NewRange(10, 13), s.Range)
	assert.Equal(t, hygiene(0), s.Ctx)

	// Half-open: offset 3 belongs to the second entry.
	s, ok = m.SpanAt(3)
	require.True(t, ok)
	assert.Equal(t, span.NewRange(13, 14), s.Range)

	_, ok = m.SpanAt(5)
	assert.False(t, ok)

	s, ok = m.SpanForRange(span.NewRange(8, 12))
	require.True(t, ok)
	assert.Equal(t, fileID(2), s.Anchor)
	assert.Equal(t, hygiene(7), s.Ctx)

	_, ok = m.SpanForRange(span.NewRange(8, 11))
	assert.False(t, ok)

	assert.Equal(t, 3, m.Len())
}

func TestMapCompact(t *testing.T) {
	t.Parallel()

	var m span.Map[fileID, hygiene]
	m.Insert(span.NewRange(0, 1), span.Dummy[fileID, hygiene](1, span.NewRange(0, 1)))
	m.Compact()
	m.Compact() // Idempotent.

	// Lookups still work after compaction.
	_, ok := m.SpanAt(0)
	assert.True(t, ok)

	assert.Panics(t, func() {
		m.Insert(span.NewRange(1, 2), span.Dummy[fileID, hygiene](1, span.NewRange(1, 2)))
	})
}

func TestRange(t *testing.T) {
	t.Parallel()

	r := span.RangeAt(4, 3)
	assert.Equal(t, span.NewRange(4, 7), r)
	assert.Equal(t, uint32(3), r.Len())
	assert.True(t, r.Contains(4))
	assert.True(t, r.Contains(6))
	assert.False(t, r.Contains(7))
	assert.True(t, r.ContainsRange(span.NewRange(5, 7)))
	assert.False(t, r.ContainsRange(span.NewRange(5, 8)))
	assert.Equal(t, span.NewRange(2, 5), r.Sub(2))
	assert.Equal(t, "4..7", r.String())

	assert.Panics(t, func() { span.NewRange(2, 1) })
	assert.Panics(t, func() { r.Sub(5) })
}
