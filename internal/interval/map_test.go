package interval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrotools/tokenbridge/internal/interval"
)

func TestGet(t *testing.T) {
	t.Parallel()

	var m interval.Map[int, string]
	m.Insert(0, 3, "foo")
	m.Insert(3, 4, "bar")
	m.Insert(10, 15, "baz")

	assert.Equal(t, 3, m.Len())

	in := m.Get(0)
	require.NotNil(t, in.Value)
	assert.Equal(t, "foo", *in.Value)
	assert.Equal(t, 0, in.Start)
	assert.Equal(t, 3, in.End)

	in = m.Get(2)
	require.NotNil(t, in.Value)
	assert.Equal(t, "foo", *in.Value)

	// End is exclusive, so offset 3 belongs to the next interval over.
	in = m.Get(3)
	require.NotNil(t, in.Value)
	assert.Equal(t, "bar", *in.Value)

	assert.Nil(t, m.Get(4).Value)
	assert.Nil(t, m.Get(9).Value)

	in = m.Get(12)
	require.NotNil(t, in.Value)
	assert.Equal(t, "baz", *in.Value)

	assert.Nil(t, m.Get(15).Value)
	assert.Nil(t, m.Get(100).Value)
}

func TestGetExact(t *testing.T) {
	t.Parallel()

	var m interval.Map[uint32, int]
	m.Insert(5, 8, 42)

	v, ok := m.GetExact(5, 8)
	require.True(t, ok)
	assert.Equal(t, 42, *v)

	_, ok = m.GetExact(5, 7)
	assert.False(t, ok)
	_, ok = m.GetExact(6, 8)
	assert.False(t, ok)
}

func TestIntervals(t *testing.T) {
	t.Parallel()

	var m interval.Map[int, string]
	m.Insert(10, 15, "c")
	m.Insert(0, 3, "a")
	m.Insert(3, 4, "b")

	var got []string
	for in := range m.Intervals() {
		got = append(got, *in.Value)
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestInsertBackwards(t *testing.T) {
	t.Parallel()

	var m interval.Map[int, string]
	assert.Panics(t, func() { m.Insert(4, 3, "oops") })
}
