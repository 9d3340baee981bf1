package interval

import (
	"fmt"
	"iter"

	"github.com/tidwall/btree"
	"golang.org/x/exp/constraints"
)

// Map is an interval map, which maps half-open intervals [Start, End) with
// endpoints in K to values of type V.
//
// Intervals stored in a Map must not overlap. Inserting an interval that
// shares its end key with an existing interval replaces that interval.
//
// A zero value is ready to use.
type Map[K constraints.Integer, V any] struct {
	// Keys in this map are the ends of intervals in the map.
	tree btree.Map[K, *entry[K, V]]
}

// Interval is an entry returned by lookups on a [Map].
type Interval[K constraints.Integer, V any] struct {
	// The range for this interval.
	Start, End K

	// The value associated with it.
	Value *V
}

// Len returns the number of intervals in this map.
func (m *Map[K, V]) Len() int {
	return m.tree.Len()
}

// Insert inserts a new interval into this map, with the given associated
// value. The interval is half-open: start is inclusive, end is exclusive.
func (m *Map[K, V]) Insert(start, end K, value V) {
	if start > end {
		panic(fmt.Sprintf("interval: start (%#v) > end (%#v)", start, end))
	}
	m.tree.Set(end, &entry[K, V]{
		start: start,
		value: value,
	})
}

// Get looks up the interval which contains key, if one exists.
//
// If no such interval exists, the Value of the returned [Interval] will be
// nil.
func (m *Map[K, V]) Get(key K) Interval[K, V] {
	iter := m.tree.Iter()
	found := iter.Seek(key)

	// Seek finds the least interval with key <= end. Because intervals are
	// half-open, end == key means key lies just past that interval, so we
	// need the next one over.
	if found && iter.Key() == key {
		found = iter.Next()
	}

	if !found || key < iter.Value().start {
		return Interval[K, V]{}
	}

	return Interval[K, V]{
		Start: iter.Value().start,
		End:   iter.Key(),
		Value: &iter.Value().value,
	}
}

// GetExact looks up the interval [start, end), if it is present in the map
// with exactly those endpoints.
func (m *Map[K, V]) GetExact(start, end K) (*V, bool) {
	entry, ok := m.tree.Get(end)
	if !ok || entry.start != start {
		return nil, false
	}
	return &entry.value, true
}

// Intervals returns an iterator over the intervals in this map, in order.
func (m *Map[K, V]) Intervals() iter.Seq[Interval[K, V]] {
	return func(yield func(Interval[K, V]) bool) {
		iter := m.tree.Iter()
		more := iter.First()
		for more {
			if !yield(Interval[K, V]{
				Start: iter.Value().start,
				End:   iter.Key(),
				Value: &iter.Value().value,
			}) {
				return
			}
			more = iter.Next()
		}
	}
}

// Format implements [fmt.Formatter].
func (m *Map[K, V]) Format(s fmt.State, v rune) {
	fmt.Fprint(s, "{")
	first := true
	m.tree.Scan(func(end K, entry *entry[K, V]) bool {
		if !first {
			fmt.Fprint(s, ", ")
		}
		first = false

		fmt.Fprintf(s, "[%#v, %#v): ", entry.start, end)
		fmt.Fprintf(s, fmt.FormatString(s, v), entry.value)

		return true
	})
	fmt.Fprint(s, "}")
}

type entry[K constraints.Integer, V any] struct {
	start K
	value V
}
