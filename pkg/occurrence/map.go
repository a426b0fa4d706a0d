package occurrence

import (
	"iter"
	"sort"
)

// Entry is a single gram and its count.
type Entry[T Count] struct {
	Key   Countable
	Value T
}

// Map is an ordered mapping from Countable to a count. Keys are unique.
// Container order survives between operations but carries no meaning until Sort.
type Map[T Count] struct {
	entries []Entry[T]
	index   map[Countable]int
}

// NewMap creates an empty map.
func NewMap[T Count]() *Map[T] {
	return &Map[T]{index: make(map[Countable]int)}
}

// FromEntries builds a map from entries, merging duplicate keys.
func FromEntries[T Count](entries ...Entry[T]) *Map[T] {
	m := NewMap[T]()
	for _, e := range entries {
		m.Add(e.Key, e.Value)
	}
	return m
}

func (m *Map[T]) lazyInit() {
	if m.index == nil {
		m.index = make(map[Countable]int, len(m.entries))
		for i, e := range m.entries {
			m.index[e.Key] = i
		}
	}
}

// Len returns the number of distinct keys.
func (m *Map[T]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Get returns the count for key and whether it is present.
func (m *Map[T]) Get(key Countable) (T, bool) {
	if m == nil {
		return 0, false
	}
	m.lazyInit()
	i, ok := m.index[key]
	if !ok {
		return 0, false
	}
	return m.entries[i].Value, true
}

// Add adds value to the count of key. An absent key starts at 0.
func (m *Map[T]) Add(key Countable, value T) {
	m.lazyInit()
	if i, ok := m.index[key]; ok {
		m.entries[i].Value += value
		return
	}
	key = intern(key)
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, Entry[T]{Key: key, Value: value})
}

// Merge adds every entry of other into m.
func (m *Map[T]) Merge(other *Map[T]) {
	if other == nil {
		return
	}
	for _, e := range other.entries {
		m.Add(e.Key, e.Value)
	}
}

// Sum returns the total of all counts.
func (m *Map[T]) Sum() T {
	var total T
	if m == nil {
		return total
	}
	for _, e := range m.entries {
		total += e.Value
	}
	return total
}

// All iterates entries in container order.
func (m *Map[T]) All() iter.Seq2[Countable, T] {
	return func(yield func(Countable, T) bool) {
		if m == nil {
			return
		}
		for _, e := range m.entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Entries returns a copy of the entries in container order.
func (m *Map[T]) Entries() []Entry[T] {
	if m == nil {
		return nil
	}
	out := make([]Entry[T], len(m.entries))
	copy(out, m.entries)
	return out
}

// Sort orders entries by descending count. Ties are ordered by ascending key
// bytes, so the result does not depend on the previous container order.
func (m *Map[T]) Sort() {
	if m == nil {
		return
	}
	m.lazyInit()
	sort.SliceStable(m.entries, func(i, j int) bool {
		a, b := m.entries[i], m.entries[j]
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		return a.Key < b.Key
	})
	for i, e := range m.entries {
		m.index[e.Key] = i
	}
}

// Strip visits every key and asks check whether to strip it. A stripped entry is
// removed; with replace set, its count is merged into the replacement key instead
// (an empty replacement is dropped).
func (m *Map[T]) Strip(replace bool, check func(Countable) (bool, Countable)) {
	if m == nil {
		return
	}
	old := m.entries
	m.entries = make([]Entry[T], 0, len(old))
	m.index = make(map[Countable]int, len(old))
	for _, e := range old {
		strip, repl := check(e.Key)
		switch {
		case !strip:
			m.Add(e.Key, e.Value)
		case replace && repl != "":
			m.Add(repl, e.Value)
		}
	}
}

// Clone returns a deep copy.
func (m *Map[T]) Clone() *Map[T] {
	out := NewMap[T]()
	if m == nil {
		return out
	}
	out.entries = make([]Entry[T], len(m.entries))
	copy(out.entries, m.entries)
	for i, e := range out.entries {
		out.index[e.Key] = i
	}
	return out
}

// Equal reports whether both maps hold the same key/value pairs, ignoring order.
func (m *Map[T]) Equal(other *Map[T]) bool {
	if m.Len() != other.Len() {
		return false
	}
	for k, v := range m.All() {
		ov, ok := other.Get(k)
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// Normalize divides every count by the sum of all counts. A map whose sum is
// not positive is left unchanged.
func Normalize(m *Map[float64]) {
	total := m.Sum()
	if total <= 0 {
		return
	}
	for i := range m.entries {
		m.entries[i].Value /= total
	}
}

// ToReal converts a map to real counts, scaling every value by factor.
func ToReal[T Count](m *Map[T], factor float64) *Map[float64] {
	out := NewMap[float64]()
	if m == nil {
		return out
	}
	out.entries = make([]Entry[float64], len(m.entries))
	for i, e := range m.entries {
		out.entries[i] = Entry[float64]{Key: e.Key, Value: float64(e.Value) * factor}
		out.index[e.Key] = i
	}
	return out
}
