package mapreduce

import (
	"fmt"

	"github.com/dtnitsch/corporalyser/pkg/occurrence"
)

// TopGrams returns the first n entries of a sorted map as "gram:count" strings.
func TopGrams[T occurrence.Count](m *occurrence.Map[T], n int) []string {
	entries := m.Entries()
	limit := min(n, len(entries))
	if limit < 0 {
		limit = 0
	}

	grams := make([]string, limit)
	for i := 0; i < limit; i++ {
		grams[i] = fmt.Sprintf("%s:%v", entries[i].Key, entries[i].Value)
	}
	return grams
}
