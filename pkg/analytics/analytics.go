// Package analytics holds the default word tokenizer and per-analysis totals.
package analytics

import (
	"strings"

	"github.com/dtnitsch/corporalyser/pkg/occurrence"
)

// Words splits text into whitespace-separated tokens. Punctuation stays attached;
// the transform pipeline strips it later when a report asks for it.
func Words(text string) []string {
	return strings.Fields(text)
}

// FamilyStats is the mass and distinct-key count of one occurrence map.
type FamilyStats struct {
	Ordinal int   `yaml:"n,omitempty" json:"n,omitempty"`
	Total   int64 `yaml:"total" json:"total"`
	Unique  int   `yaml:"unique" json:"unique"`
}

// Stats summarises an integer analysis.
type Stats struct {
	Words     FamilyStats   `yaml:"words" json:"words"`
	Ngrams    []FamilyStats `yaml:"ngrams" json:"ngrams"`
	Skipgrams []FamilyStats `yaml:"skipgrams" json:"skipgrams"`
}

// Summarize computes totals per family in ascending ordinate order.
func Summarize(a *occurrence.Analysis[int64]) Stats {
	stats := Stats{
		Words: FamilyStats{Total: a.Words.Sum(), Unique: a.Words.Len()},
	}
	for _, n := range a.Ngrams.Keys() {
		m := a.Ngrams[n]
		stats.Ngrams = append(stats.Ngrams, FamilyStats{Ordinal: n, Total: m.Sum(), Unique: m.Len()})
	}
	for _, k := range a.Skipgrams.Keys() {
		m := a.Skipgrams[k]
		stats.Skipgrams = append(stats.Skipgrams, FamilyStats{Ordinal: k, Total: m.Sum(), Unique: m.Len()})
	}
	return stats
}
