package analytics

import (
	"reflect"
	"testing"

	"github.com/dtnitsch/corporalyser/pkg/occurrence"
)

func TestWords(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"hello world", []string{"hello", "world"}},
		{"  spaced\tout\nlines ", []string{"spaced", "out", "lines"}},
		{"keep, punctuation!", []string{"keep,", "punctuation!"}},
		{"", nil},
	}
	for _, tt := range tests {
		got := Words(tt.in)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Words(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	a := occurrence.NewAnalysis[int64]([]int{2, 1}, []int{1})
	a.Ngrams[1].Add("a", 3)
	a.Ngrams[1].Add("b", 1)
	a.Ngrams[2].Add("ab", 2)
	a.Words.Add("ab", 2)

	got := Summarize(a)
	want := Stats{
		Words:     FamilyStats{Total: 2, Unique: 1},
		Ngrams:    []FamilyStats{{Ordinal: 1, Total: 4, Unique: 2}, {Ordinal: 2, Total: 2, Unique: 1}},
		Skipgrams: []FamilyStats{{Ordinal: 1, Total: 0, Unique: 0}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Summarize() = %+v, want %+v", got, want)
	}
}
