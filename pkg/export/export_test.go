package export

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/dtnitsch/corporalyser/models"
	"github.com/dtnitsch/corporalyser/pkg/occurrence"
)

func testReport(ngrams, skipgrams []int) *models.Report {
	counts := occurrence.NewAnalysis[int64](ngrams, skipgrams)
	for _, n := range ngrams {
		counts.Ngrams[n].Add(occurrence.Countable(strings.Repeat("e", n)), 3)
		counts.Ngrams[n].Add(occurrence.Countable(strings.Repeat("t", n)), 1)
	}
	for _, k := range skipgrams {
		counts.Skipgrams[k].Add("et", int64(k))
	}
	counts.Words.Add("the", 2)

	freqs := occurrence.Scale(counts, 1)
	occurrence.NormalizeAnalysis(freqs)

	rep := &models.Report{AnalysisCounts: counts, AnalysisFrequencies: freqs}
	rep.Metadata.ID = "english"
	return rep
}

func TestOxeylyzer(t *testing.T) {
	data, err := Oxeylyzer(testReport([]int{1, 2, 3}, []int{1, 2, 3}))
	if err != nil {
		t.Fatalf("Oxeylyzer() failed: %v", err)
	}
	if data.Language != "english" {
		t.Errorf("Language = %q", data.Language)
	}
	if v, _ := data.Trigrams.Get("eee"); v != 0.75 {
		t.Errorf("trigrams[eee] = %v, want 0.75", v)
	}

	out, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	for _, key := range []string{`"characters"`, `"bigrams"`, `"skipgrams2"`, `"skipgrams3"`} {
		if !strings.Contains(string(out), key) {
			t.Errorf("output missing %s: %s", key, out)
		}
	}
}

func TestOxeylyzerMissingOrdinal(t *testing.T) {
	tests := []struct {
		name      string
		ngrams    []int
		skipgrams []int
	}{
		{"no trigrams", []int{1, 2}, []int{1, 2, 3}},
		{"no skipgrams3", []int{1, 2, 3}, []int{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Oxeylyzer(testReport(tt.ngrams, tt.skipgrams))
			if !errors.Is(err, ErrMissingOrdinal) {
				t.Errorf("error = %v, want ErrMissingOrdinal", err)
			}
		})
	}
}

func TestFlat(t *testing.T) {
	rep := testReport([]int{1, 2}, []int{1})

	freqs, err := Flat(rep, false)
	if err != nil {
		t.Fatalf("Flat() failed: %v", err)
	}
	if freqs.Values != "frequencies" || len(freqs.Tables) != 4 {
		t.Errorf("frequencies export = %+v", freqs)
	}

	counts, err := Flat(rep, true)
	if err != nil {
		t.Fatalf("Flat(counts) failed: %v", err)
	}
	words, ok := counts.Tables["words"].(*occurrence.Map[int64])
	if !ok {
		t.Fatalf("words table has type %T", counts.Tables["words"])
	}
	if v, _ := words.Get("the"); v != 2 {
		t.Errorf("words[the] = %d, want 2", v)
	}
	if _, ok := counts.Tables["skipgrams_1"]; !ok {
		t.Error("missing skipgrams_1 table")
	}
}

func TestFlatEmptyReport(t *testing.T) {
	if _, err := Flat(&models.Report{}, true); !errors.Is(err, ErrEmptyReport) {
		t.Errorf("error = %v, want ErrEmptyReport", err)
	}
}
