// Package export projects a report into the formats consumed by keyboard
// layout tools.
package export

import (
	"errors"
	"fmt"

	"github.com/dtnitsch/corporalyser/models"
	"github.com/dtnitsch/corporalyser/pkg/occurrence"
)

// Export kinds, also used as directory names under export/.
const (
	KindOxeylyzer = "oxeylyzer"
	KindFlat      = "flat"
)

var (
	ErrMissingOrdinal = errors.New("report is missing a required ordinal")
	ErrEmptyReport    = errors.New("report has no analysis")
)

// OxeylyzerLanguageData is the language file read by the oxeylyzer layout optimizer.
type OxeylyzerLanguageData struct {
	Language string `json:"language"`

	Characters *occurrence.Map[float64] `json:"characters"`
	Bigrams    *occurrence.Map[float64] `json:"bigrams"`
	Trigrams   *occurrence.Map[float64] `json:"trigrams"`

	Skipgrams  *occurrence.Map[float64] `json:"skipgrams"`
	Skipgrams2 *occurrence.Map[float64] `json:"skipgrams2"`
	Skipgrams3 *occurrence.Map[float64] `json:"skipgrams3"`
}

// Oxeylyzer takes n-grams 1..3 and skip-grams 1..3 from the report frequencies.
func Oxeylyzer(rep *models.Report) (*OxeylyzerLanguageData, error) {
	a := rep.AnalysisFrequencies
	if a == nil {
		return nil, ErrEmptyReport
	}

	pick := func(family string, o occurrence.Ordinals[float64], n int) (*occurrence.Map[float64], error) {
		m, ok := o[n]
		if !ok || m == nil {
			return nil, fmt.Errorf("%w: %s %d in report %s", ErrMissingOrdinal, family, n, rep.Metadata.ID)
		}
		return m, nil
	}

	out := &OxeylyzerLanguageData{Language: rep.Metadata.ID}
	targets := []struct {
		dst    **occurrence.Map[float64]
		family string
		o      occurrence.Ordinals[float64]
		n      int
	}{
		{&out.Characters, "ngram", a.Ngrams, 1},
		{&out.Bigrams, "ngram", a.Ngrams, 2},
		{&out.Trigrams, "ngram", a.Ngrams, 3},
		{&out.Skipgrams, "skipgram", a.Skipgrams, 1},
		{&out.Skipgrams2, "skipgram", a.Skipgrams, 2},
		{&out.Skipgrams3, "skipgram", a.Skipgrams, 3},
	}
	for _, t := range targets {
		m, err := pick(t.family, t.o, t.n)
		if err != nil {
			return nil, err
		}
		*t.dst = m
	}
	return out, nil
}

// FlatData holds one table per ordinal plus words, keyed "ngrams_<n>",
// "skipgrams_<k>" and "words".
type FlatData struct {
	Report string         `json:"report"`
	Values string         `json:"values"`
	Tables map[string]any `json:"tables"`
}

// Flat exports every table of the report, as frequencies or as raw counts.
func Flat(rep *models.Report, counts bool) (*FlatData, error) {
	if counts {
		if rep.AnalysisCounts == nil {
			return nil, ErrEmptyReport
		}
		return &FlatData{Report: rep.Metadata.ID, Values: "counts", Tables: tables(rep.AnalysisCounts)}, nil
	}
	if rep.AnalysisFrequencies == nil {
		return nil, ErrEmptyReport
	}
	return &FlatData{Report: rep.Metadata.ID, Values: "frequencies", Tables: tables(rep.AnalysisFrequencies)}, nil
}

func tables[T occurrence.Count](a *occurrence.Analysis[T]) map[string]any {
	out := make(map[string]any, len(a.Ngrams)+len(a.Skipgrams)+1)
	for n, m := range a.Ngrams {
		out[fmt.Sprintf("ngrams_%d", n)] = m
	}
	for k, m := range a.Skipgrams {
		out[fmt.Sprintf("skipgrams_%d", k)] = m
	}
	if a.Words != nil {
		out["words"] = a.Words
	}
	return out
}
