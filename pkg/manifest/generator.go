package manifest

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dtnitsch/corporalyser/models"
	"github.com/dtnitsch/corporalyser/pkg/analytics"
	"github.com/dtnitsch/corporalyser/pkg/mapreduce"
)

// DefaultTop is the number of grams listed per family in a summary.
const DefaultTop = 25

// GenerateSummary builds the overview of an analysis artifact. The analysis
// must already be sorted.
func GenerateSummary(corpusID string, art *models.AnalysisArtifact, top int) Summary {
	if top <= 0 {
		top = DefaultTop
	}

	a := art.Analysis
	summary := Summary{
		CorpusID:       corpusID,
		RunID:          art.Metadata.RunID,
		GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
		Language:       art.Source.Language,
		Sentences:      art.Metadata.Sentences,
		MalformedLines: art.Metadata.MalformedLines,
		Duration:       art.Metadata.Duration,
		Stats:          analytics.Summarize(a),
		TopNgrams:      make(map[int][]string, len(a.Ngrams)),
		TopSkipgrams:   make(map[int][]string, len(a.Skipgrams)),
		TopWords:       mapreduce.TopGrams(a.Words, top),
	}

	if d, err := time.ParseDuration(art.Metadata.Duration); err == nil && d > 0 {
		summary.SentencesPerSec = float64(art.Metadata.Sentences) / d.Seconds()
	}

	for n, m := range a.Ngrams {
		summary.TopNgrams[n] = mapreduce.TopGrams(m, top)
	}
	for k, m := range a.Skipgrams {
		summary.TopSkipgrams[k] = mapreduce.TopGrams(m, top)
	}
	return summary
}

// FinishedLine is the one-line human summary printed after an analysis.
func FinishedLine(s Summary) string {
	return fmt.Sprintf("Finished analysing %s: %s sentences, %s words (%s unique) in %s (%s sentences/s)",
		s.CorpusID,
		humanize.Comma(int64(s.Sentences)),
		humanize.Comma(s.Stats.Words.Total),
		humanize.Comma(int64(s.Stats.Words.Unique)),
		s.Duration,
		humanize.CommafWithDigits(s.SentencesPerSec, 1),
	)
}
