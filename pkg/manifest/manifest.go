package manifest

import (
	"github.com/dtnitsch/corporalyser/pkg/analytics"
)

// Summary is the YAML overview written next to an analysis artifact. It gives
// the totals and the most frequent grams without loading the full JSON.
type Summary struct {
	CorpusID        string           `yaml:"corpus_id"`
	RunID           string           `yaml:"run_id"`
	GeneratedAt     string           `yaml:"generated_at"`
	Language        string           `yaml:"language,omitempty"`
	Sentences       int              `yaml:"sentences"`
	MalformedLines  int              `yaml:"malformed_lines,omitempty"`
	Duration        string           `yaml:"duration"`
	SentencesPerSec float64          `yaml:"sentences_per_sec"`
	Stats           analytics.Stats  `yaml:"stats"`
	TopNgrams       map[int][]string `yaml:"top_ngrams"`
	TopSkipgrams    map[int][]string `yaml:"top_skipgrams"`
	TopWords        []string         `yaml:"top_words"`
}
