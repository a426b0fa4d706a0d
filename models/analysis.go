package models

import (
	"time"

	"github.com/dtnitsch/corporalyser/pkg/occurrence"
)

// Wortschatz origin details recorded on every analysis of a Leipzig corpus.
const (
	WortschatzOriginID   = "wortschatz"
	WortschatzOriginName = "Deutsche Wortschatz by Institut für Informatik at Universität Leipzig"
	WortschatzOriginURL  = "https://wortschatz.uni-leipzig.de/en"
	WortschatzLicense    = "CC BY-NC"
)

// AnalysisSource describes where the counted sentences came from.
type AnalysisSource struct {
	OriginID   string    `json:"origin_id"`
	OriginName string    `json:"origin_name"`
	OriginURL  string    `json:"origin_url"`
	License    string    `json:"license"`
	Date       time.Time `json:"date"` // mtime of the sentence file
	Hash       string    `json:"hash"` // sha256 of the sentence file
	Language   string    `json:"language,omitempty"`
}

// AnalysisMetadata describes the run that produced an analysis.
type AnalysisMetadata struct {
	Date           time.Time `json:"date"`
	RunID          string    `json:"run_id"`
	Sentences      int       `json:"sentences"`
	MalformedLines int       `json:"malformed_lines"`
	Ngrams         []int     `json:"ngram_ns"`
	Skipgrams      []int     `json:"skipgram_ns"`
	KeepCase       bool      `json:"keep_case"`
	Workers        int       `json:"workers"`
	Duration       string    `json:"duration"`
}

// AnalysisArtifact is the persisted result of counting one corpus.
type AnalysisArtifact struct {
	Source   AnalysisSource              `json:"source"`
	Metadata AnalysisMetadata            `json:"metadata"`
	Analysis *occurrence.Analysis[int64] `json:"analysis"`
}
