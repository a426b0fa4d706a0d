package models

import (
	"fmt"
	"time"

	"github.com/dtnitsch/corporalyser/pkg/occurrence"
	"github.com/dtnitsch/corporalyser/pkg/transform"
)

// SourceType tells the resolver how to obtain a report source.
type SourceType string

const (
	SourceAnalysis SourceType = "analysis" // a per-corpus analysis artifact
	SourceReport   SourceType = "report"   // another report, consumed through its counts
)

// Valid reports whether t is a known source type.
func (t SourceType) Valid() bool {
	return t == SourceAnalysis || t == SourceReport
}

// ReportSource is one weighted entry of a recipe.
type ReportSource struct {
	ID     string     `json:"id" yaml:"id"`
	Weight float64    `json:"weight" yaml:"weight"`
	Type   SourceType `json:"type" yaml:"type"`

	transform.Spec `yaml:",inline"`
}

// Transform returns the strip flags of the source.
func (s ReportSource) Transform() transform.Spec {
	return s.Spec
}

func (s ReportSource) String() string {
	return fmt.Sprintf("%s:%s", s.Type, s.ID)
}

// RecipeMetadata names and versions a report.
type RecipeMetadata struct {
	ID        string         `json:"id" yaml:"id"`
	Name      string         `json:"name" yaml:"name"`
	Languages []string       `json:"languages" yaml:"languages"`
	Version   string         `json:"version" yaml:"version"`
	Extra     map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// ReportRecipe is the input description of a report.
type ReportRecipe struct {
	Metadata RecipeMetadata `json:"metadata" yaml:"metadata"`
	Sources  []ReportSource `json:"sources" yaml:"sources"`
}

// ReportMetadata is the recipe metadata plus run details.
type ReportMetadata struct {
	RecipeMetadata
	ProcessDate time.Time `json:"process_date"`
	RunID       string    `json:"run_id"`
}

// Report is the persisted result of aggregating a recipe.
type Report struct {
	Metadata ReportMetadata `json:"metadata"`
	Sources  []ReportSource `json:"sources"`

	AnalysisCounts         *occurrence.Analysis[int64]   `json:"analysis_counts"`
	AnalysisWeightedCounts *occurrence.Analysis[float64] `json:"analysis_weighted_counts"`
	AnalysisFrequencies    *occurrence.Analysis[float64] `json:"analysis_frequencies"`
}
