package manifest

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/corporalyser/models"
	"github.com/dtnitsch/corporalyser/pkg/occurrence"
)

func testArtifact() *models.AnalysisArtifact {
	a := occurrence.NewAnalysis[int64]([]int{1, 2}, []int{1})
	for _, g := range []string{"a", "a", "a", "b", "c", "c"} {
		a.Ngrams[1].Add(occurrence.Countable(g), 1)
	}
	a.Ngrams[2].Add("ab", 2)
	a.Skipgrams[1].Add("ac", 1)
	a.Words.Add("abc", 1200)
	a.Words.Add("cab", 300)
	a.Sort()

	return &models.AnalysisArtifact{
		Source: models.AnalysisSource{Language: "en"},
		Metadata: models.AnalysisMetadata{
			RunID:     "01TEST",
			Sentences: 2000,
			Duration:  "2s",
		},
		Analysis: a,
	}
}

func TestGenerateSummary(t *testing.T) {
	s := GenerateSummary("eng_news_2020_10K", testArtifact(), 2)

	if s.RunID != "01TEST" || s.Language != "en" {
		t.Errorf("unexpected header: %+v", s)
	}
	if s.SentencesPerSec != 1000 {
		t.Errorf("SentencesPerSec = %v, want 1000", s.SentencesPerSec)
	}
	want := []string{"a:3", "c:2"}
	if strings.Join(s.TopNgrams[1], ",") != strings.Join(want, ",") {
		t.Errorf("TopNgrams[1] = %v, want %v", s.TopNgrams[1], want)
	}
	if len(s.TopSkipgrams[1]) != 1 {
		t.Errorf("TopSkipgrams[1] = %v", s.TopSkipgrams[1])
	}
	if s.Stats.Words.Total != 1500 || s.Stats.Words.Unique != 2 {
		t.Errorf("word stats = %+v", s.Stats.Words)
	}

	out, err := yaml.Marshal(s)
	if err != nil {
		t.Fatalf("yaml.Marshal() failed: %v", err)
	}
	if !strings.Contains(string(out), "corpus_id: eng_news_2020_10K") {
		t.Errorf("yaml output missing corpus id:\n%s", out)
	}
}

func TestFinishedLine(t *testing.T) {
	line := FinishedLine(GenerateSummary("deu", testArtifact(), 0))
	for _, part := range []string{"deu", "2,000 sentences", "1,500 words", "2 unique", "1,000 sentences/s"} {
		if !strings.Contains(line, part) {
			t.Errorf("FinishedLine() = %q, missing %q", line, part)
		}
	}
}
