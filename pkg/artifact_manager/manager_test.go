package artifact_manager

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dtnitsch/corporalyser/models"
	"github.com/dtnitsch/corporalyser/pkg/occurrence"
	"github.com/dtnitsch/corporalyser/pkg/report"
)

var _ report.Store = (*Manager)(nil)

func newTestManager(t *testing.T, maxAge time.Duration) *Manager {
	t.Helper()
	m, err := NewManager(t.TempDir(), maxAge)
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}
	return m
}

func TestNewManagerCreatesLayout(t *testing.T) {
	m := newTestManager(t, 0)
	for _, dir := range []string{DataDir, AnalysisDir, RecipeDir, ReportDir, ExportDir} {
		if info, err := os.Stat(filepath.Join(m.BaseDir(), dir)); err != nil || !info.IsDir() {
			t.Errorf("%s should exist: %v", dir, err)
		}
	}
}

func TestSentencesFresh(t *testing.T) {
	m := newTestManager(t, time.Hour)

	exists, fresh, err := m.SentencesFresh("eng")
	if err != nil || exists || fresh {
		t.Fatalf("SentencesFresh() before write = %v, %v, %v", exists, fresh, err)
	}

	if err := m.WriteSentences("eng", []byte("1\thello\n")); err != nil {
		t.Fatalf("WriteSentences() failed: %v", err)
	}
	exists, fresh, err = m.SentencesFresh("eng")
	if err != nil || !exists || !fresh {
		t.Errorf("SentencesFresh() after write = %v, %v, %v", exists, fresh, err)
	}

	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(m.SentencesPath("eng"), old, old); err != nil {
		t.Fatal(err)
	}
	exists, fresh, _ = m.SentencesFresh("eng")
	if !exists || fresh {
		t.Errorf("SentencesFresh() of old file = %v, %v; want stale", exists, fresh)
	}

	neverExpires := &Manager{baseDir: m.BaseDir(), maxAge: 0}
	if _, fresh, _ := neverExpires.SentencesFresh("eng"); !fresh {
		t.Error("zero maxAge should never expire")
	}
}

func TestAnalysisRoundTrip(t *testing.T) {
	m := newTestManager(t, 0)

	if _, err := m.LoadAnalysis("eng"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("LoadAnalysis() of missing artifact error = %v, want fs.ErrNotExist", err)
	}

	a := occurrence.NewAnalysis[int64]([]int{1}, []int{1})
	a.Ngrams[1].Add("e", 9)
	art := &models.AnalysisArtifact{
		Source:   models.AnalysisSource{OriginID: models.WortschatzOriginID, Hash: "abc"},
		Metadata: models.AnalysisMetadata{RunID: "r1", Sentences: 3, Ngrams: []int{1}},
		Analysis: a,
	}
	path, err := m.WriteAnalysis("eng", art)
	if err != nil {
		t.Fatalf("WriteAnalysis() failed: %v", err)
	}
	if path != m.AnalysisPath("eng") {
		t.Errorf("path = %q", path)
	}

	got, err := m.LoadAnalysis("eng")
	if err != nil {
		t.Fatalf("LoadAnalysis() failed: %v", err)
	}
	if got.Source.Hash != "abc" || got.Metadata.Sentences != 3 || !got.Analysis.Equal(a) {
		t.Errorf("LoadAnalysis() = %+v", got)
	}

	// No temp files are left behind.
	entries, _ := os.ReadDir(filepath.Join(m.BaseDir(), AnalysisDir))
	if len(entries) != 1 {
		t.Errorf("analysis dir has %d entries, want 1", len(entries))
	}
}

func TestLoadRecipeFormats(t *testing.T) {
	m := newTestManager(t, 0)

	yamlRecipe := `metadata:
  id: english
  name: English
  languages: [en]
  version: 1.0.0
sources:
  - id: eng_news
    type: analysis
    weight: 2
    strip_punctuation: true
  - id: base
    type: report
    weight: 0.5
`
	jsonRecipe := `{"metadata":{"id":"german","name":"German","languages":["de"],"version":"0.1.0"},
"sources":[{"id":"deu","type":"analysis","weight":1,"strip_nonlatin":true}]}`

	if err := os.WriteFile(filepath.Join(m.BaseDir(), RecipeDir, "english.yml"), []byte(yamlRecipe), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(m.BaseDir(), RecipeDir, "german.json"), []byte(jsonRecipe), 0600); err != nil {
		t.Fatal(err)
	}

	en, err := m.LoadRecipe("english")
	if err != nil {
		t.Fatalf("LoadRecipe(english) failed: %v", err)
	}
	if len(en.Sources) != 2 || !en.Sources[0].StripPunctuation || en.Sources[1].Type != models.SourceReport {
		t.Errorf("english sources = %+v", en.Sources)
	}

	de, err := m.LoadRecipe("german")
	if err != nil {
		t.Fatalf("LoadRecipe(german) failed: %v", err)
	}
	if !de.Sources[0].StripNonLatin || de.Metadata.Version != "0.1.0" {
		t.Errorf("german recipe = %+v", de)
	}

	if _, err := m.LoadRecipe("missing"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("LoadRecipe(missing) error = %v, want fs.ErrNotExist", err)
	}
}

func TestReportRoundTrip(t *testing.T) {
	m := newTestManager(t, 0)

	counts := occurrence.NewAnalysis[int64]([]int{1}, nil)
	counts.Ngrams[1].Add("x", 2)
	rep := &models.Report{
		Metadata:       models.ReportMetadata{RecipeMetadata: models.RecipeMetadata{ID: "r", Version: "1.0.0"}},
		AnalysisCounts: counts,
	}
	path, data, err := m.WriteReport(rep)
	if err != nil {
		t.Fatalf("WriteReport() failed: %v", err)
	}
	if path != m.ReportPath("r") || len(data) == 0 {
		t.Errorf("WriteReport() = %q, %d bytes", path, len(data))
	}

	got, err := m.LoadReport("r")
	if err != nil {
		t.Fatalf("LoadReport() failed: %v", err)
	}
	if got.Metadata.ID != "r" || !got.AnalysisCounts.Equal(counts) {
		t.Errorf("LoadReport() = %+v", got)
	}
}

func TestWriteExportRespectsForce(t *testing.T) {
	m := newTestManager(t, 0)

	path, written, err := m.WriteExport("flat", "r", map[string]int{"a": 1}, false)
	if err != nil || !written {
		t.Fatalf("WriteExport() = %v, %v", written, err)
	}

	_, written, err = m.WriteExport("flat", "r", map[string]int{"a": 2}, false)
	if err != nil || written {
		t.Errorf("second WriteExport() without force = %v, %v; want kept", written, err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "{\n  \"a\": 1\n}" {
		t.Errorf("export content = %q", data)
	}

	if _, written, _ = m.WriteExport("flat", "r", map[string]int{"a": 2}, true); !written {
		t.Error("WriteExport() with force should overwrite")
	}
}
