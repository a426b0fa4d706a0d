package report

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"testing"

	"github.com/dtnitsch/corporalyser/models"
	"github.com/dtnitsch/corporalyser/pkg/occurrence"
	"github.com/dtnitsch/corporalyser/pkg/transform"
)

type memStore struct {
	analyses map[string]*models.AnalysisArtifact
	recipes  map[string]*models.ReportRecipe
	reports  map[string]*models.Report
	loads    map[string]int
}

func newMemStore() *memStore {
	return &memStore{
		analyses: map[string]*models.AnalysisArtifact{},
		recipes:  map[string]*models.ReportRecipe{},
		reports:  map[string]*models.Report{},
		loads:    map[string]int{},
	}
}

func (s *memStore) LoadAnalysis(id string) (*models.AnalysisArtifact, error) {
	s.loads["analysis/"+id]++
	if a, ok := s.analyses[id]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("analysis %s: %w", id, fs.ErrNotExist)
}

func (s *memStore) LoadRecipe(id string) (*models.ReportRecipe, error) {
	s.loads["recipe/"+id]++
	if r, ok := s.recipes[id]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("recipe %s: %w", id, fs.ErrNotExist)
}

func (s *memStore) LoadReport(id string) (*models.Report, error) {
	if r, ok := s.reports[id]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("report %s: %w", id, fs.ErrNotExist)
}

func corpus(pairs map[occurrence.Countable]int64) *occurrence.Analysis[int64] {
	a := occurrence.NewAnalysis[int64]([]int{1, 2}, []int{1})
	for k, v := range pairs {
		switch len([]rune(string(k))) {
		case 1:
			a.Ngrams[1].Add(k, v)
		case 2:
			a.Ngrams[2].Add(k, v)
		}
		a.Words.Add(k, v)
	}
	a.Skipgrams[1].Add("ac", 1)
	return a
}

func (s *memStore) addAnalysis(id string, a *occurrence.Analysis[int64]) {
	s.analyses[id] = &models.AnalysisArtifact{Analysis: a}
}

func recipe(id string, sources ...models.ReportSource) *models.ReportRecipe {
	return &models.ReportRecipe{
		Metadata: models.RecipeMetadata{ID: id, Name: id, Version: "1.0.0"},
		Sources:  sources,
	}
}

func src(id string, typ models.SourceType, weight float64) models.ReportSource {
	return models.ReportSource{ID: id, Type: typ, Weight: weight}
}

func TestComputeEqualWeightsCancel(t *testing.T) {
	store := newMemStore()
	store.addAnalysis("en", corpus(map[occurrence.Countable]int64{"a": 3, "b": 1, "ab": 2}))
	r := NewStoreResolver(store, "run")

	res, err := Compute([]models.ReportSource{
		src("en", models.SourceAnalysis, 2.5),
		src("en", models.SourceAnalysis, 2.5),
	}, r)
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}

	original := occurrence.Scale(store.analyses["en"].Analysis, 1)
	if !res.WeightedCounts.Equal(original) {
		t.Error("weighted counts of two identical equal-weight sources should equal the source")
	}
	if v, _ := res.Counts.Ngrams[1].Get("a"); v != 6 {
		t.Errorf("counts ngrams[1][a] = %d, want 6", v)
	}
	for _, n := range res.Frequencies.Ngrams.Keys() {
		if got := res.Frequencies.Ngrams[n].Sum(); math.Abs(got-1) > 1e-9 {
			t.Errorf("frequencies ngrams[%d] sum = %v", n, got)
		}
	}
	if first := res.Counts.Ngrams[1].Entries()[0]; first.Key != "a" {
		t.Errorf("counts not sorted: first entry %v", first)
	}
}

func TestComputeWeighting(t *testing.T) {
	store := newMemStore()
	store.addAnalysis("x", corpus(map[occurrence.Countable]int64{"a": 4}))
	store.addAnalysis("y", corpus(map[occurrence.Countable]int64{"b": 4}))

	res, err := Compute([]models.ReportSource{
		src("x", models.SourceAnalysis, 3),
		src("y", models.SourceAnalysis, 1),
	}, NewStoreResolver(store, "run"))
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}
	if v, _ := res.Frequencies.Ngrams[1].Get("a"); math.Abs(v-0.75) > 1e-12 {
		t.Errorf("frequency of a = %v, want 0.75", v)
	}
	if v, _ := res.WeightedCounts.Ngrams[1].Get("b"); v != 1 {
		t.Errorf("weighted count of b = %v, want 1", v)
	}
}

func TestComputeInvalidWeights(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
	}{
		{"zero total", []float64{0, 0}},
		{"no sources", nil},
		{"negative", []float64{2, -1}},
		{"nan", []float64{math.NaN(), 1}},
		{"inf", []float64{math.Inf(1), 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			store.addAnalysis("en", corpus(map[occurrence.Countable]int64{"a": 1}))
			var sources []models.ReportSource
			for _, w := range tt.weights {
				sources = append(sources, src("en", models.SourceAnalysis, w))
			}

			_, err := Compute(sources, NewStoreResolver(store, "run"))
			if !errors.Is(err, ErrInvalidWeights) {
				t.Fatalf("Compute() error = %v, want ErrInvalidWeights", err)
			}
			var we *WeightError
			if !errors.As(err, &we) || len(we.Weights) != len(tt.weights) {
				t.Errorf("error should carry the weights, got %v", err)
			}
			if store.loads["analysis/en"] != 0 {
				t.Error("weights should be checked before sources are resolved")
			}
		})
	}
}

func TestComputeSourceNotFound(t *testing.T) {
	store := newMemStore()
	store.addAnalysis("en", corpus(map[occurrence.Countable]int64{"a": 1}))

	_, err := Compute([]models.ReportSource{
		src("en", models.SourceAnalysis, 1),
		src("missing", models.SourceAnalysis, 0.5),
	}, NewStoreResolver(store, "run"))
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("Compute() error = %v, want ErrSourceNotFound", err)
	}
	var se *SourceError
	if !errors.As(err, &se) {
		t.Fatalf("error should be a SourceError, got %T", err)
	}
	if se.ID != "missing" || se.Weight != 0.5 || se.Type != models.SourceAnalysis {
		t.Errorf("SourceError = %+v", se)
	}
}

func TestComputeAppliesTransformsPerSource(t *testing.T) {
	store := newMemStore()
	store.addAnalysis("en", corpus(map[occurrence.Countable]int64{"a": 2, " ": 5, "a ": 1}))

	stripped := src("en", models.SourceAnalysis, 1)
	stripped.Spec = transform.Spec{StripWhitespace: true}

	res, err := Compute([]models.ReportSource{stripped, src("en", models.SourceAnalysis, 1)}, NewStoreResolver(store, "run"))
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}
	if v, _ := res.Counts.Ngrams[1].Get(" "); v != 5 {
		t.Errorf("counts[ ] = %d, want 5 (only the untransformed source)", v)
	}
	if v, _ := res.Counts.Words.Get("a"); v != 2+1+2 {
		t.Errorf("words[a] = %d, want 5", v)
	}
	// The stored analysis is not modified.
	if v, _ := store.analyses["en"].Analysis.Ngrams[1].Get(" "); v != 5 {
		t.Error("transform leaked into the stored analysis")
	}
}

func TestBuildNestedReport(t *testing.T) {
	store := newMemStore()
	store.addAnalysis("de", corpus(map[occurrence.Countable]int64{"ä": 2}))
	store.addAnalysis("en", corpus(map[occurrence.Countable]int64{"a": 4}))
	store.recipes["german"] = recipe("german", src("de", models.SourceAnalysis, 1))
	store.recipes["mixed"] = recipe("mixed",
		src("german", models.SourceReport, 1),
		src("german", models.SourceReport, 1),
		src("en", models.SourceAnalysis, 2),
	)

	r := NewStoreResolver(store, "01TESTRUN")
	rep, err := r.Build("mixed")
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if v, _ := rep.AnalysisCounts.Ngrams[1].Get("ä"); v != 4 {
		t.Errorf("counts[ä] = %d, want 4", v)
	}
	if v, _ := rep.AnalysisFrequencies.Ngrams[1].Get("ä"); math.Abs(v-1.0/3.0) > 1e-12 {
		t.Errorf("frequency[ä] = %v, want 1/3", v)
	}
	if store.loads["recipe/german"] != 1 {
		t.Errorf("nested recipe loaded %d times, want 1", store.loads["recipe/german"])
	}
	if rep.Metadata.RunID != "01TESTRUN" || rep.Metadata.ID != "mixed" {
		t.Errorf("metadata = %+v", rep.Metadata)
	}
	if len(rep.Sources) != 3 {
		t.Errorf("sources echoed = %d, want 3", len(rep.Sources))
	}
}

func TestBuildDefaultsIDWithoutTouchingStoredRecipe(t *testing.T) {
	store := newMemStore()
	store.addAnalysis("en", corpus(map[occurrence.Countable]int64{"a": 1}))
	stored := recipe("", src("en", models.SourceAnalysis, 1))
	store.recipes["english"] = stored

	rep, err := NewStoreResolver(store, "run").Build("english")
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if rep.Metadata.ID != "english" {
		t.Errorf("report id = %q, want english", rep.Metadata.ID)
	}
	if stored.Metadata.ID != "" {
		t.Errorf("stored recipe id = %q, want it left empty", stored.Metadata.ID)
	}
}

func TestBuildFallsBackToPersistedReport(t *testing.T) {
	store := newMemStore()
	store.reports["old"] = &models.Report{AnalysisCounts: corpus(map[occurrence.Countable]int64{"q": 7})}
	store.recipes["new"] = recipe("new", src("old", models.SourceReport, 1))

	rep, err := NewStoreResolver(store, "run").Build("new")
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if v, _ := rep.AnalysisCounts.Ngrams[1].Get("q"); v != 7 {
		t.Errorf("counts[q] = %d, want 7", v)
	}
}

func TestBuildMissingNestedReport(t *testing.T) {
	store := newMemStore()
	store.recipes["top"] = recipe("top", src("ghost", models.SourceReport, 2))

	_, err := NewStoreResolver(store, "run").Build("top")
	var se *SourceError
	if !errors.As(err, &se) || se.ID != "ghost" || se.Type != models.SourceReport || se.Weight != 2 {
		t.Fatalf("Build() error = %v, want SourceError for ghost", err)
	}
}

func TestBuildDetectsCycles(t *testing.T) {
	tests := []struct {
		name    string
		recipes map[string]*models.ReportRecipe
		want    []string
	}{
		{
			name:    "self reference",
			recipes: map[string]*models.ReportRecipe{"a": recipe("a", src("a", models.SourceReport, 1))},
			want:    []string{"a", "a"},
		},
		{
			name: "three step",
			recipes: map[string]*models.ReportRecipe{
				"a": recipe("a", src("b", models.SourceReport, 1)),
				"b": recipe("b", src("c", models.SourceReport, 1)),
				"c": recipe("c", src("a", models.SourceReport, 1)),
			},
			want: []string{"a", "b", "c", "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			store.recipes = tt.recipes

			_, err := NewStoreResolver(store, "run").Build("a")
			if !errors.Is(err, ErrCyclicReportReference) {
				t.Fatalf("Build() error = %v, want ErrCyclicReportReference", err)
			}
			var ce *CycleError
			if !errors.As(err, &ce) {
				t.Fatalf("error should be a CycleError, got %T", err)
			}
			if fmt.Sprint(ce.Chain) != fmt.Sprint(tt.want) {
				t.Errorf("chain = %v, want %v", ce.Chain, tt.want)
			}
		})
	}
}

func TestBuildDiamondIsNotACycle(t *testing.T) {
	store := newMemStore()
	store.addAnalysis("en", corpus(map[occurrence.Countable]int64{"a": 1}))
	store.recipes["base"] = recipe("base", src("en", models.SourceAnalysis, 1))
	store.recipes["left"] = recipe("left", src("base", models.SourceReport, 1))
	store.recipes["right"] = recipe("right", src("base", models.SourceReport, 1))
	store.recipes["top"] = recipe("top", src("left", models.SourceReport, 1), src("right", models.SourceReport, 1))

	rep, err := NewStoreResolver(store, "run").Build("top")
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if v, _ := rep.AnalysisCounts.Ngrams[1].Get("a"); v != 2 {
		t.Errorf("counts[a] = %d, want 2", v)
	}
}

func TestValidateRecipe(t *testing.T) {
	tests := []struct {
		name    string
		recipe  *models.ReportRecipe
		wantErr bool
	}{
		{"valid", recipe("r", src("en", models.SourceAnalysis, 1)), false},
		{"v prefix", &models.ReportRecipe{Metadata: models.RecipeMetadata{ID: "r", Version: "v2.1.0"}, Sources: []models.ReportSource{src("en", models.SourceAnalysis, 1)}}, false},
		{"missing id", &models.ReportRecipe{Metadata: models.RecipeMetadata{Version: "1.0.0"}, Sources: []models.ReportSource{src("en", models.SourceAnalysis, 1)}}, true},
		{"bad version", &models.ReportRecipe{Metadata: models.RecipeMetadata{ID: "r", Version: "latest"}, Sources: []models.ReportSource{src("en", models.SourceAnalysis, 1)}}, true},
		{"no sources", recipe("r"), true},
		{"unknown type", recipe("r", src("en", "corpus", 1)), true},
		{"empty source id", recipe("r", src("", models.SourceAnalysis, 1)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecipe(tt.recipe)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateRecipe() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidRecipe) {
				t.Errorf("error should wrap ErrInvalidRecipe: %v", err)
			}
		})
	}
}
