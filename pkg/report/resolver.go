package report

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"time"

	"github.com/dtnitsch/corporalyser/models"
	"github.com/dtnitsch/corporalyser/pkg/occurrence"
)

// Store loads persisted artifacts by id. Missing artifacts must be reported
// with an error wrapping fs.ErrNotExist.
type Store interface {
	LoadAnalysis(id string) (*models.AnalysisArtifact, error)
	LoadRecipe(id string) (*models.ReportRecipe, error)
	LoadReport(id string) (*models.Report, error)
}

// StoreResolver resolves analyses from a Store and builds nested reports from
// their recipes. Reports built during one run are cached by id. Not safe for
// concurrent use.
type StoreResolver struct {
	store    Store
	runID    string
	built    map[string]*models.Report
	visiting []string
}

// NewStoreResolver creates a resolver that stamps every report it builds with runID.
func NewStoreResolver(store Store, runID string) *StoreResolver {
	return &StoreResolver{
		store: store,
		runID: runID,
		built: make(map[string]*models.Report),
	}
}

// Build aggregates the recipe stored under id into a report.
func (r *StoreResolver) Build(id string) (*models.Report, error) {
	if rep, ok := r.built[id]; ok {
		return rep, nil
	}
	recipe, err := r.store.LoadRecipe(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe %q: %w", id, err)
	}
	return r.compose(id, recipe)
}

// Resolve implements Resolver.
func (r *StoreResolver) Resolve(src models.ReportSource) (*occurrence.Analysis[int64], error) {
	switch src.Type {
	case models.SourceAnalysis:
		art, err := r.store.LoadAnalysis(src.ID)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &SourceError{ID: src.ID, Type: src.Type, Weight: src.Weight, Err: err}
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load analysis %q: %w", src.ID, err)
		}
		if art.Analysis == nil {
			return occurrence.NewAnalysis[int64](nil, nil), nil
		}
		return art.Analysis, nil

	case models.SourceReport:
		rep, err := r.resolveReport(src)
		if err != nil {
			return nil, err
		}
		if rep.AnalysisCounts == nil {
			return occurrence.NewAnalysis[int64](nil, nil), nil
		}
		return rep.AnalysisCounts, nil
	}
	return nil, fmt.Errorf("%w: source %q has unknown type %q", ErrInvalidRecipe, src.ID, src.Type)
}

func (r *StoreResolver) resolveReport(src models.ReportSource) (*models.Report, error) {
	if rep, ok := r.built[src.ID]; ok {
		return rep, nil
	}
	if slices.Contains(r.visiting, src.ID) {
		chain := append(slices.Clone(r.visiting), src.ID)
		return nil, &CycleError{Chain: chain}
	}

	recipe, err := r.store.LoadRecipe(src.ID)
	if err == nil {
		return r.compose(src.ID, recipe)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load recipe %q: %w", src.ID, err)
	}

	// No recipe: use the report artifact as persisted.
	rep, err := r.store.LoadReport(src.ID)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &SourceError{ID: src.ID, Type: src.Type, Weight: src.Weight, Err: err}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report %q: %w", src.ID, err)
	}
	r.built[src.ID] = rep
	return rep, nil
}

// compose builds a report from recipe. The recipe belongs to the store and is
// not modified.
func (r *StoreResolver) compose(id string, stored *models.ReportRecipe) (*models.Report, error) {
	recipe := *stored
	if recipe.Metadata.ID == "" {
		recipe.Metadata.ID = id
	}
	if err := ValidateRecipe(&recipe); err != nil {
		return nil, err
	}

	r.visiting = append(r.visiting, id)
	defer func() { r.visiting = r.visiting[:len(r.visiting)-1] }()

	res, err := Compute(recipe.Sources, r)
	if err != nil {
		return nil, fmt.Errorf("failed to build report %q: %w", id, err)
	}

	rep := &models.Report{
		Metadata: models.ReportMetadata{
			RecipeMetadata: recipe.Metadata,
			ProcessDate:    time.Now().UTC(),
			RunID:          r.runID,
		},
		Sources:                recipe.Sources,
		AnalysisCounts:         res.Counts,
		AnalysisWeightedCounts: res.WeightedCounts,
		AnalysisFrequencies:    res.Frequencies,
	}
	r.built[id] = rep
	return rep, nil
}
