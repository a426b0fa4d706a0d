// Package report combines weighted analyses into a normalized report.
package report

import (
	"math"

	"github.com/dtnitsch/corporalyser/models"
	"github.com/dtnitsch/corporalyser/pkg/occurrence"
	"github.com/dtnitsch/corporalyser/pkg/transform"
)

// Resolver fetches the integer analysis behind a recipe source. The returned
// analysis is treated as read-only.
type Resolver interface {
	Resolve(src models.ReportSource) (*occurrence.Analysis[int64], error)
}

// Result holds the three aggregates of a report, each sorted descending.
type Result struct {
	Counts         *occurrence.Analysis[int64]
	WeightedCounts *occurrence.Analysis[float64]
	Frequencies    *occurrence.Analysis[float64]
}

// Compute resolves every source, applies its transform and sums the results.
// Weights are checked before any source is resolved.
func Compute(sources []models.ReportSource, r Resolver) (*Result, error) {
	total, err := validateWeights(sources)
	if err != nil {
		return nil, err
	}

	counts := occurrence.NewAnalysis[int64](nil, nil)
	weighted := occurrence.NewAnalysis[float64](nil, nil)

	for _, src := range sources {
		resolved, err := r.Resolve(src)
		if err != nil {
			return nil, err
		}

		a := resolved.Clone()
		transform.Apply(a, src.Transform())

		counts.Merge(a)
		weighted.Merge(occurrence.Scale(a, src.Weight/total))
	}

	frequencies := weighted.Clone()
	occurrence.NormalizeAnalysis(frequencies)

	counts.Sort()
	weighted.Sort()
	frequencies.Sort()

	return &Result{
		Counts:         counts,
		WeightedCounts: weighted,
		Frequencies:    frequencies,
	}, nil
}

func validateWeights(sources []models.ReportSource) (float64, error) {
	weights := make([]float64, len(sources))
	var total float64
	for i, src := range sources {
		weights[i] = src.Weight
		total += src.Weight
	}

	for _, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return 0, &WeightError{Weights: weights, Total: total, Reason: "weights must be finite"}
		}
		if w < 0 {
			return 0, &WeightError{Weights: weights, Total: total, Reason: "weights must not be negative"}
		}
	}
	if !(total > 0) || math.IsInf(total, 0) {
		return 0, &WeightError{Weights: weights, Total: total, Reason: "weights must sum to a positive number"}
	}
	return total, nil
}
