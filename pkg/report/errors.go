package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dtnitsch/corporalyser/models"
)

var (
	ErrSourceNotFound        = errors.New("source not found")
	ErrInvalidWeights        = errors.New("invalid weights")
	ErrCyclicReportReference = errors.New("cyclic report reference")
	ErrInvalidRecipe         = errors.New("invalid recipe")
)

// SourceError identifies the recipe entry that could not be resolved.
type SourceError struct {
	ID     string
	Type   models.SourceType
	Weight float64
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s source %q (weight %g) not found: %v", e.Type, e.ID, e.Weight, e.Err)
}

func (e *SourceError) Unwrap() []error {
	return []error{ErrSourceNotFound, e.Err}
}

// WeightError carries the weights of a recipe that cannot be normalized.
type WeightError struct {
	Weights []float64
	Total   float64
	Reason  string
}

func (e *WeightError) Error() string {
	return fmt.Sprintf("invalid weights %v (total %g): %s", e.Weights, e.Total, e.Reason)
}

func (e *WeightError) Unwrap() error { return ErrInvalidWeights }

// CycleError carries the chain of report ids that leads back to itself.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cyclic report reference: %s", strings.Join(e.Chain, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCyclicReportReference }
