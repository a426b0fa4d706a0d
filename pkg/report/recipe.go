package report

import (
	"fmt"
	"strings"

	"github.com/dtnitsch/corporalyser/models"
	"golang.org/x/mod/semver"
)

// ValidateRecipe checks the parts of a recipe that do not need any source to
// be loaded. Weights are checked by Compute.
func ValidateRecipe(recipe *models.ReportRecipe) error {
	if recipe.Metadata.ID == "" {
		return fmt.Errorf("%w: metadata.id is required", ErrInvalidRecipe)
	}
	if !semver.IsValid(canonicalVersion(recipe.Metadata.Version)) {
		return fmt.Errorf("%w: %q: version %q is not a semantic version", ErrInvalidRecipe, recipe.Metadata.ID, recipe.Metadata.Version)
	}
	if len(recipe.Sources) == 0 {
		return fmt.Errorf("%w: %q has no sources", ErrInvalidRecipe, recipe.Metadata.ID)
	}
	for i, src := range recipe.Sources {
		if src.ID == "" {
			return fmt.Errorf("%w: %q: source %d has no id", ErrInvalidRecipe, recipe.Metadata.ID, i)
		}
		if !src.Type.Valid() {
			return fmt.Errorf("%w: %q: source %q has unknown type %q", ErrInvalidRecipe, recipe.Metadata.ID, src.ID, src.Type)
		}
	}
	return nil
}

// canonicalVersion accepts both "1.2.0" and "v1.2.0".
func canonicalVersion(v string) string {
	if v == "" || strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
