package validation

import (
	"fmt"
	"strings"

	apperrors "github.com/socialchef/hogwarts-kitchen/internal/errors"
	"github.com/socialchef/hogwarts-kitchen/internal/services/recipe"
)

// RecipeValidationConfig defines the thresholds a generated recipe must meet
type RecipeValidationConfig struct {
	MinIngredients  int
	MinInstructions int
	MaxServings     int
}

// DefaultRecipeValidationConfig requires every field to be present and non-placeholder.
func DefaultRecipeValidationConfig() RecipeValidationConfig {
	return RecipeValidationConfig{
		MinIngredients:  1,
		MinInstructions: 1,
		MaxServings:     100,
	}
}

// RecipeValidationResult contains the outcome of validation
type RecipeValidationResult struct {
	IsValid         bool     `json:"is_valid"`
	QualityScore    int      `json:"quality_score"`
	Issues          []string `json:"issues"`
	HasPlaceholders bool     `json:"has_placeholders"`
}

// Err returns the issues as a validation AppError, or nil when valid.
func (r RecipeValidationResult) Err() error {
	if r.IsValid {
		return nil
	}
	return apperrors.NewValidationError(
		"generated recipe is incomplete: "+strings.Join(r.Issues, "; "),
		"INVALID_RECIPE",
		"Ask again, possibly with a clearer list of ingredients.",
	)
}

var placeholderValues = map[string]bool{
	"n/a": true, "na": true, "unknown": true, "not specified": true, "tbd": true,
	"xxx": true, "placeholder": true, "none": true, "null": true, "...": true,
}

// DetectPlaceholders reports whether text is empty or a stand-in value
func DetectPlaceholders(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return true
	}
	if (strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]")) ||
		(strings.HasPrefix(t, "<") && strings.HasSuffix(t, ">")) {
		return true
	}
	return placeholderValues[t]
}

// ValidateRecipe checks that every recipe field a renderer relies on is present.
func ValidateRecipe(r recipe.Recipe, config RecipeValidationConfig) RecipeValidationResult {
	result := RecipeValidationResult{Issues: []string{}}

	checkText := func(field, value string, points int) {
		switch {
		case strings.TrimSpace(value) == "":
			result.Issues = append(result.Issues, fmt.Sprintf("Missing %s", field))
		case DetectPlaceholders(value):
			result.HasPlaceholders = true
			result.Issues = append(result.Issues, fmt.Sprintf("Placeholder %s: %q", field, value))
		default:
			result.QualityScore += points
		}
	}

	checkList := func(field string, items []string, min, points int) {
		valid := 0
		for _, item := range items {
			if DetectPlaceholders(item) {
				if strings.TrimSpace(item) != "" {
					result.HasPlaceholders = true
				}
				continue
			}
			valid++
		}
		if valid < min {
			result.Issues = append(result.Issues, fmt.Sprintf("Too few %s (%d, need %d)", field, valid, min))
			return
		}
		if valid < len(items) {
			result.Issues = append(result.Issues, fmt.Sprintf("%d empty or placeholder %s", len(items)-valid, field))
			result.QualityScore += points / 2
			return
		}
		result.QualityScore += points
	}

	checkText("name", r.Name, 20)
	checkList("ingredients", r.Ingredients, config.MinIngredients, 25)
	checkList("instructions", r.Instructions, config.MinInstructions, 25)

	switch {
	case r.Servings <= 0:
		result.Issues = append(result.Issues, "Missing servings")
	case config.MaxServings > 0 && r.Servings > config.MaxServings:
		result.Issues = append(result.Issues, fmt.Sprintf("Implausible servings: %d", r.Servings))
	default:
		result.QualityScore += 10
	}

	checkText("difficulty", r.Difficulty, 10)
	checkText("magicLevel", r.MagicLevel, 10)

	result.IsValid = len(result.Issues) == 0
	return result
}
