package validation

import (
	"strings"
	"testing"

	apperrors "github.com/socialchef/hogwarts-kitchen/internal/errors"
	"github.com/socialchef/hogwarts-kitchen/internal/services/recipe"
)

func TestDetectPlaceholders(t *testing.T) {
	tests := []struct {
		text     string
		expected bool
	}{
		{"N/A", true},
		{"unknown", true},
		{"Not Specified", true},
		{"[placeholder]", true},
		{"<TBD>", true},
		{"valid ingredient", false},
		{"Salt", false},
		{"", true},
		{"   ", true},
		{"xxx", true},
	}

	for _, tt := range tests {
		result := DetectPlaceholders(tt.text)
		if result != tt.expected {
			t.Errorf("DetectPlaceholders(%q) = %v; want %v", tt.text, result, tt.expected)
		}
	}
}

func TestValidateRecipe(t *testing.T) {
	config := DefaultRecipeValidationConfig()

	t.Run("Default sample is valid", func(t *testing.T) {
		result := ValidateRecipe(recipe.DefaultRecipeSample().Recipe, config)
		if !result.IsValid {
			t.Errorf("Expected sample recipe to be valid, got issues: %v", result.Issues)
		}
		if result.QualityScore != 100 {
			t.Errorf("Expected quality score 100, got %d", result.QualityScore)
		}
		if err := result.Err(); err != nil {
			t.Errorf("Expected nil error, got %v", err)
		}
	})

	t.Run("Placeholder detection", func(t *testing.T) {
		r := recipe.Recipe{
			Name:         "N/A",
			Ingredients:  []string{"unknown"},
			Instructions: []string{"Stir the cauldron."},
			Servings:     2,
			Difficulty:   "TBD",
			MagicLevel:   "High",
		}

		result := ValidateRecipe(r, config)
		if result.IsValid {
			t.Error("Expected recipe with placeholders to be invalid")
		}
		if !result.HasPlaceholders {
			t.Error("Expected HasPlaceholders to be true")
		}
	})

	t.Run("Empty recipe fails", func(t *testing.T) {
		result := ValidateRecipe(recipe.Recipe{}, config)
		if result.IsValid {
			t.Error("Expected empty recipe to be invalid")
		}
		if result.QualityScore != 0 {
			t.Errorf("Expected quality score 0, got %d", result.QualityScore)
		}
		if len(result.Issues) != 6 {
			t.Errorf("Expected 6 issues, got %d: %v", len(result.Issues), result.Issues)
		}

		appErr, ok := apperrors.As(result.Err())
		if !ok {
			t.Fatal("Expected AppError from Err()")
		}
		if appErr.Type != apperrors.ErrorTypeValidation || appErr.Code() != "INVALID_RECIPE" {
			t.Errorf("Unexpected error %s/%s", appErr.Type, appErr.Code())
		}
	})

	t.Run("Missing single fields", func(t *testing.T) {
		mutations := map[string]func(r *recipe.Recipe){
			"Missing name":        func(r *recipe.Recipe) { r.Name = " " },
			"Too few ingredients": func(r *recipe.Recipe) { r.Ingredients = nil },
			"Too few instructions": func(r *recipe.Recipe) {
				r.Instructions = []string{}
			},
			"Missing servings":   func(r *recipe.Recipe) { r.Servings = 0 },
			"Missing difficulty": func(r *recipe.Recipe) { r.Difficulty = "" },
			"Missing magicLevel": func(r *recipe.Recipe) { r.MagicLevel = "" },
			"Implausible servings": func(r *recipe.Recipe) {
				r.Servings = 1000
			},
		}

		for want, mutate := range mutations {
			r := recipe.DefaultRecipeSample().Recipe
			mutate(&r)

			result := ValidateRecipe(r, config)
			if result.IsValid {
				t.Errorf("%s: expected invalid recipe", want)
				continue
			}
			found := false
			for _, issue := range result.Issues {
				if strings.Contains(issue, want) {
					found = true
				}
			}
			if !found {
				t.Errorf("%s: issue not reported, got %v", want, result.Issues)
			}
		}
	})

	t.Run("Blank instruction among valid ones", func(t *testing.T) {
		r := recipe.DefaultRecipeSample().Recipe
		r.Instructions = append(r.Instructions, "")

		result := ValidateRecipe(r, config)
		if result.IsValid {
			t.Error("Expected blank instruction to be reported")
		}
		if result.QualityScore <= 0 || result.QualityScore >= 100 {
			t.Errorf("Expected partial score, got %d", result.QualityScore)
		}
	})
}
