package recipe

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// NoRecipeSentinel is the bare answer a model gives when it found no usable ingredients.
const NoRecipeSentinel = "false"

// Kind tags the two valid interpretations of a completion's content.
type Kind int

const (
	KindNoRecipe Kind = iota + 1
	KindRecipe
)

func (k Kind) String() string {
	switch k {
	case KindNoRecipe:
		return "no_recipe"
	case KindRecipe:
		return "recipe"
	default:
		return "unknown"
	}
}

// Result is the parsed form of a completion's content: either the
// no-recipe sentinel or a recipe.
type Result struct {
	Kind   Kind
	Recipe *Recipe
}

// NoRecipeFound returns the Result for the sentinel answer.
func NoRecipeFound() Result {
	return Result{Kind: KindNoRecipe}
}

// Found returns the Result carrying r.
func Found(r Recipe) Result {
	return Result{Kind: KindRecipe, Recipe: &r}
}

func (r Result) HasRecipe() bool {
	return r.Kind == KindRecipe && r.Recipe != nil
}

// ErrUnparseableContent is returned when content is neither the sentinel nor a recipe document.
var ErrUnparseableContent = errors.New("completion content is neither \"false\" nor a recipe")

// ParseContent interprets a completion's message content. It never guesses:
// anything other than the sentinel or a {"recipe": {...}} object is an error.
func ParseContent(content string) (Result, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == NoRecipeSentinel {
		return NoRecipeFound(), nil
	}
	if trimmed == "" {
		return Result{}, fmt.Errorf("%w: empty content", ErrUnparseableContent)
	}

	var doc struct {
		Recipe *Recipe `json:"recipe"`
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(trimmed)))
	if err := dec.Decode(&doc); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnparseableContent, err)
	}
	if dec.More() {
		return Result{}, fmt.Errorf("%w: trailing data after recipe", ErrUnparseableContent)
	}
	if doc.Recipe == nil {
		return Result{}, fmt.Errorf("%w: missing \"recipe\" object", ErrUnparseableContent)
	}

	return Found(*doc.Recipe), nil
}
