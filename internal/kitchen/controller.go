package kitchen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	apperrors "github.com/socialchef/hogwarts-kitchen/internal/errors"
	"github.com/socialchef/hogwarts-kitchen/internal/services/portkey"
	"github.com/socialchef/hogwarts-kitchen/internal/services/recipe"
	"github.com/socialchef/hogwarts-kitchen/internal/validation"
)

// State is the controller's position in the submit cycle.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateRendered
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateRendered:
		return "rendered"
	default:
		return "unknown"
	}
}

// Placeholder is shown while a request is in flight.
const Placeholder = "⏳Chef is writing recipe for you..."

// NoRecipeMessage is shown when the model found nothing to cook.
const NoRecipeMessage = "No recipe could be made from those ingredients. Try adding a few more."

// CodeUnparseableRecipe tags answers that are neither "false" nor a recipe.
const CodeUnparseableRecipe = "RECIPE_UNPARSEABLE"

// ErrSubmitting is returned when Submit is called while a request is in flight.
var ErrSubmitting = errors.New("a recipe is already being written")

// RecipeRequester fetches the completion message for a list of ingredients.
type RecipeRequester interface {
	RequestRecipe(ctx context.Context, ingredients string) (portkey.Message, error)
}

// Controller drives one input through Idle -> Submitting -> Rendered.
// Any failure returns it to Idle so the input is usable again.
type Controller struct {
	requester RecipeRequester
	// Validation, when set, rejects recipes missing required fields.
	Validation *validation.RecipeValidationConfig

	mu    sync.Mutex
	state State
	last  recipe.Result
}

func NewController(requester RecipeRequester) *Controller {
	return &Controller{requester: requester}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Last returns the most recently rendered result.
func (c *Controller) Last() recipe.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Submit requests a recipe and interprets the content. The controller is never
// left in StateSubmitting once Submit returns.
func (c *Controller) Submit(ctx context.Context, ingredients string) (result recipe.Result, err error) {
	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return recipe.Result{}, ErrSubmitting
	}
	c.state = StateSubmitting
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.state = StateIdle
			return
		}
		c.state = StateRendered
		c.last = result
	}()

	msg, err := c.requester.RequestRecipe(ctx, ingredients)
	if err != nil {
		return recipe.Result{}, err
	}

	result, err = recipe.ParseContent(msg.Content)
	if err != nil {
		return recipe.Result{}, apperrors.NewRecipeGenerationError("the chef's answer could not be read", CodeUnparseableRecipe, err)
	}

	if result.HasRecipe() && c.Validation != nil {
		if err := validation.ValidateRecipe(*result.Recipe, *c.Validation).Err(); err != nil {
			return recipe.Result{}, err
		}
	}
	return result, nil
}

// Render writes result for a terminal: the no-recipe notice, or the recipe
// name followed by its numbered instructions.
func Render(w io.Writer, result recipe.Result) error {
	if !result.HasRecipe() {
		_, err := fmt.Fprintln(w, NoRecipeMessage)
		return err
	}

	r := result.Recipe
	var b strings.Builder
	b.WriteString(r.Name)
	b.WriteString("\n")
	if r.Servings > 0 || r.Difficulty != "" || r.MagicLevel != "" {
		fmt.Fprintf(&b, "Serves %d | %s | Magic: %s\n", r.Servings, r.Difficulty, r.MagicLevel)
	}
	if len(r.Ingredients) > 0 {
		b.WriteString("\nIngredients:\n")
		for _, ing := range r.Ingredients {
			fmt.Fprintf(&b, "  - %s\n", ing)
		}
	}
	b.WriteString("\nInstructions:\n")
	for i, step := range r.Instructions {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, step)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
