package kitchen

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/socialchef/hogwarts-kitchen/internal/errors"
	"github.com/socialchef/hogwarts-kitchen/internal/services/portkey"
	"github.com/socialchef/hogwarts-kitchen/internal/services/recipe"
	"github.com/socialchef/hogwarts-kitchen/internal/validation"
)

type requesterFunc func(ctx context.Context, ingredients string) (portkey.Message, error)

func (f requesterFunc) RequestRecipe(ctx context.Context, ingredients string) (portkey.Message, error) {
	return f(ctx, ingredients)
}

func reply(content string) RecipeRequester {
	return requesterFunc(func(ctx context.Context, ingredients string) (portkey.Message, error) {
		return portkey.Message{Role: portkey.RoleAssistant, Content: content}, nil
	})
}

const pancakes = `{"recipe":{"name":"Golden Snitch Pancakes","ingredients":["flour","eggs","sugar"],"instructions":["Whisk","Fry","Serve"],"servings":2,"difficulty":"Easy","magicLevel":"Medium"}}`

func TestController_SubmitRecipe(t *testing.T) {
	c := NewController(reply(pancakes))
	assert.Equal(t, StateIdle, c.State())

	result, err := c.Submit(context.Background(), "flour, eggs, sugar")
	require.NoError(t, err)
	require.True(t, result.HasRecipe())
	assert.Equal(t, "Golden Snitch Pancakes", result.Recipe.Name)
	assert.Equal(t, StateRendered, c.State())
	assert.Equal(t, result, c.Last())
}

func TestController_SubmitNoRecipe(t *testing.T) {
	c := NewController(reply("false"))

	result, err := c.Submit(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, recipe.KindNoRecipe, result.Kind)
	assert.False(t, result.HasRecipe())
	assert.Equal(t, StateRendered, c.State())
}

func TestController_ErrorsReturnToIdle(t *testing.T) {
	tests := []struct {
		name      string
		requester RecipeRequester
	}{
		{"request failure", requesterFunc(func(ctx context.Context, ingredients string) (portkey.Message, error) {
			return portkey.Message{}, errors.New("status 400: Unexpected error occured")
		})},
		{"unparseable content", reply("Sorry, I cannot help with that.")},
		{"empty content", reply("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(tt.requester)
			_, err := c.Submit(context.Background(), "flour")
			assert.Error(t, err)
			assert.Equal(t, StateIdle, c.State())
		})
	}
}

func TestController_UnparseableIsRecipeGenerationError(t *testing.T) {
	c := NewController(reply("Sorry, I cannot help with that."))
	_, err := c.Submit(context.Background(), "flour")
	require.Error(t, err)

	assert.ErrorIs(t, err, recipe.ErrUnparseableContent)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeRecipeGeneration, appErr.Type)
	assert.Equal(t, CodeUnparseableRecipe, appErr.Code())
	assert.NotEmpty(t, appErr.RecoverySuggestion())
}

func TestController_RejectsConcurrentSubmit(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	c := NewController(requesterFunc(func(ctx context.Context, ingredients string) (portkey.Message, error) {
		close(entered)
		<-release
		return portkey.Message{Content: "false"}, nil
	}))

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), "eggs")
		done <- err
	}()

	<-entered
	assert.Equal(t, StateSubmitting, c.State())
	_, err := c.Submit(context.Background(), "eggs")
	assert.ErrorIs(t, err, ErrSubmitting)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateRendered, c.State())
}

func TestController_Validation(t *testing.T) {
	cfg := validation.DefaultRecipeValidationConfig()

	c := NewController(reply(`{"recipe":{"name":"Half a Potion","instructions":["Stir"]}}`))
	c.Validation = &cfg
	_, err := c.Submit(context.Background(), "eggs")
	assert.Error(t, err)
	assert.Equal(t, StateIdle, c.State())

	c = NewController(reply(pancakes))
	c.Validation = &cfg
	_, err = c.Submit(context.Background(), "eggs")
	assert.NoError(t, err)
}

func TestRender(t *testing.T) {
	result, err := recipe.ParseContent(pancakes)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, result))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Golden Snitch Pancakes\n"))
	assert.Contains(t, out, "  1. Whisk\n")
	assert.Contains(t, out, "  2. Fry\n")
	assert.Contains(t, out, "  3. Serve\n")
	assert.Contains(t, out, "  - eggs\n")

	buf.Reset()
	require.NoError(t, Render(&buf, recipe.NoRecipeFound()))
	assert.Equal(t, NoRecipeMessage+"\n", buf.String())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "submitting", StateSubmitting.String())
	assert.Equal(t, "rendered", StateRendered.String())
	assert.Equal(t, "unknown", State(99).String())
}
