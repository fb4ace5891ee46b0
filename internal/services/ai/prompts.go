package ai

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/socialchef/hogwarts-kitchen/internal/services/recipe"
)

// SystemRole is the persona sent as the system message of every recipe request.
const SystemRole = `You are head chef at Hogwarts. You can use any ingredients to prepare innovative recipes and dishes for Hogwards students!`

const taskSection = `Create a recipe with the list of ingredients defined in the markup.`

const pantrySection = `You can include typical ingredients found in a kitchen, such as salt, pepper, condiments.`

const noRecipeSection = `If the list of ingredients is empty or you can't find ingredients inside, just answer with "false" without any other character.`

const outputFormatOpen = `If you've found a recipe, send the output in JSON format as the following example in '''`

const fence = `'''`

// BuildRecipePrompt builds the user prompt for a list of ingredients. The
// ingredients are embedded JSON-escaped inside <ingredients> markup and the
// sample is embedded serialized as the answer shape.
func BuildRecipePrompt(ingredients string, sample recipe.RecipeSample) string {
	var sb strings.Builder
	sb.WriteString(taskSection)
	sb.WriteString("\n")
	sb.WriteString("<ingredients>")
	sb.WriteString(ToJSON(ingredients))
	sb.WriteString("</ingredients>")
	sb.WriteString("\n")
	sb.WriteString(pantrySection)
	sb.WriteString("\n")
	sb.WriteString(noRecipeSection)
	sb.WriteString("\n")
	sb.WriteString(outputFormatOpen)
	sb.WriteString("\n")
	sb.WriteString(fence)
	sb.WriteString("\n")
	sb.WriteString(ToJSON(sample))
	sb.WriteString("\n")
	sb.WriteString(fence)

	return sb.String()
}

// ToJSON serializes v without HTML escaping, so "<", ">" and "&" in
// ingredient text reach the model unchanged.
func ToJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		// strings and recipe samples always encode
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
