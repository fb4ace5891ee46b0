package recipe

// Recipe is the shape the model is asked to produce.
type Recipe struct {
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	Servings     int      `json:"servings"`
	Difficulty   string   `json:"difficulty"`
	MagicLevel   string   `json:"magicLevel"`
}

// RecipeSample wraps a Recipe the way the model must answer: {"recipe": {...}}.
// It is embedded in prompts as an example and is never validated at runtime.
type RecipeSample struct {
	Recipe Recipe `json:"recipe"`
}

// DefaultRecipeSample returns the example recipe embedded in every prompt.
func DefaultRecipeSample() RecipeSample {
	return RecipeSample{
		Recipe: Recipe{
			Name: "Magical Marinara Pasta",
			Ingredients: []string{
				"2 cups of enchanted pasta",
				"1 cup of mystical marinara sauce",
				"1/2 cup of grated phoenix feather cheese",
				"A pinch of basil leaves",
				"A dash of enchanted olive oil",
			},
			Instructions: []string{
				"Boil the enchanted pasta in a cauldron until al dente. Don't forget to add a sprinkle of sea salt for extra magic!",
				"In a magical skillet, heat the enchanted olive oil over medium heat.",
				"Pour in the mystical marinara sauce and let it simmer until it's dancing with flavors.",
				"Add the cooked pasta to the skillet, tossing it gently to coat every strand in the enchanting marinara.",
				"Serve the pasta in bewitched bowls, topping each portion with a generous sprinkle of grated phoenix feather cheese and a pinch of fresh basil leaves.",
			},
			Servings:   4,
			Difficulty: "Intermediate",
			MagicLevel: "High",
		},
	}
}
