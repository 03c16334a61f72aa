package gamedata

// Ingredient is an item ID paired with a quantity.
type Ingredient struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// RecipeDef defines a crafting recipe loaded from JSON.
type RecipeDef struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Description     string         `json:"description,omitempty"`
	Ingredients     []Ingredient   `json:"ingredients"`
	Result          Ingredient     `json:"result"`
	RequiredStation string         `json:"required_station,omitempty"`
	RequiredTool    string         `json:"required_tool,omitempty"`
	Time            int            `json:"time"` // Turns the craft takes
	RequiredSkills  map[string]int `json:"required_skills,omitempty"`
	Category        string         `json:"category"`
	Tags            []string       `json:"tags,omitempty"`
}

// RecipesFile represents the structure of recipes.json.
type RecipesFile struct {
	Recipes []RecipeDef `json:"recipes"`
}

// LoadRecipes loads recipe definitions from the embedded recipes.json file
// after validating it against recipes.schema.json.
func LoadRecipes() ([]RecipeDef, error) {
	file, err := LoadValidated[RecipesFile]("recipes.json", "recipes.schema.json")
	if err != nil {
		return nil, err
	}
	for i := range file.Recipes {
		if file.Recipes[i].Category == "" {
			file.Recipes[i].Category = "General"
		}
		if file.Recipes[i].Time <= 0 {
			file.Recipes[i].Time = 1
		}
	}
	return file.Recipes, nil
}
