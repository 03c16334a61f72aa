// Package crafting holds the recipe book and the rules for turning
// ingredients into items.
package crafting

import (
	"errors"
	"fmt"
	"slices"

	"github.com/samdwyer/apprentice/internal/entity"
	"github.com/samdwyer/apprentice/internal/gamedata"
)

var (
	// ErrUnknownRecipe is returned for a recipe ID the book does not hold.
	ErrUnknownRecipe = errors.New("unknown recipe")
	// ErrMissingIngredients is returned when the inventory lacks an ingredient.
	ErrMissingIngredients = errors.New("missing ingredients")
	// ErrWrongStation is returned when the recipe needs a station that is not at hand.
	ErrWrongStation = errors.New("required station not at hand")
	// ErrMissingTool is returned when the recipe needs a tool that is not held.
	ErrMissingTool = errors.New("required tool not held")
	// ErrSkillTooLow is returned when a required skill level is not met.
	ErrSkillTooLow = errors.New("skill too low")
	// ErrStackFull is returned when the result would exceed its stack limit.
	ErrStackFull = errors.New("result stack is full")
)

// Recipe is a crafting recipe.
type Recipe = gamedata.RecipeDef

// Book indexes recipes by ID, category and tag. It is read-only after loading.
type Book struct {
	recipes    map[string]*Recipe
	order      []string
	byCategory map[string][]*Recipe
	byTag      map[string][]*Recipe
}

// NewBook creates a book from recipe definitions. Duplicate IDs are an error.
func NewBook(recipes []Recipe) (*Book, error) {
	b := &Book{
		recipes:    make(map[string]*Recipe),
		byCategory: make(map[string][]*Recipe),
		byTag:      make(map[string][]*Recipe),
	}
	for i := range recipes {
		r := recipes[i]
		if _, ok := b.recipes[r.ID]; ok {
			return nil, fmt.Errorf("duplicate recipe id %q", r.ID)
		}
		b.recipes[r.ID] = &r
		b.order = append(b.order, r.ID)
		b.byCategory[r.Category] = append(b.byCategory[r.Category], &r)
		for _, tag := range r.Tags {
			b.byTag[tag] = append(b.byTag[tag], &r)
		}
	}
	return b, nil
}

// LoadBook builds a book from the embedded recipes.json.
func LoadBook() (*Book, error) {
	recipes, err := gamedata.LoadRecipes()
	if err != nil {
		return nil, err
	}
	return NewBook(recipes)
}

// Get returns the recipe with the given ID, or nil if not found.
func (b *Book) Get(id string) *Recipe {
	return b.recipes[id]
}

// All returns every recipe in load order.
func (b *Book) All() []*Recipe {
	return b.filter(func(*Recipe) bool { return true })
}

// ByCategory returns the recipes in a category.
func (b *Book) ByCategory(category string) []*Recipe {
	return slices.Clone(b.byCategory[category])
}

// ByTag returns the recipes carrying a tag.
func (b *Book) ByTag(tag string) []*Recipe {
	return slices.Clone(b.byTag[tag])
}

// ByIngredient returns the recipes that use an item.
func (b *Book) ByIngredient(itemID string) []*Recipe {
	return b.filter(func(r *Recipe) bool {
		return slices.ContainsFunc(r.Ingredients, func(ing gamedata.Ingredient) bool { return ing.ItemID == itemID })
	})
}

// ByStation returns the recipes made at a station.
func (b *Book) ByStation(stationID string) []*Recipe {
	return b.filter(func(r *Recipe) bool { return r.RequiredStation == stationID })
}

// ByTool returns the recipes that need a tool.
func (b *Book) ByTool(toolID string) []*Recipe {
	return b.filter(func(r *Recipe) bool { return r.RequiredTool == toolID })
}

func (b *Book) filter(keep func(*Recipe) bool) []*Recipe {
	var out []*Recipe
	for _, id := range b.order {
		if r := b.recipes[id]; keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Bench describes what the crafter has at hand besides ingredients.
type Bench struct {
	Stations []string       // Station definition IDs within reach
	Skills   map[string]int // Skill levels; nil skips skill checks
}

// Check reports why recipe cannot be crafted from inv at bench, or nil.
// Tools are items held in the inventory.
func Check(recipe *Recipe, inv *entity.Inventory, bench Bench) error {
	for _, ing := range recipe.Ingredients {
		if !inv.Has(ing.ItemID, ing.Quantity) {
			return fmt.Errorf("%w: need %d %s", ErrMissingIngredients, ing.Quantity, ing.ItemID)
		}
	}
	if recipe.RequiredStation != "" && !slices.Contains(bench.Stations, recipe.RequiredStation) {
		return fmt.Errorf("%w: %s", ErrWrongStation, recipe.RequiredStation)
	}
	if recipe.RequiredTool != "" && !inv.Has(recipe.RequiredTool, 1) {
		return fmt.Errorf("%w: %s", ErrMissingTool, recipe.RequiredTool)
	}
	if bench.Skills != nil {
		for skill, level := range recipe.RequiredSkills {
			if bench.Skills[skill] < level {
				return fmt.Errorf("%w: %s %d", ErrSkillTooLow, skill, level)
			}
		}
	}
	return nil
}

// Available returns the recipes craftable right now, in load order.
func (b *Book) Available(inv *entity.Inventory, bench Bench) []*Recipe {
	return b.filter(func(r *Recipe) bool { return Check(r, inv, bench) == nil })
}

// Craft consumes the ingredients of recipe and adds its result to inv.
// maxStack is the result's stack limit, 0 meaning unlimited. On error the
// inventory is unchanged.
func Craft(recipe *Recipe, inv *entity.Inventory, bench Bench, maxStack int) error {
	if err := Check(recipe, inv, bench); err != nil {
		return err
	}
	if maxStack > 0 && inv.Quantity(recipe.Result.ItemID)+recipe.Result.Quantity > maxStack {
		return fmt.Errorf("%w: %s", ErrStackFull, recipe.Result.ItemID)
	}
	for _, ing := range recipe.Ingredients {
		inv.Remove(ing.ItemID, ing.Quantity)
	}
	inv.Add(recipe.Result.ItemID, recipe.Result.Quantity)
	return nil
}
