package ui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/samdwyer/apprentice/internal/crafting"
	"github.com/samdwyer/apprentice/internal/entity"
	"github.com/samdwyer/apprentice/internal/game"
	"github.com/samdwyer/apprentice/internal/gamedata"
	"github.com/samdwyer/apprentice/internal/interaction"
	"github.com/samdwyer/apprentice/internal/msglog"
	"github.com/samdwyer/apprentice/internal/world"
)

// Cell is what one map position shows.
type Cell struct {
	Glyph    rune
	Color    string // Palette tag or hex colour
	Visible  bool
	Explored bool
}

// MapCell returns the glyph drawn at (x, y): the most prominent reference
// there, in its colour. Unexplored cells are blank.
func MapCell(grid *world.Grid, x, y int) Cell {
	c := Cell{Glyph: ' ', Color: "default", Visible: grid.IsVisible(x, y), Explored: grid.IsExplored(x, y)}
	if !c.Visible && !c.Explored {
		return c
	}

	var top *entity.Reference
	best := -1
	for _, ref := range grid.ReferencesAt(x, y) {
		if rank := drawRank(ref); rank > best {
			top, best = ref, rank
		}
	}
	if top == nil {
		return c
	}
	c.Glyph = top.Glyph()
	c.Color = top.Def.Color
	if !c.Visible {
		c.Color = "dark_gray"
	}
	return c
}

func drawRank(ref *entity.Reference) int {
	switch {
	case ref.Mobile != nil:
		return 3
	case ref.IsTerrain():
		return 0
	case ref.Blocks():
		return 2
	default:
		return 1
	}
}

// CraftChoices lists the recipes the crafting panel offers, in the order
// their number keys select them.
func CraftChoices(g *game.Game) []*crafting.Recipe {
	return g.Recipes().Available(g.Inventory(), g.Bench())
}

// SidePanel returns the lines drawn beside the map: day and turn, the panel
// of the current state and either the selection menu or the actions at hand.
func SidePanel(g *game.Game) []msglog.Message {
	lines := []msglog.Message{
		{Text: fmt.Sprintf("Day %d  Turn %d", g.World().Day, g.Turn()), Color: "white"},
		{Text: g.Player().Name(), Color: "player"},
		{},
	}

	switch g.State() {
	case game.StateInventory:
		lines = append(lines, msglog.Message{Text: "Inventory", Color: "yellow"})
		items := g.Inventory().Items()
		if len(items) == 0 {
			lines = append(lines, msglog.Message{Text: "  (empty)", Color: msglog.ColorInfo})
		}
		for _, s := range items {
			lines = append(lines, msglog.Message{
				Text:  fmt.Sprintf("  %s x%d", g.Registry().Name(s.ItemID), s.Quantity),
				Color: itemColor(g.Registry(), s.ItemID),
			})
		}
		lines = append(lines, msglog.Message{})
	case game.StateCrafting:
		lines = append(lines, msglog.Message{Text: "Crafting", Color: "yellow"})
		choices := CraftChoices(g)
		if len(choices) == 0 {
			lines = append(lines, msglog.Message{Text: "  nothing to make here", Color: msglog.ColorInfo})
		}
		for i, r := range choices {
			if i >= 9 {
				break
			}
			lines = append(lines, msglog.Message{Text: fmt.Sprintf("  %d) %s", i+1, r.Name), Color: msglog.ColorDefault})
		}
		lines = append(lines, msglog.Message{})
	}

	if t := g.Targeting(); t.Active() {
		lines = append(lines, msglog.Message{Text: capitalize(t.Action()) + " what?", Color: "yellow"})
		for _, item := range t.MenuItems() {
			lines = append(lines, msglog.Message{Text: "  " + item.Label(), Color: msglog.ColorDefault})
		}
		return lines
	}

	types := g.AvailableInteractions()
	if len(types) > 0 {
		lines = append(lines, msglog.Message{Text: "Actions", Color: "yellow"})
		for _, t := range types {
			lines = append(lines, msglog.Message{Text: "  " + ActionLabel(t), Color: msglog.ColorDefault})
		}
	}
	return lines
}

// ActionLabel renders an action type with its key, e.g. "(O)pen".
func ActionLabel(t interaction.Type) string {
	name := capitalize(t.Action)
	if name != "" && rune(name[0]) == t.Key {
		return interaction.MenuItem{Key: t.Key, Text: name[1:]}.Label()
	}
	return interaction.MenuItem{Key: t.Key, Text: " " + name}.Label()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func itemColor(registry *gamedata.Registry, id string) string {
	if def := registry.Lookup(id); def != nil && def.Color != "" {
		return def.Color
	}
	return msglog.ColorDefault
}

// Help is the key reference shown under the side panel.
var Help = strings.Join([]string{
	"arrows move  l look  i inventory  r recipes",
	"action keys start a selection, Esc cancels",
	"PgUp/PgDn scroll  Tab slot  F5 save  F9 load  q quit",
}, "\n")
