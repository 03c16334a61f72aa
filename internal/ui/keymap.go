package ui

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/apprentice/internal/game"
	"github.com/samdwyer/apprentice/internal/interaction"
)

// KeyContext is what the key mapping needs to know about the game.
type KeyContext struct {
	Modal        bool
	State        game.State
	Interactions []interaction.Type
	Recipes      []string // Recipe IDs in crafting panel order
}

// KeyContextFor reads the key context from a game.
func KeyContextFor(g *game.Game) KeyContext {
	kc := KeyContext{
		Modal:        g.Targeting().Active(),
		State:        g.State(),
		Interactions: g.AvailableInteractions(),
	}
	if kc.State == game.StateCrafting {
		for _, r := range CraftChoices(g) {
			kc.Recipes = append(kc.Recipes, r.ID)
		}
	}
	return kc
}

// KeyCommand maps a key event to a game command. It returns false for keys
// that mean nothing in the current context.
func KeyCommand(ev *tcell.EventKey, kc KeyContext) (game.Command, bool) {
	return keyCommand(ev.Key(), ev.Rune(), kc)
}

func keyCommand(key tcell.Key, r rune, kc KeyContext) (game.Command, bool) {
	switch key {
	case tcell.KeyCtrlC:
		return game.Simple(game.CmdQuit), true
	case tcell.KeyEscape:
		if kc.Modal || kc.State != game.StateExplore {
			return game.Simple(game.CmdCancel), true
		}
		return game.Simple(game.CmdQuit), true
	case tcell.KeyUp:
		return game.Move(0, -1), true
	case tcell.KeyDown:
		return game.Move(0, 1), true
	case tcell.KeyLeft:
		return game.Move(-1, 0), true
	case tcell.KeyRight:
		return game.Move(1, 0), true
	case tcell.KeyPgUp:
		return game.Simple(game.CmdScrollUp), true
	case tcell.KeyPgDn:
		return game.Simple(game.CmdScrollDown), true
	case tcell.KeyRune:
		return runeCommand(r, kc)
	}
	return game.Command{}, false
}

func runeCommand(r rune, kc KeyContext) (game.Command, bool) {
	if kc.Modal {
		return game.Select(r), true
	}

	if kc.State == game.StateCrafting && r >= '1' && r <= '9' {
		i := int(r - '1')
		if i < len(kc.Recipes) {
			return game.Craft(kc.Recipes[i]), true
		}
		return game.Command{}, false
	}

	switch unicode.ToLower(r) {
	case 'q':
		return game.Simple(game.CmdQuit), true
	case 'i':
		return game.Simple(game.CmdInventory), true
	case 'l':
		return game.Simple(game.CmdLook), true
	case 'r':
		return game.Simple(game.CmdCraftMenu), true
	}
	if act, ok := interaction.ActionForKey(kc.Interactions, r); ok {
		return game.Interact(act), true
	}
	return game.Command{}, false
}
