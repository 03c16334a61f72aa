package game

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/samdwyer/apprentice/internal/gamedata"
)

// ErrUnknownCommand is returned by ParseCommand for unrecognised input.
var ErrUnknownCommand = errors.New("unknown command")

// CommandKind enumerates the closed set of player commands.
type CommandKind int

const (
	CmdNone CommandKind = iota
	CmdMove
	CmdInteract
	CmdSelect
	CmdCancel
	CmdInventory
	CmdLook
	CmdScrollUp
	CmdScrollDown
	CmdCraftMenu
	CmdCraft
	CmdQuit
)

var commandNames = map[CommandKind]string{
	CmdNone:       "none",
	CmdMove:       "move",
	CmdInteract:   "interact",
	CmdSelect:     "select",
	CmdCancel:     "cancel",
	CmdInventory:  "inventory",
	CmdLook:       "look",
	CmdScrollUp:   "scroll_up",
	CmdScrollDown: "scroll_down",
	CmdCraftMenu:  "craft_menu",
	CmdCraft:      "craft",
	CmdQuit:       "quit",
}

// String returns the command name.
func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return "unknown"
}

// Command is one discrete player input.
type Command struct {
	Kind   CommandKind
	DX, DY int    // CmdMove
	Action string // CmdInteract
	Key    rune   // CmdSelect
	Recipe string // CmdCraft
}

// Move returns a move command.
func Move(dx, dy int) Command { return Command{Kind: CmdMove, DX: dx, DY: dy} }

// Interact returns a command starting target selection for an action type.
func Interact(action string) Command { return Command{Kind: CmdInteract, Action: action} }

// Select returns a command choosing a target (or cancel) by key.
func Select(key rune) Command { return Command{Kind: CmdSelect, Key: key} }

// Craft returns a command crafting a recipe.
func Craft(recipe string) Command { return Command{Kind: CmdCraft, Recipe: recipe} }

// Simple returns a command without arguments.
func Simple(kind CommandKind) Command { return Command{Kind: kind} }

var directionsByName = map[string][2]int{
	"up": {0, -1}, "north": {0, -1}, "n": {0, -1},
	"down": {0, 1}, "south": {0, 1}, "s": {0, 1},
	"left": {-1, 0}, "west": {-1, 0}, "w": {-1, 0},
	"right": {1, 0}, "east": {1, 0}, "e": {1, 0},
}

// ParseCommand parses a text command such as "move up", "interact open",
// "select d", "scroll down" or "craft cleaning_gloop".
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty input", ErrUnknownCommand)
	}
	verb, args := fields[0], fields[1:]

	arg := func() (string, error) {
		if len(args) != 1 {
			return "", fmt.Errorf("%w: %s takes one argument", ErrUnknownCommand, verb)
		}
		return args[0], nil
	}
	noArgs := func(kind CommandKind) (Command, error) {
		if len(args) != 0 {
			return Command{}, fmt.Errorf("%w: %s takes no arguments", ErrUnknownCommand, verb)
		}
		return Simple(kind), nil
	}

	switch verb {
	case "move", "go":
		a, err := arg()
		if err != nil {
			return Command{}, err
		}
		d, ok := directionsByName[a]
		if !ok {
			return Command{}, fmt.Errorf("%w: unknown direction %q", ErrUnknownCommand, a)
		}
		return Move(d[0], d[1]), nil
	case "interact":
		a, err := arg()
		if err != nil {
			return Command{}, err
		}
		if _, ok := gamedataActions[a]; !ok {
			return Command{}, fmt.Errorf("%w: unknown action %q", ErrUnknownCommand, a)
		}
		return Interact(a), nil
	case "select":
		a, err := arg()
		if err != nil {
			return Command{}, err
		}
		if utf8.RuneCountInString(a) != 1 {
			return Command{}, fmt.Errorf("%w: select takes a single key", ErrUnknownCommand)
		}
		r, _ := utf8.DecodeRuneInString(a)
		return Select(r), nil
	case "scroll":
		a, err := arg()
		if err != nil {
			return Command{}, err
		}
		switch a {
		case "up":
			return Simple(CmdScrollUp), nil
		case "down":
			return Simple(CmdScrollDown), nil
		}
		return Command{}, fmt.Errorf("%w: scroll %q", ErrUnknownCommand, a)
	case "craft":
		if len(args) == 0 {
			return Simple(CmdCraftMenu), nil
		}
		a, err := arg()
		if err != nil {
			return Command{}, err
		}
		return Craft(a), nil
	case "cancel":
		return noArgs(CmdCancel)
	case "inventory", "i":
		return noArgs(CmdInventory)
	case "look", "l":
		return noArgs(CmdLook)
	case "quit", "q":
		return noArgs(CmdQuit)
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, verb)
}

var gamedataActions = func() map[string]bool {
	m := make(map[string]bool, len(gamedata.ActionOrder))
	for _, a := range gamedata.ActionOrder {
		m[a] = true
	}
	return m
}()
