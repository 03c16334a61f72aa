// Package interaction finds what the player can act on around them, assigns
// selection keys to those targets and runs the modal target-selection state.
package interaction

import (
	"context"
	"unicode"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/apprentice/internal/action"
	"github.com/samdwyer/apprentice/internal/entity"
	"github.com/samdwyer/apprentice/internal/gamedata"
	"github.com/samdwyer/apprentice/internal/telemetry"
	"github.com/samdwyer/apprentice/internal/world"
)

// Neighbourhood lists the scanned offsets in order: self, north, west, east, south.
var Neighbourhood = [5][2]int{{0, 0}, {0, -1}, {-1, 0}, {1, 0}, {0, 1}}

// DefaultKeys maps action types to the key that starts them.
var DefaultKeys = map[string]rune{
	gamedata.ActionClean:   'C',
	gamedata.ActionExamine: 'E',
	gamedata.ActionHarvest: 'H',
	gamedata.ActionOpen:    'O',
	gamedata.ActionClose:   'O',
	gamedata.ActionTalk:    'T',
	gamedata.ActionUse:     'U',
}

// cancelKeys are tried in order for the cancel entry, with their menu text.
var cancelKeys = []MenuItem{
	{Key: 'C', Text: "ancel"},
	{Key: 'B', Text: "ack"},
	{Key: 'X', Text: " Exit"},
	{Key: 'Z', Text: " Cancel"},
	{Key: '*', Text: " Cancel"},
}

// Type is an action type available right now and the key that starts it.
type Type struct {
	Action string
	Key    rune
}

// Target is a reference that can be selected in the current mode.
type Target struct {
	Key  rune
	Ref  *entity.Reference
	X, Y int
	Name string
}

// MenuItem is one line of the selection menu, drawn as "(Key)Text".
type MenuItem struct {
	Key  rune
	Text string
}

// Label renders the item as shown to the player.
func (m MenuItem) Label() string {
	return "(" + string(m.Key) + ")" + m.Text
}

// Outcome reports what HandleInput did with a key.
type Outcome struct {
	Consumed  bool
	Cancelled bool
	Performed bool
	Target    *Target
	Result    action.Result
}

// System holds the modal selection state. Only one selection is active at a time.
type System struct {
	grid     *world.Grid
	handlers *action.Registry

	active    bool
	action    string
	targets   []Target
	cancelKey rune
	cancelTxt string
}

// New creates a targeting system over grid dispatching to handlers.
func New(grid *world.Grid, handlers *action.Registry) *System {
	return &System{grid: grid, handlers: handlers}
}

// SetGrid points the system at a new grid and leaves modal mode.
func (s *System) SetGrid(grid *world.Grid) {
	s.grid = grid
	s.reset()
}

// AvailableInteractions returns the action types exposed by any reference in
// the neighbourhood of (x, y), in the fixed action order. Open and close
// share a key; both may be listed.
func (s *System) AvailableInteractions(x, y int, actor entity.RefID) []Type {
	var types []Type
	for _, act := range gamedata.ActionOrder {
		if len(s.NearbyTargets(x, y, actor, act)) > 0 {
			types = append(types, Type{Action: act, Key: DefaultKeys[act]})
		}
	}
	return types
}

// ActionForKey returns the first available action type started by key.
func ActionForKey(types []Type, key rune) (string, bool) {
	key = unicode.ToUpper(key)
	for _, t := range types {
		if t.Key == key {
			return t.Action, true
		}
	}
	return "", false
}

// NearbyTargets lists the references around (x, y) exposing an action type,
// each with a selection key unique within the list. Keys come from the
// letters of the name, then the digits 1 to 9, then '*'.
func (s *System) NearbyTargets(x, y int, actor entity.RefID, act string) []Target {
	if s.grid == nil {
		return nil
	}
	var targets []Target
	used := make(map[rune]bool)
	for _, d := range Neighbourhood {
		tx, ty := x+d[0], y+d[1]
		for _, ref := range s.grid.ReferencesAt(tx, ty) {
			if ref.ID == actor || !ref.HasAction(act) {
				continue
			}
			name := ref.Name()
			key := uniqueKey(name, used)
			used[key] = true
			targets = append(targets, Target{Key: key, Ref: ref, X: tx, Y: ty, Name: name})
		}
	}
	return targets
}

func uniqueKey(name string, used map[rune]bool) rune {
	for _, r := range name {
		if !unicode.IsLetter(r) {
			continue
		}
		if k := unicode.ToUpper(r); !used[k] {
			return k
		}
	}
	for k := '1'; k <= '9'; k++ {
		if !used[k] {
			return k
		}
	}
	return '*'
}

// Start enters modal mode for an action type around (x, y). It returns false
// and stays out of modal mode when nothing nearby exposes the action.
func (s *System) Start(x, y int, actor entity.RefID, act string) bool {
	targets := s.NearbyTargets(x, y, actor, act)
	if len(targets) == 0 {
		s.reset()
		return false
	}

	used := make(map[rune]bool, len(targets))
	for _, t := range targets {
		used[t.Key] = true
	}
	cancel := cancelKeys[len(cancelKeys)-1]
	for _, c := range cancelKeys {
		if !used[c.Key] {
			cancel = c
			break
		}
	}

	s.active = true
	s.action = act
	s.targets = targets
	s.cancelKey = cancel.Key
	s.cancelTxt = cancel.Text
	return true
}

// HandleInput processes a key while in modal mode. The cancel key leaves the
// mode; a target key performs the action on that target and leaves the mode;
// any other key is not consumed and the mode persists. base supplies the
// handler context; its Target and Action are filled in here.
func (s *System) HandleInput(key rune, base action.Context) Outcome {
	if !s.active {
		return Outcome{}
	}
	key = unicode.ToUpper(key)

	if key == s.cancelKey {
		s.reset()
		return Outcome{Consumed: true, Cancelled: true}
	}

	for i := range s.targets {
		if s.targets[i].Key != key {
			continue
		}
		target := s.targets[i]
		act := s.action
		s.reset()
		return Outcome{Consumed: true, Performed: true, Target: &target, Result: s.perform(base, target, act)}
	}
	return Outcome{}
}

func (s *System) perform(c action.Context, target Target, act string) action.Result {
	ctx := c.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	_, span := telemetry.Tracer("interaction").Start(ctx, "interaction.perform")
	defer span.End()

	c.Target = target.Ref
	c.Action = act
	res := s.handlers.Dispatch(&c)

	span.SetAttributes(
		attribute.String("interaction.action", act),
		attribute.String("interaction.target", target.Ref.Def.ID),
		attribute.Bool("interaction.turn_passed", res.TurnPassed),
	)
	return res
}

// Cancel leaves modal mode. It returns false when the mode was not active.
func (s *System) Cancel() bool {
	if !s.active {
		return false
	}
	s.reset()
	return true
}

func (s *System) reset() {
	s.active = false
	s.action = ""
	s.targets = nil
	s.cancelKey = 0
	s.cancelTxt = ""
}

// Active reports whether modal mode is on.
func (s *System) Active() bool {
	return s.active
}

// Action returns the action type of the active selection.
func (s *System) Action() string {
	return s.action
}

// Targets returns the targets of the active selection.
func (s *System) Targets() []Target {
	return append([]Target(nil), s.targets...)
}

// CancelKey returns the cancel key of the active selection, or 0.
func (s *System) CancelKey() rune {
	return s.cancelKey
}

// MenuItems returns the selection menu: one entry per target, then cancel.
// A key equal to the name's first letter is folded into the name.
func (s *System) MenuItems() []MenuItem {
	if !s.active {
		return nil
	}
	items := make([]MenuItem, 0, len(s.targets)+1)
	for _, t := range s.targets {
		runes := []rune(t.Name)
		if len(runes) > 0 && unicode.ToUpper(runes[0]) == t.Key {
			items = append(items, MenuItem{Key: t.Key, Text: string(runes[1:])})
		} else {
			items = append(items, MenuItem{Key: t.Key, Text: " " + t.Name})
		}
	}
	return append(items, MenuItem{Key: s.cancelKey, Text: s.cancelTxt})
}
