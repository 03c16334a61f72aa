package game

import (
	"context"
	"fmt"

	"github.com/samdwyer/apprentice/internal/entity"
	"github.com/samdwyer/apprentice/internal/gamedata"
	"github.com/samdwyer/apprentice/internal/world"
)

// SnapshotVersion is bumped whenever the snapshot layout changes.
const SnapshotVersion = 1

// Position is a grid coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DoorState is the open state of one door.
type DoorState struct {
	ID   string `json:"id"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Open bool   `json:"open"`
}

// ItemState is an item reference still lying on the grid.
type ItemState struct {
	ID       string `json:"id"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Quantity int    `json:"quantity"`
}

// MobileState is a non-player mobile.
type MobileState struct {
	ID     string `json:"id"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	HP     int    `json:"hp"`
	Active bool   `json:"active"`
}

// Snapshot is the plain data needed to restore a game on the same layout.
type Snapshot struct {
	Version   int            `json:"version"`
	Day       int            `json:"day"`
	Turn      int            `json:"turn"`
	Flags     []string       `json:"flags,omitempty"`
	Player    Position       `json:"player"`
	PlayerHP  int            `json:"player_hp"`
	Inventory map[string]int `json:"inventory"`
	Doors     []DoorState    `json:"doors,omitempty"`
	Items     []ItemState    `json:"items,omitempty"`
	Mobiles   []MobileState  `json:"mobiles,omitempty"`
}

// ToSnapshot captures the current game.
func (g *Game) ToSnapshot() Snapshot {
	s := Snapshot{
		Version:   SnapshotVersion,
		Day:       g.world.Day,
		Turn:      g.turn,
		Flags:     g.world.FlagNames(),
		Player:    Position{X: g.player.X, Y: g.player.Y},
		PlayerHP:  g.player.Mobile.HP,
		Inventory: g.Inventory().Counts(),
	}
	for _, ref := range g.grid.References() {
		switch {
		case ref.ID == g.player.ID:
		case ref.Def.Kind == gamedata.KindDoor:
			s.Doors = append(s.Doors, DoorState{ID: ref.Def.ID, X: ref.X, Y: ref.Y, Open: ref.Open})
		case ref.Def.Kind == gamedata.KindItem:
			s.Items = append(s.Items, ItemState{ID: ref.Def.ID, X: ref.X, Y: ref.Y, Quantity: ref.Quantity})
		case ref.Mobile != nil:
			s.Mobiles = append(s.Mobiles, MobileState{ID: ref.Def.ID, X: ref.X, Y: ref.Y, HP: ref.Mobile.HP, Active: ref.Mobile.Active})
		}
	}
	return s
}

// FromSnapshot rebuilds the world from the game's layout and applies s. On
// error the game is left unchanged.
func (g *Game) FromSnapshot(ctx context.Context, s Snapshot) error {
	grid, player, err := g.buildWorld(ctx)
	if err != nil {
		return err
	}

	// Items and mobiles come from the snapshot, not the layout.
	for _, ref := range grid.References() {
		if ref.ID == player.ID {
			continue
		}
		if ref.Def.Kind == gamedata.KindItem || ref.Mobile != nil {
			grid.Remove(ref.ID)
		}
	}

	for _, d := range s.Doors {
		door := findAt(grid, d.ID, d.X, d.Y)
		if door == nil {
			return fmt.Errorf("snapshot door %s at (%d,%d) not on the map", d.ID, d.X, d.Y)
		}
		if err := grid.SetOpen(door.ID, d.Open); err != nil {
			return fmt.Errorf("restoring door at (%d,%d): %w", d.X, d.Y, err)
		}
	}

	if err := grid.Move(player.ID, s.Player.X, s.Player.Y); err != nil {
		return fmt.Errorf("restoring player: %w", err)
	}
	if s.PlayerHP > 0 {
		player.Mobile.HP = s.PlayerHP
	}
	for id, qty := range s.Inventory {
		player.Mobile.Inventory.Set(id, qty)
	}

	for _, it := range s.Items {
		ref, err := g.addFromSnapshot(grid, it.ID, it.X, it.Y)
		if err != nil {
			return err
		}
		if it.Quantity > 0 {
			ref.Quantity = it.Quantity
		}
	}
	for _, m := range s.Mobiles {
		ref, err := g.addFromSnapshot(grid, m.ID, m.X, m.Y)
		if err != nil {
			return err
		}
		if ref.Mobile == nil {
			return fmt.Errorf("snapshot mobile %s is not a mobile", m.ID)
		}
		ref.Mobile.HP = m.HP
		ref.Mobile.Active = m.Active
	}

	state := world.NewState(s.Day)
	for _, name := range s.Flags {
		state.SetFlag(name, true)
	}

	g.grid = grid
	g.player = player
	g.world = state
	g.turn = s.Turn
	g.state = StateExplore
	g.targeting.SetGrid(grid)
	grid.ComputeFOV(player.X, player.Y, g.cfg.FOVRadius)
	return nil
}

func (g *Game) addFromSnapshot(grid *world.Grid, id string, x, y int) (*entity.Reference, error) {
	def := g.registry.Lookup(id)
	if def == nil {
		return nil, fmt.Errorf("snapshot names unknown entity %q", id)
	}
	ref, err := grid.Add(def, x, y)
	if err != nil {
		return nil, fmt.Errorf("restoring %s at (%d,%d): %w", id, x, y, err)
	}
	return ref, nil
}

func findAt(grid *world.Grid, id string, x, y int) *entity.Reference {
	for _, ref := range grid.ReferencesAt(x, y) {
		if ref.Def.ID == id {
			return ref
		}
	}
	return nil
}
