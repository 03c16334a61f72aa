package world

import (
	"context"
	"errors"
	"testing"

	"github.com/samdwyer/apprentice/internal/gamedata"
)

func loadRows(t *testing.T, rows ...string) (*Grid, *gamedata.Registry) {
	t.Helper()
	registry := gamedata.MustLoadRegistry()
	g, err := Load(context.Background(), registry, rows, 0, 0)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return g, registry
}

func TestLoadSmallRoom(t *testing.T) {
	g, _ := loadRows(t, "###", "#@#", "###")

	if g.Width != 3 || g.Height != 3 {
		t.Fatalf("size = %dx%d, want 3x3", g.Width, g.Height)
	}
	if g.PlayerStartX != 1 || g.PlayerStartY != 1 {
		t.Errorf("player start = (%d,%d), want (1,1)", g.PlayerStartX, g.PlayerStartY)
	}
	if !g.IsBlocked(0, 1) {
		t.Error("(0,1) is a wall and should be blocked")
	}
	if g.IsBlocked(1, 1) {
		t.Error("(1,1) is the player start floor and should not be blocked")
	}
	if g.Count() != 9 {
		t.Errorf("expected one terrain reference per cell, got %d references", g.Count())
	}
}

func TestLoadEntitiesAndUnknownSymbols(t *testing.T) {
	g, _ := loadRows(t,
		"#####",
		"#+s?#",
		"#####",
	)

	door := g.OccupantAt(1, 1, 0)
	if door == nil || door.Def.ID != "door" {
		t.Fatalf("expected a door at (1,1), got %v", door)
	}
	if terrain := g.ReferenceAt(1, 1); terrain == nil || terrain.Def.ID != gamedata.FloorID {
		t.Errorf("terrain should be inserted before the entity, got %v", terrain)
	}
	if leaf := g.OccupantAt(2, 1, 0); leaf == nil || leaf.Def.ID != "silver_leaf" {
		t.Errorf("expected silver leaf at (2,1), got %v", leaf)
	}
	if g.OccupantAt(3, 1, 0) != nil || g.IsBlocked(3, 1) {
		t.Error("unknown symbol should load as plain floor")
	}
	if g.PlayerStartX != DefaultStartX || g.PlayerStartY != DefaultStartY {
		t.Errorf("missing player glyph should use the default start, got (%d,%d)", g.PlayerStartX, g.PlayerStartY)
	}
}

func TestLoadRaggedRows(t *testing.T) {
	g, _ := loadRows(t, "#####", "#@", "###")

	if g.Width != 5 || g.Height != 3 {
		t.Fatalf("size = %dx%d, want 5x3", g.Width, g.Height)
	}
	if g.IsBlocked(3, 1) {
		t.Error("cells past the end of a short row load as floor")
	}
	if len(g.ReferencesAt(4, 2)) != 1 {
		t.Error("every in-bounds cell gets a terrain reference")
	}
}

func TestDoorToggleFlipsBlocked(t *testing.T) {
	g, _ := loadRows(t, "#+#")
	door := g.OccupantAt(1, 0, 0)

	if !g.IsBlocked(1, 0) {
		t.Fatal("closed door should block")
	}
	if err := g.SetOpen(door.ID, true); err != nil {
		t.Fatalf("SetOpen(true): %v", err)
	}
	if g.IsBlocked(1, 0) {
		t.Error("open door should not block")
	}
	if err := g.SetOpen(door.ID, false); err != nil {
		t.Fatalf("SetOpen(false): %v", err)
	}
	if !g.IsBlocked(1, 0) {
		t.Error("closed door should block again")
	}
}

func TestDoorCannotCloseOnOccupant(t *testing.T) {
	g, registry := loadRows(t, "...", ".+.", "...")
	door := g.OccupantAt(1, 1, 0)
	if err := g.SetOpen(door.ID, true); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Add(registry.Lookup("tam"), 1, 1); err != nil {
		t.Fatalf("mobile should stand in an open doorway: %v", err)
	}
	if err := g.SetOpen(door.ID, false); !errors.Is(err, ErrOccupied) {
		t.Errorf("closing on an occupant: got %v, want ErrOccupied", err)
	}
	if occupant := g.OccupantAt(1, 1, 0); occupant == nil || occupant.Def.ID != "tam" {
		t.Errorf("blocking occupant should win over the open door, got %v", occupant)
	}
}

func TestAddMoveRemove(t *testing.T) {
	g, registry := loadRows(t, ".....", ".....")
	tam := registry.Lookup("tam")

	a, err := g.Add(tam, 0, 0)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := g.Add(tam, 0, 0); !errors.Is(err, ErrOccupied) {
		t.Errorf("second blocker on a tile: got %v, want ErrOccupied", err)
	}
	if _, err := g.Add(tam, 9, 9); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("out of bounds add: got %v, want ErrOutOfBounds", err)
	}
	if _, err := g.Add(registry.Lookup("silver_leaf"), 0, 0); err != nil {
		t.Errorf("non-blocking item may share a blocker's tile: %v", err)
	}

	b, _ := g.Add(tam, 2, 0)
	if err := g.Move(b.ID, 0, 0); !errors.Is(err, ErrOccupied) {
		t.Errorf("moving onto a blocker: got %v, want ErrOccupied", err)
	}
	if err := g.Move(a.ID, 1, 1); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if a.X != 1 || a.Y != 1 || a.Mobile.X != 1 || a.Mobile.Y != 1 {
		t.Errorf("reference and mobile must move together: ref (%d,%d) mobile (%d,%d)", a.X, a.Y, a.Mobile.X, a.Mobile.Y)
	}
	if g.OccupantAt(0, 0, 0).Def.ID != "silver_leaf" {
		t.Error("old cell should no longer hold the moved reference")
	}

	snapshot := g.References()
	if !g.Remove(a.ID) {
		t.Fatal("Remove should find the reference")
	}
	if g.Remove(a.ID) {
		t.Error("second Remove should report false")
	}
	if g.Reference(a.ID) != nil || g.BlockerAt(1, 1, 0) != nil {
		t.Error("removed reference still reachable")
	}
	if len(snapshot) != g.Count()+1 {
		t.Error("snapshots must not change when the grid is mutated")
	}

	c, _ := g.Add(tam, 4, 1)
	if c.ID <= b.ID {
		t.Errorf("reference ids must increase, got %d after %d", c.ID, b.ID)
	}
	if err := g.Move(a.ID, 0, 1); !errors.Is(err, ErrNoReference) {
		t.Errorf("moving a removed reference: got %v, want ErrNoReference", err)
	}
}

func TestState(t *testing.T) {
	s := NewState(0)
	if s.Day != 1 {
		t.Errorf("day should start at 1, got %d", s.Day)
	}
	s.SetFlag("b_flag", true)
	s.SetFlag("a_flag", true)
	s.SetFlag("b_flag", false)
	if s.Flag("b_flag") || !s.Flag("a_flag") {
		t.Error("flag set/clear mismatch")
	}
	if names := s.FlagNames(); len(names) != 1 || names[0] != "a_flag" {
		t.Errorf("FlagNames() = %v", names)
	}

	s.SetFlag("harvested_1_2", true)
	s.SetFlag("harvested_3_4", true)
	s.ClearFlags("harvested_")
	if names := s.FlagNames(); len(names) != 1 {
		t.Errorf("ClearFlags should only drop matching flags, left %v", names)
	}
}
