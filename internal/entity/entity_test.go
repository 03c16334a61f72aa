package entity

import (
	"testing"

	"github.com/samdwyer/apprentice/internal/gamedata"
)

func TestInventory(t *testing.T) {
	inv := NewInventory()
	if !inv.IsEmpty() {
		t.Fatal("new inventory should be empty")
	}

	inv.Add("silver_leaf", 3)
	inv.Add("silver_leaf", 2)
	inv.Add("moon_dew", 0)
	if got := inv.Quantity("silver_leaf"); got != 5 {
		t.Errorf("silver_leaf = %d, want 5", got)
	}
	if inv.Len() != 1 {
		t.Errorf("zero-quantity add should not create a key, len = %d", inv.Len())
	}

	if inv.Remove("silver_leaf", 6) {
		t.Error("removing more than held should fail")
	}
	if got := inv.Quantity("silver_leaf"); got != 5 {
		t.Errorf("failed remove changed quantity to %d", got)
	}
	if !inv.Remove("silver_leaf", 5) {
		t.Error("removing exactly what is held should succeed")
	}
	if inv.Has("silver_leaf", 1) || inv.Len() != 0 {
		t.Error("key should be gone once quantity reaches zero")
	}

	inv.Set("lemon_fruit", 2)
	inv.Set("glowshroom", -1)
	inv.Add("cleaning_gloop", 1)
	items := inv.Items()
	if len(items) != 2 || items[0].ItemID != "cleaning_gloop" || items[1].ItemID != "lemon_fruit" {
		t.Errorf("Items() = %v, want sorted cleaning_gloop, lemon_fruit", items)
	}

	counts := inv.Counts()
	counts["lemon_fruit"] = 99
	if inv.Quantity("lemon_fruit") != 2 {
		t.Error("Counts() must return a copy")
	}
}

func TestReferenceDoorState(t *testing.T) {
	registry := gamedata.MustLoadRegistry()
	door := NewReference(1, registry.Lookup("door"), 4, 2)

	if !door.Blocks() || door.Glyph() != '+' {
		t.Fatalf("closed door should block and draw '+', got blocks=%v glyph=%q", door.Blocks(), door.Glyph())
	}
	if !door.HasAction(gamedata.ActionOpen) || door.HasAction(gamedata.ActionClose) {
		t.Error("closed door should offer open only")
	}

	door.Open = true
	if door.Blocks() || door.Glyph() != '\'' {
		t.Errorf("open door should not block and draw '\\'', got blocks=%v glyph=%q", door.Blocks(), door.Glyph())
	}
	if door.HasAction(gamedata.ActionOpen) || !door.HasAction(gamedata.ActionClose) {
		t.Error("open door should offer close only")
	}
	want := []string{gamedata.ActionExamine, gamedata.ActionClose}
	got := door.Actions()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Actions() = %v, want %v", got, want)
	}
}

func TestReferenceKinds(t *testing.T) {
	registry := gamedata.MustLoadRegistry()

	leaf := NewReference(2, registry.Lookup("silver_leaf"), 1, 1)
	if leaf.Quantity != 3 || leaf.Blocks() || leaf.Mobile != nil {
		t.Errorf("item reference: quantity=%d blocks=%v mobile=%v", leaf.Quantity, leaf.Blocks(), leaf.Mobile)
	}

	tam := NewReference(3, registry.Lookup("tam"), 5, 6)
	if tam.Mobile == nil {
		t.Fatal("mobile reference should carry mobile state")
	}
	if tam.Mobile.Ref != tam.ID || tam.Mobile.X != 5 || tam.Mobile.Y != 6 {
		t.Errorf("mobile back-link/position mismatch: %+v", tam.Mobile)
	}
	if !tam.Mobile.CanAct() {
		t.Error("new mobile should be able to act")
	}
	if got := tam.Greet("Lina"); got != "Tam greets Lina!" {
		t.Errorf("Greet() = %q", got)
	}

	tam.Mobile.Name = "Old Tam"
	if tam.Name() != "Old Tam" {
		t.Errorf("mobile name should override definition name, got %q", tam.Name())
	}

	wall := NewReference(4, registry.Lookup("wall"), 0, 0)
	if !wall.IsTerrain() || !wall.Blocks() || len(wall.Actions()) != 0 {
		t.Error("wall should be blocking terrain without actions")
	}
	if wall.Greet("Lina") != "" {
		t.Error("non-mobile references do not greet")
	}
}
