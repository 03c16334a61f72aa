package gamedata

import (
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestLoadEntities(t *testing.T) {
	entities, err := LoadEntities()
	if err != nil {
		t.Fatalf("Failed to load entities: %v", err)
	}

	expectedIDs := map[string]bool{
		"wall": false, "floor": false, "door": false, "brewing_station": false,
		"silver_leaf": false, "cleaning_gloop": false, "tam": false,
	}
	for _, e := range entities {
		if _, ok := expectedIDs[e.ID]; ok {
			expectedIDs[e.ID] = true
		}
	}
	for id, found := range expectedIDs {
		if !found {
			t.Errorf("Expected entity %q not found", id)
		}
	}
}

func TestRegistryLoad(t *testing.T) {
	registry, err := LoadRegistry()
	if err != nil {
		t.Fatalf("Failed to load registry: %v", err)
	}

	door := registry.Lookup("door")
	if door == nil {
		t.Fatal("Door not found by ID")
	}
	if door.Kind != KindDoor || !door.Blocks {
		t.Errorf("Door should be a blocking door, got kind %q blocks %v", door.Kind, door.Blocks)
	}
	if got := registry.LookupSymbol('+'); got != door {
		t.Errorf("Symbol '+' should resolve to the door definition")
	}
	if registry.Lookup("dragon") != nil {
		t.Error("Unknown id should return nil")
	}
	if registry.LookupSymbol('@') != nil {
		t.Error("Player start glyph should not be a registered symbol")
	}
	if got := registry.Name("silver_leaf"); got != "Silver Leaf" {
		t.Errorf("Name(silver_leaf) = %q, want %q", got, "Silver Leaf")
	}
	if got := registry.Name("unknown_thing"); got != "unknown_thing" {
		t.Errorf("Name of unknown id should fall back to the id, got %q", got)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	tests := []struct {
		name       string
		second     EntityDef
		wantSymbol rune
	}{
		{
			name:   "duplicate id",
			second: EntityDef{ID: "crate", Name: "Other Crate", Glyph: "x", Kind: KindStatic},
		},
		{
			name:       "duplicate symbol",
			second:     EntityDef{ID: "barrel", Name: "Barrel", Glyph: "0", Symbol: "x", Kind: KindStatic},
			wantSymbol: 'x',
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			if err := r.Register(EntityDef{ID: "crate", Name: "Crate", Glyph: "x", Symbol: "x", Kind: KindStatic}); err != nil {
				t.Fatalf("first registration failed: %v", err)
			}

			err := r.Register(tt.second)
			var dup *DuplicateIDError
			if !errors.As(err, &dup) {
				t.Fatalf("expected DuplicateIDError, got %v", err)
			}
			if dup.Symbol != tt.wantSymbol {
				t.Errorf("Symbol = %q, want %q", dup.Symbol, tt.wantSymbol)
			}
			if r.Count() != 1 {
				t.Errorf("failed registration should not change the registry, count = %d", r.Count())
			}
		})
	}
}

func TestEntityDefHelpers(t *testing.T) {
	registry := MustLoadRegistry()

	tests := []struct {
		id        string
		stack     int
		maxStack  int
		hasHarvst bool
	}{
		{"silver_leaf", 3, 0, true},
		{"cleaning_gloop", 1, 10, true},
		{"pruning_shears", 1, 1, true},
		{"glowshroom_essence", 1, 0, false},
	}

	for _, tt := range tests {
		def := registry.Lookup(tt.id)
		if def == nil {
			t.Fatalf("%s not registered", tt.id)
		}
		if got := def.StackSize(); got != tt.stack {
			t.Errorf("%s StackSize() = %d, want %d", tt.id, got, tt.stack)
		}
		if got := def.MaxStack(); got != tt.maxStack {
			t.Errorf("%s MaxStack() = %d, want %d", tt.id, got, tt.maxStack)
		}
		if got := def.HasAction("harvest"); got != tt.hasHarvst {
			t.Errorf("%s HasAction(harvest) = %v, want %v", tt.id, got, tt.hasHarvst)
		}
	}

	door := registry.Lookup("door")
	if door.GlyphRune() != '+' || door.OpenGlyphRune() != '\'' {
		t.Errorf("door glyphs = %q/%q", door.GlyphRune(), door.OpenGlyphRune())
	}
	if !registry.Lookup("wall").IsTerrain() || registry.Lookup("door").IsTerrain() {
		t.Error("only wall and floor are terrain")
	}
}

func TestValidateRejectsBadEntities(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing kind", `{"entities":[{"id":"x","name":"X","glyph":"x","color":"white","blocks":false,"interactable":false}]}`},
		{"unknown action", `{"entities":[{"id":"x","name":"X","glyph":"x","color":"white","blocks":false,"interactable":true,"kind":"static","actions":{"dance":"describe"}}]}`},
		{"item without payload", `{"entities":[{"id":"x","name":"X","glyph":"x","color":"white","blocks":false,"interactable":true,"kind":"item"}]}`},
		{"long symbol", `{"entities":[{"id":"x","name":"X","glyph":"x","symbol":"xy","color":"white","blocks":false,"interactable":false,"kind":"static"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate([]byte(tt.doc), "entities.schema.json"); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadRecipes(t *testing.T) {
	recipes, err := LoadRecipes()
	if err != nil {
		t.Fatalf("Failed to load recipes: %v", err)
	}
	registry := MustLoadRegistry()

	for _, r := range recipes {
		if registry.Lookup(r.Result.ItemID) == nil {
			t.Errorf("recipe %s produces unregistered item %s", r.ID, r.Result.ItemID)
		}
		for _, ing := range r.Ingredients {
			if registry.Lookup(ing.ItemID) == nil {
				t.Errorf("recipe %s needs unregistered item %s", r.ID, ing.ItemID)
			}
		}
		if r.RequiredStation != "" && registry.Lookup(r.RequiredStation) == nil {
			t.Errorf("recipe %s needs unregistered station %s", r.ID, r.RequiredStation)
		}
	}
}

func TestColor(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{"dark_red", "#8B0000"},
		{"DARK_RED", "#8B0000"},
		{"#00ff00", "#00FF00"},
		{"00FF00", "#00FF00"},
		{"no_such_colour", "#E0E0E0"},
	}

	for _, tt := range tests {
		if got := HexColor(tt.tag); got != tt.want {
			t.Errorf("HexColor(%q) = %q, want %q", tt.tag, got, tt.want)
		}
	}

	if got := Color("#FF0000"); got != tcell.NewRGBColor(255, 0, 0) {
		t.Errorf("Color(#FF0000) = %v", got)
	}
	if _, err := ParseHexColor("#12345"); err == nil {
		t.Error("expected error for short hex colour")
	}
}
