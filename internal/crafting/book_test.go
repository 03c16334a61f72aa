package crafting

import (
	"errors"
	"testing"

	"github.com/samdwyer/apprentice/internal/entity"
	"github.com/samdwyer/apprentice/internal/gamedata"
)

func TestLoadBookIndexes(t *testing.T) {
	book, err := LoadBook()
	if err != nil {
		t.Fatalf("LoadBook: %v", err)
	}

	if r := book.Get("cleaning_gloop"); r == nil || r.Category != "Alchemy" || r.Time != 2 {
		t.Fatalf("cleaning_gloop recipe = %+v", r)
	}
	if book.Get("philosophers_stone") != nil {
		t.Error("unknown recipe should be nil")
	}

	tests := []struct {
		name string
		got  []*Recipe
		want []string
	}{
		{"category Alchemy", book.ByCategory("Alchemy"), []string{"cleaning_gloop", "glowshroom_essence"}},
		{"tag order", book.ByTag("order"), []string{"glowshroom_essence"}},
		{"ingredient silver_leaf", book.ByIngredient("silver_leaf"), []string{"cleaning_gloop", "trimmed_silver_leaf"}},
		{"station workbench", book.ByStation("workbench"), []string{"cleaning_gloop"}},
		{"tool pruning_shears", book.ByTool("pruning_shears"), []string{"trimmed_silver_leaf"}},
		{"missing tag", book.ByTag("cursed"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.got) != len(tt.want) {
				t.Fatalf("got %d recipes, want %v", len(tt.got), tt.want)
			}
			for i, r := range tt.got {
				if r.ID != tt.want[i] {
					t.Errorf("recipe %d = %s, want %s", i, r.ID, tt.want[i])
				}
			}
		})
	}
}

func TestNewBookDuplicate(t *testing.T) {
	recipes := []Recipe{
		{ID: "a", Name: "A", Result: gamedata.Ingredient{ItemID: "x", Quantity: 1}},
		{ID: "a", Name: "A again", Result: gamedata.Ingredient{ItemID: "x", Quantity: 1}},
	}
	if _, err := NewBook(recipes); err == nil {
		t.Error("duplicate recipe ids should fail")
	}
}

func TestCheckAndCraft(t *testing.T) {
	book, err := LoadBook()
	if err != nil {
		t.Fatal(err)
	}
	gloop := book.Get("cleaning_gloop")

	tests := []struct {
		name    string
		items   map[string]int
		bench   Bench
		wantErr error
	}{
		{"ok", map[string]int{"silver_leaf": 3, "lemon_fruit": 1}, Bench{Stations: []string{"workbench"}}, nil},
		{"short of leaves", map[string]int{"silver_leaf": 2, "lemon_fruit": 1}, Bench{Stations: []string{"workbench"}}, ErrMissingIngredients},
		{"no station", map[string]int{"silver_leaf": 3, "lemon_fruit": 1}, Bench{}, ErrWrongStation},
		{"wrong station", map[string]int{"silver_leaf": 3, "lemon_fruit": 1}, Bench{Stations: []string{"brewing_station"}}, ErrWrongStation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := entity.NewInventory()
			for id, qty := range tt.items {
				inv.Add(id, qty)
			}
			before := inv.Counts()

			err := Craft(gloop, inv, tt.bench, 10)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Craft() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if got := inv.Counts(); len(got) != len(before) || got["silver_leaf"] != before["silver_leaf"] {
					t.Errorf("failed craft changed the inventory: %v", got)
				}
				return
			}
			if inv.Quantity("cleaning_gloop") != 1 || inv.Has("silver_leaf", 1) || inv.Has("lemon_fruit", 1) {
				t.Errorf("unexpected inventory after craft: %v", inv.Counts())
			}
		})
	}
}

func TestCraftToolSkillAndStack(t *testing.T) {
	book, err := LoadBook()
	if err != nil {
		t.Fatal(err)
	}

	trim := book.Get("trimmed_silver_leaf")
	inv := entity.NewInventory()
	inv.Add("silver_leaf", 4)
	if err := Craft(trim, inv, Bench{}, 0); !errors.Is(err, ErrMissingTool) {
		t.Errorf("without shears: got %v, want ErrMissingTool", err)
	}
	inv.Add("pruning_shears", 1)
	if err := Craft(trim, inv, Bench{}, 0); err != nil {
		t.Fatalf("with shears: %v", err)
	}
	if !inv.Has("pruning_shears", 1) {
		t.Error("tools are not consumed")
	}

	skilled := &Recipe{
		ID:             "tincture",
		Ingredients:    []gamedata.Ingredient{{ItemID: "silver_leaf", Quantity: 1}},
		Result:         gamedata.Ingredient{ItemID: "tincture", Quantity: 1},
		RequiredSkills: map[string]int{"alchemy": 2},
	}
	if err := Check(skilled, inv, Bench{Skills: map[string]int{"alchemy": 1}}); !errors.Is(err, ErrSkillTooLow) {
		t.Errorf("low skill: got %v, want ErrSkillTooLow", err)
	}
	if err := Check(skilled, inv, Bench{}); err != nil {
		t.Errorf("nil skills skip the skill check, got %v", err)
	}

	full := entity.NewInventory()
	full.Add("silver_leaf", 3)
	full.Add("lemon_fruit", 1)
	full.Add("cleaning_gloop", 10)
	if err := Craft(book.Get("cleaning_gloop"), full, Bench{Stations: []string{"workbench"}}, 10); !errors.Is(err, ErrStackFull) {
		t.Errorf("full stack: got %v, want ErrStackFull", err)
	}
}

func TestAvailable(t *testing.T) {
	book, err := LoadBook()
	if err != nil {
		t.Fatal(err)
	}
	inv := entity.NewInventory()
	inv.Add("silver_leaf", 5)
	inv.Add("lemon_fruit", 2)
	inv.Add("glowshroom", 10)
	inv.Add("moon_dew", 5)
	inv.Add("glowing_moss", 3)

	got := book.Available(inv, Bench{Stations: []string{"brewing_station"}})
	if len(got) != 1 || got[0].ID != "glowshroom_essence" {
		t.Errorf("at the brewing station: got %v", ids(got))
	}
	got = book.Available(inv, Bench{Stations: []string{"workbench", "brewing_station"}})
	if len(got) != 2 {
		t.Errorf("with both stations: got %v", ids(got))
	}
}

func ids(recipes []*Recipe) []string {
	var out []string
	for _, r := range recipes {
		out = append(out, r.ID)
	}
	return out
}
