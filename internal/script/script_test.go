package script

import (
	"context"
	"strings"
	"testing"

	"github.com/samdwyer/apprentice/data"
	"github.com/samdwyer/apprentice/internal/action"
	"github.com/samdwyer/apprentice/internal/entity"
	"github.com/samdwyer/apprentice/internal/gamedata"
	"github.com/samdwyer/apprentice/internal/world"
)

func setup(t *testing.T) (*action.Registry, *action.Context, *entity.Reference) {
	t.Helper()
	engine, err := Load(data.Scripts())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	t.Cleanup(engine.Close)

	reg := action.NewRegistry()
	if err := engine.Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}

	registry := gamedata.MustLoadRegistry()
	grid, err := world.Load(context.Background(), registry, []string{"@B"}, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	player, err := grid.Add(registry.Lookup("player"), 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	player.Mobile.Name = "Lina"
	station := grid.OccupantAt(1, 0, 0)

	return reg, &action.Context{
		Ctx:      context.Background(),
		Grid:     grid,
		State:    world.NewState(1),
		Registry: registry,
		Actor:    player,
		Target:   station,
	}, player
}

func TestBrewingStationScripts(t *testing.T) {
	reg, c, player := setup(t)
	for _, name := range []string{"brewing_station.examine", "brewing_station.clean"} {
		if !reg.Has(name) {
			t.Fatalf("scripted handler %s not registered", name)
		}
	}

	c.Action = gamedata.ActionExamine
	res := reg.Dispatch(c)
	if len(res.Messages) != 1 || !strings.Contains(res.Messages[0].Text, "needs cleaning") {
		t.Errorf("dirty examine = %v", res.Messages)
	}
	if res.Messages[0].Color != "dark_red" || res.TurnPassed {
		t.Errorf("dirty examine colour %q turn %v", res.Messages[0].Color, res.TurnPassed)
	}

	c.Action = gamedata.ActionClean
	res = reg.Dispatch(c)
	if res.TurnPassed || res.Messages[0].Text != "You need a cleaning solution to clear these pipes." {
		t.Errorf("clean without gloop = %+v", res)
	}
	if c.State.Flag("brewing_station_cleaned") {
		t.Fatal("flag set without gloop")
	}

	player.Mobile.Inventory.Add("cleaning_gloop", 2)
	res = reg.Dispatch(c)
	if !res.TurnPassed || !c.State.Flag("brewing_station_cleaned") {
		t.Fatalf("clean with gloop = %+v flags %v", res, c.State.FlagNames())
	}
	if player.Mobile.Inventory.Quantity("cleaning_gloop") != 1 {
		t.Errorf("cleaning should use one gloop, have %d", player.Mobile.Inventory.Quantity("cleaning_gloop"))
	}
	if res.Messages[0].Text != "You apply the cleaning gloop to the pipes.\nIt begins dissolving the blockage." {
		t.Errorf("clean message = %q", res.Messages[0].Text)
	}

	c.Action = gamedata.ActionExamine
	res = reg.Dispatch(c)
	if res.Messages[0].Text != "The brewing station is clean and ready to use." {
		t.Errorf("clean examine = %q", res.Messages[0].Text)
	}
}

func TestSandbox(t *testing.T) {
	e := New()
	defer e.Close()

	for _, src := range []string{
		`dofile("/etc/passwd")`,
		`os.exit(1)`,
		`io.write("x")`,
		`math.randomseed(1)`,
	} {
		if err := e.LoadString("bad.lua", src); err == nil {
			t.Errorf("%s should fail in the sandbox", src)
		}
	}
}

func TestLoadStringErrors(t *testing.T) {
	e := New()
	defer e.Close()

	if err := e.LoadString("syntax.lua", `handlers["x" = 1`); err == nil {
		t.Error("syntax error should be reported")
	}
	if err := e.LoadString("notfn.lua", `handlers["x"] = 42`); err == nil {
		t.Error("non-function handler should be reported")
	}
}

func TestScriptRuntimeErrorIsNotFatal(t *testing.T) {
	e := New()
	defer e.Close()
	if err := e.LoadString("boom.lua", `handlers["boom"] = function(ctx) error("kaboom") end`); err != nil {
		t.Fatal(err)
	}
	reg := action.NewRegistry()
	if err := e.Register(reg); err != nil {
		t.Fatal(err)
	}

	registry := gamedata.MustLoadRegistry()
	target := entity.NewReference(1, &gamedata.EntityDef{
		ID: "bomb", Name: "Bomb", Glyph: "b", Interactable: true, Kind: gamedata.KindActivator,
		Actions: map[string]string{gamedata.ActionUse: "boom"},
	}, 0, 0)
	res := reg.Dispatch(&action.Context{Registry: registry, State: world.NewState(1), Target: target, Action: gamedata.ActionUse})
	if len(res.Messages) != 1 || res.Messages[0].Text != action.NothingHappens {
		t.Errorf("runtime error result = %+v", res)
	}
}
