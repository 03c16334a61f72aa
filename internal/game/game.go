package game

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/apprentice/data"
	"github.com/samdwyer/apprentice/internal/action"
	"github.com/samdwyer/apprentice/internal/crafting"
	"github.com/samdwyer/apprentice/internal/entity"
	"github.com/samdwyer/apprentice/internal/gamedata"
	"github.com/samdwyer/apprentice/internal/interaction"
	"github.com/samdwyer/apprentice/internal/logger"
	"github.com/samdwyer/apprentice/internal/msglog"
	"github.com/samdwyer/apprentice/internal/script"
	"github.com/samdwyer/apprentice/internal/telemetry"
	"github.com/samdwyer/apprentice/internal/world"
)

// Game holds the entire game state.
type Game struct {
	cfg      Config
	registry *gamedata.Registry
	handlers *action.Registry
	recipes  *crafting.Book
	scripts  *script.Engine

	rows   []string // Layout the grid was built from
	grid   *world.Grid
	world  *world.State
	player *entity.Reference

	targeting *interaction.System
	log       *msglog.Log

	state   State
	turn    int
	running bool
}

// New creates a game from cfg, loading the map it names.
func New(ctx context.Context, cfg Config) (*Game, error) {
	rows, err := loadRows(cfg)
	if err != nil {
		return nil, err
	}
	return NewFromRows(ctx, cfg, rows)
}

// NewFromRows creates a game on the given map rows.
func NewFromRows(ctx context.Context, cfg Config, rows []string) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	ctx, span := telemetry.Tracer("game").Start(ctx, "game.init")
	defer span.End()

	registry, err := gamedata.LoadRegistry()
	if err != nil {
		return nil, err
	}
	recipes, err := crafting.LoadBook()
	if err != nil {
		return nil, err
	}

	handlers := action.NewRegistry()
	if err := action.RegisterBuiltins(handlers); err != nil {
		return nil, err
	}
	var engine *script.Engine
	if cfg.Scripts {
		engine, err = script.Load(data.Scripts())
		if err != nil {
			return nil, fmt.Errorf("loading scripts: %w", err)
		}
		if err := engine.Register(handlers); err != nil {
			engine.Close()
			return nil, err
		}
	}

	g := &Game{
		cfg:      cfg,
		registry: registry,
		handlers: handlers,
		recipes:  recipes,
		scripts:  engine,
		rows:     rows,
		log:      msglog.New(cfg.LogWidth, cfg.LogLines),
		state:    StateExplore,
		running:  true,
	}

	grid, player, err := g.buildWorld(ctx)
	if err != nil {
		g.Close()
		return nil, err
	}
	for id, qty := range cfg.StartingInventory {
		if registry.Lookup(id) == nil {
			logger.For("game").WithField("item", id).Warn("unknown starting inventory item")
		}
		player.Mobile.Inventory.Add(id, qty)
	}

	g.grid = grid
	g.player = player
	g.world = world.NewState(cfg.StartDay)
	g.targeting = interaction.New(grid, handlers)
	g.grid.ComputeFOV(player.X, player.Y, cfg.FOVRadius)
	g.log.AddAll(cfg.Intro)

	span.SetAttributes(
		attribute.Int("player.start_x", player.X),
		attribute.Int("player.start_y", player.Y),
		attribute.Int("world.references", grid.Count()),
		attribute.Int("handlers", len(handlers.Names())),
	)
	logger.For("game").WithField("handlers", len(handlers.Names())).
		WithField("recipes", len(recipes.All())).
		Info("game initialised")
	return g, nil
}

// buildWorld loads a fresh grid from the layout and places the player.
func (g *Game) buildWorld(ctx context.Context) (*world.Grid, *entity.Reference, error) {
	grid, err := world.Load(ctx, g.registry, g.rows, g.cfg.Width, g.cfg.Height)
	if err != nil {
		return nil, nil, err
	}
	def := g.registry.Lookup(gamedata.PlayerID)
	if def == nil {
		return nil, nil, fmt.Errorf("registry lacks %q definition", gamedata.PlayerID)
	}
	player, err := grid.Add(def, grid.PlayerStartX, grid.PlayerStartY)
	if err != nil {
		return nil, nil, fmt.Errorf("placing player: %w", err)
	}
	if player.Mobile == nil {
		return nil, nil, fmt.Errorf("%q definition is not a mobile", gamedata.PlayerID)
	}
	player.Mobile.Name = g.cfg.PlayerName
	return grid, player, nil
}

func loadRows(cfg Config) ([]string, error) {
	if cfg.MapFile != "" {
		content, err := os.ReadFile(cfg.MapFile)
		if err != nil {
			return nil, fmt.Errorf("reading map %s: %w", cfg.MapFile, err)
		}
		return data.ParseRows(string(content)), nil
	}
	return data.Map(cfg.Map)
}

// Close releases the script engine.
func (g *Game) Close() {
	if g.scripts != nil {
		g.scripts.Close()
		g.scripts = nil
	}
}

// Running reports whether the game loop should continue.
func (g *Game) Running() bool {
	return g.running
}

// Config returns the configuration the game was built with.
func (g *Game) Config() Config {
	return g.cfg
}

// Grid returns the world grid.
func (g *Game) Grid() *world.Grid {
	return g.grid
}

// Player returns the player reference.
func (g *Game) Player() *entity.Reference {
	return g.player
}

// Inventory returns the player's inventory.
func (g *Game) Inventory() *entity.Inventory {
	return g.player.Mobile.Inventory
}

// World returns the day counter and flags.
func (g *Game) World() *world.State {
	return g.world
}

// Registry returns the entity registry.
func (g *Game) Registry() *gamedata.Registry {
	return g.registry
}

// Recipes returns the recipe book.
func (g *Game) Recipes() *crafting.Book {
	return g.recipes
}

// Targeting returns the interaction targeting system.
func (g *Game) Targeting() *interaction.System {
	return g.targeting
}

// Log returns the message log.
func (g *Game) Log() *msglog.Log {
	return g.log
}

// State returns the current game state.
func (g *Game) State() State {
	return g.state
}

// Turn returns the number of turns that have passed.
func (g *Game) Turn() int {
	return g.turn
}

// AvailableInteractions lists the action types usable around the player.
func (g *Game) AvailableInteractions() []interaction.Type {
	return g.targeting.AvailableInteractions(g.player.X, g.player.Y, g.player.ID)
}

// Bench returns the crafting stations around the player.
func (g *Game) Bench() crafting.Bench {
	var bench crafting.Bench
	seen := make(map[string]bool)
	for _, d := range interaction.Neighbourhood {
		for _, ref := range g.grid.ReferencesAt(g.player.X+d[0], g.player.Y+d[1]) {
			if ref.Def.Kind != gamedata.KindActivator || seen[ref.Def.ID] {
				continue
			}
			seen[ref.Def.ID] = true
			bench.Stations = append(bench.Stations, ref.Def.ID)
		}
	}
	return bench
}

func (g *Game) actionContext(ctx context.Context) action.Context {
	return action.Context{
		Ctx:      ctx,
		Grid:     g.grid,
		State:    g.world,
		Registry: g.registry,
		Recipes:  g.recipes,
		Actor:    g.player,
	}
}
