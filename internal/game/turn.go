package game

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/apprentice/internal/action"
	"github.com/samdwyer/apprentice/internal/crafting"
	"github.com/samdwyer/apprentice/internal/gamedata"
	"github.com/samdwyer/apprentice/internal/interaction"
	"github.com/samdwyer/apprentice/internal/logger"
	"github.com/samdwyer/apprentice/internal/msglog"
	"github.com/samdwyer/apprentice/internal/telemetry"
)

// Outcome reports what one command did. Messages are also appended to the
// game's log in the same order.
type Outcome struct {
	TurnPassed bool
	Moved      bool
	Messages   []msglog.Message
	Quit       bool
}

func (o *Outcome) say(text string) {
	o.add(text, msglog.ColorDefault)
}

func (o *Outcome) add(text, color string) {
	o.Messages = append(o.Messages, msglog.Message{Text: text, Color: color})
}

// Handle processes one command. A command that consumes a turn is followed by
// the world turn. Rejected commands change nothing.
func (g *Game) Handle(ctx context.Context, cmd Command) Outcome {
	ctx, span := telemetry.Tracer("game").Start(ctx, "turn.resolve")
	defer span.End()

	out := g.resolve(ctx, cmd)
	if out.TurnPassed && g.player.Mobile.Alive() {
		out.Messages = append(out.Messages, g.worldTurn(ctx)...)
	}
	g.log.AddAll(out.Messages)

	span.SetAttributes(
		attribute.String("command", cmd.Kind.String()),
		attribute.Bool("turn_passed", out.TurnPassed),
		attribute.Bool("moved", out.Moved),
		attribute.Int("messages", len(out.Messages)),
	)
	return out
}

func (g *Game) resolve(ctx context.Context, cmd Command) Outcome {
	var out Outcome

	// Quit and log scrolling work in every mode.
	switch cmd.Kind {
	case CmdQuit:
		g.running = false
		out.Quit = true
		return out
	case CmdScrollUp:
		g.log.ScrollUp()
		return out
	case CmdScrollDown:
		g.log.ScrollDown()
		return out
	}

	// Target selection gets first refusal; everything else is suppressed.
	if g.targeting.Active() {
		switch cmd.Kind {
		case CmdSelect:
			return g.selectTarget(ctx, cmd.Key)
		case CmdCancel:
			g.targeting.Cancel()
		}
		return out
	}

	switch cmd.Kind {
	case CmdMove:
		return g.move(ctx, cmd.DX, cmd.DY)
	case CmdInteract:
		if !g.targeting.Start(g.player.X, g.player.Y, g.player.ID, cmd.Action) {
			out.add(fmt.Sprintf("There is nothing nearby to %s.", cmd.Action), msglog.ColorInfo)
		}
	case CmdCancel:
		g.state = StateExplore
	case CmdInventory:
		g.toggleInventory(&out)
	case CmdLook:
		g.look(&out)
	case CmdCraftMenu:
		g.toggleCrafting(&out)
	case CmdCraft:
		return g.craft(cmd.Recipe)
	}
	return out
}

func (g *Game) selectTarget(ctx context.Context, key rune) Outcome {
	var out Outcome
	res := g.targeting.HandleInput(key, g.actionContext(ctx))
	if res.Performed {
		out.Messages = res.Result.Messages
		out.TurnPassed = res.Result.TurnPassed
	}
	return out
}

// move resolves a move by (dx, dy). The destination's occupant decides what
// happens; a blocked or out of bounds destination rejects the move.
func (g *Game) move(ctx context.Context, dx, dy int) Outcome {
	var out Outcome
	p := g.player
	nx, ny := p.X+dx, p.Y+dy
	if !g.grid.InBounds(nx, ny) {
		return out
	}

	if occ := g.grid.OccupantAt(nx, ny, p.ID); occ != nil {
		switch occ.Def.Kind {
		case gamedata.KindDoor:
			if !occ.Open {
				if err := g.grid.SetOpen(occ.ID, true); err != nil {
					logger.For("game").WithError(err).Warn("opening door")
					return out
				}
				out.say(fmt.Sprintf("%s opens the %s.", p.Name(), strings.ToLower(occ.Name())))
				out.TurnPassed = true
			}
			if g.grid.IsBlockedExcept(nx, ny, p.ID) {
				return out
			}
			return g.step(out, nx, ny)

		case gamedata.KindMobile:
			out.add(occ.Greet(p.Name()), msglog.ColorGood)
			out.TurnPassed = true
			return out

		case gamedata.KindItem:
			if g.grid.IsBlockedExcept(nx, ny, p.ID) {
				return out
			}
			out = g.step(out, nx, ny)
			if !out.Moved {
				return out
			}
			msg, err := action.PickUp(g.grid, p, occ)
			if err != nil {
				logger.For("game").WithError(err).Warn("picking up item")
				return out
			}
			out.add(msg, msglog.ColorGood)
			return out
		}
	}

	if g.grid.IsBlockedExcept(nx, ny, p.ID) {
		return out
	}
	return g.step(out, nx, ny)
}

func (g *Game) step(out Outcome, x, y int) Outcome {
	if err := g.grid.Move(g.player.ID, x, y); err != nil {
		logger.For("game").WithError(err).Warn("moving player")
		return out
	}
	out.Moved = true
	out.TurnPassed = true
	return out
}

// worldTurn recomputes the field of view and lets every other mobile act
// once. Mobiles near the player walk toward them; adjacent ones greet.
func (g *Game) worldTurn(ctx context.Context) []msglog.Message {
	_, span := telemetry.Tracer("game").Start(ctx, "world.turn")
	defer span.End()

	var msgs []msglog.Message
	p := g.player
	g.grid.ComputeFOV(p.X, p.Y, g.cfg.FOVRadius)

	acted, moved, greeted := 0, 0, 0
	for _, ref := range g.grid.References() {
		if ref.ID == p.ID || ref.Def.Kind != gamedata.KindMobile {
			continue
		}
		if g.grid.Reference(ref.ID) == nil {
			continue
		}
		m := ref.Mobile
		if m == nil {
			logger.For("game").WithField("ref", ref.ID).WithField("def", ref.Def.ID).
				Warn("mobile reference without mobile state")
			continue
		}
		if !m.CanAct() {
			continue
		}

		dist := math.Hypot(float64(ref.X-p.X), float64(ref.Y-p.Y))
		if dist > g.cfg.DetectionRadius {
			continue
		}
		acted++
		if dist <= g.cfg.AdjacencyRange {
			msgs = append(msgs, msglog.Message{Text: ref.Greet(p.Name()), Color: msglog.ColorGood})
			greeted++
			continue
		}

		nx, ny := g.grid.FindNextStep(ref.X, ref.Y, p.X, p.Y, ref.ID)
		if nx == ref.X && ny == ref.Y {
			continue
		}
		if g.grid.IsBlockedExcept(nx, ny, ref.ID) {
			continue
		}
		if err := g.grid.Move(ref.ID, nx, ny); err != nil {
			logger.For("game").WithError(err).WithField("ref", ref.ID).Warn("moving mobile")
			continue
		}
		moved++
	}

	g.turn++
	if g.cfg.TurnsPerDay > 0 && g.turn%g.cfg.TurnsPerDay == 0 {
		msgs = append(msgs, g.advanceDay())
	}

	span.SetAttributes(
		attribute.Int("turn", g.turn),
		attribute.Int("mobiles.acted", acted),
		attribute.Int("mobiles.moved", moved),
		attribute.Int("mobiles.greeted", greeted),
	)
	return msgs
}

// advanceDay starts a new day and lets the plants grow back.
func (g *Game) advanceDay() msglog.Message {
	g.world.Day++
	g.world.ClearFlags(action.HarvestedFlagPrefix)
	logger.For("game").WithField("day", g.world.Day).Info("new day")
	return msglog.Message{Text: fmt.Sprintf("A new day dawns. Day %d.", g.world.Day), Color: msglog.ColorInfo}
}

func (g *Game) look(out *Outcome) {
	var names []string
	for _, d := range interaction.Neighbourhood {
		for _, ref := range g.grid.ReferencesAt(g.player.X+d[0], g.player.Y+d[1]) {
			if ref.ID == g.player.ID || ref.IsTerrain() {
				continue
			}
			names = append(names, ref.Name())
		}
	}
	if len(names) == 0 {
		out.say("You look around and see nothing special.")
		return
	}
	out.say("You see: " + strings.Join(names, ", ") + ".")
}

func (g *Game) toggleInventory(out *Outcome) {
	if g.state == StateInventory {
		g.state = StateExplore
		return
	}
	g.state = StateInventory
	items := g.Inventory().Items()
	if len(items) == 0 {
		out.say("Your inventory is empty.")
		return
	}
	out.say("Inventory:")
	for _, s := range items {
		out.add(fmt.Sprintf("  %s x%d", g.registry.Name(s.ItemID), s.Quantity), msglog.ColorInfo)
	}
}

func (g *Game) toggleCrafting(out *Outcome) {
	if g.state == StateCrafting {
		g.state = StateExplore
		return
	}
	g.state = StateCrafting
	available := g.recipes.Available(g.Inventory(), g.Bench())
	if len(available) == 0 {
		out.say("You can't craft anything here.")
		return
	}
	out.say("You could craft:")
	for _, r := range available {
		out.add(fmt.Sprintf("  %s (%s)", r.Name, r.ID), msglog.ColorInfo)
	}
}

// craft makes one recipe with the stations around the player. Success takes
// a turn; failure explains what is missing.
func (g *Game) craft(id string) Outcome {
	var out Outcome
	recipe := g.recipes.Get(id)
	if recipe == nil {
		out.add("You don't know how to make that.", msglog.ColorWarning)
		return out
	}

	maxStack := 0
	if def := g.registry.Lookup(recipe.Result.ItemID); def != nil {
		maxStack = def.MaxStack()
	}
	err := crafting.Craft(recipe, g.Inventory(), g.Bench(), maxStack)
	switch {
	case err == nil:
		out.add(fmt.Sprintf("You craft %s.", g.registry.Name(recipe.Result.ItemID)), msglog.ColorGood)
		out.TurnPassed = true
	case errors.Is(err, crafting.ErrMissingIngredients):
		out.add(fmt.Sprintf("You don't have the ingredients for %s.", recipe.Name), msglog.ColorWarning)
	case errors.Is(err, crafting.ErrWrongStation):
		out.add(fmt.Sprintf("You need a %s nearby to make %s.", g.registry.Name(recipe.RequiredStation), recipe.Name), msglog.ColorWarning)
	case errors.Is(err, crafting.ErrMissingTool):
		out.add(fmt.Sprintf("You need %s to make %s.", g.registry.Name(recipe.RequiredTool), recipe.Name), msglog.ColorWarning)
	case errors.Is(err, crafting.ErrSkillTooLow):
		out.add(fmt.Sprintf("You lack the skill to make %s.", recipe.Name), msglog.ColorWarning)
	case errors.Is(err, crafting.ErrStackFull):
		out.add(fmt.Sprintf("You can't carry any more %s.", g.registry.Name(recipe.Result.ItemID)), msglog.ColorWarning)
	default:
		logger.For("game").WithError(err).WithField("recipe", id).Warn("craft failed")
		out.add(action.NothingHappens, msglog.ColorDefault)
	}
	return out
}
