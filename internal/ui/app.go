package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/apprentice/internal/game"
	"github.com/samdwyer/apprentice/internal/logger"
	"github.com/samdwyer/apprentice/internal/msglog"
	"github.com/samdwyer/apprentice/internal/save"
)

// App runs the interactive loop: render, wait for one event, act on it.
type App struct {
	screen   *Screen
	renderer *Renderer
	game     *game.Game
	saves    *save.Store // May be nil; saving is then unavailable
	slot     int
}

// NewApp creates the interactive front end for g.
func NewApp(screen *Screen, g *game.Game, saves *save.Store) *App {
	return &App{
		screen:   screen,
		renderer: NewRenderer(screen),
		game:     g,
		saves:    saves,
		slot:     1,
	}
}

// Run executes the main loop until the game quits.
func (a *App) Run(ctx context.Context) error {
	for a.game.Running() {
		a.renderer.Render(a.game)

		switch ev := a.screen.PollEvent().(type) {
		case *tcell.EventKey:
			a.handleKey(ctx, ev)
		case *tcell.EventResize:
			a.screen.Sync()
		case nil:
			// The screen was finalised underneath us.
			return nil
		}
	}
	return nil
}

func (a *App) handleKey(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyF5:
		a.Save(ctx)
		return
	case tcell.KeyF9:
		a.Load(ctx)
		return
	case tcell.KeyTab:
		a.nextSlot()
		return
	}

	cmd, ok := KeyCommand(ev, KeyContextFor(a.game))
	if !ok {
		return
	}
	a.game.Handle(ctx, cmd)
}

func (a *App) nextSlot() {
	if a.saves == nil {
		return
	}
	a.slot = a.slot%a.saves.Slots() + 1
	a.game.Log().Add(fmt.Sprintf("Save slot %d selected.", a.slot), msglog.ColorInfo)
}

// Save writes the game to the selected slot and reports it in the log.
func (a *App) Save(ctx context.Context) {
	SaveSlot(ctx, a.game, a.saves, a.slot)
}

// Load restores the game from the selected slot and reports it in the log.
func (a *App) Load(ctx context.Context) {
	LoadSlot(ctx, a.game, a.saves, a.slot)
}

// SaveSlot saves g to a slot of store. The resulting messages are added to
// the game log and returned.
func SaveSlot(ctx context.Context, g *game.Game, store *save.Store, slot int) []msglog.Message {
	msg := msglog.Message{Text: fmt.Sprintf("Game saved to slot %d.", slot), Color: msglog.ColorGood}
	if store == nil {
		msg = msglog.Message{Text: "Saving is not available.", Color: msglog.ColorWarning}
	} else if _, err := store.Save(ctx, slot, g.ToSnapshot()); err != nil {
		logger.For("ui").WithError(err).WithField("slot", slot).Error("save failed")
		msg = msglog.Message{Text: "Error saving game.", Color: msglog.ColorWarning}
	}
	g.Log().Add(msg.Text, msg.Color)
	return []msglog.Message{msg}
}

// LoadSlot loads a slot of store into g. The resulting messages are added to
// the game log and returned.
func LoadSlot(ctx context.Context, g *game.Game, store *save.Store, slot int) []msglog.Message {
	msgs := loadSlot(ctx, g, store, slot)
	g.Log().AddAll(msgs)
	return msgs
}

func loadSlot(ctx context.Context, g *game.Game, store *save.Store, slot int) []msglog.Message {
	warn := func(text string) []msglog.Message {
		return []msglog.Message{{Text: text, Color: msglog.ColorWarning}}
	}
	if store == nil {
		return warn("Loading is not available.")
	}
	loaded, err := store.Load(ctx, slot)
	if errors.Is(err, save.ErrNoSave) {
		return warn(fmt.Sprintf("No saved game in slot %d.", slot))
	}
	if err == nil {
		err = g.FromSnapshot(ctx, loaded.Snapshot)
	}
	if err != nil {
		logger.For("ui").WithError(err).WithField("slot", slot).Error("load failed")
		return warn("Error loading game.")
	}

	var msgs []msglog.Message
	if !loaded.Compatible {
		msgs = warn("Warning: Save file version may be incompatible.")
	}
	return append(msgs, msglog.Message{Text: fmt.Sprintf("Game loaded from slot %d.", slot), Color: msglog.ColorGood})
}
