// Package action resolves interaction action types against a set of named
// handlers. Entity definitions name a handler per action type; handlers get
// an explicit Context instead of closing over game state.
package action

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/samdwyer/apprentice/internal/crafting"
	"github.com/samdwyer/apprentice/internal/entity"
	"github.com/samdwyer/apprentice/internal/gamedata"
	"github.com/samdwyer/apprentice/internal/logger"
	"github.com/samdwyer/apprentice/internal/msglog"
	"github.com/samdwyer/apprentice/internal/world"
)

// ErrDuplicateHandler is returned when a handler name is registered twice.
var ErrDuplicateHandler = errors.New("duplicate action handler")

// NothingHappens is reported when an action has no usable handler.
const NothingHappens = "Nothing happens."

// Context is everything a handler may read or change.
type Context struct {
	Ctx      context.Context
	Grid     *world.Grid
	State    *world.State
	Registry *gamedata.Registry
	Recipes  *crafting.Book
	Actor    *entity.Reference // The acting mobile, usually the player
	Target   *entity.Reference
	Action   string // Action type, e.g. "open"
}

// Inventory returns the actor's inventory.
func (c *Context) Inventory() *entity.Inventory {
	if c.Actor == nil || c.Actor.Mobile == nil {
		return nil
	}
	return c.Actor.Mobile.Inventory
}

// ActorName returns the actor's display name.
func (c *Context) ActorName() string {
	if c.Actor == nil {
		return "Someone"
	}
	return c.Actor.Name()
}

// Result is what a handler produced.
type Result struct {
	Messages   []msglog.Message
	TurnPassed bool
}

// Say appends a message in the default colour.
func (r *Result) Say(text string) {
	r.Add(text, msglog.ColorDefault)
}

// Add appends a message.
func (r *Result) Add(text, color string) {
	r.Messages = append(r.Messages, msglog.Message{Text: text, Color: color})
}

// Handler performs an action.
type Handler func(c *Context) (Result, error)

// Registry maps handler names to handlers.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds a handler name. Names are unique.
func (r *Registry) Register(name string, h Handler) error {
	if _, ok := r.handlers[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateHandler, name)
	}
	r.handlers[name] = h
	return nil
}

// Has reports whether a handler name is bound.
func (r *Registry) Has(name string) bool {
	_, ok := r.handlers[name]
	return ok
}

// Names returns the bound handler names sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs the handler the target binds to c.Action. A missing handler
// or a handler error yields NothingHappens and a warning in the log; it never
// interrupts the caller.
func (r *Registry) Dispatch(c *Context) Result {
	log := logger.For("action").WithField("action", c.Action)
	if c.Target == nil {
		log.Warn("dispatch without target")
		return nothing()
	}

	name := c.Target.Handler(c.Action)
	log = log.WithField("handler", name).WithField("target", c.Target.Def.ID)
	h, ok := r.handlers[name]
	if !ok {
		log.Warn("no handler registered")
		return nothing()
	}

	res, err := h(c)
	if err != nil {
		log.WithError(err).Warn("handler failed")
		return nothing()
	}
	return res
}

func nothing() Result {
	var res Result
	res.Say(NothingHappens)
	return res
}
