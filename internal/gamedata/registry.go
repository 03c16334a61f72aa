package gamedata

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samdwyer/apprentice/internal/logger"
)

// DuplicateIDError reports a second registration of the same definition ID or
// map symbol. It is a configuration error and aborts initialization.
type DuplicateIDError struct {
	ID     string
	Symbol rune // Non-zero when the clash is on the map symbol
}

func (e *DuplicateIDError) Error() string {
	if e.Symbol != 0 {
		return fmt.Sprintf("duplicate map symbol %q registered by %s", e.Symbol, e.ID)
	}
	return fmt.Sprintf("duplicate entity id %q", e.ID)
}

// Registry maps definition IDs and map symbols to entity definitions.
// It is populated once during startup and only read afterwards.
type Registry struct {
	byID     map[string]*EntityDef
	bySymbol map[rune]*EntityDef
	order    []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:     make(map[string]*EntityDef),
		bySymbol: make(map[rune]*EntityDef),
	}
}

// Register adds a definition. Registering an ID or map symbol twice returns a
// *DuplicateIDError and leaves the registry unchanged.
func (r *Registry) Register(def EntityDef) error {
	if def.ID == "" {
		return errors.New("entity definition without id")
	}
	if _, ok := r.byID[def.ID]; ok {
		return &DuplicateIDError{ID: def.ID}
	}
	sym := def.SymbolRune()
	if sym != 0 {
		if _, ok := r.bySymbol[sym]; ok {
			return &DuplicateIDError{ID: def.ID, Symbol: sym}
		}
	}

	d := def
	r.byID[d.ID] = &d
	if sym != 0 {
		r.bySymbol[sym] = &d
	}
	r.order = append(r.order, d.ID)
	return nil
}

// Lookup returns the definition with the given ID, or nil if not found.
func (r *Registry) Lookup(id string) *EntityDef {
	return r.byID[id]
}

// LookupSymbol returns the definition placed by a map character, or nil.
func (r *Registry) LookupSymbol(symbol rune) *EntityDef {
	return r.bySymbol[symbol]
}

// Name returns the display name for an ID, falling back to the ID itself.
func (r *Registry) Name(id string) string {
	if def := r.byID[id]; def != nil {
		return def.Name
	}
	return id
}

// All returns all definitions in registration order.
func (r *Registry) All() []*EntityDef {
	defs := make([]*EntityDef, 0, len(r.order))
	for _, id := range r.order {
		defs = append(defs, r.byID[id])
	}
	return defs
}

// IDs returns the registered IDs sorted alphabetically.
func (r *Registry) IDs() []string {
	ids := append([]string(nil), r.order...)
	sort.Strings(ids)
	return ids
}

// Count returns the number of registered definitions.
func (r *Registry) Count() int {
	return len(r.order)
}

// LoadRegistry builds a registry from the embedded entities.json.
func LoadRegistry() (*Registry, error) {
	defs, err := LoadEntities()
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return nil, errors.New("no entities loaded from entities.json")
	}

	r := NewRegistry()
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			return nil, fmt.Errorf("registering entities.json: %w", err)
		}
	}
	for _, id := range []string{WallID, FloorID, PlayerID} {
		if r.Lookup(id) == nil {
			return nil, fmt.Errorf("entities.json is missing required %q definition", id)
		}
	}

	logger.For("gamedata").WithField("entities", r.Count()).Debug("entity registry loaded")
	return r, nil
}

// MustLoadRegistry loads a registry, panicking on error.
func MustLoadRegistry() *Registry {
	registry, err := LoadRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}
