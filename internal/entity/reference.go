// Package entity provides the positioned instances that live on the world grid:
// references, the mobile state some of them carry, and inventories.
package entity

import (
	"github.com/samdwyer/apprentice/internal/gamedata"
)

// RefID identifies a reference for its whole lifetime. IDs are never reused.
type RefID uint64

// Reference is a live instance of an entity definition at a grid position.
// The definition is shared; the fields below it are instance state.
type Reference struct {
	ID   RefID
	X, Y int
	Def  *gamedata.EntityDef

	Open     bool    // Door state
	Quantity int     // Stack size of an item reference
	Mobile   *Mobile // Set for mobiles, including the player
}

// NewReference creates a reference with instance state initialised from def.
func NewReference(id RefID, def *gamedata.EntityDef, x, y int) *Reference {
	ref := &Reference{
		ID:  id,
		X:   x,
		Y:   y,
		Def: def,
	}
	switch def.Kind {
	case gamedata.KindDoor:
		ref.Open = def.Door != nil && def.Door.Open
	case gamedata.KindItem:
		ref.Quantity = def.StackSize()
	case gamedata.KindMobile:
		ref.Mobile = NewMobile(ref, "")
	}
	return ref
}

// Position returns the current x, y coordinates.
func (r *Reference) Position() (int, int) {
	return r.X, r.Y
}

// Kind returns the definition kind.
func (r *Reference) Kind() gamedata.Kind {
	return r.Def.Kind
}

// Blocks reports the effective blocking flag. An open door does not block.
func (r *Reference) Blocks() bool {
	if r.Def.Kind == gamedata.KindDoor && r.Open {
		return false
	}
	return r.Def.Blocks
}

// Glyph returns the rune the reference is drawn with right now.
func (r *Reference) Glyph() rune {
	if r.Def.Kind == gamedata.KindDoor && r.Open {
		return r.Def.OpenGlyphRune()
	}
	return r.Def.GlyphRune()
}

// Name returns the display name. Mobiles may carry their own name.
func (r *Reference) Name() string {
	if r.Mobile != nil && r.Mobile.Name != "" {
		return r.Mobile.Name
	}
	return r.Def.Name
}

// IsTerrain reports whether the reference is a bare wall or floor tile.
func (r *Reference) IsTerrain() bool {
	return r.Def.IsTerrain()
}

// HasAction reports whether the reference currently exposes an action type.
// Doors offer open only while closed and close only while open.
func (r *Reference) HasAction(action string) bool {
	if !r.Def.Interactable || !r.Def.HasAction(action) {
		return false
	}
	if r.Def.Kind == gamedata.KindDoor {
		switch action {
		case gamedata.ActionOpen:
			return !r.Open
		case gamedata.ActionClose:
			return r.Open
		}
	}
	return true
}

// Actions returns the action types the reference currently exposes, in the
// fixed action order.
func (r *Reference) Actions() []string {
	var actions []string
	for _, action := range gamedata.ActionOrder {
		if r.HasAction(action) {
			actions = append(actions, action)
		}
	}
	return actions
}

// Handler returns the handler name bound to an action type.
func (r *Reference) Handler(action string) string {
	return r.Def.Handler(action)
}

// Greet returns the greeting a mobile reference gives target, or "" for
// references without mobile state.
func (r *Reference) Greet(target string) string {
	if r.Mobile == nil {
		return ""
	}
	return r.Mobile.Greet(r.Name(), target)
}
