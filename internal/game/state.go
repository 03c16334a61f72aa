// Package game runs the turn controller: it resolves player commands against
// the world, steps the mobiles and reports what happened.
package game

// State represents the current game state.
type State int

const (
	// StateExplore is the default mode where the player moves around the map.
	StateExplore State = iota
	// StateInventory shows the inventory panel.
	StateInventory
	// StateCrafting lists the recipes craftable at hand.
	StateCrafting
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateExplore:
		return "explore"
	case StateInventory:
		return "inventory"
	case StateCrafting:
		return "crafting"
	default:
		return "unknown"
	}
}
