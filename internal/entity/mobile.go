package entity

import "strings"

const defaultGreeting = "{name} greets {target}!"

// Mobile is the state of a reference that can act: the player and NPCs.
// It refers back to its reference by ID; X and Y always equal the
// reference's coordinates and are only changed through the world grid.
type Mobile struct {
	Ref       RefID
	Name      string
	X, Y      int
	HP, MaxHP int
	Active    bool
	Inventory *Inventory

	greeting string
}

// NewMobile creates mobile state for ref. An empty name uses the definition name.
func NewMobile(ref *Reference, name string) *Mobile {
	hp := 1
	greeting := defaultGreeting
	if props := ref.Def.Mobile; props != nil {
		if props.HP > 0 {
			hp = props.HP
		}
		if props.Greeting != "" {
			greeting = props.Greeting
		}
	}
	return &Mobile{
		Ref:       ref.ID,
		Name:      name,
		X:         ref.X,
		Y:         ref.Y,
		HP:        hp,
		MaxHP:     hp,
		Active:    true,
		Inventory: NewInventory(),
		greeting:  greeting,
	}
}

// Alive reports whether the mobile still has hit points.
func (m *Mobile) Alive() bool {
	return m.HP > 0
}

// CanAct reports whether the mobile takes part in world turns.
func (m *Mobile) CanAct() bool {
	return m.Active && m.Alive()
}

// Greet returns the greeting this mobile gives target.
func (m *Mobile) Greet(self, target string) string {
	return strings.NewReplacer("{name}", self, "{target}", target).Replace(m.greeting)
}
