package gamedata

// Kind tags the behaviour family of an entity definition.
type Kind string

const (
	KindStatic    Kind = "static"
	KindItem      Kind = "item"
	KindDoor      Kind = "door"
	KindActivator Kind = "activator"
	KindMobile    Kind = "mobile"
)

// Well-known definition IDs the world relies on.
const (
	WallID   = "wall"
	FloorID  = "floor"
	PlayerID = "player"
)

// ItemProps holds the item payload of an entity definition.
type ItemProps struct {
	Stackable bool `json:"stackable"`
	MaxStack  int  `json:"max_stack,omitempty"` // 0 means unlimited
	Quantity  int  `json:"quantity,omitempty"`  // Stack size of a placed reference
}

// DoorProps holds the door payload of an entity definition.
type DoorProps struct {
	OpenGlyph string `json:"open_glyph"`
	Open      bool   `json:"open"` // Initial state of placed doors
}

// MobileProps holds the mobile payload of an entity definition.
type MobileProps struct {
	HP       int    `json:"hp"`
	Greeting string `json:"greeting,omitempty"` // Template with {name} and {target}
}

// EntityDef defines an object kind loaded from JSON. Definitions are shared by
// every reference that places them and are never mutated after registration.
type EntityDef struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	Glyph        string            `json:"glyph"`
	Symbol       string            `json:"symbol,omitempty"` // Map character, if placeable from map rows
	Color        string            `json:"color"`            // Palette tag or hex code
	Blocks       bool              `json:"blocks"`
	Interactable bool              `json:"interactable"`
	Kind         Kind              `json:"kind"`
	Actions      map[string]string `json:"actions,omitempty"` // Action type -> handler name
	Item         *ItemProps        `json:"item,omitempty"`
	Door         *DoorProps        `json:"door,omitempty"`
	Mobile       *MobileProps      `json:"mobile,omitempty"`
	Harvest      *Ingredient       `json:"harvest,omitempty"` // Yield of harvestable activators
}

// GlyphRune returns the glyph as a rune for rendering.
func (d *EntityDef) GlyphRune() rune {
	return firstRune(d.Glyph)
}

// OpenGlyphRune returns the glyph an open door is drawn with.
func (d *EntityDef) OpenGlyphRune() rune {
	if d.Door == nil || d.Door.OpenGlyph == "" {
		return '\''
	}
	return firstRune(d.Door.OpenGlyph)
}

// SymbolRune returns the map symbol, or 0 when the definition is not placeable.
func (d *EntityDef) SymbolRune() rune {
	if d.Symbol == "" {
		return 0
	}
	return firstRune(d.Symbol)
}

// HasAction reports whether the definition exposes the given action type.
func (d *EntityDef) HasAction(action string) bool {
	_, ok := d.Actions[action]
	return ok
}

// Handler returns the handler name bound to an action type.
func (d *EntityDef) Handler(action string) string {
	return d.Actions[action]
}

// StackSize returns the quantity a placed item reference carries.
func (d *EntityDef) StackSize() int {
	if d.Item == nil || d.Item.Quantity <= 0 {
		return 1
	}
	return d.Item.Quantity
}

// MaxStack returns the stack limit for an item, 0 meaning unlimited.
func (d *EntityDef) MaxStack() int {
	if d.Item == nil {
		return 0
	}
	if !d.Item.Stackable {
		return 1
	}
	return d.Item.MaxStack
}

// IsTerrain reports whether the definition is a bare wall or floor.
func (d *EntityDef) IsTerrain() bool {
	return d.ID == WallID || d.ID == FloorID
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return '?'
}

// EntitiesFile represents the structure of entities.json.
type EntitiesFile struct {
	Entities []EntityDef `json:"entities"`
}

// LoadEntities loads entity definitions from the embedded entities.json file
// after validating it against entities.schema.json.
func LoadEntities() ([]EntityDef, error) {
	file, err := LoadValidated[EntitiesFile]("entities.json", "entities.schema.json")
	if err != nil {
		return nil, err
	}
	return file.Entities, nil
}
