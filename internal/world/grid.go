package world

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/apprentice/internal/entity"
	"github.com/samdwyer/apprentice/internal/gamedata"
	"github.com/samdwyer/apprentice/internal/logger"
	"github.com/samdwyer/apprentice/internal/telemetry"
)

// DefaultStartX and DefaultStartY are used when a map has no player glyph.
const (
	DefaultStartX = 3
	DefaultStartY = 3
)

var (
	// ErrOutOfBounds is returned when a position lies outside the grid.
	ErrOutOfBounds = errors.New("position out of bounds")
	// ErrOccupied is returned when a blocking reference would share a tile
	// with another blocking reference.
	ErrOccupied = errors.New("tile occupied by a blocking reference")
	// ErrNoReference is returned for operations on an unknown reference ID.
	ErrNoReference = errors.New("no such reference")
)

// Grid owns every reference in the world. At most one blocking reference
// stands on a cell at any time; non-blocking references may share it.
type Grid struct {
	Width  int
	Height int

	// PlayerStartX and PlayerStartY record where the player glyph was found.
	PlayerStartX int
	PlayerStartY int

	refs   []*entity.Reference
	byID   map[entity.RefID]*entity.Reference
	cells  [][]*entity.Reference // Per-cell references in insertion order
	nextID entity.RefID

	visible  []bool
	explored []bool
}

// NewGrid creates an empty grid.
func NewGrid(width, height int) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Grid{
		Width:        width,
		Height:       height,
		PlayerStartX: DefaultStartX,
		PlayerStartY: DefaultStartY,
		byID:         make(map[entity.RefID]*entity.Reference),
		cells:        make([][]*entity.Reference, width*height),
		visible:      make([]bool, width*height),
		explored:     make([]bool, width*height),
	}
}

// Load builds a grid from map rows. Row index is y and column index is x.
// A width or height of zero is derived from the rows. Every in-bounds cell
// gets exactly one terrain reference; registered symbols add a reference on
// top of floor; unknown symbols are floor.
func Load(ctx context.Context, registry *gamedata.Registry, rows []string, width, height int) (*Grid, error) {
	_, span := telemetry.Tracer("world").Start(ctx, "world.load")
	defer span.End()

	if width <= 0 {
		for _, row := range rows {
			if n := len([]rune(row)); n > width {
				width = n
			}
		}
	}
	if height <= 0 {
		height = len(rows)
	}

	wallDef := registry.Lookup(gamedata.WallID)
	floorDef := registry.Lookup(gamedata.FloorID)
	if wallDef == nil || floorDef == nil {
		return nil, fmt.Errorf("registry lacks %q or %q definition", gamedata.WallID, gamedata.FloorID)
	}

	g := NewGrid(width, height)
	playerFound := false
	for y := 0; y < height; y++ {
		var row []rune
		if y < len(rows) {
			row = []rune(rows[y])
		}
		for x := 0; x < width; x++ {
			symbol := TileFloor
			if x < len(row) {
				symbol = Tile(row[x])
			}

			terrain := floorDef
			if !symbol.IsPassable() {
				terrain = wallDef
			}
			if _, err := g.Add(terrain, x, y); err != nil {
				return nil, err
			}

			if symbol == TilePlayer {
				g.PlayerStartX, g.PlayerStartY = x, y
				playerFound = true
				continue
			}
			if symbol == TileWall || symbol == TileFloor {
				continue
			}
			def := registry.LookupSymbol(symbol.Rune())
			if def == nil {
				continue
			}
			if _, err := g.Add(def, x, y); err != nil {
				return nil, fmt.Errorf("placing %s at (%d,%d): %w", def.ID, x, y, err)
			}
		}
	}

	span.SetAttributes(
		attribute.Int("world.width", width),
		attribute.Int("world.height", height),
		attribute.Int("world.references", len(g.refs)),
		attribute.Bool("world.player_start_found", playerFound),
	)
	logger.For("world").WithField("width", width).
		WithField("height", height).
		WithField("references", len(g.refs)).
		Info("map loaded")
	return g, nil
}

// InBounds reports whether (x, y) lies inside the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

func (g *Grid) index(x, y int) int {
	return y*g.Width + x
}

// IsBlocked reports whether any reference at (x, y) currently blocks.
// Out-of-bounds positions are blocked.
func (g *Grid) IsBlocked(x, y int) bool {
	return g.IsBlockedExcept(x, y, 0)
}

// IsBlockedExcept is IsBlocked ignoring the reference with the given ID.
func (g *Grid) IsBlockedExcept(x, y int, except entity.RefID) bool {
	if !g.InBounds(x, y) {
		return true
	}
	return g.BlockerAt(x, y, except) != nil
}

// BlockerAt returns the blocking reference at (x, y) other than except, or nil.
func (g *Grid) BlockerAt(x, y int, except entity.RefID) *entity.Reference {
	if !g.InBounds(x, y) {
		return nil
	}
	for _, ref := range g.cells[g.index(x, y)] {
		if ref.ID != except && ref.Blocks() {
			return ref
		}
	}
	return nil
}

// ReferenceAt returns the first reference at (x, y) in insertion order, which
// is the terrain. Callers after the interesting occupant should use OccupantAt.
func (g *Grid) ReferenceAt(x, y int) *entity.Reference {
	if !g.InBounds(x, y) {
		return nil
	}
	cell := g.cells[g.index(x, y)]
	if len(cell) == 0 {
		return nil
	}
	return cell[0]
}

// ReferencesAt returns a copy of the references at (x, y) in insertion order.
func (g *Grid) ReferencesAt(x, y int) []*entity.Reference {
	if !g.InBounds(x, y) {
		return nil
	}
	cell := g.cells[g.index(x, y)]
	return append([]*entity.Reference(nil), cell...)
}

// OccupantAt returns the non-terrain reference at (x, y) that decides what
// happens when something moves there, ignoring except. A blocking reference
// wins over non-blocking ones; otherwise the earliest inserted is returned.
func (g *Grid) OccupantAt(x, y int, except entity.RefID) *entity.Reference {
	if !g.InBounds(x, y) {
		return nil
	}
	var first *entity.Reference
	for _, ref := range g.cells[g.index(x, y)] {
		if ref.ID == except || ref.IsTerrain() {
			continue
		}
		if ref.Blocks() {
			return ref
		}
		if first == nil {
			first = ref
		}
	}
	return first
}

// TerrainAt returns the terrain definition at (x, y), or nil out of bounds.
func (g *Grid) TerrainAt(x, y int) *gamedata.EntityDef {
	if !g.InBounds(x, y) {
		return nil
	}
	for _, ref := range g.cells[g.index(x, y)] {
		if ref.IsTerrain() {
			return ref.Def
		}
	}
	return nil
}

// Reference returns the reference with the given ID, or nil.
func (g *Grid) Reference(id entity.RefID) *entity.Reference {
	return g.byID[id]
}

// References returns a snapshot of all references in insertion order. The
// slice may be iterated while the grid is mutated.
func (g *Grid) References() []*entity.Reference {
	return append([]*entity.Reference(nil), g.refs...)
}

// Mobiles returns a snapshot of the references carrying mobile state.
func (g *Grid) Mobiles() []*entity.Reference {
	var mobiles []*entity.Reference
	for _, ref := range g.refs {
		if ref.Mobile != nil {
			mobiles = append(mobiles, ref)
		}
	}
	return mobiles
}

// Count returns the number of references on the grid.
func (g *Grid) Count() int {
	return len(g.refs)
}

// Add places a new reference for def at (x, y).
func (g *Grid) Add(def *gamedata.EntityDef, x, y int) (*entity.Reference, error) {
	if def == nil {
		return nil, errors.New("nil entity definition")
	}
	if !g.InBounds(x, y) {
		return nil, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}
	g.nextID++
	ref := entity.NewReference(g.nextID, def, x, y)
	if ref.Blocks() && g.BlockerAt(x, y, 0) != nil {
		return nil, fmt.Errorf("%w: (%d,%d)", ErrOccupied, x, y)
	}

	g.refs = append(g.refs, ref)
	g.byID[ref.ID] = ref
	i := g.index(x, y)
	g.cells[i] = append(g.cells[i], ref)
	return ref, nil
}

// Remove deletes a reference from the grid. It returns false if the ID is unknown.
func (g *Grid) Remove(id entity.RefID) bool {
	ref, ok := g.byID[id]
	if !ok {
		return false
	}
	delete(g.byID, id)
	g.refs = removeRef(g.refs, ref)
	i := g.index(ref.X, ref.Y)
	g.cells[i] = removeRef(g.cells[i], ref)
	return true
}

// Move relocates a reference, keeping any mobile state in step with it.
func (g *Grid) Move(id entity.RefID, x, y int) error {
	ref, ok := g.byID[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNoReference, id)
	}
	if !g.InBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}
	if ref.Blocks() && g.BlockerAt(x, y, id) != nil {
		return fmt.Errorf("%w: (%d,%d)", ErrOccupied, x, y)
	}

	from := g.index(ref.X, ref.Y)
	g.cells[from] = removeRef(g.cells[from], ref)
	ref.X, ref.Y = x, y
	if ref.Mobile != nil {
		ref.Mobile.X, ref.Mobile.Y = x, y
	}
	to := g.index(x, y)
	g.cells[to] = append(g.cells[to], ref)
	return nil
}

// SetOpen opens or closes a door reference. A door cannot close on a tile
// where another blocking reference stands.
func (g *Grid) SetOpen(id entity.RefID, open bool) error {
	ref, ok := g.byID[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNoReference, id)
	}
	if ref.Def.Kind != gamedata.KindDoor {
		return fmt.Errorf("reference %d (%s) is not a door", id, ref.Def.ID)
	}
	if !open && ref.Def.Blocks && g.BlockerAt(ref.X, ref.Y, id) != nil {
		return fmt.Errorf("%w: (%d,%d)", ErrOccupied, ref.X, ref.Y)
	}
	ref.Open = open
	return nil
}

func removeRef(refs []*entity.Reference, target *entity.Reference) []*entity.Reference {
	for i, ref := range refs {
		if ref == target {
			return append(refs[:i], refs[i+1:]...)
		}
	}
	return refs
}
