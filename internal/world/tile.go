// Package world provides the grid world model: reference storage, blocking
// rules, visibility and pathfinding.
package world

// Tile is a map symbol with built-in meaning.
type Tile rune

const (
	// TileWall loads as a blocking wall.
	TileWall Tile = '#'
	// TileFloor loads as floor.
	TileFloor Tile = '.'
	// TilePlayer marks the player start; the cell itself is floor.
	TilePlayer Tile = '@'
)

// IsPassable returns true if the tile's terrain can be walked on.
func (t Tile) IsPassable() bool {
	return t != TileWall
}

// Rune returns the tile's display character.
func (t Tile) Rune() rune {
	return rune(t)
}
