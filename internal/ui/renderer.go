package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/apprentice/internal/game"
	"github.com/samdwyer/apprentice/internal/gamedata"
)

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws the map, the side panel and the message log.
func (r *Renderer) Render(g *game.Game) {
	r.screen.Clear()
	grid := g.Grid()

	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			c := MapCell(grid, x, y)
			r.screen.SetContent(x, y, c.Glyph, r.style(c.Color))
		}
	}

	panelX := grid.Width + 2
	y := 0
	for _, line := range SidePanel(g) {
		r.screen.DrawText(panelX, y, line.Text, r.style(line.Color))
		y++
	}
	y++
	for _, line := range strings.Split(Help, "\n") {
		r.screen.DrawText(panelX, y, line, r.style("dark_gray"))
		y++
	}

	logY := grid.Height + 1
	for i, line := range g.Log().Visible() {
		r.screen.DrawText(0, logY+i, line.Text, r.style(line.Color))
	}

	r.screen.Show()
}

func (r *Renderer) style(color string) tcell.Style {
	return tcell.StyleDefault.Foreground(gamedata.Color(color))
}
