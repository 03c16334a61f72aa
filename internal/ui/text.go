package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/samdwyer/apprentice/internal/game"
	"github.com/samdwyer/apprentice/internal/gamedata"
)

// TextRenderer renders frames as styled text for headless runs.
type TextRenderer struct {
	styles map[string]lipgloss.Style
}

// NewTextRenderer creates a text renderer.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{styles: make(map[string]lipgloss.Style)}
}

func (r *TextRenderer) style(color string) lipgloss.Style {
	if s, ok := r.styles[color]; ok {
		return s
	}
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(gamedata.HexColor(color)))
	r.styles[color] = s
	return s
}

// Render returns the map beside the side panel, followed by the visible log.
func (r *TextRenderer) Render(g *game.Game) string {
	grid := g.Grid()
	rows := make([]string, 0, grid.Height)
	for y := 0; y < grid.Height; y++ {
		var b strings.Builder
		for x := 0; x < grid.Width; x++ {
			c := MapCell(grid, x, y)
			if c.Glyph == ' ' {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(r.style(c.Color).Render(string(c.Glyph)))
		}
		rows = append(rows, b.String())
	}

	panel := SidePanel(g)
	lines := make([]string, 0, len(panel))
	for _, line := range panel {
		lines = append(lines, r.style(line.Color).Render(line.Text))
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		strings.Join(rows, "\n"),
		lipgloss.NewStyle().PaddingLeft(2).Render(strings.Join(lines, "\n")),
	)

	var log []string
	for _, line := range g.Log().Visible() {
		log = append(log, r.style(line.Color).Render(line.Text))
	}
	return lipgloss.JoinVertical(lipgloss.Left, top, "", strings.Join(log, "\n"))
}
