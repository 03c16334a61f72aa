package world

// ComputeFOV resets visibility and marks every in-bounds cell within
// Euclidean distance radius of the origin as visible. Visible cells are
// added to the explored set permanently. Walls do not occlude.
func (g *Grid) ComputeFOV(originX, originY, radius int) {
	for i := range g.visible {
		g.visible[i] = false
	}
	if radius < 0 {
		return
	}

	r2 := radius * radius
	for y := originY - radius; y <= originY+radius; y++ {
		for x := originX - radius; x <= originX+radius; x++ {
			if !g.InBounds(x, y) {
				continue
			}
			dx, dy := x-originX, y-originY
			if dx*dx+dy*dy > r2 {
				continue
			}
			i := g.index(x, y)
			g.visible[i] = true
			g.explored[i] = true
		}
	}
}

// IsVisible reports whether (x, y) is in the current field of view.
func (g *Grid) IsVisible(x, y int) bool {
	return g.InBounds(x, y) && g.visible[g.index(x, y)]
}

// IsExplored reports whether (x, y) has ever been visible.
func (g *Grid) IsExplored(x, y int) bool {
	return g.InBounds(x, y) && g.explored[g.index(x, y)]
}

// VisibleCount returns the number of currently visible cells.
func (g *Grid) VisibleCount() int {
	n := 0
	for _, v := range g.visible {
		if v {
			n++
		}
	}
	return n
}
