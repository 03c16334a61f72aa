package world

import (
	"container/heap"

	"github.com/samdwyer/apprentice/internal/entity"
)

// Search directions in expansion order: up, down, left, right.
var directions = [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

type point struct{ x, y int }

type node struct {
	p     point
	g, f  int
	seq   int // Insertion order, breaks f ties
	index int
}

type openSet []*node

func (s openSet) Len() int { return len(s) }
func (s openSet) Less(i, j int) bool {
	if s[i].f != s[j].f {
		return s[i].f < s[j].f
	}
	return s[i].seq < s[j].seq
}
func (s openSet) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
	s[i].index = i
	s[j].index = j
}
func (s *openSet) Push(x any) {
	n := x.(*node)
	n.index = len(*s)
	*s = append(*s, n)
}
func (s *openSet) Pop() any {
	old := *s
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*s = old[:len(old)-1]
	return n
}

// FindNextStep runs an A* search with 4-directional unit-cost moves and a
// Manhattan heuristic, and returns the first step of the shortest path from
// start to target. Cells holding a blocking reference other than mover are
// not expanded; the target cell itself is always accepted. Equal f scores
// are resolved in the order nodes were opened. When the target is the start
// or cannot be reached, the start is returned.
func (g *Grid) FindNextStep(startX, startY, targetX, targetY int, mover entity.RefID) (int, int) {
	start := point{startX, startY}
	target := point{targetX, targetY}
	if start == target || !g.InBounds(startX, startY) || !g.InBounds(targetX, targetY) {
		return startX, startY
	}

	cameFrom := make(map[point]point)
	gScore := map[point]int{start: 0}
	closed := make(map[point]bool)

	seq := 0
	open := &openSet{}
	heap.Push(open, &node{p: start, g: 0, f: manhattan(start, target), seq: seq})

	for open.Len() > 0 {
		current := heap.Pop(open).(*node)
		if closed[current.p] {
			continue
		}
		if current.p == target {
			return firstStep(cameFrom, start, target)
		}
		closed[current.p] = true

		for _, d := range directions {
			next := point{current.p.x + d[0], current.p.y + d[1]}
			if !g.InBounds(next.x, next.y) || closed[next] {
				continue
			}
			if next != target && g.BlockerAt(next.x, next.y, mover) != nil {
				continue
			}
			tentative := current.g + 1
			if best, seen := gScore[next]; seen && tentative >= best {
				continue
			}
			gScore[next] = tentative
			cameFrom[next] = current.p
			seq++
			heap.Push(open, &node{p: next, g: tentative, f: tentative + manhattan(next, target), seq: seq})
		}
	}

	return startX, startY
}

func firstStep(cameFrom map[point]point, start, target point) (int, int) {
	step := target
	for {
		prev, ok := cameFrom[step]
		if !ok {
			return start.x, start.y
		}
		if prev == start {
			return step.x, step.y
		}
		step = prev
	}
}

func manhattan(a, b point) int {
	return abs(a.x-b.x) + abs(a.y-b.y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
