package world

import (
	"testing"

	"github.com/samdwyer/apprentice/internal/entity"
)

func TestFindNextStep(t *testing.T) {
	tests := []struct {
		name           string
		rows           []string
		sx, sy, tx, ty int
		want           [][2]int // any of these is acceptable
	}{
		{
			name: "open grid",
			rows: []string{".....", ".....", ".....", ".....", "....."},
			sx:   0, sy: 0, tx: 4, ty: 4,
			want: [][2]int{{1, 0}, {0, 1}},
		},
		{
			name: "single corridor",
			rows: []string{
				"#####",
				"#...#",
				"###.#",
				"#...#",
				"#####",
			},
			sx: 1, sy: 1, tx: 1, ty: 3,
			want: [][2]int{{2, 1}},
		},
		{
			name: "start equals target",
			rows: []string{"..."},
			sx:   1, sy: 0, tx: 1, ty: 0,
			want: [][2]int{{1, 0}},
		},
		{
			name: "unreachable",
			rows: []string{".#."},
			sx:   0, sy: 0, tx: 2, ty: 0,
			want: [][2]int{{0, 0}},
		},
		{
			name: "adjacent target",
			rows: []string{"..."},
			sx:   0, sy: 0, tx: 1, ty: 0,
			want: [][2]int{{1, 0}},
		},
		{
			name: "detour around a wall",
			rows: []string{
				".#.",
				"...",
			},
			sx: 0, sy: 0, tx: 2, ty: 0,
			want: [][2]int{{0, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := loadRows(t, tt.rows...)
			x, y := g.FindNextStep(tt.sx, tt.sy, tt.tx, tt.ty, 0)
			for _, w := range tt.want {
				if x == w[0] && y == w[1] {
					return
				}
			}
			t.Errorf("FindNextStep = (%d,%d), want one of %v", x, y, tt.want)
		})
	}
}

func TestFindNextStepDeterministic(t *testing.T) {
	g, _ := loadRows(t, ".....", ".....", ".....", ".....", ".....")
	x1, y1 := g.FindNextStep(0, 0, 4, 4, 0)
	for i := 0; i < 10; i++ {
		x, y := g.FindNextStep(0, 0, 4, 4, 0)
		if x != x1 || y != y1 {
			t.Fatalf("run %d returned (%d,%d), first run (%d,%d)", i, x, y, x1, y1)
		}
	}
}

func TestFindNextStepMobiles(t *testing.T) {
	g, registry := loadRows(t,
		".....",
		".....",
	)
	tam := registry.Lookup("tam")
	mover, _ := g.Add(tam, 0, 0)
	target, _ := g.Add(tam, 4, 0)
	if _, err := g.Add(tam, 2, 0); err != nil {
		t.Fatal(err)
	}

	x, y := g.FindNextStep(mover.X, mover.Y, target.X, target.Y, mover.ID)
	if x == mover.X && y == mover.Y {
		t.Fatal("a path exists around the blocker and toward the occupied target")
	}
	if g.IsBlockedExcept(x, y, mover.ID) {
		t.Errorf("first step (%d,%d) is blocked", x, y)
	}

	// The start cell is never checked for blockers.
	x, y = g.FindNextStep(mover.X, mover.Y, 1, 0, entity.RefID(0))
	if x != 1 || y != 0 {
		t.Errorf("FindNextStep to adjacent cell = (%d,%d), want (1,0)", x, y)
	}
}
