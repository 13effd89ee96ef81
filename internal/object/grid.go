package object

import (
	"math/rand"

	"github.com/tomz197/invaders/internal/asset"
	"github.com/tomz197/invaders/internal/physics"
)

// Grid layout and motion.
const (
	GridSpeed   = 4.0  // Horizontal speed
	GridDrop    = 40.0 // One-frame vertical impulse after touching an edge
	ColumnPitch = 45.0
	RowPitch    = 40.0
	columnSpan  = 44.0 // Initial width contributed by each column

	minColumns, maxColumns = 5, 15 // [min, max)
	minRows, maxRows       = 2, 6  // [min, max)
)

// Grid is a formation of invaders that oscillates horizontally and steps down
// each time it touches a side of the play area.
type Grid struct {
	physics.Body
	Width    float64
	invaders []*Invader
}

var _ Object = (*Grid)(nil)

// NewGrid creates a grid with a random number of columns and rows in the top-left corner.
func NewGrid(rng *rand.Rand, sprite *asset.Sprite, scale float64) *Grid {
	columns := minColumns + rng.Intn(maxColumns-minColumns)
	rows := minRows + rng.Intn(maxRows-minRows)
	return NewGridSize(columns, rows, sprite, scale)
}

// NewGridSize creates a grid with a fixed layout. Invaders are ordered column by
// column, so index 0 is the top-left invader.
func NewGridSize(columns, rows int, sprite *asset.Sprite, scale float64) *Grid {
	g := &Grid{
		Body:     physics.Body{Vel: physics.Vec2{X: GridSpeed}},
		Width:    float64(columns) * columnSpan,
		invaders: make([]*Invader, 0, columns*rows),
	}
	for x := range columns {
		for y := range rows {
			pos := physics.Vec2{X: float64(x) * ColumnPitch, Y: float64(y) * RowPitch}
			g.invaders = append(g.invaders, NewInvader(pos, sprite, scale))
		}
	}
	return g
}

// Invaders returns the live invaders in order. The slice must not be modified.
func (g *Grid) Invaders() []*Invader {
	return g.invaders
}

// Len returns the number of invaders.
func (g *Grid) Len() int {
	return len(g.invaders)
}

// Empty reports whether every invader has been removed.
func (g *Grid) Empty() bool {
	return len(g.invaders) == 0
}

// Lead returns the invader at index 0, used for the proximity check.
func (g *Grid) Lead() (*Invader, bool) {
	if len(g.invaders) == 0 {
		return nil, false
	}
	return g.invaders[0], true
}

// RandomInvader picks a live invader uniformly at random.
func (g *Grid) RandomInvader(rng *rand.Rand) (*Invader, bool) {
	if len(g.invaders) == 0 {
		return nil, false
	}
	return g.invaders[rng.Intn(len(g.invaders))], true
}

// Compact drops defeated invaders and recomputes the grid's extent from the
// first and last survivors. Returns the number of invaders removed.
func (g *Grid) Compact() int {
	before := len(g.invaders)
	kept := g.invaders[:0]
	for _, inv := range g.invaders {
		if !inv.Defeated() {
			kept = append(kept, inv)
		}
	}
	clear(g.invaders[len(kept):])
	g.invaders = kept

	if len(kept) > 0 {
		first, last := kept[0], kept[len(kept)-1]
		g.Pos.X = first.Pos.X
		g.Width = last.Pos.X - first.Pos.X + last.Width
	}
	return before - len(kept)
}

// Update reflects the grid off the side it is moving toward and moves every
// invader with it. Returns true once the grid is empty.
func (g *Grid) Update(ctx UpdateContext) bool {
	if g.Empty() {
		return true
	}

	g.Vel.Y = 0
	hitRight := g.Vel.X > 0 && g.Pos.X+g.Width >= ctx.Screen.Width
	hitLeft := g.Vel.X < 0 && g.Pos.X <= 0
	if hitRight || hitLeft {
		g.Vel.X = -g.Vel.X
		g.Vel.Y = GridDrop
	}

	g.Step()
	for _, inv := range g.invaders {
		inv.Shift(g.Vel)
	}
	return false
}

func (g *Grid) Draw(ctx DrawContext) {
	DrawAll(g.invaders, ctx)
}
