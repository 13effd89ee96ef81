// Package physics provides the kinematics primitive and overlap tests shared by all entities.
package physics

// Vec2 is a 2D vector used for positions and velocities.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Body is a position/velocity pair integrated once per frame.
type Body struct {
	Pos Vec2
	Vel Vec2
}

// Step advances the position by one frame of velocity (explicit Euler, fixed step).
func (b *Body) Step() {
	b.Pos = b.Pos.Add(b.Vel)
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the rectangle's center point.
func (r Rect) Center() Vec2 {
	return Vec2{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// CircleTouchesRect reports whether a circle's bounding square overlaps the rectangle.
// All four edge comparisons are inclusive, so touching edges count as a hit.
func CircleTouchesRect(c Vec2, radius float64, r Rect) bool {
	return c.Y-radius <= r.Bottom() &&
		c.X+radius >= r.X &&
		c.X-radius <= r.Right() &&
		c.Y+radius >= r.Y
}

// StrikesFromAbove reports whether a falling rectangle has reached the target:
// its lower edge is at or past the target's upper edge and the horizontal spans intersect.
func StrikesFromAbove(falling, target Rect) bool {
	return falling.Bottom() >= target.Y &&
		falling.Right() >= target.X &&
		falling.X <= target.Right()
}

// Clamp limits v to [lo, hi]. If hi < lo, lo wins.
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
