// Package draw provides the 2D drawing surface used by game entities and a
// terminal canvas that implements it with half-block characters.
package draw

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Image is a bitmap that can be blitted onto a Surface.
type Image interface {
	// Size returns the bitmap dimensions in source pixels.
	Size() (width, height int)
	// At returns the pixel color and whether the pixel is opaque.
	At(x, y int) (colorful.Color, bool)
}

// Surface is the drawing capability set entities depend on. Coordinates are in
// logical play-area units and pass through the current transform.
type Surface interface {
	FillRect(x, y, w, h float64, c colorful.Color)
	FillCircle(cx, cy, r float64, c colorful.Color)
	DrawImage(img Image, x, y, w, h float64)

	// Save pushes the current transform and alpha; Restore pops them.
	Save()
	Restore()
	Translate(dx, dy float64)
	Rotate(radians float64)
	// SetAlpha sets the opacity used by subsequent fills, in [0, 1].
	SetAlpha(alpha float64)
}

// Palette colors used by the game.
var (
	Black  = colorful.Color{}
	White  = colorful.Color{R: 1, G: 1, B: 1}
	Red    = MustHex("#ff0000")
	Green  = MustHex("#00ff00")
	Purple = MustHex("#8400ff")
	Star   = MustHex("#ffebd1")
)

// MustHex parses a "#rrggbb" color and panics on malformed input.
// Use it only for compile-time constants.
func MustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic("draw: bad color " + s + ": " + err.Error())
	}
	return c
}
