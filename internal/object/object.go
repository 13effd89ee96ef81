// Package object implements the game entities: the player ship, both kinds of
// projectiles, particles, invaders and the grids that move them.
package object

import (
	"math/rand"

	"github.com/tomz197/invaders/internal/draw"
)

// Screen is the logical play area.
type Screen struct {
	Width  float64
	Height float64
}

// UpdateContext provides everything an object needs during update.
type UpdateContext struct {
	Screen Screen
	Rand   *rand.Rand
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Surface draw.Surface
}

// Drawable is anything that can render itself onto a surface.
type Drawable interface {
	Draw(ctx DrawContext)
}

// Object is a drawable and updatable game entity.
type Object interface {
	Drawable

	// Update advances the object by one frame. Returns true if the object should be removed.
	Update(ctx UpdateContext) (remove bool)
}

// Releasable is implemented by pooled objects that can be returned to a pool.
type Releasable interface {
	// Release returns the object to its pool for reuse.
	Release()
}

// ReleaseObject releases an object back to its pool if it implements Releasable.
func ReleaseObject(obj Object) {
	if r, ok := obj.(Releasable); ok {
		r.Release()
	}
}

// Compact removes the objects for which keep returns false, preserving order,
// and releases pooled objects. The backing array is reused.
func Compact[T Object](items []T, keep func(T) bool) []T {
	kept := items[:0]
	for _, item := range items {
		if keep(item) {
			kept = append(kept, item)
		} else {
			ReleaseObject(item)
		}
	}
	clear(items[len(kept):])
	return kept
}

// UpdateAll updates every object and drops those that ask to be removed.
func UpdateAll[T Object](items []T, ctx UpdateContext) []T {
	return Compact(items, func(obj T) bool {
		return !obj.Update(ctx)
	})
}

// DrawAll draws every object in order.
func DrawAll[T Drawable](items []T, ctx DrawContext) {
	for _, obj := range items {
		obj.Draw(ctx)
	}
}
