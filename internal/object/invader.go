package object

import (
	"github.com/tomz197/invaders/internal/asset"
	"github.com/tomz197/invaders/internal/physics"
)

// Invader is a single enemy. It has no velocity of its own; its grid shifts it.
type Invader struct {
	Pos      physics.Vec2
	Width    float64
	Height   float64
	sprite   *asset.Sprite
	defeated bool
}

var _ Drawable = (*Invader)(nil)

// NewInvader creates an invader with its top-left corner at pos.
// Dimensions come from the sprite, which must already be loaded.
func NewInvader(pos physics.Vec2, sprite *asset.Sprite, scale float64) *Invader {
	w, h := sprite.Size()
	return &Invader{
		Pos:    pos,
		Width:  float64(w) * scale,
		Height: float64(h) * scale,
		sprite: sprite,
	}
}

// Shift moves the invader by v.
func (inv *Invader) Shift(v physics.Vec2) {
	inv.Pos = inv.Pos.Add(v)
}

// Bounds returns the invader's bounding box.
func (inv *Invader) Bounds() physics.Rect {
	return physics.Rect{X: inv.Pos.X, Y: inv.Pos.Y, W: inv.Width, H: inv.Height}
}

// Defeat marks the invader as hit. Returns false if it was already defeated.
func (inv *Invader) Defeat() bool {
	if inv.defeated {
		return false
	}
	inv.defeated = true
	return true
}

// Defeated reports whether the invader has been hit.
func (inv *Invader) Defeated() bool {
	return inv.defeated
}

// Shoot fires a bolt downward from the invader's bottom-center.
func (inv *Invader) Shoot() *InvaderProjectile {
	return NewInvaderProjectile(physics.Vec2{
		X: inv.Pos.X + inv.Width/2,
		Y: inv.Pos.Y + inv.Height,
	})
}

func (inv *Invader) Draw(ctx DrawContext) {
	if !inv.sprite.Ready() {
		return
	}
	ctx.Surface.DrawImage(inv.sprite, inv.Pos.X, inv.Pos.Y, inv.Width, inv.Height)
}
