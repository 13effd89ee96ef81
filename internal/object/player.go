package object

import (
	"github.com/tomz197/invaders/internal/asset"
	"github.com/tomz197/invaders/internal/physics"
)

const (
	PlayerSpeed    = 8.0  // Horizontal speed while a move key is held
	PlayerTilt     = 0.15 // Rotation in radians while moving
	playerBaseline = 30.0 // Gap between the ship and the bottom of the play area
)

// Player is the ship controlled by the user. It moves horizontally only and
// tilts toward the direction it is moving.
type Player struct {
	physics.Body
	Width    float64
	Height   float64
	Rotation float64
	Opacity  float64 // 1 while alive, 0 once hit

	sprite *asset.Sprite
	scale  float64
	placed bool
}

var _ Object = (*Player)(nil)

// NewPlayer creates a player drawn with sprite at the given scale.
// The player stays inert until the sprite finishes loading.
func NewPlayer(sprite *asset.Sprite, scale float64) *Player {
	return &Player{
		sprite:  sprite,
		scale:   scale,
		Opacity: 1,
	}
}

// Ready reports whether the player has its dimensions and position.
func (p *Player) Ready() bool {
	return p.placed
}

// Alive reports whether the player has not been hit.
func (p *Player) Alive() bool {
	return p.Opacity > 0
}

// Kill fades the player out. Returns false if the player was already dead.
func (p *Player) Kill() bool {
	if !p.Alive() {
		return false
	}
	p.Opacity = 0
	return true
}

// Revive restores the player for a new round, keeping its position.
func (p *Player) Revive() {
	p.Opacity = 1
	p.Rotation = 0
	p.Vel = physics.Vec2{}
}

// Steer sets velocity and tilt from the current move intent.
// Moving toward an edge the ship already touches is ignored.
func (p *Player) Steer(left, right bool, screen Screen) {
	switch {
	case left && p.Pos.X > 0:
		p.Vel.X = -PlayerSpeed
		p.Rotation = -PlayerTilt
	case right && p.Pos.X+p.Width < screen.Width:
		p.Vel.X = PlayerSpeed
		p.Rotation = PlayerTilt
	default:
		p.Vel.X = 0
		p.Rotation = 0
	}
}

// Bounds returns the player's bounding box.
func (p *Player) Bounds() physics.Rect {
	return physics.Rect{X: p.Pos.X, Y: p.Pos.Y, W: p.Width, H: p.Height}
}

// Muzzle returns the top-center point projectiles are fired from.
func (p *Player) Muzzle() physics.Vec2 {
	return physics.Vec2{X: p.Pos.X + p.Width/2, Y: p.Pos.Y}
}

// Update places the player once its sprite is ready, then integrates horizontal motion.
func (p *Player) Update(ctx UpdateContext) bool {
	if !p.placed {
		if !p.sprite.Ready() {
			return false
		}
		w, h := p.sprite.Size()
		p.Width = float64(w) * p.scale
		p.Height = float64(h) * p.scale
		p.Pos = physics.Vec2{
			X: ctx.Screen.Width/2 - p.Width/2,
			Y: ctx.Screen.Height - p.Height - playerBaseline,
		}
		p.placed = true
	}

	p.Vel.Y = 0
	p.Step()
	p.Pos.X = physics.Clamp(p.Pos.X, 0, ctx.Screen.Width-p.Width)
	return false
}

// Draw renders the sprite tilted around its center.
func (p *Player) Draw(ctx DrawContext) {
	if !p.placed {
		return
	}
	s := ctx.Surface
	c := p.Bounds().Center()

	s.Save()
	s.SetAlpha(p.Opacity)
	s.Translate(c.X, c.Y)
	s.Rotate(p.Rotation)
	s.Translate(-c.X, -c.Y)
	s.DrawImage(p.sprite, p.Pos.X, p.Pos.Y, p.Width, p.Height)
	s.Restore()
}
