package object

import (
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/physics"
)

const (
	ProjectileRadius = 4.0
	ProjectileSpeed  = 12.0

	InvaderProjectileWidth  = 3.0
	InvaderProjectileHeight = 12.0
	InvaderProjectileSpeed  = 5.0
)

// Projectile is a round shot fired upward by the player.
type Projectile struct {
	physics.Body
	Radius float64
	spent  bool
}

var _ Object = (*Projectile)(nil)

// NewProjectile creates a projectile centered at pos traveling upward.
func NewProjectile(pos physics.Vec2) *Projectile {
	return &Projectile{
		Body:   physics.Body{Pos: pos, Vel: physics.Vec2{Y: -ProjectileSpeed}},
		Radius: ProjectileRadius,
	}
}

// MarkSpent flags the projectile for removal. Returns false if it was already spent.
func (p *Projectile) MarkSpent() bool {
	if p.spent {
		return false
	}
	p.spent = true
	return true
}

// Spent reports whether the projectile hit something.
func (p *Projectile) Spent() bool {
	return p.spent
}

// Update removes the projectile once it has left the top of the play area.
func (p *Projectile) Update(UpdateContext) bool {
	if p.spent || p.Pos.Y+p.Radius <= 0 {
		return true
	}
	p.Step()
	return false
}

func (p *Projectile) Draw(ctx DrawContext) {
	ctx.Surface.FillCircle(p.Pos.X, p.Pos.Y, p.Radius, draw.Red)
}

// InvaderProjectile is a bolt fired downward by an invader.
type InvaderProjectile struct {
	physics.Body
	Width  float64
	Height float64
	spent  bool
}

var _ Object = (*InvaderProjectile)(nil)

// NewInvaderProjectile creates a bolt whose top-left corner is at pos.
func NewInvaderProjectile(pos physics.Vec2) *InvaderProjectile {
	return &InvaderProjectile{
		Body:   physics.Body{Pos: pos, Vel: physics.Vec2{Y: InvaderProjectileSpeed}},
		Width:  InvaderProjectileWidth,
		Height: InvaderProjectileHeight,
	}
}

// MarkSpent flags the bolt for removal.
func (p *InvaderProjectile) MarkSpent() {
	p.spent = true
}

// Spent reports whether the bolt hit the player.
func (p *InvaderProjectile) Spent() bool {
	return p.spent
}

// Bounds returns the bolt's rectangle.
func (p *InvaderProjectile) Bounds() physics.Rect {
	return physics.Rect{X: p.Pos.X, Y: p.Pos.Y, W: p.Width, H: p.Height}
}

// Update removes the bolt once it reaches the bottom of the play area.
func (p *InvaderProjectile) Update(ctx UpdateContext) bool {
	if p.spent || p.Pos.Y+p.Height >= ctx.Screen.Height {
		return true
	}
	p.Step()
	return false
}

func (p *InvaderProjectile) Draw(ctx DrawContext) {
	ctx.Surface.FillRect(p.Pos.X, p.Pos.Y, p.Width, p.Height, draw.Green)
}
