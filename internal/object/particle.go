package object

import (
	"math/rand"
	"sync"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/physics"
)

const (
	BurstSize  = 15   // Particles per impact burst
	FadeStep   = 0.01 // Opacity lost per frame by fading particles
	starSpeed  = 0.5
	starRadius = 2.0
	burstSpeed = 2.0
	burstSize  = 3.0
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a purely visual dot. Ambient particles drift down and wrap forever;
// fading particles lose opacity every frame and are removed once invisible.
type Particle struct {
	physics.Body
	Radius  float64
	Color   colorful.Color
	Fades   bool
	Opacity float64
}

var (
	_ Object     = (*Particle)(nil)
	_ Releasable = (*Particle)(nil)
)

// newParticle takes a particle from the pool.
func newParticle(pos, vel physics.Vec2, radius float64, col colorful.Color, fades bool) *Particle {
	p := particlePool.Get().(*Particle)
	p.Pos = pos
	p.Vel = vel
	p.Radius = radius
	p.Color = col
	p.Fades = fades
	p.Opacity = 1
	return p
}

// NewAmbient creates a background star at a random point of the play area.
func NewAmbient(rng *rand.Rand, screen Screen) *Particle {
	return newParticle(
		physics.Vec2{X: rng.Float64() * screen.Width, Y: rng.Float64() * screen.Height},
		physics.Vec2{Y: starSpeed},
		rng.Float64()*starRadius,
		draw.Star,
		false,
	)
}

// SpawnBurst creates an impact burst of fading particles at center.
func SpawnBurst(center physics.Vec2, col colorful.Color, rng *rand.Rand) []*Particle {
	burst := make([]*Particle, BurstSize)
	for i := range burst {
		vel := physics.Vec2{
			X: (rng.Float64() - 0.5) * burstSpeed,
			Y: (rng.Float64() - 0.5) * burstSpeed,
		}
		burst[i] = newParticle(center, vel, rng.Float64()*burstSize, col, true)
	}
	return burst
}

// Release returns the particle to the pool for reuse.
// Should be called when the particle is removed from the game.
func (p *Particle) Release() {
	*p = Particle{}
	particlePool.Put(p)
}

// Update moves the particle, wrapping ambient ones that fell off the bottom.
func (p *Particle) Update(ctx UpdateContext) bool {
	if !p.Fades && p.Pos.Y-p.Radius >= ctx.Screen.Height {
		p.Pos = physics.Vec2{X: ctx.Rand.Float64() * ctx.Screen.Width, Y: -p.Radius}
	}

	p.Step()

	if p.Fades {
		p.Opacity -= FadeStep
		if p.Opacity <= 0 {
			return true
		}
	}
	return false
}

func (p *Particle) Draw(ctx DrawContext) {
	s := ctx.Surface
	s.Save()
	s.SetAlpha(p.Opacity)
	s.FillCircle(p.Pos.X, p.Pos.Y, p.Radius, p.Color)
	s.Restore()
}
