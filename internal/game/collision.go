package game

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/physics"
)

// resolveCollisions runs once per frame after every entity has been updated.
func (s *Session) resolveCollisions() {
	s.hitInvaders()
	s.hitPlayer()
	s.checkProximity()
}

// hitInvaders matches player projectiles against invaders, grid by grid.
// Both sides are re-checked before each hit so a projectile kills at most one
// invader and an invader scores at most once.
func (s *Session) hitInvaders() {
	if len(s.projectiles) == 0 {
		return
	}

	for _, g := range s.grids {
		for _, inv := range g.Invaders() {
			for _, p := range s.projectiles {
				if inv.Defeated() {
					break
				}
				if p.Spent() || !physics.CircleTouchesRect(p.Pos, p.Radius, inv.Bounds()) {
					continue
				}
				inv.Defeat()
				p.MarkSpent()
				s.setScore(s.score + InvaderPoints)
				s.burst(inv.Bounds().Center(), draw.Purple)
			}
		}
		g.Compact()
	}

	s.grids = object.Compact(s.grids, func(g *object.Grid) bool {
		if g.Empty() {
			s.log.Debug("grid cleared", "score", s.score)
			return false
		}
		return true
	})
	s.projectiles = object.Compact(s.projectiles, func(p *object.Projectile) bool {
		return !p.Spent()
	})
}

// hitPlayer removes invader projectiles that reached the player and ends the
// round on the first hit.
func (s *Session) hitPlayer() {
	if !s.player.Ready() || len(s.invaderProjectiles) == 0 {
		return
	}

	target := s.player.Bounds()
	for _, ip := range s.invaderProjectiles {
		if !physics.StrikesFromAbove(ip.Bounds(), target) {
			continue
		}
		ip.MarkSpent()
		if s.player.Alive() {
			s.burst(target.Center(), draw.White)
			s.endRound("hit")
		}
	}

	s.invaderProjectiles = object.Compact(s.invaderProjectiles, func(ip *object.InvaderProjectile) bool {
		return !ip.Spent()
	})
}

// checkProximity ends the round when any grid's lead invader gets within the
// loss distance above the player.
func (s *Session) checkProximity() {
	if !s.player.Ready() {
		return
	}
	limit := s.player.Pos.Y - s.play.LossDistance
	for _, g := range s.grids {
		lead, ok := g.Lead()
		if ok && lead.Pos.Y >= limit {
			s.endRound("invaded")
			return
		}
	}
}

func (s *Session) burst(at physics.Vec2, col colorful.Color) {
	s.particles = append(s.particles, object.SpawnBurst(at, col, s.rng)...)
}
