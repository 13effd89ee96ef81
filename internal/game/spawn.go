package game

import "github.com/tomz197/invaders/internal/object"

// rollInterval picks the next grid spawn interval in [min, max).
func (s *Session) rollInterval() int {
	return s.play.SpawnMinFrames + s.rng.Intn(s.play.SpawnMaxFrames-s.play.SpawnMinFrames)
}

// spawnTick runs at the end of every Running frame. A grid spawns whenever the
// frame counter is a multiple of the interval, so a new round gets one on its
// first frame. The counter holds at zero until the invader sprite has loaded.
func (s *Session) spawnTick() {
	if s.frames%s.interval == 0 {
		if !s.invaderSprite.Ready() {
			return
		}
		g := object.NewGrid(s.rng, s.invaderSprite, s.play.InvaderScale)
		s.grids = append(s.grids, g)
		s.frames = 0
		s.interval = s.rollInterval()
		s.log.Debug("grid spawned", "invaders", g.Len(), "next_in", s.interval)
	}
	s.frames++
}

// volley makes one random invader of the first non-empty grid shoot, every
// volley_frames frames.
func (s *Session) volley() {
	if s.frames%s.play.VolleyFrames != 0 {
		return
	}
	for _, g := range s.grids {
		if inv, ok := g.RandomInvader(s.rng); ok {
			s.invaderProjectiles = append(s.invaderProjectiles, inv.Shoot())
			return
		}
	}
}
