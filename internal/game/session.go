// Package game owns a single game session: the entity collections, score,
// spawn timers and the Idle -> Running -> GameOver state machine. A Session is
// not safe for concurrent use; the frame driver owns it.
package game

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/invaders/internal/asset"
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/object"
)

// State is the session's lifecycle state.
type State int

const (
	Idle     State = iota // Before the first start
	Running               // Simulation and input live
	GameOver              // Round ended; waiting for restart
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case GameOver:
		return "game over"
	}
	return "unknown"
}

// InvaderPoints is the score awarded per invader.
const InvaderPoints = 100

// ScoreSink receives score updates, e.g. to refresh a HUD.
type ScoreSink interface {
	ScoreChanged(score int)
	HighScoreChanged(highScore int)
}

type nopSink struct{}

func (nopSink) ScoreChanged(int)     {}
func (nopSink) HighScoreChanged(int) {}

// KeyState is the movement and fire intent read once per frame.
type KeyState struct {
	Left  bool
	Right bool
	Fire  bool
}

// Options configures a new Session. Zero fields get sensible defaults.
type Options struct {
	Settings      config.Settings
	Rand          *rand.Rand
	Logger        *log.Logger
	Sink          ScoreSink
	PlayerSprite  *asset.Sprite
	InvaderSprite *asset.Sprite
}

// Session is one player's game.
type Session struct {
	play     config.PlaySettings
	timing   config.TimingSettings
	screen   object.Screen
	rng      *rand.Rand
	log      *log.Logger
	sink     ScoreSink
	bindings input.Bindings

	invaderSprite *asset.Sprite

	state     State
	score     int
	highScore int
	frames    int
	interval  int // Frames between grid spawns, re-rolled after each spawn
	round     int // Generation tag for scheduled events
	dying     bool
	keys      KeyState
	pressed   map[input.Key]bool // Bound keys currently held

	now    time.Time
	events []event

	player             *object.Player
	projectiles        []*object.Projectile
	invaderProjectiles []*object.InvaderProjectile
	particles          []*object.Particle
	grids              []*object.Grid
}

// NewSession creates an idle session with its ambient starfield.
func NewSession(opts Options) *Session {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Sink == nil {
		opts.Sink = nopSink{}
	}

	play := opts.Settings.Play
	s := &Session{
		play:          play,
		timing:        opts.Settings.Timing,
		screen:        object.Screen{Width: play.Width, Height: play.Height},
		rng:           opts.Rand,
		log:           opts.Logger,
		sink:          opts.Sink,
		bindings:      input.NewBindings(opts.Settings.Keys),
		pressed:       make(map[input.Key]bool),
		invaderSprite: opts.InvaderSprite,
		player:        object.NewPlayer(opts.PlayerSprite, play.PlayerScale),
	}
	s.interval = s.rollInterval()

	s.particles = make([]*object.Particle, 0, play.AmbientParticles)
	for range play.AmbientParticles {
		s.particles = append(s.particles, object.NewAmbient(s.rng, s.screen))
	}
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Active reports whether the simulation is running.
func (s *Session) Active() bool { return s.state == Running }

// Over reports whether the round has ended.
func (s *Session) Over() bool { return s.state == GameOver }

// Score returns the current round's score.
func (s *Session) Score() int { return s.score }

// HighScore returns the best score of this session.
func (s *Session) HighScore() int { return s.highScore }

// Frames returns the frame counter since the last grid spawn.
func (s *Session) Frames() int { return s.frames }

// Round returns the round generation, incremented on every (re)start.
func (s *Session) Round() int { return s.round }

// Screen returns the logical play area.
func (s *Session) Screen() object.Screen { return s.screen }

// Player returns the player ship.
func (s *Session) Player() *object.Player { return s.player }

// Keys returns the current key state.
func (s *Session) Keys() KeyState { return s.keys }

// Start begins the first round. Returns false unless the session is Idle.
func (s *Session) Start() bool {
	if s.state != Idle {
		return false
	}
	s.Restart()
	return true
}

// Restart begins a fresh round: score, frame counter, projectiles, grids and
// impact particles are reset and the player is revived. Ambient particles persist.
// Pending events of the previous round are invalidated.
func (s *Session) Restart() {
	s.round++
	s.state = Running
	s.dying = false
	s.releaseKeys()

	s.setScore(0)
	s.frames = 0
	s.interval = s.rollInterval()

	clear(s.projectiles)
	s.projectiles = s.projectiles[:0]
	clear(s.invaderProjectiles)
	s.invaderProjectiles = s.invaderProjectiles[:0]
	clear(s.grids)
	s.grids = s.grids[:0]
	s.particles = object.Compact(s.particles, func(p *object.Particle) bool {
		return !p.Fades
	})

	s.player.Revive()
	s.log.Info("round started", "round", s.round, "spawn_interval", s.interval)
}

// Step advances the session by one frame at wall-clock time now.
func (s *Session) Step(now time.Time) {
	s.now = now
	s.runDue(now)

	ctx := object.UpdateContext{Screen: s.screen, Rand: s.rng}
	if s.state != Running {
		// Only the background keeps moving
		s.particles = object.UpdateAll(s.particles, ctx)
		return
	}

	s.player.Steer(s.keys.Left, s.keys.Right, s.screen)
	s.player.Update(ctx)
	s.particles = object.UpdateAll(s.particles, ctx)
	s.invaderProjectiles = object.UpdateAll(s.invaderProjectiles, ctx)
	s.projectiles = object.UpdateAll(s.projectiles, ctx)
	s.grids = object.UpdateAll(s.grids, ctx)
	s.volley()

	s.resolveCollisions()
	s.spawnTick()
}

// Draw renders the session onto surf, back to front.
func (s *Session) Draw(surf draw.Surface) {
	ctx := object.DrawContext{Surface: surf}
	object.DrawAll(s.particles, ctx)
	if s.state == Idle {
		return
	}
	s.player.Draw(ctx)
	object.DrawAll(s.invaderProjectiles, ctx)
	object.DrawAll(s.projectiles, ctx)
	object.DrawAll(s.grids, ctx)
}

func (s *Session) setScore(score int) {
	s.score = score
	s.sink.ScoreChanged(score)
}

// endRound fades the player and schedules the game over. Repeated calls while
// the player is already dying are ignored.
func (s *Session) endRound(reason string) {
	if s.dying {
		return
	}
	s.dying = true
	s.player.Kill()
	s.log.Debug("player down", "reason", reason, "round", s.round, "score", s.score)

	s.after(s.timing.GameOverDelay.Duration, s.gameOver)
}

func (s *Session) gameOver() {
	s.state = GameOver
	s.releaseKeys()
	if s.score > s.highScore {
		s.highScore = s.score
		s.sink.HighScoreChanged(s.highScore)
	}
	s.log.Info("game over", "round", s.round, "score", s.score, "high_score", s.highScore)
}
