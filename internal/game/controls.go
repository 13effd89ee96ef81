package game

import (
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/object"
)

// HandleKey applies a key press or release. Movement is level triggered; fire
// shoots once per press. Every key is ignored after game over.
func (s *Session) HandleKey(ev input.Event) {
	if s.state == GameOver {
		return
	}

	if len(s.bindings.Actions(ev.Key)) == 0 {
		return
	}
	if ev.Down {
		s.pressed[ev.Key] = true
	} else {
		delete(s.pressed, ev.Key)
	}

	wasFiring := s.keys.Fire
	s.keys = KeyState{
		Left:  s.holding(input.ActionMoveLeft),
		Right: s.holding(input.ActionMoveRight),
		Fire:  s.holding(input.ActionFire),
	}
	if ev.Down && !wasFiring && s.bindings.Matches(ev.Key, input.ActionFire) {
		s.fire()
	}
}

// holding reports whether any key bound to a is held.
func (s *Session) holding(a input.Action) bool {
	for k := range s.pressed {
		if s.bindings.Matches(k, a) {
			return true
		}
	}
	return false
}

func (s *Session) releaseKeys() {
	s.keys = KeyState{}
	clear(s.pressed)
}

// fire launches a projectile from the top-center of the ship.
func (s *Session) fire() {
	if s.state != Running || !s.player.Ready() || !s.player.Alive() {
		return
	}
	s.projectiles = append(s.projectiles, object.NewProjectile(s.player.Muzzle()))
}
