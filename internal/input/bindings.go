package input

import "github.com/tomz197/invaders/internal/config"

// Action is a logical game command a key can be bound to.
type Action int

const (
	ActionNone Action = iota
	ActionMoveLeft
	ActionMoveRight
	ActionFire
	ActionStart
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionMoveLeft:
		return "move_left"
	case ActionMoveRight:
		return "move_right"
	case ActionFire:
		return "fire"
	case ActionStart:
		return "start"
	case ActionQuit:
		return "quit"
	}
	return "none"
}

// Bindings maps keys to the actions they trigger. A key may trigger several
// actions (space is both fire and start by default).
type Bindings struct {
	actions map[Key][]Action
}

// NewBindings builds bindings from the configured key names.
func NewBindings(ks config.KeySettings) Bindings {
	b := Bindings{actions: make(map[Key][]Action)}
	b.bind(ActionMoveLeft, ks.MoveLeft)
	b.bind(ActionMoveRight, ks.MoveRight)
	b.bind(ActionFire, ks.Fire)
	b.bind(ActionStart, ks.Start)
	b.bind(ActionQuit, ks.Quit)
	return b
}

func (b Bindings) bind(a Action, names []string) {
	for _, name := range names {
		k := ParseKey(name)
		b.actions[k] = append(b.actions[k], a)
	}
}

// Matches reports whether k is bound to a.
func (b Bindings) Matches(k Key, a Action) bool {
	for _, bound := range b.actions[k] {
		if bound == a {
			return true
		}
	}
	return false
}

// Actions returns the actions bound to k.
func (b Bindings) Actions(k Key) []Action {
	return b.actions[k]
}
