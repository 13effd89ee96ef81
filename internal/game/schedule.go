package game

import "time"

// event is a deferred action bound to the round it was scheduled in.
type event struct {
	due   time.Time
	round int
	fn    func()
}

// after schedules fn to run d after the current frame. Events from an earlier
// round are discarded when they come due.
func (s *Session) after(d time.Duration, fn func()) {
	s.events = append(s.events, event{due: s.now.Add(d), round: s.round, fn: fn})
}

// runDue runs the events that are due at now, in scheduling order.
func (s *Session) runDue(now time.Time) {
	if len(s.events) == 0 {
		return
	}

	var due []event
	pending := s.events[:0]
	for _, e := range s.events {
		switch {
		case now.Before(e.due):
			pending = append(pending, e)
		case e.round == s.round:
			due = append(due, e)
		default:
			s.log.Debug("dropped stale event", "round", e.round, "current", s.round)
		}
	}
	clear(s.events[len(pending):])
	s.events = pending

	for _, e := range due {
		e.fn()
	}
}

// Pending returns the number of scheduled events that have not run yet.
func (s *Session) Pending() int {
	return len(s.events)
}
