// Package input turns a raw terminal byte stream into key press/release events.
package input

import (
	"bufio"
	"io"
	"slices"
	"strings"
	"time"
)

// Key identifies a physical key, e.g. "a", "left", "space", "ctrl+c".
type Key string

// Named keys.
const (
	KeyLeft      Key = "left"
	KeyRight     Key = "right"
	KeyUp        Key = "up"
	KeyDown      Key = "down"
	KeySpace     Key = "space"
	KeyEnter     Key = "enter"
	KeyEscape    Key = "escape"
	KeyBackspace Key = "backspace"
	KeyTab       Key = "tab"
	KeyCtrlC     Key = "ctrl+c"
)

// keyAliases maps alternative spellings accepted in configuration to canonical keys.
var keyAliases = map[string]Key{
	"arrowleft":  KeyLeft,
	"arrowright": KeyRight,
	"arrowup":    KeyUp,
	"arrowdown":  KeyDown,
	" ":          KeySpace,
	"return":     KeyEnter,
	"esc":        KeyEscape,
}

// ParseKey normalizes a key name from configuration.
// Letters are case-insensitive; unknown multi-character names are kept as-is.
func ParseKey(name string) Key {
	if name == " " {
		return KeySpace
	}
	lower := strings.ToLower(strings.TrimSpace(name))
	if k, ok := keyAliases[lower]; ok {
		return k
	}
	return Key(lower)
}

// Event is a key press (Down) or release.
type Event struct {
	Key  Key
	Down bool
}

// Parse decodes terminal bytes into the keys they represent, in order.
// Handles CSI arrow sequences; letters are reported lowercase.
func Parse(buf []byte) []Key {
	var keys []Key
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// Check for escape sequences (arrow keys)
		if b == '\x1b' && i+2 < len(buf) && (buf[i+1] == '[' || buf[i+1] == 'O') {
			var k Key
			switch buf[i+2] {
			case 'A':
				k = KeyUp
			case 'B':
				k = KeyDown
			case 'C':
				k = KeyRight
			case 'D':
				k = KeyLeft
			}
			if k != "" {
				keys = append(keys, k)
				i += 2
				continue
			}
		}

		if k, ok := byteKey(b); ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// byteKey maps a single byte to a key.
func byteKey(b byte) (Key, bool) {
	switch {
	case b == ' ':
		return KeySpace, true
	case b == '\r' || b == '\n':
		return KeyEnter, true
	case b == '\x1b':
		return KeyEscape, true
	case b == '\x7f' || b == '\b':
		return KeyBackspace, true
	case b == '\t':
		return KeyTab, true
	case b == 0x03:
		return KeyCtrlC, true
	case b >= 'A' && b <= 'Z':
		return Key(rune(b - 'A' + 'a')), true
	case b > ' ' && b < 0x7f:
		return Key(rune(b)), true
	}
	return "", false
}

// Tracker synthesizes press/release events from a stream of key sightings.
// Terminals only report presses (repeated while held), so a key is released
// once it has not been seen for a while. A key seen once waits out the
// terminal's auto-repeat delay; once it repeats, the shorter hold applies.
type Tracker struct {
	delay time.Duration
	hold  time.Duration
	held  map[Key]*keyHold
}

type keyHold struct {
	lastSeen  time.Time
	repeating bool
}

// NewTracker creates a tracker. delay is how long a fresh press counts as held,
// hold how long a repeating key does after its last sighting.
func NewTracker(delay, hold time.Duration) *Tracker {
	return &Tracker{
		delay: max(delay, hold),
		hold:  hold,
		held:  make(map[Key]*keyHold),
	}
}

// Observe records the keys seen at now and returns the resulting events:
// a Down for every key that was not already held, then an Up for every held key
// whose window has run out (in key order).
func (t *Tracker) Observe(now time.Time, keys []Key) []Event {
	var events []Event
	for _, k := range keys {
		h, held := t.held[k]
		if !held {
			t.held[k] = &keyHold{lastSeen: now}
			events = append(events, Event{Key: k, Down: true})
			continue
		}
		h.lastSeen = now
		h.repeating = true
	}

	var released []Key
	for k, h := range t.held {
		window := t.delay
		if h.repeating {
			window = t.hold
		}
		if now.Sub(h.lastSeen) >= window {
			released = append(released, k)
		}
	}
	slices.Sort(released)
	for _, k := range released {
		delete(t.held, k)
		events = append(events, Event{Key: k, Down: false})
	}
	return events
}

// Held reports whether the key is currently considered pressed.
func (t *Tracker) Held(k Key) bool {
	_, held := t.held[k]
	return held
}

// Reset releases every held key and returns the release events.
func (t *Tracker) Reset() []Event {
	keys := make([]Key, 0, len(t.held))
	for k := range t.held {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	clear(t.held)

	events := make([]Event, len(keys))
	for i, k := range keys {
		events[i] = Event{Key: k}
	}
	return events
}

// EscapeTimeout is how long an unfinished escape sequence waits for the rest
// of its bytes before it is reported as a bare escape key.
const EscapeTimeout = 50 * time.Millisecond

// Stream delivers input bytes via a channel and tracks key state.
type Stream struct {
	ch      chan byte
	tracker *Tracker
	closed  bool

	pending      []byte // Unfinished escape sequence carried to the next poll
	pendingSince time.Time
}

// StartStream spawns a goroutine that reads from r and feeds the stream.
// The goroutine exits when r returns an error (e.g. EOF on disconnect).
// delay and hold configure the key tracker (see NewTracker).
func StartStream(r io.Reader, delay, hold time.Duration) *Stream {
	s := &Stream{
		ch:      make(chan byte, 128),
		tracker: NewTracker(delay, hold),
	}
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	go func() {
		defer close(s.ch)
		for {
			b, err := br.ReadByte()
			if err != nil {
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Poll drains all available bytes (non-blocking) and returns the key events
// for this frame. ok is false once the underlying reader is exhausted.
func (s *Stream) Poll(now time.Time) (events []Event, ok bool) {
	prev := s.pending
	buf := slices.Clone(prev)
	s.pending = nil

drain:
	for !s.closed {
		select {
		case b, open := <-s.ch:
			if !open {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	// Hold back an escape sequence split across polls
	if start, split := unfinishedEscape(buf); split && !s.closed {
		if len(prev) == 0 || start > 0 {
			s.pendingSince = now
		}
		if now.Sub(s.pendingSince) < EscapeTimeout {
			s.pending = buf[start:]
			buf = buf[:start]
		}
	}

	events = s.tracker.Observe(now, Parse(buf))
	if s.closed {
		events = append(events, s.tracker.Reset()...)
	}
	return events, !s.closed
}

// unfinishedEscape reports whether buf ends in ESC, ESC [ or ESC O and where
// that prefix starts.
func unfinishedEscape(buf []byte) (int, bool) {
	n := len(buf)
	switch {
	case n >= 1 && buf[n-1] == '\x1b':
		return n - 1, true
	case n >= 2 && buf[n-2] == '\x1b' && (buf[n-1] == '[' || buf[n-1] == 'O'):
		return n - 2, true
	}
	return 0, false
}

// Reset releases all held keys, e.g. when the game changes state.
func (s *Stream) Reset() []Event {
	return s.tracker.Reset()
}
