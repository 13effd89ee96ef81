package input

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/invaders/internal/config"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Key
	}{
		{"letters lowercased", "aD", []Key{"a", "d"}},
		{"arrows", "\x1b[D\x1b[C\x1bOA", []Key{KeyLeft, KeyRight, KeyUp}},
		{"space and enter", " \r\n", []Key{KeySpace, KeyEnter, KeyEnter}},
		{"lone escape", "\x1b", []Key{KeyEscape}},
		{"ctrl+c", "\x03", []Key{KeyCtrlC}},
		{"unknown control bytes skipped", "\x01q", []Key{"q"}},
		{"incomplete sequence", "\x1b[", []Key{KeyEscape, "["}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse([]byte(tt.in)))
		})
	}
}

func TestParseKey(t *testing.T) {
	assert.Equal(t, KeySpace, ParseKey(" "))
	assert.Equal(t, KeySpace, ParseKey("Space"))
	assert.Equal(t, KeyLeft, ParseKey("ArrowLeft"))
	assert.Equal(t, KeyEnter, ParseKey("return"))
	assert.Equal(t, Key("a"), ParseKey("A"))
}

func TestTrackerPressAndRelease(t *testing.T) {
	tr := NewTracker(300*time.Millisecond, 100*time.Millisecond)
	t0 := time.Unix(0, 0)

	events := tr.Observe(t0, []Key{"a"})
	assert.Equal(t, []Event{{Key: "a", Down: true}}, events)

	// Auto-repeat keeps the key held without new events
	events = tr.Observe(t0.Add(50*time.Millisecond), []Key{"a"})
	assert.Empty(t, events)
	assert.True(t, tr.Held("a"))

	events = tr.Observe(t0.Add(120*time.Millisecond), nil)
	assert.Empty(t, events, "still within hold of the last sighting")

	events = tr.Observe(t0.Add(150*time.Millisecond), nil)
	assert.Equal(t, []Event{{Key: "a", Down: false}}, events)
	assert.False(t, tr.Held("a"))
}

func TestTrackerWaitsOutRepeatDelay(t *testing.T) {
	tr := NewTracker(600*time.Millisecond, 100*time.Millisecond)
	t0 := time.Unix(0, 0)

	// Held space: one byte, then auto-repeat every 32ms after a 512ms delay
	seen := map[time.Duration]bool{0: true}
	for d := 512 * time.Millisecond; d <= time.Second; d += 32 * time.Millisecond {
		seen[d] = true
	}

	var events []Event
	for d := time.Duration(0); d <= time.Second; d += 16 * time.Millisecond {
		var keys []Key
		if seen[d] {
			keys = []Key{KeySpace}
		}
		events = append(events, tr.Observe(t0.Add(d), keys)...)
	}
	assert.Equal(t, []Event{{Key: KeySpace, Down: true}}, events, "one press, no release while held")

	events = tr.Observe(t0.Add(1100*time.Millisecond), nil)
	assert.Equal(t, []Event{{Key: KeySpace}}, events, "repeating keys use the short hold")
}

func TestTrackerSinglePressUsesDelay(t *testing.T) {
	tr := NewTracker(300*time.Millisecond, 100*time.Millisecond)
	t0 := time.Unix(0, 0)
	tr.Observe(t0, []Key{"a"})

	assert.Empty(t, tr.Observe(t0.Add(299*time.Millisecond), nil))
	assert.Equal(t, []Event{{Key: "a"}}, tr.Observe(t0.Add(300*time.Millisecond), nil))
}

func TestTrackerReset(t *testing.T) {
	tr := NewTracker(time.Second, time.Second)
	now := time.Unix(0, 0)
	tr.Observe(now, []Key{"d", "a"})

	events := tr.Reset()
	assert.Equal(t, []Event{{Key: "a"}, {Key: "d"}}, events)
	assert.False(t, tr.Held("a"))
}

func TestStreamPollAndClose(t *testing.T) {
	pr, pw := io.Pipe()
	s := StartStream(pr, time.Second, time.Second)

	_, err := pw.Write([]byte("a"))
	require.NoError(t, err)

	var got []Event
	require.Eventually(t, func() bool {
		events, _ := s.Poll(time.Unix(0, 0))
		got = append(got, events...)
		return len(got) > 0
	}, time.Second, time.Millisecond)
	assert.Equal(t, []Event{{Key: "a", Down: true}}, got)

	require.NoError(t, pw.Close())
	var closing []Event
	require.Eventually(t, func() bool {
		events, ok := s.Poll(time.Unix(0, 0))
		closing = append(closing, events...)
		return !ok
	}, time.Second, time.Millisecond)
	assert.Equal(t, []Event{{Key: "a"}}, closing, "held keys are released on close")
}

// pollUntil polls s at now until cond holds for the stream, collecting events.
func pollUntil(t *testing.T, s *Stream, now time.Time, cond func() bool) []Event {
	t.Helper()
	var got []Event
	require.Eventually(t, func() bool {
		events, _ := s.Poll(now)
		got = append(got, events...)
		return cond()
	}, time.Second, time.Millisecond)
	return got
}

func TestStreamJoinsArrowSplitAcrossPolls(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	s := StartStream(pr, time.Second, time.Second)
	now := time.Unix(0, 0)

	_, err := pw.Write([]byte("\x1b"))
	require.NoError(t, err)
	got := pollUntil(t, s, now, func() bool { return len(s.pending) > 0 })
	assert.Empty(t, got, "a lone ESC may still become an arrow")

	_, err = pw.Write([]byte("["))
	require.NoError(t, err)
	got = pollUntil(t, s, now.Add(16*time.Millisecond), func() bool { return len(s.pending) == 2 })
	assert.Empty(t, got)

	_, err = pw.Write([]byte("D"))
	require.NoError(t, err)
	var events []Event
	require.Eventually(t, func() bool {
		evs, _ := s.Poll(now.Add(32 * time.Millisecond))
		events = append(events, evs...)
		return len(events) > 0
	}, time.Second, time.Millisecond)
	assert.Equal(t, []Event{{Key: KeyLeft, Down: true}}, events)
	assert.Empty(t, s.pending)
}

func TestStreamLoneEscapeAfterTimeout(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	s := StartStream(pr, time.Second, time.Second)
	now := time.Unix(0, 0)

	_, err := pw.Write([]byte("\x1b"))
	require.NoError(t, err)
	pollUntil(t, s, now, func() bool { return len(s.pending) > 0 })

	events, ok := s.Poll(now.Add(EscapeTimeout - time.Millisecond))
	require.True(t, ok)
	assert.Empty(t, events)

	events, _ = s.Poll(now.Add(EscapeTimeout))
	assert.Equal(t, []Event{{Key: KeyEscape, Down: true}}, events)
	assert.Empty(t, s.pending)
}

func TestUnfinishedEscape(t *testing.T) {
	tests := []struct {
		in    string
		start int
		split bool
	}{
		{"a\x1b", 1, true},
		{"\x1b[", 0, true},
		{"x\x1bO", 1, true},
		{"\x1b[D", 0, false},
		{"[", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		start, split := unfinishedEscape([]byte(tt.in))
		assert.Equal(t, tt.split, split, "%q", tt.in)
		if tt.split {
			assert.Equal(t, tt.start, start, "%q", tt.in)
		}
	}
}

func TestStreamFromBufferedReader(t *testing.T) {
	s := StartStream(strings.NewReader("\x1b[D"), time.Second, time.Second)

	var got []Event
	require.Eventually(t, func() bool {
		events, ok := s.Poll(time.Unix(0, 0))
		got = append(got, events...)
		return !ok
	}, time.Second, time.Millisecond)
	require.NotEmpty(t, got)
	assert.Equal(t, Event{Key: KeyLeft, Down: true}, got[0])
}

func TestBindings(t *testing.T) {
	b := NewBindings(config.Default().Keys)

	assert.True(t, b.Matches("a", ActionMoveLeft))
	assert.True(t, b.Matches(KeyLeft, ActionMoveLeft))
	assert.True(t, b.Matches(KeyRight, ActionMoveRight))
	assert.True(t, b.Matches(KeySpace, ActionFire))
	assert.True(t, b.Matches(KeySpace, ActionStart))
	assert.True(t, b.Matches(KeyCtrlC, ActionQuit))
	assert.False(t, b.Matches("a", ActionFire))
	assert.Empty(t, b.Actions("z"))
	assert.Equal(t, "fire", ActionFire.String())
}
