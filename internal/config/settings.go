package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Settings holds every tunable game parameter. Zero-config play uses Default();
// a TOML file can override any subset of fields.
type Settings struct {
	Play   PlaySettings   `toml:"play"`
	Timing TimingSettings `toml:"timing"`
	Keys   KeySettings    `toml:"keys"`
	Render RenderSettings `toml:"render"`
}

// PlaySettings describes the play area and gameplay tuning.
type PlaySettings struct {
	Width            float64 `toml:"width"`             // Logical play area width
	Height           float64 `toml:"height"`            // Logical play area height
	PlayerScale      float64 `toml:"player_scale"`      // Player sprite pixel -> play area units
	InvaderScale     float64 `toml:"invader_scale"`     // Invader sprite pixel -> play area units
	LossDistance     float64 `toml:"loss_distance"`     // Lead invader distance above the player that ends the round
	AmbientParticles int     `toml:"ambient_particles"` // Background starfield size
	SpawnMinFrames   int     `toml:"spawn_min_frames"`  // Lower bound (inclusive) of the grid spawn interval
	SpawnMaxFrames   int     `toml:"spawn_max_frames"`  // Upper bound (exclusive) of the grid spawn interval
	VolleyFrames     int     `toml:"volley_frames"`     // Frames between invader volleys
}

// TimingSettings controls the frame driver and real-time delays.
type TimingSettings struct {
	FPS            int      `toml:"fps"`
	GameOverDelay  Duration `toml:"game_over_delay"`  // Death animation time before game over
	KeyRepeatDelay Duration `toml:"key_repeat_delay"` // How long a fresh press counts as held before auto-repeat starts
	KeyHold        Duration `toml:"key_hold"`         // How long a repeating key counts as held after its last byte
}

// KeySettings binds actions to key names (see input.ParseKey).
type KeySettings struct {
	MoveLeft  []string `toml:"move_left"`
	MoveRight []string `toml:"move_right"`
	Fire      []string `toml:"fire"`
	Start     []string `toml:"start"`
	Quit      []string `toml:"quit"`
}

// RenderSettings limits the terminal area used for drawing.
type RenderSettings struct {
	MaxColumns int `toml:"max_columns"`
	MaxRows    int `toml:"max_rows"`
}

// Duration is a time.Duration that reads and writes TOML strings like "1s" or "100ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the stock game settings.
func Default() Settings {
	return Settings{
		Play: PlaySettings{
			Width:            960,
			Height:           640,
			PlayerScale:      5,
			InvaderScale:     3,
			LossDistance:     169,
			AmbientParticles: 150,
			SpawnMinFrames:   500,
			SpawnMaxFrames:   1000,
			VolleyFrames:     100,
		},
		Timing: TimingSettings{
			FPS:            60,
			GameOverDelay:  Duration{time.Second},
			KeyRepeatDelay: Duration{600 * time.Millisecond},
			KeyHold:        Duration{100 * time.Millisecond},
		},
		Keys: KeySettings{
			MoveLeft:  []string{"a", "left"},
			MoveRight: []string{"d", "right"},
			Fire:      []string{"space"},
			Start:     []string{"enter", "space"},
			Quit:      []string{"q", "ctrl+c"},
		},
		Render: RenderSettings{
			MaxColumns: 240,
			MaxRows:    80,
		},
	}
}

// FrameTime returns the target duration of a single frame.
func (s Settings) FrameTime() time.Duration {
	return time.Second / time.Duration(s.Timing.FPS)
}

// Load reads settings from a TOML file on top of Default().
// An empty path returns the defaults. Unknown keys are rejected.
func Load(path string) (Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}

	md, err := toml.DecodeFile(path, &s)
	if err != nil {
		return Settings{}, fmt.Errorf("decode settings %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Settings{}, fmt.Errorf("settings %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

// Write encodes the settings as TOML.
func (s Settings) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(s)
}

// Validate checks that the settings describe a playable game.
func (s Settings) Validate() error {
	p := s.Play
	switch {
	case p.Width <= 0 || p.Height <= 0:
		return fmt.Errorf("play area must be positive, got %gx%g", p.Width, p.Height)
	case p.PlayerScale <= 0 || p.InvaderScale <= 0:
		return fmt.Errorf("sprite scales must be positive")
	case p.AmbientParticles < 0:
		return fmt.Errorf("ambient_particles must not be negative")
	case p.SpawnMinFrames < 1 || p.SpawnMaxFrames <= p.SpawnMinFrames:
		return fmt.Errorf("spawn interval [%d, %d) is empty", p.SpawnMinFrames, p.SpawnMaxFrames)
	case p.VolleyFrames < 1:
		return fmt.Errorf("volley_frames must be at least 1")
	}

	t := s.Timing
	switch {
	case t.FPS < 1:
		return fmt.Errorf("fps must be at least 1")
	case t.GameOverDelay.Duration < 0:
		return fmt.Errorf("game_over_delay must not be negative")
	case t.KeyHold.Duration <= 0:
		return fmt.Errorf("key_hold must be positive")
	case t.KeyRepeatDelay.Duration < t.KeyHold.Duration:
		return fmt.Errorf("key_repeat_delay must be at least key_hold")
	}

	k := s.Keys
	for name, keys := range map[string][]string{
		"move_left":  k.MoveLeft,
		"move_right": k.MoveRight,
		"fire":       k.Fire,
		"start":      k.Start,
		"quit":       k.Quit,
	} {
		if len(keys) == 0 {
			return fmt.Errorf("keys.%s has no bindings", name)
		}
	}

	if s.Render.MaxColumns < 1 || s.Render.MaxRows < 1 {
		return fmt.Errorf("render limits must be positive")
	}
	return nil
}
