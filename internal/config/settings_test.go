package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "invaders.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())
	assert.Equal(t, time.Second, s.Timing.GameOverDelay.Duration)
	assert.Equal(t, time.Second/60, s.FrameTime())
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoadOverridesSubset(t *testing.T) {
	path := writeFile(t, `
[play]
width = 1280
spawn_min_frames = 200
spawn_max_frames = 300

[timing]
game_over_delay = "250ms"

[keys]
fire = ["space", "w"]
`)

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1280.0, s.Play.Width)
	assert.Equal(t, 640.0, s.Play.Height, "untouched fields keep defaults")
	assert.Equal(t, 200, s.Play.SpawnMinFrames)
	assert.Equal(t, 250*time.Millisecond, s.Timing.GameOverDelay.Duration)
	assert.Equal(t, []string{"space", "w"}, s.Keys.Fire)
	assert.Equal(t, []string{"a", "left"}, s.Keys.MoveLeft)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, `
[play]
widht = 1280
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "play.widht")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeFile(t, `
[play]
spawn_min_frames = 600
spawn_max_frames = 600
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spawn interval")
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeFile(t, `
[timing]
key_hold = "soon"
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidateKeyRepeatDelay(t *testing.T) {
	s := Default()
	assert.Greater(t, s.Timing.KeyRepeatDelay.Duration, 500*time.Millisecond,
		"a fresh press outlasts common auto-repeat delays")

	s.Timing.KeyRepeatDelay = Duration{50 * time.Millisecond}
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key_repeat_delay")
}

func TestValidateEmptyBinding(t *testing.T) {
	s := Default()
	s.Keys.Quit = nil
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keys.quit")
}

func TestWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Default().Write(&buf))
	assert.Contains(t, buf.String(), `game_over_delay = "1s"`)

	loaded, err := Load(writeFile(t, buf.String()))
	require.NoError(t, err)
	assert.Equal(t, Default(), loaded)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("INVADERS_TEST_VALUE", "set")
	assert.Equal(t, "set", GetEnv("INVADERS_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("INVADERS_TEST_MISSING", "fallback"))
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("INVADERS_DOTENV_VALUE=from-file\n"), 0o644))
	t.Setenv("INVADERS_DOTENV_VALUE", "")
	require.NoError(t, os.Unsetenv("INVADERS_DOTENV_VALUE"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("INVADERS_DOTENV_VALUE"))

	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "debug")
	require.NoError(t, err)
	logger.Debug("grid spawned", "invaders", 12)
	assert.Contains(t, buf.String(), "grid spawned")

	_, err = NewLogger(&buf, "loud")
	require.Error(t, err)
}
