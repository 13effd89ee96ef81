package asset

import (
	"context"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/invaders/internal/draw"
)

func TestDecode(t *testing.T) {
	s, err := Decode("test", strings.NewReader("# comment\n\nW.\n.R\n"))
	require.NoError(t, err)
	require.True(t, s.Ready())

	w, h := s.Size()
	assert.Equal(t, 2, w)
	assert.Equal(t, 2, h)

	c, ok := s.At(0, 0)
	assert.True(t, ok)
	assert.Equal(t, draw.White, c)

	_, ok = s.At(1, 0)
	assert.False(t, ok, "dot is transparent")

	_, ok = s.At(5, 5)
	assert.False(t, ok, "out of bounds")
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode("ragged", strings.NewReader("WW\nW\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ragged:2")

	_, err = Decode("unknown", strings.NewReader("WZ\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown pixel 'Z'")

	_, err = Decode("empty", strings.NewReader("# nothing\n"))
	assert.ErrorIs(t, err, ErrEmptySprite)
}

func TestZeroSpriteIsNeverReady(t *testing.T) {
	var s *Sprite
	assert.False(t, s.Ready())

	pending := &Sprite{}
	assert.False(t, pending.Ready())
	w, h := pending.Size()
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestBuiltinSprites(t *testing.T) {
	l := NewLoader(context.Background(), Files)
	player := l.Load(PlayerSprite)
	invader := l.Load(InvaderSprite)
	require.NoError(t, l.Wait())

	require.True(t, player.Ready())
	w, h := player.Size()
	assert.Equal(t, []int{15, 9}, []int{w, h})

	require.True(t, invader.Ready())
	w, h = invader.Size()
	assert.Equal(t, []int{11, 8}, []int{w, h})
	assert.Equal(t, InvaderSprite, invader.Name())
}

func TestLoaderReportsFailures(t *testing.T) {
	fsys := fstest.MapFS{
		"good.txt": {Data: []byte("W\n")},
		"bad.txt":  {Data: []byte("X\n")},
	}
	l := NewLoader(context.Background(), fsys)
	l.Load("good.txt")
	bad := l.Load("bad.txt")

	err := l.Wait()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.txt")
	assert.False(t, bad.Ready())
}

func TestLoaderMissingFile(t *testing.T) {
	l := NewLoader(context.Background(), fstest.MapFS{})
	s := l.Load("missing.txt")
	assert.ErrorIs(t, l.Wait(), fs.ErrNotExist)
	assert.False(t, s.Ready())
}

func TestLoaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := NewLoader(ctx, Files)
	s := l.Load(PlayerSprite)
	assert.ErrorIs(t, l.Wait(), context.Canceled)
	assert.False(t, s.Ready())
}
