package draw

import (
	"bytes"
	"math"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCanvas maps a 100x100 logical area onto 10 columns x 5 rows (10x10 sub-pixels).
func newTestCanvas() *Canvas {
	return NewScaledCanvas(10, 5, 100, 100)
}

func pixelAt(c *Canvas, x, y int) (colorful.Color, bool) {
	i := y*c.termWidth + x
	return c.pixels[i], c.set[i]
}

func countSet(c *Canvas) int {
	n := 0
	for _, s := range c.set {
		if s {
			n++
		}
	}
	return n
}

type checker struct{}

func (checker) Size() (int, int) { return 2, 2 }

func (checker) At(x, y int) (colorful.Color, bool) {
	switch {
	case x == 0 && y == 0:
		return Red, true
	case x == 1 && y == 1:
		return Green, true
	}
	return colorful.Color{}, false
}

func TestFillRectScalesToPixels(t *testing.T) {
	c := newTestCanvas()
	c.FillRect(0, 0, 50, 50, Red)

	assert.Equal(t, 25, countSet(c))
	col, ok := pixelAt(c, 4, 4)
	require.True(t, ok)
	assert.Equal(t, Red, col)
	_, ok = pixelAt(c, 5, 5)
	assert.False(t, ok)
}

func TestFillRectSubPixelStillVisible(t *testing.T) {
	c := newTestCanvas()
	c.FillRect(33, 61, 3, 2, Green)

	assert.Equal(t, 1, countSet(c))
	_, ok := pixelAt(c, 3, 6)
	assert.True(t, ok)
}

func TestTransformStackRotatesAroundCenter(t *testing.T) {
	c := newTestCanvas()
	c.Save()
	c.Translate(50, 50)
	c.Rotate(math.Pi / 2)
	c.Translate(-50, -50)
	c.FillRect(40, 0, 20, 10, White)
	c.Restore()

	_, ok := pixelAt(c, 9, 5)
	assert.True(t, ok, "bar rotated to the right edge")
	_, ok = pixelAt(c, 5, 0)
	assert.False(t, ok, "original position untouched")

	// Restored transform draws untransformed again
	c.FillRect(0, 90, 10, 10, White)
	_, ok = pixelAt(c, 0, 9)
	assert.True(t, ok)
}

func TestRestoreWithoutSaveIsIgnored(t *testing.T) {
	c := newTestCanvas()
	c.Restore()
	c.FillRect(0, 0, 10, 10, White)
	_, ok := pixelAt(c, 0, 0)
	assert.True(t, ok)
}

func TestAlphaBlendsOverBlack(t *testing.T) {
	c := newTestCanvas()
	c.SetAlpha(0.5)
	c.FillRect(0, 0, 10, 10, White)

	col, ok := pixelAt(c, 0, 0)
	require.True(t, ok)
	assert.InDelta(t, 0.5, col.R, 1e-9)
	assert.InDelta(t, 0.5, col.G, 1e-9)
}

func TestZeroAlphaDrawsNothing(t *testing.T) {
	c := newTestCanvas()
	c.Save()
	c.SetAlpha(0)
	c.FillCircle(50, 50, 20, White)
	c.Restore()
	assert.Zero(t, countSet(c))
}

func TestFillCircle(t *testing.T) {
	c := newTestCanvas()
	c.FillCircle(50, 50, 20, Red)

	_, ok := pixelAt(c, 5, 5)
	assert.True(t, ok)
	_, ok = pixelAt(c, 0, 0)
	assert.False(t, ok)

	c.Clear()
	c.FillCircle(55, 55, 0.5, Red)
	assert.Equal(t, 1, countSet(c), "tiny circles still mark their center pixel")
}

func TestDrawImageSamplesAndSkipsTransparent(t *testing.T) {
	c := newTestCanvas()
	c.DrawImage(checker{}, 0, 0, 100, 100)

	col, ok := pixelAt(c, 2, 2)
	require.True(t, ok)
	assert.Equal(t, Red, col)

	col, ok = pixelAt(c, 7, 7)
	require.True(t, ok)
	assert.Equal(t, Green, col)

	_, ok = pixelAt(c, 7, 2)
	assert.False(t, ok)
}

func TestRenderWritesOnlyChangedCells(t *testing.T) {
	c := newTestCanvas()
	c.FillRect(0, 0, 10, 10, Red)

	var out bytes.Buffer
	require.NoError(t, c.Render(&out))
	assert.Contains(t, out.String(), "\033[1;1H")
	assert.Contains(t, out.String(), string(BlockUpperHalf))
	assert.Contains(t, out.String(), "38;2;255;0;0")

	out.Reset()
	require.NoError(t, c.Render(&out))
	assert.Empty(t, out.String(), "unchanged frame writes nothing")

	c.Clear()
	out.Reset()
	require.NoError(t, c.Render(&out))
	assert.Contains(t, out.String(), "\033[1;1H\033[0m ", "cleared cell is erased")

	c.ForceRedraw()
	out.Reset()
	require.NoError(t, c.Render(&out))
	assert.Empty(t, out.String(), "full redraw of an empty canvas skips blank cells")
}

func TestRenderUsesOffset(t *testing.T) {
	c := newTestCanvas()
	c.SetOffset(3, 2)
	c.FillRect(0, 10, 10, 10, Red) // bottom half of the first cell

	var out bytes.Buffer
	require.NoError(t, c.Render(&out))
	assert.Contains(t, out.String(), "\033[3;4H")
	assert.Contains(t, out.String(), string(BlockLowerHalf))
}

func TestRenderBorder(t *testing.T) {
	c := newTestCanvas()
	var out bytes.Buffer
	require.NoError(t, c.RenderBorder(&out))
	assert.Empty(t, out.String())

	c.SetOffset(2, 2)
	require.NoError(t, c.RenderBorder(&out))
	assert.Contains(t, out.String(), "┌")
	assert.Contains(t, out.String(), "┘")
}

func TestClampTermSize(t *testing.T) {
	w, h, col, row := ClampTermSize(300, 100, 240, 80)
	assert.Equal(t, []int{240, 80, 30, 10}, []int{w, h, col, row})

	w, h, col, row = ClampTermSize(100, 30, 240, 80)
	assert.Equal(t, []int{100, 30, 0, 0}, []int{w, h, col, row})
}

func TestChunkWriterFlush(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 2, 1)
	cw.WriteAt(1, 1, "Score: 100")
	assert.Positive(t, cw.Pending())
	require.NoError(t, cw.Flush())
	assert.Equal(t, "\033[2;3HScore: 100\033[0m", out.String())
	assert.Zero(t, cw.Pending())
}

func TestMustHex(t *testing.T) {
	assert.Equal(t, colorful.Color{R: 1, G: 0, B: 0}, MustHex("#ff0000"))
	assert.Panics(t, func() { MustHex("not-a-color") })
}
