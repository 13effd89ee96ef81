// Package asset decodes the game's sprites. Sprites are small text bitmaps that
// load in the background; entities must check Ready before using their dimensions.
package asset

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/tomz197/invaders/internal/draw"
)

// Files holds the built-in sprites.
//
//go:embed sprites/*.txt
var Files embed.FS

// Built-in sprite paths inside Files.
const (
	PlayerSprite  = "sprites/player.txt"
	InvaderSprite = "sprites/invader.txt"
)

// palette maps sprite characters to colors. '.' and ' ' are transparent.
var palette = map[rune]colorful.Color{
	'W': draw.White,
	'R': draw.Red,
	'G': draw.Green,
	'B': draw.MustHex("#3c78ff"),
	'C': draw.MustHex("#00e5ff"),
	'P': draw.MustHex("#b44cff"),
	'Y': draw.MustHex("#ffe14d"),
	'O': draw.MustHex("#ff8c1a"),
}

// ErrEmptySprite is returned when a sprite file contains no pixel rows.
var ErrEmptySprite = errors.New("sprite has no pixels")

// Sprite is a bitmap whose pixels become available once decoding finishes.
// The zero value is a sprite that is never ready.
type Sprite struct {
	name   string
	ready  atomic.Bool
	width  int
	height int
	pixels []colorful.Color
	opaque []bool
}

var _ draw.Image = (*Sprite)(nil)

// Name returns the path the sprite was loaded from.
func (s *Sprite) Name() string {
	return s.name
}

// Ready reports whether the sprite finished decoding.
func (s *Sprite) Ready() bool {
	return s != nil && s.ready.Load()
}

// Size returns the bitmap dimensions, or 0x0 until the sprite is ready.
func (s *Sprite) Size() (int, int) {
	if !s.Ready() {
		return 0, 0
	}
	return s.width, s.height
}

// At returns the pixel color and whether it is opaque.
func (s *Sprite) At(x, y int) (colorful.Color, bool) {
	if !s.Ready() || x < 0 || y < 0 || x >= s.width || y >= s.height {
		return colorful.Color{}, false
	}
	i := y*s.width + x
	return s.pixels[i], s.opaque[i]
}

// Decode reads a text bitmap. Lines starting with '#' are comments and blank
// lines are skipped; every pixel row must have the same width.
func Decode(name string, r io.Reader) (*Sprite, error) {
	s := &Sprite{name: name}
	if err := s.decode(r); err != nil {
		return nil, err
	}
	s.ready.Store(true)
	return s, nil
}

func (s *Sprite) decode(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		row := []rune(line)
		if s.height == 0 {
			s.width = len(row)
		} else if len(row) != s.width {
			return fmt.Errorf("%s:%d: row width %d, want %d", s.name, lineNo, len(row), s.width)
		}

		for col, ch := range row {
			if ch == '.' || ch == ' ' {
				s.pixels = append(s.pixels, colorful.Color{})
				s.opaque = append(s.opaque, false)
				continue
			}
			c, ok := palette[ch]
			if !ok {
				return fmt.Errorf("%s:%d:%d: unknown pixel %q", s.name, lineNo, col+1, ch)
			}
			s.pixels = append(s.pixels, c)
			s.opaque = append(s.opaque, true)
		}
		s.height++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%s: %w", s.name, err)
	}
	if s.height == 0 {
		return fmt.Errorf("%s: %w", s.name, ErrEmptySprite)
	}
	return nil
}
