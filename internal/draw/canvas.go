package draw

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Block characters for drawing.
const (
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Canvas is a color drawing buffer with 2x vertical resolution using half-block characters.
// Supports scaling from logical coordinates to actual terminal pixels and implements Surface.
type Canvas struct {
	termWidth      int              // Actual terminal columns
	termHeight     int              // Actual terminal rows
	subPixelHeight int              // termHeight * 2
	pixels         []colorful.Color // Flat slice: [y * termWidth + x]
	set            []bool           // Whether the pixel was drawn this frame

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area when terminal is larger than max resolution.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	// Drawing state (transform + alpha) and its save stack
	state canvasState
	stack []canvasState

	// Cells emitted by the previous Render; only changed cells are rewritten.
	prev []cell

	// Reusable buffers to reduce allocations
	renderBuf       strings.Builder
	intersectionBuf []float64
}

type canvasState struct {
	m     affine
	alpha float64
}

// cell is one terminal character: a top and a bottom sub-pixel.
type cell struct {
	top, bottom       colorful.Color
	hasTop, hasBottom bool
}

var _ Surface = (*Canvas)(nil)

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the coordinate space used by game objects.
// termWidth/Height are the actual terminal dimensions.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
		state:         canvasState{m: identity, alpha: 1},
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth < 0 {
		termWidth = 0
	}
	if termHeight < 0 {
		termHeight = 0
	}
	subPixelHeight := termHeight * 2

	// Reallocate if size changed
	if termWidth != c.termWidth || termHeight != c.termHeight || c.pixels == nil {
		c.pixels = make([]colorful.Color, subPixelHeight*termWidth)
		c.set = make([]bool, subPixelHeight*termWidth)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
		c.prev = nil
	}

	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.prev = nil
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// ForceRedraw makes the next Render rewrite every cell, e.g. after the screen was cleared.
func (c *Canvas) ForceRedraw() {
	c.prev = nil
}

// Clear resets all pixels and the drawing state.
func (c *Canvas) Clear() {
	clear(c.set)
	c.state = canvasState{m: identity, alpha: 1}
	c.stack = c.stack[:0]
}

// Save pushes the current transform and alpha.
func (c *Canvas) Save() {
	c.stack = append(c.stack, c.state)
}

// Restore pops the last saved transform and alpha. Unbalanced calls are ignored.
func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.state = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

// Translate moves the origin of subsequent drawing.
func (c *Canvas) Translate(dx, dy float64) {
	c.state.m = c.state.m.mul(translation(dx, dy))
}

// Rotate rotates subsequent drawing around the current origin.
func (c *Canvas) Rotate(radians float64) {
	c.state.m = c.state.m.mul(rotation(radians))
}

// SetAlpha sets the opacity of subsequent drawing.
func (c *Canvas) SetAlpha(alpha float64) {
	c.state.alpha = math.Max(0, math.Min(1, alpha))
}

// pixelTransform maps logical coordinates to sub-pixel coordinates.
func (c *Canvas) pixelTransform() affine {
	return scaling(c.scaleX, c.scaleY).mul(c.state.m)
}

// setPixel blends a color into a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, col colorful.Color) {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return
	}
	alpha := c.state.alpha
	if alpha <= 0 {
		return
	}
	i := y*c.termWidth + x
	if alpha >= 1 {
		c.pixels[i] = col
	} else {
		base := Black
		if c.set[i] {
			base = c.pixels[i]
		}
		c.pixels[i] = base.BlendRgb(col, alpha).Clamped()
	}
	c.set[i] = true
}

// FillRect fills a rectangle given in logical coordinates.
// A rectangle smaller than one pixel still marks the pixel under its center.
func (c *Canvas) FillRect(x, y, w, h float64, col colorful.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	pm := c.pixelTransform()
	var corners [4]Point
	for i, p := range [4]Point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}} {
		px, py := pm.apply(p.X, p.Y)
		corners[i] = Point{X: px, Y: py}
	}
	if c.fillPolygon(corners[:], col) == 0 {
		cx, cy := pm.apply(x+w/2, y+h/2)
		c.setPixel(int(math.Floor(cx)), int(math.Floor(cy)), col)
	}
}

// FillCircle fills a circle given in logical coordinates.
// A circle smaller than one pixel still marks the pixel under its center.
func (c *Canvas) FillCircle(cx, cy, r float64, col colorful.Color) {
	if r <= 0 {
		return
	}
	pm := c.pixelTransform()
	px, py := pm.apply(cx, cy)
	rx := r * math.Hypot(pm.a, pm.b)
	ry := r * math.Hypot(pm.c, pm.d)

	drawn := 0
	yStart := int(math.Floor(py - ry))
	yEnd := int(math.Ceil(py + ry))
	xStart := int(math.Floor(px - rx))
	xEnd := int(math.Ceil(px + rx))
	for y := yStart; y <= yEnd; y++ {
		dy := (float64(y) + 0.5 - py) / ry
		for x := xStart; x <= xEnd; x++ {
			dx := (float64(x) + 0.5 - px) / rx
			if dx*dx+dy*dy <= 1 {
				c.setPixel(x, y, col)
				drawn++
			}
		}
	}
	if drawn == 0 {
		c.setPixel(int(math.Floor(px)), int(math.Floor(py)), col)
	}
}

// DrawImage blits img into the logical rectangle (x, y, w, h) using nearest-neighbour sampling.
// Transparent image pixels leave the canvas untouched.
func (c *Canvas) DrawImage(img Image, x, y, w, h float64) {
	iw, ih := img.Size()
	if w <= 0 || h <= 0 || iw <= 0 || ih <= 0 {
		return
	}
	pm := c.pixelTransform()
	inv, ok := pm.invert()
	if !ok {
		return
	}

	// Bounding box of the transformed destination rectangle in pixel space
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range [4]Point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}} {
		px, py := pm.apply(p.X, p.Y)
		minX, maxX = math.Min(minX, px), math.Max(maxX, px)
		minY, maxY = math.Min(minY, py), math.Max(maxY, py)
	}

	x0 := max(int(math.Floor(minX)), 0)
	y0 := max(int(math.Floor(minY)), 0)
	x1 := min(int(math.Ceil(maxX)), c.termWidth-1)
	y1 := min(int(math.Ceil(maxY)), c.subPixelHeight-1)

	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			lx, ly := inv.apply(float64(px)+0.5, float64(py)+0.5)
			u := (lx - x) / w
			v := (ly - y) / h
			if u < 0 || u >= 1 || v < 0 || v >= 1 {
				continue
			}
			if col, opaque := img.At(int(u*float64(iw)), int(v*float64(ih))); opaque {
				c.setPixel(px, py, col)
			}
		}
	}
}

// fillPolygon fills a polygon given in pixel space using a scanline algorithm,
// sampling at pixel centers. Returns the number of pixels drawn.
func (c *Canvas) fillPolygon(points []Point, col colorful.Color) int {
	if len(points) < 3 {
		return 0
	}

	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	drawn := 0
	yStart := int(math.Floor(minY))
	yEnd := int(math.Ceil(maxY))
	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5

		// Reuse intersection buffer
		intersections := c.intersectionBuf[:0]

		n := len(points)
		for i := 0; i < n; i++ {
			p1 := points[i]
			p2 := points[(i+1)%n]

			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}

		// Store back in case it grew
		c.intersectionBuf = intersections

		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := int(math.Ceil(intersections[i] - 0.5))
			xEnd := int(math.Floor(intersections[i+1] - 0.5))
			for x := xStart; x <= xEnd; x++ {
				c.setPixel(x, y, col)
				drawn++
			}
		}
	}
	return drawn
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1500 bytes matches typical MTU size for smooth SSH/network transmission.
const maxChunkSize = 1400

// Render outputs the cells that changed since the previous Render using
// half-block characters with 24-bit colors.
func (c *Canvas) Render(w io.Writer) error {
	c.renderBuf.Reset()

	total := c.termWidth * c.termHeight
	full := len(c.prev) != total
	if full {
		c.prev = make([]cell, total)
	}

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			var cur cell
			if c.set[topOffset+col] {
				cur.top, cur.hasTop = c.pixels[topOffset+col], true
			}
			if c.set[bottomOffset+col] {
				cur.bottom, cur.hasBottom = c.pixels[bottomOffset+col], true
			}

			idx := row*c.termWidth + col
			if !full && c.prev[idx] == cur {
				continue
			}
			if full && !cur.hasTop && !cur.hasBottom {
				continue // Screen was cleared; nothing to erase
			}
			c.prev[idx] = cur

			fmt.Fprintf(&c.renderBuf, "\033[%d;%dH", row+1+c.offsetRow, col+1+c.offsetCol)
			writeCell(&c.renderBuf, cur)
		}
	}

	if c.renderBuf.Len() == 0 {
		return nil
	}
	c.renderBuf.WriteString("\033[0m")

	// Write output in chunks for optimal network flow
	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := io.WriteString(w, chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return nil
}

// writeCell appends the SGR sequence and glyph for a cell.
func writeCell(b *strings.Builder, cur cell) {
	switch {
	case cur.hasTop && cur.hasBottom:
		tr, tg, tb := cur.top.RGB255()
		br, bg, bb := cur.bottom.RGB255()
		fmt.Fprintf(b, "\033[38;2;%d;%d;%dm\033[48;2;%d;%d;%dm%c", tr, tg, tb, br, bg, bb, BlockUpperHalf)
	case cur.hasTop:
		r, g, bl := cur.top.RGB255()
		fmt.Fprintf(b, "\033[49m\033[38;2;%d;%d;%dm%c", r, g, bl, BlockUpperHalf)
	case cur.hasBottom:
		r, g, bl := cur.bottom.RGB255()
		fmt.Fprintf(b, "\033[49m\033[38;2;%d;%d;%dm%c", r, g, bl, BlockLowerHalf)
	default:
		b.WriteString("\033[0m ")
	}
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
// Draws horizontal borders when there is vertical offset, vertical borders
// when there is horizontal offset, and corners when both are present.
func (c *Canvas) RenderBorder(w io.Writer) error {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars
	if !hasH && !hasV {
		return nil
	}

	// Border positions (1-based terminal coordinates)
	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	var buf strings.Builder
	buf.Grow((c.termWidth+2)*2 + c.termHeight*2*12)

	if hasV {
		if hasH {
			fmt.Fprintf(&buf, "\033[%d;%dH┌%s┐", top, left, strings.Repeat("─", c.termWidth))
			fmt.Fprintf(&buf, "\033[%d;%dH└%s┘", bottom, left, strings.Repeat("─", c.termWidth))
		} else {
			fmt.Fprintf(&buf, "\033[%d;%dH%s", top, c.offsetCol+1, strings.Repeat("─", c.termWidth))
			fmt.Fprintf(&buf, "\033[%d;%dH%s", bottom, c.offsetCol+1, strings.Repeat("─", c.termWidth))
		}
	}

	if hasH {
		startRow := top + 1
		endRow := bottom
		if !hasV {
			// No horizontal borders, side bars span full canvas height
			startRow = c.offsetRow + 1
			endRow = c.offsetRow + c.termHeight + 1
		}
		for row := startRow; row < endRow; row++ {
			fmt.Fprintf(&buf, "\033[%d;%dH│\033[%d;%dH│", row, left, row, right)
		}
	}

	_, err := io.WriteString(w, buf.String())
	return err
}
