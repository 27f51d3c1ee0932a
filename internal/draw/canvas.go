package draw

import (
	"io"
	"math"
	"strconv"
	"strings"
)

// Color is a 24-bit RGB color.
type Color struct {
	R, G, B uint8
}

// Canvas is a color drawing buffer with 2x vertical resolution using
// half-block characters. Drawing happens in logical coordinates that are
// scaled uniformly to terminal sub-pixels, so circles stay round.
type Canvas struct {
	termWidth      int     // Terminal columns used by the canvas
	termHeight     int     // Terminal rows used by the canvas
	subPixelHeight int     // termHeight * 2
	pixels         []Color // Flat slice: [y * termWidth + x]
	lit            []bool  // Whether the pixel at the same index is set

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scale         float64 // Sub-pixels per logical unit, same on both axes

	renderBuf strings.Builder // Buffer for batching render output
	numBuf    [20]byte        // Scratch buffer for integer formatting
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to
// terminal pixels. The logical area is fitted inside the terminal keeping
// its aspect ratio.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping the
// logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth < 1 {
		termWidth = 1
	}
	if termHeight < 1 {
		termHeight = 1
	}

	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]Color, c.subPixelHeight*termWidth)
		c.lit = make([]bool, c.subPixelHeight*termWidth)
	}

	c.scale = math.Min(
		float64(c.termWidth)/c.logicalWidth,
		float64(c.subPixelHeight)/c.logicalHeight,
	)
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.lit)
}

// setPixel sets a pixel at sub-pixel coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, col Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		i := y*c.termWidth + x
		c.pixels[i] = col
		c.lit[i] = true
	}
}

// Lit reports whether the sub-pixel at (x, y) is set, and its color.
func (c *Canvas) Lit(x, y int) (Color, bool) {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return Color{}, false
	}
	i := y*c.termWidth + x
	return c.pixels[i], c.lit[i]
}

// Set sets a pixel at logical coordinates.
func (c *Canvas) Set(x, y float64, col Color) {
	c.setPixel(c.toPixel(x), c.toPixel(y), col)
}

func (c *Canvas) toPixel(v float64) int {
	return int(math.Floor(v * c.scale))
}

// Scale returns the number of sub-pixels per logical unit.
func (c *Canvas) Scale() float64 {
	return c.scale
}

// CellToLogical converts a 0-based terminal cell (as reported by the mouse)
// to logical coordinates at the center of the cell.
func (c *Canvas) CellToLogical(col, row int) (float64, float64) {
	px := float64(col) + 0.5
	py := float64(row)*2 + 1
	return px / c.scale, py / c.scale
}

// LogicalToTerminal converts logical coordinates to a 1-based terminal
// position (col, row), for placing text next to drawn shapes.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	return c.toPixel(x) + 1, c.toPixel(y)/2 + 1
}

// TerminalWidth returns the canvas column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the canvas row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// Render outputs the canvas to the writer using half-block characters in
// truecolor, starting at the top-left of the terminal. Every cell of the
// canvas is written, so no screen clear is needed between frames.
func (c *Canvas) Render(w io.Writer) error {
	c.renderBuf.Reset()
	c.renderBuf.Grow(c.termWidth * c.termHeight * 8)

	var fg, bg Color
	fgSet, bgSet := false, false

	for row := 0; row < c.termHeight; row++ {
		appendCursor(&c.renderBuf, c.numBuf[:0], row+1, 1)

		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			topLit := c.lit[topOffset+col]
			bottomLit := c.lit[bottomOffset+col]
			top := c.pixels[topOffset+col]
			bottom := c.pixels[bottomOffset+col]

			var ch rune
			var wantFg Color
			var wantBg *Color

			switch {
			case topLit && bottomLit && top == bottom:
				ch, wantFg = BlockFull, top
			case topLit && bottomLit:
				ch, wantFg, wantBg = BlockUpperHalf, top, &bottom
			case topLit:
				ch, wantFg = BlockUpperHalf, top
			case bottomLit:
				ch, wantFg = BlockLowerHalf, bottom
			default:
				ch = BlockEmpty
			}

			if wantBg != nil {
				if !bgSet || bg != *wantBg {
					c.sgr(48, *wantBg)
					bg, bgSet = *wantBg, true
				}
			} else if bgSet {
				c.renderBuf.WriteString("\033[49m")
				bgSet = false
			}

			if ch != BlockEmpty && (!fgSet || fg != wantFg) {
				c.sgr(38, wantFg)
				fg, fgSet = wantFg, true
			}

			c.renderBuf.WriteRune(ch)
		}
	}
	c.renderBuf.WriteString("\033[0m")

	return writeChunks(w, c.renderBuf.String())
}

// sgr appends a truecolor select-graphic-rendition sequence. kind is 38 for
// foreground or 48 for background.
func (c *Canvas) sgr(kind int, col Color) {
	b := &c.renderBuf
	b.WriteString("\033[")
	b.Write(strconv.AppendInt(c.numBuf[:0], int64(kind), 10))
	b.WriteString(";2;")
	b.Write(strconv.AppendInt(c.numBuf[:0], int64(col.R), 10))
	b.WriteByte(';')
	b.Write(strconv.AppendInt(c.numBuf[:0], int64(col.G), 10))
	b.WriteByte(';')
	b.Write(strconv.AppendInt(c.numBuf[:0], int64(col.B), 10))
	b.WriteByte('m')
}
