package draw

import (
	"io"
	"strconv"
	"strings"
)

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
	BlockEmpty     = ' '
)

// cell is what one terminal character shows: the colors of its two pixels.
type cell struct {
	top, bottom Color
}

// Canvas is a pixel buffer with 2x vertical resolution using half-block
// characters, so one pixel is roughly square on screen. Render only emits
// terminal cells that changed since the previous Render.
type Canvas struct {
	width  int     // Pixels per row == terminal columns
	height int     // Pixel rows == 2 * terminal rows
	pixels []Color // Flat slice: [y * width + x]
	drawn  []cell  // What the terminal currently shows, per terminal cell
	fresh  bool    // drawn is unknown; repaint everything

	// 0-based terminal offset of the top-left pixel.
	offsetCol int
	offsetRow int

	renderBuf strings.Builder
}

// NewCanvas creates a canvas of width x height pixels.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Resize reallocates the canvas when its pixel size changes.
func (c *Canvas) Resize(width, height int) {
	if width == c.width && height == c.height && c.pixels != nil {
		return
	}
	c.width = width
	c.height = height
	c.pixels = make([]Color, width*height)
	c.drawn = make([]cell, width*c.TerminalHeight())
	c.fresh = true
}

// SetOffset sets the column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.fresh = true
	}
	c.offsetCol = col
	c.offsetRow = row
}

// ForceRedraw makes the next Render repaint every cell, e.g. after the
// screen was cleared.
func (c *Canvas) ForceRedraw() {
	c.fresh = true
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// Set colors the pixel at (x, y). Out-of-range pixels are ignored.
func (c *Canvas) Set(x, y int, color Color) {
	if x >= 0 && x < c.width && y >= 0 && y < c.height {
		c.pixels[y*c.width+x] = color
	}
}

// At returns the color of the pixel at (x, y).
func (c *Canvas) At(x, y int) Color {
	if x >= 0 && x < c.width && y >= 0 && y < c.height {
		return c.pixels[y*c.width+x]
	}
	return ColorNone
}

// TerminalHeight returns the number of terminal rows the canvas covers.
func (c *Canvas) TerminalHeight() int {
	return (c.height + 1) / 2
}

// Render writes the changed terminal cells to w.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()
	var num [20]byte

	rows := c.TerminalHeight()
	for row := 0; row < rows; row++ {
		topY := row * 2
		bottomY := topY + 1
		for col := 0; col < c.width; col++ {
			want := cell{top: c.pixels[topY*c.width+col]}
			if bottomY < c.height {
				want.bottom = c.pixels[bottomY*c.width+col]
			}

			idx := row*c.width + col
			if !c.fresh && c.drawn[idx] == want {
				continue
			}
			c.drawn[idx] = want

			c.renderBuf.WriteString("\033[")
			c.renderBuf.Write(strconv.AppendInt(num[:0], int64(row+1+c.offsetRow), 10))
			c.renderBuf.WriteByte(';')
			c.renderBuf.Write(strconv.AppendInt(num[:0], int64(col+1+c.offsetCol), 10))
			c.renderBuf.WriteByte('H')
			writeCell(&c.renderBuf, want)
		}
	}
	c.fresh = false

	io.WriteString(w, c.renderBuf.String())
}

// writeCell emits the glyph and colors for one terminal cell.
func writeCell(b *strings.Builder, cl cell) {
	switch {
	case cl.top == ColorNone && cl.bottom == ColorNone:
		b.WriteRune(BlockEmpty)
		return
	case cl.top == cl.bottom:
		b.WriteString(cl.top.Foreground())
		b.WriteRune(BlockFull)
	case cl.bottom == ColorNone:
		b.WriteString(cl.top.Foreground())
		b.WriteRune(BlockUpperHalf)
	case cl.top == ColorNone:
		b.WriteString(cl.bottom.Foreground())
		b.WriteRune(BlockLowerHalf)
	default:
		b.WriteString(cl.top.Foreground())
		b.WriteString(cl.bottom.Background())
		b.WriteRune(BlockUpperHalf)
	}
	b.WriteString(ColorReset)
}

// RenderBorder draws a box one cell outside the canvas. It needs an offset
// of at least one column and one row.
func (c *Canvas) RenderBorder(w io.Writer, color Color) {
	if c.offsetCol < 1 || c.offsetRow < 1 {
		return
	}
	left := c.offsetCol
	right := c.offsetCol + c.width + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.TerminalHeight() + 1
	line := strings.Repeat("─", c.width)

	var b strings.Builder
	b.WriteString(color.Foreground())
	moveTo(&b, left, top)
	b.WriteString("┌" + line + "┐")
	moveTo(&b, left, bottom)
	b.WriteString("└" + line + "┘")
	for row := top + 1; row < bottom; row++ {
		moveTo(&b, left, row)
		b.WriteString("│")
		moveTo(&b, right, row)
		b.WriteString("│")
	}
	b.WriteString(ColorReset)

	io.WriteString(w, b.String())
}

func moveTo(b *strings.Builder, col, row int) {
	b.WriteString("\033[")
	b.WriteString(strconv.Itoa(row))
	b.WriteByte(';')
	b.WriteString(strconv.Itoa(col))
	b.WriteByte('H')
}
