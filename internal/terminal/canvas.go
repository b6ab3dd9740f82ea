// Package terminal renders the scene into a character-cell screen. Each cell
// stands for a block of virtual pixels so the same geometry works in a window
// and in a terminal.
package terminal

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/constellation/internal/starfield"
)

const (
	starGlyph = '•'
	lineGlyph = '·'
)

type cell struct {
	glyph rune
	color color.NRGBA
	alpha float64
}

// Canvas is a starfield.Surface backed by a grid of cells.
type Canvas struct {
	cols, rows int
	cellW      float64
	cellH      float64
	cells      []cell
}

// NewCanvas creates a cols x rows canvas where each cell covers cellW x cellH pixels.
func NewCanvas(cols, rows int, cellW, cellH float64) *Canvas {
	c := &Canvas{cellW: cellW, cellH: cellH}
	c.Resize(cols, rows)
	return c
}

// Resize reallocates the grid; contents are discarded.
func (c *Canvas) Resize(cols, rows int) {
	c.cols, c.rows = max(cols, 0), max(rows, 0)
	c.cells = make([]cell, c.cols*c.rows)
}

// Viewport is the pixel size the canvas represents.
func (c *Canvas) Viewport() starfield.Viewport {
	return starfield.Viewport{Width: float64(c.cols) * c.cellW, Height: float64(c.rows) * c.cellH}
}

// At returns the glyph and strength at a cell, or 0 when empty.
func (c *Canvas) At(col, row int) (rune, float64) {
	i, ok := c.index(col, row)
	if !ok {
		return 0, 0
	}
	return c.cells[i].glyph, c.cells[i].alpha
}

func (c *Canvas) index(col, row int) (int, bool) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return 0, false
	}
	return row*c.cols + col, true
}

func (c *Canvas) toCell(x, y float64) (int, int) {
	return int(math.Floor(x / c.cellW)), int(math.Floor(y / c.cellH))
}

func (c *Canvas) Clear() {
	clear(c.cells)
}

func (c *Canvas) FillCircle(x, y, _ float64, col color.Color) {
	i, ok := c.index(c.toCell(x, y))
	if !ok {
		return
	}
	nc := color.NRGBAModel.Convert(col).(color.NRGBA)
	a := float64(nc.A) / 255
	cur := &c.cells[i]
	if cur.glyph != starGlyph || a > cur.alpha {
		*cur = cell{glyph: starGlyph, color: nc, alpha: a}
	}
}

// StrokeLine rasterises the segment with Bresenham. Stars are never
// overwritten by lines; overlapping lines keep the strongest alpha.
func (c *Canvas) StrokeLine(x0, y0, x1, y1, _ float64, col color.Color) {
	nc := color.NRGBAModel.Convert(col).(color.NRGBA)
	a := float64(nc.A) / 255

	cx, cy := c.toCell(x0, y0)
	ex, ey := c.toCell(x1, y1)
	dx, dy := abs(ex-cx), -abs(ey-cy)
	sx, sy := sign(ex-cx), sign(ey-cy)
	e := dx + dy

	for {
		if i, ok := c.index(cx, cy); ok {
			cur := &c.cells[i]
			if cur.glyph != starGlyph && a > cur.alpha {
				*cur = cell{glyph: lineGlyph, color: nc, alpha: a}
			}
		}
		if cx == ex && cy == ey {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			cx += sx
		}
		if e2 <= dx {
			e += dx
			cy += sy
		}
	}
}

// Compose writes layers (bottom first) onto screen over bg. Each layer's
// alpha is multiplied by its weight before blending.
func Compose(screen tcell.Screen, bg color.NRGBA, layers []*Canvas, weights []float64) {
	bgStyle := tcell.StyleDefault.Background(rgb(bg))
	cols, rows := 0, 0
	for _, l := range layers {
		cols, rows = max(cols, l.cols), max(rows, l.rows)
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			glyph := ' '
			fg := bg
			for li, l := range layers {
				i, ok := l.index(col, row)
				if !ok || l.cells[i].glyph == 0 {
					continue
				}
				cl := l.cells[i]
				glyph = cl.glyph
				fg = blend(fg, cl.color, cl.alpha*weights[li])
			}
			screen.SetContent(col, row, glyph, nil, bgStyle.Foreground(rgb(fg)))
		}
	}
}

func blend(under, over color.NRGBA, a float64) color.NRGBA {
	a = math.Max(0, math.Min(1, a))
	mix := func(u, o uint8) uint8 {
		return uint8(math.Round(float64(u) + (float64(o)-float64(u))*a))
	}
	return color.NRGBA{R: mix(under.R, over.R), G: mix(under.G, over.G), B: mix(under.B, over.B), A: 255}
}

func rgb(c color.NRGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
