package terminal

import (
	"image/color"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/constellation/internal/starfield"
)

var blue = color.NRGBA{R: 96, G: 165, B: 250, A: 255}

func withAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}

func TestCanvas_Viewport(t *testing.T) {
	c := NewCanvas(10, 4, 8, 16)
	assert.Equal(t, starfield.Viewport{Width: 80, Height: 64}, c.Viewport())

	c.Resize(20, 5)
	assert.Equal(t, starfield.Viewport{Width: 160, Height: 80}, c.Viewport())
}

func TestCanvas_FillCircle(t *testing.T) {
	c := NewCanvas(10, 4, 8, 16)
	c.FillCircle(17, 33, 1, withAlpha(blue, 204))

	g, a := c.At(2, 2)
	assert.Equal(t, starGlyph, g)
	assert.InDelta(t, 0.8, a, 1e-9)

	// Off-canvas draws are dropped.
	c.FillCircle(-5, 0, 1, blue)
	c.FillCircle(80, 0, 1, blue)
	g, _ = c.At(0, 0)
	assert.Zero(t, g)
}

func TestCanvas_StrokeLine(t *testing.T) {
	c := NewCanvas(10, 4, 8, 16)
	c.FillCircle(0, 0, 1, blue)
	c.StrokeLine(0, 0, 40, 0, 0.5, withAlpha(blue, 51))

	g, _ := c.At(0, 0)
	assert.Equal(t, starGlyph, g, "lines never replace stars")
	for col := 1; col <= 5; col++ {
		g, a := c.At(col, 0)
		assert.Equal(t, lineGlyph, g, "col %d", col)
		assert.InDelta(t, 0.2, a, 1e-9)
	}
	g, _ = c.At(6, 0)
	assert.Zero(t, g)

	// A weaker crossing line keeps the stronger alpha.
	c.StrokeLine(24, 0, 24, 48, 0.5, withAlpha(blue, 10))
	_, a := c.At(3, 0)
	assert.InDelta(t, 0.2, a, 1e-9)
	g, _ = c.At(3, 3)
	assert.Equal(t, lineGlyph, g)
}

func TestCanvas_StrokeLineDiagonal(t *testing.T) {
	c := NewCanvas(10, 10, 1, 1)
	c.StrokeLine(9, 9, 0, 0, 1, blue)
	for i := 0; i < 10; i++ {
		g, _ := c.At(i, i)
		assert.Equal(t, lineGlyph, g, "cell %d", i)
	}
}

func TestCanvas_Clear(t *testing.T) {
	c := NewCanvas(3, 3, 1, 1)
	c.FillCircle(1, 1, 1, blue)
	c.Clear()
	g, a := c.At(1, 1)
	assert.Zero(t, g)
	assert.Zero(t, a)
}

func TestCompose(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(4, 2)

	bg := color.NRGBA{R: 15, G: 23, B: 42, A: 255}
	under := NewCanvas(4, 2, 1, 1)
	over := NewCanvas(4, 2, 1, 1)
	under.FillCircle(0, 0, 1, blue)
	over.FillCircle(1, 0, 1, withAlpha(blue, 255))

	Compose(screen, bg, []*Canvas{under, over}, []float64{1, 0.5})
	screen.Show()

	r, _, style, _ := screen.GetContent(0, 0)
	assert.Equal(t, starGlyph, r)
	fg, bgc, _ := style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(96, 165, 250), fg)
	assert.Equal(t, tcell.NewRGBColor(15, 23, 42), bgc)

	r, _, style, _ = screen.GetContent(1, 0)
	assert.Equal(t, starGlyph, r)
	fg, _, _ = style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(56, 94, 146), fg, "half way between background and star color")

	r, _, _, _ = screen.GetContent(3, 1)
	assert.Equal(t, ' ', r)
}
