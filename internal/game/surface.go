package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// imageSurface draws onto an ebiten image.
type imageSurface struct {
	img *ebiten.Image
}

func (s imageSurface) Clear() { s.img.Clear() }

func (s imageSurface) FillCircle(x, y, r float64, c color.Color) {
	vector.DrawFilledCircle(s.img, float32(x), float32(y), float32(r), c, true)
}

func (s imageSurface) StrokeLine(x0, y0, x1, y1, width float64, c color.Color) {
	vector.StrokeLine(s.img, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), c, true)
}
