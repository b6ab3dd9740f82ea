package starfield

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Style controls how stars and links are painted.
type Style struct {
	Color        color.NRGBA // alpha channel ignored; see StarAlpha
	StarAlpha    float64
	StarRadius   float64
	LinkDistance float64
	LinkAlpha    float64 // alpha of a zero-length link
	LineWidth    float64
	HueShift     float64 // degrees per frame
}

// DefaultStyle matches the page: rgba(96,165,250) stars at 0.8, 100px links up to 0.2.
func DefaultStyle() Style {
	return Style{
		Color:        color.NRGBA{R: 96, G: 165, B: 250, A: 255},
		StarAlpha:    0.8,
		StarRadius:   1,
		LinkDistance: 100,
		LinkAlpha:    0.2,
		LineWidth:    0.5,
	}
}

// tint returns the style color rotated by frame*HueShift degrees with alpha a.
func (s Style) tint(frame uint64, a float64) color.NRGBA {
	c := s.Color
	if s.HueShift != 0 {
		base := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
		h, sat, v := base.Hsv()
		h = math.Mod(h+s.HueShift*float64(frame), 360)
		if h < 0 {
			h += 360
		}
		c.R, c.G, c.B = colorful.Hsv(h, sat, v).Clamped().RGB255()
	}
	c.A = uint8(clamp01(a)*255 + 0.5)
	return c
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
