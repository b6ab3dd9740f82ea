package starfield

import "math"

// Particle is a star with position in viewport pixels and velocity in pixels per frame.
type Particle struct {
	X, Y   float64
	VX, VY float64
}

// Viewport is the pixel size of the drawing surface.
type Viewport struct {
	Width, Height float64
}

func (v Viewport) valid() bool {
	return v.Width > 0 && v.Height > 0
}

// Contains reports whether (x, y) lies in [0,Width) x [0,Height).
func (v Viewport) Contains(x, y float64) bool {
	return x >= 0 && x < v.Width && y >= 0 && y < v.Height
}

// advance moves p by one frame of velocity and wraps it into vp.
func (p *Particle) advance(vp Viewport) {
	p.X = wrap(p.X+p.VX, vp.Width)
	p.Y = wrap(p.Y+p.VY, vp.Height)
}

// wrap resets v to the opposite edge when it leaves [0, extent).
// This is a hard reset, not a modulo: overshoot is discarded.
func wrap(v, extent float64) float64 {
	switch {
	case v < 0:
		return math.Nextafter(extent, 0)
	case v >= extent:
		return 0
	}
	return v
}
