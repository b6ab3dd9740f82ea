// Package drift renders the floating particle layer: small dots that rise from
// below the viewport to above it, fading in and out, each on its own loop.
package drift

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"
	"time"

	"github.com/iburimskiy/constellation/internal/starfield"
)

// Drifter is one floating particle. Left and Top are fractions of the viewport.
type Drifter struct {
	Left, Top float64
	Duration  time.Duration
	Elapsed   time.Duration
}

// Progress is the position in the current loop, in [0,1).
func (d Drifter) Progress() float64 {
	if d.Duration <= 0 {
		return 0
	}
	return float64(d.Elapsed%d.Duration) / float64(d.Duration)
}

// Config controls a Layer.
type Config struct {
	Count       int
	MinDuration time.Duration
	MaxDuration time.Duration
	MaxSway     float64 // horizontal travel over a loop is drawn from [-MaxSway, MaxSway)
	Radius      float64
	Color       color.NRGBA // alpha is the fully faded-in opacity
}

// DefaultConfig mirrors the page: 50 dots, 10-30s loops, rgba(96,165,250,0.6).
func DefaultConfig() Config {
	return Config{
		Count:       50,
		MinDuration: 10 * time.Second,
		MaxDuration: 30 * time.Second,
		MaxSway:     100,
		Radius:      1,
		Color:       color.NRGBA{R: 96, G: 165, B: 250, A: 153},
	}
}

// Layer owns the drifters and the viewport they travel across.
type Layer struct {
	cfg      Config
	viewport starfield.Viewport
	sway     float64
	drifters []Drifter
}

// New places cfg.Count drifters at random. One sway offset is shared by the
// whole layer.
func New(vp starfield.Viewport, cfg Config, rng *rand.Rand) (*Layer, error) {
	if vp.Width <= 0 || vp.Height <= 0 {
		return nil, fmt.Errorf("%w: got %vx%v", starfield.ErrInvalidViewport, vp.Width, vp.Height)
	}
	if cfg.MinDuration <= 0 || cfg.MaxDuration < cfg.MinDuration {
		return nil, fmt.Errorf("drift durations must satisfy 0 < min <= max, got %v..%v", cfg.MinDuration, cfg.MaxDuration)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	l := &Layer{
		cfg:      cfg,
		viewport: vp,
		sway:     (rng.Float64()*2 - 1) * cfg.MaxSway,
		drifters: make([]Drifter, cfg.Count),
	}
	span := cfg.MaxDuration - cfg.MinDuration
	for i := range l.drifters {
		l.drifters[i] = Drifter{
			Left:     rng.Float64(),
			Top:      rng.Float64(),
			Duration: cfg.MinDuration + time.Duration(rng.Float64()*float64(span)),
		}
	}
	return l, nil
}

// Drifters returns a copy of the particle set.
func (l *Layer) Drifters() []Drifter {
	out := make([]Drifter, len(l.drifters))
	copy(out, l.drifters)
	return out
}

// SetDrifters replaces the particle set.
func (l *Layer) SetDrifters(ds []Drifter) {
	l.drifters = append(l.drifters[:0:0], ds...)
}

// Sway is the horizontal offset reached at the end of a loop.
func (l *Layer) Sway() float64 { return l.sway }

// Resize follows the viewport; positions are relative so nothing else changes.
func (l *Layer) Resize(vp starfield.Viewport) error {
	if vp.Width <= 0 || vp.Height <= 0 {
		return fmt.Errorf("%w: got %vx%v", starfield.ErrInvalidViewport, vp.Width, vp.Height)
	}
	l.viewport = vp
	return nil
}

// Advance moves every drifter dt further through its loop.
func (l *Layer) Advance(dt time.Duration) {
	for i := range l.drifters {
		d := &l.drifters[i]
		d.Elapsed += dt
		if d.Duration > 0 {
			d.Elapsed %= d.Duration
		}
	}
}

// Position returns where d is drawn at its current progress.
func (l *Layer) Position(d Drifter) (x, y float64) {
	t := d.Progress()
	x = d.Left*l.viewport.Width + l.sway*t
	y = d.Top*l.viewport.Height + l.viewport.Height*(1-2*t)
	return x, y
}

// Opacity is the fade envelope: 0 at the start and end of a loop, 1 between 10% and 90%.
func Opacity(t float64) float64 {
	switch {
	case t <= 0 || t >= 1:
		return 0
	case t < 0.1:
		return t / 0.1
	case t > 0.9:
		return (1 - t) / 0.1
	}
	return 1
}

// Draw paints the visible drifters without clearing s, so the layer can be
// composed with others.
func (l *Layer) Draw(s starfield.Surface) {
	for _, d := range l.drifters {
		a := Opacity(d.Progress())
		if a == 0 {
			continue
		}
		c := l.cfg.Color
		c.A = uint8(math.Round(float64(c.A) * a))
		if c.A == 0 {
			continue
		}
		x, y := l.Position(d)
		if x < -l.cfg.Radius || x > l.viewport.Width+l.cfg.Radius ||
			y < -l.cfg.Radius || y > l.viewport.Height+l.cfg.Radius {
			continue
		}
		s.FillCircle(x, y, l.cfg.Radius, c)
	}
}
