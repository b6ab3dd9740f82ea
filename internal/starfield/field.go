// Package starfield animates the constellation: a fixed set of drifting stars
// that wrap at the viewport edges and are joined by lines when close.
package starfield

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

const (
	DefaultCount    = 100
	DefaultMaxSpeed = 0.25
)

var ErrInvalidViewport = errors.New("viewport must have positive width and height")

// Link is a connection drawn between stars A and B (A < B).
type Link struct {
	A, B     int
	Distance float64
	Alpha    float64
}

// Field owns the star set and the viewport it lives in. It is not safe for
// concurrent use; drive it from a single goroutine.
type Field struct {
	viewport  Viewport
	particles []Particle
	style     Style
	frames    uint64
	links     []Link
}

type options struct {
	count    int
	maxSpeed float64
	rng      *rand.Rand
	style    Style
}

// Option customises New.
type Option func(*options)

// WithCount sets the number of stars.
func WithCount(n int) Option {
	return func(o *options) { o.count = n }
}

// WithMaxSpeed bounds each velocity component to [-s, s).
func WithMaxSpeed(s float64) Option {
	return func(o *options) { o.maxSpeed = s }
}

// WithSeed makes star placement reproducible.
func WithSeed(seed int64) Option {
	return func(o *options) { o.rng = rand.New(rand.NewSource(seed)) }
}

// WithRand uses r for star placement.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithStyle overrides DefaultStyle.
func WithStyle(s Style) Option {
	return func(o *options) { o.style = s }
}

// New allocates the star set once, uniformly placed in vp.
func New(vp Viewport, opts ...Option) (*Field, error) {
	if !vp.valid() {
		return nil, fmt.Errorf("%w: got %vx%v", ErrInvalidViewport, vp.Width, vp.Height)
	}

	o := options{
		count:    DefaultCount,
		maxSpeed: DefaultMaxSpeed,
		style:    DefaultStyle(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.count < 0 {
		return nil, fmt.Errorf("star count must not be negative: %d", o.count)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	f := &Field{
		viewport:  vp,
		particles: make([]Particle, o.count),
		style:     o.style,
	}
	for i := range f.particles {
		f.particles[i] = Particle{
			X:  o.rng.Float64() * vp.Width,
			Y:  o.rng.Float64() * vp.Height,
			VX: (o.rng.Float64()*2 - 1) * o.maxSpeed,
			VY: (o.rng.Float64()*2 - 1) * o.maxSpeed,
		}
	}
	return f, nil
}

// Viewport returns the current surface size.
func (f *Field) Viewport() Viewport { return f.viewport }

// Frames returns how many steps have run.
func (f *Field) Frames() uint64 { return f.frames }

// Particles returns a copy of the star set.
func (f *Field) Particles() []Particle {
	out := make([]Particle, len(f.particles))
	copy(out, f.particles)
	return out
}

// SetParticles replaces the star set, e.g. to lay out a fixed scene.
func (f *Field) SetParticles(ps []Particle) {
	f.particles = append(f.particles[:0:0], ps...)
}

// Resize sets the viewport exactly. Stars are not moved; any left outside the
// new bounds are pulled back by the next Step.
func (f *Field) Resize(vp Viewport) error {
	if !vp.valid() {
		return fmt.Errorf("%w: got %vx%v", ErrInvalidViewport, vp.Width, vp.Height)
	}
	f.viewport = vp
	return nil
}

// Step advances every star by one frame.
func (f *Field) Step() {
	for i := range f.particles {
		f.particles[i].advance(f.viewport)
	}
	f.frames++
}

// Links returns every pair closer than the style's link distance.
// The scan is O(n²) over the star set.
func (f *Field) Links() []Link {
	return appendLinks(nil, f.particles, f.style.LinkDistance, f.style.LinkAlpha)
}

func appendLinks(dst []Link, ps []Particle, maxDist, maxAlpha float64) []Link {
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			d := math.Hypot(ps[i].X-ps[j].X, ps[i].Y-ps[j].Y)
			if d < maxDist {
				dst = append(dst, Link{A: i, B: j, Distance: d, Alpha: LinkAlpha(d, maxDist, maxAlpha)})
			}
		}
	}
	return dst
}

// LinkAlpha fades a link linearly from maxAlpha at distance 0 to nothing at maxDist.
func LinkAlpha(d, maxDist, maxAlpha float64) float64 {
	if d >= maxDist {
		return 0
	}
	return maxAlpha * (1 - d/maxDist)
}

// Draw clears s and paints the stars, then the links between them.
func (f *Field) Draw(s Surface) {
	s.Clear()

	st := f.style
	starColor := st.tint(f.frames, st.StarAlpha)
	for _, p := range f.particles {
		s.FillCircle(p.X, p.Y, st.StarRadius, starColor)
	}

	f.links = appendLinks(f.links[:0], f.particles, st.LinkDistance, st.LinkAlpha)
	for _, l := range f.links {
		a, b := f.particles[l.A], f.particles[l.B]
		s.StrokeLine(a.X, a.Y, b.X, b.Y, st.LineWidth, st.tint(f.frames, l.Alpha))
	}
}

// Frame is one display refresh: Step then Draw.
func (f *Field) Frame(s Surface) {
	f.Step()
	f.Draw(s)
}

// LinkCount returns the number of links painted by the last Draw.
func (f *Field) LinkCount() int { return len(f.links) }
