package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/iburimskiy/constellation/internal/config"
	"github.com/iburimskiy/constellation/internal/starfield"
)

func newGame(t *testing.T) *Game {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Starfield.Seed = 42
	g, err := New(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	return g
}

func TestLayout_ForwardsResize(t *testing.T) {
	g := newGame(t)
	before := g.scene.Field.Particles()

	w, h := g.Layout(config.WindowWidth, config.WindowHeight)
	assert.Equal(t, config.WindowWidth, w)
	assert.Equal(t, config.WindowHeight, h)

	g.starsStale = false
	w, h = g.Layout(640, 360)
	assert.Equal(t, 640, w)
	assert.Equal(t, 360, h)
	assert.True(t, g.starsStale, "surface must be reallocated at the new size")
	assert.Equal(t, starfield.Viewport{Width: 640, Height: 360}, g.scene.Field.Viewport())
	assert.Equal(t, before, g.scene.Field.Particles())
}

func TestLayout_IgnoresMinimisedWindow(t *testing.T) {
	g := newGame(t)

	w, h := g.Layout(0, 0)
	assert.Equal(t, config.WindowWidth, w)
	assert.Equal(t, config.WindowHeight, h)
	assert.Equal(t, starfield.Viewport{Width: config.WindowWidth, Height: config.WindowHeight}, g.scene.Field.Viewport())
}

func TestAdvance_Pause(t *testing.T) {
	g := newGame(t)

	g.advance(time.Second / 60)
	assert.EqualValues(t, 1, g.scene.Field.Frames())

	g.togglePause()
	frozen := g.scene.Field.Particles()
	for i := 0; i < 10; i++ {
		g.advance(time.Second / 60)
	}
	assert.EqualValues(t, 1, g.scene.Field.Frames())
	assert.Equal(t, frozen, g.scene.Field.Particles())

	g.togglePause()
	g.advance(time.Second / 60)
	assert.EqualValues(t, 2, g.scene.Field.Frames())
	assert.Equal(t, 2*(time.Second/60), g.elapsed)
}

func TestStatus(t *testing.T) {
	g := newGame(t)
	g.elapsed = 75 * time.Second
	assert.Contains(t, g.status(), "stars 100")
	assert.Contains(t, g.status(), "up 01:15")

	g.togglePause()
	assert.Contains(t, g.status(), "paused")
}

func TestFrameTap(t *testing.T) {
	tap := newFrameTap(4)
	assert.Empty(t, tap.snapshot(10))
	assert.Zero(t, tap.average())

	tap.record(1 * time.Millisecond)
	tap.record(3 * time.Millisecond)
	assert.Equal(t, []time.Duration{time.Millisecond, 3 * time.Millisecond}, tap.snapshot(10))
	assert.Equal(t, 2*time.Millisecond, tap.average())

	for i := 4; i <= 8; i++ {
		tap.record(time.Duration(i) * time.Millisecond)
	}
	assert.Equal(t, []time.Duration{5 * time.Millisecond, 6 * time.Millisecond, 7 * time.Millisecond, 8 * time.Millisecond}, tap.snapshot(10))
	assert.Equal(t, []time.Duration{7 * time.Millisecond, 8 * time.Millisecond}, tap.snapshot(2))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "00:00", formatDuration(0))
	assert.Equal(t, "02:05", formatDuration(125*time.Second))
	assert.Equal(t, "61:01", formatDuration(61*time.Minute+time.Second))
}
