// Package scene builds the page background from configuration: the
// constellation field and, when enabled, the floating particle layer.
package scene

import (
	"fmt"
	"image/color"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/iburimskiy/constellation/internal/config"
	"github.com/iburimskiy/constellation/internal/drift"
	"github.com/iburimskiy/constellation/internal/starfield"
)

// Scene is both background layers sharing one viewport.
type Scene struct {
	Field      *starfield.Field
	Drift      *drift.Layer // nil when disabled
	Background color.NRGBA
	Opacity    float64 // constellation layer opacity

	logger *zap.Logger
}

// New builds a scene sized to vp.
func New(cfg *config.Config, vp starfield.Viewport, logger *zap.Logger) (*Scene, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	seed := cfg.Starfield.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	bg, err := config.ParseColor(cfg.Background, 1)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	starColor, err := config.ParseColor(cfg.Starfield.Color, 1)
	if err != nil {
		return nil, fmt.Errorf("starfield color: %w", err)
	}

	sc := cfg.Starfield
	field, err := starfield.New(vp,
		starfield.WithRand(rng),
		starfield.WithCount(sc.Count),
		starfield.WithMaxSpeed(sc.MaxSpeed),
		starfield.WithStyle(starfield.Style{
			Color:        starColor,
			StarAlpha:    sc.StarAlpha,
			StarRadius:   sc.StarRadius,
			LinkDistance: sc.LinkDistance,
			LinkAlpha:    sc.LinkAlpha,
			LineWidth:    sc.LineWidth,
			HueShift:     sc.HueShift,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create starfield: %w", err)
	}

	s := &Scene{
		Field:      field,
		Background: bg,
		Opacity:    sc.Opacity,
		logger:     logger,
	}

	if dc := cfg.Drift; dc.Enabled {
		driftColor, err := config.ParseColor(dc.Color, dc.Alpha)
		if err != nil {
			return nil, fmt.Errorf("drift color: %w", err)
		}
		s.Drift, err = drift.New(vp, drift.Config{
			Count:       dc.Count,
			MinDuration: dc.MinDuration,
			MaxDuration: dc.MaxDuration,
			MaxSway:     dc.MaxSway,
			Radius:      dc.Radius,
			Color:       driftColor,
		}, rng)
		if err != nil {
			return nil, fmt.Errorf("failed to create drift layer: %w", err)
		}
	}

	logger.Info("scene created",
		zap.Int("stars", sc.Count),
		zap.Bool("drift", s.Drift != nil),
		zap.Float64("width", vp.Width),
		zap.Float64("height", vp.Height),
		zap.Int64("seed", seed),
	)
	return s, nil
}

// Resize forwards a new viewport to every layer. Non-positive sizes are
// ignored (a minimised window reports 0x0).
func (s *Scene) Resize(vp starfield.Viewport) bool {
	if vp == s.Field.Viewport() {
		return false
	}
	if err := s.Field.Resize(vp); err != nil {
		s.logger.Debug("resize ignored", zap.Error(err))
		return false
	}
	if s.Drift != nil {
		// Field.Resize accepted vp, so this cannot fail.
		_ = s.Drift.Resize(vp)
	}
	s.logger.Debug("viewport resized", zap.Float64("width", vp.Width), zap.Float64("height", vp.Height))
	return true
}

// Step advances both layers by one frame of dt.
func (s *Scene) Step(dt time.Duration) {
	s.Field.Step()
	if s.Drift != nil {
		s.Drift.Advance(dt)
	}
}

// Draw paints the drift layer onto under (without clearing it) and the
// constellation onto stars. Hosts composite stars over under at Opacity.
func (s *Scene) Draw(under, stars starfield.Surface) {
	if s.Drift != nil {
		s.Drift.Draw(under)
	}
	s.Field.Draw(stars)
}
