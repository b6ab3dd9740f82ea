package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/iburimskiy/constellation/internal/config"
	"github.com/iburimskiy/constellation/internal/scene"
	"github.com/iburimskiy/constellation/internal/starfield"
)

// Game hosts the scene in an ebiten window. The window is resizable and the
// scene always covers all of it.
type Game struct {
	scene  *scene.Scene
	logger *zap.Logger

	// offscreen constellation layer, composited at scene opacity
	stars       *ebiten.Image
	starsStale  bool
	width       int
	height      int
	composeOpts ebiten.DrawImageOptions

	tap     *frameTap
	elapsed time.Duration

	// state
	paused bool
	debug  bool
}

// New creates a game whose scene starts at the configured window size.
func New(cfg *config.Config, logger *zap.Logger) (*Game, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	vp := starfield.Viewport{Width: float64(cfg.Window.Width), Height: float64(cfg.Window.Height)}
	sc, err := scene.New(cfg, vp, logger)
	if err != nil {
		return nil, err
	}

	g := &Game{
		scene:      sc,
		logger:     logger,
		width:      cfg.Window.Width,
		height:     cfg.Window.Height,
		starsStale: true,
		tap:        newFrameTap(config.FrameRingSize),
	}
	g.composeOpts.ColorScale.ScaleAlpha(float32(sc.Opacity))
	return g, nil
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.togglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.debug = !g.debug
	}

	g.advance(time.Second / time.Duration(ebiten.TPS()))
	return nil
}

// advance runs one simulation tick unless paused.
func (g *Game) advance(dt time.Duration) {
	if g.paused {
		return
	}
	g.elapsed += dt
	g.scene.Step(dt)
}

func (g *Game) togglePause() {
	g.paused = !g.paused
	g.logger.Debug("pause toggled", zap.Bool("paused", g.paused))
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.starsStale || g.stars == nil {
		if g.stars != nil {
			g.stars.Deallocate()
		}
		g.stars = ebiten.NewImage(g.width, g.height)
		g.starsStale = false
	}

	screen.Fill(g.scene.Background)

	start := time.Now()
	g.scene.Draw(imageSurface{img: screen}, imageSurface{img: g.stars})
	g.tap.record(time.Since(start))

	screen.DrawImage(g.stars, &g.composeOpts)

	if g.debug {
		ebitenutil.DebugPrintAt(screen, g.status(), 12, 12)
	}
}

func (g *Game) status() string {
	state := "running"
	if g.paused {
		state = "paused"
	}
	return fmt.Sprintf("%s | stars %d | links %d | draw %v | up %s",
		state,
		len(g.scene.Field.Particles()),
		g.scene.Field.LinkCount(),
		g.tap.average().Round(time.Microsecond),
		formatDuration(g.elapsed),
	)
}

// Layout tracks the outside size so the surface always matches the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		vp := starfield.Viewport{Width: float64(outsideWidth), Height: float64(outsideHeight)}
		if g.scene.Resize(vp) {
			g.width, g.height = outsideWidth, outsideHeight
			g.starsStale = true
		}
	}
	return g.width, g.height
}

// Run opens the window and blocks until it is closed or the user quits.
func Run(cfg *config.Config, logger *zap.Logger) error {
	g, err := New(cfg, logger)
	if err != nil {
		return err
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run game: %w", err)
	}
	g.logger.Info("window closed", zap.Duration("uptime", g.elapsed))
	return nil
}
