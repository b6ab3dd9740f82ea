package terminal

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iburimskiy/constellation/internal/config"
	"github.com/iburimskiy/constellation/internal/scene"
	"github.com/iburimskiy/constellation/internal/starfield"
)

// FrameInterval is the terminal refresh period (~60 FPS).
const FrameInterval = 16 * time.Millisecond

// Gain boosts layer alpha so faint links remain visible at cell resolution.
const Gain = 4.0

type size struct{ cols, rows int }

// Host drives a scene on a tcell screen.
type Host struct {
	screen tcell.Screen
	cfg    *config.Config
	logger *zap.Logger

	scene  *scene.Scene
	under  *Canvas
	stars  *Canvas
	runner starfield.Runner

	resizes chan size
}

// NewHost sizes a scene to the screen. The screen must already be initialised.
func NewHost(screen tcell.Screen, cfg *config.Config, logger *zap.Logger) (*Host, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cols, rows := screen.Size()
	h := &Host{
		screen:  screen,
		cfg:     cfg,
		logger:  logger,
		under:   NewCanvas(cols, rows, config.CellWidth, config.CellHeight),
		stars:   NewCanvas(cols, rows, config.CellWidth, config.CellHeight),
		resizes: make(chan size, 1),
	}

	sc, err := scene.New(cfg, h.stars.Viewport(), logger)
	if err != nil {
		return nil, err
	}
	h.scene = sc
	return h, nil
}

// Scene exposes the hosted scene.
func (h *Host) Scene() *scene.Scene { return h.scene }

// Running reports whether frames are being produced (false while paused).
func (h *Host) Running() bool { return h.runner.Running() }

// Run blocks until ctx is cancelled or the user quits with Esc, q or Ctrl-C.
// Space pauses and resumes the animation.
func (h *Host) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := h.start(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-gctx.Done()
		h.runner.Stop()
		// Wake PollEvent so the event loop can observe cancellation.
		_ = h.screen.PostEvent(tcell.NewEventInterrupt(nil))
		return nil
	})

	g.Go(func() error {
		defer cancel()
		return h.events(gctx)
	})

	err := g.Wait()
	// A resume can slip in between the events check and the stop above.
	h.runner.Stop()
	h.runner.Wait()
	h.logger.Info("terminal host stopped", zap.Uint64("frames", h.scene.Field.Frames()))
	return err
}

func (h *Host) start(ctx context.Context) error {
	err := h.runner.Start(ctx, FrameInterval, h.frame)
	if err == nil || ctx.Err() != nil {
		return nil
	}
	return fmt.Errorf("start frames: %w", err)
}

func (h *Host) events(ctx context.Context) error {
	for {
		ev := h.screen.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return nil
		}

		switch ev := ev.(type) {
		case *tcell.EventResize:
			cols, rows := ev.Size()
			// Keep only the latest size.
			select {
			case <-h.resizes:
			default:
			}
			h.resizes <- size{cols, rows}
			h.screen.Sync()

		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC,
				ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
				h.logger.Debug("quit requested")
				return nil
			case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
				if h.runner.Running() {
					h.runner.Stop()
					h.runner.Wait()
					h.logger.Debug("paused")
				} else if err := h.start(ctx); err != nil {
					return err
				}
			}
		}
	}
}

// frame runs on the runner goroutine; it is the only code touching the scene
// and canvases once Run has started.
func (h *Host) frame() {
	select {
	case sz := <-h.resizes:
		h.resize(sz)
	default:
	}

	h.scene.Step(FrameInterval)
	h.under.Clear()
	h.scene.Draw(h.under, h.stars)

	Compose(h.screen, h.scene.Background, []*Canvas{h.under, h.stars}, []float64{Gain, h.scene.Opacity * Gain})
	h.screen.Show()
}

func (h *Host) resize(sz size) {
	h.under.Resize(sz.cols, sz.rows)
	h.stars.Resize(sz.cols, sz.rows)
	h.scene.Resize(h.stars.Viewport())
	h.screen.Clear()
}

// Run opens the real terminal and hosts the scene until the user quits.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	screen.HideCursor()

	h, err := NewHost(screen, cfg, logger)
	if err != nil {
		return err
	}
	return h.Run(ctx)
}
