package starfield

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrAlreadyRunning  = errors.New("runner already running")
	ErrInvalidInterval = errors.New("frame interval must be positive")
)

// Runner calls a frame function on a fixed interval until stopped. It
// replaces an open-ended self-rescheduling callback with a loop whose state
// can be observed and ended.
type Runner struct {
	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	frames  uint64
}

// Start launches the loop. frame runs on the loop goroutine only.
// A cancelled ctx is reported as its error without starting anything.
func (r *Runner) Start(ctx context.Context, interval time.Duration, frame func()) error {
	if interval <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidInterval, interval)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return ErrAlreadyRunning
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	r.running = true
	r.cancel = cancel
	r.done = make(chan struct{})

	go r.loop(ctx, interval, frame, r.done)
	return nil
}

func (r *Runner) loop(ctx context.Context, interval time.Duration, frame func(), done chan struct{}) {
	ticker := time.NewTicker(interval)
	defer func() {
		ticker.Stop()
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
		close(done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Stop may have landed while the tick was pending.
			if ctx.Err() != nil {
				return
			}
			frame()
			r.mu.Lock()
			r.frames++
			r.mu.Unlock()
		}
	}
}

// Stop suppresses further frames without waiting; a frame already in
// progress completes. It is safe to call from inside the frame function.
// Use Wait to block until the loop has exited.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Wait blocks until the current loop exits. It returns immediately if the
// runner was never started.
func (r *Runner) Wait() {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Running reports whether the loop goroutine is active.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Frames returns the number of frames run across all starts.
func (r *Runner) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}
