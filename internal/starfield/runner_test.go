package starfield

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestRunner_StartStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	var r Runner
	assert.False(t, r.Running())

	var n atomic.Int64
	require.NoError(t, r.Start(context.Background(), time.Millisecond, func() { n.Add(1) }))
	assert.True(t, r.Running())

	require.Eventually(t, func() bool { return n.Load() >= 3 }, time.Second, time.Millisecond)

	r.Stop()
	r.Wait()
	assert.False(t, r.Running())

	stopped := n.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, stopped, n.Load(), "no frames after Stop")
	assert.EqualValues(t, stopped, r.Frames())
}

func TestRunner_RejectsDoubleStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	var r Runner
	require.NoError(t, r.Start(context.Background(), time.Millisecond, func() {}))
	assert.ErrorIs(t, r.Start(context.Background(), time.Millisecond, func() {}), ErrAlreadyRunning)
	r.Stop()
	r.Wait()

	// A stopped runner can be started again.
	require.NoError(t, r.Start(context.Background(), time.Millisecond, func() {}))
	r.Stop()
	r.Wait()
}

func TestRunner_StartRejects(t *testing.T) {
	defer goleak.VerifyNone(t)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name     string
		ctx      context.Context
		interval time.Duration
		want     error
	}{
		{"zero interval", context.Background(), 0, ErrInvalidInterval},
		{"negative interval", context.Background(), -time.Millisecond, ErrInvalidInterval},
		{"cancelled context", cancelled, time.Millisecond, context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Runner
			assert.ErrorIs(t, r.Start(tt.ctx, tt.interval, func() {}), tt.want)
			assert.False(t, r.Running())
		})
	}
}

func TestRunner_StopFromFrame(t *testing.T) {
	defer goleak.VerifyNone(t)

	var r Runner
	var n atomic.Int64
	require.NoError(t, r.Start(context.Background(), time.Millisecond, func() {
		n.Add(1)
		r.Stop()
	}))

	exited := make(chan struct{})
	go func() {
		r.Wait()
		close(exited)
	}()

	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatal("loop did not exit after stopping from inside a frame")
	}
	assert.False(t, r.Running())
	assert.EqualValues(t, 1, n.Load())
	assert.EqualValues(t, 1, r.Frames())
}

func TestRunner_ContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	var r Runner
	require.NoError(t, r.Start(ctx, time.Millisecond, func() {}))

	cancel()
	r.Wait()
	assert.False(t, r.Running())
}

func TestRunner_StopWithoutStart(t *testing.T) {
	var r Runner
	r.Stop()
	r.Wait()
	assert.False(t, r.Running())
}

func TestRunner_DrivesField(t *testing.T) {
	defer goleak.VerifyNone(t)

	f, err := New(Viewport{Width: 100, Height: 100}, WithSeed(3), WithCount(10))
	require.NoError(t, err)

	var r Runner
	var rec recorder
	require.NoError(t, r.Start(context.Background(), time.Millisecond, func() { f.Frame(&rec) }))
	require.Eventually(t, func() bool { return r.Frames() >= 5 }, time.Second, time.Millisecond)
	r.Stop()
	r.Wait()

	assert.EqualValues(t, r.Frames(), f.Frames())
	assert.Len(t, rec.circles, 10)
}
