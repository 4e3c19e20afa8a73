package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTicker_CallsFunction(t *testing.T) {
	var calls atomic.Int64
	tk := NewTicker("test", 10*time.Millisecond, func(context.Context) { calls.Add(1) }, nil)

	tk.Start(context.Background())
	time.Sleep(55 * time.Millisecond)
	tk.Stop()

	assert.GreaterOrEqual(t, calls.Load(), int64(3))
}

func TestTicker_StopHaltsCalls(t *testing.T) {
	var calls atomic.Int64
	tk := NewTicker("test", 10*time.Millisecond, func(context.Context) { calls.Add(1) }, nil)

	tk.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	tk.Stop()

	after := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, calls.Load())
}

func TestTicker_StopBeforeStart(t *testing.T) {
	tk := NewTicker("test", time.Second, func(context.Context) {}, nil)
	assert.NotPanics(t, tk.Stop)
}

func TestTicker_ContextCancelStops(t *testing.T) {
	var calls atomic.Int64
	tk := NewTicker("test", 10*time.Millisecond, func(context.Context) { calls.Add(1) }, nil)

	ctx, cancel := context.WithCancel(context.Background())
	tk.Start(ctx)
	cancel()
	tk.Stop()

	after := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, calls.Load())
}

func TestTicker_DefaultInterval(t *testing.T) {
	tk := NewTicker("test", 0, func(context.Context) {}, nil)
	assert.Equal(t, time.Minute, tk.interval)
}
