package workers

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackContext_NestedDoRunsInline(t *testing.T) {
	cb := NewCallbackContext()

	var inner bool
	err := cb.Do(context.Background(), func(ctx context.Context) error {
		assert.True(t, InCallback(ctx))
		return cb.Do(ctx, func(context.Context) error {
			inner = true
			return nil
		})
	})

	require.NoError(t, err)
	assert.True(t, inner)
}

func TestCallbackContext_Serializes(t *testing.T) {
	cb := NewCallbackContext()

	var inside, maxInside atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cb.Do(context.Background(), func(context.Context) error {
				n := inside.Add(1)
				if n > maxInside.Load() {
					maxInside.Store(n)
				}
				time.Sleep(time.Millisecond)
				inside.Add(-1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside.Load())
}

func TestDetach_DropsMarkerAndCancellation(t *testing.T) {
	cb := NewCallbackContext()

	_ = cb.Do(context.Background(), func(ctx context.Context) error {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		detached := Detach(cancelled)
		assert.False(t, InCallback(detached))
		assert.NoError(t, detached.Err())
		return nil
	})
}

func TestPool_RunsAndWaits(t *testing.T) {
	p := NewPool(2)

	var done atomic.Int32
	for i := 0; i < 10; i++ {
		p.Go(context.Background(), func(context.Context) {
			time.Sleep(time.Millisecond)
			done.Add(1)
		})
	}
	p.Wait()

	assert.Equal(t, int32(10), done.Load())
}

func TestPool_BoundsConcurrency(t *testing.T) {
	p := NewPool(2)

	var inside, maxInside atomic.Int32
	var mu sync.Mutex
	for i := 0; i < 10; i++ {
		p.Go(context.Background(), func(context.Context) {
			n := inside.Add(1)
			mu.Lock()
			if n > maxInside.Load() {
				maxInside.Store(n)
			}
			mu.Unlock()
			time.Sleep(2 * time.Millisecond)
			inside.Add(-1)
		})
	}
	p.Wait()

	assert.LessOrEqual(t, maxInside.Load(), int32(2))
}

func TestPool_GoDoesNotBlockWhenFull(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{name: "size one", size: 1},
		{name: "size below one", size: 0},
		{name: "size two", size: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPool(tt.size)
			gate := make(chan struct{})
			var ran atomic.Int32

			submitted := make(chan struct{})
			go func() {
				for i := 0; i < 5; i++ {
					p.Go(context.Background(), func(context.Context) {
						<-gate
						ran.Add(1)
					})
				}
				close(submitted)
			}()

			select {
			case <-submitted:
			case <-time.After(time.Second):
				t.Fatal("Go blocked while the pool was full")
			}

			close(gate)
			p.Wait()
			assert.Equal(t, int32(5), ran.Load())
		})
	}
}
