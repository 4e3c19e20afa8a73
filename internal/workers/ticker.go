package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-record-sync/internal/logger"
)

// Ticker runs a function on a fixed interval in its own goroutine.
type Ticker struct {
	name     string
	interval time.Duration
	fn       func(ctx context.Context)
	log      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTicker creates a Ticker that calls fn every interval. If interval is
// zero or negative it defaults to one minute. The ticker is idle until
// Start is called.
func NewTicker(name string, interval time.Duration, fn func(ctx context.Context), log *logger.Logger) *Ticker {
	if interval <= 0 {
		interval = time.Minute
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Ticker{name: name, interval: interval, fn: fn, log: log}
}

// Start stops any previous run, then launches the ticking goroutine. The
// goroutine exits when ctx is cancelled or Stop is called.
func (t *Ticker) Start(ctx context.Context) {
	t.Stop()

	t.mu.Lock()
	runCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.wg.Add(1)
	t.mu.Unlock()

	t.log.Debug().Str("func", "Ticker.Start").Str("worker", t.name).
		Dur("interval", t.interval).Msg("worker started")

	go func() {
		defer t.wg.Done()
		tick := time.NewTicker(t.interval)
		defer tick.Stop()

		for {
			select {
			case <-runCtx.Done():
				return
			case <-tick.C:
				t.fn(runCtx)
			}
		}
	}()
}

// Stop cancels the ticking goroutine and waits for it to exit.
func (t *Ticker) Stop() {
	t.mu.Lock()
	cancel := t.cancel
	t.cancel = nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
		t.log.Debug().Str("func", "Ticker.Stop").Str("worker", t.name).Msg("worker stopped")
	}
	t.wg.Wait()
}
