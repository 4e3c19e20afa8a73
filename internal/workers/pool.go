package workers

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Pool runs fire-and-forget tasks with bounded concurrency. Tasks run on a
// context detached from the submitter's cancellation.
//
// Go never blocks: it may be called while the submitter holds the callback
// context that queued tasks are waiting for. Queued tasks wait on the
// semaphore instead of in Go, which is why errgroup's SetLimit is not used.
type Pool struct {
	sem   *semaphore.Weighted
	group errgroup.Group
}

// NewPool creates a pool running at most size tasks at once. A size below
// one is treated as one.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size))}
}

// Go schedules fn and returns immediately.
func (p *Pool) Go(ctx context.Context, fn func(ctx context.Context)) {
	taskCtx := Detach(ctx)
	p.group.Go(func() error {
		if err := p.sem.Acquire(taskCtx, 1); err != nil {
			return err
		}
		defer p.sem.Release(1)
		fn(taskCtx)
		return nil
	})
}

// Wait blocks until every scheduled task has returned.
func (p *Pool) Wait() {
	_ = p.group.Wait()
}
