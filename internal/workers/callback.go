package workers

import "context"

type callbackKey struct{}

// CallbackContext serializes every call into the local store. Calls made
// with a context returned by Do run inline, so a callback may call back
// into code that uses the same CallbackContext.
type CallbackContext struct {
	lane *Lane
}

// NewCallbackContext creates a callback context.
func NewCallbackContext() *CallbackContext {
	return &CallbackContext{lane: NewLane("callback")}
}

// Do runs fn while holding the callback context. The context passed to fn
// is marked so nested Do calls do not block.
func (c *CallbackContext) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if InCallback(ctx) {
		return fn(ctx)
	}
	if err := c.lane.Acquire(ctx); err != nil {
		return err
	}
	defer c.lane.Release()

	return fn(context.WithValue(ctx, callbackKey{}, c))
}

// InCallback reports whether ctx was produced by CallbackContext.Do.
func InCallback(ctx context.Context) bool {
	_, ok := ctx.Value(callbackKey{}).(*CallbackContext)
	return ok
}

// Detach returns a context that keeps ctx's values but neither its
// cancellation nor its callback marker. Work handed to another goroutine
// must use it so it cannot run inline with a callback it does not own.
func Detach(ctx context.Context) context.Context {
	return context.WithValue(context.WithoutCancel(ctx), callbackKey{}, nil)
}
