// Package workers provides the concurrency primitives of the sync engine:
// per-type serialization lanes, the background pool for fire-and-forget
// operations, the callback context that serializes local-store calls, and
// periodic background workers collected by the Workers aggregate.
package workers

import "context"

// Worker is a background activity with an explicit lifecycle.
//
// Start must not block; the worker runs until ctx is cancelled or Stop is
// called. Stop blocks until the worker has fully exited and is safe to call
// when the worker is not running.
type Worker interface {
	Start(ctx context.Context)
	Stop()
}
