package service

import (
	"context"
	"errors"
	"sync"

	"github.com/MKhiriev/go-record-sync/internal/adapter"
	"github.com/MKhiriev/go-record-sync/internal/workers"
	"github.com/MKhiriev/go-record-sync/models"
)

// SyncState is the externally visible state of the engine.
type SyncState int

const (
	StateOnline SyncState = iota
	StateOfflinePending
	StateLocked
)

func (s SyncState) String() string {
	switch s {
	case StateOnline:
		return "online"
	case StateOfflinePending:
		return "offline-pending"
	case StateLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// stateMachine owns the lock, connectivity and pending-sync flags.
type stateMachine struct {
	mu      sync.Mutex
	locked  bool
	offline bool
	pending bool
}

func (m *stateMachine) lock(locked bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.locked = locked
	if !locked {
		m.offline = false
	}
}

func (m *stateMachine) isLocked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked
}

func (m *stateMachine) state() SyncState {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case m.locked:
		return StateLocked
	case m.offline:
		return StateOfflinePending
	default:
		return StateOnline
	}
}

func (m *stateMachine) markPending() {
	m.mu.Lock()
	m.pending = true
	m.mu.Unlock()
}

func (m *stateMachine) isPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

func (m *stateMachine) markOffline() {
	m.mu.Lock()
	m.offline = true
	m.pending = true
	m.mu.Unlock()
}

// goOnline clears the offline and pending flags and reports whether a
// pending catch-up was owed. Only one caller observes true per pending
// period.
func (m *stateMachine) goOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	owed := m.pending
	m.offline = false
	m.pending = false
	return owed
}

func (e *syncEngine) LockSync(locked bool) {
	e.machine.lock(locked)
	e.log.Info().Str("func", "syncEngine.LockSync").Bool("locked", locked).Msg("sync lock changed")
}

func (e *syncEngine) State() SyncState {
	return e.machine.state()
}

func (e *syncEngine) ValidateSync(ctx context.Context) bool {
	return e.validateSync(ctx)
}

// validateSync is the single gate in front of every remote write. When the
// store becomes reachable again after a refused operation it replays
// pending deletes, runs a full cycle and drains the delete queue.
func (e *syncEngine) validateSync(ctx context.Context) bool {
	ok, _ := e.admit(ctx)
	return ok
}

// admit is validateSync that also reports whether a catch-up ran to
// completion before it returned.
func (e *syncEngine) admit(ctx context.Context) (ok, caughtUp bool) {
	env, err := e.environment()
	if err != nil {
		return false, false
	}

	if e.machine.isLocked() {
		e.log.Debug().Str("func", "syncEngine.validateSync").Msg("sync is locked")
		return false, false
	}

	if !e.reachable(ctx, env) {
		e.machine.markOffline()
		return false, false
	}

	if !e.machine.goOnline() {
		return true, false
	}

	if workers.InCallback(ctx) {
		// a catch-up pushes through the callback context it would be holding
		e.pool.Go(ctx, func(ctx context.Context) { e.catchUp(ctx, env) })
		return true, false
	}
	e.catchUp(ctx, env)
	return true, true
}

func (e *syncEngine) catchUp(ctx context.Context, env *engineEnv) {
	log := e.log.With().Str("func", "syncEngine.catchUp").Logger()
	log.Info().Msg("remote store reachable, running pending sync")

	if err := e.replayPendingDeletes(ctx, env); err != nil {
		log.Err(err).Msg("replaying pending deletes")
	}
	if err := e.syncAll(ctx, env, false); err != nil {
		log.Err(err).Msg("pending sync")
	}
	if err := e.drainDeleteQueue(ctx, env); err != nil {
		log.Err(err).Msg("draining delete queue after pending sync")
	}
}

func (e *syncEngine) reachable(ctx context.Context, env *engineEnv) bool {
	status, err := env.remote.Status(ctx)
	if err != nil {
		e.log.Warn().Err(err).Str("func", "syncEngine.reachable").Msg("remote store unreachable")
		return false
	}
	if status.Account != models.AccountAvailable {
		e.log.Warn().Str("func", "syncEngine.reachable").
			Str("account", string(status.Account)).Msg("remote account not available")
		return false
	}
	return true
}

// gate runs validateSync and turns a refusal into ErrSyncLocked with the
// pending flag set. caughtUp reports that a full incremental cycle already
// ran on the way in.
func (e *syncEngine) gate(ctx context.Context) (env *engineEnv, caughtUp bool, err error) {
	env, err = e.environment()
	if err != nil {
		return nil, false, err
	}
	ok, caughtUp := e.admit(ctx)
	if !ok {
		e.machine.markPending()
		return nil, false, ErrSyncLocked
	}
	return env, caughtUp, nil
}

// noteRemoteError marks the engine offline when a remote call failed in
// transport, so the next validation catches up.
func (e *syncEngine) noteRemoteError(err error) {
	if errors.Is(err, adapter.ErrTransport) {
		e.machine.markOffline()
	}
}
