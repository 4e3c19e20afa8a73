package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncState_String(t *testing.T) {
	tests := []struct {
		state SyncState
		want  string
	}{
		{StateOnline, "online"},
		{StateOfflinePending, "offline-pending"},
		{StateLocked, "locked"},
		{SyncState(42), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}

func TestStateMachine_Transitions(t *testing.T) {
	var m stateMachine
	assert.Equal(t, StateOnline, m.state())
	assert.False(t, m.goOnline(), "nothing owed initially")

	m.markOffline()
	assert.Equal(t, StateOfflinePending, m.state())
	assert.True(t, m.isPending())

	m.lock(true)
	assert.Equal(t, StateLocked, m.state(), "lock wins over offline")

	m.lock(false)
	assert.Equal(t, StateOnline, m.state(), "unlocking clears offline")
	assert.True(t, m.isPending(), "pending survives unlocking")

	assert.True(t, m.goOnline())
	assert.False(t, m.goOnline(), "only one caller owes the catch-up")
	assert.False(t, m.isPending())
}

func TestValidateSync_CatchUpRunsOnce(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	f := newFixture(t, remote, "device-a", true)

	remote.setOffline(true)
	assert.False(t, f.engine.ValidateSync(ctx))
	assert.Equal(t, StateOfflinePending, f.engine.State())

	remote.setOffline(false)
	remote.mu.Lock()
	queries := remote.queries
	remote.mu.Unlock()

	require.True(t, f.engine.ValidateSync(ctx))
	assert.Equal(t, StateOnline, f.engine.State())

	remote.mu.Lock()
	afterCatchUp := remote.queries
	remote.mu.Unlock()
	assert.Greater(t, afterCatchUp, queries, "catch-up reconciles every type")

	require.True(t, f.engine.ValidateSync(ctx))
	remote.mu.Lock()
	defer remote.mu.Unlock()
	assert.Equal(t, afterCatchUp, remote.queries, "no catch-up without pending work")
}

func TestValidateSync_InsideCallbackDefersCatchUp(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	f := newFixture(t, remote, "device-a", true)
	f.engine.machine.markPending()

	var ok bool
	err := f.engine.callback.Do(ctx, func(ctx context.Context) error {
		ok = f.engine.ValidateSync(ctx)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ok)

	f.engine.pool.Wait()
	assert.False(t, f.engine.machine.isPending())
}

func TestClock_StrictlyIncreasing(t *testing.T) {
	fixed := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.FixedZone("X", 3600))
	c := &clock{now: func() time.Time { return fixed }}

	first := c.Now()
	second := c.Now()
	third := c.Now()

	assert.Equal(t, time.UTC, first.Location())
	assert.True(t, first.Equal(fixed))
	assert.Equal(t, time.Nanosecond, second.Sub(first))
	assert.Equal(t, time.Nanosecond, third.Sub(second))
}

func TestClock_FollowsWallTime(t *testing.T) {
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	c := &clock{now: func() time.Time { return now }}

	assert.True(t, c.Now().Equal(now))
	now = now.Add(time.Second)
	assert.True(t, c.Now().Equal(now))
}

func TestFinishOnce(t *testing.T) {
	calls := 0
	finish := finishOnce(func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, finish(context.Background()))
	assert.ErrorIs(t, finish(context.Background()), ErrFinishCalled)
	assert.Equal(t, 1, calls)
}

func TestIsNilEntity(t *testing.T) {
	var p *person
	assert.True(t, isNilEntity(nil))
	assert.True(t, isNilEntity(p))
	assert.False(t, isNilEntity(&person{}))
}
