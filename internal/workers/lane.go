// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrUnknownLane is returned when entering a lane that was never added.
var ErrUnknownLane = errors.New("unknown serialization lane")

// Lane is a FIFO lock: holders are admitted one at a time, in the order
// they asked.
type Lane struct {
	name string

	mu      sync.Mutex
	held    bool
	waiters []chan struct{}
}

// NewLane creates an unheld lane.
func NewLane(name string) *Lane {
	return &Lane{name: name}
}

// Name returns the lane key.
func (l *Lane) Name() string { return l.name }

// Acquire blocks until the lane is free or ctx is done.
func (l *Lane) Acquire(ctx context.Context) error {
	l.mu.Lock()
	if !l.held {
		l.held = true
		l.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	l.waiters = append(l.waiters, ch)
	l.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		l.mu.Lock()
		for i, w := range l.waiters {
			if w == ch {
				l.waiters = append(l.waiters[:i], l.waiters[i+1:]...)
				l.mu.Unlock()
				return ctx.Err()
			}
		}
		l.mu.Unlock()
		// ownership was handed over while ctx expired
		l.Release()
		return ctx.Err()
	}
}

// Release hands the lane to the oldest waiter, or frees it.
func (l *Lane) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.waiters) == 0 {
		l.held = false
		return
	}
	next := l.waiters[0]
	l.waiters = l.waiters[1:]
	close(next)
}

// Lanes holds one lane per key.
type Lanes struct {
	mu    sync.RWMutex
	lanes map[string]*Lane
}

// NewLanes creates an empty lane set.
func NewLanes() *Lanes {
	return &Lanes{lanes: make(map[string]*Lane)}
}

// Add allocates a lane for every key that has none yet.
func (ls *Lanes) Add(keys ...string) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	for _, k := range keys {
		if _, ok := ls.lanes[k]; !ok {
			ls.lanes[k] = NewLane(k)
		}
	}
}

// Get returns the lane for key, or nil.
func (ls *Lanes) Get(key string) *Lane {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return ls.lanes[key]
}

// Enter acquires the lanes for keys in sorted order and returns a function
// that releases them. Duplicate keys are entered once. Entering lanes in a
// single global order keeps multi-lane holders from deadlocking each other.
func (ls *Lanes) Enter(ctx context.Context, keys ...string) (func(), error) {
	uniq := make(map[string]struct{}, len(keys))
	sorted := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := uniq[k]; ok {
			continue
		}
		uniq[k] = struct{}{}
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	acquired := make([]*Lane, 0, len(sorted))
	release := func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			acquired[i].Release()
		}
	}

	for _, k := range sorted {
		lane := ls.Get(k)
		if lane == nil {
			release()
			return nil, errors.Join(ErrUnknownLane, errors.New(k))
		}
		if err := lane.Acquire(ctx); err != nil {
			release()
			return nil, err
		}
		acquired = append(acquired, lane)
	}

	return release, nil
}
