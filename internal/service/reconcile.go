package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-record-sync/internal/registry"
	"github.com/MKhiriev/go-record-sync/internal/workers"
	"github.com/MKhiriev/go-record-sync/models"
)

func (e *syncEngine) SyncAll(ctx context.Context, forced bool) error {
	if workers.InCallback(ctx) {
		return ErrCallbackReentry
	}
	env, caughtUp, err := e.gate(ctx)
	if err != nil {
		return err
	}
	if caughtUp && !forced {
		return nil
	}
	return e.syncAll(ctx, env, forced)
}

func (e *syncEngine) SyncTypes(ctx context.Context, entityTypes []string, forced bool) error {
	if workers.InCallback(ctx) {
		return ErrCallbackReentry
	}
	env, _, err := e.gate(ctx)
	if err != nil {
		return err
	}

	descs := make([]*registry.EntityDescriptor, 0, len(entityTypes))
	for _, name := range entityTypes {
		d := env.registry.Lookup(name)
		if d == nil {
			return fmt.Errorf("%w: %s", registry.ErrUnknownType, name)
		}
		descs = append(descs, d)
	}
	return e.syncTypes(ctx, env, descs, forced)
}

func (e *syncEngine) SyncType(ctx context.Context, entityType string, forced bool) error {
	return e.SyncTypes(ctx, []string{entityType}, forced)
}

func (e *syncEngine) syncAll(ctx context.Context, env *engineEnv, forced bool) error {
	return e.syncTypes(ctx, env, env.registry.All(), forced)
}

// syncTypes reconciles types in parallel and joins every failure.
func (e *syncEngine) syncTypes(ctx context.Context, env *engineEnv, descs []*registry.EntityDescriptor, forced bool) error {
	var (
		mu   sync.Mutex
		errs []error
		g    errgroup.Group
	)
	for _, d := range descs {
		g.Go(func() error {
			if err := e.syncType(ctx, env, d, forced); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("sync %s: %w", d.Name, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// syncType runs one reconciliation cycle for a type: it diffs local
// entities changed since the cursor against remote records changed since
// the cursor, pushes local-newer entities, hands new and updated records
// to the local store and advances the cursor once the store finishes.
// Pushes complete before the hand-off and never move the cursor, so it
// only ever lands on the run's start time.
func (e *syncEngine) syncType(ctx context.Context, env *engineEnv, d *registry.EntityDescriptor, forced bool) error {
	log := e.log.With().Str("func", "syncEngine.syncType").Str("record_type", d.RemoteType).Bool("forced", forced).Logger()

	startedAt := e.clock.Now()
	var since time.Time
	if !forced {
		cursor, err := e.state.GetCursor(ctx, d.RemoteType)
		if err != nil {
			return fmt.Errorf("load cursor: %w", err)
		}
		since = cursor
	}

	var locals []registry.Entity
	err := e.callback.Do(ctx, func(ctx context.Context) error {
		all, err := e.local.AllEntities(ctx, d.Name)
		if err != nil {
			return err
		}
		locals = changedSince(env, d, all, since, forced)
		return nil
	})
	if err != nil {
		return fmt.Errorf("load local entities: %w", err)
	}

	records, err := env.remote.QueryRecords(ctx, models.RecordQuery{RecordType: d.RemoteType, ModifiedAfter: since})
	if err != nil {
		e.noteRemoteError(err)
		return fmt.Errorf("%w: query %s: %w", ErrRemoteRead, d.RemoteType, err)
	}

	batch := SyncBatch{EntityType: d.Name}
	var pushes []registry.Entity
	err = e.callback.Do(ctx, func(ctx context.Context) error {
		var err error
		pushes, err = e.classify(ctx, env, d, records, locals, &batch)
		return err
	})
	if err != nil {
		return fmt.Errorf("classify remote records: %w", err)
	}

	finish := finishOnce(func(ctx context.Context) error {
		if err := e.state.SetCursor(ctx, d.RemoteType, startedAt); err != nil {
			return fmt.Errorf("advance cursor: %w", err)
		}
		log.Debug().Time("cursor", startedAt).Msg("cursor advanced")
		return nil
	})

	pushCtx := workers.Detach(ctx)
	var g errgroup.Group
	g.SetLimit(max(e.cfg.PoolSize, 1))
	for _, ent := range pushes {
		g.Go(func() error {
			if _, err := e.saveEntity(pushCtx, env, ent, saveOptions{}); err != nil {
				log.Warn().Err(err).Msg("push failed")
			}
			return nil
		})
	}
	_ = g.Wait()

	_ = e.callback.Do(ctx, func(ctx context.Context) error {
		e.local.OnSyncFinished(ctx, batch, finish)
		return nil
	})

	log.Info().Int("new", len(batch.New)).Int("updated", len(batch.Updated)).
		Int("pushed", len(pushes)).Msg("sync finished")
	return nil
}

// changedSince keeps the entities worth pushing, newest first.
func changedSince(env *engineEnv, d *registry.EntityDescriptor, all []registry.Entity, since time.Time, forced bool) []registry.Entity {
	out := make([]registry.Entity, 0, len(all))
	for _, ent := range all {
		if isNilEntity(ent) || env.isIgnored(d.SyncID(ent)) {
			continue
		}
		if !forced && !d.ChangeTimestamp(ent).After(since) {
			continue
		}
		out = append(out, ent)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return d.ChangeTimestamp(out[i]).After(d.ChangeTimestamp(out[j]))
	})
	return out
}

// classify sorts remote records into the batch and returns the entities
// to push. It must run on the callback context.
func (e *syncEngine) classify(ctx context.Context, env *engineEnv, d *registry.EntityDescriptor, records []models.Record, locals []registry.Entity, batch *SyncBatch) ([]registry.Entity, error) {
	pending := make(map[string]struct{}, len(locals))
	for _, ent := range locals {
		if id := d.SyncID(ent); id != "" {
			pending[id] = struct{}{}
		}
	}

	var pushes []registry.Entity
	for _, rec := range records {
		if env.isIgnored(rec.ID) {
			continue
		}
		delete(pending, rec.ID)

		local, err := e.local.FetchEntity(ctx, d.Name, rec.ID)
		if err != nil {
			return nil, err
		}
		if isNilEntity(local) {
			batch.New = append(batch.New, rec)
			continue
		}

		localTS, remoteTS := d.ChangeTimestamp(local), remoteTimestamp(d, rec)
		switch {
		case localTS.After(remoteTS):
			pushes = append(pushes, local)
		case remoteTS.After(localTS):
			batch.Updated = append(batch.Updated, rec)
		}
	}

	for _, ent := range locals {
		id := d.SyncID(ent)
		if id == "" {
			pushes = append(pushes, ent)
			continue
		}
		if _, ok := pending[id]; ok {
			pushes = append(pushes, ent)
		}
	}

	return pushes, nil
}
