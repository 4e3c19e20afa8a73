package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-record-sync/internal/registry"
	"github.com/MKhiriev/go-record-sync/models"
)

func (e *syncEngine) UpdateEntity(ctx context.Context, entity registry.Entity, rec models.Record, fetchReferences bool) error {
	env, err := e.environment()
	if err != nil {
		return err
	}
	if isNilEntity(entity) {
		return ErrNilEntity
	}
	return e.callback.Do(ctx, func(ctx context.Context) error {
		return e.updateEntity(ctx, env, entity, rec, fetchReferences)
	})
}

func (e *syncEngine) updateEntity(ctx context.Context, env *engineEnv, entity registry.Entity, rec models.Record, fetchReferences bool) error {
	d, err := env.registry.Descriptor(entity)
	if err != nil {
		return err
	}
	if err = hydrate(d, entity, rec); err != nil {
		return err
	}
	e.observer.OnEntitySaved(ctx, entity, &rec, nil)

	if !fetchReferences {
		return nil
	}
	return e.resolveReferences(ctx, env, d, entity, rec)
}

// hydrate copies mapped remote fields, the sync-id and the change
// timestamp onto entity. Reference fields are left to resolveReferences.
func hydrate(d *registry.EntityDescriptor, entity registry.Entity, rec models.Record) error {
	for local, remote := range d.FieldMapping {
		if local == d.SyncIDField || local == d.ChangeTimestampField || isReferenceField(d, local) {
			continue
		}
		v, ok := rec.Fields[remote]
		if !ok {
			continue
		}
		if err := d.Set(entity, local, v.Interface()); err != nil {
			return fmt.Errorf("set %s.%s: %w", d.Name, local, err)
		}
	}
	if err := d.SetSyncID(entity, rec.ID); err != nil {
		return fmt.Errorf("set %s sync id: %w", d.Name, err)
	}
	if err := d.SetChangeTimestamp(entity, remoteTimestamp(d, rec)); err != nil {
		return fmt.Errorf("set %s change timestamp: %w", d.Name, err)
	}
	return nil
}

// resolveReferences turns the reference fields of rec into local entities
// assigned to entity. Referenced records are fetched concurrently; any that
// cannot be fetched degrade to the target type's placeholder. It must run
// on the callback context.
func (e *syncEngine) resolveReferences(ctx context.Context, env *engineEnv, d *registry.EntityDescriptor, entity registry.Entity, rec models.Record) error {
	log := e.log.With().Str("func", "syncEngine.resolveReferences").Str("sync_id", rec.ID).Logger()

	type fetched struct {
		rec models.Record
		err error
	}
	var (
		mu      sync.Mutex
		singles = make(map[string]fetched, len(d.SingleReferences))
		g       errgroup.Group
	)
	for _, m := range d.SingleReferences {
		v, ok := rec.Get(m.RemoteField)
		if !ok || v.Kind != models.KindReference || v.Reference.RecordID == "" {
			continue
		}
		id := v.Reference.RecordID
		g.Go(func() error {
			r, err := env.remote.FetchRecord(ctx, id)
			mu.Lock()
			singles[m.LocalField] = fetched{rec: r, err: err}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for _, m := range d.SingleReferences {
		got, ok := singles[m.LocalField]
		if !ok {
			if err := d.Set(entity, m.LocalField, placeholder(env, m)); err != nil {
				return err
			}
			continue
		}
		if got.err != nil {
			e.noteRemoteError(got.err)
			log.Warn().Err(fmt.Errorf("%w: %s: %w", ErrReferenceResolution, m.LocalField, got.err)).
				Msg("using placeholder")
			if err := d.Set(entity, m.LocalField, placeholder(env, m)); err != nil {
				return err
			}
			continue
		}
		var (
			target registry.Entity
			err    error
		)
		if want := env.registry.Lookup(m.TargetType); want != nil && got.rec.Type != want.RemoteType {
			err = fmt.Errorf("%w: record %s is a %s", ErrReferenceTypeMismatch, got.rec.ID, got.rec.Type)
		} else {
			target, err = e.materialize(ctx, env, got.rec)
		}
		if err != nil {
			log.Warn().Err(fmt.Errorf("%w: %s: %w", ErrReferenceResolution, m.LocalField, err)).
				Msg("using placeholder")
			target = placeholder(env, m)
		}
		if err = d.Set(entity, m.LocalField, target); err != nil {
			return err
		}
	}

	for _, m := range d.ListReferences {
		v, ok := rec.Get(m.RemoteField)
		if !ok || v.Kind != models.KindReferenceList {
			continue
		}
		ids := make([]string, 0, len(v.References))
		for _, ref := range v.References {
			ids = append(ids, ref.RecordID)
		}

		var found map[string]models.Record
		if len(ids) > 0 {
			recs, err := env.remote.FetchRecords(ctx, ids)
			if err != nil {
				e.noteRemoteError(err)
				log.Warn().Err(fmt.Errorf("%w: %s: %w", ErrReferenceResolution, m.LocalField, err)).
					Msg("list left unchanged")
				continue
			}
			found = make(map[string]models.Record, len(recs))
			for _, r := range recs {
				found[r.ID] = r
			}
		}

		members := make([]registry.Entity, 0, len(ids))
		for _, id := range ids {
			r, ok := found[id]
			if !ok {
				log.Debug().Str("field", m.LocalField).Str("ref", id).Msg("referenced record missing")
				continue
			}
			member, err := e.materialize(ctx, env, r)
			if err != nil {
				log.Warn().Err(fmt.Errorf("%w: %s: %w", ErrReferenceResolution, id, err)).Msg("skipping member")
				continue
			}
			members = append(members, member)
		}
		if err := d.Set(entity, m.LocalField, members); err != nil {
			return err
		}
	}

	return nil
}

// materialize returns the local entity for rec, creating it when missing
// and refreshing it when the remote copy is newer.
func (e *syncEngine) materialize(ctx context.Context, env *engineEnv, rec models.Record) (registry.Entity, error) {
	d := env.registry.LookupRemote(rec.Type)
	if d == nil {
		return nil, fmt.Errorf("%w: remote type %s", registry.ErrUnknownType, rec.Type)
	}

	existing, err := e.local.FetchEntity(ctx, d.Name, rec.ID)
	if err != nil {
		return nil, err
	}

	if isNilEntity(existing) {
		created, err := e.local.CreateEntity(ctx, d.Name)
		if err != nil {
			return nil, err
		}
		if isNilEntity(created) {
			return nil, errors.Join(ErrNilEntity, errors.New(d.Name))
		}
		if err = hydrate(d, created, rec); err != nil {
			return nil, err
		}
		e.observer.OnEntitySaved(ctx, created, &rec, nil)
		return created, nil
	}

	if remoteTimestamp(d, rec).After(d.ChangeTimestamp(existing)) {
		if err = hydrate(d, existing, rec); err != nil {
			return nil, err
		}
		e.observer.OnEntitySaved(ctx, existing, &rec, nil)
	}
	return existing, nil
}

func placeholder(env *engineEnv, m registry.ReferenceMapping) registry.Entity {
	target := env.registry.Lookup(m.TargetType)
	if target == nil {
		return nil
	}
	return target.ReferencePlaceholder
}
