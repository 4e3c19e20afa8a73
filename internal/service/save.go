// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/MKhiriev/go-record-sync/internal/adapter"
	"github.com/MKhiriev/go-record-sync/internal/registry"
	"github.com/MKhiriev/go-record-sync/internal/workers"
	"github.com/MKhiriev/go-record-sync/models"
)

type saveOptions struct {
	// preventReferenceCycle stops the save from following references. It
	// is always set below the root of a save.
	preventReferenceCycle bool
	// specificFields limits the written local fields when non-empty.
	specificFields []string
	// beforeSubmit edits the record right before it is written.
	beforeSubmit func(rec *models.Record)
}

// entitySnapshot is the state of one entity read on the callback context.
type entitySnapshot struct {
	desc   *registry.EntityDescriptor
	syncID string
	fields map[string]models.Value
	single []singleRef
	lists  []listRef
}

type singleRef struct {
	mapping registry.ReferenceMapping
	target  registry.Entity
}

type listRef struct {
	mapping registry.ReferenceMapping
	targets []registry.Entity
}

func (e *syncEngine) Save(ctx context.Context, entity registry.Entity) (models.Record, error) {
	if workers.InCallback(ctx) {
		return models.Record{}, ErrCallbackReentry
	}
	return e.save(ctx, entity, saveOptions{})
}

func (e *syncEngine) SaveFields(ctx context.Context, entity registry.Entity, fields ...string) (models.Record, error) {
	if workers.InCallback(ctx) {
		return models.Record{}, ErrCallbackReentry
	}
	return e.save(ctx, entity, saveOptions{specificFields: fields})
}

// SaveAsync saves entity on the background pool. The outcome is reported
// through SaveObserver only.
func (e *syncEngine) SaveAsync(ctx context.Context, entity registry.Entity) {
	e.pool.Go(ctx, func(ctx context.Context) {
		if _, err := e.save(ctx, entity, saveOptions{}); err != nil && !errors.Is(err, ErrSyncLocked) {
			e.log.Err(err).Str("func", "syncEngine.SaveAsync").Msg("background save failed")
		}
	})
}

func (e *syncEngine) save(ctx context.Context, entity registry.Entity, opts saveOptions) (models.Record, error) {
	if isNilEntity(entity) {
		return models.Record{}, ErrNilEntity
	}

	env, _, err := e.gate(ctx)
	if err != nil {
		if errors.Is(err, ErrSyncLocked) {
			e.log.Debug().Str("func", "syncEngine.save").Str("entity_type", entity.EntityType()).
				Msg("save refused, sync pending")
			e.notifySaved(ctx, entity, nil, err)
		}
		return models.Record{}, err
	}

	return e.saveEntity(ctx, env, entity, opts)
}

// saveEntity runs the pipeline inside the lanes of the entity's type and
// of every type it references, without gating.
func (e *syncEngine) saveEntity(ctx context.Context, env *engineEnv, entity registry.Entity, opts saveOptions) (models.Record, error) {
	desc, err := env.registry.Descriptor(entity)
	if err != nil {
		return models.Record{}, err
	}

	release, err := e.lanes.Enter(ctx, laneKeys(env.registry, desc, opts.preventReferenceCycle)...)
	if err != nil {
		return models.Record{}, err
	}
	defer release()

	return e.saveInLane(ctx, env, entity, opts)
}

func laneKeys(reg *registry.Registry, desc *registry.EntityDescriptor, prevent bool) []string {
	keys := []string{desc.RemoteType}
	if prevent {
		return keys
	}
	refs := slices.Concat(desc.SingleReferences, desc.ListReferences)
	for _, ref := range refs {
		if target := reg.Lookup(ref.TargetType); target != nil {
			keys = append(keys, target.RemoteType)
		}
	}
	return keys
}

func (e *syncEngine) saveInLane(ctx context.Context, env *engineEnv, entity registry.Entity, opts saveOptions) (models.Record, error) {
	log := e.log.With().Str("func", "syncEngine.saveInLane").Str("entity_type", entity.EntityType()).Logger()

	var snap entitySnapshot
	err := e.callback.Do(ctx, func(ctx context.Context) error {
		var err error
		snap, err = e.snapshot(env, entity, opts)
		return err
	})
	if err != nil {
		log.Err(err).Msg("reading entity")
		e.notifySaved(ctx, entity, nil, err)
		return models.Record{}, err
	}
	desc := snap.desc

	if env.isIgnored(snap.syncID) {
		log.Debug().Str("sync_id", snap.syncID).Msg("sync id is ignored")
		return models.Record{}, nil
	}

	rec, err := e.fetchOrCreate(ctx, env, desc, snap.syncID)
	if err != nil {
		log.Err(err).Str("sync_id", snap.syncID).Msg("fetching record")
		e.notifySaved(ctx, entity, nil, err)
		return models.Record{}, err
	}

	for field, v := range snap.fields {
		rec.Set(field, v)
	}
	now := e.clock.Now()
	rec.Set(timestampField(desc), models.TimeValue(now))

	if opts.beforeSubmit != nil {
		opts.beforeSubmit(&rec)
	}

	if !opts.preventReferenceCycle {
		e.attachReferences(ctx, env, desc, &rec, snap)
	}

	saved, err := env.remote.SaveRecord(ctx, rec)
	if err != nil {
		e.noteRemoteError(err)
		err = fmt.Errorf("%w: save %s %s: %w", ErrRemoteWrite, desc.RemoteType, rec.ID, err)
		log.Err(err).Str("sync_id", rec.ID).Msg("saving record")
		e.notifySaved(ctx, entity, nil, err)
		return models.Record{}, err
	}

	err = e.callback.Do(ctx, func(ctx context.Context) error {
		if err := desc.SetSyncID(entity, saved.ID); err != nil {
			return err
		}
		if err := desc.SetChangeTimestamp(entity, now); err != nil {
			return err
		}
		e.observer.OnEntitySaved(ctx, entity, &saved, nil)
		return nil
	})
	if err != nil {
		log.Err(err).Str("sync_id", saved.ID).Msg("writing sync id back")
		return saved, err
	}

	log.Debug().Str("sync_id", saved.ID).Msg("record saved")
	return saved, nil
}

// attachReferences saves every referenced entity one level deep and stores
// the resulting references on rec. A failed child leaves its field as it
// was on the remote record.
func (e *syncEngine) attachReferences(ctx context.Context, env *engineEnv, desc *registry.EntityDescriptor, rec *models.Record, snap entitySnapshot) {
	log := e.log.With().Str("func", "syncEngine.attachReferences").Str("sync_id", rec.ID).Logger()
	rootID := rec.ID

	for _, ref := range snap.single {
		if ref.target == nil {
			rec.Set(ref.mapping.RemoteField, models.Value{Kind: models.KindNull})
			continue
		}
		child, err := e.saveReference(ctx, env, desc, rootID, ref.mapping, ref.target)
		if err != nil {
			log.Err(err).Str("field", ref.mapping.LocalField).Msg("saving referenced entity")
			continue
		}
		if child.ID == "" {
			continue
		}
		rec.Set(ref.mapping.RemoteField, models.ReferenceValue(models.Reference{
			RecordID: child.ID,
			Action:   models.ReferenceActionNone,
		}))
	}

	for _, ref := range snap.lists {
		refs := make([]models.Reference, 0, len(ref.targets))
		failed := false
		for _, target := range ref.targets {
			child, err := e.saveReference(ctx, env, desc, rootID, ref.mapping, target)
			if err != nil {
				log.Err(err).Str("field", ref.mapping.LocalField).Msg("saving referenced list member")
				failed = true
				continue
			}
			if child.ID == "" {
				continue
			}
			refs = append(refs, models.Reference{RecordID: child.ID, Action: models.ReferenceActionNone})
		}
		if failed {
			continue
		}
		rec.Set(ref.mapping.RemoteField, models.ReferenceListValue(refs))
	}
}

// saveReference saves a referenced entity without following its own
// references. A weak target gets a cascade pointer back to the root. The
// target must be of the declared type, since only that type's lane is held.
func (e *syncEngine) saveReference(ctx context.Context, env *engineEnv, root *registry.EntityDescriptor, rootID string, ref registry.ReferenceMapping, target registry.Entity) (models.Record, error) {
	if target.EntityType() != ref.TargetType {
		return models.Record{}, fmt.Errorf("%w: field %s holds %s, declared %s",
			ErrReferenceTypeMismatch, ref.LocalField, target.EntityType(), ref.TargetType)
	}
	targetDesc, err := env.registry.Descriptor(target)
	if err != nil {
		return models.Record{}, err
	}

	opts := saveOptions{preventReferenceCycle: true}
	if targetDesc.IsWeak {
		opts.beforeSubmit = func(rec *models.Record) {
			rec.Set(registry.CascadeField(root.RemoteType), models.ReferenceValue(models.Reference{
				RecordID: rootID,
				Action:   models.ReferenceActionDeleteSelf,
			}))
		}
	}
	return e.saveInLane(ctx, env, target, opts)
}

// snapshot reads everything the pipeline needs from the entity. It must
// run on the callback context.
func (e *syncEngine) snapshot(env *engineEnv, entity registry.Entity, opts saveOptions) (entitySnapshot, error) {
	desc, err := env.registry.Descriptor(entity)
	if err != nil {
		return entitySnapshot{}, err
	}

	snap := entitySnapshot{
		desc:   desc,
		syncID: desc.SyncID(entity),
		fields: make(map[string]models.Value, len(desc.FieldMapping)),
	}

	wanted := func(local string) bool {
		return len(opts.specificFields) == 0 || slices.Contains(opts.specificFields, local)
	}

	for local, remote := range desc.FieldMapping {
		if local == desc.SyncIDField || local == desc.ChangeTimestampField || isReferenceField(desc, local) || !wanted(local) {
			continue
		}
		raw, ok := desc.Get(entity, local)
		if !ok {
			continue
		}
		v, err := models.ValueOf(raw)
		if err != nil {
			return entitySnapshot{}, fmt.Errorf("%w: field %s: %w", registry.ErrConfiguration, local, err)
		}
		snap.fields[remote] = v
	}

	if opts.preventReferenceCycle {
		return snap, nil
	}

	for _, m := range desc.SingleReferences {
		if !wanted(m.LocalField) {
			continue
		}
		raw, _ := desc.Get(entity, m.LocalField)
		target, _ := raw.(registry.Entity)
		if isNilEntity(target) {
			target = nil
		}
		snap.single = append(snap.single, singleRef{mapping: m, target: target})
	}

	for _, m := range desc.ListReferences {
		if !wanted(m.LocalField) {
			continue
		}
		raw, _ := desc.Get(entity, m.LocalField)
		var targets []registry.Entity
		switch list := raw.(type) {
		case nil:
		case []registry.Entity:
			for _, t := range list {
				if !isNilEntity(t) {
					targets = append(targets, t)
				}
			}
		default:
			return entitySnapshot{}, fmt.Errorf("%w: %s.%s is %T", ErrInvalidListField, desc.Name, m.LocalField, raw)
		}
		snap.lists = append(snap.lists, listRef{mapping: m, targets: targets})
	}

	return snap, nil
}

// fetchOrCreate returns the remote record bound to syncID, or a fresh one.
// A record missing remotely is recreated under the same id.
func (e *syncEngine) fetchOrCreate(ctx context.Context, env *engineEnv, desc *registry.EntityDescriptor, syncID string) (models.Record, error) {
	if syncID == "" {
		return models.NewRecord(desc.RemoteType, e.ids.Generate()), nil
	}

	rec, err := env.remote.FetchRecord(ctx, syncID)
	switch {
	case errors.Is(err, adapter.ErrNotFound):
		return models.NewRecord(desc.RemoteType, syncID), nil
	case err != nil:
		e.noteRemoteError(err)
		return models.Record{}, fmt.Errorf("%w: fetch %s %s: %w", ErrRemoteRead, desc.RemoteType, syncID, err)
	}

	rec.Type = desc.RemoteType
	if rec.Fields == nil {
		rec.Fields = make(map[string]models.Value)
	}
	return rec, nil
}

func isReferenceField(desc *registry.EntityDescriptor, local string) bool {
	for _, m := range desc.SingleReferences {
		if m.LocalField == local {
			return true
		}
	}
	for _, m := range desc.ListReferences {
		if m.LocalField == local {
			return true
		}
	}
	return false
}

// timestampField is the remote field carrying the change timestamp.
func timestampField(desc *registry.EntityDescriptor) string {
	if remote, ok := desc.FieldMapping[desc.ChangeTimestampField]; ok {
		return remote
	}
	return desc.ChangeTimestampField
}

// remoteTimestamp is the change timestamp written by the saving device,
// or the store's modification time for records written by other tools.
func remoteTimestamp(desc *registry.EntityDescriptor, rec models.Record) time.Time {
	if ts, ok := rec.TimeField(timestampField(desc)); ok {
		return ts
	}
	return rec.ModifiedAt
}
