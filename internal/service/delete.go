package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-record-sync/internal/adapter"
	"github.com/MKhiriev/go-record-sync/internal/registry"
	"github.com/MKhiriev/go-record-sync/models"
)

// deleteTarget names a deleted record by its local and remote type.
type deleteTarget struct {
	syncID     string
	entityType string
	recordType string
}

// Delete removes entity's record remotely and queues the deletion for
// every peer device. While sync is locked or offline the delete is stored
// and replayed on the next successful validation.
func (e *syncEngine) Delete(ctx context.Context, entity registry.Entity) error {
	env, err := e.environment()
	if err != nil {
		return err
	}
	if isNilEntity(entity) {
		return ErrNilEntity
	}

	var target deleteTarget
	err = e.callback.Do(ctx, func(context.Context) error {
		d, err := env.registry.Descriptor(entity)
		if err != nil {
			return err
		}
		target = deleteTarget{syncID: d.SyncID(entity), entityType: d.Name, recordType: d.RemoteType}
		return nil
	})
	if err != nil {
		return err
	}
	if target.syncID == "" {
		return nil
	}

	if !e.validateSync(ctx) {
		return e.deferDelete(ctx, target)
	}

	err = e.propagateDelete(ctx, env, target)
	if errors.Is(err, adapter.ErrTransport) {
		return e.deferDelete(ctx, target)
	}
	return err
}

func (e *syncEngine) deferDelete(ctx context.Context, target deleteTarget) error {
	if err := e.state.AddPendingDelete(ctx, target.syncID, target.entityType); err != nil {
		return fmt.Errorf("store pending delete %s: %w", target.syncID, err)
	}
	e.machine.markPending()
	e.log.Debug().Str("func", "syncEngine.deferDelete").Str("sync_id", target.syncID).
		Str("entity_type", target.entityType).Msg("delete deferred")
	return nil
}

// propagateDelete deletes the record and writes one delete-queue entry per
// known peer in a single batch.
func (e *syncEngine) propagateDelete(ctx context.Context, env *engineEnv, target deleteTarget) error {
	deleted, err := env.remote.DeleteRecords(ctx, []string{target.syncID})
	if err != nil {
		e.noteRemoteError(err)
		return fmt.Errorf("%w: delete %s: %w", ErrRemoteWrite, target.syncID, err)
	}

	peers := e.devices.peerIDs()
	if len(peers) > 0 {
		entries := make([]models.Record, 0, len(peers))
		for _, peer := range peers {
			entry := models.DeleteQueueEntry{
				TargetDeviceID:    peer,
				DeletedSyncID:     target.syncID,
				DeletedRecordType: target.recordType,
			}
			entries = append(entries, entry.ToRecord(e.ids.Generate()))
		}
		if _, err = env.remote.SaveRecords(ctx, entries); err != nil {
			e.noteRemoteError(err)
			return fmt.Errorf("%w: queue delete of %s: %w", ErrRemoteWrite, target.syncID, err)
		}
	}

	e.log.Debug().Str("func", "syncEngine.propagateDelete").Str("sync_id", target.syncID).
		Strs("deleted", deleted).Int("peers", len(peers)).Msg("delete propagated")
	return nil
}

// replayPendingDeletes propagates every stored delete and forgets the ones
// that went through.
func (e *syncEngine) replayPendingDeletes(ctx context.Context, env *engineEnv) error {
	pending, err := e.state.PendingDeletes(ctx)
	if err != nil {
		return fmt.Errorf("load pending deletes: %w", err)
	}

	var errs []error
	for _, p := range pending {
		target := deleteTarget{syncID: p.SyncID, entityType: p.RecordType, recordType: p.RecordType}
		if d := env.registry.Lookup(p.RecordType); d != nil {
			target.recordType = d.RemoteType
		}

		if err = e.propagateDelete(ctx, env, target); err != nil {
			errs = append(errs, err)
			continue
		}
		if err = e.state.RemovePendingDelete(ctx, p.SyncID); err != nil {
			errs = append(errs, fmt.Errorf("forget pending delete %s: %w", p.SyncID, err))
		}
	}
	if len(errs) > 0 {
		e.machine.markPending()
	}
	return errors.Join(errs...)
}

func (e *syncEngine) DrainDeleteQueue(ctx context.Context) error {
	env, _, err := e.gate(ctx)
	if err != nil {
		return err
	}
	return e.drainDeleteQueue(ctx, env)
}

// drainDeleteQueue hands every entry addressed to this device to the local
// store. The entries are deleted remotely only when the store finishes, so
// an unfinished batch is delivered again by the next drain.
func (e *syncEngine) drainDeleteQueue(ctx context.Context, env *engineEnv) error {
	log := e.log.With().Str("func", "syncEngine.drainDeleteQueue").Str("device_id", env.deviceID).Logger()

	recs, err := env.remote.QueryRecords(ctx, models.RecordQuery{
		RecordType: models.DeleteQueueRecordType,
		Equals:     map[string]string{models.DeleteQueueDeviceField: env.deviceID},
	})
	if err != nil {
		e.noteRemoteError(err)
		return fmt.Errorf("%w: query delete queue: %w", ErrRemoteRead, err)
	}

	batch := SyncBatch{}
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		entry := models.DeleteQueueEntryFromRecord(rec)
		if entry.TargetDeviceID != env.deviceID {
			continue
		}
		ids = append(ids, entry.ID)
		batch.Deleted = append(batch.Deleted, deleteInfo(env, entry))
	}
	if len(ids) == 0 {
		return nil
	}

	e.deliverDeletes(ctx, env, batch, ids)
	log.Debug().Int("entries", len(ids)).Msg("delete queue delivered")
	return nil
}

func (e *syncEngine) deliverDeletes(ctx context.Context, env *engineEnv, batch SyncBatch, queueIDs []string) {
	finish := finishOnce(func(ctx context.Context) error {
		if _, err := env.remote.DeleteRecords(ctx, queueIDs); err != nil {
			e.noteRemoteError(err)
			return fmt.Errorf("%w: delete queue entries: %w", ErrRemoteWrite, err)
		}
		return nil
	})

	_ = e.callback.Do(ctx, func(ctx context.Context) error {
		e.local.OnSyncFinished(ctx, batch, finish)
		return nil
	})
}

func deleteInfo(env *engineEnv, entry models.DeleteQueueEntry) models.DeleteInfo {
	entityType := entry.DeletedRecordType
	if d := env.registry.LookupRemote(entry.DeletedRecordType); d != nil {
		entityType = d.Name
	}
	return models.DeleteInfo{EntityType: entityType, SyncID: entry.DeletedSyncID}
}
