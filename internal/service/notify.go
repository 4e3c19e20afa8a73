package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-record-sync/internal/adapter"
	"github.com/MKhiriev/go-record-sync/models"
)

// HandleRemoteChangePayload decodes a push payload and handles it.
func (e *syncEngine) HandleRemoteChangePayload(ctx context.Context, payload []byte) error {
	var n models.Notification
	if err := json.Unmarshal(payload, &n); err != nil {
		return fmt.Errorf("decode notification: %w", err)
	}
	return e.HandleRemoteChangeNotification(ctx, n)
}

// HandleRemoteChangeNotification reacts to one change of a subscribed
// record. Deletions drain the delete queue. Creations and updates fetch
// the record and deliver it to the local store.
func (e *syncEngine) HandleRemoteChangeNotification(ctx context.Context, n models.Notification) error {
	env, err := e.environment()
	if err != nil {
		return err
	}
	log := e.log.With().Str("func", "syncEngine.HandleRemoteChangeNotification").
		Str("sync_id", n.RecordID).Str("reason", string(n.Reason)).Logger()

	if e.machine.isLocked() {
		e.machine.markPending()
		log.Debug().Msg("sync locked, notification deferred to pending sync")
		return nil
	}

	switch n.Reason {
	case models.ReasonRecordDeleted:
		return e.drainDeleteQueue(ctx, env)
	case models.ReasonRecordCreated, models.ReasonRecordUpdated:
	default:
		log.Warn().Msg("unknown notification reason")
		return nil
	}

	rec, err := env.remote.FetchRecord(ctx, n.RecordID)
	if errors.Is(err, adapter.ErrNotFound) {
		log.Debug().Msg("notified record is gone")
		return nil
	}
	if err != nil {
		e.noteRemoteError(err)
		return fmt.Errorf("%w: fetch notified record %s: %w", ErrRemoteRead, n.RecordID, err)
	}

	switch rec.Type {
	case models.DeleteQueueRecordType:
		entry := models.DeleteQueueEntryFromRecord(rec)
		if entry.TargetDeviceID != env.deviceID {
			return nil
		}
		e.deliverDeletes(ctx, env, SyncBatch{Deleted: []models.DeleteInfo{deleteInfo(env, entry)}}, []string{entry.ID})
		return nil

	case models.DeviceRecordType:
		if n.Reason != models.ReasonRecordCreated {
			return nil
		}
		dev := models.DeviceFromRecord(rec)
		if e.devices.addPeer(dev.DeviceID) {
			log.Info().Str("device_id", dev.DeviceID).Msg("peer device registered")
		}
		return nil
	}

	d := env.registry.LookupRemote(rec.Type)
	if d == nil {
		log.Debug().Str("record_type", rec.Type).Msg("record type not registered")
		return nil
	}
	if env.isIgnored(rec.ID) {
		return nil
	}

	batch := SyncBatch{EntityType: d.Name}
	return e.callback.Do(ctx, func(ctx context.Context) error {
		local, err := e.local.FetchEntity(ctx, d.Name, rec.ID)
		if err != nil {
			return err
		}
		switch {
		case isNilEntity(local):
			batch.New = append(batch.New, rec)
		case remoteTimestamp(d, rec).After(d.ChangeTimestamp(local)):
			batch.Updated = append(batch.Updated, rec)
		default:
			return nil
		}
		e.local.OnSyncFinished(ctx, batch, finishOnce(func(context.Context) error { return nil }))
		return nil
	})
}
