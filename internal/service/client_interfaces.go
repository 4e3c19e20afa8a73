// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-record-sync/internal/registry"
	"github.com/MKhiriev/go-record-sync/models"
)

// EntityStore is implemented by the application that owns the local
// objects. The engine calls it on a single callback context, one call at a
// time, so implementations need no locking of their own.
type EntityStore interface {
	// CreateEntity instantiates a new local object of the given type.
	CreateEntity(ctx context.Context, entityType string) (registry.Entity, error)
	// FetchEntity returns the local object bound to syncID, or nil.
	FetchEntity(ctx context.Context, entityType, syncID string) (registry.Entity, error)
	// AllEntities enumerates every local object of a type.
	AllEntities(ctx context.Context, entityType string) ([]registry.Entity, error)
	// OnSyncFinished delivers one reconciliation or delete-queue batch.
	// finish must be called once the local changes are applied; until then
	// the cursor does not advance and delete-queue entries stay remote.
	OnSyncFinished(ctx context.Context, batch SyncBatch, finish FinishFunc)
}

// SaveObserver is an optional extension of EntityStore. When implemented
// it is told about every remote write attempt and every hydration.
type SaveObserver interface {
	OnEntitySaved(ctx context.Context, entity registry.Entity, rec *models.Record, err error)
}

// FinishFunc acknowledges a SyncBatch. Calls after the first return
// ErrFinishCalled.
type FinishFunc func(ctx context.Context) error

// SyncBatch is the result of one sync cycle for one entity type. Deleted
// entries come from the delete queue and may span several types, in which
// case EntityType is empty.
type SyncBatch struct {
	EntityType string
	New        []models.Record
	Updated    []models.Record
	Deleted    []models.DeleteInfo
}

// SetupConfig is the setup surface of the engine.
type SetupConfig struct {
	ContainerID          string
	Scope                string
	SyncIDField          string
	ChangeTimestampField string
	Types                []registry.EntityDescriptor
	IgnoredSyncIDs       []string
	// DeviceID is generated and persisted on first setup when empty.
	DeviceID string
}

// SyncEngine keeps local entities and the remote record store in sync.
//
// Blocking calls (Save, SaveFields, SyncAll, SyncTypes, SyncType) must not
// be made from inside an EntityStore callback; they return
// ErrCallbackReentry there. SaveAsync and Delete may be.
type SyncEngine interface {
	Setup(ctx context.Context, cfg SetupConfig) error

	// Start launches the periodic validation and delete-queue workers.
	Start(ctx context.Context)
	// Stop stops the workers and waits for background saves.
	Stop()

	LockSync(locked bool)
	State() SyncState
	ValidateSync(ctx context.Context) bool

	Save(ctx context.Context, entity registry.Entity) (models.Record, error)
	SaveFields(ctx context.Context, entity registry.Entity, fields ...string) (models.Record, error)
	SaveAsync(ctx context.Context, entity registry.Entity)

	Delete(ctx context.Context, entity registry.Entity) error

	SyncAll(ctx context.Context, forced bool) error
	SyncTypes(ctx context.Context, entityTypes []string, forced bool) error
	SyncType(ctx context.Context, entityType string, forced bool) error

	DrainDeleteQueue(ctx context.Context) error

	// UpdateEntity copies rec onto entity and, when fetchReferences is
	// set, resolves its references into local entities.
	UpdateEntity(ctx context.Context, entity registry.Entity, rec models.Record, fetchReferences bool) error

	HandleRemoteChangeNotification(ctx context.Context, n models.Notification) error
	HandleRemoteChangePayload(ctx context.Context, payload []byte) error

	DeviceID() string
	KnownDevices() []string
}
