package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-record-sync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// SyncStateRepository persists the client's sync cursors, pending deletes
// and small key/value metadata such as the device id.
type SyncStateRepository interface {
	// GetCursor returns the last sync time of a record type, or the zero
	// time when the type was never synced.
	GetCursor(ctx context.Context, recordType string) (time.Time, error)
	// SetCursor stores the last sync time of a record type.
	SetCursor(ctx context.Context, recordType string, at time.Time) error

	// AddPendingDelete records a deferred delete. Adding the same sync-id
	// again replaces its record type.
	AddPendingDelete(ctx context.Context, syncID, recordType string) error
	// RemovePendingDelete forgets a deferred delete.
	RemovePendingDelete(ctx context.Context, syncID string) error
	// PendingDeletes lists deferred deletes, oldest first.
	PendingDeletes(ctx context.Context) ([]models.PendingDelete, error)

	// GetMeta returns a metadata value and whether it was set.
	GetMeta(ctx context.Context, key string) (string, bool, error)
	// SetMeta stores a metadata value.
	SetMeta(ctx context.Context, key, value string) error
}

// FileStorage keeps one JSON document on disk.
type FileStorage interface {
	// Load decodes the stored document into v. It reports false when
	// nothing was stored yet.
	Load(v any) (bool, error)
	// Save replaces the stored document with v.
	Save(v any) error
}
