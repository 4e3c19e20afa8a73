package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-record-sync/internal/config"
	"github.com/MKhiriev/go-record-sync/internal/logger"
)

// ClientStorages groups the client-side repositories.
type ClientStorages struct {
	// SyncState holds cursors, pending deletes and the device id.
	SyncState SyncStateRepository

	db *DB
}

// NewClientStorages opens and migrates the client's SQLite database.
func NewClientStorages(ctx context.Context, cfg config.DB, log *logger.Logger) (*ClientStorages, error) {
	db, err := NewConnectSQLite(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("error connecting to local DB: %w", err)
	}

	if err := db.Migrate(); err != nil {
		log.Err(err).Str("func", "NewClientStorages").Msg("error migrating local DB")
		_ = db.Close()
		return nil, fmt.Errorf("error migrating local DB: %w", err)
	}

	return &ClientStorages{
		SyncState: NewSyncStateRepository(db, log),
		db:        db,
	}, nil
}

// Close closes the underlying database.
func (s *ClientStorages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
