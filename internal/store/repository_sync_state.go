package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/models"
)

const (
	getCursor = `SELECT last_sync_at FROM sync_cursors WHERE record_type = ?;`
	setCursor = `INSERT INTO sync_cursors (record_type, last_sync_at) VALUES (?, ?)
		ON CONFLICT (record_type) DO UPDATE SET last_sync_at = excluded.last_sync_at;`

	addPendingDelete = `INSERT INTO pending_deletes (sync_id, record_type, created_at) VALUES (?, ?, ?)
		ON CONFLICT (sync_id) DO UPDATE SET record_type = excluded.record_type;`
	removePendingDelete = `DELETE FROM pending_deletes WHERE sync_id = ?;`
	listPendingDeletes  = `SELECT sync_id, record_type, created_at FROM pending_deletes ORDER BY created_at, sync_id;`

	getMeta = `SELECT value FROM sync_meta WHERE key = ?;`
	setMeta = `INSERT INTO sync_meta (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value;`
)

// syncStateRepository is the SQLite-backed [SyncStateRepository]. Times
// are stored as unix nanoseconds.
type syncStateRepository struct {
	*DB
	logger *logger.Logger
}

// NewSyncStateRepository constructs a [SyncStateRepository] backed by db.
func NewSyncStateRepository(db *DB, logger *logger.Logger) SyncStateRepository {
	return &syncStateRepository{DB: db, logger: logger}
}

func (s *syncStateRepository) GetCursor(ctx context.Context, recordType string) (time.Time, error) {
	var nanos int64
	err := s.DB.QueryRowContext(ctx, getCursor, recordType).Scan(&nanos)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return time.Time{}, nil
	case err != nil:
		s.logger.Err(err).
			Str("func", "syncStateRepository.GetCursor").
			Str("record_type", recordType).
			Msg("failed to read sync cursor")
		return time.Time{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if nanos == 0 {
		return time.Time{}, nil
	}
	return time.Unix(0, nanos).UTC(), nil
}

func (s *syncStateRepository) SetCursor(ctx context.Context, recordType string, at time.Time) error {
	var nanos int64
	if !at.IsZero() {
		nanos = at.UnixNano()
	}

	if _, err := s.DB.ExecContext(ctx, setCursor, recordType, nanos); err != nil {
		s.logger.Err(err).
			Str("func", "syncStateRepository.SetCursor").
			Str("record_type", recordType).
			Msg("failed to store sync cursor")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (s *syncStateRepository) AddPendingDelete(ctx context.Context, syncID, recordType string) error {
	if _, err := s.DB.ExecContext(ctx, addPendingDelete, syncID, recordType, time.Now().UnixNano()); err != nil {
		s.logger.Err(err).
			Str("func", "syncStateRepository.AddPendingDelete").
			Str("sync_id", syncID).
			Msg("failed to store pending delete")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (s *syncStateRepository) RemovePendingDelete(ctx context.Context, syncID string) error {
	if _, err := s.DB.ExecContext(ctx, removePendingDelete, syncID); err != nil {
		s.logger.Err(err).
			Str("func", "syncStateRepository.RemovePendingDelete").
			Str("sync_id", syncID).
			Msg("failed to remove pending delete")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (s *syncStateRepository) PendingDeletes(ctx context.Context) ([]models.PendingDelete, error) {
	rows, err := s.DB.QueryContext(ctx, listPendingDeletes)
	if err != nil {
		s.logger.Err(err).Str("func", "syncStateRepository.PendingDeletes").Msg("failed to list pending deletes")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var out []models.PendingDelete
	for rows.Next() {
		var (
			pd    models.PendingDelete
			nanos int64
		)
		if err := rows.Scan(&pd.SyncID, &pd.RecordType, &nanos); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		pd.CreatedAt = time.Unix(0, nanos).UTC()
		out = append(out, pd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	return out, nil
}

func (s *syncStateRepository) GetMeta(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.DB.QueryRowContext(ctx, getMeta, key).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		s.logger.Err(err).Str("func", "syncStateRepository.GetMeta").Str("key", key).Msg("failed to read metadata")
		return "", false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return value, true, nil
}

func (s *syncStateRepository) SetMeta(ctx context.Context, key, value string) error {
	if _, err := s.DB.ExecContext(ctx, setMeta, key, value); err != nil {
		s.logger.Err(err).Str("func", "syncStateRepository.SetMeta").Str("key", key).Msg("failed to store metadata")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}
