// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/models"
)

// recordRepository is the PostgreSQL-backed implementation of
// [RecordRepository].
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced
// with the request's fields.
type recordRepository struct {
	*DB
	logger *logger.Logger
}

// NewRecordRepository constructs a [RecordRepository] backed by db.
func NewRecordRepository(db *DB, logger *logger.Logger) RecordRepository {
	return &recordRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *recordRepository) EnsureContainer(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, ensureContainer, id); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "recordRepository.EnsureContainer").
			Str("container", id).
			Msg("failed to create container")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (r *recordRepository) ContainerExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.DB.QueryRowContext(ctx, containerExists, id).Scan(&exists); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "recordRepository.ContainerExists").
			Str("container", id).
			Msg("failed to check container")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return exists, nil
}

// maxSaveAttempts bounds how often a save transaction is replayed after a
// serialization failure or deadlock.
const maxSaveAttempts = 3

// SaveRecords upserts every record and replaces its outgoing reference
// edges inside one transaction.
func (r *recordRepository) SaveRecords(ctx context.Context, ns models.Namespace, deviceID string, records ...models.Record) ([]models.Record, error) {
	if len(records) == 0 {
		return []models.Record{}, nil
	}

	var (
		saved []models.Record
		err   error
	)
	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		saved, err = r.saveRecords(ctx, ns, deviceID, records)
		if err == nil || attempt == maxSaveAttempts || !r.Retryable(err) || ctx.Err() != nil {
			break
		}
		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "recordRepository.SaveRecords").
			Int("attempt", attempt).
			Msg("retrying save transaction")
	}
	return saved, err
}

func (r *recordRepository) saveRecords(ctx context.Context, ns models.Namespace, deviceID string, records []models.Record) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "recordRepository.SaveRecords").Msg("failed to begin transaction")
		return nil, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback() //nolint:errcheck

	saved := make([]models.Record, 0, len(records))
	for i, rec := range records {
		fields, err := encodeFields(rec.Fields)
		if err != nil {
			log.Err(err).
				Str("func", "recordRepository.SaveRecords").
				Str("record_id", rec.ID).
				Int("iteration", i).
				Msg("failed to encode record fields")
			return nil, err
		}

		if err := tx.QueryRowContext(ctx, upsertRecord,
			ns.Container, ns.Scope, rec.ID, rec.Type, fields, deviceID,
		).Scan(&rec.CreatedAt, &rec.ModifiedAt); err != nil {
			log.Err(err).
				Str("func", "recordRepository.SaveRecords").
				Str("record_id", rec.ID).
				Str("record_type", rec.Type).
				Msg("failed to upsert record")
			return nil, mapWriteError(err)
		}

		if err := replaceRefs(ctx, tx, ns, rec); err != nil {
			log.Err(err).
				Str("func", "recordRepository.SaveRecords").
				Str("record_id", rec.ID).
				Msg("failed to store record references")
			return nil, err
		}

		saved = append(saved, rec)
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).Str("func", "recordRepository.SaveRecords").Msg("failed to commit transaction")
		return nil, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return saved, nil
}

func replaceRefs(ctx context.Context, tx *sql.Tx, ns models.Namespace, rec models.Record) error {
	if _, err := tx.ExecContext(ctx, deleteRecordRefs, ns.Container, ns.Scope, rec.ID); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	// one edge per target; delete_self wins over none
	actions := make(map[string]models.ReferenceAction)
	var order []string
	for _, ref := range rec.References() {
		if ref.RecordID == "" {
			continue
		}
		prev, seen := actions[ref.RecordID]
		if !seen {
			order = append(order, ref.RecordID)
		}
		if !seen || prev != models.ReferenceActionDeleteSelf {
			actions[ref.RecordID] = normalizeAction(ref.Action)
		}
	}

	for _, target := range order {
		if _, err := tx.ExecContext(ctx, insertRecordRef,
			ns.Container, ns.Scope, rec.ID, target, string(actions[target]),
		); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}
	return nil
}

func normalizeAction(a models.ReferenceAction) models.ReferenceAction {
	if a == models.ReferenceActionDeleteSelf {
		return a
	}
	return models.ReferenceActionNone
}

func (r *recordRepository) GetRecords(ctx context.Context, ns models.Namespace, ids ...string) ([]models.Record, error) {
	if len(ids) == 0 {
		return []models.Record{}, nil
	}

	query, args, err := buildGetRecordsQuery(ns, ids)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "recordRepository.GetRecords").Msg("failed to create query")
		return nil, err
	}

	return r.selectRecords(ctx, "recordRepository.GetRecords", query, args)
}

func (r *recordRepository) QueryRecords(ctx context.Context, ns models.Namespace, q models.RecordQuery) ([]models.Record, error) {
	query, args, err := buildQueryRecordsQuery(ns, q)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "recordRepository.QueryRecords").
			Str("record_type", q.RecordType).
			Msg("failed to create query")
		return nil, err
	}

	return r.selectRecords(ctx, "recordRepository.QueryRecords", query, args)
}

func (r *recordRepository) selectRecords(ctx context.Context, fn, query string, args []any) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", fn).Msg("failed to execute query for records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	results := make([]models.Record, 0, 16)
	for rows.Next() {
		var (
			rec    models.Record
			fields []byte
		)
		if err := rows.Scan(&rec.ID, &rec.Type, &fields, &rec.CreatedAt, &rec.ModifiedAt); err != nil {
			log.Err(err).Str("func", fn).Msg("failed to scan record row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		if rec.Fields, err = decodeFields(fields); err != nil {
			log.Err(err).Str("func", fn).Str("record_id", rec.ID).Msg("failed to decode record fields")
			return nil, err
		}
		results = append(results, rec)
	}

	if err := rows.Err(); err != nil {
		log.Err(err).Str("func", fn).Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return results, nil
}

func (r *recordRepository) DeleteRecords(ctx context.Context, ns models.Namespace, ids ...string) ([]string, error) {
	log := logger.FromContext(ctx)
	if len(ids) == 0 {
		return []string{}, nil
	}

	query, args, err := buildDeleteRecordsQuery(ns, ids)
	if err != nil {
		log.Err(err).Str("func", "recordRepository.DeleteRecords").Msg("failed to create query")
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.DeleteRecords").
			Int("ids count", len(ids)).
			Msg("failed to delete records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	defer rows.Close()

	deleted := make([]string, 0, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			log.Err(err).Str("func", "recordRepository.DeleteRecords").Msg("failed to scan deleted id")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		deleted = append(deleted, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return deleted, nil
}

func (r *recordRepository) ListSubscriptions(ctx context.Context, ns models.Namespace, deviceID string) ([]models.Subscription, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, listSubscriptions, ns.Container, ns.Scope, deviceID)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.ListSubscriptions").
			Str("device_id", deviceID).
			Msg("failed to list subscriptions")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	subs := make([]models.Subscription, 0, 8)
	for rows.Next() {
		var (
			sub    models.Subscription
			events string
		)
		if err := rows.Scan(&sub.ID, &sub.RecordType, &events); err != nil {
			log.Err(err).Str("func", "recordRepository.ListSubscriptions").Msg("failed to scan subscription row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		sub.Events = splitEvents(events)
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return subs, nil
}

func (r *recordRepository) SaveSubscription(ctx context.Context, ns models.Namespace, deviceID string, sub models.Subscription) error {
	if _, err := r.DB.ExecContext(ctx, upsertSubscription,
		ns.Container, ns.Scope, deviceID, sub.ID, sub.RecordType, joinEvents(sub.Events),
	); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "recordRepository.SaveSubscription").
			Str("device_id", deviceID).
			Str("record_type", sub.RecordType).
			Msg("failed to save subscription")
		return mapWriteError(err)
	}
	return nil
}

func (r *recordRepository) DeleteSubscription(ctx context.Context, ns models.Namespace, deviceID, id string) error {
	res, err := r.DB.ExecContext(ctx, deleteSubscription, ns.Container, ns.Scope, deviceID, id)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "recordRepository.DeleteSubscription").
			Str("subscription_id", id).
			Msg("failed to delete subscription")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if n == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func encodeFields(fields map[string]models.Value) ([]byte, error) {
	if fields == nil {
		fields = map[string]models.Value{}
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodingFields, err)
	}
	return b, nil
}

func decodeFields(b []byte) (map[string]models.Value, error) {
	fields := make(map[string]models.Value)
	if len(b) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodingFields, err)
	}
	return fields, nil
}

func joinEvents(events []models.SubscriptionEvent) string {
	parts := make([]string, len(events))
	for i, e := range events {
		parts[i] = string(e)
	}
	return strings.Join(parts, ",")
}

func splitEvents(s string) []models.SubscriptionEvent {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	events := make([]models.SubscriptionEvent, len(parts))
	for i, p := range parts {
		events[i] = models.SubscriptionEvent(p)
	}
	return events
}

