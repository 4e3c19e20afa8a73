package store

import (
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-record-sync/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var recordColumns = []string{"id", "record_type", "fields", "created_at", "modified_at"}

const (
	ensureContainer = `INSERT INTO containers (id) VALUES ($1) ON CONFLICT (id) DO NOTHING;`

	containerExists = `SELECT EXISTS (SELECT 1 FROM containers WHERE id = $1);`

	upsertRecord = `INSERT INTO records (container, scope, id, record_type, fields, modified_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (container, scope, id) DO UPDATE
		SET record_type = EXCLUDED.record_type,
			fields      = EXCLUDED.fields,
			modified_by = EXCLUDED.modified_by,
			modified_at = clock_timestamp()
		RETURNING created_at, modified_at;`

	deleteRecordRefs = `DELETE FROM record_refs WHERE container = $1 AND scope = $2 AND source_id = $3;`

	insertRecordRef = `INSERT INTO record_refs (container, scope, source_id, target_id, action)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (container, scope, source_id, target_id) DO UPDATE SET action = EXCLUDED.action;`

	// deleteRecordsCascade wraps a seed SELECT of record ids
	deleteRecordsCascade = `WITH RECURSIVE doomed(id) AS (
			%s
			UNION
			SELECT r.source_id FROM record_refs r JOIN doomed d ON r.target_id = d.id
			WHERE r.container = ? AND r.scope = ? AND r.action = 'delete_self'
		)
		DELETE FROM records
		WHERE container = ? AND scope = ? AND id IN (SELECT id FROM doomed)
		RETURNING id;`

	listSubscriptions = `SELECT id, record_type, events FROM subscriptions
		WHERE container = $1 AND scope = $2 AND device_id = $3
		ORDER BY created_at, id;`

	upsertSubscription = `INSERT INTO subscriptions (container, scope, device_id, id, record_type, events)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (container, scope, device_id, id) DO UPDATE
		SET record_type = EXCLUDED.record_type, events = EXCLUDED.events;`

	deleteSubscription = `DELETE FROM subscriptions
		WHERE container = $1 AND scope = $2 AND device_id = $3 AND id = $4;`
)

func inNamespace(ns models.Namespace) sq.Eq {
	return sq.Eq{"container": ns.Container, "scope": ns.Scope}
}

// buildGetRecordsQuery selects records by id.
func buildGetRecordsQuery(ns models.Namespace, ids []string) (string, []any, error) {
	query, args, err := psql.Select(recordColumns...).
		From("records").
		Where(inNamespace(ns)).
		Where(sq.Eq{"id": ids}).
		OrderBy("modified_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildQueryRecordsQuery translates a RecordQuery: the record type, an
// optional strict lower bound on modified_at, and string field equality.
func buildQueryRecordsQuery(ns models.Namespace, q models.RecordQuery) (string, []any, error) {
	builder := psql.Select(recordColumns...).
		From("records").
		Where(inNamespace(ns)).
		Where(sq.Eq{"record_type": q.RecordType})

	if !q.ModifiedAfter.IsZero() {
		builder = builder.Where(sq.Gt{"modified_at": q.ModifiedAfter.UTC()})
	}

	fields := make([]string, 0, len(q.Equals))
	for field := range q.Equals {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		builder = builder.Where(sq.Expr("fields -> ?::text ->> 'value' = ?", field, q.Equals[field]))
	}

	builder = builder.OrderBy("modified_at ASC", "id ASC")
	if q.Limit > 0 {
		builder = builder.Limit(q.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildDeleteRecordsQuery builds the cascading delete for ids.
func buildDeleteRecordsQuery(ns models.Namespace, ids []string) (string, []any, error) {
	seed, seedArgs, err := sq.Select("id").
		From("records").
		Where(sq.And{
			sq.Eq{"container": ns.Container},
			sq.Eq{"scope": ns.Scope},
			sq.Eq{"id": ids},
		}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	args := append(seedArgs, ns.Container, ns.Scope, ns.Container, ns.Scope)
	query, err := sq.Dollar.ReplacePlaceholders(fmt.Sprintf(deleteRecordsCascade, seed))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
