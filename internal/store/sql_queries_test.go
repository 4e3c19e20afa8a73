// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-record-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNS = models.Namespace{Container: "notes", Scope: models.ScopePrivate}

func Test_buildGetRecordsQuery(t *testing.T) {
	query, args, err := buildGetRecordsQuery(testNS, []string{"a", "b"})
	require.NoError(t, err)

	q := strings.ToLower(query)
	require.Contains(t, q, "from records")
	for _, c := range recordColumns {
		require.Contains(t, q, c)
	}
	require.Contains(t, q, "id in ($3,$4)")
	require.Contains(t, q, "order by modified_at asc, id asc")

	assert.Equal(t, []any{"notes", "private", "a", "b"}, args)
}

func Test_buildQueryRecordsQuery(t *testing.T) {
	after := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name         string
		query        models.RecordQuery
		wantContains []string
		wantMissing  []string
		wantArgs     []any
	}{
		{
			name:         "type only",
			query:        models.RecordQuery{RecordType: "Note"},
			wantContains: []string{"record_type = $3"},
			wantMissing:  []string{"modified_at >", "limit", "fields ->"},
			wantArgs:     []any{"notes", "private", "Note"},
		},
		{
			name:         "modified after",
			query:        models.RecordQuery{RecordType: "Note", ModifiedAfter: after},
			wantContains: []string{"modified_at > $4"},
			wantArgs:     []any{"notes", "private", "Note", after},
		},
		{
			name: "equality filters are sorted by field",
			query: models.RecordQuery{
				RecordType: "DeleteQueue",
				Equals:     map[string]string{"b": "2", "a": "1"},
				Limit:      10,
			},
			wantContains: []string{
				"fields -> $4::text ->> 'value' = $5",
				"fields -> $6::text ->> 'value' = $7",
				"limit 10",
			},
			wantArgs: []any{"notes", "private", "DeleteQueue", "a", "1", "b", "2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildQueryRecordsQuery(testNS, tt.query)
			require.NoError(t, err)

			q := strings.ToLower(query)
			for _, s := range tt.wantContains {
				assert.Contains(t, q, s)
			}
			for _, s := range tt.wantMissing {
				assert.NotContains(t, q, s)
			}
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func Test_buildDeleteRecordsQuery(t *testing.T) {
	query, args, err := buildDeleteRecordsQuery(testNS, []string{"x", "y"})
	require.NoError(t, err)

	q := strings.ToLower(query)
	require.Contains(t, q, "with recursive doomed")
	require.Contains(t, q, "delete from records")
	require.Contains(t, q, "returning id")
	require.Contains(t, q, "'delete_self'")
	require.NotContains(t, q, "?")

	// seed placeholders come first, then the two namespace pairs
	require.Contains(t, q, "id in ($3,$4)")
	require.Contains(t, q, "r.container = $5 and r.scope = $6")
	require.Contains(t, q, "container = $7 and scope = $8")

	assert.Equal(t, []any{"notes", "private", "x", "y", "notes", "private", "notes", "private"}, args)
}
