// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-record-sync/internal/config"
	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/internal/utils"
	"github.com/MKhiriev/go-record-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSignKey = "test-sign-key"
	testIssuer  = "test-issuer"
)

var testNS = models.Namespace{Container: "notes", Scope: models.ScopePrivate}

// newTestStore creates an httpRemoteStore pointed at the test server
func newTestStore(t *testing.T, serverURL string) *httpRemoteStore {
	t.Helper()
	adapterCfg := config.Adapter{HTTPAddress: serverURL, RequestTimeout: 2 * time.Second}
	appCfg := config.App{TokenSignKey: testSignKey, TokenIssuer: testIssuer, TokenDuration: time.Hour}

	s, err := NewHTTPRemoteStore(adapterCfg, appCfg, testNS, "dev-1", logger.Nop())
	require.NoError(t, err)
	return s.(*httpRemoteStore)
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	assert.NoError(t, json.NewEncoder(w).Encode(v))
}

// ── Constructor ────────────────────────────────────────────────────────────

func TestNewHTTPRemoteStore_Validation(t *testing.T) {
	app := config.App{TokenSignKey: testSignKey, TokenIssuer: testIssuer, TokenDuration: time.Hour}

	tests := []struct {
		name     string
		addr     string
		ns       models.Namespace
		deviceID string
		wantErr  bool
	}{
		{"ok without scheme", "localhost:8080", testNS, "dev", false},
		{"empty address", "", testNS, "dev", true},
		{"bad scope", "http://localhost", models.Namespace{Container: "c", Scope: "shared"}, "dev", true},
		{"empty container", "http://localhost", models.Namespace{Scope: models.ScopePublic}, "dev", true},
		{"empty device", "http://localhost", testNS, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHTTPRemoteStore(config.Adapter{HTTPAddress: tt.addr}, app, tt.ns, tt.deviceID, logger.Nop())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeBaseURL(t *testing.T) {
	got, err := normalizeBaseURL(" example.com:9000/ ")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com:9000", got)

	_, err = normalizeBaseURL("http://")
	assert.Error(t, err)
}

// ── Auth ───────────────────────────────────────────────────────────────────

func TestRequests_CarryDeviceToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := utils.ParseBearerToken(r.Header.Get("Authorization"))
		assert.NoError(t, err)

		token, err := utils.ValidateAndParseDeviceToken(raw, testSignKey, testIssuer)
		assert.NoError(t, err)
		assert.Equal(t, "dev-1", token.DeviceID)
		assert.Equal(t, "notes", token.Container)

		writeJSON(t, w, models.StatusResponse{Container: "notes", Scope: "private", Account: models.AccountAvailable})
	}))
	defer srv.Close()

	s := newTestStore(t, srv.URL)
	_, err := s.Status(context.Background())
	require.NoError(t, err)

	first := s.token
	_, err = s.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, s.token, "token is cached between requests")
}

// ── Status ─────────────────────────────────────────────────────────────────

func TestStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/containers/notes/private/status", r.URL.Path)
		writeJSON(t, w, models.StatusResponse{Container: "notes", Scope: "private", Account: models.AccountAvailable})
	}))
	defer srv.Close()

	got, err := newTestStore(t, srv.URL).Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.AccountAvailable, got.Account)
}

func TestStatus_UnknownContainer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "container not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestStore(t, srv.URL).Status(context.Background())
	require.ErrorIs(t, err, ErrContainerNotFound)
}

func TestStatus_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestStore(t, url).Status(context.Background())
	require.ErrorIs(t, err, ErrTransport)
}

func TestStatus_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	s, err := NewHTTPRemoteStore(
		config.Adapter{HTTPAddress: srv.URL, RequestTimeout: 50 * time.Millisecond},
		config.App{TokenSignKey: testSignKey, TokenIssuer: testIssuer, TokenDuration: time.Hour},
		testNS, "dev-1", logger.Nop(),
	)
	require.NoError(t, err)

	_, err = s.Status(context.Background())
	require.ErrorIs(t, err, ErrTransport)
}

// ── Records ────────────────────────────────────────────────────────────────

func TestFetchRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/containers/notes/private/records/n1", r.URL.Path)
		rec := models.NewRecord("Note", "n1")
		rec.Set("title", models.StringValue("hi"))
		writeJSON(t, w, rec)
	}))
	defer srv.Close()

	rec, err := newTestStore(t, srv.URL).FetchRecord(context.Background(), "n1")
	require.NoError(t, err)
	assert.Equal(t, "n1", rec.ID)
	assert.Equal(t, "hi", rec.StringField("title"))
}

func TestFetchRecord_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "record was not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestStore(t, srv.URL).FetchRecord(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFetchRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/containers/notes/private/records/fetch", r.URL.Path)

		var req models.FetchRecordsRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"a", "b"}, req.IDs)

		writeJSON(t, w, models.RecordsResponse{Records: []models.Record{models.NewRecord("Note", "a")}, Length: 1})
	}))
	defer srv.Close()

	recs, err := newTestStore(t, srv.URL).FetchRecords(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "a", recs[0].ID)
}

func TestFetchRecords_EmptySkipsRoundTrip(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	s := newTestStore(t, srv.URL)
	recs, err := s.FetchRecords(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, recs)

	ids, err := s.DeleteRecords(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, ids)

	assert.Zero(t, calls.Load())
}

func TestSaveRecord(t *testing.T) {
	modified := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/containers/notes/private/records", r.URL.Path)

		var req models.SaveRecordsRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if !assert.Len(t, req.Records, 1) {
			return
		}
		assert.Equal(t, 1, req.Length)

		rec := req.Records[0]
		rec.ModifiedAt = modified
		writeJSON(t, w, models.RecordsResponse{Records: []models.Record{rec}, Length: 1})
	}))
	defer srv.Close()

	in := models.NewRecord("Note", "n1")
	in.Set("title", models.StringValue("hello"))

	out, err := newTestStore(t, srv.URL).SaveRecord(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "hello", out.StringField("title"))
	assert.True(t, modified.Equal(out.ModifiedAt))
}

func TestSaveRecord_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestStore(t, srv.URL).SaveRecord(context.Background(), models.NewRecord("Note", "n1"))
	require.ErrorIs(t, err, ErrInternalServerError)
}

func TestDeleteRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/containers/notes/private/records", r.URL.Path)

		var req models.DeleteRecordsRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		writeJSON(t, w, models.DeletedRecordsResponse{IDs: append(req.IDs, "child"), Length: len(req.IDs) + 1})
	}))
	defer srv.Close()

	ids, err := newTestStore(t, srv.URL).DeleteRecords(context.Background(), []string{"f1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"f1", "child"}, ids)
}

func TestQueryRecords(t *testing.T) {
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/containers/notes/private/records/query", r.URL.Path)

		var q models.RecordQuery
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&q))
		assert.Equal(t, "DeleteQueue", q.RecordType)
		assert.True(t, since.Equal(q.ModifiedAfter))
		assert.Equal(t, map[string]string{models.DeleteQueueDeviceField: "dev-1"}, q.Equals)

		writeJSON(t, w, models.RecordsResponse{})
	}))
	defer srv.Close()

	recs, err := newTestStore(t, srv.URL).QueryRecords(context.Background(), models.RecordQuery{
		RecordType:    "DeleteQueue",
		ModifiedAfter: since,
		Equals:        map[string]string{models.DeleteQueueDeviceField: "dev-1"},
	})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

// ── Subscriptions ──────────────────────────────────────────────────────────

func TestSubscriptions(t *testing.T) {
	sub := models.Subscription{ID: "s1", RecordType: "Note", Events: []models.SubscriptionEvent{models.EventRecordCreated}}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/containers/notes/private/subscriptions":
			writeJSON(t, w, models.SubscriptionsResponse{Subscriptions: []models.Subscription{sub}, Length: 1})
		case r.Method == http.MethodPut && r.URL.Path == "/api/containers/notes/private/subscriptions":
			var got models.Subscription
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			assert.Equal(t, sub, got)
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodDelete && r.URL.Path == "/api/containers/notes/private/subscriptions/s1":
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodDelete:
			http.Error(w, "subscription was not found", http.StatusNotFound)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	s := newTestStore(t, srv.URL)
	ctx := context.Background()

	subs, err := s.Subscriptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Subscription{sub}, subs)

	require.NoError(t, s.SaveSubscription(ctx, sub))
	require.NoError(t, s.DeleteSubscription(ctx, "s1"))
	require.ErrorIs(t, s.DeleteSubscription(ctx, "other"), ErrNotFound)
}

// ── Error mapping ──────────────────────────────────────────────────────────

func TestMapHTTPError(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, ErrBadRequest},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
		{http.StatusBadGateway, ErrBadGateway},
		{http.StatusInternalServerError, ErrInternalServerError},
		{http.StatusServiceUnavailable, ErrTransport},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := newTestStore(t, srv.URL).FetchRecord(context.Background(), "x")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMapHTTPError_UnknownStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	_, err := newTestStore(t, srv.URL).FetchRecord(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 418")
}
