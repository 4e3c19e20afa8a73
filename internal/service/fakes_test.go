package service

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-record-sync/internal/adapter"
	"github.com/MKhiriev/go-record-sync/internal/config"
	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/internal/registry"
	"github.com/MKhiriev/go-record-sync/models"
)

// ─────────────────────────────────────────────
// in-memory remote store
// ─────────────────────────────────────────────

type fakeRemote struct {
	mu      sync.Mutex
	records map[string]models.Record
	subs    map[string]models.Subscription
	offline bool
	account models.AccountStatus

	saved     map[string]int
	deletes   [][]string
	batches   [][]models.Record
	fetches   int
	queries   int
	failSaves map[string]error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		records:   make(map[string]models.Record),
		subs:      make(map[string]models.Subscription),
		account:   models.AccountAvailable,
		saved:     make(map[string]int),
		failSaves: make(map[string]error),
	}
}

func (f *fakeRemote) setOffline(offline bool) {
	f.mu.Lock()
	f.offline = offline
	f.mu.Unlock()
}

func (f *fakeRemote) put(rec models.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec.ModifiedAt.IsZero() {
		rec.ModifiedAt = time.Now().UTC()
	}
	f.records[rec.ID] = rec
}

func (f *fakeRemote) get(id string) (models.Record, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	return rec, ok
}

func (f *fakeRemote) ofType(recordType string) []models.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Record
	for _, rec := range f.records {
		if rec.Type == recordType {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeRemote) saveCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved[id]
}

func (f *fakeRemote) deleteCalls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.deletes)
}

func (f *fakeRemote) batchCalls() [][]models.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.batches)
}

func (f *fakeRemote) subscriptions() map[string]models.Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]models.Subscription, len(f.subs))
	for k, v := range f.subs {
		out[k] = v
	}
	return out
}

func (f *fakeRemote) down() error {
	if f.offline {
		return fmt.Errorf("%w: connection refused", adapter.ErrTransport)
	}
	return nil
}

func (f *fakeRemote) Status(context.Context) (models.StatusResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.down(); err != nil {
		return models.StatusResponse{}, err
	}
	return models.StatusResponse{Container: "test", Scope: models.ScopePrivate, Account: f.account}, nil
}

func (f *fakeRemote) FetchRecord(_ context.Context, id string) (models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.down(); err != nil {
		return models.Record{}, err
	}
	f.fetches++
	rec, ok := f.records[id]
	if !ok {
		return models.Record{}, adapter.ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (f *fakeRemote) FetchRecords(_ context.Context, ids []string) ([]models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.down(); err != nil {
		return nil, err
	}
	var out []models.Record
	for _, id := range ids {
		if rec, ok := f.records[id]; ok {
			out = append(out, cloneRecord(rec))
		}
	}
	return out, nil
}

func (f *fakeRemote) SaveRecord(_ context.Context, rec models.Record) (models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.down(); err != nil {
		return models.Record{}, err
	}
	if err := f.failSaves[rec.ID]; err != nil {
		return models.Record{}, err
	}
	return f.store(rec), nil
}

func (f *fakeRemote) SaveRecords(_ context.Context, recs []models.Record) ([]models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.down(); err != nil {
		return nil, err
	}
	f.batches = append(f.batches, recs)
	out := make([]models.Record, 0, len(recs))
	for _, rec := range recs {
		out = append(out, f.store(rec))
	}
	return out, nil
}

func (f *fakeRemote) store(rec models.Record) models.Record {
	rec = cloneRecord(rec)
	now := time.Now().UTC()
	if prev, ok := f.records[rec.ID]; ok {
		rec.CreatedAt = prev.CreatedAt
	} else {
		rec.CreatedAt = now
	}
	rec.ModifiedAt = now
	f.records[rec.ID] = rec
	f.saved[rec.ID]++
	return cloneRecord(rec)
}

func (f *fakeRemote) DeleteRecords(_ context.Context, ids []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.down(); err != nil {
		return nil, err
	}
	f.deletes = append(f.deletes, slices.Clone(ids))

	var deleted []string
	queue := slices.Clone(ids)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if _, ok := f.records[id]; !ok {
			continue
		}
		delete(f.records, id)
		deleted = append(deleted, id)
		for _, rec := range f.records {
			for _, ref := range rec.References() {
				if ref.RecordID == id && ref.Action == models.ReferenceActionDeleteSelf {
					queue = append(queue, rec.ID)
				}
			}
		}
	}
	return deleted, nil
}

func (f *fakeRemote) QueryRecords(_ context.Context, q models.RecordQuery) ([]models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.down(); err != nil {
		return nil, err
	}
	f.queries++

	var out []models.Record
	for _, rec := range f.records {
		if rec.Type != q.RecordType || !rec.ModifiedAt.After(q.ModifiedAfter) {
			continue
		}
		match := true
		for field, want := range q.Equals {
			if rec.StringField(field) != want {
				match = false
			}
		}
		if match {
			out = append(out, cloneRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModifiedAt.Before(out[j].ModifiedAt) })
	return out, nil
}

func (f *fakeRemote) Subscriptions(context.Context) ([]models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.down(); err != nil {
		return nil, err
	}
	out := make([]models.Subscription, 0, len(f.subs))
	for _, s := range f.subs {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeRemote) SaveSubscription(_ context.Context, sub models.Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.down(); err != nil {
		return err
	}
	f.subs[sub.ID] = sub
	return nil
}

func (f *fakeRemote) DeleteSubscription(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.down(); err != nil {
		return err
	}
	delete(f.subs, id)
	return nil
}

func cloneRecord(rec models.Record) models.Record {
	out := rec
	out.Fields = make(map[string]models.Value, len(rec.Fields))
	for k, v := range rec.Fields {
		out.Fields[k] = v
	}
	return out
}

// ─────────────────────────────────────────────
// in-memory sync state
// ─────────────────────────────────────────────

type memState struct {
	mu      sync.Mutex
	cursors map[string]time.Time
	pending map[string]models.PendingDelete
	meta    map[string]string
}

func newMemState() *memState {
	return &memState{
		cursors: make(map[string]time.Time),
		pending: make(map[string]models.PendingDelete),
		meta:    make(map[string]string),
	}
}

func (m *memState) GetCursor(_ context.Context, recordType string) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursors[recordType], nil
}

func (m *memState) SetCursor(_ context.Context, recordType string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursors[recordType] = at
	return nil
}

func (m *memState) AddPendingDelete(_ context.Context, syncID, recordType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[syncID] = models.PendingDelete{SyncID: syncID, RecordType: recordType, CreatedAt: time.Now()}
	return nil
}

func (m *memState) RemovePendingDelete(_ context.Context, syncID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, syncID)
	return nil
}

func (m *memState) PendingDeletes(context.Context) ([]models.PendingDelete, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.PendingDelete, 0, len(m.pending))
	for _, p := range m.pending {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memState) GetMeta(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.meta[key]
	return v, ok, nil
}

func (m *memState) SetMeta(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meta[key] = value
	return nil
}

// ─────────────────────────────────────────────
// local entities
// ─────────────────────────────────────────────

type person struct {
	SID    string
	TS     time.Time
	Name   string
	Friend *person
	Pets   []registry.Entity
}

func (p *person) EntityType() string { return "Person" }

type pet struct {
	SID  string
	TS   time.Time
	Name string
}

func (p *pet) EntityType() string { return "Pet" }

var nobody = &person{Name: "nobody"}

func personDescriptor() registry.EntityDescriptor {
	return registry.EntityDescriptor{
		Name:         "Person",
		RemoteType:   "Person",
		FieldMapping: map[string]string{"name": "name", "ts": "ts"},
		SingleReferences: []registry.ReferenceMapping{
			{LocalField: "friend", RemoteField: "friend", TargetType: "Person"},
		},
		ListReferences: []registry.ReferenceMapping{
			{LocalField: "pets", RemoteField: "pets", TargetType: "Pet"},
		},
		ReferencePlaceholder: nobody,
		Accessors: registry.Accessors{
			"sid": {
				Get: func(e registry.Entity) any { return e.(*person).SID },
				Set: func(e registry.Entity, v any) error { e.(*person).SID = v.(string); return nil },
			},
			"ts": {
				Get: func(e registry.Entity) any { return e.(*person).TS },
				Set: func(e registry.Entity, v any) error { e.(*person).TS = v.(time.Time); return nil },
			},
			"name": {
				Get: func(e registry.Entity) any { return e.(*person).Name },
				Set: func(e registry.Entity, v any) error {
					s, _ := v.(string)
					e.(*person).Name = s
					return nil
				},
			},
			"friend": {
				Get: func(e registry.Entity) any {
					if f := e.(*person).Friend; f != nil {
						return f
					}
					return nil
				},
				Set: func(e registry.Entity, v any) error {
					f, _ := v.(*person)
					e.(*person).Friend = f
					return nil
				},
			},
			"pets": {
				Get: func(e registry.Entity) any { return e.(*person).Pets },
				Set: func(e registry.Entity, v any) error {
					e.(*person).Pets, _ = v.([]registry.Entity)
					return nil
				},
			},
		},
	}
}

func petDescriptor() registry.EntityDescriptor {
	return registry.EntityDescriptor{
		Name:         "Pet",
		RemoteType:   "Pet",
		FieldMapping: map[string]string{"name": "name"},
		IsWeak:       true,
		Accessors: registry.Accessors{
			"sid": {
				Get: func(e registry.Entity) any { return e.(*pet).SID },
				Set: func(e registry.Entity, v any) error { e.(*pet).SID = v.(string); return nil },
			},
			"ts": {
				Get: func(e registry.Entity) any { return e.(*pet).TS },
				Set: func(e registry.Entity, v any) error { e.(*pet).TS = v.(time.Time); return nil },
			},
			"name": {
				Get: func(e registry.Entity) any { return e.(*pet).Name },
				Set: func(e registry.Entity, v any) error {
					s, _ := v.(string)
					e.(*pet).Name = s
					return nil
				},
			},
		},
	}
}

// ─────────────────────────────────────────────
// in-memory local store
// ─────────────────────────────────────────────

type savedEvent struct {
	entity registry.Entity
	rec    *models.Record
	err    error
}

type memStore struct {
	mu         sync.Mutex
	entities   map[string][]registry.Entity
	batches    []SyncBatch
	finishes   []FinishFunc
	saves      []savedEvent
	order      []string
	autoFinish bool
}

func newMemStore(autoFinish bool) *memStore {
	return &memStore{entities: make(map[string][]registry.Entity), autoFinish: autoFinish}
}

func (m *memStore) add(entities ...registry.Entity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entities {
		m.entities[e.EntityType()] = append(m.entities[e.EntityType()], e)
	}
}

func (m *memStore) remove(e registry.Entity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.entities[e.EntityType()]
	for i, x := range list {
		if x == e {
			m.entities[e.EntityType()] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

func (m *memStore) CreateEntity(_ context.Context, entityType string) (registry.Entity, error) {
	var e registry.Entity
	switch entityType {
	case "Person":
		e = &person{}
	case "Pet":
		e = &pet{}
	default:
		return nil, fmt.Errorf("unknown type %s", entityType)
	}
	m.add(e)
	return e, nil
}

func (m *memStore) FetchEntity(_ context.Context, entityType, syncID string) (registry.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entities[entityType] {
		switch v := e.(type) {
		case *person:
			if v.SID == syncID {
				return v, nil
			}
		case *pet:
			if v.SID == syncID {
				return v, nil
			}
		}
	}
	return nil, nil
}

func (m *memStore) AllEntities(_ context.Context, entityType string) ([]registry.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.entities[entityType]), nil
}

func (m *memStore) OnSyncFinished(ctx context.Context, batch SyncBatch, finish FinishFunc) {
	m.mu.Lock()
	m.batches = append(m.batches, batch)
	m.finishes = append(m.finishes, finish)
	m.order = append(m.order, "finished "+batch.EntityType)
	auto := m.autoFinish
	m.mu.Unlock()

	if auto {
		_ = finish(ctx)
	}
}

func (m *memStore) OnEntitySaved(_ context.Context, entity registry.Entity, rec *models.Record, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves = append(m.saves, savedEvent{entity: entity, rec: rec, err: err})
	m.order = append(m.order, "saved "+entity.EntityType())
}

// callOrder lists OnEntitySaved and OnSyncFinished calls as they arrived.
func (m *memStore) callOrder() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.order)
}

func (m *memStore) syncBatches() []SyncBatch {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.batches)
}

func (m *memStore) lastFinish() FinishFunc {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.finishes) == 0 {
		return nil
	}
	return m.finishes[len(m.finishes)-1]
}

func (m *memStore) saveEvents() []savedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.saves)
}

// ─────────────────────────────────────────────
// engine fixture
// ─────────────────────────────────────────────

type fixture struct {
	engine *syncEngine
	remote *fakeRemote
	state  *memState
	local  *memStore
}

func testWorkers() config.Workers {
	return config.Workers{SyncInterval: time.Hour, DeleteQueueInterval: time.Hour, PoolSize: 4}
}

func testSetup(deviceID string) SetupConfig {
	return SetupConfig{
		ContainerID:          "test",
		Scope:                models.ScopePrivate,
		SyncIDField:          "sid",
		ChangeTimestampField: "ts",
		Types:                []registry.EntityDescriptor{personDescriptor(), petDescriptor()},
		DeviceID:             deviceID,
	}
}

// newFixture sets up an engine for deviceID against remote.
func newFixture(t *testing.T, remote *fakeRemote, deviceID string, autoFinish bool) *fixture {
	t.Helper()
	return newFixtureWith(t, remote, testSetup(deviceID), autoFinish)
}

func newFixtureWith(t *testing.T, remote *fakeRemote, cfg SetupConfig, autoFinish bool) *fixture {
	t.Helper()
	return newFixtureOn(t, remote, remote, cfg, autoFinish)
}

// newFixtureOn dials store, which may wrap remote to interfere with calls.
func newFixtureOn(t *testing.T, remote *fakeRemote, store adapter.RemoteStore, cfg SetupConfig, autoFinish bool) *fixture {
	t.Helper()

	state := newMemState()
	local := newMemStore(autoFinish)
	dial := func(models.Namespace, string) (adapter.RemoteStore, error) { return store, nil }

	e := newSyncEngine(dial, state, local, testWorkers(), logger.Nop())
	require.NoError(t, e.Setup(context.Background(), cfg))
	t.Cleanup(e.Stop)

	return &fixture{engine: e, remote: remote, state: state, local: local}
}
