// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/MKhiriev/go-record-sync/internal/adapter"
	"github.com/MKhiriev/go-record-sync/internal/config"
	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/internal/registry"
	"github.com/MKhiriev/go-record-sync/internal/store"
	"github.com/MKhiriev/go-record-sync/internal/utils"
	"github.com/MKhiriev/go-record-sync/internal/workers"
	"github.com/MKhiriev/go-record-sync/models"
)

const deviceIDMetaKey = "device_id"

// Dialer opens the remote store for a namespace on behalf of a device.
type Dialer func(ns models.Namespace, deviceID string) (adapter.RemoteStore, error)

// engineEnv is everything Setup resolves. It is published atomically and
// never modified afterwards.
type engineEnv struct {
	registry *registry.Registry
	remote   adapter.RemoteStore
	deviceID string
	ns       models.Namespace
	ignored  map[string]struct{}
}

func (env *engineEnv) isIgnored(syncID string) bool {
	if syncID == "" {
		return false
	}
	_, ok := env.ignored[syncID]
	return ok
}

type syncEngine struct {
	dial     Dialer
	state    store.SyncStateRepository
	local    EntityStore
	observer SaveObserver
	cfg      config.Workers
	log      *logger.Logger

	env atomic.Pointer[engineEnv]

	lanes    *workers.Lanes
	callback *workers.CallbackContext
	pool     *workers.Pool
	clock    *clock
	ids      *utils.UUIDGenerator
	machine  *stateMachine
	devices  *deviceRegistry
	jobs     *workers.Workers
}

// NewSyncEngine creates an engine. It does nothing until Setup succeeds.
func NewSyncEngine(dial Dialer, state store.SyncStateRepository, local EntityStore, cfg config.Workers, log *logger.Logger) SyncEngine {
	return newSyncEngine(dial, state, local, cfg, log)
}

func newSyncEngine(dial Dialer, state store.SyncStateRepository, local EntityStore, cfg config.Workers, log *logger.Logger) *syncEngine {
	if log == nil {
		log = logger.Nop()
	}
	observer, ok := local.(SaveObserver)
	if !ok {
		observer = nopObserver{}
	}

	e := &syncEngine{
		dial:     dial,
		state:    state,
		local:    local,
		observer: observer,
		cfg:      cfg,
		log:      log,
		lanes:    workers.NewLanes(),
		callback: workers.NewCallbackContext(),
		pool:     workers.NewPool(cfg.PoolSize),
		clock:    newClock(),
		ids:      utils.NewUUIDGenerator(),
		machine:  &stateMachine{},
		devices:  newDeviceRegistry(),
	}

	e.jobs = workers.NewWorkers(
		workers.NewTicker("validate-sync", cfg.SyncInterval, func(ctx context.Context) {
			e.validateSync(workers.Detach(ctx))
		}, log),
		workers.NewTicker("delete-queue", cfg.DeleteQueueInterval, func(ctx context.Context) {
			if err := e.DrainDeleteQueue(workers.Detach(ctx)); err != nil && !errors.Is(err, ErrSyncLocked) {
				log.Err(err).Str("func", "syncEngine.deleteQueueJob").Msg("delete queue drain failed")
			}
		}, log),
	)

	return e
}

type nopObserver struct{}

func (nopObserver) OnEntitySaved(context.Context, registry.Entity, *models.Record, error) {}

// Setup registers the entity types, resolves the device identity, checks
// the remote container, installs subscriptions and registers the device.
// The engine is usable only after Setup returns nil.
func (e *syncEngine) Setup(ctx context.Context, cfg SetupConfig) error {
	log := e.log.With().Str("func", "syncEngine.Setup").Str("container", cfg.ContainerID).Logger()

	if cfg.ContainerID == "" {
		return &registry.ConfigurationError{Reason: "empty container id"}
	}
	scope := cfg.Scope
	if scope == "" {
		scope = models.ScopePrivate
	}
	if !models.ValidScope(scope) {
		return &registry.ConfigurationError{Reason: "unknown scope " + scope}
	}

	reg := registry.New(registry.Defaults{
		SyncIDField:          cfg.SyncIDField,
		ChangeTimestampField: cfg.ChangeTimestampField,
	})
	if err := reg.Register(cfg.Types...); err != nil {
		log.Err(err).Msg("type registration failed")
		return err
	}
	for _, remoteType := range reg.RemoteTypes() {
		if remoteType == models.DeviceRecordType || remoteType == models.DeleteQueueRecordType {
			return &registry.ConfigurationError{Type: remoteType, Reason: "remote type is reserved"}
		}
	}
	e.lanes.Add(reg.RemoteTypes()...)

	deviceID, err := e.resolveDeviceID(ctx, cfg.DeviceID)
	if err != nil {
		return err
	}

	ns := models.Namespace{Container: cfg.ContainerID, Scope: scope}
	remote, err := e.dial(ns, deviceID)
	if err != nil {
		return fmt.Errorf("open remote store: %w", err)
	}

	if err = e.checkAccount(ctx, remote, ns); err != nil {
		log.Err(err).Msg("remote container check failed")
		return err
	}

	if err = e.subscribe(ctx, remote, reg); err != nil {
		log.Err(err).Msg("installing subscriptions failed")
		return err
	}

	pending, err := e.state.PendingDeletes(ctx)
	if err != nil {
		return fmt.Errorf("load pending deletes: %w", err)
	}
	if len(pending) > 0 {
		e.machine.markPending()
	}

	if err = e.devices.bootstrap(ctx, remote, deviceID); err != nil {
		log.Err(err).Msg("device bootstrap failed")
		return err
	}

	ignored := make(map[string]struct{}, len(cfg.IgnoredSyncIDs))
	for _, id := range cfg.IgnoredSyncIDs {
		ignored[id] = struct{}{}
	}

	env := &engineEnv{
		registry: reg,
		remote:   remote,
		deviceID: deviceID,
		ns:       ns,
		ignored:  ignored,
	}
	e.env.Store(env)

	log.Info().Str("device_id", deviceID).Strs("types", reg.RemoteTypes()).
		Int("peers", len(e.devices.peerIDs())).Msg("sync engine set up")

	if err = e.drainDeleteQueue(ctx, env); err != nil {
		log.Err(err).Msg("initial delete queue drain failed")
	}

	return nil
}

func (e *syncEngine) environment() (*engineEnv, error) {
	env := e.env.Load()
	if env == nil {
		return nil, ErrEngineNotReady
	}
	return env, nil
}

func (e *syncEngine) resolveDeviceID(ctx context.Context, configured string) (string, error) {
	if configured != "" {
		if err := e.state.SetMeta(ctx, deviceIDMetaKey, configured); err != nil {
			return "", fmt.Errorf("store device id: %w", err)
		}
		return configured, nil
	}

	stored, found, err := e.state.GetMeta(ctx, deviceIDMetaKey)
	if err != nil {
		return "", fmt.Errorf("load device id: %w", err)
	}
	if found && stored != "" {
		return stored, nil
	}

	id := e.ids.Generate()
	if err = e.state.SetMeta(ctx, deviceIDMetaKey, id); err != nil {
		return "", fmt.Errorf("store device id: %w", err)
	}
	return id, nil
}

func (e *syncEngine) checkAccount(ctx context.Context, remote adapter.RemoteStore, ns models.Namespace) error {
	status, err := remote.Status(ctx)
	switch {
	case errors.Is(err, adapter.ErrContainerNotFound):
		return &registry.ConfigurationError{Reason: "remote container " + ns.Container + " not found"}
	case err != nil:
		return fmt.Errorf("%w: status: %w", ErrRemoteRead, err)
	case status.Account != models.AccountAvailable:
		return &registry.ConfigurationError{Reason: "remote account is " + string(status.Account)}
	}
	return nil
}

var allEvents = []models.SubscriptionEvent{
	models.EventRecordCreated,
	models.EventRecordUpdated,
	models.EventRecordDeleted,
}

// subscribe replaces the device's subscriptions with one per registered
// remote type plus the delete queue and device record types.
func (e *syncEngine) subscribe(ctx context.Context, remote adapter.RemoteStore, reg *registry.Registry) error {
	existing, err := remote.Subscriptions(ctx)
	if err != nil {
		return fmt.Errorf("%w: list subscriptions: %w", ErrRemoteRead, err)
	}
	for _, sub := range existing {
		if err = remote.DeleteSubscription(ctx, sub.ID); err != nil && !errors.Is(err, adapter.ErrNotFound) {
			return fmt.Errorf("%w: delete subscription %s: %w", ErrRemoteWrite, sub.ID, err)
		}
	}

	subs := make([]models.Subscription, 0, len(reg.RemoteTypes())+2)
	for _, remoteType := range reg.RemoteTypes() {
		subs = append(subs, models.Subscription{ID: remoteType, RecordType: remoteType, Events: allEvents})
	}
	subs = append(subs,
		models.Subscription{ID: models.DeleteQueueRecordType, RecordType: models.DeleteQueueRecordType, Events: allEvents},
		models.Subscription{ID: models.DeviceRecordType, RecordType: models.DeviceRecordType, Events: []models.SubscriptionEvent{models.EventRecordCreated}},
	)

	for _, sub := range subs {
		if err = remote.SaveSubscription(ctx, sub); err != nil {
			return fmt.Errorf("%w: save subscription %s: %w", ErrRemoteWrite, sub.ID, err)
		}
	}
	return nil
}

func (e *syncEngine) Start(ctx context.Context) {
	e.jobs.Start(ctx)
}

func (e *syncEngine) Stop() {
	e.jobs.Stop()
	e.pool.Wait()
}

func (e *syncEngine) DeviceID() string {
	env := e.env.Load()
	if env == nil {
		return ""
	}
	return env.deviceID
}

func (e *syncEngine) KnownDevices() []string {
	return e.devices.peerIDs()
}

// notifySaved reports a save or hydration outcome on the callback context.
func (e *syncEngine) notifySaved(ctx context.Context, entity registry.Entity, rec *models.Record, err error) {
	_ = e.callback.Do(ctx, func(ctx context.Context) error {
		e.observer.OnEntitySaved(ctx, entity, rec, err)
		return nil
	})
}

// finishOnce wraps fn so that only its first call runs.
func finishOnce(fn func(ctx context.Context) error) FinishFunc {
	var called atomic.Bool
	return func(ctx context.Context) error {
		if !called.CompareAndSwap(false, true) {
			return ErrFinishCalled
		}
		return fn(ctx)
	}
}

func isNilEntity(e registry.Entity) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}
