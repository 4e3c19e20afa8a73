package client

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/MKhiriev/go-record-sync/internal/adapter"
	"github.com/MKhiriev/go-record-sync/internal/config"
	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/internal/notes"
	"github.com/MKhiriev/go-record-sync/internal/service"
	"github.com/MKhiriev/go-record-sync/internal/store"
	"github.com/MKhiriev/go-record-sync/internal/tui"
	"github.com/MKhiriev/go-record-sync/models"
)

type App struct {
	sync   config.Sync
	engine service.SyncEngine
	notes  *notes.Store
	ui     UI
	closer io.Closer

	logger *logger.Logger
}

func NewApp(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	storages, err := store.NewClientStorages(ctx, cfg.Storage.DB, log)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	local, err := notes.Open(store.NewJSONFileStorage(cfg.Storage.Files), log)
	if err != nil {
		_ = storages.Close()
		return nil, err
	}

	dial := func(ns models.Namespace, deviceID string) (adapter.RemoteStore, error) {
		return adapter.NewHTTPRemoteStore(cfg.Adapter, cfg.App, ns, deviceID, log)
	}
	engine := service.NewSyncEngine(dial, storages.SyncState, local, cfg.Workers, log)
	local.SetUpdater(engine)

	return newApp(cfg.Sync, engine, local, tui.New(local, engine), storages, log), nil
}

func newApp(syncCfg config.Sync, engine service.SyncEngine, local *notes.Store, ui UI, closer io.Closer, log *logger.Logger) *App {
	return &App{
		sync:   syncCfg,
		engine: engine,
		notes:  local,
		ui:     ui,
		closer: closer,
		logger: log,
	}
}

// Run sets up the engine, catches up with the remote store and hands the
// terminal to the UI. Local notes are flushed on exit.
func (a *App) Run(ctx context.Context) (err error) {
	defer func() {
		err = errors.Join(err, a.close())
	}()

	if err = a.engine.Setup(ctx, a.setupConfig()); err != nil {
		return fmt.Errorf("set up sync engine: %w", err)
	}
	a.logger.Info().Str("func", "*App.Run").Str("device_id", a.engine.DeviceID()).Msg("sync engine ready")

	if syncErr := a.engine.SyncAll(ctx, false); syncErr != nil {
		a.logger.Warn().Err(syncErr).Str("func", "*App.Run").Msg("initial sync did not complete")
	}

	a.engine.Start(ctx)
	defer a.engine.Stop()

	return a.ui.Run(ctx)
}

func (a *App) setupConfig() service.SetupConfig {
	return service.SetupConfig{
		ContainerID:          a.sync.ContainerID,
		Scope:                a.sync.Scope,
		SyncIDField:          a.sync.SyncIDField,
		ChangeTimestampField: a.sync.ChangeTimestampField,
		Types:                notes.Descriptors(),
		IgnoredSyncIDs:       a.sync.IgnoredSyncIDs,
		DeviceID:             a.sync.DeviceID,
	}
}

func (a *App) close() error {
	var errs []error
	if err := a.notes.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("flush notes: %w", err))
	}
	if a.closer != nil {
		if err := a.closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close local storage: %w", err))
		}
	}
	return errors.Join(errs...)
}
