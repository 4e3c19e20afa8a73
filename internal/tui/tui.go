package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-record-sync/internal/notes"
	"github.com/MKhiriev/go-record-sync/internal/registry"
	"github.com/MKhiriev/go-record-sync/internal/service"
)

// Syncer is the part of the sync engine the UI drives.
type Syncer interface {
	SaveAsync(ctx context.Context, entity registry.Entity)
	Delete(ctx context.Context, entity registry.Entity) error
	SyncAll(ctx context.Context, forced bool) error
	State() service.SyncState
}

type TUI struct {
	store  *notes.Store
	engine Syncer
}

func New(store *notes.Store, engine Syncer) *TUI {
	return &TUI{store: store, engine: engine}
}

// Run blocks until the user quits or ctx is done.
func (t *TUI) Run(ctx context.Context) error {
	program := tea.NewProgram(newModel(ctx, t.store, t.engine), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run notes UI: %w", err)
	}
	return nil
}
