package notes

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/internal/registry"
	"github.com/MKhiriev/go-record-sync/internal/service"
	"github.com/MKhiriev/go-record-sync/internal/store"
	"github.com/MKhiriev/go-record-sync/internal/utils"
	"github.com/MKhiriev/go-record-sync/models"
)

// Updater hydrates local entities from remote records.
type Updater interface {
	UpdateEntity(ctx context.Context, entity registry.Entity, rec models.Record, fetchReferences bool) error
}

// Store holds the demo client's folders and notes.
//
// Entity fields are written by the sync engine on its callback context and
// by the application before it saves an entity. The collections themselves
// are guarded by mu.
type Store struct {
	files store.FileStorage
	ids   *utils.UUIDGenerator
	log   *logger.Logger

	mu      sync.Mutex
	folders []*Folder
	notes   []*Note
	updater Updater

	changes chan struct{}
}

type snapshot struct {
	Folders []folderDoc `json:"folders"`
	Notes   []noteDoc   `json:"notes"`
}

type folderDoc struct {
	LocalID   string    `json:"local_id"`
	SyncID    string    `json:"sync_id,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
	Name      string    `json:"name"`
}

type noteDoc struct {
	LocalID   string    `json:"local_id"`
	SyncID    string    `json:"sync_id,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	FolderID  string    `json:"folder_id,omitempty"`
}

// Open loads the stored folders and notes.
func Open(files store.FileStorage, log *logger.Logger) (*Store, error) {
	s := &Store{
		files:   files,
		ids:     utils.NewUUIDGenerator(),
		log:     log,
		changes: make(chan struct{}, 1),
	}

	var snap snapshot
	found, err := files.Load(&snap)
	if err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	if found {
		s.restore(snap)
	}

	log.Debug().Str("func", "notes.Open").Int("folders", len(s.folders)).Int("notes", len(s.notes)).
		Msg("local notes loaded")
	return s, nil
}

func (s *Store) restore(snap snapshot) {
	byID := make(map[string]*Folder, len(snap.Folders))
	for _, doc := range snap.Folders {
		f := &Folder{LocalID: doc.LocalID, SyncID: doc.SyncID, ChangedAt: doc.ChangedAt, Name: doc.Name}
		byID[f.LocalID] = f
		s.folders = append(s.folders, f)
	}
	for _, doc := range snap.Notes {
		s.notes = append(s.notes, &Note{
			LocalID:   doc.LocalID,
			SyncID:    doc.SyncID,
			ChangedAt: doc.ChangedAt,
			Title:     doc.Title,
			Body:      doc.Body,
			Folder:    byID[doc.FolderID],
		})
	}
}

// SetUpdater binds the engine used to apply incoming sync batches.
func (s *Store) SetUpdater(u Updater) {
	s.mu.Lock()
	s.updater = u
	s.mu.Unlock()
}

// Changes signals after every change made by the sync engine.
func (s *Store) Changes() <-chan struct{} {
	return s.changes
}

func (s *Store) AddFolder(name string) *Folder {
	f := &Folder{LocalID: s.ids.Generate(), Name: name}

	s.mu.Lock()
	s.folders = append(s.folders, f)
	s.mu.Unlock()
	return f
}

func (s *Store) AddNote(title, body string, folder *Folder) *Note {
	n := &Note{LocalID: s.ids.Generate(), Title: title, Body: body, Folder: folder}

	s.mu.Lock()
	s.notes = append(s.notes, n)
	s.mu.Unlock()
	return n
}

// Remove drops e from the store. Notes filed in a removed folder become
// unfiled.
func (s *Store) Remove(e registry.Entity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch v := e.(type) {
	case *Note:
		i := slices.Index(s.notes, v)
		if i < 0 {
			return false
		}
		s.notes = slices.Delete(s.notes, i, i+1)
		return true

	case *Folder:
		i := slices.Index(s.folders, v)
		if i < 0 {
			return false
		}
		s.folders = slices.Delete(s.folders, i, i+1)
		for _, n := range s.notes {
			if n.Folder == v {
				n.Folder = nil
			}
		}
		return true
	}
	return false
}

func (s *Store) Notes() []*Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.notes)
}

func (s *Store) Folders() []*Folder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.folders)
}

// Flush writes every folder and note to the file storage.
func (s *Store) Flush() error {
	s.mu.Lock()
	snap := snapshot{
		Folders: make([]folderDoc, 0, len(s.folders)),
		Notes:   make([]noteDoc, 0, len(s.notes)),
	}
	for _, f := range s.folders {
		snap.Folders = append(snap.Folders, folderDoc{LocalID: f.LocalID, SyncID: f.SyncID, ChangedAt: f.ChangedAt, Name: f.Name})
	}
	for _, n := range s.notes {
		doc := noteDoc{LocalID: n.LocalID, SyncID: n.SyncID, ChangedAt: n.ChangedAt, Title: n.Title, Body: n.Body}
		if n.Folder != nil {
			doc.FolderID = n.Folder.LocalID
		}
		snap.Notes = append(snap.Notes, doc)
	}
	s.mu.Unlock()

	return s.files.Save(snap)
}

func (s *Store) CreateEntity(_ context.Context, entityType string) (registry.Entity, error) {
	switch entityType {
	case FolderType:
		return s.AddFolder(""), nil
	case NoteType:
		return s.AddNote("", "", nil), nil
	}
	return nil, fmt.Errorf("%w: %s", registry.ErrUnknownType, entityType)
}

func (s *Store) FetchEntity(_ context.Context, entityType, syncID string) (registry.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch entityType {
	case FolderType:
		for _, f := range s.folders {
			if f.SyncID == syncID {
				return f, nil
			}
		}
	case NoteType:
		for _, n := range s.notes {
			if n.SyncID == syncID {
				return n, nil
			}
		}
	default:
		return nil, fmt.Errorf("%w: %s", registry.ErrUnknownType, entityType)
	}
	return nil, nil
}

func (s *Store) AllEntities(_ context.Context, entityType string) ([]registry.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []registry.Entity
	switch entityType {
	case FolderType:
		for _, f := range s.folders {
			out = append(out, f)
		}
	case NoteType:
		for _, n := range s.notes {
			out = append(out, n)
		}
	default:
		return nil, fmt.Errorf("%w: %s", registry.ErrUnknownType, entityType)
	}
	return out, nil
}

// OnSyncFinished applies a batch, persists it and acknowledges it.
func (s *Store) OnSyncFinished(ctx context.Context, batch service.SyncBatch, finish service.FinishFunc) {
	log := s.log.With().Str("func", "*Store.OnSyncFinished").Str("entity_type", batch.EntityType).Logger()

	s.mu.Lock()
	updater := s.updater
	s.mu.Unlock()

	if updater != nil {
		for _, rec := range slices.Concat(batch.New, batch.Updated) {
			s.apply(ctx, updater, batch.EntityType, rec)
		}
	}

	for _, del := range batch.Deleted {
		ent, err := s.FetchEntity(ctx, del.EntityType, del.SyncID)
		if err != nil {
			log.Warn().Err(err).Str("sync_id", del.SyncID).Msg("unknown deleted entity type")
			continue
		}
		if ent != nil {
			s.Remove(ent)
		}
	}

	if err := s.Flush(); err != nil {
		log.Err(err).Msg("persisting synced notes")
		return
	}
	if err := finish(ctx); err != nil {
		log.Err(err).Msg("acknowledging sync batch")
	}

	log.Debug().Int("new", len(batch.New)).Int("updated", len(batch.Updated)).Int("deleted", len(batch.Deleted)).
		Msg("sync batch applied")
	s.notify()
}

func (s *Store) apply(ctx context.Context, updater Updater, entityType string, rec models.Record) {
	ent, err := s.FetchEntity(ctx, entityType, rec.ID)
	if err == nil && ent == nil {
		ent, err = s.CreateEntity(ctx, entityType)
	}
	if err != nil {
		s.log.Err(err).Str("func", "*Store.apply").Str("sync_id", rec.ID).Msg("resolving local entity")
		return
	}

	if err = updater.UpdateEntity(ctx, ent, rec, true); err != nil {
		s.log.Err(err).Str("func", "*Store.apply").Str("sync_id", rec.ID).Msg("updating local entity")
	}
}

// OnEntitySaved persists the sync-id and timestamp written back by a save.
func (s *Store) OnEntitySaved(_ context.Context, entity registry.Entity, rec *models.Record, err error) {
	log := s.log.With().Str("func", "*Store.OnEntitySaved").Str("entity_type", entity.EntityType()).Logger()
	if err != nil {
		log.Warn().Err(err).Msg("entity not saved remotely")
		return
	}

	if flushErr := s.Flush(); flushErr != nil {
		log.Err(flushErr).Msg("persisting saved entity")
	}
	if rec != nil {
		log.Debug().Str("sync_id", rec.ID).Msg("entity saved")
	}
	s.notify()
}

func (s *Store) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}
