package notes

import (
	"time"

	"github.com/MKhiriev/go-record-sync/internal/registry"
)

const (
	FolderType = "Folder"
	NoteType   = "Note"
)

const (
	syncIDField    = "sync_id"
	changedAtField = "changed_at"
	nameField      = "name"
	titleField     = "title"
	bodyField      = "body"
	folderField    = "folder"
)

type Folder struct {
	LocalID   string
	SyncID    string
	ChangedAt time.Time
	Name      string
}

func (*Folder) EntityType() string { return FolderType }

type Note struct {
	LocalID   string
	SyncID    string
	ChangedAt time.Time
	Title     string
	Body      string
	Folder    *Folder
}

func (*Note) EntityType() string { return NoteType }

// FolderName returns the name of the note's folder, or "" when unfiled.
func (n *Note) FolderName() string {
	if n.Folder == nil {
		return ""
	}
	return n.Folder.Name
}

// Descriptors describes folders and notes to the sync engine.
func Descriptors() []registry.EntityDescriptor {
	return []registry.EntityDescriptor{folderDescriptor(), noteDescriptor()}
}

func folderDescriptor() registry.EntityDescriptor {
	return registry.EntityDescriptor{
		Name:                 FolderType,
		RemoteType:           FolderType,
		FieldMapping:         map[string]string{nameField: nameField},
		SyncIDField:          syncIDField,
		ChangeTimestampField: changedAtField,
		Accessors: registry.Accessors{
			syncIDField: {
				Get: func(e registry.Entity) any { return e.(*Folder).SyncID },
				Set: func(e registry.Entity, v any) error { e.(*Folder).SyncID, _ = v.(string); return nil },
			},
			changedAtField: {
				Get: func(e registry.Entity) any { return e.(*Folder).ChangedAt },
				Set: func(e registry.Entity, v any) error { e.(*Folder).ChangedAt, _ = v.(time.Time); return nil },
			},
			nameField: {
				Get: func(e registry.Entity) any { return e.(*Folder).Name },
				Set: func(e registry.Entity, v any) error { e.(*Folder).Name, _ = v.(string); return nil },
			},
		},
	}
}

func noteDescriptor() registry.EntityDescriptor {
	return registry.EntityDescriptor{
		Name:       NoteType,
		RemoteType: NoteType,
		FieldMapping: map[string]string{
			titleField: titleField,
			bodyField:  bodyField,
		},
		SyncIDField:          syncIDField,
		ChangeTimestampField: changedAtField,
		SingleReferences: []registry.ReferenceMapping{
			{LocalField: folderField, RemoteField: folderField, TargetType: FolderType},
		},
		Accessors: registry.Accessors{
			syncIDField: {
				Get: func(e registry.Entity) any { return e.(*Note).SyncID },
				Set: func(e registry.Entity, v any) error { e.(*Note).SyncID, _ = v.(string); return nil },
			},
			changedAtField: {
				Get: func(e registry.Entity) any { return e.(*Note).ChangedAt },
				Set: func(e registry.Entity, v any) error { e.(*Note).ChangedAt, _ = v.(time.Time); return nil },
			},
			titleField: {
				Get: func(e registry.Entity) any { return e.(*Note).Title },
				Set: func(e registry.Entity, v any) error { e.(*Note).Title, _ = v.(string); return nil },
			},
			bodyField: {
				Get: func(e registry.Entity) any { return e.(*Note).Body },
				Set: func(e registry.Entity, v any) error { e.(*Note).Body, _ = v.(string); return nil },
			},
			folderField: {
				Get: func(e registry.Entity) any {
					// a typed nil would read as a reference
					if f := e.(*Note).Folder; f != nil {
						return f
					}
					return nil
				},
				Set: func(e registry.Entity, v any) error { e.(*Note).Folder, _ = v.(*Folder); return nil },
			},
		},
	}
}
