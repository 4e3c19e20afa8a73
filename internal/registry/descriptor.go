package registry

import (
	"strings"
	"time"
)

// Entity is a local domain object that can be synchronized. EntityType
// returns the descriptor name the entity was registered under.
type Entity interface {
	EntityType() string
}

// FieldAccessor reads and writes one local field of an entity.
type FieldAccessor struct {
	Get func(e Entity) any
	Set func(e Entity, v any) error
}

// Accessors maps local field names to their accessor.
type Accessors map[string]FieldAccessor

// ReferenceMapping binds a local reference field to a remote record field.
// TargetType is the descriptor name of the referenced entities; it selects
// the placeholder for missing single references and the type created for
// list members.
type ReferenceMapping struct {
	LocalField  string
	RemoteField string
	TargetType  string
}

// EntityDescriptor describes one synchronizable local type. It must not be
// modified after registration.
type EntityDescriptor struct {
	// Name is the local type name returned by Entity.EntityType.
	Name string

	// RemoteType is the record type used in the remote store.
	RemoteType string

	// FieldMapping maps local field names to remote field names.
	FieldMapping map[string]string

	// SyncIDField and ChangeTimestampField override the engine-wide
	// defaults when set.
	SyncIDField          string
	ChangeTimestampField string

	// SingleReferences and ListReferences describe to-one and to-many
	// relationships.
	SingleReferences []ReferenceMapping
	ListReferences   []ReferenceMapping

	// IsWeak marks records of this type for cascade deletion when the
	// record that references them is deleted.
	IsWeak bool

	// ReferencePlaceholder is assigned to single reference fields targeting
	// this type when the remote record carries no reference.
	ReferencePlaceholder Entity

	// Accessors is the field accessor table for this type.
	Accessors Accessors
}

// SyncID reads the sync-id of e. Missing or non-string values read as "".
func (d *EntityDescriptor) SyncID(e Entity) string {
	acc, ok := d.Accessors[d.SyncIDField]
	if !ok || acc.Get == nil {
		return ""
	}
	s, _ := acc.Get(e).(string)
	return s
}

// SetSyncID writes the sync-id of e.
func (d *EntityDescriptor) SetSyncID(e Entity, id string) error {
	return d.Accessors[d.SyncIDField].Set(e, id)
}

// ChangeTimestamp reads the change timestamp of e. A zero time is returned
// when the field is unset.
func (d *EntityDescriptor) ChangeTimestamp(e Entity) time.Time {
	acc, ok := d.Accessors[d.ChangeTimestampField]
	if !ok || acc.Get == nil {
		return time.Time{}
	}
	switch t := acc.Get(e).(type) {
	case time.Time:
		return t
	case *time.Time:
		if t != nil {
			return *t
		}
	}
	return time.Time{}
}

// SetChangeTimestamp writes the change timestamp of e.
func (d *EntityDescriptor) SetChangeTimestamp(e Entity, ts time.Time) error {
	return d.Accessors[d.ChangeTimestampField].Set(e, ts)
}

// Get reads a local field through the accessor table.
func (d *EntityDescriptor) Get(e Entity, field string) (any, bool) {
	acc, ok := d.Accessors[field]
	if !ok || acc.Get == nil {
		return nil, false
	}
	return acc.Get(e), true
}

// Set writes a local field through the accessor table.
func (d *EntityDescriptor) Set(e Entity, field string, v any) error {
	acc, ok := d.Accessors[field]
	if !ok || acc.Set == nil {
		return &ConfigurationError{Type: d.Name, Reason: "no setter for field " + field}
	}
	return acc.Set(e, v)
}

// CascadeField is the record field that carries the weak back-reference from
// a referenced record to its owner of the given remote type.
func CascadeField(ownerRemoteType string) string {
	return strings.ToLower(ownerRemoteType)
}

