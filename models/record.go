// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// ReferenceAction controls what the remote store does with the referencing
// record when the referenced record is deleted.
type ReferenceAction string

const (
	// ReferenceActionNone keeps the referencing record untouched.
	ReferenceActionNone ReferenceAction = "none"
	// ReferenceActionDeleteSelf deletes the referencing record together with
	// the record it points to (weak reference cascade).
	ReferenceActionDeleteSelf ReferenceAction = "delete_self"
)

// Reference points from one record field to another record.
type Reference struct {
	RecordID string          `json:"record_id"`
	Action   ReferenceAction `json:"action,omitempty"`
}

// Record is a document in the remote store. ID is the sync-id bound to the
// local entity after its first successful save. ModifiedAt is assigned by
// the store on every write.
type Record struct {
	ID         string           `json:"id"`
	Type       string           `json:"type"`
	Fields     map[string]Value `json:"fields"`
	CreatedAt  time.Time        `json:"created_at,omitempty"`
	ModifiedAt time.Time        `json:"modified_at,omitempty"`
}

// NewRecord returns an empty record of the given type with id.
func NewRecord(recordType, id string) Record {
	return Record{ID: id, Type: recordType, Fields: make(map[string]Value)}
}

// Set stores a field value, allocating the field map when needed.
func (r *Record) Set(field string, v Value) {
	if r.Fields == nil {
		r.Fields = make(map[string]Value)
	}
	r.Fields[field] = v
}

// Get returns a field value and whether it is present and non-null.
func (r Record) Get(field string) (Value, bool) {
	v, ok := r.Fields[field]
	if !ok || v.IsNull() {
		return Value{}, false
	}
	return v, true
}

// StringField returns a string field or "" when absent.
func (r Record) StringField(field string) string {
	v, ok := r.Get(field)
	if !ok || v.Kind != KindString {
		return ""
	}
	return v.String
}

// TimeField returns a time field and whether it was present.
func (r Record) TimeField(field string) (time.Time, bool) {
	v, ok := r.Get(field)
	if !ok || v.Kind != KindTime {
		return time.Time{}, false
	}
	return v.Time, true
}

// References returns all reference edges stored on the record, one per
// single reference and one per reference list member.
func (r Record) References() []Reference {
	var refs []Reference
	for _, v := range r.Fields {
		switch v.Kind {
		case KindReference:
			refs = append(refs, v.Reference)
		case KindReferenceList:
			refs = append(refs, v.References...)
		}
	}
	return refs
}
