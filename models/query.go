package models

import "time"

// RecordQuery is a predicate over one record type. A zero ModifiedAfter
// matches every record. Equals restricts matches to records whose string
// field equals the given value.
type RecordQuery struct {
	RecordType    string            `json:"record_type"`
	ModifiedAfter time.Time         `json:"modified_after,omitempty"`
	Equals        map[string]string `json:"equals,omitempty"`
	Limit         uint64            `json:"limit,omitempty"`
}
