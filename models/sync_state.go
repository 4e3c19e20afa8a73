package models

import "time"

// PendingDelete is a delete requested while sync was locked or offline.
// RecordType is the local entity type name.
type PendingDelete struct {
	SyncID     string
	RecordType string
	CreatedAt  time.Time
}
