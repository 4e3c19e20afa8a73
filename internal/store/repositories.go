package store

import "github.com/MKhiriev/go-record-sync/internal/logger"

// Repositories groups the server-side repositories.
type Repositories struct {
	RecordRepository RecordRepository
}

// NewRepositories builds the server repositories on a PostgreSQL handle.
func NewRepositories(db *DB, log *logger.Logger) *Repositories {
	return &Repositories{
		RecordRepository: NewRecordRepository(db, log),
	}
}
