package store

import (
	"context"

	"github.com/MKhiriev/go-record-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// RecordRepository persists the record store on the server.
type RecordRepository interface {
	// EnsureContainer creates the container when it does not exist yet.
	EnsureContainer(ctx context.Context, id string) error
	// ContainerExists reports whether the container was created.
	ContainerExists(ctx context.Context, id string) (bool, error)

	// SaveRecords upserts records by id in one transaction and returns them
	// with store-assigned timestamps. Reference edges are replaced.
	SaveRecords(ctx context.Context, ns models.Namespace, deviceID string, records ...models.Record) ([]models.Record, error)
	// GetRecords returns the records found among ids. Missing ids are skipped.
	GetRecords(ctx context.Context, ns models.Namespace, ids ...string) ([]models.Record, error)
	// QueryRecords runs a predicate query over one record type, ordered by
	// modification time.
	QueryRecords(ctx context.Context, ns models.Namespace, query models.RecordQuery) ([]models.Record, error)
	// DeleteRecords deletes records by id together with every record that
	// holds a delete_self reference to a deleted record, and returns all
	// deleted ids.
	DeleteRecords(ctx context.Context, ns models.Namespace, ids ...string) ([]string, error)

	// ListSubscriptions returns the device's subscriptions.
	ListSubscriptions(ctx context.Context, ns models.Namespace, deviceID string) ([]models.Subscription, error)
	// SaveSubscription upserts a subscription by id.
	SaveSubscription(ctx context.Context, ns models.Namespace, deviceID string, sub models.Subscription) error
	// DeleteSubscription removes a subscription by id.
	DeleteSubscription(ctx context.Context, ns models.Namespace, deviceID, id string) error
}
