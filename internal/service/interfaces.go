package service

import (
	"context"

	"github.com/MKhiriev/go-record-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// RecordService implements the remote record store contract on the
// server. Every call is bound to a namespace; subscription calls are
// additionally bound to the calling device.
type RecordService interface {
	Status(ctx context.Context, ns models.Namespace) (models.StatusResponse, error)

	SaveRecords(ctx context.Context, ns models.Namespace, deviceID string, records ...models.Record) ([]models.Record, error)
	GetRecord(ctx context.Context, ns models.Namespace, id string) (models.Record, error)
	FetchRecords(ctx context.Context, ns models.Namespace, ids ...string) ([]models.Record, error)
	QueryRecords(ctx context.Context, ns models.Namespace, query models.RecordQuery) ([]models.Record, error)
	DeleteRecords(ctx context.Context, ns models.Namespace, ids ...string) ([]string, error)

	Subscriptions(ctx context.Context, ns models.Namespace, deviceID string) ([]models.Subscription, error)
	SaveSubscription(ctx context.Context, ns models.Namespace, deviceID string, sub models.Subscription) error
	DeleteSubscription(ctx context.Context, ns models.Namespace, deviceID, id string) error

	// EnsureContainers creates the listed containers when missing.
	EnsureContainers(ctx context.Context, ids ...string) error
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
