// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client side of the remote record store.
//
// The primary abstraction is [RemoteStore], which decouples the sync engine
// from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPRemoteStore]) that talks to the record store
// served by internal/handler/http.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrNotFound] for 404, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-record-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_store_mock.go -package=mock

// RemoteStore is the contract of the remote record store as seen by one
// device. Every call is bound to the container and scope the store was
// constructed for.
type RemoteStore interface {
	// Status reports whether the account behind the container is usable.
	// It returns [ErrContainerNotFound] when the container is unknown and
	// [ErrTransport] when the store cannot be reached.
	Status(ctx context.Context) (models.StatusResponse, error)

	// FetchRecord returns a single record by id, or [ErrNotFound].
	FetchRecord(ctx context.Context, id string) (models.Record, error)

	// FetchRecords returns the records that exist among ids. Missing ids
	// are silently skipped.
	FetchRecords(ctx context.Context, ids []string) ([]models.Record, error)

	// SaveRecord creates or replaces the record with rec.ID and returns it
	// with server-assigned timestamps.
	SaveRecord(ctx context.Context, rec models.Record) (models.Record, error)

	// SaveRecords writes a batch of records in one round trip.
	SaveRecords(ctx context.Context, recs []models.Record) ([]models.Record, error)

	// DeleteRecords removes records by id and returns every id that was
	// removed, including weak-reference cascades.
	DeleteRecords(ctx context.Context, ids []string) ([]string, error)

	// QueryRecords runs a predicate query over one record type.
	QueryRecords(ctx context.Context, query models.RecordQuery) ([]models.Record, error)

	// Subscriptions lists the change subscriptions of this device.
	Subscriptions(ctx context.Context) ([]models.Subscription, error)

	// SaveSubscription creates or replaces a subscription of this device.
	SaveSubscription(ctx context.Context, sub models.Subscription) error

	// DeleteSubscription removes a subscription of this device.
	DeleteSubscription(ctx context.Context, id string) error
}
