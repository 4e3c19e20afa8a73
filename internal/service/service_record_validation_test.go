// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-record-sync/internal/mock"
	"github.com/MKhiriev/go-record-sync/models"
)

func newValidatedService(t *testing.T) (RecordService, *mock.MockRecordService) {
	t.Helper()
	inner := mock.NewMockRecordService(gomock.NewController(t))
	return NewRecordValidationService().Wrap(inner), inner
}

func TestRecordValidation_Namespace(t *testing.T) {
	tests := []struct {
		name string
		ns   models.Namespace
	}{
		{name: "empty container", ns: models.Namespace{Scope: models.ScopePrivate}},
		{name: "unknown scope", ns: models.Namespace{Container: "notes", Scope: "shared"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newValidatedService(t)

			_, err := svc.Status(context.Background(), tt.ns)
			assert.ErrorIs(t, err, ErrInvalidDataProvided)

			_, err = svc.QueryRecords(context.Background(), tt.ns, models.RecordQuery{RecordType: "Note"})
			assert.ErrorIs(t, err, ErrInvalidDataProvided)
		})
	}
}

func TestRecordValidation_SaveRecords(t *testing.T) {
	valid := models.NewRecord("Note", "n-1")
	valid.Set("title", models.StringValue("hello"))

	badRef := models.NewRecord("Note", "n-2")
	badRef.Set("folder", models.ReferenceValue(models.Reference{RecordID: ""}))

	tests := []struct {
		name    string
		records []models.Record
		wantErr bool
	}{
		{name: "valid record", records: []models.Record{valid}},
		{name: "no records", wantErr: true},
		{name: "missing id", records: []models.Record{models.NewRecord("Note", "")}, wantErr: true},
		{name: "missing type", records: []models.Record{models.NewRecord("", "n-1")}, wantErr: true},
		{name: "duplicate ids", records: []models.Record{valid, valid}, wantErr: true},
		{name: "empty reference", records: []models.Record{badRef}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, inner := newValidatedService(t)
			if !tt.wantErr {
				inner.EXPECT().SaveRecords(gomock.Any(), testNamespace, "device-a", tt.records[0]).
					Return(tt.records, nil)
			}

			_, err := svc.SaveRecords(context.Background(), testNamespace, "device-a", tt.records...)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDataProvided)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRecordValidation_IDs(t *testing.T) {
	svc, inner := newValidatedService(t)
	ctx := context.Background()

	_, err := svc.GetRecord(ctx, testNamespace, "")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	_, err = svc.FetchRecords(ctx, testNamespace)
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	_, err = svc.DeleteRecords(ctx, testNamespace, " padded ")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	inner.EXPECT().DeleteRecords(gomock.Any(), testNamespace, "n-1").Return([]string{"n-1"}, nil)
	deleted, err := svc.DeleteRecords(ctx, testNamespace, "n-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"n-1"}, deleted)
}

func TestRecordValidation_Subscriptions(t *testing.T) {
	svc, inner := newValidatedService(t)
	ctx := context.Background()

	err := svc.SaveSubscription(ctx, testNamespace, "device-a", models.Subscription{RecordType: "Note"})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	err = svc.DeleteSubscription(ctx, testNamespace, "device-a", "")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	inner.EXPECT().DeleteSubscription(gomock.Any(), testNamespace, "device-a", "Note").Return(nil)
	assert.NoError(t, svc.DeleteSubscription(ctx, testNamespace, "device-a", "Note"))
}

func TestRecordValidation_EnsureContainers(t *testing.T) {
	svc, inner := newValidatedService(t)

	assert.ErrorIs(t, svc.EnsureContainers(context.Background(), "notes", ""), ErrInvalidDataProvided)

	inner.EXPECT().EnsureContainers(gomock.Any(), "notes").Return(nil)
	assert.NoError(t, svc.EnsureContainers(context.Background(), "notes"))
}
