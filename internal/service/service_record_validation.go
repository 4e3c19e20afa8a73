package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-record-sync/internal/validators"
	"github.com/MKhiriev/go-record-sync/models"
)

// RecordServiceWrapper defines middleware composition for RecordService.
// Implementations wrap an existing RecordService to add behavior such as
// logging or validating.
type RecordServiceWrapper interface {
	Wrap(RecordService) RecordService // returns a decorated RecordService applying additional behavior
}

type RecordValidationService struct {
	inner     RecordService
	validator validators.Validator
}

func NewRecordValidationService() RecordServiceWrapper {
	return &RecordValidationService{
		validator: validators.NewRecordValidator(),
	}
}

func (v *RecordValidationService) Status(ctx context.Context, ns models.Namespace) (models.StatusResponse, error) {
	if err := validateNamespace(ns); err != nil {
		return models.StatusResponse{}, err
	}
	return v.inner.Status(ctx, ns)
}

func (v *RecordValidationService) SaveRecords(ctx context.Context, ns models.Namespace, deviceID string, records ...models.Record) ([]models.Record, error) {
	if err := validateNamespace(ns); err != nil {
		return nil, err
	}
	request := models.SaveRecordsRequest{Records: records, Length: len(records)}
	if err := v.validator.Validate(ctx, request); err != nil {
		return nil, fmt.Errorf("%w: records validation before saving: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.SaveRecords(ctx, ns, deviceID, records...)
}

func (v *RecordValidationService) GetRecord(ctx context.Context, ns models.Namespace, id string) (models.Record, error) {
	if err := validateNamespace(ns); err != nil {
		return models.Record{}, err
	}
	if err := v.validator.Validate(ctx, models.FetchRecordsRequest{IDs: []string{id}}); err != nil {
		return models.Record{}, fmt.Errorf("%w: record id validation: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.GetRecord(ctx, ns, id)
}

func (v *RecordValidationService) FetchRecords(ctx context.Context, ns models.Namespace, ids ...string) ([]models.Record, error) {
	if err := validateNamespace(ns); err != nil {
		return nil, err
	}
	if err := v.validator.Validate(ctx, models.FetchRecordsRequest{IDs: ids}); err != nil {
		return nil, fmt.Errorf("%w: fetch request validation: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.FetchRecords(ctx, ns, ids...)
}

func (v *RecordValidationService) QueryRecords(ctx context.Context, ns models.Namespace, query models.RecordQuery) ([]models.Record, error) {
	if err := validateNamespace(ns); err != nil {
		return nil, err
	}
	if err := v.validator.Validate(ctx, query); err != nil {
		return nil, fmt.Errorf("%w: query validation: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.QueryRecords(ctx, ns, query)
}

func (v *RecordValidationService) DeleteRecords(ctx context.Context, ns models.Namespace, ids ...string) ([]string, error) {
	if err := validateNamespace(ns); err != nil {
		return nil, err
	}
	if err := v.validator.Validate(ctx, models.DeleteRecordsRequest{IDs: ids}); err != nil {
		return nil, fmt.Errorf("%w: delete request validation: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.DeleteRecords(ctx, ns, ids...)
}

func (v *RecordValidationService) Subscriptions(ctx context.Context, ns models.Namespace, deviceID string) ([]models.Subscription, error) {
	if err := validateNamespace(ns); err != nil {
		return nil, err
	}
	return v.inner.Subscriptions(ctx, ns, deviceID)
}

func (v *RecordValidationService) SaveSubscription(ctx context.Context, ns models.Namespace, deviceID string, sub models.Subscription) error {
	if err := validateNamespace(ns); err != nil {
		return err
	}
	if err := v.validator.Validate(ctx, sub); err != nil {
		return fmt.Errorf("%w: subscription validation: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.SaveSubscription(ctx, ns, deviceID, sub)
}

func (v *RecordValidationService) DeleteSubscription(ctx context.Context, ns models.Namespace, deviceID, id string) error {
	if err := validateNamespace(ns); err != nil {
		return err
	}
	if err := v.validator.Validate(ctx, models.Subscription{ID: id}, validators.FieldID); err != nil {
		return fmt.Errorf("%w: subscription id validation: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.DeleteSubscription(ctx, ns, deviceID, id)
}

func (v *RecordValidationService) EnsureContainers(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		if id == "" {
			return fmt.Errorf("%w: empty container id", ErrInvalidDataProvided)
		}
	}
	return v.inner.EnsureContainers(ctx, ids...)
}

func (v *RecordValidationService) Wrap(wrapper RecordService) RecordService {
	v.inner = wrapper
	return v
}

func validateNamespace(ns models.Namespace) error {
	if ns.Container == "" {
		return fmt.Errorf("%w: empty container", ErrInvalidDataProvided)
	}
	if !models.ValidScope(ns.Scope) {
		return fmt.Errorf("%w: unknown scope %q", ErrInvalidDataProvided, ns.Scope)
	}
	return nil
}
