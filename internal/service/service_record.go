package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/internal/store"
	"github.com/MKhiriev/go-record-sync/models"
)

type recordService struct {
	repository store.RecordRepository
	logger     *logger.Logger
}

func NewRecordService(repository store.RecordRepository, logger *logger.Logger) RecordService {
	return &recordService{
		repository: repository,
		logger:     logger,
	}
}

func (s *recordService) Status(ctx context.Context, ns models.Namespace) (models.StatusResponse, error) {
	exists, err := s.repository.ContainerExists(ctx, ns.Container)
	if err != nil {
		return models.StatusResponse{}, fmt.Errorf("check container %s: %w", ns.Container, err)
	}
	if !exists {
		return models.StatusResponse{}, ErrContainerNotFound
	}

	return models.StatusResponse{
		Container: ns.Container,
		Scope:     ns.Scope,
		Account:   models.AccountAvailable,
	}, nil
}

func (s *recordService) SaveRecords(ctx context.Context, ns models.Namespace, deviceID string, records ...models.Record) ([]models.Record, error) {
	saved, err := s.repository.SaveRecords(ctx, ns, deviceID, records...)
	if errors.Is(err, store.ErrContainerNotFound) {
		return nil, ErrContainerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("save records: %w", err)
	}
	return saved, nil
}

func (s *recordService) GetRecord(ctx context.Context, ns models.Namespace, id string) (models.Record, error) {
	found, err := s.repository.GetRecords(ctx, ns, id)
	if err != nil {
		return models.Record{}, fmt.Errorf("get record %s: %w", id, err)
	}
	if len(found) == 0 {
		return models.Record{}, store.ErrRecordNotFound
	}
	return found[0], nil
}

func (s *recordService) FetchRecords(ctx context.Context, ns models.Namespace, ids ...string) ([]models.Record, error) {
	found, err := s.repository.GetRecords(ctx, ns, ids...)
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}
	return found, nil
}

func (s *recordService) QueryRecords(ctx context.Context, ns models.Namespace, query models.RecordQuery) ([]models.Record, error) {
	found, err := s.repository.QueryRecords(ctx, ns, query)
	if err != nil {
		return nil, fmt.Errorf("query %s records: %w", query.RecordType, err)
	}
	return found, nil
}

func (s *recordService) DeleteRecords(ctx context.Context, ns models.Namespace, ids ...string) ([]string, error) {
	deleted, err := s.repository.DeleteRecords(ctx, ns, ids...)
	if err != nil {
		return nil, fmt.Errorf("delete records: %w", err)
	}
	if len(deleted) > len(ids) {
		s.logger.Debug().Str("func", "recordService.DeleteRecords").
			Str("container", ns.Container).
			Int("requested", len(ids)).
			Int("deleted", len(deleted)).
			Msg("weak references cascaded")
	}
	return deleted, nil
}

func (s *recordService) Subscriptions(ctx context.Context, ns models.Namespace, deviceID string) ([]models.Subscription, error) {
	subs, err := s.repository.ListSubscriptions(ctx, ns, deviceID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return subs, nil
}

func (s *recordService) SaveSubscription(ctx context.Context, ns models.Namespace, deviceID string, sub models.Subscription) error {
	err := s.repository.SaveSubscription(ctx, ns, deviceID, sub)
	if errors.Is(err, store.ErrContainerNotFound) {
		return ErrContainerNotFound
	}
	if err != nil {
		return fmt.Errorf("save subscription %s: %w", sub.ID, err)
	}
	return nil
}

func (s *recordService) DeleteSubscription(ctx context.Context, ns models.Namespace, deviceID, id string) error {
	if err := s.repository.DeleteSubscription(ctx, ns, deviceID, id); err != nil {
		return fmt.Errorf("delete subscription %s: %w", id, err)
	}
	return nil
}

func (s *recordService) EnsureContainers(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		if err := s.repository.EnsureContainer(ctx, id); err != nil {
			return fmt.Errorf("ensure container %s: %w", id, err)
		}
		s.logger.Info().Str("func", "recordService.EnsureContainers").Str("container", id).Msg("container ready")
	}
	return nil
}
