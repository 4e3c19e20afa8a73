package service

import (
	"github.com/MKhiriev/go-record-sync/internal/config"
	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/internal/store"
	"github.com/MKhiriev/go-record-sync/models"
)

// Services groups the record-store services behind the HTTP handlers.
type Services struct {
	RecordService  RecordService
	AppInfoService AppInfoService
}

func NewServices(repositories *store.Repositories, cfg config.App, build models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg, build, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		RecordService:  NewRecordValidationService().Wrap(NewRecordService(repositories.RecordRepository, logger)),
		AppInfoService: appInfo,
	}, nil
}
