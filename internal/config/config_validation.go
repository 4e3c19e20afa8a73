// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"strings"
	"time"
)

const (
	defaultSyncInterval         = time.Minute
	defaultDeleteQueueInterval  = time.Minute
	defaultRequestTimeout       = 30 * time.Second
	defaultPoolSize             = 4
	defaultSyncIDField          = "syncID"
	defaultChangeTimestampField = "modifiedAt"
	defaultScope                = "private"
	defaultTokenIssuer          = "go-record-sync"
	defaultTokenDuration        = time.Hour
)

func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Workers.SyncInterval == 0 {
		cfg.Workers.SyncInterval = defaultSyncInterval
	}
	if cfg.Workers.DeleteQueueInterval == 0 {
		cfg.Workers.DeleteQueueInterval = defaultDeleteQueueInterval
	}
	if cfg.Workers.PoolSize == 0 {
		cfg.Workers.PoolSize = defaultPoolSize
	}
	if cfg.Adapter.RequestTimeout == 0 {
		cfg.Adapter.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Sync.SyncIDField == "" {
		cfg.Sync.SyncIDField = defaultSyncIDField
	}
	if cfg.Sync.ChangeTimestampField == "" {
		cfg.Sync.ChangeTimestampField = defaultChangeTimestampField
	}
	if cfg.Sync.Scope == "" {
		cfg.Sync.Scope = defaultScope
	}
	if cfg.App.TokenIssuer == "" {
		cfg.App.TokenIssuer = defaultTokenIssuer
	}
	if cfg.App.TokenDuration == 0 {
		cfg.App.TokenDuration = defaultTokenDuration
	}
}

func (cfg *ServerConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}
	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}
	if cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" {
		return ErrInvalidAppConfigs
	}
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}
	if cfg.Storage.Files.DataPath == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.SyncInterval <= 0 || cfg.Workers.DeleteQueueInterval <= 0 || cfg.Workers.PoolSize < 1 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" || cfg.App.TokenDuration <= 0 {
		return ErrInvalidAppConfigs
	}

	if cfg.Sync.ContainerID == "" {
		return ErrInvalidSyncConfigs
	}
	if cfg.Sync.Scope != "private" && cfg.Sync.Scope != "public" {
		return ErrInvalidSyncConfigs
	}

	return nil
}
