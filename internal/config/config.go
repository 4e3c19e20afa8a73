// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container shared by the
// record-store server and the sync client. It is populated by merging
// values from environment variables, command-line flags, and an optional
// JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env:       direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds token parameters and the application version.
	App App `envPrefix:"APP_"`

	// Storage holds the database and local file settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the record-store listener settings.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the client's connection to the record store.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds background job intervals and pool size.
	Workers Workers `envPrefix:"WORKERS_"`

	// Sync holds the sync engine setup parameters.
	Sync Sync `envPrefix:"SYNC_"`

	// Log holds log output settings.
	Log Log `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Storage groups the configuration for all storage backends.
type Storage struct {
	// DB holds the database connection settings: PostgreSQL for the server,
	// SQLite for the client's sync state.
	DB DB `envPrefix:"DB_"`

	// Files holds file-system settings for the demo client's entity store.
	Files Files `envPrefix:"FILES_"`
}

// App holds token and versioning settings.
type App struct {
	// TokenSignKey is the shared secret used to sign and verify device
	// tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim of every device token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long a device token stays valid.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// Version is the semantic version string of the running binary.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Server holds the record-store listener settings.
type Server struct {
	// HTTPAddress is the TCP address the HTTP server listens on.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// Containers lists the container ids created at startup.
	// Env: SERVER_CONTAINERS (comma separated)
	Containers []string `env:"CONTAINERS" envSeparator:","`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN is the database connection string.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Files holds file-system settings.
type Files struct {
	// DataPath is the JSON file the demo client keeps its entities in.
	// Env: STORAGE_FILES_DATA_PATH
	DataPath string `env:"DATA_PATH"`
}

// Adapter holds the client's connection settings for the record store.
type Adapter struct {
	// HTTPAddress is the base address of the record store,
	// e.g. "http://localhost:8080".
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds every remote round trip.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds background job settings.
type Workers struct {
	// SyncInterval is the period of the sync validation check.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// DeleteQueueInterval is the period of the delete-queue drain.
	// Env: WORKERS_DELETE_QUEUE_INTERVAL
	DeleteQueueInterval time.Duration `env:"DELETE_QUEUE_INTERVAL"`

	// PoolSize bounds concurrent fire-and-forget operations.
	// Env: WORKERS_POOL_SIZE
	PoolSize int `env:"POOL_SIZE"`
}

// Sync holds the sync engine setup parameters.
type Sync struct {
	// ContainerID names the remote container.
	// Env: SYNC_CONTAINER_ID
	ContainerID string `env:"CONTAINER_ID"`

	// Scope is "private" or "public".
	// Env: SYNC_SCOPE
	Scope string `env:"SCOPE"`

	// DeviceID identifies this device; generated and persisted when empty.
	// Env: SYNC_DEVICE_ID
	DeviceID string `env:"DEVICE_ID"`

	// SyncIDField and ChangeTimestampField are the default local field
	// names for every registered type.
	// Env: SYNC_SYNC_ID_FIELD, SYNC_CHANGE_TIMESTAMP_FIELD
	SyncIDField          string `env:"SYNC_ID_FIELD"`
	ChangeTimestampField string `env:"CHANGE_TIMESTAMP_FIELD"`

	// IgnoredSyncIDs are never saved or pushed.
	// Env: SYNC_IGNORED_SYNC_IDS (comma separated)
	IgnoredSyncIDs []string `env:"IGNORED_SYNC_IDS" envSeparator:","`
}

// Log holds log output settings.
type Log struct {
	// Path is the client log file. Rotated by size.
	// Env: LOG_PATH
	Path string `env:"PATH"`
}

// GetStructuredConfig loads and merges the configuration from all sources
// in the following priority order (first non-zero value wins):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
