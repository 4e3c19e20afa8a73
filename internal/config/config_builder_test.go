package config

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func validClientStructuredConfig() *StructuredConfig {
	cfg := &StructuredConfig{
		App:     App{TokenSignKey: "secret"},
		Adapter: Adapter{HTTPAddress: "http://localhost:8080"},
		Storage: Storage{
			DB:    DB{DSN: "sync.db"},
			Files: Files{DataPath: "notes.json"},
		},
		Sync: Sync{ContainerID: "notes"},
	}
	cfg.applyDefaults()
	return cfg
}

// ── newConfigBuilder ──────────────────────────────────────────────────────────

// TestNewConfigBuilder_InitialState verifies that a freshly created builder
// has no error and an empty configs slice.
func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── build ─────────────────────────────────────────────────────────────────────

// TestBuild_EmptyBuilder verifies that building with no configs returns
// a config holding only defaults.
func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	require.NoError(t, err)

	assert.Equal(t, time.Minute, cfg.Workers.SyncInterval)
	assert.Equal(t, time.Minute, cfg.Workers.DeleteQueueInterval)
	assert.Equal(t, "syncID", cfg.Sync.SyncIDField)
	assert.Equal(t, "modifiedAt", cfg.Sync.ChangeTimestampField)
	assert.Equal(t, "private", cfg.Sync.Scope)
	assert.Empty(t, cfg.Storage.DB.DSN)
}

// TestBuild_PropagatesBuilderError verifies that a pre-set b.err is wrapped
// and returned, with nil config.
func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_FirstSourceWins verifies that fields from multiple configs are
// merged and that earlier sources are not overwritten.
func TestBuild_FirstSourceWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{App: App{Version: "1.0.0"}, Sync: Sync{ContainerID: "env"}},
		&StructuredConfig{App: App{TokenIssuer: "issuer"}, Sync: Sync{ContainerID: "json"}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", cfg.App.Version)
	assert.Equal(t, "issuer", cfg.App.TokenIssuer)
	assert.Equal(t, "env", cfg.Sync.ContainerID)
}

// ── withEnv / withJSON ────────────────────────────────────────────────────────

func TestWithEnv_ReadsEnvVars(t *testing.T) {
	setEnvVars(t, map[string]string{"SYNC_CONTAINER_ID": "from-env"})

	b := newConfigBuilder().withEnv()
	require.NoError(t, b.err)
	require.Len(t, b.configs, 1)
	assert.Equal(t, "from-env", b.configs[0].Sync.ContainerID)
}

func TestWithEnv_SetsErrorOnBadValue(t *testing.T) {
	setEnvVars(t, map[string]string{"WORKERS_POOL_SIZE": "lots"})

	b := newConfigBuilder().withEnv()
	assert.Error(t, b.err)
	assert.Empty(t, b.configs)
}

func TestWithJSON_NoOp_WhenNoPathSet(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{})

	b.withJSON()
	assert.NoError(t, b.err)
	assert.Len(t, b.configs, 1)
}

func TestWithJSON_AppendsConfig_WhenValidFile(t *testing.T) {
	path := writeTempJSONConfig(t, map[string]any{
		"sync": map[string]any{"container_id": "from-json"},
	})

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: path})

	b.withJSON()
	require.NoError(t, b.err)
	require.Len(t, b.configs, 2)
	assert.Equal(t, "from-json", b.configs[1].Sync.ContainerID)
}

func TestWithJSON_SetsError_WhenFileNotFound(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: "/does/not/exist.json"})

	b.withJSON()
	assert.Error(t, b.err)
	assert.Len(t, b.configs, 1)
}

// ── role views ────────────────────────────────────────────────────────────────

func TestNewClientConfig_Valid(t *testing.T) {
	cfg, err := newClientConfig(validClientStructuredConfig())
	require.NoError(t, err)
	assert.Equal(t, "notes", cfg.Sync.ContainerID)
	assert.Equal(t, 4, cfg.Workers.PoolSize)
}

func TestNewClientConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *StructuredConfig)
		want   error
	}{
		{"empty dsn", func(c *StructuredConfig) { c.Storage.DB.DSN = "" }, ErrInvalidStorageConfigs},
		{"in-memory dsn", func(c *StructuredConfig) { c.Storage.DB.DSN = "file::memory:" }, ErrInvalidStorageConfigs},
		{"empty data path", func(c *StructuredConfig) { c.Storage.Files.DataPath = "" }, ErrInvalidStorageConfigs},
		{"empty adapter", func(c *StructuredConfig) { c.Adapter.HTTPAddress = "" }, ErrInvalidAdapterConfigs},
		{"negative interval", func(c *StructuredConfig) { c.Workers.SyncInterval = -time.Second }, ErrInvalidWorkerConfigs},
		{"no sign key", func(c *StructuredConfig) { c.App.TokenSignKey = "" }, ErrInvalidAppConfigs},
		{"no container", func(c *StructuredConfig) { c.Sync.ContainerID = "" }, ErrInvalidSyncConfigs},
		{"bad scope", func(c *StructuredConfig) { c.Sync.Scope = "shared" }, ErrInvalidSyncConfigs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := validClientStructuredConfig()
			tt.mutate(sc)

			cfg, err := newClientConfig(sc)
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewServerConfig(t *testing.T) {
	sc := &StructuredConfig{
		App:     App{TokenSignKey: "secret"},
		Server:  Server{HTTPAddress: "localhost:8080"},
		Storage: Storage{DB: DB{DSN: "postgres://localhost/records"}},
	}
	sc.applyDefaults()

	cfg, err := newServerConfig(sc)
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress)

	sc.Storage.DB.DSN = ""
	_, err = newServerConfig(sc)
	assert.ErrorIs(t, err, ErrInvalidStorageConfigs)

	sc.Storage.DB.DSN = "postgres://localhost/records"
	sc.Server.HTTPAddress = ""
	_, err = newServerConfig(sc)
	assert.ErrorIs(t, err, ErrInvalidServerConfigs)
}
