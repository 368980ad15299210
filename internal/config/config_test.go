package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `{"port":8080,"db_dsn":"postgres://localhost/cognivest"}`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogConfig.Level)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.AI.GenerateModel)
	assert.Equal(t, "gemini-embedding-001", cfg.AI.EmbedModel)
	assert.Equal(t, 768, cfg.AI.EmbedDim)
	assert.Equal(t, []string{"10-K", "10-Q"}, cfg.Edgar.Forms)
	assert.Equal(t, 1, cfg.Edgar.FilingLimit)
	assert.Equal(t, 2000, cfg.Ingest.ChunkSize)
	require.NotNil(t, cfg.Ingest.ChunkOverlap)
	assert.Equal(t, 200, *cfg.Ingest.ChunkOverlap)
	require.NotNil(t, cfg.Ingest.BatchPauseMS)
	assert.Equal(t, 500, *cfg.Ingest.BatchPauseMS)
	require.NotNil(t, cfg.Edgar.FetchDelayMS)
	assert.Equal(t, 200, *cfg.Edgar.FetchDelayMS)
	assert.Equal(t, 5, cfg.Ingest.EmbedBatchSize)
	assert.Equal(t, 5, cfg.Answer.TopK)
	assert.Equal(t, "0 3 * * *", cfg.TaskCleanup.Cron)
}

func TestLoadRequiresPortAndDSN(t *testing.T) {
	_, err := Load(writeConfigFile(t, `{"db_dsn":"postgres://localhost/cognivest"}`))
	assert.ErrorContains(t, err, "port is required")

	_, err = Load(writeConfigFile(t, `{"port":8080}`))
	assert.ErrorContains(t, err, "db_dsn is required")
}

func TestLoadKeepsExplicitZeros(t *testing.T) {
	path := writeConfigFile(t, `{
		"port": 8080,
		"db_dsn": "postgres://localhost/cognivest",
		"ingest": {"chunk_overlap": 0, "batch_pause_ms": 0},
		"edgar": {"fetch_delay_ms": 0}
	}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, *cfg.Ingest.ChunkOverlap)
	assert.Equal(t, 0, *cfg.Ingest.BatchPauseMS)
	assert.Equal(t, 0, *cfg.Edgar.FetchDelayMS)
}

func TestLoadRejectsNegativePause(t *testing.T) {
	path := writeConfigFile(t, `{
		"port": 8080,
		"db_dsn": "postgres://localhost/cognivest",
		"ingest": {"batch_pause_ms": -1}
	}`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "batch_pause_ms")
}

func TestLoadRejectsOverlapNotSmallerThanChunkSize(t *testing.T) {
	path := writeConfigFile(t, `{
		"port": 8080,
		"db_dsn": "postgres://localhost/cognivest",
		"ingest": {"chunk_size": 100, "chunk_overlap": 100}
	}`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "chunk_overlap")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
