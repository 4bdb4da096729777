package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "pagelens.db", cfg.Database.DSN)
	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout.Std())
	assert.Equal(t, int64(10<<20), cfg.Fetch.MaxBodyBytes)
	assert.Equal(t, 10, cfg.Analysis.TopWords)
	assert.InDelta(t, 0.05, cfg.Analysis.PositiveThreshold, 1e-9)
	assert.InDelta(t, -0.05, cfg.Analysis.NegativeThreshold, 1e-9)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  addr: ":9090"
database:
  driver: postgres
  dsn: "postgres://localhost/pagelens"
fetch:
  timeout: 3s
  maxRetries: 2
analysis:
  topWords: 5
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 3*time.Second, cfg.Fetch.Timeout.Std())
	assert.Equal(t, uint64(2), cfg.Fetch.MaxRetries)
	assert.Equal(t, 5, cfg.Analysis.TopWords)
	assert.Equal(t, "json", cfg.Logging.Format)

	// Fields the file leaves out keep their defaults.
	assert.Equal(t, int64(10<<20), cfg.Fetch.MaxBodyBytes)
	assert.Equal(t, 800, cfg.Charts.Width)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(databaseDriverEnv, "postgres")
	t.Setenv(databaseDSNEnv, "postgres://db/env")
	t.Setenv(listenAddrEnv, ":7070")
	t.Setenv(logLevelEnv, "warn")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://db/env", cfg.Database.DSN)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadZeroThresholdMeansDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
analysis:
  positiveThreshold: 0
  negativeThreshold: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.InDelta(t, 0.05, cfg.Analysis.PositiveThreshold, 1e-9)
	assert.InDelta(t, -0.05, cfg.Analysis.NegativeThreshold, 1e-9)
}

func TestLoadExpandsEnvInFile(t *testing.T) {
	t.Setenv("TEST_PAGELENS_DSN", "postgres://db/expanded")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
database:
  driver: postgres
  dsn: "${TEST_PAGELENS_DSN}"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://db/expanded", cfg.Database.DSN)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
