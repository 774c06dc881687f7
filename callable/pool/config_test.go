package pool_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/on-the-ground/call_able_go/callable/pool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pool.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := pool.NewConfig(0, -3)
	assert.Equal(t, pool.NewConfig(0, 0), cfg)
	assert.Positive(t, cfg.NumWorkers)
	assert.Positive(t, cfg.QueueDepth)

	cfg = pool.NewConfig(7, 31)
	assert.Equal(t, 7, cfg.NumWorkers)
	assert.Equal(t, 31, cfg.QueueDepth)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, "num_workers = 2\nqueue_depth = 9\n")
	cfg, err := pool.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.NumWorkers)
	assert.Equal(t, 9, cfg.QueueDepth)
}

func TestLoadConfigFile_PartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "num_workers = 5\n")
	cfg, err := pool.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.NumWorkers)
	assert.Equal(t, pool.NewConfig(0, 0).QueueDepth, cfg.QueueDepth)
}

func TestLoadConfigFile_NonPositiveFallsBack(t *testing.T) {
	path := writeConfig(t, "num_workers = 0\nqueue_depth = -1\n")
	cfg, err := pool.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, pool.NewConfig(0, 0), cfg)
}

func TestLoadConfigFile_RejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "num_workers = 2\nworkers = 3\n")
	_, err := pool.LoadConfigFile(path)
	assert.ErrorIs(t, err, pool.ErrUnknownConfigKey)
}

func TestLoadConfigFile_MissingFile(t *testing.T) {
	_, err := pool.LoadConfigFile(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
