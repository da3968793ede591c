package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
env:
  serviceName: storerating-test
  log:
    level: debug
identity:
  latency: 5ms
  bcryptCost: 4
session:
  bucketUrl: mem://
storage:
  driver: memory
`

func writeConfig(t *testing.T, name, content string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(content), 0o600))
	t.Chdir(dir)
}

func TestLoadWithEnv_ReadsYAMLAndEnvOverrides(t *testing.T) {
	writeConfig(t, "storerating-test", testConfigYAML)
	t.Setenv("IDENTITY_LATENCY", "250ms")

	cfg, err := LoadWithEnv[Config]("storerating-test")
	require.NoError(t, err)

	assert.Equal(t, "storerating-test", cfg.Env.ServiceName)
	assert.Equal(t, "debug", cfg.Env.Log.Level)
	require.NotNil(t, cfg.Identity)
	assert.Equal(t, 250*time.Millisecond, cfg.Identity.Latency)
	assert.Equal(t, 4, cfg.Identity.BcryptCost)
	assert.Equal(t, "mem://", cfg.Session.BucketURL)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadWithEnv[Config]("does-not-exist")

	assert.Error(t, err)
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}

	require.NoError(t, cfg.applyDefaults())

	assert.Equal(t, defaultLatency, cfg.Identity.Latency)
	assert.Equal(t, defaultSessionKey, cfg.Session.Key)
	assert.Equal(t, defaultSessionBucket, cfg.Session.BucketURL)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
}

func TestApplyDefaults_RejectsUnknownDriver(t *testing.T) {
	cfg := &Config{Storage: StorageConfig{Driver: "cassandra"}}

	assert.Error(t, cfg.applyDefaults())
}

func TestApplyDefaults_PostgresNeedsSection(t *testing.T) {
	cfg := &Config{Storage: StorageConfig{Driver: StoragePostgres}}

	assert.Error(t, cfg.applyDefaults())
}
