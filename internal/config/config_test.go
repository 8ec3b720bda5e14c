package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoinsight/internal/errors"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 20, cfg.Analysis.MaxCorrelationPairs)
	assert.Equal(t, 0.3, cfg.Analysis.CorrelationThreshold)
	assert.Equal(t, 30*time.Second, cfg.Pipeline.StageTimeout)
	assert.Equal(t, 2, cfg.Pipeline.MaxRetries)
	assert.False(t, cfg.Database.Enabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "autoinsight.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
analysis:
  seed: 7
pipeline:
  stage_timeout: 5s
  max_retries: 4
log:
  level: debug
`), 0o644))

	t.Setenv("AUTOINSIGHT_PIPELINE_MAX_RETRIES", "1")
	t.Setenv("AUTOINSIGHT_DATABASE_URL", "postgres://localhost/autoinsight")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Analysis.Seed)
	assert.Equal(t, 5*time.Second, cfg.Pipeline.StageTimeout)
	assert.Equal(t, 1, cfg.Pipeline.MaxRetries, "env overrides file")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Database.Enabled())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative retries", func(c *Config) { c.Pipeline.MaxRetries = -1 }},
		{"zero timeout", func(c *Config) { c.Pipeline.StageTimeout = 0 }},
		{"sample rate", func(c *Config) { c.Tracing.SampleRate = 1.5 }},
		{"threshold", func(c *Config) { c.Analysis.CorrelationThreshold = 2 }},
		{"pairs", func(c *Config) { c.Analysis.MaxCorrelationPairs = 0 }},
		{"driver", func(c *Config) { c.Database.URL = "x"; c.Database.Driver = "mysql" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.CodeConfigInvalid))
		})
	}
}
