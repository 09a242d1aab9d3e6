package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "logistic", cfg.Algo)
	assert.Equal(t, 200, cfg.Bootstraps)
	assert.Equal(t, 10, cfg.Bins)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	body := "algo: rf\nbootstraps: 50\nseed: 99\ntrain_fraction: 0.7\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "rf", cfg.Algo)
	assert.Equal(t, 50, cfg.Bootstraps)
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, 0.7, cfg.TrainFraction)
	// Untouched keys keep their defaults.
	assert.Equal(t, 10, cfg.Bins)
}

func TestLoadRejectsUnknownAlgo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("algo: xgboost\n"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsBadFractions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("train_fraction: 1.5\n"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
