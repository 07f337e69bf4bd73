package config_test

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lpr/config"
	"github.com/katalvlaran/lpr/logging"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, 1e-9, cfg.Solver.Tolerances().Identity)
	assert.Equal(t, 1e-5, cfg.Solver.Tolerances().Integrality)
	assert.Equal(t, 25, cfg.Solver.MaxCuts)
	assert.False(t, cfg.Solver.BoundPruning)
}

func TestFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lpr.yaml")
	writeFile(t, path, "solver:\n  max_cuts: 40\n  bound_pruning: true\nlog:\n  level: debug\ncache:\n  ttl: 1m\n")
	t.Setenv("LPR_SOLVER_MAX_NODES", "77")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Solver.MaxCuts)
	assert.True(t, cfg.Solver.BoundPruning)
	assert.Equal(t, 77, cfg.Solver.MaxNodes)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 10000, cfg.Solver.MaxPivots, "untouched keys keep their default")
}

func TestInvalidKeepsPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lpr.yaml")
	writeFile(t, path, "solver:\n  max_cuts: 0\n")

	l := config.NewLoader()
	cfg, err := l.Load(path)
	require.ErrorIs(t, err, config.ErrInvalid)
	assert.Equal(t, config.Default(), cfg)

	bad := config.Default()
	bad.Log.Level = "loud"
	require.ErrorIs(t, config.Validate(bad), config.ErrInvalid)

	bad = config.Default()
	bad.Metrics.Enabled, bad.Metrics.Namespace = true, ""
	require.ErrorIs(t, config.Validate(bad), config.ErrInvalid)

	_, err = l.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lpr.yaml")
	writeFile(t, path, "solver:\n  max_cuts: 5\n")

	l := config.NewLoader()
	_, err := l.Load(path)
	require.NoError(t, err)

	var cuts atomic.Int64
	l.Watch(logging.Discard(), func(c config.Config) { cuts.Store(int64(c.Solver.MaxCuts)) })
	writeFile(t, path, "solver:\n  max_cuts: 9\n")

	require.Eventually(t, func() bool { return cuts.Load() == 9 }, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, 9, l.Current().Solver.MaxCuts)
}
