// SPDX-License-Identifier: MIT

// Package config loads the solver settings with viper: built-in defaults,
// an optional YAML/TOML/JSON file and LPR_* environment overrides, checked
// with validator. Watch re-reads the file on change.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/katalvlaran/lpr/cache"
	"github.com/katalvlaran/lpr/logging"
	"github.com/katalvlaran/lpr/metrics"
	"github.com/katalvlaran/lpr/tableau"
)

// ErrInvalid is returned when the loaded values fail validation.
var ErrInvalid = errors.New("config: invalid configuration")

// EnvPrefix prefixes every environment override (LPR_SOLVER_MAX_CUTS, ...).
const EnvPrefix = "LPR"

// Config is the top-level configuration.
type Config struct {
	Solver  SolverConfig   `mapstructure:"solver"`
	Log     logging.Config `mapstructure:"log"`
	Cache   cache.Config   `mapstructure:"cache"`
	Metrics metrics.Config `mapstructure:"metrics"`
}

// SolverConfig holds the numeric policy and the iteration caps.
type SolverConfig struct {
	IdentityEps    float64 `mapstructure:"identity_eps" validate:"gt=0,lt=1"`
	IntegralityEps float64 `mapstructure:"integrality_eps" validate:"gt=0,lt=0.5"`
	MaxPivots      int     `mapstructure:"max_pivots" validate:"gte=0"`
	MaxCuts        int     `mapstructure:"max_cuts" validate:"gt=0"`
	MaxNodes       int     `mapstructure:"max_nodes" validate:"gte=0"`
	BoundPruning   bool    `mapstructure:"bound_pruning"`
}

// Tolerances converts the epsilons into the tableau policy.
func (s SolverConfig) Tolerances() tableau.Tolerances {
	return tableau.Tolerances{Identity: s.IdentityEps, Integrality: s.IntegralityEps}
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Solver: SolverConfig{
			IdentityEps:    tableau.DefaultIdentityEps,
			IntegralityEps: tableau.DefaultIntegralityEps,
			MaxPivots:      10000,
			MaxCuts:        25,
			MaxNodes:       10000,
		},
		Log:     logging.Config{Level: "info", MaxSize: 100, MaxBackups: 3, MaxAge: 28},
		Cache:   cache.DefaultConfig(),
		Metrics: metrics.Config{Namespace: "lpr"},
	}
}

var validate = validator.New()

// Validate checks cfg against its struct tags.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return nil
}

// Loader owns a viper instance and the last valid configuration.
type Loader struct {
	v *viper.Viper

	mu  sync.RWMutex
	cfg Config
}

// NewLoader registers the defaults and the environment binding.
func NewLoader() *Loader {
	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v, cfg: Default()}
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("solver.identity_eps", d.Solver.IdentityEps)
	v.SetDefault("solver.integrality_eps", d.Solver.IntegralityEps)
	v.SetDefault("solver.max_pivots", d.Solver.MaxPivots)
	v.SetDefault("solver.max_cuts", d.Solver.MaxCuts)
	v.SetDefault("solver.max_nodes", d.Solver.MaxNodes)
	v.SetDefault("solver.bound_pruning", d.Solver.BoundPruning)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size", d.Log.MaxSize)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age", d.Log.MaxAge)
	v.SetDefault("log.compress", d.Log.Compress)
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.max_size_mb", d.Cache.MaxSizeMB)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
}

// Load reads path (skipped when empty), applies environment overrides and
// validates the result. The previous configuration is kept on failure.
func (l *Loader) Load(path string) (Config, error) {
	if path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			return l.Current(), fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	return l.decode()
}

func (l *Loader) decode() (Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return l.Current(), fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return l.Current(), err
	}
	l.mu.Lock()
	l.cfg = cfg
	l.mu.Unlock()

	return cfg, nil
}

// Current returns the last valid configuration.
func (l *Loader) Current() Config {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.cfg
}

// Watch re-reads the config file on every write and calls onChange with the
// new configuration when it validates. Invalid edits are logged and ignored.
func (l *Loader) Watch(logger *slog.Logger, onChange func(Config)) {
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := l.decode()
		if err != nil {
			logger.Error("config reload rejected", "file", e.Name, "error", err)
			return
		}
		logger.Info("config reloaded", "file", e.Name)
		if onChange != nil {
			onChange(cfg)
		}
	})
	l.v.WatchConfig()
}

// Load is a one-shot NewLoader().Load(path).
func Load(path string) (Config, error) { return NewLoader().Load(path) }
