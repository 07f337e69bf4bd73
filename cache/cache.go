// SPDX-License-Identifier: MIT

// Package cache memoizes relaxation results in an in-process bigcache,
// keyed by the model signature and the solver settings that shaped the
// result. Entries are JSON encoded; a hit decodes a
// fresh tableau, so callers never share state through the cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"

	"github.com/katalvlaran/lpr/model"
	"github.com/katalvlaran/lpr/simplex"
	"github.com/katalvlaran/lpr/tableau"
)

// ErrMiss is returned by Get when the model has no entry.
var ErrMiss = errors.New("cache: entry not found")

// Config sizes the memo.
type Config struct {
	Enabled   bool          `mapstructure:"enabled"`
	TTL       time.Duration `mapstructure:"ttl" validate:"gte=0"`
	MaxSizeMB int           `mapstructure:"max_size_mb" validate:"gte=0"`
}

// DefaultConfig keeps entries for ten minutes in at most 64 MB.
func DefaultConfig() Config {
	return Config{Enabled: true, TTL: 10 * time.Minute, MaxSizeMB: 64}
}

// Relaxations maps model signatures to solved relaxations.
type Relaxations struct {
	cache *bigcache.BigCache
}

// New creates the memo described by cfg.
func New(ctx context.Context, cfg Config) (*Relaxations, error) {
	bc := bigcache.DefaultConfig(cfg.TTL)
	bc.HardMaxCacheSize = cfg.MaxSizeMB
	bc.CleanWindow = 5 * time.Minute
	bc.Verbose = false

	c, err := bigcache.New(ctx, bc)
	if err != nil {
		return nil, fmt.Errorf("cache: init bigcache: %w", err)
	}

	return &Relaxations{cache: c}, nil
}

// Params are the solver settings a relaxation depends on. Results solved
// under different Params never share an entry.
type Params struct {
	Tolerances tableau.Tolerances
	MaxPivots  int
}

// Key is the cache key of m solved under p.
func Key(m model.Model, p Params) string {
	return fmt.Sprintf("%s#%g,%g,%d", m.Signature(), p.Tolerances.Identity, p.Tolerances.Integrality, p.MaxPivots)
}

// Get returns the relaxation of m stored under p.
func (r *Relaxations) Get(m model.Model, p Params) (simplex.Result, error) {
	key := Key(m, p)
	data, err := r.cache.Get(key)
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			return simplex.Result{}, ErrMiss
		}
		return simplex.Result{}, err
	}
	var res simplex.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return simplex.Result{}, fmt.Errorf("cache: decode %q: %w", key, err)
	}

	return res, nil
}

// Put stores res for m solved under p.
func (r *Relaxations) Put(m model.Model, p Params, res simplex.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("cache: encode: %w", err)
	}

	return r.cache.Set(Key(m, p), data)
}

// Len is the number of live entries.
func (r *Relaxations) Len() int { return r.cache.Len() }

// Reset drops every entry.
func (r *Relaxations) Reset() error { return r.cache.Reset() }

// Close releases the cleanup goroutine.
func (r *Relaxations) Close() error { return r.cache.Close() }
