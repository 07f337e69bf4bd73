// SPDX-License-Identifier: MIT

// Package solver is the entry point used by the command line. A Service
// applies one SolverConfig to every algorithm and wires the optional
// relaxation cache, the Prometheus recorder and the logger into them.
package solver

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/katalvlaran/lpr/branchbound"
	"github.com/katalvlaran/lpr/cache"
	"github.com/katalvlaran/lpr/config"
	"github.com/katalvlaran/lpr/cutting"
	"github.com/katalvlaran/lpr/knapsack"
	"github.com/katalvlaran/lpr/metrics"
	"github.com/katalvlaran/lpr/model"
	"github.com/katalvlaran/lpr/sensitivity"
	"github.com/katalvlaran/lpr/simplex"
)

// Algorithm labels used for logs and metrics.
const (
	AlgSimplex     = "simplex"
	AlgBranchBound = "branch_and_bound"
	AlgCutting     = "cutting_plane"
	AlgKnapsack    = "knapsack"
	AlgSensitivity = "sensitivity"
)

// Service runs the algorithms under a shared configuration.
type Service struct {
	mu  sync.RWMutex
	cfg config.SolverConfig

	logger   *slog.Logger
	recorder *metrics.Recorder
	cache    *cache.Relaxations
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records solver events on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithCache memoizes Solve results in c.
func WithCache(c *cache.Relaxations) Option {
	return func(s *Service) { s.cache = c }
}

// WithConfig replaces the default solver settings.
func WithConfig(cfg config.SolverConfig) Option {
	return func(s *Service) { s.cfg = cfg }
}

// New returns a Service with config.Default().Solver unless overridden.
func New(opts ...Option) *Service {
	s := &Service{cfg: config.Default().Solver, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Configure swaps the solver settings; safe to call from a config watcher.
func (s *Service) Configure(cfg config.SolverConfig) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

// Config returns the current solver settings.
func (s *Service) Config() config.SolverConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cfg
}

func (s *Service) simplexOptions(algorithm string) []simplex.Option {
	return s.solveOptions(s.Config(), algorithm)
}

// solveOptions builds the simplex options of one call from a settings snapshot.
func (s *Service) solveOptions(cfg config.SolverConfig, algorithm string) []simplex.Option {
	opts := []simplex.Option{
		simplex.WithTolerances(cfg.Tolerances()),
		simplex.WithMaxPivots(cfg.MaxPivots),
		simplex.WithLogger(s.logger.With("algorithm", algorithm)),
	}
	if s.recorder != nil {
		opts = append(opts, simplex.WithObserver(s.recorder.Scope(algorithm)))
	}

	return opts
}

func (s *Service) finished(ctx context.Context, algorithm string, start time.Time, err error, attrs ...any) {
	attrs = append(attrs, "algorithm", algorithm, "elapsed", time.Since(start))
	if err != nil {
		s.logger.ErrorContext(ctx, "solve failed", append(attrs, "error", err)...)
		return
	}
	s.logger.InfoContext(ctx, "solve finished", attrs...)
}

// Solve returns the LP relaxation of m, served from the cache when possible.
func (s *Service) Solve(ctx context.Context, m model.Model) (simplex.Result, error) {
	if err := ctx.Err(); err != nil {
		return simplex.Result{}, err
	}
	start := time.Now()
	cfg := s.Config()
	params := cache.Params{Tolerances: cfg.Tolerances(), MaxPivots: cfg.MaxPivots}
	if s.cache != nil {
		res, err := s.cache.Get(m, params)
		s.cacheHit(err == nil)
		switch {
		case err == nil:
			s.logger.DebugContext(ctx, "relaxation cache hit", "key", cache.Key(m, params))
			return res, nil
		case !errors.Is(err, cache.ErrMiss):
			s.logger.WarnContext(ctx, "relaxation cache read failed", "error", err)
		}
	}

	res, err := simplex.Solve(m, s.solveOptions(cfg, AlgSimplex)...)
	s.finished(ctx, AlgSimplex, start, err, "status", res.Status.String(), "objective", res.Objective, "pivots", res.Pivots)
	if err != nil {
		return res, err
	}
	if s.cache != nil {
		if err := s.cache.Put(m, params, res); err != nil {
			s.logger.WarnContext(ctx, "relaxation cache write failed", "error", err)
		}
	}

	return res, nil
}

func (s *Service) cacheHit(hit bool) {
	if s.recorder != nil {
		s.recorder.CacheHit(hit)
	}
}

// BranchAndBound runs the FIFO branch-and-bound; ctx cancels between nodes.
func (s *Service) BranchAndBound(ctx context.Context, m model.Model) (branchbound.Result, error) {
	cfg := s.Config()
	start := time.Now()
	opts := []branchbound.Option{
		branchbound.WithContext(ctx),
		branchbound.WithTolerances(cfg.Tolerances()),
		branchbound.WithMaxNodes(cfg.MaxNodes),
		branchbound.WithBoundPruning(cfg.BoundPruning),
		branchbound.WithLogger(s.logger.With("algorithm", AlgBranchBound)),
		branchbound.WithSimplexOptions(s.simplexOptions(AlgBranchBound)...),
	}
	if s.recorder != nil {
		opts = append(opts, branchbound.WithObserver(s.recorder.Scope(AlgBranchBound)))
	}
	res, err := branchbound.Solve(m, opts...)
	s.finished(ctx, AlgBranchBound, start, err, "nodes", len(res.Nodes), "candidates", len(res.Candidates))

	return res, err
}

// CuttingPlane runs the Gomory cutting-plane loop.
func (s *Service) CuttingPlane(ctx context.Context, m model.Model) (cutting.Result, error) {
	if err := ctx.Err(); err != nil {
		return cutting.Result{}, err
	}
	cfg := s.Config()
	start := time.Now()
	opts := []cutting.Option{
		cutting.WithMaxCuts(cfg.MaxCuts),
		cutting.WithTolerances(cfg.Tolerances()),
		cutting.WithLogger(s.logger.With("algorithm", AlgCutting)),
		cutting.WithSimplexOptions(s.simplexOptions(AlgCutting)...),
	}
	if s.recorder != nil {
		opts = append(opts, cutting.WithObserver(s.recorder.Scope(AlgCutting)))
	}
	res, err := cutting.Solve(m, opts...)
	s.finished(ctx, AlgCutting, start, err, "cuts", res.Iterations, "objective", res.Objective)

	return res, err
}

// Knapsack runs the ratio-greedy 0/1 branch-and-bound.
func (s *Service) Knapsack(ctx context.Context, m model.Model) (knapsack.Result, error) {
	if err := ctx.Err(); err != nil {
		return knapsack.Result{Best: -1}, err
	}
	cfg := s.Config()
	start := time.Now()
	opts := []knapsack.Option{
		knapsack.WithMaxNodes(cfg.MaxNodes),
		knapsack.WithEps(cfg.IdentityEps),
		knapsack.WithLogger(s.logger.With("algorithm", AlgKnapsack)),
	}
	if s.recorder != nil {
		opts = append(opts, knapsack.WithObserver(s.recorder.Scope(AlgKnapsack)))
	}
	res, err := knapsack.Solve(m.WithBinaryBounds(), opts...)
	s.finished(ctx, AlgKnapsack, start, err, "nodes", len(res.Nodes), "candidates", len(res.Candidates))

	return res, err
}

// Analyze solves m and opens a sensitivity context on the optimum.
// A non-optimal relaxation yields sensitivity.ErrNotInitialized.
func (s *Service) Analyze(ctx context.Context, m model.Model) (*sensitivity.Context, error) {
	res, err := s.Solve(ctx, m)
	if err != nil {
		return nil, err
	}

	return sensitivity.NewContext(m, res,
		sensitivity.WithLogger(s.logger.With("algorithm", AlgSensitivity)),
		sensitivity.WithSimplexOptions(s.simplexOptions(AlgSensitivity)...),
	)
}
