// SPDX-License-Identifier: MIT

// Package metrics exports solver events as Prometheus series on a private
// registry. A Scope carries the algorithm label and implements the observer
// interfaces of simplex, branchbound, cutting and knapsack.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config toggles the exporter.
type Config struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace" validate:"required_if=Enabled true"`
}

// Recorder owns the registry and every solver series.
type Recorder struct {
	registry *prometheus.Registry

	Pivots       *prometheus.CounterVec   // algorithm, variant
	Solves       *prometheus.CounterVec   // algorithm, status
	SolveSeconds *prometheus.HistogramVec // algorithm
	Nodes        *prometheus.CounterVec   // algorithm, outcome
	Cuts         *prometheus.CounterVec   // algorithm
	CacheLookups *prometheus.CounterVec   // result: hit, miss
}

// New registers the solver series under namespace, plus the Go runtime and
// process collectors.
func New(namespace string) *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Recorder{registry: reg}
	r.Pivots = r.newCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pivots_total",
		Help:      "Simplex pivots by variant.",
	}, "algorithm", "variant")
	r.Solves = r.newCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "solves_total",
		Help:      "Finished relaxations by terminal status.",
	}, "algorithm", "status")
	r.SolveSeconds = r.newHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "solve_duration_seconds",
		Help:      "Wall time of one relaxation.",
		Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
	}, "algorithm")
	r.Nodes = r.newCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "nodes_total",
		Help:      "Visited search nodes by outcome.",
	}, "algorithm", "outcome")
	r.Cuts = r.newCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cuts_total",
		Help:      "Gomory cuts appended.",
	}, "algorithm")
	r.CacheLookups = r.newCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Relaxation cache lookups.",
	}, "result")

	return r
}

func (r *Recorder) newCounterVec(opts prometheus.CounterOpts, labels ...string) *prometheus.CounterVec {
	cv := prometheus.NewCounterVec(opts, labels)
	r.registry.MustRegister(cv)
	return cv
}

func (r *Recorder) newHistogramVec(opts prometheus.HistogramOpts, labels ...string) *prometheus.HistogramVec {
	hv := prometheus.NewHistogramVec(opts, labels)
	r.registry.MustRegister(hv)
	return hv
}

// Registry exposes the private registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// CacheHit counts a cache lookup.
func (r *Recorder) CacheHit(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.CacheLookups.WithLabelValues(result).Inc()
}

// Scope returns an observer that labels every event with algorithm.
func (r *Recorder) Scope(algorithm string) *Scope {
	return &Scope{r: r, algorithm: algorithm}
}

// Scope is a Recorder view bound to one algorithm label.
type Scope struct {
	r         *Recorder
	algorithm string
}

// ObservePivot counts one pivot.
func (s *Scope) ObservePivot(variant string) {
	s.r.Pivots.WithLabelValues(s.algorithm, variant).Inc()
}

// ObserveSolve counts a finished relaxation and its duration.
func (s *Scope) ObserveSolve(status string, _ int, elapsed time.Duration) {
	s.r.Solves.WithLabelValues(s.algorithm, status).Inc()
	s.r.SolveSeconds.WithLabelValues(s.algorithm).Observe(elapsed.Seconds())
}

// ObserveNode counts a visited node.
func (s *Scope) ObserveNode(outcome string) {
	s.r.Nodes.WithLabelValues(s.algorithm, outcome).Inc()
}

// ObserveCut counts an appended cut.
func (s *Scope) ObserveCut() {
	s.r.Cuts.WithLabelValues(s.algorithm).Inc()
}
