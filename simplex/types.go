// SPDX-License-Identifier: MIT

// Package simplex implements the primal and dual simplex variants over a
// dense tableau.
//
// Both variants share tableau.Pivot. Whenever a constraint row has a
// negative RHS the dual variant runs (leaving row = most negative RHS,
// entering column = smallest |reduced cost / row entry| over negative row
// entries); once the RHS column is non-negative the primal variant finishes
// (Dantzig entering column, minimum-ratio leaving row, first index on ties).
//
// Terminal outcomes are reported as a Status inside a Result value, never as
// errors. Errors are reserved for the pivot cap and invalid options.
package simplex

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/katalvlaran/lpr/tableau"
)

var (
	// ErrPivotLimit is returned when MaxPivots pivots did not reach a terminal status.
	ErrPivotLimit = errors.New("simplex: pivot limit reached")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("simplex: invalid option supplied")
)

// Status is the terminal outcome of a solve.
type Status int

const (
	// Optimal means no improving column remains and the RHS is feasible.
	Optimal Status = iota
	// Unbounded means an improving column has no positive entry.
	Unbounded
	// Infeasible means a negative-RHS row has no negative entry.
	Infeasible
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Optimal:
		return "optimal"
	case Unbounded:
		return "unbounded"
	case Infeasible:
		return "infeasible"
	}

	return fmt.Sprintf("Status(%d)", int(s))
}

// Variant names the pivoting rule that chose a pivot.
type Variant int

const (
	// Primal is the Dantzig/minimum-ratio rule.
	Primal Variant = iota
	// Dual is the most-negative-RHS rule.
	Dual
)

// String implements fmt.Stringer.
func (v Variant) String() string {
	if v == Dual {
		return "dual"
	}

	return "primal"
}

// State is the lifecycle of an Engine.
type State int

const (
	// Initialized means a model is bound and no solve has run since.
	Initialized State = iota
	// Iterating means a solve is in progress.
	Iterating
	// Terminated means the last solve reached Optimal, Unbounded or
	// Infeasible; Engine.Status reports which.
	Terminated
	// Aborted means the last solve stopped on an error such as ErrPivotLimit.
	Aborted
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Initialized:
		return "initialized"
	case Iterating:
		return "iterating"
	case Terminated:
		return "terminated"
	case Aborted:
		return "aborted"
	}

	return fmt.Sprintf("State(%d)", int(s))
}

// Result is the tagged outcome of a solve, returned by value.
// Values and Tableau are meaningful for every status; for Optimal they hold
// the optimal basic solution.
type Result struct {
	Status    Status
	Values    []float64 // one entry per tableau column (decision, mirror, slack)
	Objective float64
	Tableau   *tableau.Tableau
	Pivots    int
}

// Decision returns the values of the model's decision variables.
func (r Result) Decision() []float64 {
	if r.Tableau == nil {
		return nil
	}

	return r.Tableau.Decision(r.Values)
}

// Observer receives solver events; metrics.Recorder implements it.
type Observer interface {
	ObservePivot(variant string)
	ObserveSolve(status string, pivots int, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObservePivot(string)                     {}
func (nopObserver) ObserveSolve(string, int, time.Duration) {}

// Option configures an Engine or Iterate call.
type Option func(*Options)

// Options holds the numeric policy and callbacks.
type Options struct {
	// Tolerances is the epsilon policy.
	Tolerances tableau.Tolerances

	// MaxPivots caps pivots per solve (0 means no cap).
	MaxPivots int

	// Logger receives Debug events per pivot.
	Logger *slog.Logger

	// Observer receives pivot and solve events.
	Observer Observer

	// OnPivot is called after every successful pivot.
	OnPivot func(v Variant, row, col int)

	err error
}

// DefaultPivotLimit bounds a single solve.
const DefaultPivotLimit = 10000

// DefaultOptions returns default tolerances, a 10000 pivot cap, a discarding
// logger and no-op hooks.
func DefaultOptions() Options {
	return Options{
		Tolerances: tableau.DefaultTolerances(),
		MaxPivots:  DefaultPivotLimit,
		Logger:     slog.New(slog.DiscardHandler),
		Observer:   nopObserver{},
		OnPivot:    func(Variant, int, int) {},
	}
}

// WithTolerances sets the epsilon policy; non-positive values are rejected.
func WithTolerances(tol tableau.Tolerances) Option {
	return func(o *Options) {
		if tol.Identity <= 0 || tol.Integrality <= 0 {
			o.err = fmt.Errorf("%w: tolerances must be positive (%g, %g)", ErrOptionViolation, tol.Identity, tol.Integrality)
			return
		}
		o.Tolerances = tol
	}
}

// WithMaxPivots caps pivots per solve.
//
//	n > 0: limit to n pivots
//	n == 0: no limit
//	n < 0: invalid option → ErrOptionViolation
func WithMaxPivots(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: MaxPivots cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxPivots = n
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithObserver registers an event observer.
func WithObserver(obs Observer) Option {
	return func(o *Options) {
		if obs != nil {
			o.Observer = obs
		}
	}
}

// WithOnPivot registers a per-pivot callback.
func WithOnPivot(fn func(v Variant, row, col int)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnPivot = fn
		}
	}
}

// NewOptions applies opts over DefaultOptions and reports the first violation.
func NewOptions(opts ...Option) (Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
		if o.err != nil {
			return o, o.err
		}
	}

	return o, nil
}
