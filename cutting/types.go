// SPDX-License-Identifier: MIT

package cutting

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/lpr/model"
	"github.com/katalvlaran/lpr/simplex"
	"github.com/katalvlaran/lpr/tableau"
)

var (
	// ErrNonConvergence is returned when MaxCuts cuts did not make the RHS integral.
	ErrNonConvergence = errors.New("cutting: iteration cap reached without integral solution")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("cutting: invalid option supplied")
)

// Cut is one derived Gomory row. Constraint is expressed over the tableau
// columns that existed when it was derived, with the new slack coefficient
// (always 1) appended last; its relation is always <=.
type Cut struct {
	SourceRow  int
	Constraint model.Constraint
}

// Result is the final relaxation plus the cuts that produced it.
type Result struct {
	simplex.Result
	Cuts       []Cut
	Iterations int
}

// Observer receives one event per appended cut; metrics.Recorder implements it.
type Observer interface {
	ObserveCut()
}

type nopObserver struct{}

func (nopObserver) ObserveCut() {}

// Option configures the cutting-plane loop.
type Option func(*Options)

// Options holds the iteration cap, numeric policy and callbacks.
type Options struct {
	// MaxCuts caps the number of cuts appended before ErrNonConvergence.
	MaxCuts int

	// Tolerances is the epsilon policy (integrality uses Integrality).
	Tolerances tableau.Tolerances

	// OnCut is called after each cut is appended, before re-solving.
	OnCut func(c Cut)

	// Logger receives Debug events per cut.
	Logger *slog.Logger

	// Observer receives per-cut events.
	Observer Observer

	// Simplex is forwarded to the relaxation solves.
	Simplex []simplex.Option

	err error
}

// DefaultMaxCuts bounds the loop.
const DefaultMaxCuts = 25

// DefaultOptions returns a 25 cut cap, default tolerances and no-op hooks.
func DefaultOptions() Options {
	return Options{
		MaxCuts:    DefaultMaxCuts,
		Tolerances: tableau.DefaultTolerances(),
		OnCut:      func(Cut) {},
		Logger:     slog.New(slog.DiscardHandler),
		Observer:   nopObserver{},
	}
}

// WithMaxCuts sets the cut cap; it must be positive.
func WithMaxCuts(n int) Option {
	return func(o *Options) {
		if n <= 0 {
			o.err = fmt.Errorf("%w: MaxCuts must be positive (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxCuts = n
	}
}

// WithTolerances sets the epsilon policy.
func WithTolerances(tol tableau.Tolerances) Option {
	return func(o *Options) {
		if tol.Identity <= 0 || tol.Integrality <= 0 {
			o.err = fmt.Errorf("%w: tolerances must be positive", ErrOptionViolation)
			return
		}
		o.Tolerances = tol
	}
}

// WithOnCut registers a per-cut callback.
func WithOnCut(fn func(c Cut)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnCut = fn
		}
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

// WithSimplexOptions forwards options to the relaxation solves.
func WithSimplexOptions(opts ...simplex.Option) Option {
	return func(o *Options) { o.Simplex = append(o.Simplex, opts...) }
}
