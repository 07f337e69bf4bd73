// SPDX-License-Identifier: MIT

// Package branchbound provides tunable options, node and result types for the
// FIFO branch-and-bound search over LP relaxations.
package branchbound

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/lpr/model"
	"github.com/katalvlaran/lpr/simplex"
	"github.com/katalvlaran/lpr/tableau"
)

// Sentinel errors for branch-and-bound execution.
var (
	// ErrNodeLimit is returned when MaxNodes relaxations were solved before the queue emptied.
	ErrNodeLimit = errors.New("branchbound: node limit reached")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("branchbound: invalid option supplied")
)

// RootLabel is the path label of the root subproblem.
const RootLabel = "0"

// Node is one subproblem: an independent model plus its path label.
// Children extend the label with ".1" (floor branch) or ".2" (ceil branch).
type Node struct {
	Label string
	Depth int
	Model model.Model
}

// Outcome classifies what happened to a dequeued node.
type Outcome int

const (
	// Branched means the relaxation was fractional and two children were queued.
	Branched Outcome = iota
	// Integral means the relaxation was integer and became a candidate.
	Integral
	// PrunedInfeasible means the relaxation had no feasible point.
	PrunedInfeasible
	// PrunedUnbounded means the relaxation was unbounded.
	PrunedUnbounded
	// Duplicate means an identical subproblem was already processed.
	Duplicate
	// PrunedBound means the relaxation could not beat the incumbent (bound pruning only).
	PrunedBound
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case Branched:
		return "branched"
	case Integral:
		return "integral"
	case PrunedInfeasible:
		return "infeasible"
	case PrunedUnbounded:
		return "unbounded"
	case Duplicate:
		return "duplicate"
	case PrunedBound:
		return "bound"
	}

	return fmt.Sprintf("Outcome(%d)", int(o))
}

// NodeReport records one dequeued node.
type NodeReport struct {
	Label     string
	Outcome   Outcome
	Objective float64   // relaxation objective (zero for duplicates and infeasible nodes)
	Values    []float64 // relaxation decision values, nil when not solved
	BranchVar int       // branching variable, -1 unless Branched
}

// Candidate is an integer-feasible solution.
type Candidate struct {
	Label     string
	Values    []float64
	Objective float64
}

// Result lists every candidate in discovery order and the index of the best
// one under the model's direction (-1 when none was found).
type Result struct {
	Candidates []Candidate
	Best       int
	Nodes      []NodeReport
}

// BestCandidate returns the best candidate, if any.
func (r Result) BestCandidate() (Candidate, bool) {
	if r.Best < 0 || r.Best >= len(r.Candidates) {
		return Candidate{}, false
	}

	return r.Candidates[r.Best], true
}

// Observer receives per-node events; metrics.Recorder implements it.
type Observer interface {
	ObserveNode(outcome string)
}

type nopObserver struct{}

func (nopObserver) ObserveNode(string) {}

// Option configures branch-and-bound via functional arguments.
// If an Option is invalid it is recorded and surfaced as ErrOptionViolation.
type Option func(*Options)

// Options holds parameters and callbacks for the search.
type Options struct {
	// Ctx allows cancellation between nodes.
	Ctx context.Context

	// Tolerances is the epsilon policy (integrality checks use Integrality).
	Tolerances tableau.Tolerances

	// MaxNodes caps solved relaxations (0 means no cap).
	MaxNodes int

	// BoundPruning drops nodes whose relaxation cannot beat the incumbent.
	// Off by default: the search is exhaustive apart from duplicate removal.
	BoundPruning bool

	// OnEnqueue is called when a node enters the queue.
	OnEnqueue func(label string, depth int)

	// OnDequeue is called immediately before a node is examined.
	OnDequeue func(label string, depth int)

	// OnSolve is called after a node's relaxation is solved. Returning an
	// error aborts the search and propagates it.
	OnSolve func(n Node, r simplex.Result) error

	// Logger receives Debug events per node.
	Logger *slog.Logger

	// Observer receives per-node events.
	Observer Observer

	// Simplex is forwarded to the relaxation engine.
	Simplex []simplex.Option

	err error
}

// DefaultNodeLimit bounds a single search.
const DefaultNodeLimit = 10000

// DefaultOptions returns Background context, default tolerances, a 10000
// node cap, no bound pruning and no-op hooks.
func DefaultOptions() Options {
	return Options{
		Ctx:        context.Background(),
		Tolerances: tableau.DefaultTolerances(),
		MaxNodes:   DefaultNodeLimit,
		OnEnqueue:  func(string, int) {},
		OnDequeue:  func(string, int) {},
		OnSolve:    func(Node, simplex.Result) error { return nil },
		Logger:     slog.New(slog.DiscardHandler),
		Observer:   nopObserver{},
	}
}

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithTolerances sets the epsilon policy for both integrality checks and relaxations.
func WithTolerances(tol tableau.Tolerances) Option {
	return func(o *Options) {
		if tol.Identity <= 0 || tol.Integrality <= 0 {
			o.err = fmt.Errorf("%w: tolerances must be positive", ErrOptionViolation)
			return
		}
		o.Tolerances = tol
	}
}

// WithMaxNodes caps solved relaxations.
//
//	n > 0: limit to n nodes
//	n == 0: no limit
//	n < 0: invalid option → ErrOptionViolation
func WithMaxNodes(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: MaxNodes cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxNodes = n
	}
}

// WithBoundPruning toggles incumbent-based pruning.
func WithBoundPruning(on bool) Option {
	return func(o *Options) { o.BoundPruning = on }
}

// WithOnEnqueue registers a callback to run on enqueue.
func WithOnEnqueue(fn func(label string, depth int)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnEnqueue = fn
		}
	}
}

// WithOnDequeue registers a callback to run on dequeue.
func WithOnDequeue(fn func(label string, depth int)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnDequeue = fn
		}
	}
}

// WithOnSolve registers a callback to run after each relaxation.
func WithOnSolve(fn func(n Node, r simplex.Result) error) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnSolve = fn
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

// WithSimplexOptions forwards options to the relaxation engine.
func WithSimplexOptions(opts ...simplex.Option) Option {
	return func(o *Options) { o.Simplex = append(o.Simplex, opts...) }
}
