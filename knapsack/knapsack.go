// SPDX-License-Identifier: MIT

// Package knapsack implements the ratio-greedy 0/1 branch-and-bound for
// models whose first constraint is a single <= capacity row.
//
// Variables are ranked by objective/weight ratio (descending, stable). Each
// node pins its fixed variables to the front of the ranking, fills the
// remaining capacity greedily and gives the first variable that does not fit
// the fractional value residual/weight. That variable is branched on: ".1"
// fixes it to 0, ".2" fixes it to 1. A node whose fixed ones overflow the
// capacity is dropped. A node without a fractional variable is a leaf and
// becomes a candidate when it satisfies every constraint of the model.
//
// The search is exhaustive: no relaxation bound is compared to the incumbent.
//
// Complexity: O(2^n) nodes in the worst case, O(n) per node plus O(m*n) per leaf.
package knapsack

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/katalvlaran/lpr/model"
)

var (
	// ErrNotKnapsack is returned when the model has no <= capacity row first.
	ErrNotKnapsack = errors.New("knapsack: first constraint must be a <= capacity row")

	// ErrNodeLimit is returned when MaxNodes nodes were expanded.
	ErrNodeLimit = errors.New("knapsack: node limit reached")
)

// Outcome classifies a visited node.
type Outcome int

const (
	// Branched means a fractional variable was split.
	Branched Outcome = iota
	// Leaf means the node became a candidate.
	Leaf
	// Overflow means the fixed variables exceed the capacity.
	Overflow
	// Violated means a leaf failed another constraint.
	Violated
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case Branched:
		return "branched"
	case Leaf:
		return "leaf"
	case Overflow:
		return "overflow"
	case Violated:
		return "violated"
	}

	return fmt.Sprintf("Outcome(%d)", int(o))
}

// NodeReport records one visited node.
type NodeReport struct {
	Label     string
	Outcome   Outcome
	Values    []float64
	Residual  float64
	BranchVar int
}

// Candidate is a 0/1 solution satisfying every constraint.
type Candidate struct {
	Label     string
	Values    []float64
	Objective float64
}

// Result holds the ranking, every candidate in discovery order, and the best.
type Result struct {
	Ranking    []int
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

// Option configures the search.
type Option func(*Options)

// Options holds the node cap, tolerance and callbacks.
type Options struct {
	MaxNodes int     // 0 means no cap
	Eps      float64 // capacity and feasibility tolerance
	OnNode   func(NodeReport)
	Logger   *slog.Logger
	Observer Observer
}

// DefaultOptions returns no node cap, eps 1e-9 and no-op hooks.
func DefaultOptions() Options {
	return Options{
		Eps:      1e-9,
		OnNode:   func(NodeReport) {},
		Logger:   slog.New(slog.DiscardHandler),
		Observer: nopObserver{},
	}
}

// WithMaxNodes caps visited nodes; n <= 0 disables the cap.
func WithMaxNodes(n int) Option {
	return func(o *Options) { o.MaxNodes = max(n, 0) }
}

// WithEps sets the tolerance; non-positive values are ignored.
func WithEps(eps float64) Option {
	return func(o *Options) {
		if eps > 0 {
			o.Eps = eps
		}
	}
}

// WithOnNode registers a per-node callback.
func WithOnNode(fn func(NodeReport)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnNode = fn
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

// Rank orders the variables with a non-zero capacity weight by
// objective/weight ratio, descending; equal ratios keep input order.
func Rank(m model.Model) ([]int, error) {
	if len(m.Constraints) == 0 || m.Constraints[0].Relation != model.LessEq {
		return nil, ErrNotKnapsack
	}
	w := m.Constraints[0].Coefficients
	c := m.Objective.Coefficients
	var idx []int
	ratio := make([]float64, len(c))
	for j := range c {
		if j < len(w) && w[j] != 0 {
			idx = append(idx, j)
			ratio[j] = c[j] / w[j]
		}
	}
	slices.SortStableFunc(idx, func(a, b int) int { return cmp.Compare(ratio[b], ratio[a]) })

	return idx, nil
}

// fix pins one variable to 0 or 1.
type fix struct {
	v   int
	val float64
}

// engine holds the search data; it keeps the recursive dfs free of closures.
type engine struct {
	m        model.Model
	opts     Options
	weights  []float64
	capacity float64
	ranking  []int
	visited  int
	res      Result
	bestObj  float64
}

// Solve runs the knapsack branch-and-bound on m.
func Solve(m model.Model, opts ...Option) (Result, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	ranking, err := Rank(m)
	if err != nil {
		return Result{Best: -1}, err
	}
	e := &engine{
		m:        m,
		opts:     o,
		weights:  m.Constraints[0].Coefficients,
		capacity: m.Constraints[0].RHS,
		ranking:  ranking,
		res:      Result{Ranking: ranking, Best: -1},
	}
	err = e.dfs("0", nil)

	return e.res, err
}

// relax computes the greedy relaxation under the given fixings and returns
// the values, the residual capacity and the fractional variable (or -1).
func (e *engine) relax(fixed []fix) ([]float64, float64, int) {
	x := make([]float64, e.m.NumVariables())
	residual := e.capacity
	pinned := make(map[int]bool, len(fixed))
	for _, f := range fixed {
		x[f.v], pinned[f.v] = f.val, true
		if f.val == 1 {
			residual -= e.weights[f.v]
		}
	}
	for _, j := range e.ranking {
		if pinned[j] {
			continue
		}
		if e.weights[j] <= residual+e.opts.Eps {
			x[j] = 1
			residual -= e.weights[j]
			continue
		}
		frac := residual / e.weights[j]
		if frac > e.opts.Eps {
			x[j] = frac
			residual = 0
			return x, residual, j
		}
		break
	}

	return x, residual, -1
}

// dfs expands one node and recurses into its ".1" then ".2" child.
func (e *engine) dfs(label string, fixed []fix) error {
	if e.opts.MaxNodes > 0 && e.visited >= e.opts.MaxNodes {
		return ErrNodeLimit
	}
	e.visited++

	x, residual, branch := e.relax(fixed)
	rep := NodeReport{Label: label, Values: x, Residual: residual, BranchVar: branch}
	switch {
	case residual < -e.opts.Eps:
		rep.Outcome = Overflow
	case branch >= 0:
		rep.Outcome = Branched
	case e.m.Feasible(x, e.opts.Eps):
		rep.Outcome = Leaf
	default:
		rep.Outcome = Violated
	}
	e.report(rep)

	switch rep.Outcome {
	case Leaf:
		e.record(Candidate{Label: label, Values: x, Objective: e.m.Evaluate(x)})
	case Branched:
		lo := append(slices.Clone(fixed), fix{v: branch, val: 0})
		if err := e.dfs(label+".1", lo); err != nil {
			return err
		}
		hi := append(slices.Clone(fixed), fix{v: branch, val: 1})
		return e.dfs(label+".2", hi)
	}

	return nil
}

func (e *engine) record(c Candidate) {
	e.res.Candidates = append(e.res.Candidates, c)
	if e.res.Best < 0 || e.m.Objective.Direction.Better(c.Objective, e.bestObj) {
		e.res.Best = len(e.res.Candidates) - 1
		e.bestObj = c.Objective
	}
}

func (e *engine) report(rep NodeReport) {
	e.res.Nodes = append(e.res.Nodes, rep)
	e.opts.OnNode(rep)
	e.opts.Observer.ObserveNode(rep.Outcome.String())
	e.opts.Logger.Debug("knapsack node", "label", rep.Label, "outcome", rep.Outcome.String(), "residual", rep.Residual)
}
