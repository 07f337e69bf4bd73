// SPDX-License-Identifier: MIT

package simplex

import (
	"fmt"
	"math"
	"time"

	"github.com/katalvlaran/lpr/model"
	"github.com/katalvlaran/lpr/tableau"
)

// Engine binds a model to the simplex routine. It is not safe for
// concurrent use; branch-and-bound reuses one Engine via UpdateModel.
type Engine struct {
	model  model.Model
	opts   Options
	state  State
	status Status
}

// New creates an Engine for m. Options are validated eagerly.
func New(m model.Model, opts ...Option) (*Engine, error) {
	o, err := NewOptions(opts...)
	if err != nil {
		return nil, err
	}

	return &Engine{model: m, opts: o, state: Initialized}, nil
}

// Model returns the bound model.
func (e *Engine) Model() model.Model { return e.model }

// State returns the lifecycle state.
func (e *Engine) State() State { return e.state }

// Status returns the terminal status of the last solve. ok is false unless
// State is Terminated.
func (e *Engine) Status() (s Status, ok bool) {
	return e.status, e.state == Terminated
}

// UpdateModel rebinds the engine; the next Solve builds a fresh tableau.
func (e *Engine) UpdateModel(m model.Model) {
	e.model = m
	e.state = Initialized
}

// Solve builds the tableau of the bound model and iterates to a terminal
// status. The returned tableau is owned by the caller.
func (e *Engine) Solve() (Result, error) {
	t, err := tableau.Build(e.model, e.opts.Tolerances)
	if err != nil {
		return Result{}, err
	}
	e.state = Iterating
	res, err := run(t, e.opts)
	if err != nil {
		e.state = Aborted
		return res, err
	}
	e.state, e.status = Terminated, res.Status

	return res, nil
}

// Solve is a one-shot helper around New and Engine.Solve.
func Solve(m model.Model, opts ...Option) (Result, error) {
	e, err := New(m, opts...)
	if err != nil {
		return Result{}, err
	}

	return e.Solve()
}

// Iterate continues pivoting on an existing tableau, for example after a cut
// or a what-if edit has made it primal infeasible.
func Iterate(t *tableau.Tableau, opts ...Option) (Result, error) {
	o, err := NewOptions(opts...)
	if err != nil {
		return Result{}, err
	}

	return run(t, o)
}

// run drives both variants until a terminal status.
// Stage 1 (Dual): while some RHS is negative, pivot on the most negative row.
// Stage 2 (Primal): pivot on the Dantzig column until no column improves.
// Complexity: O(pivots * rows * cols).
func run(t *tableau.Tableau, o Options) (Result, error) {
	start := time.Now()
	eps := o.Tolerances.Identity
	pivots := 0
	finish := func(s Status) (Result, error) {
		o.Observer.ObserveSolve(s.String(), pivots, time.Since(start))
		o.Logger.Debug("simplex finished", "status", s.String(), "pivots", pivots, "objective", t.Objective())

		return Result{Status: s, Values: t.Values(), Objective: t.Objective(), Tableau: t, Pivots: pivots}, nil
	}

	for {
		var v Variant
		r, c := t.NegativeRHSRow(), -1
		if r >= 0 {
			v = Dual
			if c = dualEntering(t, r, eps); c < 0 {
				return finish(Infeasible)
			}
		} else {
			v = Primal
			if c = primalEntering(t, eps); c < 0 {
				return finish(Optimal)
			}
			if r = ratioRow(t, c, eps); r < 0 {
				return finish(Unbounded)
			}
		}

		if o.MaxPivots > 0 && pivots >= o.MaxPivots {
			o.Observer.ObserveSolve("limit", pivots, time.Since(start))
			return Result{Values: t.Values(), Objective: t.Objective(), Tableau: t, Pivots: pivots},
				fmt.Errorf("%w: %d pivots", ErrPivotLimit, pivots)
		}
		if err := t.Pivot(r, c); err != nil {
			return Result{}, err
		}
		pivots++
		o.Observer.ObservePivot(v.String())
		o.OnPivot(v, r, c)
		o.Logger.Debug("pivot", "variant", v.String(), "row", r, "col", c, "objective", t.Objective())
	}
}

// primalEntering applies the Dantzig rule: most negative objective-row entry
// when maximizing, most positive when minimizing. First index wins ties.
func primalEntering(t *tableau.Tableau, eps float64) int {
	obj := t.Row(0)
	col, best := -1, eps
	for j := 0; j < t.NumColumns(); j++ {
		v := obj[j]
		if t.Direction() == model.Maximize {
			v = -v
		}
		if v > best {
			col, best = j, v
		}
	}

	return col
}

// ratioRow is the minimum-ratio test over strictly positive entries of
// column c, scanning top-down and keeping the first minimum.
func ratioRow(t *tableau.Tableau, c int, eps float64) int {
	row, best := -1, math.Inf(1)
	for i := 1; i < t.Rows(); i++ {
		a := t.Row(i)[c]
		if a <= eps {
			continue
		}
		if ratio := t.RHS(i) / a; ratio < best {
			row, best = i, ratio
		}
	}

	return row
}

// dualEntering picks, within row r, the strictly negative entry with the
// smallest |objective-row entry / row entry|. First index wins ties.
func dualEntering(t *tableau.Tableau, r int, eps float64) int {
	obj, row := t.Row(0), t.Row(r)
	col, best := -1, math.Inf(1)
	for j := 0; j < t.NumColumns(); j++ {
		if row[j] >= -eps {
			continue
		}
		if ratio := math.Abs(obj[j] / row[j]); ratio < best {
			col, best = j, ratio
		}
	}

	return col
}
