// SPDX-License-Identifier: MIT

package branchbound

import (
	"math"

	"github.com/katalvlaran/lpr/model"
	"github.com/katalvlaran/lpr/simplex"
)

// walker holds the search state; all Option callbacks are pre-applied.
type walker struct {
	opts    Options
	engine  *simplex.Engine
	dir     model.Direction
	mask    []bool
	queue   []Node
	seen    map[string]struct{}
	solved  int
	res     Result
	bestObj float64
}

// Solve runs FIFO branch-and-bound from the root model m.
//
// Stage 1 (Init): validate options, seed the queue with the root node "0".
// Stage 2 (Loop): dequeue, skip duplicate signatures, solve the relaxation,
// prune infeasible or unbounded nodes, record integral solutions, otherwise
// split on the first fractional integer variable into x_j <= floor (".1")
// and x_j >= ceil (".2").
// Stage 3 (Finalize): return every candidate and the index of the best.
//
// The integer variables are those tagged Binary or Integer; when none is
// tagged every variable is treated as integer. When the node cap is hit the
// partial result is returned with ErrNodeLimit.
func Solve(m model.Model, opts ...Option) (Result, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return Result{Best: -1}, o.err
	}
	simplexOpts := append([]simplex.Option{simplex.WithTolerances(o.Tolerances), simplex.WithLogger(o.Logger)}, o.Simplex...)
	engine, err := simplex.New(m, simplexOpts...)
	if err != nil {
		return Result{Best: -1}, err
	}

	w := &walker{
		opts:   o,
		engine: engine,
		dir:    m.Objective.Direction,
		mask:   m.IntegerMask(),
		seen:   make(map[string]struct{}),
		res:    Result{Best: -1},
	}
	w.enqueue(Node{Label: RootLabel, Model: m.Clone()})
	err = w.loop()

	return w.res, err
}

// enqueue appends a node and fires OnEnqueue.
func (w *walker) enqueue(n Node) {
	w.queue = append(w.queue, n)
	w.opts.OnEnqueue(n.Label, n.Depth)
}

// dequeue pops the oldest node.
func (w *walker) dequeue() Node {
	n := w.queue[0]
	w.queue[0] = Node{}
	w.queue = w.queue[1:]

	return n
}

func (w *walker) loop() error {
	for len(w.queue) > 0 {
		select {
		case <-w.opts.Ctx.Done():
			return w.opts.Ctx.Err()
		default:
		}
		n := w.dequeue()
		w.opts.OnDequeue(n.Label, n.Depth)
		if err := w.visit(n); err != nil {
			return err
		}
	}

	return nil
}

// visit processes one node.
func (w *walker) visit(n Node) error {
	sig := n.Model.Signature()
	if _, dup := w.seen[sig]; dup {
		w.report(NodeReport{Label: n.Label, Outcome: Duplicate, BranchVar: -1})
		return nil
	}
	if w.opts.MaxNodes > 0 && w.solved >= w.opts.MaxNodes {
		return ErrNodeLimit
	}
	w.seen[sig] = struct{}{}
	w.solved++

	w.engine.UpdateModel(n.Model)
	r, err := w.engine.Solve()
	if err != nil {
		return err
	}
	if err = w.opts.OnSolve(n, r); err != nil {
		return err
	}

	switch r.Status {
	case simplex.Infeasible:
		w.report(NodeReport{Label: n.Label, Outcome: PrunedInfeasible, BranchVar: -1})
		return nil
	case simplex.Unbounded:
		w.report(NodeReport{Label: n.Label, Outcome: PrunedUnbounded, BranchVar: -1})
		return nil
	}

	x := r.Decision()
	rep := NodeReport{Label: n.Label, Objective: r.Objective, Values: x, BranchVar: -1}
	if w.opts.BoundPruning && w.res.Best >= 0 && !w.dir.Better(r.Objective, w.bestObj) {
		rep.Outcome = PrunedBound
		w.report(rep)
		return nil
	}

	j := w.fractional(x)
	if j < 0 {
		rep.Outcome = Integral
		w.report(rep)
		w.record(Candidate{Label: n.Label, Values: w.snap(x), Objective: r.Objective})
		return nil
	}

	rep.Outcome, rep.BranchVar = Branched, j
	w.report(rep)
	lo, err := n.Model.AddConstraint(n.Model.Bound(j, model.LessEq, math.Floor(x[j])))
	if err != nil {
		return err
	}
	hi, err := n.Model.AddConstraint(n.Model.Bound(j, model.GreaterEq, math.Ceil(x[j])))
	if err != nil {
		return err
	}
	w.enqueue(Node{Label: n.Label + ".1", Depth: n.Depth + 1, Model: lo})
	w.enqueue(Node{Label: n.Label + ".2", Depth: n.Depth + 1, Model: hi})

	return nil
}

// fractional returns the first integer variable farther than the
// integrality tolerance from its rounding, or -1.
func (w *walker) fractional(x []float64) int {
	for j, v := range x {
		if j < len(w.mask) && w.mask[j] && math.Abs(v-math.Round(v)) > w.opts.Tolerances.Integrality {
			return j
		}
	}

	return -1
}

// snap rounds integer variables to remove float noise from candidates.
func (w *walker) snap(x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = v
		if j < len(w.mask) && w.mask[j] {
			out[j] = math.Round(v)
		}
	}

	return out
}

// record appends a candidate and updates the incumbent; the first of equal
// objectives stays best.
func (w *walker) record(c Candidate) {
	w.res.Candidates = append(w.res.Candidates, c)
	if w.res.Best < 0 || w.dir.Better(c.Objective, w.bestObj) {
		w.res.Best = len(w.res.Candidates) - 1
		w.bestObj = c.Objective
	}
}

func (w *walker) report(rep NodeReport) {
	w.res.Nodes = append(w.res.Nodes, rep)
	w.opts.Observer.ObserveNode(rep.Outcome.String())
	w.opts.Logger.Debug("branch node", "label", rep.Label, "outcome", rep.Outcome.String(), "objective", rep.Objective)
}
