// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"math"
	"strings"

	"github.com/katalvlaran/lpr/lpfile"
	"github.com/katalvlaran/lpr/model"
	"github.com/katalvlaran/lpr/simplex"
)

type lpView struct {
	Status    string    `json:"status"`
	Objective float64   `json:"objective"`
	X         []float64 `json:"x"`
	Pivots    int       `json:"pivots"`
}

func viewLP(r simplex.Result) lpView {
	return lpView{Status: r.Status.String(), Objective: r.Objective, X: r.Decision(), Pivots: r.Pivots}
}

type candidateView struct {
	Label     string    `json:"label"`
	Objective float64   `json:"objective"`
	X         []float64 `json:"x"`
}

type nodeView struct {
	Label     string    `json:"label"`
	Outcome   string    `json:"outcome"`
	Objective float64   `json:"objective"`
	X         []float64 `json:"x,omitempty"`
}

type searchView struct {
	Best       *candidateView  `json:"best"`
	Candidates []candidateView `json:"candidates"`
	Nodes      []nodeView      `json:"nodes"`
	Ranking    []int           `json:"ranking,omitempty"`
}

func runSolve(ctx context.Context, a *app, m model.Model) (any, error) {
	res, err := a.svc.Solve(ctx, m)
	if err != nil {
		return nil, err
	}

	return viewLP(res), nil
}

func runBranchAndBound(ctx context.Context, a *app, m model.Model) (any, error) {
	res, err := a.svc.BranchAndBound(ctx, m)
	v := searchView{}
	for _, c := range res.Candidates {
		v.Candidates = append(v.Candidates, candidateView{Label: c.Label, Objective: c.Objective, X: c.Values})
	}
	for _, n := range res.Nodes {
		v.Nodes = append(v.Nodes, nodeView{Label: n.Label, Outcome: n.Outcome.String(), Objective: n.Objective, X: n.Values})
	}
	if res.Best >= 0 && res.Best < len(v.Candidates) {
		v.Best = &v.Candidates[res.Best]
	}

	return v, err
}

func runKnapsack(ctx context.Context, a *app, m model.Model) (any, error) {
	res, err := a.svc.Knapsack(ctx, m)
	v := searchView{Ranking: res.Ranking}
	for _, c := range res.Candidates {
		v.Candidates = append(v.Candidates, candidateView{Label: c.Label, Objective: c.Objective, X: c.Values})
	}
	for _, n := range res.Nodes {
		v.Nodes = append(v.Nodes, nodeView{Label: n.Label, Outcome: n.Outcome.String(), Objective: m.Evaluate(n.Values), X: n.Values})
	}
	if res.Best >= 0 && res.Best < len(v.Candidates) {
		v.Best = &v.Candidates[res.Best]
	}

	return v, err
}

type cutView struct {
	lpView
	Cuts int `json:"cuts"`
}

func runCuttingPlane(ctx context.Context, a *app, m model.Model) (any, error) {
	res, err := a.svc.CuttingPlane(ctx, m)

	return cutView{lpView: viewLP(res.Result), Cuts: res.Iterations}, err
}

// finite maps an infinite range end to nil so it encodes as null.
func finite(v float64) *float64 {
	if math.IsInf(v, 0) {
		return nil
	}

	return &v
}

type rangeView struct {
	Column int      `json:"column"`
	Basic  bool     `json:"basic"`
	Lower  *float64 `json:"lower"`
	Upper  *float64 `json:"upper"`
	Kind   string   `json:"kind"`
}

type rhsView struct {
	Constraint int      `json:"constraint"`
	RHS        float64  `json:"rhs"`
	Lower      *float64 `json:"lower"`
	Upper      *float64 `json:"upper"`
	DualValue  float64  `json:"dual_value"`
}

type dualView struct {
	Primal       lpView      `json:"primal"`
	Ranges       []rangeView `json:"ranges"`
	RHSRanges    []rhsView   `json:"rhs_ranges"`
	ShadowPrices []float64   `json:"shadow_prices"`
	DualModel    string      `json:"dual_model"`
	Dual         lpView      `json:"dual"`
	Duality      string      `json:"duality"`
}

func runDual(ctx context.Context, a *app, m model.Model) (any, error) {
	sc, err := a.svc.Analyze(ctx, m)
	if err != nil {
		return nil, err
	}
	tb := sc.Tableau()
	v := dualView{Primal: lpView{Status: sc.Status().String(), Objective: tb.Objective(), X: sc.Decision()}}

	nonBasic, basic := sc.Columns()
	for _, c := range basic {
		r, err := sc.BasicRange(c)
		if err != nil {
			return nil, err
		}
		v.Ranges = append(v.Ranges, rangeView{Column: c, Basic: true, Lower: finite(r.Lower), Upper: finite(r.Upper), Kind: "cost"})
	}
	for _, c := range nonBasic {
		r, err := sc.NonBasicRange(c)
		if err != nil {
			return nil, err
		}
		v.Ranges = append(v.Ranges, rangeView{Column: c, Lower: finite(r.Lower), Upper: finite(r.Upper), Kind: "value"})
	}

	duals, err := sc.DualValues()
	if err != nil {
		return nil, err
	}
	analysed := sc.Model()
	for i, con := range analysed.Constraints {
		r, err := sc.ConstraintRHSRange(i)
		if err != nil {
			return nil, err
		}
		v.RHSRanges = append(v.RHSRanges, rhsView{Constraint: i, RHS: con.RHS, Lower: finite(r.Lower), Upper: finite(r.Upper), DualValue: duals[i]})
	}
	if v.ShadowPrices, err = sc.ShadowPrices(); err != nil {
		return nil, err
	}

	res, d, err := sc.SolveDual()
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	if err := lpfile.Write(&sb, d); err != nil {
		return nil, err
	}
	v.DualModel = sb.String()
	v.Dual = viewLP(res)

	rep, err := sc.VerifyDuality()
	if err != nil {
		return nil, err
	}
	v.Duality = rep.Kind.String()

	return v, nil
}
