// SPDX-License-Identifier: MIT

// Package cutting solves integer programs with Gomory fractional cuts on a
// single evolving tableau.
//
// After the relaxation is optimal, the constraint row whose RHS is closest to
// (but not within tolerance of) an integer is turned into a cut
//
//	-Σ frac(a_j) x_j + s = -frac(b)
//
// where frac(v) = v - floor(v) lies in [0,1). The new row is primal
// infeasible and dual feasible, so the dual variant restores optimality.
// The loop stops once every constraint-row RHS is integral or the cut cap
// is exceeded.
package cutting

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/katalvlaran/lpr/model"
	"github.com/katalvlaran/lpr/simplex"
	"github.com/katalvlaran/lpr/tableau"
)

// fracPlaces is the decimal precision used to strip float noise before
// splitting a value into integer and fractional parts.
const fracPlaces = 9

// Solve runs the cutting-plane loop on m.
//
// Stage 1 (Relax): solve the relaxation; a non-optimal status is returned as is.
// Stage 2 (Cut): while some constraint-row RHS is fractional, append a cut
// and re-solve with simplex.Iterate.
// Stage 3 (Finalize): return the last relaxation, or ErrNonConvergence with
// it once MaxCuts cuts did not suffice.
func Solve(m model.Model, opts ...Option) (Result, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return Result{}, o.err
	}
	sopts := append([]simplex.Option{simplex.WithTolerances(o.Tolerances), simplex.WithLogger(o.Logger)}, o.Simplex...)

	rel, err := simplex.Solve(m, sopts...)
	if err != nil {
		return Result{Result: rel}, err
	}
	res := Result{Result: rel}

	for res.Status == simplex.Optimal {
		t := res.Tableau
		row := pickRow(t, o.Tolerances)
		if row < 0 {
			return res, nil
		}
		if res.Iterations >= o.MaxCuts {
			return res, fmt.Errorf("%w: %d cuts", ErrNonConvergence, res.Iterations)
		}

		cut := Derive(t, row)
		coeffs := cut.Constraint.Coefficients[:len(cut.Constraint.Coefficients)-1]
		if _, err = t.AppendRow(coeffs, cut.Constraint.RHS, -1); err != nil {
			return res, err
		}
		res.Cuts = append(res.Cuts, cut)
		res.Iterations++
		o.Observer.ObserveCut()
		o.OnCut(cut)
		o.Logger.Debug("gomory cut", "source_row", row, "rhs", cut.Constraint.RHS, "iteration", res.Iterations)

		next, err := simplex.Iterate(t, sopts...)
		if err != nil {
			return res, err
		}
		res.Result = next
	}

	return res, nil
}

// pickRow returns the constraint row whose RHS has the smallest non-trivial
// distance to its nearest integer, or -1 when every row is integral.
// Ties prefer a row whose basic column is a decision variable, then the
// first row.
func pickRow(t *tableau.Tableau, tol tableau.Tolerances) int {
	basis := t.Basis()
	row, best, structural := -1, math.Inf(1), false
	for i := 1; i < t.Rows(); i++ {
		rhs := t.RHS(i)
		d := math.Abs(rhs - math.Round(rhs))
		if d <= tol.Integrality {
			continue
		}
		c := basis.BasicOf[i]
		isDecision := c >= 0 && t.Column(c).Kind != tableau.Slack
		switch {
		case d < best-tol.Identity:
			row, best, structural = i, d, isDecision
		case math.Abs(d-best) <= tol.Identity && isDecision && !structural:
			row, structural = i, true
		}
	}

	return row
}

// Derive builds the Gomory cut of constraint row r. Coefficients cover every
// current variable column followed by the new slack's 1.
func Derive(t *tableau.Tableau, r int) Cut {
	src := t.Row(r)
	n := t.NumColumns()
	coeffs := make([]float64, n+1)
	for j := 0; j < n; j++ {
		if f := frac(src[j]); f != 0 {
			coeffs[j] = -f
		}
	}
	coeffs[n] = 1

	return Cut{
		SourceRow:  r,
		Constraint: model.Constraint{Coefficients: coeffs, Relation: model.LessEq, RHS: -frac(src[t.RHSCol()])},
	}
}

// frac returns v - floor(v) in [0,1), computed on a rounded decimal so that
// values like 0.9999999999 count as integral.
func frac(v float64) float64 {
	d := decimal.NewFromFloat(v).Round(fracPlaces)
	f, _ := d.Sub(d.Floor()).Float64()

	return f
}
