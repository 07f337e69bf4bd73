// SPDX-License-Identifier: MIT

package tableau

import (
	"fmt"

	"github.com/katalvlaran/lpr/matrix"
	"github.com/katalvlaran/lpr/model"
)

// Build converts m into its initial tableau.
//
// Stage 1 (Validate): m must satisfy model.Validate; Binary variables get
// their x_j <= 1 rows (idempotent).
// Stage 2 (Columns): one column per variable, negated for NonPositive, plus a
// mirror column per Unrestricted variable, then one slack per row.
// Stage 3 (Rows): row 0 stores -c for both directions. A <= row is copied
// with slack +1. A >= row is stored negated with slack +1, leaving a negative
// RHS for the dual variant. An = row becomes one row of each kind.
// No artificial variables are introduced.
//
// Complexity: O(m*n).
func Build(m model.Model, tol Tolerances) (*Tableau, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("tableau: %w: %w", ErrDimensionMismatch, err)
	}
	work := m.WithBinaryBounds()
	n := work.NumVariables()

	t := &Tableau{dir: work.Objective.Direction, nvars: n, tol: tol}
	for j, s := range work.Signs {
		sign := 1.0
		if s == model.NonPositive {
			sign = -1
		}
		t.columns = append(t.columns, Column{Kind: Decision, Var: j, Sign: sign})
	}
	for j, s := range work.Signs {
		if s == model.Unrestricted {
			t.columns = append(t.columns, Column{Kind: Mirror, Var: j, Sign: -1})
		}
	}

	type proto struct {
		coeffs []float64
		rhs    float64
		sign   float64
		origin int
	}
	var rows []proto
	for i, c := range work.Constraints {
		switch c.Relation {
		case model.LessEq:
			rows = append(rows, proto{c.Coefficients, c.RHS, 1, i})
		case model.GreaterEq:
			rows = append(rows, proto{c.Coefficients, c.RHS, -1, i})
		case model.Equal:
			rows = append(rows, proto{c.Coefficients, c.RHS, 1, i}, proto{c.Coefficients, c.RHS, -1, i})
		}
	}

	nvar := len(t.columns)
	cols := nvar + len(rows) + 1
	dense, err := matrix.NewDense(len(rows)+1, cols)
	if err != nil {
		return nil, err
	}
	t.m = dense

	obj := dense.RawRow(0)
	for k, col := range t.columns {
		obj[k] = -work.Objective.Coefficients[col.Var] * col.Sign
	}
	for r, p := range rows {
		row := dense.RawRow(r + 1)
		for k, col := range t.columns[:nvar] {
			row[k] = p.sign * p.coeffs[col.Var] * col.Sign
		}
		row[nvar+r] = 1
		row[cols-1] = p.sign * p.rhs
		t.columns = append(t.columns, Column{Kind: Slack, Var: r + 1, Sign: 1})
		t.origin = append(t.origin, p.origin)
		t.rowSign = append(t.rowSign, p.sign)
	}

	return t, nil
}
