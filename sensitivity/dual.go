// SPDX-License-Identifier: MIT

package sensitivity

import (
	"fmt"

	"github.com/katalvlaran/lpr/matrix"
	"github.com/katalvlaran/lpr/model"
	"github.com/katalvlaran/lpr/simplex"
)

// DualityKind classifies the primal/dual relationship.
type DualityKind int

const (
	// Weak duality: the dual bounds the primal.
	Weak DualityKind = iota
	// Strong duality: both optima coincide.
	Strong
)

// String implements fmt.Stringer.
func (k DualityKind) String() string {
	if k == Strong {
		return "strong"
	}

	return "weak"
}

// DualityReport is the outcome of VerifyDuality.
type DualityReport struct {
	Kind            DualityKind
	PrimalObjective float64
}

// Dual returns the dual of the context's model.
func (c *Context) Dual() (model.Model, error) {
	if err := c.ready(); err != nil {
		return model.Model{}, err
	}

	return Dual(c.m)
}

// Dual builds the dual of m. The dual objective is the primal RHS vector,
// its constraints are the transposed coefficient matrix with the primal
// objective as right-hand side, and the direction flips.
//
//	primal Maximize: <= row → y >= 0, >= row → y <= 0, = row → y free;
//	                 x >= 0 → >= row, x <= 0 → <= row, x free → = row.
//	primal Minimize: the same with every relation reversed.
//
// Integer and binary tags are relaxed to non-negative. Dual(Dual(m)) has
// m's direction, coefficients and relations.
// Complexity: O(m*n).
func Dual(m model.Model) (model.Model, error) {
	if err := m.Validate(); err != nil {
		return model.Model{}, err
	}
	if m.NumConstraints() == 0 {
		return model.Model{}, fmt.Errorf("dual of a model without constraints: %w", ErrDimensionMismatch)
	}
	rows := make([][]float64, m.NumConstraints())
	b := make([]float64, m.NumConstraints())
	signs := make([]model.SignRestriction, m.NumConstraints())
	dir := m.Objective.Direction
	for i, con := range m.Constraints {
		rows[i] = con.Coefficients
		b[i] = con.RHS
		signs[i] = dualSign(dir, con.Relation)
	}
	a, err := matrix.NewDenseFrom(rows)
	if err != nil {
		return model.Model{}, err
	}
	at := a.Transpose()

	cons := make([]model.Constraint, at.Rows())
	for j := range cons {
		cons[j] = model.Constraint{
			Coefficients: append([]float64(nil), at.RawRow(j)...),
			Relation:     dualRelation(dir, m.Signs[j]),
			RHS:          m.Objective.Coefficients[j],
		}
	}

	return model.New(model.Objective{Direction: dir.Flip(), Coefficients: b}, cons, signs)
}

// natural is the relation whose dual variable is non-negative.
func natural(dir model.Direction) model.Relation {
	if dir == model.Minimize {
		return model.GreaterEq
	}

	return model.LessEq
}

func opposite(r model.Relation) model.Relation {
	if r == model.LessEq {
		return model.GreaterEq
	}

	return model.LessEq
}

func dualSign(dir model.Direction, rel model.Relation) model.SignRestriction {
	switch rel {
	case model.Equal:
		return model.Unrestricted
	case natural(dir):
		return model.NonNegative
	}

	return model.NonPositive
}

func dualRelation(dir model.Direction, s model.SignRestriction) model.Relation {
	rel := opposite(natural(dir))
	switch s {
	case model.Unrestricted:
		return model.Equal
	case model.NonPositive:
		return opposite(rel)
	}

	return rel
}

// SolveDual builds the dual model and solves it with a fresh engine.
func (c *Context) SolveDual() (simplex.Result, model.Model, error) {
	d, err := c.Dual()
	if err != nil {
		return simplex.Result{}, model.Model{}, err
	}
	res, err := simplex.Solve(d, c.opts.simplex...)

	return res, d, err
}

// VerifyDuality reports strong duality for the optimal primal held by the
// context. The dual objective is not compared.
func (c *Context) VerifyDuality() (DualityReport, error) {
	if err := c.ready(); err != nil {
		return DualityReport{}, err
	}
	rep := DualityReport{Kind: Weak, PrimalObjective: c.t.Objective()}
	if c.status == simplex.Optimal {
		rep.Kind = Strong
	}

	return rep, nil
}
