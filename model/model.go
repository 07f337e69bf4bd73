// SPDX-License-Identifier: MIT

package model

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Objective is the function being optimized.
type Objective struct {
	Direction    Direction
	Coefficients []float64
}

// Constraint is one row a·x (relation) rhs.
type Constraint struct {
	Coefficients []float64
	Relation     Relation
	RHS          float64
}

// Equal reports structural equality: same coefficients, relation and RHS.
func (c Constraint) Equal(o Constraint) bool {
	return c.Relation == o.Relation && c.RHS == o.RHS && slices.Equal(c.Coefficients, o.Coefficients)
}

// Clone returns a copy that does not share the coefficient slice.
func (c Constraint) Clone() Constraint {
	c.Coefficients = slices.Clone(c.Coefficients)
	return c
}

// Satisfied reports whether x meets the constraint within eps.
func (c Constraint) Satisfied(x []float64, eps float64) bool {
	lhs := dot(c.Coefficients, x)
	switch c.Relation {
	case GreaterEq:
		return lhs >= c.RHS-eps
	case Equal:
		return math.Abs(lhs-c.RHS) <= eps
	default:
		return lhs <= c.RHS+eps
	}
}

// Model is a complete LP/IP instance. The zero value is not valid; use New.
type Model struct {
	Objective   Objective
	Constraints []Constraint
	Signs       []SignRestriction
}

// New validates and normalizes a model.
// Stage 1 (Validate): the objective must have at least one coefficient and
// the sign list may not name more variables than exist.
// Stage 2 (Normalize): every row, objective included, is zero-padded to the
// widest row; missing sign tags default to NonNegative.
// Inputs are copied; the caller keeps ownership of its slices.
// Complexity: O(m*n).
func New(obj Objective, constraints []Constraint, signs []SignRestriction) (Model, error) {
	if len(obj.Coefficients) == 0 {
		return Model{}, ErrEmptyObjective
	}
	n := len(obj.Coefficients)
	for _, c := range constraints {
		n = max(n, len(c.Coefficients))
	}
	if len(signs) > n {
		return Model{}, fmt.Errorf("%d sign tags for %d variables: %w", len(signs), n, ErrDimensionMismatch)
	}

	m := Model{
		Objective:   Objective{Direction: obj.Direction, Coefficients: pad(obj.Coefficients, n)},
		Constraints: make([]Constraint, len(constraints)),
		Signs:       make([]SignRestriction, n),
	}
	for i, c := range constraints {
		m.Constraints[i] = Constraint{Coefficients: pad(c.Coefficients, n), Relation: c.Relation, RHS: c.RHS}
	}
	copy(m.Signs, signs)

	return m, nil
}

// NumVariables is the number of decision variables.
func (m Model) NumVariables() int { return len(m.Objective.Coefficients) }

// NumConstraints is the number of constraint rows.
func (m Model) NumConstraints() int { return len(m.Constraints) }

// Validate checks the post-normalization invariant that every row and the
// sign list have exactly NumVariables entries.
func (m Model) Validate() error {
	n := m.NumVariables()
	if n == 0 {
		return ErrEmptyObjective
	}
	for i, c := range m.Constraints {
		if len(c.Coefficients) != n {
			return fmt.Errorf("constraint %d has %d coefficients, want %d: %w", i, len(c.Coefficients), n, ErrDimensionMismatch)
		}
	}
	if len(m.Signs) != n {
		return fmt.Errorf("%d sign tags, want %d: %w", len(m.Signs), n, ErrDimensionMismatch)
	}

	return nil
}

// Clone returns a deep copy of m.
// Complexity: O(m*n).
func (m Model) Clone() Model {
	out := Model{
		Objective:   Objective{Direction: m.Objective.Direction, Coefficients: slices.Clone(m.Objective.Coefficients)},
		Constraints: make([]Constraint, len(m.Constraints)),
		Signs:       slices.Clone(m.Signs),
	}
	for i, c := range m.Constraints {
		out.Constraints[i] = c.Clone()
	}

	return out
}

// AddConstraint returns a copy of m with c appended (zero-padded).
// A row wider than the model is a dimension mismatch.
func (m Model) AddConstraint(c Constraint) (Model, error) {
	n := m.NumVariables()
	if len(c.Coefficients) > n {
		return m, fmt.Errorf("constraint has %d coefficients, model has %d variables: %w", len(c.Coefficients), n, ErrDimensionMismatch)
	}
	out := m.Clone()
	out.Constraints = append(out.Constraints, Constraint{Coefficients: pad(c.Coefficients, n), Relation: c.Relation, RHS: c.RHS})

	return out, nil
}

// Bound builds the single-variable row x_j (rel) rhs.
func (m Model) Bound(j int, rel Relation, rhs float64) Constraint {
	coeffs := make([]float64, m.NumVariables())
	coeffs[j] = 1

	return Constraint{Coefficients: coeffs, Relation: rel, RHS: rhs}
}

// WithBinaryBounds returns a copy of m with one x_j <= 1 row per Binary
// variable. A bound already present is not added twice, so the call is
// idempotent.
func (m Model) WithBinaryBounds() Model {
	out := m.Clone()
	for j, s := range m.Signs {
		if s != Binary {
			continue
		}
		b := m.Bound(j, LessEq, 1)
		if !slices.ContainsFunc(out.Constraints, b.Equal) {
			out.Constraints = append(out.Constraints, b)
		}
	}

	return out
}

// IntegerMask reports which decision variables must be integral: those
// tagged Binary or Integer, or every variable when none is tagged.
func (m Model) IntegerMask() []bool {
	mask := make([]bool, m.NumVariables())
	tagged := false
	for j, s := range m.Signs {
		if s.Integral() {
			mask[j], tagged = true, true
		}
	}
	if !tagged {
		for j := range mask {
			mask[j] = true
		}
	}

	return mask
}

// Evaluate returns c·x over the decision variables.
func (m Model) Evaluate(x []float64) float64 {
	return dot(m.Objective.Coefficients, x)
}

// Feasible reports whether x satisfies every constraint within eps.
func (m Model) Feasible(x []float64, eps float64) bool {
	for _, c := range m.Constraints {
		if !c.Satisfied(x, eps) {
			return false
		}
	}

	return true
}

// Signature is a canonical text form of the objective, constraints and sign
// restrictions used to recognise identical subproblems.
// Complexity: O(m*n).
func (m Model) Signature() string {
	var sb strings.Builder
	sb.WriteString(m.Objective.Direction.String())
	sb.WriteByte('|')
	writeFloats(&sb, m.Objective.Coefficients)
	sb.WriteByte('|')
	for _, c := range m.Constraints {
		writeFloats(&sb, c.Coefficients)
		sb.WriteString(c.Relation.String())
		sb.WriteString(strconv.FormatFloat(c.RHS, 'g', -1, 64))
		sb.WriteByte(';')
	}
	sb.WriteByte('|')
	for j, sg := range m.Signs {
		if j > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(sg.String())
	}

	return sb.String()
}

func writeFloats(sb *strings.Builder, xs []float64) {
	for i, v := range xs {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
}

// pad copies xs into a slice of length n, zero-filling the tail.
func pad(xs []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, xs)

	return out
}

// dot is a·x over the shorter of the two slices.
func dot(a, x []float64) float64 {
	k := min(len(a), len(x))

	return floats.Dot(a[:k], x[:k])
}
