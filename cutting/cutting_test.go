package cutting_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/lpr/cutting"
	"github.com/katalvlaran/lpr/model"
	"github.com/katalvlaran/lpr/simplex"
	"github.com/stretchr/testify/require"
)

func newModel(t *testing.T, obj []float64, cons ...model.Constraint) model.Model {
	t.Helper()
	m, err := model.New(model.Objective{Direction: model.Maximize, Coefficients: obj}, cons, nil)
	require.NoError(t, err)

	return m
}

func le(rhs float64, a ...float64) model.Constraint {
	return model.Constraint{Coefficients: a, Relation: model.LessEq, RHS: rhs}
}

// TestSolveSingleCut: max x s.t. 2x <= 3 needs exactly one cut to reach x = 1.
func TestSolveSingleCut(t *testing.T) {
	var seen []cutting.Cut
	res, err := cutting.Solve(newModel(t, []float64{1}, le(3, 2)), cutting.WithOnCut(func(c cutting.Cut) {
		seen = append(seen, c)
	}))
	require.NoError(t, err)
	require.Equal(t, simplex.Optimal, res.Status)
	require.Equal(t, 1, res.Iterations)
	require.Len(t, res.Cuts, 1)
	require.Equal(t, res.Cuts, seen)

	cut := res.Cuts[0]
	require.Equal(t, model.LessEq, cut.Constraint.Relation)
	require.InDelta(t, -0.5, cut.Constraint.RHS, 1e-12)
	require.Equal(t, []float64{0, -0.5, 1}, cut.Constraint.Coefficients)

	require.InDelta(t, 1.0, res.Objective, 1e-9)
	require.InDelta(t, 1.0, res.Decision()[0], 1e-9)
}

// TestFirstCutPrefersDecisionRow checks tie-breaking and the fractional
// decomposition on max 3x1 + 5x2 with 3x1 + 2x2 <= 17 (x1 = 5/3, s1 = 7/3).
func TestFirstCutPrefersDecisionRow(t *testing.T) {
	m := newModel(t, []float64{3, 5}, le(4, 1, 0), le(12, 0, 2), le(17, 3, 2))
	res, err := cutting.Solve(m)
	require.NotEmpty(t, res.Cuts)

	first := res.Cuts[0]
	require.Equal(t, 3, first.SourceRow, "x1 row wins the tie against the s1 row")
	want := []float64{0, 0, 0, -2.0 / 3.0, -1.0 / 3.0, 1}
	require.Len(t, first.Constraint.Coefficients, len(want))
	for j, w := range want {
		require.InDelta(t, w, first.Constraint.Coefficients[j], 1e-8)
	}
	require.InDelta(t, -2.0/3.0, first.Constraint.RHS, 1e-8)

	if err != nil {
		require.ErrorIs(t, err, cutting.ErrNonConvergence)
		return
	}
	// Integral termination: the RHS column is integral and the point is the integer optimum.
	tb := res.Tableau
	for i := 1; i < tb.Rows(); i++ {
		require.InDelta(t, math.Round(tb.RHS(i)), tb.RHS(i), 1e-5)
	}
	x := res.Decision()
	require.InDelta(t, 1.0, x[0], 1e-5)
	require.InDelta(t, 6.0, x[1], 1e-5)
	require.InDelta(t, 33.0, res.Objective, 1e-5)
}

// TestNonConvergenceIsReported caps the loop below what the model needs.
func TestNonConvergenceIsReported(t *testing.T) {
	m := newModel(t, []float64{3, 5}, le(4, 1, 0), le(12, 0, 2), le(17, 3, 2))
	res, err := cutting.Solve(m, cutting.WithMaxCuts(1))
	require.ErrorIs(t, err, cutting.ErrNonConvergence)
	require.Equal(t, 1, res.Iterations)
	require.Equal(t, simplex.Optimal, res.Status, "last relaxation is still returned")
	require.InDelta(t, 33.5, res.Objective, 1e-9)
}

// TestIntegralRelaxationNeedsNoCut returns the relaxation untouched.
func TestIntegralRelaxationNeedsNoCut(t *testing.T) {
	res, err := cutting.Solve(newModel(t, []float64{3, 5}, le(4, 1, 0), le(12, 0, 2), le(18, 3, 2)))
	require.NoError(t, err)
	require.Zero(t, res.Iterations)
	require.InDelta(t, 36.0, res.Objective, 1e-9)
}

// TestStatusesAndOptions covers non-optimal relaxations and option validation.
func TestStatusesAndOptions(t *testing.T) {
	inf := newModel(t, []float64{1}, le(1, 1), model.Constraint{Coefficients: []float64{1}, Relation: model.GreaterEq, RHS: 2})
	res, err := cutting.Solve(inf)
	require.NoError(t, err)
	require.Equal(t, simplex.Infeasible, res.Status)

	_, err = cutting.Solve(inf, cutting.WithMaxCuts(0))
	require.ErrorIs(t, err, cutting.ErrOptionViolation)
}

// TestDeriveWrapsNegativeFractions checks frac(-1/3) = 2/3.
func TestDeriveWrapsNegativeFractions(t *testing.T) {
	rel, err := simplex.Solve(newModel(t, []float64{3, 5}, le(4, 1, 0), le(12, 0, 2), le(17, 3, 2)))
	require.NoError(t, err)

	cut := cutting.Derive(rel.Tableau, 1) // s1 row: s1 + (1/3)s2 - (1/3)s3 = 7/3
	require.InDelta(t, -1.0/3.0, cut.Constraint.Coefficients[3], 1e-8)
	require.InDelta(t, -2.0/3.0, cut.Constraint.Coefficients[4], 1e-8)
	require.InDelta(t, -1.0/3.0, cut.Constraint.RHS, 1e-8)
}
