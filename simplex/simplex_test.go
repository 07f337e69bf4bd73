package simplex_test

import (
	"testing"

	"github.com/katalvlaran/lpr/model"
	"github.com/katalvlaran/lpr/simplex"
	"github.com/katalvlaran/lpr/tableau"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, dir model.Direction, obj []float64, cons []model.Constraint, signs ...model.SignRestriction) model.Model {
	t.Helper()
	m, err := model.New(model.Objective{Direction: dir, Coefficients: obj}, cons, signs)
	require.NoError(t, err)

	return m
}

func le(rhs float64, a ...float64) model.Constraint {
	return model.Constraint{Coefficients: a, Relation: model.LessEq, RHS: rhs}
}

func ge(rhs float64, a ...float64) model.Constraint {
	return model.Constraint{Coefficients: a, Relation: model.GreaterEq, RHS: rhs}
}

func classic(t *testing.T) model.Model {
	return build(t, model.Maximize, []float64{3, 5}, []model.Constraint{le(4, 1, 0), le(12, 0, 2), le(18, 3, 2)})
}

// TestSolveClassic is the textbook end-to-end case: x = (2, 6), z = 36.
// The identity property is checked after every pivot.
func TestSolveClassic(t *testing.T) {
	m := classic(t)
	var pivots int
	res, err := simplex.Solve(m, simplex.WithOnPivot(func(v simplex.Variant, _, _ int) {
		pivots++
		require.Equal(t, simplex.Primal, v)
	}))
	require.NoError(t, err)
	require.Equal(t, simplex.Optimal, res.Status)
	require.Equal(t, pivots, res.Pivots)
	require.InDelta(t, 36.0, res.Objective, 1e-9)
	require.Len(t, res.Values, 5) // two decision + three slack columns

	x := res.Decision()
	require.InDelta(t, 2.0, x[0], 1e-9)
	require.InDelta(t, 6.0, x[1], 1e-9)
	require.True(t, m.Feasible(x, 1e-9))

	tb := res.Tableau
	b := tb.Basis()
	for r := 1; r < tb.Rows(); r++ {
		c := b.BasicOf[r]
		require.GreaterOrEqual(t, c, 0)
		for i := 0; i < tb.Rows(); i++ {
			want := 0.0
			if i == r {
				want = 1
			}
			require.InDelta(t, want, tb.Row(i)[c], 1e-9)
		}
	}
}

// TestSolveDualVariant solves a covering problem that starts primal infeasible.
func TestSolveDualVariant(t *testing.T) {
	m := build(t, model.Minimize, []float64{2, 3}, []model.Constraint{ge(4, 1, 1), ge(6, 1, 3)})
	var variants []simplex.Variant
	res, err := simplex.Solve(m, simplex.WithOnPivot(func(v simplex.Variant, _, _ int) {
		variants = append(variants, v)
	}))
	require.NoError(t, err)
	require.Equal(t, simplex.Optimal, res.Status)
	require.InDelta(t, 9.0, res.Objective, 1e-9)
	x := res.Decision()
	require.InDelta(t, 3.0, x[0], 1e-9)
	require.InDelta(t, 1.0, x[1], 1e-9)
	require.Equal(t, []simplex.Variant{simplex.Dual, simplex.Dual}, variants)
}

// TestDualEnteringUsesAbsoluteRatio: in min -3x1 + x2, x1 + x2 >= 1, x1 <= 5
// the objective row is [3, -1]. The absolute ratios are 3 and 1, so x2
// enters first; the primal variant then moves to x1 = 5.
func TestDualEnteringUsesAbsoluteRatio(t *testing.T) {
	m := build(t, model.Minimize, []float64{-3, 1}, []model.Constraint{ge(1, 1, 1), le(5, 1, 0)})
	type step struct {
		v        simplex.Variant
		row, col int
	}
	var steps []step
	res, err := simplex.Solve(m, simplex.WithOnPivot(func(v simplex.Variant, r, c int) {
		steps = append(steps, step{v, r, c})
	}))
	require.NoError(t, err)
	require.Equal(t, simplex.Optimal, res.Status)
	require.Equal(t, []step{{simplex.Dual, 1, 1}, {simplex.Primal, 1, 0}, {simplex.Primal, 2, 2}}, steps)
	require.InDelta(t, -15.0, res.Objective, 1e-9)
	x := res.Decision()
	require.InDelta(t, 5.0, x[0], 1e-9)
	require.InDelta(t, 0.0, x[1], 1e-9)
}

// TestSolveEquality covers an = row expanded into two rows, then a primal finish.
func TestSolveEquality(t *testing.T) {
	m := build(t, model.Maximize, []float64{1, 1}, []model.Constraint{
		{Coefficients: []float64{1, 1}, Relation: model.Equal, RHS: 3},
		le(2, 1, 0),
	})
	res, err := simplex.Solve(m)
	require.NoError(t, err)
	require.Equal(t, simplex.Optimal, res.Status)
	require.InDelta(t, 3.0, res.Objective, 1e-9)
	require.True(t, m.Feasible(res.Decision(), 1e-9))
}

// TestSolveNonPositive covers a sign-flipped column.
func TestSolveNonPositive(t *testing.T) {
	m := build(t, model.Maximize, []float64{-1}, []model.Constraint{ge(-3, 1)}, model.NonPositive)
	res, err := simplex.Solve(m)
	require.NoError(t, err)
	require.Equal(t, simplex.Optimal, res.Status)
	require.InDelta(t, 3.0, res.Objective, 1e-9)
	require.InDelta(t, -3.0, res.Decision()[0], 1e-9)
}

// TestSolveTerminalStatuses covers Unbounded and Infeasible as values, not errors.
func TestSolveTerminalStatuses(t *testing.T) {
	unb := build(t, model.Maximize, []float64{1, 0}, []model.Constraint{le(1, -1, 1)})
	res, err := simplex.Solve(unb)
	require.NoError(t, err)
	require.Equal(t, simplex.Unbounded, res.Status)

	inf := build(t, model.Maximize, []float64{1}, []model.Constraint{le(1, 1), ge(2, 1)})
	res, err = simplex.Solve(inf)
	require.NoError(t, err)
	require.Equal(t, simplex.Infeasible, res.Status)
	require.Equal(t, "infeasible", res.Status.String())
}

// TestEngineRecordsTerminalStatus follows the lifecycle into each terminal status.
func TestEngineRecordsTerminalStatus(t *testing.T) {
	cases := []struct {
		name string
		m    model.Model
		want simplex.Status
	}{
		{"optimal", classic(t), simplex.Optimal},
		{"unbounded", build(t, model.Maximize, []float64{1, 0}, []model.Constraint{le(1, -1, 1)}), simplex.Unbounded},
		{"infeasible", build(t, model.Maximize, []float64{1}, []model.Constraint{le(1, 1), ge(2, 1)}), simplex.Infeasible},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, err := simplex.New(tc.m)
			require.NoError(t, err)
			_, err = e.Solve()
			require.NoError(t, err)
			require.Equal(t, simplex.Terminated, e.State())
			st, ok := e.Status()
			require.True(t, ok)
			require.Equal(t, tc.want, st)
		})
	}

	e, err := simplex.New(classic(t), simplex.WithMaxPivots(1))
	require.NoError(t, err)
	_, err = e.Solve()
	require.ErrorIs(t, err, simplex.ErrPivotLimit)
	require.Equal(t, simplex.Aborted, e.State())
	require.Equal(t, "aborted", e.State().String())
	_, ok := e.Status()
	require.False(t, ok)
}

// TestPivotLimitAndOptions covers the pivot cap and option validation.
func TestPivotLimitAndOptions(t *testing.T) {
	_, err := simplex.Solve(classic(t), simplex.WithMaxPivots(1))
	require.ErrorIs(t, err, simplex.ErrPivotLimit)

	_, err = simplex.New(classic(t), simplex.WithMaxPivots(-1))
	require.ErrorIs(t, err, simplex.ErrOptionViolation)

	_, err = simplex.New(classic(t), simplex.WithTolerances(tableau.Tolerances{}))
	require.ErrorIs(t, err, simplex.ErrOptionViolation)
}

// TestEngineUpdateModel verifies rebinding forces a fresh solve.
func TestEngineUpdateModel(t *testing.T) {
	e, err := simplex.New(classic(t))
	require.NoError(t, err)
	require.Equal(t, simplex.Initialized, e.State())
	_, ok := e.Status()
	require.False(t, ok)

	first, err := e.Solve()
	require.NoError(t, err)
	require.Equal(t, simplex.Terminated, e.State())
	st, ok := e.Status()
	require.True(t, ok)
	require.Equal(t, simplex.Optimal, st)

	tighter, err := classic(t).AddConstraint(le(1, 1, 0))
	require.NoError(t, err)
	e.UpdateModel(tighter)
	require.Equal(t, simplex.Initialized, e.State())

	second, err := e.Solve()
	require.NoError(t, err)
	require.InDelta(t, 33.0, second.Objective, 1e-9) // x = (1, 6)
	require.NotSame(t, first.Tableau, second.Tableau)
}

// TestIterateAfterCut resumes a solved tableau after appending a violated row.
func TestIterateAfterCut(t *testing.T) {
	res, err := simplex.Solve(classic(t))
	require.NoError(t, err)
	tb := res.Tableau

	// x1 <= 1 rewritten against the optimal basis by eliminating x1's row.
	r := tb.Basis().RowOf(0)
	basic := tb.Row(r)
	row := make([]float64, tb.NumColumns())
	row[0] = 1
	for j := range row {
		row[j] -= basic[j]
	}
	_, err = tb.AppendRow(row, 1-tb.RHS(r), -1)
	require.NoError(t, err)

	again, err := simplex.Iterate(tb)
	require.NoError(t, err)
	require.Equal(t, simplex.Optimal, again.Status)
	require.InDelta(t, 33.0, again.Objective, 1e-9)
	x := again.Decision()
	require.InDelta(t, 1.0, x[0], 1e-9)
	require.InDelta(t, 6.0, x[1], 1e-9)
}
