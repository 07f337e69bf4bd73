package tableau_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/katalvlaran/lpr/model"
	"github.com/katalvlaran/lpr/tableau"
	"github.com/stretchr/testify/require"
)

func classic(t *testing.T) model.Model {
	t.Helper()
	m, err := model.New(
		model.Objective{Direction: model.Maximize, Coefficients: []float64{3, 5}},
		[]model.Constraint{
			{Coefficients: []float64{1, 0}, Relation: model.LessEq, RHS: 4},
			{Coefficients: []float64{0, 2}, Relation: model.LessEq, RHS: 12},
			{Coefficients: []float64{3, 2}, Relation: model.LessEq, RHS: 18},
		},
		nil,
	)
	require.NoError(t, err)

	return m
}

// requireIdentity asserts the identity property of column c with its 1 in row r.
func requireIdentity(t *testing.T, tb *tableau.Tableau, r, c int) {
	t.Helper()
	for i := 0; i < tb.Rows(); i++ {
		want := 0.0
		if i == r {
			want = 1
		}
		require.InDelta(t, want, tb.Row(i)[c], 1e-9, "row %d col %d", i, c)
	}
}

// TestBuildClassic checks shape, objective row and initial slack basis.
func TestBuildClassic(t *testing.T) {
	tb, err := tableau.Build(classic(t), tableau.DefaultTolerances())
	require.NoError(t, err)
	require.Equal(t, 4, tb.Rows())
	require.Equal(t, 6, tb.Cols())
	require.Equal(t, []float64{-3, -5, 0, 0, 0, 0}, tb.Row(0))
	require.Equal(t, []float64{3, 2, 0, 0, 1, 18}, tb.Row(3))

	b := tb.Basis()
	require.Equal(t, []int{-1, 2, 3, 4}, b.BasicOf)
	require.Equal(t, []int{0, 1}, b.NonBasic)
	require.Equal(t, []float64{0, 0, 4, 12, 18}, tb.Values())
}

// TestBuildRelationsAndSigns covers >=, =, NonPositive and Unrestricted handling.
func TestBuildRelationsAndSigns(t *testing.T) {
	m, err := model.New(
		model.Objective{Direction: model.Minimize, Coefficients: []float64{1, 2, 3}},
		[]model.Constraint{
			{Coefficients: []float64{1, 1, 1}, Relation: model.GreaterEq, RHS: 2},
			{Coefficients: []float64{1, -1, 0}, Relation: model.Equal, RHS: 1},
		},
		[]model.SignRestriction{model.NonNegative, model.NonPositive, model.Unrestricted},
	)
	require.NoError(t, err)

	tb, err := tableau.Build(m, tableau.DefaultTolerances())
	require.NoError(t, err)
	// 3 decision + 1 mirror + 3 slack + RHS; the equality became two rows.
	require.Equal(t, 4, tb.Rows())
	require.Equal(t, 8, tb.Cols())
	require.Equal(t, []float64{-1, 2, -3, 3, 0, 0, 0, 0}, tb.Row(0))
	require.Equal(t, []float64{-1, 1, -1, 1, 1, 0, 0, -2}, tb.Row(1))
	require.Equal(t, []float64{1, 1, 0, 0, 0, 1, 0, 1}, tb.Row(2))
	require.Equal(t, []float64{-1, -1, 0, 0, 0, 0, 1, -1}, tb.Row(3))
	require.Equal(t, -1.0, tb.RowSign(1))
	require.Equal(t, []int{2, 3}, tb.RowsOf(1))
	require.Equal(t, 1, tb.NegativeRHSRow())

	// x = (1, -2, 0.5): column values use x2' = 2 and the split 0.5 = 0.5 - 0.
	x := tb.Decision([]float64{1, 2, 0.5, 0, 0, 0, 0})
	require.Equal(t, []float64{1, -2, 0.5}, x)
	x = tb.Decision([]float64{0, 0, 0, 1.5, 0, 0, 0})
	require.Equal(t, []float64{0, 0, -1.5}, x)
}

// TestBuildBinaryBounds ensures Binary variables receive their upper-bound rows.
func TestBuildBinaryBounds(t *testing.T) {
	m := classic(t)
	m.Signs[0] = model.Binary

	tb, err := tableau.Build(m, tableau.DefaultTolerances())
	require.NoError(t, err)
	require.Equal(t, 5, tb.Rows())
	require.Equal(t, 3, tb.RowOrigin(4))
}

// TestBuildDimensionMismatch rejects rows that disagree after normalization.
func TestBuildDimensionMismatch(t *testing.T) {
	m := classic(t)
	m.Constraints[0].Coefficients = []float64{1}
	_, err := tableau.Build(m, tableau.DefaultTolerances())
	require.ErrorIs(t, err, tableau.ErrDimensionMismatch)
	require.ErrorIs(t, err, model.ErrDimensionMismatch)
}

// TestPivotIdentity checks the identity property after every pivot.
func TestPivotIdentity(t *testing.T) {
	tb, err := tableau.Build(classic(t), tableau.DefaultTolerances())
	require.NoError(t, err)

	require.NoError(t, tb.Pivot(2, 1))
	requireIdentity(t, tb, 2, 1)
	require.NoError(t, tb.Pivot(3, 0))
	requireIdentity(t, tb, 3, 0)

	require.InDelta(t, 36.0, tb.Objective(), 1e-9)
	x := tb.Decision(tb.Values())
	require.InDelta(t, 2.0, x[0], 1e-9)
	require.InDelta(t, 6.0, x[1], 1e-9)

	require.ErrorIs(t, tb.Pivot(1, 0), tableau.ErrZeroPivot)
	require.ErrorIs(t, tb.Pivot(0, 0), tableau.ErrIndexOutOfBounds)
	require.ErrorIs(t, tb.Pivot(1, tb.RHSCol()), tableau.ErrIndexOutOfBounds)
}

// TestPivotErrorLeavesTableau: a rejected pivot reports its error and
// touches no row; every row operation of an accepted pivot succeeds.
func TestPivotErrorLeavesTableau(t *testing.T) {
	tb, err := tableau.Build(classic(t), tableau.DefaultTolerances())
	require.NoError(t, err)
	before := tb.String()

	for _, rc := range [][2]int{{0, 0}, {tb.Rows(), 0}, {1, -1}, {1, tb.RHSCol()}, {2, 0}} {
		require.Error(t, tb.Pivot(rc[0], rc[1]), "pivot %v", rc)
		require.Equal(t, before, tb.String(), "pivot %v", rc)
	}

	require.NoError(t, tb.Pivot(3, 0))
	requireIdentity(t, tb, 3, 0)
	require.InDelta(t, 18.0, tb.Objective(), 1e-9)
}

// TestAppendRowAndActivity grows the tableau in both directions.
func TestAppendRowAndActivity(t *testing.T) {
	tb, err := tableau.Build(classic(t), tableau.DefaultTolerances())
	require.NoError(t, err)
	before := tb.Clone()

	r, err := tb.AppendRow([]float64{1, 1, 0, 0, 0}, 7, -1)
	require.NoError(t, err)
	require.Equal(t, 4, r)
	require.Equal(t, 7, tb.Cols())
	require.Equal(t, []float64{1, 1, 0, 0, 0, 1, 7}, tb.Row(4))
	require.Equal(t, 5, tb.SlackOf(4))
	require.Equal(t, -1, tb.RowOrigin(4))
	requireIdentity(t, tb, 4, 5)

	_, err = tb.AppendRow([]float64{1}, 1, -1)
	require.ErrorIs(t, err, tableau.ErrDimensionMismatch)

	c, err := tb.InsertActivity([]float64{-2, 1, 1, 1, 1}, 2)
	require.NoError(t, err)
	require.Equal(t, 2, c)
	require.Equal(t, 3, tb.NumVariables())
	require.Equal(t, tableau.Decision, tb.Column(2).Kind)
	require.Equal(t, 3, tb.SlackStart())

	require.Equal(t, 6, before.Cols(), "clone unaffected")

	r, err = tb.AppendSignedRow(make([]float64, tb.NumColumns()), -1, 0, -1)
	require.NoError(t, err)
	require.Equal(t, -1.0, tb.RowSign(r))
	require.Equal(t, []int{1, r}, tb.RowsOf(0))
}

// TestJSONRoundTrip restores a pivoted tableau with its bookkeeping.
func TestJSONRoundTrip(t *testing.T) {
	tb, err := tableau.Build(classic(t), tableau.DefaultTolerances())
	require.NoError(t, err)
	require.NoError(t, tb.Pivot(2, 1))

	data, err := json.Marshal(tb)
	require.NoError(t, err)
	var back tableau.Tableau
	require.NoError(t, json.Unmarshal(data, &back))

	require.Equal(t, tb.Rows(), back.Rows())
	require.Equal(t, tb.Columns(), back.Columns())
	require.Equal(t, tb.Direction(), back.Direction())
	require.Equal(t, tb.Tolerances(), back.Tolerances())
	require.Equal(t, tb.Basis(), back.Basis())
	for i := 0; i < tb.Rows(); i++ {
		require.Equal(t, tb.Row(i), back.Row(i))
	}

	require.Error(t, json.Unmarshal([]byte(`{"rows":[[1,2]],"columns":[],"origin":[],"row_sign":[]}`), &back))
}

// TestBasisPartitionHelpers covers IsBasic and RowOf.
func TestBasisPartitionHelpers(t *testing.T) {
	tb, err := tableau.Build(classic(t), tableau.DefaultTolerances())
	require.NoError(t, err)
	b := tb.Basis()
	require.True(t, b.IsBasic(3))
	require.False(t, b.IsBasic(0))
	require.Equal(t, 2, b.RowOf(3))
	require.Equal(t, -1, b.RowOf(1))
	require.False(t, math.IsNaN(tb.Objective()))
}
