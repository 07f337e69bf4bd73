// SPDX-License-Identifier: MIT

package tableau

import (
	"fmt"
	"math"
	"slices"

	"github.com/katalvlaran/lpr/matrix"
	"github.com/katalvlaran/lpr/model"
)

// Default numeric policy.
const (
	DefaultIdentityEps    = 1e-9
	DefaultIntegralityEps = 1e-5
)

// Tolerances is the fixed epsilon policy shared by every solver.
type Tolerances struct {
	Identity    float64 // zero tests, pivot eligibility, basic-column detection
	Integrality float64 // distance to the nearest integer
}

// DefaultTolerances returns {1e-9, 1e-5}.
func DefaultTolerances() Tolerances {
	return Tolerances{Identity: DefaultIdentityEps, Integrality: DefaultIntegralityEps}
}

// ColumnKind classifies a tableau column.
type ColumnKind int

const (
	// Decision is a model variable (possibly sign-flipped for NonPositive).
	Decision ColumnKind = iota
	// Mirror is the negative part of an unrestricted variable.
	Mirror
	// Slack belongs to one constraint row.
	Slack
)

// Column describes one non-RHS tableau column.
// For Decision and Mirror, Var is the model variable and the variable's value
// receives Sign * column value. For Slack, Var is the owning row.
type Column struct {
	Kind ColumnKind
	Var  int
	Sign float64
}

// Tableau is a dense simplex tableau with its column/row bookkeeping.
type Tableau struct {
	m       *matrix.Dense
	dir     model.Direction
	nvars   int
	columns []Column
	origin  []int     // per constraint row (index r-1): model constraint index, -1 for cuts
	rowSign []float64 // per constraint row: -1 when stored negated (>= rows)
	tol     Tolerances
}

// Rows is the total row count including the objective row.
func (t *Tableau) Rows() int { return t.m.Rows() }

// NumConstraintRows is Rows()-1.
func (t *Tableau) NumConstraintRows() int { return t.m.Rows() - 1 }

// Cols is the total column count including RHS.
func (t *Tableau) Cols() int { return t.m.Cols() }

// NumColumns is the number of variable columns (RHS excluded).
func (t *Tableau) NumColumns() int { return t.m.Cols() - 1 }

// RHSCol is the index of the right-hand-side column.
func (t *Tableau) RHSCol() int { return t.m.Cols() - 1 }

// NumVariables is the number of model decision variables represented.
func (t *Tableau) NumVariables() int { return t.nvars }

// Direction is the objective sense the tableau was built for.
func (t *Tableau) Direction() model.Direction { return t.dir }

// Tolerances returns the epsilon policy.
func (t *Tableau) Tolerances() Tolerances { return t.tol }

// Column returns the descriptor of column j.
func (t *Tableau) Column(j int) Column { return t.columns[j] }

// Columns returns a copy of all column descriptors.
func (t *Tableau) Columns() []Column { return slices.Clone(t.columns) }

// RowOrigin returns the model constraint index behind constraint row r (1-based),
// or -1 for a cut row.
func (t *Tableau) RowOrigin(r int) int { return t.origin[r-1] }

// RowSign returns -1 when constraint row r was stored negated.
func (t *Tableau) RowSign(r int) float64 { return t.rowSign[r-1] }

// RowsOf returns the constraint rows (1-based) built from model constraint i.
func (t *Tableau) RowsOf(i int) []int {
	var rows []int
	for k, o := range t.origin {
		if o == i {
			rows = append(rows, k+1)
		}
	}

	return rows
}

// SlackOf returns the slack column owned by constraint row r, or -1.
func (t *Tableau) SlackOf(r int) int {
	for j, c := range t.columns {
		if c.Kind == Slack && c.Var == r {
			return j
		}
	}

	return -1
}

// SlackStart returns the index of the first slack column.
func (t *Tableau) SlackStart() int {
	for j, c := range t.columns {
		if c.Kind == Slack {
			return j
		}
	}

	return len(t.columns)
}

// Row returns a view of row i sharing storage with the tableau.
// Callers must stay within Rows(); writes are visible to the tableau.
func (t *Tableau) Row(i int) []float64 { return t.m.RawRow(i) }

// At returns element (i, j).
func (t *Tableau) At(i, j int) (float64, error) {
	v, err := t.m.At(i, j)
	if err != nil {
		return 0, fmt.Errorf("tableau: %w", ErrIndexOutOfBounds)
	}

	return v, nil
}

// RHS returns the right-hand side of row i.
func (t *Tableau) RHS(i int) float64 { return t.m.RawRow(i)[t.RHSCol()] }

// Objective returns the objective value stored in row 0.
func (t *Tableau) Objective() float64 { return t.RHS(0) }

// Pivot performs one Gauss-Jordan step on (r, c):
// Stage 1 (Validate): r must be a constraint row and |t[r][c]| > eps.
// Stage 2 (Normalize): divide row r by the pivot element.
// Stage 3 (Eliminate): row i -= t[i][c] * row r for every i != r.
// Column c is then set to the exact unit vector.
// Complexity: O(rows*cols).
func (t *Tableau) Pivot(r, c int) error {
	if r < 1 || r >= t.Rows() || c < 0 || c >= t.NumColumns() {
		return fmt.Errorf("pivot (%d,%d): %w", r, c, ErrIndexOutOfBounds)
	}
	p := t.m.RawRow(r)[c]
	if math.Abs(p) <= t.tol.Identity {
		return fmt.Errorf("pivot (%d,%d) = %g: %w", r, c, p, ErrZeroPivot)
	}
	if err := t.m.ScaleRow(r, 1/p); err != nil {
		return fmt.Errorf("pivot (%d,%d): %w", r, c, err)
	}
	for i := 0; i < t.Rows(); i++ {
		if i == r {
			continue
		}
		if f := t.m.RawRow(i)[c]; f != 0 {
			if err := t.m.AddScaledRow(i, r, -f); err != nil {
				return fmt.Errorf("pivot (%d,%d): eliminate row %d: %w", r, c, i, err)
			}
		}
		t.m.RawRow(i)[c] = 0
	}
	t.m.RawRow(r)[c] = 1

	return nil
}

// BasicRow returns the constraint row in which column c is basic, or -1.
// Complexity: O(rows).
func (t *Tableau) BasicRow(c int) int {
	row := -1
	for i := 0; i < t.Rows(); i++ {
		v := t.m.RawRow(i)[c]
		switch {
		case math.Abs(v) <= t.tol.Identity:
		case i > 0 && row < 0 && math.Abs(v-1) <= t.tol.Identity:
			row = i
		default:
			return -1
		}
	}

	return row
}

// BasisPartition splits columns into basic and non-basic sets.
// BasicOf[r] is the basic column of constraint row r (index 0 unused, -1 when
// the row has none); NonBasic lists the remaining columns in index order.
type BasisPartition struct {
	BasicOf  []int
	NonBasic []int
}

// IsBasic reports whether column c is basic in the partition.
func (b BasisPartition) IsBasic(c int) bool { return slices.Contains(b.BasicOf[1:], c) }

// RowOf returns the row where c is basic, or -1.
func (b BasisPartition) RowOf(c int) int {
	for r := 1; r < len(b.BasicOf); r++ {
		if b.BasicOf[r] == c {
			return r
		}
	}

	return -1
}

// Basis computes the current partition. Each row is claimed by at most one
// column, the first in index order.
// Complexity: O(rows*cols).
func (t *Tableau) Basis() BasisPartition {
	b := BasisPartition{BasicOf: make([]int, t.Rows())}
	for i := range b.BasicOf {
		b.BasicOf[i] = -1
	}
	for c := 0; c < t.NumColumns(); c++ {
		if r := t.BasicRow(c); r > 0 && b.BasicOf[r] < 0 {
			b.BasicOf[r] = c
			continue
		}
		b.NonBasic = append(b.NonBasic, c)
	}

	return b
}

// Values returns the current value of every variable column: the RHS of its
// row when basic, 0 otherwise.
func (t *Tableau) Values() []float64 {
	vals := make([]float64, t.NumColumns())
	for r, c := range t.Basis().BasicOf {
		if r > 0 && c >= 0 {
			vals[c] = t.RHS(r)
		}
	}

	return vals
}

// Decision folds column values back into the model's decision variables,
// undoing sign flips and mirror splits.
func (t *Tableau) Decision(values []float64) []float64 {
	x := make([]float64, t.nvars)
	for j, c := range t.columns {
		if c.Kind != Slack && j < len(values) {
			x[c.Var] += c.Sign * values[j]
		}
	}

	return x
}

// NegativeRHSRow returns the constraint row with the most negative RHS
// (first on ties), or -1 when every RHS is >= -eps.
func (t *Tableau) NegativeRHSRow() int {
	row, best := -1, -t.tol.Identity
	for i := 1; i < t.Rows(); i++ {
		if v := t.RHS(i); v < best {
			row, best = i, v
		}
	}

	return row
}

// AppendRow adds a constraint row with a fresh slack column placed before the
// RHS. coeffs covers the current variable columns; origin is the model
// constraint index (or -1 for a cut). It returns the new row index.
// Complexity: O(rows*cols).
func (t *Tableau) AppendRow(coeffs []float64, rhs float64, origin int) (int, error) {
	return t.AppendSignedRow(coeffs, rhs, origin, 1)
}

// AppendSignedRow is AppendRow for a row stored with the given sign
// (-1 for a negated >= row).
func (t *Tableau) AppendSignedRow(coeffs []float64, rhs float64, origin int, sign float64) (int, error) {
	if len(coeffs) != t.NumColumns() {
		return 0, fmt.Errorf("row has %d coefficients, tableau has %d columns: %w", len(coeffs), t.NumColumns(), ErrDimensionMismatch)
	}
	if err := t.m.InsertCol(t.RHSCol(), make([]float64, t.Rows())); err != nil {
		return 0, err
	}
	row := make([]float64, 0, t.Cols())
	row = append(row, coeffs...)
	row = append(row, 1, rhs)
	if err := t.m.AppendRow(row); err != nil {
		return 0, err
	}
	r := t.Rows() - 1
	t.columns = append(t.columns, Column{Kind: Slack, Var: r, Sign: 1})
	t.origin = append(t.origin, origin)
	t.rowSign = append(t.rowSign, sign)

	return r, nil
}

// InsertActivity inserts a new decision column for model variable v right
// before the slack block. col must cover every row, objective row included.
// It returns the new column index.
func (t *Tableau) InsertActivity(col []float64, v int) (int, error) {
	if len(col) != t.Rows() {
		return 0, fmt.Errorf("column has %d entries, tableau has %d rows: %w", len(col), t.Rows(), ErrDimensionMismatch)
	}
	at := t.SlackStart()
	if err := t.m.InsertCol(at, col); err != nil {
		return 0, err
	}
	t.columns = slices.Insert(t.columns, at, Column{Kind: Decision, Var: v, Sign: 1})
	t.nvars = max(t.nvars, v+1)

	return at, nil
}

// Clone returns a deep copy.
func (t *Tableau) Clone() *Tableau {
	return &Tableau{
		m:       t.m.Clone(),
		dir:     t.dir,
		nvars:   t.nvars,
		columns: slices.Clone(t.columns),
		origin:  slices.Clone(t.origin),
		rowSign: slices.Clone(t.rowSign),
		tol:     t.tol,
	}
}

// Matrix returns a copy of the underlying dense matrix.
func (t *Tableau) Matrix() *matrix.Dense { return t.m.Clone() }

// String renders the raw matrix for debugging.
func (t *Tableau) String() string { return t.m.String() }
