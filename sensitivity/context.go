// SPDX-License-Identifier: MIT

package sensitivity

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/katalvlaran/lpr/model"
	"github.com/katalvlaran/lpr/simplex"
	"github.com/katalvlaran/lpr/tableau"
)

// Range is a closed interval; either end may be infinite.
type Range struct {
	Lower float64
	Upper float64
}

// Contains reports whether v lies in the interval.
func (r Range) Contains(v float64) bool { return v >= r.Lower && v <= r.Upper }

// Option configures a Context.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	simplex []simplex.Option
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSimplexOptions forwards options to Reoptimize and SolveDual.
func WithSimplexOptions(opts ...simplex.Option) Option {
	return func(o *options) { o.simplex = append(o.simplex, opts...) }
}

// Context is the post-optimal state: the model (with its binary bound rows
// materialized, so constraint indices line up with tableau row origins),
// the current tableau and its basis partition.
type Context struct {
	m      model.Model
	t      *tableau.Tableau
	basis  tableau.BasisPartition
	status simplex.Status
	opts   options
}

// NewContext captures an optimal result for analysis. The tableau is copied;
// the caller's result is never mutated.
func NewContext(m model.Model, res simplex.Result, opts ...Option) (*Context, error) {
	if res.Status != simplex.Optimal || res.Tableau == nil {
		return nil, fmt.Errorf("%w: status %s", ErrNotInitialized, res.Status)
	}
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	t := res.Tableau.Clone()

	return &Context{m: m.WithBinaryBounds(), t: t, basis: t.Basis(), status: res.Status, opts: o}, nil
}

// Model returns a copy of the analysed model.
func (c *Context) Model() model.Model { return c.m.Clone() }

// Tableau returns a copy of the current tableau.
func (c *Context) Tableau() *tableau.Tableau {
	if c == nil || c.t == nil {
		return nil
	}

	return c.t.Clone()
}

// Basis returns the current basis partition.
func (c *Context) Basis() tableau.BasisPartition { return c.basis }

// Status is the status of the last solve behind the tableau.
func (c *Context) Status() simplex.Status { return c.status }

func (c *Context) ready() error {
	if c == nil || c.t == nil {
		return ErrNotInitialized
	}

	return nil
}

func (c *Context) checkColumn(col int) error {
	if col < 0 || col >= c.t.NumColumns() {
		return fmt.Errorf("column %d of %d: %w", col, c.t.NumColumns(), ErrInvalidIndex)
	}

	return nil
}

func (c *Context) checkConstraint(i int) error {
	if i < 0 || i >= c.m.NumConstraints() {
		return fmt.Errorf("constraint %d of %d: %w", i, c.m.NumConstraints(), ErrInvalidIndex)
	}

	return nil
}

// cost is the objective coefficient carried by tableau column k.
func (c *Context) cost(k int) float64 {
	col := c.t.Column(k)
	if col.Kind == tableau.Slack {
		return 0
	}

	return col.Sign * c.m.Objective.Coefficients[col.Var]
}

// NonBasicRange returns the values non-basic column col can take while every
// basic variable stays non-negative. Positive column entries cap the range
// from above at RHS/a; negative entries raise the lower end.
// Complexity: O(rows).
func (c *Context) NonBasicRange(col int) (Range, error) {
	if err := c.ready(); err != nil {
		return Range{}, err
	}
	if err := c.checkColumn(col); err != nil {
		return Range{}, err
	}
	if c.basis.IsBasic(col) {
		return Range{}, fmt.Errorf("column %d is basic: %w", col, ErrInvalidIndex)
	}
	eps := c.t.Tolerances().Identity
	r := Range{Lower: 0, Upper: math.Inf(1)}
	for i := 1; i < c.t.Rows(); i++ {
		a := c.t.Row(i)[col]
		switch {
		case a > eps:
			r.Upper = min(r.Upper, c.t.RHS(i)/a)
		case a < -eps:
			r.Lower = max(r.Lower, c.t.RHS(i)/a)
		}
	}

	return r, nil
}

// BasicRange returns the objective coefficients basic column col tolerates
// before a non-basic column would enter. It scans the column's basic row:
// raising the coefficient by δ moves every reduced cost d_j by δ·a_rj.
// Complexity: O(cols).
func (c *Context) BasicRange(col int) (Range, error) {
	if err := c.ready(); err != nil {
		return Range{}, err
	}
	if err := c.checkColumn(col); err != nil {
		return Range{}, err
	}
	r := c.basis.RowOf(col)
	if r < 0 {
		return Range{}, fmt.Errorf("column %d is not basic: %w", col, ErrInvalidIndex)
	}
	eps := c.t.Tolerances().Identity
	// Minimize keeps d_j <= 0; negating both d and a turns d + δa <= 0 into
	// the Maximize condition d + δa >= 0.
	flip := 1.0
	if c.t.Direction() == model.Minimize {
		flip = -1
	}
	lo, hi := math.Inf(-1), math.Inf(1)
	row0, row := c.t.Row(0), c.t.Row(r)
	for _, j := range c.basis.NonBasic {
		a := flip * row[j]
		d := flip * row0[j]
		switch {
		case a > eps:
			lo = max(lo, -d/a)
		case a < -eps:
			hi = min(hi, -d/a)
		}
	}
	base := c.cost(col)

	return Range{Lower: base + lo, Upper: base + hi}, nil
}

// ApplyValueChange moves column col to value and propagates the change.
// A non-basic column shifts every RHS, objective row included, by
// -value·a_ij. A basic column takes the value in its own row and the
// objective moves by its coefficient times the change.
func (c *Context) ApplyValueChange(col int, value float64) (*tableau.Tableau, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	if err := c.checkColumn(col); err != nil {
		return nil, err
	}
	rhs := c.t.RHSCol()
	if r := c.basis.RowOf(col); r >= 0 {
		delta := value - c.t.RHS(r)
		c.t.Row(r)[rhs] = value
		c.t.Row(0)[rhs] += c.cost(col) * delta
	} else {
		for i := 0; i < c.t.Rows(); i++ {
			row := c.t.Row(i)
			row[rhs] -= row[col] * value
		}
	}
	c.opts.logger.Debug("value change", "column", col, "value", value, "objective", c.t.Objective())

	return c.t.Clone(), nil
}

// rhsDirection returns how every tableau RHS moves per unit increase of the
// right-hand side of constraint i: the sum of the current slack columns of
// its rows, each scaled by the row's storage sign.
func (c *Context) rhsDirection(i int) []float64 {
	g := make([]float64, c.t.Rows())
	for _, r := range c.t.RowsOf(i) {
		s, sign := c.t.SlackOf(r), c.t.RowSign(r)
		if s < 0 {
			continue
		}
		for k := range g {
			g[k] += sign * c.t.Row(k)[s]
		}
	}

	return g
}

// ConstraintRHSRange returns the right-hand sides constraint i tolerates
// while the current basis stays feasible.
// Complexity: O(rows*cols).
func (c *Context) ConstraintRHSRange(i int) (Range, error) {
	if err := c.ready(); err != nil {
		return Range{}, err
	}
	if err := c.checkConstraint(i); err != nil {
		return Range{}, err
	}
	eps := c.t.Tolerances().Identity
	g := c.rhsDirection(i)
	lo, hi := math.Inf(-1), math.Inf(1)
	for k := 1; k < len(g); k++ {
		switch {
		case g[k] > eps:
			lo = max(lo, -c.t.RHS(k)/g[k])
		case g[k] < -eps:
			hi = min(hi, -c.t.RHS(k)/g[k])
		}
	}
	b := c.m.Constraints[i].RHS

	return Range{Lower: b + lo, Upper: b + hi}, nil
}

// ApplyRHSChange sets the right-hand side of constraint i and updates the
// tableau RHS column, objective row included. A change outside
// ConstraintRHSRange leaves a negative RHS for Reoptimize to repair.
func (c *Context) ApplyRHSChange(i int, rhs float64) (*tableau.Tableau, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	if err := c.checkConstraint(i); err != nil {
		return nil, err
	}
	delta := rhs - c.m.Constraints[i].RHS
	g := c.rhsDirection(i)
	col := c.t.RHSCol()
	for k, v := range g {
		c.t.Row(k)[col] += delta * v
	}
	c.m.Constraints[i].RHS = rhs
	c.opts.logger.Debug("rhs change", "constraint", i, "rhs", rhs, "objective", c.t.Objective())

	return c.t.Clone(), nil
}

// ShadowPrices returns the RHS entries of the constraint rows, objective row
// excluded, in row order.
func (c *Context) ShadowPrices() ([]float64, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	out := make([]float64, c.t.NumConstraintRows())
	for i := range out {
		out[i] = c.t.RHS(i + 1)
	}

	return out, nil
}

// DualValues returns, per model constraint, the objective-row entry under its
// slack column scaled by the row's storage sign: the marginal objective
// change per unit of right-hand side.
func (c *Context) DualValues() ([]float64, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	out := make([]float64, c.m.NumConstraints())
	for i := range out {
		out[i] = c.rhsDirection(i)[0]
	}

	return out, nil
}

// AddActivity appends a new non-negative variable with the given constraint
// coefficients (one per model constraint, zero-padded) and objective
// coefficient. Its tableau column is B⁻¹a, read off the current slack
// columns; cut rows contribute nothing. It returns the new column index.
// Complexity: O(rows*cols).
func (c *Context) AddActivity(coeffs []float64, cost float64) (int, error) {
	if err := c.ready(); err != nil {
		return 0, err
	}
	if len(coeffs) > c.m.NumConstraints() {
		return 0, fmt.Errorf("%d coefficients for %d constraints: %w", len(coeffs), c.m.NumConstraints(), ErrDimensionMismatch)
	}
	a := make([]float64, c.m.NumConstraints())
	copy(a, coeffs)

	col := make([]float64, c.t.Rows())
	col[0] = -cost
	for r := 1; r < c.t.Rows(); r++ {
		i := c.t.RowOrigin(r)
		s := c.t.SlackOf(r)
		if i < 0 || s < 0 || a[i] == 0 {
			continue
		}
		v := c.t.RowSign(r) * a[i]
		for k := range col {
			col[k] += v * c.t.Row(k)[s]
		}
	}

	t := c.t.Clone()
	v := c.m.NumVariables()
	at, err := t.InsertActivity(col, v)
	if err != nil {
		return 0, err
	}
	m := c.m.Clone()
	m.Objective.Coefficients = append(m.Objective.Coefficients, cost)
	for i := range m.Constraints {
		m.Constraints[i].Coefficients = append(m.Constraints[i].Coefficients, a[i])
	}
	m.Signs = append(m.Signs, model.NonNegative)

	c.m, c.t, c.basis = m, t, t.Basis()
	c.opts.logger.Debug("activity added", "variable", v, "column", at, "reduced_cost", col[0])

	return at, nil
}

// AddConstraint appends con to the model and the tableau. The new row is
// written over the tableau columns, cleared of every basic column and stored
// with a fresh slack; >= rows are negated and = adds both halves.
// It returns the new row indices.
// Complexity: O(rows*cols).
func (c *Context) AddConstraint(con model.Constraint) ([]int, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	m, err := c.m.AddConstraint(con)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDimensionMismatch, err)
	}
	origin := m.NumConstraints() - 1
	x := m.Constraints[origin].Coefficients

	t := c.t.Clone()
	var rows []int
	add := func(sign float64) error {
		coeffs := make([]float64, t.NumColumns())
		for k := range coeffs {
			if col := t.Column(k); col.Kind != tableau.Slack {
				coeffs[k] = sign * col.Sign * x[col.Var]
			}
		}
		r, err := appendReduced(t, coeffs, sign*con.RHS, origin, sign)
		rows = append(rows, r)

		return err
	}
	switch con.Relation {
	case model.LessEq:
		err = add(1)
	case model.GreaterEq:
		err = add(-1)
	default:
		if err = add(1); err == nil {
			err = add(-1)
		}
	}
	if err != nil {
		return nil, err
	}

	c.m, c.t, c.basis = m, t, t.Basis()
	c.opts.logger.Debug("constraint added", "constraint", origin, "rows", rows)

	return rows, nil
}

// appendReduced eliminates every basic column from coeffs (RHS included)
// and appends the result as a signed row.
func appendReduced(t *tableau.Tableau, coeffs []float64, rhs float64, origin int, sign float64) (int, error) {
	eps := t.Tolerances().Identity
	basis := t.Basis()
	for r := 1; r < len(basis.BasicOf); r++ {
		b := basis.BasicOf[r]
		if b < 0 || math.Abs(coeffs[b]) <= eps {
			continue
		}
		f := coeffs[b]
		row := t.Row(r)
		for k := range coeffs {
			coeffs[k] -= f * row[k]
		}
		rhs -= f * row[t.RHSCol()]
		coeffs[b] = 0
	}

	return t.AppendSignedRow(coeffs, rhs, origin, sign)
}

// Reoptimize resumes the simplex loop on the edited tableau. The context
// keeps the resulting tableau whatever its status; on error it is unchanged.
func (c *Context) Reoptimize() (simplex.Result, error) {
	if err := c.ready(); err != nil {
		return simplex.Result{}, err
	}
	t := c.t.Clone()
	res, err := simplex.Iterate(t, c.opts.simplex...)
	if err != nil {
		return res, err
	}
	c.t, c.basis, c.status = t, t.Basis(), res.Status
	res.Tableau = t.Clone()

	return res, nil
}

// Decision returns the decision-variable values of the current tableau.
func (c *Context) Decision() []float64 {
	if c.ready() != nil {
		return nil
	}

	return c.t.Decision(c.t.Values())
}

// Columns lists the non-basic and basic columns in index order.
func (c *Context) Columns() (nonBasic, basic []int) {
	if c.ready() != nil {
		return nil, nil
	}
	nonBasic = slices.Clone(c.basis.NonBasic)
	for _, b := range c.basis.BasicOf[1:] {
		if b >= 0 {
			basic = append(basic, b)
		}
	}
	slices.Sort(basic)

	return nonBasic, basic
}
