// SPDX-License-Identifier: MIT

package matrix

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// denseErrorf wraps an underlying error with Dense method context.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a row-major matrix of float64 values.
// r is rows, c is columns, and data holds r*c elements in row-major order.
type Dense struct {
	r, c int       // number of rows and columns
	data []float64 // flat backing storage, length == r*c
}

// NewDense creates an r×c Dense matrix initialized to zeros.
// Stage 1 (Validate): ensure rows and cols are not negative.
// Stage 2 (Prepare): allocate flat backing slice.
// Complexity: O(r*c) time and memory.
func NewDense(rows, cols int) (*Dense, error) {
	if rows < 0 || cols < 0 {
		return nil, ErrInvalidDimensions
	}

	return &Dense{r: rows, c: cols, data: make([]float64, rows*cols)}, nil
}

// NewDenseFrom copies a row-major literal into a new Dense.
// Every row must have the same length; an empty literal yields a 0×0 matrix.
// Complexity: O(r*c).
func NewDenseFrom(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 {
		return &Dense{}, nil
	}
	cols := len(rows[0])
	m := &Dense{r: len(rows), c: cols, data: make([]float64, len(rows)*cols)}
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d values, want %d: %w", i, len(row), cols, ErrInvalidDimensions)
		}
		copy(m.data[i*cols:(i+1)*cols], row)
	}

	return m, nil
}

// Rows returns the number of rows in the matrix.
func (m *Dense) Rows() int { return m.r }

// Cols returns the number of columns in the matrix.
func (m *Dense) Cols() int { return m.c }

// indexOf computes the flat index for (row, col) or returns ErrIndexOutOfBounds.
func (m *Dense) indexOf(method string, row, col int) (int, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, denseErrorf(method, row, col, ErrIndexOutOfBounds)
	}

	return row*m.c + col, nil
}

// At retrieves the element at (row, col).
// Complexity: O(1).
func (m *Dense) At(row, col int) (float64, error) {
	idx, err := m.indexOf("At", row, col)
	if err != nil {
		return 0, err
	}

	return m.data[idx], nil
}

// Set assigns value v at (row, col).
// Complexity: O(1).
func (m *Dense) Set(row, col int, v float64) error {
	idx, err := m.indexOf("Set", row, col)
	if err != nil {
		return err
	}
	m.data[idx] = v

	return nil
}

// RawRow returns a view of row i sharing the backing storage.
// The index is not validated; callers iterate within Rows().
// Complexity: O(1).
func (m *Dense) RawRow(i int) []float64 {
	return m.data[i*m.c : (i+1)*m.c : (i+1)*m.c]
}

// Col returns a copy of column j.
// Complexity: O(r).
func (m *Dense) Col(j int) ([]float64, error) {
	if j < 0 || j >= m.c {
		return nil, denseErrorf("Col", 0, j, ErrIndexOutOfBounds)
	}
	out := make([]float64, m.r)
	for i := 0; i < m.r; i++ {
		out[i] = m.data[i*m.c+j]
	}

	return out, nil
}

// ScaleRow multiplies row i by f in place.
// Complexity: O(c).
func (m *Dense) ScaleRow(i int, f float64) error {
	if i < 0 || i >= m.r {
		return denseErrorf("ScaleRow", i, 0, ErrIndexOutOfBounds)
	}
	floats.Scale(f, m.RawRow(i))

	return nil
}

// AddScaledRow performs row[dst] += f * row[src].
// Complexity: O(c).
func (m *Dense) AddScaledRow(dst, src int, f float64) error {
	if dst < 0 || dst >= m.r || src < 0 || src >= m.r {
		return denseErrorf("AddScaledRow", dst, src, ErrIndexOutOfBounds)
	}
	floats.AddScaled(m.RawRow(dst), f, m.RawRow(src))

	return nil
}

// AppendRow grows the matrix by one row holding a copy of values.
// Complexity: O(r*c) amortized by append.
func (m *Dense) AppendRow(values []float64) error {
	if m.r > 0 && len(values) != m.c {
		return fmt.Errorf("AppendRow: got %d values, want %d: %w", len(values), m.c, ErrDimensionMismatch)
	}
	if m.r == 0 {
		m.c = len(values)
	}
	m.data = append(m.data, values...)
	m.r++

	return nil
}

// InsertCol inserts a copy of values as a new column before index at.
// at == Cols() appends at the right edge.
// Complexity: O(r*c).
func (m *Dense) InsertCol(at int, values []float64) error {
	if at < 0 || at > m.c {
		return denseErrorf("InsertCol", 0, at, ErrIndexOutOfBounds)
	}
	if len(values) != m.r {
		return fmt.Errorf("InsertCol: got %d values, want %d: %w", len(values), m.r, ErrDimensionMismatch)
	}
	nc := m.c + 1
	data := make([]float64, m.r*nc)
	for i := 0; i < m.r; i++ {
		src := m.data[i*m.c : (i+1)*m.c]
		dst := data[i*nc : (i+1)*nc]
		copy(dst[:at], src[:at])
		dst[at] = values[i]
		copy(dst[at+1:], src[at:])
	}
	m.c, m.data = nc, data

	return nil
}

// Transpose returns a new c×r matrix.
// Complexity: O(r*c).
func (m *Dense) Transpose() *Dense {
	t := &Dense{r: m.c, c: m.r, data: make([]float64, len(m.data))}
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			t.data[j*m.r+i] = m.data[i*m.c+j]
		}
	}

	return t
}

// Clone returns a deep copy of the Dense matrix.
// Complexity: O(r*c).
func (m *Dense) Clone() *Dense {
	data := make([]float64, len(m.data))
	copy(data, m.data)

	return &Dense{r: m.r, c: m.c, data: data}
}

// String implements fmt.Stringer for easy debugging.
func (m *Dense) String() string {
	var sb strings.Builder
	for i := 0; i < m.r; i++ {
		sb.WriteByte('[')
		for j := 0; j < m.c; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%g", m.data[i*m.c+j])
		}
		sb.WriteString("]\n")
	}

	return sb.String()
}
