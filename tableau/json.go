// SPDX-License-Identifier: MIT

package tableau

import (
	"encoding/json"
	"fmt"

	"github.com/katalvlaran/lpr/matrix"
	"github.com/katalvlaran/lpr/model"
)

// snapshot is the wire form of a Tableau.
type snapshot struct {
	Direction  model.Direction `json:"direction"`
	Variables  int             `json:"variables"`
	Columns    []Column        `json:"columns"`
	Origin     []int           `json:"origin"`
	RowSign    []float64       `json:"row_sign"`
	Tolerances Tolerances      `json:"tolerances"`
	Rows       [][]float64     `json:"rows"`
}

// MarshalJSON encodes the matrix row by row with its bookkeeping.
func (t *Tableau) MarshalJSON() ([]byte, error) {
	s := snapshot{
		Direction:  t.dir,
		Variables:  t.nvars,
		Columns:    t.columns,
		Origin:     t.origin,
		RowSign:    t.rowSign,
		Tolerances: t.tol,
		Rows:       make([][]float64, t.Rows()),
	}
	for i := range s.Rows {
		s.Rows[i] = t.Row(i)
	}

	return json.Marshal(s)
}

// UnmarshalJSON restores a Tableau written by MarshalJSON.
func (t *Tableau) UnmarshalJSON(data []byte) error {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	m, err := matrix.NewDenseFrom(s.Rows)
	if err != nil {
		return err
	}
	if m.Rows() != len(s.Origin)+1 || len(s.Origin) != len(s.RowSign) || m.Cols() != len(s.Columns)+1 {
		return fmt.Errorf("tableau: snapshot %dx%d with %d columns, %d rows: %w",
			m.Rows(), m.Cols(), len(s.Columns), len(s.Origin), ErrDimensionMismatch)
	}
	*t = Tableau{m: m, dir: s.Direction, nvars: s.Variables, columns: s.Columns, origin: s.Origin, rowSign: s.RowSign, tol: s.Tolerances}

	return nil
}
