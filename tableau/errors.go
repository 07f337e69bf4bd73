// SPDX-License-Identifier: MIT

package tableau

import "errors"

var (
	// ErrZeroPivot is returned when the chosen pivot element is within eps of zero.
	ErrZeroPivot = errors.New("tableau: pivot element is zero")

	// ErrIndexOutOfBounds is returned for a row or column outside the tableau.
	ErrIndexOutOfBounds = errors.New("tableau: index out of bounds")

	// ErrDimensionMismatch is returned when a model or an appended row/column
	// does not fit the tableau shape.
	ErrDimensionMismatch = errors.New("tableau: dimension mismatch")
)
