// SPDX-License-Identifier: MIT

package sensitivity

import "errors"

var (
	// ErrNotInitialized is returned when the context holds no optimal tableau.
	ErrNotInitialized = errors.New("sensitivity: context holds no optimal tableau")

	// ErrInvalidIndex is returned for an out-of-range column or constraint
	// index, or a column of the wrong basis kind.
	ErrInvalidIndex = errors.New("sensitivity: invalid index")

	// ErrDimensionMismatch is returned when an added activity or constraint
	// does not fit the model.
	ErrDimensionMismatch = errors.New("sensitivity: dimension mismatch")
)
