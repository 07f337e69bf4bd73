// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// All exported methods return these sentinels (optionally wrapped with
// method context); tests match them via errors.Is.

package matrix

import "errors"

var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are negative
	// or that a row-major literal is ragged.
	ErrInvalidDimensions = errors.New("matrix: invalid dimensions")

	// ErrIndexOutOfBounds indicates that a row or column index is outside valid range.
	ErrIndexOutOfBounds = errors.New("matrix: index out of bounds")

	// ErrDimensionMismatch indicates that an appended row or inserted column
	// does not match the current shape.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")
)
