// SPDX-License-Identifier: MIT

package model

import "errors"

var (
	// ErrDimensionMismatch is returned when coefficient rows or sign tags
	// cannot be reconciled with the variable count.
	ErrDimensionMismatch = errors.New("model: dimension mismatch")

	// ErrEmptyObjective is returned when the objective has no coefficients.
	ErrEmptyObjective = errors.New("model: objective has no coefficients")

	// ErrInvalidToken is returned by the Parse* helpers for unknown tokens.
	ErrInvalidToken = errors.New("model: invalid token")
)
