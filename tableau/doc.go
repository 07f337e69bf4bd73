// SPDX-License-Identifier: MIT

// Package tableau holds the dense simplex tableau and the builder that turns
// a model.Model into one.
//
// Layout:
//
//	row 0            objective row z - c·x = 0 (RHS is the objective value)
//	rows 1..m        one row per constraint (two for an equality)
//	columns          decision block, mirror block (free variables), slack block, RHS
//
// Every non-RHS column carries a Column descriptor telling which model
// variable (or which row's slack) it represents and with which sign, so the
// decision vector can be recovered after any sequence of pivots, cuts and
// inserted activities.
//
// Identity invariant: a basic column has a single 1 in one constraint row
// and 0 everywhere else (objective row included) within Tolerances.Identity.
// Pivot re-establishes it exactly for the pivot column.
package tableau
