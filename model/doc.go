// SPDX-License-Identifier: MIT

// Package model describes a linear or integer programming instance.
//
// A Model is an objective (direction plus coefficients), an ordered list of
// Constraints and one sign restriction per decision variable. Models are plain
// values: solvers that need an independent branch call Clone, which copies
// every coefficient slice, so sibling subproblems never alias each other.
//
// Normalization happens once, in New: ragged rows are zero-padded to the
// widest row and missing sign restrictions default to NonNegative. After
// that every constraint has exactly NumVariables coefficients.
//
// Direction, Relation and SignRestriction are closed enumerations; their
// textual forms ("max", "<=", "urs", ...) are only accepted by the Parse*
// helpers used at the input boundary.
package model
