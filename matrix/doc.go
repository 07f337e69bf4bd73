// SPDX-License-Identifier: MIT

// Package matrix provides the dense row-major float64 storage used by the
// simplex tableau.
//
// What & Why:
//
//	Dense keeps all elements in one flat slice so that whole-row operations
//	(scale, add-scaled) run over contiguous memory. Besides the checked At/Set
//	accessors it exposes the growth operations a tableau needs during its
//	lifetime: appending a row (cuts, new constraints), inserting a column
//	(new activities) and appending a column (cut slacks).
//
// Complexity:
//
//	At/Set are O(1). Row operations are O(cols). Growth operations copy the
//	whole backing slice: O(rows*cols).
package matrix
