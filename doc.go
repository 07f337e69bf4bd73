// Package lpr is a dense-tableau toolkit for linear and integer programs:
// build a model, solve its relaxation, search for integer solutions, and
// ask what-if questions about the optimum.
//
// What is inside?
//
//	A small, explicit library where every pivot can be observed:
//		• Modeling: objective, constraints, sign restrictions, text format
//		• Simplex: primal and dual pivoting on one tableau
//		• Integer search: branch-and-bound, Gomory cutting planes
//		• 0/1 knapsack: ratio-ranked depth-first branch-and-bound
//		• Sensitivity: cost and RHS ranging, dual values, new rows/columns
//		• Duality: build, solve and compare the dual model
//
// Every solver takes functional options (tolerances, caps, hooks such as
// OnPivot or OnNode), logs through log/slog, and reports to an Observer that
// the metrics package implements with Prometheus counters.
//
// Packages:
//
//	matrix/      dense row-major matrix with row operations
//	model/       Model, Constraint, normalization, signatures
//	lpfile/      line-oriented model reader and writer
//	tableau/     tableau construction, pivoting, basis bookkeeping
//	simplex/     primal/dual simplex engine
//	branchbound/ breadth-first branch-and-bound
//	cutting/     Gomory fractional cutting planes
//	knapsack/    0/1 knapsack branch-and-bound
//	sensitivity/ ranging, shadow prices, duality
//	solver/      service wiring config, logging, metrics and cache
//	config/, logging/, metrics/, cache/ ambient stack
//	cmd/lpr      command-line front end
//
// Quick example:
//
//	max 3 5
//	1 0 <= 4
//	0 2 <= 12
//	3 2 <= 18
//	+ +
//
//	$ lpr solve classic.lp   # objective 36 at x = (2, 6)
//
//	go install github.com/katalvlaran/lpr/cmd/lpr@latest
package lpr
