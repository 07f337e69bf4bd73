// SPDX-License-Identifier: MIT

// Package sensitivity runs post-optimal analysis on a solved relaxation.
//
// A Context bundles the model, a private copy of the optimal tableau and its
// basis partition. Column indices address tableau columns (decision, mirror,
// slack); constraint indices address model constraints.
//
// Ranging:
//   - NonBasicRange: the values a non-basic column can take before some basic
//     variable leaves the feasible region (ratio test down the column).
//   - BasicRange: the objective coefficients a basic column tolerates before
//     the basis stops being optimal (ratio test along its own row).
//   - ConstraintRHSRange: the right-hand sides a constraint tolerates before
//     the basis becomes infeasible.
//
// What-if operations mutate the context in place: ApplyValueChange,
// ApplyRHSChange, AddActivity and AddConstraint. Reoptimize hands the edited
// tableau back to the simplex engine. A rejected operation leaves the
// context untouched.
//
// Duality: Dual builds the dual model, SolveDual solves it with a fresh
// engine, and VerifyDuality reports the duality kind.
package sensitivity
