package simplex_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/lpr/model"
	"github.com/katalvlaran/lpr/simplex"
)

// denseModel builds max c·x s.t. Ax <= b with strictly positive data, so the
// all-slack basis is feasible and the optimum is bounded.
func denseModel(b *testing.B, rows, cols int) model.Model {
	b.Helper()
	rng := rand.New(rand.NewSource(42))
	obj := make([]float64, cols)
	for j := range obj {
		obj[j] = 1 + rng.Float64()*9
	}
	cons := make([]model.Constraint, rows)
	for i := range cons {
		coeffs := make([]float64, cols)
		for j := range coeffs {
			coeffs[j] = 1 + rng.Float64()*9
		}
		cons[i] = model.Constraint{Coefficients: coeffs, Relation: model.LessEq, RHS: 100 + rng.Float64()*900}
	}
	m, err := model.New(model.Objective{Direction: model.Maximize, Coefficients: obj}, cons, nil)
	if err != nil {
		b.Fatal(err)
	}

	return m
}

// BenchmarkSolve_Dense20x20 measures a full primal solve on a 20x20 model.
func BenchmarkSolve_Dense20x20(b *testing.B) {
	m := denseModel(b, 20, 20)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = simplex.Solve(m)
	}
}

// BenchmarkSolve_Dense60x40 measures a larger, taller model.
func BenchmarkSolve_Dense60x40(b *testing.B) {
	m := denseModel(b, 60, 40)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = simplex.Solve(m)
	}
}
