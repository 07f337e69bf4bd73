package knapsack_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/lpr/knapsack"
	"github.com/katalvlaran/lpr/model"
)

// BenchmarkSolve_Items20 runs the depth-first search over 20 random items
// with capacity at half the total weight.
func BenchmarkSolve_Items20(b *testing.B) {
	const n = 20
	rng := rand.New(rand.NewSource(7))
	values, weights := make([]float64, n), make([]float64, n)
	signs := make([]model.SignRestriction, n)
	total := 0.0
	for j := 0; j < n; j++ {
		values[j] = float64(1 + rng.Intn(50))
		weights[j] = float64(1 + rng.Intn(30))
		signs[j] = model.Binary
		total += weights[j]
	}
	m, err := model.New(
		model.Objective{Direction: model.Maximize, Coefficients: values},
		[]model.Constraint{{Coefficients: weights, Relation: model.LessEq, RHS: total / 2}},
		signs,
	)
	if err != nil {
		b.Fatal(err)
	}
	m = m.WithBinaryBounds()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = knapsack.Solve(m, knapsack.WithMaxNodes(1<<22))
	}
}
