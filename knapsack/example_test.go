package knapsack_test

import (
	"fmt"

	"github.com/katalvlaran/lpr/knapsack"
	"github.com/katalvlaran/lpr/model"
)

// ExampleSolve packs three items into capacity 8. Items are ranked by
// value/weight ratio; the best packing takes the first and third.
func ExampleSolve() {
	m, _ := model.New(
		model.Objective{Direction: model.Maximize, Coefficients: []float64{10, 6, 4}},
		[]model.Constraint{{Coefficients: []float64{5, 4, 3}, Relation: model.LessEq, RHS: 8}},
		[]model.SignRestriction{model.Binary, model.Binary, model.Binary},
	)
	res, err := knapsack.Solve(m.WithBinaryBounds())
	if err != nil {
		fmt.Println(err)
		return
	}
	best, _ := res.BestCandidate()
	fmt.Println("ranking", res.Ranking)
	fmt.Println("best", best.Label, best.Values, best.Objective)
	// Output:
	// ranking [0 1 2]
	// best 0.1 [1 0 1] 14
}
