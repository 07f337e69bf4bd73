package simplex_test

import (
	"fmt"

	"github.com/katalvlaran/lpr/model"
	"github.com/katalvlaran/lpr/simplex"
)

////////////////////////////////////////////////////////////////////////////////
// Primal / Dual Examples
////////////////////////////////////////////////////////////////////////////////

// ExampleSolve maximizes a two-product mix.
//
//	max 3x1 + 5x2
//	x1 <= 4, 2x2 <= 12, 3x1 + 2x2 <= 18
//
// Two primal pivots reach 36 at (2, 6).
func ExampleSolve() {
	m, _ := model.New(
		model.Objective{Direction: model.Maximize, Coefficients: []float64{3, 5}},
		[]model.Constraint{
			{Coefficients: []float64{1, 0}, Relation: model.LessEq, RHS: 4},
			{Coefficients: []float64{0, 2}, Relation: model.LessEq, RHS: 12},
			{Coefficients: []float64{3, 2}, Relation: model.LessEq, RHS: 18},
		},
		nil,
	)
	res, err := simplex.Solve(m)
	if err != nil {
		fmt.Println(err)
		return
	}
	x := res.Decision()
	fmt.Printf("%s %.2f x=(%.2f, %.2f)\n", res.Status, res.Objective, x[0], x[1])
	// Output:
	// optimal 36.00 x=(2.00, 6.00)
}

// ExampleSolve_dual starts from a negative right-hand side, so the dual
// variant runs first.
//
//	min x1 + 2x2
//	x1 + x2 >= 2
func ExampleSolve_dual() {
	m, _ := model.New(
		model.Objective{Direction: model.Minimize, Coefficients: []float64{1, 2}},
		[]model.Constraint{{Coefficients: []float64{1, 1}, Relation: model.GreaterEq, RHS: 2}},
		nil,
	)
	var variants []string
	res, err := simplex.Solve(m, simplex.WithOnPivot(func(v simplex.Variant, _, _ int) {
		variants = append(variants, v.String())
	}))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%s %.2f %v\n", res.Status, res.Objective, variants)
	// Output:
	// optimal 2.00 [dual]
}
