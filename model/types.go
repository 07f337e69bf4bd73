// SPDX-License-Identifier: MIT

package model

import (
	"fmt"
	"strings"
)

// Direction is the optimization sense of the objective.
type Direction int

const (
	// Maximize asks for the largest objective value.
	Maximize Direction = iota
	// Minimize asks for the smallest objective value.
	Minimize
)

// String returns the input-format token of d.
func (d Direction) String() string {
	if d == Minimize {
		return "min"
	}

	return "max"
}

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Maximize {
		return Minimize
	}

	return Maximize
}

// Better reports whether objective a improves on b under d.
func (d Direction) Better(a, b float64) bool {
	if d == Maximize {
		return a > b
	}

	return a < b
}

// ParseDirection accepts max/min (and the long forms), case-insensitive.
func ParseDirection(tok string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(tok)) {
	case "max", "maximize":
		return Maximize, nil
	case "min", "minimize":
		return Minimize, nil
	}

	return 0, fmt.Errorf("direction %q: %w", tok, ErrInvalidToken)
}

// Relation is the comparison between a constraint's left side and its RHS.
type Relation int

const (
	// LessEq is a·x <= b.
	LessEq Relation = iota
	// GreaterEq is a·x >= b.
	GreaterEq
	// Equal is a·x = b.
	Equal
)

// String returns the symbol of r.
func (r Relation) String() string {
	switch r {
	case GreaterEq:
		return ">="
	case Equal:
		return "="
	default:
		return "<="
	}
}

// ParseRelation accepts "<=", ">=" and "=".
func ParseRelation(tok string) (Relation, error) {
	switch strings.TrimSpace(tok) {
	case "<=":
		return LessEq, nil
	case ">=":
		return GreaterEq, nil
	case "=":
		return Equal, nil
	}

	return 0, fmt.Errorf("relation %q: %w", tok, ErrInvalidToken)
}

// SignRestriction tags the domain of one decision variable.
type SignRestriction int

const (
	// NonNegative is x >= 0 ("+").
	NonNegative SignRestriction = iota
	// NonPositive is x <= 0 ("-").
	NonPositive
	// Unrestricted is a free variable ("urs").
	Unrestricted
	// Binary is x in {0,1} ("bin").
	Binary
	// Integer is a non-negative integer ("int").
	Integer
)

// String returns the input-format token of s.
func (s SignRestriction) String() string {
	switch s {
	case NonPositive:
		return "-"
	case Unrestricted:
		return "urs"
	case Binary:
		return "bin"
	case Integer:
		return "int"
	default:
		return "+"
	}
}

// Integral reports whether s demands an integer value.
func (s SignRestriction) Integral() bool { return s == Binary || s == Integer }

// ParseSign accepts +, -, urs, bin and int (case-insensitive).
func ParseSign(tok string) (SignRestriction, error) {
	switch strings.ToLower(strings.TrimSpace(tok)) {
	case "+":
		return NonNegative, nil
	case "-":
		return NonPositive, nil
	case "urs":
		return Unrestricted, nil
	case "bin":
		return Binary, nil
	case "int":
		return Integer, nil
	}

	return 0, fmt.Errorf("sign restriction %q: %w", tok, ErrInvalidToken)
}
