// SPDX-License-Identifier: MIT

// Package lpfile reads and writes the line-oriented model format:
//
//	max 3 5              objective: direction token, then coefficients
//	1 0 <= 4             constraint: coefficients, relation, RHS
//	0 2 <= 12
//	3 2 <= 18
//	+ +                  last line: one sign restriction per variable
//
// Blank lines are ignored. The relation token is located by scanning, so
// constraint rows may be shorter than the objective; they are zero-padded by
// model.New. A "bin" tag appends the matching x_j <= 1 row.
package lpfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/katalvlaran/lpr/model"
)

// ErrFormat is the sentinel wrapped by every *FormatError.
var ErrFormat = errors.New("lpfile: format error")

// FormatError reports a malformed line; Line is 1-based (0 for whole-file issues).
type FormatError struct {
	Line int
	Msg  string
}

// Error implements error.
func (e *FormatError) Error() string {
	if e.Line == 0 {
		return "lpfile: " + e.Msg
	}

	return fmt.Sprintf("lpfile: line %d: %s", e.Line, e.Msg)
}

// Unwrap lets errors.Is match ErrFormat.
func (e *FormatError) Unwrap() error { return ErrFormat }

type line struct {
	no     int
	fields []string
}

// Parse reads a model from r.
// Stage 1 (Collect): split non-blank lines into fields, at least three lines.
// Stage 2 (Decode): objective, constraints, sign restrictions.
// Stage 3 (Finalize): normalize through model.New and append binary bounds.
func Parse(r io.Reader) (model.Model, error) {
	var lines []line
	sc := bufio.NewScanner(r)
	for no := 1; sc.Scan(); no++ {
		f := strings.Fields(sc.Text())
		if len(f) == 0 {
			continue
		}
		lines = append(lines, line{no: no, fields: f})
	}
	if err := sc.Err(); err != nil {
		return model.Model{}, fmt.Errorf("lpfile: read: %w", err)
	}
	if len(lines) < 3 {
		return model.Model{}, &FormatError{Msg: fmt.Sprintf("need objective, constraints and sign lines, got %d lines", len(lines))}
	}

	obj, err := parseObjective(lines[0])
	if err != nil {
		return model.Model{}, err
	}
	cons := make([]model.Constraint, 0, len(lines)-2)
	for _, ln := range lines[1 : len(lines)-1] {
		c, err := parseConstraint(ln)
		if err != nil {
			return model.Model{}, err
		}
		cons = append(cons, c)
	}
	last := lines[len(lines)-1]
	signs := make([]model.SignRestriction, len(last.fields))
	for i, tok := range last.fields {
		s, err := model.ParseSign(tok)
		if err != nil {
			return model.Model{}, &FormatError{Line: last.no, Msg: err.Error()}
		}
		signs[i] = s
	}

	m, err := model.New(obj, cons, signs)
	if err != nil {
		return model.Model{}, &FormatError{Line: last.no, Msg: err.Error()}
	}

	return m.WithBinaryBounds(), nil
}

// ParseFile opens path and parses it.
func ParseFile(path string) (model.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Model{}, fmt.Errorf("lpfile: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

func parseObjective(ln line) (model.Objective, error) {
	dir, err := model.ParseDirection(ln.fields[0])
	if err != nil {
		return model.Objective{}, &FormatError{Line: ln.no, Msg: err.Error()}
	}
	coeffs, err := parseNumbers(ln, ln.fields[1:])
	if err != nil {
		return model.Objective{}, err
	}

	return model.Objective{Direction: dir, Coefficients: coeffs}, nil
}

func parseConstraint(ln line) (model.Constraint, error) {
	at := slices.IndexFunc(ln.fields, func(tok string) bool {
		_, err := model.ParseRelation(tok)
		return err == nil
	})
	if at < 0 {
		return model.Constraint{}, &FormatError{Line: ln.no, Msg: "relation symbol (<=, >=, =) not found"}
	}
	rel, _ := model.ParseRelation(ln.fields[at])
	coeffs, err := parseNumbers(ln, ln.fields[:at])
	if err != nil {
		return model.Constraint{}, err
	}
	rest := ln.fields[at+1:]
	if len(rest) != 1 {
		return model.Constraint{}, &FormatError{Line: ln.no, Msg: fmt.Sprintf("expected one right-hand side after %s, got %d tokens", rel, len(rest))}
	}
	rhs, err := parseNumbers(ln, rest)
	if err != nil {
		return model.Constraint{}, err
	}

	return model.Constraint{Coefficients: coeffs, Relation: rel, RHS: rhs[0]}, nil
}

func parseNumbers(ln line, toks []string) ([]float64, error) {
	out := make([]float64, len(toks))
	for i, tok := range toks {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, &FormatError{Line: ln.no, Msg: fmt.Sprintf("invalid number %q", tok)}
		}
		out[i] = v
	}

	return out, nil
}

// Write renders m in the format accepted by Parse.
func Write(w io.Writer, m model.Model) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(m.Objective.Direction.String())
	for _, v := range m.Objective.Coefficients {
		bw.WriteByte(' ')
		bw.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	bw.WriteByte('\n')
	for _, c := range m.Constraints {
		for _, v := range c.Coefficients {
			bw.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
			bw.WriteByte(' ')
		}
		fmt.Fprintf(bw, "%s %s\n", c.Relation, strconv.FormatFloat(c.RHS, 'g', -1, 64))
	}
	for j, s := range m.Signs {
		if j > 0 {
			bw.WriteByte(' ')
		}
		bw.WriteString(s.String())
	}
	bw.WriteByte('\n')

	return bw.Flush()
}
