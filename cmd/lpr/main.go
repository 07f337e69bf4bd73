// SPDX-License-Identifier: MIT

// Command lpr solves models written in the lpfile format and prints the
// outcome as JSON.
//
//	lpr solve    FILE   LP relaxation (primal/dual simplex)
//	lpr bnb      FILE   branch-and-bound over integer variables
//	lpr cut      FILE   Gomory cutting planes
//	lpr knapsack FILE   0/1 knapsack branch-and-bound
//	lpr dual     FILE   sensitivity report, dual model and its solution
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
