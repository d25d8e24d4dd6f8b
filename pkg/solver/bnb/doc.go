// Package bnb is an in-process MILP engine implementing solver.Problem.
//
// It runs a depth-first branch and bound over the integral columns. Each node
// rewrites its bounded-variable problem into standard form
//
//	minimize  c'y   subject to  Ay = b, y >= 0
//
// and solves it with a two-phase tableau simplex on gonum matrices. Column
// bounds become shifts and bound rows, row intervals become slack columns,
// and free columns are split into a positive and a negative part. Pivoting
// follows Bland's rule, so degenerate relaxations terminate; equality rows
// that depend on others are dropped after phase one. The search context,
// bounded by Options.TimeLimit, is checked before every pivot.
//
// Up to Options.Workers sibling relaxations are solved at once on a
// parallel.WorkerPool; their results are always processed in the order the
// nodes were taken from the stack, so the search path does not depend on the
// worker count.
//
// Dense matrices keep this engine suited to models with a few thousand
// columns. Larger instances need an external engine behind solver.Problem.
package bnb
