// Package solver defines the narrow boundary between model construction and
// a MILP engine.
//
// A Problem is created by a Factory, receives variable and constraint
// declarations, is optimized once and is then queried for values. Handles
// (Var, Cons) are only meaningful for the Problem that issued them. Destroy
// releases the engine state; every call after it fails with ErrDestroyed.
//
// Row bounds form a closed interval. Use Inf() and -Inf() for a missing side.
package solver
