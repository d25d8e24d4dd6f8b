package solver

import "errors"

var (
	ErrNoSolution    = errors.New("solver: no solution available")
	ErrDestroyed     = errors.New("solver: problem destroyed")
	ErrUnknownHandle = errors.New("solver: unknown handle")
	ErrInvalidBounds = errors.New("solver: invalid bounds")
	ErrSolved        = errors.New("solver: problem already optimized")
	ErrNumerical     = errors.New("solver: numerical failure")
)

// ErrInvalidCoefficient is returned for NaN or infinite objective and row coefficients.
var ErrInvalidCoefficient = errors.New("solver: invalid coefficient")
