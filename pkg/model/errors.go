package model

import (
	"errors"

	"github.com/dd0wney/cluso-netdesign/pkg/dataset"
)

var (
	ErrDatasetUnavailable = dataset.ErrDatasetUnavailable
	ErrShapeMismatch      = dataset.ErrShapeMismatch
	ErrDuplicateName      = errors.New("model: duplicate name")
	ErrUnknownReference   = errors.New("model: unknown variable reference")
	ErrInvertedBounds     = errors.New("model: lower bound exceeds upper bound")
	ErrSolverFailure      = errors.New("model: solver failure")
)

// Lifecycle errors
var (
	ErrBroken        = errors.New("model: builder is broken")
	ErrAlreadyBuilt  = errors.New("model: already built")
	ErrNotBuilt      = errors.New("model: not built")
	ErrAlreadySolved = errors.New("model: already solved")
	ErrClosed        = errors.New("model: builder is closed")
)

// failureKind labels err for the build failure counter
func failureKind(err error) string {
	switch {
	case errors.Is(err, ErrShapeMismatch):
		return "shape_mismatch"
	case errors.Is(err, ErrDuplicateName):
		return "duplicate_name"
	case errors.Is(err, ErrUnknownReference):
		return "unknown_reference"
	case errors.Is(err, ErrInvertedBounds):
		return "inverted_bounds"
	case errors.Is(err, ErrSolverFailure):
		return "solver_failure"
	default:
		return "other"
	}
}
