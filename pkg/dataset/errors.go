package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrDatasetUnavailable means the source could not be opened, read or decoded
	ErrDatasetUnavailable = errors.New("dataset unavailable")
	// ErrShapeMismatch means a table does not have the dimensions T and K require
	ErrShapeMismatch = errors.New("dataset shape mismatch")
)

// ShapeError names the first table with wrong dimensions.
// It matches ErrShapeMismatch with errors.Is.
type ShapeError struct {
	Field  string // path in the input document, e.g. arcs[0].c_u
	Detail string
	More   int // further failures not reported
}

func (e *ShapeError) Error() string {
	msg := fmt.Sprintf("%v: %s", ErrShapeMismatch, e.Detail)
	if e.More > 0 {
		msg += fmt.Sprintf(" (and %d more)", e.More)
	}
	return msg
}

func (e *ShapeError) Is(target error) bool {
	return target == ErrShapeMismatch
}
