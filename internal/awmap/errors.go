package awmap

import (
	"errors"
	"fmt"
)

var (
	ErrBadFormat         = errors.New("bad map format")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrMapNotFound       = errors.New("map not found")
	ErrInvalidTerrain    = errors.New("invalid terrain")
	ErrInvalidUnit       = errors.New("invalid unit")
	ErrRenderFailure     = errors.New("render failure")
)

// MapError reports a failed operation at a tile.
type MapError struct {
	Op     string
	X, Y   int
	Detail string
	Err    error
}

func (e *MapError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s at (%d,%d): %v", e.Op, e.X, e.Y, e.Err)
	}
	return fmt.Sprintf("%s at (%d,%d): %v: %s", e.Op, e.X, e.Y, e.Err, e.Detail)
}

func (e *MapError) Unwrap() error { return e.Err }

// BadFormat wraps ErrBadFormat with detail.
func BadFormat(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadFormat, fmt.Sprintf(format, args...))
}
