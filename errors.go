package shapefit

import (
	"errors"
	"fmt"
	"image"
)

// Engine errors.
var (
	// ErrInvalidConfig is returned when a Config fails validation.
	ErrInvalidConfig = errors.New("shapefit: invalid config")

	// ErrDimensionMismatch is returned when the canvas and target differ in size.
	ErrDimensionMismatch = errors.New("shapefit: canvas and target dimensions differ")

	// ErrNoViableCandidate is returned by RunGeneration when every seeded
	// candidate lies entirely off the canvas.
	ErrNoViableCandidate = errors.New("shapefit: no viable candidate")

	// ErrInvalidShape is returned by ParseShape for malformed input.
	ErrInvalidShape = errors.New("shapefit: invalid shape")
)

// SizeError describes a dimension mismatch between two grids.
// It matches ErrDimensionMismatch with errors.Is.
type SizeError struct {
	A, B image.Point
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("%s: %dx%d vs %dx%d", ErrDimensionMismatch, e.A.X, e.A.Y, e.B.X, e.B.Y)
}

// Is reports whether target is ErrDimensionMismatch.
func (e *SizeError) Is(target error) bool {
	return target == ErrDimensionMismatch
}

// configErrorf wraps ErrInvalidConfig with a formatted reason.
func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
