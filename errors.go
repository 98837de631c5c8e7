package roi

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrShapeMismatch indicates masks that are compared or stored together
	// do not share the same width and height.
	ErrShapeMismatch = errors.New("roi: mask shape mismatch")

	// ErrInvalidMaskValue indicates a mask element other than 0 or 1.
	ErrInvalidMaskValue = errors.New("roi: invalid mask value")

	// ErrInvalidThreshold indicates a match threshold outside [0, 1).
	ErrInvalidThreshold = errors.New("roi: invalid match threshold")

	// ErrPointOutOfBounds indicates a pixel coordinate outside the mask.
	ErrPointOutOfBounds = errors.New("roi: point out of bounds")
)

// StackError reports a fatal error while scoring a single stack.
type StackError struct {
	Stack int
	Name  string
	Err   error
}

func (e *StackError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("stack %d (%s): %v", e.Stack, e.Name, e.Err)
	}
	return fmt.Sprintf("stack %d: %v", e.Stack, e.Err)
}

func (e *StackError) Unwrap() error {
	return e.Err
}
