package fixed

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is wrapped by every argument validation failure.
	ErrInvalidArgument = errors.New("fixed: invalid argument")
	// ErrOutOfRange is wrapped by every bounds-check failure on a Record.
	ErrOutOfRange = errors.New("fixed: out of range")
)

// RangeError describes an access outside of a record.
type RangeError struct {
	Start  int
	Length int
	Width  int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%v: start=%d, length=%d, width=%d", ErrOutOfRange, e.Start, e.Length, e.Width)
}

// Is reports ErrOutOfRange as a match so callers can use errors.Is.
func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...)
}
