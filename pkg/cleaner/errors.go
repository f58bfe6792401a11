package cleaner

import (
	"errors"
	"fmt"
)

// Sentinel errors for rejected input.
var (
	// ErrInvalidCommand is returned by Execute for an unrecognized token.
	ErrInvalidCommand = errors.New("cleaner: invalid command")

	// ErrInvalidDirtLevel is returned by DetectDirtLevel for an unknown level.
	ErrInvalidDirtLevel = errors.New("cleaner: invalid dirt level")
)

// HardwareError wraps a failure reported by a hardware collaborator.
// The robot state is left unchanged when one is returned.
type HardwareError struct {
	// Op names the collaborator call, e.g. "read battery".
	Op  string
	Err error
}

// Error implements the error interface.
func (e *HardwareError) Error() string {
	return fmt.Sprintf("cleaner: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *HardwareError) Unwrap() error {
	return e.Err
}

func hardwareErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &HardwareError{Op: op, Err: err}
}
