package steerbox

import (
	"errors"
	"fmt"
)

var (
	// ErrPoweredOn indicates the device reported a power-up, it may have
	// been unplugged.
	ErrPoweredOn = errors.New("device unexpectedly powered up")
	// ErrCommandTimeout indicates a command reached the device over 50ms late.
	ErrCommandTimeout = errors.New("communication ran over 50ms behind")
	// ErrMisstep indicates the encoder missed edges and the position may
	// be incorrect.
	ErrMisstep = errors.New("quadrature mis-step")
	// ErrPositionRange indicates the wheel turned too far. The motor is
	// stopped.
	ErrPositionRange = errors.New("position is too large")
	// ErrNotReset indicates Interact is called before a successful Reset.
	ErrNotReset = errors.New("reset required")
)

// StatusError is an unknown error state reported by the device.
type StatusError struct {
	Code uint8
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unknown error: %d", e.Code)
}

// BehindError indicates the host took too long to send the last command.
type BehindError struct {
	Millis uint8
}

// Error implements error.
func (e *BehindError) Error() string {
	return fmt.Sprintf("communication ran behind, took %d ms", e.Millis)
}
