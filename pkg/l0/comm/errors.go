package comm

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData indicates ReadByte was called with no byte available.
	ErrNoData = errors.New("no data available")
	// ErrReadTimeout indicates the peer didn't send a full frame in time.
	ErrReadTimeout = errors.New("read timeout")
)

// FrameError reports a malformed frame.
type FrameError struct {
	Size int
}

// Error implements error.
func (e *FrameError) Error() string {
	return fmt.Sprintf("invalid frame size %d, expect %d", e.Size, FrameSize)
}
