package steerbox

import "time"

// Config defines the host side parameters of a Box.
type Config struct {
	// CountsPerRev converts encoder counts to revolutions.
	CountsPerRev int
	// PositionLimit is the largest allowed |position| in revolutions.
	PositionLimit float64
	// ErrorTolerance is the accepted number of lifetime encoder errors.
	ErrorTolerance uint8
	// ResetSettle is the wait for the device to time out during Reset.
	ResetSettle time.Duration
}

// DefaultConfig matches the steering wheel rig.
var DefaultConfig = Config{
	CountsPerRev:   4 * 2802,
	PositionLimit:  1.1,
	ErrorTolerance: 1,
	ResetSettle:    100 * time.Millisecond,
}
