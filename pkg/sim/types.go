// Package sim provides the simulated hardware of the steerbox.
package sim

// Angle is the common representation of angle in radians,
// normalized to (-Pi, Pi].
type Angle float64

// Revolutions is an unbounded rotation, 1 means a full turn.
type Revolutions float64
