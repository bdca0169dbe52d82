package wheel

import "time"

// Config is the model of the motor and the encoder.
type Config struct {
	// CountsPerRev is the quarter counts of one wheel revolution.
	CountsPerRev int
	// MaxSpeed is the no-load speed at full duty, in revolutions per second.
	MaxSpeed float64
	// TimeConstant is the first-order response time of the motor.
	TimeConstant time.Duration
	// DropRate is the probability of an encoder interrupt being missed.
	DropRate float64
	// Step is the integration period.
	Step time.Duration
	// Seed seeds the edge drop generator.
	Seed int64
}

// DefaultConfig is a geared motor with a 2802 lines encoder.
var DefaultConfig = Config{
	CountsPerRev: 4 * 2802,
	MaxSpeed:     1.5,
	TimeConstant: 80 * time.Millisecond,
	Step:         time.Millisecond,
	Seed:         1,
}
