package firmware

// Direction is the H-bridge polarity.
type Direction uint8

// Directions.
const (
	Forward Direction = iota
	Reverse
)

// String implements Stringer.
func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// Motor is the PWM output driving the motor.
type Motor interface {
	SetDirection(Direction)
	SetDutyCycle(uint8)
}

// DirectionOf decodes the direction bit of a command.
func DirectionOf(cmd byte) Direction {
	if cmd&0x80 != 0 {
		return Reverse
	}
	return Forward
}
