package comm

import (
	"fmt"
	"math"
)

// Command is the byte sent by the host every cycle.
// Bit 7 selects reverse direction, bits 0-6 are the magnitude.
type Command byte

// Commands and masks.
const (
	CommandReverse   Command = 0x80
	CommandMagnitude Command = 0x7f

	// CommandStop applies zero throttle forward.
	CommandStop Command = 0
	// CommandAck acknowledges and clears the error state, with zero
	// throttle.
	CommandAck Command = CommandReverse

	// DutyScale converts the 7-bit magnitude to the 8-bit duty range.
	DutyScale = 2
)

// IsReverse indicates the reverse direction flag is set.
func (c Command) IsReverse() bool {
	return c&CommandReverse != 0
}

// Magnitude gets the throttle magnitude in [0, 127].
func (c Command) Magnitude() uint8 {
	return uint8(c & CommandMagnitude)
}

// IsAck indicates the command is the error acknowledge sentinel.
func (c Command) IsAck() bool {
	return c == CommandAck
}

// DutyCycle gets the PWM duty cycle requested by the command.
func (c Command) DutyCycle() uint8 {
	return c.Magnitude() * DutyScale
}

// Voltage gets the normalized voltage in [-1, 1].
func (c Command) Voltage() float64 {
	v := float64(c.Magnitude()) / float64(CommandMagnitude)
	if c.IsReverse() {
		return -v
	}
	return v
}

// String returns a readable form of the command.
func (c Command) String() string {
	if c.IsAck() {
		return "ACK"
	}
	if c.IsReverse() {
		return fmt.Sprintf("REV %d", c.Magnitude())
	}
	return fmt.Sprintf("FWD %d", c.Magnitude())
}

// CommandFromVoltage encodes a normalized voltage, clamped to [-1, 1].
// Small negative voltages which truncate to magnitude 0 are encoded as
// stop rather than as the acknowledge sentinel.
func CommandFromVoltage(v float64) Command {
	v = math.Max(-1, math.Min(1, v))
	if v >= 0 {
		return Command(v * float64(CommandMagnitude))
	}
	mag := Command(-v * float64(CommandMagnitude))
	if mag == 0 {
		return CommandStop
	}
	return CommandReverse | mag
}

// ErrorState is the gating error of the device.
type ErrorState uint8

// Error states.
const (
	ErrorNone ErrorState = iota
	ErrorPoweredOn
	ErrorCommandTimeout
)

// String implements Stringer.
func (e ErrorState) String() string {
	switch e {
	case ErrorNone:
		return "none"
	case ErrorPoweredOn:
		return "powered-on"
	case ErrorCommandTimeout:
		return "command-timeout"
	}
	return fmt.Sprintf("error-%d", uint8(e))
}

// Status byte encoding.
const (
	// StatusErrorFlag marks a status byte carrying an ErrorState.
	StatusErrorFlag byte = 0x80
	// ElapsedTimeout is the elapsed time recorded for a timed out cycle.
	ElapsedTimeout byte = 0xff
)

// StatusByte encodes the status reported in a Response.
func StatusByte(state ErrorState, elapsed byte) byte {
	if state != ErrorNone {
		return byte(state) | StatusErrorFlag
	}
	return elapsed
}

// FrameSize is the size of a Response on the wire.
const FrameSize = 4

// Response is the frame sent by the device every cycle.
type Response struct {
	Position      int16
	EncoderErrors uint8
	Status        byte
}

// Bytes returns encoded bytes for sending.
func (r Response) Bytes() []byte {
	pos := uint16(r.Position)
	return []byte{byte(pos), byte(pos >> 8), r.EncoderErrors, r.Status}
}

// ParseResponse decodes a frame.
func ParseResponse(b []byte) (Response, error) {
	if len(b) != FrameSize {
		return Response{}, &FrameError{Size: len(b)}
	}
	return Response{
		Position:      int16(uint16(b[0]) | uint16(b[1])<<8),
		EncoderErrors: b[2],
		Status:        b[3],
	}, nil
}

// ErrorState decodes the error state in Status.
// ErrorNone is returned if Status carries an elapsed time.
// The device never sends ElapsedTimeout: a timed out cycle always sets an
// error state, which takes precedence in the status byte.
func (r Response) ErrorState() ErrorState {
	if r.Status&StatusErrorFlag == 0 || r.Status == ElapsedTimeout {
		return ErrorNone
	}
	return ErrorState(r.Status &^ StatusErrorFlag)
}

// Elapsed returns the round trip time of the previous command in
// milliseconds. ok is false if Status carries an error state.
// ElapsedTimeout is accepted though the device reports an error instead.
func (r Response) Elapsed() (ms uint8, ok bool) {
	if r.Status&StatusErrorFlag != 0 && r.Status != ElapsedTimeout {
		return 0, false
	}
	return r.Status, true
}

// String returns a readable form of the response.
func (r Response) String() string {
	status := fmt.Sprintf("%dms", r.Status)
	if state := r.ErrorState(); state != ErrorNone {
		status = state.String()
	} else if r.Status == ElapsedTimeout {
		status = "timeout"
	}
	return fmt.Sprintf("pos=%d errs=%d status=%s (0x%02x)", r.Position, r.EncoderErrors, status, r.Status)
}
