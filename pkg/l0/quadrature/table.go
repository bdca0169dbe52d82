// Package quadrature decodes the two phase lines of a quadrature encoder.
//
// A sample packs the line levels as BA (B in bit 1, A in bit 0). Positive
// rotation is the Gray sequence 00 -> 10 -> 11 -> 01 -> 00.
package quadrature

// Sample is the 2-bit level of the encoder lines.
type Sample uint8

// Line bits in a Sample.
const (
	LineA Sample = 1 << iota
	LineB

	sampleMask = LineA | LineB
)

// Action is what a transition does to the counters.
// Bit 0 is added to the error count, bits 1-7 are a signed delta added
// to the position.
type Action uint8

// Actions.
const (
	ActionNone      Action = 0
	ActionForward   Action = 2    // +1
	ActionBackward  Action = 0xfe // -1
	ActionAmbiguous Action = 1
)

// Delta returns the signed position change.
func (a Action) Delta() int8 {
	return int8(a) >> 1
}

// Errors returns the error count increment.
func (a Action) Errors() uint8 {
	return uint8(a) & 1
}

// String returns the name of the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionForward:
		return "+1"
	case ActionBackward:
		return "-1"
	case ActionAmbiguous:
		return "ambiguous"
	}
	return "invalid"
}

// Table maps a transition code to its action.
// The code is (new << 2) | old.
type Table [16]Action

// Code builds the table index for a transition.
func Code(old, cur Sample) uint8 {
	return uint8(cur&sampleMask)<<2 | uint8(old&sampleMask)
}

// Lookup returns the action for a transition.
func (t *Table) Lookup(old, cur Sample) Action {
	return t[Code(old, cur)]
}

// QuarterTable counts every single line transition.
var QuarterTable = Table{
	// new 00
	ActionNone,      // 00 -> 00
	ActionForward,   // 01 -> 00, A falls while B=0
	ActionBackward,  // 10 -> 00, B falls while A=0
	ActionAmbiguous, // 11 -> 00
	// new 01
	ActionBackward,  // 00 -> 01, A rises while B=0
	ActionNone,      // 01 -> 01
	ActionAmbiguous, // 10 -> 01
	ActionForward,   // 11 -> 01, B falls while A=1
	// new 10
	ActionForward,   // 00 -> 10, B rises while A=0
	ActionAmbiguous, // 01 -> 10
	ActionNone,      // 10 -> 10
	ActionBackward,  // 11 -> 10, A falls while B=1
	// new 11
	ActionAmbiguous, // 00 -> 11
	ActionBackward,  // 01 -> 11, B rises while A=1
	ActionForward,   // 10 -> 11, A rises while B=1
	ActionNone,      // 11 -> 11
}

// FullTable only counts the transitions landing on 00, one count per
// full Gray cycle. Used with high resolution encoders.
var FullTable = Table{
	ActionNone, ActionForward, ActionBackward, ActionAmbiguous,
	ActionNone, ActionNone, ActionAmbiguous, ActionNone,
	ActionNone, ActionAmbiguous, ActionNone, ActionNone,
	ActionAmbiguous, ActionNone, ActionNone, ActionNone,
}
