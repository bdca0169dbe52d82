// Package comm provides the L0 protocol between the steerbox firmware and
// its host.
package comm

// The protocol runs in fixed cycles paced by the device:
//
//	device -> host: 4 bytes, PositionLow PositionHigh EncoderErrors Status
//	host -> device: 1 byte, Command
//
// Frames carry no sync marker nor checksum. Framing is kept by the device
// consuming exactly one command byte per cycle, even after a timeout.
// Nominal cadence is 20ms per cycle. If no command arrives within 50ms the
// device forces the motor off and reports CommandTimeout.
//
// Producer: L0 firmware
// Consumer: L1 host driver
