package msgs

import (
	"github.com/golang/protobuf/proto"
)

// Message groups
const (
	GroupCommon   uint32 = 0x00000000
	GroupSteerbox uint32 = 0x00010000
)

// Message type IDs
const (
	CommandErrTypeID uint32 = TypeIDKindEvent | GroupCommon | 0x0001
	DriveTypeID      uint32 = TypeIDKindCommand | GroupSteerbox | 0x0001
	ResetTypeID      uint32 = TypeIDKindCommand | GroupSteerbox | 0x0002
	StateTypeID      uint32 = TypeIDKindEvent | GroupSteerbox | 0x0001
)

// CommandErr is the event reporting a command failure.
type CommandErr struct {
	PBCommandErr
}

// NewCommandErr creates a CommandErr from an error.
func NewCommandErr(err error) *CommandErr {
	return &CommandErr{PBCommandErr: PBCommandErr{Message: err.Error()}}
}

// NewMessage implements Message.
func (m *CommandErr) NewMessage() Message { return &CommandErr{} }

// TypeID implements Message.
func (m *CommandErr) TypeID() uint32 { return CommandErrTypeID }

// Serializable implements Message.
func (m *CommandErr) Serializable() proto.Message { return &m.PBCommandErr }

// Error implements error.
func (m *CommandErr) Error() string { return m.Message }

// State event.
type State struct {
	PBState
}

// NewMessage implements Message.
func (m *State) NewMessage() Message { return &State{} }

// TypeID implements Message.
func (m *State) TypeID() uint32 { return StateTypeID }

// Serializable implements Message.
func (m *State) Serializable() proto.Message { return &m.PBState }

// Drive command.
type Drive struct {
	PBDrive
}

// NewMessage implements Message.
func (m *Drive) NewMessage() Message { return &Drive{} }

// TypeID implements Message.
func (m *Drive) TypeID() uint32 { return DriveTypeID }

// Serializable implements Message.
func (m *Drive) Serializable() proto.Message { return &m.PBDrive }

// Reset command.
type Reset struct {
	PBReset
}

// NewMessage implements Message.
func (m *Reset) NewMessage() Message { return &Reset{} }

// TypeID implements Message.
func (m *Reset) TypeID() uint32 { return ResetTypeID }

// Serializable implements Message.
func (m *Reset) Serializable() proto.Message { return &m.PBReset }
