package msgs

import "github.com/golang/protobuf/proto"

// PBTyped is the wire envelope.
type PBTyped struct {
	TypeId  uint32 `protobuf:"varint,1,opt,name=type_id,json=typeId,proto3" json:"type_id,omitempty"`
	Message []byte `protobuf:"bytes,2,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *PBTyped) Reset()         { *m = PBTyped{} }
func (m *PBTyped) String() string { return proto.CompactTextString(m) }
func (*PBTyped) ProtoMessage()    {}

// PBState reports one interaction with the device.
type PBState struct {
	Counts        int32   `protobuf:"zigzag32,1,opt,name=counts,proto3" json:"counts,omitempty"`
	Position      float64 `protobuf:"fixed64,2,opt,name=position,proto3" json:"position,omitempty"`
	EncoderErrors uint32  `protobuf:"varint,3,opt,name=encoder_errors,json=encoderErrors,proto3" json:"encoder_errors,omitempty"`
	Status        uint32  `protobuf:"varint,4,opt,name=status,proto3" json:"status,omitempty"`
	Voltage       float64 `protobuf:"fixed64,5,opt,name=voltage,proto3" json:"voltage,omitempty"`
	Ready         bool    `protobuf:"varint,6,opt,name=ready,proto3" json:"ready,omitempty"`
	Error         string  `protobuf:"bytes,7,opt,name=error,proto3" json:"error,omitempty"`
	Timestamp     int64   `protobuf:"varint,8,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

func (m *PBState) Reset()         { *m = PBState{} }
func (m *PBState) String() string { return proto.CompactTextString(m) }
func (*PBState) ProtoMessage()    {}

// PBDrive sets the target voltage.
type PBDrive struct {
	Voltage float64 `protobuf:"fixed64,1,opt,name=voltage,proto3" json:"voltage,omitempty"`
	Dv      float64 `protobuf:"fixed64,2,opt,name=dv,proto3" json:"dv,omitempty"`
}

func (m *PBDrive) Reset()         { *m = PBDrive{} }
func (m *PBDrive) String() string { return proto.CompactTextString(m) }
func (*PBDrive) ProtoMessage()    {}

// PBReset resynchronizes with the device.
type PBReset struct {
	AllowPowerUp bool `protobuf:"varint,1,opt,name=allow_power_up,json=allowPowerUp,proto3" json:"allow_power_up,omitempty"`
}

func (m *PBReset) Reset()         { *m = PBReset{} }
func (m *PBReset) String() string { return proto.CompactTextString(m) }
func (*PBReset) ProtoMessage()    {}

// PBCommandErr reports a failed command.
type PBCommandErr struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *PBCommandErr) Reset()         { *m = PBCommandErr{} }
func (m *PBCommandErr) String() string { return proto.CompactTextString(m) }
func (*PBCommandErr) ProtoMessage()    {}
