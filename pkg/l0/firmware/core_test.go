package firmware

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/steerbox/pkg/l0/comm"
	"github.com/robotalks/steerbox/pkg/l0/quadrature"
)

var errScriptDone = errors.New("script done")

// hostStep is a command sent delay ticks after a full frame is received.
type hostStep struct {
	delay int
	cmd   comm.Command
}

// scriptedHost is the Transport and the Motor of a Core under test.
// Time only advances when the Core yields, one tick per yield.
type scriptedHost struct {
	core      *Core
	maxFrames int
	steps     []hostStep
	edges     []quadrature.Sample
	lines     quadrature.Sample

	ticks   int
	buf     []byte
	pending *hostStep
	readyAt int

	events    []string
	responses []comm.Response
	sentAt    []int
}

func newScriptedHost(maxFrames int, steps ...hostStep) *scriptedHost {
	h := &scriptedHost{maxFrames: maxFrames, steps: steps}
	h.core = NewCore(h, h)
	h.core.Yield = h.tick
	return h
}

func (h *scriptedHost) run(t *testing.T) {
	require.Equal(t, errScriptDone, h.core.Run(context.Background()))
}

func (h *scriptedHost) tick() {
	h.ticks++
	if h.ticks > 100000 {
		panic("script exhausted")
	}
	h.core.IRQ.Raise(h.core.TickHandler())
	if len(h.edges) > 0 {
		h.lines, h.edges = h.edges[0], h.edges[1:]
		h.core.IRQ.Raise(h.core.EdgeHandler(h.sample))
	}
}

func (h *scriptedHost) sample() quadrature.Sample {
	return h.lines
}

func (h *scriptedHost) WriteByte(b byte) error {
	if len(h.buf) == 0 {
		if len(h.responses) >= h.maxFrames {
			return errScriptDone
		}
		h.sentAt = append(h.sentAt, h.ticks)
	}
	h.buf = append(h.buf, b)
	if len(h.buf) < comm.FrameSize {
		return nil
	}
	resp, err := comm.ParseResponse(h.buf)
	if err != nil {
		return err
	}
	h.buf = nil
	h.responses = append(h.responses, resp)
	h.events = append(h.events, fmt.Sprintf("tx 0x%02x", resp.Status))
	if len(h.steps) > 0 {
		step := h.steps[0]
		h.steps = h.steps[1:]
		h.pending, h.readyAt = &step, h.ticks+step.delay
	}
	return nil
}

func (h *scriptedHost) ByteAvailable() bool {
	return h.pending != nil && h.ticks >= h.readyAt
}

func (h *scriptedHost) ReadByte() (byte, error) {
	if !h.ByteAvailable() {
		return 0, comm.ErrNoData
	}
	b := byte(h.pending.cmd)
	h.pending = nil
	h.events = append(h.events, fmt.Sprintf("rx 0x%02x", b))
	return b, nil
}

func (h *scriptedHost) SetDirection(d Direction) {
	h.events = append(h.events, "dir "+d.String())
}

func (h *scriptedHost) SetDutyCycle(duty uint8) {
	h.events = append(h.events, fmt.Sprintf("duty %d", duty))
}

func TestPowerOnAcknowledge(t *testing.T) {
	h := newScriptedHost(3,
		hostStep{0, comm.CommandAck},
		hostStep{3, comm.CommandStop},
		hostStep{0, comm.CommandStop})
	require.Equal(t, comm.ErrorPoweredOn, h.core.ErrorState())
	h.run(t)
	require.Equal(t, []string{
		"dir forward", "duty 0", "tx 0x81", "rx 0x80",
		"dir reverse", "duty 0", "tx 0x00", "rx 0x00",
		"dir forward", "duty 0", "tx 0x03", "rx 0x00",
		"dir forward", "duty 0",
	}, h.events)
	require.Equal(t, comm.ErrorNone, h.core.ErrorState())
}

func TestCommandIgnoredWhileError(t *testing.T) {
	h := newScriptedHost(4,
		hostStep{0, 0x50},
		hostStep{0, 0xff},
		hostStep{0, comm.CommandAck},
		hostStep{0, 0x50})
	h.run(t)
	require.Equal(t, []string{
		"dir forward", "duty 0", "tx 0x81", "rx 0x50",
		"dir forward", "duty 0", "tx 0x81", "rx 0xff",
		"dir reverse", "duty 0", "tx 0x81", "rx 0x80",
		"dir reverse", "duty 0", "tx 0x00", "rx 0x50",
		"dir forward", "duty 160",
	}, h.events)
}

func TestCommandTimeout(t *testing.T) {
	h := newScriptedHost(6,
		hostStep{0, comm.CommandAck},
		hostStep{5, 0x50},
		hostStep{60, 0xff},
		hostStep{2, 0x50},
		hostStep{2, comm.CommandAck},
		hostStep{2, 0x50})
	h.run(t)
	require.Equal(t, []string{
		"dir forward", "duty 0", "tx 0x81", "rx 0x80",
		"dir reverse", "duty 0", "tx 0x00", "rx 0x50",
		"dir forward", "duty 160", "tx 0x05",
		// output is stopped before the late byte arrives, which is discarded
		"duty 0", "rx 0xff",
		"dir forward", "duty 0", "tx 0x82", "rx 0x50",
		"dir forward", "duty 0", "tx 0x82", "rx 0x80",
		"dir reverse", "duty 0", "tx 0x02", "rx 0x50",
		"dir forward", "duty 160",
	}, h.events)
	// the timeout fires 50 ticks after the frame was sent, the late byte
	// is received at 60 and the cycle ends one tick later.
	require.Equal(t, h.sentAt[2]+61, h.sentAt[3])
	require.Equal(t, comm.ErrorNone, h.core.ErrorState())
}

func TestTimeoutKeepsPowerOnError(t *testing.T) {
	h := newScriptedHost(3,
		hostStep{60, 0xd0},
		hostStep{0, 0x50},
		hostStep{0, 0x50})
	h.run(t)
	require.Equal(t, []string{
		"dir forward", "duty 0", "tx 0x81",
		"duty 0", "rx 0xd0",
		// the late reverse command is replaced by a stop
		"dir forward", "duty 0", "tx 0x81", "rx 0x50",
		"dir forward", "duty 0", "tx 0x81", "rx 0x50",
		"dir forward", "duty 0",
	}, h.events)
	require.Equal(t, comm.ErrorPoweredOn, h.core.ErrorState())
}

func TestCadence(t *testing.T) {
	delays := []int{0, 5, 19, 20, 25, 3, 0}
	steps := make([]hostStep, len(delays))
	for n, d := range delays {
		steps[n] = hostStep{d, comm.CommandStop}
	}
	steps[0].cmd = comm.CommandAck
	h := newScriptedHost(len(delays), steps...)
	h.run(t)

	require.Len(t, h.sentAt, len(delays))
	var intervals []int
	for n := 1; n < len(h.sentAt); n++ {
		require.True(t, h.sentAt[n]-h.sentAt[n-1] >= Cadence)
		intervals = append(intervals, h.sentAt[n]-h.sentAt[n-1])
	}
	require.Equal(t, []int{20, 20, 20, 21, 26, 20}, intervals)

	var statuses []byte
	for _, resp := range h.responses {
		statuses = append(statuses, resp.Status)
	}
	require.Equal(t, []byte{0x81, 0, 5, 19, 20, 25, 3}, statuses)
}

func TestPositionReport(t *testing.T) {
	h := newScriptedHost(3,
		hostStep{0, comm.CommandAck},
		hostStep{0, comm.CommandStop},
		hostStep{0, comm.CommandStop})
	// one forward cycle, then a jump across two states
	h.edges = []quadrature.Sample{
		quadrature.LineB,
		quadrature.LineB | quadrature.LineA,
		quadrature.LineA,
		0,
		quadrature.LineB | quadrature.LineA,
	}
	h.run(t)
	require.Len(t, h.responses, 3)

	forward := int16(4)
	if quadrature.Coarse {
		forward = 1
	}
	require.Equal(t, comm.Response{Status: 0x81}, h.responses[0])
	require.Equal(t, forward, h.responses[1].Position)
	require.Equal(t, uint8(1), h.responses[1].EncoderErrors)
	require.Equal(t, h.responses[1].Position, h.responses[2].Position)
	require.Equal(t, uint8(1), h.responses[2].EncoderErrors)
}

func TestRunCanceled(t *testing.T) {
	h := newScriptedHost(10)
	ctx, cancel := context.WithCancel(context.Background())
	h.core.Yield = func() {
		h.tick()
		if h.ticks == 10 {
			cancel()
		}
	}
	require.Equal(t, context.Canceled, h.core.Run(ctx))
	require.Len(t, h.responses, 1)
}

func TestDirectionOf(t *testing.T) {
	require.Equal(t, Forward, DirectionOf(0x7f))
	require.Equal(t, Reverse, DirectionOf(0x80))
	require.Equal(t, Reverse, DirectionOf(0xff))
	require.Equal(t, Forward, DirectionOf(0))
}
