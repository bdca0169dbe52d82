package steerbox

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/steerbox/pkg/framework"
	"github.com/robotalks/steerbox/pkg/l0/comm"
)

// fakeDevice answers every command byte with a frame, either from a
// script or computed by respond. Reads return no data once drained, like
// a serial port whose read timeout expired.
type fakeDevice struct {
	frames  []comm.Response
	respond func(comm.Command) comm.Response
	out     bytes.Buffer
	cmds    []comm.Command
	flushes int
	failure error
}

func (d *fakeDevice) Write(p []byte) (int, error) {
	if d.failure != nil {
		return 0, d.failure
	}
	for _, b := range p {
		cmd := comm.Command(b)
		d.cmds = append(d.cmds, cmd)
		if d.respond != nil {
			d.out.Write(d.respond(cmd).Bytes())
		} else if len(d.frames) > 0 {
			d.out.Write(d.frames[0].Bytes())
			d.frames = d.frames[1:]
		}
	}
	return len(p), nil
}

func (d *fakeDevice) Read(p []byte) (int, error) {
	if d.out.Len() == 0 {
		return 0, nil
	}
	return d.out.Read(p)
}

func (d *fakeDevice) ResetInputBuffer() error {
	d.flushes++
	d.out.Reset()
	return nil
}

var (
	timedOut = comm.Response{Status: 0x82}
	poweredOn = comm.Response{Status: 0x81}
)

// resetFrames is what a device answers to a Reset: four frames flushed,
// two read during the handshake, then the frames following the ack.
func resetFrames(status comm.Response, after ...comm.Response) []comm.Response {
	frames := []comm.Response{timedOut, timedOut, timedOut, timedOut, status, timedOut}
	return append(frames, after...)
}

func testConfig() Config {
	conf := DefaultConfig
	conf.ResetSettle = 0
	return conf
}

func newTestBox(dev *fakeDevice) *Box {
	return New(dev, testConfig())
}

func TestReset(t *testing.T) {
	dev := &fakeDevice{frames: resetFrames(timedOut, comm.Response{Position: 2802, Status: 3})}
	box := newTestBox(dev)
	require.False(t, box.Ready())
	require.NoError(t, box.Reset(false))
	require.True(t, box.Ready())
	require.Equal(t, 1, dev.flushes)
	require.Equal(t, []comm.Command{0, 0, 0, 0, 0, 0, comm.CommandAck, 0}, dev.cmds)

	r, err := box.Interact(0.5, 0)
	require.NoError(t, err)
	require.InDelta(t, 0.25, r.Position, 1e-9)
	require.InDelta(t, 0.5, r.Voltage, 1e-9)
	require.Equal(t, comm.Command(63), dev.cmds[len(dev.cmds)-1])
	require.Equal(t, r, box.Last())
}

func TestResetPowerUp(t *testing.T) {
	box := newTestBox(&fakeDevice{frames: resetFrames(poweredOn)})
	require.Equal(t, ErrPoweredOn, box.Reset(false))
	require.False(t, box.Ready())

	box = newTestBox(&fakeDevice{frames: resetFrames(poweredOn)})
	require.NoError(t, box.Reset(true))
	require.True(t, box.Ready())
}

func TestResetNoDevice(t *testing.T) {
	box := newTestBox(&fakeDevice{})
	require.Equal(t, comm.ErrReadTimeout, box.Reset(true))
	_, err := box.Interact(0, 0)
	require.Equal(t, ErrNotReset, err)
}

func TestInteractValidation(t *testing.T) {
	testCases := []struct {
		name string
		resp comm.Response
		err  error
	}{
		{"ok", comm.Response{Position: -100, Status: 19}, nil},
		{"one encoder error", comm.Response{EncoderErrors: 1, Status: 5}, nil},
		{"powered on", comm.Response{Status: 0x81}, ErrPoweredOn},
		{"command timeout", comm.Response{Status: 0x82}, ErrCommandTimeout},
		{"unknown error", comm.Response{Status: 0x85}, &StatusError{Code: 5}},
		{"misstep", comm.Response{EncoderErrors: 2, Status: 5}, ErrMisstep},
		{"behind", comm.Response{Status: 20}, &BehindError{Millis: 20}},
		{"too far forward", comm.Response{Position: 12400, Status: 5}, ErrPositionRange},
		{"too far backward", comm.Response{Position: -12400, Status: 5}, ErrPositionRange},
		{"no frame", comm.Response{}, comm.ErrReadTimeout},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			frames := resetFrames(timedOut)
			if tc.err != comm.ErrReadTimeout {
				frames = append(frames, tc.resp)
			}
			dev := &fakeDevice{frames: frames}
			box := newTestBox(dev)
			require.NoError(t, box.Reset(false))
			sent := len(dev.cmds)
			r, err := box.Interact(0.2, 0)
			require.Equal(t, tc.err, err)
			if err != nil {
				require.False(t, box.Ready())
				_, err = box.Interact(0, 0)
				require.Equal(t, ErrNotReset, err)
			}
			switch tc.err {
			case nil:
				require.Equal(t, tc.resp, r.Response)
				require.Equal(t, []comm.Command{25}, dev.cmds[sent:])
			case ErrPositionRange:
				require.Equal(t, []comm.Command{0, 0, 0, 0}, dev.cmds[sent:])
			default:
				require.Empty(t, dev.cmds[sent:])
			}
		})
	}
}

func TestInteractSlew(t *testing.T) {
	dev := &fakeDevice{respond: func(comm.Command) comm.Response {
		return comm.Response{Status: 10}
	}}
	box := newTestBox(dev)
	require.NoError(t, box.Reset(false))

	var voltages []float64
	for i := 0; i < 3; i++ {
		r, err := box.Interact(1, 0.1)
		require.NoError(t, err)
		voltages = append(voltages, r.Voltage)
	}
	require.InDeltaSlice(t, []float64{0.1, 0.2, 0.3}, voltages, 1e-9)
	require.Equal(t, []comm.Command{12, 25, 38}, dev.cmds[len(dev.cmds)-3:])

	r, err := box.Interact(-0.25, 0.1)
	require.NoError(t, err)
	require.InDelta(t, 0.2, r.Voltage, 1e-9)

	r, err = box.Interact(-5, 0)
	require.NoError(t, err)
	require.InDelta(t, -1, r.Voltage, 1e-9)
	require.Equal(t, comm.Command(0xff), dev.cmds[len(dev.cmds)-1])
}

func TestMoveTo(t *testing.T) {
	var position int16
	dev := &fakeDevice{respond: func(cmd comm.Command) comm.Response {
		position += int16(cmd.Voltage() * 400)
		return comm.Response{Position: position, Status: 10}
	}}
	box := newTestBox(dev)
	require.NoError(t, box.Reset(false))
	sent := len(dev.cmds)

	r, err := box.MoveTo(context.Background(), 0.5, 0.7, 0, 0.1)
	require.NoError(t, err)
	require.InDelta(t, 0.5, r.Position, 0.15)
	require.Zero(t, r.Voltage)
	require.Equal(t, comm.CommandStop, dev.cmds[len(dev.cmds)-1])
	for _, cmd := range dev.cmds[sent:] {
		require.False(t, cmd.IsReverse())
	}
}

func TestCloseStopError(t *testing.T) {
	errLinkDown := errors.New("link down")
	box := newTestBox(&fakeDevice{failure: errLinkDown})
	err := box.Close()
	require.IsType(t, &framework.AggregatedError{}, err)
	require.Equal(t, []error{errLinkDown}, err.(*framework.AggregatedError).Errors)
	require.False(t, box.Ready())

	require.NoError(t, newTestBox(&fakeDevice{}).Close())
}

func TestMoveToCanceled(t *testing.T) {
	dev := &fakeDevice{respond: func(comm.Command) comm.Response {
		return comm.Response{Status: 10}
	}}
	box := newTestBox(dev)
	require.NoError(t, box.Reset(false))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := box.MoveTo(ctx, 1, 0.5, 0, 0.1)
	require.Equal(t, context.Canceled, err)
}
