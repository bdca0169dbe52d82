// Package steerbox is the host side driver of the motor driver.
//
// The device sends a frame and waits for one command byte, in lock step.
// A Box keeps exactly one frame in flight: each Interact reads the frame
// answering the previous command and sends the next one.
package steerbox

import (
	"context"
	"io"
	"math"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/steerbox/pkg/framework"
	"github.com/robotalks/steerbox/pkg/l0/comm"
	"github.com/robotalks/steerbox/pkg/l0/firmware"
)

// Reading is the result of one interaction.
type Reading struct {
	Response comm.Response
	// Position is in revolutions.
	Position float64
	// Voltage is the normalized voltage sent.
	Voltage float64
}

// Box drives a device over a byte link.
// It's not safe for concurrent use.
type Box struct {
	Config
	Client *comm.Client

	voltage float64
	ready   bool
	last    Reading
}

// New creates a Box.
func New(rw io.ReadWriter, conf Config) *Box {
	return &Box{Config: conf, Client: comm.NewClient(rw)}
}

// Reset resynchronizes with the device and acknowledges its error state.
// If allowPowerUp is false, ErrPoweredOn is returned when the device
// reports it has just powered up.
func (b *Box) Reset(allowPowerUp bool) error {
	b.ready = false
	// stop a few times and let the device time out.
	if err := b.Client.Send(comm.CommandStop, comm.CommandStop, comm.CommandStop, comm.CommandStop); err != nil {
		return err
	}
	time.Sleep(b.ResetSettle)
	if err := b.Client.Flush(); err != nil {
		return err
	}
	if err := b.Client.Send(comm.CommandStop, comm.CommandStop); err != nil {
		return err
	}
	resp, err := b.Client.ReadResponse()
	if err != nil {
		return err
	}
	glog.V(1).Infof("reset: %s", resp)
	if resp.ErrorState() == comm.ErrorPoweredOn && !allowPowerUp {
		return ErrPoweredOn
	}
	if err = b.Client.Send(comm.CommandAck, comm.CommandStop); err != nil {
		return err
	}
	if _, err = b.Client.ReadResponse(); err != nil {
		return err
	}
	b.voltage, b.ready = 0, true
	return nil
}

// Interact reads the current position, then sends a voltage.
// voltage is clamped to [-1, 1], and the applied voltage moves toward it
// by at most dv if dv > 0.
// On error, a Reset is required before the next Interact.
func (b *Box) Interact(voltage, dv float64) (Reading, error) {
	if !b.ready {
		return Reading{}, ErrNotReset
	}
	resp, err := b.Client.ReadResponse()
	if err != nil {
		b.ready = false
		return Reading{}, err
	}
	if err = b.validate(resp); err != nil {
		b.ready = false
		return Reading{Response: resp}, err
	}
	r := Reading{Response: resp, Position: float64(resp.Position) / float64(b.CountsPerRev)}
	if math.Abs(r.Position) > b.PositionLimit {
		b.ready = false
		if err := b.Stop(); err != nil {
			glog.Warningf("stop error: %v", err)
		}
		return r, ErrPositionRange
	}

	voltage = math.Max(-1, math.Min(1, voltage))
	if dv > 0 {
		if b.voltage < voltage {
			b.voltage += math.Min(dv, voltage-b.voltage)
		} else {
			b.voltage -= math.Min(dv, b.voltage-voltage)
		}
	} else {
		b.voltage = voltage
	}
	r.Voltage = b.voltage
	if err = b.Client.Send(comm.CommandFromVoltage(b.voltage)); err != nil {
		b.ready = false
		return r, err
	}
	glog.V(2).Infof("interact: %s -> %.3f", resp, r.Voltage)
	b.last = r
	return r, nil
}

func (b *Box) validate(resp comm.Response) error {
	switch {
	case resp.Status == comm.StatusByte(comm.ErrorPoweredOn, 0):
		return ErrPoweredOn
	case resp.Status == comm.StatusByte(comm.ErrorCommandTimeout, 0):
		return ErrCommandTimeout
	case resp.Status&comm.StatusErrorFlag != 0:
		return &StatusError{Code: resp.Status &^ comm.StatusErrorFlag}
	case resp.EncoderErrors > b.ErrorTolerance:
		return ErrMisstep
	case resp.Status >= firmware.Cadence:
		return &BehindError{Millis: resp.Status}
	}
	return nil
}

// MoveTo drives toward goal (in revolutions) at speed until the position
// is within tolerance, then stops.
func (b *Box) MoveTo(ctx context.Context, goal, speed, dv, tolerance float64) (Reading, error) {
	r, err := b.Interact(0, dv)
	for err == nil {
		var voltage float64
		switch {
		case r.Position > goal+tolerance:
			voltage = -math.Abs(speed)
		case r.Position < goal-tolerance:
			voltage = math.Abs(speed)
		default:
			return b.Interact(0, 0)
		}
		if err = ctx.Err(); err == nil {
			r, err = b.Interact(voltage, dv)
		}
	}
	return r, err
}

// Stop sends a few stop commands regardless of the state.
func (b *Box) Stop() error {
	return b.Client.Send(comm.CommandStop, comm.CommandStop, comm.CommandStop, comm.CommandStop)
}

// Ready indicates Interact can be called.
func (b *Box) Ready() bool {
	return b.ready
}

// Last returns the last successful Reading.
func (b *Box) Last() Reading {
	return b.last
}

// Close stops the motor and closes the link.
func (b *Box) Close() error {
	var errs framework.AggregatedError
	errs.Add(b.Stop())
	b.ready = false
	return errs.Add(b.Client.Close()).Aggregate()
}
