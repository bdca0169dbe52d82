// Package firmware is the control loop of the motor driver.
//
// Core owns the command byte, the error state and the elapsed time of the
// last cycle. The encoder counters belong to the quadrature decoder and
// the millisecond counter to the timer interrupt; Core only reads them,
// resetting the millisecond counter at the end of each cycle.
package firmware

import (
	"context"

	"github.com/golang/glog"

	"github.com/robotalks/steerbox/pkg/l0/clock"
	"github.com/robotalks/steerbox/pkg/l0/comm"
	"github.com/robotalks/steerbox/pkg/l0/irq"
	"github.com/robotalks/steerbox/pkg/l0/quadrature"
)

// Timing of a protocol cycle, in milliseconds.
const (
	Cadence        = 20
	CommandTimeout = 50
)

// Core implements the control loop.
type Core struct {
	IRQ       *irq.Controller
	Decoder   *quadrature.Decoder
	Clock     *clock.Millis
	Transport comm.Transport
	Motor     Motor
	// Yield is called by every polling loop, runtime.Gosched if nil.
	Yield clock.Yield

	state   comm.ErrorState
	cmd     comm.Command
	elapsed byte
}

// NewCore creates a Core in the power-on state.
func NewCore(transport comm.Transport, motor Motor) *Core {
	return &Core{
		IRQ:       &irq.Controller{},
		Decoder:   quadrature.NewDecoder(),
		Clock:     &clock.Millis{},
		Transport: transport,
		Motor:     motor,
		state:     comm.ErrorPoweredOn,
	}
}

// Name implements Named.
func (c *Core) Name() string {
	return "firmware"
}

// EdgeHandler builds the encoder interrupt handler. lines samples the
// encoder lines when the interrupt is serviced.
func (c *Core) EdgeHandler(lines func() quadrature.Sample) irq.Handler {
	return func() {
		c.Decoder.Edge(lines())
	}
}

// TickHandler is the timer interrupt handler.
func (c *Core) TickHandler() irq.Handler {
	return c.Clock.Tick
}

// ErrorState returns the current error state.
// It's only consistent when the loop is not running.
func (c *Core) ErrorState() comm.ErrorState {
	return c.state
}

// Run implements Runnable. It returns only when ctx is canceled or the
// transport fails.
func (c *Core) Run(ctx context.Context) error {
	for {
		c.IRQ.Disable()
		reading := c.Decoder.Snapshot()
		c.IRQ.Enable()

		c.apply()
		if c.cmd.IsAck() {
			c.setState(comm.ErrorNone)
		}
		if err := c.transmit(reading); err != nil {
			return err
		}
		if err := c.await(ctx); err != nil {
			return err
		}
	}
}

// apply drives the motor from the command received in the previous cycle.
func (c *Core) apply() {
	c.Motor.SetDirection(DirectionOf(byte(c.cmd)))
	if c.state == comm.ErrorNone {
		c.Motor.SetDutyCycle(c.cmd.DutyCycle())
	} else {
		c.Motor.SetDutyCycle(0)
	}
}

func (c *Core) transmit(r quadrature.Reading) error {
	pos := uint16(r.Position)
	for _, b := range [comm.FrameSize]byte{
		byte(pos),
		byte(pos >> 8),
		r.Errors,
		comm.StatusByte(c.state, c.elapsed),
	} {
		if err := c.Transport.WriteByte(b); err != nil {
			return err
		}
	}
	return nil
}

func (c *Core) await(ctx context.Context) error {
	for !c.Transport.ByteAvailable() {
		if c.Clock.Now() >= CommandTimeout {
			return c.timedOut(ctx)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		c.Yield.Do()
	}
	b, err := c.Transport.ReadByte()
	if err != nil {
		return err
	}
	c.cmd = comm.Command(b)
	c.elapsed = c.Clock.Now()
	if c.elapsed < Cadence {
		err = c.Clock.SpinUntil(ctx, Cadence, c.Yield)
	} else {
		err = c.Clock.SpinChange(ctx, c.Yield)
	}
	if err != nil {
		return err
	}
	c.Clock.Reset()
	return nil
}

// timedOut handles a command timeout. The next byte only restores framing
// and is never applied.
func (c *Core) timedOut(ctx context.Context) error {
	if c.state == comm.ErrorNone {
		c.setState(comm.ErrorCommandTimeout)
	}
	c.elapsed = comm.ElapsedTimeout
	c.Motor.SetDutyCycle(0)
	for !c.Transport.ByteAvailable() {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.Yield.Do()
	}
	if _, err := c.Transport.ReadByte(); err != nil {
		return err
	}
	c.cmd = comm.CommandStop
	if err := c.Clock.SpinChange(ctx, c.Yield); err != nil {
		return err
	}
	c.Clock.Reset()
	return nil
}

func (c *Core) setState(s comm.ErrorState) {
	if c.state != s {
		glog.V(1).Infof("error state %s -> %s", c.state, s)
		c.state = s
	}
}
