package steerbox

import (
	"context"
	"errors"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/steerbox/pkg/l1"
	"github.com/robotalks/steerbox/pkg/l1/msgs"
)

var (
	// ErrUnsupportedCommand indicates the command is not for a Driver.
	ErrUnsupportedCommand = errors.New("unsupported command")
	// ErrBusy indicates too many commands are queued.
	ErrBusy = errors.New("driver busy")
)

// DefaultPublishEvery is the number of interactions per published State.
const DefaultPublishEvery = 5

// Driver keeps interacting with a Box toward the last Drive target.
// After an error the motor stays stopped until a Reset command.
type Driver struct {
	Box       *Box
	Publisher l1.Publisher
	// AllowPowerUp applies to the Reset done on start.
	AllowPowerUp bool
	PublishEvery int

	cmdCh   chan msgs.Message
	voltage float64
	dv      float64
	count   int
}

// NewDriver creates a Driver.
func NewDriver(box *Box) *Driver {
	return &Driver{
		Box:          box,
		AllowPowerUp: true,
		PublishEvery: DefaultPublishEvery,
		cmdCh:        make(chan msgs.Message, 16),
	}
}

// Name implements Named.
func (d *Driver) Name() string {
	return "driver"
}

// HandleCommand implements l1.CommandHandler.
func (d *Driver) HandleCommand(msg msgs.Message) error {
	switch msg.(type) {
	case *msgs.Drive, *msgs.Reset:
	default:
		return ErrUnsupportedCommand
	}
	select {
	case d.cmdCh <- msg:
		return nil
	default:
		return ErrBusy
	}
}

// Run implements Runnable.
func (d *Driver) Run(ctx context.Context) error {
	reset := &msgs.Reset{PBReset: msgs.PBReset{AllowPowerUp: d.AllowPowerUp}}
	for {
		if err := ctx.Err(); err != nil {
			if e := d.Box.Stop(); e != nil {
				glog.Warningf("stop error: %v", e)
			}
			return err
		}
		if d.Box.Ready() {
			if cmd := d.poll(); cmd != nil {
				reset = cmd
			}
		} else if reset == nil {
			select {
			case <-ctx.Done():
				continue
			case msg := <-d.cmdCh:
				reset = d.apply(msg)
			}
		}
		if reset != nil {
			d.voltage, d.count = 0, 0
			err := d.Box.Reset(reset.AllowPowerUp)
			reset = nil
			if err != nil {
				glog.Errorf("reset error: %v", err)
			} else {
				glog.Info("reset")
			}
			d.publish(d.Box.Last(), err)
			continue
		}
		r, err := d.Box.Interact(d.voltage, d.dv)
		if err != nil {
			glog.Errorf("interact error: %v", err)
			d.voltage = 0
		}
		d.publish(r, err)
	}
}

// poll applies queued commands without waiting.
func (d *Driver) poll() (reset *msgs.Reset) {
	for {
		select {
		case msg := <-d.cmdCh:
			if r := d.apply(msg); r != nil {
				reset = r
			}
		default:
			return
		}
	}
}

func (d *Driver) apply(msg msgs.Message) *msgs.Reset {
	switch m := msg.(type) {
	case *msgs.Drive:
		d.voltage, d.dv = m.Voltage, m.Dv
	case *msgs.Reset:
		return m
	}
	return nil
}

func (d *Driver) publish(r Reading, err error) {
	if d.Publisher == nil {
		return
	}
	d.count++
	if err == nil && d.PublishEvery > 1 && d.count%d.PublishEvery != 1 {
		return
	}
	state := &msgs.State{PBState: msgs.PBState{
		Counts:        int32(r.Response.Position),
		Position:      r.Position,
		EncoderErrors: uint32(r.Response.EncoderErrors),
		Status:        uint32(r.Response.Status),
		Voltage:       r.Voltage,
		Ready:         d.Box.Ready(),
		Timestamp:     time.Now().UnixNano() / int64(time.Millisecond),
	}}
	if err != nil {
		state.Error = err.Error()
	}
	if e := d.Publisher.Publish(state); e != nil {
		glog.Warningf("publish error: %v", e)
	}
}
