// Package wheel simulates a DC motor turning a wheel with a quadrature
// encoder attached.
package wheel

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robotalks/steerbox/pkg/l0/firmware"
	"github.com/robotalks/steerbox/pkg/l0/irq"
	"github.com/robotalks/steerbox/pkg/l0/quadrature"
	"github.com/robotalks/steerbox/pkg/sim"
)

// graySequence is the line levels of one positive cycle, indexed by
// count modulo 4.
var graySequence = [4]quadrature.Sample{
	0,
	quadrature.LineB,
	quadrature.LineB | quadrature.LineA,
	quadrature.LineA,
}

// SampleAt returns the line levels at a count.
func SampleAt(count int64) quadrature.Sample {
	return graySequence[count&3]
}

// State is a snapshot of the wheel.
type State struct {
	Position sim.Revolutions
	Speed    float64
	Count    int64
	Dropped  int
}

// Wheel implements firmware.Motor.
//
// Every count crossed changes the encoder lines and raises Edge on IRQ,
// unless the edge is dropped.
type Wheel struct {
	Config
	IRQ  *irq.Controller
	Edge irq.Handler

	lines uint32

	lock     sync.Mutex
	dir      firmware.Direction
	duty     uint8
	speed    float64
	position sim.Revolutions
	count    int64
	dropped  int
	rnd      *rand.Rand
}

// New creates a Wheel.
func New(conf Config) *Wheel {
	return &Wheel{
		Config: conf,
		rnd:    rand.New(rand.NewSource(conf.Seed)),
	}
}

// Name implements Named.
func (w *Wheel) Name() string {
	return "wheel"
}

// SetDirection implements firmware.Motor.
func (w *Wheel) SetDirection(d firmware.Direction) {
	w.lock.Lock()
	w.dir = d
	w.lock.Unlock()
}

// SetDutyCycle implements firmware.Motor.
func (w *Wheel) SetDutyCycle(duty uint8) {
	w.lock.Lock()
	w.duty = duty
	w.lock.Unlock()
}

// Lines samples the encoder lines, used by the edge interrupt.
func (w *Wheel) Lines() quadrature.Sample {
	return quadrature.Sample(atomic.LoadUint32(&w.lines))
}

// State returns the current state.
func (w *Wheel) State() State {
	w.lock.Lock()
	defer w.lock.Unlock()
	return State{Position: w.position, Speed: w.speed, Count: w.count, Dropped: w.dropped}
}

// Advance integrates the model for dt and emits the encoder edges.
func (w *Wheel) Advance(dt time.Duration) {
	w.lock.Lock()
	target := float64(w.duty) / math.MaxUint8 * w.MaxSpeed
	if w.dir == firmware.Reverse {
		target = -target
	}
	k := 1.0
	if w.TimeConstant > 0 {
		k = math.Min(1, dt.Seconds()/w.TimeConstant.Seconds())
	}
	w.speed += (target - w.speed) * k
	w.position += sim.Revolutions(w.speed * dt.Seconds())
	from, to := w.count, w.position.Counts(w.CountsPerRev)
	w.count = to
	w.lock.Unlock()

	step := int64(1)
	if to < from {
		step = -1
	}
	for c := from; c != to; {
		c += step
		atomic.StoreUint32(&w.lines, uint32(SampleAt(c)))
		if w.drop() {
			continue
		}
		if w.IRQ != nil && w.Edge != nil {
			w.IRQ.Raise(w.Edge)
		}
	}
}

func (w *Wheel) drop() bool {
	if w.DropRate <= 0 {
		return false
	}
	w.lock.Lock()
	defer w.lock.Unlock()
	if w.rnd.Float64() >= w.DropRate {
		return false
	}
	w.dropped++
	return true
}

// Run implements Runnable.
func (w *Wheel) Run(ctx context.Context) error {
	period := w.Step
	if period <= 0 {
		period = DefaultConfig.Step
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			w.Advance(now.Sub(last))
			last = now
		}
	}
}
