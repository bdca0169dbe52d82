// Package clock provides the free running millisecond counter of the
// device.
package clock

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/robotalks/steerbox/pkg/l0/irq"
)

// DefaultPeriod is the tick period of the hardware timer.
const DefaultPeriod = time.Millisecond

// Millis is an 8-bit tick counter. It is incremented by the timer
// interrupt and read or reset by the main loop without masking
// interrupts; readers tolerate being one tick stale.
type Millis struct {
	ticks uint32
}

// Tick is the timer interrupt body.
func (m *Millis) Tick() {
	atomic.AddUint32(&m.ticks, 1)
}

// Now returns the counter value.
func (m *Millis) Now() uint8 {
	return uint8(atomic.LoadUint32(&m.ticks))
}

// Reset sets the counter to 0.
func (m *Millis) Reset() {
	atomic.StoreUint32(&m.ticks, 0)
}

// Yield is called by the spin loops between polls.
// runtime.Gosched is used when nil.
type Yield func()

// Do calls y or runtime.Gosched.
func (y Yield) Do() {
	if y != nil {
		y()
	} else {
		runtime.Gosched()
	}
}

// SpinUntil busy-waits until the counter reaches target.
// The counter must not already be past target.
func (m *Millis) SpinUntil(ctx context.Context, target uint8, yield Yield) error {
	for m.Now() < target {
		if err := ctx.Err(); err != nil {
			return err
		}
		yield.Do()
	}
	return nil
}

// SpinChange busy-waits until the counter changes value at least once.
func (m *Millis) SpinChange(ctx context.Context, yield Yield) error {
	for start := m.Now(); m.Now() == start; {
		if err := ctx.Err(); err != nil {
			return err
		}
		yield.Do()
	}
	return nil
}

// Ticker raises the timer interrupt periodically.
type Ticker struct {
	Clock  *Millis
	IRQ    *irq.Controller
	Period time.Duration
}

// NewTicker creates a Ticker with DefaultPeriod.
func NewTicker(m *Millis, ctl *irq.Controller) *Ticker {
	return &Ticker{Clock: m, IRQ: ctl, Period: DefaultPeriod}
}

// Name implements Named.
func (t *Ticker) Name() string {
	return "clock"
}

// Run implements Runnable.
func (t *Ticker) Run(ctx context.Context) error {
	period := t.Period
	if period <= 0 {
		period = DefaultPeriod
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	isr := irq.Handler(t.Clock.Tick)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			t.IRQ.Raise(isr)
		}
	}
}
