// Package rig assembles a simulated device: the firmware core driving a
// simulated wheel, with the timer interrupt ticking in real time.
package rig

import (
	"io"
	"time"

	"github.com/robotalks/steerbox/pkg/framework"
	"github.com/robotalks/steerbox/pkg/l0/clock"
	"github.com/robotalks/steerbox/pkg/l0/comm"
	"github.com/robotalks/steerbox/pkg/l0/firmware"
	"github.com/robotalks/steerbox/pkg/l0/link"
	"github.com/robotalks/steerbox/pkg/sim/wheel"
)

// SpinSleep is the pause of the firmware polling loops.
const SpinSleep = 50 * time.Microsecond

// Rig is a simulated device.
type Rig struct {
	Core      *firmware.Core
	Wheel     *wheel.Wheel
	Ticker    *clock.Ticker
	Transport *comm.StreamTransport
}

// New creates a Rig talking over rw.
func New(rw io.ReadWriter, conf wheel.Config) *Rig {
	tr := comm.NewStreamTransport(rw)
	w := wheel.New(conf)
	core := firmware.NewCore(tr, w)
	core.Yield = func() { time.Sleep(SpinSleep) }
	w.IRQ = core.IRQ
	w.Edge = core.EdgeHandler(w.Lines)
	return &Rig{
		Core:      core,
		Wheel:     w,
		Ticker:    clock.NewTicker(core.Clock, core.IRQ),
		Transport: tr,
	}
}

// AddToRunner starts the Rig.
func (r *Rig) AddToRunner(runner *framework.Runner) {
	runner.Go(r.Transport)
	runner.Go(r.Ticker)
	runner.Go(r.Wheel)
	runner.Go(r.Core)
}

// Loopback starts a Rig on runner behind an in-process link and returns
// the host end of the link.
func Loopback(runner *framework.Runner, conf wheel.Config) io.ReadWriteCloser {
	host, device := link.Loopback()
	New(device, conf).AddToRunner(runner)
	return host
}
