package wheel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/steerbox/pkg/l0/firmware"
	"github.com/robotalks/steerbox/pkg/l0/irq"
	"github.com/robotalks/steerbox/pkg/l0/quadrature"
)

func newTestWheel(dropRate float64) (*Wheel, *quadrature.Decoder) {
	conf := DefaultConfig
	conf.DropRate = dropRate
	w := New(conf)
	dec := quadrature.NewDecoder()
	w.IRQ = &irq.Controller{}
	w.Edge = func() { dec.Edge(w.Lines()) }
	return w, dec
}

func run(w *Wheel, d time.Duration) {
	for t := time.Duration(0); t < d; t += w.Step {
		w.Advance(w.Step)
	}
}

func TestSampleAt(t *testing.T) {
	require.Equal(t, quadrature.Sample(0), SampleAt(0))
	require.Equal(t, quadrature.LineB, SampleAt(1))
	require.Equal(t, quadrature.LineA|quadrature.LineB, SampleAt(2))
	require.Equal(t, quadrature.LineA, SampleAt(3))
	require.Equal(t, quadrature.Sample(0), SampleAt(4))
	require.Equal(t, quadrature.LineA, SampleAt(-1))
}

func TestStopped(t *testing.T) {
	w, dec := newTestWheel(0)
	run(w, 100*time.Millisecond)
	require.Equal(t, State{}, w.State())
	require.Equal(t, quadrature.Reading{}, dec.Snapshot())
}

func TestDirection(t *testing.T) {
	testCases := []struct {
		name string
		dir  firmware.Direction
	}{
		{"forward", firmware.Forward},
		{"reverse", firmware.Reverse},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, dec := newTestWheel(0)
			w.SetDirection(tc.dir)
			w.SetDutyCycle(254)
			run(w, 200*time.Millisecond)
			state := w.State()
			if tc.dir == firmware.Forward {
				require.True(t, state.Count > 0)
				require.True(t, state.Speed > 0)
			} else {
				require.True(t, state.Count < 0)
				require.True(t, state.Speed < 0)
			}
			require.True(t, state.Speed <= w.MaxSpeed && state.Speed >= -w.MaxSpeed)
			reading := dec.Snapshot()
			require.Zero(t, reading.Errors)
			expect := int16(state.Count)
			if quadrature.Coarse {
				expect = int16(state.Count / 4)
			}
			require.Equal(t, expect, reading.Position)
		})
	}
}

func TestSlowsDown(t *testing.T) {
	w, _ := newTestWheel(0)
	w.SetDutyCycle(254)
	run(w, time.Second)
	full := w.State().Speed
	require.InDelta(t, w.MaxSpeed*254/255, full, 0.01)
	w.SetDutyCycle(0)
	run(w, time.Second)
	require.InDelta(t, 0, w.State().Speed, 0.01)
}

func TestDroppedEdges(t *testing.T) {
	w, dec := newTestWheel(0.2)
	w.SetDutyCycle(254)
	run(w, 50*time.Millisecond)
	state := w.State()
	require.True(t, state.Dropped > 0)
	reading := dec.Snapshot()
	require.True(t, reading.Errors > 0)
	require.True(t, int(reading.Errors) <= state.Dropped)
}
