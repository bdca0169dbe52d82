package clock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/steerbox/pkg/l0/irq"
)

func TestMillisWraps(t *testing.T) {
	var m Millis
	for i := 0; i < 255; i++ {
		m.Tick()
	}
	require.Equal(t, uint8(255), m.Now())
	m.Tick()
	require.Equal(t, uint8(0), m.Now())
	m.Tick()
	require.Equal(t, uint8(1), m.Now())
	m.Reset()
	require.Equal(t, uint8(0), m.Now())
}

func TestSpinUntil(t *testing.T) {
	var m Millis
	var polls int
	err := m.SpinUntil(context.Background(), 20, func() {
		polls++
		m.Tick()
	})
	require.NoError(t, err)
	require.Equal(t, uint8(20), m.Now())
	require.Equal(t, 20, polls)

	polls = 0
	require.NoError(t, m.SpinUntil(context.Background(), 20, func() { polls++ }))
	require.Zero(t, polls)
}

func TestSpinChange(t *testing.T) {
	var m Millis
	m.Tick()
	var polls int
	err := m.SpinChange(context.Background(), func() {
		polls++
		if polls == 3 {
			m.Tick()
		}
	})
	require.NoError(t, err)
	require.Equal(t, 3, polls)
	require.Equal(t, uint8(2), m.Now())
}

func TestSpinCanceled(t *testing.T) {
	var m Millis
	ctx, cancel := context.WithCancel(context.Background())
	err := m.SpinChange(ctx, func() { cancel() })
	require.Equal(t, context.Canceled, err)
	err = m.SpinUntil(ctx, 5, nil)
	require.Equal(t, context.Canceled, err)
}

func TestTicker(t *testing.T) {
	var m Millis
	var ctl irq.Controller
	ticker := NewTicker(&m, &ctl)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.Equal(t, context.DeadlineExceeded, ticker.Run(ctx))
	require.True(t, m.Now() > 0)
}
