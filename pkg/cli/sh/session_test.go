package sh

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/steerbox/pkg/l1/msgs"
)

func TestSessionPublish(t *testing.T) {
	var s Session
	state, cmdErr := s.Last()
	require.Nil(t, state)
	require.Nil(t, cmdErr)

	first := &msgs.State{PBState: msgs.PBState{Counts: 1}}
	require.NoError(t, s.Publish(first))
	ch, stop := s.Watch()
	second := &msgs.State{PBState: msgs.PBState{Counts: 2}}
	require.NoError(t, s.Publish(second))
	require.Equal(t, second, <-ch)
	stop()
	require.NoError(t, s.Publish(first))
	require.NoError(t, s.Publish(msgs.NewCommandErr(errors.New("busy"))))

	state, cmdErr = s.Last()
	require.Equal(t, first, state)
	require.Equal(t, "busy", cmdErr.Message)
	require.Empty(t, ch)
}

func TestFormatState(t *testing.T) {
	state := &msgs.State{PBState: msgs.PBState{
		Counts:   2802,
		Position: 0.25,
		Status:   0x82,
		Voltage:  -0.5,
		Error:    "communication ran over 50ms behind",
	}}
	require.Equal(t,
		"+0.2500 rev  -0.50 V  pos=2802 errs=0 status=command-timeout (0x82)  [reset required]  error: communication ran over 50ms behind",
		FormatState(state))
}
