package l1

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRef(t *testing.T) {
	ref := Ref{Type: "steerbox", ID: "abc"}
	require.True(t, ref.IsValid())
	require.Equal(t, "steerbox/abc", ref.Name())
	require.Equal(t, "steerbox/abc/state", ref.StateTopic())
	require.Equal(t, "steerbox/abc/cmd", ref.CmdTopic())
	require.Equal(t, "steerbox/abc/meta", ref.MetaTopic())
	require.False(t, Ref{Type: "steerbox"}.IsValid())
	require.False(t, Ref{ID: "abc"}.IsValid())
}
