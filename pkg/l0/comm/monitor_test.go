package comm

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMonitorFeed(t *testing.T) {
	var results []ParseResult
	collect := func(pr ParseResult) { results = append(results, pr) }
	m := NewMonitor(nil)
	at := time.Unix(0, 0)

	m.Feed(at, []byte{0x05, 0x00, 0x00, 0x14, 0xfb}, collect)
	require.Len(t, results, 1)
	require.Equal(t, Response{Position: 5, Status: 20}, *results[0].Frame)

	// the partial byte is dropped after the gap
	m.Feed(at.Add(20*time.Millisecond), []byte{0xfb, 0xff, 0x01, 0x81}, collect)
	require.Len(t, results, 3)
	require.Nil(t, results[1].Frame)
	require.Equal(t, 1, results[1].Dropped)
	require.Equal(t, Response{Position: -5, EncoderErrors: 1, Status: 0x81}, *results[2].Frame)

	// split frame within the gap
	m.Feed(at.Add(21*time.Millisecond), []byte{0x01, 0x00}, collect)
	m.Feed(at.Add(22*time.Millisecond), []byte{0x00, 0x00}, collect)
	require.Len(t, results, 4)
	require.Equal(t, Response{Position: 1}, *results[3].Frame)

	m.Feed(at.Add(time.Second), nil, collect)
	require.Len(t, results, 4)
}

func TestMonitorRun(t *testing.T) {
	r := bytes.NewReader([]byte{0x02, 0x00, 0x00, 0x00})
	var frames []Response
	err := NewMonitor(r).Run(context.Background(), func(pr ParseResult) {
		if pr.Frame != nil {
			frames = append(frames, *pr.Frame)
		}
	})
	require.Equal(t, io.EOF, err)
	require.Equal(t, []Response{{Position: 2}}, frames)
}
