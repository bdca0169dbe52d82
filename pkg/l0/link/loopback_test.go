package link

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoopback(t *testing.T) {
	host, device := Loopback()
	host.ReadTimeout = 10 * time.Millisecond

	n, err := host.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, 3, n)
	buf := make([]byte, 8)
	n, err = device.Read(buf)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, buf[:n])

	n, err = host.Read(buf)
	require.NoError(t, err)
	require.Zero(t, n)

	device.Write([]byte{4, 5})
	require.NoError(t, host.ResetInputBuffer())
	device.Write([]byte{6})
	n, err = host.Read(buf)
	require.NoError(t, err)
	require.Equal(t, []byte{6}, buf[:n])

	errCh := make(chan error, 1)
	go func() {
		_, err := device.Read(buf)
		errCh <- err
	}()
	require.NoError(t, host.Close())
	select {
	case err := <-errCh:
		require.Equal(t, io.EOF, err)
	case <-time.After(time.Second):
		t.Fatal("read not unblocked by close")
	}
	_, err = device.Write([]byte{7})
	require.Equal(t, io.ErrClosedPipe, err)
}
