package comm

import (
	"context"
	"io"

	"github.com/robotalks/steerbox/pkg/framework"
)

// Transport is the byte level serial link seen by the firmware.
type Transport interface {
	// WriteByte blocks until the byte is accepted.
	io.ByteWriter
	// ReadByte is valid only if ByteAvailable returns true.
	io.ByteReader
	// ByteAvailable polls for a received byte.
	ByteAvailable() bool
}

// DefaultRxBuffer is the receive buffer size of StreamTransport.
const DefaultRxBuffer = 64

// StreamTransport implements Transport over an io.ReadWriter.
// Run must be running to receive bytes.
type StreamTransport struct {
	ReadWriter io.ReadWriter

	rxCh chan byte
	wbuf [1]byte
}

// NewStreamTransport creates a StreamTransport.
func NewStreamTransport(rw io.ReadWriter) *StreamTransport {
	return &StreamTransport{
		ReadWriter: rw,
		rxCh:       make(chan byte, DefaultRxBuffer),
	}
}

// WriteByte implements io.ByteWriter.
func (t *StreamTransport) WriteByte(b byte) error {
	t.wbuf[0] = b
	_, err := t.ReadWriter.Write(t.wbuf[:])
	return err
}

// ByteAvailable implements Transport.
func (t *StreamTransport) ByteAvailable() bool {
	return len(t.rxCh) > 0
}

// ReadByte implements io.ByteReader.
func (t *StreamTransport) ReadByte() (byte, error) {
	select {
	case b := <-t.rxCh:
		return b, nil
	default:
		return 0, ErrNoData
	}
}

// Name implements Named.
func (t *StreamTransport) Name() string {
	return "transport"
}

// Run receives bytes in the background.
// If ReadWriter is also an io.Closer, it's closed when ctx is canceled,
// otherwise cancellation is only noticed when a Read returns.
func (t *StreamTransport) Run(ctx context.Context) error {
	if closer, ok := t.ReadWriter.(io.Closer); ok {
		return framework.RunWithContextCloser(ctx, closer, func() error {
			return t.readLoop(ctx)
		})
	}
	return t.readLoop(ctx)
}

func (t *StreamTransport) readLoop(ctx context.Context) error {
	buf := make([]byte, DefaultRxBuffer)
	for {
		n, err := t.ReadWriter.Read(buf)
		for _, b := range buf[:n] {
			select {
			case t.rxCh <- b:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err != nil {
			return err
		}
	}
}
