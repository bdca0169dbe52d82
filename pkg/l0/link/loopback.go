package link

import (
	"io"
	"sync"
	"time"
)

// LoopbackBuffer is the byte capacity of each direction of a loopback.
const LoopbackBuffer = 4096

// LoopbackConn is one end of an in-process link behaving like a serial
// port: writes never block, reads return no data after the read timeout,
// and bytes overflowing the buffer are lost.
type LoopbackConn struct {
	// ReadTimeout is the longest wait of a Read, 0 waits forever.
	ReadTimeout time.Duration

	rx, tx    chan byte
	done      chan struct{}
	closeOnce *sync.Once
}

// Loopback creates the two connected ends of an in-process link.
func Loopback() (host, device *LoopbackConn) {
	h2d, d2h := make(chan byte, LoopbackBuffer), make(chan byte, LoopbackBuffer)
	done, once := make(chan struct{}), &sync.Once{}
	host = &LoopbackConn{ReadTimeout: DefaultReadTimeout, rx: d2h, tx: h2d, done: done, closeOnce: once}
	device = &LoopbackConn{rx: h2d, tx: d2h, done: done, closeOnce: once}
	return
}

// Read implements io.Reader.
func (c *LoopbackConn) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	var timeout <-chan time.Time
	if c.ReadTimeout > 0 {
		timer := time.NewTimer(c.ReadTimeout)
		defer timer.Stop()
		timeout = timer.C
	}
	select {
	case p[0] = <-c.rx:
	case <-timeout:
		return 0, nil
	case <-c.done:
		return 0, io.EOF
	}
	n := 1
	for ; n < len(p); n++ {
		select {
		case p[n] = <-c.rx:
		default:
			return n, nil
		}
	}
	return n, nil
}

// Write implements io.Writer.
func (c *LoopbackConn) Write(p []byte) (int, error) {
	for _, b := range p {
		select {
		case <-c.done:
			return 0, io.ErrClosedPipe
		default:
		}
		select {
		case c.tx <- b:
		default:
		}
	}
	return len(p), nil
}

// ResetInputBuffer discards received bytes.
func (c *LoopbackConn) ResetInputBuffer() error {
	for {
		select {
		case <-c.rx:
		default:
			return nil
		}
	}
}

// Close closes both ends.
func (c *LoopbackConn) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}
