package comm

import (
	"io"
	"net"
	"time"
)

// DefaultReadTimeout is the default time to wait for a full frame.
const DefaultReadTimeout = 500 * time.Millisecond

// InputFlusher discards received but unread bytes.
type InputFlusher interface {
	ResetInputBuffer() error
}

// Client provides host side operations over an io.ReadWriter.
type Client struct {
	ReadWriter  io.ReadWriter
	ReadTimeout time.Duration
}

// NewClient creates a Client.
func NewClient(rw io.ReadWriter) *Client {
	return &Client{ReadWriter: rw, ReadTimeout: DefaultReadTimeout}
}

// Send writes commands.
func (c *Client) Send(cmds ...Command) error {
	b := make([]byte, len(cmds))
	for n, cmd := range cmds {
		b[n] = byte(cmd)
	}
	_, err := c.ReadWriter.Write(b)
	return err
}

// ReadResponse reads the next frame.
// A Read returning no data is treated as a read timeout, which is how
// serial ports report an expired read timeout. Links supporting read
// deadlines report ErrReadTimeout as well.
func (c *Client) ReadResponse() (Response, error) {
	if d, ok := c.ReadWriter.(interface {
		SetReadDeadline(time.Time) error
	}); ok && c.ReadTimeout > 0 {
		if err := d.SetReadDeadline(time.Now().Add(c.ReadTimeout)); err != nil {
			return Response{}, err
		}
	}
	var buf [FrameSize]byte
	for n := 0; n < FrameSize; {
		m, err := c.ReadWriter.Read(buf[n:])
		n += m
		if err != nil {
			if n == FrameSize {
				break
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				err = ErrReadTimeout
			}
			return Response{}, err
		}
		if m == 0 {
			return Response{}, ErrReadTimeout
		}
	}
	return ParseResponse(buf[:])
}

// Flush discards pending input if supported by the ReadWriter.
func (c *Client) Flush() error {
	if f, ok := c.ReadWriter.(InputFlusher); ok {
		return f.ResetInputBuffer()
	}
	return nil
}

// Close closes the ReadWriter if it's an io.Closer.
func (c *Client) Close() error {
	if closer, ok := c.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
