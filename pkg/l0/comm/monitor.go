package comm

import (
	"context"
	"io"
	"time"
)

// DefaultFrameGap is the quiet time after which a partial frame is dropped.
// Frames are sent back to back in a few hundred microseconds, and cycles
// are 20ms apart.
const DefaultFrameGap = 10 * time.Millisecond

// Monitor decodes the frames on a device to host stream without sending
// commands.
type Monitor struct {
	Reader io.Reader
	Gap    time.Duration

	parser Parser
	last   time.Time
}

// NewMonitor creates a Monitor.
func NewMonitor(r io.Reader) *Monitor {
	return &Monitor{Reader: r, Gap: DefaultFrameGap}
}

// Feed parses bytes received at the specified time.
func (m *Monitor) Feed(at time.Time, data []byte, fn func(ParseResult)) {
	if len(data) == 0 {
		return
	}
	if m.parser.Pending() > 0 && at.Sub(m.last) > m.Gap {
		fn(m.parser.Timeout())
	}
	m.last = at
	for _, b := range data {
		if pr := m.parser.Parse(b); pr.Frame != nil {
			fn(pr)
		}
	}
}

// Run reads until the Reader fails or ctx is canceled.
func (m *Monitor) Run(ctx context.Context, fn func(ParseResult)) error {
	buf := make([]byte, 64)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := m.Reader.Read(buf)
		m.Feed(time.Now(), buf[:n], fn)
		if err != nil {
			return err
		}
	}
}
