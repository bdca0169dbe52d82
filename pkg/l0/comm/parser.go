package comm

// Parser assembles Response frames from a byte stream.
//
// The stream has no sync marker, so a Parser is synchronized by calling
// Timeout when the line goes quiet between two frames.
type Parser struct {
	buf [FrameSize]byte
	n   int
}

// ParseResult indicates the result after one parsing step.
type ParseResult struct {
	// Frame is set when a frame is completed.
	Frame *Response
	// Dropped is the number of partial frame bytes discarded.
	Dropped int
}

// Parse consumes one byte.
func (p *Parser) Parse(b byte) (pr ParseResult) {
	p.buf[p.n] = b
	p.n++
	if p.n < FrameSize {
		return
	}
	p.n = 0
	frame, _ := ParseResponse(p.buf[:])
	pr.Frame = &frame
	return
}

// Timeout notifies the parser the line has gone quiet.
// A partially received frame is discarded.
func (p *Parser) Timeout() (pr ParseResult) {
	pr.Dropped, p.n = p.n, 0
	return
}

// Pending gets the number of bytes of a partial frame.
func (p *Parser) Pending() int {
	return p.n
}
