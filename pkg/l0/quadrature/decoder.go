package quadrature

// Reading is a consistent pair of decoder counters.
type Reading struct {
	Position int16
	Errors   uint8
}

// Decoder keeps the encoder position.
//
// Edge is the interrupt service routine body. Reading the counters while
// edges are serviced must happen with interrupts masked.
type Decoder struct {
	table    *Table
	last     Sample
	position uint16
	errors   uint8
}

// NewDecoder creates a Decoder using the table selected at build time.
func NewDecoder() *Decoder {
	return &Decoder{table: defaultTable}
}

// Edge handles a change on either line. cur is the sample read right
// after the change.
func (d *Decoder) Edge(cur Sample) {
	action := d.table[Code(d.last, cur)]
	d.last = cur & sampleMask
	d.errors += action.Errors()
	d.position += uint16(int16(action.Delta()))
}

// Snapshot reads both counters.
func (d *Decoder) Snapshot() Reading {
	return Reading{Position: int16(d.position), Errors: d.errors}
}
