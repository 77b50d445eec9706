package traffic

import (
	"github.com/sarchlab/buspipe/bitvec"
	"github.com/sarchlab/buspipe/sim"
)

// A Consumer drives a relay's downstream ready signal from a ReadyPattern
// and collects delivered payloads into a sink buffer. The consumer only
// asserts ready when the sink has room, so it never drops a delivery.
type Consumer struct {
	pattern ReadyPattern
	sink    sim.Buffer

	ready    bool
	received int
}

// NewConsumer creates a consumer driving readiness from the pattern and
// collecting deliveries into the sink.
func NewConsumer(pattern ReadyPattern, sink sim.Buffer) *Consumer {
	return &Consumer{pattern: pattern, sink: sink}
}

// Ready latches and returns the consumer's readiness for this cycle. It
// must be called exactly once per cycle, before the relay ticks.
func (c *Consumer) Ready() bool {
	c.ready = c.pattern.Next() && c.sink.CanPush()
	return c.ready
}

// Observe samples the relay's downstream handshake after the tick. A
// payload is collected iff it was valid and the consumer was ready.
func (c *Consumer) Observe(payload bitvec.Word, valid bool) {
	if !valid || !c.ready {
		return
	}

	c.sink.Push(payload)
	c.received++
}

// Received returns the number of payloads collected so far.
func (c *Consumer) Received() int {
	return c.received
}
