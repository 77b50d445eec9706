package traffic

import (
	"math/rand"

	"github.com/sarchlab/buspipe/bitvec"
)

// A Producer presents a fixed sequence of payloads on a relay's upstream
// handshake. It honors the producer contract: a presented payload is held
// steady, with valid asserted, until the relay reports ready. An optional
// idle pattern inserts gap cycles after each accepted transfer.
type Producer struct {
	payloads []bitvec.Word
	width    int
	idle     func() int

	cursor   int
	idleLeft int
}

// NewProducer creates a producer over the given payload sequence. All
// payloads must share one width.
func NewProducer(payloads []bitvec.Word) *Producer {
	width := 0
	if len(payloads) > 0 {
		width = payloads[0].Width()
	}

	for _, p := range payloads {
		if p.Width() != width {
			panic("producer payloads must share one width")
		}
	}

	return &Producer{payloads: payloads, width: width}
}

// WithIdlePattern makes the producer insert gap cycles after each accepted
// transfer, cycling through the given counts.
func (p *Producer) WithIdlePattern(pattern []int) *Producer {
	if len(pattern) == 0 {
		panic("idle pattern must not be empty")
	}

	pos := 0
	p.idle = func() int {
		n := pattern[pos]
		pos = (pos + 1) % len(pattern)
		return n
	}

	return p
}

// WithRandomIdle makes the producer insert a uniformly random number of gap
// cycles, up to maxIdle, after each accepted transfer.
func (p *Producer) WithRandomIdle(maxIdle int, r *rand.Rand) *Producer {
	p.idle = func() int { return r.Intn(maxIdle + 1) }
	return p
}

// Signals returns the payload and valid the producer presents this cycle.
func (p *Producer) Signals() (bitvec.Word, bool) {
	if p.Done() || p.idleLeft > 0 {
		return bitvec.New(p.width), false
	}

	return p.payloads[p.cursor], true
}

// Observe tells the producer whether the presented transfer was accepted on
// this cycle. It must be called exactly once per cycle, after the relay
// ticks.
func (p *Producer) Observe(accepted bool) {
	if p.idleLeft > 0 {
		p.idleLeft--
		return
	}

	if !accepted || p.Done() {
		return
	}

	p.cursor++
	if p.idle != nil && !p.Done() {
		p.idleLeft = p.idle()
	}
}

// Done reports whether every payload has been accepted.
func (p *Producer) Done() bool {
	return p.cursor == len(p.payloads)
}

// Sent returns the number of payloads accepted so far.
func (p *Producer) Sent() int {
	return p.cursor
}
