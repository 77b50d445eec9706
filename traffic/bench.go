package traffic

import (
	"github.com/sarchlab/buspipe/relaying"
)

// A Bench wires a producer and a consumer around one relay stage and
// advances the three in lockstep. It implements sim.Ticker so that several
// benches (e.g., one per bus channel) can share one clock engine.
type Bench struct {
	stage    relaying.Stage
	producer *Producer
	consumer *Consumer
	reset    bool
}

// NewBench creates a bench around the given stage.
func NewBench(
	stage relaying.Stage,
	producer *Producer,
	consumer *Consumer,
) *Bench {
	return &Bench{
		stage:    stage,
		producer: producer,
		consumer: consumer,
	}
}

// AssertReset holds the stage's reset input high on following ticks.
func (b *Bench) AssertReset() {
	b.reset = true
}

// ReleaseReset lets the stage resume from the empty state.
func (b *Bench) ReleaseReset() {
	b.reset = false
}

// Tick advances the bench by one clock edge. It reports progress while
// transfers remain to be produced, buffered, or delivered.
func (b *Bench) Tick() bool {
	payload, valid := b.producer.Signals()
	ready := b.consumer.Ready()

	out := b.stage.Tick(relaying.Input{
		Reset:   b.reset,
		Payload: payload,
		Valid:   valid,
		ReadyIn: ready,
	})

	b.consumer.Observe(out.Payload, out.Valid)
	b.producer.Observe(valid && out.ReadyOut)

	delivered := out.Valid && ready

	return delivered || !b.producer.Done() || b.stage.Occupancy() > 0
}
