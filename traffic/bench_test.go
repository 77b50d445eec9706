package traffic

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/buspipe/bitvec"
	"github.com/sarchlab/buspipe/relaying"
	"github.com/sarchlab/buspipe/sim"
)

func numberedBytes(n int) []bitvec.Word {
	payloads := make([]bitvec.Word, n)
	for i := range payloads {
		payloads[i] = bitvec.FromUint64(8, uint64(i))
	}

	return payloads
}

var _ = Describe("Bench", func() {
	It("should run a stream to completion on an engine", func() {
		stage := relaying.MakeBuilder().
			WithDepth(2).
			WithPayloadWidth(8).
			Build("Stage")

		payloads := numberedBytes(10)
		producer := NewProducer(payloads)
		sink := sim.NewBuffer("Sink", len(payloads))
		consumer := NewConsumer(AlwaysReady(), sink)
		bench := NewBench(stage, producer, consumer)

		engine := sim.NewEngine("Engine")
		engine.RegisterTicker(bench)

		executed := engine.Run(1000)

		Expect(executed).To(BeNumerically("<", 1000))
		Expect(producer.Done()).To(BeTrue())
		Expect(consumer.Received()).To(Equal(len(payloads)))

		for _, p := range payloads {
			delivered := sink.Pop().(bitvec.Word)
			Expect(delivered.Equal(p)).To(BeTrue())
		}
	})

	It("should deliver a randomized stream in order under idle gaps and "+
		"backpressure", func() {
		stage := relaying.MakeBuilder().
			WithDepth(4).
			WithPayloadWidth(32).
			Build("Stage")

		rng := rand.New(rand.NewSource(42))
		payloads := make([]bitvec.Word, 100)
		for i := range payloads {
			payloads[i] = bitvec.Random(32, rng)
		}

		producer := NewProducer(payloads).WithRandomIdle(3, rng)
		sink := sim.NewBuffer("Sink", len(payloads))
		consumer := NewConsumer(RandomReady(0.6, rng), sink)
		bench := NewBench(stage, producer, consumer)

		engine := sim.NewEngine("Engine")
		engine.RegisterTicker(bench)

		engine.Run(100000)

		Expect(consumer.Received()).To(Equal(len(payloads)))
		for _, p := range payloads {
			delivered := sink.Pop().(bitvec.Word)
			Expect(delivered.Equal(p)).To(BeTrue())
		}
	})

	It("should flush in-flight transfers on reset and resume empty", func() {
		stage := relaying.MakeBuilder().
			WithDepth(4).
			WithPayloadWidth(8).
			Build("Stage")

		payloads := numberedBytes(10)
		producer := NewProducer(payloads)
		sink := sim.NewBuffer("Sink", len(payloads))
		consumer := NewConsumer(CyclePattern([]bool{false}), sink)
		bench := NewBench(stage, producer, consumer)

		engine := sim.NewEngine("Engine")
		engine.RegisterTicker(bench)

		// Fill the stage against a never-ready consumer.
		engine.Run(6)
		Expect(stage.Occupancy()).To(Equal(4))
		Expect(producer.Sent()).To(Equal(4))

		bench.AssertReset()
		engine.Tick()
		Expect(stage.Occupancy()).To(Equal(0))

		bench.ReleaseReset()
		engine.Run(10)

		// The flushed transfers are gone; the remaining ones refill the
		// stage and stay buffered while the consumer keeps ready low.
		Expect(producer.Sent()).To(Equal(8))
		Expect(stage.Occupancy()).To(Equal(4))
		Expect(consumer.Received()).To(Equal(0))
	})
})
