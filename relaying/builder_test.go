package relaying

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/buspipe/bitvec"
)

var _ = Describe("Builder", func() {
	It("should build stages with the configured parameters", func() {
		stage := MakeBuilder().WithDepth(4).WithPayloadWidth(519).Build("Stage")

		Expect(stage.Name()).To(Equal("Stage"))
		Expect(stage.Depth()).To(Equal(4))
		Expect(stage.Width()).To(Equal(519))
	})

	It("should reject invalid parameters", func() {
		Expect(func() {
			MakeBuilder().WithDepth(-1).Build("Stage")
		}).To(Panic())

		Expect(func() {
			MakeBuilder().WithPayloadWidth(0).Build("Stage")
		}).To(Panic())

		Expect(func() {
			MakeBuilder().Build("not a valid name")
		}).To(Panic())
	})

	It("should reject payloads of the wrong width", func() {
		stage := MakeBuilder().WithDepth(1).WithPayloadWidth(8).Build("Stage")

		Expect(func() {
			stage.Tick(Input{Payload: bitvec.FromUint64(16, 1), Valid: true})
		}).To(Panic())
	})
})
