package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("IDGenerator", func() {
	It("should generate distinct ids", func() {
		gen := GetIDGenerator()

		id1 := gen.Generate()
		id2 := gen.Generate()

		Expect(id1).NotTo(BeEmpty())
		Expect(id2).NotTo(Equal(id1))
	})

	It("should return the same generator on repeated calls", func() {
		Expect(GetIDGenerator()).To(BeIdenticalTo(GetIDGenerator()))
	})
})
