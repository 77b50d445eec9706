package axibus

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/buspipe/bitvec"
)

var _ = Describe("Flit Packing", func() {
	cfg := DefaultConfig()

	It("should pack write-address fields into the channel width", func() {
		flit := AWFlit{
			ID:    0xa,
			Addr:  0x1000,
			Len:   0xff,
			Size:  0b011,
			Burst: 0b01,
			Lock:  1,
			Cache: 0b0011,
			Prot:  0b010,
		}

		packed := flit.Pack(cfg)
		Expect(packed.Width()).To(Equal(cfg.ChannelWidth(AW)))

		unpacked := UnpackAW(cfg, packed)
		Expect(unpacked).To(Equal(flit))
	})

	It("should place low-order fields at the low-order bits", func() {
		flit := BFlit{ID: 0x5, Resp: 0x2}

		packed := flit.Pack(cfg)

		Expect(packed.Width()).To(Equal(6))
		Expect(packed.Uint64()).To(Equal(uint64(0x25)))
	})

	It("should carry wide data beats through the write channel", func() {
		wide := cfg
		wide.DataWidth = 512

		rng := rand.New(rand.NewSource(7))
		flit := WFlit{
			Data: bitvec.Random(wide.DataWidth, rng),
			Strb: bitvec.Random(wide.StrbWidth(), rng),
			Last: true,
		}

		packed := flit.Pack(wide)
		Expect(packed.Width()).To(Equal(wide.ChannelWidth(W)))

		unpacked := UnpackW(wide, packed)
		Expect(unpacked.Data.Equal(flit.Data)).To(BeTrue())
		Expect(unpacked.Strb.Equal(flit.Strb)).To(BeTrue())
		Expect(unpacked.Last).To(BeTrue())
	})

	It("should reject data beats that do not match the configured width",
		func() {
			narrow := WFlit{
				Data: bitvec.New(32),
				Strb: bitvec.New(cfg.StrbWidth()),
			}
			Expect(func() { narrow.Pack(cfg) }).To(Panic())

			badStrb := WFlit{
				Data: bitvec.New(cfg.DataWidth),
				Strb: bitvec.New(4),
			}
			Expect(func() { badStrb.Pack(cfg) }).To(Panic())

			narrowRead := RFlit{Data: bitvec.New(32)}
			Expect(func() { narrowRead.Pack(cfg) }).To(Panic())
		})

	It("should round-trip a read-data flit", func() {
		flit := RFlit{
			ID:   0x3,
			Data: bitvec.FromUint64(cfg.DataWidth, 0xdeadbeefcafe),
			Resp: 0x1,
			Last: false,
		}

		unpacked := UnpackR(cfg, flit.Pack(cfg))

		Expect(unpacked.ID).To(Equal(flit.ID))
		Expect(unpacked.Data.Equal(flit.Data)).To(BeTrue())
		Expect(unpacked.Resp).To(Equal(flit.Resp))
		Expect(unpacked.Last).To(BeFalse())
	})
})
