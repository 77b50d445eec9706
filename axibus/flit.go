package axibus

import (
	"fmt"
	"math/rand"

	"github.com/sarchlab/buspipe/bitvec"
)

// An AWFlit is one beat of the write-address channel. The matching read
// channel uses the same shape (see ARFlit).
type AWFlit struct {
	ID    uint64
	Addr  uint64
	Len   uint64
	Size  uint64
	Burst uint64
	Lock  uint64
	Cache uint64
	Prot  uint64
}

// ARFlit is one beat of the read-address channel.
type ARFlit AWFlit

// A WFlit is one beat of the write-data channel.
type WFlit struct {
	Data bitvec.Word
	Strb bitvec.Word
	Last bool
}

// A BFlit is one beat of the write-response channel.
type BFlit struct {
	ID   uint64
	Resp uint64
}

// An RFlit is one beat of the read-data channel.
type RFlit struct {
	ID   uint64
	Data bitvec.Word
	Resp uint64
	Last bool
}

// Pack concatenates the flit's fields into one opaque payload word, fields
// in struct order starting at the least-significant bits.
func (f AWFlit) Pack(cfg Config) bitvec.Word {
	return bitvec.Concat(
		bitvec.FromUint64(cfg.IDWidth, f.ID),
		bitvec.FromUint64(cfg.AddrWidth, f.Addr),
		bitvec.FromUint64(cfg.LenWidth, f.Len),
		bitvec.FromUint64(cfg.SizeWidth, f.Size),
		bitvec.FromUint64(cfg.BurstWidth, f.Burst),
		bitvec.FromUint64(cfg.LockWidth, f.Lock),
		bitvec.FromUint64(cfg.CacheWidth, f.Cache),
		bitvec.FromUint64(cfg.ProtWidth, f.Prot),
	)
}

// Pack concatenates the flit's fields into one opaque payload word.
func (f ARFlit) Pack(cfg Config) bitvec.Word {
	return AWFlit(f).Pack(cfg)
}

// Pack concatenates the flit's fields into one opaque payload word. The
// Data and Strb words must match the configured widths.
func (f WFlit) Pack(cfg Config) bitvec.Word {
	fieldWidthMustMatch("W data", f.Data, cfg.DataWidth)
	fieldWidthMustMatch("W strb", f.Strb, cfg.StrbWidth())

	return bitvec.Concat(f.Data, f.Strb, boolBit(f.Last))
}

// Pack concatenates the flit's fields into one opaque payload word.
func (f BFlit) Pack(cfg Config) bitvec.Word {
	return bitvec.Concat(
		bitvec.FromUint64(cfg.IDWidth, f.ID),
		bitvec.FromUint64(cfg.RespWidth, f.Resp),
	)
}

// Pack concatenates the flit's fields into one opaque payload word. The
// Data word must match the configured width.
func (f RFlit) Pack(cfg Config) bitvec.Word {
	fieldWidthMustMatch("R data", f.Data, cfg.DataWidth)

	return bitvec.Concat(
		bitvec.FromUint64(cfg.IDWidth, f.ID),
		f.Data,
		bitvec.FromUint64(cfg.RespWidth, f.Resp),
		boolBit(f.Last),
	)
}

// UnpackAW recovers a write-address flit from a packed payload.
func UnpackAW(cfg Config, w bitvec.Word) AWFlit {
	lo := 0
	next := func(width int) uint64 {
		field := bitvec.Extract(w, lo, width)
		lo += width
		return field.Uint64()
	}

	return AWFlit{
		ID:    next(cfg.IDWidth),
		Addr:  next(cfg.AddrWidth),
		Len:   next(cfg.LenWidth),
		Size:  next(cfg.SizeWidth),
		Burst: next(cfg.BurstWidth),
		Lock:  next(cfg.LockWidth),
		Cache: next(cfg.CacheWidth),
		Prot:  next(cfg.ProtWidth),
	}
}

// UnpackAR recovers a read-address flit from a packed payload.
func UnpackAR(cfg Config, w bitvec.Word) ARFlit {
	return ARFlit(UnpackAW(cfg, w))
}

// UnpackW recovers a write-data flit from a packed payload.
func UnpackW(cfg Config, w bitvec.Word) WFlit {
	return WFlit{
		Data: bitvec.Extract(w, 0, cfg.DataWidth),
		Strb: bitvec.Extract(w, cfg.DataWidth, cfg.StrbWidth()),
		Last: bitvec.Extract(w, cfg.DataWidth+cfg.StrbWidth(), 1).Uint64() == 1,
	}
}

// UnpackB recovers a write-response flit from a packed payload.
func UnpackB(cfg Config, w bitvec.Word) BFlit {
	return BFlit{
		ID:   bitvec.Extract(w, 0, cfg.IDWidth).Uint64(),
		Resp: bitvec.Extract(w, cfg.IDWidth, cfg.RespWidth).Uint64(),
	}
}

// UnpackR recovers a read-data flit from a packed payload.
func UnpackR(cfg Config, w bitvec.Word) RFlit {
	return RFlit{
		ID:   bitvec.Extract(w, 0, cfg.IDWidth).Uint64(),
		Data: bitvec.Extract(w, cfg.IDWidth, cfg.DataWidth),
		Resp: bitvec.Extract(
			w, cfg.IDWidth+cfg.DataWidth, cfg.RespWidth).Uint64(),
		Last: bitvec.Extract(
			w, cfg.IDWidth+cfg.DataWidth+cfg.RespWidth, 1).Uint64() == 1,
	}
}

// RandomPayload generates a uniformly random packed payload for one channel.
func RandomPayload(cfg Config, ch Channel, r *rand.Rand) bitvec.Word {
	return bitvec.Random(cfg.ChannelWidth(ch), r)
}

func fieldWidthMustMatch(field string, w bitvec.Word, width int) {
	if w.Width() != width {
		panic(fmt.Sprintf(
			"%s field must be %d bits, got %d", field, width, w.Width()))
	}
}

func boolBit(b bool) bitvec.Word {
	if b {
		return bitvec.FromUint64(1, 1)
	}

	return bitvec.FromUint64(1, 0)
}
