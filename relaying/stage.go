// Package relaying implements an elastic valid/ready handshake relay. A
// relay stage adds a configurable number of retiming registers to a
// streaming bus while preserving exactly-once, in-order delivery and
// glitch-free backpressure propagation.
package relaying

import (
	"fmt"

	"github.com/sarchlab/buspipe/bitvec"
	"github.com/sarchlab/buspipe/sim"
)

// HookPosAccept marks when a stage accepts a transfer from upstream. The
// hook item is the payload.
var HookPosAccept = &sim.HookPos{Name: "Stage Accept"}

// HookPosDeliver marks when a transfer leaves the stage downstream. The
// hook item is the payload.
var HookPosDeliver = &sim.HookPos{Name: "Stage Deliver"}

// HookPosFlush marks when a reset discards in-flight transfers. The hook
// item is the number of transfers discarded.
var HookPosFlush = &sim.HookPos{Name: "Stage Flush"}

// Input carries the signals a stage samples on one clock edge.
type Input struct {
	// Reset forces the stage empty. It dominates every other input.
	Reset bool

	// Payload and Valid form the upstream handshake. The producer must hold
	// them steady until the stage reports ReadyOut.
	Payload bitvec.Word
	Valid   bool

	// ReadyIn is the downstream consumer's readiness on this edge.
	ReadyIn bool
}

// Output carries the signals a stage presents during the same cycle.
type Output struct {
	// ReadyOut tells the upstream producer whether the presented transfer
	// is accepted on this edge. A transfer is accepted iff Valid && ReadyOut.
	ReadyOut bool

	// Payload and Valid form the downstream handshake. For a registered
	// stage these are the values stored in the slot nearest the output; the
	// transfer leaves the stage iff Valid && Input.ReadyIn.
	Payload bitvec.Word
	Valid   bool
}

// A Handshake relays transfers through a tick-driven valid/ready handshake.
type Handshake interface {
	Tick(in Input) Output
}

// A Stage is one elastic buffering unit of fixed depth and payload width.
//
// A stage of depth 0 is a combinational passthrough: outputs equal inputs in
// the same tick and no state is held. A stage of depth D >= 1 is a chain of
// D registered slots; a transfer advances one slot per tick whenever the
// slot ahead of it is empty or vacating on the same tick.
type Stage interface {
	sim.Named
	sim.Hookable
	Handshake

	// Peek observes the registered output without advancing the clock. A
	// depth-0 stage has no registered output and always reports invalid.
	Peek() (payload bitvec.Word, valid bool)

	// Depth returns the number of registered slots.
	Depth() int

	// Width returns the payload width in bits.
	Width() int

	// Occupancy returns the number of slots currently holding a transfer.
	Occupancy() int

	// Clear invalidates all slots, discarding in-flight transfers. Stored
	// payload bits are left untouched; the validity bit is the sole source
	// of truth for whether a slot holds live data.
	Clear()
}

type slot struct {
	payload bitvec.Word
	valid   bool
}

type stageImpl struct {
	sim.HookableBase

	name  string
	depth int
	width int
	slots []slot
}

func (s *stageImpl) Name() string {
	return s.name
}

func (s *stageImpl) Depth() int {
	return s.depth
}

func (s *stageImpl) Width() int {
	return s.width
}

func (s *stageImpl) Occupancy() int {
	count := 0
	for _, sl := range s.slots {
		if sl.valid {
			count++
		}
	}

	return count
}

func (s *stageImpl) Peek() (bitvec.Word, bool) {
	if s.depth == 0 {
		return bitvec.New(s.width), false
	}

	out := s.slots[s.depth-1]

	return out.payload, out.valid
}

// Clear invalidates all slots. Payload registers keep their previous bits;
// callers must gate payload reads on the validity signal.
func (s *stageImpl) Clear() {
	for i := range s.slots {
		s.slots[i].valid = false
	}
}

// Tick advances the stage by one clock edge.
func (s *stageImpl) Tick(in Input) Output {
	if in.Reset {
		s.flush()
		return Output{Payload: bitvec.New(s.width)}
	}

	if s.depth == 0 {
		return s.tickPassthrough(in)
	}

	return s.tickRegistered(in)
}

// flush is the reset-dominant transition: it overrides all other logic and
// forces the empty state on the same evaluation.
func (s *stageImpl) flush() {
	discarded := s.Occupancy()
	s.Clear()

	if discarded > 0 && s.NumHooks() > 0 {
		s.InvokeHook(sim.HookCtx{
			Domain: s,
			Pos:    HookPosFlush,
			Item:   discarded,
		})
	}
}

func (s *stageImpl) tickPassthrough(in Input) Output {
	if in.Valid {
		s.payloadWidthMustMatch(in.Payload)
	}

	out := Output{
		ReadyOut: in.ReadyIn,
		Payload:  in.Payload,
		Valid:    in.Valid,
	}

	if in.Valid && in.ReadyIn && s.NumHooks() > 0 {
		s.InvokeHook(sim.HookCtx{Domain: s, Pos: HookPosAccept, Item: in.Payload})
		s.InvokeHook(sim.HookCtx{Domain: s, Pos: HookPosDeliver, Item: in.Payload})
	}

	return out
}

func (s *stageImpl) tickRegistered(in Input) Output {
	last := s.slots[s.depth-1]
	out := Output{
		Payload: last.payload,
		Valid:   last.valid,
	}

	advance := s.bubblePropagation(in.ReadyIn)
	out.ReadyOut = advance[0]

	s.shift(advance)

	if in.Valid && out.ReadyOut {
		s.payloadWidthMustMatch(in.Payload)
		s.slots[0] = slot{payload: in.Payload, valid: true}

		if s.NumHooks() > 0 {
			s.InvokeHook(sim.HookCtx{
				Domain: s,
				Pos:    HookPosAccept,
				Item:   in.Payload,
			})
		}
	}

	return out
}

// bubblePropagation computes, back to front in a single pass, whether each
// slot can take new content on this edge. advance[i] is true when slot i is
// empty or its content departs on this edge; advance[depth] stands for the
// downstream consumer and equals readyIn.
func (s *stageImpl) bubblePropagation(readyIn bool) []bool {
	advance := make([]bool, s.depth+1)
	advance[s.depth] = readyIn

	for i := s.depth - 1; i >= 0; i-- {
		advance[i] = !s.slots[i].valid || advance[i+1]
	}

	return advance
}

// shift moves transfers forward, oldest first, so that a slot is always
// vacated before the slot behind it writes into it.
func (s *stageImpl) shift(advance []bool) {
	for i := s.depth - 1; i >= 0; i-- {
		if !s.slots[i].valid || !advance[i+1] {
			continue
		}

		if i == s.depth-1 {
			if s.NumHooks() > 0 {
				s.InvokeHook(sim.HookCtx{
					Domain: s,
					Pos:    HookPosDeliver,
					Item:   s.slots[i].payload,
				})
			}
		} else {
			s.slots[i+1] = slot{payload: s.slots[i].payload, valid: true}
		}

		s.slots[i].valid = false
	}
}

func (s *stageImpl) payloadWidthMustMatch(payload bitvec.Word) {
	if payload.Width() != s.width {
		panic(fmt.Sprintf(
			"stage %s carries %d-bit payloads, got %d bits",
			s.name, s.width, payload.Width(),
		))
	}
}
