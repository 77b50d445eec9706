// Package tracing records the lifetime of transfers observed on relay
// stages. A tracer hooks into one stage and timestamps each transfer's
// accept and delivery with the simulation clock, persisting the records
// through a data recorder.
package tracing

import (
	"github.com/sarchlab/buspipe/bitvec"
	"github.com/sarchlab/buspipe/datarecording"
	"github.com/sarchlab/buspipe/relaying"
	"github.com/sarchlab/buspipe/sim"
)

// A TransferRecord is one recorded transfer lifetime. ID is unique across
// all stages of a run; Seq counts the transfers this tracer observed.
type TransferRecord struct {
	ID           string
	Stage        string
	Seq          int
	AcceptCycle  int64
	DeliverCycle int64
	Payload      string
}

// FlushedCycle marks a transfer that was discarded by reset before it could
// be delivered.
const FlushedCycle int64 = -1

// A CycleSource reports the current cycle of the simulation clock.
type CycleSource interface {
	CurrentCycle() uint64
}

// A TransferTracer is a hook that observes one stage's accept, deliver, and
// flush events and records transfer lifetimes. Deliveries are matched to
// accepts in FIFO order, which is exact because a relay stage never
// reorders transfers.
type TransferTracer struct {
	recorder datarecording.DataRecorder
	clock    CycleSource
	table    string

	nextSeq int
	pending []TransferRecord
}

// NewTransferTracer creates a tracer that records into the given table,
// creating it on the recorder. Attach the tracer to a stage with
// stage.AcceptHook(tracer). Transfers already in flight at attachment are
// not recorded.
func NewTransferTracer(
	recorder datarecording.DataRecorder,
	clock CycleSource,
	tableName string,
) *TransferTracer {
	recorder.CreateTable(tableName, TransferRecord{})

	return &TransferTracer{
		recorder: recorder,
		clock:    clock,
		table:    tableName,
	}
}

// Func handles the stage hook events.
func (t *TransferTracer) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case relaying.HookPosAccept:
		t.onAccept(ctx)
	case relaying.HookPosDeliver:
		t.onDeliver()
	case relaying.HookPosFlush:
		t.onFlush()
	}
}

func (t *TransferTracer) onAccept(ctx sim.HookCtx) {
	payload := ctx.Item.(bitvec.Word)
	stage := ctx.Domain.(sim.Named)

	t.pending = append(t.pending, TransferRecord{
		ID:          sim.GetIDGenerator().Generate(),
		Stage:       stage.Name(),
		Seq:         t.nextSeq,
		AcceptCycle: int64(t.clock.CurrentCycle()),
		Payload:     payload.Hex(),
	})
	t.nextSeq++
}

func (t *TransferTracer) onDeliver() {
	// A stage attached mid-flight delivers transfers the tracer never saw
	// accepted; those have no record to complete.
	if len(t.pending) == 0 {
		return
	}

	record := t.pending[0]
	t.pending = t.pending[1:]

	record.DeliverCycle = int64(t.clock.CurrentCycle())
	t.recorder.InsertData(t.table, record)
}

func (t *TransferTracer) onFlush() {
	for _, record := range t.pending {
		record.DeliverCycle = FlushedCycle
		t.recorder.InsertData(t.table, record)
	}

	t.pending = nil
}
