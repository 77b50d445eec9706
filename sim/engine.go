// Package sim provides the primitives for building lockstep, cycle-accurate
// simulations: a global clock engine, tickers, FIFO buffers, hooks, and
// hierarchical naming.
package sim

// A Ticker is an object that updates its state once per clock edge. Tick
// returns whether the ticker made any progress during the cycle.
type Ticker interface {
	Tick() bool
}

// HookPosCycleBegin marks the beginning of a clock cycle. The hook item is
// the cycle number.
var HookPosCycleBegin = &HookPos{Name: "Cycle Begin"}

// HookPosCycleEnd marks the end of a clock cycle. The hook item is the cycle
// number.
var HookPosCycleEnd = &HookPos{Name: "Cycle End"}

// An Engine drives all the registered tickers in lockstep on a single global
// clock. All tickers observe the same cycle number; within one cycle they
// are invoked in registration order.
type Engine interface {
	Named
	Hookable

	// RegisterTicker adds a ticker to be invoked on every cycle.
	RegisterTicker(t Ticker)

	// CurrentCycle returns the number of completed cycles.
	CurrentCycle() uint64

	// Tick advances the clock by one cycle, returning whether any ticker
	// made progress.
	Tick() bool

	// Run advances the clock until no ticker makes progress or maxCycles
	// cycles have elapsed, returning the number of cycles executed.
	Run(maxCycles uint64) uint64
}

// NewEngine creates a lockstep cycle engine.
func NewEngine(name string) Engine {
	NameMustBeValid(name)

	return &engineImpl{name: name}
}

type engineImpl struct {
	HookableBase

	name    string
	cycle   uint64
	tickers []Ticker
}

func (e *engineImpl) Name() string {
	return e.name
}

func (e *engineImpl) RegisterTicker(t Ticker) {
	e.tickers = append(e.tickers, t)
}

func (e *engineImpl) CurrentCycle() uint64 {
	return e.cycle
}

func (e *engineImpl) Tick() bool {
	if e.NumHooks() > 0 {
		e.InvokeHook(HookCtx{
			Domain: e,
			Pos:    HookPosCycleBegin,
			Item:   e.cycle,
		})
	}

	madeProgress := false
	for _, t := range e.tickers {
		madeProgress = t.Tick() || madeProgress
	}

	if e.NumHooks() > 0 {
		e.InvokeHook(HookCtx{
			Domain: e,
			Pos:    HookPosCycleEnd,
			Item:   e.cycle,
		})
	}

	e.cycle++

	return madeProgress
}

func (e *engineImpl) Run(maxCycles uint64) uint64 {
	var executed uint64

	for executed < maxCycles {
		madeProgress := e.Tick()
		executed++

		if !madeProgress {
			break
		}
	}

	return executed
}
