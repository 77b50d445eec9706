// Package traffic provides producers and consumers that drive valid/ready
// handshakes, and a bench that advances them in lockstep around a relay.
// These are the outer collaborators of a relay stage: they generate
// traffic, exert backpressure, and check delivery.
package traffic

import "math/rand"

// A ReadyPattern decides the downstream readiness cycle by cycle.
type ReadyPattern interface {
	Next() bool
}

// AlwaysReady returns a pattern that is ready on every cycle.
func AlwaysReady() ReadyPattern {
	return alwaysReady{}
}

type alwaysReady struct{}

func (alwaysReady) Next() bool { return true }

// CyclePattern returns a pattern that repeats the given readiness sequence.
func CyclePattern(pattern []bool) ReadyPattern {
	if len(pattern) == 0 {
		panic("cycle pattern must not be empty")
	}

	return &cyclePattern{pattern: pattern}
}

type cyclePattern struct {
	pattern []bool
	pos     int
}

func (p *cyclePattern) Next() bool {
	ready := p.pattern[p.pos]
	p.pos = (p.pos + 1) % len(p.pattern)

	return ready
}

// RandomReady returns a pattern that is ready with probability p each cycle.
func RandomReady(p float64, r *rand.Rand) ReadyPattern {
	return &randomReady{p: p, r: r}
}

type randomReady struct {
	p float64
	r *rand.Rand
}

func (p *randomReady) Next() bool {
	return p.r.Float64() < p.p
}
