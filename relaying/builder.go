package relaying

import "github.com/sarchlab/buspipe/sim"

// A Builder can build relay stages.
type Builder struct {
	depth int
	width int
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		depth: 1,
		width: 64,
	}
}

// WithDepth sets the number of registered slots. A depth of 0 builds a
// combinational passthrough.
func (b Builder) WithDepth(d int) Builder {
	b.depth = d
	return b
}

// WithPayloadWidth sets the payload width in bits.
func (b Builder) WithPayloadWidth(w int) Builder {
	b.width = w
	return b
}

// Build builds a relay stage.
func (b Builder) Build(name string) Stage {
	sim.NameMustBeValid(name)

	if b.depth < 0 {
		panic("stage depth must not be negative")
	}

	if b.width < 1 {
		panic("stage payload width must be positive")
	}

	return &stageImpl{
		name:  name,
		depth: b.depth,
		width: b.width,
		slots: make([]slot, b.depth),
	}
}
