package axibus

import (
	"github.com/sarchlab/buspipe/relaying"
	"github.com/sarchlab/buspipe/sim"
)

// Inputs carries the per-channel upstream/downstream signals sampled on one
// clock edge, plus the reset shared by all five channel stages.
type Inputs struct {
	// Reset is distributed to every channel stage and dominates all other
	// signals.
	Reset bool

	AW relaying.Input
	W  relaying.Input
	B  relaying.Input
	AR relaying.Input
	R  relaying.Input
}

// Outputs carries the per-channel signals the pipeline presents during the
// same cycle.
type Outputs struct {
	AW relaying.Output
	W  relaying.Output
	B  relaying.Output
	AR relaying.Output
	R  relaying.Output
}

// A Pipeline relays the five AXI4 channels through independent elastic
// stages that share a depth and a reset. It is a structural composition:
// no data flows between channels, and its correctness reduces to each
// channel's stage behaving correctly on its own.
type Pipeline interface {
	sim.Named

	// Depth returns the shared stage depth.
	Depth() int

	// Config returns the field widths the pipeline was built with.
	Config() Config

	// Channel returns the relay stage of one channel.
	Channel(ch Channel) relaying.Stage

	// Tick advances all five channel stages on the same clock edge.
	Tick(in Inputs) Outputs
}

type pipelineImpl struct {
	name   string
	depth  int
	config Config
	stages [5]relaying.Stage
}

func (p *pipelineImpl) Name() string {
	return p.name
}

func (p *pipelineImpl) Depth() int {
	return p.depth
}

func (p *pipelineImpl) Config() Config {
	return p.config
}

func (p *pipelineImpl) Channel(ch Channel) relaying.Stage {
	return p.stages[ch]
}

func (p *pipelineImpl) Tick(in Inputs) Outputs {
	channelIn := [5]relaying.Input{in.AW, in.W, in.B, in.AR, in.R}

	var channelOut [5]relaying.Output
	for _, ch := range Channels {
		stageIn := channelIn[ch]
		stageIn.Reset = stageIn.Reset || in.Reset
		channelOut[ch] = p.stages[ch].Tick(stageIn)
	}

	return Outputs{
		AW: channelOut[AW],
		W:  channelOut[W],
		B:  channelOut[B],
		AR: channelOut[AR],
		R:  channelOut[R],
	}
}

// A Builder can build bus pipelines.
type Builder struct {
	depth  int
	config Config
}

// MakeBuilder creates a builder with a depth of 1 and the default 64-bit
// bus configuration.
func MakeBuilder() Builder {
	return Builder{
		depth:  1,
		config: DefaultConfig(),
	}
}

// WithDepth sets the stage depth shared by all five channels. A depth of 0
// builds combinational passthroughs.
func (b Builder) WithDepth(d int) Builder {
	b.depth = d
	return b
}

// WithConfig sets the field widths of the bus.
func (b Builder) WithConfig(cfg Config) Builder {
	b.config = cfg
	return b
}

// Build builds a bus pipeline. Each channel stage is named after the
// pipeline (e.g. "Bus.AW").
func (b Builder) Build(name string) Pipeline {
	sim.NameMustBeValid(name)
	b.config.mustBeValid()

	p := &pipelineImpl{
		name:   name,
		depth:  b.depth,
		config: b.config,
	}

	for _, ch := range Channels {
		p.stages[ch] = relaying.MakeBuilder().
			WithDepth(b.depth).
			WithPayloadWidth(b.config.ChannelWidth(ch)).
			Build(sim.BuildName(name, ch.String()))
	}

	return p
}
