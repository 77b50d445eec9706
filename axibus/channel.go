// Package axibus composes relay stages into a 5-channel AXI4 bus pipeline.
// Each of the five channels (AW, W, B, AR, R) is one independent relay
// stage; the channels share a depth and a reset but nothing else.
package axibus

// Channel identifies one of the five AXI4 sub-buses.
type Channel int

// The five AXI4 channels.
const (
	AW Channel = iota // write address
	W                 // write data
	B                 // write response
	AR                // read address
	R                 // read data
)

// Channels lists all channels in a fixed order.
var Channels = []Channel{AW, W, B, AR, R}

func (c Channel) String() string {
	switch c {
	case AW:
		return "AW"
	case W:
		return "W"
	case B:
		return "B"
	case AR:
		return "AR"
	case R:
		return "R"
	default:
		panic("unknown channel")
	}
}
