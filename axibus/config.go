package axibus

import "fmt"

// Config carries the field widths of the bus. Each channel's payload width
// is the sum of the widths of the fields that channel carries; the relay
// stages treat the packed payload as opaque.
type Config struct {
	IDWidth    int
	AddrWidth  int
	DataWidth  int
	LenWidth   int
	SizeWidth  int
	BurstWidth int
	LockWidth  int
	CacheWidth int
	ProtWidth  int
	RespWidth  int
}

// DefaultConfig returns the field widths of a 64-bit AXI4 bus.
func DefaultConfig() Config {
	return Config{
		IDWidth:    4,
		AddrWidth:  64,
		DataWidth:  64,
		LenWidth:   8,
		SizeWidth:  3,
		BurstWidth: 2,
		LockWidth:  1,
		CacheWidth: 4,
		ProtWidth:  3,
		RespWidth:  2,
	}
}

// StrbWidth returns the write-strobe width, one bit per data byte.
func (c Config) StrbWidth() int {
	return c.DataWidth / 8
}

// ChannelWidth returns the payload width of one channel.
func (c Config) ChannelWidth(ch Channel) int {
	switch ch {
	case AW, AR:
		return c.IDWidth + c.AddrWidth + c.LenWidth + c.SizeWidth +
			c.BurstWidth + c.LockWidth + c.CacheWidth + c.ProtWidth
	case W:
		return c.DataWidth + c.StrbWidth() + 1
	case B:
		return c.IDWidth + c.RespWidth
	case R:
		return c.IDWidth + c.DataWidth + c.RespWidth + 1
	default:
		panic("unknown channel")
	}
}

func (c Config) mustBeValid() {
	if c.DataWidth <= 0 || c.DataWidth%8 != 0 {
		panic(fmt.Sprintf(
			"data width must be a positive multiple of 8, got %d",
			c.DataWidth))
	}

	if c.AddrWidth <= 0 || c.AddrWidth > 64 {
		panic(fmt.Sprintf("addr width must be in 1..64, got %d", c.AddrWidth))
	}

	if c.IDWidth <= 0 || c.IDWidth > 64 {
		panic(fmt.Sprintf("id width must be in 1..64, got %d", c.IDWidth))
	}

	for _, field := range []struct {
		name  string
		width int
	}{
		{"len", c.LenWidth},
		{"size", c.SizeWidth},
		{"burst", c.BurstWidth},
		{"lock", c.LockWidth},
		{"cache", c.CacheWidth},
		{"prot", c.ProtWidth},
		{"resp", c.RespWidth},
	} {
		if field.width <= 0 || field.width > 64 {
			panic(fmt.Sprintf(
				"%s width must be in 1..64, got %d", field.name, field.width))
		}
	}
}
