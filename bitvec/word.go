// Package bitvec provides fixed-width bit vectors. A Word models the value
// carried by a hardware bus of an arbitrary bit width: it is opaque to the
// components that relay it, and all arithmetic on it is masked to the
// declared width.
package bitvec

import (
	"fmt"
	"math/rand"
	"strings"
)

const limbBits = 64

// A Word is a bit vector of a fixed width. The zero value is a zero-width
// word. Words are value types; the limb slice is never shared with mutable
// state.
type Word struct {
	width int
	limbs []uint64
}

// New creates a zero-valued word of the given width.
func New(width int) Word {
	if width < 0 {
		panic("word width must not be negative")
	}

	return Word{
		width: width,
		limbs: make([]uint64, numLimbs(width)),
	}
}

// FromUint64 creates a word of the given width holding the low bits of v.
// Bits of v above the width are masked off.
func FromUint64(width int, v uint64) Word {
	w := New(width)
	if width == 0 {
		return w
	}

	w.limbs[0] = v
	w.mask()

	return w
}

// Random creates a word of the given width with uniformly random bits.
func Random(width int, r *rand.Rand) Word {
	w := New(width)
	for i := range w.limbs {
		w.limbs[i] = r.Uint64()
	}
	w.mask()

	return w
}

// Width returns the number of bits in the word.
func (w Word) Width() int {
	return w.width
}

// Bit returns bit i of the word, 0 or 1.
func (w Word) Bit(i int) uint64 {
	if i < 0 || i >= w.width {
		panic("bit index out of range")
	}

	return (w.limbs[i/limbBits] >> (i % limbBits)) & 1
}

// Uint64 returns the low 64 bits of the word.
func (w Word) Uint64() uint64 {
	if len(w.limbs) == 0 {
		return 0
	}

	return w.limbs[0]
}

// Equal reports whether two words have the same width and the same bits.
func (w Word) Equal(o Word) bool {
	if w.width != o.width {
		return false
	}

	for i := range w.limbs {
		if w.limbs[i] != o.limbs[i] {
			return false
		}
	}

	return true
}

// IsZero reports whether all bits of the word are 0.
func (w Word) IsZero() bool {
	for _, l := range w.limbs {
		if l != 0 {
			return false
		}
	}

	return true
}

// Hex returns the value as a hexadecimal string without a prefix, padded to
// the width of the word.
func (w Word) Hex() string {
	if w.width == 0 {
		return "0"
	}

	numNibbles := (w.width + 3) / 4
	var sb strings.Builder

	for i := numNibbles - 1; i >= 0; i-- {
		nibble := (w.limbs[i/16] >> ((i % 16) * 4)) & 0xf
		fmt.Fprintf(&sb, "%x", nibble)
	}

	return sb.String()
}

// String formats the word in the Verilog sized-literal style, e.g. "8'h1f".
func (w Word) String() string {
	return fmt.Sprintf("%d'h%s", w.width, w.Hex())
}

// Concat concatenates words into one wider word. The first argument occupies
// the least-significant bits of the result.
func Concat(words ...Word) Word {
	totalWidth := 0
	for _, w := range words {
		totalWidth += w.width
	}

	out := New(totalWidth)
	pos := 0
	for _, w := range words {
		for i := 0; i < w.width; i++ {
			if w.Bit(i) != 0 {
				out.limbs[(pos+i)/limbBits] |= 1 << ((pos + i) % limbBits)
			}
		}
		pos += w.width
	}

	return out
}

// Extract returns the width-bit field of w starting at bit lo.
func Extract(w Word, lo, width int) Word {
	if lo < 0 || width < 0 || lo+width > w.width {
		panic("extract range out of bounds")
	}

	out := New(width)
	for i := 0; i < width; i++ {
		if w.Bit(lo+i) != 0 {
			out.limbs[i/limbBits] |= 1 << (i % limbBits)
		}
	}

	return out
}

func numLimbs(width int) int {
	return (width + limbBits - 1) / limbBits
}

func (w Word) mask() {
	if w.width == 0 {
		return
	}

	rem := w.width % limbBits
	if rem != 0 {
		w.limbs[len(w.limbs)-1] &= (uint64(1) << rem) - 1
	}
}
