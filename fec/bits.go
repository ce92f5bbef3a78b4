package fec

import (
	"fmt"
	"strings"
)

// Bits is an ordered sequence of binary values, each 0 or 1.
// Index 0 is the first bit sent and the highest order coefficient when the
// sequence is read as a polynomial over GF(2).
type Bits []uint8

// Parse converts a string of '0' and '1' characters into Bits.
func Parse(s string) (Bits, error) {
	bits := make(Bits, len(s))
	for i, c := range s {
		switch c {
		case '0':
		case '1':
			bits[i] = 1
		default:
			return nil, fmt.Errorf("invalid bit %q at position %v", c, i)
		}
	}
	return bits, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Bits {
	bits, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return bits
}

// Zeros returns n zero bits.
func Zeros(n int) Bits {
	return make(Bits, n)
}

func (b Bits) Len() int {
	return len(b)
}

func (b Bits) Clone() Bits {
	if b == nil {
		return nil
	}
	c := make(Bits, len(b))
	copy(c, b)
	return c
}

// Equal reports whether a and b have the same length and bits.
func (b Bits) Equal(other Bits) bool {
	if len(b) != len(other) {
		return false
	}
	for i := range b {
		if b[i] != other[i] {
			return false
		}
	}
	return true
}

// Flip returns a copy of b with bit i inverted.
func (b Bits) Flip(i int) Bits {
	c := b.Clone()
	c[i] ^= 1
	return c
}

// Pad returns a copy of b extended with zeros to length n.
// If b is already n bits or longer a plain copy is returned.
func (b Bits) Pad(n int) Bits {
	if len(b) >= n {
		return b.Clone()
	}
	c := make(Bits, n)
	copy(c, b)
	return c
}

// Weight is the number of ones.
func (b Bits) Weight() int {
	w := 0
	for _, v := range b {
		w += int(v & 1)
	}
	return w
}

// IsZero reports whether every bit is 0.
func (b Bits) IsZero() bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

func (b Bits) String() string {
	buf := strings.Builder{}
	buf.Grow(len(b))
	for _, v := range b {
		if v == 0 {
			buf.WriteByte('0')
		} else {
			buf.WriteByte('1')
		}
	}
	return buf.String()
}

// Chunk splits b into consecutive blocks of size bits. The final block is
// zero padded when len(b) is not a multiple of size.
func (b Bits) Chunk(size int) []Bits {
	if size <= 0 {
		panic(fmt.Sprintf("chunk size must be >0 but found %v", size))
	}
	chunks := make([]Bits, 0, (len(b)+size-1)/size)
	for i := 0; i < len(b); i += size {
		end := min(i+size, len(b))
		chunks = append(chunks, b[i:end].Pad(size))
	}
	return chunks
}
