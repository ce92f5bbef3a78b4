// Package bch implements narrow-sense primitive binary BCH codes of length
// 2^m-1. Decoding computes syndromes over GF(2^m), finds the error locator
// with Berlekamp-Massey and its roots with a Chien search, correcting up to t
// errors per codeword.
package bch

import (
	"fmt"
	"math/bits"

	"github.com/nathanhack/fecsim/fec"
	"github.com/nathanhack/fecsim/fec/polynomial"
	"github.com/nathanhack/fecsim/internal/metrics"
	"github.com/sirupsen/logrus"
)

type Codec struct {
	field     *field
	n, k, t   int
	generator fec.Bits
	// systematic encoding and the binary remainder are shared with the
	// single error polynomial code
	remainder *polynomial.Codec
}

// New creates the (n,k) code. n must be 2^m-1 with 2<=m<=8 and n-k must be
// the degree of the generator for some designed distance 2t+1.
func New(n, k int) (*Codec, error) {
	if k <= 0 || k >= n {
		return nil, fec.Configf("k", "0 < k < n required but found n=%v k=%v", n, k)
	}
	if n < 3 || bits.OnesCount(uint(n+1)) != 1 {
		return nil, fec.Configf("n", "n must be 2^m-1 but found %v", n)
	}
	m := bits.TrailingZeros(uint(n + 1))
	f, err := newField(m)
	if err != nil {
		return nil, fec.Configf("n", "%v", err)
	}

	g, t := generator(f, n-k)
	if g == nil {
		return nil, fec.Configf("k", "no BCH code of length %v has %v parity bits", n, n-k)
	}

	gBits := make(fec.Bits, len(g))
	for i := range g {
		gBits[i] = uint8(g[len(g)-1-i])
	}
	remainder, err := polynomial.New(polynomial.Params{N: n, K: k, Generator: gBits})
	if err != nil {
		return nil, err
	}

	logrus.Debugf("bch(%v,%v) t=%v generator=%v", n, k, t, gBits)
	return &Codec{
		field:     f,
		n:         n,
		k:         k,
		t:         t,
		generator: gBits,
		remainder: remainder,
	}, nil
}

// generator returns the product of the distinct minimal polynomials of
// alpha^1..alpha^2t for the smallest t whose degree is exactly parity, or nil.
func generator(f *field, parity int) ([]int, int) {
	seen := map[int]bool{}
	g := []int{1}
	for t := 1; 2*t < f.n; t++ {
		for _, i := range []int{2*t - 1, 2 * t} {
			if seen[i%f.n] {
				continue
			}
			for _, c := range f.coset(i) {
				seen[c] = true
			}
			g = f.polyMul(g, f.minimal(i))
		}
		switch degree := len(g) - 1; {
		case degree == parity:
			return g, t
		case degree > parity:
			return nil, 0
		}
	}
	return nil, 0
}

func (c *Codec) Encode(message fec.Bits) (fec.Bits, error) {
	return c.remainder.Encode(message)
}

// syndromes evaluates received at alpha^1..alpha^2t. Bit i of received is
// the coefficient of x^(n-1-i).
func (c *Codec) syndromes(received fec.Bits) ([]int, bool) {
	s := make([]int, 2*c.t)
	zero := true
	for j := range s {
		v := 0
		for i, bit := range received {
			if bit != 0 {
				v ^= c.field.alpha((j + 1) * (c.n - 1 - i))
			}
		}
		s[j] = v
		zero = zero && v == 0
	}
	return s, zero
}

// berlekampMassey returns the error locator polynomial, lowest degree first,
// and its linear complexity.
func (c *Codec) berlekampMassey(s []int) ([]int, int) {
	f := c.field
	locator := []int{1}
	prev := []int{1}
	l, shift, b := 0, 1, 1

	for r := range s {
		d := s[r]
		for i := 1; i <= l && i < len(locator); i++ {
			d ^= f.mul(locator[i], s[r-i])
		}
		if d == 0 {
			shift++
			continue
		}

		scale := f.div(d, b)
		next := make([]int, max(len(locator), len(prev)+shift))
		copy(next, locator)
		for i, v := range prev {
			next[i+shift] ^= f.mul(scale, v)
		}

		if 2*l <= r {
			prev = locator
			l = r + 1 - l
			b = d
			shift = 1
		} else {
			shift++
		}
		locator = next
	}
	return locator, l
}

// chien returns the bit indexes whose positions are roots of the locator.
func (c *Codec) chien(locator []int) []int {
	var positions []int
	for degree := 0; degree < c.n; degree++ {
		if c.field.eval(locator, c.field.alpha(-degree)) == 0 {
			positions = append(positions, c.n-1-degree)
		}
	}
	return positions
}

// Decode corrects up to T errors. When the locator degree exceeds T or the
// Chien search finds fewer roots than that degree the unmodified message bits
// come back with the Uncorrectable outcome.
func (c *Codec) Decode(received fec.Bits) (fec.Bits, fec.Outcome, error) {
	if len(received) != c.n {
		return nil, fec.Clean, &fec.LengthError{Kind: "codeword", Expected: c.n, Actual: len(received)}
	}

	s, zero := c.syndromes(received)
	if zero {
		metrics.ObserveDecode(c.String(), fec.Clean)
		return received[:c.k].Clone(), fec.Clean, nil
	}

	locator, l := c.berlekampMassey(s)
	if l <= c.t {
		positions := c.chien(locator)
		if len(positions) == l {
			corrected := received.Clone()
			for _, p := range positions {
				corrected[p] ^= 1
			}
			if c.remainder.Syndrome(corrected).IsZero() {
				metrics.ObserveDecode(c.String(), fec.Corrected)
				return corrected[:c.k], fec.Corrected, nil
			}
		}
	}

	logrus.WithFields(logrus.Fields{
		"codec":    c.String(),
		"syndrome": c.remainder.Syndrome(received).String(),
		"locator":  l,
	}).Debug("error locator has no valid roots")
	metrics.ObserveDecode(c.String(), fec.Uncorrectable)
	return received[:c.k].Clone(), fec.Uncorrectable, nil
}

func (c *Codec) MessageLength() int {
	return c.k
}

func (c *Codec) CodewordLength() int {
	return c.n
}

// T is the number of errors the code corrects.
func (c *Codec) T() int {
	return c.t
}

// Generator is the generator polynomial, highest order coefficient first.
func (c *Codec) Generator() fec.Bits {
	return c.generator.Clone()
}

func (c *Codec) String() string {
	return fmt.Sprintf("galois(%v,%v)", c.n, c.k)
}
