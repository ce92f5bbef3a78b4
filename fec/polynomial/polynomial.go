// Package polynomial implements a systematic binary cyclic block code that
// appends the remainder of the message divided by a generator polynomial over
// GF(2) and corrects a single flipped bit by exhaustive search.
package polynomial

import (
	"fmt"

	"github.com/nathanhack/fecsim/fec"
	"github.com/nathanhack/fecsim/internal/metrics"
	"github.com/sirupsen/logrus"
)

// DefaultGenerator is x^3+x+1, highest order coefficient first.
var DefaultGenerator = fec.Bits{1, 0, 1, 1}

// MaxCodewordLength bounds N so a bit position fits in a byte.
const MaxCodewordLength = 256

// Params are the block geometry and generator of a Codec.
type Params struct {
	N         int      // codeword length
	K         int      // message length
	Generator fec.Bits // highest order first; DefaultGenerator when empty
}

// M is the number of parity bits.
func (p Params) M() int {
	return p.N - p.K
}

// Validate checks 0<K<N<=MaxCodewordLength, that the generator is a proper
// binary polynomial with a leading 1 and that its degree fits in N-K.
func (p Params) Validate() error {
	if p.K <= 0 || p.K >= p.N {
		return fec.Configf("k", "0 < k < n required but found n=%v k=%v", p.N, p.K)
	}
	if p.N > MaxCodewordLength {
		return fec.Configf("n", "n <= %v required but found %v", MaxCodewordLength, p.N)
	}
	g := p.Generator
	if len(g) < 2 {
		return fec.Configf("generator", "degree >= 1 required but found %v", g)
	}
	if g[0] != 1 {
		return fec.Configf("generator", "leading coefficient must be 1 but found %v", g)
	}
	for i, v := range g {
		if v > 1 {
			return fec.Configf("generator", "coefficient %v must be 0 or 1 but found %v", i, v)
		}
	}
	if p.M() < len(g)-1 {
		return fec.Configf("generator", "degree %v exceeds n-k=%v", len(g)-1, p.M())
	}
	return nil
}

// Codec is the generator polynomial code. It is immutable and safe for
// concurrent use.
type Codec struct {
	params Params
}

// New validates params and creates a Codec.
func New(params Params) (*Codec, error) {
	if len(params.Generator) == 0 {
		params.Generator = DefaultGenerator
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	params.Generator = params.Generator.Clone()
	return &Codec{params: params}, nil
}

// divide runs the long division in place over the first K positions of buf
// and leaves the remainder in buf[K:].
func (c *Codec) divide(buf fec.Bits) {
	g := c.params.Generator
	for i := 0; i < c.params.K; i++ {
		if buf[i] == 0 {
			continue
		}
		for j, v := range g {
			buf[i+j] ^= v
		}
	}
}

// Encode returns message followed by its N-K bit remainder.
func (c *Codec) Encode(message fec.Bits) (fec.Bits, error) {
	if len(message) != c.params.K {
		return nil, &fec.LengthError{Kind: "message", Expected: c.params.K, Actual: len(message)}
	}
	buf := message.Pad(c.params.N)
	c.divide(buf)

	codeword := make(fec.Bits, 0, c.params.N)
	codeword = append(codeword, message...)
	return append(codeword, buf[c.params.K:]...), nil
}

// Syndrome is the remainder of received, which must have N bits. It is all
// zero exactly when received is a codeword.
func (c *Codec) Syndrome(received fec.Bits) fec.Bits {
	buf := received.Clone()
	c.divide(buf)
	return buf[c.params.K:]
}

// Decode returns the first K bits of the nearest codeword reachable with at
// most one flip. Candidate flips are tried from index 0 upward and the first
// one producing a zero syndrome wins, so when two positions alias the lower
// one is corrected. If no flip works the unmodified message bits are returned
// with the Uncorrectable outcome.
func (c *Codec) Decode(received fec.Bits) (fec.Bits, fec.Outcome, error) {
	if len(received) != c.params.N {
		return nil, fec.Clean, &fec.LengthError{Kind: "codeword", Expected: c.params.N, Actual: len(received)}
	}
	syndrome := c.Syndrome(received)
	if syndrome.IsZero() {
		metrics.ObserveDecode(c.String(), fec.Clean)
		return received[:c.params.K].Clone(), fec.Clean, nil
	}

	for i := 0; i < c.params.N; i++ {
		candidate := received.Flip(i)
		if c.Syndrome(candidate).IsZero() {
			metrics.ObserveDecode(c.String(), fec.Corrected)
			return candidate[:c.params.K], fec.Corrected, nil
		}
	}

	logrus.WithFields(logrus.Fields{
		"codec":    c.String(),
		"syndrome": syndrome.String(),
	}).Debug("no single bit correction found")
	metrics.ObserveDecode(c.String(), fec.Uncorrectable)
	return received[:c.params.K].Clone(), fec.Uncorrectable, nil
}

func (c *Codec) MessageLength() int {
	return c.params.K
}

func (c *Codec) CodewordLength() int {
	return c.params.N
}

// Params returns a copy of the codec parameters.
func (c *Codec) Params() Params {
	p := c.params
	p.Generator = p.Generator.Clone()
	return p
}

func (c *Codec) String() string {
	return fmt.Sprintf("bch(%v,%v)", c.params.N, c.params.K)
}
