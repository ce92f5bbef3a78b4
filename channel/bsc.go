// Package channel models noisy binary channels. Every channel owns its random
// source so concurrent simulations never share one.
package channel

import (
	"fmt"
	"math/rand"

	"github.com/nathanhack/fecsim/fec"
)

// BSC is the binary symmetric channel: each bit is flipped independently
// with probability P.
type BSC struct {
	p   float64
	rng *rand.Rand
}

// NewBSC creates a BSC drawing from rng. p must lie in [0,1].
func NewBSC(p float64, rng *rand.Rand) (*BSC, error) {
	if err := fec.CheckProbability("error probability", p); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fec.Configf("rng", "random source required")
	}
	return &BSC{p: p, rng: rng}, nil
}

func (c *BSC) Transmit(input fec.Bits) fec.Bits {
	output := input.Clone()
	for i := range output {
		if c.rng.Float64() < c.p {
			output[i] ^= 1
		}
	}
	return output
}

func (c *BSC) P() float64 {
	return c.p
}

func (c *BSC) String() string {
	return fmt.Sprintf("bsc(p=%v)", c.p)
}
