package channel

import (
	"fmt"
	"math/rand"

	"github.com/nathanhack/fecsim/fec"
)

// State is the hidden state of a GilbertElliott channel.
type State int

const (
	Good State = iota
	Bad
)

func (s State) String() string {
	switch s {
	case Good:
		return "good"
	case Bad:
		return "bad"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// GilbertElliottParams are the flip probability in each state and the
// per bit transition probabilities between them.
type GilbertElliottParams struct {
	PGood     float64
	PBad      float64
	GoodToBad float64
	BadToGood float64
}

func (p GilbertElliottParams) Validate() error {
	for _, c := range []struct {
		field string
		value float64
	}{
		{"p_good", p.PGood},
		{"p_bad", p.PBad},
		{"good_to_bad", p.GoodToBad},
		{"bad_to_good", p.BadToGood},
	} {
		if err := fec.CheckProbability(c.field, c.value); err != nil {
			return err
		}
	}
	return nil
}

// GilbertElliott is a two state Markov channel producing bursts of errors.
// It starts Good and its state carries over between Transmit calls.
// A GilbertElliott is not safe for concurrent use.
type GilbertElliott struct {
	params GilbertElliottParams
	state  State
	rng    *rand.Rand
}

func NewGilbertElliott(params GilbertElliottParams, rng *rand.Rand) (*GilbertElliott, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fec.Configf("rng", "random source required")
	}
	return &GilbertElliott{params: params, state: Good, rng: rng}, nil
}

// Transmit flips each bit with the probability of the current state and
// then makes at most one state transition before the next bit.
func (c *GilbertElliott) Transmit(input fec.Bits) fec.Bits {
	output := input.Clone()
	for i := range output {
		p, leave := c.params.PGood, c.params.GoodToBad
		if c.state == Bad {
			p, leave = c.params.PBad, c.params.BadToGood
		}

		if c.rng.Float64() < p {
			output[i] ^= 1
		}
		if c.rng.Float64() < leave {
			c.state = 1 - c.state
		}
	}
	return output
}

func (c *GilbertElliott) State() State {
	return c.state
}

func (c *GilbertElliott) Params() GilbertElliottParams {
	return c.params
}

func (c *GilbertElliott) String() string {
	return fmt.Sprintf("gilbert-elliott(p_good=%v,p_bad=%v,g2b=%v,b2g=%v)",
		c.params.PGood, c.params.PBad, c.params.GoodToBad, c.params.BadToGood)
}
