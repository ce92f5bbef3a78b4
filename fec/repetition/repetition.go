// Package repetition implements the repetition code: every bit is sent
// several times and recovered by majority vote.
package repetition

import (
	"github.com/nathanhack/fecsim/fec"
	"github.com/nathanhack/fecsim/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Encode replicates each bit of message repeats times.
func Encode(message fec.Bits, repeats int) fec.Bits {
	if repeats < 1 {
		return fec.Bits{}
	}
	encoded := make(fec.Bits, 0, len(message)*repeats)
	for _, bit := range message {
		for r := 0; r < repeats; r++ {
			encoded = append(encoded, bit)
		}
	}
	return encoded
}

// Decode splits received into consecutive groups of repeats bits and takes
// the majority of each group. A group is 1 only when its ones strictly
// outnumber its zeros, so ties decode to 0.
//
// When len(received) is not a multiple of repeats the trailing group is
// shorter and is voted over the bits it has; its tie rule is unchanged.
//
// The outcome is Clean when every group was unanimous, Uncorrectable when
// any group tied and Corrected otherwise.
func Decode(received fec.Bits, repeats int) (fec.Bits, fec.Outcome) {
	if repeats < 1 {
		return fec.Bits{}, fec.Clean
	}
	decoded := make(fec.Bits, 0, (len(received)+repeats-1)/repeats)
	outcome := fec.Clean
	for i := 0; i < len(received); i += repeats {
		group := received[i:min(i+repeats, len(received))]
		ones := group.Weight()
		zeros := len(group) - ones

		if ones > zeros {
			decoded = append(decoded, 1)
		} else {
			decoded = append(decoded, 0)
		}

		switch {
		case ones == zeros:
			outcome = fec.Uncorrectable
		case ones != 0 && zeros != 0 && outcome == fec.Clean:
			outcome = fec.Corrected
		}
	}
	return decoded, outcome
}

// Codec is the repetition code over fixed K bit messages.
type Codec struct {
	k       int
	repeats int
}

// New creates a repetition codec for k bit messages with each bit sent
// repeats times.
func New(k, repeats int) (*Codec, error) {
	if k < 1 {
		return nil, fec.Configf("k", "message length must be >0 but found %v", k)
	}
	if repeats < 1 {
		return nil, fec.Configf("repeats", "repetition count must be >0 but found %v", repeats)
	}
	return &Codec{k: k, repeats: repeats}, nil
}

func (c *Codec) Encode(message fec.Bits) (fec.Bits, error) {
	if len(message) != c.k {
		return nil, &fec.LengthError{Kind: "message", Expected: c.k, Actual: len(message)}
	}
	return Encode(message, c.repeats), nil
}

func (c *Codec) Decode(received fec.Bits) (fec.Bits, fec.Outcome, error) {
	if len(received) != c.CodewordLength() {
		return nil, fec.Clean, &fec.LengthError{Kind: "codeword", Expected: c.CodewordLength(), Actual: len(received)}
	}
	decoded, outcome := Decode(received, c.repeats)
	if outcome == fec.Uncorrectable {
		logrus.WithFields(logrus.Fields{
			"codec":    c.String(),
			"received": received.String(),
		}).Debug("repetition vote tied, resolved to 0")
	}
	metrics.ObserveDecode(c.String(), outcome)
	return decoded, outcome, nil
}

func (c *Codec) MessageLength() int {
	return c.k
}

func (c *Codec) CodewordLength() int {
	return c.k * c.repeats
}

func (c *Codec) Repeats() int {
	return c.repeats
}

func (c *Codec) String() string {
	return "repetition"
}
