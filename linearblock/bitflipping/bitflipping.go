// Package bitflipping decodes linear block codes by repeatedly flipping the
// bit that takes part in the most unsatisfied parity checks.
package bitflipping

import (
	"fmt"

	"github.com/nathanhack/fecsim/fec"
	"github.com/nathanhack/fecsim/internal/metrics"
	"github.com/nathanhack/fecsim/linearblock"
	"github.com/sirupsen/logrus"
)

// Codec pairs a linear block code with Gallager hard-decision bit flipping.
type Codec struct {
	block   *linearblock.LinearBlock
	checks  *gallager
	maxIter int
}

func New(block *linearblock.LinearBlock, maxIter int) (*Codec, error) {
	if maxIter < 0 {
		return nil, fec.Configf("iterations", "must be >=0 but found %v", maxIter)
	}
	return &Codec{
		block:   block,
		checks:  newGallager(block.H),
		maxIter: maxIter,
	}, nil
}

func (c *Codec) Encode(message fec.Bits) (fec.Bits, error) {
	return c.block.Encode(message)
}

// Decode returns the message of the codeword the flipping converged to. When
// it does not converge within the iteration limit the outcome is
// Uncorrectable and the message is taken from received unchanged.
func (c *Codec) Decode(received fec.Bits) (fec.Bits, fec.Outcome, error) {
	message, outcome, _, err := c.DecodeFlips(received)
	return message, outcome, err
}

// DecodeFlips is Decode that also reports how many bits were flipped.
func (c *Codec) DecodeFlips(received fec.Bits) (fec.Bits, fec.Outcome, int, error) {
	if len(received) != c.CodewordLength() {
		return nil, fec.Clean, 0, &fec.LengthError{Kind: "codeword", Expected: c.CodewordLength(), Actual: len(received)}
	}

	codeword := received.Clone()
	flips, converged := c.checks.decode(codeword, c.maxIter)

	outcome := fec.Corrected
	switch {
	case flips == 0 && converged:
		outcome = fec.Clean
	case !converged:
		outcome = fec.Uncorrectable
		codeword = received
	}
	if flips > 0 {
		logrus.WithFields(logrus.Fields{
			"codec":   c.String(),
			"flips":   flips,
			"outcome": outcome,
		}).Debug("bit flipping")
	}
	metrics.ObserveDecode(c.String(), outcome)
	return c.block.Extract(codeword), outcome, flips, nil
}

func (c *Codec) MessageLength() int {
	return c.block.MessageLength()
}

func (c *Codec) CodewordLength() int {
	return c.block.CodewordLength()
}

func (c *Codec) String() string {
	return fmt.Sprintf("bitflipping(%v,%v)", c.CodewordLength(), c.MessageLength())
}
