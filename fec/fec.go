// Package fec holds the types shared by every code and channel model: the
// bit sequence, the Codec and Channel capabilities, the decode Outcome and
// the error taxonomy.
package fec

import "fmt"

// Codec encodes fixed size messages into codewords and recovers them.
//
// Encode and Decode return a *LengthError when the input does not have
// MessageLength or CodewordLength bits. Decode never fails because of channel
// errors: when it cannot correct the input it returns its best effort message
// together with the Uncorrectable outcome.
type Codec interface {
	Encode(message Bits) (codeword Bits, err error)
	Decode(received Bits) (message Bits, outcome Outcome, err error)
	MessageLength() int
	CodewordLength() int
}

// Channel transmits a sequence and returns what the receiver sees.
// The output always has the same length as the input.
type Channel interface {
	Transmit(input Bits) (output Bits)
}

// Outcome is the terminal branch a decoder took.
type Outcome int

const (
	// Clean means the received word was already a codeword.
	Clean Outcome = iota
	// Corrected means the decoder changed bits to reach a codeword.
	Corrected
	// Uncorrectable means no correction was found; the message returned is
	// the uncorrected best effort.
	Uncorrectable
)

// Outcomes lists every Outcome in order.
var Outcomes = []Outcome{Clean, Corrected, Uncorrectable}

func (o Outcome) String() string {
	switch o {
	case Clean:
		return "clean"
	case Corrected:
		return "corrected"
	case Uncorrectable:
		return "uncorrectable"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Err converts the Uncorrectable outcome into ErrUncorrectable for callers
// that prefer error handling; all other outcomes return nil.
func (o Outcome) Err() error {
	if o == Uncorrectable {
		return ErrUncorrectable
	}
	return nil
}

// CodeRate is k/n for the codec.
func CodeRate(c Codec) float64 {
	return float64(c.MessageLength()) / float64(c.CodewordLength())
}
