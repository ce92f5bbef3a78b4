// Package simulation runs messages through encode, transmit, decode and
// error counting, keeping running totals per driver.
package simulation

import (
	"context"
	"fmt"

	"github.com/nathanhack/fecsim/accounting"
	"github.com/nathanhack/fecsim/fec"
	"github.com/nathanhack/fecsim/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Result is the outcome of one block.
type Result struct {
	Errors        int // message bits wrong after decoding
	Decoded       fec.Bits
	ChannelOutput fec.Bits
	Encoded       fec.Bits
	Outcome       fec.Outcome
}

// Totals accumulate over every block a Driver has run.
type Totals struct {
	Blocks    int
	Bits      int // message bits sent
	Errors    int
	Outcomes  map[fec.Outcome]int
	Histogram map[int]int // residual errors per block -> number of blocks
}

// ErrorRate is Errors/Bits, or 0 before any bits were sent.
func (t Totals) ErrorRate() float64 {
	if t.Bits == 0 {
		return 0
	}
	return float64(t.Errors) / float64(t.Bits)
}

func (t Totals) String() string {
	return fmt.Sprintf("{Blocks:%v, Bits:%v, Errors:%v, Rate:%0.06f, Outcomes:%v}",
		t.Blocks, t.Bits, t.Errors, t.ErrorRate(), t.Outcomes)
}

type Option func(*Driver)

// WithCounter replaces the strict accounting.Count.
func WithCounter(counter accounting.Func) Option {
	return func(d *Driver) {
		d.counter = counter
	}
}

// WithLabel names the driver in log records and Prometheus block counters.
func WithLabel(label string) Option {
	return func(d *Driver) {
		d.label = label
	}
}

// Driver wires a codec to a channel. It is not safe for concurrent use;
// run one driver per goroutine.
type Driver struct {
	codec   fec.Codec
	channel fec.Channel
	counter accounting.Func
	label   string
	totals  Totals
}

func New(codec fec.Codec, channel fec.Channel, opts ...Option) *Driver {
	d := &Driver{
		codec:   codec,
		channel: channel,
		counter: accounting.Count,
		totals: Totals{
			Outcomes:  map[fec.Outcome]int{},
			Histogram: map[int]int{},
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run sends one message through the pipeline. Length errors from the codec
// are returned unchanged and leave the totals untouched.
func (d *Driver) Run(message fec.Bits) (Result, error) {
	encoded, err := d.codec.Encode(message)
	if err != nil {
		return Result{}, err
	}

	received := d.channel.Transmit(encoded)

	decoded, outcome, err := d.codec.Decode(received)
	if err != nil {
		return Result{}, err
	}

	errors, err := d.counter(message, decoded)
	if err != nil {
		return Result{}, err
	}

	d.totals.Blocks++
	d.totals.Bits += len(message)
	d.totals.Errors += errors
	d.totals.Outcomes[outcome]++
	d.totals.Histogram[errors]++
	if d.label != "" {
		metrics.ObserveBlock(d.label, errors)
	}

	return Result{
		Errors:        errors,
		Decoded:       decoded,
		ChannelOutput: received,
		Encoded:       encoded,
		Outcome:       outcome,
	}, nil
}

// RunAll runs every message in order and stops early when ctx is done,
// returning ctx.Err().
func (d *Driver) RunAll(ctx context.Context, messages []fec.Bits) error {
	for i, m := range messages {
		select {
		case <-ctx.Done():
			logrus.Debugf("%v: stopped after %v of %v blocks", d.label, i, len(messages))
			return ctx.Err()
		default:
		}
		if _, err := d.Run(m); err != nil {
			return fmt.Errorf("block %v: %w", i, err)
		}
	}
	return nil
}

// Totals returns a copy of the running totals.
func (d *Driver) Totals() Totals {
	t := d.totals
	t.Outcomes = make(map[fec.Outcome]int, len(d.totals.Outcomes))
	for k, v := range d.totals.Outcomes {
		t.Outcomes[k] = v
	}
	t.Histogram = make(map[int]int, len(d.totals.Histogram))
	for k, v := range d.totals.Histogram {
		t.Histogram[k] = v
	}
	return t
}

func (d *Driver) Codec() fec.Codec {
	return d.codec
}

func (d *Driver) Channel() fec.Channel {
	return d.channel
}
