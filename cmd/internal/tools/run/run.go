package run

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/nathanhack/fecsim/benchmarking"
	"github.com/nathanhack/fecsim/channel"
	"github.com/nathanhack/fecsim/cmd/internal/tools/simulate"
	"github.com/nathanhack/fecsim/config"
	"github.com/nathanhack/fecsim/fec"
	"github.com/nathanhack/fecsim/fec/repetition"
	"github.com/nathanhack/fecsim/linearblock/bitflipping"
	"github.com/nathanhack/fecsim/linearblock/hamming"
	"github.com/nathanhack/fecsim/simulation"
	"github.com/spf13/cobra"
)

var (
	Method      string
	ChannelName string
	Probability float64
	Flips       int
)

// flips is a channel that flips exactly count distinct bits.
type flips struct {
	count int
	rng   *rand.Rand
}

func (f flips) String() string {
	return fmt.Sprintf("flips(%v)", f.count)
}

func (f flips) Transmit(input fec.Bits) fec.Bits {
	return benchmarking.RandomFlipBitCount(f.rng, input, f.count)
}

// name prefers the short Name of linear block codes over their matrix dump.
func name(v interface{}) string {
	if n, ok := v.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprint(v)
}

func codec(cmd *cobra.Command, c config.Config) (fec.Codec, error) {
	switch Method {
	case benchmarking.Repetition:
		return repetition.New(c.Code.K, c.Code.Repetitions)
	case benchmarking.BCH:
		return benchmarking.NewBCH(c.Code.Strategy, c.Code.N, c.Code.K, fec.MustParse(c.Code.Generator))
	case benchmarking.Hamming, benchmarking.HammingBitFlip:
		parity := c.Code.Hamming
		if parity == 0 {
			parity = 3
		}
		block, err := hamming.New(cmd.Context(), parity, c.Simulation.Threads)
		if err != nil || Method == benchmarking.Hamming {
			return block, err
		}
		iterations := c.Code.BitFlip
		if iterations == 0 {
			iterations = block.CodewordLength()
		}
		return bitflipping.New(block, iterations)
	}
	return nil, fec.Configf("method", "expected %v, %v, %v or %v but found %q",
		benchmarking.Repetition, benchmarking.BCH, benchmarking.Hamming, benchmarking.HammingBitFlip, Method)
}

func transmission(c config.Config, rng *rand.Rand) (fec.Channel, error) {
	if Flips >= 0 {
		return flips{count: Flips, rng: rng}, nil
	}
	sweep := c.Sweep(nil)
	switch ChannelName {
	case benchmarking.BSC:
		return channel.NewBSC(Probability, rng)
	case benchmarking.GilbertElliott:
		return channel.NewGilbertElliott(sweep.GilbertElliottParams(Probability), rng)
	}
	return nil, fec.Configf("channel", "expected %v or %v but found %q", benchmarking.BSC, benchmarking.GilbertElliott, ChannelName)
}

// RunRun sends MESSAGE through one method and channel and prints every stage.
var RunRun = func(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()
	c, err := simulate.LoadConfig(cmd)
	if err != nil {
		fmt.Fprintln(out, "invalid configuration: ", err)
		return
	}

	message, err := fec.Parse(args[0])
	if err != nil {
		fmt.Fprintln(out, err)
		return
	}

	cdc, err := codec(cmd, c)
	if err != nil {
		fmt.Fprintln(out, err)
		return
	}

	seed := c.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	ch, err := transmission(c, rand.New(rand.NewSource(seed)))
	if err != nil {
		fmt.Fprintln(out, err)
		return
	}

	fmt.Fprintf(out, "%v over %v rate=%0.04f\n", name(cdc), ch, fec.CodeRate(cdc))
	driver := simulation.New(cdc, ch)
	for i, block := range message.Chunk(cdc.MessageLength()) {
		result, err := driver.Run(block)
		if err != nil {
			fmt.Fprintln(out, err)
			return
		}
		fmt.Fprintf(out, "block %v\n", i)
		fmt.Fprintf(out, "  message:  %v\n", block)
		fmt.Fprintf(out, "  encoded:  %v\n", result.Encoded)
		fmt.Fprintf(out, "  received: %v\n", result.ChannelOutput)
		fmt.Fprintf(out, "  decoded:  %v (%v)\n", result.Decoded, result.Outcome)
		fmt.Fprintf(out, "  errors:   %v\n", result.Errors)
	}
	fmt.Fprintln(out, driver.Totals())
}
