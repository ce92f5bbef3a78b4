package inspect

import (
	"fmt"

	"github.com/nathanhack/fecsim/benchmarking"
	"github.com/nathanhack/fecsim/cmd/internal/tools"
	"github.com/nathanhack/fecsim/cmd/internal/tools/simulate"
	"github.com/nathanhack/fecsim/fec"
	"github.com/nathanhack/fecsim/fec/bch"
	"github.com/nathanhack/fecsim/linearblock"
	"github.com/spf13/cobra"
)

var (
	ECCFile    string
	ShowMatrix bool
)

// InspectRun prints the structural properties of the configured BCH codec,
// or of a saved linear block ECC when ECCFile is set.
var InspectRun = func(cmd *cobra.Command, args []string) {
	var l *linearblock.LinearBlock
	var err error

	if ECCFile != "" {
		l, err = tools.LoadLinearBlockECC(ECCFile)
		if err != nil {
			fmt.Println(err)
			return
		}
	} else {
		c, err := simulate.LoadConfig(cmd)
		if err != nil {
			fmt.Println("invalid configuration: ", err)
			return
		}
		codec, err := benchmarking.NewBCH(c.Code.Strategy, c.Code.N, c.Code.K, fec.MustParse(c.Code.Generator))
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Printf("codec: %v rate=%0.04f\n", codec, fec.CodeRate(codec))
		if g, ok := codec.(*bch.Codec); ok {
			fmt.Printf("generator: %v t=%v\n", g.Generator(), g.T())
		}
		l, err = linearblock.FromCodec(codec)
		if err != nil {
			fmt.Println(err)
			return
		}
	}

	ctx := cmd.Context()
	threads := simulate.Threads

	fmt.Printf("ecc: %v rate=%0.04f\n", l.Name(), l.CodeRate())
	fmt.Printf("orthogonal: %v\n", l.Validate())

	rank, err := l.Rank(ctx, threads)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("rank(H): %v\n", rank)

	if d, err := l.MinimumDistance(); err != nil {
		fmt.Printf("minimum distance: %v\n", err)
	} else {
		fmt.Printf("minimum distance: %v (corrects %v)\n", d, (d-1)/2)
	}

	if girth := l.Girth(ctx, threads); girth < 0 {
		fmt.Println("girth: none")
	} else {
		fmt.Printf("girth: %v\n", girth)
	}

	if ShowMatrix {
		fmt.Println(l)
	}
}
