package data

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/nathanhack/fecsim/dataset"
	"github.com/spf13/cobra"
)

var (
	Rows  int
	Width int
	Seed  int64
)

// DataRun writes a file of random 0/1 rows usable as simulation input.
var DataRun = func(cmd *cobra.Command, args []string) {
	seed := Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	f, err := os.Create(args[0])
	if err != nil {
		fmt.Println(err)
		return
	}
	defer f.Close()

	if err := dataset.Generate(f, Rows, Width, rand.New(rand.NewSource(seed))); err != nil {
		fmt.Println("unable to write data: ", err)
		return
	}
	fmt.Printf("%v rows of %v bits written to %v (seed %v)\n", Rows, Width, args[0], seed)
}
