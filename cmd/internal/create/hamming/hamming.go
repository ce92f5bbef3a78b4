package hamming

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nathanhack/fecsim/linearblock/hamming"
	"github.com/spf13/cobra"
)

var (
	ParityBits uint
	Threads    uint
)

var HammingRun = func(cmd *cobra.Command, args []string) {
	g, err := hamming.New(cmd.Context(), int(ParityBits), int(Threads))
	if err != nil {
		fmt.Println("Unable to create hamming code: ", err)
		return
	}

	bs, err := json.Marshal(g)
	if err != nil {
		fmt.Println("Unable to serialize the hamming code: ", err)
		return
	}

	err = os.WriteFile(args[0], bs, 0644)
	if err != nil {
		fmt.Println("unable to write file: ", err)
		return
	}
	fmt.Printf("%v written to %v\n", g.Name(), args[0])
}
