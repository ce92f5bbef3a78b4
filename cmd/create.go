package cmd

import (
	"github.com/nathanhack/fecsim/cmd/internal/create/data"
	"github.com/nathanhack/fecsim/cmd/internal/create/hamming"

	"github.com/spf13/cobra"
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "used to create input data and ECCs",
	Long:  `create makes random message data for the simulator and saves built-in linear block ECCs so they can be inspected later by the tools.`,
}

// createDataCmd represents the data command
var createDataCmd = &cobra.Command{
	Use:     "data OUTPUT_DATA_FILE",
	Aliases: []string{"d"},
	Short:   "Creates a file of random 0/1 rows",
	Long:    `Creates a newline delimited file of random 0/1 rows that can be used as simulation input.`,
	Args:    cobra.ExactArgs(1),
	Run:     data.DataRun,
}

// createlinearblockCmd represents the linearblock command
var createlinearblockCmd = &cobra.Command{
	Use:     "linearblock",
	Aliases: []string{"lb", "l"},
	Short:   "creates linearblock ECCs",
	Long:    `Creates linearblock ECCs.`,
}

// createHammingCmd represents the Hamming command
var createHammingCmd = &cobra.Command{
	Use:     "hamming OUTPUT_HAMMING_JSON",
	Aliases: []string{"h", "ham"},
	Short:   "Creates a new Hamming code based ECC",
	Long:    `Creates a new Hamming code based ECC.`,
	Args:    cobra.ExactArgs(1),
	Run:     hamming.HammingRun,
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.AddCommand(createDataCmd)
	createDataCmd.Flags().IntVarP(&data.Rows, "rows", "r", 1000, "the number of rows")
	createDataCmd.Flags().IntVarP(&data.Width, "width", "w", 64, "the number of bits per row")
	createDataCmd.Flags().Int64VarP(&data.Seed, "seed", "s", 0, "random seed; note 0 means a time based seed")

	createCmd.AddCommand(createlinearblockCmd)
	createlinearblockCmd.AddCommand(createHammingCmd)
	createHammingCmd.Flags().UintVarP(&hamming.ParityBits, "parity", "p", 4, "the parity >=2, sets codeword size (cs) == 2^parity-1 and message size == cs-parity")
	createHammingCmd.Flags().UintVarP(&hamming.Threads, "threads", "t", 0, "the number of threads to use; note 0 means use the number of cpus")
}
