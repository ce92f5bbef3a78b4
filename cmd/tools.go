package cmd

import (
	"github.com/nathanhack/fecsim/cmd/internal/tools/chart"
	"github.com/nathanhack/fecsim/cmd/internal/tools/csv"
	"github.com/nathanhack/fecsim/cmd/internal/tools/inspect"
	"github.com/nathanhack/fecsim/cmd/internal/tools/run"
	"github.com/nathanhack/fecsim/cmd/internal/tools/simulate"

	"github.com/spf13/cobra"
)

// toolsCmd represents the tools command
var toolsCmd = &cobra.Command{
	Use:     "tools",
	Aliases: []string{"t"},
	Short:   "Tools for ECCs",
	Long:    `Tools for ECCs`,
}

// toolsSimulateCmd represents the simulate command
var toolsSimulateCmd = &cobra.Command{
	Use:     "simulate RESULT_JSON",
	Aliases: []string{"sim", "s"},
	Short:   "Sweeps every code and channel pair over the error probabilities",
	Long: `Sweeps repetition, BCH and optionally Hamming codes over binary symmetric and
Gilbert-Elliott channels. Results are checkpointed to RESULT_JSON; running again
with the same configuration only reruns missing or partial error probabilities.`,
	Args: cobra.ExactArgs(1),
	Run:  simulate.SimulateRun,
}

// toolsRunCmd represents the run command
var toolsRunCmd = &cobra.Command{
	Use:   "run MESSAGE",
	Short: "Sends one message through a code and channel",
	Long:  `Sends one 0/1 message through a code and channel and prints every stage.`,
	Args:  cobra.ExactArgs(1),
	Run:   run.RunRun,
}

// toolsInspectCmd represents the inspect command
var toolsInspectCmd = &cobra.Command{
	Use:     "inspect",
	Aliases: []string{"i"},
	Short:   "Prints the structure of a code",
	Long:    `Prints rank, minimum distance and girth of the configured BCH code or of a saved linearblock ECC.`,
	Args:    cobra.NoArgs,
	Run:     inspect.InspectRun,
}

// toolsResultsCmd represents the results command
var toolsResultsCmd = &cobra.Command{
	Use:     "results",
	Aliases: []string{"r"},
	Short:   "A tool to organize results for graphing and comparison",
	Long:    `A tool to organize results for graphing and comparison`,
}

// toolsCSVCmd represents the csv command
var toolsCSVCmd = &cobra.Command{
	Use:     "csv RESULTS_JSON [RESULTS_JSON] ...",
	Aliases: []string{"c"},
	Short:   "Export to a CSV file",
	Long:    `Export to a CSV file`,
	Run:     csv.CSVRun,
}

// toolsChartCmd represents the chart command
var toolsChartCmd = &cobra.Command{
	Use:   "chart RESULTS_JSON [RESULTS_JSON] ...",
	Short: "Export to an HTML bar chart",
	Long:  `Export the residual error rates of every pair to an HTML bar chart`,
	Run:   chart.ChartRun,
}

func simulationFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&simulate.DataFile, "data", "d", "", "newline delimited 0/1 rows to send instead of random blocks")
	cmd.Flags().IntVarP(&simulate.Blocks, "blocks", "b", 10000, "the number of random blocks per error probability")
	cmd.Flags().Int64VarP(&simulate.Seed, "seed", "s", 0, "random seed; note 0 means a time based seed")
	cmd.Flags().IntVarP(&simulate.Threads, "threads", "t", 0, "number of threads to use (0 means one less than the # of CPUs)")
	cmd.Flags().StringVar(&simulate.Strategy, "strategy", "polynomial", "BCH decoding strategy: polynomial or galois")
	cmd.Flags().IntVar(&simulate.Hamming, "hamming", 0, "adds a hamming code with this many parity bits (0 disables)")
	cmd.Flags().IntVar(&simulate.BitFlip, "bit-flip", 0, "adds the hamming code decoded by at most this many bit flips (0 disables)")
}

func init() {
	rootCmd.AddCommand(toolsCmd)

	toolsCmd.AddCommand(toolsSimulateCmd)
	simulationFlags(toolsSimulateCmd)
	toolsSimulateCmd.Flags().Float64SliceVarP(&simulate.ErrorProbability, "probability", "p", nil, "error probabilities to sweep [0, 1]")
	toolsSimulateCmd.Flags().StringVar(&simulate.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")

	toolsCmd.AddCommand(toolsRunCmd)
	simulationFlags(toolsRunCmd)
	toolsRunCmd.Flags().StringVarP(&run.Method, "method", "m", "bch", "repetition, bch, hamming or hamming-bitflip")
	toolsRunCmd.Flags().StringVar(&run.ChannelName, "channel", "bsc", "bsc or gilbert-elliott")
	toolsRunCmd.Flags().Float64VarP(&run.Probability, "probability", "p", 0.05, "channel error probability")
	toolsRunCmd.Flags().IntVarP(&run.Flips, "flips", "f", -1, "flip exactly this many bits per codeword instead of using the channel")

	toolsCmd.AddCommand(toolsInspectCmd)
	simulationFlags(toolsInspectCmd)
	toolsInspectCmd.Flags().StringVarP(&inspect.ECCFile, "ecc", "e", "", "inspect a saved linearblock ECC_JSON_FILE instead of the BCH code")
	toolsInspectCmd.Flags().BoolVar(&inspect.ShowMatrix, "matrix", false, "print the H and G matrices")

	toolsCmd.AddCommand(toolsResultsCmd)

	toolsResultsCmd.AddCommand(toolsCSVCmd)
	toolsCSVCmd.Flags().StringVarP(&csv.OutputFile, "output", "o", "results.csv", "filename of the combined csv")
	toolsCSVCmd.Flags().BoolVarP(&csv.BlockErrors, "block", "b", false, "outputs the mean residual errors per block instead of the bit error rate")
	toolsCSVCmd.Flags().StringVar(&csv.DistributionFile, "distribution", "", "also write the residual error histogram to this csv")

	toolsResultsCmd.AddCommand(toolsChartCmd)
	toolsChartCmd.Flags().StringVarP(&chart.OutputFile, "output", "o", "results.html", "filename of the chart")
}
