package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/nathanhack/fecsim/cmd/internal/tools/simulate"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fecsim",
	Short: "Forward error correction simulator",
	Long: `fecsim compares forward error correcting codes over noisy channels. It sweeps
repetition, BCH and Hamming codes across binary symmetric and Gilbert-Elliott
channels and reports the residual bit error rates.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		} else {
			logrus.SetLevel(logrus.InfoLevel)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose info")
	rootCmd.PersistentFlags().StringVarP(&simulate.ConfigFile, "config", "c", "", "YAML sweep configuration (defaults are used when empty)")
}
