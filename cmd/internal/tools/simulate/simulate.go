package simulate

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/nathanhack/fecsim/benchmarking"
	"github.com/nathanhack/fecsim/cmd/internal/tools"
	"github.com/nathanhack/fecsim/config"
	"github.com/nathanhack/fecsim/dataset"
	"github.com/nathanhack/fecsim/fec"
	"github.com/nathanhack/fecsim/internal/metrics"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	ConfigFile       string
	DataFile         string
	Blocks           int
	Seed             int64
	Threads          int
	Strategy         string
	Hamming          int
	BitFlip          int
	ErrorProbability []float64
	MetricsAddr      string
)

// Overrides applies every flag the user set on top of c.
func Overrides(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("data") {
		c.Simulation.DataPath = DataFile
	}
	if flags.Changed("blocks") {
		c.Simulation.Blocks = Blocks
	}
	if flags.Changed("seed") {
		c.Simulation.Seed = Seed
	}
	if flags.Changed("threads") {
		c.Simulation.Threads = Threads
	}
	if flags.Changed("strategy") {
		c.Code.Strategy = Strategy
	}
	if flags.Changed("hamming") {
		c.Code.Hamming = Hamming
	}
	if flags.Changed("bit-flip") {
		c.Code.BitFlip = BitFlip
	}
	// tools run binds a single float to --probability; only the sweep list
	// replaces the configured probabilities
	if f := flags.Lookup("probability"); f != nil && f.Changed && f.Value.Type() == "float64Slice" {
		c.Channel.ErrorProbabilities = ErrorProbability
	}
}

// LoadConfig reads ConfigFile, or the defaults when it is empty, and applies
// the flag overrides.
func LoadConfig(cmd *cobra.Command) (config.Config, error) {
	c := config.Default()
	if ConfigFile != "" {
		var err error
		c, err = config.Load(ConfigFile)
		if err != nil {
			return config.Config{}, err
		}
	}
	Overrides(cmd, &c)
	return c, c.Validate()
}

// compatible reports whether records of previous can be reused for c.
func compatible(previous *tools.SweepResults, c config.Config) bool {
	if previous == nil || previous.Config.Code != c.Code {
		return false
	}
	p, n := previous.Config, c
	return p.Channel.BadErrorRatio == n.Channel.BadErrorRatio &&
		p.Channel.GoodToBad == n.Channel.GoodToBad &&
		p.Channel.BadToGood == n.Channel.BadToGood &&
		p.Simulation.DataPath == n.Simulation.DataPath &&
		p.Simulation.Blocks == n.Simulation.Blocks &&
		(n.Simulation.Seed == 0 || p.Simulation.Seed == n.Simulation.Seed)
}

var SimulateRun = func(cmd *cobra.Command, args []string) {
	c, err := LoadConfig(cmd)
	if err != nil {
		fmt.Println("invalid configuration: ", err)
		return
	}

	var messages []fec.Bits
	if c.Simulation.DataPath != "" {
		messages, err = dataset.Read(c.Simulation.DataPath)
		if err != nil {
			fmt.Println(err)
			return
		}
		if len(messages) == 0 {
			fmt.Println("no valid rows in ", c.Simulation.DataPath)
			return
		}
	}

	previous, err := tools.LoadResults(args[0])
	if err != nil {
		fmt.Println(err)
		return
	}

	results := tools.NewSweepResults(c)
	var previousRecords []benchmarking.Record
	if compatible(previous, c) {
		logrus.Infof("continuing run %v", previous.RunID)
		results = previous
		c.Simulation.Seed = previous.Config.Simulation.Seed
		results.Config = c
		previousRecords = previous.List()
	} else if previous != nil {
		logrus.Infof("configuration changed, starting over %v", args[0])
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		server := &http.Server{Addr: MetricsAddr, Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logrus.Errorf("metrics server: %v", err)
			}
		}()
		defer server.Close()
	}

	sweep := c.Sweep(messages)
	sweep.ShowProgress = isatty.IsTerminal(os.Stdout.Fd())
	sweep.Checkpoints = func(updated benchmarking.Record) {
		results.Update(updated)
		results.Config.Simulation.Seed = updated.Seed
		if err := tools.SaveResults(args[0], results); err != nil {
			logrus.Errorf("checkpoint: %v", err)
		}
	}

	records, err := benchmarking.SweepContinue(ctx, sweep, previousRecords)
	for _, r := range records {
		results.Update(r)
		if r.Seed != 0 {
			results.Config.Simulation.Seed = r.Seed
		}
	}
	if saveErr := tools.SaveResults(args[0], results); saveErr != nil {
		fmt.Println(saveErr)
	}
	if err != nil {
		fmt.Println("sweep stopped: ", err)
	}

	for _, r := range results.List() {
		fmt.Println(r)
	}
}
