package simulate

import (
	"testing"

	"github.com/nathanhack/fecsim/cmd/internal/tools"
	"github.com/nathanhack/fecsim/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func command() *cobra.Command {
	cmd := &cobra.Command{Use: "simulate"}
	cmd.Flags().IntVar(&Blocks, "blocks", 10000, "")
	cmd.Flags().Int64Var(&Seed, "seed", 0, "")
	cmd.Flags().IntVar(&Hamming, "hamming", 0, "")
	cmd.Flags().IntVar(&BitFlip, "bit-flip", 0, "")
	cmd.Flags().StringVar(&Strategy, "strategy", "polynomial", "")
	cmd.Flags().Float64SliceVar(&ErrorProbability, "probability", nil, "")
	return cmd
}

func TestOverrides(t *testing.T) {
	cmd := command()
	require.NoError(t, cmd.ParseFlags([]string{"--blocks", "50", "--strategy", "galois", "--probability", "0.1,0.2"}))

	c := config.Default()
	Overrides(cmd, &c)
	assert.Equal(t, 50, c.Simulation.Blocks)
	assert.Equal(t, "galois", c.Code.Strategy)
	assert.Equal(t, []float64{0.1, 0.2}, c.Channel.ErrorProbabilities)
	assert.Equal(t, int64(0), c.Simulation.Seed)
	assert.Equal(t, 0, c.Code.Hamming)
}

func TestLoadConfig_Invalid(t *testing.T) {
	ConfigFile = ""
	cmd := command()
	require.NoError(t, cmd.ParseFlags([]string{"--blocks", "0"}))
	_, err := LoadConfig(cmd)
	assert.Error(t, err)
}

func TestCompatible(t *testing.T) {
	c := config.Default()
	previous := tools.NewSweepResults(c)
	previous.Config.Simulation.Seed = 42

	assert.False(t, compatible(nil, c))
	assert.True(t, compatible(previous, c))

	seeded := c
	seeded.Simulation.Seed = 42
	assert.True(t, compatible(previous, seeded))
	seeded.Simulation.Seed = 43
	assert.False(t, compatible(previous, seeded))

	changed := c
	changed.Code.K = 7
	assert.False(t, compatible(previous, changed))

	probabilities := c
	probabilities.Channel.ErrorProbabilities = []float64{0.3}
	assert.True(t, compatible(previous, probabilities))
}
