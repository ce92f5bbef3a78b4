package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nathanhack/fecsim/fec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 15, c.Code.N)
	assert.Equal(t, 5, c.Code.K)
	assert.Equal(t, 3, c.Code.Repetitions)
	assert.Equal(t, 10000, c.Simulation.Blocks)
	assert.Equal(t, []float64{1e-6, 0.005, 0.01, 0.015, 0.02, 0.025, 0.03, 0.035, 0.04, 0.045, 0.05}, c.Channel.ErrorProbabilities)
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"k not below n", func(c *Config) { c.Code.K = 15 }, "code.k"},
		{"k zero", func(c *Config) { c.Code.K = 0 }, "code.k"},
		{"n too large", func(c *Config) { c.Code.N = 300 }, "code.n"},
		{"generator not binary", func(c *Config) { c.Code.Generator = "10x1" }, "code.generator"},
		{"generator leading zero", func(c *Config) { c.Code.Generator = "011" }, "code.generator"},
		{"generator too long", func(c *Config) { c.Code.N, c.Code.K = 7, 5 }, "code.generator"},
		{"strategy", func(c *Config) { c.Code.Strategy = "ldpc" }, "code.strategy"},
		{"repetitions", func(c *Config) { c.Code.Repetitions = 0 }, "code.repetitions"},
		{"probability", func(c *Config) { c.Channel.ErrorProbabilities = []float64{0.1, 1.2} }, "channel.error_probabilities[1]"},
		{"no probabilities", func(c *Config) { c.Channel.ErrorProbabilities = []float64{} }, "channel.error_probabilities"},
		{"transition", func(c *Config) { c.Channel.GoodToBad = 2 }, "channel.good_to_bad"},
		{"blocks", func(c *Config) { c.Simulation.Blocks = 0 }, "simulation.blocks"},
		{"threads", func(c *Config) { c.Simulation.Threads = -1 }, "simulation.threads"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := Default()
			test.modify(&c)
			err := c.Validate()
			var configErr *fec.ConfigurationError
			require.ErrorAs(t, err, &configErr)
			assert.Equal(t, test.field, configErr.Field)
		})
	}
}

func TestValidate_BlocksOptionalWithData(t *testing.T) {
	c := Default()
	c.Simulation.Blocks = 0
	c.Simulation.DataPath = "data.txt"
	assert.NoError(t, c.Validate())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
code:
  n: 15
  k: 7
  strategy: galois
channel:
  error_probabilities: [0.01, 0.02]
simulation:
  seed: 99
`), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, c.Code.K)
	assert.Equal(t, "galois", c.Code.Strategy)
	assert.Equal(t, "1011", c.Code.Generator)
	assert.Equal(t, []float64{0.01, 0.02}, c.Channel.ErrorProbabilities)
	assert.Equal(t, int64(99), c.Simulation.Seed)
	assert.Equal(t, 3.0, c.Channel.BadErrorRatio)

	sweep := c.Sweep(nil)
	assert.Equal(t, 7, sweep.K)
	assert.Equal(t, fec.MustParse("1011"), sweep.Generator)
}

func TestLoad_KeepsDefaultProbabilities(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	require.NoError(t, os.WriteFile(path, []byte("code:\n  repetitions: 5\n"), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Code.Repetitions)
	assert.Equal(t, DefaultErrorProbabilities(), c.Channel.ErrorProbabilities)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	require.NoError(t, os.WriteFile(path, []byte("code:\n  k: 20\n"), 0644))

	_, err := Load(path)
	var configErr *fec.ConfigurationError
	require.ErrorAs(t, err, &configErr)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	c := Default()
	c.Code.Hamming = 3
	require.NoError(t, c.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
}
