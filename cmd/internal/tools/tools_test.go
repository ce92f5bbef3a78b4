package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/nathanhack/fecsim/benchmarking"
	"github.com/nathanhack/fecsim/config"
	"github.com/nathanhack/fecsim/linearblock/hamming"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func results() *SweepResults {
	r := NewSweepResults(config.Default())
	r.Update(benchmarking.Record{
		ErrorProbability: 0.05,
		Seed:             7,
		Pairs: map[string]benchmarking.Stats{
			"bch/bsc": {Blocks: 2, Bits: 10, IncorrectBits: 1, ErrorRate: 0.1, Histogram: map[int]int{0: 1, 1: 1}},
		},
	})
	r.Update(benchmarking.Record{
		ErrorProbability: 1e-6,
		Seed:             7,
		Pairs: map[string]benchmarking.Stats{
			"repetition/bsc": {Blocks: 2, Bits: 10, Histogram: map[int]int{0: 2}},
		},
	})
	return r
}

func TestSweepResults_JSON(t *testing.T) {
	expected := results()
	bs, err := json.Marshal(expected)
	require.NoError(t, err)
	assert.Contains(t, string(bs), `"1e-06"`)

	var actual SweepResults
	require.NoError(t, json.Unmarshal(bs, &actual))
	assert.Equal(t, expected.RunID, actual.RunID)
	assert.Equal(t, expected.Config, actual.Config)
	assert.Equal(t, []float64{1e-6, 0.05}, actual.Probabilities())
	assert.Equal(t, 1, actual.Records[0.05].Pairs["bch/bsc"].IncorrectBits)
	assert.Equal(t, map[int]int{0: 1, 1: 1}, actual.Records[0.05].Pairs["bch/bsc"].Histogram)
}

func TestSweepResults_ListAndPairs(t *testing.T) {
	r := results()
	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, 1e-6, list[0].ErrorProbability)
	assert.Equal(t, []string{"bch/bsc", "repetition/bsc"}, r.Pairs())
}

func TestSaveLoadResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	missing, err := LoadResults(path)
	require.NoError(t, err)
	assert.Nil(t, missing)

	expected := results()
	require.NoError(t, SaveResults(path, expected))
	actual, err := LoadResults(path)
	require.NoError(t, err)
	assert.Equal(t, expected.RunID, actual.RunID)
	assert.Equal(t, expected.Probabilities(), actual.Probabilities())
}

func TestLoadLinearBlockECC(t *testing.T) {
	block, err := hamming.New(context.Background(), 3, 0)
	require.NoError(t, err)
	bs, err := json.Marshal(block)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "hamming.json")
	require.NoError(t, os.WriteFile(path, bs, 0644))

	loaded, err := LoadLinearBlockECC(path)
	require.NoError(t, err)
	assert.True(t, loaded.H.Equals(block.H))
	assert.Equal(t, block.MessageLength(), loaded.MessageLength())

	_, err = LoadLinearBlockECC(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
