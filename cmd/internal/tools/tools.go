package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/nathanhack/fecsim/benchmarking"
	"github.com/nathanhack/fecsim/config"
	"github.com/nathanhack/fecsim/linearblock"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// SweepResults is the on-disk form of a sweep, keyed by error probability.
type SweepResults struct {
	RunID   uuid.UUID
	Config  config.Config
	Records map[float64]benchmarking.Record
}

type sweepResults struct {
	RunID   uuid.UUID
	Config  config.Config
	Records map[string]benchmarking.Record
}

func NewSweepResults(c config.Config) *SweepResults {
	return &SweepResults{
		RunID:   uuid.New(),
		Config:  c,
		Records: map[float64]benchmarking.Record{},
	}
}

func (s *SweepResults) MarshalJSON() ([]byte, error) {
	ss := sweepResults{
		RunID:   s.RunID,
		Config:  s.Config,
		Records: map[string]benchmarking.Record{},
	}

	for f, record := range s.Records {
		ss.Records[fmt.Sprintf("%v", f)] = record
	}

	return json.Marshal(ss)
}

func (s *SweepResults) UnmarshalJSON(bytes []byte) error {
	var ss sweepResults

	err := json.Unmarshal(bytes, &ss)
	if err != nil {
		return err
	}

	s.RunID = ss.RunID
	s.Config = ss.Config
	s.Records = map[float64]benchmarking.Record{}

	for fs, record := range ss.Records {
		f, err := strconv.ParseFloat(fs, 64)
		if err != nil {
			return err
		}
		s.Records[f] = record
	}
	return nil
}

// Update replaces the record for its error probability.
func (s *SweepResults) Update(record benchmarking.Record) {
	if s.Records == nil {
		s.Records = map[float64]benchmarking.Record{}
	}
	s.Records[record.ErrorProbability] = record
}

// Probabilities lists the recorded error probabilities in increasing order.
func (s *SweepResults) Probabilities() []float64 {
	ps := maps.Keys(s.Records)
	slices.Sort(ps)
	return ps
}

// List returns the records sorted by error probability.
func (s *SweepResults) List() []benchmarking.Record {
	records := make([]benchmarking.Record, 0, len(s.Records))
	for _, p := range s.Probabilities() {
		records = append(records, s.Records[p])
	}
	return records
}

// Pairs lists every method/channel pair found in any record.
func (s *SweepResults) Pairs() []string {
	seen := map[string]bool{}
	for _, r := range s.Records {
		for pair := range r.Pairs {
			seen[pair] = true
		}
	}
	pairs := maps.Keys(seen)
	slices.Sort(pairs)
	return pairs
}

func LoadLinearBlockECC(filepath string) (*linearblock.LinearBlock, error) {
	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		return nil, fmt.Errorf("the ECC_JSON_FILE must exist")
	}

	bs, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("error while reading file %v: %w", filepath, err)
	}

	var ecc linearblock.LinearBlock
	err = json.Unmarshal(bs, &ecc)
	if err != nil {
		return nil, fmt.Errorf("error while reading file %v: %w", filepath, err)
	}

	return &ecc, nil
}

// LoadResults returns nil without an error when filepath does not exist.
func LoadResults(filepath string) (*SweepResults, error) {
	bs, err := os.ReadFile(filepath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error while reading file %v: %w", filepath, err)
	}

	var results SweepResults
	err = json.Unmarshal(bs, &results)
	if err != nil {
		return nil, fmt.Errorf("error while unmarshalling file %v: %w", filepath, err)
	}
	return &results, nil
}

func SaveResults(filepath string, data *SweepResults) error {
	bs, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("error serializing results: %w", err)
	}

	err = os.WriteFile(filepath, bs, 0644)
	if err != nil {
		return fmt.Errorf("error while saving results to %v: %w", filepath, err)
	}
	return nil
}
