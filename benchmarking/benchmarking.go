// Package benchmarking sweeps every method/channel pair over a list of error
// probabilities and gathers residual error statistics.
package benchmarking

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/nathanhack/avgstd"
	"github.com/nathanhack/fecsim/accounting"
	"github.com/nathanhack/fecsim/channel"
	"github.com/nathanhack/fecsim/fec"
	"github.com/nathanhack/fecsim/fec/bch"
	"github.com/nathanhack/fecsim/fec/polynomial"
	"github.com/nathanhack/fecsim/fec/repetition"
	"github.com/nathanhack/fecsim/linearblock/bitflipping"
	"github.com/nathanhack/fecsim/linearblock/hamming"
	"github.com/nathanhack/fecsim/simulation"
	"github.com/nathanhack/threadpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	Repetition     = "repetition"
	BCH            = "bch"
	Hamming        = "hamming"
	HammingBitFlip = "hamming-bitflip"

	BSC            = "bsc"
	GilbertElliott = "gilbert-elliott"

	StrategyPolynomial = "polynomial"
	StrategyGalois     = "galois"
)

// Stats summarises one method/channel pair at one error probability.
// Bits and IncorrectBits include the zero padding of chunked input
// messages; PaddingBits says how many of Bits it is.
type Stats struct {
	Blocks        int
	Bits          int
	PaddingBits   int `json:",omitempty"`
	IncorrectBits int
	ErrorRate     float64
	Histogram     map[int]int // residual errors per block -> blocks
	BlockErrors   avgstd.AvgStd
	Outcomes      map[string]int
}

func (s Stats) String() string {
	return fmt.Sprintf("{Errors:%v/%v, Rate:%0.06f, Block:%0.03f(+/-%0.03f)}",
		s.IncorrectBits, s.Bits, s.ErrorRate,
		s.BlockErrors.Mean, math.Sqrt(s.BlockErrors.SampledVariance()),
	)
}

// Record is the result of every pair at one error probability. TotalBits
// counts the padded blocks of the bch/bsc pair, see Stats.
type Record struct {
	ErrorProbability float64
	Repetitions      int
	TotalBits        int
	Blocks           int
	Seed             int64
	Pairs            map[string]Stats
	Err              string `json:",omitempty"`
	Partial          bool   `json:",omitempty"`
}

// Pair joins a method and channel name, e.g. bch/bsc.
func Pair(method, channel string) string {
	return method + "/" + channel
}

// Checkpoints receives a copy of a record every time one of its pairs finishes.
type Checkpoints func(updated Record)

// SweepConfig describes a sweep. Messages, when present, are split into
// blocks of each method's message length with the last block zero padded;
// otherwise Blocks random messages are generated per error probability.
type SweepConfig struct {
	N, K        int
	Generator   fec.Bits
	Strategy    string
	Repetitions int

	// hamming pairs are added when HammingParitySymbols > 0, and bit
	// flipping decoded hamming pairs when BitFlipIterations > 0 as well
	HammingParitySymbols int
	BitFlipIterations    int

	ErrorProbabilities []float64
	BadErrorRatio      float64
	GoodToBad          float64
	BadToGood          float64

	Messages []fec.Bits
	Blocks   int

	// Seed 0 picks a time based seed, reported on every Record
	Seed         int64
	Threads      int
	ShowProgress bool
	Checkpoints  Checkpoints

	// extra methods run after the built-in ones
	extra []method
}

// Threads resolves a thread count: <=0 means one less than the number of
// CPUs, never below 1.
func Threads(threads int) int {
	if threads > 0 {
		return threads
	}
	return max(1, runtime.NumCPU()-1)
}

// Mix derives an independent seed for stream i from base.
func Mix(base int64, i int) int64 {
	return int64(uint64(base) + uint64(i+1)*0x9E3779B97F4A7C15)
}

// NewBCH builds the BCH codec for the configured strategy.
func NewBCH(strategy string, n, k int, generator fec.Bits) (fec.Codec, error) {
	switch strategy {
	case "", StrategyPolynomial:
		return polynomial.New(polynomial.Params{N: n, K: k, Generator: generator})
	case StrategyGalois:
		return bch.New(n, k)
	default:
		return nil, fec.Configf("strategy", "expected %v or %v but found %q", StrategyPolynomial, StrategyGalois, strategy)
	}
}

// GilbertElliottParams scales the good state error probability p into the
// bad state one.
func (c SweepConfig) GilbertElliottParams(p float64) channel.GilbertElliottParams {
	return channel.GilbertElliottParams{
		PGood:     p,
		PBad:      math.Min(1, p*c.BadErrorRatio),
		GoodToBad: c.GoodToBad,
		BadToGood: c.BadToGood,
	}
}

type method struct {
	name  string
	codec func() (fec.Codec, error)
	// counter defaults to the strict accounting.Count
	counter accounting.Func
}

func (c SweepConfig) methods() []method {
	methods := []method{
		{
			name:    Repetition,
			codec:   func() (fec.Codec, error) { return repetition.New(c.K, c.Repetitions) },
			counter: accounting.Tolerant,
		},
		{
			name:  BCH,
			codec: func() (fec.Codec, error) { return NewBCH(c.Strategy, c.N, c.K, c.Generator) },
		},
	}
	if c.HammingParitySymbols > 0 {
		methods = append(methods, method{name: Hamming, codec: func() (fec.Codec, error) {
			return hamming.New(context.Background(), c.HammingParitySymbols, 1)
		}})
		if c.BitFlipIterations > 0 {
			methods = append(methods, method{name: HammingBitFlip, codec: func() (fec.Codec, error) {
				block, err := hamming.New(context.Background(), c.HammingParitySymbols, 1)
				if err != nil {
					return nil, err
				}
				return bitflipping.New(block, c.BitFlipIterations)
			}})
		}
	}
	return append(methods, c.extra...)
}

func (c SweepConfig) channel(name string, p float64, rng *rand.Rand) (fec.Channel, error) {
	if name == BSC {
		return channel.NewBSC(p, rng)
	}
	return channel.NewGilbertElliott(c.GilbertElliottParams(p), rng)
}

// Pairs lists the method/channel pairs a sweep reports, in run order.
func (c SweepConfig) Pairs() []string {
	var pairs []string
	for _, ch := range []string{BSC, GilbertElliott} {
		for _, m := range c.methods() {
			pairs = append(pairs, Pair(m.name, ch))
		}
	}
	return pairs
}

// Validate checks everything a sweep needs before any work is scheduled,
// including that every codec and channel can be constructed.
func (c SweepConfig) Validate() error {
	if len(c.ErrorProbabilities) == 0 {
		return fec.Configf("error probabilities", "at least one required")
	}
	if len(c.Messages) == 0 && c.Blocks <= 0 {
		return fec.Configf("blocks", "blocks must be >0 without input messages but found %v", c.Blocks)
	}
	if c.BadErrorRatio < 0 || math.IsNaN(c.BadErrorRatio) {
		return fec.Configf("bad error ratio", "must be >=0 but found %v", c.BadErrorRatio)
	}
	for _, m := range c.methods() {
		if _, err := m.codec(); err != nil {
			return err
		}
	}
	rng := rand.New(rand.NewSource(1))
	for _, p := range c.ErrorProbabilities {
		for _, ch := range []string{BSC, GilbertElliott} {
			if _, err := c.channel(ch, p, rng); err != nil {
				return err
			}
		}
	}
	return nil
}

// blocks splits the configured messages into k bit blocks or generates
// random ones from rng. padding is the number of zero bits added to fill the
// last block of every message.
func (c SweepConfig) blocks(k int, rng *rand.Rand) (blocks []fec.Bits, padding int) {
	if len(c.Messages) == 0 {
		return RandomMessages(rng, c.Blocks, k), 0
	}
	for _, m := range c.Messages {
		chunks := m.Chunk(k)
		blocks = append(blocks, chunks...)
		padding += len(chunks)*k - len(m)
	}
	return blocks, padding
}

// Sweep runs every pair at every error probability.
func Sweep(ctx context.Context, config SweepConfig) ([]Record, error) {
	return SweepContinue(ctx, config, nil)
}

// SweepContinue is Sweep that keeps every complete record of previous and
// only reruns error probabilities that are missing, partial or failed.
func SweepContinue(ctx context.Context, config SweepConfig, previous []Record) ([]Record, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Seed == 0 {
		config.Seed = time.Now().UnixNano()
		logrus.Infof("using seed %v", config.Seed)
	}

	done := map[float64]Record{}
	for _, r := range previous {
		if !r.Partial && r.Err == "" {
			done[r.ErrorProbability] = r
		}
	}

	pairs := config.Pairs()
	records := make([]Record, len(config.ErrorProbabilities))
	type job struct {
		record int
		method method
		ch     string
		stream int
	}
	var jobs []job
	for i, p := range config.ErrorProbabilities {
		if r, ok := done[p]; ok {
			records[i] = r
			continue
		}
		records[i] = Record{
			ErrorProbability: p,
			Repetitions:      config.Repetitions,
			Seed:             config.Seed,
			Pairs:            map[string]Stats{},
		}
		stream := 0
		for _, ch := range []string{BSC, GilbertElliott} {
			for _, m := range config.methods() {
				stream++
				jobs = append(jobs, job{record: i, method: m, ch: ch, stream: stream})
			}
		}
	}
	if len(jobs) == 0 {
		return records, nil
	}

	var bar *pb.ProgressBar
	if config.ShowProgress {
		bar = pb.StartNew(len(jobs))
	}

	pool := threadpool.New(ctx, Threads(config.Threads))
	recordsMux := sync.Mutex{}

	run := func(j job) {
		if config.ShowProgress {
			defer bar.Increment()
		}
		record := &records[j.record]
		pair := Pair(j.method.name, j.ch)
		stats, err := runPair(ctx, config, record.ErrorProbability, j.record, j.stream, j.method, j.ch)

		recordsMux.Lock()
		defer recordsMux.Unlock()
		if err != nil {
			logrus.Errorf("%v at p=%v: %v", pair, record.ErrorProbability, err)
			if record.Err != "" {
				record.Err += "; "
			}
			record.Err += pair + ": " + err.Error()
			if ctx.Err() != nil {
				record.Partial = true
			}
		}
		if stats.Blocks > 0 {
			record.Pairs[pair] = stats
		}
		if j.method.name == BCH && j.ch == BSC {
			record.Blocks = stats.Blocks
			record.TotalBits = stats.Bits
		}
		if config.Checkpoints != nil {
			config.Checkpoints(record.copy())
		}
	}

	for _, j := range jobs {
		j := j
		pool.Add(func() { run(j) })
	}
	pool.Wait()
	if config.ShowProgress {
		bar.Finish()
	}

	for i := range records {
		if len(records[i].Pairs) < len(pairs) && records[i].Err == "" {
			records[i].Partial = true
		}
	}

	slices.SortStableFunc(records, func(a, b Record) int {
		switch {
		case a.ErrorProbability < b.ErrorProbability:
			return -1
		case a.ErrorProbability > b.ErrorProbability:
			return 1
		}
		return 0
	})
	return records, ctx.Err()
}

// runPair simulates one method/channel pair. A panic inside a codec or
// channel is returned as an error so the rest of the sweep carries on.
func runPair(ctx context.Context, config SweepConfig, p float64, record, stream int, m method, ch string) (stats Stats, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	codec, err := m.codec()
	if err != nil {
		return Stats{}, err
	}
	messageSeed := Mix(config.Seed, record)
	transmission, err := config.channel(ch, p, rand.New(rand.NewSource(Mix(messageSeed, stream))))
	if err != nil {
		return Stats{}, err
	}

	counter := m.counter
	if counter == nil {
		counter = accounting.Count
	}
	pair := Pair(m.name, ch)
	driver := simulation.New(codec, transmission, simulation.WithLabel(pair), simulation.WithCounter(counter))
	blocks, padding := config.blocks(codec.MessageLength(), rand.New(rand.NewSource(messageSeed)))

	logrus.Debugf("%v at p=%v: %v blocks", pair, p, len(blocks))
	err = driver.RunAll(ctx, blocks)
	stats = statsFromTotals(driver.Totals())
	if stats.Blocks == len(blocks) {
		stats.PaddingBits = padding
	}
	return stats, err
}

func statsFromTotals(totals simulation.Totals) Stats {
	stats := Stats{
		Blocks:        totals.Blocks,
		Bits:          totals.Bits,
		IncorrectBits: totals.Errors,
		ErrorRate:     totals.ErrorRate(),
		Histogram:     totals.Histogram,
		Outcomes:      map[string]int{},
	}
	for outcome, count := range totals.Outcomes {
		stats.Outcomes[outcome.String()] = count
	}
	for errors, count := range totals.Histogram {
		for i := 0; i < count; i++ {
			stats.BlockErrors.Update(float64(errors))
		}
	}
	return stats
}

func (r Record) copy() Record {
	c := r
	c.Pairs = make(map[string]Stats, len(r.Pairs))
	for k, v := range r.Pairs {
		c.Pairs[k] = v
	}
	return c
}

func (r Record) String() string {
	buf := strings.Builder{}
	buf.WriteString(fmt.Sprintf("p=%v bits=%v", r.ErrorProbability, r.TotalBits))
	for _, pair := range sortedKeys(r.Pairs) {
		buf.WriteString(fmt.Sprintf(" %v:%v", pair, r.Pairs[pair]))
	}
	if r.Partial {
		buf.WriteString(" (partial)")
	}
	if r.Err != "" {
		buf.WriteString(" err=" + r.Err)
	}
	return buf.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
