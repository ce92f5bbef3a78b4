// Package config loads and validates the parameters of a sweep.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nathanhack/fecsim/benchmarking"
	"github.com/nathanhack/fecsim/fec"
	"gopkg.in/yaml.v3"
)

type Code struct {
	N           int    `yaml:"n" validate:"gt=1,lte=256"`
	K           int    `yaml:"k" validate:"gt=0,ltfield=N"`
	Generator   string `yaml:"generator" validate:"required,bits"`
	Strategy    string `yaml:"strategy" validate:"oneof=polynomial galois"`
	Repetitions int    `yaml:"repetitions" validate:"gte=1"`
	Hamming     int    `yaml:"hamming" validate:"gte=0,lte=8"`
	BitFlip     int    `yaml:"bit_flip_iterations" validate:"gte=0"`
}

type Channel struct {
	ErrorProbabilities []float64 `yaml:"error_probabilities" validate:"min=1,dive,gte=0,lte=1"`
	BadErrorRatio      float64   `yaml:"bad_error_ratio" validate:"gte=0"`
	GoodToBad          float64   `yaml:"good_to_bad" validate:"gte=0,lte=1"`
	BadToGood          float64   `yaml:"bad_to_good" validate:"gte=0,lte=1"`
}

type Simulation struct {
	Blocks   int    `yaml:"blocks" validate:"gte=0"`
	Seed     int64  `yaml:"seed"`
	Threads  int    `yaml:"threads" validate:"gte=0"`
	DataPath string `yaml:"data"`
}

type Config struct {
	Code       Code       `yaml:"code"`
	Channel    Channel    `yaml:"channel"`
	Simulation Simulation `yaml:"simulation"`
}

// DefaultErrorProbabilities is 1e-6 followed by 0.005 to 0.05 in steps of 0.005.
func DefaultErrorProbabilities() []float64 {
	probabilities := []float64{1e-6}
	for i := 1; i <= 10; i++ {
		probabilities = append(probabilities, float64(5*i)/1000)
	}
	return probabilities
}

func Default() Config {
	return Config{
		Code: Code{
			N:           15,
			K:           5,
			Generator:   "1011",
			Strategy:    benchmarking.StrategyPolynomial,
			Repetitions: 3,
		},
		Channel: Channel{
			ErrorProbabilities: DefaultErrorProbabilities(),
			BadErrorRatio:      3,
			GoodToBad:          0.05,
			BadToGood:          0.1,
		},
		Simulation: Simulation{
			Blocks: 10000,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	config := Default()
	bs, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("error while reading file %v: %w", path, err)
	}
	// a list in the file replaces the default list rather than merging into it
	config.Channel.ErrorProbabilities = nil
	if err := yaml.Unmarshal(bs, &config); err != nil {
		return Config{}, fmt.Errorf("error while unmarshalling file %v: %w", path, err)
	}
	if config.Channel.ErrorProbabilities == nil {
		config.Channel.ErrorProbabilities = DefaultErrorProbabilities()
	}
	return config, config.Validate()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("bits", func(fl validator.FieldLevel) bool {
		_, err := fec.Parse(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks field ranges and the relations between fields. Every
// failure is a *fec.ConfigurationError.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fec.Configf(strings.TrimPrefix(fe.Namespace(), "Config."), "failed %v %v on %v", fe.Tag(), fe.Param(), fe.Value())
		}
		return fec.Configf("config", "%v", err)
	}

	generator := fec.MustParse(c.Code.Generator)
	if len(generator) < 2 || generator[0] != 1 {
		return fec.Configf("code.generator", "leading coefficient must be 1 with degree >= 1 but found %v", generator)
	}
	if c.Code.N-c.Code.K < len(generator)-1 {
		return fec.Configf("code.generator", "degree %v exceeds n-k=%v", len(generator)-1, c.Code.N-c.Code.K)
	}
	if c.Simulation.DataPath == "" && c.Simulation.Blocks < 1 {
		return fec.Configf("simulation.blocks", "blocks must be >0 without a data file but found %v", c.Simulation.Blocks)
	}
	return nil
}

// Sweep converts the configuration into a sweep over messages. An empty
// messages slice means random blocks.
func (c Config) Sweep(messages []fec.Bits) benchmarking.SweepConfig {
	return benchmarking.SweepConfig{
		N:                    c.Code.N,
		K:                    c.Code.K,
		Generator:            fec.MustParse(c.Code.Generator),
		Strategy:             c.Code.Strategy,
		Repetitions:          c.Code.Repetitions,
		HammingParitySymbols: c.Code.Hamming,
		BitFlipIterations:    c.Code.BitFlip,
		ErrorProbabilities:   c.Channel.ErrorProbabilities,
		BadErrorRatio:        c.Channel.BadErrorRatio,
		GoodToBad:            c.Channel.GoodToBad,
		BadToGood:            c.Channel.BadToGood,
		Messages:             messages,
		Blocks:               c.Simulation.Blocks,
		Seed:                 c.Simulation.Seed,
		Threads:              c.Simulation.Threads,
	}
}

// Save writes c as YAML.
func (c Config) Save(path string) error {
	bs, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("error serializing config: %w", err)
	}
	if err := os.WriteFile(path, bs, 0644); err != nil {
		return fmt.Errorf("error while saving config to %v: %w", path, err)
	}
	return nil
}
