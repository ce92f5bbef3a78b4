package channel

import (
	"errors"
	"math"
	"math/rand"
	"strconv"
	"testing"

	"github.com/nathanhack/fecsim/fec"
)

func TestBSC_Extremes(t *testing.T) {
	input := fec.MustParse("1011001110001011")
	tests := []struct {
		p        float64
		expected string
	}{
		{0, "1011001110001011"},
		{1, "0100110001110100"},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			c, err := NewBSC(test.p, rand.New(rand.NewSource(1)))
			if err != nil {
				t.Fatalf("expected no error but found %v", err)
			}
			actual := c.Transmit(input)
			if actual.String() != test.expected {
				t.Fatalf("expected %v but found %v", test.expected, actual)
			}
		})
	}
	if input.String() != "1011001110001011" {
		t.Fatalf("expected input untouched but found %v", input)
	}
}

func TestBSC_Rate(t *testing.T) {
	c, _ := NewBSC(0.1, rand.New(rand.NewSource(42)))
	flips := c.Transmit(fec.Zeros(100000)).Weight()
	if math.Abs(float64(flips)-10000) > 600 {
		t.Fatalf("expected about %v flips but found %v", 10000, flips)
	}
}

func TestBSC_SameSeedSameOutput(t *testing.T) {
	a, _ := NewBSC(0.3, rand.New(rand.NewSource(7)))
	b, _ := NewBSC(0.3, rand.New(rand.NewSource(7)))
	input := fec.Zeros(1000)
	if !a.Transmit(input).Equal(b.Transmit(input)) {
		t.Fatalf("expected identical outputs for identical seeds")
	}
}

func TestGilbertElliott_NeverLeavesGood(t *testing.T) {
	c, err := NewGilbertElliott(GilbertElliottParams{PGood: 0, PBad: 1}, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}
	output := c.Transmit(fec.Zeros(100000))
	if output.Weight() != 0 {
		t.Fatalf("expected %v but found %v", 0, output.Weight())
	}
	if c.State() != Good {
		t.Fatalf("expected %v but found %v", Good, c.State())
	}
}

func TestGilbertElliott_TransitionAfterFlip(t *testing.T) {
	c, _ := NewGilbertElliott(GilbertElliottParams{PGood: 0, PBad: 1, GoodToBad: 1, BadToGood: 0}, rand.New(rand.NewSource(3)))
	n := 1000
	output := c.Transmit(fec.Zeros(n))
	if output[0] != 0 {
		t.Fatalf("expected first bit sent in the good state")
	}
	if output.Weight() != n-1 {
		t.Fatalf("expected %v but found %v", n-1, output.Weight())
	}
	if c.State() != Bad {
		t.Fatalf("expected %v but found %v", Bad, c.State())
	}
}

func TestGilbertElliott_StatePersistsAcrossCalls(t *testing.T) {
	c, _ := NewGilbertElliott(GilbertElliottParams{PGood: 0, PBad: 1, GoodToBad: 1, BadToGood: 0}, rand.New(rand.NewSource(3)))
	first := c.Transmit(fec.Zeros(1))
	if first.Weight() != 0 || c.State() != Bad {
		t.Fatalf("expected an unflipped bit and the bad state but found %v %v", first, c.State())
	}
	second := c.Transmit(fec.Zeros(8))
	if second.Weight() != 8 {
		t.Fatalf("expected %v but found %v", 8, second.Weight())
	}
}

func TestGilbertElliott_Bursty(t *testing.T) {
	c, _ := NewGilbertElliott(GilbertElliottParams{PGood: 0, PBad: 0.5, GoodToBad: 0.01, BadToGood: 0.1}, rand.New(rand.NewSource(11)))
	output := c.Transmit(fec.Zeros(100000))

	// stationary bad fraction is 0.01/(0.01+0.1)
	expected := 100000 * 0.5 * 0.01 / 0.11
	if math.Abs(float64(output.Weight())-expected) > 0.25*expected {
		t.Fatalf("expected about %v flips but found %v", expected, output.Weight())
	}
}

func TestInvalidProbabilities(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	var configErr *fec.ConfigurationError

	if _, err := NewBSC(1.5, rng); !errors.As(err, &configErr) {
		t.Fatalf("expected ConfigurationError but found %v", err)
	}
	if _, err := NewBSC(math.NaN(), rng); !errors.As(err, &configErr) {
		t.Fatalf("expected ConfigurationError but found %v", err)
	}
	if _, err := NewBSC(0.1, nil); !errors.As(err, &configErr) {
		t.Fatalf("expected ConfigurationError but found %v", err)
	}

	tests := []GilbertElliottParams{
		{PGood: -0.1},
		{PBad: 2},
		{GoodToBad: 1.1},
		{BadToGood: -1},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			if _, err := NewGilbertElliott(test, rng); !errors.As(err, &configErr) {
				t.Fatalf("expected ConfigurationError but found %v", err)
			}
		})
	}
}
