package bch

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/nathanhack/fecsim/fec"
	"github.com/nathanhack/fecsim/fec/polynomial"
)

// patterns calls fn with every set of at most weight positions below n.
func patterns(n, weight int, fn func([]int)) {
	var walk func(start int, current []int)
	walk = func(start int, current []int) {
		fn(current)
		if len(current) == weight {
			return
		}
		for i := start; i < n; i++ {
			walk(i+1, append(current, i))
		}
	}
	walk(0, make([]int, 0, weight))
}

func TestNew_Generators(t *testing.T) {
	tests := []struct {
		n, k, t   int
		generator string
	}{
		{7, 4, 1, "1011"},
		{15, 11, 1, "10011"},
		{15, 7, 2, "111010001"},
		{15, 5, 3, "10100110111"},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			c, err := New(test.n, test.k)
			if err != nil {
				t.Fatalf("expected no error but found %v", err)
			}
			if c.T() != test.t {
				t.Fatalf("expected %v but found %v", test.t, c.T())
			}
			if c.Generator().String() != test.generator {
				t.Fatalf("expected %v but found %v", test.generator, c.Generator())
			}
		})
	}
}

func TestNew_SevenFourMatchesDefaultGenerator(t *testing.T) {
	c, _ := New(7, 4)
	if !c.Generator().Equal(polynomial.DefaultGenerator) {
		t.Fatalf("expected %v but found %v", polynomial.DefaultGenerator, c.Generator())
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct{ n, k int }{
		{15, 6},
		{14, 5},
		{15, 15},
		{15, 0},
		{511, 502},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			_, err := New(test.n, test.k)
			var configErr *fec.ConfigurationError
			if !errors.As(err, &configErr) {
				t.Fatalf("expected ConfigurationError but found %v", err)
			}
		})
	}
}

func TestDecode_CorrectsUpToT(t *testing.T) {
	tests := []struct {
		n, k    int
		message string
	}{
		{15, 5, "10110"},
		{15, 5, "00000"},
		{15, 7, "1100101"},
		{15, 11, "10000000001"},
		{31, 21, "101010101010101010101"},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			c, err := New(test.n, test.k)
			if err != nil {
				t.Fatalf("expected no error but found %v", err)
			}
			message := fec.MustParse(test.message)
			codeword, err := c.Encode(message)
			if err != nil {
				t.Fatalf("expected no error but found %v", err)
			}

			patterns(test.n, c.T(), func(errs []int) {
				received := codeword.Clone()
				for _, p := range errs {
					received[p] ^= 1
				}
				decoded, outcome, err := c.Decode(received)
				if err != nil {
					t.Fatalf("expected no error but found %v", err)
				}
				expected := fec.Corrected
				if len(errs) == 0 {
					expected = fec.Clean
				}
				if outcome != expected {
					t.Fatalf("errors %v: expected %v but found %v", errs, expected, outcome)
				}
				if !decoded.Equal(message) {
					t.Fatalf("errors %v: expected %v but found %v", errs, message, decoded)
				}
			})
		})
	}
}

func TestDecode_BeyondT(t *testing.T) {
	c, _ := New(15, 7)
	message := fec.MustParse("1100101")
	codeword, _ := c.Encode(message)

	uncorrectable := 0
	patterns(15, 3, func(errs []int) {
		if len(errs) != 3 {
			return
		}
		received := codeword.Clone()
		for _, p := range errs {
			received[p] ^= 1
		}
		decoded, outcome, err := c.Decode(received)
		if err != nil {
			t.Fatalf("expected no error but found %v", err)
		}
		if outcome == fec.Clean {
			t.Fatalf("errors %v: expected a non clean outcome", errs)
		}
		if outcome == fec.Uncorrectable {
			uncorrectable++
			if !decoded.Equal(received[:7]) {
				t.Fatalf("expected %v but found %v", received[:7], decoded)
			}
		}
	})
	if uncorrectable == 0 {
		t.Fatalf("expected some uncorrectable patterns")
	}
}

func TestLengthErrors(t *testing.T) {
	c, _ := New(15, 5)
	var lengthErr *fec.LengthError
	if _, err := c.Encode(fec.MustParse("1010")); !errors.As(err, &lengthErr) {
		t.Fatalf("expected LengthError but found %v", err)
	}
	if _, _, err := c.Decode(fec.Zeros(10)); !errors.As(err, &lengthErr) {
		t.Fatalf("expected LengthError but found %v", err)
	}
}

func ExampleCodec_Decode() {
	c, _ := New(15, 5)
	codeword, _ := c.Encode(fec.MustParse("10110"))
	received := codeword.Flip(0).Flip(7).Flip(14)
	message, outcome, _ := c.Decode(received)
	fmt.Println(codeword, message, outcome)
	// Output:
	// 101100100011110 10110 corrected
}
