package bitflipping

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/nathanhack/fecsim/fec"
	"github.com/nathanhack/fecsim/linearblock/hamming"
	mat "github.com/nathanhack/sparsemat"
)

func TestGallager_BitFlippingHammingCodes(t *testing.T) {
	block, err := hamming.New(context.Background(), 3, 0)
	if err != nil {
		t.Fatalf("expected no error but found: %v", err)
	}
	g := newGallager(block.H)

	tests := []struct {
		message          fec.Bits
		flipCodewordBits []int
		maxIter          int
	}{
		{fec.MustParse("1011"), []int{0}, 20},
		{fec.MustParse("1011"), []int{1}, 20},
		{fec.MustParse("1011"), []int{2}, 20},
		{fec.MustParse("1011"), []int{3}, 20},
		{fec.MustParse("1011"), []int{4}, 20},
		{fec.MustParse("1011"), []int{5}, 20},
		{fec.MustParse("1011"), []int{6}, 1},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			expected, err := block.Encode(test.message)
			if err != nil {
				t.Fatalf("expected no error but found: %v", err)
			}
			codeword := expected.Clone()
			for _, index := range test.flipCodewordBits {
				codeword[index] ^= 1
			}

			flips, converged := g.decode(codeword, test.maxIter)
			if !converged {
				t.Fatalf("expected convergence")
			}
			if flips != 1 {
				t.Fatalf("expected %v but found %v", 1, flips)
			}
			if !codeword.Equal(expected) {
				t.Fatalf("expected %v but found %v", expected, codeword)
			}
		})
	}
}

func TestGallager_Syndrome(t *testing.T) {
	h := mat.CSRMat(4, 6, 1, 1, 0, 1, 0, 0, 0, 1, 1, 0, 1, 0, 1, 0, 0, 0, 1, 1, 0, 0, 1, 1, 0, 1)
	g := newGallager(h)

	tests := []struct {
		codeword fec.Bits
		expected fec.Bits
	}{
		{fec.MustParse("000000"), fec.MustParse("0000")},
		{fec.MustParse("110010"), fec.MustParse("0000")},
		{fec.MustParse("100000"), fec.MustParse("1010")},
		{fec.MustParse("010000"), fec.MustParse("1100")},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			actual := g.syndrome(test.codeword)
			if !actual.Equal(test.expected) {
				t.Fatalf("expected %v but found %v", test.expected, actual)
			}
		})
	}
}

func TestCodec_CorrectsSingleErrors(t *testing.T) {
	block, err := hamming.New(context.Background(), 4, 0)
	if err != nil {
		t.Fatalf("expected no error but found: %v", err)
	}
	codec, err := New(block, 10)
	if err != nil {
		t.Fatalf("expected no error but found: %v", err)
	}

	message := fec.MustParse("10110011101")
	codeword, err := codec.Encode(message)
	if err != nil {
		t.Fatalf("expected no error but found: %v", err)
	}

	decoded, outcome, flips, err := codec.DecodeFlips(codeword)
	if err != nil || outcome != fec.Clean || flips != 0 || !decoded.Equal(message) {
		t.Fatalf("expected %v clean but found %v %v %v flips %v", message, decoded, outcome, flips, err)
	}

	for i := 0; i < codec.CodewordLength(); i++ {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			decoded, outcome, flips, err := codec.DecodeFlips(codeword.Flip(i))
			if err != nil {
				t.Fatalf("expected no error but found: %v", err)
			}
			if outcome != fec.Corrected {
				t.Fatalf("expected %v but found %v", fec.Corrected, outcome)
			}
			if flips != 1 {
				t.Fatalf("expected %v but found %v", 1, flips)
			}
			if !decoded.Equal(message) {
				t.Fatalf("expected %v but found %v", message, decoded)
			}
		})
	}
}

func TestCodec_NoIterations(t *testing.T) {
	block, err := hamming.New(context.Background(), 3, 0)
	if err != nil {
		t.Fatalf("expected no error but found: %v", err)
	}
	codec, err := New(block, 0)
	if err != nil {
		t.Fatalf("expected no error but found: %v", err)
	}
	message := fec.MustParse("0110")
	codeword, _ := codec.Encode(message)
	received := codeword.Flip(2)

	decoded, outcome, flips, err := codec.DecodeFlips(received)
	if err != nil {
		t.Fatalf("expected no error but found: %v", err)
	}
	if outcome != fec.Uncorrectable {
		t.Fatalf("expected %v but found %v", fec.Uncorrectable, outcome)
	}
	if flips != 0 {
		t.Fatalf("expected %v but found %v", 0, flips)
	}
	if !decoded.Equal(block.Extract(received)) {
		t.Fatalf("expected %v but found %v", block.Extract(received), decoded)
	}
}

func TestCodec_DecodeLeavesReceived(t *testing.T) {
	block, err := hamming.New(context.Background(), 3, 0)
	if err != nil {
		t.Fatalf("expected no error but found: %v", err)
	}
	codec, _ := New(block, 5)
	codeword, _ := codec.Encode(fec.MustParse("1001"))
	received := codeword.Flip(4)
	expected := received.Clone()

	if _, _, err := codec.Decode(received); err != nil {
		t.Fatalf("expected no error but found: %v", err)
	}
	if !received.Equal(expected) {
		t.Fatalf("expected %v but found %v", expected, received)
	}
}

func TestCodec_Invalid(t *testing.T) {
	block, err := hamming.New(context.Background(), 3, 0)
	if err != nil {
		t.Fatalf("expected no error but found: %v", err)
	}
	if _, err := New(block, -1); err == nil {
		t.Fatalf("expected an error for negative iterations")
	}
	codec, _ := New(block, 5)
	_, _, err = codec.Decode(fec.Zeros(6))
	var lengthErr *fec.LengthError
	if !errors.As(err, &lengthErr) {
		t.Fatalf("expected LengthError but found %v", err)
	}
}

func BenchmarkGallager_BitFlipping(b *testing.B) {
	h := mat.CSRMat(4, 6, 1, 1, 0, 1, 0, 0, 0, 1, 1, 0, 1, 0, 1, 0, 0, 0, 1, 1, 0, 0, 1, 1, 0, 1)
	g := newGallager(h)
	input := fec.MustParse("101011")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.decode(input.Clone(), 1)
	}
}
