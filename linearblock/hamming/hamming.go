package hamming

import (
	"context"

	"github.com/nathanhack/fecsim/fec"
	"github.com/nathanhack/fecsim/linearblock"
	mat "github.com/nathanhack/sparsemat"
)

// MaxParitySymbols keeps n=2^r-1 within a byte.
const MaxParitySymbols = 8

// New creates the systematic hamming code with paritySymbols number of parity symbols.
// Hamming codes can detect up to two-bit errors or correct one-bit errors without
// detection of uncorrected errors.
func New(ctx context.Context, paritySymbols int, threads int) (*linearblock.LinearBlock, error) {
	if paritySymbols < 2 || paritySymbols > MaxParitySymbols {
		return nil, fec.Configf("parity symbols", "hamming codes require 2 to %v parity symbols but found %v", MaxParitySymbols, paritySymbols)
	}
	n := 1<<paritySymbols - 1
	H := mat.CSRMat(paritySymbols, n)

	//To make Hamming codes we make the columns the bit versions
	// of every number from 1 to and including n -> [1,n] (note they're nonzero)
	for i := 1; i <= n; i++ {
		vec := mat.CSRVec(paritySymbols)
		for j := 0; j < paritySymbols; j++ {
			if i&(1<<j) > 0 {
				vec.Set(j, 1)
			}
		}
		H.SetColumn(i-1, vec)
	}

	return linearblock.NewFromH(ctx, H, threads)
}
