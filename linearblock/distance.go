package linearblock

import (
	"fmt"
	"math/bits"

	mat "github.com/nathanhack/sparsemat"
)

// MaxDistanceMessageLength bounds the exhaustive minimum distance search.
const MaxDistanceMessageLength = 16

// MinimumDistance is the smallest weight of a nonzero codeword, found by
// walking every message in Gray code order so each step adds one row of G.
func (l *LinearBlock) MinimumDistance() (int, error) {
	k := l.MessageLength()
	if k > MaxDistanceMessageLength {
		return 0, fmt.Errorf("minimum distance search requires k <= %v but found %v", MaxDistanceMessageLength, k)
	}

	rows := make([]mat.SparseVector, k)
	for i := range rows {
		rows[i] = l.Processing.G.Row(i)
	}

	codeword := mat.CSRVec(l.CodewordLength())
	best := l.CodewordLength() + 1
	for step := uint(1); step < 1<<k; step++ {
		codeword.Add(codeword, rows[bits.TrailingZeros(step)])
		if w := codeword.HammingWeight(); w < best {
			best = w
		}
	}
	if best > l.CodewordLength() {
		return 0, fmt.Errorf("code has no nonzero codewords")
	}
	return best, nil
}
