package bitflipping

import (
	"github.com/nathanhack/fecsim/fec"
	mat "github.com/nathanhack/sparsemat"
)

// gallager is the parity-check structure of H as adjacency lists: the
// checks every bit takes part in and the bits every check covers.
type gallager struct {
	checks [][]int
	bits   [][]int
}

func newGallager(H mat.SparseMat) *gallager {
	rows, cols := H.Dims()
	g := &gallager{
		checks: make([][]int, cols),
		bits:   make([][]int, rows),
	}
	for n := range g.checks {
		g.checks[n] = H.Column(n).NonzeroArray()
	}
	for m := range g.bits {
		g.bits[m] = H.Row(m).NonzeroArray()
	}
	return g
}

// syndrome is H*codeword.
func (g *gallager) syndrome(codeword fec.Bits) fec.Bits {
	s := fec.Zeros(len(g.bits))
	for m, bits := range g.bits {
		for _, n := range bits {
			s[m] ^= codeword[n]
		}
	}
	return s
}

// worst returns the bit with the largest flipping value
// E_n = unsatisfied(n) - satisfied(n), the lowest index on ties.
func (g *gallager) worst(s fec.Bits) int {
	best, bestValue := 0, 0
	for n, checks := range g.checks {
		value := -len(checks)
		for _, m := range checks {
			value += 2 * int(s[m])
		}
		if n == 0 || value > bestValue {
			best, bestValue = n, value
		}
	}
	return best
}

// decode flips bits of codeword in place until every check is satisfied or
// maxIter bits were flipped. The syndrome is updated from the checks of the
// flipped bit rather than recomputed.
func (g *gallager) decode(codeword fec.Bits, maxIter int) (flips int, converged bool) {
	s := g.syndrome(codeword)
	for ; !s.IsZero(); flips++ {
		if flips == maxIter {
			return flips, false
		}
		n := g.worst(s)
		codeword[n] ^= 1
		for _, m := range g.checks[n] {
			s[m] ^= 1
		}
	}
	return flips, true
}
