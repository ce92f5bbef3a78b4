// Package linearblock is the matrix view of a binary linear block code: a
// parity-check matrix H, a systematic generator G and syndrome decoding of
// single errors.
package linearblock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nathanhack/fecsim/fec"
	"github.com/nathanhack/fecsim/internal/metrics"
	"github.com/nathanhack/fecsim/linearblock/internal"
	mat "github.com/nathanhack/sparsemat"
	"github.com/sirupsen/logrus"
)

type Systemic struct {
	HColumnOrder []int
	G            mat.SparseMat
}

// LinearBlock contains matrices for the original H matrix and the systemic G generator.
type LinearBlock struct {
	H          mat.SparseMat //the original H(parity) matrix
	Processing *Systemic     // contains systemic generator matrix
}

// For JSON unmarshalling
type systemic struct {
	HColumnOrder []int
	G            mat.CSRMatrix
}
type linearblock struct {
	H          mat.CSRMatrix
	Processing *systemic
}

// UnmarshalJSON is needed because LinearBlock has a mat.SparseMat and requires special handling
func (l *LinearBlock) UnmarshalJSON(bytes []byte) error {
	var lb linearblock
	err := json.Unmarshal(bytes, &lb)
	if err != nil {
		return err
	}

	l.H = &lb.H
	if lb.Processing == nil {
		return nil
	}

	l.Processing = &Systemic{
		HColumnOrder: lb.Processing.HColumnOrder,
		G:            &lb.Processing.G,
	}
	return nil
}

// NewFromH derives the systematic generator for the parity-check matrix H.
func NewFromH(ctx context.Context, H mat.SparseMat, threads int) (*LinearBlock, error) {
	order, G, err := internal.SystematicGenerator(ctx, H, threads)
	if err != nil {
		return nil, fmt.Errorf("unable to create generator for H matrix: %w", err)
	}
	return &LinearBlock{
		H: mat.CSRMatCopy(H),
		Processing: &Systemic{
			HColumnOrder: order,
			G:            G,
		},
	}, nil
}

// FromCodec recovers the matrices of a linear codec that places the message
// in the first K bits of its codewords. Row i of G is the codeword of the
// i-th unit message; G=[I | P] gives H=[P^T | I].
func FromCodec(codec fec.Codec) (*LinearBlock, error) {
	k, n := codec.MessageLength(), codec.CodewordLength()
	m := n - k

	rows := make([]fec.Bits, k)
	for i := range rows {
		row, err := codec.Encode(fec.Zeros(k).Flip(i))
		if err != nil {
			return nil, err
		}
		if !row[:k].Equal(fec.Zeros(k).Flip(i)) {
			return nil, fmt.Errorf("%v is not systematic: unit message %v encodes to %v", codec, i, row)
		}
		rows[i] = row
	}

	// linear codes map the all ones message to the sum of the rows
	sum := fec.Zeros(n)
	for _, row := range rows {
		for j := range sum {
			sum[j] ^= row[j]
		}
	}
	allOnes := fec.Zeros(k)
	for i := range allOnes {
		allOnes[i] = 1
	}
	ones, err := codec.Encode(allOnes)
	if err != nil {
		return nil, err
	}
	if !ones.Equal(sum) {
		return nil, fmt.Errorf("%v is not linear", codec)
	}

	G := mat.DOKMat(k, n)
	H := mat.DOKMat(m, n)
	order := make([]int, n)
	for c := range order {
		order[c] = c
	}
	for r, row := range rows {
		for c, v := range row {
			if v != 0 {
				G.Set(r, c, 1)
			}
			// P[r][c-k] lands in H[c-k][r]
			if c >= k && v != 0 {
				H.Set(c-k, r, 1)
			}
		}
	}
	for i := 0; i < m; i++ {
		H.Set(i, k+i, 1)
	}

	return &LinearBlock{
		H: mat.CSRMatCopy(H),
		Processing: &Systemic{
			HColumnOrder: order,
			G:            mat.CSRMatCopy(G),
		},
	}, nil
}

func toVector(bits fec.Bits) mat.SparseVector {
	vec := mat.CSRVec(len(bits))
	for i, v := range bits {
		if v != 0 {
			vec.Set(i, 1)
		}
	}
	return vec
}

func fromVector(vec mat.SparseVector) fec.Bits {
	bits := fec.Zeros(vec.Len())
	for _, i := range vec.NonzeroArray() {
		bits[i] = 1
	}
	return bits
}

// Encode take in a message and encodes it using the linear block, returning a codeword
func (l *LinearBlock) Encode(message fec.Bits) (fec.Bits, error) {
	G := l.Processing.G
	rows, cols := G.Dims()
	if len(message) != rows {
		return nil, &fec.LengthError{Kind: "message", Expected: rows, Actual: len(message)}
	}

	codeword := mat.DOKVec(cols)
	codeword.MulMat(toVector(message), G)
	return fromVector(unorderVector(codeword, l.Processing.HColumnOrder)), nil
}

func unorderVector(codeword mat.SparseVector, ordering []int) mat.SparseVector {
	if len(ordering) > 0 && codeword.Len() != len(ordering) {
		panic("vector length must equal ordering length")
	}
	result := mat.DOKVec(codeword.Len())
	for c, c1 := range ordering {
		result.Set(c1, codeword.At(c))
	}
	return result
}

func orderVector(codeword mat.SparseVector, ordering []int) mat.SparseVector {
	if len(ordering) > 0 && codeword.Len() != len(ordering) {
		panic("vector length must equal ordering length")
	}
	result := mat.DOKVec(codeword.Len())
	for c, c1 := range ordering {
		result.Set(c, codeword.At(c1))
	}
	return result
}

// Decode corrects a single error by matching the syndrome against the
// columns of H. Syndromes that match no column are Uncorrectable.
func (l *LinearBlock) Decode(received fec.Bits) (fec.Bits, fec.Outcome, error) {
	if len(received) != l.CodewordLength() {
		return nil, fec.Clean, &fec.LengthError{Kind: "codeword", Expected: l.CodewordLength(), Actual: len(received)}
	}

	outcome := fec.Clean
	codeword := toVector(received)
	syndrome := mat.CSRVec(l.ParitySymbols())
	syndrome.MatMul(l.H, codeword)

	if !syndrome.IsZero() {
		outcome = fec.Uncorrectable
		for c := 0; c < l.CodewordLength(); c++ {
			if l.H.Column(c).Equals(syndrome) {
				codeword.Set(c, codeword.At(c)+1)
				outcome = fec.Corrected
				break
			}
		}
	}
	if outcome == fec.Uncorrectable {
		logrus.WithFields(logrus.Fields{
			"codec":    l.Name(),
			"syndrome": syndrome.String(),
		}).Debug("syndrome matches no column of H")
	}
	metrics.ObserveDecode(l.Name(), outcome)

	return l.extract(codeword), outcome, nil
}

// Extract returns the message bits of a codeword in H column order.
func (l *LinearBlock) Extract(codeword fec.Bits) fec.Bits {
	return l.extract(toVector(codeword))
}

func (l *LinearBlock) extract(codeword mat.SparseVector) fec.Bits {
	return fromVector(orderVector(codeword, l.Processing.HColumnOrder).Slice(0, l.MessageLength()))
}

// Syndrome is H*codeword.
func (l *LinearBlock) Syndrome(codeword fec.Bits) fec.Bits {
	syndrome := mat.CSRVec(l.ParitySymbols())
	syndrome.MatMul(l.H, toVector(codeword))
	return fromVector(syndrome)
}

func (l *LinearBlock) MessageLength() int {
	k, _ := l.Processing.G.Dims()
	return k
}

func (l *LinearBlock) ParitySymbols() int {
	m, _ := l.H.Dims()
	return m
}

func (l *LinearBlock) CodewordLength() int {
	_, n := l.H.Dims()
	return n
}

func (l *LinearBlock) CodeRate() float64 {
	return float64(l.MessageLength()) / float64(l.CodewordLength())
}

// Validate will test if this linearblock satisfies G*H.T=0, where G is the generator matrix and H.T is the transpose of H
func (l *LinearBlock) Validate() bool {
	return internal.Orthogonal(l.Processing.G, internal.ColumnSwapped(l.H, l.Processing.HColumnOrder))
}

// Rank is the GF(2) rank of H.
func (l *LinearBlock) Rank(ctx context.Context, threads int) (int, error) {
	return internal.Rank(ctx, l.H, threads)
}

// Name is a short label such as linearblock(7,4).
func (l *LinearBlock) Name() string {
	return fmt.Sprintf("linearblock(%v,%v)", l.CodewordLength(), l.MessageLength())
}

func (l *LinearBlock) String() string {
	buf := strings.Builder{}
	buf.WriteString("{\nH:\n")
	buf.WriteString(l.H.String())
	buf.WriteString(fmt.Sprintf("Order: %v", l.Processing.HColumnOrder))
	buf.WriteString("\nG:\n")
	buf.WriteString(l.Processing.G.String())
	buf.WriteString("\n}\n")
	return buf.String()
}
