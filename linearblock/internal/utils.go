package internal

import (
	"context"
	"fmt"

	mat "github.com/nathanhack/sparsemat"
	"github.com/sirupsen/logrus"
)

// SystematicGenerator derives G=[I | A^T] from a parity-check matrix H. The
// returned order maps each column of G to the column of H it pairs with, so
// that G * ColumnSwapped(H, order)^T == 0.
func SystematicGenerator(ctx context.Context, H mat.SparseMat, threads int) ([]int, mat.SparseMat, error) {
	m, n := H.Dims()
	if m >= n {
		return nil, nil, fmt.Errorf("H matrix shape == (rows, cols) where rows < cols required but found (%v, %v)", m, n)
	}

	logrus.Debugf("Creating generator matrix from H matrix")
	reduced, order, err := Reduce(ctx, H, threads)
	if err != nil {
		return nil, nil, err
	}
	if !reduced.Slice(0, 0, m, m).Equals(mat.CSRIdentity(m)) {
		return nil, nil, fmt.Errorf("failed to transform H into [I | A]")
	}

	// [I | A] becomes [A | I] so the message occupies the leading columns
	columns := make([]int, n)
	copy(columns[:n-m], order[m:])
	copy(columns[n-m:], order[:m])

	AT := reduced.Slice(0, m, m, n-m).T()
	k, _ := AT.Dims()
	G := mat.DOKMat(k, n)
	G.SetMatrix(mat.CSRIdentity(k), 0, 0)
	G.SetMatrix(AT, 0, k)

	logrus.Debugf("Generator matrix complete")
	return columns, mat.CSRMatCopy(G), nil
}

// ColumnSwapped returns H with column c taken from column order[c].
func ColumnSwapped(H mat.SparseMat, order []int) mat.SparseMat {
	rows, cols := H.Dims()
	result := mat.CSRMat(rows, cols)
	for c, from := range order {
		result.SetColumn(c, H.Column(from))
	}
	return result
}

// Orthogonal reports whether G*H^T == 0.
func Orthogonal(G, H mat.SparseMat) bool {
	rows, _ := G.Dims()
	checks, _ := H.Dims()

	cache := make([]mat.SparseVector, checks)
	for i := range cache {
		cache[i] = H.Row(i)
	}
	for i := 0; i < rows; i++ {
		row := G.Row(i)
		for _, check := range cache {
			if row.Dot(check) > 0 {
				return false
			}
		}
	}
	return true
}
