package internal

import (
	"context"
	"errors"
	"strconv"
	"testing"

	mat "github.com/nathanhack/sparsemat"
)

func TestReduce(t *testing.T) {
	tests := []struct {
		input    mat.SparseMat
		expected mat.SparseMat
	}{
		{ //Hamming 7
			mat.CSRMat(3, 7, 1, 0, 0, 1, 1, 1, 0, 0, 1, 0, 1, 1, 0, 1, 0, 0, 1, 0, 1, 1, 1),
			mat.CSRMat(3, 7, 1, 0, 0, 1, 1, 1, 0, 0, 1, 0, 1, 1, 0, 1, 0, 0, 1, 0, 1, 1, 1),
		},
		{ //one linearly dependent row
			mat.CSRMat(4, 5, 1, 1, 0, 0, 0, 0, 1, 1, 0, 0, 1, 0, 1, 0, 0, 0, 0, 0, 1, 1),
			nil,
		},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			reduced, _, err := Reduce(context.Background(), test.input, 0)

			if test.expected == nil {
				if !errors.Is(err, ErrRankDeficient) {
					t.Fatalf("expected %v but found %v", ErrRankDeficient, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error but found %v", err)
			}
			if !test.expected.Equals(reduced) {
				t.Fatalf("expected \n%v\n but found \n%v\n", test.expected, reduced)
			}
		})
	}
}

func TestRank(t *testing.T) {
	tests := []struct {
		input    mat.SparseMat
		expected int
	}{
		{mat.CSRIdentity(5), 5},
		{mat.CSRMat(2, 3, 1, 1, 0, 1, 1, 0), 1},
		{mat.CSRMat(3, 7, 1, 0, 0, 1, 1, 1, 0, 0, 1, 0, 1, 1, 0, 1, 0, 0, 1, 0, 1, 1, 1), 3},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			actual, err := Rank(context.Background(), test.input, 0)
			if err != nil {
				t.Fatalf("expected no error but found %v", err)
			}
			if actual != test.expected {
				t.Fatalf("expected %v but found %v", test.expected, actual)
			}
		})
	}
}

func TestSystematicGenerator(t *testing.T) {
	H := mat.CSRMat(3, 7, 1, 0, 0, 1, 1, 1, 0, 0, 1, 0, 1, 1, 0, 1, 0, 0, 1, 0, 1, 1, 1)
	order, G, err := SystematicGenerator(context.Background(), H, 0)
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}
	rows, cols := G.Dims()
	if rows != 4 || cols != 7 {
		t.Fatalf("expected (4, 7) but found (%v, %v)", rows, cols)
	}
	if !Orthogonal(G, ColumnSwapped(H, order)) {
		t.Fatalf("expected G*H^T == 0")
	}
}
