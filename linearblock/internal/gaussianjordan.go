package internal

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/cheggaaa/pb/v3"
	mat "github.com/nathanhack/sparsemat"
	"github.com/nathanhack/threadpool"
	"github.com/sirupsen/logrus"
)

var (
	ErrRankDeficient = errors.New("rows of H are not linearly independent")
	ErrCancelled     = errors.New("elimination cancelled")
)

// Reduce brings H into reduced row echelon form [I | *] over GF(2), swapping
// columns when a pivot is missing. It returns the reduced copy and, for each
// column of the result, the column of H it came from.
func Reduce(ctx context.Context, H mat.SparseMat, threads int) (mat.SparseMat, []int, error) {
	rows, cols := H.Dims()
	if cols < rows {
		return nil, nil, ErrRankDeficient
	}

	reduced := mat.CSRMatCopy(H)
	order := make([]int, cols)
	for c := range order {
		order[c] = c
	}

	showBar := logrus.GetLevel() == logrus.DebugLevel
	rank, err := forward(ctx, rows, reduced, order, threads, showBar)
	if err != nil {
		return nil, nil, err
	}
	if rank != rows {
		logrus.Debugf("rank %v of %v rows", rank, rows)
		return nil, nil, ErrRankDeficient
	}
	if err := backward(ctx, rows, reduced, threads, showBar); err != nil {
		return nil, nil, err
	}
	logrus.Debugf("Gaussian-Jordan elimination complete")
	return reduced, order, nil
}

// Rank is the GF(2) rank of H.
func Rank(ctx context.Context, H mat.SparseMat, threads int) (int, error) {
	rows, cols := H.Dims()
	work := mat.CSRMatCopy(H)
	return forward(ctx, min(rows, cols), work, make([]int, cols), threads, false)
}

func progress(rows int, show bool) *pb.ProgressBar {
	bar := pb.Full.New(rows)
	bar.Set("prefix", "Processing Row ")
	bar.SetWriter(os.Stdout)
	if show {
		bar.Start()
	}
	return bar
}

func finish(bar *pb.ProgressBar) {
	bar.SetTemplateString(`{{string . "prefix"}}{{counters . }}{{string . "suffix"}}`)
	bar.Set("suffix", " Done")
	bar.Finish()
}

// forward clears everything below the diagonal and returns the number of
// pivots found.
func forward(ctx context.Context, rows int, H mat.SparseMat, order []int, threads int, show bool) (int, error) {
	logrus.Debugf("Row echelon")
	bar := progress(rows, show)
	defer finish(bar)

	for r := 0; r < rows; r++ {
		select {
		case <-ctx.Done():
			return -1, ErrCancelled
		default:
		}
		bar.Increment()

		pivots := pivotColumn(H, r, order)
		if pivots == nil {
			return r, nil
		}
		H.SwapRows(r, pivots[len(pivots)-1])
		eliminate(ctx, r, H, threads, func(p int) bool { return p > r })
	}
	return rows, nil
}

// backward clears everything above the diagonal.
func backward(ctx context.Context, rows int, H mat.SparseMat, threads int, show bool) error {
	logrus.Debugf("Reduced row echelon")
	bar := progress(rows, show)
	defer finish(bar)

	for r := 0; r < rows; r++ {
		select {
		case <-ctx.Done():
			return ErrCancelled
		default:
		}
		bar.Increment()
		eliminate(ctx, r, H, threads, func(p int) bool { return p != r })
	}
	return nil
}

// pivotColumn returns the rows holding a 1 in column r, swapping in a later
// column first when no row at or below r has one. nil means no pivot exists.
func pivotColumn(H mat.SparseMat, r int, order []int) []int {
	pivots := H.Column(r).NonzeroArray()
	if len(pivots) > 0 && pivots[len(pivots)-1] >= r {
		return pivots
	}

	rows, _ := H.Dims()
	swap := -1
	for i := r; i < rows && swap == -1; i++ {
		row := H.Row(i).NonzeroArray()
		if len(row) > 0 && row[len(row)-1] > r {
			swap = row[len(row)-1]
		}
	}
	if swap == -1 {
		return nil
	}

	H.SwapColumns(r, swap)
	order[r], order[swap] = order[swap], order[r]
	return H.Column(r).NonzeroArray()
}

// eliminate adds row r to every selected row with a 1 in column r.
func eliminate(ctx context.Context, r int, H mat.SparseMat, threads int, selected func(int) bool) {
	pivots := H.Column(r).NonzeroArray()
	pool := threadpool.New(ctx, threads)
	pivotRow := H.Row(r)
	mux := sync.RWMutex{}

	for _, p := range pivots {
		if !selected(p) {
			continue
		}
		p := p
		pool.Add(func() {
			mux.RLock()
			row := H.Row(p)
			mux.RUnlock()
			row.Add(row, pivotRow)
			mux.Lock()
			H.SetRow(p, row)
			mux.Unlock()
		})
	}
	pool.Wait()
}
