package linearblock

import (
	"context"
	"sync"

	mat "github.com/nathanhack/sparsemat"
	"github.com/nathanhack/threadpool"
)

// Girth is the length of the shortest cycle in the Tanner graph of H, or -1
// when the graph is a forest. Every check node is searched on its own
// goroutine; threads <=0 lets the pool pick.
func (l *LinearBlock) Girth(ctx context.Context, threads int) int {
	return CalculateGirth(ctx, l.H, threads)
}

// CalculateGirth is Girth for any parity-check matrix.
func CalculateGirth(ctx context.Context, m mat.SparseMat, threads int) int {
	rows, _ := m.Dims()

	pool := threadpool.New(ctx, threads)
	girth := -1
	mux := sync.Mutex{}
	for i := 0; i < rows; i++ {
		check := i
		pool.Add(func() {
			g := shortestCycleThrough(m, check)
			mux.Lock()
			if g > 0 && (girth == -1 || g < girth) {
				girth = g
			}
			mux.Unlock()
		})
	}
	pool.Wait()
	return girth
}

// tannerNode is a check node (row) or a variable node (column).
type tannerNode struct {
	index int
	check bool
}

// shortestCycleThrough runs a BFS from a check node and returns the length
// of the first cycle closed, or -1. The minimum over all check nodes is the
// girth.
func shortestCycleThrough(m mat.SparseMat, check int) int {
	root := tannerNode{index: check, check: true}
	depth := map[tannerNode]int{root: 0}
	parent := map[tannerNode]tannerNode{}
	queue := []tannerNode{root}
	shortest := -1

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if shortest != -1 && 2*depth[node]+1 >= shortest {
			break
		}

		var neighbors []int
		if node.check {
			neighbors = m.Row(node.index).NonzeroArray()
		} else {
			neighbors = m.Column(node.index).NonzeroArray()
		}
		for _, i := range neighbors {
			next := tannerNode{index: i, check: !node.check}
			if p, ok := parent[node]; ok && p == next {
				continue
			}
			if d, seen := depth[next]; seen {
				if length := depth[node] + d + 1; shortest == -1 || length < shortest {
					shortest = length
				}
				continue
			}
			depth[next] = depth[node] + 1
			parent[next] = node
			queue = append(queue, next)
		}
	}
	return shortest
}
