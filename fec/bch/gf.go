package bch

import "fmt"

// primitive polynomials for GF(2^m), bit i is the coefficient of x^i
var primitive = map[int]int{
	2: 0x7,
	3: 0xB,
	4: 0x13,
	5: 0x25,
	6: 0x43,
	7: 0x89,
	8: 0x11D,
}

// field is GF(2^m) with elements stored as m bit integers.
type field struct {
	m   int
	n   int   // multiplicative order, 2^m-1
	exp []int // alpha^i, doubled so sums of logs need no reduction
	log []int
}

func newField(m int) (*field, error) {
	prim, ok := primitive[m]
	if !ok {
		return nil, fmt.Errorf("no primitive polynomial for m=%v", m)
	}
	n := 1<<m - 1
	f := &field{
		m:   m,
		n:   n,
		exp: make([]int, 2*n),
		log: make([]int, n+1),
	}
	x := 1
	for i := 0; i < n; i++ {
		f.exp[i] = x
		f.log[x] = i
		x <<= 1
		if x&(1<<m) != 0 {
			x ^= prim
		}
	}
	for i := n; i < 2*n; i++ {
		f.exp[i] = f.exp[i-n]
	}
	return f, nil
}

// alpha returns alpha^i for any integer i.
func (f *field) alpha(i int) int {
	i %= f.n
	if i < 0 {
		i += f.n
	}
	return f.exp[i]
}

func (f *field) mul(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return f.exp[f.log[a]+f.log[b]]
}

func (f *field) div(a, b int) int {
	if b == 0 {
		panic("division by zero in GF(2^m)")
	}
	if a == 0 {
		return 0
	}
	return f.exp[f.log[a]-f.log[b]+f.n]
}

// coset is the cyclotomic coset of i modulo n under doubling.
func (f *field) coset(i int) []int {
	i %= f.n
	result := []int{i}
	for j := i * 2 % f.n; j != i; j = j * 2 % f.n {
		result = append(result, j)
	}
	return result
}

// minimal is the minimal polynomial of alpha^i, lowest degree first. Its
// coefficients are always 0 or 1.
func (f *field) minimal(i int) []int {
	p := []int{1}
	for _, c := range f.coset(i) {
		p = f.polyMul(p, []int{f.alpha(c), 1})
	}
	return p
}

// polyMul multiplies polynomials stored lowest degree first.
func (f *field) polyMul(a, b []int) []int {
	result := make([]int, len(a)+len(b)-1)
	for i, x := range a {
		if x == 0 {
			continue
		}
		for j, y := range b {
			result[i+j] ^= f.mul(x, y)
		}
	}
	return result
}

// eval evaluates p, lowest degree first, at x.
func (f *field) eval(p []int, x int) int {
	result := 0
	for i := len(p) - 1; i >= 0; i-- {
		result = f.mul(result, x) ^ p[i]
	}
	return result
}
