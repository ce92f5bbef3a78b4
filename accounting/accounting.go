// Package accounting counts residual bit errors between what was sent and
// what was recovered.
package accounting

import "github.com/nathanhack/fecsim/fec"

// Func counts the differences between an expected and an actual sequence.
type Func func(expected, actual fec.Bits) (int, error)

// Count is the number of positions where expected and actual differ. The
// sequences must have the same length.
func Count(expected, actual fec.Bits) (int, error) {
	if len(expected) != len(actual) {
		return 0, &fec.LengthError{Kind: "length mismatch", Expected: len(expected), Actual: len(actual)}
	}
	return differences(expected, actual), nil
}

// CountTolerant aligns both sequences at index 0 and counts every missing
// or extra bit at the end as an error.
func CountTolerant(expected, actual fec.Bits) int {
	shorter, longer := len(expected), len(actual)
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	return longer - shorter + differences(expected[:shorter], actual[:shorter])
}

// Tolerant adapts CountTolerant to a Func.
func Tolerant(expected, actual fec.Bits) (int, error) {
	return CountTolerant(expected, actual), nil
}

func differences(a, b fec.Bits) int {
	count := 0
	for i := range a {
		if a[i] != b[i] {
			count++
		}
	}
	return count
}
