// Package sampling selects which slices of a segment are evaluated.
package sampling

import (
	"math"

	"github.com/pkg/errors"
)

// ErrInterval is returned for an interval outside [0, 100]
var ErrInterval = errors.New("sampling interval must be between 0 and 100 percent")

// minSampled is the slice count below which every slice is evaluated regardless of
// the requested interval
const minSampled = 100

// Indices returns the slice indices to evaluate for a segment of n slices.
//
// An interval of 0 selects every slice. A positive interval k selects the slice at
// each k percent mark of the length (k, 2k, ... up to 100), except that segments
// shorter than 100 slices are always evaluated in full. Indices are increasing and
// unique.
func Indices(n int, interval float64) ([]int, error) {
	if interval < 0 || interval > 100 || math.IsNaN(interval) {
		return nil, errors.Wrapf(ErrInterval, "got %g", interval)
	}
	if n <= 0 {
		return []int{}, nil
	}
	if interval == 0 || n < minSampled {
		return every(n), nil
	}

	var out []int
	for step := 1; ; step++ {
		mark := interval * float64(step)
		if mark > 100+1e-9 {
			break
		}
		idx := int(math.RoundToEven(float64(n)*mark/100 - 1))
		idx = min(max(idx, 0), n-1)
		if len(out) > 0 && idx <= out[len(out)-1] {
			continue
		}
		out = append(out, idx)
	}
	return out, nil
}

func every(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// Percent returns the position of slice index as a percentage of n slices, rounded to
// one decimal place.
func Percent(index, n int) float64 {
	if n <= 0 {
		return 0
	}
	return math.RoundToEven(float64(index+1)/float64(n)*1000) / 10
}
