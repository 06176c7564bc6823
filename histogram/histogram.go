// Package histogram groups reaction times into fixed-width time buckets.
package histogram

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

const (
	// BinWidth is the width of every bin in milliseconds.
	BinWidth = 50
	// BoundStep is the unit the largest reaction is rounded up to when
	// computing the last bin. As it differs from BinWidth, the final bin only
	// holds reactions equal to the bound and is empty unless the largest
	// reaction is a multiple of BoundStep.
	BoundStep = 100
	// MaxReactionMs is the largest reaction that is binned, one hour. It is a
	// multiple of BoundStep, so the bin count stays bounded.
	MaxReactionMs = 60 * 60 * 1000
)

// Bin counts the reactions r with RangeStart <= r < RangeEnd, in milliseconds.
type Bin struct {
	RangeStart int `json:"rangeStart"`
	RangeEnd   int `json:"rangeEnd"`
	Count      int `json:"count"`
}

func (b Bin) Label() string {
	return fmt.Sprintf("%d-%d ms", b.RangeStart, b.RangeEnd)
}

// UpperBound returns the start of the last bin for reactions, which is the
// largest binned reaction rounded up to the nearest BoundStep. It never
// exceeds MaxReactionMs.
func UpperBound(reactions []float64) int {
	binned := binnable(reactions)
	if len(binned) == 0 {
		return 0
	}
	return upperBound(binned[len(binned)-1])
}

func upperBound(largest float64) int {
	return int(math.Ceil(largest/BoundStep)) * BoundStep
}

// binnable returns a sorted copy of the reactions in [0, MaxReactionMs].
// stat.Histogram requires sorted input, and the copy leaves the caller's
// trial order untouched.
func binnable(reactions []float64) []float64 {
	binned := make([]float64, 0, len(reactions))
	for _, r := range reactions {
		// NaN fails both comparisons.
		if r >= 0 && r <= MaxReactionMs {
			binned = append(binned, r)
		}
	}
	sort.Float64s(binned)
	return binned
}

// Build returns contiguous bins covering [0, UpperBound(reactions)+BinWidth)
// in ascending order. Bins with no reactions are kept. Reactions that are
// negative, not finite or above MaxReactionMs fall in no bin. An input with
// no binnable reaction gives an empty, non-nil slice.
func Build(reactions []float64) []Bin {
	binned := binnable(reactions)
	if len(binned) == 0 {
		return []Bin{}
	}

	upper := upperBound(binned[len(binned)-1])
	dividers := make([]float64, 0, upper/BinWidth+2)
	for v := 0; v <= upper+BinWidth; v += BinWidth {
		dividers = append(dividers, float64(v))
	}
	counts := stat.Histogram(make([]float64, len(dividers)-1), dividers, binned, nil)

	bins := make([]Bin, len(counts))
	for i, count := range counts {
		start := i * BinWidth
		bins[i] = Bin{
			RangeStart: start,
			RangeEnd:   start + BinWidth,
			Count:      int(count),
		}
	}
	return bins
}

// Labels returns the label of each bin in order.
func Labels(bins []Bin) []string {
	labels := make([]string, len(bins))
	for i, bin := range bins {
		labels[i] = bin.Label()
	}
	return labels
}
