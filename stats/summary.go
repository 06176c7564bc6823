// Package stats derives metrics from a session's reactions and errors.
package stats

import (
	"fmt"
	"math"

	mstats "github.com/montanaflynn/stats"
)

// Summary describes a set of reaction times in milliseconds.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P75    float64 `json:"p75"`
	P95    float64 `json:"p95"`
	StdDev float64 `json:"stdDev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize returns nil for an empty input.
func Summarize(reactions []float64) *Summary {
	// The stats package requires input arrays to be non-empty.
	if len(reactions) == 0 {
		return nil
	}

	data := mstats.Float64Data(reactions)
	return &Summary{
		Count:  len(reactions),
		Mean:   must(data.Mean()),
		Median: must(data.Median()),
		P75:    must(data.Percentile(75)),
		P95:    must(data.Percentile(95)),
		StdDev: must(data.StandardDeviation()),
		Min:    must(data.Min()),
		Max:    must(data.Max()),
	}
}

func must(v float64, err error) float64 {
	if err != nil {
		panic(fmt.Errorf("unexpected err in Summarize() on non-empty input: %w", err))
	}
	return v
}

// ErrorsPer1000 is the number of premature responses per 1000 reactions,
// rounded to one decimal place. It is 0 when there are no reactions.
func ErrorsPer1000(errorCount int, totalReactions int) float64 {
	if totalReactions == 0 {
		return 0
	}
	return math.Round(float64(errorCount)/float64(totalReactions)*1000*10) / 10
}
