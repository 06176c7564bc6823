// Package reactioncollector aggregates reaction times into percentiles.
package reactioncollector

import "time"

type Aggregation struct {
	P50 time.Duration // P50 is the 50th percentile reaction time.
	P75 time.Duration // P75 is the 75th percentile reaction time.
	P95 time.Duration // P95 is the 95th percentile reaction time.
}

// Milliseconds returns the percentiles as fractional milliseconds.
func (a *Aggregation) Milliseconds() (p50 float64, p75 float64, p95 float64) {
	return toMilliseconds(a.P50), toMilliseconds(a.P75), toMilliseconds(a.P95)
}

type Collector interface {
	Len() int                // Len gets the number of reactions collected.
	Add(t time.Duration)     // Add sends a new reaction time to the collector.
	Aggregate() *Aggregation // Aggregate calculates percentiles over the collected reactions.
	Reset()                  // Reset resets the state of the collector for reuse.
}

// FromMilliseconds converts a fractional millisecond reaction to a Duration.
func FromMilliseconds(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

func toMilliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
