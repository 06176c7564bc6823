package reactioncollector

import (
	"testing"
	"time"

	"github.com/kcz17/reactiontime/stats"
	"github.com/stretchr/testify/assert"
)

func TestArrayCollector_Aggregate(t *testing.T) {
	c := NewArrayCollector()
	assert.Equal(t, &Aggregation{}, c.Aggregate(), "expected empty collector aggregates to zero")

	for _, ms := range []float64{100, 200, 300, 400, 500} {
		c.Add(FromMilliseconds(ms))
	}
	assert.Equal(t, 5, c.Len())
	assert.Equal(t, []float64{100, 200, 300, 400, 500}, c.All())

	aggregation := c.Aggregate()
	p50, p75, p95 := aggregation.Milliseconds()
	assert.InDelta(t, 300, p50, 1e-6)
	assert.Truef(t, p75 >= p50 && p95 >= p75, "expected ordered percentiles; got p50 = %v, p75 = %v, p95 = %v", p50, p75, p95)
	assert.Truef(t, p95 <= 500, "expected p95 <= max; got %v", p95)

	c.Reset()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, &Aggregation{}, c.Aggregate())
}

func TestArrayCollector_AggregateMatchesSummary(t *testing.T) {
	reactions := []float64{412, 188.5, 250, 301, 199, 275.25, 640}
	c := NewArrayCollector()
	for _, ms := range reactions {
		c.Add(FromMilliseconds(ms))
	}

	summary := stats.Summarize(reactions)
	p50, p75, p95 := c.Aggregate().Milliseconds()
	assert.InDelta(t, summary.Median, p50, 1e-6)
	assert.InDelta(t, summary.P75, p75, 1e-6)
	assert.InDelta(t, summary.P95, p95, 1e-6)
	assert.Equal(t, reactions, c.All(), "expected Aggregate() to leave trial order untouched")
}

func TestArrayCollector_AllReturnsCopy(t *testing.T) {
	c := NewArrayCollector()
	c.Add(250 * time.Millisecond)
	all := c.All()
	all[0] = 0
	assert.Equal(t, []float64{250}, c.All())
}

func TestTachymeterCollector_Aggregate(t *testing.T) {
	c := NewTachymeterCollector(3)
	assert.Equal(t, &Aggregation{}, c.Aggregate(), "expected empty collector aggregates to zero")

	for _, ms := range []float64{1000, 1000, 1000, 200, 200, 200} {
		c.Add(FromMilliseconds(ms))
	}

	// Only the most recent window of reactions is kept.
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 200*time.Millisecond, c.Aggregate().P50)
	assert.Equal(t, 200*time.Millisecond, c.Aggregate().P95)

	c.Reset()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, &Aggregation{}, c.Aggregate())
}

func TestFromMilliseconds(t *testing.T) {
	assert.Equal(t, 250*time.Millisecond, FromMilliseconds(250))
	assert.Equal(t, 1500*time.Microsecond, FromMilliseconds(1.5))
	assert.Equal(t, 1.5, toMilliseconds(1500*time.Microsecond))
}
