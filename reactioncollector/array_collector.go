package reactioncollector

import (
	"sync"
	"time"

	"github.com/kcz17/reactiontime/stats"
)

// arrayCollector keeps every reaction of a session. As storage and
// computation are both O(n), it suits sessions of human-scale length.
type arrayCollector struct {
	reactionsMs    []float64
	reactionsMsMux *sync.Mutex
}

func NewArrayCollector() *arrayCollector {
	return &arrayCollector{
		reactionsMs:    []float64{},
		reactionsMsMux: &sync.Mutex{},
	}
}

func (c *arrayCollector) All() []float64 {
	c.reactionsMsMux.Lock()
	defer c.reactionsMsMux.Unlock()
	reactions := make([]float64, len(c.reactionsMs))
	copy(reactions, c.reactionsMs)
	return reactions
}

func (c *arrayCollector) Len() int {
	c.reactionsMsMux.Lock()
	defer c.reactionsMsMux.Unlock()
	return len(c.reactionsMs)
}

func (c *arrayCollector) Add(t time.Duration) {
	c.reactionsMsMux.Lock()
	c.reactionsMs = append(c.reactionsMs, toMilliseconds(t))
	c.reactionsMsMux.Unlock()
}

func (c *arrayCollector) Aggregate() *Aggregation {
	// Summarize works on a copy, so we must hold onto the mutex while
	// calculations are being made.
	c.reactionsMsMux.Lock()
	defer c.reactionsMsMux.Unlock()

	summary := stats.Summarize(c.reactionsMs)
	if summary == nil {
		return &Aggregation{}
	}
	return &Aggregation{
		P50: FromMilliseconds(summary.Median),
		P75: FromMilliseconds(summary.P75),
		P95: FromMilliseconds(summary.P95),
	}
}

func (c *arrayCollector) Reset() {
	c.reactionsMsMux.Lock()
	c.reactionsMs = []float64{}
	c.reactionsMsMux.Unlock()
}
