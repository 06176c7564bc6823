package reactioncollector

import (
	"sync"
	"time"

	"github.com/jamiealquiza/tachymeter"
)

// tachymeterCollector uses the jamiealquiza/tachymeter library to keep a
// rolling window of the most recent reactions.
type tachymeterCollector struct {
	tach   *tachymeter.Tachymeter
	window int
	// count is tracked separately as tachymeter cannot report its sample size
	// without a full Calc().
	count    int
	countMux *sync.Mutex
}

func NewTachymeterCollector(window int) *tachymeterCollector {
	return &tachymeterCollector{
		tach: tachymeter.New(&tachymeter.Config{
			Size: window,
		}),
		window:   window,
		countMux: &sync.Mutex{},
	}
}

// Len is capped at the window size.
func (c *tachymeterCollector) Len() int {
	c.countMux.Lock()
	defer c.countMux.Unlock()
	return c.count
}

func (c *tachymeterCollector) Add(t time.Duration) {
	c.countMux.Lock()
	if c.count < c.window {
		c.count++
	}
	c.countMux.Unlock()
	c.tach.AddTime(t)
}

func (c *tachymeterCollector) Aggregate() *Aggregation {
	if c.Len() == 0 {
		return &Aggregation{}
	}

	aggregation := c.tach.Calc()
	return &Aggregation{
		P50: aggregation.Time.P50,
		P75: aggregation.Time.P75,
		P95: aggregation.Time.P95,
	}
}

func (c *tachymeterCollector) Reset() {
	c.countMux.Lock()
	c.count = 0
	c.countMux.Unlock()
	c.tach.Reset()
}
