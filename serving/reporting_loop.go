package serving

import (
	"errors"
	"sync"
	"time"

	"github.com/kcz17/reactiontime/logging"
	"github.com/kcz17/reactiontime/reactioncollector"
)

// Aggregator is read by the ReportingLoop at each tick.
type Aggregator interface {
	Aggregate() *reactioncollector.Aggregation
}

// ReportingLoop periodically logs reaction percentiles so monitoring tools
// can follow a session while it is in progress.
type ReportingLoop struct {
	aggregator Aggregator
	logger     logging.Logger
	interval   time.Duration
	// loopWG allows the spawned goroutine to be gracefully stopped.
	loopStarted bool
	loopWG      *sync.WaitGroup
	loopStop    chan bool
	loopMux     *sync.Mutex
}

func NewReportingLoop(aggregator Aggregator, logger logging.Logger, interval time.Duration) *ReportingLoop {
	return &ReportingLoop{
		aggregator: aggregator,
		logger:     logger,
		interval:   interval,
		loopMux:    &sync.Mutex{},
	}
}

func (l *ReportingLoop) Start() error {
	l.loopMux.Lock()
	defer l.loopMux.Unlock()

	if l.loopStarted {
		return errors.New("ReportingLoop.Start() failed: reporting loop already started")
	}

	l.loopStop = make(chan bool, 1)
	l.loopWG = &sync.WaitGroup{}
	l.loopWG.Add(1)
	go l.reportingLoop()

	l.loopStarted = true
	return nil
}

func (l *ReportingLoop) Stop() error {
	l.loopMux.Lock()
	defer l.loopMux.Unlock()

	if !l.loopStarted {
		return errors.New("ReportingLoop.Stop() failed: reporting loop not running")
	}

	close(l.loopStop)
	l.loopWG.Wait()

	l.loopStarted = false
	return nil
}

func (l *ReportingLoop) reportingLoop() {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	defer l.loopWG.Done()
	for {
		select {
		case <-ticker.C:
			l.report()
		case <-l.loopStop:
			return
		}
	}
}

func (l *ReportingLoop) report() {
	aggregation := l.aggregator.Aggregate()
	if *aggregation == (reactioncollector.Aggregation{}) {
		// Nothing collected since the session started.
		return
	}
	p50, p75, p95 := aggregation.Milliseconds()
	l.logger.LogAggregateReactions(p50, p75, p95)
}
