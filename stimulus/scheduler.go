// Package stimulus schedules the randomly delayed arming of the visual
// stimulus. A Scheduler holds no session state: it is a cancellable
// single-shot delayed invocation whose delay is drawn from a RandomSource.
package stimulus

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	DefaultMinDelay = 400 * time.Millisecond
	DefaultMaxDelay = 4000 * time.Millisecond
)

type Scheduler struct {
	source   RandomSource
	timers   TimerFactory
	minDelay time.Duration
	maxDelay time.Duration
	// pending is the only outstanding timer. generation is bumped whenever
	// pending is replaced or cancelled, so a timer which fires concurrently
	// with its replacement can tell it is stale.
	pending    Timer
	generation uint64
	mux        *sync.Mutex
}

func NewScheduler(source RandomSource, timers TimerFactory, minDelay time.Duration, maxDelay time.Duration) (*Scheduler, error) {
	if minDelay < 0 || maxDelay <= minDelay {
		return nil, errors.New(fmt.Sprintf("NewScheduler() expected 0 <= minDelay < maxDelay; got minDelay = %v, maxDelay = %v", minDelay, maxDelay))
	}

	return &Scheduler{
		source:   source,
		timers:   timers,
		minDelay: minDelay,
		maxDelay: maxDelay,
		mux:      &sync.Mutex{},
	}, nil
}

// Schedule cancels any pending invocation and arranges for onArmed to be
// called once after a delay drawn uniformly from [minDelay, maxDelay). The
// drawn delay is returned.
func (s *Scheduler) Schedule(onArmed func()) time.Duration {
	s.mux.Lock()
	defer s.mux.Unlock()

	delay := s.drawDelay()
	s.stopPendingLocked()
	generation := s.generation
	s.pending = s.timers.AfterFunc(delay, func() {
		s.fire(generation, onArmed)
	})

	return delay
}

// Cancel discards the pending invocation, if any. It is safe to call Cancel
// when nothing is pending.
func (s *Scheduler) Cancel() {
	s.mux.Lock()
	s.stopPendingLocked()
	s.mux.Unlock()
}

// IsPending reports whether an invocation is outstanding.
func (s *Scheduler) IsPending() bool {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.pending != nil
}

func (s *Scheduler) stopPendingLocked() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.generation++
}

func (s *Scheduler) fire(generation uint64, onArmed func()) {
	s.mux.Lock()
	if generation != s.generation {
		s.mux.Unlock()
		return
	}
	s.pending = nil
	s.generation++
	s.mux.Unlock()

	// onArmed is called without holding mux so it may call back into the
	// scheduler.
	onArmed()
}

func (s *Scheduler) drawDelay() time.Duration {
	u := s.source.Float64()
	delay := s.minDelay + time.Duration(u*float64(s.maxDelay-s.minDelay))

	// Guard against sources which stray outside [0, 1) and float rounding at
	// the upper edge.
	if delay < s.minDelay {
		delay = s.minDelay
	} else if delay >= s.maxDelay {
		delay = s.maxDelay - 1
	}
	return delay
}
