package stimulus

import "time"

// Timer is a pending single-shot invocation.
type Timer interface {
	// Stop prevents the Timer from firing, returning false if it has already
	// fired or been stopped.
	Stop() bool
}

// TimerFactory arranges for f to be called once after d has elapsed.
type TimerFactory interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type RealtimeTimers struct{}

func NewRealtimeTimers() RealtimeTimers {
	return RealtimeTimers{}
}

func (RealtimeTimers) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
