package controller

import "time"

// Clock reads the current time in a testable manner.
type Clock interface {
	Now() time.Time
}

type RealtimeClock struct{}

func NewRealtimeClock() RealtimeClock {
	return RealtimeClock{}
}

func (RealtimeClock) Now() time.Time { return time.Now() }
