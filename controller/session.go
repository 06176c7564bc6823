package controller

import "time"

// State is the position of a session in its start/stop and stimulus cycle.
type State int

const (
	// Stopped means responses are ignored and no stimulus is pending.
	Stopped State = iota
	// Waiting means the session is running and the stimulus is not armed.
	Waiting
	// Signaled means the stimulus is armed and a response is expected.
	Signaled
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Waiting:
		return "waiting"
	case Signaled:
		return "signaled"
	default:
		return "unknown"
	}
}

// Session is owned by a SessionController. Reactions are in milliseconds and
// kept in trial order. ErrorCount is counted independently of Reactions.
//
// Invariants: SignalArmed implies Running; ArmedAt is non-nil iff SignalArmed.
type Session struct {
	Running      bool
	SignalArmed  bool
	ArmedAt      *time.Time
	LastReaction *float64
	Reactions    []float64
	ErrorCount   int
}

func newSession() Session {
	return Session{Reactions: []float64{}}
}

func (s *Session) State() State {
	if !s.Running {
		return Stopped
	}
	if s.SignalArmed {
		return Signaled
	}
	return Waiting
}

// clone returns a deep copy which shares no memory with s.
func (s *Session) clone() Session {
	c := *s
	c.Reactions = make([]float64, len(s.Reactions))
	copy(c.Reactions, s.Reactions)
	if s.ArmedAt != nil {
		armedAt := *s.ArmedAt
		c.ArmedAt = &armedAt
	}
	if s.LastReaction != nil {
		lastReaction := *s.LastReaction
		c.LastReaction = &lastReaction
	}
	return c
}
