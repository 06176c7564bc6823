package controller

import "time"

// Classification is how a response event is recorded.
type Classification int

const (
	// Ignored responses arrive while the session is stopped.
	Ignored Classification = iota
	// ValidReaction responses arrive while the stimulus is armed.
	ValidReaction
	// PrematureResponse responses arrive while the session is waiting for
	// the stimulus and count as errors.
	PrematureResponse
)

func (c Classification) String() string {
	return [...]string{"ignored", "reaction", "premature"}[c]
}

// Classify applies the response policy: a response is a valid reaction iff
// the stimulus is armed at the moment of response. There is no time window
// or debounce.
func Classify(state State) Classification {
	switch state {
	case Signaled:
		return ValidReaction
	case Waiting:
		return PrematureResponse
	default:
		return Ignored
	}
}

// Response is the outcome of a response event. ReactionMs is only set for a
// ValidReaction.
type Response struct {
	Classification Classification `json:"classification"`
	ReactionMs     float64        `json:"reactionMs,omitempty"`
}

// reactionMs is the time between arming and the response in fractional
// milliseconds. A response timestamped before arming counts as 0.
func reactionMs(armedAt time.Time, now time.Time) float64 {
	elapsed := now.Sub(armedAt)
	if elapsed < 0 {
		return 0
	}
	return float64(elapsed) / float64(time.Millisecond)
}

func (c Classification) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
