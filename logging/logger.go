package logging

import "time"

// Logger records session events. Reaction times are in milliseconds.
type Logger interface {
	LogSessionToggled(running bool, reactions int, errorCount int)
	LogStimulusScheduled(delay time.Duration)
	LogReaction(reactionMs float64)
	LogPrematureResponse(errorCount int)
	LogAggregateReactions(p50 float64, p75 float64, p95 float64) // Takes in percentiles in milliseconds.
	// Close flushes buffered events. No event may be logged afterwards.
	Close()
}

// noopLogger does not perform any logging.
type noopLogger struct{}

func NewNoopLogger() *noopLogger {
	return &noopLogger{}
}

func (*noopLogger) LogSessionToggled(bool, int, int) {
	return
}

func (*noopLogger) LogStimulusScheduled(time.Duration) {
	return
}

func (*noopLogger) LogReaction(float64) {
	return
}

func (*noopLogger) LogPrematureResponse(int) {
	return
}

func (*noopLogger) LogAggregateReactions(float64, float64, float64) {
	return
}

func (*noopLogger) Close() {
	return
}
