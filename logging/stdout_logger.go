package logging

import (
	"log"
	"time"
)

// stdoutLogger logs the output to standard output.
type stdoutLogger struct{}

func NewStdoutLogger() *stdoutLogger {
	return &stdoutLogger{}
}

func (*stdoutLogger) LogSessionToggled(running bool, reactions int, errorCount int) {
	if running {
		log.Printf("session started\n")
		return
	}
	log.Printf("session stopped: reactions: %d, errors: %d\n", reactions, errorCount)
}

func (*stdoutLogger) LogStimulusScheduled(_ time.Duration) {
	// Do not log individual delays to stdout.
	return
}

func (*stdoutLogger) LogReaction(reactionMs float64) {
	log.Printf("reaction: %.1f ms\n", reactionMs)
}

func (*stdoutLogger) LogPrematureResponse(errorCount int) {
	log.Printf("premature response, errors: %d\n", errorCount)
}

func (*stdoutLogger) LogAggregateReactions(p50 float64, p75 float64, p95 float64) {
	log.Printf("p50: %.1f ms, p75: %.1f ms, p95: %.1f ms\n", p50, p75, p95)
}

// Close is a no-op as every event is written immediately.
func (*stdoutLogger) Close() {}
