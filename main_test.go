package main

import (
	"errors"
	"testing"

	"github.com/kcz17/reactiontime/logging"
	"github.com/stretchr/testify/assert"
)

// shutdownRecorder appends each call to a shared, ordered list.
type shutdownRecorder struct {
	logging.Logger
	calls *[]string
	err   error
}

func (r *shutdownRecorder) Shutdown() error {
	*r.calls = append(*r.calls, "api")
	return r.err
}

func (r *shutdownRecorder) Stop() error {
	*r.calls = append(*r.calls, "reporting")
	return r.err
}

func (r *shutdownRecorder) Close() {
	*r.calls = append(*r.calls, "logger")
}

func TestShutdown_ClosesLoggerLast(t *testing.T) {
	var calls []string
	r := &shutdownRecorder{Logger: logging.NewNoopLogger(), calls: &calls}

	shutdown(r, r, r)
	assert.Equal(t, []string{"api", "reporting", "logger"}, calls)
}

func TestShutdown_ClosesLoggerOnErrors(t *testing.T) {
	var calls []string
	r := &shutdownRecorder{Logger: logging.NewNoopLogger(), calls: &calls, err: errors.New("already stopped")}

	shutdown(r, r, r)
	assert.Equal(t, []string{"api", "reporting", "logger"}, calls)
}
