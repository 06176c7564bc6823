// Package controller owns a reaction-time session and orchestrates the
// stimulus scheduler, response classification and the derived views read by
// a renderer.
//
// All session mutation happens inside ToggleStart, Respond, Hydrate or the
// scheduler's arming callback, serialised by a single mutex.
package controller

import (
	"errors"
	"sync"
	"time"

	"github.com/kcz17/reactiontime/logging"
	"github.com/kcz17/reactiontime/reactioncollector"
	"github.com/kcz17/reactiontime/sharing"
)

// ErrSessionRunning is returned by Hydrate while a session is in progress.
var ErrSessionRunning = errors.New("session is running")

// StimulusScheduler arranges a single pending, cancellable call of onArmed.
// Schedule replaces any pending call.
type StimulusScheduler interface {
	Schedule(onArmed func()) time.Duration
	Cancel()
}

// Options configures a SessionController. A nil Clock, Collector or Logger
// falls back to the realtime clock, an array collector and a noop logger.
type Options struct {
	Scheduler StimulusScheduler
	Clock     Clock
	// Collector aggregates recent reactions; it is reset whenever the
	// session starts.
	Collector reactioncollector.Collector
	Logger    logging.Logger
	// ShareBaseURL is the origin and path share links are built on.
	ShareBaseURL string
	SessionID    string
}

// SessionController is the single owner of a Session. It is safe for
// concurrent use by request handlers and the scheduler's arming callback.
type SessionController struct {
	session      Session
	scheduler    StimulusScheduler
	clock        Clock
	collector    reactioncollector.Collector
	logger       logging.Logger
	shareBaseURL string
	sessionID    string
	// armGeneration identifies the latest scheduled arming. Callbacks from
	// earlier schedules are ignored even if they slip past cancellation.
	armGeneration uint64
	mux           *sync.Mutex
}

func NewSessionController(options *Options) *SessionController {
	c := &SessionController{
		session:      newSession(),
		scheduler:    options.Scheduler,
		clock:        options.Clock,
		collector:    options.Collector,
		logger:       options.Logger,
		shareBaseURL: options.ShareBaseURL,
		sessionID:    options.SessionID,
		mux:          &sync.Mutex{},
	}
	if c.clock == nil {
		c.clock = NewRealtimeClock()
	}
	if c.collector == nil {
		c.collector = reactioncollector.NewArrayCollector()
	}
	if c.logger == nil {
		c.logger = logging.NewNoopLogger()
	}
	return c
}

// ToggleStart starts a stopped session or stops a running one. Starting
// clears reactions and errors and schedules the first stimulus. Stopping
// cancels any pending stimulus before returning and keeps the results for
// export.
func (c *SessionController) ToggleStart() {
	c.mux.Lock()
	defer c.mux.Unlock()

	if c.session.Running {
		c.scheduler.Cancel()
		c.armGeneration++
		c.session.Running = false
		c.session.SignalArmed = false
		c.session.ArmedAt = nil
		c.logger.LogSessionToggled(false, len(c.session.Reactions), c.session.ErrorCount)
		return
	}

	c.session.Reactions = []float64{}
	c.session.ErrorCount = 0
	c.collector.Reset()
	c.session.Running = true
	c.logger.LogSessionToggled(true, 0, 0)
	c.scheduleLocked()
}

// Respond records a response made at now. Every response to a running
// session, valid or premature, restarts the wait with a fresh random delay.
func (c *SessionController) Respond(now time.Time) Response {
	c.mux.Lock()
	defer c.mux.Unlock()

	response := Response{Classification: Classify(c.session.State())}
	switch response.Classification {
	case Ignored:
		return response
	case ValidReaction:
		reaction := reactionMs(*c.session.ArmedAt, now)
		c.session.Reactions = append(c.session.Reactions, reaction)
		c.session.LastReaction = &reaction
		c.session.SignalArmed = false
		c.session.ArmedAt = nil
		c.collector.Add(reactioncollector.FromMilliseconds(reaction))
		c.logger.LogReaction(reaction)
		response.ReactionMs = reaction
	case PrematureResponse:
		c.session.ErrorCount++
		c.logger.LogPrematureResponse(c.session.ErrorCount)
	}

	c.scheduleLocked()
	return response
}

// OnStimulusArmed arms the stimulus at now. It does nothing unless the
// session is waiting for a stimulus.
func (c *SessionController) OnStimulusArmed(now time.Time) {
	c.mux.Lock()
	defer c.mux.Unlock()
	c.armLocked(now)
}

// Hydrate seeds a stopped session with shared results.
func (c *SessionController) Hydrate(state *sharing.SharedState) error {
	c.mux.Lock()
	defer c.mux.Unlock()

	if c.session.Running {
		return ErrSessionRunning
	}

	c.session.Reactions = make([]float64, len(state.Reactions))
	copy(c.session.Reactions, state.Reactions)
	c.session.ErrorCount = state.ErrorCount
	c.session.LastReaction = nil

	c.collector.Reset()
	for _, reaction := range c.session.Reactions {
		c.collector.Add(reactioncollector.FromMilliseconds(reaction))
	}
	return nil
}

// Snapshot returns a copy of the session.
func (c *SessionController) Snapshot() Session {
	c.mux.Lock()
	defer c.mux.Unlock()
	return c.session.clone()
}

func (c *SessionController) State() State {
	c.mux.Lock()
	defer c.mux.Unlock()
	return c.session.State()
}

// SharedState returns the exportable projection of the session.
func (c *SessionController) SharedState() *sharing.SharedState {
	c.mux.Lock()
	defer c.mux.Unlock()
	return c.sharedStateLocked()
}

// Aggregate returns percentiles of the reactions held by the collector.
func (c *SessionController) Aggregate() *reactioncollector.Aggregation {
	return c.collector.Aggregate()
}

func (c *SessionController) SessionID() string {
	return c.sessionID
}

func (c *SessionController) sharedStateLocked() *sharing.SharedState {
	reactions := make([]float64, len(c.session.Reactions))
	copy(reactions, c.session.Reactions)
	return &sharing.SharedState{
		Reactions:  reactions,
		ErrorCount: c.session.ErrorCount,
	}
}

func (c *SessionController) scheduleLocked() {
	c.armGeneration++
	generation := c.armGeneration
	delay := c.scheduler.Schedule(func() {
		c.stimulusFired(generation)
	})
	c.logger.LogStimulusScheduled(delay)
}

func (c *SessionController) stimulusFired(generation uint64) {
	c.mux.Lock()
	defer c.mux.Unlock()

	if generation != c.armGeneration {
		return
	}
	c.armLocked(c.clock.Now())
}

func (c *SessionController) armLocked(now time.Time) {
	if c.session.State() != Waiting {
		return
	}
	armedAt := now
	c.session.ArmedAt = &armedAt
	c.session.SignalArmed = true
}
