package controller

import (
	"fmt"
	"log"
	"math"

	"github.com/kcz17/reactiontime/histogram"
	"github.com/kcz17/reactiontime/sharing"
	"github.com/kcz17/reactiontime/stats"
)

// Signal colours shown by a renderer.
const (
	IdleSignalColor  = "green"
	ArmedSignalColor = "red"
)

// View is everything a renderer reads to paint the session. It is computed
// fresh on every call and never shares memory with the session.
type View struct {
	SessionID        string          `json:"sessionId"`
	Running          bool            `json:"running"`
	State            string          `json:"state"`
	SignalActive     bool            `json:"signalActive"`
	SignalColor      string          `json:"signalColor"`
	LastReactionText string          `json:"lastReactionText"`
	Histogram        []histogram.Bin `json:"histogram"`
	Reactions        int             `json:"reactions"`
	ErrorCount       int             `json:"errorCount"`
	ErrorsPer1000    float64         `json:"errorsPer1000"`
	// ShareURL is nil when there is nothing to share.
	ShareURL *string `json:"shareUrl"`
	// Summary is nil when there are no reactions.
	Summary *stats.Summary `json:"summary"`
}

// View computes the renderer view of the session.
func (c *SessionController) View() *View {
	c.mux.Lock()
	session := c.session.clone()
	shared := c.sharedStateLocked()
	c.mux.Unlock()

	color := IdleSignalColor
	if session.SignalArmed {
		color = ArmedSignalColor
	}

	return &View{
		SessionID:        c.sessionID,
		Running:          session.Running,
		State:            session.State().String(),
		SignalActive:     session.SignalArmed,
		SignalColor:      color,
		LastReactionText: LastReactionText(session.LastReaction),
		Histogram:        histogram.Build(session.Reactions),
		Reactions:        len(session.Reactions),
		ErrorCount:       session.ErrorCount,
		ErrorsPer1000:    stats.ErrorsPer1000(session.ErrorCount, len(session.Reactions)),
		ShareURL:         c.shareURL(shared),
		Summary:          stats.Summarize(session.Reactions),
	}
}

// ShareURL returns the share link for the session, or false if there are no
// reactions to share.
func (c *SessionController) ShareURL() (string, bool) {
	shareURL := c.shareURL(c.SharedState())
	if shareURL == nil {
		return "", false
	}
	return *shareURL, true
}

func (c *SessionController) shareURL(shared *sharing.SharedState) *string {
	if len(shared.Reactions) == 0 {
		return nil
	}

	shareURL, err := sharing.Encode(c.shareBaseURL, *shared)
	if err != nil {
		log.Printf("could not encode share url: err = %v", err)
		return nil
	}
	return &shareURL
}

// LastReactionText formats a reaction rounded to the nearest millisecond, or
// returns an empty string if there is none.
func LastReactionText(lastReaction *float64) string {
	if lastReaction == nil {
		return ""
	}
	return fmt.Sprintf("%d ms", int64(math.Round(*lastReaction)))
}
