package controller

import (
	"testing"

	"github.com/kcz17/reactiontime/histogram"
	"github.com/kcz17/reactiontime/sharing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionController_View_Empty(t *testing.T) {
	c, _, _ := newTestController()

	view := c.View()
	assert.Equal(t, "test", view.SessionID)
	assert.False(t, view.Running)
	assert.Equal(t, "stopped", view.State)
	assert.False(t, view.SignalActive)
	assert.Equal(t, IdleSignalColor, view.SignalColor)
	assert.Equal(t, "", view.LastReactionText)
	assert.Equal(t, []histogram.Bin{}, view.Histogram)
	assert.Equal(t, float64(0), view.ErrorsPer1000)
	assert.Nil(t, view.ShareURL, "expected no share url without reactions")
	assert.Nil(t, view.Summary)

	_, ok := c.ShareURL()
	assert.False(t, ok)
}

func TestSessionController_View_ErrorRate(t *testing.T) {
	c, _, _ := newTestController()
	require.Nil(t, c.Hydrate(&sharing.SharedState{Reactions: []float64{100, 140, 260}, ErrorCount: 1}))

	view := c.View()
	assert.Equal(t, 333.3, view.ErrorsPer1000)
	assert.Equal(t, 3, view.Reactions)
	assert.Equal(t, 1, view.ErrorCount)
	assert.Len(t, view.Histogram, 7)
	require.NotNil(t, view.Summary)
	assert.Equal(t, float64(140), view.Summary.Median)
}

func TestSessionController_View_SignalActive(t *testing.T) {
	c, scheduler, _ := newTestController()
	c.ToggleStart()
	assert.Equal(t, IdleSignalColor, c.View().SignalColor)

	scheduler.fireLast()
	view := c.View()
	assert.True(t, view.Running)
	assert.True(t, view.SignalActive)
	assert.Equal(t, ArmedSignalColor, view.SignalColor)
	assert.Equal(t, "signaled", view.State)
}

func TestSessionController_ShareURL_RoundTrips(t *testing.T) {
	c, scheduler, clock := newTestController()
	c.ToggleStart()
	scheduler.fireLast()
	c.Respond(clock.advance(220))
	c.Respond(clock.advance(5))

	shareURL, ok := c.ShareURL()
	require.True(t, ok)
	assert.Equal(t, shareURL, *c.View().ShareURL)

	state, err := sharing.Decode(shareURL)
	require.Nil(t, err)
	assert.Equal(t, &sharing.SharedState{Reactions: []float64{220}, ErrorCount: 1}, state)

	other, _, _ := newTestController()
	require.Nil(t, other.Hydrate(state))
	assert.Equal(t, c.SharedState(), other.SharedState())
}

func TestLastReactionText(t *testing.T) {
	assert.Equal(t, "", LastReactionText(nil))
	for _, tt := range []struct {
		ms   float64
		want string
	}{
		{ms: 0, want: "0 ms"},
		{ms: 249.5, want: "250 ms"},
		{ms: 249.49, want: "249 ms"},
	} {
		ms := tt.ms
		assert.Equal(t, tt.want, LastReactionText(&ms))
	}
}
