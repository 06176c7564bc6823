package stimulus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource replays values in order, repeating the last one.
type fixedSource struct {
	values []float64
	i      int
}

func (s *fixedSource) Float64() float64 {
	v := s.values[s.i]
	if s.i < len(s.values)-1 {
		s.i++
	}
	return v
}

type fakeTimer struct {
	delay   time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

// fakeTimers records timers so tests can fire them by hand.
type fakeTimers struct {
	timers []*fakeTimer
}

func (f *fakeTimers) AfterFunc(d time.Duration, fn func()) Timer {
	t := &fakeTimer{delay: d, f: fn}
	f.timers = append(f.timers, t)
	return t
}

func (f *fakeTimers) last() *fakeTimer {
	return f.timers[len(f.timers)-1]
}

func newTestScheduler(t *testing.T, values ...float64) (*Scheduler, *fakeTimers) {
	timers := &fakeTimers{}
	s, err := NewScheduler(&fixedSource{values: values}, timers, DefaultMinDelay, DefaultMaxDelay)
	require.Nilf(t, err, "expected NewScheduler(...) has no err; got %v", err)
	return s, timers
}

func TestNewScheduler_RejectsInvalidRange(t *testing.T) {
	_, err := NewScheduler(&fixedSource{values: []float64{0}}, &fakeTimers{}, time.Second, time.Second)
	assert.Error(t, err)

	_, err = NewScheduler(&fixedSource{values: []float64{0}}, &fakeTimers{}, -time.Second, time.Second)
	assert.Error(t, err)
}

func TestScheduler_Schedule_DelayWithinRange(t *testing.T) {
	tests := []struct {
		name string
		u    float64
		want time.Duration
	}{
		{name: "lower edge", u: 0, want: 400 * time.Millisecond},
		{name: "midpoint", u: 0.5, want: 2200 * time.Millisecond},
		{name: "upper edge is exclusive", u: 0.9999999999999999, want: 4000*time.Millisecond - 1},
		{name: "out of range source clamps high", u: 1.5, want: 4000*time.Millisecond - 1},
		{name: "out of range source clamps low", u: -0.5, want: 400 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, timers := newTestScheduler(t, tt.u)
			delay := s.Schedule(func() {})
			assert.Equalf(t, tt.want, delay, "expected delay %v for u = %v; got %v", tt.want, tt.u, delay)
			assert.Equal(t, delay, timers.last().delay)
			assert.GreaterOrEqual(t, int64(delay), int64(DefaultMinDelay))
			assert.Less(t, int64(delay), int64(DefaultMaxDelay))
		})
	}
}

func TestScheduler_Schedule_UniformSourceStaysInRange(t *testing.T) {
	timers := &fakeTimers{}
	s, err := NewScheduler(NewUniformSource(42), timers, DefaultMinDelay, DefaultMaxDelay)
	require.Nil(t, err)

	for i := 0; i < 10000; i++ {
		delay := s.Schedule(func() {})
		if delay < DefaultMinDelay || delay >= DefaultMaxDelay {
			t.Fatalf("expected delay in [%v, %v); got %v", DefaultMinDelay, DefaultMaxDelay, delay)
		}
	}
}

func TestScheduler_Schedule_ReplacesPending(t *testing.T) {
	s, timers := newTestScheduler(t, 0.1, 0.2)
	calls := 0

	s.Schedule(func() { calls++ })
	first := timers.last()
	s.Schedule(func() { calls++ })
	second := timers.last()

	assert.True(t, first.stopped, "expected first timer stopped after reschedule")
	assert.False(t, second.stopped)

	// A stale timer that fires despite being stopped must not invoke its
	// callback.
	first.f()
	assert.Equal(t, 0, calls)

	second.f()
	assert.Equal(t, 1, calls)
	assert.False(t, s.IsPending())
}

func TestScheduler_Cancel(t *testing.T) {
	s, timers := newTestScheduler(t, 0.3)
	fired := false

	s.Schedule(func() { fired = true })
	assert.True(t, s.IsPending())

	s.Cancel()
	assert.False(t, s.IsPending())
	assert.True(t, timers.last().stopped)

	timers.last().f()
	assert.False(t, fired, "expected cancelled timer not to fire its callback")

	// Idempotent.
	s.Cancel()
	assert.False(t, s.IsPending())
}

func TestScheduler_FiredTimerOnlyInvokesOnce(t *testing.T) {
	s, timers := newTestScheduler(t, 0.3)
	calls := 0

	s.Schedule(func() { calls++ })
	timers.last().f()
	timers.last().f()
	assert.Equal(t, 1, calls)
}

func TestScheduler_CallbackMayReschedule(t *testing.T) {
	s, timers := newTestScheduler(t, 0.3)
	calls := 0

	var onArmed func()
	onArmed = func() {
		calls++
		if calls == 1 {
			s.Schedule(onArmed)
		}
	}
	s.Schedule(onArmed)
	timers.last().f()

	require.Len(t, timers.timers, 2)
	assert.True(t, s.IsPending())
	timers.last().f()
	assert.Equal(t, 2, calls)
}

func TestUniformSource_SameSeedSameSequence(t *testing.T) {
	a := NewUniformSource(7)
	b := NewUniformSource(7)
	for i := 0; i < 100; i++ {
		x, y := a.Float64(), b.Float64()
		assert.Equal(t, x, y)
		assert.True(t, x >= 0 && x < 1, "expected value in [0, 1); got %v", x)
	}
}
