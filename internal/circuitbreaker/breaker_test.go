package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

var errBoom = errors.New("boom")

func fail() error    { return errBoom }
func succeed() error { return nil }

func newTestBreaker(clock *fakeClock, transitions *[]string) *CircuitBreaker {
	return New(Config{
		Threshold: 3,
		Timeout:   10 * time.Second,
		Now:       clock.Now,
		OnStateChange: func(from, to State) {
			*transitions = append(*transitions, from.String()+"->"+to.String())
		},
	})
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	var transitions []string
	cb := newTestBreaker(clock, &transitions)

	for i := 0; i < 2; i++ {
		assert.ErrorIs(t, cb.Call(fail), errBoom)
		assert.Equal(t, StateClosed, cb.GetState())
	}
	assert.ErrorIs(t, cb.Call(fail), errBoom)
	assert.Equal(t, StateOpen, cb.GetState())

	called := false
	err := cb.Call(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called, "open circuit must not call through")
	assert.Equal(t, []string{"closed->open"}, transitions)
}

func TestCircuitBreaker_SuccessResetsCount(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	var transitions []string
	cb := newTestBreaker(clock, &transitions)

	require.Error(t, cb.Call(fail))
	require.Error(t, cb.Call(fail))
	require.NoError(t, cb.Call(succeed))
	require.Error(t, cb.Call(fail))
	require.Error(t, cb.Call(fail))

	assert.Equal(t, StateClosed, cb.GetState(), "the success restarted the count")
	assert.Empty(t, transitions)

	require.Error(t, cb.Call(fail))
	assert.Equal(t, StateOpen, cb.GetState())
}

func TestCircuitBreaker_HalfOpenTransitions(t *testing.T) {
	tests := []struct {
		name        string
		trial       func() error
		wantState   State
		wantHistory []string
	}{
		{
			name:        "trial success closes",
			trial:       succeed,
			wantState:   StateClosed,
			wantHistory: []string{"closed->open", "open->half-open", "half-open->closed"},
		},
		{
			name:        "trial failure reopens",
			trial:       fail,
			wantState:   StateOpen,
			wantHistory: []string{"closed->open", "open->half-open", "half-open->open"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &fakeClock{t: time.Unix(1000, 0)}
			var transitions []string
			cb := newTestBreaker(clock, &transitions)

			for i := 0; i < 3; i++ {
				_ = cb.Call(fail)
			}
			clock.Advance(9 * time.Second)
			assert.ErrorIs(t, cb.Call(succeed), ErrOpen, "still inside the timeout")

			clock.Advance(time.Second)
			_ = cb.Call(tt.trial)

			assert.Equal(t, tt.wantState, cb.GetState())
			assert.Equal(t, tt.wantHistory, transitions)
		})
	}
}

func TestCircuitBreaker_SingleTrial(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	var transitions []string
	cb := newTestBreaker(clock, &transitions)

	for i := 0; i < 3; i++ {
		_ = cb.Call(fail)
	}
	clock.Advance(10 * time.Second)

	err := cb.Call(func() error {
		assert.Equal(t, StateHalfOpen, cb.GetState())
		assert.ErrorIs(t, cb.Call(succeed), ErrOpen, "second call during trial is rejected")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "unknown", State(42).String())
}
