package circuit_breaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Astemirdum/library-ledger/pkg/circuit_breaker"
	"github.com/stretchr/testify/require"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func Test_circuitBreaker_Call(t *testing.T) {
	var (
		errService = errors.New("service error")
		ok         = func() error { return nil }
		failing    = func() error { return errService }
	)
	clk := &clock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	var transitions []circuit_breaker.Status
	cb := circuit_breaker.New(10, 2*time.Second, 0.3, 3,
		circuit_breaker.WithClock(clk.Now),
		circuit_breaker.WithStateChange(func(_, to circuit_breaker.Status) {
			transitions = append(transitions, to)
		}),
	)

	for i := 0; i < 20; i++ {
		require.NoError(t, cb.Call(ok))
	}
	require.Equal(t, circuit_breaker.Closed, cb.State())

	// 3 failures out of a 10-call window reach the 30% threshold.
	for i := 0; i < 3; i++ {
		require.ErrorIs(t, cb.Call(failing), errService)
	}
	require.Equal(t, circuit_breaker.Open, cb.State())

	called := false
	err := cb.Call(func() error { called = true; return nil })
	require.ErrorIs(t, err, circuit_breaker.ErrOpenCB)
	require.False(t, called)

	clk.Advance(3 * time.Second)
	require.ErrorIs(t, cb.Call(failing), errService)
	require.Equal(t, circuit_breaker.Open, cb.State(), "failure in half-open opens again")

	clk.Advance(3 * time.Second)
	for i := 0; i < 3; i++ {
		require.NoError(t, cb.Call(ok))
	}
	require.Equal(t, circuit_breaker.Closed, cb.State())

	require.Equal(t, []circuit_breaker.Status{
		circuit_breaker.Open,
		circuit_breaker.HalfOpen,
		circuit_breaker.Open,
		circuit_breaker.HalfOpen,
		circuit_breaker.Closed,
	}, transitions)
}

func Test_circuitBreaker_Reset(t *testing.T) {
	cb := circuit_breaker.New(2, time.Hour, 0.5, 1)
	require.Error(t, cb.Call(func() error { return errors.New("x") }))
	require.Equal(t, circuit_breaker.Open, cb.State())

	cb.Reset()
	require.Equal(t, circuit_breaker.Closed, cb.State())
	require.NoError(t, cb.Call(func() error { return nil }))
}
