package circuitbreaker

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/LerianStudio/lib-resilience/resilience/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		FailureThreshold: 3,
		RecoveryTimeout:  30 * time.Millisecond,
		SuccessThreshold: 2,
		CallTimeout:      time.Second,
	}
}

func newTestBreaker(t *testing.T, config Config) CircuitBreaker {
	t.Helper()

	manager := NewManager(&log.NoneLogger{})

	return manager.GetOrCreate("test-service", config)
}

func failingOp() (any, error) {
	return nil, errors.New("service error")
}

func TestBreaker_InitialState(t *testing.T) {
	cb := newTestBreaker(t, testConfig())

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, "test-service", cb.Name())
	assert.Equal(t, 0, cb.Metrics().FailureCount)
}

func TestBreaker_OpensAfterFailureThreshold(t *testing.T) {
	cb := newTestBreaker(t, testConfig())

	for i := 0; i < 3; i++ {
		_, err := cb.Call(failingOp)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrServiceFailure)
	}

	assert.Equal(t, StateOpen, cb.State())
}

func TestBreaker_FailsFastWhileOpen(t *testing.T) {
	cb := newTestBreaker(t, Config{
		FailureThreshold: 3,
		RecoveryTimeout:  time.Minute,
		SuccessThreshold: 2,
		CallTimeout:      time.Second,
	})

	for i := 0; i < 3; i++ {
		_, _ = cb.Call(failingOp)
	}

	require.Equal(t, StateOpen, cb.State())

	invoked := false
	start := time.Now()

	_, err := cb.Call(func() (any, error) {
		invoked = true
		return nil, nil
	})

	require.Error(t, err)
	assert.True(t, IsOpenError(err))
	assert.False(t, invoked, "operation must not run while the breaker is OPEN")
	assert.Less(t, time.Since(start), 100*time.Millisecond, "fail-fast must not wait on the operation")

	var breakerErr *BreakerError
	require.ErrorAs(t, err, &breakerErr)
	assert.Equal(t, StateOpen, breakerErr.State)
	assert.Equal(t, "test-service", breakerErr.Service)
}

func TestBreaker_RecoveryWindowAllowsProbe(t *testing.T) {
	cb := newTestBreaker(t, testConfig())

	for i := 0; i < 3; i++ {
		_, _ = cb.Call(failingOp)
	}

	require.Equal(t, StateOpen, cb.State())

	time.Sleep(50 * time.Millisecond)

	invoked := false

	result, err := cb.Call(func() (any, error) {
		invoked = true
		return "ok", nil
	})

	require.NoError(t, err)
	assert.True(t, invoked, "probe must run once the recovery window has elapsed")
	assert.Equal(t, "ok", result)
	assert.Equal(t, StateHalfOpen, cb.State())
}

func TestBreaker_ClosesAfterSuccessThreshold(t *testing.T) {
	cb := newTestBreaker(t, testConfig())

	for i := 0; i < 3; i++ {
		_, _ = cb.Call(failingOp)
	}

	time.Sleep(50 * time.Millisecond)

	for i := 0; i < 2; i++ {
		_, err := cb.Call(func() (any, error) { return "ok", nil })
		require.NoError(t, err)
	}

	metrics := cb.Metrics()
	assert.Equal(t, StateClosed, metrics.State)
	assert.Equal(t, 0, metrics.FailureCount)
	assert.Equal(t, 0, metrics.SuccessCount)
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := newTestBreaker(t, testConfig())

	for i := 0; i < 3; i++ {
		_, _ = cb.Call(failingOp)
	}

	time.Sleep(50 * time.Millisecond)

	// First probe succeeds, second fails: a single failure reopens.
	_, err := cb.Call(func() (any, error) { return "ok", nil })
	require.NoError(t, err)
	require.Equal(t, StateHalfOpen, cb.State())

	_, err = cb.Call(failingOp)
	require.Error(t, err)

	metrics := cb.Metrics()
	assert.Equal(t, StateOpen, metrics.State)
	assert.Equal(t, 0, metrics.SuccessCount)
}

func TestBreaker_CallTimeoutCountsAsFailure(t *testing.T) {
	cb := newTestBreaker(t, Config{
		FailureThreshold: 3,
		RecoveryTimeout:  time.Minute,
		SuccessThreshold: 2,
		CallTimeout:      20 * time.Millisecond,
	})

	_, err := cb.Call(func() (any, error) {
		time.Sleep(200 * time.Millisecond)
		return "late", nil
	})

	require.Error(t, err)
	assert.True(t, IsTimeoutError(err))
	assert.Equal(t, 1, cb.Metrics().FailureCount)
}

func TestBreaker_NonTrippingErrorPropagatesUnchanged(t *testing.T) {
	errBadInput := errors.New("bad input")

	cb := newTestBreaker(t, Config{
		FailureThreshold: 2,
		RecoveryTimeout:  time.Minute,
		SuccessThreshold: 2,
		CallTimeout:      time.Second,
		IsTrippingError: func(err error) bool {
			return !errors.Is(err, errBadInput)
		},
	})

	for i := 0; i < 10; i++ {
		_, err := cb.Call(func() (any, error) { return nil, errBadInput })
		require.Error(t, err)
		assert.Equal(t, errBadInput, err, "non-tripping errors must not be wrapped")
	}

	metrics := cb.Metrics()
	assert.Equal(t, StateClosed, metrics.State)
	assert.Equal(t, 0, metrics.FailureCount, "non-tripping errors must not be counted")
}

func TestBreaker_SuccessResetsFailureCountWhileClosed(t *testing.T) {
	cb := newTestBreaker(t, testConfig())

	_, _ = cb.Call(failingOp)
	_, _ = cb.Call(failingOp)
	require.Equal(t, 2, cb.Metrics().FailureCount)

	_, err := cb.Call(func() (any, error) { return "ok", nil })
	require.NoError(t, err)

	metrics := cb.Metrics()
	assert.Equal(t, StateClosed, metrics.State)
	assert.Equal(t, 0, metrics.FailureCount)
	assert.False(t, metrics.LastSuccessTime.IsZero())
}

func TestBreaker_Reset(t *testing.T) {
	cb := newTestBreaker(t, testConfig())

	for i := 0; i < 3; i++ {
		_, _ = cb.Call(failingOp)
	}

	require.Equal(t, StateOpen, cb.State())

	cb.Reset()

	metrics := cb.Metrics()
	assert.Equal(t, StateClosed, metrics.State)
	assert.Equal(t, 0, metrics.FailureCount)
	assert.Equal(t, 0, metrics.SuccessCount)
	assert.True(t, metrics.LastFailureTime.IsZero())

	_, err := cb.Call(func() (any, error) { return "ok", nil })
	assert.NoError(t, err)
}

func TestBreaker_ConcurrentCalls(t *testing.T) {
	cb := newTestBreaker(t, testConfig())

	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := cb.Call(func() (any, error) { return "ok", nil })
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, 0, cb.Metrics().FailureCount)
}
