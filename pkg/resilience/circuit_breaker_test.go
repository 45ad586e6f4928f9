package resilience

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/parcelworks/label-service/pkg/errors"
)

func newTestBreaker(timeout time.Duration) *CircuitBreaker {
	config := DefaultCircuitBreakerConfig("test")
	config.Timeout = timeout
	return NewCircuitBreaker(config, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func failingCall() (interface{}, error) {
	return nil, errors.New("connection refused")
}

// TestCircuitBreakerTrips tests the closed-to-open transition
func TestCircuitBreakerTrips(t *testing.T) {
	breaker := newTestBreaker(time.Minute)
	ctx := context.Background()

	assert.Equal(t, gobreaker.StateClosed, breaker.State())

	for i := 0; i < int(DefaultFailureThreshold); i++ {
		_, err := breaker.Execute(ctx, failingCall, nil)
		require.Error(t, err)
	}

	assert.Equal(t, gobreaker.StateOpen, breaker.State())
}

// TestCircuitBreakerOpenBehavior tests rejection and fallback while open
func TestCircuitBreakerOpenBehavior(t *testing.T) {
	ctx := context.Background()

	t.Run("open circuit rejects without calling the service", func(t *testing.T) {
		breaker := newTestBreaker(time.Minute)
		for i := 0; i < int(DefaultFailureThreshold); i++ {
			breaker.Execute(ctx, failingCall, nil)
		}
		require.Equal(t, gobreaker.StateOpen, breaker.State())

		invoked := false
		_, err := breaker.Execute(ctx, func() (interface{}, error) {
			invoked = true
			return "ok", nil
		}, nil)

		assert.False(t, invoked)
		require.Error(t, err)
		appErr, ok := err.(*apperrors.AppError)
		require.True(t, ok)
		assert.Equal(t, apperrors.CodeServiceUnavailable, appErr.Code)
	})

	t.Run("open circuit invokes fallback", func(t *testing.T) {
		breaker := newTestBreaker(time.Minute)
		for i := 0; i < int(DefaultFailureThreshold); i++ {
			breaker.Execute(ctx, failingCall, nil)
		}

		result, err := breaker.Execute(ctx, failingCall, func() (interface{}, error) {
			return "cached", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "cached", result)
	})
}

// TestCircuitBreakerRecovery tests open -> half-open -> closed
func TestCircuitBreakerRecovery(t *testing.T) {
	breaker := newTestBreaker(50 * time.Millisecond)
	ctx := context.Background()

	for i := 0; i < int(DefaultFailureThreshold); i++ {
		breaker.Execute(ctx, failingCall, nil)
	}
	require.Equal(t, gobreaker.StateOpen, breaker.State())

	// After the timeout the breaker probes with a single request
	time.Sleep(80 * time.Millisecond)

	result, err := breaker.Execute(ctx, func() (interface{}, error) {
		return "recovered", nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, "recovered", result)
	assert.Equal(t, gobreaker.StateClosed, breaker.State())
}

// TestCircuitBreakerHalfOpenFailure tests that a failed probe re-opens
func TestCircuitBreakerHalfOpenFailure(t *testing.T) {
	breaker := newTestBreaker(50 * time.Millisecond)
	ctx := context.Background()

	for i := 0; i < int(DefaultFailureThreshold); i++ {
		breaker.Execute(ctx, failingCall, nil)
	}

	time.Sleep(80 * time.Millisecond)

	_, err := breaker.Execute(ctx, failingCall, nil)
	require.Error(t, err)
	assert.Equal(t, gobreaker.StateOpen, breaker.State())
}

// TestCircuitBreakerSuccessResetsCount tests that a success clears the streak
func TestCircuitBreakerSuccessResetsCount(t *testing.T) {
	breaker := newTestBreaker(time.Minute)
	ctx := context.Background()

	for i := 0; i < int(DefaultFailureThreshold)-1; i++ {
		breaker.Execute(ctx, failingCall, nil)
	}
	breaker.Execute(ctx, func() (interface{}, error) { return "ok", nil }, nil)

	// The streak was broken; the threshold-th failure must not trip it
	breaker.Execute(ctx, failingCall, nil)
	assert.Equal(t, gobreaker.StateClosed, breaker.State())
}

// TestCircuitBreakerContextCancelled tests that a cancelled context counts
// as a failure without invoking the service
func TestCircuitBreakerContextCancelled(t *testing.T) {
	breaker := newTestBreaker(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	invoked := false
	_, err := breaker.Execute(ctx, func() (interface{}, error) {
		invoked = true
		return nil, nil
	}, nil)

	assert.False(t, invoked)
	assert.ErrorIs(t, err, context.Canceled)
}
