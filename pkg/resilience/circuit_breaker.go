package resilience

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/parcelworks/label-service/pkg/errors"
)

// CircuitBreakerConfig holds configuration for a circuit breaker
type CircuitBreakerConfig struct {
	Name             string
	MaxRequests      uint32        // Requests allowed through in half-open state
	Interval         time.Duration // Time interval to clear failure count (0 = never clear)
	Timeout          time.Duration // How long to wait before transitioning from open to half-open
	FailureThreshold uint32        // Consecutive failures to trip the circuit

	// OnStateChange is invoked on every transition, after logging. Optional.
	OnStateChange func(name string, from, to gobreaker.State)
}

// DefaultCircuitBreakerConfig returns sensible defaults
func DefaultCircuitBreakerConfig(name string) *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		Name:             name,
		MaxRequests:      DefaultMaxRequests,
		Interval:         DefaultInterval,
		Timeout:          DefaultTimeout,
		FailureThreshold: DefaultFailureThreshold,
	}
}

// BreakerMetrics receives breaker state transitions
type BreakerMetrics interface {
	RecordCircuitBreakerState(breaker string, state float64)
	RecordCircuitBreakerTrip(breaker string)
}

// InstrumentWith publishes state transitions to a metrics recorder
func (c *CircuitBreakerConfig) InstrumentWith(m BreakerMetrics) *CircuitBreakerConfig {
	c.OnStateChange = func(name string, from, to gobreaker.State) {
		m.RecordCircuitBreakerState(name, float64(to))
		if to == gobreaker.StateOpen {
			m.RecordCircuitBreakerTrip(name)
		}
	}
	return c
}

// CircuitBreaker wraps gobreaker with logging and a fallback path.
// One instance is owned by each external-service client; failures are
// tracked independently per client.
type CircuitBreaker struct {
	cb     *gobreaker.CircuitBreaker
	name   string
	logger *slog.Logger
}

// NewCircuitBreaker creates a new circuit breaker
func NewCircuitBreaker(config *CircuitBreakerConfig, logger *slog.Logger) *CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
			if config.OnStateChange != nil {
				config.OnStateChange(name, from, to)
			}
		},
	}

	return &CircuitBreaker{
		cb:     gobreaker.NewCircuitBreaker(settings),
		name:   config.Name,
		logger: logger,
	}
}

// Execute runs a function through the circuit breaker. When the circuit is
// open the fallback is invoked if one is supplied; otherwise a
// SERVICE_UNAVAILABLE error is returned without touching the service.
func (c *CircuitBreaker) Execute(ctx context.Context, fn func() (interface{}, error), fallback func() (interface{}, error)) (interface{}, error) {
	result, err := c.cb.Execute(func() (interface{}, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		return fn()
	})

	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		c.logger.Warn("Circuit breaker is open", "name", c.name)
		if fallback != nil {
			return fallback()
		}
		return nil, errors.ErrServiceUnavailable(c.name)
	}

	return result, err
}

// State returns the current state of the circuit breaker
func (c *CircuitBreaker) State() gobreaker.State {
	return c.cb.State()
}

// Counts returns the current counts
func (c *CircuitBreaker) Counts() gobreaker.Counts {
	return c.cb.Counts()
}

// Name returns the circuit breaker name
func (c *CircuitBreaker) Name() string {
	return c.name
}
