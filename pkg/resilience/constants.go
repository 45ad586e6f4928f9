package resilience

import "time"

// Circuit breaker default configuration values
const (
	DefaultMaxRequests      uint32        = 1
	DefaultInterval         time.Duration = 0
	DefaultTimeout          time.Duration = 60 * time.Second
	DefaultFailureThreshold uint32        = 5
)

// Retry default configuration values
const (
	DefaultRetryMaxAttempts   int           = 3
	DefaultRetryBaseDelay     time.Duration = 2 * time.Second
	DefaultRetryMaxDelay      time.Duration = 30 * time.Second
	DefaultRetryBackoffFactor float64       = 2.0
)
