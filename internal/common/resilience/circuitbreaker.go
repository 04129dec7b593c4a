// internal/common/resilience/circuitbreaker.go
package resilience

import (
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"voice-order-gateway/internal/common/logger"
	"voice-order-gateway/internal/common/metrics"
)

// CircuitBreakerWrapper wraps gobreaker with state metrics. It fails fast
// while open; it never retries the wrapped call.
type CircuitBreakerWrapper struct {
	*gobreaker.CircuitBreaker
	name string
}

// NewCircuitBreaker creates a circuit breaker that trips when at least 3
// requests have been made and 60% or more of them failed.
func NewCircuitBreaker(name string, log logger.Logger) *CircuitBreakerWrapper {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    15 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(cbName string, from gobreaker.State, to gobreaker.State) {
			state := float64(0)
			switch to {
			case gobreaker.StateOpen:
				state = 1
			case gobreaker.StateHalfOpen:
				state = 2
			case gobreaker.StateClosed:
				state = 0
			}
			metrics.CircuitBreakerState.WithLabelValues(cbName).Set(state)

			log.Info("circuit breaker state changed", map[string]interface{}{
				"circuit": cbName,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	})

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return &CircuitBreakerWrapper{
		CircuitBreaker: cb,
		name:           name,
	}
}

// Execute runs fn through the circuit breaker.
func (cb *CircuitBreakerWrapper) Execute(fn func() (interface{}, error)) (interface{}, error) {
	return cb.CircuitBreaker.Execute(fn)
}

// FormatError rewrites breaker sentinel errors into readable messages.
func FormatError(circuitName string, err error) error {
	if err == gobreaker.ErrOpenState {
		return fmt.Errorf("circuit breaker %s is open (service unavailable)", circuitName)
	}
	if err == gobreaker.ErrTooManyRequests {
		return fmt.Errorf("circuit breaker %s: too many requests in half-open state", circuitName)
	}
	return err
}
