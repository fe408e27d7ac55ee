// internal/common/breaker/breaker.go
package breaker

import (
	"context"
	"errors"
	"fmt"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"

	"puppy-admin/internal/common/config"
	"puppy-admin/internal/common/logger"
	"puppy-admin/internal/common/metrics"
)

// ErrOpen is returned without calling the protected function while the circuit is open.
var ErrOpen = circuitbreaker.ErrOpen

// Breaker guards calls to a remote dependency. Errors matched by the ignore
// list count as successes: they are answers, not outages.
type Breaker struct {
	component string
	cb        circuitbreaker.CircuitBreaker[any]
	ignore    []error
}

// New builds a breaker named after the component it protects.
func New(component string, cfg config.BreakerConfig, log logger.Logger, ignore ...error) *Breaker {
	log = logger.Component(log, "breaker")

	cb := circuitbreaker.Builder[any]().
		WithFailureThresholdPeriod(cfg.FailureThreshold, config.GetDuration(cfg.Interval)).
		WithDelay(config.GetDuration(cfg.Timeout)).
		WithSuccessThreshold(cfg.SuccessThreshold).
		OnStateChanged(func(e circuitbreaker.StateChangedEvent) {
			log.Warn("Circuit breaker state changed", map[string]interface{}{
				"target": component,
				"from":   e.OldState.String(),
				"to":     e.NewState.String(),
			})
			metrics.CircuitBreakerStateChanges.WithLabelValues(component, e.NewState.String()).Inc()
			metrics.CircuitBreakerState.WithLabelValues(component).Set(stateToFloat(e.NewState))
		}).
		Build()

	metrics.CircuitBreakerState.WithLabelValues(component).Set(0)

	return &Breaker{component: component, cb: cb, ignore: ignore}
}

func stateToFloat(state circuitbreaker.State) float64 {
	switch state {
	case circuitbreaker.ClosedState:
		return 0
	case circuitbreaker.HalfOpenState:
		return 1
	case circuitbreaker.OpenState:
		return 2
	default:
		return -1
	}
}

// Do runs fn if the circuit admits it and records the outcome.
func (b *Breaker) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if !b.cb.TryAcquirePermit() {
		return fmt.Errorf("%s circuit breaker open: %w", b.component, ErrOpen)
	}

	err := fn(ctx)
	switch {
	case err == nil, b.ignored(err):
		b.cb.RecordSuccess()
	case errors.Is(err, context.Canceled):
		// caller went away; says nothing about the dependency
	default:
		b.cb.RecordError(err)
	}
	return err
}

func (b *Breaker) ignored(err error) bool {
	for _, target := range b.ignore {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// State reports the current circuit state.
func (b *Breaker) State() circuitbreaker.State {
	return b.cb.State()
}
