package resilience

import (
	"errors"
	"strings"

	"github.com/sony/gobreaker"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// StateChangeFunc is called on every breaker transition.
type StateChangeFunc func(name string, from, to CircuitState)

// CircuitBreaker guards calls to one upstream dependency. A nil breaker,
// or one built from a disabled config, passes every call through.
type CircuitBreaker struct {
	cb *gobreaker.CircuitBreaker
}

func NewCircuitBreaker(name string, cfg CircuitBreakerConfig, onChange StateChangeFunc) *CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	cfg = NormalizeCircuitBreakerConfig(cfg)

	threshold := uint32(cfg.FailureThreshold)
	settings := gobreaker.Settings{
		Name:        strings.TrimSpace(name),
		MaxRequests: uint32(cfg.HalfOpenMaxReq),
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
	}
	if onChange != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			onChange(name, fromGobreaker(from), fromGobreaker(to))
		}
	}

	return &CircuitBreaker{cb: gobreaker.NewCircuitBreaker(settings)}
}

// Execute runs fn unless the breaker is open. Errors for which countable
// returns false are handed back without counting as breaker failures.
func Execute[T any](b *CircuitBreaker, countable func(error) bool, fn func() (T, error)) (T, error) {
	if b == nil || b.cb == nil {
		return fn()
	}

	var passthrough error
	out, err := b.cb.Execute(func() (any, error) {
		value, err := fn()
		if err != nil && countable != nil && !countable(err) {
			passthrough = err
			return value, nil
		}
		return value, err
	})
	if passthrough != nil {
		var zero T
		if v, ok := out.(T); ok {
			return v, passthrough
		}
		return zero, passthrough
	}
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, ErrCircuitOpen
		}
		return zero, err
	}

	value, _ := out.(T)
	return value, nil
}

func (b *CircuitBreaker) State() CircuitState {
	if b == nil || b.cb == nil {
		return CircuitStateClosed
	}
	return fromGobreaker(b.cb.State())
}

func fromGobreaker(state gobreaker.State) CircuitState {
	switch state {
	case gobreaker.StateOpen:
		return CircuitStateOpen
	case gobreaker.StateHalfOpen:
		return CircuitStateHalfOpen
	default:
		return CircuitStateClosed
	}
}
