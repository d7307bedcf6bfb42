package resilience

import (
	"errors"
	"testing"
	"time"
)

var errUpstream = errors.New("upstream failed")

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	var transitions []CircuitState
	b := NewCircuitBreaker("sleeper", CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      50 * time.Millisecond,
		HalfOpenMaxReq:   1,
	}, func(_ string, _, to CircuitState) {
		transitions = append(transitions, to)
	})

	fail := func() (int, error) { return 0, errUpstream }
	ok := func() (int, error) { return 7, nil }

	if _, err := Execute(b, nil, fail); !errors.Is(err, errUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	_, _ = Execute(b, nil, fail)
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if _, err := Execute(b, nil, ok); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	time.Sleep(80 * time.Millisecond)
	got, err := Execute(b, nil, ok)
	if err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if got != 7 {
		t.Fatalf("expected probe value 7, got %d", got)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open probe, got %s", state)
	}

	want := []CircuitState{CircuitStateOpen, CircuitStateHalfOpen, CircuitStateClosed}
	if len(transitions) != len(want) {
		t.Fatalf("unexpected transitions %v", transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("unexpected transitions %v", transitions)
		}
	}
}

func TestCircuitBreaker_UncountableErrorsDoNotTrip(t *testing.T) {
	errBadRequest := errors.New("bad request")
	b := NewCircuitBreaker("sleeper", CircuitBreakerConfig{Enabled: true, FailureThreshold: 1}, nil)

	for i := 0; i < 3; i++ {
		_, err := Execute(b, func(err error) bool { return !errors.Is(err, errBadRequest) }, func() (string, error) {
			return "", errBadRequest
		})
		if !errors.Is(err, errBadRequest) {
			t.Fatalf("expected passthrough error, got %v", err)
		}
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected breaker to stay closed, got %s", state)
	}
}

func TestCircuitBreaker_DisabledPassesThrough(t *testing.T) {
	b := NewCircuitBreaker("espn", CircuitBreakerConfig{Enabled: false}, nil)
	if b != nil {
		t.Fatalf("expected nil breaker when disabled")
	}
	for i := 0; i < 10; i++ {
		_, _ = Execute(b, nil, func() (int, error) { return 0, errUpstream })
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed state for disabled breaker, got %s", state)
	}
}
