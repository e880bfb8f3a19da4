package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
)

func retryConfig() Config {
	return Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: 1 * time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2,
		BreakerEnabled:      false,
	}
}

func TestExecuteRetriesUntilSuccess(t *testing.T) {
	exec := NewExecutor(retryConfig())

	errBrokerDown := errors.New("broker down")
	attempts := 0
	err := exec.Execute(context.Background(), "publish", func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errBrokerDown
		}
		return nil
	}, func(err error) ErrorClassification {
		return ErrorClassification{Retryable: errors.Is(err, errBrokerDown), RecordFailure: true}
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestExecuteStopsOnTerminalError(t *testing.T) {
	exec := NewExecutor(retryConfig())

	errBadSubject := errors.New("invalid subject")
	attempts := 0
	err := exec.Execute(context.Background(), "publish", func(context.Context) error {
		attempts++
		return errBadSubject
	}, func(error) ErrorClassification {
		return ErrorClassification{Retryable: false, RecordFailure: false}
	})
	if !errors.Is(err, errBadSubject) {
		t.Fatalf("expected terminal error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}
}

func TestExecuteDefaultsToNoRetryWithoutClassifier(t *testing.T) {
	exec := NewExecutor(retryConfig())

	errAny := errors.New("boom")
	attempts := 0
	err := exec.Execute(context.Background(), "publish", func(context.Context) error {
		attempts++
		return errAny
	}, nil)
	if !errors.Is(err, errAny) {
		t.Fatalf("expected error passed through, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt without classifier, got %d", attempts)
	}
}

func TestExecuteHonorsCancelledContext(t *testing.T) {
	exec := NewExecutor(retryConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := exec.Execute(ctx, "publish", func(context.Context) error {
		t.Fatal("operation must not run on a cancelled context")
		return nil
	}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExecuteOpensBreakerAfterRepeatedFailures(t *testing.T) {
	exec := NewExecutor(Config{
		RetryMaxAttempts:        1,
		RetryInitialBackoff:     1 * time.Millisecond,
		RetryMaxBackoff:         1 * time.Millisecond,
		RetryMultiplier:         2,
		BreakerEnabled:          true,
		BreakerMinRequests:      2,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      50 * time.Millisecond,
		BreakerHalfOpenMaxCalls: 1,
	})

	errBrokerDown := errors.New("broker down")
	classifier := func(error) ErrorClassification {
		return ErrorClassification{Retryable: false, RecordFailure: true}
	}

	for i := 0; i < 2; i++ {
		err := exec.Execute(context.Background(), "publish", func(context.Context) error {
			return errBrokerDown
		}, classifier)
		if !errors.Is(err, errBrokerDown) {
			t.Fatalf("iteration %d: expected broker error, got %v", i, err)
		}
	}

	err := exec.Execute(context.Background(), "publish", func(context.Context) error {
		t.Fatal("open circuit must not invoke the operation")
		return nil
	}, classifier)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open circuit, got %v", err)
	}
}

func TestNormalizeBackfillsInvalidConfig(t *testing.T) {
	cfg := Config{RetryMaxAttempts: -1, RetryMultiplier: 0.5}.normalize()
	def := DefaultConfig()

	if cfg.RetryMaxAttempts != def.RetryMaxAttempts {
		t.Fatalf("expected default attempts %d, got %d", def.RetryMaxAttempts, cfg.RetryMaxAttempts)
	}
	if cfg.RetryMultiplier != def.RetryMultiplier {
		t.Fatalf("expected default multiplier %v, got %v", def.RetryMultiplier, cfg.RetryMultiplier)
	}
	if cfg.RetryMaxBackoff < cfg.RetryInitialBackoff {
		t.Fatalf("max backoff %v below initial %v", cfg.RetryMaxBackoff, cfg.RetryInitialBackoff)
	}
}
