package nats

import (
	"context"
	"errors"
	"testing"

	"github.com/nats-io/nats.go"

	"github.com/Kahlain/bpmn-analysis/internal/core/domain"
)

func TestClassifyNATSError(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		retryable bool
		record    bool
	}{
		{"nil", nil, false, false},
		{"context cancel", context.Canceled, false, false},
		{"no servers", nats.ErrNoServers, true, true},
		{"timeout", nats.ErrTimeout, true, true},
		{"connection closed", nats.ErrConnectionClosed, true, true},
		{"unknown", errors.New("invalid subject"), false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			class := classifyNATSError(tc.err)
			if class.Retryable != tc.retryable {
				t.Fatalf("retryable = %v, want %v", class.Retryable, tc.retryable)
			}
			if class.RecordFailure != tc.record {
				t.Fatalf("record = %v, want %v", class.RecordFailure, tc.record)
			}
		})
	}
}

func TestWrapTemporaryMarksBrokerOutages(t *testing.T) {
	err := wrapTemporaryIfNeeded(nats.ErrNoServers)
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary kind, got %v", err)
	}

	permanent := errors.New("invalid subject")
	if got := wrapTemporaryIfNeeded(permanent); !errors.Is(got, permanent) || domain.IsKind(got, domain.ErrTemporary) {
		t.Fatalf("permanent error must pass through unwrapped, got %v", got)
	}

	if got := wrapTemporaryIfNeeded(nil); got != nil {
		t.Fatalf("nil must stay nil, got %v", got)
	}

	// Already-typed errors are not double wrapped.
	typed := domain.WrapError(domain.ErrTemporary, "nats publish", nats.ErrTimeout)
	if got := wrapTemporaryIfNeeded(typed); got != typed {
		t.Fatalf("expected identical error back, got %v", got)
	}
}
