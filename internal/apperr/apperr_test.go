package apperr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"validation", Validation("bad input"), CodeValidation},
		{"invalid transition", InvalidTransition("draft", "active"), CodeInvalidTransition},
		{"conflict", ConcurrencyConflict("campaign", 7), CodeConcurrencyConflict},
		{"not found", NotFound("campaign", 7), CodeNotFound},
		{"forbidden", Forbidden("no"), CodeForbidden},
		{"untyped", errors.New("boom"), CodeInternal},
		{"wrapped", fmt.Errorf("outer: %w", NotFound("campaign", 7)), CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.code {
				t.Errorf("expected %s, got %s", tt.code, got)
			}
		})
	}
}

func TestInvalidTransition_NamesBothStates(t *testing.T) {
	err := InvalidTransition("draft", "active")
	msg := err.Error()
	for _, want := range []string{"draft", "active"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal(cause, "save failed")
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
}

func TestRetryable(t *testing.T) {
	if !Retryable(ConcurrencyConflict("campaign", 1)) {
		t.Error("conflicts should be retryable")
	}
	if Retryable(Validation("bad")) {
		t.Error("validation errors must not be retried")
	}
	if Retryable(InvalidTransition("a", "b")) {
		t.Error("transition errors must not be retried blindly")
	}
}
