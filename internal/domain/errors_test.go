package domain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorsMatchSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		status   int
	}{
		{"not found", &NotFoundError{Message: "script missing"}, ErrNotFound, http.StatusNotFound},
		{"validation", &ValidationError{Message: "bad"}, ErrValidation, http.StatusBadRequest},
		{"duplicate", &ConflictError{Message: "dup"}, ErrConflict, http.StatusConflict},
		{"version conflict", &ScriptConflictError{ScriptID: "s1", ExpectedVersion: 1, ServerVersion: 2}, ErrVersionConflict, http.StatusConflict},
		{"generation", &GenerationFailedError{Reason: "timeout"}, ErrGenerationFailed, http.StatusBadGateway},
		{"too short", &ContentTooShortError{Length: 8, Minimum: 80}, ErrContentTooShort, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("service: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", wrapped, tt.sentinel)
			}

			var httpErr HTTPError
			if !errors.As(wrapped, &httpErr) {
				t.Fatalf("errors.As(HTTPError) = false")
			}
			if httpErr.StatusCode() != tt.status {
				t.Errorf("StatusCode() = %d, want %d", httpErr.StatusCode(), tt.status)
			}
		})
	}
}

func TestGenerationFailedError_Unwrap(t *testing.T) {
	err := &GenerationFailedError{Reason: "provider error", Err: context.DeadlineExceeded}

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected cause to be reachable through errors.Is")
	}
	if !errors.Is(err, ErrGenerationFailed) {
		t.Error("expected ErrGenerationFailed match")
	}
}

func TestVersionConflictIsNotDuplicateConflict(t *testing.T) {
	err := &ScriptConflictError{ScriptID: "s1"}
	if errors.Is(err, ErrConflict) {
		t.Error("version conflicts must not match the duplicate-key sentinel")
	}
}
