package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"already exists", ErrAlreadyExists},
		{"not found", ErrNotFound},
		{"conflict", ErrConflict},
		{"forbidden", ErrForbidden},
		{"invalid transition", ErrInvalidTransition},
		{"invalid amount", ErrInvalidAmount},
		{"invalid payment", ErrInvalidPaymentData},
		{"invalid refund", ErrInvalidRefundAmount},
		{"invalid order", ErrInvalidOrderData},
		{"premature start", ErrPrematureStart},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !stdErrors.Is(tc.err, tc.err) {
				t.Fatalf("expected error to match itself: %v", tc.err)
			}
		})
	}
}

func TestTransitionErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("apply: %w", &TransitionError{Operation: "confirm", From: "PAID"})
	if !stdErrors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if stdErrors.Is(err, ErrInvalidAmount) {
		t.Fatal("unexpected match with invalid amount")
	}

	var te *TransitionError
	if !stdErrors.As(err, &te) || te.Operation != "confirm" || te.From != "PAID" {
		t.Fatalf("unexpected transition error: %+v", te)
	}
	if te.Error() != "invalid transition: confirm not allowed from PAID" {
		t.Fatalf("unexpected message %q", te.Error())
	}
}
