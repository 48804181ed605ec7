package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists       = errors.New("already exists")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("concurrent modification")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidTransition   = errors.New("invalid transition")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidPaymentData  = errors.New("invalid payment data")
	ErrInvalidRefundAmount = errors.New("invalid refund amount")
	ErrInvalidOrderData    = errors.New("invalid order data")
	ErrPrematureStart      = errors.New("service start before scheduled time")
)

// TransitionError reports an operation that is illegal from the current status.
type TransitionError struct {
	Operation string
	From      string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s not allowed from %s", ErrInvalidTransition, e.Operation, e.From)
}

// Is matches ErrInvalidTransition.
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
