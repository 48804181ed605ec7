// Package lifecycle implements the booking state machine as pure functions:
// every transition takes an order value and returns a new value or an error,
// never a partially updated order.
package lifecycle

import (
	"time"

	domainErrors "github.com/polkiloo/guidee/internal/domain/errors"
	"github.com/polkiloo/guidee/internal/domain/model"
)

// Operation names a guarded transition.
type Operation string

const (
	OpConfirm         Operation = "confirm"
	OpDecline         Operation = "decline"
	OpMarkAsPaid      Operation = "mark_as_paid"
	OpStartService    Operation = "start_service"
	OpCompleteService Operation = "complete_service"
	OpCancel          Operation = "cancel"
	OpProcessRefund   Operation = "process_refund"
	OpDispute         Operation = "dispute"
)

// Operations lists every transition in declaration order.
var Operations = []Operation{
	OpConfirm, OpDecline, OpMarkAsPaid, OpStartService,
	OpCompleteService, OpCancel, OpProcessRefund, OpDispute,
}

var transitions = map[Operation]map[model.OrderStatus]model.OrderStatus{
	OpConfirm: {
		model.OrderStatusPendingConfirmation: model.OrderStatusConfirmed,
	},
	OpDecline: {
		model.OrderStatusPendingConfirmation: model.OrderStatusCancelled,
	},
	OpMarkAsPaid: {
		model.OrderStatusConfirmed: model.OrderStatusPaid,
	},
	OpStartService: {
		model.OrderStatusPaid: model.OrderStatusInProgress,
	},
	OpCompleteService: {
		model.OrderStatusInProgress: model.OrderStatusCompleted,
	},
	OpCancel: {
		model.OrderStatusPendingConfirmation: model.OrderStatusCancelled,
		model.OrderStatusConfirmed:           model.OrderStatusCancelled,
		model.OrderStatusPaid:                model.OrderStatusCancelled,
	},
	OpProcessRefund: {
		model.OrderStatusCancelled: model.OrderStatusRefunded,
	},
	OpDispute: {
		model.OrderStatusPendingConfirmation: model.OrderStatusDisputed,
		model.OrderStatusConfirmed:           model.OrderStatusDisputed,
		model.OrderStatusPaid:                model.OrderStatusDisputed,
		model.OrderStatusInProgress:          model.OrderStatusDisputed,
	},
}

// Target returns the status op leads to from the given status.
func Target(op Operation, from model.OrderStatus) (model.OrderStatus, error) {
	to, ok := transitions[op][from]
	if !ok {
		return "", &domainErrors.TransitionError{Operation: string(op), From: string(from)}
	}
	return to, nil
}

// Allowed reports whether op is legal from status.
func Allowed(op Operation, from model.OrderStatus) bool {
	_, ok := transitions[op][from]
	return ok
}

// CanBeCancelled reports whether the order still accepts a cancellation.
func CanBeCancelled(o model.Order) bool {
	return Allowed(OpCancel, o.Status)
}

// Command is a transition request with its arguments.
type Command interface {
	Operation() Operation
	apply(o *model.Order, now time.Time) error
}

// Apply executes cmd against o. Stamps are truncated to microseconds to match storage.
// On error the returned order is the zero value and o is untouched.
func Apply(o model.Order, cmd Command, now time.Time) (model.Order, error) {
	to, err := Target(cmd.Operation(), o.Status)
	if err != nil {
		return model.Order{}, err
	}

	now = now.UTC().Truncate(time.Microsecond)
	next := o
	if err := cmd.apply(&next, now); err != nil {
		return model.Order{}, err
	}
	next.Status = to
	next.UpdatedAt = now
	next.Version = o.Version + 1
	return next, nil
}

func stamp(now time.Time) *time.Time {
	t := now
	return &t
}
