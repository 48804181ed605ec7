package usecase

import (
	"context"

	domainErrors "github.com/polkiloo/guidee/internal/domain/errors"
	"github.com/polkiloo/guidee/internal/domain/lifecycle"
	"github.com/polkiloo/guidee/internal/domain/model"
)

// StaleRequestReason is recorded on requests the provider left unanswered.
const StaleRequestReason = "provider did not respond before service time"

// StaleRequests returns pending orders whose scheduled moment has passed.
func (u *BookingUseCase) StaleRequests(ctx context.Context, limit int) ([]model.Order, error) {
	now := u.now()
	day := now.In(u.settings.Location).Format(model.ServiceDateLayout)
	pending, err := u.orders.ListPending(ctx, day, limit)
	if err != nil {
		return nil, err
	}

	stale := pending[:0]
	for _, o := range pending {
		at, err := o.ServiceDateTime(u.settings.Location)
		if err != nil || at.After(now) {
			continue
		}
		stale = append(stale, o)
	}
	return stale, nil
}

// ExpireRequest cancels a pending order on behalf of the system.
// Orders that left PENDING_CONFIRMATION meanwhile are rejected.
func (u *BookingUseCase) ExpireRequest(ctx context.Context, id string) (*model.Order, error) {
	build := func(current model.Order) (lifecycle.Command, error) {
		if current.Status != model.OrderStatusPendingConfirmation {
			return nil, &domainErrors.TransitionError{Operation: "expire", From: string(current.Status)}
		}
		return lifecycle.Cancel{CancelledBy: model.SystemActor.UserID, Reason: StaleRequestReason}, nil
	}
	return u.transition(ctx, id, lifecycle.OpCancel, model.SystemActor, build, StaleRequestReason)
}
