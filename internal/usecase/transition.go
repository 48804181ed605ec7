package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/guidee/internal/domain/errors"
	"github.com/polkiloo/guidee/internal/domain/lifecycle"
	"github.com/polkiloo/guidee/internal/domain/model"
)

// commandFunc builds a command from the freshly loaded order. It runs again on every retry.
type commandFunc func(current model.Order) (lifecycle.Command, error)

func fixed(cmd lifecycle.Command) commandFunc {
	return func(model.Order) (lifecycle.Command, error) { return cmd, nil }
}

// transition loads the order, applies op and stores it with a version check.
// A lost race reloads and re-applies so the loser sees the post-state.
func (u *BookingUseCase) transition(ctx context.Context, id string, op lifecycle.Operation, actor model.Actor, build commandFunc, detail string) (*model.Order, error) {
	for attempt := 1; ; attempt++ {
		current, err := u.orders.GetByID(ctx, id)
		if err != nil {
			u.recorder.Record(string(op), resultError)
			return nil, err
		}
		if err := authorize(op, actor, *current); err != nil {
			u.recorder.Record(string(op), resultForbidden)
			return nil, err
		}

		cmd, err := build(*current)
		if err != nil {
			u.reject(op, *current, err)
			return nil, err
		}
		next, err := lifecycle.Apply(*current, cmd, u.now())
		if err != nil {
			u.reject(op, *current, err)
			return nil, err
		}

		event := model.OrderEvent{
			OrderID:    next.ID,
			Operation:  string(op),
			FromStatus: current.Status,
			ToStatus:   next.Status,
			ActorID:    actor.UserID,
			Detail:     detail,
			OccurredAt: next.UpdatedAt,
		}
		err = u.orders.Update(ctx, &next, current.Version, event)
		if err == nil {
			u.recorder.Record(string(op), resultOK)
			return &next, nil
		}
		if !errors.Is(err, domainErrors.ErrConflict) {
			u.recorder.Record(string(op), resultError)
			return nil, err
		}
		if attempt == maxTransitionAttempts {
			u.recorder.Record(string(op), resultConflict)
			return nil, err
		}
		u.logger.Debug("order changed concurrently, retrying",
			slog.String("order_id", id),
			slog.String("operation", string(op)),
			slog.Int("attempt", attempt),
		)
	}
}

func (u *BookingUseCase) reject(op lifecycle.Operation, order model.Order, err error) {
	result := resultInvalid
	if errors.Is(err, domainErrors.ErrInvalidTransition) {
		result = resultRejected
	}
	u.recorder.Record(string(op), result)
	u.logger.Info("transition rejected",
		slog.String("order_id", order.ID),
		slog.String("operation", string(op)),
		slog.String("status", string(order.Status)),
		slog.String("error", err.Error()),
	)
}

// Confirm accepts a pending request on behalf of the provider.
func (u *BookingUseCase) Confirm(ctx context.Context, actor model.Actor, id string) (*model.Order, error) {
	return u.transition(ctx, id, lifecycle.OpConfirm, actor, fixed(lifecycle.Confirm{}), "")
}

// Decline refuses a pending request on behalf of the provider.
func (u *BookingUseCase) Decline(ctx context.Context, actor model.Actor, id, reason string) (*model.Order, error) {
	return u.transition(ctx, id, lifecycle.OpDecline, actor, fixed(lifecycle.Decline{Reason: reason}), reason)
}

// MarkAsPaid records payment facts reported by the payment collaborator.
func (u *BookingUseCase) MarkAsPaid(ctx context.Context, actor model.Actor, id string, payment lifecycle.MarkAsPaid) (*model.Order, error) {
	return u.transition(ctx, id, lifecycle.OpMarkAsPaid, actor, fixed(payment), payment.TransactionID)
}

// StartService begins the service. In relaxed mode an early start only warns.
func (u *BookingUseCase) StartService(ctx context.Context, actor model.Actor, id string) (*model.Order, error) {
	build := func(current model.Order) (lifecycle.Command, error) {
		cmd := lifecycle.StartService{Location: u.settings.Location, AllowEarly: !u.settings.StrictStart}
		if u.settings.StrictStart || current.Status != model.OrderStatusPaid {
			return cmd, nil
		}
		early, err := lifecycle.Premature(current, u.now(), u.settings.Location)
		if err != nil {
			return nil, err
		}
		if early {
			u.logger.Warn("service started before scheduled time",
				slog.String("order_id", current.ID),
				slog.String("service_date", current.ServiceDate),
				slog.String("service_time", current.ServiceTime),
			)
		}
		return cmd, nil
	}
	return u.transition(ctx, id, lifecycle.OpStartService, actor, build, "")
}

// CompleteService finishes the service.
func (u *BookingUseCase) CompleteService(ctx context.Context, actor model.Actor, id string) (*model.Order, error) {
	return u.transition(ctx, id, lifecycle.OpCompleteService, actor, fixed(lifecycle.CompleteService{}), "")
}

// Cancel cancels an order before service start. The refund is a separate step.
func (u *BookingUseCase) Cancel(ctx context.Context, actor model.Actor, id, reason string) (*model.Order, error) {
	cmd := lifecycle.Cancel{CancelledBy: actor.UserID, Reason: reason}
	return u.transition(ctx, id, lifecycle.OpCancel, actor, fixed(cmd), reason)
}

// Dispute hands the order to external resolution.
func (u *BookingUseCase) Dispute(ctx context.Context, actor model.Actor, id, reason string) (*model.Order, error) {
	return u.transition(ctx, id, lifecycle.OpDispute, actor, fixed(lifecycle.Dispute{}), reason)
}

// ProcessRefund applies an explicit refund amount to a cancelled order.
func (u *BookingUseCase) ProcessRefund(ctx context.Context, actor model.Actor, id string, amount decimal.Decimal) (*model.Order, error) {
	if err := requireAdmin(actor); err != nil {
		u.recorder.Record(string(lifecycle.OpProcessRefund), resultForbidden)
		return nil, err
	}
	cmd := lifecycle.ProcessRefund{Amount: amount, Precision: u.refunds.Precision()}
	return u.transition(ctx, id, lifecycle.OpProcessRefund, actor, fixed(cmd), amount.String())
}

// ApproveRefund applies the policy amount evaluated at the moment of cancellation.
func (u *BookingUseCase) ApproveRefund(ctx context.Context, actor model.Actor, id string) (*model.Order, error) {
	if err := requireAdmin(actor); err != nil {
		u.recorder.Record(string(lifecycle.OpProcessRefund), resultForbidden)
		return nil, err
	}
	build := func(current model.Order) (lifecycle.Command, error) {
		at := u.now()
		if current.CancelledAt != nil {
			at = *current.CancelledAt
		}
		quote, err := u.quote(current, at)
		if err != nil {
			return nil, err
		}
		return lifecycle.ProcessRefund{Amount: quote.Amount, Precision: u.refunds.Precision()}, nil
	}
	return u.transition(ctx, id, lifecycle.OpProcessRefund, actor, build, "policy")
}
