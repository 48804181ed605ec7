package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/guidee/internal/domain/model"
	"github.com/polkiloo/guidee/internal/domain/refund"
)

// PreviewRefund quotes what cancelling now would return, without changing the order.
func (u *BookingUseCase) PreviewRefund(ctx context.Context, actor model.Actor, id string) (refund.Quote, error) {
	order, err := u.Order(ctx, actor, id)
	if err != nil {
		return refund.Quote{}, err
	}
	return u.quote(*order, u.now())
}

// quote evaluates the refund engine. Orders never paid refund nothing.
func (u *BookingUseCase) quote(order model.Order, at time.Time) (refund.Quote, error) {
	q, err := u.refunds.Quote(order, at)
	if err != nil {
		return refund.Quote{}, err
	}
	if order.PaidAt == nil {
		q.Amount = decimal.Zero
		q.Percent = decimal.Zero
		q.Tier = ""
	}
	return q, nil
}
