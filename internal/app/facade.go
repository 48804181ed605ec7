package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/guidee/internal/domain/model"
	"github.com/polkiloo/guidee/internal/domain/refund"
	"github.com/polkiloo/guidee/internal/domain/repository"
	pkgAuth "github.com/polkiloo/guidee/internal/pkg/auth"
	"github.com/polkiloo/guidee/internal/usecase"
)

// GuideeFacade adapts the booking use case to transports and the sweeper.
type GuideeFacade struct {
	bookings *usecase.BookingUseCase
	tokens   pkgAuth.Strategy
}

func NewGuideeFacade(bookings *usecase.BookingUseCase, tokens pkgAuth.Strategy) *GuideeFacade {
	return &GuideeFacade{bookings: bookings, tokens: tokens}
}

func (f *GuideeFacade) ParseToken(token string) (model.Actor, error) {
	return f.tokens.ParseToken(token)
}

func (f *GuideeFacade) Book(ctx context.Context, actor model.Actor, req usecase.BookingRequest) (*model.Order, error) {
	return f.bookings.Book(ctx, actor, req)
}

func (f *GuideeFacade) Order(ctx context.Context, actor model.Actor, id string) (*model.Order, error) {
	return f.bookings.Order(ctx, actor, id)
}

func (f *GuideeFacade) Orders(ctx context.Context, actor model.Actor, filter repository.OrderFilter) ([]model.Order, error) {
	return f.bookings.Orders(ctx, actor, filter)
}

func (f *GuideeFacade) Events(ctx context.Context, actor model.Actor, id string) ([]model.OrderEvent, error) {
	return f.bookings.Events(ctx, actor, id)
}

func (f *GuideeFacade) Confirm(ctx context.Context, actor model.Actor, id string) (*model.Order, error) {
	return f.bookings.Confirm(ctx, actor, id)
}

func (f *GuideeFacade) Decline(ctx context.Context, actor model.Actor, id, reason string) (*model.Order, error) {
	return f.bookings.Decline(ctx, actor, id, reason)
}

func (f *GuideeFacade) StartService(ctx context.Context, actor model.Actor, id string) (*model.Order, error) {
	return f.bookings.StartService(ctx, actor, id)
}

func (f *GuideeFacade) CompleteService(ctx context.Context, actor model.Actor, id string) (*model.Order, error) {
	return f.bookings.CompleteService(ctx, actor, id)
}

func (f *GuideeFacade) Cancel(ctx context.Context, actor model.Actor, id, reason string) (*model.Order, error) {
	return f.bookings.Cancel(ctx, actor, id, reason)
}

func (f *GuideeFacade) Dispute(ctx context.Context, actor model.Actor, id, reason string) (*model.Order, error) {
	return f.bookings.Dispute(ctx, actor, id, reason)
}

func (f *GuideeFacade) PreviewRefund(ctx context.Context, actor model.Actor, id string) (refund.Quote, error) {
	return f.bookings.PreviewRefund(ctx, actor, id)
}

// Refund applies amount, or the policy amount at cancellation time when amount is nil.
func (f *GuideeFacade) Refund(ctx context.Context, actor model.Actor, id string, amount *decimal.Decimal) (*model.Order, error) {
	if amount == nil {
		return f.bookings.ApproveRefund(ctx, actor, id)
	}
	return f.bookings.ProcessRefund(ctx, actor, id, *amount)
}

func (f *GuideeFacade) SoftDelete(ctx context.Context, actor model.Actor, id string) error {
	return f.bookings.SoftDelete(ctx, actor, id)
}

func (f *GuideeFacade) HandlePayment(ctx context.Context, notice usecase.PaymentNotice) (usecase.PaymentOutcome, error) {
	return f.bookings.HandlePayment(ctx, notice)
}

func (f *GuideeFacade) StaleRequests(ctx context.Context, limit int) ([]model.Order, error) {
	return f.bookings.StaleRequests(ctx, limit)
}

func (f *GuideeFacade) ExpireRequest(ctx context.Context, id string) (*model.Order, error) {
	return f.bookings.ExpireRequest(ctx, id)
}
