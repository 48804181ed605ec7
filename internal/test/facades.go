package test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/guidee/internal/domain/model"
	"github.com/polkiloo/guidee/internal/domain/refund"
	"github.com/polkiloo/guidee/internal/domain/repository"
	"github.com/polkiloo/guidee/internal/usecase"
)

// SampleOrder returns a pending order used as the default stub answer.
func SampleOrder(id string) *model.Order {
	created := time.Date(2026, 10, 14, 1, 0, 0, 0, time.UTC)
	return &model.Order{
		ID:                 id,
		OrderNumber:        "GD20261014000001",
		Version:            1,
		TravelerID:         Traveler.UserID,
		ProviderID:         Provider.UserID,
		ServiceID:          "svc-1",
		RatePerHour:        decimal.NewFromInt(350),
		ServiceDate:        "2026-10-24",
		ServiceTime:        "09:00",
		DurationHours:      5,
		ParticipantsCount:  2,
		MeetingPoint:       model.MeetingPoint{Name: "Taipei 101"},
		Currency:           "TWD",
		CancellationPolicy: model.CancellationPolicyStandard,
		Status:             model.OrderStatusPendingConfirmation,
		ProviderResponse:   model.ProviderResponsePending,
		Amounts: model.Amounts{
			ServiceAmount:      decimal.NewFromInt(1750),
			PlatformFee:        decimal.RequireFromString("87.5"),
			ProviderCommission: decimal.RequireFromString("262.5"),
			TotalAmount:        decimal.RequireFromString("1837.5"),
			ProviderEarning:    decimal.RequireFromString("1487.5"),
		},
		CreatedAt: created,
		UpdatedAt: created,
	}
}

// TransitionCall stores information about transition invocations.
type TransitionCall struct {
	Operation string
	Actor     model.Actor
	OrderID   string
	Reason    string
}

// GuideeFacadeStub provides controllable behaviour for every HTTP endpoint.
type GuideeFacadeStub struct {
	ParseFn      func(string) (model.Actor, error)
	BookFn       func(context.Context, model.Actor, usecase.BookingRequest) (*model.Order, error)
	OrderFn      func(context.Context, model.Actor, string) (*model.Order, error)
	OrdersFn     func(context.Context, model.Actor, repository.OrderFilter) ([]model.Order, error)
	EventsFn     func(context.Context, model.Actor, string) ([]model.OrderEvent, error)
	TransitionFn func(context.Context, TransitionCall) (*model.Order, error)
	PreviewFn    func(context.Context, model.Actor, string) (refund.Quote, error)
	RefundFn     func(context.Context, model.Actor, string, *decimal.Decimal) (*model.Order, error)
	DeleteFn     func(context.Context, model.Actor, string) error
	PaymentFn    func(context.Context, usecase.PaymentNotice) (usecase.PaymentOutcome, error)
}

// ParseToken resolves every token to the traveler unless configured.
func (s GuideeFacadeStub) ParseToken(token string) (model.Actor, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return Traveler, nil
}

// Book returns the sample order for the requested listing.
func (s GuideeFacadeStub) Book(ctx context.Context, actor model.Actor, req usecase.BookingRequest) (*model.Order, error) {
	if s.BookFn != nil {
		return s.BookFn(ctx, actor, req)
	}
	order := SampleOrder("order-1")
	order.ServiceID = req.ServiceID
	return order, nil
}

// Order returns the sample order.
func (s GuideeFacadeStub) Order(ctx context.Context, actor model.Actor, id string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, actor, id)
	}
	return SampleOrder(id), nil
}

// Orders returns a single sample order.
func (s GuideeFacadeStub) Orders(ctx context.Context, actor model.Actor, filter repository.OrderFilter) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, actor, filter)
	}
	return []model.Order{*SampleOrder("order-1")}, nil
}

// Events returns the creation event.
func (s GuideeFacadeStub) Events(ctx context.Context, actor model.Actor, id string) ([]model.OrderEvent, error) {
	if s.EventsFn != nil {
		return s.EventsFn(ctx, actor, id)
	}
	return []model.OrderEvent{{
		OrderID:    id,
		Operation:  "create",
		ToStatus:   model.OrderStatusPendingConfirmation,
		ActorID:    Traveler.UserID,
		OccurredAt: time.Unix(0, 0).UTC(),
	}}, nil
}

func (s GuideeFacadeStub) transition(ctx context.Context, call TransitionCall) (*model.Order, error) {
	if s.TransitionFn != nil {
		return s.TransitionFn(ctx, call)
	}
	return SampleOrder(call.OrderID), nil
}

// Confirm delegates to TransitionFn.
func (s GuideeFacadeStub) Confirm(ctx context.Context, actor model.Actor, id string) (*model.Order, error) {
	return s.transition(ctx, TransitionCall{Operation: "confirm", Actor: actor, OrderID: id})
}

// Decline delegates to TransitionFn.
func (s GuideeFacadeStub) Decline(ctx context.Context, actor model.Actor, id, reason string) (*model.Order, error) {
	return s.transition(ctx, TransitionCall{Operation: "decline", Actor: actor, OrderID: id, Reason: reason})
}

// StartService delegates to TransitionFn.
func (s GuideeFacadeStub) StartService(ctx context.Context, actor model.Actor, id string) (*model.Order, error) {
	return s.transition(ctx, TransitionCall{Operation: "start", Actor: actor, OrderID: id})
}

// CompleteService delegates to TransitionFn.
func (s GuideeFacadeStub) CompleteService(ctx context.Context, actor model.Actor, id string) (*model.Order, error) {
	return s.transition(ctx, TransitionCall{Operation: "complete", Actor: actor, OrderID: id})
}

// Cancel delegates to TransitionFn.
func (s GuideeFacadeStub) Cancel(ctx context.Context, actor model.Actor, id, reason string) (*model.Order, error) {
	return s.transition(ctx, TransitionCall{Operation: "cancel", Actor: actor, OrderID: id, Reason: reason})
}

// Dispute delegates to TransitionFn.
func (s GuideeFacadeStub) Dispute(ctx context.Context, actor model.Actor, id, reason string) (*model.Order, error) {
	return s.transition(ctx, TransitionCall{Operation: "dispute", Actor: actor, OrderID: id, Reason: reason})
}

// PreviewRefund returns a full-tier quote.
func (s GuideeFacadeStub) PreviewRefund(ctx context.Context, actor model.Actor, id string) (refund.Quote, error) {
	if s.PreviewFn != nil {
		return s.PreviewFn(ctx, actor, id)
	}
	return refund.Quote{
		Amount:            decimal.RequireFromString("1837.5"),
		Percent:           decimal.NewFromInt(100),
		Tier:              "full",
		HoursUntilService: 240,
	}, nil
}

// Refund returns a refunded copy of the sample order.
func (s GuideeFacadeStub) Refund(ctx context.Context, actor model.Actor, id string, amount *decimal.Decimal) (*model.Order, error) {
	if s.RefundFn != nil {
		return s.RefundFn(ctx, actor, id, amount)
	}
	order := SampleOrder(id)
	order.Status = model.OrderStatusRefunded
	refunded := order.TotalAmount
	if amount != nil {
		refunded = *amount
	}
	order.RefundAmount = &refunded
	return order, nil
}

// SoftDelete succeeds unless configured.
func (s GuideeFacadeStub) SoftDelete(ctx context.Context, actor model.Actor, id string) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, actor, id)
	}
	return nil
}

// HandlePayment marks the sample order paid.
func (s GuideeFacadeStub) HandlePayment(ctx context.Context, notice usecase.PaymentNotice) (usecase.PaymentOutcome, error) {
	if s.PaymentFn != nil {
		return s.PaymentFn(ctx, notice)
	}
	order := SampleOrder(notice.OrderID)
	order.Status = model.OrderStatusPaid
	order.TransactionID = notice.TransactionID
	return usecase.PaymentOutcome{Order: order}, nil
}

// SweepFacadeStub mimics sweeper interactions with the booking use case.
type SweepFacadeStub struct {
	Batches  [][]model.Order
	StaleFn  func(context.Context, int) ([]model.Order, error)
	ExpireFn func(context.Context, string) (*model.Order, error)

	mu      sync.Mutex
	calls   int
	Expired []string
}

// Lock exposes internal mutex for external synchronization.
func (s *SweepFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *SweepFacadeStub) Unlock() { s.mu.Unlock() }

// StaleRequests returns batches from configured queue, then nothing.
func (s *SweepFacadeStub) StaleRequests(ctx context.Context, limit int) ([]model.Order, error) {
	if s.StaleFn != nil {
		return s.StaleFn(ctx, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= len(s.Batches) {
		return s.Batches[s.calls-1], nil
	}
	return nil, nil
}

// ExpireRequest records the expired order.
func (s *SweepFacadeStub) ExpireRequest(ctx context.Context, id string) (*model.Order, error) {
	if s.ExpireFn != nil {
		return s.ExpireFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Expired = append(s.Expired, id)
	order := SampleOrder(id)
	order.Status = model.OrderStatusCancelled
	return order, nil
}
