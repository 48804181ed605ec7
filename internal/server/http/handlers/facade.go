package handlers

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/guidee/internal/domain/model"
	"github.com/polkiloo/guidee/internal/domain/refund"
	"github.com/polkiloo/guidee/internal/domain/repository"
	"github.com/polkiloo/guidee/internal/usecase"
)

// TokenFacade resolves bearer tokens into callers.
type TokenFacade interface {
	ParseToken(token string) (model.Actor, error)
}

// OrderFacade encapsulates order reads and creation exposed via HTTP.
type OrderFacade interface {
	Book(ctx context.Context, actor model.Actor, req usecase.BookingRequest) (*model.Order, error)
	Order(ctx context.Context, actor model.Actor, id string) (*model.Order, error)
	Orders(ctx context.Context, actor model.Actor, filter repository.OrderFilter) ([]model.Order, error)
	Events(ctx context.Context, actor model.Actor, id string) ([]model.OrderEvent, error)
}

// TransitionFacade drives lifecycle transitions requested by parties.
type TransitionFacade interface {
	Confirm(ctx context.Context, actor model.Actor, id string) (*model.Order, error)
	Decline(ctx context.Context, actor model.Actor, id, reason string) (*model.Order, error)
	StartService(ctx context.Context, actor model.Actor, id string) (*model.Order, error)
	CompleteService(ctx context.Context, actor model.Actor, id string) (*model.Order, error)
	Cancel(ctx context.Context, actor model.Actor, id, reason string) (*model.Order, error)
	Dispute(ctx context.Context, actor model.Actor, id, reason string) (*model.Order, error)
}

// RefundFacade provides refund and administrative operations.
type RefundFacade interface {
	PreviewRefund(ctx context.Context, actor model.Actor, id string) (refund.Quote, error)
	Refund(ctx context.Context, actor model.Actor, id string, amount *decimal.Decimal) (*model.Order, error)
	SoftDelete(ctx context.Context, actor model.Actor, id string) error
}

// PaymentFacade accepts payment collaborator notifications.
type PaymentFacade interface {
	HandlePayment(ctx context.Context, notice usecase.PaymentNotice) (usecase.PaymentOutcome, error)
}

// GuideeFacade aggregates the full set of operations used across handlers.
type GuideeFacade interface {
	TokenFacade
	OrderFacade
	TransitionFacade
	RefundFacade
	PaymentFacade
}
