package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/guidee/internal/domain/errors"
	"github.com/polkiloo/guidee/internal/domain/lifecycle"
	"github.com/polkiloo/guidee/internal/domain/model"
	"github.com/polkiloo/guidee/internal/domain/refund"
	"github.com/polkiloo/guidee/internal/domain/repository"
)

const (
	maxTransitionAttempts = 3
	maxNumberAttempts     = 5

	// OpCreate labels the creation event of an order.
	OpCreate = "create"
	// OpSoftDelete labels the soft-delete event of an order.
	OpSoftDelete = "soft_delete"

	resultOK        = "ok"
	resultRejected  = "rejected"
	resultInvalid   = "invalid"
	resultForbidden = "forbidden"
	resultConflict  = "conflict"
	resultError     = "error"
)

// Settings tunes booking behaviour.
type Settings struct {
	DefaultCurrency string
	// StrictStart turns a start before the scheduled moment into ErrPrematureStart.
	// When false the start proceeds and a warning is logged.
	StrictStart bool
	Location    *time.Location
	WebhookTTL  time.Duration
}

// BookingUseCase drives the order lifecycle on top of the repository.
type BookingUseCase struct {
	orders   repository.OrderRepository
	events   repository.EventRepository
	listings ListingProvider
	factory  *lifecycle.Factory
	refunds  *refund.Engine
	delivery DeliveryStore
	recorder TransitionRecorder
	logger   *slog.Logger
	settings Settings
	now      func() time.Time
}

// Deps groups BookingUseCase collaborators.
type Deps struct {
	Orders   repository.OrderRepository
	Events   repository.EventRepository
	Listings ListingProvider
	Factory  *lifecycle.Factory
	Refunds  *refund.Engine
	Delivery DeliveryStore
	Recorder TransitionRecorder
	Logger   *slog.Logger
	Settings Settings
	Now      func() time.Time
}

// NewBookingUseCase constructs BookingUseCase. Optional collaborators fall back to no-ops.
func NewBookingUseCase(d Deps) *BookingUseCase {
	if d.Recorder == nil {
		d.Recorder = nopRecorder{}
	}
	if d.Delivery == nil {
		d.Delivery = nopDelivery{}
	}
	if d.Logger == nil {
		d.Logger = slog.New(slog.DiscardHandler)
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Settings.Location == nil {
		d.Settings.Location = d.Refunds.Location()
	}
	if d.Settings.WebhookTTL <= 0 {
		d.Settings.WebhookTTL = 24 * time.Hour
	}
	return &BookingUseCase{
		orders:   d.Orders,
		events:   d.Events,
		listings: d.Listings,
		factory:  d.Factory,
		refunds:  d.Refunds,
		delivery: d.Delivery,
		recorder: d.Recorder,
		logger:   d.Logger,
		settings: d.Settings,
		now:      d.Now,
	}
}

// BookingRequest is a traveler's request for a listed service.
type BookingRequest struct {
	ServiceID         string
	ServiceDate       string
	ServiceTime       string
	DurationHours     int
	ParticipantsCount int
	MeetingPoint      model.MeetingPoint
}

// Book snapshots the listing terms and creates a pending order for the calling traveler.
func (u *BookingUseCase) Book(ctx context.Context, actor model.Actor, req BookingRequest) (*model.Order, error) {
	if actor.Role != model.RoleTraveler || actor.UserID == "" {
		return nil, domainErrors.ErrForbidden
	}
	serviceID := strings.TrimSpace(req.ServiceID)
	if serviceID == "" {
		return nil, fmt.Errorf("%w: service is required", domainErrors.ErrInvalidOrderData)
	}

	listing, err := u.listings.Listing(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("resolve listing %s: %w", serviceID, err)
	}
	currency := listing.Currency
	if strings.TrimSpace(currency) == "" {
		currency = u.settings.DefaultCurrency
	}

	return u.CreateOrder(ctx, lifecycle.Booking{
		TravelerID:         actor.UserID,
		ProviderID:         listing.ProviderID,
		ServiceID:          serviceID,
		RatePerHour:        listing.RatePerHour,
		ServiceDate:        req.ServiceDate,
		ServiceTime:        req.ServiceTime,
		DurationHours:      req.DurationHours,
		ParticipantsCount:  req.ParticipantsCount,
		MeetingPoint:       req.MeetingPoint,
		Currency:           currency,
		CancellationPolicy: listing.CancellationPolicy,
	})
}

// CreateOrder builds and stores a pending order. An order number collision
// discards the candidate and builds a fresh one.
func (u *BookingUseCase) CreateOrder(ctx context.Context, b lifecycle.Booking) (*model.Order, error) {
	for attempt := 1; ; attempt++ {
		order, err := u.factory.New(b, u.now())
		if err != nil {
			u.recorder.Record(OpCreate, resultInvalid)
			return nil, err
		}

		event := model.OrderEvent{
			OrderID:    order.ID,
			Operation:  OpCreate,
			ToStatus:   order.Status,
			ActorID:    order.TravelerID,
			OccurredAt: order.CreatedAt,
		}
		err = u.orders.Create(ctx, &order, event)
		if err == nil {
			u.recorder.Record(OpCreate, resultOK)
			return &order, nil
		}
		if !errors.Is(err, domainErrors.ErrAlreadyExists) || attempt == maxNumberAttempts {
			u.recorder.Record(OpCreate, resultError)
			return nil, err
		}
		u.logger.Debug("order number collision", slog.String("order_number", order.OrderNumber))
	}
}

// Order returns an order visible to actor.
func (u *BookingUseCase) Order(ctx context.Context, actor model.Actor, id string) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canView(actor, *order); err != nil {
		return nil, err
	}
	return order, nil
}

// Orders lists orders on the actor's side of the marketplace. Admins see everything.
func (u *BookingUseCase) Orders(ctx context.Context, actor model.Actor, filter repository.OrderFilter) ([]model.Order, error) {
	switch actor.Role {
	case model.RoleTraveler:
		filter.TravelerID = actor.UserID
		filter.ProviderID = ""
	case model.RoleProvider:
		filter.ProviderID = actor.UserID
		filter.TravelerID = ""
	case model.RoleAdmin, model.RoleSystem:
	default:
		return nil, domainErrors.ErrForbidden
	}
	return u.orders.List(ctx, filter)
}

// Events returns the transition audit trail of an order.
func (u *BookingUseCase) Events(ctx context.Context, actor model.Actor, id string) ([]model.OrderEvent, error) {
	if _, err := u.Order(ctx, actor, id); err != nil {
		return nil, err
	}
	return u.events.ListByOrder(ctx, id)
}

// SoftDelete hides an order from listings without touching its status.
func (u *BookingUseCase) SoftDelete(ctx context.Context, actor model.Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		u.recorder.Record(OpSoftDelete, resultForbidden)
		return err
	}
	if err := u.orders.SoftDelete(ctx, id, u.now().UTC()); err != nil {
		u.recorder.Record(OpSoftDelete, resultError)
		return err
	}
	u.recorder.Record(OpSoftDelete, resultOK)
	return nil
}

type nopDelivery struct{}

func (nopDelivery) Claim(context.Context, string, time.Duration) (bool, error) { return true, nil }

func (nopDelivery) Forget(context.Context, string) error { return nil }
