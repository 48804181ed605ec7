package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/guidee/internal/domain/errors"
	"github.com/polkiloo/guidee/internal/domain/model"
	"github.com/polkiloo/guidee/internal/domain/ordernumber"
	"github.com/polkiloo/guidee/internal/domain/pricing"
)

// Booking carries the inputs of a new order. Rate, currency and policy are
// snapshots taken from the listing at booking time.
type Booking struct {
	TravelerID         string
	ProviderID         string
	ServiceID          string
	RatePerHour        decimal.Decimal
	ServiceDate        string
	ServiceTime        string
	DurationHours      int
	ParticipantsCount  int
	MeetingPoint       model.MeetingPoint
	Currency           string
	CancellationPolicy model.CancellationPolicy
}

// Factory builds orders in PENDING_CONFIRMATION.
type Factory struct {
	calc    *pricing.Calculator
	numbers *ordernumber.Generator
	newID   func() string
}

// NewFactory wires a factory. A nil newID falls back to random UUIDs.
func NewFactory(calc *pricing.Calculator, numbers *ordernumber.Generator, newID func() string) *Factory {
	if newID == nil {
		newID = func() string { return uuid.NewString() }
	}
	return &Factory{calc: calc, numbers: numbers, newID: newID}
}

// New validates b and returns a fresh pending order with Version 1.
func (f *Factory) New(b Booking, now time.Time) (model.Order, error) {
	b.TravelerID = strings.TrimSpace(b.TravelerID)
	b.ProviderID = strings.TrimSpace(b.ProviderID)
	b.ServiceID = strings.TrimSpace(b.ServiceID)
	b.Currency = strings.ToUpper(strings.TrimSpace(b.Currency))

	if b.TravelerID == "" || b.ProviderID == "" || b.ServiceID == "" {
		return model.Order{}, fmt.Errorf("%w: traveler, provider and service are required", domainErrors.ErrInvalidOrderData)
	}
	if b.TravelerID == b.ProviderID {
		return model.Order{}, fmt.Errorf("%w: traveler cannot book own service", domainErrors.ErrInvalidOrderData)
	}
	if b.Currency == "" {
		return model.Order{}, fmt.Errorf("%w: currency is required", domainErrors.ErrInvalidOrderData)
	}
	if b.CancellationPolicy == "" {
		b.CancellationPolicy = model.CancellationPolicyStandard
	}
	if !b.CancellationPolicy.Valid() {
		return model.Order{}, fmt.Errorf("%w: unknown cancellation policy %q", domainErrors.ErrInvalidOrderData, b.CancellationPolicy)
	}
	if b.ParticipantsCount < 1 {
		return model.Order{}, fmt.Errorf("%w: participants must be positive", domainErrors.ErrInvalidAmount)
	}

	order := model.Order{
		TravelerID:         b.TravelerID,
		ProviderID:         b.ProviderID,
		ServiceID:          b.ServiceID,
		RatePerHour:        b.RatePerHour,
		ServiceDate:        b.ServiceDate,
		ServiceTime:        b.ServiceTime,
		DurationHours:      b.DurationHours,
		ParticipantsCount:  b.ParticipantsCount,
		MeetingPoint:       b.MeetingPoint,
		Currency:           b.Currency,
		CancellationPolicy: b.CancellationPolicy,
	}
	if _, err := order.ServiceDateTime(time.UTC); err != nil {
		return model.Order{}, fmt.Errorf("%w: schedule %q %q", domainErrors.ErrInvalidOrderData, b.ServiceDate, b.ServiceTime)
	}

	amounts, err := f.calc.Compute(b.RatePerHour, b.DurationHours)
	if err != nil {
		return model.Order{}, err
	}

	now = now.UTC().Truncate(time.Microsecond)
	order.ID = f.newID()
	order.OrderNumber = f.numbers.Next(now)
	order.Version = 1
	order.Amounts = amounts
	order.Status = model.OrderStatusPendingConfirmation
	order.ProviderResponse = model.ProviderResponsePending
	order.CreatedAt = now
	order.UpdatedAt = now
	return order, nil
}
