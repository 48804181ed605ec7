package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes booking lifecycle.
type OrderStatus string

const (
	OrderStatusPendingConfirmation OrderStatus = "PENDING_CONFIRMATION"
	OrderStatusConfirmed           OrderStatus = "CONFIRMED"
	OrderStatusPaid                OrderStatus = "PAID"
	OrderStatusInProgress          OrderStatus = "IN_PROGRESS"
	OrderStatusCompleted           OrderStatus = "COMPLETED"
	OrderStatusCancelled           OrderStatus = "CANCELLED"
	OrderStatusRefunded            OrderStatus = "REFUNDED"
	OrderStatusDisputed            OrderStatus = "DISPUTED"
)

// Terminal reports whether no transition leaves the status.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded, OrderStatusDisputed:
		return true
	}
	return false
}

// ProviderResponse records the provider's answer to a booking request.
type ProviderResponse string

const (
	ProviderResponsePending  ProviderResponse = "pending"
	ProviderResponseAccepted ProviderResponse = "accepted"
	ProviderResponseDeclined ProviderResponse = "declined"
)

// CancellationPolicy names the refund tier table snapshotted at booking time.
type CancellationPolicy string

const (
	CancellationPolicyFlexible CancellationPolicy = "flexible"
	CancellationPolicyStandard CancellationPolicy = "standard"
	CancellationPolicyStrict   CancellationPolicy = "strict"
)

// Valid reports whether p is a known policy variant.
func (p CancellationPolicy) Valid() bool {
	switch p {
	case CancellationPolicyFlexible, CancellationPolicyStandard, CancellationPolicyStrict:
		return true
	}
	return false
}

// MeetingPoint is an opaque location payload supplied by the booking flow.
type MeetingPoint struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Amounts is the money decomposition of a booking.
type Amounts struct {
	ServiceAmount      decimal.Decimal
	PlatformFee        decimal.Decimal
	ProviderCommission decimal.Decimal
	TotalAmount        decimal.Decimal
	ProviderEarning    decimal.Decimal
}

// Payment holds facts reported by the payment collaborator.
type Payment struct {
	Method        string
	Provider      string
	TransactionID string
	PaidAt        *time.Time
}

// Order is the aggregate root of a single booking transaction.
type Order struct {
	ID          string
	OrderNumber string
	Version     int64

	TravelerID string
	ProviderID string
	ServiceID  string

	RatePerHour       decimal.Decimal
	ServiceDate       string // YYYY-MM-DD
	ServiceTime       string // HH:MM
	DurationHours     int
	ParticipantsCount int
	MeetingPoint      MeetingPoint

	Amounts
	Currency           string
	CancellationPolicy CancellationPolicy

	Status                OrderStatus
	ProviderResponse      ProviderResponse
	ProviderDeclineReason string
	ProviderRespondedAt   *time.Time

	Payment

	ServiceStartedAt   *time.Time
	ServiceCompletedAt *time.Time

	CancelledAt        *time.Time
	CancelledByUserID  string
	CancellationReason string
	RefundAmount       *decimal.Decimal
	RefundProcessedAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

const (
	ServiceDateLayout = "2006-01-02"
	ServiceTimeLayout = "15:04"
)

// ServiceDateTime combines the scheduled date and time of day in loc.
func (o Order) ServiceDateTime(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(ServiceDateLayout+" "+ServiceTimeLayout, o.ServiceDate+" "+o.ServiceTime, loc)
}

// Party reports whether userID is the traveler or the provider of the order.
func (o Order) Party(userID string) bool {
	return userID != "" && (userID == o.TravelerID || userID == o.ProviderID)
}
