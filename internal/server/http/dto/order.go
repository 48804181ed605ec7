package dto

import "time"

// MeetingPoint is the opaque location payload of a booking.
type MeetingPoint struct {
	Name      string  `json:"name"`
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// CreateOrderRequest describes a traveler's booking payload.
type CreateOrderRequest struct {
	ServiceID         string       `json:"serviceId"`
	ServiceDate       string       `json:"serviceDate"`
	ServiceTime       string       `json:"serviceTime"`
	DurationHours     int          `json:"durationHours"`
	ParticipantsCount int          `json:"participantsCount"`
	MeetingPoint      MeetingPoint `json:"meetingPoint"`
}

// ReasonRequest carries an optional free-text reason.
type ReasonRequest struct {
	Reason string `json:"reason"`
}

// PaymentInfo describes payment facts of an order.
type PaymentInfo struct {
	Method        string     `json:"method"`
	Provider      string     `json:"provider"`
	TransactionID string     `json:"transactionId"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
}

// OrderResponse represents an order. Money is rendered as decimal strings.
type OrderResponse struct {
	ID          string `json:"id"`
	OrderNumber string `json:"orderNumber"`
	Version     int64  `json:"version"`

	TravelerID string `json:"travelerId"`
	ProviderID string `json:"providerId"`
	ServiceID  string `json:"serviceId"`

	RatePerHour       string       `json:"ratePerHour"`
	ServiceDate       string       `json:"serviceDate"`
	ServiceTime       string       `json:"serviceTime"`
	DurationHours     int          `json:"durationHours"`
	ParticipantsCount int          `json:"participantsCount"`
	MeetingPoint      MeetingPoint `json:"meetingPoint"`

	ServiceAmount      string `json:"serviceAmount"`
	PlatformFee        string `json:"platformFee"`
	ProviderCommission string `json:"providerCommission"`
	TotalAmount        string `json:"totalAmount"`
	ProviderEarning    string `json:"providerEarning"`
	Currency           string `json:"currency"`
	CancellationPolicy string `json:"cancellationPolicy"`

	Status                string     `json:"status"`
	ProviderResponse      string     `json:"providerResponse"`
	ProviderDeclineReason string     `json:"providerDeclineReason,omitempty"`
	ProviderRespondedAt   *time.Time `json:"providerRespondedAt,omitempty"`

	Payment *PaymentInfo `json:"payment,omitempty"`

	ServiceStartedAt   *time.Time `json:"serviceStartedAt,omitempty"`
	ServiceCompletedAt *time.Time `json:"serviceCompletedAt,omitempty"`

	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CancelledByUserID  string     `json:"cancelledByUserId,omitempty"`
	CancellationReason string     `json:"cancellationReason,omitempty"`
	RefundAmount       *string    `json:"refundAmount,omitempty"`
	RefundProcessedAt  *time.Time `json:"refundProcessedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EventResponse is one audit trail entry.
type EventResponse struct {
	Operation  string    `json:"operation"`
	FromStatus string    `json:"fromStatus,omitempty"`
	ToStatus   string    `json:"toStatus"`
	ActorID    string    `json:"actorId"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// ErrorResponse is returned with every non-2xx JSON answer.
type ErrorResponse struct {
	Error string `json:"error"`
}
