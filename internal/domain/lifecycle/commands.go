package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/guidee/internal/domain/errors"
	"github.com/polkiloo/guidee/internal/domain/model"
)

// Confirm records the provider accepting the request.
type Confirm struct{}

func (Confirm) Operation() Operation { return OpConfirm }

func (Confirm) apply(o *model.Order, now time.Time) error {
	o.ProviderResponse = model.ProviderResponseAccepted
	o.ProviderRespondedAt = stamp(now)
	return nil
}

// Decline records the provider refusing the request. No refund applies since nothing was paid.
type Decline struct {
	Reason string
}

func (Decline) Operation() Operation { return OpDecline }

func (c Decline) apply(o *model.Order, now time.Time) error {
	o.ProviderResponse = model.ProviderResponseDeclined
	o.ProviderDeclineReason = strings.TrimSpace(c.Reason)
	o.ProviderRespondedAt = stamp(now)
	o.CancelledAt = stamp(now)
	o.CancelledByUserID = o.ProviderID
	o.CancellationReason = o.ProviderDeclineReason
	return nil
}

// MarkAsPaid stores payment facts reported by the payment collaborator.
type MarkAsPaid struct {
	TransactionID string
	Method        string
	Provider      string
}

func (MarkAsPaid) Operation() Operation { return OpMarkAsPaid }

func (c MarkAsPaid) apply(o *model.Order, now time.Time) error {
	txID := strings.TrimSpace(c.TransactionID)
	method := strings.TrimSpace(c.Method)
	provider := strings.TrimSpace(c.Provider)
	if txID == "" || method == "" || provider == "" {
		return fmt.Errorf("%w: transaction id, method and provider are required", domainErrors.ErrInvalidPaymentData)
	}
	o.Payment = model.Payment{
		Method:        method,
		Provider:      provider,
		TransactionID: txID,
		PaidAt:        stamp(now),
	}
	return nil
}

// StartService begins execution. Unless AllowEarly is set, starting before
// the scheduled moment fails with ErrPrematureStart.
type StartService struct {
	Location   *time.Location
	AllowEarly bool
}

func (StartService) Operation() Operation { return OpStartService }

func (c StartService) apply(o *model.Order, now time.Time) error {
	if !c.AllowEarly {
		early, err := Premature(*o, now, c.Location)
		if err != nil {
			return err
		}
		if early {
			return domainErrors.ErrPrematureStart
		}
	}
	o.ServiceStartedAt = stamp(now)
	return nil
}

// Premature reports whether now is before the scheduled service moment.
func Premature(o model.Order, now time.Time, loc *time.Location) (bool, error) {
	at, err := o.ServiceDateTime(loc)
	if err != nil {
		return false, fmt.Errorf("%w: schedule: %v", domainErrors.ErrInvalidOrderData, err)
	}
	return now.Before(at), nil
}

// CompleteService finishes execution.
type CompleteService struct{}

func (CompleteService) Operation() Operation { return OpCompleteService }

func (CompleteService) apply(o *model.Order, now time.Time) error {
	o.ServiceCompletedAt = stamp(now)
	return nil
}

// Cancel records a traveler, provider, admin or system cancellation. Refund is a separate step.
type Cancel struct {
	CancelledBy string
	Reason      string
}

func (Cancel) Operation() Operation { return OpCancel }

func (c Cancel) apply(o *model.Order, now time.Time) error {
	by := strings.TrimSpace(c.CancelledBy)
	if by == "" {
		return fmt.Errorf("%w: cancelling user is required", domainErrors.ErrInvalidOrderData)
	}
	o.CancelledAt = stamp(now)
	o.CancelledByUserID = by
	o.CancellationReason = strings.TrimSpace(c.Reason)
	return nil
}

// ProcessRefund applies an approved refund within [0, totalAmount]. Amount may
// carry at most Precision decimal places. An order that was never paid only
// accepts a zero refund.
type ProcessRefund struct {
	Amount    decimal.Decimal
	Precision int32
}

func (ProcessRefund) Operation() Operation { return OpProcessRefund }

func (c ProcessRefund) apply(o *model.Order, now time.Time) error {
	if c.Amount.IsNegative() || c.Amount.GreaterThan(o.TotalAmount) {
		return fmt.Errorf("%w: %s outside [0, %s]", domainErrors.ErrInvalidRefundAmount, c.Amount, o.TotalAmount)
	}
	if !c.Amount.Equal(c.Amount.Round(c.Precision)) {
		return fmt.Errorf("%w: %s has more than %d decimal places", domainErrors.ErrInvalidRefundAmount, c.Amount, c.Precision)
	}
	if o.PaidAt == nil && c.Amount.IsPositive() {
		return fmt.Errorf("%w: order %s was never paid", domainErrors.ErrInvalidRefundAmount, o.ID)
	}
	amount := c.Amount
	o.RefundAmount = &amount
	o.RefundProcessedAt = stamp(now)
	return nil
}

// Dispute hands the order over to external resolution.
type Dispute struct{}

func (Dispute) Operation() Operation { return OpDispute }

func (Dispute) apply(*model.Order, time.Time) error { return nil }
