package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domainErrors "github.com/polkiloo/guidee/internal/domain/errors"
	"github.com/polkiloo/guidee/internal/domain/lifecycle"
	"github.com/polkiloo/guidee/internal/domain/model"
)

// PaymentNotice is a payment fact delivered by the payment collaborator.
// Either OrderID or OrderNumber identifies the order.
type PaymentNotice struct {
	OrderID       string
	OrderNumber   string
	TransactionID string
	Method        string
	Provider      string
}

// PaymentOutcome tells the webhook caller what happened to a notice.
type PaymentOutcome struct {
	Order          *model.Order
	AlreadyHandled bool
}

// HandlePayment marks the order paid. Redelivered notices for an order that is
// already paid with the same transaction are reported as handled, not as errors.
func (u *BookingUseCase) HandlePayment(ctx context.Context, notice PaymentNotice) (PaymentOutcome, error) {
	txID := strings.TrimSpace(notice.TransactionID)
	if txID == "" {
		return PaymentOutcome{}, fmt.Errorf("%w: transaction id is required", domainErrors.ErrInvalidPaymentData)
	}

	orderID, err := u.resolveOrderID(ctx, notice)
	if err != nil {
		return PaymentOutcome{}, err
	}

	fresh, err := u.delivery.Claim(ctx, txID, u.settings.WebhookTTL)
	if err != nil {
		u.logger.Error("claim payment delivery", slog.String("transaction_id", txID), slog.String("error", err.Error()))
		fresh = true
	}
	if !fresh {
		order, err := u.orders.GetByID(ctx, orderID)
		if err == nil && order.TransactionID == txID {
			return PaymentOutcome{Order: order, AlreadyHandled: true}, nil
		}
	}

	cmd := lifecycle.MarkAsPaid{TransactionID: txID, Method: notice.Method, Provider: notice.Provider}
	order, err := u.MarkAsPaid(ctx, model.SystemActor, orderID, cmd)
	if err == nil {
		return PaymentOutcome{Order: order}, nil
	}

	if errors.Is(err, domainErrors.ErrInvalidTransition) {
		current, getErr := u.orders.GetByID(ctx, orderID)
		if getErr == nil && current.TransactionID == txID {
			return PaymentOutcome{Order: current, AlreadyHandled: true}, nil
		}
	}
	if forgetErr := u.delivery.Forget(ctx, txID); forgetErr != nil {
		u.logger.Error("release payment delivery", slog.String("transaction_id", txID), slog.String("error", forgetErr.Error()))
	}
	return PaymentOutcome{}, err
}

func (u *BookingUseCase) resolveOrderID(ctx context.Context, notice PaymentNotice) (string, error) {
	if id := strings.TrimSpace(notice.OrderID); id != "" {
		return id, nil
	}
	number := strings.TrimSpace(notice.OrderNumber)
	if number == "" {
		return "", fmt.Errorf("%w: order reference is required", domainErrors.ErrInvalidPaymentData)
	}
	order, err := u.orders.GetByNumber(ctx, number)
	if err != nil {
		return "", err
	}
	return order.ID, nil
}
