package repository

import (
	"context"

	"github.com/polkiloo/guidee/internal/domain/model"
)

// EventRepository exposes the audit trail of order transitions.
type EventRepository interface {
	ListByOrder(ctx context.Context, orderID string) ([]model.OrderEvent, error)
}
