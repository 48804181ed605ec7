package repository

import (
	"context"
	"time"

	"github.com/polkiloo/guidee/internal/domain/model"
)

// OrderFilter narrows order listings. Empty fields match everything.
type OrderFilter struct {
	TravelerID string
	ProviderID string
	Status     model.OrderStatus
	Limit      int
	Offset     int
}

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// Create stores a new order together with its creation event.
	// A duplicate order number yields ErrAlreadyExists.
	Create(ctx context.Context, order *model.Order, event model.OrderEvent) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	GetByNumber(ctx context.Context, number string) (*model.Order, error)
	// Update replaces the stored order if its version still equals
	// expectedVersion and records event in the same transaction.
	// A stale version yields ErrConflict.
	Update(ctx context.Context, order *model.Order, expectedVersion int64, event model.OrderEvent) error
	List(ctx context.Context, filter OrderFilter) ([]model.Order, error)
	// ListPending returns unanswered requests scheduled on or before date (YYYY-MM-DD).
	ListPending(ctx context.Context, onOrBefore string, limit int) ([]model.Order, error)
	SoftDelete(ctx context.Context, id string, at time.Time) error
}
