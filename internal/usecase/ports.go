package usecase

import (
	"context"
	"time"

	"github.com/polkiloo/guidee/internal/domain/model"
)

// ListingProvider resolves the current terms of a service listing.
type ListingProvider interface {
	Listing(ctx context.Context, serviceID string) (*model.Listing, error)
}

// DeliveryStore remembers payment deliveries already accepted.
type DeliveryStore interface {
	// Claim returns false when key was claimed before and has not expired.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Forget(ctx context.Context, key string) error
}

// TransitionRecorder counts transition attempts by outcome.
type TransitionRecorder interface {
	Record(operation, result string)
}

type nopRecorder struct{}

func (nopRecorder) Record(string, string) {}
