package test

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/guidee/internal/domain/errors"
	"github.com/polkiloo/guidee/internal/domain/model"
	"github.com/polkiloo/guidee/internal/domain/repository"
)

// OrderStore keeps orders and their events in memory with version checks
// matching the PostgreSQL repository.
type OrderStore struct {
	mu      sync.Mutex
	orders  map[string]model.Order
	events  []model.OrderEvent
	eventID int64

	// CreateErrs are returned by successive Create calls before any insert happens.
	CreateErrs []error
	// BeforeUpdate runs outside the lock at the start of every Update.
	BeforeUpdate func(order model.Order)
	Err          error
}

// NewOrderStore constructs an empty store.
func NewOrderStore() *OrderStore {
	return &OrderStore{orders: make(map[string]model.Order)}
}

// Put stores order as is, bypassing version checks.
func (s *OrderStore) Put(order model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = order
}

// Get returns the stored record including soft-deleted ones.
func (s *OrderStore) Get(id string) (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	return o, ok
}

// Len reports how many orders are stored.
func (s *OrderStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// Create stores order unless its number is taken.
func (s *OrderStore) Create(ctx context.Context, order *model.Order, event model.OrderEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if len(s.CreateErrs) > 0 {
		err := s.CreateErrs[0]
		s.CreateErrs = s.CreateErrs[1:]
		if err != nil {
			return err
		}
	}
	for _, existing := range s.orders {
		if existing.OrderNumber == order.OrderNumber || existing.ID == order.ID {
			return domainErrors.ErrAlreadyExists
		}
	}
	s.orders[order.ID] = *order
	s.appendEvent(event)
	return nil
}

// GetByID returns a live order.
func (s *OrderStore) GetByID(ctx context.Context, id string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	o, ok := s.orders[id]
	if !ok || o.DeletedAt != nil {
		return nil, domainErrors.ErrNotFound
	}
	return &o, nil
}

// GetByNumber returns a live order by its human-readable number.
func (s *OrderStore) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, o := range s.orders {
		if o.OrderNumber == number && o.DeletedAt == nil {
			return &o, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// Update replaces the order when the stored version equals expectedVersion.
func (s *OrderStore) Update(ctx context.Context, order *model.Order, expectedVersion int64, event model.OrderEvent) error {
	if s.BeforeUpdate != nil {
		s.BeforeUpdate(*order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	stored, ok := s.orders[order.ID]
	if !ok || stored.DeletedAt != nil || stored.Version != expectedVersion {
		return domainErrors.ErrConflict
	}
	s.orders[order.ID] = *order
	s.appendEvent(event)
	return nil
}

// List filters live orders, newest first.
func (s *OrderStore) List(ctx context.Context, filter repository.OrderFilter) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var result []model.Order
	for _, o := range s.orders {
		switch {
		case o.DeletedAt != nil:
		case filter.TravelerID != "" && o.TravelerID != filter.TravelerID:
		case filter.ProviderID != "" && o.ProviderID != filter.ProviderID:
		case filter.Status != "" && o.Status != filter.Status:
		default:
			result = append(result, o)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return nil, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

// ListPending returns pending orders scheduled on or before the given day.
func (s *OrderStore) ListPending(ctx context.Context, onOrBefore string, limit int) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var result []model.Order
	for _, o := range s.orders {
		if o.DeletedAt == nil && o.Status == model.OrderStatusPendingConfirmation && o.ServiceDate <= onOrBefore {
			result = append(result, o)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ServiceDate+result[i].ServiceTime < result[j].ServiceDate+result[j].ServiceTime
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// SoftDelete hides a live order.
func (s *OrderStore) SoftDelete(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	o, ok := s.orders[id]
	if !ok || o.DeletedAt != nil {
		return domainErrors.ErrNotFound
	}
	o.DeletedAt = &at
	s.orders[id] = o
	return nil
}

// ListByOrder returns the audit trail of an order in insertion order.
func (s *OrderStore) ListByOrder(ctx context.Context, orderID string) ([]model.OrderEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var result []model.OrderEvent
	for _, e := range s.events {
		if e.OrderID == orderID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (s *OrderStore) appendEvent(e model.OrderEvent) {
	s.eventID++
	e.ID = s.eventID
	s.events = append(s.events, e)
}

// ListingStub serves listings from a map.
type ListingStub struct {
	Listings map[string]model.Listing
	Err      error
}

// Listing returns the configured listing or ErrNotFound.
func (s ListingStub) Listing(ctx context.Context, serviceID string) (*model.Listing, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	l, ok := s.Listings[serviceID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &l, nil
}

// DeliveryStub remembers claimed keys in memory.
type DeliveryStub struct {
	mu        sync.Mutex
	claimed   map[string]bool
	Forgotten []string
	ClaimErr  error
}

// Claim reports whether key was not claimed before.
func (s *DeliveryStub) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ClaimErr != nil {
		return false, s.ClaimErr
	}
	if s.claimed == nil {
		s.claimed = make(map[string]bool)
	}
	if s.claimed[key] {
		return false, nil
	}
	s.claimed[key] = true
	return true, nil
}

// Forget releases key.
func (s *DeliveryStub) Forget(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.claimed, key)
	s.Forgotten = append(s.Forgotten, key)
	return nil
}

// RecorderStub counts recorded transition outcomes.
type RecorderStub struct {
	mu     sync.Mutex
	counts map[string]int
}

// Record increments the operation/result pair.
func (r *RecorderStub) Record(operation, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = make(map[string]int)
	}
	r.counts[operation+"/"+result]++
}

// Count returns how many times the pair was recorded.
func (r *RecorderStub) Count(operation, result string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[operation+"/"+result]
}

var (
	_ repository.OrderRepository = (*OrderStore)(nil)
	_ repository.EventRepository = (*OrderStore)(nil)
)
