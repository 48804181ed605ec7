package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/guidee/internal/domain/errors"
	"github.com/polkiloo/guidee/internal/domain/model"
)

// SweepFacade exposes the subset of application functionality required by the sweeper.
type SweepFacade interface {
	StaleRequests(ctx context.Context, limit int) ([]model.Order, error)
	ExpireRequest(ctx context.Context, id string) (*model.Order, error)
}

// Sweeper periodically cancels booking requests the provider never answered.
type Sweeper struct {
	facade    SweepFacade
	interval  time.Duration
	batchSize int
	workers   int
	logger    *slog.Logger

	jobs   chan model.Order
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewSweeper constructs the sweeper worker pool.
func NewSweeper(facade SweepFacade, interval time.Duration, batchSize, workers int, logger *slog.Logger) *Sweeper {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		facade:    facade,
		interval:  interval,
		batchSize: batchSize,
		workers:   workers,
		logger:    logger,
	}
}

// Start launches background sweeping. It is a no-op when already running.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.jobs = make(chan model.Order, s.batchSize)

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(runCtx, s.jobs)
	}

	s.wg.Add(1)
	go s.dispatch(runCtx, s.jobs)
}

// Stop waits for all workers to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Sweeper) dispatch(ctx context.Context, jobs chan<- model.Order) {
	defer s.wg.Done()
	defer close(jobs)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx, jobs)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context, jobs chan<- model.Order) {
	orders, err := s.facade.StaleRequests(ctx, s.batchSize)
	if err != nil {
		s.logger.Error("fetch stale requests failed", slog.String("error", err.Error()))
		return
	}
	if len(orders) > 0 {
		s.logger.Debug("expiring stale requests", slog.Int("count", len(orders)))
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case jobs <- order:
		}
	}
}

func (s *Sweeper) worker(ctx context.Context, jobs <-chan model.Order) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-jobs:
			if !ok {
				return
			}
			s.expire(ctx, order)
		}
	}
}

func (s *Sweeper) expire(ctx context.Context, order model.Order) {
	if _, err := s.facade.ExpireRequest(ctx, order.ID); err != nil {
		if errors.Is(err, domainErrors.ErrInvalidTransition) || errors.Is(err, domainErrors.ErrNotFound) {
			s.logger.Debug("stale request already settled", slog.String("order_id", order.ID), slog.String("error", err.Error()))
			return
		}
		s.logger.Error("expire stale request failed",
			slog.String("order_id", order.ID),
			slog.String("order_number", order.OrderNumber),
			slog.String("error", err.Error()),
		)
		return
	}
	s.logger.Info("stale request expired", slog.String("order_id", order.ID), slog.String("order_number", order.OrderNumber))
}
