package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/polkiloo/guidee/internal/domain/repository"
)

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type orderRepository struct {
	storage *Storage
}

type eventRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Factory methods for domain repositories.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Events() repository.EventRepository {
	return &eventRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            order_number TEXT UNIQUE NOT NULL,
            version BIGINT NOT NULL,
            traveler_id TEXT NOT NULL,
            provider_id TEXT NOT NULL,
            service_id TEXT NOT NULL,
            rate_per_hour NUMERIC NOT NULL,
            service_date DATE NOT NULL,
            service_time TEXT NOT NULL,
            duration_hours INTEGER NOT NULL CHECK (duration_hours > 0),
            participants_count INTEGER NOT NULL CHECK (participants_count >= 1),
            meeting_point JSONB NOT NULL DEFAULT '{}',
            service_amount NUMERIC NOT NULL CHECK (service_amount >= 0),
            platform_fee NUMERIC NOT NULL CHECK (platform_fee >= 0),
            provider_commission NUMERIC NOT NULL CHECK (provider_commission >= 0),
            total_amount NUMERIC NOT NULL,
            provider_earning NUMERIC NOT NULL,
            currency TEXT NOT NULL,
            cancellation_policy TEXT NOT NULL,
            status TEXT NOT NULL,
            provider_response TEXT NOT NULL,
            provider_decline_reason TEXT,
            provider_responded_at TIMESTAMPTZ,
            payment_method TEXT,
            payment_provider TEXT,
            payment_transaction_id TEXT,
            paid_at TIMESTAMPTZ,
            service_started_at TIMESTAMPTZ,
            service_completed_at TIMESTAMPTZ,
            cancelled_at TIMESTAMPTZ,
            cancelled_by_user_id TEXT,
            cancellation_reason TEXT,
            refund_amount NUMERIC CHECK (refund_amount >= 0 AND refund_amount <= total_amount),
            refund_processed_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL,
            deleted_at TIMESTAMPTZ,
            CHECK (total_amount = service_amount + platform_fee),
            CHECK (provider_earning = service_amount - provider_commission),
            CHECK (provider_commission <= service_amount)
        )`,
		`CREATE TABLE IF NOT EXISTS order_events (
            id BIGSERIAL PRIMARY KEY,
            order_id TEXT NOT NULL REFERENCES orders(id),
            operation TEXT NOT NULL,
            from_status TEXT NOT NULL DEFAULT '',
            to_status TEXT NOT NULL,
            actor_id TEXT NOT NULL,
            detail TEXT NOT NULL DEFAULT '',
            occurred_at TIMESTAMPTZ NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_traveler ON orders(traveler_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_provider ON orders(provider_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_pending ON orders(service_date) WHERE status = 'PENDING_CONFIRMATION'`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_payment_tx ON orders(payment_transaction_id) WHERE payment_transaction_id IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_order_events_order ON order_events(order_id, id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}
