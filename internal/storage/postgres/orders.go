package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/guidee/internal/domain/errors"
	"github.com/polkiloo/guidee/internal/domain/model"
	"github.com/polkiloo/guidee/internal/domain/repository"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200

	uniqueViolation = "23505"
)

const orderColumns = `id, order_number, version, traveler_id, provider_id, service_id,
    rate_per_hour::text, to_char(service_date, 'YYYY-MM-DD'), service_time,
    duration_hours, participants_count, meeting_point::text,
    service_amount::text, platform_fee::text, provider_commission::text,
    total_amount::text, provider_earning::text, currency, cancellation_policy,
    status, provider_response, COALESCE(provider_decline_reason, ''), provider_responded_at,
    COALESCE(payment_method, ''), COALESCE(payment_provider, ''),
    COALESCE(payment_transaction_id, ''), paid_at,
    service_started_at, service_completed_at, cancelled_at,
    COALESCE(cancelled_by_user_id, ''), COALESCE(cancellation_reason, ''),
    refund_amount::text, refund_processed_at, created_at, updated_at, deleted_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (*model.Order, error) {
	var (
		o            model.Order
		rate         string
		meetingPoint string
		amounts      [5]string
		policy       string
		status       string
		response     string
		refund       *string
	)
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.Version, &o.TravelerID, &o.ProviderID, &o.ServiceID,
		&rate, &o.ServiceDate, &o.ServiceTime,
		&o.DurationHours, &o.ParticipantsCount, &meetingPoint,
		&amounts[0], &amounts[1], &amounts[2], &amounts[3], &amounts[4],
		&o.Currency, &policy,
		&status, &response, &o.ProviderDeclineReason, &o.ProviderRespondedAt,
		&o.Method, &o.Provider, &o.TransactionID, &o.PaidAt,
		&o.ServiceStartedAt, &o.ServiceCompletedAt, &o.CancelledAt,
		&o.CancelledByUserID, &o.CancellationReason,
		&refund, &o.RefundProcessedAt, &o.CreatedAt, &o.UpdatedAt, &o.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	if o.RatePerHour, err = decimal.NewFromString(rate); err != nil {
		return nil, fmt.Errorf("decode rate: %w", err)
	}
	money := []*decimal.Decimal{
		&o.ServiceAmount, &o.PlatformFee, &o.ProviderCommission, &o.TotalAmount, &o.ProviderEarning,
	}
	for i, dst := range money {
		if *dst, err = decimal.NewFromString(amounts[i]); err != nil {
			return nil, fmt.Errorf("decode amount: %w", err)
		}
	}
	if refund != nil {
		v, err := decimal.NewFromString(*refund)
		if err != nil {
			return nil, fmt.Errorf("decode refund: %w", err)
		}
		o.RefundAmount = &v
	}
	if meetingPoint != "" {
		if err := json.Unmarshal([]byte(meetingPoint), &o.MeetingPoint); err != nil {
			return nil, fmt.Errorf("decode meeting point: %w", err)
		}
	}
	o.CancellationPolicy = model.CancellationPolicy(policy)
	o.Status = model.OrderStatus(status)
	o.ProviderResponse = model.ProviderResponse(response)

	return &o, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func refundText(v *decimal.Decimal) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, order *model.Order, event model.OrderEvent) error {
	const query = `INSERT INTO orders (
            id, order_number, version, traveler_id, provider_id, service_id,
            rate_per_hour, service_date, service_time, duration_hours, participants_count, meeting_point,
            service_amount, platform_fee, provider_commission, total_amount, provider_earning,
            currency, cancellation_policy, status, provider_response, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6,
            $7::numeric, $8::date, $9, $10, $11, $12::jsonb,
            $13::numeric, $14::numeric, $15::numeric, $16::numeric, $17::numeric,
            $18, $19, $20, $21, $22, $23)`

	meetingPoint, err := json.Marshal(order.MeetingPoint)
	if err != nil {
		return fmt.Errorf("encode meeting point: %w", err)
	}

	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query,
			order.ID, order.OrderNumber, order.Version, order.TravelerID, order.ProviderID, order.ServiceID,
			order.RatePerHour.String(), order.ServiceDate, order.ServiceTime,
			order.DurationHours, order.ParticipantsCount, string(meetingPoint),
			order.ServiceAmount.String(), order.PlatformFee.String(), order.ProviderCommission.String(),
			order.TotalAmount.String(), order.ProviderEarning.String(),
			order.Currency, string(order.CancellationPolicy), string(order.Status), string(order.ProviderResponse),
			order.CreatedAt, order.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domainErrors.ErrAlreadyExists
			}
			return err
		}
		return insertEvent(ctx, tx, event)
	})
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1 AND deleted_at IS NULL`, id)
}

func (r *orderRepository) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_number=$1 AND deleted_at IS NULL`, number)
}

func (r *orderRepository) getOne(ctx context.Context, query string, arg string) (*model.Order, error) {
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) Update(ctx context.Context, order *model.Order, expectedVersion int64, event model.OrderEvent) error {
	const query = `UPDATE orders SET
            version=$2, status=$3, provider_response=$4,
            provider_decline_reason=$5, provider_responded_at=$6,
            payment_method=$7, payment_provider=$8, payment_transaction_id=$9, paid_at=$10,
            service_started_at=$11, service_completed_at=$12,
            cancelled_at=$13, cancelled_by_user_id=$14, cancellation_reason=$15,
            refund_amount=$16::numeric, refund_processed_at=$17, updated_at=$18
        WHERE id=$1 AND version=$19 AND deleted_at IS NULL`

	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query,
			order.ID, order.Version, string(order.Status), string(order.ProviderResponse),
			nullable(order.ProviderDeclineReason), order.ProviderRespondedAt,
			nullable(order.Method), nullable(order.Provider), nullable(order.TransactionID), order.PaidAt,
			order.ServiceStartedAt, order.ServiceCompletedAt,
			order.CancelledAt, nullable(order.CancelledByUserID), nullable(order.CancellationReason),
			refundText(order.RefundAmount), order.RefundProcessedAt, order.UpdatedAt,
			expectedVersion,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: transaction %s already settles another order", domainErrors.ErrInvalidPaymentData, order.TransactionID)
			}
			return err
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrConflict
		}
		return insertEvent(ctx, tx, event)
	})
}

func (r *orderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]model.Order, error) {
	var (
		where = []string{"deleted_at IS NULL"}
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.TravelerID != "" {
		add("traveler_id=$%d", filter.TravelerID)
	}
	if filter.ProviderID != "" {
		add("provider_id=$%d", filter.ProviderID)
	}
	if filter.Status != "" {
		add("status=$%d", string(filter.Status))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	query := fmt.Sprintf(`SELECT %s FROM orders WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		orderColumns, strings.Join(where, " AND "), len(args)-1, len(args))

	return r.queryOrders(ctx, query, args...)
}

func (r *orderRepository) ListPending(ctx context.Context, onOrBefore string, limit int) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders
        WHERE status='PENDING_CONFIRMATION' AND deleted_at IS NULL AND service_date <= $1::date
        ORDER BY service_date, service_time
        LIMIT $2`
	if limit <= 0 {
		limit = defaultListLimit
	}
	return r.queryOrders(ctx, query, onOrBefore, limit)
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE orders SET deleted_at=$2 WHERE id=$1 AND deleted_at IS NULL`
	tag, err := r.storage.pool.Exec(ctx, query, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
