package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/polkiloo/guidee/internal/domain/model"
)

func insertEvent(ctx context.Context, tx pgx.Tx, event model.OrderEvent) error {
	const query = `INSERT INTO order_events (order_id, operation, from_status, to_status, actor_id, detail, occurred_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := tx.Exec(ctx, query,
		event.OrderID, event.Operation, string(event.FromStatus), string(event.ToStatus),
		event.ActorID, event.Detail, event.OccurredAt,
	)
	return err
}

// --- EventRepository implementation ---

func (r *eventRepository) ListByOrder(ctx context.Context, orderID string) ([]model.OrderEvent, error) {
	const query = `SELECT id, order_id, operation, from_status, to_status, actor_id, detail, occurred_at
                   FROM order_events WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OrderEvent
	for rows.Next() {
		var (
			e        model.OrderEvent
			from, to string
		)
		if err := rows.Scan(&e.ID, &e.OrderID, &e.Operation, &from, &to, &e.ActorID, &e.Detail, &e.OccurredAt); err != nil {
			return nil, err
		}
		e.FromStatus = model.OrderStatus(from)
		e.ToStatus = model.OrderStatus(to)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
