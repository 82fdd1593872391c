package postgres

import (
	"context"
	"database/sql"
	"time"

	"inviteticketing/internal/domain"
)

type webhookEventRepository struct {
	DB *sql.DB
}

// NewWebhookEventRepository returns a domain.WebhookEventRepository implemented with Postgres.
func NewWebhookEventRepository(db *sql.DB) domain.WebhookEventRepository {
	return &webhookEventRepository{DB: db}
}

func (r *webhookEventRepository) Exists(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM webhook_events WHERE id = $1)`
	if err := r.DB.QueryRowContext(ctx, query, eventID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *webhookEventRepository) Record(ctx context.Context, ev *domain.WebhookEvent) (bool, error) {
	// Insert-or-ignore: concurrent duplicate deliveries never error and never
	// double-record.
	query := `
		INSERT INTO webhook_events (id, event_type, order_id, signature, payload)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`
	res, err := r.DB.ExecContext(ctx, query, ev.ID, ev.EventType, ev.OrderID, ev.Signature, ev.Payload)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *webhookEventRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM webhook_events WHERE processed_at < $1`
	res, err := r.DB.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
