package domain

import (
	"context"
	"time"
)

// WebhookEvent is the audit and idempotency record for one gateway delivery.
// The gateway-assigned event id is the idempotency key: at most one row per id,
// ever (insert-or-ignore). Rows are never updated; pruning after the retention
// window is advisory maintenance.
type WebhookEvent struct {
	ID          string    `json:"id"`
	EventType   string    `json:"event_type"`
	OrderID     string    `json:"order_id"`
	Signature   string    `json:"signature"`
	Payload     []byte    `json:"-"`
	ProcessedAt time.Time `json:"processed_at"`
}

// WebhookEventRepository is the idempotency ledger for gateway deliveries.
type WebhookEventRepository interface {
	Exists(ctx context.Context, eventID string) (bool, error)
	// Record inserts the event, ignoring duplicates. inserted is false when a
	// row with the same id already existed.
	Record(ctx context.Context, ev *WebhookEvent) (inserted bool, err error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
