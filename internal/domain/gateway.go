package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Gateway order statuses as reported by the payment provider. PAID maps to
// PaymentCompleted, ACTIVE means the order is still payable, and any other
// status is treated as a terminal failure on the poll path.
const (
	GatewayStatusPaid   = "PAID"
	GatewayStatusActive = "ACTIVE"
)

// CreateOrderRequest is the input for opening a gateway payment order.
type CreateOrderRequest struct {
	Amount        decimal.Decimal
	Currency      string
	CustomerName  string
	CustomerEmail string
	Description   string
}

// GatewayOrder is the result of creating a payment order.
type GatewayOrder struct {
	OrderID     string
	CheckoutURL string
}

// GatewayOrderState is the current gateway-side view of an order.
type GatewayOrderState struct {
	OrderID         string
	Status          string
	GatewayOrderRef string
	GatewayPayRef   string
}

// PaymentGateway is the external source of truth for payment state.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*GatewayOrder, error)
	GetOrder(ctx context.Context, orderID string) (*GatewayOrderState, error)
}

// WebhookDelivery is one inbound gateway push, parsed from the wire.
type WebhookDelivery struct {
	EventID       string
	EventType     string
	OrderID       string
	ClaimedStatus string
	Signature     string
	RawPayload    []byte
}

// WebhookVerifier checks a delivery's signature against the shared secret.
type WebhookVerifier interface {
	Verify(payload []byte, signature string) bool
}

// ReconcileResult reports the outcome of a reconciliation pass.
// swagger:model ReconcileResult
type ReconcileResult struct {
	ReferenceNumber string        `json:"reference_number"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	// Applied is true when this pass performed the status transition, false
	// for idempotent replays and ignored events.
	Applied bool `json:"applied"`
}

// ReconcileService turns gateway events and polls into booking transitions.
type ReconcileService interface {
	// HandleWebhook runs the webhook path: signature check, idempotency-ledger
	// check, status mapping, transition, ledger record, then first-completion
	// fan-out (notifier + mirror, both advisory).
	HandleWebhook(ctx context.Context, delivery WebhookDelivery) (*ReconcileResult, error)
	// Poll fetches current gateway state for the booking's order and applies
	// the same transition rules. ACTIVE reports pending without mutating.
	Poll(ctx context.Context, reference string) (*ReconcileResult, error)
	// PruneLedger deletes webhook events older than the retention window.
	PruneLedger(ctx context.Context) (int64, error)
}
