package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"inviteticketing/internal/domain"
)

// ClientConfig holds connection settings for the payment gateway API.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

// NewClient returns a domain.PaymentGateway backed by the provider's HTTP API.
// All calls are bounded by the configured timeout.
func NewClient(cfg ClientConfig) domain.PaymentGateway {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		hc:      &http.Client{Timeout: timeout},
	}
}

type createOrderRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	Description   string          `json:"description"`
}

type createOrderResponse struct {
	OrderID     string `json:"order_id"`
	CheckoutURL string `json:"checkout_url"`
}

func (c *client) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.GatewayOrder, error) {
	body, err := json.Marshal(createOrderRequest{
		Amount:        req.Amount,
		Currency:      req.Currency,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Description:   req.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal create order request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	// Deduplication key so a retried create does not open a second order.
	httpReq.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("%w: gateway returned status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var out createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode create order response: %w", err)
	}
	return &domain.GatewayOrder{OrderID: out.OrderID, CheckoutURL: out.CheckoutURL}, nil
}

type getOrderResponse struct {
	OrderID         string `json:"order_id"`
	Status          string `json:"status"`
	GatewayOrderRef string `json:"gateway_order_ref"`
	GatewayPayRef   string `json:"gateway_payment_ref"`
}

func (c *client) GetOrder(ctx context.Context, orderID string) (*domain.GatewayOrderState, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/orders/"+orderID, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: gateway returned status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var out getOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode get order response: %w", err)
	}
	return &domain.GatewayOrderState{
		OrderID:         out.OrderID,
		Status:          out.Status,
		GatewayOrderRef: out.GatewayOrderRef,
		GatewayPayRef:   out.GatewayPayRef,
	}, nil
}
