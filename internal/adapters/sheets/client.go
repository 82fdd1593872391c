package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"inviteticketing/internal/domain"
)

// ClientConfig holds connection settings for the sheet service that hosts the
// invite roster and the booking mirror.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to the external sheet service. It implements both
// domain.RosterSource (read-only roster of invite codes) and domain.Mirror
// (best-effort booking copy).
type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

// NewClient returns a sheet service client with a bounded request timeout.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		hc:      &http.Client{Timeout: timeout},
	}
}

type rosterEntry struct {
	Code       string `json:"code"`
	GroupLabel string `json:"group_label"`
	Slots      int    `json:"slots"`
}

func (c *Client) ListValidCodes(ctx context.Context) ([]domain.InviteCode, error) {
	var entries []rosterEntry
	if err := c.getJSON(ctx, "/sheets/roster/rows", &entries); err != nil {
		return nil, err
	}
	codes := make([]domain.InviteCode, 0, len(entries))
	for _, e := range entries {
		codes = append(codes, domain.InviteCode{Code: e.Code, GroupLabel: e.GroupLabel, Slots: e.Slots})
	}
	return codes, nil
}

func (c *Client) GetCodeDetails(ctx context.Context, code string) (*domain.InviteCode, error) {
	var entry rosterEntry
	path := "/sheets/roster/rows/" + url.PathEscape(code)
	if err := c.getJSON(ctx, path, &entry); err != nil {
		return nil, err
	}
	return &domain.InviteCode{Code: entry.Code, GroupLabel: entry.GroupLabel, Slots: entry.Slots}, nil
}

type bookingRow struct {
	ReferenceNumber string `json:"reference_number"`
	InviteCode      string `json:"invite_code"`
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	TicketType      string `json:"ticket_type"`
	TicketCount     int    `json:"ticket_count"`
	TotalAmount     string `json:"total_amount"`
	PaymentStatus   string `json:"payment_status"`
	CheckedIn       bool   `json:"checked_in"`
}

func (c *Client) UpsertBookingRow(ctx context.Context, b *domain.Booking) error {
	row := bookingRow{
		ReferenceNumber: b.ReferenceNumber,
		InviteCode:      b.InviteCode,
		CustomerName:    b.CustomerName,
		CustomerEmail:   b.CustomerEmail,
		TicketType:      b.TicketType,
		TicketCount:     b.TicketCount,
		TotalAmount:     b.TotalAmount.StringFixed(2),
		PaymentStatus:   string(b.PaymentStatus),
		CheckedIn:       b.CheckedIn,
	}
	return c.putJSON(ctx, "/sheets/bookings/rows/"+url.PathEscape(b.ReferenceNumber), row)
}

func (c *Client) SetCheckedIn(ctx context.Context, inviteCode string) error {
	body := map[string]bool{"checked_in": true}
	return c.putJSON(ctx, "/sheets/bookings/by-invite/"+url.PathEscape(inviteCode)+"/checkin", body)
}

func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: sheet service returned status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode sheet response: %w", err)
	}
	return nil
}

func (c *Client) putJSON(ctx context.Context, path string, body any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal sheet row: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("%w: sheet service returned status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}
	return nil
}
