package domain

import (
	"context"
	"time"
)

// CheckinResult reports a successful door check-in.
// swagger:model CheckinResult
type CheckinResult struct {
	ReferenceNumber string    `json:"reference_number"`
	CustomerName    string    `json:"customer_name"`
	TicketType      string    `json:"ticket_type"`
	TicketCount     int       `json:"ticket_count"`
	CheckedInAt     time.Time `json:"checked_in_at"`
}

// CheckinService transitions a completed booking to checked-in exactly once.
type CheckinService interface {
	// CheckIn resolves the scanned code to a booking (canonical parse first,
	// raw normalized fallback) and applies the one-way transition. A booking
	// that is missing or not completed returns ErrNotEligible; a repeat scan
	// returns ErrAlreadyCheckedIn.
	CheckIn(ctx context.Context, scannedCode string) (*CheckinResult, error)
}
