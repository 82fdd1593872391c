package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the internal tri-state of a booking's payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Valid reports whether s is one of the known payment statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return true
	}
	return false
}

// Terminal reports whether s is a terminal status. Terminal statuses are
// mutually exclusive and not reversible through UpdatePaymentStatus.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentCompleted || s == PaymentFailed
}

// Booking is the central entity: one payment attempt against an invite code.
// At most one booking per invite code may ever reach PaymentCompleted; this is
// enforced by a partial unique index in the store, not by application locks.
// swagger:model Booking
type Booking struct {
	ID              string          `json:"id"`
	ReferenceNumber string          `json:"reference_number"`
	InviteCode      string          `json:"invite_code"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	CustomerPhone   string          `json:"customer_phone"`
	TicketType      string          `json:"ticket_type"`
	TicketCount     int             `json:"ticket_count"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	EventName       string          `json:"event_name"`
	EventDate       string          `json:"event_date"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	OrderID         string          `json:"order_id"`
	PaymentID       string          `json:"payment_id"`
	CheckedIn       bool            `json:"checked_in"`
	CheckedInAt     *time.Time      `json:"checked_in_at,omitempty"`
	EmailSent       bool            `json:"email_sent"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	ExpiresAt       *time.Time      `json:"expires_at,omitempty"`
}

// Expired reports whether a pending booking has outlived its hold on the
// invite code. Terminal bookings never expire.
func (b *Booking) Expired(now time.Time) bool {
	return b.PaymentStatus == PaymentPending && b.ExpiresAt != nil && now.After(*b.ExpiresAt)
}

// BookingDraft carries the immutable customer fields for a new booking.
type BookingDraft struct {
	InviteCode    string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	TicketType    string
	TicketCount   int
	TotalAmount   decimal.Decimal
}

// GatewayIDs are the gateway correlation references recorded on a transition.
type GatewayIDs struct {
	OrderRef   string
	PaymentRef string
}

// BookingRepository defines storage operations for bookings.
type BookingRepository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	// GetByReference is case-insensitive on the reference number.
	GetByReference(ctx context.Context, ref string) (*Booking, error)
	GetByOrderID(ctx context.Context, orderID string) (*Booking, error)
	// GetCompletedByInviteCode returns the single completed booking for the
	// code, or ErrNotFound if the code is unredeemed.
	GetCompletedByInviteCode(ctx context.Context, code string) (*Booking, error)
	// UpdatePaymentStatus transitions the booking keyed by orderID. applied is
	// true only when a pending row actually moved to status; re-applying the
	// same terminal status is a no-op success with applied false. A conflicting
	// terminal status returns ErrInvalidTransition; completing a second booking
	// for an already-redeemed invite code returns ErrDuplicateRedemption.
	UpdatePaymentStatus(ctx context.Context, orderID string, status PaymentStatus, ids GatewayIDs) (b *Booking, applied bool, err error)
	MarkEmailSent(ctx context.Context, id string) error
	// MarkCheckedIn stamps the check-in exactly once; a second call returns
	// ErrAlreadyCheckedIn and leaves the original timestamp untouched.
	MarkCheckedIn(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, params PaginationParams) ([]*Booking, int, error)
}

// BookingSummary is the masked view exposed when an invite code is already
// redeemed, so front-ends can show "already booked" without leaking PII.
// swagger:model BookingSummary
type BookingSummary struct {
	ReferenceNumber string        `json:"reference_number"`
	CustomerName    string        `json:"customer_name"`
	CustomerEmail   string        `json:"customer_email"`
	TicketCount     int           `json:"ticket_count"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	CheckedIn       bool          `json:"checked_in"`
}

// BookingStatus is the public status view of a booking.
// swagger:model BookingStatus
type BookingStatus struct {
	ReferenceNumber string        `json:"reference_number"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	CheckedIn       bool          `json:"checked_in"`
	EventName       string        `json:"event_name"`
	EventDate       string        `json:"event_date"`
	Expired         bool          `json:"expired"`
}

// BookingService defines booking creation and status reads.
type BookingService interface {
	// Create validates the draft and invite code, creates a gateway order, and
	// persists a pending booking with a fresh reference number.
	Create(ctx context.Context, draft BookingDraft) (*Booking, error)
	GetStatus(ctx context.Context, reference string) (*BookingStatus, error)
	List(ctx context.Context, params PaginationParams) ([]*Booking, int, error)
}
