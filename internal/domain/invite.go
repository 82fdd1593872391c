package domain

import "context"

// InviteCode is a pre-issued token gating eligibility to book. The roster is
// maintained externally; this core only reads it.
type InviteCode struct {
	Code       string `json:"code"`
	GroupLabel string `json:"group_label"`
	Slots      int    `json:"slots"`
}

// RosterSource reads the external roster of issued invite codes.
type RosterSource interface {
	ListValidCodes(ctx context.Context) ([]InviteCode, error)
	GetCodeDetails(ctx context.Context, code string) (*InviteCode, error)
}

// InviteStatus is the result of validating a submitted invite code.
// swagger:model InviteStatus
type InviteStatus struct {
	Code     string          `json:"code"`
	Exists   bool            `json:"exists"`
	Redeemed bool            `json:"redeemed"`
	Group    string          `json:"group,omitempty"`
	Booking  *BookingSummary `json:"booking,omitempty"`
}

// InviteService validates invite codes against the roster and the booking store.
type InviteService interface {
	// Status normalizes the code, then checks roster membership and existing
	// redemption. Unknown or malformed codes return ErrInvalidCode.
	Status(ctx context.Context, code string) (*InviteStatus, error)
}
