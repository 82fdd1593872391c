package domain

import "context"

// Mirror is the external, non-authoritative copy of booking data (a sheet-like
// store) kept best-effort in sync. Both operations are advisory; failures are
// logged and never roll back the primary transition.
type Mirror interface {
	UpsertBookingRow(ctx context.Context, b *Booking) error
	SetCheckedIn(ctx context.Context, inviteCode string) error
}
