package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"inviteticketing/internal/domain"
)

const maxInviteCodeLength = 64

type inviteService struct {
	roster      domain.RosterSource
	bookingRepo domain.BookingRepository
}

// NewInviteService creates an InviteService backed by the roster source and
// the booking store.
func NewInviteService(roster domain.RosterSource, bookingRepo domain.BookingRepository) domain.InviteService {
	return &inviteService{roster: roster, bookingRepo: bookingRepo}
}

func (s *inviteService) Status(ctx context.Context, code string) (*domain.InviteStatus, error) {
	normalized := normalizeInviteCode(code)
	// Reject malformed input before any roster or store I/O.
	if normalized == "" || len(normalized) > maxInviteCodeLength {
		return nil, domain.ErrInvalidCode
	}

	details, err := s.roster.GetCodeDetails(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCode
		}
		return nil, fmt.Errorf("roster lookup: %w", err)
	}

	status := &domain.InviteStatus{
		Code:   normalized,
		Exists: true,
		Group:  details.GroupLabel,
	}

	completed, err := s.bookingRepo.GetCompletedByInviteCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return status, nil
		}
		return nil, fmt.Errorf("redemption lookup: %w", err)
	}

	status.Redeemed = true
	status.Booking = maskedSummary(completed)
	return status, nil
}

func normalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// maskedSummary exposes enough for an "already booked" screen without leaking
// full personal data.
func maskedSummary(b *domain.Booking) *domain.BookingSummary {
	return &domain.BookingSummary{
		ReferenceNumber: b.ReferenceNumber,
		CustomerName:    maskName(b.CustomerName),
		CustomerEmail:   maskEmail(b.CustomerEmail),
		TicketCount:     b.TicketCount,
		PaymentStatus:   b.PaymentStatus,
		CheckedIn:       b.CheckedIn,
	}
}

func maskName(name string) string {
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return name
	}
	return parts[0] + " " + parts[len(parts)-1][:1] + "."
}

func maskEmail(email string) string {
	at := strings.Index(email, "@")
	if at < 1 {
		return email
	}
	return email[:1] + "***" + email[at:]
}
