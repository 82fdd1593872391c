package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"inviteticketing/internal/domain"
	"inviteticketing/monitoring"
)

type checkinService struct {
	repo      domain.BookingRepository
	mirror    domain.Mirror
	logger    *slog.Logger
	scanToken string
}

// NewCheckinService creates the door check-in service. scanToken is the fixed
// token embedded in printed/scanned ticket codes; see ParseReference.
func NewCheckinService(repo domain.BookingRepository, mirror domain.Mirror, logger *slog.Logger, scanToken string) domain.CheckinService {
	return &checkinService{repo: repo, mirror: mirror, logger: logger, scanToken: scanToken}
}

func (s *checkinService) CheckIn(ctx context.Context, scannedCode string) (*domain.CheckinResult, error) {
	b, err := s.lookup(ctx, scannedCode)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			monitoring.Checkin("ineligible")
			return nil, fmt.Errorf("%w: booking not found", domain.ErrNotEligible)
		}
		return nil, err
	}

	if b.PaymentStatus != domain.PaymentCompleted {
		monitoring.Checkin("ineligible")
		return nil, fmt.Errorf("%w: payment status is %s", domain.ErrNotEligible, b.PaymentStatus)
	}
	if b.CheckedIn {
		monitoring.Checkin("already")
		return nil, domain.ErrAlreadyCheckedIn
	}

	at := time.Now().UTC()
	// The guarded update is the race backstop: a concurrent duplicate scan
	// loses here even if both passed the checks above.
	if err := s.repo.MarkCheckedIn(ctx, b.ID, at); err != nil {
		if errors.Is(err, domain.ErrAlreadyCheckedIn) {
			monitoring.Checkin("already")
		}
		return nil, err
	}

	monitoring.Checkin("ok")
	s.logger.Info("booking checked in", "reference", b.ReferenceNumber)

	if err := s.mirror.SetCheckedIn(ctx, b.InviteCode); err != nil {
		monitoring.FanoutFailure("mirror")
		s.logger.Error("mirror check-in update failed", "reference", b.ReferenceNumber, "err", err)
	}

	return &domain.CheckinResult{
		ReferenceNumber: b.ReferenceNumber,
		CustomerName:    b.CustomerName,
		TicketType:      b.TicketType,
		TicketCount:     b.TicketCount,
		CheckedInAt:     at,
	}, nil
}

// lookup resolves a scanned code: canonical parse first, then the raw
// normalized input as a fallback candidate.
func (s *checkinService) lookup(ctx context.Context, scannedCode string) (*domain.Booking, error) {
	candidate := ParseReference(scannedCode, s.scanToken)
	if candidate == "" {
		return nil, domain.ErrNotFound
	}

	b, err := s.repo.GetByReference(ctx, candidate)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get booking: %w", err)
	}

	raw := strings.ToUpper(strings.TrimSpace(scannedCode))
	if raw == candidate || raw == "" {
		return nil, domain.ErrNotFound
	}
	b, err = s.repo.GetByReference(ctx, raw)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}
