package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"inviteticketing/internal/domain"
	"inviteticketing/monitoring"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const referenceMaxAttempts = 5

// BookingConfig carries the event parameters and reference-number settings
// injected at wiring time.
type BookingConfig struct {
	EventName       string
	EventDate       string
	Currency        string
	ReferencePrefix string
	// PendingTTL bounds how long a pending booking may hold an invite code
	// before status reads report it expired.
	PendingTTL time.Duration
}

type bookingService struct {
	repo    domain.BookingRepository
	roster  domain.RosterSource
	gateway domain.PaymentGateway
	logger  *slog.Logger
	cfg     BookingConfig
}

// NewBookingService creates a BookingService with the given collaborators.
func NewBookingService(repo domain.BookingRepository, roster domain.RosterSource, gateway domain.PaymentGateway, logger *slog.Logger, cfg BookingConfig) domain.BookingService {
	if cfg.ReferencePrefix == "" {
		cfg.ReferencePrefix = "DIW"
	}
	if cfg.PendingTTL == 0 {
		cfg.PendingTTL = 30 * time.Minute
	}
	return &bookingService{repo: repo, roster: roster, gateway: gateway, logger: logger, cfg: cfg}
}

func (s *bookingService) Create(ctx context.Context, draft domain.BookingDraft) (*domain.Booking, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	code := normalizeInviteCode(draft.InviteCode)
	if code == "" || len(code) > maxInviteCodeLength {
		return nil, domain.ErrInvalidCode
	}
	if _, err := s.roster.GetCodeDetails(ctx, code); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCode
		}
		return nil, fmt.Errorf("roster lookup: %w", err)
	}

	// Pre-check only. The partial unique index in the store is the authority;
	// a race past this point surfaces as ErrDuplicateRedemption at completion.
	if _, err := s.repo.GetCompletedByInviteCode(ctx, code); err == nil {
		return nil, domain.ErrDuplicateRedemption
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("redemption lookup: %w", err)
	}

	order, err := s.gateway.CreateOrder(ctx, domain.CreateOrderRequest{
		Amount:        draft.TotalAmount,
		Currency:      s.cfg.Currency,
		CustomerName:  draft.CustomerName,
		CustomerEmail: draft.CustomerEmail,
		Description:   fmt.Sprintf("%s x%d %s", s.cfg.EventName, draft.TicketCount, draft.TicketType),
	})
	if err != nil {
		return nil, fmt.Errorf("create gateway order: %w", err)
	}

	ref, err := s.freshReference(ctx)
	if err != nil {
		return nil, err
	}

	expires := time.Now().Add(s.cfg.PendingTTL)
	b := &domain.Booking{
		ReferenceNumber: ref,
		InviteCode:      code,
		CustomerName:    strings.TrimSpace(draft.CustomerName),
		CustomerEmail:   strings.TrimSpace(strings.ToLower(draft.CustomerEmail)),
		CustomerPhone:   strings.TrimSpace(draft.CustomerPhone),
		TicketType:      draft.TicketType,
		TicketCount:     draft.TicketCount,
		TotalAmount:     draft.TotalAmount,
		EventName:       s.cfg.EventName,
		EventDate:       s.cfg.EventDate,
		PaymentStatus:   domain.PaymentPending,
		OrderID:         order.OrderID,
		ExpiresAt:       &expires,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	monitoring.BookingCreated()
	s.logger.Info("booking created",
		"reference", b.ReferenceNumber,
		"invite_code", b.InviteCode,
		"order_id", b.OrderID,
	)
	return b, nil
}

func (s *bookingService) GetStatus(ctx context.Context, reference string) (*domain.BookingStatus, error) {
	b, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return &domain.BookingStatus{
		ReferenceNumber: b.ReferenceNumber,
		PaymentStatus:   b.PaymentStatus,
		CheckedIn:       b.CheckedIn,
		EventName:       b.EventName,
		EventDate:       b.EventDate,
		Expired:         b.Expired(time.Now()),
	}, nil
}

func (s *bookingService) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Booking, int, error) {
	return s.repo.List(ctx, params)
}

// freshReference generates a reference number and collision-checks it against
// the store.
func (s *bookingService) freshReference(ctx context.Context) (string, error) {
	for i := 0; i < referenceMaxAttempts; i++ {
		ref, err := generateReference(s.cfg.ReferencePrefix)
		if err != nil {
			return "", fmt.Errorf("generate reference: %w", err)
		}
		_, err = s.repo.GetByReference(ctx, ref)
		if errors.Is(err, domain.ErrNotFound) {
			return ref, nil
		}
		if err != nil {
			return "", fmt.Errorf("reference collision check: %w", err)
		}
	}
	return "", fmt.Errorf("could not find a free reference number after %d attempts", referenceMaxAttempts)
}

func validateDraft(draft domain.BookingDraft) error {
	var problems []string
	if strings.TrimSpace(draft.CustomerName) == "" {
		problems = append(problems, "customer name is required")
	}
	if !emailRegexp.MatchString(strings.TrimSpace(draft.CustomerEmail)) {
		problems = append(problems, "customer email is invalid")
	}
	if strings.TrimSpace(draft.TicketType) == "" {
		problems = append(problems, "ticket type is required")
	}
	if draft.TicketCount < 1 {
		problems = append(problems, "ticket count must be at least 1")
	}
	if !draft.TotalAmount.IsPositive() {
		problems = append(problems, "total amount must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(problems, "; "))
	}
	return nil
}
