package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"inviteticketing/internal/domain"
	"inviteticketing/monitoring"
)

// Gateway statuses that terminate an order unsuccessfully. Anything that is
// neither PAID, ACTIVE, nor one of these is ignored on the webhook path.
var gatewayFailureStatuses = map[string]struct{}{
	"FAILED":    {},
	"EXPIRED":   {},
	"CANCELLED": {},
	"DECLINED":  {},
}

// ReconcileConfig carries reconciliation tunables.
type ReconcileConfig struct {
	// LedgerRetention bounds how long processed webhook events are kept
	// before PruneLedger removes them.
	LedgerRetention time.Duration
}

type reconcileService struct {
	bookings  domain.BookingRepository
	events    domain.WebhookEventRepository
	gateway   domain.PaymentGateway
	verifier  domain.WebhookVerifier
	notifier  domain.Notifier
	mirror    domain.Mirror
	logger    *slog.Logger
	retention time.Duration
}

// NewReconcileService creates the engine that turns gateway events and polls
// into booking-status transitions.
func NewReconcileService(
	bookings domain.BookingRepository,
	events domain.WebhookEventRepository,
	gateway domain.PaymentGateway,
	verifier domain.WebhookVerifier,
	notifier domain.Notifier,
	mirror domain.Mirror,
	logger *slog.Logger,
	cfg ReconcileConfig,
) domain.ReconcileService {
	retention := cfg.LedgerRetention
	if retention == 0 {
		retention = 30 * 24 * time.Hour
	}
	return &reconcileService{
		bookings:  bookings,
		events:    events,
		gateway:   gateway,
		verifier:  verifier,
		notifier:  notifier,
		mirror:    mirror,
		logger:    logger,
		retention: retention,
	}
}

func (s *reconcileService) HandleWebhook(ctx context.Context, delivery domain.WebhookDelivery) (*domain.ReconcileResult, error) {
	if !s.verifier.Verify(delivery.RawPayload, delivery.Signature) {
		monitoring.WebhookEvent("rejected")
		return nil, domain.ErrInvalidSignature
	}
	if delivery.EventID == "" || delivery.OrderID == "" {
		monitoring.WebhookEvent("rejected")
		return nil, fmt.Errorf("%w: event id and order id are required", domain.ErrInvalidInput)
	}

	// Fail open on ledger read errors: availability of payment confirmation
	// outranks strict duplicate suppression, and the transition below is
	// idempotent anyway.
	processed, err := s.events.Exists(ctx, delivery.EventID)
	if err != nil {
		s.logger.Warn("idempotency ledger check failed, proceeding", "event_id", delivery.EventID, "err", err)
	} else if processed {
		monitoring.WebhookEvent("duplicate")
		result := &domain.ReconcileResult{Applied: false}
		if b, err := s.bookings.GetByOrderID(ctx, delivery.OrderID); err == nil {
			result.ReferenceNumber = b.ReferenceNumber
			result.PaymentStatus = b.PaymentStatus
		}
		return result, nil
	}

	target, actionable := mapGatewayStatus(delivery.ClaimedStatus)
	if !actionable {
		s.recordEvent(ctx, delivery)
		monitoring.WebhookEvent("ignored")
		result := &domain.ReconcileResult{Applied: false}
		if b, err := s.bookings.GetByOrderID(ctx, delivery.OrderID); err == nil {
			result.ReferenceNumber = b.ReferenceNumber
			result.PaymentStatus = b.PaymentStatus
		}
		return result, nil
	}

	b, applied, err := s.bookings.UpdatePaymentStatus(ctx, delivery.OrderID, target, domain.GatewayIDs{})
	if err != nil {
		monitoring.WebhookEvent("error")
		return nil, err
	}

	// Recorded after the transition: a crash in between replays the event,
	// and the idempotent transition absorbs the replay. The reverse order
	// could silently drop a payment confirmation.
	s.recordEvent(ctx, delivery)

	if applied {
		monitoring.WebhookEvent("applied")
		monitoring.PaymentTransition(string(target))
		if target == domain.PaymentCompleted {
			s.fanOutCompleted(ctx, b)
		}
	} else {
		monitoring.WebhookEvent("duplicate")
	}

	return &domain.ReconcileResult{
		ReferenceNumber: b.ReferenceNumber,
		PaymentStatus:   b.PaymentStatus,
		Applied:         applied,
	}, nil
}

func (s *reconcileService) Poll(ctx context.Context, reference string) (*domain.ReconcileResult, error) {
	b, err := s.bookings.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if b.OrderID == "" {
		return nil, fmt.Errorf("%w: booking has no payment order", domain.ErrNotFound)
	}

	state, err := s.gateway.GetOrder(ctx, b.OrderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	var target domain.PaymentStatus
	switch state.Status {
	case domain.GatewayStatusPaid:
		target = domain.PaymentCompleted
	case domain.GatewayStatusActive:
		// Order still payable; report without mutating.
		return &domain.ReconcileResult{
			ReferenceNumber: b.ReferenceNumber,
			PaymentStatus:   b.PaymentStatus,
			Applied:         false,
		}, nil
	default:
		target = domain.PaymentFailed
	}

	ids := domain.GatewayIDs{OrderRef: state.GatewayOrderRef, PaymentRef: state.GatewayPayRef}
	updated, applied, err := s.bookings.UpdatePaymentStatus(ctx, b.OrderID, target, ids)
	if err != nil {
		return nil, err
	}
	if applied {
		monitoring.PaymentTransition(string(target))
		if target == domain.PaymentCompleted {
			s.fanOutCompleted(ctx, updated)
		}
	}
	return &domain.ReconcileResult{
		ReferenceNumber: updated.ReferenceNumber,
		PaymentStatus:   updated.PaymentStatus,
		Applied:         applied,
	}, nil
}

func (s *reconcileService) PruneLedger(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-s.retention)
	n, err := s.events.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune webhook events: %w", err)
	}
	s.logger.Info("webhook event ledger pruned", "deleted", n, "cutoff", cutoff)
	return n, nil
}

// mapGatewayStatus maps the gateway's claimed status to the internal
// tri-state. actionable is false for statuses that drive no transition.
func mapGatewayStatus(claimed string) (domain.PaymentStatus, bool) {
	if claimed == domain.GatewayStatusPaid {
		return domain.PaymentCompleted, true
	}
	if _, ok := gatewayFailureStatuses[claimed]; ok {
		return domain.PaymentFailed, true
	}
	return "", false
}

func (s *reconcileService) recordEvent(ctx context.Context, delivery domain.WebhookDelivery) {
	_, err := s.events.Record(ctx, &domain.WebhookEvent{
		ID:        delivery.EventID,
		EventType: delivery.EventType,
		OrderID:   delivery.OrderID,
		Signature: delivery.Signature,
		Payload:   delivery.RawPayload,
	})
	if err != nil {
		// At-least-once is acceptable: an unrecorded event replays and the
		// idempotent transition absorbs it.
		s.logger.Warn("failed to record webhook event", "event_id", delivery.EventID, "err", err)
	}
}

// fanOutCompleted runs the advisory side effects of the first transition to
// completed. Failures are logged and counted, never rolled back, and never
// fail the primary operation.
func (s *reconcileService) fanOutCompleted(ctx context.Context, b *domain.Booking) {
	if err := s.notifier.SendConfirmation(ctx, b); err != nil {
		monitoring.FanoutFailure("notifier")
		s.logger.Error("confirmation email failed", "reference", b.ReferenceNumber, "err", err)
	} else if err := s.bookings.MarkEmailSent(ctx, b.ID); err != nil {
		s.logger.Warn("could not mark email sent", "reference", b.ReferenceNumber, "err", err)
	}

	if err := s.mirror.UpsertBookingRow(ctx, b); err != nil {
		monitoring.FanoutFailure("mirror")
		s.logger.Error("mirror upsert failed", "reference", b.ReferenceNumber, "err", err)
	}
}
