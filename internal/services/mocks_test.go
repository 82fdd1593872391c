package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"inviteticketing/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// mockBookingRepo is an in-memory BookingRepository that mirrors the store's
// transition and uniqueness rules so service tests can exercise races and
// idempotence without a database.
type mockBookingRepo struct {
	bookings []*domain.Booking
	err      error
}

func (m *mockBookingRepo) find(pred func(*domain.Booking) bool) *domain.Booking {
	for _, b := range m.bookings {
		if pred(b) {
			return b
		}
	}
	return nil
}

func (m *mockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	if m.err != nil {
		return m.err
	}
	b.ID = fmt.Sprintf("bk-%d", len(m.bookings)+1)
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	m.bookings = append(m.bookings, b)
	return nil
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	if m.err != nil {
		return nil, m.err
	}
	if b := m.find(func(b *domain.Booking) bool { return b.ID == id }); b != nil {
		return b, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockBookingRepo) GetByReference(ctx context.Context, ref string) (*domain.Booking, error) {
	if m.err != nil {
		return nil, m.err
	}
	if b := m.find(func(b *domain.Booking) bool { return strings.EqualFold(b.ReferenceNumber, ref) }); b != nil {
		return b, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockBookingRepo) GetByOrderID(ctx context.Context, orderID string) (*domain.Booking, error) {
	if m.err != nil {
		return nil, m.err
	}
	if b := m.find(func(b *domain.Booking) bool { return b.OrderID == orderID }); b != nil {
		return b, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockBookingRepo) GetCompletedByInviteCode(ctx context.Context, code string) (*domain.Booking, error) {
	if m.err != nil {
		return nil, m.err
	}
	b := m.find(func(b *domain.Booking) bool {
		return b.InviteCode == code && b.PaymentStatus == domain.PaymentCompleted
	})
	if b != nil {
		return b, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockBookingRepo) UpdatePaymentStatus(ctx context.Context, orderID string, status domain.PaymentStatus, ids domain.GatewayIDs) (*domain.Booking, bool, error) {
	if m.err != nil {
		return nil, false, m.err
	}
	b := m.find(func(b *domain.Booking) bool { return b.OrderID == orderID })
	if b == nil {
		return nil, false, domain.ErrNotFound
	}
	if b.PaymentStatus == domain.PaymentPending {
		if status == domain.PaymentCompleted {
			sibling := m.find(func(o *domain.Booking) bool {
				return o != b && o.InviteCode == b.InviteCode && o.PaymentStatus == domain.PaymentCompleted
			})
			if sibling != nil {
				return nil, false, domain.ErrDuplicateRedemption
			}
		}
		b.PaymentStatus = status
		if ids.PaymentRef != "" {
			b.PaymentID = ids.PaymentRef
		}
		b.UpdatedAt = time.Now()
		return b, true, nil
	}
	if b.PaymentStatus == status {
		return b, false, nil
	}
	return nil, false, domain.ErrInvalidTransition
}

func (m *mockBookingRepo) MarkEmailSent(ctx context.Context, id string) error {
	if b := m.find(func(b *domain.Booking) bool { return b.ID == id }); b != nil {
		b.EmailSent = true
		return nil
	}
	return domain.ErrNotFound
}

func (m *mockBookingRepo) MarkCheckedIn(ctx context.Context, id string, at time.Time) error {
	b := m.find(func(b *domain.Booking) bool { return b.ID == id })
	if b == nil {
		return domain.ErrNotFound
	}
	if b.CheckedIn {
		return domain.ErrAlreadyCheckedIn
	}
	if b.PaymentStatus != domain.PaymentCompleted {
		return domain.ErrNotEligible
	}
	b.CheckedIn = true
	b.CheckedInAt = &at
	return nil
}

func (m *mockBookingRepo) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Booking, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.bookings, len(m.bookings), nil
}

type mockEventRepo struct {
	events    map[string]*domain.WebhookEvent
	existsErr error
	recordErr error
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: map[string]*domain.WebhookEvent{}}
}

func (m *mockEventRepo) Exists(ctx context.Context, eventID string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.events[eventID]
	return ok, nil
}

func (m *mockEventRepo) Record(ctx context.Context, ev *domain.WebhookEvent) (bool, error) {
	if m.recordErr != nil {
		return false, m.recordErr
	}
	if _, ok := m.events[ev.ID]; ok {
		return false, nil
	}
	m.events[ev.ID] = ev
	return true, nil
}

func (m *mockEventRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	n := int64(len(m.events))
	m.events = map[string]*domain.WebhookEvent{}
	return n, nil
}

type mockGateway struct {
	nextOrderID string
	createErr   error
	state       *domain.GatewayOrderState
	getErr      error
}

func (m *mockGateway) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.GatewayOrder, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &domain.GatewayOrder{OrderID: m.nextOrderID}, nil
}

func (m *mockGateway) GetOrder(ctx context.Context, orderID string) (*domain.GatewayOrderState, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.state, nil
}

type mockVerifier struct {
	ok bool
}

func (m *mockVerifier) Verify(payload []byte, signature string) bool { return m.ok }

type mockNotifier struct {
	calls int
	err   error
}

func (m *mockNotifier) SendConfirmation(ctx context.Context, b *domain.Booking) error {
	m.calls++
	return m.err
}

type mockMirror struct {
	upserts  int
	checkins int
	err      error
}

func (m *mockMirror) UpsertBookingRow(ctx context.Context, b *domain.Booking) error {
	m.upserts++
	return m.err
}

func (m *mockMirror) SetCheckedIn(ctx context.Context, inviteCode string) error {
	m.checkins++
	return m.err
}

type mockRoster struct {
	codes map[string]domain.InviteCode
	err   error
}

func (m *mockRoster) ListValidCodes(ctx context.Context) ([]domain.InviteCode, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.InviteCode, 0, len(m.codes))
	for _, c := range m.codes {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockRoster) GetCodeDetails(ctx context.Context, code string) (*domain.InviteCode, error) {
	if m.err != nil {
		return nil, m.err
	}
	if c, ok := m.codes[code]; ok {
		return &c, nil
	}
	return nil, domain.ErrNotFound
}
