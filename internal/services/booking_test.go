package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"inviteticketing/internal/domain"
)

func validDraft() domain.BookingDraft {
	return domain.BookingDraft{
		InviteCode:    "abc123",
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "Ada@Example.com",
		CustomerPhone: "+49 170 0000000",
		TicketType:    "standard",
		TicketCount:   2,
		TotalAmount:   decimal.NewFromInt(90),
	}
}

func newBookingService(repo *mockBookingRepo, roster *mockRoster, gw *mockGateway) domain.BookingService {
	return NewBookingService(repo, roster, gw, testLogger(), BookingConfig{
		EventName: "Winter Gala",
		EventDate: "2026-12-12",
		Currency:  "EUR",
	})
}

func TestBookingCreate(t *testing.T) {
	repo := &mockBookingRepo{}
	roster := &mockRoster{codes: map[string]domain.InviteCode{"ABC123": {Code: "ABC123"}}}
	gw := &mockGateway{nextOrderID: "ord-1"}
	svc := newBookingService(repo, roster, gw)

	b, err := svc.Create(context.Background(), validDraft())
	require.NoError(t, err)
	require.Equal(t, domain.PaymentPending, b.PaymentStatus)
	require.Equal(t, "ABC123", b.InviteCode)
	require.Equal(t, "ord-1", b.OrderID)
	require.Equal(t, "ada@example.com", b.CustomerEmail)
	require.Equal(t, "Winter Gala", b.EventName)
	require.True(t, strings.HasPrefix(b.ReferenceNumber, "DIW"))
	require.Len(t, b.ReferenceNumber, 3+referenceDigits)
	require.NotNil(t, b.ExpiresAt)
	require.True(t, b.ExpiresAt.After(time.Now()))
	require.Len(t, repo.bookings, 1)
}

func TestBookingCreate_InvalidDraft(t *testing.T) {
	svc := newBookingService(&mockBookingRepo{}, &mockRoster{}, &mockGateway{})

	draft := validDraft()
	draft.CustomerEmail = "not-an-email"
	draft.TicketCount = 0
	_, err := svc.Create(context.Background(), draft)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	draft = validDraft()
	draft.TotalAmount = decimal.Zero
	_, err = svc.Create(context.Background(), draft)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBookingCreate_UnknownInviteCode(t *testing.T) {
	svc := newBookingService(&mockBookingRepo{}, &mockRoster{codes: map[string]domain.InviteCode{}}, &mockGateway{})

	_, err := svc.Create(context.Background(), validDraft())
	require.ErrorIs(t, err, domain.ErrInvalidCode)
}

func TestBookingCreate_CodeAlreadyRedeemed(t *testing.T) {
	repo := &mockBookingRepo{bookings: []*domain.Booking{{
		ID:            "bk-1",
		InviteCode:    "ABC123",
		PaymentStatus: domain.PaymentCompleted,
	}}}
	roster := &mockRoster{codes: map[string]domain.InviteCode{"ABC123": {Code: "ABC123"}}}
	gw := &mockGateway{createErr: errors.New("gateway must not be reached")}
	svc := newBookingService(repo, roster, gw)

	_, err := svc.Create(context.Background(), validDraft())
	require.ErrorIs(t, err, domain.ErrDuplicateRedemption)
}

func TestBookingCreate_PendingSiblingDoesNotBlock(t *testing.T) {
	// A pending booking holds no redemption; only a completed one blocks.
	repo := &mockBookingRepo{bookings: []*domain.Booking{{
		ID:              "bk-1",
		ReferenceNumber: "DIW999999",
		InviteCode:      "ABC123",
		PaymentStatus:   domain.PaymentPending,
	}}}
	roster := &mockRoster{codes: map[string]domain.InviteCode{"ABC123": {Code: "ABC123"}}}
	svc := newBookingService(repo, roster, &mockGateway{nextOrderID: "ord-2"})

	b, err := svc.Create(context.Background(), validDraft())
	require.NoError(t, err)
	require.Equal(t, domain.PaymentPending, b.PaymentStatus)
	require.Len(t, repo.bookings, 2)
}

func TestBookingCreate_GatewayDown(t *testing.T) {
	roster := &mockRoster{codes: map[string]domain.InviteCode{"ABC123": {Code: "ABC123"}}}
	gw := &mockGateway{createErr: domain.ErrUpstreamUnavailable}
	svc := newBookingService(&mockBookingRepo{}, roster, gw)

	_, err := svc.Create(context.Background(), validDraft())
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestBookingGetStatus(t *testing.T) {
	past := time.Now().Add(-time.Minute)
	repo := &mockBookingRepo{bookings: []*domain.Booking{{
		ID:              "bk-1",
		ReferenceNumber: "DIW123456",
		PaymentStatus:   domain.PaymentPending,
		EventName:       "Winter Gala",
		ExpiresAt:       &past,
	}}}
	svc := newBookingService(repo, &mockRoster{}, &mockGateway{})

	status, err := svc.GetStatus(context.Background(), "diw123456")
	require.NoError(t, err)
	require.Equal(t, "DIW123456", status.ReferenceNumber)
	require.Equal(t, domain.PaymentPending, status.PaymentStatus)
	require.True(t, status.Expired)

	_, err = svc.GetStatus(context.Background(), "DIW000000")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
