package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"inviteticketing/internal/domain"
)

type stubRenderer struct {
	name string
	data interface{}
	err  error
}

func (s *stubRenderer) Render(templateName string, data interface{}) (string, string, string, error) {
	s.name = templateName
	s.data = data
	return "Your tickets", "<p>hi</p>", "hi", s.err
}

type stubMailer struct {
	to      string
	subject string
	err     error
}

func (s *stubMailer) Send(to, subject, html, text string) error {
	s.to = to
	s.subject = subject
	return s.err
}

func TestSendConfirmation(t *testing.T) {
	renderer := &stubRenderer{}
	mailer := &stubMailer{}
	svc := NewNotifyService(mailer, renderer)

	b := &domain.Booking{
		ReferenceNumber: "DIW123456",
		CustomerName:    "Ada Lovelace",
		CustomerEmail:   "ada@example.com",
		TicketType:      "standard",
		TicketCount:     2,
		TotalAmount:     decimal.NewFromInt(90),
		EventName:       "Winter Gala",
		EventDate:       "2026-12-12",
	}
	require.NoError(t, svc.SendConfirmation(context.Background(), b))
	require.Equal(t, "confirmation", renderer.name)
	require.Equal(t, "ada@example.com", mailer.to)
	require.Equal(t, "Your tickets", mailer.subject)

	data, ok := renderer.data.(*ConfirmationEmailData)
	require.True(t, ok)
	require.Equal(t, "DIW123456", data.ReferenceNumber)
	require.Equal(t, "90.00", data.TotalAmount)
}

func TestSendConfirmation_RenderError(t *testing.T) {
	svc := NewNotifyService(&stubMailer{}, &stubRenderer{err: errors.New("no such template")})

	err := svc.SendConfirmation(context.Background(), &domain.Booking{CustomerEmail: "ada@example.com"})
	require.Error(t, err)
}

func TestSendConfirmation_SendError(t *testing.T) {
	svc := NewNotifyService(&stubMailer{err: errors.New("ses throttled")}, &stubRenderer{})

	err := svc.SendConfirmation(context.Background(), &domain.Booking{CustomerEmail: "ada@example.com"})
	require.Error(t, err)
}
