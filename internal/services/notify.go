package services

import (
	"context"
	"fmt"

	"inviteticketing/internal/domain"
)

// ConfirmationEmailData is the template payload for the confirmation email.
type ConfirmationEmailData struct {
	CustomerName    string
	ReferenceNumber string
	EventName       string
	EventDate       string
	TicketType      string
	TicketCount     int
	TotalAmount     string
}

type notifyService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewNotifyService returns a Notifier that renders and sends the booking
// confirmation email.
func NewNotifyService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.Notifier {
	return &notifyService{mailer: mailer, renderer: renderer}
}

func (s *notifyService) SendConfirmation(ctx context.Context, b *domain.Booking) error {
	if b == nil {
		return fmt.Errorf("booking is nil")
	}
	data := &ConfirmationEmailData{
		CustomerName:    b.CustomerName,
		ReferenceNumber: b.ReferenceNumber,
		EventName:       b.EventName,
		EventDate:       b.EventDate,
		TicketType:      b.TicketType,
		TicketCount:     b.TicketCount,
		TotalAmount:     b.TotalAmount.StringFixed(2),
	}
	subject, htmlBody, textBody, err := s.renderer.Render("confirmation", data)
	if err != nil {
		return fmt.Errorf("failed to render confirmation template: %w", err)
	}
	if err := s.mailer.Send(b.CustomerEmail, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return nil
}
