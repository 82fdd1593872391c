package domain

import "context"

// Mailer sends an email. Implementations live in adapters (SES, noop).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders a named template into subject, html, and text bodies.
type EmailTemplateRenderer interface {
	Render(templateName string, data interface{}) (subject, htmlBody, textBody string, err error)
}

// Notifier delivers the booking confirmation. It is advisory: a failure is
// logged and counted by the caller, never retried inline and never allowed to
// fail the payment transition that already committed.
type Notifier interface {
	SendConfirmation(ctx context.Context, b *Booking) error
}
