package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// EmailService sends the "certificate issued" notification. In development
// (or without an API key) it logs instead of sending.
type EmailService struct {
	client    *resend.Client
	fromEmail string
	appName   string
	isDev     bool
}

func NewEmailService(apiKey, fromEmail, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		appName:   appName,
		isDev:     isDev,
	}
}

// SendIssued mails the recipient their certificate's verification link.
func (s *EmailService) SendIssued(email, name, viewURL string) error {
	subject, body := issuedEmailTemplate(name, viewURL, s.appName)

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", "certificate_issued", "to", email, "subject", subject, "url", viewURL)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{email},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(context.Background(), params)
	if err == nil {
		slog.Info("email sent", "type", "certificate_issued", "to", email)
	}
	return err
}

func issuedEmailTemplate(name, viewURL, appName string) (string, string) {
	subject := fmt.Sprintf("Your certificate from %s", appName)
	body := fmt.Sprintf(`Hi %s,

Your certificate has been issued. You can view and share it here:
%s

The QR code on the certificate links to the same page.

Best,
The %s Team`, name, viewURL, appName)

	return subject, body
}
