// Package mailer delivers outbound mail through a provider selected by
// each society's own mail settings. Providers are constructed at the point
// of use and never cached across societies, since every society carries
// independent SMTP credentials.
package mailer

import (
	"context"

	"gakkaihub/internal/common"
	"gakkaihub/internal/models"
)

// SendInput is one outbound message.
type SendInput struct {
	To      string
	Subject string
	Text    string
}

// SendResult reports one delivery attempt. Failures are data, not errors:
// the caller records them per recipient and continues.
type SendResult struct {
	OK                bool
	ProviderMessageID string
	ErrorMessage      string
}

// Provider sends a single message.
type Provider interface {
	Send(ctx context.Context, input SendInput) SendResult
}

// NewProvider builds a provider from a society's mail settings. Unknown
// provider kinds fall back to the console sink.
func NewProvider(settings models.MailSettings) Provider {
	switch settings.Provider {
	case models.MailProviderSMTP:
		return NewSMTPProvider(SMTPConfig{
			Host:   common.SafeString(settings.SMTPHost),
			Port:   smtpPort(settings.SMTPPort),
			Secure: settings.SMTPSecure,
			User:   common.SafeString(settings.SMTPUser),
			Pass:   common.SafeString(settings.SMTPPass),
			From:   common.SafeString(settings.From),
		})
	case models.MailProviderGmailAPI:
		return NewGmailAPIProvider(common.SafeString(settings.GmailSender))
	default:
		return NewConsoleProvider()
	}
}

func smtpPort(p *int) int {
	if p == nil || *p <= 0 {
		return 587
	}
	return *p
}
