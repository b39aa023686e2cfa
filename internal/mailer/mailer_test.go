package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"gakkaihub/internal/models"
)

func TestNewProviderSelection(t *testing.T) {
	host := "smtp.example.org"
	port := 465

	console := NewProvider(models.MailSettings{Provider: models.MailProviderConsole})
	assert.IsType(t, &ConsoleProvider{}, console)

	smtp := NewProvider(models.MailSettings{
		Provider: models.MailProviderSMTP,
		SMTPHost: &host,
		SMTPPort: &port,
	})
	assert.IsType(t, &SMTPProvider{}, smtp)

	gmail := NewProvider(models.MailSettings{Provider: models.MailProviderGmailAPI})
	assert.IsType(t, &GmailAPIProvider{}, gmail)

	fallback := NewProvider(models.MailSettings{Provider: "carrier_pigeon"})
	assert.IsType(t, &ConsoleProvider{}, fallback)
}

func TestConsoleProviderAlwaysSucceeds(t *testing.T) {
	p := NewConsoleProvider()
	result := p.Send(context.Background(), SendInput{
		To:      "member@example.org",
		Subject: "会費請求のお知らせ",
		Text:    "本文",
	})
	assert.True(t, result.OK)
	assert.NotEmpty(t, result.ProviderMessageID)
	assert.Empty(t, result.ErrorMessage)
}

func TestSMTPProviderRequiresHost(t *testing.T) {
	p := NewSMTPProvider(SMTPConfig{Port: 587})
	result := p.Send(context.Background(), SendInput{To: "member@example.org"})
	assert.False(t, result.OK)
	assert.Equal(t, "smtp host is not configured", result.ErrorMessage)
}

func TestGmailAPIProviderIsStub(t *testing.T) {
	p := NewGmailAPIProvider("office@example.org")
	result := p.Send(context.Background(), SendInput{To: "member@example.org"})
	assert.False(t, result.OK)
	assert.Contains(t, result.ErrorMessage, "not implemented")
}

func TestSMTPPortDefault(t *testing.T) {
	assert.Equal(t, 587, smtpPort(nil))
	zero := 0
	assert.Equal(t, 587, smtpPort(&zero))
	custom := 2525
	assert.Equal(t, 2525, smtpPort(&custom))
}
