package mailer

import (
	"context"
	"fmt"
	"time"

	gomail "gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host   string
	Port   int
	Secure bool
	User   string
	Pass   string
	From   string
}

// SMTPProvider delivers mail over SMTP using the owning society's
// credentials.
type SMTPProvider struct {
	config SMTPConfig
}

func NewSMTPProvider(config SMTPConfig) *SMTPProvider {
	return &SMTPProvider{config: config}
}

func (p *SMTPProvider) Send(_ context.Context, input SendInput) SendResult {
	if p.config.Host == "" {
		return SendResult{OK: false, ErrorMessage: "smtp host is not configured"}
	}
	from := p.config.From
	if from == "" {
		from = p.config.User
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", input.To)
	m.SetHeader("Subject", input.Subject)
	m.SetBody("text/plain", input.Text)

	d := gomail.NewDialer(p.config.Host, p.config.Port, p.config.User, p.config.Pass)
	d.SSL = p.config.Secure

	if err := d.DialAndSend(m); err != nil {
		return SendResult{OK: false, ErrorMessage: err.Error()}
	}
	return SendResult{
		OK:                true,
		ProviderMessageID: fmt.Sprintf("smtp-%d", time.Now().UnixNano()),
	}
}
