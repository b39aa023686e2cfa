package mailer

import (
	"context"
	"fmt"
	"log"
	"time"
)

// ConsoleProvider logs messages instead of delivering them. It is the
// development default and always reports success.
type ConsoleProvider struct{}

func NewConsoleProvider() *ConsoleProvider {
	return &ConsoleProvider{}
}

func (p *ConsoleProvider) Send(_ context.Context, input SendInput) SendResult {
	log.Printf("[MAIL:CONSOLE] to=%s subject=%q body=%q", input.To, input.Subject, input.Text)
	return SendResult{
		OK:                true,
		ProviderMessageID: fmt.Sprintf("console-%d", time.Now().UnixNano()),
	}
}
