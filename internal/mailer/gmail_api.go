package mailer

import (
	"context"
	"log"
)

// GmailAPIProvider is a placeholder for a future Gmail API sender.
// Expected flow: OAuth token refresh, then users.messages.send, then
// persisting provider and thread ids. Until that lands, every send
// reports a named failure rather than crashing the batch.
type GmailAPIProvider struct {
	sender string
}

func NewGmailAPIProvider(sender string) *GmailAPIProvider {
	return &GmailAPIProvider{sender: sender}
}

func (p *GmailAPIProvider) Send(_ context.Context, input SendInput) SendResult {
	log.Printf("[MAIL:GMAIL_API] stub called to=%s subject=%q", input.To, input.Subject)
	return SendResult{
		OK:           false,
		ErrorMessage: "gmail_api provider is not implemented yet; use smtp or console",
	}
}
