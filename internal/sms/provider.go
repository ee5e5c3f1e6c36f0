package sms

import "context"

// Message is one outbound SMS.
type Message struct {
	From string
	To   string
	Text string
}

// Provider abstracts the messaging API so the dispatcher can run against a
// fake in tests. Send returns the provider-assigned message id.
type Provider interface {
	Name() string
	Send(ctx context.Context, msg Message) (string, error)
}
