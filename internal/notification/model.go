package notification

import (
	"context"
	"errors"
)

// Providers selectable through EMAIL_PROVIDER / QUEUE_DELIVERY_PROVIDER.
const (
	ProviderConsole  = "console"
	ProviderSMTP     = "smtp"
	ProviderResend   = "resend"
	ProviderKafka    = "kafka"
	ProviderRabbitMQ = "rabbitmq"
)

var ErrNotConfigured = errors.New("email provider is not configured")

// Message is a rendered email. It is also the payload carried on the invitation queue.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text,omitempty"`
	// EventID keys queue partitions so one trip's invitations stay ordered.
	EventID string `json:"event_id,omitempty"`
}

// Mailer delivers (or enqueues) one message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// MailerFunc adapts a function to Mailer.
type MailerFunc func(ctx context.Context, msg Message) error

func (f MailerFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}
