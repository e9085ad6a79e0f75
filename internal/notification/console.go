package notification

import (
	"context"

	"github.com/rs/zerolog"
)

// ConsoleMailer logs messages instead of sending them. It is the development default.
type ConsoleMailer struct {
	log zerolog.Logger
}

func NewConsoleMailer(log zerolog.Logger) *ConsoleMailer {
	return &ConsoleMailer{log: log.With().Str("mailer", ProviderConsole).Logger()}
}

func (m *ConsoleMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("event_id", msg.EventID).
		Str("text", msg.Text).
		Msg("email (console delivery)")
	return nil
}
