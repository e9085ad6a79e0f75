package notification

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Worker drains the invitation email queue and hands each message to a delivering Mailer.
type Worker struct {
	deliver Mailer
	log     zerolog.Logger

	reader *kafka.Reader
	rabbit *RabbitClient
}

func NewKafkaWorker(reader *kafka.Reader, deliver Mailer, log zerolog.Logger) *Worker {
	return &Worker{reader: reader, deliver: deliver, log: log.With().Str("worker", "email").Logger()}
}

func NewRabbitWorker(client *RabbitClient, deliver Mailer, log zerolog.Logger) *Worker {
	return &Worker{rabbit: client, deliver: deliver, log: log.With().Str("worker", "email").Logger()}
}

// Run blocks until ctx is cancelled or the queue fails.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info().Msg("email worker started")
	defer w.log.Info().Msg("email worker stopped")

	if w.rabbit != nil {
		return w.rabbit.Consume(ctx, w.handle)
	}

	for {
		m, err := w.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		if err := w.handle(ctx, m.Value); err != nil {
			w.log.Warn().Err(err).Int64("offset", m.Offset).Msg("dropping email after failed delivery")
		}
		if err := w.reader.CommitMessages(ctx, m); err != nil {
			w.log.Error().Err(err).Msg("failed to commit offset")
		}
	}
}

// handle delivers one queued message. Delivery is attempted once.
func (w *Worker) handle(ctx context.Context, body []byte) error {
	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		w.log.Error().Err(err).Str("body", string(body)).Msg("invalid queued email")
		return err
	}
	if msg.To == "" {
		return errors.New("queued email has no recipient")
	}
	if err := w.deliver.Send(ctx, msg); err != nil {
		w.log.Error().Err(err).Str("to", msg.To).Str("event_id", msg.EventID).Msg("email delivery failed")
		return err
	}
	w.log.Info().Str("to", msg.To).Str("event_id", msg.EventID).Msg("queued email delivered")
	return nil
}

func (w *Worker) Close() error {
	if w.rabbit != nil {
		w.rabbit.Close()
		return nil
	}
	return w.reader.Close()
}
