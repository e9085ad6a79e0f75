package notification

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sharath018/golftrip-backend/config"
	"github.com/sharath018/golftrip-backend/utils"
)

// NewMailer builds the mailer named by EMAIL_PROVIDER. The returned func releases
// queue connections and is never nil.
func NewMailer(cfg *config.Config, log zerolog.Logger) (Mailer, func(), error) {
	noop := func() {}
	provider := strings.ToLower(strings.TrimSpace(cfg.EmailProvider))

	switch provider {
	case ProviderKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, noop, fmt.Errorf("%w: KAFKA_BROKERS is required", ErrNotConfigured)
		}
		m := NewKafkaMailer(utils.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaInvitationTopic))
		return m, func() { _ = m.Close() }, nil
	case ProviderRabbitMQ:
		if cfg.RabbitMQURL == "" {
			return nil, noop, fmt.Errorf("%w: RABBITMQ_URL is required", ErrNotConfigured)
		}
		client, err := NewRabbitClient(cfg.RabbitMQURL, cfg.RabbitMQExchange, cfg.RabbitMQQueue, log)
		if err != nil {
			return nil, noop, err
		}
		return NewRabbitMailer(client), client.Close, nil
	default:
		m, err := NewDeliveryMailer(provider, cfg, log)
		return m, noop, err
	}
}

// NewDeliveryMailer builds a mailer that actually delivers: console, smtp or resend.
func NewDeliveryMailer(provider string, cfg *config.Config, log zerolog.Logger) (Mailer, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", ProviderConsole:
		return NewConsoleMailer(log), nil
	case ProviderSMTP:
		return NewSMTPMailer(cfg, log)
	case ProviderResend:
		return NewResendMailer(cfg, log)
	default:
		return nil, fmt.Errorf("unknown email provider %q", provider)
	}
}

// NewWorker returns the queue worker for a kafka or rabbitmq EMAIL_PROVIDER, or nil
// when messages are delivered inline.
func NewWorker(cfg *config.Config, log zerolog.Logger) (*Worker, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.EmailProvider))
	if provider != ProviderKafka && provider != ProviderRabbitMQ {
		return nil, nil
	}

	deliver, err := NewDeliveryMailer(cfg.QueueDeliveryProvider, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("queue delivery mailer: %w", err)
	}

	if provider == ProviderKafka {
		reader := utils.NewKafkaReader(cfg.KafkaBrokers, cfg.KafkaInvitationTopic, cfg.KafkaConsumerGroup)
		return NewKafkaWorker(reader, deliver, log), nil
	}
	client, err := NewRabbitClient(cfg.RabbitMQURL, cfg.RabbitMQExchange, cfg.RabbitMQQueue, log)
	if err != nil {
		return nil, err
	}
	return NewRabbitWorker(client, deliver, log), nil
}
