package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// KafkaMailer enqueues messages on a Kafka topic for the delivery worker.
type KafkaMailer struct {
	writer *kafka.Writer
}

func NewKafkaMailer(writer *kafka.Writer) *KafkaMailer {
	return &KafkaMailer{writer: writer}
}

func (m *KafkaMailer) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := m.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.EventID),
		Value: payload,
	}); err != nil {
		return fmt.Errorf("enqueue email: %w", err)
	}
	return nil
}

func (m *KafkaMailer) Close() error {
	return m.writer.Close()
}

// RabbitClient owns one AMQP connection and channel bound to a durable queue.
type RabbitClient struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	queue    string
	log      zerolog.Logger
}

func NewRabbitClient(url, exchange, queue string, log zerolog.Logger) (*RabbitClient, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to RabbitMQ")
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		log.Error().Err(err).Msg("failed to open RabbitMQ channel")
		return nil, err
	}

	c := &RabbitClient{conn: conn, channel: ch, exchange: exchange, queue: queue, log: log}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(queue, queue, exchange, false, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	log.Info().Str("exchange", exchange).Str("queue", queue).Msg("RabbitMQ initialized")
	return c, nil
}

func (c *RabbitClient) Close() {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func (c *RabbitClient) Publish(ctx context.Context, body []byte) error {
	return c.channel.PublishWithContext(ctx, c.exchange, c.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

// Consume calls handler for each delivery until ctx is done. Failed deliveries are
// rejected without requeue.
func (c *RabbitClient) Consume(ctx context.Context, handler func(context.Context, []byte) error) error {
	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("rabbitmq delivery channel closed")
			}
			if err := handler(ctx, d.Body); err != nil {
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// RabbitMailer enqueues messages on RabbitMQ for the delivery worker.
type RabbitMailer struct {
	client *RabbitClient
}

func NewRabbitMailer(client *RabbitClient) *RabbitMailer {
	return &RabbitMailer{client: client}
}

func (m *RabbitMailer) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := m.client.Publish(ctx, payload); err != nil {
		return fmt.Errorf("enqueue email: %w", err)
	}
	return nil
}
