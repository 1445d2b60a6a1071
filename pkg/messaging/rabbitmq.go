package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/attendly/attendly-backend/pkg/config"
	"github.com/attendly/attendly-backend/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrClosed is returned by Publish after Close
var ErrClosed = errors.New("rabbitmq connection closed")

// RabbitMQ is a publish-only broker connection. Its channel runs in confirm
// mode so Publish returns only once the broker has taken the message.
// Exchanges declared through it are declared again after a reconnect.
type RabbitMQ struct {
	config *config.RabbitMQConfig
	logger *logger.Logger

	mu        sync.Mutex
	conn      *amqp.Connection
	channel   *amqp.Channel
	exchanges []string
	closed    bool
}

// New dials the broker
func New(cfg *config.RabbitMQConfig, log *logger.Logger) (*RabbitMQ, error) {
	r := &RabbitMQ{
		config: cfg,
		logger: log.WithComponent("rabbitmq"),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.dial(); err != nil {
		return nil, err
	}

	return r, nil
}

// dial opens a connection and a confirm channel. Callers hold mu.
func (r *RabbitMQ) dial() error {
	conn, err := amqp.Dial(r.config.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.Confirm(false); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	for _, name := range r.exchanges {
		if err := declareTopic(channel, name); err != nil {
			conn.Close()
			return err
		}
	}

	r.conn = conn
	r.channel = channel

	r.logger.Info().Strs("exchanges", r.exchanges).Msg("connected to RabbitMQ")
	return nil
}

func declareTopic(channel *amqp.Channel, name string) error {
	err := channel.ExchangeDeclare(
		name,    // name
		"topic", // type
		true,    // durable
		false,   // auto-deleted
		false,   // internal
		false,   // no-wait
		nil,     // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", name, err)
	}
	return nil
}

// DeclareExchange declares a durable topic exchange and remembers it for
// reconnects
func (r *RabbitMQ) DeclareExchange(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := declareTopic(r.channel, name); err != nil {
		return err
	}
	for _, known := range r.exchanges {
		if known == name {
			return nil
		}
	}
	r.exchanges = append(r.exchanges, name)
	return nil
}

// Publish sends msg and waits for the broker's confirmation. A closed
// channel is re-dialed first.
func (r *RabbitMQ) Publish(ctx context.Context, exchange, routingKey string, msg amqp.Publishing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if r.channel == nil || r.channel.IsClosed() {
		if err := r.reconnect(ctx); err != nil {
			return err
		}
	}

	confirm, err := r.channel.PublishWithDeferredConfirmWithContext(ctx,
		exchange,   // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", exchange, err)
	}

	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("no confirmation for message %s: %w", msg.MessageId, err)
	}
	if !acked {
		return fmt.Errorf("broker rejected message %s", msg.MessageId)
	}
	return nil
}

// reconnect retries dial up to MaxRetries times. Callers hold mu.
func (r *RabbitMQ) reconnect(ctx context.Context) error {
	if r.conn != nil && !r.conn.IsClosed() {
		r.conn.Close()
	}

	for attempt := 1; attempt <= r.config.MaxRetries; attempt++ {
		r.logger.Info().Int("attempt", attempt).Msg("reconnecting to RabbitMQ")

		err := r.dial()
		if err == nil {
			return nil
		}
		r.logger.Warn().Err(err).Int("attempt", attempt).Msg("reconnection attempt failed")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.config.ReconnectDelay):
		}
	}

	return fmt.Errorf("failed to reconnect after %d attempts", r.config.MaxRetries)
}

// Health reports whether the connection and channel are open
func (r *RabbitMQ) Health() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case r.conn == nil || r.conn.IsClosed():
		return map[string]string{"status": "down", "error": "connection closed"}
	case r.channel == nil || r.channel.IsClosed():
		return map[string]string{"status": "degraded", "error": "channel closed"}
	}
	return map[string]string{"status": "up"}
}

// Close closes the channel and connection. Later publishes fail with ErrClosed.
func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	if r.channel != nil && !r.channel.IsClosed() {
		if err := r.channel.Close(); err != nil {
			r.logger.Warn().Err(err).Msg("failed to close channel")
		}
	}
	if r.conn != nil && !r.conn.IsClosed() {
		if err := r.conn.Close(); err != nil {
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}

	r.logger.Info().Msg("RabbitMQ connection closed")
	return nil
}
