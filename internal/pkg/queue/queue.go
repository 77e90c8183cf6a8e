// Package queue provides the RabbitMQ transport between the poller and
// the worker: a durable queue of raw update batches with manual
// acknowledgement on the consuming side.
package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"vk-blackjack-bot/internal/config"
)

// ErrClosed is returned by operations on a closed client.
var ErrClosed = errors.New("queue client is closed")

// Client is a reconnecting RabbitMQ connection bound to one durable
// queue. Safe for concurrent use.
type Client struct {
	cfg config.RabbitConfig

	mu     sync.Mutex
	conn   *amqp.Connection
	ch     *amqp.Channel
	closed bool
}

// Connect dials RabbitMQ and declares the configured durable queue.
func Connect(cfg config.RabbitConfig) (*Client, error) {
	c := &Client{cfg: cfg}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureChannel(); err != nil {
		return nil, err
	}

	log.Info().
		Str("host", cfg.Host).
		Str("queue", cfg.Queue).
		Msg("Connected to RabbitMQ")
	return c, nil
}

// ensureChannel (re)establishes the connection, channel and queue.
// Callers must hold c.mu.
func (c *Client) ensureChannel() error {
	if c.closed {
		return ErrClosed
	}
	if c.ch != nil && !c.ch.IsClosed() {
		return nil
	}

	conn, err := amqp.Dial(c.cfg.URL())
	if err != nil {
		return fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, nil); err != nil {
		conn.Close()
		return fmt.Errorf("failed to declare queue %s: %w", c.cfg.Queue, err)
	}

	if c.conn != nil {
		c.conn.Close()
	}
	c.conn, c.ch = conn, ch
	return nil
}

// Publish enqueues one message with persistent delivery. A broken
// connection is re-established once before giving up.
func (c *Client) Publish(ctx context.Context, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureChannel(); err != nil {
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	}

	err := c.ch.PublishWithContext(ctx, "", c.cfg.Queue, false, false, msg)
	if err == nil {
		return nil
	}

	// one reconnect attempt for a stale channel
	c.ch = nil
	if rerr := c.ensureChannel(); rerr != nil {
		return fmt.Errorf("failed to publish: %w", err)
	}
	if err := c.ch.PublishWithContext(ctx, "", c.cfg.Queue, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish: %w", err)
	}
	return nil
}

// Consume opens a manual-ack delivery stream with the configured
// prefetch. The returned channel closes when the connection drops;
// the caller re-calls Consume to resume.
func (c *Client) Consume() (<-chan amqp.Delivery, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureChannel(); err != nil {
		return nil, err
	}

	prefetch := c.cfg.Capacity
	if prefetch < 1 {
		prefetch = 1
	}
	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set prefetch: %w", err)
	}

	deliveries, err := c.ch.Consume(c.cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}
	return deliveries, nil
}

// ReconnectTimeout returns the configured pause between reconnect
// attempts.
func (c *Client) ReconnectTimeout() time.Duration {
	if c.cfg.ReconnectTimeout <= 0 {
		return 5 * time.Second
	}
	return c.cfg.ReconnectTimeout
}

// Close shuts the connection down. Further operations fail with
// ErrClosed.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	if c.ch != nil {
		c.ch.Close()
	}
	if c.conn != nil {
		c.conn.Close()
		log.Info().Msg("RabbitMQ connection closed")
	}
}
