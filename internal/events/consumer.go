// Package events listens for record-change notifications from the finance
// backend and drops the affected user's cached snapshot.
package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

const maxBackoff = 30 * time.Second

// Invalidator drops cached state for one user or for everyone.
type Invalidator interface {
	Invalidate(userID uuid.UUID) bool
	InvalidateAll()
}

// Consumer binds a durable queue to a direct exchange and invalidates the
// snapshot of every user named in a message.
type Consumer struct {
	url      string
	exchange string
	queue    string
	target   Invalidator
	logger   *slog.Logger

	// session and after are swapped in tests.
	session func(ctx context.Context, connected func()) error
	after   func(time.Duration) <-chan time.Time
}

func NewConsumer(url, exchange, queue string, target Invalidator, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Consumer{url: url, exchange: exchange, queue: queue, target: target, logger: logger, after: time.After}
	c.session = c.consume
	return c
}

// Run consumes until ctx is cancelled, reconnecting with exponential backoff
// when the broker goes away. It returns ctx.Err() on shutdown.
// The first retry after a session that got as far as consuming waits one
// second again.
func (c *Consumer) Run(ctx context.Context) error {
	attempt := 0
	for {
		err := c.session(ctx, func() { attempt = 0 })
		if ctx.Err() != nil {
			return ctx.Err()
		}
		wait := exponentialBackoff(attempt)
		attempt++
		c.logger.Warn("amqp consumer disconnected", "err", err, "retry_in", wait.String())
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.after(wait):
		}
	}
}

// consume runs one connection's worth of deliveries. connected is called once
// the queue is bound.
func (c *Consumer) consume(ctx context.Context, connected func()) error {
	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := c.setup(ch); err != nil {
		return fmt.Errorf("setup exchange and queue: %w", err)
	}

	msgs, err := ch.Consume(
		c.queue, // queue
		"",      // consumer
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}
	connected()
	c.logger.Info("consuming change notifications", "exchange", c.exchange, "queue", c.queue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.Handle(ctx, d)
		}
	}
}

func (c *Consumer) setup(ch *amqp091.Channel) error {
	if err := ch.ExchangeDeclare(
		c.exchange, // name
		"direct",   // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(
		c.queue, // name
		true,    // durable
		false,   // delete when unused
		false,   // exclusive
		false,   // no-wait
		nil,     // arguments
	); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	// routing key is the queue name, as with any direct binding here
	if err := ch.QueueBind(c.queue, c.queue, c.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// Handle processes one delivery. Malformed messages are rejected without
// requeue; everything else is acked after the cache entry is dropped.
func (c *Consumer) Handle(ctx context.Context, d amqp091.Delivery) {
	msg, err := DecodeChange(d.Body)
	if err != nil {
		c.logger.ErrorContext(ctx, "rejecting change message", "err", err)
		if nackErr := d.Nack(false, false); nackErr != nil {
			c.logger.ErrorContext(ctx, "nack failed", "err", nackErr)
		}
		return
	}
	if msg.Broadcast() {
		c.target.InvalidateAll()
		c.logger.InfoContext(ctx, "all snapshots invalidated by change notification")
	} else {
		dropped := c.target.Invalidate(msg.UserID)
		c.logger.InfoContext(ctx, "snapshot invalidated by change notification",
			"user_id", msg.UserID,
			"entity", msg.Entity,
			"cached", dropped,
		)
	}
	if err := d.Ack(false); err != nil {
		c.logger.ErrorContext(ctx, "ack failed", "err", err)
	}
}

// exponentialBackoff doubles from one second and caps at maxBackoff.
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 5 {
		return maxBackoff
	}
	d := time.Second << attempt
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}
