package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Handler processes one decoded order event.
type Handler interface {
	HandleOrderPlaced(ctx context.Context, ev OrderPlacedEvent) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, ev OrderPlacedEvent) error

func (f HandlerFunc) HandleOrderPlaced(ctx context.Context, ev OrderPlacedEvent) error {
	return f(ctx, ev)
}

// Consumer reads OrderPlacedEvents from the queue and hands each one to a
// Handler.  It makes a single connection attempt: a lost connection ends
// Run with an error and the process supervisor decides what happens next.
type Consumer struct {
	url     string
	queue   string
	handler Handler
	log     *zap.Logger
}

// NewConsumer returns a Consumer for the broker at url.
func NewConsumer(url, queueName string, h Handler, log *zap.Logger) *Consumer {
	return &Consumer{url: url, queue: queueName, handler: h, log: log}
}

// Run connects, declares the queue and consumes until ctx is cancelled or
// the delivery channel closes.  Cancellation returns nil.
func (c *Consumer) Run(ctx context.Context) error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.Warn("set QoS failed", zap.Error(err))
	}
	if err := declare(ch, c.queue); err != nil {
		return err
	}
	msgs, err := ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	c.log.Info("order consumer started", zap.String("queue", c.queue))

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("deliveries channel closed")
			}
			if err := c.handle(ctx, d.Body); err != nil {
				c.log.Error("handle order event failed", zap.Error(err))
				_ = d.Nack(false, false) // reject, do not requeue
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// handle decodes one message body and passes it to the handler.
func (c *Consumer) handle(ctx context.Context, body []byte) error {
	var ev OrderPlacedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.OrderID == 0 {
		return errors.New("event without order_id")
	}
	return c.handler.HandleOrderPlaced(ctx, ev)
}
