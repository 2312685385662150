package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher sends OrderPlacedEvents to a durable queue on the default
// exchange.  Each publish dials its own connection; the order path calls
// it once per committed order.
type Publisher struct {
	url   string
	queue string
	log   *zap.Logger
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url, queueName string, log *zap.Logger) *Publisher {
	return &Publisher{url: url, queue: queueName, log: log}
}

// PublishOrderPlaced publishes ev as a persistent JSON message.  Errors
// are returned, not logged; the caller decides whether they matter.
func (p *Publisher) PublishOrderPlaced(ctx context.Context, ev OrderPlacedEvent) error {
	if err := p.publish(ctx, ev); err != nil {
		return err
	}
	p.log.Debug("order event published",
		zap.Uint64("order_id", ev.OrderID), zap.String("queue", p.queue), zap.String("event_id", ev.EventID))
	return nil
}

func (p *Publisher) publish(ctx context.Context, ev OrderPlacedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := declare(ch, p.queue); err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		pub,
	); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// declare ensures the queue exists.  It is idempotent and durable so
// messages survive broker restarts.
func declare(ch *amqp.Channel, name string) error {
	if _, err := ch.QueueDeclare(
		name,  // name
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	return nil
}
