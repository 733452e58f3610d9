package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RoutingKey is the routing key of published notifications.
const RoutingKey = "reservation.notify"

// DefaultExchange is the topic exchange notifications are published to.
const DefaultExchange = "izposoja"

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPNotifier publishes notifications as JSON to a RabbitMQ topic exchange.
type AMQPNotifier struct {
	conn     *amqp.Connection
	ch       publisher
	exchange string
}

// NewAMQP connects to the broker at url and declares exchange.
func NewAMQP(url, exchange string) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQPNotifier{conn: conn, ch: ch, exchange: exchange}, nil
}

// Notify implements Notifier.
func (n *AMQPNotifier) Notify(ctx context.Context, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return Result{}, fmt.Errorf("encoding notification: %w", err)
	}
	err = n.ch.PublishWithContext(ctx, n.exchange, RoutingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   uuid.NewString(),
		Timestamp:   time.Now(),
		Body:        body,
	})
	if err != nil {
		return Result{}, fmt.Errorf("publishing notification: %w", err)
	}
	return Result{OK: true, Message: SentMessage}, nil
}

// Close closes the channel and the connection.
func (n *AMQPNotifier) Close() error {
	if c, ok := n.ch.(*amqp.Channel); ok && c != nil {
		_ = c.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}
