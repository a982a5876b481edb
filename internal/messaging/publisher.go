package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"restaurant-ordering/internal/logger"
	"restaurant-ordering/internal/models"
)

const publishTimeout = 10 * time.Second

// Publisher handles message publishing to RabbitMQ
type Publisher struct {
	conn   *Connection
	logger *logger.Logger
}

// NewPublisher creates a new message publisher
func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: log,
	}
}

// PublishOrderEvent fans an order event out to every notification subscriber.
func (p *Publisher) PublishOrderEvent(ctx context.Context, event *models.OrderEvent) error {
	if p.conn.IsClosed() {
		if err := p.conn.Reconnect(ctx); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	publishing, err := encodeEvent(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.conn.Channel().PublishWithContext(
		ctx,
		ExchangeNotifications, // exchange
		string(event.Kind),    // routing key
		false,                 // mandatory
		false,                 // immediate
		publishing,
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s event for order %d: %w", event.Kind, event.OrderID, err)
	}

	p.logger.Debug("message_published",
		fmt.Sprintf("Published message to exchange %s", ExchangeNotifications),
		"", map[string]interface{}{
			"exchange":     ExchangeNotifications,
			"kind":         string(event.Kind),
			"order_id":     event.OrderID,
			"message_size": len(publishing.Body),
		})
	return nil
}

// encodeEvent builds the persistent JSON publishing for an event.
func encodeEvent(event *models.OrderEvent) (amqp091.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp091.Publishing{}, fmt.Errorf("failed to marshal message: %w", err)
	}
	return amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    event.Timestamp,
		Type:         string(event.Kind),
	}, nil
}

// Close closes the publisher
func (p *Publisher) Close() error {
	return p.conn.Close()
}

// NopPublisher drops every event. It stands in when RabbitMQ is disabled.
type NopPublisher struct {
	Logger *logger.Logger
}

func (n NopPublisher) PublishOrderEvent(ctx context.Context, event *models.OrderEvent) error {
	if n.Logger != nil {
		n.Logger.Debug("event_dropped", "RabbitMQ disabled, order event not published", "", map[string]interface{}{
			"kind":     string(event.Kind),
			"order_id": event.OrderID,
		})
	}
	return nil
}

func (n NopPublisher) Close() error { return nil }
