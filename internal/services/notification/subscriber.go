package notification

import (
	"context"
	"fmt"
	"io"
	"strings"

	"restaurant-ordering/internal/logger"
	"restaurant-ordering/internal/messaging"
	"restaurant-ordering/internal/models"
)

const timestampLayout = "2006-01-02 15:04:05"

// EventSource delivers raw event bodies until ctx is cancelled
type EventSource interface {
	StartConsuming(ctx context.Context, handler messaging.MessageHandler) error
	Close() error
}

// Broadcaster forwards events to live clients
type Broadcaster interface {
	BroadcastEvent(ctx context.Context, event *models.OrderEvent)
}

// Subscriber prints order events and forwards them to websocket clients
type Subscriber struct {
	source      EventSource
	broadcaster Broadcaster
	out         io.Writer
	logger      *logger.Logger
}

// NewSubscriber creates a new notification subscriber. broadcaster may be nil.
func NewSubscriber(source EventSource, broadcaster Broadcaster, out io.Writer, log *logger.Logger) *Subscriber {
	return &Subscriber{
		source:      source,
		broadcaster: broadcaster,
		out:         out,
		logger:      log,
	}
}

// Start consumes events until ctx is cancelled or the consumer gives up.
func (s *Subscriber) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()
	s.logger.Info("service_started", "Notification subscriber started", requestID, nil)

	err := s.source.StartConsuming(ctx, s.handleNotification)

	s.logger.Info("graceful_shutdown", "Stopping notification subscriber", requestID, nil)
	if closeErr := s.source.Close(); closeErr != nil {
		s.logger.Error("consumer_close_failed", "Failed to close consumer", requestID, closeErr, nil)
	}
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// handleNotification processes one order event
func (s *Subscriber) handleNotification(ctx context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	var event models.OrderEvent
	if err := messaging.ParseMessage(body, &event); err != nil {
		s.logger.Error("message_parsing_failed", "Failed to parse notification message", requestID, err, nil)
		return err
	}

	if _, err := fmt.Fprintln(s.out, formatNotification(&event)); err != nil {
		return fmt.Errorf("failed to display notification: %w", err)
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastEvent(ctx, &event)
	}

	s.logger.Info("notification_displayed", "Notification displayed to user", requestID, map[string]interface{}{
		"kind":       string(event.Kind),
		"order_id":   event.OrderID,
		"old_status": string(event.OldStatus),
		"new_status": string(event.NewStatus),
	})
	return nil
}

// formatNotification creates a human-readable notification message
func formatNotification(event *models.OrderEvent) string {
	timestamp := event.Timestamp.Format(timestampLayout)
	table := "no table"
	if event.TableNumber != "" {
		table = "table " + event.TableNumber
	}

	if event.Kind == models.EventOrderPlaced {
		lines := make([]string, 0, len(event.Items))
		for _, it := range event.Items {
			lines = append(lines, fmt.Sprintf("%d× %s", it.Qty, it.Name))
		}
		return fmt.Sprintf("🧾 [%s] Order #%d placed for %s: %s",
			timestamp, event.OrderID, table, strings.Join(lines, ", "))
	}

	switch event.NewStatus {
	case models.StatusServed:
		return fmt.Sprintf("✅ [%s] Order #%d (%s) has been served.", timestamp, event.OrderID, table)
	case models.StatusCancelled:
		return fmt.Sprintf("❌ [%s] Order #%d (%s) has been cancelled.", timestamp, event.OrderID, table)
	case models.StatusRejected:
		return fmt.Sprintf("🚫 [%s] Order #%d (%s) was rejected by the kitchen.", timestamp, event.OrderID, table)
	default:
		return fmt.Sprintf("📋 [%s] Order #%d (%s) status changed from '%s' to '%s'.",
			timestamp, event.OrderID, table, event.OldStatus, event.NewStatus)
	}
}
