package order

import (
	"context"
	"fmt"

	"restaurant-ordering/internal/logger"
	"restaurant-ordering/internal/models"
	"restaurant-ordering/internal/validation"
)

var errInvalidStatus = validation.ValidationError{Field: "status", Message: "invalid status"}

// MenuReader supplies the menu orders are validated against
type MenuReader interface {
	List(ctx context.Context) ([]models.MenuItem, error)
}

// EventPublisher delivers order events to the notification exchange
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event *models.OrderEvent) error
}

type OrderService struct {
	db        Store
	menu      MenuReader
	publisher EventPublisher
	logger    *logger.Logger
}

func NewOrderService(db Store, menu MenuReader, publisher EventPublisher, log *logger.Logger) *OrderService {
	return &OrderService{
		db:        db,
		menu:      menu,
		publisher: publisher,
		logger:    log,
	}
}

func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := s.db.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// CreateOrder validates the submission against the live menu, stores it as pending
// and announces it. Publishing is best effort.
func (s *OrderService) CreateOrder(ctx context.Context, req *models.OrderSubmission, requestID string) (*models.Order, error) {
	req.Normalize()
	if len(req.Items) == 0 {
		return nil, errItemsRequired
	}

	menu, err := s.menu.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load menu: %w", err)
	}
	if err := ValidateItems(req.Items, menu); err != nil {
		return nil, err
	}

	orderID, err := s.db.InsertOrder(ctx, req.Table, req.Items, models.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	order, err := s.db.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("reload order %d: %w", orderID, err)
	}
	if order == nil {
		return nil, validation.ErrNotFound
	}

	s.publish(ctx, models.CreateOrderPlacedEvent(order), requestID)
	return order, nil
}

// UpdateStatus moves an order to a new status and announces the change.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, raw string, requestID string) (*models.Order, error) {
	status, ok := models.ParseOrderStatus(raw)
	if !ok {
		return nil, errInvalidStatus
	}

	current, err := s.db.GetOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	if current == nil {
		return nil, validation.ErrNotFound
	}

	n, err := s.db.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("update order %d status: %w", id, err)
	}
	if n == 0 {
		return nil, validation.ErrNotFound
	}

	oldStatus := current.Status
	current.Status = status
	s.publish(ctx, models.CreateStatusChangedEvent(current, oldStatus), requestID)
	return current, nil
}

func (s *OrderService) publish(ctx context.Context, event *models.OrderEvent, requestID string) {
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		s.logger.Error("event_publish_failed", "Failed to publish order event", requestID, err, map[string]interface{}{
			"order_id": event.OrderID,
			"kind":     string(event.Kind),
		})
		return
	}
	s.logger.Debug("event_published", "Order event published", requestID, map[string]interface{}{
		"order_id": event.OrderID,
		"kind":     string(event.Kind),
	})
}
