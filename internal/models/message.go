package models

import (
	"time"
)

// EventKind distinguishes order events on the notifications exchange
type EventKind string

const (
	EventOrderPlaced   EventKind = "order_placed"
	EventStatusChanged EventKind = "status_changed"
)

// OrderEvent is published whenever an order is placed or changes status
type OrderEvent struct {
	Kind        EventKind   `json:"kind"`
	OrderID     int64       `json:"order_id"`
	TableNumber string      `json:"table_number,omitempty"`
	Items       []OrderItem `json:"items,omitempty"`
	OldStatus   OrderStatus `json:"old_status,omitempty"`
	NewStatus   OrderStatus `json:"new_status"`
	Timestamp   time.Time   `json:"timestamp"`
}

// CreateOrderPlacedEvent creates an event for a freshly stored order
func CreateOrderPlacedEvent(order *Order) *OrderEvent {
	return &OrderEvent{
		Kind:        EventOrderPlaced,
		OrderID:     order.ID,
		TableNumber: order.TableNumber,
		Items:       order.Items,
		NewStatus:   order.Status,
		Timestamp:   time.Now().UTC(),
	}
}

// CreateStatusChangedEvent creates an event for an order status change
func CreateStatusChangedEvent(order *Order, oldStatus OrderStatus) *OrderEvent {
	return &OrderEvent{
		Kind:        EventStatusChanged,
		OrderID:     order.ID,
		TableNumber: order.TableNumber,
		OldStatus:   oldStatus,
		NewStatus:   order.Status,
		Timestamp:   time.Now().UTC(),
	}
}
