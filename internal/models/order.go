package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// OrderStatus represents the status of an order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusServed    OrderStatus = "served"
	StatusCancelled OrderStatus = "cancelled"
	StatusRejected  OrderStatus = "rejected"
)

// ParseOrderStatus reports whether raw names a known status.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	switch OrderStatus(raw) {
	case StatusPending, StatusServed, StatusCancelled, StatusRejected:
		return OrderStatus(raw), true
	default:
		return "", false
	}
}

// OrderItem represents one line of a submitted order. Price is deliberately absent:
// the server prices orders from the menu.
type OrderItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

// UnmarshalJSON accepts qty as a number or a numeric string. Fractions are truncated and
// anything else reads as 0, which validation reports as an invalid quantity.
func (it *OrderItem) UnmarshalJSON(data []byte) error {
	type plain OrderItem
	var raw struct {
		plain
		Qty json.RawMessage `json:"qty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*it = OrderItem(raw.plain)
	it.Qty = parseQty(raw.Qty)
	return nil
}

func parseQty(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return truncQty(n)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return truncQty(n)
		}
	}
	return 0
}

func truncQty(n float64) int {
	if math.IsNaN(n) || n < math.MinInt32 || n > math.MaxInt32 {
		return 0
	}
	return int(n)
}

// Order represents a stored order
type Order struct {
	ID          int64       `json:"id" db:"id"`
	TableNumber string      `json:"table_number" db:"table_number"`
	Items       []OrderItem `json:"items" db:"items"`
	Status      OrderStatus `json:"status" db:"status"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}

// OrderSubmission is the body of POST /api/orders
type OrderSubmission struct {
	Table string      `json:"table"`
	Items []OrderItem `json:"items"`
}

// Normalize trims the table label.
func (s *OrderSubmission) Normalize() {
	s.Table = strings.TrimSpace(s.Table)
}

// UpdateOrderStatusRequest is the body of PUT /api/orders/{id}/status
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// Quantity returns the total number of units in the order.
func (o *Order) Quantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Qty
	}
	return total
}
