package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

const (
	DefaultMaxQty   = 10
	DefaultCategory = "General"
)

// MenuItem represents a dish on the menu
type MenuItem struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Description string          `json:"description" db:"description"`
	Available   bool            `json:"available" db:"available"`
	MaxQty      int             `json:"max_qty" db:"max_qty"`
	Category    string          `json:"category" db:"category"`
}

// EffectiveMaxQty returns max_qty, falling back to the default when unset.
func (m MenuItem) EffectiveMaxQty() int {
	if m.MaxQty <= 0 {
		return DefaultMaxQty
	}
	return m.MaxQty
}

// WithDefaults fills the optional fields the API always reports.
func (m MenuItem) WithDefaults() MenuItem {
	m.MaxQty = m.EffectiveMaxQty()
	if m.Category == "" {
		m.Category = DefaultCategory
	}
	return m
}

// MenuItemInput is the body of POST /api/menu and PUT /api/menu/{id}. Every field is optional
// so that partial updates can tell "absent" from "zero". Price and max_qty stay raw because
// malformed values get their own error messages or fallbacks.
type MenuItemInput struct {
	Name        *string         `json:"name"`
	Price       json.RawMessage `json:"price"`
	Description *string         `json:"description"`
	Available   *bool           `json:"available"`
	MaxQty      json.RawMessage `json:"max_qty"`
	Category    *string         `json:"category"`
}

// AvailabilityInput is the body of PUT /api/menu/{id}/availability
type AvailabilityInput struct {
	Available *bool `json:"available"`
}
