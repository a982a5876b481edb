package order

import (
	"restaurant-ordering/internal/models"
	"restaurant-ordering/internal/validation"
)

var errItemsRequired = validation.ValidationError{Field: "items", Message: "items array required"}

// ValidateItems checks every submitted line against the menu and reports all problems at once.
func ValidateItems(items []models.OrderItem, menu []models.MenuItem) error {
	if len(items) == 0 {
		return errItemsRequired
	}

	byID := make(map[int64]models.MenuItem, len(menu))
	for _, m := range menu {
		byID[m.ID] = m
	}

	problems := &validation.Problems{Message: "validation failed"}
	for _, it := range items {
		m, ok := byID[it.ID]
		if !ok {
			problems.Add("item id %d not found", it.ID)
			continue
		}
		if !m.Available {
			problems.Add("%s is currently unavailable", m.Name)
		}
		maxQty := m.EffectiveMaxQty()
		switch {
		case it.Qty < 1:
			problems.Add("invalid qty for %s", m.Name)
		case it.Qty > maxQty:
			problems.Add("%s exceeds max qty (%d)", m.Name, maxQty)
		}
	}
	return problems.Err()
}
