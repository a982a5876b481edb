package menu

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"restaurant-ordering/internal/database"
	"restaurant-ordering/internal/models"
	"restaurant-ordering/internal/validation"
)

var (
	errNameRequired     = validation.ValidationError{Field: "name", Message: "name required"}
	errPriceRequired    = validation.ValidationError{Field: "price", Message: "price required for new item"}
	errPriceNegative    = validation.ValidationError{Field: "price", Message: "price must be non-negative"}
	errPriceInvalid     = validation.ValidationError{Field: "price", Message: "invalid price"}
	errPriceNull        = validation.ValidationError{Field: "price", Message: "price cannot be null"}
	errNoFields         = validation.ValidationError{Field: "body", Message: "no fields provided"}
	errAvailableMissing = validation.ValidationError{Field: "available", Message: "available boolean required"}
	errDuplicateName    = validation.ValidationError{Field: "name", Message: "a menu item with this name already exists"}
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns the whole menu ordered by category then id, with defaults filled.
func (s *Service) List(ctx context.Context) ([]models.MenuItem, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	for i := range items {
		items[i] = items[i].WithDefaults()
	}
	return items, nil
}

// Upsert creates a new item, or partially updates the item whose name matches case-insensitively.
// The boolean reports whether a row was created.
func (s *Service) Upsert(ctx context.Context, in models.MenuItemInput) (*models.MenuItem, bool, error) {
	name := ""
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
	}
	if name == "" {
		return nil, false, errNameRequired
	}

	existing, err := s.store.GetByName(ctx, name)
	if err != nil {
		return nil, false, fmt.Errorf("lookup menu item %q: %w", name, err)
	}
	if existing != nil {
		item, err := s.upsertExisting(ctx, existing, in)
		return item, false, err
	}

	price, present, err := parsePrice(in.Price)
	if err != nil {
		return nil, false, err
	}
	if !present {
		return nil, false, errPriceRequired
	}

	item := models.MenuItem{
		Name:      name,
		Price:     price,
		Available: true,
		MaxQty:    models.DefaultMaxQty,
		Category:  models.DefaultCategory,
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Available != nil {
		item.Available = *in.Available
	}
	if in.MaxQty != nil {
		item.MaxQty = parseMaxQty(in.MaxQty)
	}
	if in.Category != nil && *in.Category != "" {
		item.Category = *in.Category
	}

	id, err := s.store.Insert(ctx, item)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, false, errDuplicateName
		}
		return nil, false, fmt.Errorf("insert menu item: %w", err)
	}
	item.ID = id
	return &item, true, nil
}

func (s *Service) upsertExisting(ctx context.Context, existing *models.MenuItem, in models.MenuItemInput) (*models.MenuItem, error) {
	var patch Patch
	price, present, err := parsePrice(in.Price)
	if err != nil {
		return nil, err
	}
	if present {
		patch.Price = &price
	}
	fillOptional(&patch, in)

	if patch.Empty() {
		item := existing.WithDefaults()
		return &item, nil
	}
	return s.apply(ctx, existing.ID, patch)
}

// Update applies the provided fields to item id.
func (s *Service) Update(ctx context.Context, id int64, in models.MenuItemInput) (*models.MenuItem, error) {
	var patch Patch
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, errNameRequired
		}
		patch.Name = &name
	}
	if in.Price != nil {
		if isNull(in.Price) {
			return nil, errPriceNull
		}
		price, _, err := parsePrice(in.Price)
		if err != nil {
			return nil, err
		}
		patch.Price = &price
	}
	fillOptional(&patch, in)

	if patch.Empty() {
		return nil, errNoFields
	}
	return s.apply(ctx, id, patch)
}

// SetAvailability toggles whether item id can be ordered.
func (s *Service) SetAvailability(ctx context.Context, id int64, in models.AvailabilityInput) (*models.MenuItem, error) {
	if in.Available == nil {
		return nil, errAvailableMissing
	}
	n, err := s.store.SetAvailability(ctx, id, *in.Available)
	if err != nil {
		return nil, fmt.Errorf("set availability of menu item %d: %w", id, err)
	}
	if n == 0 {
		return nil, validation.ErrNotFound
	}
	return s.reload(ctx, id)
}

func (s *Service) apply(ctx context.Context, id int64, patch Patch) (*models.MenuItem, error) {
	n, err := s.store.Update(ctx, id, patch)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, errDuplicateName
		}
		return nil, fmt.Errorf("update menu item %d: %w", id, err)
	}
	if n == 0 {
		return nil, validation.ErrNotFound
	}
	return s.reload(ctx, id)
}

func (s *Service) reload(ctx context.Context, id int64) (*models.MenuItem, error) {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload menu item %d: %w", id, err)
	}
	if item == nil {
		return nil, validation.ErrNotFound
	}
	out := item.WithDefaults()
	return &out, nil
}

// fillOptional copies the fields shared by POST-as-update and PUT.
func fillOptional(patch *Patch, in models.MenuItemInput) {
	if in.Description != nil {
		patch.Description = in.Description
	}
	if in.Available != nil {
		patch.Available = in.Available
	}
	if in.MaxQty != nil {
		q := parseMaxQty(in.MaxQty)
		patch.MaxQty = &q
	}
	if in.Category != nil {
		category := *in.Category
		if category == "" {
			category = models.DefaultCategory
		}
		patch.Category = &category
	}
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

// parsePrice accepts a JSON number or numeric string. present is false for absent or null.
func parsePrice(raw json.RawMessage) (price decimal.Decimal, present bool, err error) {
	if raw == nil || isNull(raw) {
		return decimal.Zero, false, nil
	}
	if err := price.UnmarshalJSON(raw); err != nil {
		return decimal.Zero, true, errPriceInvalid
	}
	if price.IsNegative() {
		return decimal.Zero, true, errPriceNegative
	}
	return price, true, nil
}

// parseMaxQty truncates numbers, reads numeric strings, lifts values below 1 to 1
// and falls back to the default for anything unparseable.
func parseMaxQty(raw json.RawMessage) int {
	if isNull(raw) {
		return models.DefaultMaxQty
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return models.DefaultMaxQty
		}
		i, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return models.DefaultMaxQty
		}
		n = float64(i)
	}
	if n < 1 {
		return 1
	}
	return int(n)
}
