package restaurant

import (
	"context"
	"fmt"
	"strings"

	"restaurant-ordering/internal/models"
	"restaurant-ordering/internal/validation"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context) ([]models.Restaurant, error) {
	return s.store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Restaurant, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, validation.ErrNotFound
	}
	return r, nil
}

// Create stores a new restaurant and returns it with its generated id.
func (s *Service) Create(ctx context.Context, in models.RestaurantInput) (*models.Restaurant, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, validation.Required("name")
	}
	address := in.NormalizedAddress()

	id, err := s.store.Insert(ctx, in.Name, address)
	if err != nil {
		return nil, fmt.Errorf("insert restaurant: %w", err)
	}
	return &models.Restaurant{ID: id, Name: in.Name, Address: address}, nil
}

// Update replaces name and address of an existing restaurant.
func (s *Service) Update(ctx context.Context, id int64, in models.RestaurantInput) (*models.Restaurant, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, validation.Required("name")
	}
	address := in.NormalizedAddress()

	n, err := s.store.Update(ctx, id, in.Name, address)
	if err != nil {
		return nil, fmt.Errorf("update restaurant %d: %w", id, err)
	}
	if n == 0 {
		return nil, validation.ErrNotFound
	}
	return &models.Restaurant{ID: id, Name: in.Name, Address: address}, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete restaurant %d: %w", id, err)
	}
	if n == 0 {
		return validation.ErrNotFound
	}
	return nil
}
