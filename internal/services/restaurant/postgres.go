package restaurant

import (
	"context"

	"restaurant-ordering/internal/database"
	"restaurant-ordering/internal/models"
)

// Store persists restaurants
type Store interface {
	List(ctx context.Context) ([]models.Restaurant, error)
	Get(ctx context.Context, id int64) (*models.Restaurant, error)
	Insert(ctx context.Context, name string, address *string) (int64, error)
	Update(ctx context.Context, id int64, name string, address *string) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// Repository is the PostgreSQL Store
type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]models.Restaurant, error) {
	return database.QueryAll[models.Restaurant](ctx, r.db.Pool, database.ListRestaurantsSQL)
}

func (r *Repository) Get(ctx context.Context, id int64) (*models.Restaurant, error) {
	return database.QueryOne[models.Restaurant](ctx, r.db.Pool, database.GetRestaurantSQL, id)
}

func (r *Repository) Insert(ctx context.Context, name string, address *string) (int64, error) {
	res, err := r.db.Execute(ctx, database.InsertRestaurantSQL, name, address)
	if err != nil {
		return 0, err
	}
	return res.GeneratedID, nil
}

// Update returns the number of rows changed.
func (r *Repository) Update(ctx context.Context, id int64, name string, address *string) (int64, error) {
	res, err := r.db.Execute(ctx, database.UpdateRestaurantSQL, name, address, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}

// Delete returns the number of rows removed.
func (r *Repository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.Execute(ctx, database.DeleteRestaurantSQL, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}
