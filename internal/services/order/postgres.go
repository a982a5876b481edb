package order

import (
	"context"
	"time"

	"restaurant-ordering/internal/database"
	"restaurant-ordering/internal/models"
)

// Store persists orders
type Store interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	InsertOrder(ctx context.Context, table string, items []models.OrderItem, status models.OrderStatus) (int64, error)
	UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (int64, error)
	ListOrdersBetween(ctx context.Context, from, to time.Time) ([]models.Order, error)
}

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListOrders(ctx context.Context) ([]models.Order, error) {
	return database.QueryAll[models.Order](ctx, r.db.Pool, database.ListOrdersSQL)
}

func (r *Repository) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	return database.QueryOne[models.Order](ctx, r.db.Pool, database.GetOrderSQL, id)
}

// InsertOrder stores the order; items land in a JSONB column.
func (r *Repository) InsertOrder(ctx context.Context, table string, items []models.OrderItem, status models.OrderStatus) (int64, error) {
	res, err := r.db.Execute(ctx, database.InsertOrderSQL, table, items, string(status))
	if err != nil {
		return 0, err
	}
	return res.GeneratedID, nil
}

func (r *Repository) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (int64, error) {
	res, err := r.db.Execute(ctx, database.UpdateOrderStatusSQL, string(status), id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}

// ListOrdersBetween returns orders created in [from, to).
func (r *Repository) ListOrdersBetween(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	return database.QueryAll[models.Order](ctx, r.db.Pool, database.ListOrdersBetweenSQL, from, to)
}
