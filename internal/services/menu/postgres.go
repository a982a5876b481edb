package menu

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"restaurant-ordering/internal/database"
	"restaurant-ordering/internal/models"
)

// Patch holds the columns of a partial update. Nil fields are left alone.
type Patch struct {
	Name        *string
	Price       *decimal.Decimal
	Description *string
	Available   *bool
	MaxQty      *int
	Category    *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Price == nil && p.Description == nil &&
		p.Available == nil && p.MaxQty == nil && p.Category == nil
}

// Store persists menu items
type Store interface {
	List(ctx context.Context) ([]models.MenuItem, error)
	Get(ctx context.Context, id int64) (*models.MenuItem, error)
	GetByName(ctx context.Context, name string) (*models.MenuItem, error)
	Insert(ctx context.Context, item models.MenuItem) (int64, error)
	Update(ctx context.Context, id int64, patch Patch) (int64, error)
	SetAvailability(ctx context.Context, id int64, available bool) (int64, error)
}

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]models.MenuItem, error) {
	return database.QueryAll[models.MenuItem](ctx, r.db.Pool, database.ListMenuSQL)
}

func (r *Repository) Get(ctx context.Context, id int64) (*models.MenuItem, error) {
	return database.QueryOne[models.MenuItem](ctx, r.db.Pool, database.GetMenuItemSQL, id)
}

func (r *Repository) GetByName(ctx context.Context, name string) (*models.MenuItem, error) {
	return database.QueryOne[models.MenuItem](ctx, r.db.Pool, database.GetMenuItemByNameSQL, name)
}

func (r *Repository) Insert(ctx context.Context, item models.MenuItem) (int64, error) {
	res, err := r.db.Execute(ctx, database.InsertMenuItemSQL,
		item.Name, item.Price, item.Description, item.Available, item.MaxQty, item.Category)
	if err != nil {
		return 0, err
	}
	return res.GeneratedID, nil
}

// Update applies patch and returns the number of rows changed.
func (r *Repository) Update(ctx context.Context, id int64, patch Patch) (int64, error) {
	sql, args := buildUpdate(id, patch)
	res, err := r.db.Execute(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}

func (r *Repository) SetAvailability(ctx context.Context, id int64, available bool) (int64, error) {
	res, err := r.db.Execute(ctx, database.SetMenuAvailabilitySQL, available, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}

// buildUpdate renders "UPDATE menu SET a = $1, b = $2 WHERE id = $3" for the non-nil patch fields.
func buildUpdate(id int64, patch Patch) (string, []any) {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Available != nil {
		add("available", *patch.Available)
	}
	if patch.MaxQty != nil {
		add("max_qty", *patch.MaxQty)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}

	args = append(args, id)
	sql := fmt.Sprintf("UPDATE menu SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	return sql, args
}
