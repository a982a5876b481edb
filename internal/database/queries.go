package database

// Restaurant queries
const (
	ListRestaurantsSQL = `
		SELECT id, name, address FROM restaurants ORDER BY id DESC`

	GetRestaurantSQL = `
		SELECT id, name, address FROM restaurants WHERE id = $1`

	InsertRestaurantSQL = `
		INSERT INTO restaurants (name, address) VALUES ($1, $2)
		RETURNING id`

	UpdateRestaurantSQL = `
		UPDATE restaurants SET name = $1, address = $2 WHERE id = $3`

	DeleteRestaurantSQL = `
		DELETE FROM restaurants WHERE id = $1`
)

// Menu queries
const (
	menuColumns = `id, name, price, description, available, max_qty, category`

	ListMenuSQL = `
		SELECT ` + menuColumns + ` FROM menu ORDER BY category, id`

	GetMenuItemSQL = `
		SELECT ` + menuColumns + ` FROM menu WHERE id = $1`

	GetMenuItemByNameSQL = `
		SELECT ` + menuColumns + ` FROM menu WHERE LOWER(name) = LOWER($1)`

	InsertMenuItemSQL = `
		INSERT INTO menu (name, price, description, available, max_qty, category)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	SetMenuAvailabilitySQL = `
		UPDATE menu SET available = $1 WHERE id = $2`
)

// Order queries
const (
	orderColumns = `id, table_number, items, status, created_at`

	ListOrdersSQL = `
		SELECT ` + orderColumns + ` FROM orders ORDER BY id DESC`

	GetOrderSQL = `
		SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	InsertOrderSQL = `
		INSERT INTO orders (table_number, items, status)
		VALUES ($1, $2, $3)
		RETURNING id`

	UpdateOrderStatusSQL = `
		UPDATE orders SET status = $1 WHERE id = $2`

	ListOrdersBetweenSQL = `
		SELECT ` + orderColumns + ` FROM orders
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at ASC`
)
