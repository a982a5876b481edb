package models

// Restaurant is a row of the restaurants table
type Restaurant struct {
	ID      int64   `json:"id" db:"id"`
	Name    string  `json:"name" db:"name"`
	Address *string `json:"address" db:"address"`
}

// RestaurantInput is the body of POST and PUT /api/restaurants
type RestaurantInput struct {
	Name    string  `json:"name"`
	Address *string `json:"address"`
}

// NormalizedAddress maps an empty address to NULL.
func (in RestaurantInput) NormalizedAddress() *string {
	if in.Address == nil || *in.Address == "" {
		return nil
	}
	return in.Address
}
