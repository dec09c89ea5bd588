package domain

import "time"

// RestaurantStatus describes whether a restaurant currently takes orders.
type RestaurantStatus string

const (
	RestaurantStatusPending RestaurantStatus = "pending"
	RestaurantStatusOpen    RestaurantStatus = "open"
	RestaurantStatusClosed  RestaurantStatus = "closed"
)

// Valid reports whether s is a known restaurant status.
func (s RestaurantStatus) Valid() bool {
	switch s {
	case RestaurantStatusPending, RestaurantStatusOpen, RestaurantStatusClosed:
		return true
	}
	return false
}

// Restaurant owns menu items and receives orders.
type Restaurant struct {
	ID        int64
	Name      string
	ImageURL  string
	Status    RestaurantStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MenuItemStatus enumerates menu item availability.
type MenuItemStatus string

const (
	MenuItemStatusAvailable   MenuItemStatus = "available"
	MenuItemStatusUnavailable MenuItemStatus = "unavailable"
)

// Valid reports whether s is a known menu item status.
func (s MenuItemStatus) Valid() bool {
	return s == MenuItemStatusAvailable || s == MenuItemStatusUnavailable
}

// MenuItem belongs to exactly one restaurant.
type MenuItem struct {
	ID           int64
	RestaurantID int64
	Name         string
	Description  string
	Status       MenuItemStatus
	Cost         float64
	ImageURL     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Available reports whether the item can be ordered.
func (m *MenuItem) Available() bool {
	return m.Status == "" || m.Status == MenuItemStatusAvailable
}
