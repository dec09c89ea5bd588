package dto

import (
	"time"

	"github.com/fooddash/food-delivery-service/internal/domain"
)

// RestaurantRequest payload for creating or updating a restaurant.
type RestaurantRequest struct {
	Name     *string                  `json:"restaurant_name" validate:"omitempty,min=1,max=200"`
	ImageURL *string                  `json:"image_url" validate:"omitempty,url"`
	Status   *domain.RestaurantStatus `json:"status" validate:"omitempty,oneof=pending open closed"`
}

// RestaurantResponse is the public view of a restaurant.
type RestaurantResponse struct {
	ID        int64     `json:"restaurant_id"`
	Name      string    `json:"restaurant_name"`
	ImageURL  string    `json:"image_url"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRestaurantResponse maps a domain restaurant.
func NewRestaurantResponse(r *domain.Restaurant) RestaurantResponse {
	return RestaurantResponse{
		ID:        r.ID,
		Name:      r.Name,
		ImageURL:  r.ImageURL,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// MenuItemRequest payload for creating or updating a menu item.
type MenuItemRequest struct {
	RestaurantID *int64                 `json:"restaurant_id" validate:"omitempty,gt=0"`
	Name         *string                `json:"menu_item_name" validate:"omitempty,min=1,max=200"`
	Description  *string                `json:"description" validate:"omitempty,max=2000"`
	Status       *domain.MenuItemStatus `json:"status" validate:"omitempty,oneof=available unavailable"`
	Cost         *float64               `json:"cost" validate:"omitempty,gt=0"`
	ImageURL     *string                `json:"image_url" validate:"omitempty,url"`
}

// MenuItemResponse is the public view of a menu item.
type MenuItemResponse struct {
	ID           int64     `json:"menu_item_id"`
	RestaurantID int64     `json:"restaurant_id"`
	Name         string    `json:"menu_item_name"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	Cost         float64   `json:"cost"`
	ImageURL     string    `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewMenuItemResponse maps a domain menu item.
func NewMenuItemResponse(m *domain.MenuItem) MenuItemResponse {
	return MenuItemResponse{
		ID:           m.ID,
		RestaurantID: m.RestaurantID,
		Name:         m.Name,
		Description:  m.Description,
		Status:       string(m.Status),
		Cost:         m.Cost,
		ImageURL:     m.ImageURL,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
