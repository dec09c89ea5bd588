package dto

import (
	"time"

	"github.com/fooddash/food-delivery-service/internal/domain"
)

// OrderCreateRequest payload for placing an order.
type OrderCreateRequest struct {
	MenuItemID int64 `json:"menu_item_id" validate:"required,gt=0"`
	Quantity   int   `json:"quantity" validate:"required,min=1,max=100"`
}

// OrderUpdateRequest payload for updating an order.
type OrderUpdateRequest struct {
	Quantity *int                `json:"quantity" validate:"omitempty,min=1,max=100"`
	Status   *domain.OrderStatus `json:"status" validate:"omitempty,oneof=pending accepted preparing delivering delivered cancelled"`
}

// OrderResponse is the public view of an order.
type OrderResponse struct {
	ID           int64     `json:"order_id"`
	UserID       int64     `json:"user_id"`
	RestaurantID int64     `json:"restaurant_id"`
	MenuItemID   int64     `json:"menu_item_id"`
	Quantity     int       `json:"quantity"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewOrderResponse maps a domain order.
func NewOrderResponse(o *domain.Order) OrderResponse {
	return OrderResponse{
		ID:           o.ID,
		UserID:       o.UserID,
		RestaurantID: o.RestaurantID,
		MenuItemID:   o.MenuItemID,
		Quantity:     o.Quantity,
		Status:       string(o.Status),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}
