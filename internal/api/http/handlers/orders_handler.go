package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fooddash/food-delivery-service/internal/api/dto"
	"github.com/fooddash/food-delivery-service/internal/domain"
	"github.com/fooddash/food-delivery-service/internal/repository"
	"github.com/fooddash/food-delivery-service/internal/service"
)

// OrdersHandler exposes order endpoints.
type OrdersHandler struct {
	orders *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orders *service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

// Create handles POST /orders. The caller becomes the ordering user.
func (h *OrdersHandler) Create(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.OrderCreateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	order, err := h.orders.Place(c.UserContext(), actor.ID(), service.PlaceOrderInput{
		MenuItemID: req.MenuItemID,
		Quantity:   req.Quantity,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewOrderResponse(order)})
}

// List handles GET /orders.
func (h *OrdersHandler) List(c *fiber.Ctx) error {
	scope, err := restaurantScope(c)
	if err != nil {
		return err
	}
	restaurantID, err := restaurantFilter(c)
	if err != nil {
		return err
	}
	limit, offset := pagination(c)
	filter := repository.OrderFilter{RestaurantID: restaurantID, Limit: limit, Offset: offset}
	if status := c.Query("status"); status != "" {
		s := domain.OrderStatus(status)
		filter.Status = &s
	}
	orders, err := h.orders.List(c.UserContext(), scope, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orderResponses(orders)})
}

// Get handles GET /orders/:id.
func (h *OrdersHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "order")
	if err != nil {
		return err
	}
	scope, err := restaurantScope(c)
	if err != nil {
		return err
	}
	order, err := h.orders.Get(c.UserContext(), scope, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewOrderResponse(order)})
}

// Update handles PUT /orders/:id.
func (h *OrdersHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "order")
	if err != nil {
		return err
	}
	scope, err := restaurantScope(c)
	if err != nil {
		return err
	}
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.OrderUpdateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	order, err := h.orders.Update(c.UserContext(), scope, actor.ID(), id, service.UpdateOrderInput{
		Quantity: req.Quantity,
		Status:   req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewOrderResponse(order)})
}

// Delete handles DELETE /orders/:id.
func (h *OrdersHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "order")
	if err != nil {
		return err
	}
	scope, err := restaurantScope(c)
	if err != nil {
		return err
	}
	if err := h.orders.Delete(c.UserContext(), scope, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
