package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fooddash/food-delivery-service/internal/api/dto"
	"github.com/fooddash/food-delivery-service/internal/repository"
	"github.com/fooddash/food-delivery-service/internal/service"
)

// MenuItemsHandler exposes menu endpoints.
type MenuItemsHandler struct {
	items *service.MenuItemService
}

// NewMenuItemsHandler constructs handler.
func NewMenuItemsHandler(items *service.MenuItemService) *MenuItemsHandler {
	return &MenuItemsHandler{items: items}
}

// List handles GET /menu-items.
func (h *MenuItemsHandler) List(c *fiber.Ctx) error {
	restaurantID, err := restaurantFilter(c)
	if err != nil {
		return err
	}
	limit, offset := pagination(c)
	items, err := h.items.List(c.UserContext(), repository.MenuItemFilter{RestaurantID: restaurantID, Limit: limit, Offset: offset})
	if err != nil {
		return err
	}
	resp := make([]dto.MenuItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, dto.NewMenuItemResponse(&items[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Get handles GET /menu-items/:id.
func (h *MenuItemsHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "menu item")
	if err != nil {
		return err
	}
	item, err := h.items.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMenuItemResponse(item)})
}

// Create handles POST /menu-items.
func (h *MenuItemsHandler) Create(c *fiber.Ctx) error {
	scope, err := restaurantScope(c)
	if err != nil {
		return err
	}
	var req dto.MenuItemRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	item, err := h.items.Create(c.UserContext(), scope, menuItemInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewMenuItemResponse(item)})
}

// Update handles PUT /menu-items/:id.
func (h *MenuItemsHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "menu item")
	if err != nil {
		return err
	}
	scope, err := restaurantScope(c)
	if err != nil {
		return err
	}
	var req dto.MenuItemRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	item, err := h.items.Update(c.UserContext(), scope, id, menuItemInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMenuItemResponse(item)})
}

// Delete handles DELETE /menu-items/:id.
func (h *MenuItemsHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "menu item")
	if err != nil {
		return err
	}
	scope, err := restaurantScope(c)
	if err != nil {
		return err
	}
	if err := h.items.Delete(c.UserContext(), scope, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func menuItemInput(req dto.MenuItemRequest) service.MenuItemInput {
	return service.MenuItemInput{
		RestaurantID: req.RestaurantID,
		Name:         req.Name,
		Description:  req.Description,
		Status:       req.Status,
		Cost:         req.Cost,
		ImageURL:     req.ImageURL,
	}
}
