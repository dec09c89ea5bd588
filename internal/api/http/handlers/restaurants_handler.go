package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fooddash/food-delivery-service/internal/api/dto"
	"github.com/fooddash/food-delivery-service/internal/service"
)

// RestaurantsHandler exposes restaurant endpoints.
type RestaurantsHandler struct {
	restaurants *service.RestaurantService
}

// NewRestaurantsHandler constructs handler.
func NewRestaurantsHandler(restaurants *service.RestaurantService) *RestaurantsHandler {
	return &RestaurantsHandler{restaurants: restaurants}
}

// List handles GET /restaurants.
func (h *RestaurantsHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	restaurants, err := h.restaurants.List(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	resp := make([]dto.RestaurantResponse, 0, len(restaurants))
	for i := range restaurants {
		resp = append(resp, dto.NewRestaurantResponse(&restaurants[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Get handles GET /restaurants/:id.
func (h *RestaurantsHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "restaurant")
	if err != nil {
		return err
	}
	restaurant, err := h.restaurants.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRestaurantResponse(restaurant)})
}

// Create handles POST /restaurants.
func (h *RestaurantsHandler) Create(c *fiber.Ctx) error {
	var req dto.RestaurantRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	restaurant, err := h.restaurants.Create(c.UserContext(), service.RestaurantInput{
		Name:     req.Name,
		ImageURL: req.ImageURL,
		Status:   req.Status,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewRestaurantResponse(restaurant)})
}

// Update handles PUT /restaurants/:id.
func (h *RestaurantsHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "restaurant")
	if err != nil {
		return err
	}
	var req dto.RestaurantRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	restaurant, err := h.restaurants.Update(c.UserContext(), id, service.RestaurantInput{
		Name:     req.Name,
		ImageURL: req.ImageURL,
		Status:   req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRestaurantResponse(restaurant)})
}

// Delete handles DELETE /restaurants/:id.
func (h *RestaurantsHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "restaurant")
	if err != nil {
		return err
	}
	actor, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.restaurants.Delete(c.UserContext(), actor.ID(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
