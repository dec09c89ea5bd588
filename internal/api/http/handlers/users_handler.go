package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fooddash/food-delivery-service/internal/api/dto"
	"github.com/fooddash/food-delivery-service/internal/auth"
	"github.com/fooddash/food-delivery-service/internal/domain"
	"github.com/fooddash/food-delivery-service/internal/repository"
	"github.com/fooddash/food-delivery-service/internal/service"
)

// UsersHandler exposes identity and password endpoints.
type UsersHandler struct {
	auth  *service.AuthService
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, userService *service.UserService) *UsersHandler {
	return &UsersHandler{auth: authService, users: userService}
}

// Register handles POST /users/register. A bearer token is optional; an Admin
// caller may set role, status and restaurant.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	var actor *domain.User
	if p, ok := auth.PrincipalFromContext(c); ok {
		actor = p.User
	}
	user, err := h.auth.Register(c.UserContext(), actor, service.RegisterInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     req.Username,
		Telephone:    req.Telephone,
		Password:     req.Password,
		Role:         req.Role,
		Status:       req.Status,
		RestaurantID: req.RestaurantID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Authenticate handles POST /users/authenticate.
func (h *UsersHandler) Authenticate(c *fiber.Ctx) error {
	var req dto.UserAuthenticateRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.auth.Authenticate(c.UserContext(), req.Identifier(), req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AuthResponse{
		UserResponse: dto.NewUserResponse(res.User),
		Token:        res.Token,
		ExpiresAt:    res.ExpiresAt,
	}})
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	restaurantID, err := restaurantFilter(c)
	if err != nil {
		return err
	}
	limit, offset := pagination(c)
	users, err := h.users.List(c.UserContext(), repository.UserFilter{RestaurantID: restaurantID, Limit: limit, Offset: offset})
	if err != nil {
		return err
	}
	resp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "user")
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Update handles PUT /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "user")
	if err != nil {
		return err
	}
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.UserUpdateRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.users.Update(c.UserContext(), actor.User, id, service.UpdateUserInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     req.Username,
		Telephone:    req.Telephone,
		Password:     req.Password,
		Role:         req.Role,
		Status:       req.Status,
		RestaurantID: req.RestaurantID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Delete handles DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "user")
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListOrders handles GET /users/:id/orders.
func (h *UsersHandler) ListOrders(c *fiber.Ctx) error {
	id, err := pathID(c, "user")
	if err != nil {
		return err
	}
	limit, offset := pagination(c)
	orders, err := h.users.ListOrders(c.UserContext(), id, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orderResponses(orders)})
}

// ChangePassword handles POST /users/password/change.
func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.PasswordChangeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.auth.ChangePassword(c.UserContext(), actor.ID(), req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// RequestPasswordReset handles POST /users/password/reset/request. The answer
// is 202 whether or not the telephone belongs to an account.
func (h *UsersHandler) RequestPasswordReset(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.PasswordResetRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.auth.RequestPasswordReset(c.UserContext(), actor.ID(), req.Telephone); err != nil {
		return err
	}
	return c.SendStatus(http.StatusAccepted)
}

// ConfirmPasswordReset handles POST /users/password/reset/confirm.
func (h *UsersHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirmRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.auth.ConfirmPasswordReset(c.UserContext(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ResetPassword handles POST /users/:id/password/reset.
func (h *UsersHandler) ResetPassword(c *fiber.Ctx) error {
	id, err := pathID(c, "user")
	if err != nil {
		return err
	}
	if err := h.auth.ResetPassword(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func orderResponses(orders []domain.Order) []dto.OrderResponse {
	resp := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, dto.NewOrderResponse(&orders[i]))
	}
	return resp
}
