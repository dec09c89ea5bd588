package dto

import (
	"time"

	"github.com/fooddash/food-delivery-service/internal/domain"
)

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	FirstName    string             `json:"first_name" validate:"max=100"`
	LastName     string             `json:"last_name" validate:"max=100"`
	Username     string             `json:"username" validate:"omitempty,min=3,max=50"`
	Telephone    string             `json:"telephone" validate:"required,max=32"`
	Password     string             `json:"password" validate:"required,min=6,max=72"`
	Role         *domain.Role       `json:"role"`
	Status       *domain.UserStatus `json:"status"`
	RestaurantID *int64             `json:"restaurant_id" validate:"omitempty,gt=0"`
}

// UserAuthenticateRequest payload for authentication. Either telephone or
// username identifies the account.
type UserAuthenticateRequest struct {
	Telephone string `json:"telephone" validate:"required_without=Username"`
	Username  string `json:"username"`
	Password  string `json:"password" validate:"required"`
}

// Identifier returns the telephone, or the username when no telephone is set.
func (r UserAuthenticateRequest) Identifier() string {
	if r.Telephone != "" {
		return r.Telephone
	}
	return r.Username
}

// UserUpdateRequest lists every field a caller may send on update.
type UserUpdateRequest struct {
	FirstName    *string            `json:"first_name" validate:"omitempty,max=100"`
	LastName     *string            `json:"last_name" validate:"omitempty,max=100"`
	Username     *string            `json:"username" validate:"omitempty,min=3,max=50"`
	Telephone    *string            `json:"telephone" validate:"omitempty,max=32"`
	Password     *string            `json:"password" validate:"omitempty,min=6,max=72"`
	Role         *domain.Role       `json:"role"`
	Status       *domain.UserStatus `json:"status"`
	RestaurantID *int64             `json:"restaurant_id" validate:"omitempty,gt=0"`
}

// PasswordChangeRequest payload for an authenticated password change.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=72"`
}

// PasswordResetRequest starts a reset for the given identifier.
type PasswordResetRequest struct {
	Telephone string `json:"telephone" validate:"required"`
}

// PasswordResetConfirmRequest finishes a reset.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token" validate:"required,uuid"`
	NewPassword string `json:"new_password" validate:"required,min=6,max=72"`
}

// UserResponse is the public view of an identity. It never carries the
// password hash.
type UserResponse struct {
	ID            int64     `json:"user_id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Username      string    `json:"username,omitempty"`
	Telephone     string    `json:"telephone"`
	Role          string    `json:"role"`
	Status        string    `json:"status"`
	RestaurantID  *int64    `json:"restaurant_id"`
	PasswordReset bool      `json:"password_reset"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AuthResponse is returned by a successful authentication: the identity
// attributes plus the token.
type AuthResponse struct {
	UserResponse
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewUserResponse maps a domain user to its public view.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Username:      u.Username,
		Telephone:     u.Telephone,
		Role:          u.Role.String(),
		Status:        string(u.Status),
		RestaurantID:  u.RestaurantID,
		PasswordReset: u.PasswordReset,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
