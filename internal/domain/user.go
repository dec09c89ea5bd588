package domain

import (
	"strings"
	"time"
)

// UserStatus represents lifecycle states for an identity.
type UserStatus string

const (
	UserStatusNotVerified UserStatus = "not-verified"
	UserStatusActive      UserStatus = "active"
	UserStatusInactive    UserStatus = "inactive"
)

// IsActive reports whether the status allows authentication. Stored values
// are compared case-insensitively.
func (s UserStatus) IsActive() bool {
	return strings.EqualFold(strings.TrimSpace(string(s)), string(UserStatusActive))
}

// Valid reports whether s is one of the known statuses.
func (s UserStatus) Valid() bool {
	switch UserStatus(strings.ToLower(string(s))) {
	case UserStatusNotVerified, UserStatusActive, UserStatusInactive:
		return true
	}
	return false
}

// User is the domain model for every authenticated principal: customers,
// restaurant staff and administrators.
type User struct {
	ID            int64
	FirstName     string
	LastName      string
	Username      string
	Telephone     string
	PasswordHash  string
	Role          Role
	Status        UserStatus
	RestaurantID  *int64
	PasswordReset bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OwnsRestaurant reports whether the user is attached to the given restaurant.
func (u *User) OwnsRestaurant(restaurantID int64) bool {
	return u != nil && u.RestaurantID != nil && *u.RestaurantID == restaurantID
}
