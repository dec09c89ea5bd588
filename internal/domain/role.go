package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Role is a totally ordered privilege rank. Higher values carry more
// privilege, so "at least X" checks are plain integer comparisons.
type Role int

const (
	RoleUnknown Role = iota
	RoleUser
	RoleRestaurantOwner
	RoleAdmin
)

var roleNames = map[Role]string{
	RoleUser:            "user",
	RoleRestaurantOwner: "restaurant_owner",
	RoleAdmin:           "admin",
}

// Valid reports whether r is a known rank.
func (r Role) Valid() bool {
	return r >= RoleUser && r <= RoleAdmin
}

// AtLeast reports whether r grants at least the privilege of min. Unknown
// ranks never satisfy a check.
func (r Role) AtLeast(min Role) bool {
	if !r.Valid() || !min.Valid() {
		return false
	}
	return r >= min
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// ParseRole accepts either a role name or its numeric rank.
func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if r := Role(n); r.Valid() {
			return r, nil
		}
		return RoleUnknown, fmt.Errorf("unknown role rank %d", n)
	}
	for r, name := range roleNames {
		if name == s {
			return r, nil
		}
	}
	return RoleUnknown, fmt.Errorf("unknown role %q", s)
}

// UnmarshalJSON accepts a numeric rank or a role name.
func (r *Role) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		if !Role(n).Valid() {
			return fmt.Errorf("unknown role rank %d", n)
		}
		*r = Role(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("role must be a number or a string")
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
