package service

// Scope restricts an operation to a single restaurant. The zero value is
// unrestricted and is only handed out to admins.
type Scope struct {
	RestaurantID *int64
}

// RestaurantScope pins operations to restaurantID.
func RestaurantScope(restaurantID int64) Scope {
	return Scope{RestaurantID: &restaurantID}
}

// Restricted reports whether the scope pins a restaurant.
func (s Scope) Restricted() bool {
	return s.RestaurantID != nil
}

func (s Scope) allows(restaurantID int64) bool {
	return s.RestaurantID == nil || *s.RestaurantID == restaurantID
}
