package auth

import (
	"testing"

	"github.com/fooddash/food-delivery-service/internal/domain"
)

func principalFor(id int64, role domain.Role, restaurantID *int64) *Principal {
	return &Principal{User: &domain.User{ID: id, Role: role, RestaurantID: restaurantID}}
}

func ptr(v int64) *int64 { return &v }

func TestAuthorizeRole(t *testing.T) {
	pred := AuthorizeRole(domain.RoleRestaurantOwner)
	tests := []struct {
		name string
		p    *Principal
		want bool
	}{
		{"admin", principalFor(1, domain.RoleAdmin, nil), true},
		{"owner", principalFor(1, domain.RoleRestaurantOwner, nil), true},
		{"user", principalFor(1, domain.RoleUser, nil), false},
		{"unknown role", principalFor(1, domain.RoleUnknown, nil), false},
		{"out of range role", principalFor(1, domain.Role(99), nil), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, got := Evaluate(tt.p, Target{}, pred); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAuthorizeOwner(t *testing.T) {
	pred := AuthorizeOwner()
	tests := []struct {
		name   string
		p      *Principal
		pathID string
		want   bool
	}{
		{"self", principalFor(5, domain.RoleUser, nil), "5", true},
		{"self with leading zero", principalFor(5, domain.RoleUser, nil), "05", true},
		{"other user", principalFor(5, domain.RoleUser, nil), "6", false},
		{"non numeric", principalFor(5, domain.RoleUser, nil), "five", false},
		{"empty", principalFor(5, domain.RoleUser, nil), "", false},
		{"admin on other", principalFor(1, domain.RoleAdmin, nil), "6", true},
		{"owner on other", principalFor(5, domain.RoleRestaurantOwner, ptr(1)), "6", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := Target{Collection: CollectionUsers, PathID: tt.pathID}
			if _, got := Evaluate(tt.p, target, pred); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAuthorizeRestaurantOwner(t *testing.T) {
	pred := AuthorizeRestaurantOwner()
	owner := principalFor(5, domain.RoleRestaurantOwner, ptr(3))
	tests := []struct {
		name   string
		p      *Principal
		target Target
		want   bool
	}{
		{"restaurant path match", owner, Target{Collection: CollectionRestaurants, PathID: "3"}, true},
		{"restaurant path mismatch", owner, Target{Collection: CollectionRestaurants, PathID: "4"}, false},
		{"restaurant ignores query", owner, Target{Collection: CollectionRestaurants, PathID: "4", RestaurantQuery: "3"}, false},
		{"menu item query match", owner, Target{Collection: CollectionMenuItems, PathID: "99", RestaurantQuery: "3"}, true},
		{"menu item query mismatch", owner, Target{Collection: CollectionMenuItems, RestaurantQuery: "4"}, false},
		{"order query missing", owner, Target{Collection: CollectionOrders}, false},
		{"order ignores path", owner, Target{Collection: CollectionOrders, PathID: "3"}, false},
		{"non numeric query", owner, Target{Collection: CollectionOrders, RestaurantQuery: "three"}, false},
		{"no restaurant", principalFor(6, domain.RoleRestaurantOwner, nil), Target{Collection: CollectionOrders, RestaurantQuery: "3"}, false},
		{"admin without operand", principalFor(1, domain.RoleAdmin, nil), Target{Collection: CollectionOrders}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, got := Evaluate(tt.p, tt.target, pred); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluate_FirstDenialWins(t *testing.T) {
	user := principalFor(5, domain.RoleUser, ptr(3))
	target := Target{Collection: CollectionMenuItems, RestaurantQuery: "3"}

	failed, ok := Evaluate(user, target, AuthorizeRole(domain.RoleRestaurantOwner), AuthorizeRestaurantOwner())
	if ok || failed != "role>=restaurant_owner" {
		t.Fatalf("expected role predicate to deny first, got %q %v", failed, ok)
	}

	failed, ok = Evaluate(nil, target)
	if ok || failed != "authenticated" {
		t.Fatalf("nil principal must be denied, got %q %v", failed, ok)
	}

	if _, ok := Evaluate(user, target); !ok {
		t.Fatalf("no predicates should allow an authenticated caller")
	}
}

func TestParseID(t *testing.T) {
	for raw, want := range map[string]int64{"1": 1, "007": 7, " 12 ": 12} {
		if got, ok := ParseID(raw); !ok || got != want {
			t.Fatalf("ParseID(%q) = %d, %v", raw, got, ok)
		}
	}
	for _, raw := range []string{"", "0", "-1", "1.5", "abc", "99999999999999999999"} {
		if _, ok := ParseID(raw); ok {
			t.Fatalf("ParseID(%q) should fail", raw)
		}
	}
}
