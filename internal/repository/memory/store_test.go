package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fooddash/food-delivery-service/internal/domain"
	"github.com/fooddash/food-delivery-service/internal/repository"
)

func TestUsers_CRUDAndLookup(t *testing.T) {
	store := NewStore()
	users := store.Users()
	ctx := context.Background()

	u := &domain.User{FirstName: "Chris", Telephone: "555", Username: "chris", Role: domain.RoleUser}
	if err := users.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == 0 || u.CreatedAt.IsZero() {
		t.Fatalf("unexpected created user: %+v", u)
	}

	byPhone, err := users.GetByTelephoneOrUsername(ctx, "555")
	if err != nil || byPhone.ID != u.ID {
		t.Fatalf("lookup by telephone: %v %+v", err, byPhone)
	}
	byName, err := users.GetByTelephoneOrUsername(ctx, "chris")
	if err != nil || byName.ID != u.ID {
		t.Fatalf("lookup by username: %v %+v", err, byName)
	}

	dup := &domain.User{FirstName: "Other", Telephone: "555"}
	if err := users.Create(ctx, dup); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected duplicate telephone error, got %v", err)
	}

	byPhone.Role = domain.RoleAdmin
	if err := users.Update(ctx, byPhone); err != nil {
		t.Fatalf("update: %v", err)
	}
	reloaded, _ := users.GetByID(ctx, u.ID)
	if reloaded.Role != domain.RoleAdmin {
		t.Fatalf("role not updated: %+v", reloaded)
	}

	if err := users.Delete(ctx, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := users.GetByID(ctx, u.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestUsers_ReturnedRecordsAreCopies(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	rid := int64(3)
	u := &domain.User{Telephone: "1", RestaurantID: &rid}
	if err := store.Users().Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, _ := store.Users().GetByID(ctx, u.ID)
	*got.RestaurantID = 99
	again, _ := store.Users().GetByID(ctx, u.ID)
	if *again.RestaurantID != 3 {
		t.Fatalf("store leaked internal pointer: %d", *again.RestaurantID)
	}
}

func TestRestaurantDelete_Cascades(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	r := &domain.Restaurant{Name: "Diner"}
	if err := store.Restaurants().Create(ctx, r); err != nil {
		t.Fatalf("create restaurant: %v", err)
	}
	owner := &domain.User{Telephone: "1", RestaurantID: &r.ID}
	if err := store.Users().Create(ctx, owner); err != nil {
		t.Fatalf("create owner: %v", err)
	}
	item := &domain.MenuItem{RestaurantID: r.ID, Name: "Soup", Cost: 4}
	if err := store.MenuItems().Create(ctx, item); err != nil {
		t.Fatalf("create item: %v", err)
	}
	order := &domain.Order{UserID: owner.ID, RestaurantID: r.ID, MenuItemID: item.ID, Quantity: 1}
	if err := store.Orders().Create(ctx, order); err != nil {
		t.Fatalf("create order: %v", err)
	}

	if err := store.Restaurants().Delete(ctx, r.ID); err != nil {
		t.Fatalf("delete restaurant: %v", err)
	}
	if _, err := store.MenuItems().GetByID(ctx, item.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("menu item should be gone: %v", err)
	}
	if _, err := store.Orders().GetByID(ctx, order.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("order should be gone: %v", err)
	}
	reloaded, _ := store.Users().GetByID(ctx, owner.ID)
	if reloaded.RestaurantID != nil {
		t.Fatalf("owner should be detached: %+v", reloaded)
	}
}

func TestOrders_ListFilters(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	r1 := &domain.Restaurant{Name: "A"}
	r2 := &domain.Restaurant{Name: "B"}
	_ = store.Restaurants().Create(ctx, r1)
	_ = store.Restaurants().Create(ctx, r2)
	u := &domain.User{Telephone: "1"}
	_ = store.Users().Create(ctx, u)
	i1 := &domain.MenuItem{RestaurantID: r1.ID, Name: "x"}
	i2 := &domain.MenuItem{RestaurantID: r2.ID, Name: "y"}
	_ = store.MenuItems().Create(ctx, i1)
	_ = store.MenuItems().Create(ctx, i2)
	for _, o := range []*domain.Order{
		{UserID: u.ID, RestaurantID: r1.ID, MenuItemID: i1.ID, Quantity: 1, Status: domain.OrderStatusPending},
		{UserID: u.ID, RestaurantID: r1.ID, MenuItemID: i1.ID, Quantity: 2, Status: domain.OrderStatusAccepted},
		{UserID: u.ID, RestaurantID: r2.ID, MenuItemID: i2.ID, Quantity: 3, Status: domain.OrderStatusPending},
	} {
		if err := store.Orders().Create(ctx, o); err != nil {
			t.Fatalf("create order: %v", err)
		}
	}

	orders, _ := store.Orders().List(ctx, repository.OrderFilter{RestaurantID: &r1.ID})
	if len(orders) != 2 {
		t.Fatalf("restaurant filter: got %d", len(orders))
	}
	pending := domain.OrderStatusPending
	orders, _ = store.Orders().List(ctx, repository.OrderFilter{Status: &pending})
	if len(orders) != 2 {
		t.Fatalf("status filter: got %d", len(orders))
	}
	orders, _ = store.Orders().List(ctx, repository.OrderFilter{Limit: 1, Offset: 2})
	if len(orders) != 1 || orders[0].Quantity != 3 {
		t.Fatalf("paging: %+v", orders)
	}
}

func TestPasswordResets_SingleUseAndExpiry(t *testing.T) {
	store := NewStore()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()
	resets := store.PasswordResets()

	tok := &domain.PasswordResetToken{Token: "abc", UserID: 1, ExpiresAt: now.Add(time.Minute)}
	if err := resets.Create(ctx, tok); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := resets.Consume(ctx, "abc")
	if err != nil || got.UserID != 1 {
		t.Fatalf("consume: %v %+v", err, got)
	}
	if _, err := resets.Consume(ctx, "abc"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("second consume should fail, got %v", err)
	}

	expired := &domain.PasswordResetToken{Token: "old", UserID: 1, ExpiresAt: now}
	_ = resets.Create(ctx, expired)
	if _, err := resets.Consume(ctx, "old"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expired token should be rejected, got %v", err)
	}
}

func TestPage_ClampsOffsets(t *testing.T) {
	items := []int{1, 2, 3}
	if got := page(items, 2, -5); len(got) != 2 || got[0] != 1 {
		t.Fatalf("negative offset: %v", got)
	}
	if got := page(items, 10, 1<<62); got != nil {
		t.Fatalf("offset past the end: %v", got)
	}
}
