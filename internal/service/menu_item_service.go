package service

import (
	"context"
	"strings"

	"github.com/fooddash/food-delivery-service/internal/domain"
	"github.com/fooddash/food-delivery-service/internal/repository"
	apperrors "github.com/fooddash/food-delivery-service/pkg/util/errorutil"
)

// MenuItemService manages restaurant menus.
type MenuItemService struct {
	items       repository.MenuItemRepository
	restaurants repository.RestaurantRepository
}

// NewMenuItemService constructs the service.
func NewMenuItemService(items repository.MenuItemRepository, restaurants repository.RestaurantRepository) *MenuItemService {
	return &MenuItemService{items: items, restaurants: restaurants}
}

// MenuItemInput carries menu item fields. Nil fields are left unchanged on
// update. RestaurantID is only read on create.
type MenuItemInput struct {
	RestaurantID *int64
	Name         *string
	Description  *string
	Status       *domain.MenuItemStatus
	Cost         *float64
	ImageURL     *string
}

// List returns menu items, optionally for one restaurant.
func (s *MenuItemService) List(ctx context.Context, filter repository.MenuItemFilter) ([]domain.MenuItem, error) {
	items, err := s.items.List(ctx, filter)
	if err != nil {
		return nil, mapRepoError(err, "menu item")
	}
	return items, nil
}

// Get returns a menu item by id.
func (s *MenuItemService) Get(ctx context.Context, id int64) (*domain.MenuItem, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "menu item")
	}
	return item, nil
}

// Create adds a menu item. A restricted scope pins the item to the scoped
// restaurant regardless of the input.
func (s *MenuItemService) Create(ctx context.Context, scope Scope, input MenuItemInput) (*domain.MenuItem, error) {
	restaurantID := input.RestaurantID
	if scope.Restricted() {
		restaurantID = scope.RestaurantID
	}
	if restaurantID == nil {
		return nil, apperrors.NewValidationError("restaurant_id is required", nil)
	}
	if err := ensureRestaurant(ctx, s.restaurants, restaurantID); err != nil {
		return nil, err
	}
	if input.Name == nil || input.Cost == nil {
		return nil, apperrors.NewValidationError("name and cost are required", nil)
	}

	item := &domain.MenuItem{RestaurantID: *restaurantID, Status: domain.MenuItemStatusAvailable}
	if err := applyMenuItemInput(item, input); err != nil {
		return nil, err
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, mapRepoError(err, "menu item")
	}
	return item, nil
}

// Update modifies a menu item within scope. Items outside the scope are
// reported as not found.
func (s *MenuItemService) Update(ctx context.Context, scope Scope, id int64, input MenuItemInput) (*domain.MenuItem, error) {
	item, err := s.scoped(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := applyMenuItemInput(item, input); err != nil {
		return nil, err
	}
	if err := s.items.Update(ctx, item); err != nil {
		return nil, mapRepoError(err, "menu item")
	}
	return item, nil
}

// Delete removes a menu item within scope.
func (s *MenuItemService) Delete(ctx context.Context, scope Scope, id int64) error {
	if _, err := s.scoped(ctx, scope, id); err != nil {
		return err
	}
	if err := s.items.Delete(ctx, id); err != nil {
		return mapRepoError(err, "menu item")
	}
	return nil
}

func (s *MenuItemService) scoped(ctx context.Context, scope Scope, id int64) (*domain.MenuItem, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "menu item")
	}
	if !scope.allows(item.RestaurantID) {
		return nil, apperrors.NewNotFound("menu item", nil)
	}
	return item, nil
}

func applyMenuItemInput(item *domain.MenuItem, input MenuItemInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return apperrors.NewValidationError("menu item name is required", nil)
		}
		item.Name = name
	}
	if input.Description != nil {
		item.Description = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return apperrors.NewValidationError("invalid menu item status", nil)
		}
		item.Status = *input.Status
	}
	if input.Cost != nil {
		if *input.Cost <= 0 {
			return apperrors.NewValidationError("cost must be positive", nil)
		}
		item.Cost = *input.Cost
	}
	if input.ImageURL != nil {
		item.ImageURL = strings.TrimSpace(*input.ImageURL)
	}
	return nil
}
