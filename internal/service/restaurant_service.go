package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fooddash/food-delivery-service/internal/domain"
	"github.com/fooddash/food-delivery-service/internal/events"
	"github.com/fooddash/food-delivery-service/internal/repository"
	apperrors "github.com/fooddash/food-delivery-service/pkg/util/errorutil"
)

// RestaurantService manages restaurants.
type RestaurantService struct {
	restaurants repository.RestaurantRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// NewRestaurantService constructs the service.
func NewRestaurantService(restaurants repository.RestaurantRepository, dispatcher events.Dispatcher, logger *zap.Logger) *RestaurantService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RestaurantService{restaurants: restaurants, dispatcher: dispatcher, logger: logger}
}

// RestaurantInput carries restaurant fields. Nil fields are left unchanged on
// update.
type RestaurantInput struct {
	Name     *string
	ImageURL *string
	Status   *domain.RestaurantStatus
}

// List returns a page of restaurants.
func (s *RestaurantService) List(ctx context.Context, limit, offset int) ([]domain.Restaurant, error) {
	restaurants, err := s.restaurants.List(ctx, limit, offset)
	if err != nil {
		return nil, mapRepoError(err, "restaurant")
	}
	return restaurants, nil
}

// Get returns a restaurant by id.
func (s *RestaurantService) Get(ctx context.Context, id int64) (*domain.Restaurant, error) {
	restaurant, err := s.restaurants.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "restaurant")
	}
	return restaurant, nil
}

// Create adds a restaurant. New restaurants start as pending unless a status
// is given.
func (s *RestaurantService) Create(ctx context.Context, input RestaurantInput) (*domain.Restaurant, error) {
	restaurant := &domain.Restaurant{Status: domain.RestaurantStatusPending}
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, apperrors.NewValidationError("restaurant name is required", nil)
	}
	if err := applyRestaurantInput(restaurant, input); err != nil {
		return nil, err
	}
	if err := s.restaurants.Create(ctx, restaurant); err != nil {
		return nil, mapRepoError(err, "restaurant")
	}
	return restaurant, nil
}

// Update modifies a restaurant.
func (s *RestaurantService) Update(ctx context.Context, id int64, input RestaurantInput) (*domain.Restaurant, error) {
	restaurant, err := s.restaurants.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "restaurant")
	}
	if err := applyRestaurantInput(restaurant, input); err != nil {
		return nil, err
	}
	if err := s.restaurants.Update(ctx, restaurant); err != nil {
		return nil, mapRepoError(err, "restaurant")
	}
	return restaurant, nil
}

// Delete removes a restaurant together with its menu items and orders.
func (s *RestaurantService) Delete(ctx context.Context, actorID int64, id int64) error {
	if err := s.restaurants.Delete(ctx, id); err != nil {
		return mapRepoError(err, "restaurant")
	}
	emit(ctx, s.dispatcher, s.logger, events.New(events.EventRestaurantDeleted, &actorID, events.RestaurantDeletedPayload{RestaurantID: id}))
	return nil
}

func applyRestaurantInput(restaurant *domain.Restaurant, input RestaurantInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return apperrors.NewValidationError("restaurant name is required", nil)
		}
		restaurant.Name = name
	}
	if input.ImageURL != nil {
		restaurant.ImageURL = strings.TrimSpace(*input.ImageURL)
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return apperrors.NewValidationError("invalid restaurant status", nil)
		}
		restaurant.Status = *input.Status
	}
	return nil
}
