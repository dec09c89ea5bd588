package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fooddash/food-delivery-service/internal/auth"
	"github.com/fooddash/food-delivery-service/internal/config"
	"github.com/fooddash/food-delivery-service/internal/domain"
	"github.com/fooddash/food-delivery-service/internal/repository"
	apperrors "github.com/fooddash/food-delivery-service/pkg/util/errorutil"
)

// UserService manages identity records after registration.
type UserService struct {
	users       repository.UserRepository
	restaurants repository.RestaurantRepository
	orders      repository.OrderRepository
	logger      *zap.Logger
	bcryptCost  int
}

// UserDependencies encapsulates repositories required by UserService.
type UserDependencies struct {
	UserRepo       repository.UserRepository
	RestaurantRepo repository.RestaurantRepository
	OrderRepo      repository.OrderRepository
	Logger         *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(cfg config.AuthConfig, deps UserDependencies) *UserService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		users:       deps.UserRepo,
		restaurants: deps.RestaurantRepo,
		orders:      deps.OrderRepo,
		logger:      logger,
		bcryptCost:  cfg.BcryptCost,
	}
}

// UpdateUserInput lists every field a caller may change. Role, Status and
// RestaurantID are privileged and need an Admin actor.
type UpdateUserInput struct {
	FirstName    *string
	LastName     *string
	Username     *string
	Telephone    *string
	Password     *string
	Role         *domain.Role
	Status       *domain.UserStatus
	RestaurantID *int64
}

func (in UpdateUserInput) privileged() bool {
	return in.Role != nil || in.Status != nil || in.RestaurantID != nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "user")
	}
	return user, nil
}

// List returns users, optionally restricted to the staff of one restaurant.
func (s *UserService) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, mapRepoError(err, "user")
	}
	return users, nil
}

// Update applies the allow-listed changes to a user record.
func (s *UserService) Update(ctx context.Context, actor *domain.User, id int64, input UpdateUserInput) (*domain.User, error) {
	if input.privileged() && (actor == nil || actor.Role != domain.RoleAdmin) {
		var actorID int64
		if actor != nil {
			actorID = actor.ID
		}
		s.logger.Debug("privileged user update denied", zap.Int64("subject_id", actorID), zap.Int64("user_id", id))
		return nil, apperrors.NewUnauthorized()
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "user")
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Username != nil {
		user.Username = strings.TrimSpace(*input.Username)
	}
	if input.Telephone != nil {
		telephone := strings.TrimSpace(*input.Telephone)
		if telephone == "" {
			return nil, apperrors.NewValidationError("telephone is required", nil)
		}
		user.Telephone = telephone
	}
	if input.Password != nil {
		if len(*input.Password) < MinPasswordLength {
			return nil, apperrors.NewValidationError("password is too short", map[string]any{"min": MinPasswordLength})
		}
		hash, err := auth.HashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		user.PasswordHash = hash
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, apperrors.NewValidationError("invalid role", nil)
		}
		user.Role = *input.Role
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperrors.NewValidationError("invalid status", nil)
		}
		user.Status = *input.Status
	}
	if input.RestaurantID != nil {
		if err := ensureRestaurant(ctx, s.restaurants, input.RestaurantID); err != nil {
			return nil, err
		}
		user.RestaurantID = input.RestaurantID
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, mapRepoError(err, "user")
	}
	return user, nil
}

// Delete removes a user record and the orders placed by it.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return mapRepoError(err, "user")
	}
	return nil
}

// ListOrders returns the orders placed by a user.
func (s *UserService) ListOrders(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, mapRepoError(err, "user")
	}
	orders, err := s.orders.List(ctx, repository.OrderFilter{UserID: &userID, Limit: limit, Offset: offset})
	if err != nil {
		return nil, mapRepoError(err, "order")
	}
	return orders, nil
}
