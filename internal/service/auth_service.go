package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/fooddash/food-delivery-service/internal/auth"
	"github.com/fooddash/food-delivery-service/internal/config"
	"github.com/fooddash/food-delivery-service/internal/domain"
	"github.com/fooddash/food-delivery-service/internal/events"
	"github.com/fooddash/food-delivery-service/internal/repository"
	apperrors "github.com/fooddash/food-delivery-service/pkg/util/errorutil"
)

var tracer = otel.Tracer("github.com/fooddash/food-delivery-service/internal/service")

// MinPasswordLength is the shortest accepted secret.
const MinPasswordLength = 6

// AuthService coordinates registration, authentication and password flows.
type AuthService struct {
	users       repository.UserRepository
	restaurants repository.RestaurantRepository
	resets      repository.PasswordResetRepository
	tokenMgr    *auth.TokenManager
	dispatcher  events.Dispatcher
	logger      *zap.Logger

	bcryptCost      int
	resetTTL        time.Duration
	defaultPassword string
	now             func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo          repository.UserRepository
	RestaurantRepo    repository.RestaurantRepository
	PasswordResetRepo repository.PasswordResetRepository
	TokenManager      *auth.TokenManager
	Dispatcher        events.Dispatcher
	Logger            *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tokenMgr := deps.TokenManager
	if tokenMgr == nil {
		tokenMgr = auth.NewTokenManager(cfg.JWTSecret)
	}
	return &AuthService{
		users:           deps.UserRepo,
		restaurants:     deps.RestaurantRepo,
		resets:          deps.PasswordResetRepo,
		tokenMgr:        tokenMgr,
		dispatcher:      deps.Dispatcher,
		logger:          logger,
		bcryptCost:      cfg.BcryptCost,
		resetTTL:        cfg.PasswordResetTTL(),
		defaultPassword: cfg.DefaultResetPassword,
		now:             time.Now,
	}
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	FirstName    string
	LastName     string
	Username     string
	Telephone    string
	Password     string
	Role         *domain.Role
	Status       *domain.UserStatus
	RestaurantID *int64
}

func (in RegisterInput) privileged() bool {
	return in.Role != nil || in.Status != nil || in.RestaurantID != nil
}

// AuthResult is returned by a successful authentication.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// Register creates a new identity. Role defaults to User and status to
// not-verified. Role, status and restaurant may only be chosen by an Admin
// actor, or by anyone while the credential store is still empty.
func (s *AuthService) Register(ctx context.Context, actor *domain.User, input RegisterInput) (*domain.User, error) {
	if input.privileged() && (actor == nil || actor.Role != domain.RoleAdmin) {
		empty, err := s.storeEmpty(ctx)
		if err != nil {
			return nil, err
		}
		if !empty {
			s.logger.Debug("privileged registration denied", zap.Bool("authenticated", actor != nil))
			return nil, apperrors.NewUnauthorized()
		}
	}

	telephone := strings.TrimSpace(input.Telephone)
	if telephone == "" {
		return nil, apperrors.NewValidationError("telephone is required", nil)
	}
	if len(input.Password) < MinPasswordLength {
		return nil, apperrors.NewValidationError("password is too short", map[string]any{"min": MinPasswordLength})
	}

	user := &domain.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Username:     strings.TrimSpace(input.Username),
		Telephone:    telephone,
		Role:         domain.RoleUser,
		Status:       domain.UserStatusNotVerified,
		RestaurantID: input.RestaurantID,
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

	if err := ensureRestaurant(ctx, s.restaurants, user.RestaurantID); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash

	if err := s.users.Create(ctx, user); err != nil {
		return nil, mapRepoError(err, "user")
	}

	emit(ctx, s.dispatcher, s.logger, events.New(events.EventUserRegistered, &user.ID, events.UserRegisteredPayload{
		UserID:       user.ID,
		Role:         user.Role,
		RestaurantID: user.RestaurantID,
	}))
	return user, nil
}

// Authenticate verifies credentials and issues a token. A wrong secret and an
// unknown identifier are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, identifier, password string) (*AuthResult, error) {
	ctx, span := tracer.Start(ctx, "auth.login")
	defer span.End()

	user, err := s.users.GetByTelephoneOrUsername(ctx, strings.TrimSpace(identifier))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			auth.PasswordMatches(s.fallbackHash(), password)
			span.SetStatus(codes.Error, "invalid credentials")
			return nil, apperrors.NewInvalidCredentials()
		}
		span.RecordError(err)
		return nil, apperrors.NewInternalError(err)
	}
	span.SetAttributes(attribute.Int64("auth.subject_id", user.ID))

	if !auth.PasswordMatches(user.PasswordHash, password) {
		span.SetStatus(codes.Error, "invalid credentials")
		s.logger.Debug("authentication failed", zap.String("reason", "invalid credentials"), zap.Int64("subject_id", user.ID))
		return nil, apperrors.NewInvalidCredentials()
	}
	if !user.Status.IsActive() {
		span.SetStatus(codes.Error, "account not active")
		s.logger.Debug("authentication failed", zap.String("reason", "account not active"), zap.Int64("subject_id", user.ID))
		return nil, apperrors.NewAccountNotActive()
	}

	token, exp, err := s.tokenMgr.Issue(user.ID, user.Username)
	if err != nil {
		span.RecordError(err)
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}

// ChangePassword verifies the current password before storing the new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return mapRepoError(err, "user")
	}
	if !auth.PasswordMatches(user.PasswordHash, currentPassword) {
		return apperrors.NewValidationError("current password entered is incorrect", nil)
	}
	return s.setPassword(ctx, user, newPassword, false)
}

// RequestPasswordReset stores a single-use reset token for the identity and
// hands it to the event pipeline for out-of-band delivery. The token is never
// returned to the caller, and an unknown identifier is not reported.
func (s *AuthService) RequestPasswordReset(ctx context.Context, actorID int64, identifier string) error {
	user, err := s.users.GetByTelephoneOrUsername(ctx, strings.TrimSpace(identifier))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Debug("password reset requested for unknown identity", zap.Int64("subject_id", actorID))
			return nil
		}
		return apperrors.NewInternalError(err)
	}
	token := &domain.PasswordResetToken{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return apperrors.NewInternalError(err)
	}

	emit(ctx, s.dispatcher, s.logger, events.New(events.EventPasswordResetRequested, &actorID, events.PasswordResetRequestedPayload{
		UserID:    user.ID,
		Telephone: user.Telephone,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	}))
	return nil
}

// ConfirmPasswordReset consumes the reset token and stores the new password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return apperrors.NewValidationError("password is too short", map[string]any{"min": MinPasswordLength})
	}
	token, err := s.resets.Consume(ctx, tokenStr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewBadRequest("reset token expired or already used")
		}
		return apperrors.NewInternalError(err)
	}
	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		return mapRepoError(err, "user")
	}
	return s.setPassword(ctx, user, newPassword, false)
}

// ResetPassword replaces a user's password with the configured default and
// flags the account so the user is prompted to change it.
func (s *AuthService) ResetPassword(ctx context.Context, userID int64) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return mapRepoError(err, "user")
	}
	return s.setPassword(ctx, user, s.defaultPassword, true)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) setPassword(ctx context.Context, user *domain.User, password string, resetFlag bool) error {
	if len(password) < MinPasswordLength {
		return apperrors.NewValidationError("password is too short", map[string]any{"min": MinPasswordLength})
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	user.PasswordReset = resetFlag
	if err := s.users.Update(ctx, user); err != nil {
		return mapRepoError(err, "user")
	}
	return nil
}

// fallbackHash is compared against when no identity matches, so unknown
// identifiers cost the same bcrypt work as wrong passwords.
func (s *AuthService) fallbackHash() string {
	s.dummyOnce.Do(func() {
		hash, err := auth.HashPassword(uuid.NewString(), s.bcryptCost)
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}

func (s *AuthService) storeEmpty(ctx context.Context) (bool, error) {
	users, err := s.users.List(ctx, repository.UserFilter{Limit: 1})
	if err != nil {
		return false, mapRepoError(err, "user")
	}
	return len(users) == 0, nil
}

// ensureRestaurant checks that an optional restaurant reference resolves.
func ensureRestaurant(ctx context.Context, restaurants repository.RestaurantRepository, id *int64) error {
	if id == nil || restaurants == nil {
		return nil
	}
	if _, err := restaurants.GetByID(ctx, *id); err != nil {
		return mapRepoError(err, "restaurant")
	}
	return nil
}

func mapRepoError(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound(resource, nil)
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.NewConflict(resource+" already exists", nil)
	}
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return apperrors.NewInternalError(err)
}
