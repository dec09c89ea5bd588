package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/fooddash/food-delivery-service/internal/domain"
	"github.com/fooddash/food-delivery-service/internal/repository"
	apperrors "github.com/fooddash/food-delivery-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

var tracer = otel.Tracer("github.com/fooddash/food-delivery-service/internal/auth")

// Principal represents the authenticated caller, freshly loaded from the store.
type Principal struct {
	User *domain.User
}

// ID returns the caller's user id.
func (p *Principal) ID() int64 {
	if p == nil || p.User == nil {
		return 0
	}
	return p.User.ID
}

// Role returns the caller's current role.
func (p *Principal) Role() domain.Role {
	if p == nil || p.User == nil {
		return domain.RoleUnknown
	}
	return p.User.Role
}

// IsAdmin reports whether the caller holds the Admin rank.
func (p *Principal) IsAdmin() bool {
	return p.Role() == domain.RoleAdmin
}

// IdentityFinder is the slice of the credential store the middleware needs.
type IdentityFinder interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
	users  IdentityFinder
	logger *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users IdentityFinder, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{tokens: tokens, users: users, logger: logger}
}

// Handle enforces authentication for protected routes. The identity is
// re-fetched on every request so role and ownership changes apply immediately.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	ctx, span := tracer.Start(c.UserContext(), "auth.authenticate")
	defer span.End()

	token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		span.SetStatus(codes.Error, "missing bearer token")
		m.logger.Debug("authentication failed", zap.String("reason", "missing bearer token"))
		return apperrors.NewUnauthorized()
	}

	subjectID, err := m.tokens.Verify(token)
	if err != nil {
		span.SetStatus(codes.Error, "invalid token")
		m.logger.Debug("authentication failed", zap.String("reason", "invalid token"))
		return err
	}
	span.SetAttributes(attribute.Int64("auth.subject_id", subjectID))

	user, err := m.users.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			span.SetStatus(codes.Error, "subject not found")
			m.logger.Debug("authentication failed", zap.String("reason", "subject not found"), zap.Int64("subject_id", subjectID))
			return apperrors.NewUnauthorized()
		}
		span.RecordError(err)
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{User: user})
	return c.Next()
}

// Optional authenticates the caller only when an Authorization header is
// present. A header that fails verification is still rejected.
func (m *AuthMiddleware) Optional(c *fiber.Ctx) error {
	if c.Get(fiber.HeaderAuthorization) == "" {
		return c.Next()
	}
	return m.Handle(c)
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok && principal != nil && principal.User != nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
