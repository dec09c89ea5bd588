package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/fooddash/food-delivery-service/internal/auth"
	"github.com/fooddash/food-delivery-service/internal/config"
	"github.com/fooddash/food-delivery-service/internal/domain"
	"github.com/fooddash/food-delivery-service/internal/events"
	"github.com/fooddash/food-delivery-service/internal/repository/memory"
	apperrors "github.com/fooddash/food-delivery-service/pkg/util/errorutil"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:               "test-secret",
		BcryptCost:              4,
		PasswordResetTTLMinutes: 30,
		DefaultResetPassword:    "changeme123",
	}
}

func newTestAuthService(t *testing.T, store *memory.Store, dispatcher events.Dispatcher) *AuthService {
	t.Helper()
	cfg := testAuthConfig()
	return NewAuthService(cfg, AuthDependencies{
		UserRepo:          store.Users(),
		RestaurantRepo:    store.Restaurants(),
		PasswordResetRepo: store.PasswordResets(),
		TokenManager:      auth.NewTokenManager(cfg.JWTSecret),
		Dispatcher:        dispatcher,
		Logger:            zaptest.NewLogger(t),
	})
}

var testAdmin = &domain.User{ID: 1, Role: domain.RoleAdmin, Status: domain.UserStatusActive}

func registerActive(t *testing.T, svc *AuthService, telephone, password string, role domain.Role) *domain.User {
	t.Helper()
	status := domain.UserStatusActive
	user, err := svc.Register(context.Background(), testAdmin, RegisterInput{
		FirstName: "Test",
		Telephone: telephone,
		Password:  password,
		Role:      &role,
		Status:    &status,
	})
	if err != nil {
		t.Fatalf("register %s: %v", telephone, err)
	}
	return user
}

func TestRegister_DefaultsAndEvent(t *testing.T) {
	store := memory.NewStore()
	dispatcher := events.NewInMemoryDispatcher()
	var got []events.Event
	dispatcher.Subscribe(events.EventUserRegistered, func(_ context.Context, e events.Event) error {
		got = append(got, e)
		return nil
	})
	svc := newTestAuthService(t, store, dispatcher)

	user, err := svc.Register(context.Background(), nil, RegisterInput{Telephone: "555", Password: "pw123456"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != domain.RoleUser || user.Status != domain.UserStatusNotVerified {
		t.Fatalf("unexpected defaults: role=%v status=%v", user.Role, user.Status)
	}
	if user.PasswordHash == "pw123456" || !auth.PasswordMatches(user.PasswordHash, "pw123456") {
		t.Fatalf("password not hashed correctly")
	}
	if len(got) != 1 || got[0].Type != events.EventUserRegistered {
		t.Fatalf("expected one user.registered event, got %v", got)
	}
}

func TestRegister_Rejects(t *testing.T) {
	store := memory.NewStore()
	svc := newTestAuthService(t, store, nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, nil, RegisterInput{Telephone: "1", Password: "short"}); !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error for short password, got %v", err)
	}
	if _, err := svc.Register(ctx, nil, RegisterInput{Telephone: "1", Password: "pw123456"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, nil, RegisterInput{Telephone: "1", Password: "pw123456"}); !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict for duplicate telephone, got %v", err)
	}
	missing := int64(42)
	if _, err := svc.Register(ctx, testAdmin, RegisterInput{Telephone: "2", Password: "pw123456", RestaurantID: &missing}); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found for unknown restaurant, got %v", err)
	}
	bad := domain.Role(9)
	if _, err := svc.Register(ctx, testAdmin, RegisterInput{Telephone: "3", Password: "pw123456", Role: &bad}); !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error for invalid role, got %v", err)
	}
}

func TestRegister_PrivilegedFields(t *testing.T) {
	store := memory.NewStore()
	svc := newTestAuthService(t, store, nil)
	ctx := context.Background()
	admin := domain.RoleAdmin
	active := domain.UserStatusActive

	first, err := svc.Register(ctx, nil, RegisterInput{Telephone: "555", Password: "pw123456", Role: &admin, Status: &active})
	if err != nil {
		t.Fatalf("first registration into an empty store: %v", err)
	}
	if first.Role != domain.RoleAdmin || first.Status != domain.UserStatusActive {
		t.Fatalf("first registration lost its fields: %+v", first)
	}

	if _, err := svc.Register(ctx, nil, RegisterInput{Telephone: "556", Password: "pw123456", Role: &admin}); !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("anonymous role: expected unauthorized, got %v", err)
	}
	if _, err := svc.Register(ctx, nil, RegisterInput{Telephone: "557", Password: "pw123456", Status: &active}); !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("anonymous status: expected unauthorized, got %v", err)
	}
	owner := &domain.User{ID: 9, Role: domain.RoleRestaurantOwner}
	if _, err := svc.Register(ctx, owner, RegisterInput{Telephone: "558", Password: "pw123456", Role: &admin}); !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("non-admin actor: expected unauthorized, got %v", err)
	}
	if _, err := store.Users().GetByTelephoneOrUsername(ctx, "556"); err == nil {
		t.Fatalf("rejected registration was stored")
	}

	user, err := svc.Register(ctx, first, RegisterInput{Telephone: "559", Password: "pw123456", Status: &active})
	if err != nil {
		t.Fatalf("admin registration: %v", err)
	}
	if user.Status != domain.UserStatusActive {
		t.Fatalf("admin-set status ignored: %+v", user)
	}
}

func TestAuthenticate(t *testing.T) {
	store := memory.NewStore()
	svc := newTestAuthService(t, store, nil)
	ctx := context.Background()
	admin := registerActive(t, svc, "555", "pw123456", domain.RoleAdmin)

	t.Run("success by telephone", func(t *testing.T) {
		res, err := svc.Authenticate(ctx, "555", "pw123456")
		if err != nil {
			t.Fatalf("authenticate: %v", err)
		}
		if res.User.ID != admin.ID || res.Token == "" {
			t.Fatalf("unexpected result: %+v", res)
		}
		subject, err := svc.TokenManager().Verify(res.Token)
		if err != nil || subject != admin.ID {
			t.Fatalf("token does not verify to subject: %d %v", subject, err)
		}
		if d := time.Until(res.ExpiresAt); d < auth.TokenTTL-time.Minute || d > auth.TokenTTL {
			t.Fatalf("unexpected expiry: %v", res.ExpiresAt)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "555", "nope")
		if !apperrors.HasCode(err, apperrors.CodeInvalidCredentials) {
			t.Fatalf("expected invalid credentials, got %v", err)
		}
	})

	t.Run("unknown identifier", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "000", "pw123456")
		if !apperrors.HasCode(err, apperrors.CodeInvalidCredentials) {
			t.Fatalf("expected invalid credentials, got %v", err)
		}
	})

	t.Run("not active", func(t *testing.T) {
		if _, err := svc.Register(ctx, nil, RegisterInput{Telephone: "777", Password: "pw123456"}); err != nil {
			t.Fatalf("register: %v", err)
		}
		_, err := svc.Authenticate(ctx, "777", "pw123456")
		if !apperrors.HasCode(err, apperrors.CodeAccountNotActive) {
			t.Fatalf("expected account not active, got %v", err)
		}
	})

	t.Run("status is case insensitive", func(t *testing.T) {
		u := registerActive(t, svc, "888", "pw123456", domain.RoleUser)
		u.Status = "ACTIVE"
		if err := store.Users().Update(ctx, u); err != nil {
			t.Fatalf("update: %v", err)
		}
		if _, err := svc.Authenticate(ctx, "888", "pw123456"); err != nil {
			t.Fatalf("expected success for ACTIVE status, got %v", err)
		}
	})

	t.Run("wrong password wins over inactive status", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "777", "nope")
		if !apperrors.HasCode(err, apperrors.CodeInvalidCredentials) {
			t.Fatalf("expected invalid credentials, got %v", err)
		}
	})
}

func TestChangePassword(t *testing.T) {
	store := memory.NewStore()
	svc := newTestAuthService(t, store, nil)
	ctx := context.Background()
	user := registerActive(t, svc, "555", "pw123456", domain.RoleUser)

	if err := svc.ChangePassword(ctx, user.ID, "wrong", "newpass1"); !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error for wrong current password, got %v", err)
	}
	if err := svc.ChangePassword(ctx, user.ID, "pw123456", "newpass1"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "555", "newpass1"); err != nil {
		t.Fatalf("authenticate with new password: %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	store := memory.NewStore()
	dispatcher := events.NewInMemoryDispatcher()
	var requested []events.PasswordResetRequestedPayload
	dispatcher.Subscribe(events.EventPasswordResetRequested, func(_ context.Context, e events.Event) error {
		requested = append(requested, e.Payload.(events.PasswordResetRequestedPayload))
		return nil
	})
	svc := newTestAuthService(t, store, dispatcher)
	ctx := context.Background()
	user := registerActive(t, svc, "555", "pw123456", domain.RoleUser)

	if err := svc.RequestPasswordReset(ctx, testAdmin.ID, "555"); err != nil {
		t.Fatalf("request reset: %v", err)
	}
	if len(requested) != 1 || requested[0].UserID != user.ID || requested[0].Token == "" {
		t.Fatalf("expected one reset event for the user, got %+v", requested)
	}
	token := requested[0].Token

	if err := svc.ConfirmPasswordReset(ctx, token, "fresh-pass"); err != nil {
		t.Fatalf("confirm reset: %v", err)
	}
	if err := svc.ConfirmPasswordReset(ctx, token, "another-pass"); !apperrors.HasCode(err, apperrors.CodeBadRequest) {
		t.Fatalf("reset token should be single use, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "555", "fresh-pass"); err != nil {
		t.Fatalf("authenticate after reset: %v", err)
	}
}

func TestRequestPasswordReset_UnknownIdentifierIsSilent(t *testing.T) {
	store := memory.NewStore()
	dispatcher := events.NewInMemoryDispatcher()
	var count int
	dispatcher.Subscribe(events.EventPasswordResetRequested, func(context.Context, events.Event) error {
		count++
		return nil
	})
	svc := newTestAuthService(t, store, dispatcher)

	if err := svc.RequestPasswordReset(context.Background(), testAdmin.ID, "000"); err != nil {
		t.Fatalf("unknown identifier should not be reported, got %v", err)
	}
	if count != 0 {
		t.Fatalf("no reset event expected for an unknown identifier, got %d", count)
	}
}

func TestResetPassword_SetsDefaultAndFlag(t *testing.T) {
	store := memory.NewStore()
	svc := newTestAuthService(t, store, nil)
	ctx := context.Background()
	user := registerActive(t, svc, "555", "pw123456", domain.RoleUser)

	if err := svc.ResetPassword(ctx, user.ID); err != nil {
		t.Fatalf("reset: %v", err)
	}
	reloaded, _ := store.Users().GetByID(ctx, user.ID)
	if !reloaded.PasswordReset {
		t.Fatalf("password_reset flag not set")
	}
	if _, err := svc.Authenticate(ctx, "555", "changeme123"); err != nil {
		t.Fatalf("authenticate with default password: %v", err)
	}
}
