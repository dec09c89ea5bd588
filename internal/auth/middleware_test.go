package auth

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap/zaptest"

	"github.com/fooddash/food-delivery-service/internal/domain"
	"github.com/fooddash/food-delivery-service/internal/repository/memory"
	apperrors "github.com/fooddash/food-delivery-service/pkg/util/errorutil"
)

func newTestApp(t *testing.T, store *memory.Store, tm *TokenManager) *fiber.App {
	t.Helper()
	m := NewAuthMiddleware(tm, store.Users(), zaptest.NewLogger(t))
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"code": de.Code})
		},
	})
	app.Get("/users/:id", m.Handle, m.Authorize(CollectionUsers, AuthorizeOwner()), func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		return c.JSON(fiber.Map{"id": p.ID()})
	})
	app.Get("/whoami", m.Optional, func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		return c.JSON(fiber.Map{"id": p.ID()})
	})
	app.Get("/admin", m.Handle, m.Authorize(CollectionUsers, AuthorizeRole(domain.RoleAdmin)), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func doGet(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request %s: %v", path, err)
	}
	return resp.StatusCode
}

func TestMiddleware_Authentication(t *testing.T) {
	store := memory.NewStore()
	tm := NewTokenManager("secret")
	app := newTestApp(t, store, tm)
	ctx := context.Background()

	user := &domain.User{Telephone: "1", Role: domain.RoleUser, Status: domain.UserStatusActive}
	if err := store.Users().Create(ctx, user); err != nil {
		t.Fatalf("create: %v", err)
	}
	token, _, err := tm.Issue(user.ID, "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if code := doGet(t, app, "/users/1", ""); code != fiber.StatusUnauthorized {
		t.Fatalf("missing token: got %d", code)
	}
	if code := doGet(t, app, "/users/1", "garbage"); code != fiber.StatusUnauthorized {
		t.Fatalf("bad token: got %d", code)
	}
	if code := doGet(t, app, "/users/1", token); code != fiber.StatusOK {
		t.Fatalf("own record: got %d", code)
	}
	if code := doGet(t, app, "/users/2", token); code != fiber.StatusUnauthorized {
		t.Fatalf("other record: got %d", code)
	}

	if err := store.Users().Delete(ctx, user.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if code := doGet(t, app, "/users/1", token); code != fiber.StatusUnauthorized {
		t.Fatalf("deleted identity must not authenticate: got %d", code)
	}
}

func TestMiddleware_RoleChangesApplyImmediately(t *testing.T) {
	store := memory.NewStore()
	tm := NewTokenManager("secret")
	app := newTestApp(t, store, tm)
	ctx := context.Background()

	admin := &domain.User{Telephone: "1", Role: domain.RoleAdmin, Status: domain.UserStatusActive}
	if err := store.Users().Create(ctx, admin); err != nil {
		t.Fatalf("create: %v", err)
	}
	token, _, _ := tm.Issue(admin.ID, "")

	if code := doGet(t, app, "/admin", token); code != fiber.StatusOK {
		t.Fatalf("admin access: got %d", code)
	}

	admin.Role = domain.RoleUser
	if err := store.Users().Update(ctx, admin); err != nil {
		t.Fatalf("update: %v", err)
	}
	if code := doGet(t, app, "/admin", token); code != fiber.StatusUnauthorized {
		t.Fatalf("downgraded identity kept admin access: got %d", code)
	}
}

func TestBearerToken(t *testing.T) {
	for header, want := range map[string]string{
		"Bearer abc":   "abc",
		"bearer  abc ": "abc",
	} {
		if got, ok := bearerToken(header); !ok || got != want {
			t.Fatalf("bearerToken(%q) = %q, %v", header, got, ok)
		}
	}
	for _, header := range []string{"", "Bearer", "Bearer ", "Basic abc", "abc"} {
		if _, ok := bearerToken(header); ok {
			t.Fatalf("bearerToken(%q) should fail", header)
		}
	}
}

func TestMiddleware_Optional(t *testing.T) {
	store := memory.NewStore()
	tm := NewTokenManager("secret")
	app := newTestApp(t, store, tm)

	user := &domain.User{Telephone: "1", Role: domain.RoleUser, Status: domain.UserStatusActive}
	if err := store.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("create: %v", err)
	}
	token, _, err := tm.Issue(user.ID, "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if code := doGet(t, app, "/whoami", ""); code != fiber.StatusOK {
		t.Fatalf("anonymous caller: got %d", code)
	}
	if code := doGet(t, app, "/whoami", token); code != fiber.StatusOK {
		t.Fatalf("authenticated caller: got %d", code)
	}
	if code := doGet(t, app, "/whoami", "garbage"); code != fiber.StatusUnauthorized {
		t.Fatalf("a present but invalid token must still fail: got %d", code)
	}
}
