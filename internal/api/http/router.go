package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fooddash/food-delivery-service/internal/api/http/handlers"
	"github.com/fooddash/food-delivery-service/internal/auth"
	"github.com/fooddash/food-delivery-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Restaurants    *handlers.RestaurantsHandler
	MenuItems      *handlers.MenuItemsHandler
	Orders         *handlers.OrdersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Every protected route authenticates first
// and then runs its predicates in order.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	m := cfg.AuthMiddleware
	authenticate := m.Handle

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", authenticate,
		m.Authorize(auth.CollectionService, auth.AuthorizeRole(domain.RoleAdmin)),
		cfg.Health.Metrics)

	users := app.Group("/users")
	adminOnly := m.Authorize(auth.CollectionUsers, auth.AuthorizeRole(domain.RoleAdmin))
	users.Post("/register", m.Optional, cfg.Users.Register)
	users.Post("/authenticate", cfg.Users.Authenticate)
	users.Post("/password/reset/request", authenticate, adminOnly, cfg.Users.RequestPasswordReset)
	users.Post("/password/reset/confirm", cfg.Users.ConfirmPasswordReset)
	users.Post("/password/change", authenticate, m.Authorize(auth.CollectionUsers), cfg.Users.ChangePassword)

	owner := m.Authorize(auth.CollectionUsers, auth.AuthorizeOwner())
	users.Get("/", authenticate, adminOnly, cfg.Users.List)
	users.Get("/:id", authenticate, owner, cfg.Users.Get)
	users.Put("/:id", authenticate, owner, cfg.Users.Update)
	users.Delete("/:id", authenticate, owner, cfg.Users.Delete)
	users.Get("/:id/orders", authenticate, owner, cfg.Users.ListOrders)
	users.Post("/:id/password/reset", authenticate, adminOnly, cfg.Users.ResetPassword)

	restaurants := app.Group("/restaurants")
	restaurantStaff := m.Authorize(auth.CollectionRestaurants,
		auth.AuthorizeRole(domain.RoleRestaurantOwner),
		auth.AuthorizeRestaurantOwner())
	restaurants.Get("/", cfg.Restaurants.List)
	restaurants.Get("/:id", cfg.Restaurants.Get)
	restaurants.Post("/", authenticate, m.Authorize(auth.CollectionRestaurants, auth.AuthorizeRole(domain.RoleAdmin)), cfg.Restaurants.Create)
	restaurants.Put("/:id", authenticate, restaurantStaff, cfg.Restaurants.Update)
	restaurants.Delete("/:id", authenticate, restaurantStaff, cfg.Restaurants.Delete)

	menuItems := app.Group("/menu-items")
	menuStaff := m.Authorize(auth.CollectionMenuItems,
		auth.AuthorizeRole(domain.RoleRestaurantOwner),
		auth.AuthorizeRestaurantOwner())
	menuItems.Get("/", cfg.MenuItems.List)
	menuItems.Get("/:id", cfg.MenuItems.Get)
	menuItems.Post("/", authenticate, menuStaff, cfg.MenuItems.Create)
	menuItems.Put("/:id", authenticate, menuStaff, cfg.MenuItems.Update)
	menuItems.Delete("/:id", authenticate, menuStaff, cfg.MenuItems.Delete)

	orders := app.Group("/orders")
	orderStaff := m.Authorize(auth.CollectionOrders, auth.AuthorizeRestaurantOwner())
	orders.Post("/", authenticate, m.Authorize(auth.CollectionOrders), cfg.Orders.Create)
	orders.Get("/", authenticate, orderStaff, cfg.Orders.List)
	orders.Get("/:id", authenticate, orderStaff, cfg.Orders.Get)
	orders.Put("/:id", authenticate, orderStaff, cfg.Orders.Update)
	orders.Delete("/:id", authenticate, orderStaff, cfg.Orders.Delete)
}
