package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/fooddash/food-delivery-service/internal/api/http"
	"github.com/fooddash/food-delivery-service/internal/api/http/handlers"
	"github.com/fooddash/food-delivery-service/internal/auth"
	"github.com/fooddash/food-delivery-service/internal/config"
	"github.com/fooddash/food-delivery-service/internal/events"
	"github.com/fooddash/food-delivery-service/internal/mq"
	"github.com/fooddash/food-delivery-service/internal/observability"
	"github.com/fooddash/food-delivery-service/internal/persistence"
	"github.com/fooddash/food-delivery-service/internal/repository"
	"github.com/fooddash/food-delivery-service/internal/repository/memory"
	"github.com/fooddash/food-delivery-service/internal/service"
	"github.com/fooddash/food-delivery-service/internal/worker"
)

type stores struct {
	users       repository.UserRepository
	restaurants repository.RestaurantRepository
	menuItems   repository.MenuItemRepository
	orders      repository.OrderRepository
	resets      repository.PasswordResetRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracer, err := observability.InitTracer(ctx, *cfg, logger)
	if err != nil {
		logger.Warn("tracing unavailable", zap.Error(err))
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	repos := buildStores(pg, redis)

	dispatcher := events.NewInMemoryDispatcher()
	var publisher service.EventPublisher
	var deliveries *worker.NotificationWorker
	if cfg.AMQP.URL != "" {
		p, err := mq.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			logger.Warn("event forwarding disabled", zap.Error(err))
		} else {
			defer p.Close() //nolint:errcheck
			deliveries = worker.NewNotificationWorker(p, cfg.AMQP.QueueSize, cfg.AMQP.PublishDeadline(), logger.Named("delivery"))
			deliveries.Start()
			publisher = deliveries
		}
	}
	service.NewNotificationService(dispatcher, publisher, logger.Named("events")).RegisterHandlers()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret)
	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:          repos.users,
		RestaurantRepo:    repos.restaurants,
		PasswordResetRepo: repos.resets,
		TokenManager:      tokens,
		Dispatcher:        dispatcher,
		Logger:            logger.Named("auth"),
	})
	userService := service.NewUserService(cfg.Auth, service.UserDependencies{
		UserRepo:       repos.users,
		RestaurantRepo: repos.restaurants,
		OrderRepo:      repos.orders,
		Logger:         logger.Named("users"),
	})
	restaurantService := service.NewRestaurantService(repos.restaurants, dispatcher, logger.Named("restaurants"))
	menuItemService := service.NewMenuItemService(repos.menuItems, repos.restaurants)
	orderService := service.NewOrderService(service.OrderDependencies{
		OrderRepo:    repos.orders,
		MenuItemRepo: repos.menuItems,
		Dispatcher:   dispatcher,
		Logger:       logger.Named("orders"),
	})
	authMiddleware := auth.NewAuthMiddleware(tokens, repos.users, logger.Named("authz"))

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: !cfg.App.IsDevelopment(),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, metrics, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Users:          handlers.NewUsersHandler(authService, userService),
		Restaurants:    handlers.NewRestaurantsHandler(restaurantService),
		MenuItems:      handlers.NewMenuItemsHandler(menuItemService),
		Orders:         handlers.NewOrdersHandler(orderService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.ShutdownWithTimeout(10 * time.Second)
	if deliveries != nil {
		deliveries.Stop()
	}

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer flushCancel()
	if shutdownTracer != nil {
		if err := shutdownTracer(flushCtx); err != nil {
			logger.Warn("tracer shutdown", zap.Error(err))
		}
	}
}

// buildStores picks Postgres and Redis when configured and falls back to the
// in-process store otherwise.
func buildStores(pg *persistence.Postgres, redis *persistence.Redis) stores {
	var s stores
	mem := memory.NewStore()
	if pg.Enabled() {
		s.users = repository.NewUserRepository(pg.Pool)
		s.restaurants = repository.NewRestaurantRepository(pg.Pool)
		s.menuItems = repository.NewMenuItemRepository(pg.Pool)
		s.orders = repository.NewOrderRepository(pg.Pool)
	} else {
		s.users = mem.Users()
		s.restaurants = mem.Restaurants()
		s.menuItems = mem.MenuItems()
		s.orders = mem.Orders()
	}
	if redis.Enabled() {
		s.resets = repository.NewPasswordResetRepository(redis.Client)
	} else {
		s.resets = mem.PasswordResets()
	}
	return s
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
