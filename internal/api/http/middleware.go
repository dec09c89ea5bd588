package http

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fooddash/food-delivery-service/internal/observability"
	apperrors "github.com/fooddash/food-delivery-service/pkg/util/errorutil"
)

// RegisterMiddlewares installs, outermost first: request logging, error
// rendering with panic recovery, and the per-request deadline.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(renderErrors(logger, metrics))
	if timeout > 0 {
		app.Use(withDeadline(timeout))
	}
}

func withDeadline(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// renderErrors turns handler errors and panics into the JSON error envelope.
// Nothing below it writes an error body of its own.
func renderErrors(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.String("request_id", observability.RequestID(c)),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(fmt.Errorf("panic: %v", r))
			}
			if err != nil {
				err = writeError(c, logger, metrics, err)
			}
		}()
		return c.Next()
	}
}

func writeError(c *fiber.Ctx, logger *zap.Logger, metrics *observability.Metrics, err error) error {
	de := apperrors.ToDomainError(err)
	requestID := observability.RequestID(c)
	metrics.RecordError(c.Route().Path, c.Method(), de.Code)
	if de.HTTPStatus >= fiber.StatusInternalServerError {
		logger.Error("request failed", zap.String("request_id", requestID), zap.Error(de))
	}

	body := fiber.Map{
		"code":    de.Code,
		"message": de.Message,
	}
	if len(de.Details) > 0 {
		body["details"] = de.Details
	}
	if requestID != "" {
		body["request_id"] = requestID
	}
	return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": body})
}
