package handlers

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/fooddash/food-delivery-service/internal/api/dto"
	"github.com/fooddash/food-delivery-service/internal/auth"
	"github.com/fooddash/food-delivery-service/internal/service"
	apperrors "github.com/fooddash/food-delivery-service/pkg/util/errorutil"
)

// bind parses the JSON body into req and validates it.
func bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	return dto.Validate(req)
}

func pathID(c *fiber.Ctx, resource string) (int64, error) {
	id, ok := auth.ParseID(c.Params("id"))
	if !ok {
		return 0, apperrors.NewNotFound(resource, nil)
	}
	return id, nil
}

func principal(c *fiber.Ctx) (*auth.Principal, error) {
	p, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized()
	}
	return p, nil
}

// restaurantScope narrows non-admin callers to the restaurant in the query.
// The route's authorization predicate has already matched that restaurant
// against the caller.
func restaurantScope(c *fiber.Ctx) (service.Scope, error) {
	p, err := principal(c)
	if err != nil {
		return service.Scope{}, err
	}
	if p.IsAdmin() {
		return service.Scope{}, nil
	}
	id, ok := auth.ParseID(c.Query("restaurant"))
	if !ok {
		return service.Scope{}, apperrors.NewUnauthorized()
	}
	return service.RestaurantScope(id), nil
}

// restaurantFilter returns the optional "restaurant" query parameter.
func restaurantFilter(c *fiber.Ctx) (*int64, error) {
	raw := c.Query("restaurant")
	if raw == "" {
		return nil, nil
	}
	id, ok := auth.ParseID(raw)
	if !ok {
		return nil, apperrors.NewBadRequest("invalid restaurant filter")
	}
	return &id, nil
}

func parseIntQuery(c *fiber.Ctx, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return defaultVal
}

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// pagination converts page/page_size into limit/offset. page is clamped so
// the offset cannot overflow.
func pagination(c *fiber.Ctx) (int, int) {
	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "page_size", defaultPageSize)
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	if page-1 > math.MaxInt/pageSize {
		return pageSize, (math.MaxInt / pageSize) * pageSize
	}
	return pageSize, (page - 1) * pageSize
}
