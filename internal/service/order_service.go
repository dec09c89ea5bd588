package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/fooddash/food-delivery-service/internal/domain"
	"github.com/fooddash/food-delivery-service/internal/events"
	"github.com/fooddash/food-delivery-service/internal/repository"
	apperrors "github.com/fooddash/food-delivery-service/pkg/util/errorutil"
)

// OrderService manages orders and their lifecycle.
type OrderService struct {
	orders     repository.OrderRepository
	items      repository.MenuItemRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// OrderDependencies encapsulates collaborators for OrderService.
type OrderDependencies struct {
	OrderRepo    repository.OrderRepository
	MenuItemRepo repository.MenuItemRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewOrderService constructs the service.
func NewOrderService(deps OrderDependencies) *OrderService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orders:     deps.OrderRepo,
		items:      deps.MenuItemRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// PlaceOrderInput describes a new order.
type PlaceOrderInput struct {
	MenuItemID int64
	Quantity   int
}

// UpdateOrderInput lists the mutable order fields.
type UpdateOrderInput struct {
	Quantity *int
	Status   *domain.OrderStatus
}

// Place creates a pending order for userID. The restaurant is taken from the
// menu item.
func (s *OrderService) Place(ctx context.Context, userID int64, input PlaceOrderInput) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "orders.place")
	defer span.End()
	span.SetAttributes(attribute.Int64("order.menu_item_id", input.MenuItemID))

	if input.Quantity < 1 {
		return nil, apperrors.NewValidationError("quantity must be at least 1", nil)
	}
	item, err := s.items.GetByID(ctx, input.MenuItemID)
	if err != nil {
		return nil, mapRepoError(err, "menu item")
	}
	if !item.Available() {
		return nil, apperrors.NewBadRequest("menu item is not available")
	}

	order := &domain.Order{
		UserID:       userID,
		RestaurantID: item.RestaurantID,
		MenuItemID:   item.ID,
		Quantity:     input.Quantity,
		Status:       domain.OrderStatusPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		span.RecordError(err)
		return nil, mapRepoError(err, "order")
	}

	emit(ctx, s.dispatcher, s.logger, events.New(events.EventOrderCreated, &userID, events.OrderCreatedPayload{
		OrderID:      order.ID,
		RestaurantID: order.RestaurantID,
		MenuItemID:   order.MenuItemID,
		Quantity:     order.Quantity,
	}))
	return order, nil
}

// List returns orders within scope.
func (s *OrderService) List(ctx context.Context, scope Scope, filter repository.OrderFilter) ([]domain.Order, error) {
	if scope.Restricted() {
		filter.RestaurantID = scope.RestaurantID
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid order status", nil)
	}
	orders, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, mapRepoError(err, "order")
	}
	return orders, nil
}

// Get returns an order within scope.
func (s *OrderService) Get(ctx context.Context, scope Scope, id int64) (*domain.Order, error) {
	return s.scoped(ctx, scope, id)
}

// Update changes quantity and status. Status changes must follow the order
// lifecycle.
func (s *OrderService) Update(ctx context.Context, scope Scope, actorID int64, id int64, input UpdateOrderInput) (*domain.Order, error) {
	order, err := s.scoped(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	oldStatus := order.Status

	if input.Quantity != nil {
		if *input.Quantity < 1 {
			return nil, apperrors.NewValidationError("quantity must be at least 1", nil)
		}
		if order.Status != domain.OrderStatusPending {
			return nil, apperrors.NewBadRequest("quantity can only change while the order is pending")
		}
		order.Quantity = *input.Quantity
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperrors.NewValidationError("invalid order status", nil)
		}
		if !oldStatus.CanTransitionTo(*input.Status) {
			return nil, apperrors.NewBadRequest("order cannot move from " + string(oldStatus) + " to " + string(*input.Status))
		}
		order.Status = *input.Status
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, mapRepoError(err, "order")
	}

	if order.Status != oldStatus {
		emit(ctx, s.dispatcher, s.logger, events.New(events.EventOrderStatusChanged, &actorID, events.OrderStatusChangedPayload{
			OrderID:      order.ID,
			RestaurantID: order.RestaurantID,
			OldStatus:    oldStatus,
			NewStatus:    order.Status,
		}))
	}
	return order, nil
}

// Delete removes an order within scope.
func (s *OrderService) Delete(ctx context.Context, scope Scope, id int64) error {
	if _, err := s.scoped(ctx, scope, id); err != nil {
		return err
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return mapRepoError(err, "order")
	}
	return nil
}

func (s *OrderService) scoped(ctx context.Context, scope Scope, id int64) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "order")
	}
	if !scope.allows(order.RestaurantID) {
		return nil, apperrors.NewNotFound("order", nil)
	}
	return order, nil
}
