package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/fooddash/food-delivery-service/internal/events"
)

// EventPublisher forwards events to an external broker.
type EventPublisher interface {
	PublishJSON(ctx context.Context, routingKey string, v any) error
}

// NotificationService logs domain events and forwards them to the broker
// when one is configured.
type NotificationService struct {
	dispatcher events.Dispatcher
	publisher  EventPublisher
	logger     *zap.Logger
}

// NewNotificationService creates the service. publisher may be nil.
func NewNotificationService(dispatcher events.Dispatcher, publisher EventPublisher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.forward)
	n.dispatcher.Subscribe(events.EventOrderCreated, n.forward)
	n.dispatcher.Subscribe(events.EventOrderStatusChanged, n.forward)
	n.dispatcher.Subscribe(events.EventRestaurantDeleted, n.forward)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.forward)
}

func (n *NotificationService) forward(ctx context.Context, event events.Event) error {
	if event.Type.CarriesSecret() {
		n.logger.Info(string(event.Type), zap.String("event_id", event.ID))
	} else {
		n.logger.Info(string(event.Type), zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	}
	if n.publisher == nil {
		return nil
	}
	return n.publisher.PublishJSON(ctx, string(event.Type), event)
}

// emit publishes through the dispatcher. Subscriber failures never fail the
// operation that produced the event.
func emit(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event delivery failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
