package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/fooddash/food-delivery-service/internal/domain"
)

// EventType enumerates supported event identifiers. Values double as AMQP
// routing keys.
type EventType string

const (
	EventUserRegistered     EventType = "user.registered"
	EventOrderCreated       EventType = "order.created"
	EventOrderStatusChanged EventType = "order.status_changed"
	EventRestaurantDeleted  EventType = "restaurant.deleted"

	EventPasswordResetRequested EventType = "user.password_reset_requested"
)

// CarriesSecret reports whether the payload must stay out of logs.
func (t EventType) CarriesSecret() bool {
	return t == EventPasswordResetRequested
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   *int64      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, actorID *int64, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// UserRegisteredPayload payload. Secrets are never part of an event.
type UserRegisteredPayload struct {
	UserID       int64       `json:"user_id"`
	Role         domain.Role `json:"role"`
	RestaurantID *int64      `json:"restaurant_id,omitempty"`
}

// OrderCreatedPayload payload.
type OrderCreatedPayload struct {
	OrderID      int64 `json:"order_id"`
	RestaurantID int64 `json:"restaurant_id"`
	MenuItemID   int64 `json:"menu_item_id"`
	Quantity     int   `json:"quantity"`
}

// OrderStatusChangedPayload payload.
type OrderStatusChangedPayload struct {
	OrderID      int64              `json:"order_id"`
	RestaurantID int64              `json:"restaurant_id"`
	OldStatus    domain.OrderStatus `json:"old_status"`
	NewStatus    domain.OrderStatus `json:"new_status"`
}

// RestaurantDeletedPayload payload.
type RestaurantDeletedPayload struct {
	RestaurantID int64 `json:"restaurant_id"`
}

// PasswordResetRequestedPayload is routed to the delivery channel that sends
// the token to the account holder.
type PasswordResetRequestedPayload struct {
	UserID    int64     `json:"user_id"`
	Telephone string    `json:"telephone"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
